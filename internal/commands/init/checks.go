package initcmd

import (
	"context"
	"os"

	"github.com/hay-kot/mbot/internal/core/config"
	"github.com/hay-kot/mbot/internal/core/doctor"
	"github.com/hay-kot/mbot/internal/core/document"
)

// InitCheck validates the init wizard results.
type InitCheck struct {
	configPath string
	cfg        *config.Config
}

// NewInitCheck creates a new init validation check.
func NewInitCheck(configPath string, cfg *config.Config) *InitCheck {
	return &InitCheck{configPath: configPath, cfg: cfg}
}

func (c *InitCheck) Name() string {
	return "Init Validation"
}

func (c *InitCheck) Run(ctx context.Context) doctor.Result {
	result := doctor.Result{Name: c.Name()}

	result.Items = append(result.Items, c.checkConfigFile())

	// Reuse the doctor checks for documents and the notify command.
	checks := []doctor.Check{
		doctor.NewDocumentsCheck(document.NewFileProvider(c.cfg.BaseDir, c.cfg.Documents...)),
		doctor.NewToolsCheck(c.cfg.Notify.Command),
	}
	for _, r := range doctor.RunAll(ctx, checks).Checks {
		result.Items = append(result.Items, r.Items...)
	}

	return result
}

func (c *InitCheck) checkConfigFile() doctor.CheckItem {
	if _, err := os.Stat(c.configPath); err != nil {
		return doctor.CheckItem{
			Label:  "Config file",
			Status: doctor.StatusFail,
			Detail: c.configPath + " not found",
		}
	}
	if _, err := config.Load(c.configPath, c.cfg.DataDir); err != nil {
		return doctor.CheckItem{
			Label:  "Config file",
			Status: doctor.StatusFail,
			Detail: err.Error(),
		}
	}
	return doctor.CheckItem{
		Label:  "Config file",
		Status: doctor.StatusPass,
		Detail: c.configPath,
	}
}
