package doctor

import (
	"context"
	"os/exec"
	"strings"
)

// lookPathFunc resolves the notify binary; tests replace it.
var lookPathFunc = exec.LookPath

// ToolsCheck verifies that the configured notify command can be found.
type ToolsCheck struct {
	command []string
}

// NewToolsCheck creates a new tools check for the notify command argv.
func NewToolsCheck(command []string) *ToolsCheck {
	return &ToolsCheck{command: command}
}

func (c *ToolsCheck) Name() string {
	return "Notify Command"
}

func (c *ToolsCheck) Run(_ context.Context) Result {
	result := Result{Name: c.Name()}

	if len(c.command) == 0 {
		result.Items = append(result.Items, CheckItem{
			Label:  "command",
			Status: StatusPass,
			Detail: "none configured",
		})
		return result
	}

	bin := c.command[0]
	if strings.Contains(bin, "{{") {
		result.Items = append(result.Items, CheckItem{
			Label:  bin,
			Status: StatusWarn,
			Detail: "binary is a template and cannot be checked",
		})
		return result
	}

	if path, err := lookPathFunc(bin); err != nil {
		result.Items = append(result.Items, CheckItem{
			Label:  bin,
			Status: StatusFail,
			Detail: "not found on PATH",
		})
	} else {
		result.Items = append(result.Items, CheckItem{
			Label:  bin,
			Status: StatusPass,
			Detail: path,
		})
	}

	return result
}
