package mbot

import (
	"context"
	"time"

	"github.com/hay-kot/mbot/internal/core/config"
	"github.com/hay-kot/mbot/internal/core/doctor"
	"github.com/hay-kot/mbot/internal/core/document"
	"github.com/hay-kot/mbot/internal/data/db"
)

// DoctorService runs health checks on the mbot setup.
type DoctorService struct {
	config   *config.Config
	provider document.Provider
	db       *db.DB
	now      func() time.Time
}

// NewDoctorService creates a new DoctorService. database is nil when history
// is disabled.
func NewDoctorService(cfg *config.Config, provider document.Provider, database *db.DB, now func() time.Time) *DoctorService {
	return &DoctorService{config: cfg, provider: provider, db: database, now: now}
}

// RunChecks executes all doctor checks.
func (d *DoctorService) RunChecks(ctx context.Context, configPath string, autofix bool) doctor.Report {
	var history doctor.SchemaReporter
	if d.db != nil {
		history = d.db
	}

	checks := []doctor.Check{
		doctor.NewConfigCheck(d.config, configPath),
		doctor.NewDataDirCheck(d.config.DataDir, autofix),
		doctor.NewHistoryCheck(history),
		doctor.NewToolsCheck(d.config.Notify.Command),
		doctor.NewDocumentsCheck(d.provider),
	}

	// The schedule check needs parsed tasks; skip it when documents are
	// unreadable since the documents check already reports that.
	if tasks, err := ReadTasks(ctx, d.provider); err == nil {
		checks = append(checks, doctor.NewScheduleCheck(tasks, d.config.Evaluator(), d.now()))
	}

	return doctor.RunAll(ctx, checks)
}
