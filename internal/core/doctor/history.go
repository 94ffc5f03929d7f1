package doctor

import (
	"context"
	"fmt"

	"github.com/hay-kot/mbot/internal/data/db"
)

// SchemaReporter is the part of the history database the check inspects.
type SchemaReporter interface {
	Path() string
	SchemaStatus(ctx context.Context) (db.SchemaStatus, error)
}

// HistoryCheck reports whether the notification history database is open and
// fully migrated. A nil reporter means history is disabled.
type HistoryCheck struct {
	reporter SchemaReporter
}

func NewHistoryCheck(reporter SchemaReporter) *HistoryCheck {
	return &HistoryCheck{reporter: reporter}
}

func (c *HistoryCheck) Name() string {
	return "History"
}

func (c *HistoryCheck) Run(ctx context.Context) Result {
	result := Result{Name: c.Name()}

	if c.reporter == nil {
		result.Items = append(result.Items, CheckItem{
			Label:  "database",
			Status: StatusPass,
			Detail: "disabled",
		})
		return result
	}

	status, err := c.reporter.SchemaStatus(ctx)
	switch {
	case err != nil:
		result.Items = append(result.Items, CheckItem{
			Label:  c.reporter.Path(),
			Status: StatusFail,
			Detail: err.Error(),
		})
	case !status.UpToDate():
		result.Items = append(result.Items, CheckItem{
			Label:  c.reporter.Path(),
			Status: StatusWarn,
			Detail: fmt.Sprintf("schema at version %d of %d", status.Current, status.Latest),
		})
	default:
		result.Items = append(result.Items, CheckItem{
			Label:  c.reporter.Path(),
			Status: StatusPass,
			Detail: fmt.Sprintf("schema version %d", status.Current),
		})
	}

	return result
}
