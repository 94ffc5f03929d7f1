// Package doctor runs health checks over the configuration, checklist
// documents and schedule.
package doctor

import "context"

// Status represents the result status of a check item.
type Status string

const (
	StatusPass Status = "pass"
	StatusWarn Status = "warn"
	StatusFail Status = "fail"
)

// CheckItem represents a single line item within a check result.
type CheckItem struct {
	Label  string `json:"label"`
	Status Status `json:"status"`
	Detail string `json:"detail,omitempty"`
	// Fixable marks issues that --autofix can repair.
	Fixable bool `json:"fixable,omitempty"`
}

func (i CheckItem) needsFix() bool {
	return i.Fixable && i.Status != StatusPass
}

// Result represents the outcome of a check containing multiple items.
type Result struct {
	Name  string      `json:"name"`
	Items []CheckItem `json:"items"`
}

// Check defines the interface for a doctor check.
type Check interface {
	Name() string
	Run(ctx context.Context) Result
}

// Summary counts check items by status.
type Summary struct {
	Passed  int `json:"passed"`
	Warned  int `json:"warned"`
	Failed  int `json:"failed"`
	Fixable int `json:"fixable"`
}

// Report is the outcome of a doctor run.
type Report struct {
	Healthy bool     `json:"healthy"`
	Summary Summary  `json:"summary"`
	Checks  []Result `json:"checks"`
}

// RunAll executes checks in order. The report is healthy when no item failed.
func RunAll(ctx context.Context, checks []Check) Report {
	report := Report{Checks: make([]Result, 0, len(checks))}

	for _, check := range checks {
		result := check.Run(ctx)
		for _, item := range result.Items {
			switch item.Status {
			case StatusPass:
				report.Summary.Passed++
			case StatusWarn:
				report.Summary.Warned++
			case StatusFail:
				report.Summary.Failed++
			}
			if item.needsFix() {
				report.Summary.Fixable++
			}
		}
		report.Checks = append(report.Checks, result)
	}

	report.Healthy = report.Summary.Failed == 0
	return report
}
