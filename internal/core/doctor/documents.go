package doctor

import (
	"bufio"
	"context"
	"fmt"
	"strings"

	"github.com/hay-kot/mbot/internal/core/document"
	"github.com/hay-kot/mbot/internal/core/task"
)

// checklistPrefix marks lines that look like checklist items. Lines with
// this prefix that fail to parse are reported as skipped.
const checklistPrefix = "- ["

// DocumentsCheck reads every checklist document and reports parse results.
type DocumentsCheck struct {
	provider document.Provider
}

// NewDocumentsCheck creates a new documents check.
func NewDocumentsCheck(provider document.Provider) *DocumentsCheck {
	return &DocumentsCheck{provider: provider}
}

func (c *DocumentsCheck) Name() string {
	return "Documents"
}

func (c *DocumentsCheck) Run(ctx context.Context) Result {
	result := Result{Name: c.Name()}

	docs, err := c.provider.Read(ctx)
	if err != nil {
		result.Items = append(result.Items, CheckItem{
			Label:  "read",
			Status: StatusFail,
			Detail: err.Error(),
		})
		return result
	}

	for _, doc := range docs {
		tasks := task.Parse(doc.Content)
		sum := task.Summarize(tasks)
		skipped := countSkipped(doc.Content)

		item := CheckItem{
			Label:  doc.Path,
			Status: StatusPass,
			Detail: fmt.Sprintf("%d tasks, %d pending", sum.Total, sum.Total-sum.Completed),
		}
		switch {
		case skipped > 0:
			item.Status = StatusWarn
			item.Detail += fmt.Sprintf(", %d malformed checklist lines skipped", skipped)
		case sum.Total == 0:
			item.Status = StatusWarn
			item.Detail = "no scheduled tasks found"
		}
		result.Items = append(result.Items, item)
	}

	return result
}

// countSkipped counts checklist-looking lines the parser rejects.
func countSkipped(content string) int {
	n := 0
	sc := bufio.NewScanner(strings.NewReader(content))
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for sc.Scan() {
		line := strings.TrimRight(sc.Text(), "\r")
		if !strings.HasPrefix(line, checklistPrefix) {
			continue
		}
		if _, ok := task.ParseLine(line); !ok {
			n++
		}
	}
	return n
}
