package mbot

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/hay-kot/mbot/internal/core/document"
	"github.com/hay-kot/mbot/internal/core/reminder"
	"github.com/hay-kot/mbot/internal/core/task"
)

// Status describes where a task stands relative to a moment.
type Status string

const (
	StatusDone     Status = "done"
	StatusDue      Status = "due"
	StatusMissed   Status = "missed"
	StatusUpcoming Status = "upcoming"
)

// Entry is a task with its status at the moment the agenda was built.
type Entry struct {
	Task   task.Task `json:"task"`
	Status Status    `json:"status"`
	// At is when the task's window opens.
	At time.Time `json:"at"`
}

// ReadTasks reads every document from provider and parses it. Tasks keep
// their source path and line number.
func ReadTasks(ctx context.Context, provider document.Provider) ([]task.Task, error) {
	docs, err := provider.Read(ctx)
	if err != nil {
		return nil, err
	}

	var tasks []task.Task
	for _, doc := range docs {
		parsed, err := task.ParseSource(strings.NewReader(doc.Content), doc.Path)
		if err != nil {
			return nil, fmt.Errorf("parse %s: %w", doc.Path, err)
		}
		tasks = append(tasks, parsed...)
	}
	return tasks, nil
}

// Agenda classifies tasks at now and orders them by window start. It is a
// read-only view and does not consult or change any notified set.
func Agenda(tasks []task.Task, evaluator reminder.Evaluator, now time.Time) []Entry {
	window := evaluator.Window
	if window <= 0 {
		window = reminder.DefaultWindow
	}

	entries := make([]Entry, 0, len(tasks))
	for _, t := range tasks {
		at, ok := evaluator.Start(t, now.Location())
		if !ok {
			continue
		}

		e := Entry{Task: t, At: at}
		switch {
		case t.Completed:
			e.Status = StatusDone
		case evaluator.Due(now, t):
			e.Status = StatusDue
		case !now.Before(at.Add(window)):
			e.Status = StatusMissed
		default:
			e.Status = StatusUpcoming
		}
		entries = append(entries, e)
	}

	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].At.Before(entries[j].At)
	})
	return entries
}
