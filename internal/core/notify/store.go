// Package notify defines the notification history model.
package notify

import (
	"context"
	"time"
)

// Level represents the severity of a notification.
type Level string

const (
	LevelInfo    Level = "info"
	LevelWarning Level = "warning"
	LevelError   Level = "error"
)

// IsValid reports whether l is a known level.
func (l Level) IsValid() bool {
	switch l {
	case LevelInfo, LevelWarning, LevelError:
		return true
	default:
		return false
	}
}

// Notification is one entry in the notification history. Reminders carry the
// identity key of the task that fired; operational notices leave it empty.
type Notification struct {
	ID        int64     `json:"id"`
	Level     Level     `json:"level"`
	Message   string    `json:"message"`
	Key       string    `json:"key,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// Store persists notification history. It is an append-only log for the
// operator and is never consulted when deciding whether to fire a reminder.
type Store interface {
	Save(ctx context.Context, n Notification) (int64, error)
	// List returns notifications newest first. limit <= 0 means no limit.
	List(ctx context.Context, limit int) ([]Notification, error)
	Clear(ctx context.Context) error
	Count(ctx context.Context) (int64, error)
}
