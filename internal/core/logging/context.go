package logging

import "context"

type contextKey string

const (
	cycleIDKey contextKey = "cycle_id"
	sourceKey  contextKey = "source"
)

// WithCycleID adds a polling cycle ID to the context.
func WithCycleID(ctx context.Context, cycleID string) context.Context {
	return context.WithValue(ctx, cycleIDKey, cycleID)
}

// WithSource adds the checklist document path being processed to the context.
func WithSource(ctx context.Context, source string) context.Context {
	return context.WithValue(ctx, sourceKey, source)
}

// GetCycleID retrieves the cycle ID from the context.
// Returns empty string if not present.
func GetCycleID(ctx context.Context) string {
	if id, ok := ctx.Value(cycleIDKey).(string); ok {
		return id
	}
	return ""
}

// GetSource retrieves the document path from the context.
// Returns empty string if not present.
func GetSource(ctx context.Context) string {
	if s, ok := ctx.Value(sourceKey).(string); ok {
		return s
	}
	return ""
}
