package logging

import (
	"github.com/rs/zerolog"
)

// hookedKeys are copied from an event's context into the event, named by
// the key itself.
var hookedKeys = []contextKey{cycleIDKey, sourceKey}

// ContextHook adds cycle_id and source to events logged with Ctx.
type ContextHook struct{}

func (ContextHook) Run(e *zerolog.Event, _ zerolog.Level, _ string) {
	ctx := e.GetCtx()
	if ctx == nil {
		return
	}

	for _, key := range hookedKeys {
		if v, ok := ctx.Value(key).(string); ok && v != "" {
			e.Str(string(key), v)
		}
	}
}
