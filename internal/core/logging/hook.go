package logging

import (
	"context"

	"github.com/rs/zerolog"
)

// ContextHook extracts notification_id and plugin from context and adds them to log events.
// The overlay logs every add, dismiss and retire with a context from
// NotificationContext, so a single notification can be traced through the log
// by its id, and all toasts of one plugin by its owner name. Events without a
// context, or with a zero id, are left untouched.
type ContextHook struct{}

// Run adds contextual fields to the zerolog event.
func (h ContextHook) Run(e *zerolog.Event, level zerolog.Level, msg string) {
	ctx := e.GetCtx()
	if ctx == context.Background() || ctx == nil {
		return
	}

	if id := GetNotificationID(ctx); id != 0 {
		e.Int64("notification_id", id)
	}

	if plugin := GetPlugin(ctx); plugin != "" {
		e.Str("plugin", plugin)
	}
}
