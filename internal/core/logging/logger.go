package logging

import (
	"context"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Component creates a new logger with a component identifier.
// Uses the "cmp" key for consistency with zerolog conventions.
func Component(name string) zerolog.Logger {
	return log.With().Str("cmp", name).Logger()
}

// NotificationContext returns a context carrying the notification id and, if
// set, the owning plugin, for use with zerolog's Event.Ctx.
func NotificationContext(id int64, plugin string) context.Context {
	ctx := WithNotificationID(context.Background(), id)
	if plugin != "" {
		ctx = WithPlugin(ctx, plugin)
	}
	return ctx
}
