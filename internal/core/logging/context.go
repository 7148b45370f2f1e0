package logging

import "context"

type contextKey string

const (
	notificationIDKey contextKey = "notification_id"
	pluginKey         contextKey = "plugin"
)

// WithNotificationID adds a notification ID to the context.
func WithNotificationID(ctx context.Context, id int64) context.Context {
	return context.WithValue(ctx, notificationIDKey, id)
}

// WithPlugin adds the owning plugin name to the context.
func WithPlugin(ctx context.Context, plugin string) context.Context {
	return context.WithValue(ctx, pluginKey, plugin)
}

// GetNotificationID retrieves the notification ID from the context.
// Returns 0 if not present.
func GetNotificationID(ctx context.Context) int64 {
	if id, ok := ctx.Value(notificationIDKey).(int64); ok {
		return id
	}
	return 0
}

// GetPlugin retrieves the plugin name from the context.
// Returns empty string if not present.
func GetPlugin(ctx context.Context) string {
	if p, ok := ctx.Value(pluginKey).(string); ok {
		return p
	}
	return ""
}
