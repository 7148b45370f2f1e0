// Package notify implements the lifecycle of active toast notifications:
// identifier allocation, expiry derivation, dismissal and event fan-out.
package notify

import "time"

// Type represents the visual category of a notification.
type Type string

const (
	TypeInfo    Type = "info"
	TypeSuccess Type = "success"
	TypeWarning Type = "warning"
	TypeError   Type = "error"
)

// Notification is the base data supplied by whoever raises a toast.
type Notification struct {
	Title   string
	Content string
	Type    Type
	// Owner is the plugin that raised the notification. Used by the unload
	// sweep to find subscriptions and toasts belonging to a plugin.
	Owner string
	// Icon is the default glyph drawn when no texture override is set.
	Icon string
	// InitialDuration, when positive, sets the soft expiry relative to
	// creation instead of starting it at the hard expiry.
	InitialDuration time.Duration
	// NoAutoExpiry leaves the soft expiry at Never.
	NoAutoExpiry    bool
	UserDismissable bool
}

// DefaultIcon returns the glyph used for t when the base data has none.
func DefaultIcon(t Type) string {
	switch t {
	case TypeSuccess:
		return "✔"
	case TypeWarning:
		return "⚠"
	case TypeError:
		return "✖"
	default:
		return "ℹ"
	}
}
