package notify

import "fmt"

// DismissReason records why a notification left the active state.
type DismissReason int

const (
	// Manual is used when code dismisses the notification directly.
	Manual DismissReason = iota
	UserDismissed
	TimedOut
	// Replaced is used when a newer toast pushed this one off the stack.
	Replaced
	PluginUnload
)

var reasonNames = map[DismissReason]string{
	Manual:        "manual",
	UserDismissed: "user_dismissed",
	TimedOut:      "timed_out",
	Replaced:      "replaced",
	PluginUnload:  "plugin_unload",
}

func (r DismissReason) String() string {
	if s, ok := reasonNames[r]; ok {
		return s
	}
	return fmt.Sprintf("dismiss_reason(%d)", int(r))
}

// ParseDismissReason is the inverse of DismissReason.String.
func ParseDismissReason(s string) (DismissReason, error) {
	for r, name := range reasonNames {
		if name == s {
			return r, nil
		}
	}
	return 0, fmt.Errorf("unknown dismiss reason %q", s)
}
