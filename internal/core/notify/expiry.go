package notify

import "time"

// Never marks an expiry that is never reached.
var Never = time.Time{}

// IsNever reports whether t is the Never sentinel.
func IsNever(t time.Time) bool {
	return t.IsZero()
}

// EffectiveExpiry returns the earlier of hard and soft, treating Never as
// positive infinity. Returns Never only when both are Never.
func EffectiveExpiry(hard, soft time.Time) time.Time {
	switch {
	case IsNever(hard):
		return soft
	case IsNever(soft):
		return hard
	case soft.Before(hard):
		return soft
	default:
		return hard
	}
}

// Expired reports whether effective has been reached at now.
func Expired(effective, now time.Time) bool {
	return !IsNever(effective) && !now.Before(effective)
}
