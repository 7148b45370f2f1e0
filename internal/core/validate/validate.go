// Package validate provides shared validation functions.
package validate

import (
	"fmt"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/hay-kot/criterio"

	"github.com/colonyops/beacon/internal/core/notify"
)

// NotificationType validates a notification type name. Empty is accepted and
// means info.
func NotificationType(s string) error {
	switch notify.Type(s) {
	case "", notify.TypeInfo, notify.TypeSuccess, notify.TypeWarning, notify.TypeError:
		return nil
	}
	return fmt.Errorf("unknown notification type %q", s)
}

// NotificationTypeField returns a criterio validator for notification types.
func NotificationTypeField(field, s string) error {
	return criterio.Run(field, s, NotificationType)
}

// OwnerPattern validates a plugin owner glob as used by the unload sweep.
func OwnerPattern(pattern string) error {
	if strings.TrimSpace(pattern) == "" {
		return fmt.Errorf("pattern is required")
	}
	if !doublestar.ValidatePattern(pattern) {
		return fmt.Errorf("invalid glob %q", pattern)
	}
	return nil
}

// OwnerPatternField returns a criterio validator for owner globs.
func OwnerPatternField(field, pattern string) error {
	return criterio.Run(field, pattern, OwnerPattern)
}
