package overlay

import (
	"time"

	"github.com/colonyops/beacon/internal/core/notify"
)

// Frame is everything needed to draw one toast on one render tick.
type Frame struct {
	ID        int64
	Type      notify.Type
	Glyph     string
	Title     string
	Content   string
	Actions   []string
	Dismissed bool
	// Remaining is the time left before timeout, or -1 if the toast never
	// times out. Zero once dismissed.
	Remaining time.Duration
}

// Frames runs the draw-actions pass for every toast and returns what to draw,
// oldest first. Toasts playing their dismiss animation are included.
func (m *Manager) Frames(now time.Time, width int) []Frame {
	toasts := m.Toasts()
	frames := make([]Frame, 0, len(toasts))

	for _, t := range toasts {
		args := &notify.DrawArgs{Width: width}
		t.DrawActions(args)

		base := t.Notification()
		f := Frame{
			ID:        t.ID(),
			Type:      base.Type,
			Glyph:     t.IconGlyph(),
			Title:     base.Title,
			Content:   base.Content,
			Actions:   args.Actions(),
			Dismissed: t.IsDismissed(),
		}

		switch expiry := t.EffectiveExpiry(); {
		case f.Dismissed:
		case notify.IsNever(expiry):
			f.Remaining = -1
		default:
			f.Remaining = max(expiry.Sub(now), 0)
		}

		frames = append(frames, f)
	}

	return frames
}
