// Package overlay hosts the live toast stack: it creates notifications, drives
// their expiry from the render loop and retires them once their dismiss
// animation has played.
package overlay

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/rs/zerolog"

	"github.com/colonyops/beacon/internal/core/config"
	"github.com/colonyops/beacon/internal/core/logging"
	"github.com/colonyops/beacon/internal/core/notify"
)

// HostOwner is the subscription owner used by the overlay itself. The unload
// sweep never detaches it.
const HostOwner = "beacon.host"

// ErrNotFound is returned when an operation names a toast that is not live.
var ErrNotFound = errors.New("notification not found")

// Options configures a Manager.
type Options struct {
	DefaultDuration  time.Duration
	DismissAnimation time.Duration
	MaxToasts        int
	Clock            func() time.Time // defaults to time.Now
}

// OptionsFromConfig maps the overlay config section onto Options.
func OptionsFromConfig(cfg config.OverlayConfig) Options {
	return Options{
		DefaultDuration:  cfg.DefaultDuration.Std(),
		DismissAnimation: cfg.DismissAnimation.Std(),
		MaxToasts:        cfg.MaxToasts,
	}
}

// Manager owns the toast stack. Add is safe from any goroutine; the remaining
// methods are meant for the render loop but are also safe to call concurrently.
type Manager struct {
	opts   Options
	store  notify.Store
	logger zerolog.Logger

	mu     sync.Mutex
	toasts []*notify.Active
}

// NewManager creates a manager. If store is nil, dismissals are logged but not
// persisted.
func NewManager(opts Options, store notify.Store, logger zerolog.Logger) *Manager {
	if opts.Clock == nil {
		opts.Clock = time.Now
	}
	if opts.MaxToasts < 1 {
		opts.MaxToasts = 1
	}
	return &Manager{
		opts:   opts,
		store:  store,
		logger: logger,
	}
}

// Now returns the manager's current time.
func (m *Manager) Now() time.Time {
	return m.opts.Clock()
}

// Add creates a toast from base with the default hard expiry, or none if base
// opts out of auto expiry.
func (m *Manager) Add(base notify.Notification) *notify.Active {
	hard := notify.Never
	if !base.NoAutoExpiry {
		hard = m.opts.Clock().Add(m.opts.DefaultDuration)
	}
	return m.AddWithExpiry(base, hard)
}

// AddWithExpiry creates a toast with an explicit hard expiry. If the stack
// exceeds MaxToasts live toasts, the oldest are dismissed as Replaced.
func (m *Manager) AddWithExpiry(base notify.Notification, hardExpiry time.Time) *notify.Active {
	n := notify.New(base, hardExpiry, notify.WithClock(m.opts.Clock))
	n.OnDismiss(HostOwner, m.onDismiss)
	n.OnPanic(m.onPanic)

	m.mu.Lock()
	m.toasts = append(m.toasts, n)
	replaced := m.overflowLocked()
	m.mu.Unlock()

	m.logger.Debug().
		Ctx(notificationCtx(n)).
		Str("title", base.Title).
		Time("effective_expiry", n.EffectiveExpiry()).
		Msg("notification added")

	for _, old := range replaced {
		old.DismissNow(notify.Replaced)
	}

	return n
}

// overflowLocked returns the oldest live toasts beyond MaxToasts.
func (m *Manager) overflowLocked() []*notify.Active {
	var live []*notify.Active
	for _, t := range m.toasts {
		if !t.IsDismissed() {
			live = append(live, t)
		}
	}
	if len(live) <= m.opts.MaxToasts {
		return nil
	}
	return live[:len(live)-m.opts.MaxToasts]
}

// Tick applies automatic timeouts at now and retires toasts whose dismiss
// animation has finished. Returns true if the stack changed.
func (m *Manager) Tick(now time.Time) bool {
	changed := false
	for _, t := range m.Toasts() {
		if t.CheckExpiry(now) {
			changed = true
		}
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	alive := m.toasts[:0]
	for _, t := range m.toasts {
		if t.IsDismissed() && !now.Before(t.DismissedAt().Add(m.opts.DismissAnimation)) {
			m.logger.Debug().Ctx(notificationCtx(t)).Msg("notification retired")
			changed = true
			continue
		}
		alive = append(alive, t)
	}
	clear(m.toasts[len(alive):])
	m.toasts = alive

	return changed
}

// Dismiss dismisses the newest live toast as UserDismissed.
func (m *Manager) Dismiss() bool {
	live := m.Live()
	if len(live) == 0 {
		return false
	}
	live[len(live)-1].DismissNow(notify.UserDismissed)
	return true
}

// DismissAll dismisses every live toast with reason.
func (m *Manager) DismissAll(reason notify.DismissReason) {
	for _, t := range m.Live() {
		t.DismissNow(reason)
	}
}

// Get returns the toast with the given id if it has not been retired.
func (m *Manager) Get(id int64) (*notify.Active, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, t := range m.toasts {
		if t.ID() == id {
			return t, true
		}
	}
	return nil, false
}

// Click forwards a user click to the toast with the given id.
func (m *Manager) Click(id int64) error {
	t, ok := m.Get(id)
	if !ok {
		return fmt.Errorf("click %d: %w", id, ErrNotFound)
	}
	t.Click()
	return nil
}

// Extend extends the toast with the given id by d.
func (m *Manager) Extend(id int64, d time.Duration) error {
	t, ok := m.Get(id)
	if !ok {
		return fmt.Errorf("extend %d: %w", id, ErrNotFound)
	}
	return t.ExtendBy(d)
}

// Unload is the plugin-unload sweep. It detaches every subscription whose
// owner matches pattern (a doublestar glob), then dismisses the matching
// plugins' toasts as PluginUnload. Returns the number of toasts dismissed.
func (m *Manager) Unload(pattern string) (int, error) {
	if !doublestar.ValidatePattern(pattern) {
		return 0, fmt.Errorf("unload %q: %w", pattern, doublestar.ErrBadPattern)
	}

	match := func(owner string) bool {
		if owner == HostOwner {
			return false
		}
		ok, _ := doublestar.Match(pattern, owner)
		return ok
	}

	dismissed := 0
	for _, t := range m.Toasts() {
		detached := t.DetachFunc(match)
		if detached > 0 {
			m.logger.Debug().Ctx(notificationCtx(t)).Int("subscriptions", detached).Msg("detached plugin subscriptions")
		}
		if match(t.Notification().Owner) && !t.IsDismissed() {
			t.DismissNow(notify.PluginUnload)
			dismissed++
		}
	}

	m.logger.Info().Str("pattern", pattern).Int("dismissed", dismissed).Msg("plugin unload sweep")
	return dismissed, nil
}

// Toasts returns a snapshot of the stack, oldest first, including toasts
// still playing their dismiss animation.
func (m *Manager) Toasts() []*notify.Active {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]*notify.Active, len(m.toasts))
	copy(out, m.toasts)
	return out
}

// Live returns the toasts that have not been dismissed, oldest first.
func (m *Manager) Live() []*notify.Active {
	all := m.Toasts()
	live := all[:0]
	for _, t := range all {
		if !t.IsDismissed() {
			live = append(live, t)
		}
	}
	return live
}

// HasToasts returns true if anything is left to draw.
func (m *Manager) HasToasts() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.toasts) > 0
}

func (m *Manager) onDismiss(args notify.DismissArgs) {
	n := args.Notification
	ctx := notificationCtx(n)

	m.logger.Debug().Ctx(ctx).Str("reason", args.Reason.String()).Msg("notification dismissed")

	if m.store == nil {
		return
	}

	rec, ok := notify.RecordOf(n)
	if !ok {
		return
	}
	if err := m.store.Save(ctx, rec); err != nil {
		m.logger.Error().Ctx(ctx).Err(err).Msg("failed to persist dismissal")
	}
}

func (m *Manager) onPanic(owner string, recovered any) {
	m.logger.Error().
		Str("owner", owner).
		Str("panic", fmt.Sprint(recovered)).
		Msg("notification subscriber panicked")
}

func notificationCtx(n *notify.Active) context.Context {
	return logging.NotificationContext(n.ID(), n.Notification().Owner)
}
