package notify

import (
	"fmt"
	"sync"
	"time"
)

// DismissArgs is the payload of the dismiss channel.
type DismissArgs struct {
	Notification *Active
	Reason       DismissReason
}

// ClickArgs is the payload of the click channel.
type ClickArgs struct {
	Notification *Active
}

// DrawArgs is the payload of the draw-actions channel. Subscribers add the
// action buttons to show beneath the notification body.
type DrawArgs struct {
	Notification *Active
	Width        int

	mu      sync.Mutex
	actions []string
}

// Button adds an action button with the given label.
func (a *DrawArgs) Button(label string) {
	a.mu.Lock()
	a.actions = append(a.actions, label)
	a.mu.Unlock()
}

// Actions returns the labels added during the draw pass.
func (a *DrawArgs) Actions() []string {
	a.mu.Lock()
	defer a.mu.Unlock()
	out := make([]string, len(a.actions))
	copy(out, a.actions)
	return out
}

// Option configures an Active notification.
type Option func(*Active)

// WithClock replaces time.Now as the notification's time source.
func WithClock(now func() time.Time) Option {
	return func(a *Active) {
		a.now = now
	}
}

// Active is a live notification. All mutators are safe for concurrent use;
// each one is applied atomically relative to CheckExpiry.
type Active struct {
	id        int64
	createdAt time.Time
	base      Notification
	now       func() time.Time

	mu          sync.Mutex
	hardExpiry  time.Time
	softExpiry  time.Time
	reason      *DismissReason
	dismissedAt time.Time
	icon        Texture

	dismiss     Broadcaster[DismissArgs]
	click       Broadcaster[ClickArgs]
	drawActions Broadcaster[*DrawArgs]
}

// New creates an active notification from base with the given hard expiry
// ceiling. Pass Never for a notification without a hard ceiling.
func New(base Notification, hardExpiry time.Time, opts ...Option) *Active {
	a := &Active{
		id:   NextID(),
		base: base,
		now:  time.Now,
	}
	for _, opt := range opts {
		opt(a)
	}

	a.createdAt = a.now()
	a.hardExpiry = hardExpiry

	switch {
	case base.NoAutoExpiry:
		a.softExpiry = Never
	case base.InitialDuration > 0:
		a.softExpiry = EffectiveExpiry(hardExpiry, a.createdAt.Add(base.InitialDuration))
	default:
		a.softExpiry = hardExpiry
	}

	return a
}

func (a *Active) ID() int64 { return a.id }

func (a *Active) CreatedAt() time.Time { return a.createdAt }

// Notification returns the base data the notification was created from.
func (a *Active) Notification() Notification { return a.base }

func (a *Active) HardExpiry() time.Time {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.hardExpiry
}

func (a *Active) SoftExpiry() time.Time {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.softExpiry
}

// EffectiveExpiry returns the time at which the notification times out, or
// Never. Derived on every call.
func (a *Active) EffectiveExpiry() time.Time {
	a.mu.Lock()
	defer a.mu.Unlock()
	return EffectiveExpiry(a.hardExpiry, a.softExpiry)
}

// DismissReason returns the reason the notification was dismissed. The second
// value is false while the notification is still active.
func (a *Active) DismissReason() (DismissReason, bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.reason == nil {
		return 0, false
	}
	return *a.reason, true
}

func (a *Active) IsDismissed() bool {
	_, ok := a.DismissReason()
	return ok
}

// DismissedAt returns when the notification was dismissed, or the zero time.
func (a *Active) DismissedAt() time.Time {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.dismissedAt
}

// ExtendBy pushes the soft expiry back by d, never past the hard expiry.
// Has no effect once the notification is dismissed.
func (a *Active) ExtendBy(d time.Duration) error {
	if d < 0 {
		return fmt.Errorf("extend notification %d by %s: %w", a.id, d, ErrInvalidArgument)
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	if a.reason != nil || IsNever(a.softExpiry) {
		return nil
	}

	a.softExpiry = EffectiveExpiry(a.hardExpiry, a.softExpiry.Add(d))
	return nil
}

// SetIconTexture overrides the icon with tex, or reverts to the base icon when
// tex is nil. The notification never disposes tex.
func (a *Active) SetIconTexture(tex Texture) {
	a.mu.Lock()
	a.icon = tex
	a.mu.Unlock()
}

// Icon returns the icon override if one is set and still valid.
func (a *Active) Icon() (Texture, bool) {
	a.mu.Lock()
	tex := a.icon
	a.mu.Unlock()

	if tex == nil || !tex.Valid() {
		return nil, false
	}
	return tex, true
}

// IconGlyph returns the glyph to draw: the valid override, else the base icon,
// else the default for the notification type.
func (a *Active) IconGlyph() string {
	if tex, ok := a.Icon(); ok {
		if g := tex.Glyph(); g != "" {
			return g
		}
	}
	if a.base.Icon != "" {
		return a.base.Icon
	}
	return DefaultIcon(a.base.Type)
}

// DismissNow dismisses the notification with the given reason, Manual if
// omitted. Only the first call has any effect; the dismiss channel fires
// exactly once.
func (a *Active) DismissNow(reason ...DismissReason) {
	r := Manual
	if len(reason) > 0 {
		r = reason[0]
	}
	a.dismissWith(r)
}

// dismissWith sets the terminal state before firing so that a DismissNow from
// inside a dismiss callback is a no-op.
func (a *Active) dismissWith(r DismissReason) bool {
	a.mu.Lock()
	if a.reason != nil {
		a.mu.Unlock()
		return false
	}
	a.markDismissedLocked(r)
	a.mu.Unlock()

	a.dismiss.Fire(DismissArgs{Notification: a, Reason: r})
	return true
}

func (a *Active) markDismissedLocked(r DismissReason) {
	a.reason = &r
	a.dismissedAt = a.now()
}

// CheckExpiry dismisses the notification with TimedOut if its effective
// expiry has been reached at now. Returns true if this call dismissed it.
// The expiry test and the state change happen under one lock, so a
// concurrent ExtendBy either lands before the test or is a no-op after it.
func (a *Active) CheckExpiry(now time.Time) bool {
	a.mu.Lock()
	if a.reason != nil || !Expired(EffectiveExpiry(a.hardExpiry, a.softExpiry), now) {
		a.mu.Unlock()
		return false
	}
	a.markDismissedLocked(TimedOut)
	a.mu.Unlock()

	a.dismiss.Fire(DismissArgs{Notification: a, Reason: TimedOut})
	return true
}

// OnDismiss subscribes fn to the dismiss channel on behalf of owner.
func (a *Active) OnDismiss(owner string, fn func(DismissArgs)) SubscriptionID {
	return a.dismiss.Subscribe(owner, fn)
}

// OnClick subscribes fn to the click channel. Click keeps firing after the
// notification is dismissed.
func (a *Active) OnClick(owner string, fn func(ClickArgs)) SubscriptionID {
	return a.click.Subscribe(owner, fn)
}

// OnDrawActions subscribes fn to the draw-actions channel. It keeps firing
// while the dismiss animation plays.
func (a *Active) OnDrawActions(owner string, fn func(*DrawArgs)) SubscriptionID {
	return a.drawActions.Subscribe(owner, fn)
}

// Unsubscribe removes a subscription from whichever channel holds it.
func (a *Active) Unsubscribe(id SubscriptionID) bool {
	return a.dismiss.Unsubscribe(id) || a.click.Unsubscribe(id) || a.drawActions.Unsubscribe(id)
}

// DetachOwner removes every subscription owner holds on any channel.
func (a *Active) DetachOwner(owner string) int {
	return a.dismiss.DetachOwner(owner) + a.click.DetachOwner(owner) + a.drawActions.DetachOwner(owner)
}

// DetachFunc removes every subscription whose owner satisfies match.
func (a *Active) DetachFunc(match func(owner string) bool) int {
	return a.dismiss.DetachFunc(match) + a.click.DetachFunc(match) + a.drawActions.DetachFunc(match)
}

// OnPanic registers fn on all three channels.
func (a *Active) OnPanic(fn func(owner string, recovered any)) {
	a.dismiss.OnPanic(fn)
	a.click.OnPanic(fn)
	a.drawActions.OnPanic(fn)
}

// Click notifies click subscribers.
func (a *Active) Click() {
	a.click.Fire(ClickArgs{Notification: a})
}

// DrawActions runs the draw-actions subscribers against args.
func (a *Active) DrawActions(args *DrawArgs) {
	args.Notification = a
	a.drawActions.Fire(args)
}
