package notify

import (
	"sync"
	"sync/atomic"
)

// SubscriptionID identifies a single subscription across all channels.
type SubscriptionID uint64

var subscriptionSeq atomic.Uint64

type subscriber[T any] struct {
	id    SubscriptionID
	owner string
	fn    func(T)
}

// Broadcaster is an ordered multi-subscriber event channel. Fire iterates a
// snapshot, so subscribers may be added or removed at any time from any
// goroutine, including from inside a callback.
type Broadcaster[T any] struct {
	mu   sync.Mutex
	subs []subscriber[T]

	panicMu sync.RWMutex
	onPanic []func(owner string, recovered any)
}

// Subscribe registers fn on behalf of owner. Subscribers registered after a
// Fire do not receive that earlier event.
func (b *Broadcaster[T]) Subscribe(owner string, fn func(T)) SubscriptionID {
	id := SubscriptionID(subscriptionSeq.Add(1))

	b.mu.Lock()
	defer b.mu.Unlock()

	next := make([]subscriber[T], len(b.subs), len(b.subs)+1)
	copy(next, b.subs)
	b.subs = append(next, subscriber[T]{id: id, owner: owner, fn: fn})
	return id
}

// Unsubscribe removes the subscription with the given id. Returns false if it
// was not registered here.
func (b *Broadcaster[T]) Unsubscribe(id SubscriptionID) bool {
	return b.detach(func(s subscriber[T]) bool { return s.id == id }) > 0
}

// DetachOwner removes every subscription registered by owner and returns how
// many were removed.
func (b *Broadcaster[T]) DetachOwner(owner string) int {
	return b.detach(func(s subscriber[T]) bool { return s.owner == owner })
}

// DetachFunc removes every subscription whose owner satisfies match.
func (b *Broadcaster[T]) DetachFunc(match func(owner string) bool) int {
	return b.detach(func(s subscriber[T]) bool { return match(s.owner) })
}

// Clear removes all subscriptions.
func (b *Broadcaster[T]) Clear() {
	b.mu.Lock()
	b.subs = nil
	b.mu.Unlock()
}

// Len returns the number of live subscriptions.
func (b *Broadcaster[T]) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.subs)
}

// OnPanic registers a hook that fires when a subscriber panics.
func (b *Broadcaster[T]) OnPanic(fn func(owner string, recovered any)) {
	b.panicMu.Lock()
	b.onPanic = append(b.onPanic, fn)
	b.panicMu.Unlock()
}

// Fire delivers payload to every subscriber in registration order. A panicking
// subscriber is recovered and reported to OnPanic hooks; the rest still run.
func (b *Broadcaster[T]) Fire(payload T) {
	b.mu.Lock()
	subs := b.subs
	b.mu.Unlock()

	for _, s := range subs {
		b.call(s, payload)
	}
}

func (b *Broadcaster[T]) call(s subscriber[T], payload T) {
	defer func() {
		if r := recover(); r != nil {
			b.runOnPanic(s.owner, r)
		}
	}()
	s.fn(payload)
}

func (b *Broadcaster[T]) runOnPanic(owner string, recovered any) {
	b.panicMu.RLock()
	hooks := make([]func(string, any), len(b.onPanic))
	copy(hooks, b.onPanic)
	b.panicMu.RUnlock()
	for _, fn := range hooks {
		func() {
			defer func() { recover() }() //nolint:errcheck
			fn(owner, recovered)
		}()
	}
}

func (b *Broadcaster[T]) detach(match func(subscriber[T]) bool) int {
	b.mu.Lock()
	defer b.mu.Unlock()

	kept := make([]subscriber[T], 0, len(b.subs))
	for _, s := range b.subs {
		if !match(s) {
			kept = append(kept, s)
		}
	}
	removed := len(b.subs) - len(kept)
	if removed > 0 {
		b.subs = kept
	}
	return removed
}
