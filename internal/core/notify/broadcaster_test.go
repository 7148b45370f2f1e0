package notify

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBroadcaster_Fire_InRegistrationOrder(t *testing.T) {
	var b Broadcaster[int]
	var got []string

	b.Subscribe("a", func(int) { got = append(got, "a") })
	b.Subscribe("b", func(int) { got = append(got, "b") })
	b.Subscribe("c", func(int) { got = append(got, "c") })

	b.Fire(1)

	assert.Equal(t, []string{"a", "b", "c"}, got)
}

func TestBroadcaster_LateSubscriberMissesPastEvent(t *testing.T) {
	var b Broadcaster[string]
	var got []string

	b.Fire("early")
	b.Subscribe("late", func(s string) { got = append(got, s) })
	b.Fire("later")

	assert.Equal(t, []string{"later"}, got)
}

func TestBroadcaster_Unsubscribe(t *testing.T) {
	var b Broadcaster[int]
	calls := 0

	id := b.Subscribe("p", func(int) { calls++ })
	assert.True(t, b.Unsubscribe(id))
	assert.False(t, b.Unsubscribe(id))

	b.Fire(1)
	assert.Zero(t, calls)
}

func TestBroadcaster_DetachOwner(t *testing.T) {
	var b Broadcaster[int]
	var got []string

	b.Subscribe("plugin-a", func(int) { got = append(got, "a1") })
	b.Subscribe("plugin-b", func(int) { got = append(got, "b") })
	b.Subscribe("plugin-a", func(int) { got = append(got, "a2") })

	assert.Equal(t, 2, b.DetachOwner("plugin-a"))
	assert.Equal(t, 1, b.Len())

	b.Fire(0)
	assert.Equal(t, []string{"b"}, got)
}

func TestBroadcaster_Clear_MidIteration(t *testing.T) {
	var b Broadcaster[int]
	var got []string

	b.Subscribe("first", func(int) {
		got = append(got, "first")
		b.Clear()
	})
	b.Subscribe("second", func(int) { got = append(got, "second") })

	// The running fire works from its snapshot; the clear applies to the next one.
	b.Fire(1)
	assert.Equal(t, []string{"first", "second"}, got)

	b.Fire(2)
	assert.Equal(t, []string{"first", "second"}, got)
	assert.Zero(t, b.Len())
}

func TestBroadcaster_Subscribe_DuringFire(t *testing.T) {
	var b Broadcaster[int]
	calls := 0

	b.Subscribe("outer", func(int) {
		b.Subscribe("inner", func(int) { calls++ })
	})

	b.Fire(1)
	assert.Zero(t, calls, "subscriber added mid-fire should not see the current event")

	b.Fire(2)
	assert.Equal(t, 1, calls)
}

func TestBroadcaster_PanickingSubscriber(t *testing.T) {
	var b Broadcaster[int]
	var (
		reached     bool
		panicOwner  string
		panicValue  any
		hookInvoked int
	)

	b.OnPanic(func(owner string, recovered any) {
		hookInvoked++
		panicOwner = owner
		panicValue = recovered
	})
	b.Subscribe("bad", func(int) { panic("boom") })
	b.Subscribe("good", func(int) { reached = true })

	assert.NotPanics(t, func() { b.Fire(1) })
	assert.True(t, reached)
	assert.Equal(t, 1, hookInvoked)
	assert.Equal(t, "bad", panicOwner)
	assert.Equal(t, "boom", panicValue)
}

func TestBroadcaster_ConcurrentSubscribeAndFire(t *testing.T) {
	var (
		b  Broadcaster[int]
		wg sync.WaitGroup
	)

	for range 8 {
		wg.Add(2)
		go func() {
			defer wg.Done()
			for range 100 {
				id := b.Subscribe("p", func(int) {})
				b.Unsubscribe(id)
			}
		}()
		go func() {
			defer wg.Done()
			for i := range 100 {
				b.Fire(i)
			}
		}()
	}
	wg.Wait()

	assert.Zero(t, b.Len())
}
