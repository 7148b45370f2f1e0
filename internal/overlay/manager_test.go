package overlay

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/colonyops/beacon/internal/core/notify"
)

// memStore is an in-memory notify.Store for testing.
type memStore struct {
	mu    sync.Mutex
	items []notify.Record
}

func (m *memStore) Save(_ context.Context, r notify.Record) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.items = append(m.items, r)
	return nil
}

func (m *memStore) List(_ context.Context) ([]notify.Record, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]notify.Record, len(m.items))
	for i, r := range m.items {
		out[len(m.items)-1-i] = r
	}
	return out, nil
}

func (m *memStore) Clear(_ context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.items = nil
	return nil
}

func (m *memStore) Count(_ context.Context) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return int64(len(m.items)), nil
}

type testClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *testClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *testClock) Advance(d time.Duration) time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
	return c.now
}

const (
	testDuration  = 5 * time.Second
	testAnimation = 300 * time.Millisecond
	testMaxToasts = 3
)

func newTestManager(t *testing.T) (*Manager, *testClock, *memStore) {
	t.Helper()
	clock := &testClock{now: time.Date(2026, 5, 1, 8, 0, 0, 0, time.UTC)}
	store := &memStore{}
	m := NewManager(Options{
		DefaultDuration:  testDuration,
		DismissAnimation: testAnimation,
		MaxToasts:        testMaxToasts,
		Clock:            clock.Now,
	}, store, zerolog.Nop())
	return m, clock, store
}

func TestManager_Add(t *testing.T) {
	m, clock, _ := newTestManager(t)

	n := m.Add(notify.Notification{Title: "hello"})

	assert.True(t, m.HasToasts())
	assert.Len(t, m.Toasts(), 1)
	assert.Equal(t, clock.Now().Add(testDuration), n.EffectiveExpiry())

	got, ok := m.Get(n.ID())
	require.True(t, ok)
	assert.Same(t, n, got)
}

func TestManager_Add_NoAutoExpiry(t *testing.T) {
	m, _, _ := newTestManager(t)

	n := m.Add(notify.Notification{Title: "sticky", NoAutoExpiry: true})

	assert.True(t, notify.IsNever(n.EffectiveExpiry()))
}

func TestManager_Add_ReplacesOldestAtMax(t *testing.T) {
	m, _, store := newTestManager(t)

	var added []*notify.Active
	for i := range testMaxToasts + 2 {
		added = append(added, m.Add(notify.Notification{Title: time.Duration(i).String()}))
	}

	assert.Len(t, m.Live(), testMaxToasts)
	for _, n := range added[:2] {
		reason, ok := n.DismissReason()
		require.True(t, ok)
		assert.Equal(t, notify.Replaced, reason)
	}
	assert.Equal(t, "2ns", m.Live()[0].Notification().Title)

	count, _ := store.Count(context.Background())
	assert.Equal(t, int64(2), count)
}

func TestManager_Add_Concurrent(t *testing.T) {
	m, _, _ := newTestManager(t)
	m.opts.MaxToasts = 1000

	var wg sync.WaitGroup
	for range 10 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for range 20 {
				m.Add(notify.Notification{Title: "x"})
			}
		}()
	}
	wg.Wait()

	ids := make(map[int64]struct{})
	for _, n := range m.Toasts() {
		ids[n.ID()] = struct{}{}
	}
	assert.Len(t, ids, 200)
}

func TestManager_Tick_TimesOutThenRetires(t *testing.T) {
	m, clock, store := newTestManager(t)
	n := m.Add(notify.Notification{Title: "expires"})
	m.Add(notify.Notification{Title: "survives", NoAutoExpiry: true})

	assert.False(t, m.Tick(clock.Advance(testDuration-time.Millisecond)))

	assert.True(t, m.Tick(clock.Advance(time.Millisecond)))
	reason, ok := n.DismissReason()
	require.True(t, ok)
	assert.Equal(t, notify.TimedOut, reason)
	assert.Len(t, m.Toasts(), 2, "dismissed toast keeps drawing during its animation")

	assert.True(t, m.Tick(clock.Advance(testAnimation)))
	require.Len(t, m.Toasts(), 1)
	assert.Equal(t, "survives", m.Toasts()[0].Notification().Title)

	items, _ := store.List(context.Background())
	require.Len(t, items, 1)
	assert.Equal(t, n.ID(), items[0].ID)
	assert.Equal(t, notify.TimedOut, items[0].Reason)
}

func TestManager_Tick_NeverExpiring(t *testing.T) {
	m, clock, _ := newTestManager(t)
	n := m.AddWithExpiry(notify.Notification{Title: "forever"}, notify.Never)

	for range 100 {
		m.Tick(clock.Advance(time.Hour))
	}

	assert.False(t, n.IsDismissed())
	assert.Len(t, m.Toasts(), 1)
}

func TestManager_Dismiss(t *testing.T) {
	m, _, _ := newTestManager(t)
	first := m.Add(notify.Notification{Title: "first"})
	second := m.Add(notify.Notification{Title: "second"})

	assert.True(t, m.Dismiss())

	assert.False(t, first.IsDismissed())
	reason, _ := second.DismissReason()
	assert.Equal(t, notify.UserDismissed, reason)
	assert.Len(t, m.Live(), 1)
}

func TestManager_Dismiss_Empty(t *testing.T) {
	m, _, _ := newTestManager(t)
	assert.False(t, m.Dismiss())
	assert.False(t, m.HasToasts())
}

func TestManager_DismissAll(t *testing.T) {
	m, clock, _ := newTestManager(t)
	m.Add(notify.Notification{Title: "a"})
	m.Add(notify.Notification{Title: "b"})

	m.DismissAll(notify.Manual)

	assert.Empty(t, m.Live())
	m.Tick(clock.Advance(testAnimation))
	assert.False(t, m.HasToasts())
}

func TestManager_Click_AfterDismiss(t *testing.T) {
	m, _, _ := newTestManager(t)
	n := m.Add(notify.Notification{Title: "clickable"})
	clicks := 0
	n.OnClick("plugin", func(notify.ClickArgs) { clicks++ })

	n.DismissNow(notify.UserDismissed)
	require.NoError(t, m.Click(n.ID()))

	assert.Equal(t, 1, clicks)
}

func TestManager_Click_Unknown(t *testing.T) {
	m, _, _ := newTestManager(t)
	assert.ErrorIs(t, m.Click(999_999), ErrNotFound)
}

func TestManager_Extend(t *testing.T) {
	m, clock, _ := newTestManager(t)
	n := m.Add(notify.Notification{Title: "x", InitialDuration: time.Second})

	require.NoError(t, m.Extend(n.ID(), 2*time.Second))
	assert.Equal(t, clock.Now().Add(3*time.Second), n.EffectiveExpiry())

	assert.ErrorIs(t, m.Extend(n.ID(), -time.Second), notify.ErrInvalidArgument)
	assert.ErrorIs(t, m.Extend(999_999, time.Second), ErrNotFound)
}

func TestManager_Unload(t *testing.T) {
	m, _, store := newTestManager(t)

	weather := m.Add(notify.Notification{Title: "rain", Owner: "plugins/weather"})
	chat := m.Add(notify.Notification{Title: "ping", Owner: "plugins/chat"})

	var weatherDismissals, chatClicks int
	weather.OnDismiss("plugins/weather", func(notify.DismissArgs) { weatherDismissals++ })
	chat.OnClick("plugins/weather", func(notify.ClickArgs) { chatClicks++ })

	dismissed, err := m.Unload("plugins/weather")
	require.NoError(t, err)

	assert.Equal(t, 1, dismissed)
	assert.Zero(t, weatherDismissals, "unloaded plugin must not hear its own dismissal")
	reason, _ := weather.DismissReason()
	assert.Equal(t, notify.PluginUnload, reason)
	assert.False(t, chat.IsDismissed())

	chat.Click()
	assert.Zero(t, chatClicks)

	items, _ := store.List(context.Background())
	require.Len(t, items, 1, "host subscription survives the sweep")
	assert.Equal(t, notify.PluginUnload, items[0].Reason)
}

func TestManager_Unload_Glob(t *testing.T) {
	m, _, _ := newTestManager(t)
	m.Add(notify.Notification{Owner: "plugins/a"})
	m.Add(notify.Notification{Owner: "plugins/b"})
	m.Add(notify.Notification{Owner: "core"})

	dismissed, err := m.Unload("plugins/**")
	require.NoError(t, err)
	assert.Equal(t, 2, dismissed)
	assert.Len(t, m.Live(), 1)
}

func TestManager_Unload_BadPattern(t *testing.T) {
	m, _, _ := newTestManager(t)
	_, err := m.Unload("plugins/[")
	assert.Error(t, err)
}

func TestManager_PanickingSubscriber(t *testing.T) {
	m, _, store := newTestManager(t)
	n := m.Add(notify.Notification{Title: "boom"})
	n.OnDismiss("plugins/bad", func(notify.DismissArgs) { panic("bad plugin") })

	assert.NotPanics(t, func() { n.DismissNow() })

	count, _ := store.Count(context.Background())
	assert.Equal(t, int64(1), count)
}

func TestManager_NilStore(t *testing.T) {
	m := NewManager(Options{DefaultDuration: time.Second, MaxToasts: 1}, nil, zerolog.Nop())
	n := m.Add(notify.Notification{})

	assert.NotPanics(t, func() { n.DismissNow() })
}
