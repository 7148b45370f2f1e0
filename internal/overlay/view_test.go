package overlay

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/colonyops/beacon/internal/core/notify"
)

func TestView_Render_Empty(t *testing.T) {
	m, clock, _ := newTestManager(t)
	v := NewView(m, 40)

	assert.Empty(t, v.Render(clock.Now()))
}

func TestView_Render_DefaultIconPerType(t *testing.T) {
	tests := []notify.Type{notify.TypeInfo, notify.TypeSuccess, notify.TypeWarning, notify.TypeError}

	for _, typ := range tests {
		t.Run(string(typ), func(t *testing.T) {
			m, clock, _ := newTestManager(t)
			v := NewView(m, 40)

			m.Add(notify.Notification{Type: typ, Title: "test title", Content: "test body"})

			out := v.Render(clock.Now())
			require.NotEmpty(t, out)
			assert.Contains(t, out, notify.DefaultIcon(typ))
			assert.Contains(t, out, "test title")
			assert.Contains(t, out, "test body")
		})
	}
}

func TestView_Render_IconOverrideAndRevert(t *testing.T) {
	m, clock, _ := newTestManager(t)
	v := NewView(m, 40)
	n := m.Add(notify.Notification{Title: "icon", Icon: "★"})
	tex := notify.NewSharedTexture("☂")

	n.SetIconTexture(tex)
	assert.Contains(t, v.Render(clock.Now()), "☂")

	n.SetIconTexture(nil)
	out := v.Render(clock.Now())
	assert.Contains(t, out, "★")
	assert.NotContains(t, out, "☂")
}

func TestView_Render_ActionButtons(t *testing.T) {
	m, clock, _ := newTestManager(t)
	v := NewView(m, 40)
	n := m.Add(notify.Notification{Title: "update"})
	n.OnDrawActions("plugins/updater", func(a *notify.DrawArgs) {
		a.Button("Install")
		a.Button("Later")
	})

	out := v.Render(clock.Now())
	assert.Contains(t, out, "Install")
	assert.Contains(t, out, "Later")
}

func TestView_Render_StacksOldestFirst(t *testing.T) {
	m, clock, _ := newTestManager(t)
	v := NewView(m, 40)

	m.Add(notify.Notification{Title: "first"})
	m.Add(notify.Notification{Title: "second"})

	out := v.Render(clock.Now())
	firstIdx := strings.Index(out, "first")
	secondIdx := strings.Index(out, "second")

	require.NotEqual(t, -1, firstIdx)
	require.NotEqual(t, -1, secondIdx)
	assert.Less(t, firstIdx, secondIdx)
}

func TestManager_Frames(t *testing.T) {
	m, clock, _ := newTestManager(t)
	timed := m.Add(notify.Notification{Title: "timed"})
	m.Add(notify.Notification{Title: "sticky", NoAutoExpiry: true})
	gone := m.Add(notify.Notification{Title: "gone"})
	gone.DismissNow()

	clock.Advance(2 * time.Second)
	frames := m.Frames(clock.Now(), 40)

	require.Len(t, frames, 3)
	assert.Equal(t, timed.ID(), frames[0].ID)
	assert.Equal(t, 3*time.Second, frames[0].Remaining)
	assert.Equal(t, time.Duration(-1), frames[1].Remaining)
	assert.True(t, frames[2].Dismissed)
	assert.Zero(t, frames[2].Remaining)
}
