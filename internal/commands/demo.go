package commands

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/colonyops/beacon/internal/core/notify"
	"github.com/colonyops/beacon/internal/overlay"
)

const (
	demoOwner     = "demo.plugin"
	demoExtension = 2 * time.Second
)

var (
	helpStyle   = lipgloss.NewStyle().Faint(true)
	statusStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("14"))
)

const demoHelp = "n info · s success · w warning · e error · p persistent · x dismiss · " +
	"c click · + extend · i icon · d dispose icon · u unload plugin · q quit"

type tickMsg time.Time

func tickEvery(d time.Duration) tea.Cmd {
	return tea.Tick(d, func(t time.Time) tea.Msg { return tickMsg(t) })
}

// demoModel drives an overlay.Manager from a bubbletea program. Notifications
// it creates are owned by demoOwner so `u` can exercise the unload sweep.
type demoModel struct {
	manager *overlay.Manager
	view    *overlay.View
	tick    time.Duration

	icon   *notify.SharedTexture
	seq    int
	status string
	width  int
	height int
}

func newDemoModel(manager *overlay.Manager, width int, tick time.Duration) *demoModel {
	return &demoModel{
		manager: manager,
		view:    overlay.NewView(manager, width),
		tick:    tick,
		icon:    notify.NewSharedTexture("★"),
	}
}

func (m *demoModel) Init() tea.Cmd {
	return tickEvery(m.tick)
}

func (m *demoModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tickMsg:
		m.manager.Tick(time.Time(msg))
		return m, tickEvery(m.tick)
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		return m, nil
	case tea.KeyMsg:
		return m, m.handleKey(msg.String())
	}
	return m, nil
}

func (m *demoModel) handleKey(key string) tea.Cmd {
	switch key {
	case "q", "ctrl+c":
		m.manager.DismissAll(notify.Manual)
		return tea.Quit
	case "n":
		m.add(notify.TypeInfo, false)
	case "s":
		m.add(notify.TypeSuccess, false)
	case "w":
		m.add(notify.TypeWarning, false)
	case "e":
		m.add(notify.TypeError, false)
	case "p":
		m.add(notify.TypeInfo, true)
	case "x":
		if !m.manager.Dismiss() {
			m.status = "nothing to dismiss"
		}
	case "c":
		if n := m.newest(); n != nil {
			m.click(n.ID())
		}
	case "+":
		if n := m.newest(); n != nil {
			if err := m.manager.Extend(n.ID(), demoExtension); err != nil {
				m.status = err.Error()
			} else {
				m.status = fmt.Sprintf("extended #%d by %s", n.ID(), demoExtension)
			}
		}
	case "i":
		if n := m.newest(); n != nil {
			if _, ok := n.Icon(); ok {
				n.SetIconTexture(nil)
				m.status = fmt.Sprintf("icon override cleared on #%d", n.ID())
			} else {
				n.SetIconTexture(m.icon)
				m.status = fmt.Sprintf("icon override set on #%d", n.ID())
			}
		}
	case "d":
		m.icon.Dispose()
		m.icon = notify.NewSharedTexture("★")
		m.status = "icon texture disposed"
	case "u":
		n, err := m.manager.Unload(demoOwner)
		if err != nil {
			m.status = err.Error()
		} else {
			m.status = fmt.Sprintf("unloaded %s (%d dismissed)", demoOwner, n)
		}
	}
	return nil
}

func (m *demoModel) add(typ notify.Type, persistent bool) {
	m.seq++
	n := m.manager.Add(notify.Notification{
		Title:           fmt.Sprintf("%s #%d", typ, m.seq),
		Content:         "press c to click, + to extend",
		Type:            typ,
		Owner:           demoOwner,
		NoAutoExpiry:    persistent,
		UserDismissable: true,
	})

	id := n.ID()
	n.OnClick(demoOwner, func(notify.ClickArgs) {
		m.status = fmt.Sprintf("clicked #%d", id)
	})
	n.OnDrawActions(demoOwner, func(args *notify.DrawArgs) {
		args.Button("Open")
		if !args.Notification.IsDismissed() {
			args.Button("Snooze")
		}
	})
	n.OnDismiss(demoOwner, func(args notify.DismissArgs) {
		m.status = fmt.Sprintf("#%d dismissed: %s", id, args.Reason)
	})
}

func (m *demoModel) click(id int64) {
	if err := m.manager.Click(id); err != nil {
		m.status = err.Error()
	}
}

func (m *demoModel) newest() *notify.Active {
	live := m.manager.Live()
	if len(live) == 0 {
		m.status = "no live notifications"
		return nil
	}
	return live[len(live)-1]
}

func (m *demoModel) View() string {
	var b strings.Builder
	b.WriteString(helpStyle.Render(demoHelp))
	b.WriteString("\n\n")

	if m.manager.HasToasts() {
		b.WriteString(m.view.Render(m.manager.Now()))
		b.WriteString("\n")
	} else {
		b.WriteString(helpStyle.Render("no notifications"))
		b.WriteString("\n")
	}

	if m.status != "" {
		b.WriteString("\n")
		b.WriteString(statusStyle.Render(m.status))
	}

	return b.String()
}
