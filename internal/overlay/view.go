package overlay

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/colonyops/beacon/internal/core/notify"
)

var (
	toastBase = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			Padding(0, 1)

	toastInfoStyle    = toastBase.BorderForeground(lipgloss.Color("12"))
	toastSuccessStyle = toastBase.BorderForeground(lipgloss.Color("10"))
	toastWarningStyle = toastBase.BorderForeground(lipgloss.Color("11"))
	toastErrorStyle   = toastBase.BorderForeground(lipgloss.Color("9"))
	toastFadingStyle  = toastBase.BorderForeground(lipgloss.Color("8")).Faint(true)

	titleStyle  = lipgloss.NewStyle().Bold(true)
	timerStyle  = lipgloss.NewStyle().Faint(true)
	buttonStyle = lipgloss.NewStyle().Padding(0, 1).Reverse(true)
)

// View renders the toast stack managed by a Manager.
type View struct {
	manager *Manager
	width   int
}

func NewView(manager *Manager, width int) *View {
	return &View{manager: manager, width: width}
}

// Render draws the stack with toasts stacked vertically, oldest at top and
// newest at bottom. Returns "" when there is nothing to draw.
func (v *View) Render(now time.Time) string {
	frames := v.manager.Frames(now, v.width)
	if len(frames) == 0 {
		return ""
	}

	rendered := make([]string, 0, len(frames))
	for _, f := range frames {
		rendered = append(rendered, renderFrame(f, v.width))
	}

	return strings.Join(rendered, "\n")
}

func renderFrame(f Frame, width int) string {
	style := styleFor(f)

	header := f.Glyph + " " + titleStyle.Render(f.Title)
	if timer := formatRemaining(f.Remaining); timer != "" && !f.Dismissed {
		header += " " + timerStyle.Render(timer)
	}

	lines := []string{header}
	if f.Content != "" {
		lines = append(lines, f.Content)
	}
	if len(f.Actions) > 0 {
		buttons := make([]string, 0, len(f.Actions))
		for _, a := range f.Actions {
			buttons = append(buttons, buttonStyle.Render(a))
		}
		lines = append(lines, lipgloss.JoinHorizontal(lipgloss.Top, buttons...))
	}

	return style.Width(width).Render(strings.Join(lines, "\n"))
}

func styleFor(f Frame) lipgloss.Style {
	if f.Dismissed {
		return toastFadingStyle
	}
	switch f.Type {
	case notify.TypeSuccess:
		return toastSuccessStyle
	case notify.TypeWarning:
		return toastWarningStyle
	case notify.TypeError:
		return toastErrorStyle
	default:
		return toastInfoStyle
	}
}

func formatRemaining(d time.Duration) string {
	if d < 0 {
		return ""
	}
	return fmt.Sprintf("%.1fs", d.Seconds())
}
