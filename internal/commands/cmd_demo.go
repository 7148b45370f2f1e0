package commands

import (
	"context"
	"errors"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/urfave/cli/v3"
	"golang.org/x/term"

	"github.com/colonyops/beacon/internal/core/logging"
	"github.com/colonyops/beacon/internal/overlay"
)

var errNoTTY = errors.New("demo requires a terminal; use 'beacon simulate' for headless runs")

type DemoCmd struct {
	flags *Flags
}

// NewDemoCmd creates a new demo command
func NewDemoCmd(flags *Flags) *DemoCmd {
	return &DemoCmd{flags: flags}
}

// Register adds the demo command to the application
func (cmd *DemoCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:      "demo",
		Usage:     "Open the interactive notification overlay",
		UsageText: "beacon demo",
		Action:    cmd.run,
	})

	return app
}

// Run executes the demo. Exported for use as default command.
func (cmd *DemoCmd) Run(ctx context.Context, c *cli.Command) error {
	return cmd.run(ctx, c)
}

func (cmd *DemoCmd) run(ctx context.Context, _ *cli.Command) error {
	if !term.IsTerminal(int(os.Stdout.Fd())) {
		return errNoTTY
	}

	cfg := cmd.flags.Config.Overlay
	mgr := overlay.NewManager(overlay.OptionsFromConfig(cfg), cmd.flags.History, logging.Component("overlay"))

	m := newDemoModel(mgr, cfg.Width, cfg.TickInterval.Std())
	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx))

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("run demo: %w", err)
	}
	return nil
}
