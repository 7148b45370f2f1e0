package commands

import (
	"context"
	"errors"
	"fmt"
	"io"
	"slices"
	"text/tabwriter"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v3"

	"github.com/colonyops/beacon/internal/core/config"
	"github.com/colonyops/beacon/internal/core/logging"
	"github.com/colonyops/beacon/internal/core/notify"
	"github.com/colonyops/beacon/internal/overlay"
	"github.com/colonyops/beacon/pkg/iojson"
)

type SimulateCmd struct {
	flags *Flags

	// flags
	count      int
	workers    int
	step       time.Duration
	steps      int
	unload     string
	unloadAt   int
	jsonOutput bool
	scenario   iojson.FileReader[Scenario]
}

// NewSimulateCmd creates a new simulate command
func NewSimulateCmd(flags *Flags) *SimulateCmd {
	return &SimulateCmd{flags: flags}
}

// Register adds the simulate command to the application
func (cmd *SimulateCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:      "simulate",
		Usage:     "Run notifications against a simulated clock",
		UsageText: "beacon simulate [--count N] [--workers N] [--step 500ms] [-f scenario.json]",
		Description: `Creates notifications concurrently, then advances a simulated clock and
prints every dismissal with its reason.

A scenario can be given as JSON with -f or on stdin. Without one, --count
notifications are generated across three plugins.`,
		Flags: []cli.Flag{
			cmd.scenario.Flag(),
			&cli.IntFlag{
				Name:        "count",
				Usage:       "number of generated notifications when no scenario is given",
				Value:       20,
				Destination: &cmd.count,
			},
			&cli.IntFlag{
				Name:        "workers",
				Usage:       "maximum goroutines creating notifications",
				Value:       4,
				Destination: &cmd.workers,
			},
			&cli.DurationFlag{
				Name:        "step",
				Usage:       "simulated time advanced per tick",
				Value:       500 * time.Millisecond,
				Destination: &cmd.step,
			},
			&cli.IntFlag{
				Name:        "steps",
				Usage:       "maximum number of ticks",
				Value:       100,
				Destination: &cmd.steps,
			},
			&cli.StringFlag{
				Name:        "unload",
				Usage:       "plugin owner glob to unload during the run (e.g. 'plugin-*')",
				Destination: &cmd.unload,
			},
			&cli.IntFlag{
				Name:        "unload-at",
				Usage:       "tick at which --unload runs",
				Value:       1,
				Destination: &cmd.unloadAt,
			},
			&cli.BoolFlag{
				Name:        "json",
				Usage:       "output dismissals as JSON lines",
				Destination: &cmd.jsonOutput,
			},
		},
		Action: cmd.run,
	})

	return app
}

func (cmd *SimulateCmd) run(ctx context.Context, c *cli.Command) error {
	sc, err := cmd.scenario.Read()
	switch {
	case errors.Is(err, iojson.ErrNoInput), errors.Is(err, io.EOF):
		sc = DefaultScenario(cmd.count, cmd.step, cmd.steps)
	case err != nil:
		return fmt.Errorf("read scenario: %w", err)
	}

	if sc.Step <= 0 {
		sc.Step = config.Duration(cmd.step)
	}
	if sc.Steps <= 0 {
		sc.Steps = cmd.steps
	}
	if cmd.unload != "" {
		sc.UnloadPattern = cmd.unload
		sc.UnloadAtStep = cmd.unloadAt
	}

	logger := logging.Component("simulate")
	opts := overlay.OptionsFromConfig(cmd.flags.Config.Overlay)

	result, err := Simulate(ctx, sc, opts, cmd.workers, cmd.flags.History, logger)
	if err != nil {
		return err
	}

	log.Debug().
		Int("dismissed", len(result.Dismissed)).
		Int("live", result.Live).
		Dur("elapsed", result.Elapsed).
		Msg("simulation finished")

	w := c.Root().Writer
	if cmd.jsonOutput {
		for _, rec := range result.Dismissed {
			if err := iojson.WriteLine(w, toHistoryEntry(rec)); err != nil {
				return err
			}
		}
		return nil
	}

	return printSimResult(w, result)
}

func printSimResult(w io.Writer, result SimResult) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(tw, "ID\tOWNER\tTITLE\tREASON\tLIFETIME")
	for _, rec := range result.Dismissed {
		_, _ = fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\n",
			rec.ID, rec.Owner, rec.Title, rec.Reason, rec.DismissedAt.Sub(rec.CreatedAt))
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	byReason := result.ByReason()
	reasons := make([]notify.DismissReason, 0, len(byReason))
	for r := range byReason {
		reasons = append(reasons, r)
	}
	slices.Sort(reasons)

	_, _ = fmt.Fprintln(w)
	for _, r := range reasons {
		_, _ = fmt.Fprintf(w, "%-15s %d\n", r.String()+":", byReason[r])
	}
	_, _ = fmt.Fprintf(w, "%-15s %d\n", "still live:", result.Live)
	_, _ = fmt.Fprintf(w, "%-15s %d\n", "unloaded:", result.Unloaded)
	_, _ = fmt.Fprintf(w, "%-15s %d\n", "clicks:", result.Clicks)
	_, err := fmt.Fprintf(w, "%-15s %s\n", "elapsed:", result.Elapsed)
	return err
}
