package commands

import (
	"context"
	"errors"
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/urfave/cli/v3"

	"github.com/colonyops/beacon/internal/core/notify"
	"github.com/colonyops/beacon/pkg/iojson"
)

var errHistoryDisabled = errors.New("history is disabled (history.enabled: false)")

type HistoryCmd struct {
	flags *Flags

	// flags
	jsonOutput bool
	clear      bool
	limit      int
}

// historyEntry is the JSON shape of a dismissal record.
type historyEntry struct {
	ID          int64     `json:"id"`
	Owner       string    `json:"owner"`
	Type        string    `json:"type"`
	Title       string    `json:"title"`
	Content     string    `json:"content,omitempty"`
	Reason      string    `json:"reason"`
	CreatedAt   time.Time `json:"created_at"`
	DismissedAt time.Time `json:"dismissed_at"`
}

func toHistoryEntry(r notify.Record) historyEntry {
	return historyEntry{
		ID:          r.ID,
		Owner:       r.Owner,
		Type:        string(r.Type),
		Title:       r.Title,
		Content:     r.Content,
		Reason:      r.Reason.String(),
		CreatedAt:   r.CreatedAt,
		DismissedAt: r.DismissedAt,
	}
}

// NewHistoryCmd creates a new history command
func NewHistoryCmd(flags *Flags) *HistoryCmd {
	return &HistoryCmd{flags: flags}
}

// Register adds the history command to the application
func (cmd *HistoryCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:        "history",
		Usage:       "List dismissed notifications",
		UsageText:   "beacon history [--json] [--limit N] [--clear]",
		Description: "Displays persisted dismissals, newest first. Use --clear to delete them.",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:        "json",
				Usage:       "output as JSON lines",
				Destination: &cmd.jsonOutput,
			},
			&cli.IntFlag{
				Name:        "limit",
				Usage:       "maximum records to show (0 = all)",
				Destination: &cmd.limit,
			},
			&cli.BoolFlag{
				Name:        "clear",
				Usage:       "delete all persisted dismissals",
				Destination: &cmd.clear,
			},
		},
		Action: cmd.run,
	})

	return app
}

func (cmd *HistoryCmd) run(ctx context.Context, c *cli.Command) error {
	store := cmd.flags.History
	if store == nil {
		return errHistoryDisabled
	}

	w := c.Root().Writer

	if cmd.clear {
		n, err := store.Count(ctx)
		if err != nil {
			return fmt.Errorf("count history: %w", err)
		}
		if err := store.Clear(ctx); err != nil {
			return fmt.Errorf("clear history: %w", err)
		}
		_, err = fmt.Fprintf(w, "Cleared %d record(s)\n", n)
		return err
	}

	records, err := store.List(ctx)
	if err != nil {
		return fmt.Errorf("list history: %w", err)
	}
	if cmd.limit > 0 && len(records) > cmd.limit {
		records = records[:cmd.limit]
	}

	if len(records) == 0 {
		if !cmd.jsonOutput {
			fmt.Fprintf(os.Stderr, "No history found\n")
		}
		return nil
	}

	if cmd.jsonOutput {
		for _, r := range records {
			if err := iojson.WriteLine(w, toHistoryEntry(r)); err != nil {
				return err
			}
		}
		return nil
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(tw, "ID\tOWNER\tTYPE\tTITLE\tREASON\tDISMISSED")
	for _, r := range records {
		_, _ = fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\t%s\n",
			r.ID, r.Owner, r.Type, r.Title, r.Reason, r.DismissedAt.Local().Format(time.DateTime))
	}
	return tw.Flush()
}
