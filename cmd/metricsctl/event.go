package main

import (
	"context"
	"errors"
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/sipico/submission-metrics/internal/storage"
)

func newEventCommand(c *cli) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "event",
		Short: "Manage events",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "add <slug> <name>",
		Short: "Register an event",
		Long: `Register an event whose submissions are counted.

The slug becomes part of the event's metrics URL. "global" is reserved.

Examples:
  metricsctl event add democon "DemoCon 2026"`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.withStore(func(ctx context.Context, store *storage.SQLiteStorage) error {
				event, err := store.CreateEvent(ctx, args[0], args[1])
				switch {
				case errors.Is(err, storage.ErrInvalidSlug):
					return fmt.Errorf("invalid event slug %q", args[0])
				case errors.Is(err, storage.ErrConflict):
					return fmt.Errorf("event %q already exists", args[0])
				case err != nil:
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "added event %s (%s)\n", event.Slug, event.Name)
				return nil
			})
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List events with their submission totals",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.withStore(func(ctx context.Context, store *storage.SQLiteStorage) error {
				events, err := store.ListEvents(ctx)
				if err != nil {
					return err
				}
				if len(events) == 0 {
					fmt.Fprintln(cmd.OutOrStdout(), "no events")
					return nil
				}

				counts, err := store.SubmissionCounts(ctx, storage.GlobalScope())
				if err != nil {
					return err
				}
				totals := make(map[string]int64, len(counts))
				for _, sc := range counts {
					totals[sc.EventSlug] = sc.Total
				}

				w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
				fmt.Fprintln(w, "SLUG\tNAME\tSUBMISSIONS\tCREATED")
				for _, e := range events {
					fmt.Fprintf(w, "%s\t%s\t%d\t%s\n", e.Slug, e.Name, totals[e.Slug], e.CreatedAt.UTC().Format(time.RFC3339))
				}
				return w.Flush()
			})
		},
	})

	return cmd
}
