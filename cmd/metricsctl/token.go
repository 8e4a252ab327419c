package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/sipico/submission-metrics/internal/storage"
)

func newTokenCommand(c *cli) *cobra.Command {
	var eventSlug string

	cmd := &cobra.Command{
		Use:   "token",
		Short: "Manage metrics tokens",
		Long: `Manage the metrics token of the global scope or of one event.

Every scope has at most one token. The printed URL is what a Prometheus
scrape job should use; it is shown again by "token show".

Examples:
  metricsctl token create
  metricsctl token show --event democon
  metricsctl token delete --event democon`,
	}
	cmd.PersistentFlags().StringVar(&eventSlug, "event", "", "event slug (default: global scope)")

	run := func(fn func(ctx context.Context, store *storage.SQLiteStorage, scope storage.Scope, out io.Writer) error) func(*cobra.Command, []string) error {
		return func(cmd *cobra.Command, args []string) error {
			return c.withStore(func(ctx context.Context, store *storage.SQLiteStorage) error {
				scope, err := resolveScope(ctx, store, eventSlug)
				if err != nil {
					return err
				}
				return fn(ctx, store, scope, cmd.OutOrStdout())
			})
		}
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "create",
		Short: "Create the metrics token of a scope",
		Args:  cobra.NoArgs,
		RunE: run(func(ctx context.Context, store *storage.SQLiteStorage, scope storage.Scope, out io.Writer) error {
			token, err := store.CreateMetricsToken(ctx, scope)
			if errors.Is(err, storage.ErrConflict) {
				return fmt.Errorf("scope %s already has a metrics token, use reset to rotate it", scope)
			}
			if err != nil {
				return err
			}
			fmt.Fprintf(out, "created metrics token for %s\n%s\n", scope, c.tokenURL(token))
			return nil
		}),
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "reset",
		Short: "Replace the secret of a scope's metrics token",
		Args:  cobra.NoArgs,
		RunE: run(func(ctx context.Context, store *storage.SQLiteStorage, scope storage.Scope, out io.Writer) error {
			token, err := store.ResetMetricsToken(ctx, scope)
			if errors.Is(err, storage.ErrNotFound) {
				return fmt.Errorf("scope %s has no metrics token", scope)
			}
			if err != nil {
				return err
			}
			fmt.Fprintf(out, "reset metrics token for %s\n%s\n", scope, c.tokenURL(token))
			return nil
		}),
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "delete",
		Short: "Delete the metrics token of a scope",
		Args:  cobra.NoArgs,
		RunE: run(func(ctx context.Context, store *storage.SQLiteStorage, scope storage.Scope, out io.Writer) error {
			err := store.DeleteMetricsToken(ctx, scope)
			if errors.Is(err, storage.ErrNotFound) {
				return fmt.Errorf("scope %s has no metrics token", scope)
			}
			if err != nil {
				return err
			}
			fmt.Fprintf(out, "deleted metrics token for %s\n", scope)
			return nil
		}),
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Print the metrics URL of a scope",
		Args:  cobra.NoArgs,
		RunE: run(func(ctx context.Context, store *storage.SQLiteStorage, scope storage.Scope, out io.Writer) error {
			token, err := store.GetMetricsToken(ctx, scope)
			if errors.Is(err, storage.ErrNotFound) {
				fmt.Fprintf(out, "no metrics token for %s\n", scope)
				return nil
			}
			if err != nil {
				return err
			}
			fmt.Fprintln(out, c.tokenURL(token))
			return nil
		}),
	})

	return cmd
}

// resolveScope maps the --event flag to a scope, checking that the event exists.
func resolveScope(ctx context.Context, store *storage.SQLiteStorage, slug string) (storage.Scope, error) {
	if slug == "" {
		return storage.GlobalScope(), nil
	}
	if !storage.ValidSlug(slug) {
		return storage.Scope{}, fmt.Errorf("invalid event slug %q", slug)
	}
	if _, err := store.GetEvent(ctx, slug); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return storage.Scope{}, fmt.Errorf("event %q not found", slug)
		}
		return storage.Scope{}, err
	}
	return storage.EventScope(slug), nil
}

// tokenURL renders the scrape URL of token, or just its path without --public-url.
func (c *cli) tokenURL(token *storage.MetricsToken) string {
	path := "/metrics/" + token.Scope.String() + "/" + token.Secret
	return strings.TrimSuffix(c.publicURL, "/") + path
}
