package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/sipico/submission-metrics/internal/config"
	"github.com/sipico/submission-metrics/internal/storage"
)

const fallbackDatabasePath = "/data/metrics.db"

// cli carries the flags shared by every subcommand.
type cli struct {
	databasePath string
	publicURL    string
}

func newRootCommand() *cobra.Command {
	c := &cli{}
	dbDefault, urlDefault := envDefaults()

	root := &cobra.Command{
		Use:   "metricsctl",
		Short: "Manage the submission metrics exporter database",
		Long: `metricsctl edits the exporter's SQLite database directly.

Use it to register events, manage metrics tokens and seed admin tokens
without going through the admin HTTP API.

Examples:
  # Create the global metrics token
  metricsctl token create

  # Rotate the token of one event
  metricsctl token reset --event democon`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.PersistentFlags().StringVar(&c.databasePath, "database", dbDefault, "path to the SQLite database (env DATABASE_PATH)")
	root.PersistentFlags().StringVar(&c.publicURL, "public-url", urlDefault, "base URL used to print token URLs (env PUBLIC_URL)")

	root.AddCommand(newTokenCommand(c))
	root.AddCommand(newEventCommand(c))
	root.AddCommand(newAdminTokenCommand(c))
	root.AddCommand(newVersionCommand())
	return root
}

// envDefaults reads flag defaults from the same environment the server uses.
func envDefaults() (databasePath, publicURL string) {
	cfg, err := config.Load()
	if err != nil {
		return fallbackDatabasePath, ""
	}
	return cfg.DatabasePath, cfg.PublicURL
}

// withStore opens the database for the duration of fn.
func (c *cli) withStore(fn func(ctx context.Context, store *storage.SQLiteStorage) error) error {
	store, err := storage.New(c.databasePath)
	if err != nil {
		return fmt.Errorf("open %s: %w", c.databasePath, err)
	}
	defer store.Close()
	return fn(context.Background(), store)
}
