package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/sipico/submission-metrics/internal/storage"
)

func newAdminTokenCommand(c *cli) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "admin-token",
		Short: "Manage admin API tokens",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "create <name>",
		Short: "Create an admin API token",
		Long: `Create a token for the admin API (sent in the AccessKey header).

Only a bcrypt hash is stored. The token is printed once and cannot be
retrieved later.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			secret, err := storage.GenerateSecret()
			if err != nil {
				return fmt.Errorf("generate token: %w", err)
			}
			return c.withStore(func(ctx context.Context, store *storage.SQLiteStorage) error {
				id, err := store.CreateAdminToken(ctx, args[0], secret)
				if err != nil {
					return err
				}
				out := cmd.OutOrStdout()
				fmt.Fprintf(out, "created admin token %q (id %d)\n", args[0], id)
				fmt.Fprintf(out, "AccessKey: %s\n", secret)
				return nil
			})
		},
	})

	return cmd
}
