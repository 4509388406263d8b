package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/icemedialab/varta/internal/app"
	"github.com/icemedialab/varta/internal/model"
	"github.com/spf13/cobra"
)

func newImportCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "import <file>",
		Short: "Import users from a JSON export",
		Long: `Import a JSON array of users, for example the "varta_users" entry exported
from the browser version of the dashboard. Existing emails are replaced.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := os.ReadFile(args[0])
			if err != nil {
				return err
			}
			var users []model.User
			if err := json.Unmarshal(data, &users); err != nil {
				return fmt.Errorf("decode %s: %w", args[0], err)
			}

			return opts.withApp(cmd, func(ctx context.Context, a *app.App) error {
				n, err := a.Sessions().Import(ctx, users)
				if err != nil {
					return err
				}
				printf(cmd.OutOrStdout(), "Imported %d users.\n", n)
				return nil
			})
		},
	}
}
