package main

import (
	"context"

	"github.com/icemedialab/varta/internal/app"
	"github.com/spf13/cobra"
)

func newKeyCmd(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "key",
		Short: "Manage the alternate Gemini API key",
		Long: `The alternate key is stored encrypted (VAULT_SECRET must be set) and is used
instead of GEMINI_API_KEY, for example after the quota of the default key ran out.`,
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "set <api-key>",
		Short: "Store the alternate API key",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.withApp(cmd, func(ctx context.Context, a *app.App) error {
				if err := a.Vault().SetAPIKey(ctx, args[0]); err != nil {
					return err
				}
				printf(cmd.OutOrStdout(), "Alternate API key stored.\n")
				return nil
			})
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "clear",
		Short: "Remove the alternate API key",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return opts.withApp(cmd, func(ctx context.Context, a *app.App) error {
				if err := a.Vault().ClearAPIKey(ctx); err != nil {
					return err
				}
				printf(cmd.OutOrStdout(), "Alternate API key removed.\n")
				return nil
			})
		},
	})
	return cmd
}
