package main

import (
	"github.com/icemedialab/varta/internal/version"
	"github.com/spf13/cobra"
)

// NewVersionCmd creates the version command.
func NewVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Long:  `Print the version, commit hash, and build date of varta.`,
		Run: func(cmd *cobra.Command, _ []string) {
			printf(cmd.OutOrStdout(), "varta version %s\n", version.Version())
			printf(cmd.OutOrStdout(), "  commit: %s\n", version.Commit())
			printf(cmd.OutOrStdout(), "  built:  %s\n", version.Date())
		},
	}
}
