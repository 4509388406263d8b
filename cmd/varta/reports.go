package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/icemedialab/varta/internal/app"
	"github.com/icemedialab/varta/internal/dashboard"
	"github.com/icemedialab/varta/internal/model"
	"github.com/icemedialab/varta/internal/report"
	"github.com/icemedialab/varta/internal/store"
	"github.com/spf13/cobra"
)

const (
	formatMarkdown = "markdown"
	formatJSON     = "json"
)

func newGenerateCmd(opts *rootOptions) *cobra.Command {
	var (
		q      model.Query
		format string
	)

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate an intelligence report",
		Long: `Generate an AI intelligence report for a keyword and save it to your history.

Examples:
  varta generate --keyword "masala chai"
  varta generate --keyword sneakers --region Mumbai --platform Instagram --format json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := checkFormat(format); err != nil {
				return err
			}
			return opts.withApp(cmd, func(ctx context.Context, a *app.App) error {
				if _, err := a.Dashboard().Restore(ctx); err != nil {
					return cliError(err)
				}
				printf(cmd.ErrOrStderr(), "Analyzing %q, this can take a minute...\n", q.Keyword)

				r, err := a.Dashboard().Generate(ctx, q)
				if err != nil {
					return cliError(err)
				}
				return writeReport(cmd.OutOrStdout(), r, format)
			})
		},
	}

	cmd.Flags().StringVarP(&q.Keyword, "keyword", "k", "", "Keyword to analyze (required)")
	cmd.Flags().StringVarP(&q.Region, "region", "r", model.DefaultRegion, "Target region")
	cmd.Flags().StringVarP(&q.Platform, "platform", "p", model.DefaultPlatform, "Platform: Instagram, Facebook or Both")
	cmd.Flags().StringVar(&q.RawAdText, "raw-text", "", "Ad copy or notes to analyze instead of a live search")
	cmd.Flags().StringVarP(&format, "format", "f", formatMarkdown, "Output format: markdown or json")
	_ = cmd.MarkFlagRequired("keyword")
	return cmd
}

func newHistoryCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "history",
		Short: "List your reports, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return opts.withApp(cmd, func(ctx context.Context, a *app.App) error {
				user, err := a.Dashboard().Restore(ctx)
				if err != nil {
					return cliError(err)
				}
				if len(user.Reports) == 0 {
					printf(cmd.OutOrStdout(), "No reports yet. Run `varta generate --keyword ...`.\n")
					return nil
				}

				tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
				printf(tw, "ID\tCREATED\tKEYWORD\tREGION\tPLATFORM\n")
				for _, r := range user.Reports {
					created := "unknown"
					if !r.CreatedAt.IsZero() {
						created = r.CreatedAt.Format("2006-01-02 15:04")
					}
					printf(tw, "%s\t%s\t%s\t%s\t%s\n", r.ID, created, r.Input.Keyword, r.Input.Region, r.Input.Platform)
				}
				return tw.Flush()
			})
		},
	}
}

func newShowCmd(opts *rootOptions) *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "show <id>",
		Short: "Print a report from your history",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := checkFormat(format); err != nil {
				return err
			}
			return opts.withApp(cmd, func(ctx context.Context, a *app.App) error {
				if _, err := a.Dashboard().Restore(ctx); err != nil {
					return cliError(err)
				}
				r, err := a.Dashboard().OpenReport(args[0])
				if err != nil {
					if errors.Is(err, store.ErrNotFound) {
						return errors.New(dashboard.MsgReportNotFound)
					}
					return err
				}
				return writeReport(cmd.OutOrStdout(), r, format)
			})
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", formatMarkdown, "Output format: markdown or json")
	return cmd
}

func checkFormat(format string) error {
	if format != formatMarkdown && format != formatJSON {
		return fmt.Errorf("unknown format %q (want markdown or json)", format)
	}
	return nil
}

func writeReport(w io.Writer, r *model.Report, format string) error {
	if format == formatJSON {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(r)
	}
	return report.WriteMarkdown(w, r)
}
