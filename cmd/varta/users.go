package main

import (
	"context"
	"errors"
	"strconv"
	"text/tabwriter"

	"github.com/icemedialab/varta/internal/app"
	"github.com/icemedialab/varta/internal/dashboard"
	"github.com/icemedialab/varta/internal/dto"
	"github.com/icemedialab/varta/internal/model"
	"github.com/icemedialab/varta/internal/store"
	"github.com/spf13/cobra"
)

func newUsersCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "users",
		Short: "List the employee directory",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return opts.withApp(cmd, func(ctx context.Context, a *app.App) error {
				if _, err := a.Dashboard().Restore(ctx); err != nil {
					return cliError(err)
				}
				users, err := a.Dashboard().ShowDirectory(ctx)
				if err != nil {
					return err
				}

				tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
				printf(tw, "EMAIL\tNAME\tROLE\tDEPARTMENT\tREPORTS\n")
				for _, u := range users {
					printf(tw, "%s\t%s\t%s\t%s\t%d\n", u.Email, u.FullName, u.Role, u.Department, len(u.Reports))
				}
				return tw.Flush()
			})
		},
	}
}

func newProfileCmd(opts *rootOptions) *cobra.Command {
	var update dto.ProfileRequest

	cmd := &cobra.Command{
		Use:   "profile [email]",
		Short: "Show or edit a profile",
		Long: `Without arguments, show the signed-in employee's profile. With an email,
show that employee. --name, --role and --department edit your own profile.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.withApp(cmd, func(ctx context.Context, a *app.App) error {
				dash := a.Dashboard()
				me, err := dash.Restore(ctx)
				if err != nil {
					return cliError(err)
				}

				if len(args) == 1 {
					employee, err := dash.ShowEmployee(ctx, args[0])
					if err != nil {
						if errors.Is(err, store.ErrNotFound) {
							return errors.New(dashboard.MsgEmployeeNotFound)
						}
						return err
					}
					printUser(cmd, employee)
					return nil
				}

				if cmd.Flags().Changed("name") || cmd.Flags().Changed("role") || cmd.Flags().Changed("department") {
					req := dto.ProfileRequest{FullName: me.FullName, Role: string(me.Role), Department: me.Department}
					if cmd.Flags().Changed("name") {
						req.FullName = update.FullName
					}
					if cmd.Flags().Changed("role") {
						req.Role = update.Role
					}
					if cmd.Flags().Changed("department") {
						req.Department = update.Department
					}
					if me, err = dash.UpdateProfile(ctx, req); err != nil {
						return cliError(err)
					}
				}
				printUser(cmd, me)
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&update.FullName, "name", "", "New full name")
	cmd.Flags().StringVar(&update.Role, "role", "", "New role")
	cmd.Flags().StringVar(&update.Department, "department", "", "New department")
	return cmd
}

func printUser(cmd *cobra.Command, u *model.User) {
	tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	printf(tw, "Name:\t%s\n", u.FullName)
	printf(tw, "Email:\t%s\n", u.Email)
	printf(tw, "Role:\t%s\n", u.Role)
	printf(tw, "Department:\t%s\n", u.Department)
	printf(tw, "Joined:\t%s\n", u.JoinedAt.Format("2 Jan 2006"))
	printf(tw, "Reports:\t%s\n", strconv.Itoa(len(u.Reports)))
	_ = tw.Flush()
}
