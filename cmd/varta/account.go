package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/icemedialab/varta/internal/app"
	"github.com/icemedialab/varta/internal/dashboard"
	"github.com/icemedialab/varta/internal/dto"
	"github.com/icemedialab/varta/internal/model"
	"github.com/icemedialab/varta/internal/store"
	"github.com/spf13/cobra"
)

func newRegisterCmd(opts *rootOptions) *cobra.Command {
	var req dto.RegisterRequest

	cmd := &cobra.Command{
		Use:   "register",
		Short: "Register a new employee and sign in",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return opts.withApp(cmd, func(ctx context.Context, a *app.App) error {
				user, err := a.Dashboard().Register(ctx, req)
				if err != nil {
					return cliError(err)
				}
				printf(cmd.OutOrStdout(), "Welcome, %s. Signed in as %s (%s).\n", user.FirstName(), user.Email, user.Role)
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&req.Email, "email", "", "Work email (required)")
	cmd.Flags().StringVar(&req.FullName, "name", "", "Full name (required)")
	cmd.Flags().StringVar(&req.Role, "role", string(model.RoleStrategist), "Role: Strategist, Brand Manager, Creative Lead, Performance Marketing")
	_ = cmd.MarkFlagRequired("email")
	_ = cmd.MarkFlagRequired("name")
	return cmd
}

func newLoginCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "login <email>",
		Short: "Sign in as an existing employee",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.withApp(cmd, func(ctx context.Context, a *app.App) error {
				user, err := a.Dashboard().Login(ctx, args[0])
				if err != nil {
					return cliError(err)
				}
				printf(cmd.OutOrStdout(), "Signed in as %s <%s>.\n", user.FullName, user.Email)
				return nil
			})
		},
	}
}

func newLogoutCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Sign out of the workspace",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return opts.withApp(cmd, func(ctx context.Context, a *app.App) error {
				if err := a.Dashboard().Logout(ctx); err != nil {
					return err
				}
				printf(cmd.OutOrStdout(), "Signed out.\n")
				return nil
			})
		},
	}
}

func newWhoamiCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the signed-in employee",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return opts.withApp(cmd, func(ctx context.Context, a *app.App) error {
				user, err := a.Dashboard().Restore(ctx)
				if err != nil {
					return cliError(err)
				}
				printUser(cmd, user)
				return nil
			})
		},
	}
}

// cliError turns domain errors into the messages the dashboard shows.
func cliError(err error) error {
	var verr *dto.ValidationError
	switch {
	case errors.As(err, &verr):
		return verr
	case errors.Is(err, store.ErrNotFound):
		return errors.New(dashboard.MsgEmailNotFound)
	case errors.Is(err, store.ErrNoSession):
		return errors.New("not signed in; run `varta login <email>` or `varta register`")
	default:
		if msg := dashboard.UserMessage(err); msg != dashboard.MsgGenerateFailed {
			return errors.New(msg)
		}
		return fmt.Errorf("%s (%w)", dashboard.MsgGenerateFailed, err)
	}
}
