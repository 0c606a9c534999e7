package commands

import (
	"context"
	"fmt"

	"github.com/Kavas-89/Task-Management-System/internal/validation"
	"github.com/spf13/cobra"
)

func newSeedCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Create the default admin, manager and employee accounts",
		Args:  cobra.NoArgs,
		RunE: withApp(opts, func(ctx context.Context, cmd *cobra.Command, _ []string, e *env) error {
			seeded, err := e.Users.SeedDefaults(ctx)
			if err != nil {
				return err
			}
			if !seeded {
				warn(cmd.OutOrStdout(), "Users already exist, nothing to seed.")
				return nil
			}
			success(cmd.OutOrStdout(), "Default users created.")
			return nil
		}),
	}
}

func newRegisterCmd(opts *rootOptions) *cobra.Command {
	var input validation.RegisterInput

	cmd := &cobra.Command{
		Use:   "register",
		Short: "Create an employee account",
		Args:  cobra.NoArgs,
		RunE: withApp(opts, func(ctx context.Context, cmd *cobra.Command, _ []string, e *env) error {
			user, err := e.Users.Register(ctx, input)
			if err != nil {
				return describe(err)
			}
			success(cmd.OutOrStdout(), "Registered %s (ID %d). You can now log in.", user.Username, user.UserID)
			return nil
		}),
	}

	cmd.Flags().StringVarP(&input.Username, "username", "u", "", "username")
	cmd.Flags().StringVarP(&input.Password, "password", "p", "", "password")
	cmd.Flags().StringVar(&input.ConfirmPassword, "confirm", "", "repeat the password")
	cmd.Flags().StringVarP(&input.Email, "email", "e", "", "email address")
	return cmd
}

func newLoginCmd(opts *rootOptions) *cobra.Command {
	var password string

	cmd := &cobra.Command{
		Use:   "login <username>",
		Short: "Log in and keep the session for this profile",
		Args:  cobra.ExactArgs(1),
		RunE: withApp(opts, func(ctx context.Context, cmd *cobra.Command, args []string, e *env) error {
			session, err := e.session.Login(ctx, args[0], password)
			if err != nil {
				return describe(err)
			}
			success(cmd.OutOrStdout(), "Logged in as %s (%s).", session.Username, session.Role)
			return nil
		}),
	}

	cmd.Flags().StringVarP(&password, "password", "p", "", "password")
	return cmd
}

func newLogoutCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "End the session of this profile",
		Args:  cobra.NoArgs,
		RunE: withApp(opts, func(ctx context.Context, cmd *cobra.Command, _ []string, e *env) error {
			if err := e.session.Logout(ctx); err != nil {
				return err
			}
			success(cmd.OutOrStdout(), "Logged out.")
			return nil
		}),
	}
}

func newWhoamiCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the logged-in user",
		Args:  cobra.NoArgs,
		RunE: withApp(opts, func(ctx context.Context, cmd *cobra.Command, _ []string, e *env) error {
			session, err := e.current(ctx)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%s (%s), user ID %s\n", session.Username, session.Role, session.UserID)
			if id, ok := session.UserID.Int64(); ok {
				if user, err := e.Users.FindByID(ctx, id); err == nil && user.Email != "" {
					fmt.Fprintf(out, "Email: %s\n", user.Email)
				}
			}
			return nil
		}),
	}
}
