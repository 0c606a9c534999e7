package commands

import (
	"context"
	"fmt"
	"strconv"

	"github.com/Kavas-89/Task-Management-System/internal/dto"
	"github.com/Kavas-89/Task-Management-System/internal/models"
	"github.com/Kavas-89/Task-Management-System/internal/tui"
	"github.com/Kavas-89/Task-Management-System/internal/validation"
	"github.com/spf13/cobra"
)

func newUsersCmd(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "users",
		Short: "Manage user accounts (admin)",
	}
	cmd.AddCommand(
		newUsersListCmd(opts),
		newUsersAddCmd(opts),
		newUsersUpdateCmd(opts),
		newUsersRemoveCmd(opts),
	)
	return cmd
}

func newUsersListCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:     "ls",
		Aliases: []string{"list"},
		Short:   "List users",
		Args:    cobra.NoArgs,
		RunE: withApp(opts, func(ctx context.Context, cmd *cobra.Command, _ []string, e *env) error {
			if _, err := e.require(ctx, models.CapManageUsers); err != nil {
				return err
			}
			users, err := e.Users.List(ctx)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), tui.RenderUsers(dto.ToUserDTOs(users)))
			return nil
		}),
	}
}

func newUsersAddCmd(opts *rootOptions) *cobra.Command {
	var input validation.UserInput

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Create a user with a role",
		Args:  cobra.NoArgs,
		RunE: withApp(opts, func(ctx context.Context, cmd *cobra.Command, _ []string, e *env) error {
			if _, err := e.require(ctx, models.CapManageUsers); err != nil {
				return err
			}
			user, err := e.Users.Create(ctx, input)
			if err != nil {
				return describe(err)
			}
			success(cmd.OutOrStdout(), "Created %s (%s) - ID: %d", user.Username, user.Role, user.UserID)
			return nil
		}),
	}

	cmd.Flags().StringVarP(&input.Username, "username", "u", "", "username")
	cmd.Flags().StringVarP(&input.Password, "password", "p", "", "password")
	cmd.Flags().StringVarP(&input.Email, "email", "e", "", "email address")
	cmd.Flags().StringVarP(&input.Role, "role", "r", "", "admin, manager or employee")
	return cmd
}

func newUsersUpdateCmd(opts *rootOptions) *cobra.Command {
	var patch validation.UserPatch

	cmd := &cobra.Command{
		Use:   "update <id>",
		Short: "Edit a user; omitted flags keep their value",
		Args:  cobra.ExactArgs(1),
		RunE: withApp(opts, func(ctx context.Context, cmd *cobra.Command, args []string, e *env) error {
			if _, err := e.require(ctx, models.CapManageUsers); err != nil {
				return err
			}
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			user, err := e.Users.Update(ctx, id, patch)
			if err != nil {
				return describe(err)
			}
			success(cmd.OutOrStdout(), "Updated %s (%s).", user.Username, user.Role)
			return nil
		}),
	}

	cmd.Flags().StringVarP(&patch.Username, "username", "u", "", "new username")
	cmd.Flags().StringVarP(&patch.Password, "password", "p", "", "new password")
	cmd.Flags().StringVarP(&patch.Email, "email", "e", "", "new email address")
	cmd.Flags().StringVarP(&patch.Role, "role", "r", "", "new role")
	return cmd
}

func newUsersRemoveCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:     "rm <id>",
		Aliases: []string{"delete"},
		Short:   "Delete a user",
		Args:    cobra.ExactArgs(1),
		RunE: withApp(opts, func(ctx context.Context, cmd *cobra.Command, args []string, e *env) error {
			if _, err := e.require(ctx, models.CapManageUsers); err != nil {
				return err
			}
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			if err := e.Users.Remove(ctx, id); err != nil {
				return err
			}
			success(cmd.OutOrStdout(), "Deleted user %d.", id)
			return nil
		}),
	}
}

func parseID(s string) (int64, error) {
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid ID %q", s)
	}
	return id, nil
}
