package commands

import (
	"context"
	"fmt"

	"github.com/Kavas-89/Task-Management-System/internal/models"
	"github.com/Kavas-89/Task-Management-System/internal/tui"
	"github.com/spf13/cobra"
)

func newCommentsCmd(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "comments",
		Short: "Discuss tasks",
	}
	cmd.AddCommand(newCommentsAddCmd(opts), newCommentsListCmd(opts))
	return cmd
}

func newCommentsAddCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "add <task-id> <text>",
		Short: "Comment on a task",
		Args:  cobra.ExactArgs(2),
		RunE: withApp(opts, func(ctx context.Context, cmd *cobra.Command, args []string, e *env) error {
			session, err := e.require(ctx, models.CapComment)
			if err != nil {
				return err
			}
			comment, err := e.Comments.Add(ctx, models.ID(args[0]), session.UserID, args[1])
			if err != nil {
				return describe(err)
			}
			success(cmd.OutOrStdout(), "Comment %d added to task %s.", comment.ID, comment.TaskID)
			return nil
		}),
	}
}

func newCommentsListCmd(opts *rootOptions) *cobra.Command {
	var taskID string

	cmd := &cobra.Command{
		Use:     "ls",
		Aliases: []string{"list"},
		Short:   "List the comments you can see",
		Args:    cobra.NoArgs,
		RunE: withApp(opts, func(ctx context.Context, cmd *cobra.Command, _ []string, e *env) error {
			session, err := e.require(ctx, models.CapViewComments)
			if err != nil {
				return err
			}

			var comments []models.Comment
			switch {
			case taskID != "":
				comments, err = e.Comments.ListForTask(ctx, models.ID(taskID))
			case session.Role.Can(models.CapViewAllTasks):
				comments, err = e.Comments.List(ctx)
			default:
				comments, err = e.Comments.ListVisibleTo(ctx, session.UserID)
			}
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), tui.RenderComments(comments))
			return nil
		}),
	}

	cmd.Flags().StringVarP(&taskID, "task", "t", "", "only comments on this task")
	return cmd
}
