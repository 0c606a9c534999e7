package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/Kavas-89/Task-Management-System/internal/models"
	"github.com/Kavas-89/Task-Management-System/internal/services"
	"github.com/Kavas-89/Task-Management-System/internal/tui"
	"github.com/spf13/cobra"
)

func newTasksCmd(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tasks",
		Short: "Create, list and update tasks",
	}
	cmd.AddCommand(
		newTasksListCmd(opts),
		newTasksMineCmd(opts),
		newTasksAddCmd(opts),
		newTasksStatusCmd(opts),
		newTasksPerformCmd(opts),
		newTasksRemoveCmd(opts),
		newTasksSyncCmd(opts),
		newTasksGenerateCmd(opts),
	)
	return cmd
}

func newTasksListCmd(opts *rootOptions) *cobra.Command {
	var (
		assignedTo string
		status     string
		page       int
		limit      int
	)

	cmd := &cobra.Command{
		Use:     "ls",
		Aliases: []string{"list"},
		Short:   "List all tasks",
		Args:    cobra.NoArgs,
		RunE: withApp(opts, func(ctx context.Context, cmd *cobra.Command, _ []string, e *env) error {
			if _, err := e.require(ctx, models.CapViewAllTasks); err != nil {
				return err
			}

			input := services.ListTasksInput{Page: page, PageSize: limit}
			if assignedTo != "" {
				id := models.ID(assignedTo)
				input.AssignedTo = &id
			}
			if status != "" {
				s, ok := models.ParseTaskStatus(status)
				if !ok {
					return fmt.Errorf("unknown status %q", status)
				}
				input.Status = &s
			}

			tasks, total, err := e.Tasks.List(ctx, input)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintln(out, tui.RenderTasks(tasks))
			if limit > 0 {
				fmt.Fprintf(out, "Page %d, %d of %d tasks\n", max(page, 1), len(tasks), total)
			}
			return nil
		}),
	}

	cmd.Flags().StringVarP(&assignedTo, "assigned-to", "a", "", "filter by assignee user ID")
	cmd.Flags().StringVarP(&status, "status", "s", "", "filter by status")
	cmd.Flags().IntVar(&page, "page", 1, "page number")
	cmd.Flags().IntVar(&limit, "limit", 0, "page size (0 lists everything)")
	return cmd
}

func newTasksMineCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "mine",
		Short: "List the tasks assigned to you",
		Args:  cobra.NoArgs,
		RunE: withApp(opts, func(ctx context.Context, cmd *cobra.Command, _ []string, e *env) error {
			session, err := e.current(ctx)
			if err != nil {
				return err
			}
			tasks, err := e.Tasks.ListAssignedTo(ctx, session.UserID)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), tui.RenderTasks(tasks))
			return nil
		}),
	}
}

func newTasksAddCmd(opts *rootOptions) *cobra.Command {
	var (
		input    services.CreateTaskInput
		assignee string
	)

	cmd := &cobra.Command{
		Use:   "add <title>",
		Short: "Create a task",
		Long:  "Create a task. Employees always create tasks for themselves.",
		Args:  cobra.ExactArgs(1),
		RunE: withApp(opts, func(ctx context.Context, cmd *cobra.Command, args []string, e *env) error {
			session, err := e.require(ctx, models.CapCreateTask)
			if err != nil {
				return err
			}

			input.Title = args[0]
			input.AssignedTo = models.ID(assignee)
			if assignee == "" {
				input.AssignedTo = session.UserID
			}

			task, err := e.Tasks.Create(ctx, *session, input)
			if err != nil {
				return describe(err)
			}
			success(cmd.OutOrStdout(), "New task %q added - ID: %d", task.Title, task.ID)
			return nil
		}),
	}

	cmd.Flags().StringVarP(&input.Description, "description", "d", "", "description")
	cmd.Flags().StringVarP(&input.Priority, "priority", "p", "", "low, medium or high")
	cmd.Flags().StringVar(&input.DueDate, "due", "", "due date (YYYY-MM-DD)")
	cmd.Flags().StringVarP(&assignee, "assign", "a", "", "assignee user ID (default yourself)")
	cmd.Flags().StringVarP(&input.Status, "status", "s", "", "initial status")
	return cmd
}

func newTasksStatusCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "status <id> <status>",
		Short: "Change the status of a task",
		Args:  cobra.ExactArgs(2),
		RunE: withApp(opts, func(ctx context.Context, cmd *cobra.Command, args []string, e *env) error {
			session, err := e.require(ctx, models.CapUpdateOwnTasks)
			if err != nil {
				return err
			}
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			task, err := e.Tasks.UpdateStatus(ctx, *session, id, args[1])
			if err != nil {
				return describe(err)
			}
			success(cmd.OutOrStdout(), "Task %d is now %s.", task.ID, task.Status)
			return nil
		}),
	}
}

func newTasksPerformCmd(opts *rootOptions) *cobra.Command {
	var (
		input    services.PerformInput
		progress int
	)

	cmd := &cobra.Command{
		Use:   "perform <id>",
		Short: "Record progress on one of your tasks",
		Args:  cobra.ExactArgs(1),
		RunE: withApp(opts, func(ctx context.Context, cmd *cobra.Command, args []string, e *env) error {
			session, err := e.require(ctx, models.CapUpdateOwnTasks)
			if err != nil {
				return err
			}
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("progress") {
				input.Progress = &progress
			}

			task, err := e.Tasks.Perform(ctx, *session, id, input)
			if err != nil {
				return describe(err)
			}
			success(cmd.OutOrStdout(), "Task %d updated: %s.", task.ID, task.Status)
			return nil
		}),
	}

	cmd.Flags().StringVarP(&input.Status, "status", "s", "", "new status")
	cmd.Flags().StringVarP(&input.Notes, "notes", "n", "", "notes")
	cmd.Flags().IntVar(&progress, "progress", 0, "progress in percent")
	return cmd
}

func newTasksRemoveCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:     "rm <id>",
		Aliases: []string{"delete"},
		Short:   "Delete a task and its comments",
		Args:    cobra.ExactArgs(1),
		RunE: withApp(opts, func(ctx context.Context, cmd *cobra.Command, args []string, e *env) error {
			if _, err := e.require(ctx, models.CapDeleteTasks); err != nil {
				return err
			}
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			if err := e.Tasks.Delete(ctx, id); err != nil {
				return err
			}
			success(cmd.OutOrStdout(), "Deleted task %d.", id)
			return nil
		}),
	}
}

func newTasksSyncCmd(opts *rootOptions) *cobra.Command {
	var file string

	cmd := &cobra.Command{
		Use:   "sync",
		Short: "Apply the external progress feed to the tasks",
		Long:  "Apply the external progress feed to the tasks. With --file the feed is replaced by the JSON array in that file first.",
		Args:  cobra.NoArgs,
		RunE: withApp(opts, func(ctx context.Context, cmd *cobra.Command, _ []string, e *env) error {
			if _, err := e.require(ctx, models.CapSyncProgress); err != nil {
				return err
			}

			if file != "" {
				data, err := os.ReadFile(file)
				if err != nil {
					return err
				}
				var records []models.PerformanceRecord
				if err := json.Unmarshal(data, &records); err != nil {
					return fmt.Errorf("failed to parse %s: %w", file, err)
				}
				if err := e.Tasks.ImportPerformanceFeed(ctx, records); err != nil {
					return err
				}
			}

			report, err := e.Tasks.SyncPerformanceFeed(ctx)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			for _, r := range report.Results {
				if r.Outcome == services.OutcomeApplied {
					continue
				}
				warn(out, "record %d %s: %s", r.Index, r.Outcome, r.Reason)
			}
			success(out, "%d applied, %d skipped.", report.Applied, report.Skipped)
			return nil
		}),
	}

	cmd.Flags().StringVarP(&file, "file", "f", "", "JSON file with performance records")
	return cmd
}

func newTasksGenerateCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "generate <text>",
		Short: "Draft tasks from free text with AI",
		Args:  cobra.ExactArgs(1),
		RunE: withApp(opts, func(ctx context.Context, cmd *cobra.Command, args []string, e *env) error {
			if _, err := e.require(ctx, models.CapCreateTask); err != nil {
				return err
			}
			drafts, err := e.Tasks.DraftFromText(ctx, args[0])
			if err != nil {
				return describe(err)
			}

			out := cmd.OutOrStdout()
			for i, d := range drafts {
				fmt.Fprintf(out, "%d. %s", i+1, d.Title)
				if d.DueDate != "" {
					fmt.Fprintf(out, " (due %s)", d.DueDate)
				}
				fmt.Fprintln(out)
				if d.Description != "" {
					fmt.Fprintf(out, "   %s\n", d.Description)
				}
			}
			return nil
		}),
	}
}
