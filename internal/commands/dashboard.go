package commands

import (
	"context"
	"fmt"

	"github.com/Kavas-89/Task-Management-System/internal/tui"
	"github.com/Kavas-89/Task-Management-System/internal/views"
	"github.com/spf13/cobra"
)

func newDashboardCmd(opts *rootOptions) *cobra.Command {
	var section string

	cmd := &cobra.Command{
		Use:   "dashboard",
		Short: "Open the dashboard of your role",
		Long:  "Open the interactive dashboard of your role. With --section one section is printed instead.",
		Args:  cobra.NoArgs,
		RunE: withApp(opts, func(ctx context.Context, cmd *cobra.Command, _ []string, e *env) error {
			session, err := e.current(ctx)
			if err != nil {
				return err
			}
			if section == "" {
				return tui.RunDashboard(ctx, e.Views(), *session)
			}

			router, err := views.Dashboard(session.Role, e.Views())
			if err != nil {
				return err
			}
			view, err := router.Show(ctx, *session, section)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), tui.RenderData(view.Data))
			return nil
		}),
	}

	cmd.Flags().StringVarP(&section, "section", "s", "", "print one section and exit")
	return cmd
}
