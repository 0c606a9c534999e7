// Package tui is the terminal front end of the role dashboards.
package tui

import (
	"context"

	"github.com/Kavas-89/Task-Management-System/internal/models"
	"github.com/Kavas-89/Task-Management-System/internal/views"
	tea "github.com/charmbracelet/bubbletea"
)

// RunDashboard starts the interactive dashboard for session
func RunDashboard(ctx context.Context, svc views.Services, session models.Session) error {
	router, err := views.Dashboard(session.Role, svc)
	if err != nil {
		return err
	}

	p := tea.NewProgram(NewDashboardModel(ctx, router, session), tea.WithAltScreen(), tea.WithContext(ctx))
	_, err = p.Run()
	return err
}
