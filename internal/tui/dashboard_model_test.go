package tui

import (
	"context"
	"errors"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/Kavas-89/Task-Management-System/internal/dto"
	"github.com/Kavas-89/Task-Management-System/internal/models"
	"github.com/Kavas-89/Task-Management-System/internal/views"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testSession = models.Session{UserID: models.NewID(3), Username: "Employee#12", Role: models.RoleEmployee}

func staticSection(id, title string, data any) views.Section {
	return views.Section{ID: id, Title: title, Refresh: func(context.Context, models.Session) (any, error) {
		return data, nil
	}}
}

// step feeds the message produced by cmd back into the model.
func step(t *testing.T, m DashboardModel, cmd tea.Cmd) DashboardModel {
	t.Helper()
	require.NotNil(t, cmd)
	next, _ := m.Update(cmd())
	return next.(DashboardModel)
}

func press(m DashboardModel, msg tea.KeyMsg) (DashboardModel, tea.Cmd) {
	next, cmd := m.Update(msg)
	return next.(DashboardModel), cmd
}

func TestDashboardModel_Navigation(t *testing.T) {
	router := views.NewRouter(
		staticSection("tasks", "My Tasks", []models.Task{{ID: 1, Title: "Write report", Status: models.TaskStatusPending}}),
		staticSection("profile", "Profile", dto.ProfileDTO{Session: testSession}),
	)
	m := NewDashboardModel(context.Background(), router, testSession)

	m = step(t, m, m.Init())
	require.NotNil(t, m.view)
	assert.Equal(t, "tasks", m.view.Active)
	assert.Contains(t, m.View(), "Write report")

	m, cmd := press(m, tea.KeyMsg{Type: tea.KeyTab})
	m = step(t, m, cmd)
	assert.Equal(t, "profile", m.view.Active)
	assert.Contains(t, m.View(), "Employee#12")

	m, cmd = press(m, tea.KeyMsg{Type: tea.KeyTab})
	m = step(t, m, cmd)
	assert.Equal(t, "tasks", m.view.Active)

	m, cmd = press(m, tea.KeyMsg{Type: tea.KeyShiftTab})
	m = step(t, m, cmd)
	assert.Equal(t, "profile", m.view.Active)
}

func TestDashboardModel_RefreshErrorKeepsView(t *testing.T) {
	boom := errors.New("boom")
	router := views.NewRouter(
		staticSection("tasks", "Tasks", []models.Task{}),
		views.Section{ID: "broken", Title: "Broken", Refresh: func(context.Context, models.Session) (any, error) {
			return nil, boom
		}},
	)
	m := NewDashboardModel(context.Background(), router, testSession)
	m = step(t, m, m.Init())

	m, cmd := press(m, tea.KeyMsg{Type: tea.KeyTab})
	m = step(t, m, cmd)

	assert.ErrorIs(t, m.err, boom)
	assert.Equal(t, "tasks", m.view.Active)
	assert.Equal(t, "tasks", router.Active())
	assert.Contains(t, m.View(), "boom")
}

func TestDashboardModel_Quit(t *testing.T) {
	m := NewDashboardModel(context.Background(), views.NewRouter(), testSession)

	_, cmd := press(m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("q")})
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
}

func TestRenderData(t *testing.T) {
	assert.Contains(t, RenderData([]dto.UserDTO{{UserID: 1, Username: "Admin#12", Role: models.RoleAdmin}}), "Admin#12")
	assert.Contains(t, RenderData([]models.Comment{{ID: 5, Text: "looks good"}}), "looks good")
	assert.Contains(t, RenderData([]models.Task{}), "No tasks found.")
	assert.Contains(t, RenderData(views.Overview{Users: 3, Tasks: dto.SummarizeTasks(nil)}), "Users: 3")
}

func TestRenderTasks_TruncatesByWidth(t *testing.T) {
	long := strings.Repeat("Überprüfung ", 5)
	out := RenderTasks([]models.Task{{ID: 1, Title: long, Status: models.TaskStatusPending}})

	assert.True(t, utf8.ValidString(out))
	assert.Contains(t, out, "...")
	assert.NotContains(t, out, long)

	short := RenderTasks([]models.Task{{ID: 2, Title: "Prüfen", Status: models.TaskStatusPending}})
	assert.Contains(t, short, "Prüfen")
	assert.NotContains(t, short, "...")
}
