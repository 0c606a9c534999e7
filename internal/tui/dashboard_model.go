package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/Kavas-89/Task-Management-System/internal/dto"
	"github.com/Kavas-89/Task-Management-System/internal/models"
	"github.com/Kavas-89/Task-Management-System/internal/views"
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
)

// viewLoadedMsg carries the outcome of showing a section
type viewLoadedMsg struct {
	view *views.View
	err  error
}

// DashboardModel shows one dashboard section at a time
type DashboardModel struct {
	ctx     context.Context
	router  *views.Router
	session models.Session

	view    *views.View
	err     error
	loading bool

	keys  keyMap
	help  help.Model
	width int
}

// NewDashboardModel creates a dashboard for the session's role
func NewDashboardModel(ctx context.Context, router *views.Router, session models.Session) DashboardModel {
	return DashboardModel{
		ctx:     ctx,
		router:  router,
		session: session,
		loading: true,
		keys:    defaultKeys,
		help:    help.New(),
	}
}

// Init loads the initially visible section
func (m DashboardModel) Init() tea.Cmd {
	return m.show(m.router.Active())
}

func (m DashboardModel) show(id string) tea.Cmd {
	return func() tea.Msg {
		view, err := m.router.Show(m.ctx, m.session, id)
		return viewLoadedMsg{view: view, err: err}
	}
}

// Update handles messages
func (m DashboardModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.help.Width = msg.Width
		return m, nil

	case viewLoadedMsg:
		m.loading = false
		m.err = msg.err
		if msg.err == nil {
			m.view = msg.view
		}
		return m, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			return m, tea.Quit
		case key.Matches(msg, m.keys.Next):
			m.loading = true
			return m, m.show(m.router.Next(1))
		case key.Matches(msg, m.keys.Prev):
			m.loading = true
			return m, m.show(m.router.Next(-1))
		case key.Matches(msg, m.keys.Refresh):
			m.loading = true
			return m, m.show(m.router.Active())
		}
	}

	return m, nil
}

// View renders the tabs, the visible section and the help line
func (m DashboardModel) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render(fmt.Sprintf("Task Management · %s (%s)", m.session.Username, m.session.Role)))
	b.WriteString("\n\n")
	b.WriteString(m.renderTabs())
	b.WriteString("\n")

	var body string
	switch {
	case m.view == nil && m.loading:
		body = mutedStyle.Render("Loading...")
	case m.view == nil:
		body = mutedStyle.Render("Nothing to show")
	default:
		body = RenderData(m.view.Data)
	}
	if m.width > 4 {
		b.WriteString(bodyStyle.Width(m.width - 4).Render(body))
	} else {
		b.WriteString(bodyStyle.Render(body))
	}
	b.WriteString("\n")

	if m.err != nil {
		b.WriteString(errorStyle.Render("Error: " + m.err.Error()))
		b.WriteString("\n")
	}
	b.WriteString(m.help.View(m.keys))
	return b.String()
}

func (m DashboardModel) renderTabs() string {
	sections := m.router.Sections()
	tabs := make([]string, 0, len(sections))
	for _, s := range sections {
		if s.Visible {
			tabs = append(tabs, activeTabStyle.Render(s.Title))
		} else {
			tabs = append(tabs, tabStyle.Render(s.Title))
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, tabs...)
}

// RenderData formats the data of a dashboard section as text.
func RenderData(data any) string {
	switch d := data.(type) {
	case views.Overview:
		return renderOverview(d)
	case []models.Task:
		return RenderTasks(d)
	case []dto.UserDTO:
		return RenderUsers(d)
	case []models.Comment:
		return RenderComments(d)
	case dto.ProfileDTO:
		return renderProfile(d)
	case nil:
		return mutedStyle.Render("Nothing to show")
	default:
		return fmt.Sprintf("%v", d)
	}
}

func renderOverview(o views.Overview) string {
	var b strings.Builder
	if o.Users > 0 {
		fmt.Fprintf(&b, "Users: %d\n", o.Users)
	}
	fmt.Fprintf(&b, "Tasks: %d\n", o.Tasks.Total)
	for _, c := range o.Tasks.ByStatus {
		fmt.Fprintf(&b, "  %s %d\n", statusStyle(string(c.Status)).Render(fmt.Sprintf("%-12s", c.Status)), c.Count)
	}
	return strings.TrimRight(b.String(), "\n")
}

// RenderTasks formats tasks as a table
func RenderTasks(tasks []models.Task) string {
	if len(tasks) == 0 {
		return mutedStyle.Render("No tasks found.")
	}

	var b strings.Builder
	b.WriteString(headerStyle.Render(fmt.Sprintf("%-14s %-12s %-8s %-11s %-9s %s", "ID", "STATUS", "PRIORITY", "DUE", "ASSIGNEE", "TITLE")))
	b.WriteString("\n")
	for _, t := range tasks {
		title := ansi.Truncate(t.Title, 38, "...")
		status := statusStyle(string(t.Status)).Render(fmt.Sprintf("%-12s", t.Status))
		fmt.Fprintf(&b, "%-14d %s %-8s %-11s %-9s %s\n", t.ID, status, t.Priority, t.DueDate, t.AssignedTo, title)
	}
	return strings.TrimRight(b.String(), "\n")
}

// RenderUsers formats users as a table
func RenderUsers(users []dto.UserDTO) string {
	if len(users) == 0 {
		return mutedStyle.Render("No users found.")
	}

	var b strings.Builder
	b.WriteString(headerStyle.Render(fmt.Sprintf("%-6s %-18s %-10s %s", "ID", "USERNAME", "ROLE", "EMAIL")))
	b.WriteString("\n")
	for _, u := range users {
		fmt.Fprintf(&b, "%-6d %-18s %-10s %s\n", u.UserID, u.Username, u.Role, u.Email)
	}
	return strings.TrimRight(b.String(), "\n")
}

// RenderComments formats comments as a table
func RenderComments(comments []models.Comment) string {
	if len(comments) == 0 {
		return mutedStyle.Render("No comments yet.")
	}

	var b strings.Builder
	b.WriteString(headerStyle.Render(fmt.Sprintf("%-14s %-14s %-6s %s", "ID", "TASK", "USER", "TEXT")))
	b.WriteString("\n")
	for _, c := range comments {
		fmt.Fprintf(&b, "%-14d %-14s %-6s %s\n", c.ID, c.TaskID, c.UserID, c.Text)
	}
	return strings.TrimRight(b.String(), "\n")
}

func renderProfile(p dto.ProfileDTO) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Username: %s\n", p.Session.Username)
	fmt.Fprintf(&b, "Role:     %s\n", p.Session.Role)
	fmt.Fprintf(&b, "User ID:  %s", p.Session.UserID)
	if p.User != nil && p.User.Email != "" {
		fmt.Fprintf(&b, "\nEmail:    %s", p.User.Email)
	}
	return b.String()
}
