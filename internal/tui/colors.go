package tui

import "github.com/charmbracelet/lipgloss"

// Color constants for the dashboard theme
const (
	ColorBorder        = "#3A3F55"
	ColorPrimaryText   = "#E6EAF2"
	ColorSecondaryText = "#B1B8C7"
	ColorHelpText      = "240"
	ColorAccentMain    = "#7C3AED"
	ColorAccentBright  = "#A78BFA"
	ColorError         = "#EF4444"
	ColorSuccess       = "#22C55E"
	ColorWarning       = "#F59E0B"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color(ColorAccentBright))

	activeTabStyle = lipgloss.NewStyle().
			Bold(true).
			Padding(0, 1).
			Foreground(lipgloss.Color(ColorPrimaryText)).
			Background(lipgloss.Color(ColorAccentMain))

	tabStyle = lipgloss.NewStyle().
			Padding(0, 1).
			Foreground(lipgloss.Color(ColorSecondaryText))

	bodyStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color(ColorBorder)).
			Padding(0, 1)

	headerStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(ColorSecondaryText))
	mutedStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color(ColorHelpText))
	errorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color(ColorError))
)

// statusStyle colors a task status.
func statusStyle(status string) lipgloss.Style {
	switch status {
	case "Completed":
		return lipgloss.NewStyle().Foreground(lipgloss.Color(ColorSuccess))
	case "Blocked":
		return lipgloss.NewStyle().Foreground(lipgloss.Color(ColorError))
	case "In Progress", "Pending":
		return lipgloss.NewStyle().Foreground(lipgloss.Color(ColorWarning))
	default:
		return lipgloss.NewStyle().Foreground(lipgloss.Color(ColorPrimaryText))
	}
}
