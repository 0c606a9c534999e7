package commands

import (
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/Kavas-89/Task-Management-System/internal/services"
	"github.com/Kavas-89/Task-Management-System/internal/tui"
	"github.com/Kavas-89/Task-Management-System/internal/validation"
	"github.com/charmbracelet/lipgloss"
)

var (
	successStyle = lipgloss.NewStyle().Foreground(lipgloss.Color(tui.ColorSuccess))
	warnStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color(tui.ColorWarning))
)

func success(w io.Writer, format string, args ...any) {
	fmt.Fprintln(w, successStyle.Render("✅ "+fmt.Sprintf(format, args...)))
}

func warn(w io.Writer, format string, args ...any) {
	fmt.Fprintln(w, warnStyle.Render("⚠️  "+fmt.Sprintf(format, args...)))
}

// describe turns service errors into messages for the terminal.
func describe(err error) error {
	var fe validation.FieldErrors
	switch {
	case errors.As(err, &fe):
		fields := make([]string, 0, len(fe))
		for field := range fe {
			fields = append(fields, field)
		}
		sort.Strings(fields)

		var b strings.Builder
		b.WriteString("invalid input:")
		for _, field := range fields {
			fmt.Fprintf(&b, "\n  %s: %s", field, fe[field])
		}
		return fmt.Errorf("%s: %w", b.String(), err)
	case errors.Is(err, services.ErrNoSession):
		return fmt.Errorf("not logged in, run 'taskctl login <username>': %w", err)
	case errors.Is(err, services.ErrForbidden):
		return fmt.Errorf("your role is not allowed to do this: %w", err)
	default:
		return err
	}
}
