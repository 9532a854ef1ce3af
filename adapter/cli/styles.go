package cli

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

var (
	headerStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	mutedStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	okStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	warnStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("11"))
	errorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	panelStyle  = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
)

// Header renders a section title.
func Header(s string) string {
	return headerStyle.Render(s)
}

// Muted renders secondary text such as ids and dates.
func Muted(s string) string {
	return mutedStyle.Render(s)
}

// Success renders a confirmation line.
func Success(s string) string {
	return okStyle.Render(s)
}

// Warning renders something the user should look at.
func Warning(s string) string {
	return warnStyle.Render(s)
}

// Failure renders an error line.
func Failure(s string) string {
	return errorStyle.Render(s)
}

// Panel boxes a block of lines.
func Panel(lines ...string) string {
	return panelStyle.Render(strings.Join(lines, "\n"))
}

// Columns lays panels out side by side.
func Columns(panels ...string) string {
	return lipgloss.JoinHorizontal(lipgloss.Top, panels...)
}

// PriorityBadge renders a task priority.
func PriorityBadge(priority string) string {
	switch priority {
	case "high":
		return errorStyle.Render("(!)")
	case "medium":
		return warnStyle.Render("(~)")
	case "low":
		return mutedStyle.Render("(.)")
	default:
		return ""
	}
}

// StatusIcon renders a task status checkbox.
func StatusIcon(status string) string {
	switch status {
	case "done":
		return okStyle.Render("[x]")
	case "in-progress":
		return warnStyle.Render("[>]")
	default:
		return "[ ]"
	}
}

// ShortID trims an id for display.
func ShortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
