package ui

import "github.com/charmbracelet/lipgloss"

// ------- Lip Gloss styles for the interactive views -------
var (
	TitleStyle   = lipgloss.NewStyle().Bold(true)
	SuccessStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	PendingStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
	AccentStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("12"))
	MutedStyle   = lipgloss.NewStyle().Faint(true)
	ErrorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true)

	SelectedStyle = lipgloss.NewStyle().Bold(true).Reverse(true)
	DoneStyle     = lipgloss.NewStyle().Faint(true).Strikethrough(true)
	HelpStyle     = lipgloss.NewStyle().Faint(true)

	FocusedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("12")).Bold(true)
	BorderStyle  = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("8")).
			Padding(0, 1)
	DialogStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("12")).
			Padding(0, 1)

	priorityStyles = map[string]lipgloss.Style{
		"low":    lipgloss.NewStyle().Foreground(lipgloss.Color("8")),
		"medium": lipgloss.NewStyle().Foreground(lipgloss.Color("214")),
		"high":   lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true),
	}
)

// PriorityStyle returns the lipgloss style for a priority level name.
func PriorityStyle(level string) lipgloss.Style {
	if s, ok := priorityStyles[level]; ok {
		return s
	}
	return MutedStyle
}

const (
	BoxChecked   = "☑"
	BoxUnchecked = "☐"
)
