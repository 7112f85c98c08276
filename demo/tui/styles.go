package tui

import "github.com/charmbracelet/lipgloss"

// Color palette
const (
	colorPrimary   = "#7D56F4"
	colorSuccess   = "#04B575"
	colorCritical  = "#FF0000"
	colorInfo      = "#626262"
	colorHighlight = "#FAFAFA"
	colorDisabled  = "#3C3C3C"
)

// Styles for the TUI application
var (
	TitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color(colorPrimary)).
			MarginTop(1).
			MarginBottom(1)

	StatusStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color(colorSuccess))

	// CriticalStyle renders the workflow error message
	CriticalStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color(colorCritical))

	InfoStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color(colorInfo))

	ButtonStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color(colorHighlight)).
			Background(lipgloss.Color(colorPrimary)).
			Padding(0, 3)

	DisabledButtonStyle = ButtonStyle.
				Foreground(lipgloss.Color(colorInfo)).
				Background(lipgloss.Color(colorDisabled))
)
