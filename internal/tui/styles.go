package tui

import "github.com/charmbracelet/lipgloss"

// Table palette: felt green chrome, gold for money and actions, suit colours
// for the cards themselves.
var (
	HeaderStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#F5F0E1")).
			Background(lipgloss.Color("#1B5E20")).
			Bold(true)

	HandInfoStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#81C784")).
			Bold(true)

	ActionsStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFC107")).
			Bold(true)

	RedCardStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#E53935")).
			Bold(true)

	// Off-white rather than true black so the pips stay legible on dark
	// terminals.
	BlackCardStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#ECEFF1")).
			Bold(true)

	DealerStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#B0BEC5"))

	SuccessStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#66BB6A")).
			Bold(true)

	ErrorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#EF5350")).
			Bold(true)

	WarningStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFCA28")).
			Bold(true)

	InfoStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#9E9E9E"))
)
