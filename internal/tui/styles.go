package tui

import "github.com/charmbracelet/lipgloss"

var (
	// Colors
	primaryColor = lipgloss.Color("#1A5276") // Blue
	accentColor  = lipgloss.Color("#10B981") // Green
	errorColor   = lipgloss.Color("#EF4444") // Red
	mutedColor   = lipgloss.Color("#6B7280") // Gray

	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(primaryColor)

	breadcrumbStyle = lipgloss.NewStyle().
			Foreground(mutedColor)

	cursorStyle = lipgloss.NewStyle().
			Foreground(accentColor).
			Bold(true)

	itemStyle = lipgloss.NewStyle().
			PaddingLeft(2)

	selectedItemStyle = lipgloss.NewStyle().
				PaddingLeft(0).
				Foreground(accentColor).
				Bold(true)

	countStyle = lipgloss.NewStyle().
			Foreground(mutedColor)

	tagStyle = lipgloss.NewStyle().
			Foreground(mutedColor).
			PaddingLeft(4)

	errStyle = lipgloss.NewStyle().
			Foreground(errorColor)

	helpStyle = lipgloss.NewStyle().
			Foreground(mutedColor).
			MarginTop(1)
)
