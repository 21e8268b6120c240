package ui

import "github.com/charmbracelet/lipgloss"

// Child views carry their own styles; these cover the shell itself.
var (
	TitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FF4500"))

	DimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#666666"))
)
