package view

import (
	"github.com/charmbracelet/lipgloss"

	"taskflow/internal/model"
)

var statusColors = map[model.Status]lipgloss.Color{
	model.StatusUnassigned: lipgloss.Color("#ff6b6b"),
	model.StatusAssigned:   lipgloss.Color("#4ecdc4"),
	model.StatusInProgress: lipgloss.Color("#45b7d1"),
	model.StatusClosed:     lipgloss.Color("#96ceb4"),
}

const fallbackColor = lipgloss.Color("#667eea")

var (
	titleStyle = lipgloss.NewStyle().Bold(true).MarginBottom(1)
	errorStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#ff0000"))
	mutedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#666666"))
	labelStyle = lipgloss.NewStyle().Bold(true)

	tileStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			Padding(0, 2).
			Width(18).
			Align(lipgloss.Center)

	cardStyle = lipgloss.NewStyle().
			BorderStyle(lipgloss.NormalBorder()).
			BorderLeft(true).
			PaddingLeft(1).
			MarginBottom(1)
)

// StatusColor is the accent colour used for a status.
func StatusColor(s model.Status) lipgloss.Color {
	if c, ok := statusColors[s]; ok {
		return c
	}
	return fallbackColor
}
