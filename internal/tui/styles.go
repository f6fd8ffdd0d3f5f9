package tui

import "github.com/charmbracelet/lipgloss"

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#5F5FAF")).
			Padding(0, 1)

	selectedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#5F5FAF"))

	typeStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#87CEEB"))
	fieldStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#98FB98"))
	variantStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#FFD787"))
	dimStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#666666"))
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF6B6B"))
	helpStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#666666"))
	spinnerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#5F5FAF"))
)
