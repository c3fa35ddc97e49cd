package theme

import "github.com/charmbracelet/lipgloss"

// Catppuccin Mocha.
var (
	Base     = lipgloss.Color("#1e1e2e")
	Mantle   = lipgloss.Color("#181825")
	Surface0 = lipgloss.Color("#313244")
	Surface1 = lipgloss.Color("#45475a")
	Text     = lipgloss.Color("#cdd6f4")
	Subtext0 = lipgloss.Color("#a6adc8")
	Lavender = lipgloss.Color("#b4befe")
	Sapphire = lipgloss.Color("#74c7ec")
	Teal     = lipgloss.Color("#94e2d5")
	Green    = lipgloss.Color("#a6e3a1")
	Yellow   = lipgloss.Color("#f9e2af")
	Peach    = lipgloss.Color("#fab387")
	Red      = lipgloss.Color("#f38ba8")

	Pane = lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(Surface1).
		Background(Mantle).
		Foreground(Text).
		Padding(1)

	PaneActive = Pane.BorderForeground(Lavender)

	Title = lipgloss.NewStyle().Foreground(Sapphire).Bold(true)
	Muted = lipgloss.NewStyle().Foreground(Subtext0)
	Hot   = lipgloss.NewStyle().Foreground(Peach).Bold(true)
	Good  = lipgloss.NewStyle().Foreground(Green).Bold(true)
	Bad   = lipgloss.NewStyle().Foreground(Red)

	Countdown = lipgloss.NewStyle().Foreground(Lavender).Bold(true).Padding(0, 2)
)

// Phase colours the breathing cue so inhale and exhale read apart at a glance.
func Phase(phase string) lipgloss.Style {
	switch phase {
	case "Inhale":
		return lipgloss.NewStyle().Foreground(Teal).Bold(true)
	case "Exhale":
		return lipgloss.NewStyle().Foreground(Sapphire).Bold(true)
	case "Hold":
		return lipgloss.NewStyle().Foreground(Yellow).Bold(true)
	default:
		return Muted
	}
}
