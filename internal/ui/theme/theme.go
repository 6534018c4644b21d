package theme

import "github.com/charmbracelet/lipgloss"

// Indigo and purple accents over a dark base.
var (
	Base     = lipgloss.Color("#1e1b2e")
	Mantle   = lipgloss.Color("#17152a")
	Surface1 = lipgloss.Color("#3f3a5c")
	Text     = lipgloss.Color("#e0def4")
	Subtext0 = lipgloss.Color("#a6a3c2")
	Indigo   = lipgloss.Color("#818cf8")
	Purple   = lipgloss.Color("#c084fc")
	Pink     = lipgloss.Color("#f9a8d4")

	Title = lipgloss.NewStyle().Foreground(Indigo).Bold(true)
	Muted = lipgloss.NewStyle().Foreground(Subtext0)
	Hot   = lipgloss.NewStyle().Foreground(Purple).Bold(true)
	Alert = lipgloss.NewStyle().Foreground(Pink)
)
