// Package theme holds the colours and styles shared by the views.
package theme

import "github.com/charmbracelet/lipgloss"

var (
	Accent = lipgloss.Color("#5FAFFF")

	// DepthColors cycles through these for indent bars.
	DepthColors = []lipgloss.Color{
		"#5FAFFF", // sky
		"#828282", // gray
		"#FF8700", // orange
		"#32CD32", // lime green
		"#FFD700", // gold
		"#FF69B4", // hot pink
		"#9370DB", // medium purple
		"#20B2AA", // light sea green
	}

	TitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FFFFFF"))

	MetaStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#828282"))

	AuthorStyle = lipgloss.NewStyle().
			Foreground(Accent).
			Bold(true)

	SelectedStyle = lipgloss.NewStyle().
			Background(lipgloss.Color("#333333"))

	DimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#666666"))

	SeparatorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#444444"))

	BadgeStyle = lipgloss.NewStyle().
			Background(lipgloss.Color("#FF0000")).
			Foreground(lipgloss.Color("#FFFFFF")).
			Bold(true).
			Padding(0, 1)
)

// DepthColor returns the bar colour for an indent level.
func DepthColor(indent int) lipgloss.Color {
	if indent < 0 {
		indent = 0
	}
	return DepthColors[indent%len(DepthColors)]
}
