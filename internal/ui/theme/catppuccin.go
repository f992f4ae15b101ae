package theme

import "github.com/charmbracelet/lipgloss"

var (
	Text     = lipgloss.Color("#cdd6f4")
	Subtext0 = lipgloss.Color("#a6adc8")
	Lavender = lipgloss.Color("#b4befe")
	Sapphire = lipgloss.Color("#74c7ec")
	Green    = lipgloss.Color("#a6e3a1")
	Yellow   = lipgloss.Color("#f9e2af")
	Peach    = lipgloss.Color("#fab387")
	Red      = lipgloss.Color("#f38ba8")

	Title = lipgloss.NewStyle().Foreground(Sapphire).Bold(true)
	Muted = lipgloss.NewStyle().Foreground(Subtext0)
	Hot   = lipgloss.NewStyle().Foreground(Peach).Bold(true)

	urgency = map[string]lipgloss.Style{
		"Low":      lipgloss.NewStyle().Foreground(Green),
		"Medium":   lipgloss.NewStyle().Foreground(Yellow),
		"High":     lipgloss.NewStyle().Foreground(Peach),
		"Critical": lipgloss.NewStyle().Foreground(Red).Bold(true),
	}
	stage = map[string]lipgloss.Style{
		"New":            lipgloss.NewStyle().Foreground(Lavender),
		"Learning":       lipgloss.NewStyle().Foreground(Sapphire),
		"NeedsAttention": lipgloss.NewStyle().Foreground(Peach),
		"Mastered":       lipgloss.NewStyle().Foreground(Green).Bold(true),
	}
)

// Urgency renders an urgency label padded to width, coloured by severity.
func Urgency(label string, width int) string {
	return styled(urgency, label, width)
}

// Stage renders a learning stage label padded to width.
func Stage(label string, width int) string {
	return styled(stage, label, width)
}

func styled(styles map[string]lipgloss.Style, label string, width int) string {
	style, ok := styles[label]
	if !ok {
		style = lipgloss.NewStyle().Foreground(Text)
	}
	return style.Width(width).Render(label)
}
