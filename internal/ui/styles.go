package ui

import "github.com/charmbracelet/lipgloss"

// Palette tuned for dark terminals.
const (
	ColorWhite   = "#FFFFFF"
	ColorGray500 = "#6B7280"
	ColorGray600 = "#4B5563"
	ColorGray800 = "#1F2937"
	ColorMoss300 = "#A7D7A0"
	ColorMoss400 = "#7CC47F"
	ColorMoss500 = "#4FA65A"
	ColorMoss600 = "#3B8A47"
	ColorAmber   = "#F2B84B"
	ColorRust    = "#E5674B"
	ColorSky     = "#7DB7E8"
	ColorPlum    = "#B48EDB"
)

var (
	TitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color(ColorMoss500))

	SuccessStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color(ColorMoss400))

	ErrorStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color(ColorRust))

	WarningStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color(ColorAmber))

	DimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color(ColorGray500))

	StepStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color(ColorSky))

	CommandStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color(ColorSky))

	BoldStyle = lipgloss.NewStyle().Bold(true)

	AccentStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color(ColorPlum))

	BoxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color(ColorMoss500)).
			Padding(0, 1)

	// Tree entries in previews.
	DirStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color(ColorSky))
	FileStyle = lipgloss.NewStyle()
)
