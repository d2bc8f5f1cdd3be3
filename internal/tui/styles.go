package tui

import "github.com/charmbracelet/lipgloss"

var (
	colorBlue   = lipgloss.AdaptiveColor{Light: "#1565c0", Dark: "#42a5f5"}
	colorRed    = lipgloss.AdaptiveColor{Light: "#c62828", Dark: "#ef5350"}
	colorYellow = lipgloss.AdaptiveColor{Light: "#f9a825", Dark: "#ffee58"}
	colorGreen  = lipgloss.AdaptiveColor{Light: "#2e7d32", Dark: "#66bb6a"}
	colorMuted  = lipgloss.AdaptiveColor{Light: "#757575", Dark: "#9e9e9e"}
	colorBorder = lipgloss.AdaptiveColor{Light: "#bdbdbd", Dark: "#616161"}
	colorFg     = lipgloss.AdaptiveColor{Light: "#212121", Dark: "#e0e0e0"}
	colorOnBlue = lipgloss.AdaptiveColor{Light: "#ffffff", Dark: "#1e1e1e"}
)

// titleColors 标题逐字着色
var titleColors = []lipgloss.AdaptiveColor{colorBlue, colorRed, colorYellow, colorBlue, colorGreen, colorRed, colorYellow}

var (
	fieldStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorBorder).
			Padding(0, 1)

	fieldFocusedStyle = fieldStyle.BorderForeground(colorBlue)

	buttonStyle = lipgloss.NewStyle().
			Foreground(colorOnBlue).
			Background(colorBlue).
			Padding(0, 2)

	buttonFocusedStyle = buttonStyle.Bold(true).Underline(true)

	buttonDisabledStyle = lipgloss.NewStyle().
				Foreground(colorMuted).
				Background(lipgloss.AdaptiveColor{Light: "#e0e0e0", Dark: "#333333"}).
				Padding(0, 2)

	errorStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorRed).
			Foreground(colorRed).
			Padding(0, 1)

	countStyle    = lipgloss.NewStyle().Foreground(colorMuted)
	labelStyle    = lipgloss.NewStyle().Foreground(colorBlue).Bold(true)
	subtitleStyle = lipgloss.NewStyle().Foreground(colorGreen)
	excerptStyle  = lipgloss.NewStyle().Foreground(colorFg)
	emptyStyle    = lipgloss.NewStyle().Foreground(colorMuted).Italic(true)
	hintStyle     = lipgloss.NewStyle().Faint(true)
)
