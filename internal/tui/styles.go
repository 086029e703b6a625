package tui

import (
	"github.com/charmbracelet/lipgloss"
)

// Theme colors - Soft, low-contrast palette inspired by Tokyo Night / Catppuccin
var (
	// Value colors in rendered arrays
	stringColor  = lipgloss.Color("#9ece6a") // Soft sage green
	errorColor   = lipgloss.Color("#f7768e") // Soft coral red
	numberColor  = lipgloss.Color("#e0af68") // Warm amber
	keywordColor = lipgloss.Color("#bb9af7") // Soft lavender
	fieldColor   = lipgloss.Color("#7dcfff") // Soft sky blue

	// UI colors
	selectedBg    = lipgloss.Color("#292e42") // Deep navy selection
	selectedFg    = lipgloss.Color("#cdd6f4")
	headerColor   = lipgloss.Color("#7aa2f7") // Soft periwinkle
	borderColor   = lipgloss.Color("#3b4261") // Muted slate
	focusColor    = lipgloss.Color("#73daca") // Soft teal
	mutedColorVal = lipgloss.Color("#565f89") // Soft gray-blue
	textColor     = lipgloss.Color("#a9b1d6") // Soft lavender gray
	searchColor   = lipgloss.Color("#f9e2af")

	// glamourStyle is the glamour theme for the help panel
	glamourStyle = "dark"
)

// Styles
var (
	appStyle           lipgloss.Style
	headerStyle        lipgloss.Style
	summaryStyle       lipgloss.Style
	selectedStyle      lipgloss.Style
	mutedColor         lipgloss.Style
	helpStyle          lipgloss.Style
	searchStyle        lipgloss.Style
	labelStyle         lipgloss.Style
	focusedLabelStyle  lipgloss.Style
	optionStyle        lipgloss.Style
	errorStyle         lipgloss.Style
	successStyle       lipgloss.Style
	sectionBorderStyle lipgloss.Style
	focusedBorderStyle lipgloss.Style
	nudgeStyle         lipgloss.Style

	stringStyle  lipgloss.Style
	numberStyle  lipgloss.Style
	keywordStyle lipgloss.Style
	fieldStyle   lipgloss.Style
	insertStyle  lipgloss.Style
	deleteStyle  lipgloss.Style
)

func init() {
	buildStyles()
}

// SetLightPalette switches to colors readable on a light terminal background
func SetLightPalette() {
	stringColor = lipgloss.Color("#587539")
	errorColor = lipgloss.Color("#c53b53")
	numberColor = lipgloss.Color("#8f5e15")
	keywordColor = lipgloss.Color("#7847bd")
	fieldColor = lipgloss.Color("#007197")
	selectedBg = lipgloss.Color("#d5d6db")
	selectedFg = lipgloss.Color("#343b58")
	headerColor = lipgloss.Color("#2e7de9")
	borderColor = lipgloss.Color("#a8aecb")
	focusColor = lipgloss.Color("#118c74")
	mutedColorVal = lipgloss.Color("#6172b0")
	textColor = lipgloss.Color("#3760bf")
	searchColor = lipgloss.Color("#8c6c3e")
	glamourStyle = "light"
	buildStyles()
}

// SetDarkPalette restores the default dark colors
func SetDarkPalette() {
	stringColor = lipgloss.Color("#9ece6a")
	errorColor = lipgloss.Color("#f7768e")
	numberColor = lipgloss.Color("#e0af68")
	keywordColor = lipgloss.Color("#bb9af7")
	fieldColor = lipgloss.Color("#7dcfff")
	selectedBg = lipgloss.Color("#292e42")
	selectedFg = lipgloss.Color("#cdd6f4")
	headerColor = lipgloss.Color("#7aa2f7")
	borderColor = lipgloss.Color("#3b4261")
	focusColor = lipgloss.Color("#73daca")
	mutedColorVal = lipgloss.Color("#565f89")
	textColor = lipgloss.Color("#a9b1d6")
	searchColor = lipgloss.Color("#f9e2af")
	glamourStyle = "dark"
	buildStyles()
}

func buildStyles() {
	// App container
	appStyle = lipgloss.NewStyle().
		Padding(1, 2)

	headerStyle = lipgloss.NewStyle().
		Bold(true).
		Foreground(headerColor).
		MarginBottom(1)

	summaryStyle = lipgloss.NewStyle().
		Foreground(textColor)

	selectedStyle = lipgloss.NewStyle().
		Background(selectedBg).
		Foreground(selectedFg).
		Bold(true)

	mutedColor = lipgloss.NewStyle().
		Foreground(mutedColorVal)

	helpStyle = lipgloss.NewStyle().
		Foreground(mutedColorVal).
		MarginTop(1)

	searchStyle = lipgloss.NewStyle().
		Foreground(searchColor).
		Bold(true)

	labelStyle = lipgloss.NewStyle().
		Foreground(mutedColorVal).
		Bold(true)

	focusedLabelStyle = lipgloss.NewStyle().
		Foreground(focusColor).
		Bold(true)

	optionStyle = lipgloss.NewStyle().
		Foreground(keywordColor)

	errorStyle = lipgloss.NewStyle().
		Foreground(errorColor).
		Bold(true)

	successStyle = lipgloss.NewStyle().
		Foreground(stringColor)

	// Border style for sections
	sectionBorderStyle = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(borderColor).
		Padding(0, 1)

	focusedBorderStyle = sectionBorderStyle.
		BorderForeground(focusColor)

	nudgeStyle = lipgloss.NewStyle().
		Foreground(focusColor).
		Italic(true)

	stringStyle = lipgloss.NewStyle().Foreground(stringColor)
	numberStyle = lipgloss.NewStyle().Foreground(numberColor)
	keywordStyle = lipgloss.NewStyle().Foreground(keywordColor)
	fieldStyle = lipgloss.NewStyle().Foreground(fieldColor)
	insertStyle = lipgloss.NewStyle().Foreground(stringColor)
	deleteStyle = lipgloss.NewStyle().Foreground(errorColor)
}
