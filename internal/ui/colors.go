package ui

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

// Semantic colors for CLI output, as ANSI codes so they follow the user's
// terminal theme.
const (
	ColorSuccess lipgloss.Color = "2" // Green
	ColorError   lipgloss.Color = "1" // Red
	ColorWarning lipgloss.Color = "3" // Yellow
	ColorInfo    lipgloss.Color = "6" // Cyan
)

// Text colors for content hierarchy
const (
	ColorPrimary   lipgloss.Color = "7" // White/default
	ColorSecondary lipgloss.Color = "4" // Blue
	ColorMuted     lipgloss.Color = "8" // Gray (bright black)
)

// spinnerColors is the color cycle for the spinner glyph.
var spinnerColors = []lipgloss.Color{"6", "4", "5", "4"}

// DisableColors switches all lipgloss rendering, including the dashboard,
// to plain text.
func DisableColors() {
	lipgloss.SetColorProfile(termenv.Ascii)
}

// ColorsEnabled reports whether styled output will carry color codes.
func ColorsEnabled() bool {
	return lipgloss.ColorProfile() != termenv.Ascii
}

// Success renders s in the success color.
func Success(s string) string {
	return lipgloss.NewStyle().Foreground(ColorSuccess).Render(s)
}

// Failure renders s in the error color.
func Failure(s string) string {
	return lipgloss.NewStyle().Foreground(ColorError).Render(s)
}

// Muted renders s in the muted color.
func Muted(s string) string {
	return lipgloss.NewStyle().Foreground(ColorMuted).Render(s)
}
