package monitor

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/sysdash/sysdash/internal/telemetry"
)

// Dashboard color palette
const (
	ColorDarkBg    = lipgloss.Color("#0A0A0F")
	ColorSurfaceBg = lipgloss.Color("#12121A")
	ColorBorder    = lipgloss.Color("#2A2A4A")

	// Semantic colors for metric levels
	ColorHealthy  = lipgloss.Color("#39FF14")
	ColorWarning  = lipgloss.Color("#FFAA00")
	ColorCritical = lipgloss.Color("#FF0055")
	ColorInfo     = lipgloss.Color("#00BFFF")

	// Text colors
	ColorTextPrimary   = lipgloss.Color("#FFFFFF")
	ColorTextSecondary = lipgloss.Color("#B4B4D0")
	ColorTextMuted     = lipgloss.Color("#6B6B8D")

	// Accents
	ColorAccent    = lipgloss.Color("#FF2E97")
	ColorAccentDim = lipgloss.Color("#BF40FF")

	// Chart colors
	ColorGraph    = lipgloss.Color("#00FFFF")
	ColorGraphAlt = lipgloss.Color("#BF40FF")
)

// Base styles for the dashboard
var (
	HeaderStyle = lipgloss.NewStyle().
			Foreground(ColorTextPrimary).
			Background(ColorSurfaceBg).
			Bold(true).
			Padding(0, 1)

	FooterStyle = lipgloss.NewStyle().
			Foreground(ColorTextMuted).
			Padding(0, 1)

	LabelStyle = lipgloss.NewStyle().
			Foreground(ColorTextSecondary)

	ValueStyle = lipgloss.NewStyle().
			Foreground(ColorTextPrimary)

	MutedStyle = lipgloss.NewStyle().
			Foreground(ColorTextMuted)

	ErrorStyle = lipgloss.NewStyle().
			Foreground(ColorCritical).
			Bold(true)

	SelectedRowStyle = lipgloss.NewStyle().
				Foreground(ColorTextPrimary).
				Background(ColorBorder).
				Bold(true)

	TabActiveStyle = lipgloss.NewStyle().
			Foreground(ColorAccent).
			Bold(true).
			Underline(true)

	TabInactiveStyle = lipgloss.NewStyle().
				Foreground(ColorTextMuted)
)

// Status glyphs
const (
	GlyphStatus       = "●"
	GlyphConnected    = "◉"
	GlyphDisconnected = "◌"
	GlyphConnecting   = "◐"
	GlyphPending      = "…"
)

// Level is the health classification of a gauge value.
type Level int

const (
	LevelGood Level = iota
	LevelWarning
	LevelDanger
)

// String returns the level name.
func (l Level) String() string {
	switch l {
	case LevelWarning:
		return "warning"
	case LevelDanger:
		return "danger"
	default:
		return "good"
	}
}

// Threshold is a warning/danger pair for one gauge, in percent.
type Threshold struct {
	Warning float64
	Danger  float64
}

// Thresholds holds the per-gauge thresholds.
type Thresholds struct {
	CPU    Threshold
	Memory Threshold
	Disk   Threshold
}

// DefaultThresholds returns the stock gauge thresholds.
func DefaultThresholds() Thresholds {
	return Thresholds{
		CPU:    Threshold{Warning: 80, Danger: 90},
		Memory: Threshold{Warning: 80, Danger: 90},
		Disk:   Threshold{Warning: 85, Danger: 95},
	}
}

// StatusLevel classifies value: strictly above danger is LevelDanger,
// strictly above warning is LevelWarning, anything else is LevelGood.
func StatusLevel(value, warning, danger float64) Level {
	switch {
	case value > danger:
		return LevelDanger
	case value > warning:
		return LevelWarning
	default:
		return LevelGood
	}
}

// Level classifies value against the threshold.
func (t Threshold) Level(value float64) Level {
	return StatusLevel(value, t.Warning, t.Danger)
}

// LevelColor returns the color for a level.
func LevelColor(l Level) lipgloss.Color {
	switch l {
	case LevelDanger:
		return ColorCritical
	case LevelWarning:
		return ColorWarning
	default:
		return ColorHealthy
	}
}

// SeverityColor returns the color for an alert severity.
func SeverityColor(s telemetry.Severity) lipgloss.Color {
	switch s {
	case telemetry.SeverityDanger:
		return ColorCritical
	case telemetry.SeverityWarning:
		return ColorWarning
	default:
		return ColorInfo
	}
}

// SeverityGlyph returns the marker drawn before an alert.
func SeverityGlyph(s telemetry.Severity) string {
	switch s {
	case telemetry.SeverityDanger:
		return "✖"
	case telemetry.SeverityWarning:
		return "▲"
	default:
		return "ℹ"
	}
}

// StatusDot renders the colored status glyph for a level.
func StatusDot(l Level) string {
	return lipgloss.NewStyle().Foreground(LevelColor(l)).Render(GlyphStatus)
}

// ProgressBar renders a bracketless bar colored by the threshold level.
func ProgressBar(width int, percent float64, t Threshold) string {
	if width < 1 {
		width = 1
	}

	color := LevelColor(t.Level(percent))

	if percent < 0 {
		percent = 0
	}
	if percent > 100 {
		percent = 100
	}

	filled := int(percent / 100.0 * float64(width))
	if filled > width {
		filled = width
	}

	bar := strings.Repeat("▰", filled) + strings.Repeat("▱", width-filled)
	return lipgloss.NewStyle().Foreground(color).Render(bar)
}

// SectionHeader renders a section header with the title on the left and value on the right.
// Format: ╭─ Title ────────────────────────────────────── Value ╮
func SectionHeader(title, value string, width int) string {
	if width < 10 {
		width = 10
	}

	leftWidth := 3 + lipgloss.Width(title) + 1
	rightWidth := 1 + lipgloss.Width(value) + 2

	fillWidth := width - leftWidth - rightWidth
	if fillWidth < 1 {
		fillWidth = 1
	}
	middle := strings.Repeat("─", fillWidth)

	borderStyle := lipgloss.NewStyle().Foreground(ColorBorder)
	titleStyle := lipgloss.NewStyle().Foreground(ColorAccent).Bold(true)
	valueStyle := lipgloss.NewStyle().Foreground(ColorGraph).Bold(true)

	return borderStyle.Render("╭─ ") +
		titleStyle.Render(title) +
		borderStyle.Render(" "+middle+" ") +
		valueStyle.Render(value) +
		borderStyle.Render(" ╮")
}

// SectionFooter renders the bottom border of a section.
// Format: ╰────────────────────────────────────────────────────╯
func SectionFooter(width int) string {
	if width < 2 {
		width = 2
	}
	middle := strings.Repeat("─", width-2)
	return lipgloss.NewStyle().Foreground(ColorBorder).Render("╰" + middle + "╯")
}

// SectionContentLine renders a content line with left and right borders, padded to width.
// Content wider than the box is truncated.
// Format: │ content                                              │
func SectionContentLine(content string, width int) string {
	if width < 4 {
		width = 4
	}

	borderStyle := lipgloss.NewStyle().Foreground(ColorBorder)
	innerWidth := width - 4

	if lipgloss.Width(content) > innerWidth {
		content = lipgloss.NewStyle().MaxWidth(innerWidth).Render(content)
	}

	padding := innerWidth - lipgloss.Width(content)
	if padding < 0 {
		padding = 0
	}

	return borderStyle.Render("│") + " " + content + strings.Repeat(" ", padding) + " " + borderStyle.Render("│")
}

// Section renders a full box: header, one bordered line per content line,
// and footer.
func Section(title, value string, lines []string, width int) string {
	out := make([]string, 0, len(lines)+2)
	out = append(out, SectionHeader(title, value, width))
	for _, l := range lines {
		out = append(out, SectionContentLine(l, width))
	}
	out = append(out, SectionFooter(width))
	return strings.Join(out, "\n")
}

// truncate shortens s to at most n display cells, adding an ellipsis.
func truncate(s string, n int) string {
	if n <= 0 {
		return ""
	}
	if lipgloss.Width(s) <= n {
		return s
	}
	r := []rune(s)
	if n == 1 {
		return "…"
	}
	for len(r) > 0 && lipgloss.Width(string(r))+1 > n {
		r = r[:len(r)-1]
	}
	return string(r) + "…"
}

// padRight pads s with spaces to n display cells.
func padRight(s string, n int) string {
	w := lipgloss.Width(s)
	if w >= n {
		return s
	}
	return s + strings.Repeat(" ", n-w)
}

// padLeft right-aligns s within n display cells.
func padLeft(s string, n int) string {
	w := lipgloss.Width(s)
	if w >= n {
		return s
	}
	return strings.Repeat(" ", n-w) + s
}
