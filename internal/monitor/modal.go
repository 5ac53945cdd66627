package monitor

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// ModalKind identifies which overlay is open.
type ModalKind int

const (
	ModalNone ModalKind = iota
	// ModalConfirm asks the user to confirm an uninstall.
	ModalConfirm
	// ModalResult shows the outcome of an action and must be dismissed.
	ModalResult
)

// Modal is a blocking overlay. While open it captures all keys.
type Modal struct {
	Kind    ModalKind
	Title   string
	Message string
	Success bool
}

// Open reports whether a modal is showing.
func (m Modal) Open() bool {
	return m.Kind != ModalNone
}

var modalBoxStyle = lipgloss.NewStyle().
	Border(lipgloss.RoundedBorder()).
	Background(ColorSurfaceBg).
	Padding(1, 2)

// RenderModal renders m centered in a width x height area.
func RenderModal(m Modal, width, height int) string {
	if !m.Open() {
		return ""
	}

	border := ColorAccent
	titleColor := ColorAccent
	var hint string
	switch m.Kind {
	case ModalConfirm:
		border = ColorWarning
		titleColor = ColorWarning
		hint = "y / enter confirm    n / esc cancel"
	case ModalResult:
		if m.Success {
			border, titleColor = ColorHealthy, ColorHealthy
		} else {
			border, titleColor = ColorCritical, ColorCritical
		}
		hint = "enter / esc close"
	}

	boxWidth := width / 2
	if boxWidth < 30 {
		boxWidth = 30
	}

	lines := []string{
		lipgloss.NewStyle().Foreground(titleColor).Bold(true).Render(m.Title),
		"",
		lipgloss.NewStyle().Foreground(ColorTextPrimary).Width(boxWidth).Render(m.Message),
		"",
		MutedStyle.Render(hint),
	}
	box := modalBoxStyle.BorderForeground(border).Render(strings.Join(lines, "\n"))

	return lipgloss.Place(
		width,
		height,
		lipgloss.Center,
		lipgloss.Center,
		box,
		lipgloss.WithWhitespaceChars(" "),
		lipgloss.WithWhitespaceForeground(ColorDarkBg),
	)
}
