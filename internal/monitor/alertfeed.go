package monitor

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"

	"github.com/sysdash/sysdash/internal/telemetry"
)

// RenderAlertFeed renders the alert feed region, newest first, as given.
// selected is the highlighted entry, or -1 for none.
func RenderAlertFeed(items []telemetry.AlertEvent, selected, width int) string {
	if width < 30 {
		width = 30
	}
	inner := width - 4

	var lines []string
	if len(items) == 0 {
		lines = append(lines, MutedStyle.Render("No alerts"))
	}
	for i, a := range items {
		color := SeverityColor(a.Severity)
		glyph := lipgloss.NewStyle().Foreground(color).Render(SeverityGlyph(a.Severity))
		ts := MutedStyle.Render(a.Timestamp)
		head := lipgloss.NewStyle().Foreground(color).Bold(true).Render(a.Title)
		prefix := lipgloss.Width(a.Timestamp) + lipgloss.Width(a.Title) + 5
		body := truncate(a.Message, inner-prefix)

		line := glyph + " " + ts + " " + head + "  " + body
		if i == selected {
			line = SelectedRowStyle.Render(SeverityGlyph(a.Severity) + " " + a.Timestamp + " " + a.Title + "  " + body)
		}
		lines = append(lines, line)
	}

	return Section("Alerts", fmt.Sprintf("%d", len(items)), lines, width)
}
