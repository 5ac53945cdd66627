package monitor

import (
	"fmt"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/lipgloss"

	"github.com/sysdash/sysdash/internal/telemetry"
)

// AppSize formats an app size in MB, or placeholder when unknown.
func AppSize(sizeMB float64, placeholder string) string {
	if sizeMB <= 0 {
		return placeholder
	}
	return fmt.Sprintf("%.2f MB", sizeMB)
}

// AppRows converts app entries into table rows: name, version, size and
// install date. Empty display fields show placeholder.
func AppRows(apps []telemetry.AppEntry, placeholder string) [][]string {
	orPlaceholder := func(s string) string {
		if s == "" {
			return placeholder
		}
		return s
	}
	rows := make([][]string, len(apps))
	for i, a := range apps {
		rows[i] = []string{
			a.Name,
			orPlaceholder(a.Version),
			AppSize(a.SizeMB, placeholder),
			orPlaceholder(a.InstallDate),
		}
	}
	return rows
}

// appColumns sizes the four inventory columns to fit width.
func appColumns(width int) []table.Column {
	const (
		versionWidth = 14
		sizeWidth    = 12
		dateWidth    = 12
	)
	nameWidth := width - versionWidth - sizeWidth - dateWidth - 8
	if nameWidth < 12 {
		nameWidth = 12
	}
	return []table.Column{
		{Title: "Name", Width: nameWidth},
		{Title: "Version", Width: versionWidth},
		{Title: "Size", Width: sizeWidth},
		{Title: "Installed", Width: dateWidth},
	}
}

// RenderAppsTable renders the installed-app inventory with the selected row
// highlighted and scrolled into view. height counts the header row.
func RenderAppsTable(apps []telemetry.AppEntry, placeholder string, selected, width, height int) string {
	if height < 2 {
		height = 2
	}

	raw := AppRows(apps, placeholder)
	rows := make([]table.Row, len(raw))
	for i, r := range raw {
		rows[i] = table.Row(r)
	}

	t := table.New(
		table.WithColumns(appColumns(width)),
		table.WithRows(rows),
		table.WithFocused(true),
		table.WithHeight(height),
	)

	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(ColorBorder).
		BorderBottom(true).
		Bold(true).
		Foreground(ColorAccent)
	s.Cell = s.Cell.Foreground(ColorTextPrimary)
	s.Selected = s.Selected.
		Foreground(ColorTextPrimary).
		Background(ColorBorder).
		Bold(true)
	t.SetStyles(s)

	if selected >= 0 && selected < len(rows) {
		t.SetCursor(selected)
	}
	return t.View()
}
