package monitor

import (
	"fmt"
	"strconv"

	"github.com/sysdash/sysdash/internal/telemetry"
)

const (
	pidColWidth = 7
	pctColWidth = 7
)

// RenderProcessTable renders one top-process table in the order the
// producer sent it. selected is the highlighted row index, or -1 for none.
func RenderProcessTable(title string, procs []telemetry.ProcessInfo, selected, width int) string {
	if width < 36 {
		width = 36
	}
	inner := width - 4
	nameWidth := inner - pidColWidth - 2*pctColWidth - 3
	if nameWidth < 8 {
		nameWidth = 8
	}

	header := LabelStyle.Render(
		padRight("PID", pidColWidth) + " " +
			padRight("NAME", nameWidth) + " " +
			padLeft("CPU%", pctColWidth) + " " +
			padLeft("MEM%", pctColWidth))

	lines := []string{header}
	if len(procs) == 0 {
		lines = append(lines, MutedStyle.Render("no processes"))
	}
	for i, p := range procs {
		row := padRight(strconv.Itoa(p.PID), pidColWidth) + " " +
			padRight(truncate(p.Name, nameWidth), nameWidth) + " " +
			padLeft(fmt.Sprintf("%.1f", p.CPUPercent), pctColWidth) + " " +
			padLeft(fmt.Sprintf("%.1f", p.MemPercent), pctColWidth)
		if i == selected {
			row = SelectedRowStyle.Render(row)
		} else {
			row = ValueStyle.Render(row)
		}
		lines = append(lines, row)
	}

	return Section(title, fmt.Sprintf("%d", len(procs)), lines, width)
}
