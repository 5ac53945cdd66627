package monitor

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/sysdash/sysdash/internal/errors"
	"github.com/sysdash/sysdash/internal/telemetry"
)

const gaugeLabelWidth = 6

// RenderGauges renders the resource gauges region: CPU, memory and disk
// bars colored by their thresholds, network totals, and the snapshot
// timestamp. Unknown temperatures show placeholder.
func RenderGauges(snap telemetry.Snapshot, th Thresholds, placeholder string, width int) string {
	if width < 40 {
		width = 40
	}
	inner := width - 4
	barWidth := inner - gaugeLabelWidth - 2 - 8 - 2 - 24
	if barWidth < 8 {
		barWidth = 8
	}

	cpu := snap.CPU
	mem := snap.Memory
	disk := snap.Disk
	net := snap.Network

	lines := []string{
		gaugeLine("CPU", cpu.Percent, th.CPU, barWidth, cpuDetail(cpu, placeholder)),
		gaugeLine("RAM", mem.Percent, th.Memory, barWidth,
			fmt.Sprintf("%s / %s GB", telemetry.BytesToGB(mem.UsedBytes), telemetry.BytesToGB(mem.TotalBytes))),
		gaugeLine("Disk", disk.Percent, th.Disk, barWidth,
			fmt.Sprintf("%s / %s GB", telemetry.BytesToGB(disk.UsedBytes), telemetry.BytesToGB(disk.TotalBytes))),
		"",
		LabelStyle.Render("Net   ") +
			ValueStyle.Render(fmt.Sprintf("↑ %s MB  ↓ %s MB  Σ %s MB",
				telemetry.BytesToMB(net.BytesSent),
				telemetry.BytesToMB(net.BytesRecv),
				telemetry.BytesToMB(net.BytesSent+net.BytesRecv))),
		LabelStyle.Render("Load  ") +
			ValueStyle.Render(fmt.Sprintf("%.2f %.2f %.2f", cpu.LoadAvg[0], cpu.LoadAvg[1], cpu.LoadAvg[2])) +
			MutedStyle.Render(fmt.Sprintf("   swap %s", telemetry.FormatPercent(mem.SwapPercent))),
		LabelStyle.Render("Temp  ") +
			temperatureStyle(cpu.Temperature).Render(telemetry.FormatTemperature(cpu.Temperature, placeholder)),
	}

	return Section("Resources", "Updated: "+snap.Timestamp, lines, width)
}

func gaugeLine(label string, percent float64, t Threshold, barWidth int, detail string) string {
	level := t.Level(percent)
	pct := lipgloss.NewStyle().Foreground(LevelColor(level)).Bold(true).
		Render(padLeft(telemetry.FormatPercent(percent), 7))

	return StatusDot(level) + " " +
		LabelStyle.Render(padRight(label, gaugeLabelWidth-2)) + " " +
		ProgressBar(barWidth, percent, t) + " " +
		pct + "  " +
		MutedStyle.Render(detail)
}

func cpuDetail(cpu telemetry.CPU, placeholder string) string {
	var parts []string
	if cpu.Cores > 0 && cpu.Cores != cpu.Count {
		parts = append(parts, fmt.Sprintf("%dC/%dT", cpu.Cores, cpu.Count))
	} else {
		parts = append(parts, fmt.Sprintf("%d cores", cpu.Count))
	}
	if cpu.FrequencyMHz > 0 {
		parts = append(parts, telemetry.MHzToGHz(cpu.FrequencyMHz)+" GHz")
	} else {
		parts = append(parts, placeholder)
	}
	return strings.Join(parts, " @ ")
}

func temperatureStyle(r telemetry.Reading) lipgloss.Style {
	if !r.Valid {
		return MutedStyle
	}
	return ValueStyle
}

// RenderStreamError renders the inline error shown in the gauges region
// while the event stream is down.
func RenderStreamError(err error, width int) string {
	if err == nil {
		return ""
	}
	msg := GlyphDisconnected + " " + errors.Inline(err)
	hint := "  press r to reconnect"
	return ErrorStyle.Render(truncate(msg, width-lipgloss.Width(hint))) + MutedStyle.Render(hint)
}
