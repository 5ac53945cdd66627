package monitor

import (
	"github.com/sysdash/sysdash/internal/telemetry"
)

// RenderHostPanel renders the host information region.
func RenderHostPanel(host telemetry.Host, width int) string {
	if width < 24 {
		width = 24
	}
	row := func(label, value string) string {
		return LabelStyle.Render(padRight(label, 14)) + ValueStyle.Render(value)
	}
	lines := []string{
		row("Model", host.SystemModel),
		row("Architecture", host.Architecture),
		row("OS", host.OSName),
		row("Version", host.OSVersion),
		row("Host", host.Hostname),
	}
	return Section("Host", host.Hostname, lines, width)
}
