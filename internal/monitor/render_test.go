package monitor

import (
	stderrors "errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sysdash/sysdash/internal/errors"
	"github.com/sysdash/sysdash/internal/telemetry"
)

func sampleSnapshot() telemetry.Snapshot {
	return telemetry.Snapshot{
		Timestamp: "2026-10-16 10:00:00",
		CPU: telemetry.CPU{
			Percent:      42.5,
			Count:        8,
			Cores:        4,
			FrequencyMHz: 3200,
			Temperature:  telemetry.Known(61.5),
		},
		Memory: telemetry.Memory{
			UsedBytes:  2147483648,
			TotalBytes: 4294967296,
			Percent:    50,
		},
		Disk: telemetry.Disk{
			UsedBytes:  10 * 1073741824,
			TotalBytes: 100 * 1073741824,
			Percent:    10,
		},
		Network: telemetry.Network{
			BytesSent: 1048576,
			BytesRecv: 2 * 1048576,
		},
		Processes: telemetry.Processes{
			TopByCPU: []telemetry.ProcessInfo{
				{PID: 30, Name: "zeta", CPUPercent: 12, MemPercent: 1},
				{PID: 10, Name: "alpha", CPUPercent: 50, MemPercent: 2},
			},
			TopByMem: []telemetry.ProcessInfo{
				{PID: 7, Name: "postgres", CPUPercent: 1, MemPercent: 30},
			},
		},
		Host: telemetry.Host{
			Hostname:     "lab",
			OSName:       "Linux",
			OSVersion:    "6.1",
			Architecture: "x86_64",
			SystemModel:  "ThinkStation",
		},
	}
}

func TestRenderGauges(t *testing.T) {
	out := RenderGauges(sampleSnapshot(), DefaultThresholds(), "N/A", 100)

	assert.Contains(t, out, "Updated: 2026-10-16 10:00:00")
	assert.Contains(t, out, "42.5%")
	assert.Contains(t, out, "2.00 / 4.00 GB")
	assert.Contains(t, out, "10.00 / 100.00 GB")
	assert.Contains(t, out, "4C/8T @ 3.20 GHz")
	assert.Contains(t, out, "61.5 °C")
	assert.Contains(t, out, "↑ 1.00 MB  ↓ 2.00 MB  Σ 3.00 MB")
}

func TestRenderGauges_MissingTemperatureUsesPlaceholder(t *testing.T) {
	snap := sampleSnapshot()
	snap.CPU.Temperature = telemetry.Reading{}

	out := RenderGauges(snap, DefaultThresholds(), "N/A", 100)
	assert.Contains(t, out, "Temp  N/A")
	assert.NotContains(t, out, "°C")
}

func TestRenderStreamError(t *testing.T) {
	assert.Empty(t, RenderStreamError(nil, 80))

	err := errors.New(errors.ErrTransport, "Lost connection to the producer", "Press r to reconnect")
	out := RenderStreamError(err, 120)
	assert.Contains(t, out, "Lost connection to the producer")
	assert.Contains(t, out, "press r to reconnect")

	plain := RenderStreamError(stderrors.New("boom"), 120)
	assert.Contains(t, plain, "boom")
}

func TestRenderProcessTable_KeepsProducerOrder(t *testing.T) {
	procs := sampleSnapshot().Processes.TopByCPU
	out := RenderProcessTable("Top CPU", procs, -1, 60)

	zeta := strings.Index(out, "zeta")
	alpha := strings.Index(out, "alpha")
	require.NotEqual(t, -1, zeta)
	require.NotEqual(t, -1, alpha)
	assert.Less(t, zeta, alpha)
	assert.Contains(t, out, "12.0")
	assert.Contains(t, out, "PID")
}

func TestRenderProcessTable_Empty(t *testing.T) {
	out := RenderProcessTable("Top memory", nil, 0, 60)
	assert.Contains(t, out, "no processes")
}

func TestRenderHostPanel(t *testing.T) {
	out := RenderHostPanel(sampleSnapshot().Host, 50)
	for _, want := range []string{"ThinkStation", "x86_64", "Linux", "6.1", "lab"} {
		assert.Contains(t, out, want)
	}
}

func TestRenderAlertFeed(t *testing.T) {
	items := []telemetry.AlertEvent{
		{ID: "alert-2", Title: "Disk alert", Message: "Disk space at 97.0%", Severity: telemetry.SeverityWarning, Timestamp: "10:00:02"},
		{ID: "alert-1", Title: "CPU alert", Message: "CPU usage at 95.0%", Severity: telemetry.SeverityDanger, Timestamp: "10:00:01"},
	}
	out := RenderAlertFeed(items, 0, 100)

	assert.Less(t, strings.Index(out, "Disk alert"), strings.Index(out, "CPU alert"))
	assert.Contains(t, out, "10:00:01")
	assert.Contains(t, out, "CPU usage at 95.0%")

	assert.Contains(t, RenderAlertFeed(nil, -1, 60), "No alerts")
}

func TestAppRows(t *testing.T) {
	apps := []telemetry.AppEntry{
		{Name: "Editor", Version: "1.2", SizeMB: 12.5, InstallDate: "2026-01-02"},
		{Name: "Bare"},
	}
	rows := AppRows(apps, "N/A")

	assert.Equal(t, []string{"Editor", "1.2", "12.50 MB", "2026-01-02"}, rows[0])
	assert.Equal(t, []string{"Bare", "N/A", "N/A", "N/A"}, rows[1])
}

func TestRenderAppsTable(t *testing.T) {
	apps := []telemetry.AppEntry{
		{Name: "Editor", Version: "1.2", SizeMB: 12.5},
		{Name: "Browser", Version: "99"},
	}
	out := RenderAppsTable(apps, "N/A", 1, 100, 10)

	assert.Contains(t, out, "Name")
	assert.Contains(t, out, "Editor")
	assert.Contains(t, out, "Browser")
	assert.Contains(t, out, "12.50 MB")
}

func TestRenderModal(t *testing.T) {
	assert.Empty(t, RenderModal(Modal{}, 80, 24))

	confirm := RenderModal(Modal{Kind: ModalConfirm, Title: "Uninstall Foo?", Message: "Sure?"}, 80, 24)
	assert.Contains(t, confirm, "Uninstall Foo?")
	assert.Contains(t, confirm, "y / enter confirm")

	result := RenderModal(Modal{Kind: ModalResult, Title: "Kill failed", Message: "denied"}, 80, 24)
	assert.Contains(t, result, "denied")
	assert.Contains(t, result, "enter / esc close")
}

func TestRegionRenderersAreIdempotent(t *testing.T) {
	snap := sampleSnapshot()
	feed := []telemetry.AlertEvent{{ID: "alert-1", Title: "CPU alert", Severity: telemetry.SeverityDanger}}
	apps := []telemetry.AppEntry{{Name: "Editor"}}

	renders := map[string]func() string{
		"gauges":    func() string { return RenderGauges(snap, DefaultThresholds(), "N/A", 90) },
		"processes": func() string { return RenderProcessTable("Top CPU", snap.Processes.TopByCPU, 1, 60) },
		"host":      func() string { return RenderHostPanel(snap.Host, 50) },
		"alerts":    func() string { return RenderAlertFeed(feed, 0, 80) },
		"apps":      func() string { return RenderAppsTable(apps, "N/A", 0, 80, 5) },
		"chart":     func() string { return RenderChart("CPU", []float64{1, 2, 3}, UnitPercent, 40, 3, ColorGraph) },
	}

	for name, render := range renders {
		t.Run(name, func(t *testing.T) {
			assert.Equal(t, render(), render())
		})
	}
}

func TestRenderOverview(t *testing.T) {
	s := NewState(10, 50, false)
	s.Snapshot = sampleSnapshot()
	s.History.Push(s.Snapshot)

	layout := OverviewLayout{Width: 120, Thresholds: DefaultThresholds(), Placeholder: "N/A", NoSelection: true}
	out := RenderOverview(s, layout)

	for _, want := range []string{"Resources", "Host", "CPU", "Memory", "Net sent", "Net received", "Top CPU", "Top memory", "Alerts"} {
		assert.Contains(t, out, want)
	}
	assert.Equal(t, out, RenderOverview(s, layout))

	narrow := RenderOverview(s, OverviewLayout{Width: 60, Thresholds: DefaultThresholds(), Placeholder: "N/A"})
	assert.Contains(t, narrow, "Top memory")
}
