package monitor

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"

	"github.com/sysdash/sysdash/internal/errors"
)

// BreakpointTwoColumn is the width from which the overview uses two columns.
const BreakpointTwoColumn = 100

const chartHeight = 4

// OverviewLayout holds the presentation inputs of the overview screen.
type OverviewLayout struct {
	Width       int
	Thresholds  Thresholds
	Placeholder string
	Focus       Focus
	SelCPU      int
	SelMem      int
	SelAlert    int
	// NoSelection renders every table without a highlighted row.
	NoSelection bool
}

// RenderOverview renders the overview screen from s: gauges, host panel,
// the four charts, both process tables and the alert feed.
func RenderOverview(s *State, l OverviewLayout) string {
	width := l.Width
	if width <= 0 {
		width = defaultWidth
	}

	sel := func(f Focus, i int) int {
		if l.NoSelection || l.Focus != f {
			return -1
		}
		return i
	}

	twoCol := width >= BreakpointTwoColumn
	half := width
	if twoCol {
		half = (width - 1) / 2
	}

	gauges := RenderGauges(s.Snapshot, l.Thresholds, l.Placeholder, half)
	if s.StreamErr != nil {
		gauges = RenderStreamError(s.StreamErr, half) + "\n" + gauges
	}
	host := RenderHostPanel(s.HostInfo(), half)

	cpuChart := RenderChart("CPU", s.History.Values(ChannelCPU), UnitPercent, half, chartHeight, ColorGraph)
	memChart := RenderChart("Memory", s.History.Values(ChannelMemory), UnitPercent, half, chartHeight, ColorGraphAlt)
	sentChart := RenderChart("Net sent", s.History.Values(ChannelNetSent), UnitMB, half, chartHeight, ColorInfo)
	recvChart := RenderChart("Net received", s.History.Values(ChannelNetRecv), UnitMB, half, chartHeight, ColorAccent)

	procs := s.Snapshot.Processes
	cpuTable := RenderProcessTable("Top CPU", procs.TopByCPU, sel(FocusCPU, l.SelCPU), half)
	memTable := RenderProcessTable("Top memory", procs.TopByMem, sel(FocusMemory, l.SelMem), half)

	alerts := RenderAlertFeed(s.Feed.Items(), sel(FocusAlerts, l.SelAlert), width)

	pairs := [][2]string{
		{gauges, host},
		{cpuChart, memChart},
		{sentChart, recvChart},
		{cpuTable, memTable},
	}

	var rows []string
	for _, p := range pairs {
		if twoCol {
			rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, p[0], " ", p[1]))
		} else {
			rows = append(rows, p[0], p[1])
		}
	}
	rows = append(rows, alerts)

	return lipgloss.JoinVertical(lipgloss.Left, rows...)
}

// renderOverview renders the overview with the model's selection.
func (m Model) renderOverview() string {
	return RenderOverview(m.state, OverviewLayout{
		Width:       m.viewWidth(),
		Thresholds:  m.thresholds,
		Placeholder: m.norm.Placeholders().NotAvailable,
		Focus:       m.focus,
		SelCPU:      m.selCPU,
		SelMem:      m.selMem,
		SelAlert:    m.selAlert,
	})
}

// renderApps renders the apps screen: filter input, then the inventory or
// its inline error.
func (m Model) renderApps() string {
	width := m.viewWidth()
	filterLine := m.filter.View()
	if !m.filter.Focused() && m.filter.Value() == "" {
		filterLine = MutedStyle.Render("press / to filter")
	}

	var body string
	apps := m.visibleApps()
	switch {
	case m.state.AppsErr != nil:
		body = ErrorStyle.Render("✗ "+errors.Inline(m.state.AppsErr)) + "\n" +
			MutedStyle.Render("press r to retry")
	case !m.state.AppsLoaded:
		body = MutedStyle.Render("Loading installed applications" + GlyphPending)
	case len(apps) == 0:
		body = MutedStyle.Render("No applications match")
	default:
		height := m.viewHeight() - headerHeight - footerHeight - 2
		body = RenderAppsTable(apps, m.norm.Placeholders().NotAvailable, m.selApp, width, height)
	}

	count := fmt.Sprintf("%d of %d apps", len(apps), len(m.state.Apps))
	return filterLine + "  " + MutedStyle.Render(count) + "\n\n" + body
}

// renderDashboard renders the complete dashboard view.
func (m Model) renderDashboard() string {
	var b strings.Builder

	b.WriteString(m.renderHeader())
	b.WriteString("\n")
	b.WriteString(m.renderTabs())
	b.WriteString("\n")

	if m.screen == ScreenApps {
		b.WriteString(m.renderApps())
	} else if m.viewportReady {
		b.WriteString(m.viewport.View())
	} else {
		b.WriteString(m.renderOverview())
	}

	b.WriteString("\n")
	b.WriteString(m.renderFooter())
	return b.String()
}

// renderHeader renders the title bar with connection state and data age.
func (m Model) renderHeader() string {
	title := lipgloss.NewStyle().
		Foreground(ColorAccent).
		Bold(true).
		Render("sysdash")

	var glyph string
	var color lipgloss.Color
	switch m.state.Conn {
	case ConnConnected:
		glyph, color = GlyphConnected, ColorHealthy
	case ConnDisconnected:
		glyph, color = GlyphDisconnected, ColorCritical
	default:
		glyph, color = GlyphConnecting, ColorWarning
	}
	conn := lipgloss.NewStyle().Foreground(color).Render(glyph + " " + m.state.Conn.String())

	updated := "waiting for data"
	if m.state.HasSnapshot {
		updated = "updated " + humanize.RelTime(m.state.LastUpdate, m.now(), "ago", "from now")
	}

	parts := []string{m.serverURL, conn, updated}
	if pending := m.pendingSummary(); pending != "" {
		parts = append(parts, pending)
	}
	stats := LabelStyle.Render(" │ ") + strings.Join(parts, LabelStyle.Render(" │ "))

	return HeaderStyle.Render(title + stats)
}

// pendingSummary names the actions still awaiting an answer, or returns ""
// when there are none.
func (m Model) pendingSummary() string {
	keys := m.state.Inflight.Keys()
	if len(keys) == 0 {
		return ""
	}
	return "pending " + strings.Join(keys, ", ")
}

func (m Model) renderTabs() string {
	tab := func(label string, s Screen) string {
		if m.screen == s {
			return TabActiveStyle.Render(label)
		}
		return TabInactiveStyle.Render(label)
	}
	return " " + tab("1 Overview", ScreenOverview) + "   " + tab("2 Apps", ScreenApps)
}

// renderFooter renders the key hints and the last notice.
func (m Model) renderFooter() string {
	var hints []string
	if m.screen == ScreenApps {
		hints = []string{"/ filter", "u uninstall", "c clean cache", "r reload", "? help", "q quit"}
	} else {
		hints = []string{"tab focus", "↑↓ select", "x kill", "d dismiss", "? help", "q quit"}
		if m.state.Conn == ConnDisconnected {
			hints = append([]string{"r reconnect"}, hints...)
		}
	}
	footer := FooterStyle.Render(strings.Join(hints, " | "))
	if m.notice != "" {
		footer += lipgloss.NewStyle().Foreground(ColorWarning).Render(m.notice)
	}
	return footer
}
