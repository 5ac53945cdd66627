package monitor

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
)

// Key bindings as constants for consistency.
const (
	KeyQuit        = "q"
	KeyQuitAlt     = "ctrl+c"
	KeyToggleHelp  = "?"
	KeyOverview    = "1"
	KeyApps        = "2"
	KeyFocus       = "tab"
	KeySelectPrev  = "up"
	KeySelectPrevK = "k"
	KeySelectNext  = "down"
	KeySelectNextJ = "j"
	KeyPageUp      = "pgup"
	KeyPageDown    = "pgdown"
	KeyKill        = "x"
	KeyDismiss     = "d"
	KeyReload      = "r"
	KeyFilter      = "/"
	KeyUninstall   = "u"
	KeyCleanCache  = "c"
	KeyConfirm     = "y"
	KeyConfirmAlt  = "enter"
	KeyCancel      = "n"
	KeyEscape      = "esc"
)

// handleKey routes a key press. Open modals capture every key, then the
// filter input while focused, then the help overlay, then the screen
// bindings.
func (m *Model) handleKey(msg tea.KeyMsg) tea.Cmd {
	key := msg.String()

	if key == KeyQuitAlt {
		m.quitting = true
		return tea.Quit
	}

	if m.state.Modal.Open() {
		return m.handleModalKey(key)
	}

	if m.filter.Focused() {
		return m.handleFilterKey(msg)
	}

	if key == KeyToggleHelp {
		m.showHelp = !m.showHelp
		return nil
	}
	if m.showHelp {
		if key == KeyEscape {
			m.showHelp = false
		}
		return nil
	}

	m.notice = ""

	switch key {
	case KeyQuit:
		m.quitting = true
		return tea.Quit
	case KeyOverview:
		m.screen = ScreenOverview
		return nil
	case KeyApps:
		m.screen = ScreenApps
		return nil
	}

	if m.screen == ScreenApps {
		return m.handleAppsKey(key)
	}
	return m.handleOverviewKey(msg)
}

func (m *Model) handleModalKey(key string) tea.Cmd {
	switch m.state.Modal.Kind {
	case ModalConfirm:
		switch key {
		case KeyConfirm, KeyConfirmAlt:
			name := m.state.PendingUninstall
			m.state.PendingUninstall = ""
			m.closeModal()
			return m.startUninstall(name)
		case KeyCancel, KeyEscape:
			m.state.PendingUninstall = ""
			m.closeModal()
		}
	case ModalResult:
		switch key {
		case KeyConfirmAlt, KeyEscape, " ":
			m.closeModal()
		}
	}
	return nil
}

func (m *Model) handleFilterKey(msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case KeyEscape, KeyConfirmAlt:
		m.filter.Blur()
		return nil
	}
	var cmd tea.Cmd
	m.filter, cmd = m.filter.Update(msg)
	m.selApp = clampSel(m.selApp, len(m.visibleApps()))
	return cmd
}

func (m *Model) handleOverviewKey(msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case KeyFocus:
		m.focus = m.focus.Next()

	case KeySelectPrev, KeySelectPrevK:
		m.moveSelection(-1)

	case KeySelectNext, KeySelectNextJ:
		m.moveSelection(1)

	case KeyPageUp, KeyPageDown:
		if m.viewportReady {
			var cmd tea.Cmd
			m.viewport, cmd = m.viewport.Update(msg)
			return cmd
		}

	case KeyKill:
		proc, ok := m.SelectedProcess()
		if !ok {
			return nil
		}
		if !m.state.Inflight.Begin(KillKey(proc.PID)) {
			m.notice = fmt.Sprintf("kill of %d already pending", proc.PID)
			return nil
		}
		m.log.Info("killing %d (%s)", proc.PID, proc.Name)
		return m.killCmd(proc.PID)

	case KeyDismiss:
		if m.focus != FocusAlerts {
			return nil
		}
		items := m.state.Feed.Items()
		if m.selAlert < len(items) {
			m.state.Feed.Dismiss(items[m.selAlert].ID)
			m.selAlert = clampSel(m.selAlert, m.state.Feed.Len())
		}

	case KeyReload:
		if m.state.Conn != ConnDisconnected {
			return nil
		}
		m.state.Conn = ConnConnecting
		m.log.Info("reconnecting")
		return m.connectCmd()
	}
	return nil
}

func (m *Model) moveSelection(delta int) {
	switch m.focus {
	case FocusCPU:
		m.selCPU = clampSel(m.selCPU+delta, len(m.state.Snapshot.Processes.TopByCPU))
	case FocusMemory:
		m.selMem = clampSel(m.selMem+delta, len(m.state.Snapshot.Processes.TopByMem))
	case FocusAlerts:
		m.selAlert = clampSel(m.selAlert+delta, m.state.Feed.Len())
	}
}

func (m *Model) handleAppsKey(key string) tea.Cmd {
	switch key {
	case KeyFilter:
		return m.filter.Focus()

	case KeyEscape:
		if m.filter.Value() != "" {
			m.filter.SetValue("")
			m.selApp = clampSel(m.selApp, len(m.visibleApps()))
		}

	case KeySelectPrev, KeySelectPrevK:
		m.selApp = clampSel(m.selApp-1, len(m.visibleApps()))

	case KeySelectNext, KeySelectNextJ:
		m.selApp = clampSel(m.selApp+1, len(m.visibleApps()))

	case KeyReload:
		if cmd := m.reloadAppsCmd(); cmd != nil {
			return cmd
		}
		m.notice = "app list is already loading"

	case KeyUninstall:
		app, ok := m.SelectedApp()
		if !ok {
			return nil
		}
		if m.state.Inflight.Pending(UninstallKey(app.Name)) {
			m.notice = "uninstall of " + app.Name + " already pending"
			return nil
		}
		m.state.PendingUninstall = app.Name
		m.state.Modal = Modal{
			Kind:    ModalConfirm,
			Title:   "Uninstall " + app.Name + "?",
			Message: fmt.Sprintf("This asks the producer to uninstall %s. It cannot be undone.", app.Name),
		}

	case KeyCleanCache:
		app, ok := m.SelectedApp()
		if !ok {
			return nil
		}
		if !m.state.Inflight.Begin(CleanKey(app.Name)) {
			m.notice = "cache clean of " + app.Name + " already pending"
			return nil
		}
		m.log.Info("cleaning cache of %s", app.Name)
		return m.cleanCmd(app.Name)
	}
	return nil
}

// startUninstall issues the confirmed uninstall unless one is in flight.
func (m *Model) startUninstall(name string) tea.Cmd {
	if name == "" {
		return nil
	}
	if !m.state.Inflight.Begin(UninstallKey(name)) {
		m.notice = "uninstall of " + name + " already pending"
		return nil
	}
	m.log.Info("uninstalling %s", name)
	return m.uninstallCmd(name)
}
