package monitor

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/sysdash/sysdash/internal/alert"
	"github.com/sysdash/sysdash/internal/errors"
	"github.com/sysdash/sysdash/internal/logger"
	"github.com/sysdash/sysdash/internal/telemetry"
	"github.com/sysdash/sysdash/internal/transport"
)

// Backend is the producer as the dashboard sees it. *transport.Client
// satisfies it.
type Backend interface {
	Connect(ctx context.Context) error
	Listen(ctx context.Context, h transport.Handler) error
	KillProcess(pid int) (string, error)
	Apps(ctx context.Context) ([]byte, error)
	SystemInfo(ctx context.Context) ([]byte, error)
	UninstallApp(ctx context.Context, name string) (transport.ActionResult, error)
	CleanCache(ctx context.Context, name string) (transport.ActionResult, error)
}

// Options configures a dashboard model.
type Options struct {
	ServerURL    string
	Thresholds   Thresholds
	Rules        alert.Rules
	Window       int
	MaxAlerts    int
	Dedupe       bool
	Placeholders telemetry.Placeholders

	// Context bounds every network call the dashboard makes.
	Context context.Context
	Logger  logger.Logger
	// Now is the clock used for alert timestamps and the header age.
	Now func() time.Time
}

// Screen is a top-level dashboard view.
type Screen int

const (
	ScreenOverview Screen = iota
	ScreenApps
)

// Focus is the overview region that selection keys act on.
type Focus int

const (
	FocusCPU Focus = iota
	FocusMemory
	FocusAlerts
)

// Next cycles focus.
func (f Focus) Next() Focus {
	return (f + 1) % 3
}

// Default layout when no WindowSizeMsg has arrived yet
const (
	defaultWidth  = 100
	defaultHeight = 30
	headerHeight  = 3
	footerHeight  = 2
)

// tickInterval refreshes the header age
const tickInterval = time.Second

// Model is the Bubble Tea model for the dashboard.
type Model struct {
	backend Backend
	bridge  *Bridge
	norm    *telemetry.Normalizer
	state   *State

	serverURL  string
	thresholds Thresholds
	rules      alert.Rules
	ctx        context.Context
	log        logger.Logger
	now        func() time.Time

	width  int
	height int

	screen   Screen
	focus    Focus
	selCPU   int
	selMem   int
	selAlert int
	selApp   int

	filter        textinput.Model
	viewport      viewport.Model
	viewportReady bool

	// results waiting for the current modal to close
	queued []Modal
	notice string

	showHelp bool
	quitting bool
}

// NewModel creates a dashboard model. bridge is the handler the event
// stream delivers to; attach the program to it before running.
func NewModel(backend Backend, bridge *Bridge, opts Options) Model {
	if opts.Context == nil {
		opts.Context = context.Background()
	}
	if opts.Logger == nil {
		opts.Logger = logger.Default()
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if bridge == nil {
		bridge = NewBridge(nil)
	}

	norm := telemetry.NewNormalizer(opts.Placeholders)
	state := NewState(opts.Window, opts.MaxAlerts, opts.Dedupe)
	state.Snapshot = norm.Normalize(nil)

	filter := textinput.New()
	filter.Placeholder = "filter by name or version"
	filter.Prompt = "/ "
	filter.CharLimit = 64

	return Model{
		backend:    backend,
		bridge:     bridge,
		norm:       norm,
		state:      state,
		serverURL:  opts.ServerURL,
		thresholds: opts.Thresholds,
		rules:      opts.Rules,
		ctx:        opts.Context,
		log:        logger.Named(opts.Logger, "monitor"),
		now:        opts.Now,
		filter:     filter,
	}
}

// State returns the dashboard state. Callers must treat it as read-only.
func (m Model) State() *State {
	return m.state
}

// Init connects the event stream and loads the host info and app list.
func (m Model) Init() tea.Cmd {
	return tea.Batch(
		m.connectCmd(),
		m.hostInfoCmd(),
		m.reloadAppsCmd(),
		m.tickCmd(),
	)
}

// Update handles messages and updates the model state.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		cmd = m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		vpHeight := m.height - headerHeight - footerHeight
		if vpHeight < 1 {
			vpHeight = 1
		}
		if !m.viewportReady {
			m.viewport = viewport.New(m.width, vpHeight)
			m.viewport.YPosition = headerHeight
			m.viewportReady = true
		} else {
			m.viewport.Width = m.width
			m.viewport.Height = vpHeight
		}

	case tickMsg:
		cmd = m.tickCmd()

	case connectedMsg:
		cmd = m.handleConnected(msg)

	case SnapshotMsg:
		m.applySnapshot(msg.Raw)

	case AlertsMsg:
		added := m.pushAlerts(m.norm.Alerts(msg.Raw))
		m.log.Debug("received %d alerts", added)

	case KillResultMsg:
		m.handleKillResult(msg.Result)

	case DisconnectedMsg:
		m.state.Conn = ConnDisconnected
		m.state.StreamErr = msg.Err
		m.log.Warn("event stream lost: %v", errors.Inline(msg.Err))

	case killSentMsg:
		if msg.err != nil {
			m.state.Inflight.End(KillKey(msg.pid))
			m.showResult(Modal{
				Kind:    ModalResult,
				Title:   "Kill failed",
				Message: errors.Inline(msg.err),
			})
		} else {
			m.log.Debug("kill %d sent as %s", msg.pid, msg.requestID)
		}

	case actionResultMsg:
		cmd = m.handleActionResult(msg)

	case appsLoadedMsg:
		m.handleAppsLoaded(msg)

	case hostInfoMsg:
		if msg.err != nil {
			m.log.Warn("system info unavailable: %v", errors.Inline(msg.err))
		} else {
			m.state.Host = m.norm.HostInfo(msg.raw)
			m.state.HostLoaded = true
		}

	case ConfigReloadedMsg:
		if msg.Err != nil {
			m.log.Warn("config reload rejected: %v", errors.Inline(msg.Err))
			m.notice = "config reload failed: " + errors.Inline(msg.Err)
		} else {
			m.thresholds = msg.Thresholds
			m.rules = msg.Rules
			m.notice = "config reloaded"
			m.log.Info("thresholds and alert rules reloaded")
		}
	}

	m.syncViewport()
	return m, cmd
}

// View renders the dashboard.
func (m Model) View() string {
	if m.quitting {
		return ""
	}
	if m.state.Modal.Open() {
		return RenderModal(m.state.Modal, m.viewWidth(), m.viewHeight())
	}
	if m.showHelp {
		return m.renderHelpOverlay()
	}
	return m.renderDashboard()
}

func (m *Model) applySnapshot(raw []byte) {
	snap := m.norm.Normalize(raw)
	now := m.now()

	m.state.Snapshot = snap
	m.state.HasSnapshot = true
	m.state.LastUpdate = now
	m.state.Conn = ConnConnected
	m.state.StreamErr = nil
	m.state.History.Push(snap)

	m.pushAlerts(alert.Evaluate(snap, m.rules, now))

	m.selCPU = clampSel(m.selCPU, len(snap.Processes.TopByCPU))
	m.selMem = clampSel(m.selMem, len(snap.Processes.TopByMem))
}

// pushAlerts adds alerts to the top of the feed and returns how many were
// kept. A focused selection moves down with them so it stays on the same
// alert.
func (m *Model) pushAlerts(alerts []telemetry.AlertEvent) int {
	added := 0
	if len(alerts) > 0 {
		added = len(m.state.Feed.Push(alerts...))
	}
	if m.focus == FocusAlerts {
		m.selAlert += added
	}
	m.selAlert = clampSel(m.selAlert, m.state.Feed.Len())
	return added
}

func (m *Model) handleConnected(msg connectedMsg) tea.Cmd {
	if msg.err != nil {
		m.state.Conn = ConnDisconnected
		m.state.StreamErr = msg.err
		m.log.Warn("connect failed: %v", errors.Inline(msg.err))
		return nil
	}
	m.state.Conn = ConnConnected
	m.state.StreamErr = nil
	m.log.Info("event stream connected")
	return m.listenCmd()
}

func (m *Model) handleKillResult(res transport.KillResult) {
	m.state.Inflight.End(KillKey(res.PID))

	title := "Process killed"
	if !res.Success {
		title = "Kill failed"
	}
	message := res.Message
	if message == "" {
		if res.Success {
			message = fmt.Sprintf("Process %d terminated", res.PID)
		} else {
			message = fmt.Sprintf("Could not kill process %d", res.PID)
		}
	}
	m.showResult(Modal{Kind: ModalResult, Title: title, Message: message, Success: res.Success})
}

func (m *Model) handleActionResult(msg actionResultMsg) tea.Cmd {
	m.state.Inflight.End(msg.key)

	if msg.err != nil {
		m.showResult(Modal{
			Kind:    ModalResult,
			Title:   msg.action + " failed",
			Message: errors.Inline(msg.err),
		})
		return nil
	}

	title := msg.action + " failed"
	if msg.result.Success {
		title = msg.action + " complete"
	}
	m.showResult(Modal{
		Kind:    ModalResult,
		Title:   title,
		Message: msg.result.Message,
		Success: msg.result.Success,
	})

	if msg.action == actionUninstall && msg.result.Success {
		return m.reloadAppsCmd()
	}
	return nil
}

func (m *Model) handleAppsLoaded(msg appsLoadedMsg) {
	m.state.Inflight.End(ReloadAppsKey)

	if msg.err != nil {
		m.state.AppsErr = msg.err
		m.log.Warn("app inventory: %v", errors.Inline(msg.err))
		return
	}
	apps, message, ok := m.norm.Apps(msg.raw)
	if !ok {
		if message == "" {
			message = "The producer could not list installed applications"
		}
		m.state.AppsErr = errors.New(errors.ErrAction, message, "")
		return
	}
	m.state.Apps = apps
	m.state.AppsErr = nil
	m.state.AppsLoaded = true
	m.selApp = clampSel(m.selApp, len(m.visibleApps()))

	// A confirm left open across a reload must still name an installed app.
	if name := m.state.PendingUninstall; name != "" {
		if _, ok := telemetry.FindApp(apps, name); !ok {
			m.state.PendingUninstall = ""
			m.closeModal()
			m.notice = name + " is no longer installed"
		}
	}
}

// showResult opens a result modal, or queues it behind the open one.
func (m *Model) showResult(modal Modal) {
	if m.state.Modal.Open() {
		m.queued = append(m.queued, modal)
		return
	}
	m.state.Modal = modal
}

// closeModal closes the current modal and shows the next queued result.
func (m *Model) closeModal() {
	m.state.Modal = Modal{}
	if len(m.queued) > 0 {
		m.state.Modal = m.queued[0]
		m.queued = m.queued[1:]
	}
}

// visibleApps returns the inventory after the filter query.
func (m Model) visibleApps() []telemetry.AppEntry {
	return telemetry.FilterApps(m.state.Apps, m.filter.Value())
}

// SelectedApp returns the highlighted app on the apps screen.
func (m Model) SelectedApp() (telemetry.AppEntry, bool) {
	apps := m.visibleApps()
	if m.selApp < 0 || m.selApp >= len(apps) {
		return telemetry.AppEntry{}, false
	}
	return apps[m.selApp], true
}

// SelectedProcess returns the highlighted process in the focused table.
func (m Model) SelectedProcess() (telemetry.ProcessInfo, bool) {
	var procs []telemetry.ProcessInfo
	sel := 0
	switch m.focus {
	case FocusCPU:
		procs, sel = m.state.Snapshot.Processes.TopByCPU, m.selCPU
	case FocusMemory:
		procs, sel = m.state.Snapshot.Processes.TopByMem, m.selMem
	default:
		return telemetry.ProcessInfo{}, false
	}
	if sel < 0 || sel >= len(procs) {
		return telemetry.ProcessInfo{}, false
	}
	return procs[sel], true
}

func (m *Model) syncViewport() {
	if !m.viewportReady {
		return
	}
	m.viewport.SetContent(m.renderOverview())
}

func (m Model) viewWidth() int {
	if m.width <= 0 {
		return defaultWidth
	}
	return m.width
}

func (m Model) viewHeight() int {
	if m.height <= 0 {
		return defaultHeight
	}
	return m.height
}

func clampSel(sel, n int) int {
	if n <= 0 || sel < 0 {
		return 0
	}
	if sel >= n {
		return n - 1
	}
	return sel
}

// Commands

const (
	actionUninstall = "Uninstall"
	actionClean     = "Cache clean"
)

func (m Model) tickCmd() tea.Cmd {
	return tea.Tick(tickInterval, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func (m Model) connectCmd() tea.Cmd {
	backend, ctx := m.backend, m.ctx
	return func() tea.Msg {
		return connectedMsg{err: backend.Connect(ctx)}
	}
}

// listenCmd runs the read loop until the stream drops. Events arrive
// through the bridge, so the command itself yields no message.
func (m Model) listenCmd() tea.Cmd {
	backend, ctx, bridge, log := m.backend, m.ctx, m.bridge, m.log
	return func() tea.Msg {
		if err := backend.Listen(ctx, bridge); err != nil {
			log.Debug("listen returned: %v", errors.Inline(err))
		}
		return nil
	}
}

func (m Model) hostInfoCmd() tea.Cmd {
	backend, ctx := m.backend, m.ctx
	return func() tea.Msg {
		raw, err := backend.SystemInfo(ctx)
		return hostInfoMsg{raw: raw, err: err}
	}
}

// reloadAppsCmd fetches the inventory unless a fetch is already running.
func (m Model) reloadAppsCmd() tea.Cmd {
	if !m.state.Inflight.Begin(ReloadAppsKey) {
		return nil
	}
	backend, ctx := m.backend, m.ctx
	return func() tea.Msg {
		raw, err := backend.Apps(ctx)
		return appsLoadedMsg{raw: raw, err: err}
	}
}

func (m Model) killCmd(pid int) tea.Cmd {
	backend := m.backend
	return func() tea.Msg {
		id, err := backend.KillProcess(pid)
		return killSentMsg{pid: pid, requestID: id, err: err}
	}
}

func (m Model) uninstallCmd(name string) tea.Cmd {
	backend, ctx := m.backend, m.ctx
	key := UninstallKey(name)
	return func() tea.Msg {
		res, err := backend.UninstallApp(ctx, name)
		return actionResultMsg{key: key, action: actionUninstall, name: name, result: res, err: err}
	}
}

func (m Model) cleanCmd(name string) tea.Cmd {
	backend, ctx := m.backend, m.ctx
	key := CleanKey(name)
	return func() tea.Msg {
		res, err := backend.CleanCache(ctx, name)
		return actionResultMsg{key: key, action: actionClean, name: name, result: res, err: err}
	}
}
