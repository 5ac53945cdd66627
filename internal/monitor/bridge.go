package monitor

import (
	"sync"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/sysdash/sysdash/internal/alert"
	"github.com/sysdash/sysdash/internal/transport"
)

// Sender delivers messages into a running Bubble Tea program.
// *tea.Program satisfies it.
type Sender interface {
	Send(msg tea.Msg)
}

// Bridge adapts transport events into dashboard messages. The transport
// listener calls it from its own goroutine; every event becomes one
// message on the program's queue, so events are processed in arrival order.
type Bridge struct {
	mu     sync.RWMutex
	sender Sender
}

// NewBridge creates a bridge. sender may be nil and attached later, since
// the program is built from the model that holds the bridge.
func NewBridge(sender Sender) *Bridge {
	return &Bridge{sender: sender}
}

// Attach sets the program that receives messages.
func (b *Bridge) Attach(sender Sender) {
	b.mu.Lock()
	b.sender = sender
	b.mu.Unlock()
}

// Send forwards msg. Messages sent before Attach are dropped.
func (b *Bridge) Send(msg tea.Msg) {
	b.mu.RLock()
	s := b.sender
	b.mu.RUnlock()
	if s != nil {
		s.Send(msg)
	}
}

// OnSnapshot implements transport.Handler.
func (b *Bridge) OnSnapshot(raw []byte) {
	b.Send(SnapshotMsg{Raw: raw})
}

// OnAlerts implements transport.Handler.
func (b *Bridge) OnAlerts(raw []byte) {
	b.Send(AlertsMsg{Raw: raw})
}

// OnKillResult implements transport.Handler.
func (b *Bridge) OnKillResult(res transport.KillResult) {
	b.Send(KillResultMsg{Result: res})
}

// OnDisconnect implements transport.Handler.
func (b *Bridge) OnDisconnect(err error) {
	b.Send(DisconnectedMsg{Err: err})
}

// ConfigReloaded forwards a config file change.
func (b *Bridge) ConfigReloaded(th Thresholds, rules alert.Rules, err error) {
	b.Send(ConfigReloadedMsg{Thresholds: th, Rules: rules, Err: err})
}

var _ transport.Handler = (*Bridge)(nil)
