package monitor

import (
	stderrors "errors"
	"sync"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sysdash/sysdash/internal/alert"
	"github.com/sysdash/sysdash/internal/transport"
)

type recordingSender struct {
	mu   sync.Mutex
	msgs []tea.Msg
}

func (r *recordingSender) Send(msg tea.Msg) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.msgs = append(r.msgs, msg)
}

func (r *recordingSender) Messages() []tea.Msg {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]tea.Msg(nil), r.msgs...)
}

func TestBridge_ForwardsEventsInOrder(t *testing.T) {
	sender := &recordingSender{}
	b := NewBridge(sender)

	lost := stderrors.New("lost")
	b.OnSnapshot([]byte(`{"cpu":{}}`))
	b.OnAlerts([]byte(`[]`))
	b.OnKillResult(transport.KillResult{RequestID: "r1", PID: 9, Success: true})
	b.OnDisconnect(lost)
	b.ConfigReloaded(DefaultThresholds(), alert.DefaultRules(), nil)

	msgs := sender.Messages()
	require.Len(t, msgs, 5)
	assert.Equal(t, SnapshotMsg{Raw: []byte(`{"cpu":{}}`)}, msgs[0])
	assert.Equal(t, AlertsMsg{Raw: []byte(`[]`)}, msgs[1])
	assert.Equal(t, KillResultMsg{Result: transport.KillResult{RequestID: "r1", PID: 9, Success: true}}, msgs[2])
	assert.Equal(t, DisconnectedMsg{Err: lost}, msgs[3])
	assert.Equal(t, ConfigReloadedMsg{Thresholds: DefaultThresholds(), Rules: alert.DefaultRules()}, msgs[4])
}

func TestBridge_DropsUntilAttached(t *testing.T) {
	b := NewBridge(nil)
	b.OnSnapshot([]byte(`{}`))

	sender := &recordingSender{}
	b.Attach(sender)
	b.OnAlerts([]byte(`[]`))

	msgs := sender.Messages()
	require.Len(t, msgs, 1)
	assert.IsType(t, AlertsMsg{}, msgs[0])
}
