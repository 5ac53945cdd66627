package transport

import (
	"encoding/json"
	"sync"

	"github.com/tidwall/gjson"
)

// Event names carried in the frame envelope.
const (
	EventStartMonitoring = "start_monitoring"
	EventKillProcess     = "kill_process"
	EventSystemUpdate    = "system_update"
	EventNewAlerts       = "new_alerts"
	EventProcessKilled   = "process_killed"
)

// Envelope is one websocket text frame in either direction.
type Envelope struct {
	Event     string          `json:"event"`
	Data      json.RawMessage `json:"data,omitempty"`
	RequestID string          `json:"request_id,omitempty"`
}

// KillResult is the producer's acknowledgment of a kill_process request.
type KillResult struct {
	RequestID string
	PID       int
	Success   bool
	Message   string
}

// Handler receives inbound events from Listen. Methods are called from the
// listener goroutine, one at a time, in arrival order.
type Handler interface {
	OnSnapshot(raw []byte)
	OnAlerts(raw []byte)
	OnKillResult(res KillResult)
	OnDisconnect(err error)
}

// HandlerFuncs adapts optional callbacks to Handler. Nil fields ignore their
// event.
type HandlerFuncs struct {
	Snapshot   func(raw []byte)
	Alerts     func(raw []byte)
	KillResult func(res KillResult)
	Disconnect func(err error)
}

func (h HandlerFuncs) OnSnapshot(raw []byte) {
	if h.Snapshot != nil {
		h.Snapshot(raw)
	}
}

func (h HandlerFuncs) OnAlerts(raw []byte) {
	if h.Alerts != nil {
		h.Alerts(raw)
	}
}

func (h HandlerFuncs) OnKillResult(res KillResult) {
	if h.KillResult != nil {
		h.KillResult(res)
	}
}

func (h HandlerFuncs) OnDisconnect(err error) {
	if h.Disconnect != nil {
		h.Disconnect(err)
	}
}

// pendingKill is a kill request awaiting its acknowledgment.
type pendingKill struct {
	id  string
	pid int
}

// pendingKills matches acknowledgments to requests. An ack that echoes a
// known request id resolves that request; one without an id resolves the
// oldest outstanding request. Acks carrying another client's id are left
// alone.
type pendingKills struct {
	mu    sync.Mutex
	order []pendingKill
}

func (p *pendingKills) add(id string, pid int) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.order = append(p.order, pendingKill{id: id, pid: pid})
}

func (p *pendingKills) remove(id string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	for i, k := range p.order {
		if k.id == id {
			p.order = append(p.order[:i], p.order[i+1:]...)
			return
		}
	}
}

// resolve pops the request matching id, or the oldest one when id is
// empty. An id this client never issued resolves nothing.
func (p *pendingKills) resolve(id string) (pendingKill, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if len(p.order) == 0 {
		return pendingKill{}, false
	}
	idx := -1
	if id == "" {
		idx = 0
	} else {
		for i, k := range p.order {
			if k.id == id {
				idx = i
				break
			}
		}
	}
	if idx < 0 {
		return pendingKill{}, false
	}
	k := p.order[idx]
	p.order = append(p.order[:idx], p.order[idx+1:]...)
	return k, true
}

// drain removes and returns every outstanding request.
func (p *pendingKills) drain() []pendingKill {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := p.order
	p.order = nil
	return out
}

func (p *pendingKills) len() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.order)
}

// decodeKillResult reads a process_killed payload. The request id may be on
// the envelope or inside data.
func decodeKillResult(env Envelope) KillResult {
	data := gjson.ParseBytes(env.Data)
	res := KillResult{
		RequestID: env.RequestID,
		Success:   data.Get("success").Bool(),
		Message:   data.Get("message").String(),
		PID:       int(data.Get("pid").Int()),
	}
	if res.RequestID == "" {
		res.RequestID = data.Get("request_id").String()
	}
	return res
}
