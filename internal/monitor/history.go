package monitor

import (
	"sync"

	"github.com/sysdash/sysdash/internal/telemetry"
)

// Chart channels kept by History.
const (
	ChannelCPU     = "cpu"
	ChannelMemory  = "memory"
	ChannelNetSent = "net_sent"
	ChannelNetRecv = "net_recv"
)

// History holds one rolling window per chart channel. The update pipeline
// is the only writer; View and tests read through Values.
type History struct {
	mu       sync.RWMutex
	window   int
	channels map[string]*telemetry.Series[float64]
}

// NewHistory creates the four chart windows with the given capacity.
// A window <= 0 uses telemetry.DefaultWindow.
func NewHistory(window int) *History {
	if window <= 0 {
		window = telemetry.DefaultWindow
	}
	h := &History{window: window, channels: make(map[string]*telemetry.Series[float64], 4)}
	for _, name := range []string{ChannelCPU, ChannelMemory, ChannelNetSent, ChannelNetRecv} {
		h.channels[name] = telemetry.NewSeries[float64](window)
	}
	return h
}

// Push appends one sample per channel taken from snap.
func (h *History) Push(snap telemetry.Snapshot) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.channels[ChannelCPU].Push(snap.CPU.Percent)
	h.channels[ChannelMemory].Push(snap.Memory.Percent)
	h.channels[ChannelNetSent].Push(telemetry.MBValue(snap.Network.BytesSent))
	h.channels[ChannelNetRecv].Push(telemetry.MBValue(snap.Network.BytesRecv))
}

// Values returns the chronological window of a channel, or nil for an
// unknown channel.
func (h *History) Values(channel string) []float64 {
	h.mu.RLock()
	defer h.mu.RUnlock()

	s, ok := h.channels[channel]
	if !ok {
		return nil
	}
	return s.Values()
}

// Window returns the per-channel capacity.
func (h *History) Window() int {
	return h.window
}
