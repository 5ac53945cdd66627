package monitor

import (
	"time"

	"github.com/sysdash/sysdash/internal/alert"
	"github.com/sysdash/sysdash/internal/telemetry"
)

// ConnState is the state of the event stream.
type ConnState int

const (
	ConnConnecting ConnState = iota
	ConnConnected
	ConnDisconnected
)

// String returns a short label for the header.
func (c ConnState) String() string {
	switch c {
	case ConnConnected:
		return "connected"
	case ConnDisconnected:
		return "disconnected"
	default:
		return "connecting"
	}
}

// State is everything the dashboard shows. Model.Update is its only writer.
type State struct {
	Snapshot    telemetry.Snapshot
	HasSnapshot bool
	LastUpdate  time.Time

	// Host comes from /api/system-info when that call succeeds, and from
	// the latest snapshot otherwise.
	Host       telemetry.Host
	HostLoaded bool

	History *History
	Feed    *alert.Feed

	// Apps is replaced wholesale on every reload.
	Apps       []telemetry.AppEntry
	AppsErr    error
	AppsLoaded bool

	Conn      ConnState
	StreamErr error

	// PendingUninstall is set while the confirm modal is open and
	// cleared on confirm or cancel.
	PendingUninstall string
	Modal            Modal
	Inflight         *Inflight
}

// NewState creates an empty dashboard state.
func NewState(window, maxAlerts int, dedupe bool) *State {
	return &State{
		History:  NewHistory(window),
		Feed:     alert.NewFeed(maxAlerts, dedupe),
		Apps:     []telemetry.AppEntry{},
		Inflight: NewInflight(),
	}
}

// HostInfo returns the host panel contents.
func (s *State) HostInfo() telemetry.Host {
	if s.HostLoaded {
		return s.Host
	}
	return s.Snapshot.Host
}
