package monitor

import (
	"time"

	"github.com/sysdash/sysdash/internal/alert"
	"github.com/sysdash/sysdash/internal/transport"
)

// SnapshotMsg carries one raw system_update payload.
type SnapshotMsg struct {
	Raw []byte
}

// AlertsMsg carries one raw new_alerts batch.
type AlertsMsg struct {
	Raw []byte
}

// KillResultMsg carries a process_killed acknowledgment.
type KillResultMsg struct {
	Result transport.KillResult
}

// DisconnectedMsg reports that the event stream dropped.
type DisconnectedMsg struct {
	Err error
}

// ConfigReloadedMsg delivers settings re-read from the config file.
type ConfigReloadedMsg struct {
	Thresholds Thresholds
	Rules      alert.Rules
	Err        error
}

// connectedMsg is the outcome of a connect attempt.
type connectedMsg struct {
	err error
}

// appsLoadedMsg is the outcome of an app inventory fetch.
type appsLoadedMsg struct {
	raw []byte
	err error
}

// hostInfoMsg is the outcome of a system-info fetch.
type hostInfoMsg struct {
	raw []byte
	err error
}

// killSentMsg reports whether a kill request made it onto the socket.
type killSentMsg struct {
	pid       int
	requestID string
	err       error
}

// actionResultMsg is the outcome of an uninstall or clean-cache request.
type actionResultMsg struct {
	key    string
	action string
	name   string
	result transport.ActionResult
	err    error
}

// tickMsg refreshes the "updated" age in the header.
type tickMsg time.Time
