package telemetry

import (
	"encoding/json"
	"strings"
)

// Snapshot is one normalized telemetry reading. Every field is populated:
// absent wire values have already been replaced by zero or a placeholder.
type Snapshot struct {
	Timestamp string
	CPU       CPU
	Memory    Memory
	Disk      Disk
	Network   Network
	Processes Processes
	Host      Host
}

// CPU contains processor usage information.
type CPU struct {
	Percent      float64    `json:"percent"`
	Count        int        `json:"count"`
	Cores        int        `json:"cores"`
	FrequencyMHz float64    `json:"frequency"`
	Temperature  Reading    `json:"temperature"`
	LoadAvg      [3]float64 `json:"load_avg"`
}

// Memory contains RAM usage information.
type Memory struct {
	UsedBytes   uint64  `json:"used"`
	TotalBytes  uint64  `json:"total"`
	Percent     float64 `json:"percent"`
	SwapPercent float64 `json:"swap_percent"`
}

// Disk contains root filesystem usage information.
type Disk struct {
	UsedBytes  uint64  `json:"used"`
	TotalBytes uint64  `json:"total"`
	Percent    float64 `json:"percent"`
}

// Network contains cumulative interface counters.
type Network struct {
	BytesSent uint64 `json:"bytes_sent"`
	BytesRecv uint64 `json:"bytes_recv"`
}

// Processes holds the producer's two pre-sorted top lists.
type Processes struct {
	TopByCPU []ProcessInfo `json:"top_cpu"`
	TopByMem []ProcessInfo `json:"top_mem"`
	Total    int           `json:"total"`
	Running  int           `json:"running"`
}

// ProcessInfo is a single row of a process table.
type ProcessInfo struct {
	PID        int     `json:"pid"`
	Name       string  `json:"name"`
	CPUPercent float64 `json:"cpu"`
	MemPercent float64 `json:"memory"`
}

// Host describes the machine the producer runs on.
type Host struct {
	Hostname     string
	OSName       string
	OSVersion    string
	Architecture string
	SystemModel  string
}

// Reading is a numeric value that may be unknown. Unknown readings are
// rendered with a placeholder instead of a number.
type Reading struct {
	Value float64
	Valid bool
}

// Known returns a valid reading of v.
func Known(v float64) Reading {
	return Reading{Value: v, Valid: true}
}

// MarshalJSON encodes an unknown reading as null.
func (r Reading) MarshalJSON() ([]byte, error) {
	if !r.Valid {
		return []byte("null"), nil
	}
	return json.Marshal(r.Value)
}

// wireOSInfo mirrors the producer's os_info object.
type wireOSInfo struct {
	OSName       string `json:"os_name"`
	OSVersion    string `json:"os_version"`
	Architecture string `json:"architecture"`
}

// MarshalJSON encodes the snapshot in the producer's system_update shape,
// so a normalized snapshot can be fed back through the normalizer.
func (s Snapshot) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Timestamp   string     `json:"timestamp"`
		CPU         CPU        `json:"cpu"`
		Memory      Memory     `json:"memory"`
		Disk        Disk       `json:"disk"`
		Network     Network    `json:"network"`
		Processes   Processes  `json:"processes"`
		Hostname    string     `json:"hostname"`
		SystemModel string     `json:"system_model"`
		OSInfo      wireOSInfo `json:"os_info"`
	}{
		Timestamp:   s.Timestamp,
		CPU:         s.CPU,
		Memory:      s.Memory,
		Disk:        s.Disk,
		Network:     s.Network,
		Processes:   s.Processes,
		Hostname:    s.Host.Hostname,
		SystemModel: s.Host.SystemModel,
		OSInfo: wireOSInfo{
			OSName:       s.Host.OSName,
			OSVersion:    s.Host.OSVersion,
			Architecture: s.Host.Architecture,
		},
	})
}

// Severity is the level of an alert.
type Severity string

const (
	SeverityInfo    Severity = "info"
	SeverityWarning Severity = "warning"
	SeverityDanger  Severity = "danger"
)

// ParseSeverity maps a producer severity string onto a Severity.
// Unrecognized values become SeverityInfo.
func ParseSeverity(s string) Severity {
	switch Severity(strings.ToLower(strings.TrimSpace(s))) {
	case SeverityDanger:
		return SeverityDanger
	case SeverityWarning:
		return SeverityWarning
	default:
		return SeverityInfo
	}
}

// AlertSource records where an alert came from.
type AlertSource string

const (
	SourceProducer AlertSource = "producer"
	SourceLocal    AlertSource = "local"
)

// AlertEvent is one entry of the alert feed.
type AlertEvent struct {
	ID        string
	Title     string
	Message   string
	Severity  Severity
	Timestamp string
	Source    AlertSource
}

// AppEntry is one installed application. Name is the identity key for
// uninstall and cache-clean actions; the other fields are display only.
type AppEntry struct {
	Name        string
	Version     string
	SizeMB      float64
	InstallDate string
}
