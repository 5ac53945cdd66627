// Package alert evaluates local threshold rules against telemetry snapshots
// and keeps the bounded, newest-first alert feed shown by the dashboard.
package alert

import (
	"fmt"
	"time"

	"github.com/sysdash/sysdash/internal/telemetry"
)

// TimeLayout is the timestamp format of locally raised alerts. It matches the
// producer's own alert timestamps.
const TimeLayout = "15:04:05"

// Rules are the local alert thresholds. A zero threshold disables its rule.
type Rules struct {
	CPUDanger          float64 `mapstructure:"cpu_danger" yaml:"cpu_danger"`
	MemoryDanger       float64 `mapstructure:"memory_danger" yaml:"memory_danger"`
	TemperatureWarning float64 `mapstructure:"temperature_warning" yaml:"temperature_warning"`
	DiskWarning        float64 `mapstructure:"disk_warning" yaml:"disk_warning"`
}

// DefaultRules returns the producer's stock thresholds.
func DefaultRules() Rules {
	return Rules{
		CPUDanger:          90,
		MemoryDanger:       90,
		TemperatureWarning: 85,
		DiskWarning:        95,
	}
}

// Evaluate checks snap against rules and returns one alert per exceeded
// threshold. Comparisons are strict, and an unknown temperature never fires.
func Evaluate(snap telemetry.Snapshot, rules Rules, now time.Time) []telemetry.AlertEvent {
	var out []telemetry.AlertEvent
	ts := now.Format(TimeLayout)

	raise := func(sev telemetry.Severity, title, msg string) {
		out = append(out, telemetry.AlertEvent{
			Title:     title,
			Message:   msg,
			Severity:  sev,
			Timestamp: ts,
			Source:    telemetry.SourceLocal,
		})
	}

	if exceeds(snap.CPU.Percent, rules.CPUDanger) {
		raise(telemetry.SeverityDanger, "CPU alert",
			fmt.Sprintf("CPU usage at %.1f%% (threshold %g%%)", snap.CPU.Percent, rules.CPUDanger))
	}
	if exceeds(snap.Memory.Percent, rules.MemoryDanger) {
		raise(telemetry.SeverityDanger, "Memory alert",
			fmt.Sprintf("RAM usage at %.1f%% (threshold %g%%)", snap.Memory.Percent, rules.MemoryDanger))
	}
	if t := snap.CPU.Temperature; t.Valid && exceeds(t.Value, rules.TemperatureWarning) {
		raise(telemetry.SeverityWarning, "Temperature alert",
			fmt.Sprintf("CPU temperature %.1f °C (threshold %g °C)", t.Value, rules.TemperatureWarning))
	}
	if exceeds(snap.Disk.Percent, rules.DiskWarning) {
		raise(telemetry.SeverityWarning, "Disk alert",
			fmt.Sprintf("Disk space at %.1f%% (threshold %g%%)", snap.Disk.Percent, rules.DiskWarning))
	}

	return out
}

func exceeds(value, threshold float64) bool {
	return threshold > 0 && value > threshold
}
