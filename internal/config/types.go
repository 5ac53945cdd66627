package config

import (
	"time"

	"github.com/sysdash/sysdash/internal/alert"
	"github.com/sysdash/sysdash/internal/telemetry"
)

// CurrentConfigVersion is the schema version for the config file.
// Increment when making breaking changes to the config structure.
const CurrentConfigVersion = 1

// Config represents the complete sysdash configuration file.
type Config struct {
	Version      int                `yaml:"version" mapstructure:"version"`
	Server       ServerConfig       `yaml:"server" mapstructure:"server"`
	Thresholds   ThresholdsConfig   `yaml:"thresholds" mapstructure:"thresholds"`
	Alerts       AlertsConfig       `yaml:"alerts" mapstructure:"alerts"`
	Charts       ChartsConfig       `yaml:"charts" mapstructure:"charts"`
	Placeholders PlaceholdersConfig `yaml:"placeholders" mapstructure:"placeholders"`
	Log          LogConfig          `yaml:"log" mapstructure:"log"`
}

// ServerConfig locates the telemetry producer.
type ServerConfig struct {
	// URL is the producer base URL (http or https).
	URL string `yaml:"url" mapstructure:"url"`

	// SocketPath is the websocket endpoint relative to URL.
	SocketPath string `yaml:"socket_path" mapstructure:"socket_path"`

	// CSRFToken is attached to uninstall requests as X-CSRFToken.
	CSRFToken string `yaml:"csrf_token" mapstructure:"csrf_token"`

	// Timeout bounds REST calls and the websocket handshake.
	Timeout time.Duration `yaml:"timeout" mapstructure:"timeout"`
}

// MarshalYAML writes Timeout as a duration string ("10s") instead of
// nanoseconds.
func (s ServerConfig) MarshalYAML() (interface{}, error) {
	return struct {
		URL        string `yaml:"url"`
		SocketPath string `yaml:"socket_path"`
		CSRFToken  string `yaml:"csrf_token"`
		Timeout    string `yaml:"timeout"`
	}{s.URL, s.SocketPath, s.CSRFToken, s.Timeout.String()}, nil
}

// Threshold is a warning/danger pair for one gauge, in percent. A value
// strictly above Warning is a warning; strictly above Danger is danger.
type Threshold struct {
	Warning float64 `yaml:"warning" mapstructure:"warning"`
	Danger  float64 `yaml:"danger" mapstructure:"danger"`
}

// ThresholdsConfig holds the gauge coloring thresholds.
type ThresholdsConfig struct {
	CPU    Threshold `yaml:"cpu" mapstructure:"cpu"`
	Memory Threshold `yaml:"memory" mapstructure:"memory"`
	Disk   Threshold `yaml:"disk" mapstructure:"disk"`
}

// AlertsConfig holds the local alert rules and feed settings.
type AlertsConfig struct {
	CPUDanger          float64 `yaml:"cpu_danger" mapstructure:"cpu_danger"`
	MemoryDanger       float64 `yaml:"memory_danger" mapstructure:"memory_danger"`
	TemperatureWarning float64 `yaml:"temperature_warning" mapstructure:"temperature_warning"`
	DiskWarning        float64 `yaml:"disk_warning" mapstructure:"disk_warning"`

	// MaxRetained bounds the alert feed; the oldest alerts are evicted.
	MaxRetained int `yaml:"max_retained" mapstructure:"max_retained"`

	// Dedupe drops an alert identical to one already in the feed.
	Dedupe bool `yaml:"dedupe" mapstructure:"dedupe"`
}

// Rules returns the alert rule set.
func (a AlertsConfig) Rules() alert.Rules {
	return alert.Rules{
		CPUDanger:          a.CPUDanger,
		MemoryDanger:       a.MemoryDanger,
		TemperatureWarning: a.TemperatureWarning,
		DiskWarning:        a.DiskWarning,
	}
}

// ChartsConfig controls the rolling charts.
type ChartsConfig struct {
	// Window is the number of samples per chart.
	Window int `yaml:"window" mapstructure:"window"`
}

// PlaceholdersConfig overrides the text shown for missing values.
type PlaceholdersConfig struct {
	NotAvailable        string `yaml:"not_available" mapstructure:"not_available"`
	Unknown             string `yaml:"unknown" mapstructure:"unknown"`
	HostnameUnavailable string `yaml:"hostname_unavailable" mapstructure:"hostname_unavailable"`
}

// Placeholders returns the normalizer placeholder set.
func (p PlaceholdersConfig) Placeholders() telemetry.Placeholders {
	return telemetry.Placeholders{
		NotAvailable:        p.NotAvailable,
		Unknown:             p.Unknown,
		HostnameUnavailable: p.HostnameUnavailable,
	}
}

// LogConfig controls the log file. The dashboard owns the terminal, so logs
// never go to stderr while it runs.
type LogConfig struct {
	File  string `yaml:"file" mapstructure:"file"`
	Level string `yaml:"level" mapstructure:"level"`
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	rules := alert.DefaultRules()
	ph := telemetry.DefaultPlaceholders()

	return &Config{
		Version: CurrentConfigVersion,
		Server: ServerConfig{
			URL:        "http://localhost:5000",
			SocketPath: "/ws",
			Timeout:    10 * time.Second,
		},
		Thresholds: ThresholdsConfig{
			CPU:    Threshold{Warning: 80, Danger: 90},
			Memory: Threshold{Warning: 80, Danger: 90},
			Disk:   Threshold{Warning: 85, Danger: 95},
		},
		Alerts: AlertsConfig{
			CPUDanger:          rules.CPUDanger,
			MemoryDanger:       rules.MemoryDanger,
			TemperatureWarning: rules.TemperatureWarning,
			DiskWarning:        rules.DiskWarning,
			MaxRetained:        alert.DefaultMaxRetained,
			Dedupe:             false,
		},
		Charts: ChartsConfig{
			Window: telemetry.DefaultWindow,
		},
		Placeholders: PlaceholdersConfig{
			NotAvailable:        ph.NotAvailable,
			Unknown:             ph.Unknown,
			HostnameUnavailable: ph.HostnameUnavailable,
		},
		Log: LogConfig{
			File:  DefaultLogFile(),
			Level: "info",
		},
	}
}
