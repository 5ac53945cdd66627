package config

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/sysdash/sysdash/internal/errors"
)

// Chart window bounds.
const (
	MinChartWindow = 2
	MaxChartWindow = 600
)

// Validate checks the config for errors and returns structured error messages.
func Validate(cfg *Config) error {
	if cfg.Version > CurrentConfigVersion {
		return errors.New(errors.ErrConfig,
			fmt.Sprintf("This config is from the future (version %d, but sysdash only knows up to %d)", cfg.Version, CurrentConfigVersion),
			"Upgrade sysdash or lower the version field")
	}

	if err := validateServer(cfg.Server); err != nil {
		return errors.WrapWithCode(err, errors.ErrConfig, err.Error(), "Check the 'server' section of your config.")
	}

	for _, t := range []struct {
		name string
		th   Threshold
	}{
		{"cpu", cfg.Thresholds.CPU},
		{"memory", cfg.Thresholds.Memory},
		{"disk", cfg.Thresholds.Disk},
	} {
		if err := validateThreshold(t.name, t.th); err != nil {
			return errors.WrapWithCode(err, errors.ErrConfig, err.Error(), "Check the 'thresholds' section of your config.")
		}
	}

	if err := validateAlerts(cfg.Alerts); err != nil {
		return errors.WrapWithCode(err, errors.ErrConfig, err.Error(), "Check the 'alerts' section of your config.")
	}

	if cfg.Charts.Window < MinChartWindow || cfg.Charts.Window > MaxChartWindow {
		return errors.New(errors.ErrConfig,
			fmt.Sprintf("charts.window needs to be %d-%d (got %d)", MinChartWindow, MaxChartWindow, cfg.Charts.Window),
			"The default is 10 samples.")
	}

	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true, "": true}
	if !validLevels[cfg.Log.Level] {
		return errors.New(errors.ErrConfig,
			fmt.Sprintf("log.level '%s' isn't valid", cfg.Log.Level),
			"Use 'debug', 'info', 'warn', or 'error'.")
	}

	return nil
}

// validateServer checks the producer location.
func validateServer(s ServerConfig) error {
	raw := strings.TrimSpace(s.URL)
	if raw == "" {
		return fmt.Errorf("server.url is empty - point it at the producer, e.g. http://localhost:5000")
	}
	if !strings.Contains(raw, "://") {
		raw = "http://" + raw
	}
	u, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("server.url '%s' isn't a valid URL", s.URL)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("server.url '%s' needs an http:// or https:// scheme", s.URL)
	}
	if u.Host == "" {
		return fmt.Errorf("server.url '%s' has no host", s.URL)
	}
	if s.SocketPath != "" && !strings.HasPrefix(s.SocketPath, "/") {
		return fmt.Errorf("server.socket_path '%s' should start with /", s.SocketPath)
	}
	if s.Timeout <= 0 {
		return fmt.Errorf("server.timeout needs to be positive (got %v)", s.Timeout)
	}
	return nil
}

// validateThreshold checks a warning/danger pair for a single gauge.
func validateThreshold(name string, th Threshold) error {
	if th.Warning < 0 || th.Warning > 100 {
		return fmt.Errorf("thresholds.%s.warning needs to be 0-100 (got %g)", name, th.Warning)
	}
	if th.Danger < 0 || th.Danger > 100 {
		return fmt.Errorf("thresholds.%s.danger needs to be 0-100 (got %g)", name, th.Danger)
	}
	if th.Warning > th.Danger {
		return fmt.Errorf("thresholds.%s.warning (%g%%) is higher than danger (%g%%) - should be the other way around", name, th.Warning, th.Danger)
	}
	return nil
}

// validateAlerts checks the local alert rules. Zero disables a rule.
func validateAlerts(a AlertsConfig) error {
	for _, r := range []struct {
		key string
		val float64
	}{
		{"cpu_danger", a.CPUDanger},
		{"memory_danger", a.MemoryDanger},
		{"disk_warning", a.DiskWarning},
	} {
		if r.val < 0 || r.val > 100 {
			return fmt.Errorf("alerts.%s needs to be 0-100 (got %g)", r.key, r.val)
		}
	}
	if a.TemperatureWarning < 0 {
		return fmt.Errorf("alerts.temperature_warning can't be negative (got %g)", a.TemperatureWarning)
	}
	if a.MaxRetained < 1 {
		return fmt.Errorf("alerts.max_retained needs to be at least 1 (got %d)", a.MaxRetained)
	}
	return nil
}
