package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sysdash/sysdash/internal/errors"
)

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"defaults are valid", func(c *Config) {}, ""},
		{"future version", func(c *Config) { c.Version = 99 }, "from the future"},
		{"empty url", func(c *Config) { c.Server.URL = "" }, "server.url is empty"},
		{"bare host accepted", func(c *Config) { c.Server.URL = "localhost:5000" }, ""},
		{"bad scheme", func(c *Config) { c.Server.URL = "ftp://x" }, "http:// or https://"},
		{"socket path without slash", func(c *Config) { c.Server.SocketPath = "ws" }, "should start with /"},
		{"zero timeout", func(c *Config) { c.Server.Timeout = 0 }, "server.timeout"},
		{"warning above 100", func(c *Config) { c.Thresholds.CPU.Warning = 101 }, "thresholds.cpu.warning"},
		{"negative danger", func(c *Config) { c.Thresholds.Disk.Danger = -1 }, "thresholds.disk.danger"},
		{"warning above danger", func(c *Config) { c.Thresholds.Memory = Threshold{Warning: 95, Danger: 90} }, "higher than danger"},
		{"equal thresholds allowed", func(c *Config) { c.Thresholds.Memory = Threshold{Warning: 90, Danger: 90} }, ""},
		{"disabled rule allowed", func(c *Config) { c.Alerts.CPUDanger = 0 }, ""},
		{"rule above 100", func(c *Config) { c.Alerts.DiskWarning = 120 }, "alerts.disk_warning"},
		{"negative temperature", func(c *Config) { c.Alerts.TemperatureWarning = -5 }, "temperature_warning"},
		{"zero retention", func(c *Config) { c.Alerts.MaxRetained = 0 }, "max_retained"},
		{"window too small", func(c *Config) { c.Charts.Window = 1 }, "charts.window"},
		{"window too large", func(c *Config) { c.Charts.Window = 601 }, "charts.window"},
		{"bad log level", func(c *Config) { c.Log.Level = "loud" }, "log.level"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)

			err := Validate(cfg)
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.True(t, errors.IsCode(err, errors.ErrConfig))
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestExpandTilde(t *testing.T) {
	t.Setenv("HOME", "/home/tester")

	assert.Equal(t, "", ExpandTilde(""))
	assert.Equal(t, "/home/tester", ExpandTilde("~"))
	assert.Equal(t, "/home/tester/logs/a.log", ExpandTilde("~/logs/a.log"))
	assert.Equal(t, "/abs/path", ExpandTilde("/abs/path"))
	assert.Equal(t, "~other/x", ExpandTilde("~other/x"))
}

func TestStateDir(t *testing.T) {
	t.Setenv("HOME", "/home/tester")

	t.Setenv("XDG_STATE_HOME", "")
	assert.Equal(t, "/home/tester/.local/state/sysdash", StateDir())

	t.Setenv("XDG_STATE_HOME", "/xdg")
	assert.Equal(t, "/xdg/sysdash", StateDir())
	assert.Equal(t, "/xdg/sysdash/sysdash.log", DefaultLogFile())
}
