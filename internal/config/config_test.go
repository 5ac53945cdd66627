package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sysdash/sysdash/internal/alert"
	"github.com/sysdash/sysdash/internal/errors"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestDefaultConfig(t *testing.T) {
	t.Setenv("XDG_STATE_HOME", "/state")
	cfg := DefaultConfig()

	assert.Equal(t, CurrentConfigVersion, cfg.Version)
	assert.Equal(t, "http://localhost:5000", cfg.Server.URL)
	assert.Equal(t, "/ws", cfg.Server.SocketPath)
	assert.Equal(t, 10*time.Second, cfg.Server.Timeout)
	assert.Equal(t, Threshold{Warning: 80, Danger: 90}, cfg.Thresholds.CPU)
	assert.Equal(t, Threshold{Warning: 80, Danger: 90}, cfg.Thresholds.Memory)
	assert.Equal(t, Threshold{Warning: 85, Danger: 95}, cfg.Thresholds.Disk)
	assert.Equal(t, alert.DefaultRules(), cfg.Alerts.Rules())
	assert.Equal(t, 50, cfg.Alerts.MaxRetained)
	assert.False(t, cfg.Alerts.Dedupe)
	assert.Equal(t, 10, cfg.Charts.Window)
	assert.Equal(t, "N/A", cfg.Placeholders.Placeholders().NotAvailable)
	assert.Equal(t, filepath.Join("/state", "sysdash", "sysdash.log"), cfg.Log.File)
	assert.Equal(t, "info", cfg.Log.Level)

	assert.NoError(t, Validate(cfg))
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, ".sysdash.yaml", `
server:
  url: https://mon.example.com
  csrf_token: abc
  timeout: 3s
thresholds:
  cpu:
    warning: 60
alerts:
  dedupe: true
  temperature_warning: 0
charts:
  window: 30
log:
  level: DEBUG
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "https://mon.example.com", cfg.Server.URL)
	assert.Equal(t, "abc", cfg.Server.CSRFToken)
	assert.Equal(t, 3*time.Second, cfg.Server.Timeout)
	// Unset keys keep defaults
	assert.Equal(t, "/ws", cfg.Server.SocketPath)
	assert.Equal(t, Threshold{Warning: 60, Danger: 90}, cfg.Thresholds.CPU)
	assert.True(t, cfg.Alerts.Dedupe)
	assert.Zero(t, cfg.Alerts.TemperatureWarning)
	assert.Equal(t, 90.0, cfg.Alerts.CPUDanger)
	assert.Equal(t, 30, cfg.Charts.Window)
	assert.Equal(t, "debug", cfg.Log.Level)
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("SYSDASH_SERVER_URL", "http://10.0.0.5:5000")
	t.Setenv("SYSDASH_ALERTS_MAX_RETAINED", "7")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "http://10.0.0.5:5000", cfg.Server.URL)
	assert.Equal(t, 7, cfg.Alerts.MaxRetained)
}

func TestLoad_Errors(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrConfig))

	bad := writeFile(t, t.TempDir(), "bad.yaml", "server: [unclosed")
	_, err = Load(bad)
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrConfig))
}

func TestLoad_ExpandsLogPath(t *testing.T) {
	t.Setenv("LOGROOT", "/var/tmp")
	path := writeFile(t, t.TempDir(), "c.yaml", "log:\n  file: ${LOGROOT}/sysdash.log\n")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "/var/tmp/sysdash.log", cfg.Log.File)
}

func TestFind(t *testing.T) {
	dir := t.TempDir()
	home := t.TempDir()
	t.Setenv("HOME", home)
	chdir(t, dir)

	// Nothing anywhere
	path, err := Find("")
	require.NoError(t, err)
	assert.Empty(t, path)

	// Global config is found
	global := filepath.Join(home, GlobalConfigDir, GlobalConfigFile)
	require.NoError(t, os.MkdirAll(filepath.Dir(global), 0o755))
	require.NoError(t, os.WriteFile(global, []byte("version: 1\n"), 0o644))
	path, err = Find("")
	require.NoError(t, err)
	assert.Equal(t, global, path)

	// Local config wins over global
	local := writeFile(t, dir, ConfigFileName, "version: 1\n")
	path, err = Find("")
	require.NoError(t, err)
	assert.Equal(t, local, path)

	// Explicit wins over both
	explicit := writeFile(t, t.TempDir(), "custom.yaml", "version: 1\n")
	path, err = Find(explicit)
	require.NoError(t, err)
	assert.Equal(t, explicit, path)

	_, err = Find(filepath.Join(dir, "nope.yaml"))
	assert.True(t, errors.IsCode(err, errors.ErrConfig))
}

func TestLoadOrDefault_NoFile(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	chdir(t, t.TempDir())

	cfg, path, err := LoadOrDefault("")
	require.NoError(t, err)
	assert.Empty(t, path)
	assert.Equal(t, "http://localhost:5000", cfg.Server.URL)
}

func TestWriteThenLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")
	want := DefaultConfig()
	want.Server.CSRFToken = "tok"
	want.Server.Timeout = 1500 * time.Millisecond

	require.NoError(t, Write(path, want, false))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "timeout: 1.5s")
	assert.Contains(t, string(data), "socket_path: /ws")

	got, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestWrite_RefusesOverwriteWithoutForce(t *testing.T) {
	path := writeFile(t, t.TempDir(), "c.yaml", "# mine\n")

	err := Write(path, DefaultConfig(), false)
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrConfig))

	require.NoError(t, Write(path, DefaultConfig(), true))
	data, _ := os.ReadFile(path)
	assert.NotContains(t, string(data), "# mine")
}

// chdir mirrors testing.T.Chdir (Go 1.24+): it changes the working directory
// for the duration of the test and restores it on cleanup.
func chdir(t *testing.T, dir string) {
	t.Helper()
	oldwd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	if abs, err := filepath.Abs(dir); err == nil {
		t.Setenv("PWD", abs)
	}
	t.Cleanup(func() {
		if err := os.Chdir(oldwd); err != nil {
			panic("testing: chdir back to " + oldwd + " failed: " + err.Error())
		}
	})
}
