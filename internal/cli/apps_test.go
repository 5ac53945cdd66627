package cli

import (
	"context"
	stderrors "errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sysdash/sysdash/internal/errors"
	"github.com/sysdash/sysdash/internal/telemetry"
	"github.com/sysdash/sysdash/internal/transport"
)

type fakeApps struct {
	raw         []byte
	err         error
	result      transport.ActionResult
	uninstalled []string
	cleaned     []string
}

func (f *fakeApps) Apps(ctx context.Context) ([]byte, error) {
	return f.raw, f.err
}

func (f *fakeApps) UninstallApp(ctx context.Context, name string) (transport.ActionResult, error) {
	f.uninstalled = append(f.uninstalled, name)
	return f.result, f.err
}

func (f *fakeApps) CleanCache(ctx context.Context, name string) (transport.ActionResult, error) {
	f.cleaned = append(f.cleaned, name)
	return f.result, f.err
}

const inventory = `{"success": true, "apps": [
	{"name": "Google Chrome", "version": "120.0", "size_mb": 512.5, "install_date": "2026-01-02"},
	{"name": "Slack", "version": "4.36"}
]}`

// stubPrompt replaces the interactive confirmation for one test.
func stubPrompt(t *testing.T, tty bool, answer bool) *int {
	t.Helper()
	origConfirm, origTTY := confirmUninstall, stdinIsTerminal
	t.Cleanup(func() { confirmUninstall, stdinIsTerminal = origConfirm, origTTY })

	asked := 0
	stdinIsTerminal = func() bool { return tty }
	confirmUninstall = func(name string) (bool, error) {
		asked++
		return answer, nil
	}
	return &asked
}

func TestAppsList(t *testing.T) {
	cmd, out := testCmd()
	err := appsListCommand(cmd, &fakeApps{raw: []byte(inventory)}, telemetry.DefaultPlaceholders(), "")
	require.NoError(t, err)

	assert.Contains(t, out.String(), "Google Chrome")
	assert.Contains(t, out.String(), "512.50 MB")
	assert.Contains(t, out.String(), "N/A")
	assert.Contains(t, out.String(), "2 of 2 applications")
}

func TestAppsList_Filter(t *testing.T) {
	cmd, out := testCmd()
	require.NoError(t, appsListCommand(cmd, &fakeApps{raw: []byte(inventory)}, telemetry.DefaultPlaceholders(), "  SLA "))
	assert.Contains(t, out.String(), "Slack")
	assert.NotContains(t, out.String(), "Google Chrome")

	cmd, out = testCmd()
	require.NoError(t, appsListCommand(cmd, &fakeApps{raw: []byte(inventory)}, telemetry.DefaultPlaceholders(), "zzz"))
	assert.Contains(t, out.String(), `No applications match "zzz"`)
}

func TestAppsList_ProducerFailure(t *testing.T) {
	cmd, _ := testCmd()
	raw := []byte(`{"success": false, "message": "inventory disabled"}`)
	err := appsListCommand(cmd, &fakeApps{raw: raw}, telemetry.DefaultPlaceholders(), "")

	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrAction))
	assert.Contains(t, err.Error(), "inventory disabled")
}

func TestAppsUninstall_Confirmed(t *testing.T) {
	asked := stubPrompt(t, true, true)
	fake := &fakeApps{result: transport.ActionResult{Success: true, Message: "Slack uninstalled"}}
	cmd, out := testCmd()

	require.NoError(t, appsUninstallCommand(cmd, fake, "Slack", false))
	assert.Equal(t, 1, *asked)
	assert.Equal(t, []string{"Slack"}, fake.uninstalled)
	assert.Contains(t, out.String(), "✓ Slack uninstalled")
}

func TestAppsUninstall_Cancelled(t *testing.T) {
	stubPrompt(t, true, false)
	fake := &fakeApps{}
	cmd, out := testCmd()

	require.NoError(t, appsUninstallCommand(cmd, fake, "Slack", false))
	assert.Empty(t, fake.uninstalled)
	assert.Contains(t, out.String(), "cancelled")
}

func TestAppsUninstall_NonInteractiveNeedsYes(t *testing.T) {
	asked := stubPrompt(t, false, true)
	fake := &fakeApps{result: transport.ActionResult{Success: true, Message: "ok"}}
	cmd, _ := testCmd()

	err := appsUninstallCommand(cmd, fake, "Slack", false)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "--yes")
	assert.Empty(t, fake.uninstalled)

	require.NoError(t, appsUninstallCommand(cmd, fake, "Slack", true))
	assert.Zero(t, *asked)
	assert.Equal(t, []string{"Slack"}, fake.uninstalled)
}

func TestAppsUninstall_ProducerRefusal(t *testing.T) {
	fake := &fakeApps{result: transport.ActionResult{Success: false, Message: "App is running"}}
	cmd, out := testCmd()

	err := appsUninstallCommand(cmd, fake, "Slack", true)
	assert.ErrorIs(t, err, errReported)
	assert.Contains(t, out.String(), "✗ App is running")
}

func TestAppsClean(t *testing.T) {
	fake := &fakeApps{result: transport.ActionResult{Success: true, Message: "Cache cleared"}}
	cmd, out := testCmd()

	require.NoError(t, appsCleanCommand(cmd, fake, "Google Chrome"))
	assert.Equal(t, []string{"Google Chrome"}, fake.cleaned)
	assert.Contains(t, out.String(), "Cache cleared")
}

func TestAppsClean_TransportError(t *testing.T) {
	fake := &fakeApps{err: stderrors.New("connection refused")}
	cmd, out := testCmd()

	err := appsCleanCommand(cmd, fake, "Slack")
	require.Error(t, err)
	assert.NotErrorIs(t, err, errReported)
	assert.Empty(t, out.String())
}
