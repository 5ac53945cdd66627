package cli

import (
	"context"
	"io"
	"os"
	"sync"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/sysdash/sysdash/internal/alert"
	"github.com/sysdash/sysdash/internal/config"
	"github.com/sysdash/sysdash/internal/errors"
	"github.com/sysdash/sysdash/internal/logger"
	"github.com/sysdash/sysdash/internal/monitor"
	"github.com/sysdash/sysdash/internal/telemetry"
	"github.com/sysdash/sysdash/internal/transport"
)

// snapshotWidth is the layout width for the one-shot snapshot printed when
// stdout is not a terminal.
const snapshotWidth = 100

var dashCmd = &cobra.Command{
	Use:   "dash",
	Short: "Open the live dashboard",
	Long: `Open the full-screen dashboard. This is also what running sysdash
without a subcommand does.

When stdout is not a terminal, one snapshot is rendered and printed
instead, so the output can be piped or captured.

Keyboard shortcuts:
  1 / 2       Overview / Apps
  tab         Cycle focus (Top CPU, Top memory, Alerts)
  up/k down/j Move selection
  x           Kill the selected process
  d           Dismiss the selected alert
  /           Filter apps
  u / c       Uninstall / clean cache of the selected app
  r           Reconnect (overview) or reload apps
  ?           Help
  q / Ctrl+C  Quit

Examples:
  sysdash
  sysdash dash --server http://lab:5000
  sysdash dash > snapshot.txt`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return dashCommand(cmd)
	},
}

func init() {
	rootCmd.AddCommand(dashCmd)
}

// dashCommand runs the dashboard, or prints a single snapshot when stdout
// is not a terminal.
func dashCommand(cmd *cobra.Command) error {
	cfg, path, err := loadConfig()
	if err != nil {
		return err
	}

	log, flush := openLogger(cfg)
	defer flush()

	client, err := newClient(cfg, log)
	if err != nil {
		return err
	}
	defer func() { _ = client.Close() }()

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	out := cmd.OutOrStdout()
	if !isTerminal(out) {
		return printSnapshot(ctx, out, client, cfg, log)
	}

	bridge := monitor.NewBridge(nil)
	model := monitor.NewModel(client, bridge, dashOptions(ctx, cfg, log))
	p := tea.NewProgram(model, tea.WithAltScreen())
	bridge.Attach(p)

	if path != "" {
		watchConfig(path, bridge, log)
	}

	log.Info("dashboard started for %s", client.BaseURL())
	_, err = p.Run()
	return err
}

// dashOptions maps the config onto the dashboard model options.
func dashOptions(ctx context.Context, cfg *config.Config, log logger.Logger) monitor.Options {
	return monitor.Options{
		ServerURL:    cfg.Server.URL,
		Thresholds:   thresholdsFrom(cfg.Thresholds),
		Rules:        cfg.Alerts.Rules(),
		Window:       cfg.Charts.Window,
		MaxAlerts:    cfg.Alerts.MaxRetained,
		Dedupe:       cfg.Alerts.Dedupe,
		Placeholders: cfg.Placeholders.Placeholders(),
		Context:      ctx,
		Logger:       log,
	}
}

func thresholdsFrom(t config.ThresholdsConfig) monitor.Thresholds {
	return monitor.Thresholds{
		CPU:    monitor.Threshold{Warning: t.CPU.Warning, Danger: t.CPU.Danger},
		Memory: monitor.Threshold{Warning: t.Memory.Warning, Danger: t.Memory.Danger},
		Disk:   monitor.Threshold{Warning: t.Disk.Warning, Danger: t.Disk.Danger},
	}
}

// watchConfig forwards threshold and rule edits to the running dashboard.
// Other keys take effect on the next start.
func watchConfig(path string, bridge *monitor.Bridge, log logger.Logger) {
	err := config.Watch(path, func(cfg *config.Config, err error) {
		if err != nil {
			log.Warn("config reload failed: %v", err)
			bridge.ConfigReloaded(monitor.Thresholds{}, alert.Rules{}, err)
			return
		}
		log.Info("config reloaded from %s", path)
		bridge.ConfigReloaded(thresholdsFrom(cfg.Thresholds), cfg.Alerts.Rules(), nil)
	})
	if err != nil {
		log.Warn("config watch disabled: %v", err)
	}
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

// streamSource is the part of the producer the one-shot snapshot needs.
type streamSource interface {
	Connect(ctx context.Context) error
	Listen(ctx context.Context, h transport.Handler) error
	SystemInfo(ctx context.Context) ([]byte, error)
}

// printSnapshot waits for the first snapshot event, evaluates the local
// alert rules against it and prints the overview once.
func printSnapshot(ctx context.Context, out io.Writer, src streamSource, cfg *config.Config, log logger.Logger) error {
	if log == nil {
		log = logger.Default()
	}
	streamCtx, stop := context.WithTimeout(ctx, cfg.Server.Timeout)
	defer stop()

	if err := src.Connect(streamCtx); err != nil {
		return err
	}

	var (
		mu     sync.Mutex
		alerts [][]byte
	)
	first := make(chan []byte, 1)
	handler := transport.HandlerFuncs{
		Snapshot: func(raw []byte) {
			select {
			case first <- raw:
			default:
			}
		},
		Alerts: func(raw []byte) {
			mu.Lock()
			alerts = append(alerts, raw)
			mu.Unlock()
		},
	}

	listenErr := make(chan error, 1)
	go func() { listenErr <- src.Listen(streamCtx, handler) }()

	var raw []byte
	select {
	case raw = <-first:
	case err := <-listenErr:
		if err == nil {
			err = errors.New(errors.ErrTransport,
				"The producer closed the stream before sending a snapshot",
				"Check the producer logs")
		}
		return err
	case <-streamCtx.Done():
		return errors.WrapWithCode(streamCtx.Err(), errors.ErrTransport,
			"No snapshot received from the producer",
			"Check the producer is running at "+cfg.Server.URL)
	}
	stop()

	now := time.Now()
	norm := telemetry.NewNormalizer(cfg.Placeholders.Placeholders())
	state := monitor.NewState(cfg.Charts.Window, cfg.Alerts.MaxRetained, cfg.Alerts.Dedupe)
	state.Snapshot = norm.Normalize(raw)
	state.HasSnapshot = true
	state.LastUpdate = now
	state.Conn = monitor.ConnConnected
	state.History.Push(state.Snapshot)

	mu.Lock()
	for _, a := range alerts {
		state.Feed.Push(norm.Alerts(a)...)
	}
	mu.Unlock()
	state.Feed.Push(alert.Evaluate(state.Snapshot, cfg.Alerts.Rules(), now)...)

	infoCtx, cancel := context.WithTimeout(ctx, cfg.Server.Timeout)
	defer cancel()
	if info, err := src.SystemInfo(infoCtx); err != nil {
		log.Warn("system info unavailable: %v", err)
	} else {
		state.Host = norm.HostInfo(info)
		state.HostLoaded = true
	}

	view := monitor.RenderOverview(state, monitor.OverviewLayout{
		Width:       snapshotWidth,
		Thresholds:  thresholdsFrom(cfg.Thresholds),
		Placeholder: norm.Placeholders().NotAvailable,
		NoSelection: true,
	})
	_, err := io.WriteString(out, view+"\n")
	return err
}
