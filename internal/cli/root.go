package cli

import (
	stderrors "errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/sysdash/sysdash/internal/config"
	"github.com/sysdash/sysdash/internal/errors"
	"github.com/sysdash/sysdash/internal/logger"
	"github.com/sysdash/sysdash/internal/transport"
	"github.com/sysdash/sysdash/internal/ui"
)

// errReported marks a failure the command already printed. It only sets
// the exit status.
var errReported = stderrors.New("failure already reported")

// Global flags
var (
	cfgFile    string
	serverFlag string
	noColor    bool
)

var rootCmd = &cobra.Command{
	Use:   "sysdash",
	Short: "Terminal dashboard for a system telemetry producer",
	Long: `sysdash connects to a telemetry producer and shows live CPU, memory,
disk, network and process metrics with alerts, plus the installed app
inventory.

Run without a subcommand to open the dashboard. The one-shot subcommands
perform the producer's actions directly from the shell.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		if noColor || os.Getenv("NO_COLOR") != "" {
			ui.DisableColors()
		}
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		return dashCommand(cmd)
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: ./.sysdash.yaml or ~/.config/sysdash/config.yaml)")
	rootCmd.PersistentFlags().StringVar(&serverFlag, "server", "", "producer URL, overrides server.url (e.g., http://localhost:5000)")
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "disable colored output")
}

// Execute runs the root command and exits non-zero on failure.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		if !stderrors.Is(err, errReported) {
			printError(os.Stderr, err)
		}
		os.Exit(1)
	}
}

// printError writes err the way every command reports failures: structured
// errors carry their own symbol and suggestion.
func printError(w io.Writer, err error) {
	var e *errors.Error
	if stderrors.As(err, &e) {
		fmt.Fprint(w, e.Error())
		return
	}
	fmt.Fprintf(w, "%s %s\n", ui.SymbolFail, err.Error())
}

// loadConfig finds and loads the config, applies --server and validates
// the result. path is "" when running on defaults.
func loadConfig() (*config.Config, string, error) {
	cfg, path, err := config.LoadOrDefault(cfgFile)
	if err != nil {
		return nil, "", err
	}
	if serverFlag != "" {
		cfg.Server.URL = serverFlag
	}
	if err := config.Validate(cfg); err != nil {
		return nil, "", err
	}
	return cfg, path, nil
}

// openLogger sends logs to the configured file, keeping them out of
// command output. Logging is disabled when the file can't be opened.
func openLogger(cfg *config.Config) (logger.Logger, func()) {
	log, flush, err := logger.NewFileLogger(cfg.Log.File, cfg.Log.Level)
	if err != nil {
		return logger.Noop(), func() {}
	}
	logger.SetDefault(log)
	return log, flush
}

// newClient builds a producer client from the config.
func newClient(cfg *config.Config, log logger.Logger) (*transport.Client, error) {
	return transport.New(transport.Options{
		ServerURL:  cfg.Server.URL,
		SocketPath: cfg.Server.SocketPath,
		CSRFToken:  cfg.Server.CSRFToken,
		Timeout:    cfg.Server.Timeout,
	}, log)
}
