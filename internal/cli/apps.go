package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/sysdash/sysdash/internal/config"
	"github.com/sysdash/sysdash/internal/errors"
	"github.com/sysdash/sysdash/internal/monitor"
	"github.com/sysdash/sysdash/internal/telemetry"
	"github.com/sysdash/sysdash/internal/transport"
	"github.com/sysdash/sysdash/internal/ui"
)

// Command-specific flags
var (
	appsFilterFlag string
	uninstallYes   bool
)

// appActions is the slice of the producer the app commands use.
type appActions interface {
	Apps(ctx context.Context) ([]byte, error)
	UninstallApp(ctx context.Context, name string) (transport.ActionResult, error)
	CleanCache(ctx context.Context, name string) (transport.ActionResult, error)
}

// Overridable in tests.
var (
	confirmUninstall = confirmUninstallForm
	stdinIsTerminal  = func() bool { return term.IsTerminal(int(os.Stdin.Fd())) }
)

var appsCmd = &cobra.Command{
	Use:   "apps",
	Short: "List and manage the producer's installed applications",
}

var appsListCmd = &cobra.Command{
	Use:   "list",
	Short: "Print the application inventory",
	Long: `Print the producer's installed applications as a table.

--filter keeps applications whose name or version contains the text,
ignoring case.

Examples:
  sysdash apps list
  sysdash apps list --filter chrome`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withClient(func(c *transport.Client, cfg *config.Config) error {
			return appsListCommand(cmd, c, cfg.Placeholders.Placeholders(), appsFilterFlag)
		})
	},
}

var appsUninstallCmd = &cobra.Command{
	Use:   "uninstall NAME",
	Short: "Uninstall an application",
	Long: `Ask the producer to uninstall an application. You are asked to
confirm first unless --yes is given.

Examples:
  sysdash apps uninstall "Google Chrome"
  sysdash apps uninstall Slack --yes`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withClient(func(c *transport.Client, _ *config.Config) error {
			return appsUninstallCommand(cmd, c, args[0], uninstallYes)
		})
	},
}

var appsCleanCmd = &cobra.Command{
	Use:   "clean-cache NAME",
	Short: "Clear an application's cache",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withClient(func(c *transport.Client, _ *config.Config) error {
			return appsCleanCommand(cmd, c, args[0])
		})
	},
}

func init() {
	appsListCmd.Flags().StringVar(&appsFilterFlag, "filter", "", "only show apps whose name or version contains this text")
	appsUninstallCmd.Flags().BoolVarP(&uninstallYes, "yes", "y", false, "skip the confirmation prompt")

	appsCmd.AddCommand(appsListCmd, appsUninstallCmd, appsCleanCmd)
	rootCmd.AddCommand(appsCmd)
}

// withClient loads the config, opens the log and runs fn with a producer
// client.
func withClient(fn func(c *transport.Client, cfg *config.Config) error) error {
	cfg, _, err := loadConfig()
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
	return fn(client, cfg)
}

func appsListCommand(cmd *cobra.Command, c appActions, ph telemetry.Placeholders, filter string) error {
	raw, err := c.Apps(cmd.Context())
	if err != nil {
		return err
	}

	norm := telemetry.NewNormalizer(ph)
	apps, message, ok := norm.Apps(raw)
	if !ok {
		if message == "" {
			message = "The producer couldn't list applications"
		}
		return errors.New(errors.ErrAction, message, "")
	}

	out := cmd.OutOrStdout()
	visible := telemetry.FilterApps(apps, filter)
	if len(visible) == 0 {
		if filter != "" {
			fmt.Fprintf(out, "No applications match %q\n", filter)
		} else {
			fmt.Fprintln(out, "No applications installed")
		}
		return nil
	}

	columns := []ui.TableColumn{
		{Title: "Name", Width: 12},
		{Title: "Version", Width: 8},
		{Title: "Size", Width: 8},
		{Title: "Installed", Width: 10},
	}
	fmt.Fprintln(out, ui.RenderSimpleTable(columns, monitor.AppRows(visible, norm.Placeholders().NotAvailable)))
	fmt.Fprintln(out, ui.Muted(fmt.Sprintf("%d of %d applications", len(visible), len(apps))))
	return nil
}

func appsUninstallCommand(cmd *cobra.Command, c appActions, name string, yes bool) error {
	if !yes {
		if !stdinIsTerminal() {
			return errors.New(errors.ErrAction,
				"Refusing to uninstall "+name+" without confirmation",
				"Pass --yes to confirm when not running interactively")
		}
		ok, err := confirmUninstall(name)
		if err != nil {
			return err
		}
		if !ok {
			fmt.Fprintf(cmd.OutOrStdout(), "%s Uninstall of %s cancelled\n", ui.SymbolPending, name)
			return nil
		}
	}

	return runAction(cmd, "Uninstalling "+name, func(ctx context.Context) (transport.ActionResult, error) {
		return c.UninstallApp(ctx, name)
	})
}

func appsCleanCommand(cmd *cobra.Command, c appActions, name string) error {
	return runAction(cmd, "Cleaning the cache of "+name, func(ctx context.Context) (transport.ActionResult, error) {
		return c.CleanCache(ctx, name)
	})
}

func confirmUninstallForm(name string) (bool, error) {
	var confirm bool
	form := huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title(fmt.Sprintf("Uninstall %s?", name)).
				Description("This cannot be undone").
				Affirmative("Uninstall").
				Negative("Cancel").
				Value(&confirm),
		),
	)
	if err := form.Run(); err != nil {
		return false, err
	}
	return confirm, nil
}

// runAction performs one producer action and prints its result line. The
// producer's message is shown verbatim; success:false exits non-zero.
func runAction(cmd *cobra.Command, label string, do func(ctx context.Context) (transport.ActionResult, error)) error {
	out := cmd.OutOrStdout()

	var spinner *ui.Spinner
	if isTerminal(out) {
		spinner = ui.NewSpinner(label, out)
		spinner.Start()
	}

	res, err := do(cmd.Context())
	if err != nil {
		if spinner != nil {
			spinner.Stop()
			fmt.Fprintln(out)
		}
		return err
	}

	switch {
	case spinner != nil && res.Success:
		spinner.Success(res.Message)
	case spinner != nil:
		spinner.Fail(res.Message)
	default:
		fmt.Fprintln(out, ui.ResultLine(res.Success, res.Message))
	}

	if !res.Success {
		return errReported
	}
	return nil
}
