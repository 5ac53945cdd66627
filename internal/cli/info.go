package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/sysdash/sysdash/internal/config"
	"github.com/sysdash/sysdash/internal/monitor"
	"github.com/sysdash/sysdash/internal/telemetry"
	"github.com/sysdash/sysdash/internal/transport"
	"github.com/sysdash/sysdash/internal/ui"
)

// infoWidth is the host panel width for CLI output.
const infoWidth = 60

var infoCmd = &cobra.Command{
	Use:   "info",
	Short: "Show the producer host's model and operating system",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withClient(func(c *transport.Client, cfg *config.Config) error {
			return infoCommand(cmd, c, cfg.Placeholders.Placeholders())
		})
	},
}

func init() {
	rootCmd.AddCommand(infoCmd)
}

type systemInfoSource interface {
	SystemInfo(ctx context.Context) ([]byte, error)
	BaseURL() string
}

func infoCommand(cmd *cobra.Command, c systemInfoSource, ph telemetry.Placeholders) error {
	raw, err := c.SystemInfo(cmd.Context())
	if err != nil {
		return err
	}
	host := telemetry.NewNormalizer(ph).HostInfo(raw)

	out := cmd.OutOrStdout()
	fmt.Fprintln(out, monitor.RenderHostPanel(host, infoWidth))
	fmt.Fprint(out, ui.RenderKeyValues([]ui.KeyValue{{Key: "Producer", Value: c.BaseURL()}}))
	return nil
}
