package cli

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/sysdash/sysdash/internal/config"
	"github.com/sysdash/sysdash/internal/errors"
	"github.com/sysdash/sysdash/internal/transport"
	"github.com/sysdash/sysdash/internal/ui"
)

var killWaitFlag time.Duration

// killer is the slice of the producer the kill command uses.
type killer interface {
	Connect(ctx context.Context) error
	Listen(ctx context.Context, h transport.Handler) error
	KillProcess(pid int) (string, error)
}

var killCmd = &cobra.Command{
	Use:   "kill PID",
	Short: "Ask the producer to terminate a process",
	Long: `Send a kill request for PID over the event stream and wait for the
producer's answer.

With --wait 0 the request is sent and the command returns without waiting.

Examples:
  sysdash kill 4242
  sysdash kill 4242 --wait 30s`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		pid, err := strconv.Atoi(args[0])
		if err != nil || pid <= 0 {
			return errors.New(errors.ErrConfig,
				fmt.Sprintf("'%s' is not a process id", args[0]),
				"Pass the numeric PID shown in the dashboard")
		}
		if killWaitFlag < 0 {
			return errors.New(errors.ErrConfig,
				"--wait can't be negative",
				"Use 0 to return without waiting, or a duration like 5s")
		}
		return withClient(func(c *transport.Client, _ *config.Config) error {
			return killCommand(cmd, c, pid, killWaitFlag)
		})
	},
}

func init() {
	killCmd.Flags().DurationVar(&killWaitFlag, "wait", 5*time.Second, "how long to wait for the producer's answer (0 to not wait)")
	rootCmd.AddCommand(killCmd)
}

// killCommand sends kill_process for pid and reports the acknowledgment
// correlated to that request.
func killCommand(cmd *cobra.Command, c killer, pid int, wait time.Duration) error {
	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	if err := c.Connect(ctx); err != nil {
		return err
	}

	results := make(chan transport.KillResult, 4)
	dropped := make(chan error, 1)
	handler := transport.HandlerFuncs{
		KillResult: func(res transport.KillResult) {
			select {
			case results <- res:
			case <-ctx.Done():
			}
		},
		Disconnect: func(err error) {
			select {
			case dropped <- err:
			default:
			}
		},
	}
	go func() { _ = c.Listen(ctx, handler) }()

	requestID, err := c.KillProcess(pid)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if wait == 0 {
		fmt.Fprintf(out, "%s Kill request sent for process %d %s\n",
			ui.SymbolPending, pid, ui.Muted("("+requestID+")"))
		return nil
	}

	timeout := time.NewTimer(wait)
	defer timeout.Stop()

	for {
		select {
		case res := <-results:
			if res.RequestID != "" && res.RequestID != requestID {
				continue
			}
			fmt.Fprintln(out, ui.ResultLine(res.Success, killMessage(res)))
			if !res.Success {
				return errReported
			}
			return nil
		case err := <-dropped:
			return err
		case <-timeout.C:
			return errors.New(errors.ErrTransport,
				fmt.Sprintf("No answer from the producer within %s", wait),
				"The process may still be terminated; check the dashboard")
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

func killMessage(res transport.KillResult) string {
	if res.Message != "" {
		return res.Message
	}
	if res.Success {
		return fmt.Sprintf("Process %d terminated", res.PID)
	}
	return fmt.Sprintf("Could not kill process %d", res.PID)
}
