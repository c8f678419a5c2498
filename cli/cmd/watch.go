// ABOUTME: Watch command that keeps a session alive in the foreground
// ABOUTME: Prints the auth state after every periodic session check

package cmd

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"github.com/jacksmith315/homealign-dashboard/cli/internal/client"
	"github.com/jacksmith315/homealign-dashboard/cli/internal/styles"
)

var watchInterval time.Duration

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Check the session periodically, refreshing it when needed",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := signalContext()
		defer cancel()

		c, err := newClient()
		if err != nil {
			return err
		}
		runWatch(ctx, cmd.OutOrStdout(), c, watchInterval)
		return nil
	},
}

func init() {
	watchCmd.Flags().DurationVar(&watchInterval, "interval", client.DefaultMonitorInterval, "Time between session checks")
	rootCmd.AddCommand(watchCmd)
}

func runWatch(ctx context.Context, w io.Writer, c *client.Client, interval time.Duration) {
	c.RunSessionMonitor(ctx, interval, func(snap client.Snapshot, err error) {
		if IsJSONOutput() {
			out := map[string]any{
				"time":   time.Now().UTC().Format(time.RFC3339),
				"state":  snap.State.String(),
				"tenant": snap.Tenant,
			}
			if snap.User != nil {
				out["user"] = snap.User.Email
			}
			if err != nil {
				out["error"] = err.Error()
			}
			printJSON(w, out)
			return
		}
		fmt.Fprintln(w, formatSnapshot(snap, err))
	})
}

func formatSnapshot(snap client.Snapshot, err error) string {
	stamp := styles.Hint.Render(time.Now().Format("15:04:05"))
	if err != nil {
		return fmt.Sprintf("%s %s %v", stamp, styles.Badge("error", styles.LevelCritical), err)
	}
	if snap.State != client.Authenticated {
		return fmt.Sprintf("%s %s", stamp, styles.Badge(snap.State.String(), styles.LevelNeutral))
	}

	who := ""
	if snap.User != nil {
		who = snap.User.Email
	}
	return fmt.Sprintf("%s %s %s @ %s", stamp, styles.Badge(snap.State.String(), styles.LevelOK), who, tenantLabel(snap.Tenant))
}
