// ABOUTME: Health command for the homealign CLI
// ABOUTME: Reports proxy, session and backend reachability with CI-friendly exit codes

package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jacksmith315/homealign-dashboard/cli/internal/client"
	"github.com/jacksmith315/homealign-dashboard/cli/internal/styles"
	"github.com/jacksmith315/homealign-dashboard/models"
)

var healthCmd = &cobra.Command{
	Use:   "health",
	Short: "Check proxy and backend health",
	Long: `Check the dashboard proxy and the upstream backend it depends on.

Exit codes: 0 healthy, 1 degraded, 2 proxy unreachable.`,
	Run: func(cmd *cobra.Command, args []string) {
		ctx, cancel := signalContext()
		defer cancel()

		exitCode := runHealth(ctx, os.Stdout)
		if exitCode != 0 {
			os.Exit(exitCode)
		}
	},
}

func init() {
	rootCmd.AddCommand(healthCmd)
}

// runHealth executes the health check and returns exit code
func runHealth(ctx context.Context, w io.Writer) int {
	c := client.New(GetAPIURL())

	resp, err := c.Health(ctx)
	if err != nil {
		fmt.Fprintf(w, "Error: %v\n", err)
		return 2
	}

	url := c.BaseURL()

	if IsJSONOutput() {
		printJSON(w, map[string]any{"proxy": url, "health": resp})
	} else {
		fmt.Fprintln(w, formatHealthHuman(url, resp))
	}

	if resp.Status != models.HealthStatusHealthy {
		return 1
	}
	return 0
}

// formatHealthHuman formats health response for human readability
func formatHealthHuman(url string, resp *models.HealthResponse) string {
	level := styles.LevelOK
	if resp.Status != models.HealthStatusHealthy {
		level = styles.LevelWarning
	}

	lines := []string{
		styles.Field("Proxy:", url),
		styles.Field("Status:", styles.Badge(resp.Status, level)),
		styles.Field("Version:", fmt.Sprintf("%s (%s)", resp.Version, resp.Environment)),
		styles.Field("Proxy check:", styles.Check(resp.Checks.Proxy)),
		styles.Field("Session:", styles.Check(resp.Checks.Session)),
		styles.Field("Backend API:", styles.Check(resp.Checks.BackendAPI)),
	}
	return strings.Join(lines, "\n")
}
