// ABOUTME: Root command for the homealign CLI
// ABOUTME: Handles global flags, session file location and client construction

package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/jacksmith315/homealign-dashboard/cli/internal/client"
)

var (
	apiURL      string
	jsonOutput  bool
	sessionFile string
)

const defaultAPIURL = "http://localhost:3000"

// rootCmd is the base command
var rootCmd = &cobra.Command{
	Use:   "homealign",
	Short: "CLI for the HomeAlign admin dashboard",
	Long: `homealign is a command-line client for the HomeAlign dashboard proxy.

It signs in to a tenant, keeps the session cookies between invocations and
manages patients, clients, providers, referrals and services.

Environment Variables:
  HOMEALIGN_API_URL  Dashboard proxy URL (default: http://localhost:3000)`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&apiURL, "api-url", "", "Dashboard proxy URL (overrides HOMEALIGN_API_URL)")
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "Output JSON instead of human-readable text")
	rootCmd.PersistentFlags().StringVar(&sessionFile, "session-file", "", "Where session cookies are kept (default $XDG_CONFIG_HOME/homealign/session.json)")
}

// GetAPIURL returns the API URL from flag, env, or default (in priority order)
func GetAPIURL() string {
	if apiURL != "" {
		return apiURL
	}
	if envURL := os.Getenv("HOMEALIGN_API_URL"); envURL != "" {
		return envURL
	}
	return defaultAPIURL
}

// IsJSONOutput returns whether JSON output is requested
func IsJSONOutput() bool {
	return jsonOutput
}

// SessionFilePath returns the session file from the flag or the user config dir
func SessionFilePath() (string, error) {
	if sessionFile != "" {
		return sessionFile, nil
	}
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("cannot locate config directory, use --session-file: %w", err)
	}
	return filepath.Join(dir, "homealign", "session.json"), nil
}

// newClient builds a client backed by the persisted session
func newClient() (*client.Client, error) {
	path, err := SessionFilePath()
	if err != nil {
		return nil, err
	}
	jar, err := client.OpenSessionJar(path)
	if err != nil {
		return nil, err
	}

	return client.New(GetAPIURL(),
		client.WithSessionJar(jar),
		client.WithAuthFailureHook(func() {
			fmt.Fprintln(os.Stderr, "Session expired. Please log in again.")
		}),
	), nil
}

// signalContext is cancelled on SIGINT or SIGTERM
func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
}
