// ABOUTME: Session commands for the homealign CLI
// ABOUTME: login, logout, session and user

package cmd

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/jacksmith315/homealign-dashboard/cli/internal/client"
	"github.com/jacksmith315/homealign-dashboard/cli/internal/styles"
	"github.com/jacksmith315/homealign-dashboard/models"
)

var loginCreds credentials

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Sign in to a tenant",
	Long: `Sign in to a tenant database. Missing credentials are prompted for.
The password can also be supplied through HOMEALIGN_PASSWORD.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := signalContext()
		defer cancel()

		c, err := newClient()
		if err != nil {
			return err
		}

		creds := loginCreds
		if creds.Password == "" {
			creds.Password = os.Getenv("HOMEALIGN_PASSWORD")
		}
		if creds.Tenant == "" || creds.Email == "" || creds.Password == "" {
			if err := promptCredentials(&creds); err != nil {
				return fmt.Errorf("login cancelled: %w", err)
			}
		}
		return runLogin(ctx, cmd.OutOrStdout(), c, creds)
	},
}

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Sign out and forget the saved session",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := signalContext()
		defer cancel()

		c, err := newClient()
		if err != nil {
			return err
		}
		return runLogout(ctx, cmd.OutOrStdout(), c)
	},
}

var sessionCmd = &cobra.Command{
	Use:   "session",
	Short: "Show which session cookies the proxy sees",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := signalContext()
		defer cancel()

		c, err := newClient()
		if err != nil {
			return err
		}
		return runSession(ctx, cmd.OutOrStdout(), c)
	},
}

var userCmd = &cobra.Command{
	Use:   "user",
	Short: "Show the signed-in user",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := signalContext()
		defer cancel()

		c, err := newClient()
		if err != nil {
			return err
		}
		return runUser(ctx, cmd.OutOrStdout(), c)
	},
}

func init() {
	loginCmd.Flags().StringVarP(&loginCreds.Tenant, "tenant", "t", "", "Tenant database id (e.g. humana)")
	loginCmd.Flags().StringVarP(&loginCreds.Email, "email", "e", "", "Account email")
	loginCmd.Flags().StringVarP(&loginCreds.Password, "password", "p", "", "Account password")

	rootCmd.AddCommand(loginCmd, logoutCmd, sessionCmd, userCmd)
}

func runLogin(ctx context.Context, w io.Writer, c *client.Client, creds credentials) error {
	if err := c.Login(ctx, creds.Tenant, creds.Email, creds.Password); err != nil {
		return err
	}

	if IsJSONOutput() {
		return printJSON(w, map[string]any{
			"success": true,
			"tenant":  creds.Tenant,
			"email":   creds.Email,
		})
	}
	fmt.Fprintf(w, "Logged in to %s as %s\n", models.TenantName(creds.Tenant), creds.Email)
	return nil
}

func runLogout(ctx context.Context, w io.Writer, c *client.Client) error {
	err := c.Logout(ctx)

	if IsJSONOutput() {
		out := map[string]any{"success": true}
		if err != nil {
			out["warning"] = err.Error()
		}
		return printJSON(w, out)
	}
	if err != nil {
		fmt.Fprintf(w, "Logged out locally (proxy logout failed: %v)\n", err)
		return nil
	}
	fmt.Fprintln(w, "Logged out")
	return nil
}

func runSession(ctx context.Context, w io.Writer, c *client.Client) error {
	info, err := c.Session(ctx)
	if err != nil {
		return err
	}

	if IsJSONOutput() {
		return printJSON(w, info)
	}

	state := styles.Badge("signed out", styles.LevelNeutral)
	if info.IsAuthenticated {
		state = styles.Badge("signed in", styles.LevelOK)
	}
	fmt.Fprintln(w, styles.Field("Session:", state))
	fmt.Fprintln(w, styles.Field("Tenant:", tenantLabel(info.SelectedDB)))
	fmt.Fprintln(w, styles.Field("Access:", styles.Check(info.HasTokens.Access)))
	fmt.Fprintln(w, styles.Field("Refresh:", styles.Check(info.HasTokens.Refresh)))
	return nil
}

func runUser(ctx context.Context, w io.Writer, c *client.Client) error {
	if err := c.RequireSession(); err != nil {
		return err
	}
	u, err := c.User(ctx)
	if err != nil {
		return err
	}

	if IsJSONOutput() {
		return printJSON(w, u)
	}
	fmt.Fprintln(w, styles.Field("Email:", styles.Value.Render(u.Email)))
	fmt.Fprintln(w, styles.Field("Username:", u.Username))
	fmt.Fprintln(w, styles.Field("ID:", u.ID.String()))
	fmt.Fprintln(w, styles.Field("Role:", u.Role))
	return nil
}

func tenantLabel(id string) string {
	if id == "" {
		return styles.Hint.Render("none selected")
	}
	return fmt.Sprintf("%s (%s)", models.TenantName(id), id)
}
