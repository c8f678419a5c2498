// ABOUTME: Tenant selection commands for the homealign CLI
// ABOUTME: Shows and switches the database that data commands query

package cmd

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/jacksmith315/homealign-dashboard/cli/internal/client"
	"github.com/jacksmith315/homealign-dashboard/cli/internal/styles"
	"github.com/jacksmith315/homealign-dashboard/models"
)

var tenantCmd = &cobra.Command{
	Use:   "tenant",
	Short: "Show or switch the selected tenant",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := signalContext()
		defer cancel()

		c, err := newClient()
		if err != nil {
			return err
		}
		return runTenantGet(ctx, cmd.OutOrStdout(), c)
	},
}

var tenantSetCmd = &cobra.Command{
	Use:   "set <tenant>",
	Short: "Switch the selected tenant",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := signalContext()
		defer cancel()

		c, err := newClient()
		if err != nil {
			return err
		}
		return runTenantSet(ctx, cmd.OutOrStdout(), c, args[0])
	},
}

func init() {
	tenantCmd.AddCommand(tenantSetCmd)
	rootCmd.AddCommand(tenantCmd)
}

func runTenantGet(ctx context.Context, w io.Writer, c *client.Client) error {
	db, err := c.GetTenant(ctx)
	if err != nil {
		return err
	}

	if IsJSONOutput() {
		return printJSON(w, db)
	}

	rows := make([][]string, 0, len(db.Databases))
	for _, t := range db.Databases {
		marker := ""
		if t.ID == db.SelectedDB {
			marker = "*"
		}
		rows = append(rows, []string{marker, t.ID, t.Name})
	}
	fmt.Fprintln(w, styles.Field("Selected:", tenantLabel(db.SelectedDB)))
	fmt.Fprintln(w, styles.Table([]string{"", "ID", "Name"}, rows))
	return nil
}

func runTenantSet(ctx context.Context, w io.Writer, c *client.Client, tenant string) error {
	if err := c.SetTenant(ctx, tenant); err != nil {
		return err
	}

	if IsJSONOutput() {
		return printJSON(w, models.DatabaseResponse{Success: true, SelectedDB: tenant})
	}
	fmt.Fprintf(w, "Selected tenant %s\n", tenantLabel(tenant))
	return nil
}
