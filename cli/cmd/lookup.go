// ABOUTME: Lookup command for reference data such as referral statuses

package cmd

import (
	"context"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jacksmith315/homealign-dashboard/cli/internal/client"
	"github.com/jacksmith315/homealign-dashboard/cli/internal/styles"
	"github.com/jacksmith315/homealign-dashboard/models"
)

var lookupCmd = &cobra.Command{
	Use:   "lookup <type>",
	Short: "List reference data for the selected tenant",
	Long:  "List reference data. Types: " + strings.Join(lookupTypes(), ", "),
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := signalContext()
		defer cancel()

		c, err := newClient()
		if err != nil {
			return err
		}
		return runLookup(ctx, cmd.OutOrStdout(), c, args[0])
	},
}

func init() {
	rootCmd.AddCommand(lookupCmd)
}

func lookupTypes() []string {
	kinds := make([]string, 0, len(models.LookupTypes))
	for k := range models.LookupTypes {
		kinds = append(kinds, k)
	}
	sort.Strings(kinds)
	return kinds
}

func runLookup(ctx context.Context, w io.Writer, c *client.Client, kind string) error {
	if _, ok := models.LookupTypes[kind]; !ok {
		return fmt.Errorf("unknown lookup type %q (want one of %s)", kind, strings.Join(lookupTypes(), ", "))
	}
	if err := c.RequireSession(); err != nil {
		return err
	}

	items, err := client.NewLookupService(c).Get(ctx, kind)
	if err != nil {
		return err
	}

	if IsJSONOutput() {
		return printJSON(w, items)
	}

	rows := make([][]string, 0, len(items))
	for _, item := range items {
		name := item.Name
		if name == "" {
			name = item.Label
		}
		rows = append(rows, []string{strconv.Itoa(item.ID), name, item.Value})
	}
	fmt.Fprintln(w, styles.Table([]string{"ID", "Name", "Value"}, rows))
	return nil
}
