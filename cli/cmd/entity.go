// ABOUTME: CRUD commands for patients, clients, providers, referrals and services
// ABOUTME: One generic command tree per entity built on client.EntityService

package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jacksmith315/homealign-dashboard/cli/internal/client"
	"github.com/jacksmith315/homealign-dashboard/cli/internal/styles"
	"github.com/jacksmith315/homealign-dashboard/models"
)

// entityView describes how one entity is fetched and shown in a table
type entityView[T any] struct {
	name    string
	service func(*client.Client) *client.EntityService[T]
	headers []string
	row     func(T) []string
}

// listOptions are the flags shared by list and export
type listOptions struct {
	page     int
	search   string
	ordering string
	filters  []string
}

func (o listOptions) params() (client.Params, error) {
	p := client.Params{
		"search":   o.search,
		"ordering": o.ordering,
	}
	if o.page > 0 {
		p["page"] = strconv.Itoa(o.page)
	}
	for _, f := range o.filters {
		key, value, ok := strings.Cut(f, "=")
		if !ok || key == "" {
			return nil, fmt.Errorf("filter %q must be key=value", f)
		}
		p[key] = value
	}
	return p, nil
}

func (v entityView[T]) command() *cobra.Command {
	root := &cobra.Command{
		Use:   v.name,
		Short: "Manage " + v.name,
	}
	root.AddCommand(
		v.listCommand(),
		v.getCommand(),
		v.createCommand(),
		v.updateCommand(),
		v.deleteCommand(),
		v.bulkDeleteCommand(),
		v.exportCommand(),
	)
	return root
}

// withClient runs fn with a signal-aware context and a client holding a session
func withClient(fn func(ctx context.Context, c *client.Client) error) error {
	ctx, cancel := signalContext()
	defer cancel()

	c, err := newClient()
	if err != nil {
		return err
	}
	if err := c.RequireSession(); err != nil {
		return err
	}
	return fn(ctx, c)
}

func addListFlags(cmd *cobra.Command, opts *listOptions) {
	cmd.Flags().StringVarP(&opts.search, "search", "s", "", "Free-text search")
	cmd.Flags().StringVar(&opts.ordering, "ordering", "", "Sort field, prefix with - for descending")
	cmd.Flags().StringArrayVarP(&opts.filters, "filter", "f", nil, "Extra query filter as key=value (repeatable)")
}

func (v entityView[T]) listCommand() *cobra.Command {
	var opts listOptions
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List " + v.name,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withClient(func(ctx context.Context, c *client.Client) error {
				return v.runList(ctx, cmd.OutOrStdout(), c, opts)
			})
		},
	}
	cmd.Flags().IntVar(&opts.page, "page", 0, "Page number")
	addListFlags(cmd, &opts)
	return cmd
}

func (v entityView[T]) getCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "get <id>",
		Short: "Show one record",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withClient(func(ctx context.Context, c *client.Client) error {
				return v.runGet(ctx, cmd.OutOrStdout(), c, args[0])
			})
		},
	}
}

func (v entityView[T]) createCommand() *cobra.Command {
	var file string
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a record from a JSON document",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			item, err := readItem[T](file, cmd.InOrStdin())
			if err != nil {
				return err
			}
			return withClient(func(ctx context.Context, c *client.Client) error {
				return v.runCreate(ctx, cmd.OutOrStdout(), c, item)
			})
		},
	}
	cmd.Flags().StringVar(&file, "file", "-", "JSON file to read, - for stdin")
	return cmd
}

func (v entityView[T]) updateCommand() *cobra.Command {
	var file string
	cmd := &cobra.Command{
		Use:   "update <id>",
		Short: "Replace a record with a JSON document",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			item, err := readItem[T](file, cmd.InOrStdin())
			if err != nil {
				return err
			}
			return withClient(func(ctx context.Context, c *client.Client) error {
				return v.runUpdate(ctx, cmd.OutOrStdout(), c, args[0], item)
			})
		},
	}
	cmd.Flags().StringVar(&file, "file", "-", "JSON file to read, - for stdin")
	return cmd
}

func (v entityView[T]) deleteCommand() *cobra.Command {
	var yes bool
	cmd := &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete one record",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withClient(func(ctx context.Context, c *client.Client) error {
				return v.runDelete(ctx, cmd.OutOrStdout(), c, args, yes)
			})
		},
	}
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Skip the confirmation prompt")
	return cmd
}

func (v entityView[T]) bulkDeleteCommand() *cobra.Command {
	var yes bool
	cmd := &cobra.Command{
		Use:   "bulk-delete <id>...",
		Short: "Delete several records concurrently",
		Long: `Delete several records concurrently. Deletes that succeed are not
rolled back when another one fails.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withClient(func(ctx context.Context, c *client.Client) error {
				return v.runDelete(ctx, cmd.OutOrStdout(), c, args, yes)
			})
		},
	}
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Skip the confirmation prompt")
	return cmd
}

func (v entityView[T]) exportCommand() *cobra.Command {
	var opts listOptions
	var output string
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export " + v.name + " as CSV",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withClient(func(ctx context.Context, c *client.Client) error {
				return v.runExport(ctx, cmd.OutOrStdout(), c, opts, output)
			})
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "", "File to write (default stdout)")
	addListFlags(cmd, &opts)
	return cmd
}

func (v entityView[T]) runList(ctx context.Context, w io.Writer, c *client.Client, opts listOptions) error {
	params, err := opts.params()
	if err != nil {
		return err
	}

	page, err := v.service(c).List(ctx, params)
	if err != nil {
		return err
	}

	if IsJSONOutput() {
		return printJSON(w, page)
	}

	rows := make([][]string, 0, len(page.Results))
	for _, item := range page.Results {
		rows = append(rows, v.row(item))
	}
	fmt.Fprintln(w, styles.Table(v.headers, rows))
	fmt.Fprintln(w, styles.Hint.Render(pageSummary(len(page.Results), page.Count, page.Next != nil)))
	return nil
}

func pageSummary(shown, total int, more bool) string {
	s := fmt.Sprintf("%d of %d", shown, total)
	if more {
		s += " (more pages available, use --page)"
	}
	return s
}

func (v entityView[T]) runGet(ctx context.Context, w io.Writer, c *client.Client, id string) error {
	item, err := v.service(c).Get(ctx, id)
	if err != nil {
		return err
	}
	return printJSON(w, item)
}

func (v entityView[T]) runCreate(ctx context.Context, w io.Writer, c *client.Client, item T) error {
	saved, err := v.service(c).Create(ctx, item)
	if err != nil {
		return err
	}
	return printJSON(w, saved)
}

func (v entityView[T]) runUpdate(ctx context.Context, w io.Writer, c *client.Client, id string, item T) error {
	saved, err := v.service(c).Update(ctx, id, item)
	if err != nil {
		return err
	}
	return printJSON(w, saved)
}

func (v entityView[T]) runDelete(ctx context.Context, w io.Writer, c *client.Client, ids []string, yes bool) error {
	if !yes {
		ok, err := confirm(fmt.Sprintf("Delete %d %s (%s)?", len(ids), v.name, strings.Join(ids, ", ")))
		if err != nil {
			return err
		}
		if !ok {
			fmt.Fprintln(w, "Cancelled")
			return nil
		}
	}

	svc := v.service(c)
	var err error
	if len(ids) == 1 {
		err = svc.Delete(ctx, ids[0])
	} else {
		err = svc.BulkDelete(ctx, ids)
	}
	if err != nil {
		return err
	}

	if IsJSONOutput() {
		return printJSON(w, map[string]any{"success": true, "deleted": ids})
	}
	fmt.Fprintf(w, "Deleted %d %s\n", len(ids), v.name)
	return nil
}

func (v entityView[T]) runExport(ctx context.Context, w io.Writer, c *client.Client, opts listOptions, output string) error {
	params, err := opts.params()
	if err != nil {
		return err
	}

	dst := w
	if output != "" {
		f, err := os.Create(output)
		if err != nil {
			return fmt.Errorf("failed to create %s: %w", output, err)
		}
		defer f.Close()
		dst = f
	}

	n, err := v.service(c).Export(ctx, params, dst)
	if err != nil {
		return err
	}
	if output != "" {
		fmt.Fprintf(w, "Wrote %d bytes to %s\n", n, output)
	}
	return nil
}

// readItem decodes a JSON document from file, or from stdin when file is "-"
func readItem[T any](file string, stdin io.Reader) (T, error) {
	var item T

	src := stdin
	if file != "-" && file != "" {
		f, err := os.Open(file)
		if err != nil {
			return item, fmt.Errorf("failed to open %s: %w", file, err)
		}
		defer f.Close()
		src = f
	}

	if err := json.NewDecoder(src).Decode(&item); err != nil {
		return item, fmt.Errorf("invalid JSON input: %w", err)
	}
	return item, nil
}

func itoa(n int) string {
	if n == 0 {
		return ""
	}
	return strconv.Itoa(n)
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}

var patientsView = entityView[models.Patient]{
	name:    models.EntityPatients,
	service: client.Patients,
	headers: []string{"ID", "Name", "DOB", "Phone", "City", "State"},
	row: func(p models.Patient) []string {
		id := p.PKPatientID
		if id == 0 {
			id = p.ID
		}
		return []string{itoa(id), strings.TrimSpace(p.FirstName + " " + p.LastName), p.DOB, p.PhoneNumber, p.City, p.State}
	},
}

var clientsView = entityView[models.Client]{
	name:    models.EntityClients,
	service: client.Clients,
	headers: []string{"ID", "Name", "Type", "Status", "City", "State"},
	row: func(c models.Client) []string {
		return []string{itoa(c.ID), c.Name, c.Type, c.Status, c.City, c.State}
	},
}

var providersView = entityView[models.Provider]{
	name:    models.EntityProviders,
	service: client.Providers,
	headers: []string{"ID", "Name", "Type", "Specialty", "NPI", "Network"},
	row: func(p models.Provider) []string {
		return []string{itoa(p.ID), strings.TrimSpace(p.FirstName + " " + p.LastName), p.ProviderType, p.Specialty, p.NPINumber, p.NetworkStatus}
	},
}

var referralsView = entityView[models.Referral]{
	name:    models.EntityReferrals,
	service: client.Referrals,
	headers: []string{"ID", "Patient", "Provider", "Service", "Date", "Status", "Priority"},
	row: func(r models.Referral) []string {
		return []string{itoa(r.ID), itoa(r.Patient), itoa(r.Provider), itoa(r.Service), r.ReferralDate, r.Status, r.Priority}
	},
}

var servicesView = entityView[models.Service]{
	name:    models.EntityServices,
	service: client.Services,
	headers: []string{"ID", "Name", "Type", "CPT", "Telehealth", "Active"},
	row: func(s models.Service) []string {
		return []string{itoa(s.ID), s.Name, s.ServiceType, s.CPTCode, yesNo(s.TelehealthEligible), yesNo(s.IsActive)}
	},
}

func init() {
	rootCmd.AddCommand(
		patientsView.command(),
		clientsView.command(),
		providersView.command(),
		referralsView.command(),
		servicesView.command(),
	)
}
