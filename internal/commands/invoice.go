package commands

import (
	"fmt"

	"github.com/samber/lo"
	"github.com/spf13/cobra"

	"github.com/faktury-dev/faktury/internal/format"
	"github.com/faktury-dev/faktury/internal/invoices"
	"github.com/faktury-dev/faktury/internal/metrics"
	"github.com/faktury-dev/faktury/internal/model"
)

func newInvoiceCommand(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "invoice",
		Aliases: []string{"faktura"},
		Short:   "Manage invoices",
	}
	cmd.AddCommand(
		newInvoiceAddCommand(opts),
		newInvoiceListCommand(opts),
		newInvoicePayCommand(opts),
		newInvoiceEditCommand(opts),
		newInvoiceDeleteCommand(opts),
		newInvoiceShowCommand(opts),
	)
	return cmd
}

func newInvoiceAddCommand(opts *rootOptions) *cobra.Command {
	var p invoices.AddParams

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add an invoice",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			return withWorkspace(ctx, opts, func(ws *workspace) error {
				inv, err := ws.invoices.Add(ctx, p)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Dodano fakturę %s: %s, %s, termin %s\n",
					inv.ID, inv.CompanyName, format.Currency(inv.Amount), format.Date(inv.Deadline))
				return ws.record(ctx, "invoice", "add",
					fmt.Sprintf("Add invoice for %s (%s)", inv.CompanyName, inv.Amount.StringFixed(2)), inv.ID)
			})
		},
	}

	f := cmd.Flags()
	f.StringVar(&p.CompanyName, "company", "", "company name (required)")
	f.StringVar(&p.NIP, "nip", "", "company tax ID (required)")
	f.StringVar(&p.Amount, "amount", "", "amount in PLN (required)")
	f.StringVar(&p.PaymentTerm, "term", "", "payment term in days (required)")
	f.StringVar(&p.IssueDate, "issue-date", "", "issue date YYYY-MM-DD (default today)")
	f.StringVar(&p.Description, "description", "", "description")
	f.StringVar(&p.ContactPhone, "phone", "", "contact phone")
	f.StringVar(&p.Distance, "distance", "", "route distance in km")
	f.StringVar(&p.Loading.City, "from-city", "", "loading city")
	f.StringVar(&p.Loading.Address, "from-address", "", "loading address")
	f.StringVar(&p.Unloading.City, "to-city", "", "unloading city")
	f.StringVar(&p.Unloading.Address, "to-address", "", "unloading address")
	f.StringVar(&p.DriverID, "driver", "", "driver ID")
	for _, name := range []string{"company", "nip", "amount", "term"} {
		_ = cmd.MarkFlagRequired(name)
	}
	return cmd
}

func newInvoiceListCommand(opts *rootOptions) *cobra.Command {
	var unpaidOnly, paidOnly bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List invoices, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			return withWorkspace(ctx, opts, func(ws *workspace) error {
				all, err := ws.invoices.List(ctx)
				if err != nil {
					return err
				}
				unpaid, paid := metrics.Partition(all)
				switch {
				case unpaidOnly:
					all = unpaid
				case paidOnly:
					all = paid
				}
				if len(all) == 0 {
					fmt.Fprintln(cmd.OutOrStdout(), "Brak faktur")
					return nil
				}

				t := newTable(cmd.OutOrStdout(), "ID", "DATA", "FIRMA", "NIP", "KWOTA", "TERMIN", "STATUS")
				for _, inv := range all {
					t.row(inv.ID, format.Date(inv.IssueDate), format.CompanyName(inv.CompanyName),
						format.NIP(inv.NIP), format.Currency(inv.Amount), format.Date(inv.Deadline), inv.Status())
				}
				return t.flush()
			})
		},
	}
	cmd.Flags().BoolVar(&unpaidOnly, "unpaid", false, "only unpaid invoices")
	cmd.Flags().BoolVar(&paidOnly, "paid", false, "only paid invoices")
	cmd.MarkFlagsMutuallyExclusive("unpaid", "paid")
	return cmd
}

func newInvoicePayCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "pay <id>",
		Short: "Mark an invoice as paid",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			return withWorkspace(ctx, opts, func(ws *workspace) error {
				inv, err := ws.invoices.MarkPaid(ctx, args[0])
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Faktura %s opłacona %s\n",
					inv.ID, lo.Ternary(inv.PaidOnTime, "w terminie", "po terminie"))
				return ws.record(ctx, "invoice", "pay",
					fmt.Sprintf("Mark invoice for %s as paid", inv.CompanyName), inv.ID)
			})
		},
	}
}

func newInvoiceEditCommand(opts *rootOptions) *cobra.Command {
	var v struct {
		company, nip, amount, issueDate, term, description, phone, distance, driver string
	}

	cmd := &cobra.Command{
		Use:   "edit <id>",
		Short: "Edit an invoice",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f := cmd.Flags()
			changed := func(name string, val *string) *string {
				if f.Changed(name) {
					return val
				}
				return nil
			}
			p := invoices.EditParams{
				CompanyName:  changed("company", &v.company),
				NIP:          changed("nip", &v.nip),
				Amount:       changed("amount", &v.amount),
				IssueDate:    changed("issue-date", &v.issueDate),
				PaymentTerm:  changed("term", &v.term),
				Description:  changed("description", &v.description),
				ContactPhone: changed("phone", &v.phone),
				Distance:     changed("distance", &v.distance),
				DriverID:     changed("driver", &v.driver),
			}

			ctx := cmd.Context()
			return withWorkspace(ctx, opts, func(ws *workspace) error {
				inv, err := ws.invoices.Edit(ctx, args[0], p)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Zaktualizowano fakturę %s (termin %s)\n", inv.ID, format.Date(inv.Deadline))
				return ws.record(ctx, "invoice", "edit",
					fmt.Sprintf("Edit invoice for %s", inv.CompanyName), inv.ID)
			})
		},
	}

	f := cmd.Flags()
	f.StringVar(&v.company, "company", "", "company name")
	f.StringVar(&v.nip, "nip", "", "company tax ID")
	f.StringVar(&v.amount, "amount", "", "amount in PLN")
	f.StringVar(&v.issueDate, "issue-date", "", "issue date YYYY-MM-DD")
	f.StringVar(&v.term, "term", "", "payment term in days")
	f.StringVar(&v.description, "description", "", "description")
	f.StringVar(&v.phone, "phone", "", "contact phone")
	f.StringVar(&v.distance, "distance", "", "route distance in km")
	f.StringVar(&v.driver, "driver", "", "driver ID")
	return cmd
}

func newInvoiceDeleteCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete an invoice",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			return withWorkspace(ctx, opts, func(ws *workspace) error {
				inv, err := ws.invoices.Get(ctx, args[0])
				if err != nil {
					return err
				}
				if err := ws.invoices.Delete(ctx, inv.ID); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Usunięto fakturę %s\n", inv.ID)
				return ws.record(ctx, "invoice", "delete",
					fmt.Sprintf("Delete invoice for %s", inv.CompanyName), inv.ID)
			})
		},
	}
}

func newInvoiceShowCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "show <id>",
		Short: "Show invoice details",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			return withWorkspace(ctx, opts, func(ws *workspace) error {
				inv, err := ws.invoices.Get(ctx, args[0])
				if err != nil {
					return err
				}
				return printInvoice(cmd, inv)
			})
		},
	}
}

func printInvoice(cmd *cobra.Command, inv model.Invoice) error {
	t := newTable(cmd.OutOrStdout(), "POLE", "WARTOŚĆ")
	t.row("ID", inv.ID)
	t.row("Firma", inv.CompanyName)
	t.row("NIP", format.NIP(inv.NIP))
	t.row("Kwota", format.Currency(inv.Amount))
	t.row("Data wystawienia", format.DateLong(inv.IssueDate))
	t.row("Termin płatności", fmt.Sprintf("%s (%d dni)", format.Date(inv.Deadline), inv.PaymentTerm))
	t.row("Status", inv.Status())
	if inv.IsPaid {
		t.row("Data opłacenia", format.DateTime(inv.PaidAt))
		t.row("Terminowa", lo.Ternary(inv.PaidOnTime, "Tak", "Nie"))
	}
	t.row("Opis", orDash(inv.Description))
	t.row("Telefon", orDash(format.Phone(inv.ContactPhone)))
	if inv.Loading.City != "" || inv.Unloading.City != "" {
		t.row("Trasa", orDash(inv.Loading.City)+" → "+orDash(inv.Unloading.City))
	}
	if inv.CalculatedDistance > 0 {
		t.row("Dystans", format.Distance(inv.CalculatedDistance))
	}
	t.row("Kierowca", orDash(inv.DriverID))
	return t.flush()
}
