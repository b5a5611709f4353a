package commands

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/faktury-dev/faktury/internal/format"
	"github.com/faktury-dev/faktury/internal/metrics"
)

func newCompanyCommand(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "company",
		Aliases: []string{"firma"},
		Short:   "Customer companies and their payment scores",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List companies, best payers first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			return withWorkspace(ctx, opts, func(ws *workspace) error {
				ranked, err := ws.companies.Ranked(ctx)
				if err != nil {
					return err
				}
				if len(ranked) == 0 {
					fmt.Fprintln(cmd.OutOrStdout(), "Brak firm")
					return nil
				}
				t := newTable(cmd.OutOrStdout(), "NIP", "FIRMA", "WYNIK", "POZIOM", "FAKTURY")
				for _, c := range ranked {
					t.row(format.NIP(c.NIP), format.CompanyName(c.Name), strconv.Itoa(c.Score),
						string(c.Level()), strconv.Itoa(len(c.InvoiceIDs)))
				}
				return t.flush()
			})
		},
	})
	return cmd
}

func newSummaryCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:     "summary",
		Aliases: []string{"podsumowanie"},
		Short:   "Show the financial summary",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			return withWorkspace(ctx, opts, func(ws *workspace) error {
				invs, fuel, err := ws.snapshot(ctx)
				if err != nil {
					return err
				}
				now := ws.now()
				out := cmd.OutOrStdout()

				notes := metrics.NotificationsWithin(invs, now, ws.cfg.Notifications.DueSoonDays)
				printBanner(out, metrics.NewBanner(notes, ws.cfg.Notifications.DisplayLimit))

				s := metrics.Summarize(invs, fuel, now)
				t := newTable(out, "PODSUMOWANIE", "")
				t.row("Nieopłacone", fmt.Sprintf("%s (%d)", format.Currency(s.UnpaidTotal), s.UnpaidCount))
				t.row("Opłacone", fmt.Sprintf("%s (%d)", format.Currency(s.PaidTotal), s.PaidCount))
				t.row("Paliwo w tym miesiącu", format.Currency(s.FuelThisMonth))
				t.row("Zysk", withTone(format.Currency(s.Profit), metrics.ProfitTone(s.Profit)))
				t.row("Średni czas płatności", metrics.DaysDisplay(s.AveragePaymentDays))
				t.row("Płatności w terminie", withTone(metrics.PercentDisplay(s.OnTimePercent), metrics.OnTimeTone(s.OnTimePercent)))
				if err := t.flush(); err != nil {
					return err
				}
				if s.Skipped > 0 {
					ws.log.Debug().Int("skipped", s.Skipped).Msg("records with unreadable dates left out of the summary")
				}
				return nil
			})
		},
	}
}

func newNotifyCommand(opts *rootOptions) *cobra.Command {
	var all bool
	var days int

	cmd := &cobra.Command{
		Use:   "notify",
		Short: "List overdue and soon-due invoices",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			return withWorkspace(ctx, opts, func(ws *workspace) error {
				invs, err := ws.invoices.List(ctx)
				if err != nil {
					return err
				}
				if !cmd.Flags().Changed("days") {
					days = ws.cfg.Notifications.DueSoonDays
				}
				notes := metrics.NotificationsWithin(invs, ws.now(), days)
				out := cmd.OutOrStdout()
				if len(notes) == 0 {
					fmt.Fprintln(out, "Brak powiadomień")
					return nil
				}

				limit := ws.cfg.Notifications.DisplayLimit
				if all {
					limit = len(notes)
				}
				printBanner(out, metrics.NewBanner(notes, limit))
				return nil
			})
		},
	}
	cmd.Flags().BoolVar(&all, "all", false, "show every notification")
	cmd.Flags().IntVar(&days, "days", metrics.DefaultDueSoonDays, "due-soon window in days")
	return cmd
}
