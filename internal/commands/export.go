package commands

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/faktury-dev/faktury/internal/export"
)

func newExportCommand(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export records to the exports directory",
	}

	kinds := []struct {
		use, short, prefix, ext string
		write                   func(context.Context, *workspace, io.Writer) error
	}{
		{"invoices", "Export invoices to CSV", export.PrefixInvoices, "csv", func(ctx context.Context, ws *workspace, w io.Writer) error {
			invs, err := ws.invoices.List(ctx)
			if err != nil {
				return err
			}
			return export.InvoicesCSV(w, invs)
		}},
		{"fuel", "Export fuel purchases to CSV", export.PrefixFuel, "csv", func(ctx context.Context, ws *workspace, w io.Writer) error {
			fuel, err := ws.fleet.Fuel(ctx)
			if err != nil {
				return err
			}
			return export.FuelCSV(w, fuel)
		}},
		{"drivers", "Export drivers to CSV", export.PrefixDrivers, "csv", func(ctx context.Context, ws *workspace, w io.Writer) error {
			drivers, err := ws.fleet.Drivers(ctx)
			if err != nil {
				return err
			}
			return export.DriversCSV(w, drivers)
		}},
		{"pdf", "Render the invoice report as PDF", export.PrefixInvoices, "pdf", func(ctx context.Context, ws *workspace, w io.Writer) error {
			invs, err := ws.invoices.List(ctx)
			if err != nil {
				return err
			}
			data, err := export.InvoicesPDF(invs, ws.cfg.Business.Name, ws.now())
			if err != nil {
				return err
			}
			_, err = w.Write(data)
			return err
		}},
	}

	for _, k := range kinds {
		k := k
		cmd.AddCommand(&cobra.Command{
			Use:   k.use,
			Short: k.short,
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				ctx := cmd.Context()
				return withWorkspace(ctx, opts, func(ws *workspace) error {
					name := export.FileName(k.prefix, ws.now(), k.ext)
					path, err := export.WriteFile(ws.root, name, func(w io.Writer) error {
						return k.write(ctx, ws, w)
					})
					if err != nil {
						return fmt.Errorf("export %s: %w", k.use, err)
					}
					ws.log.Info().Str("path", path).Msg("export written")
					fmt.Fprintf(cmd.OutOrStdout(), "Zapisano %s\n", path)
					return nil
				})
			},
		})
	}
	return cmd
}
