package commands

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/faktury-dev/faktury/internal/importer"
)

func newImportCommand(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "import",
		Short: "Import records from CSV files",
	}
	cmd.AddCommand(newImportFuelCommand(opts))
	return cmd
}

func newImportFuelCommand(opts *rootOptions) *cobra.Command {
	var keep bool

	cmd := &cobra.Command{
		Use:   "fuel",
		Short: "Import fuel purchases from CSV files in import/",
		Long: "Reads every CSV file in the workspace import/ directory using the fuel export layout.\n" +
			"Entries whose ID already exists are skipped. Imported files are moved to import/processed/.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			return withWorkspace(ctx, opts, func(ws *workspace) error {
				files, err := importer.Scan(ws.root)
				if err != nil {
					return err
				}
				out := cmd.OutOrStdout()
				if len(files) == 0 {
					fmt.Fprintln(out, "Brak plików do importu")
					return nil
				}

				parser := importer.DefaultRegistry().Get("fuel")
				if p, ok := parser.(*importer.FuelParser); ok {
					p.Now = ws.now
				}

				var totalAdded, totalSkipped, imported int
				recordImport := func() error {
					return ws.record(ctx, "import", "fuel",
						fmt.Sprintf("Import %d fuel entries from %d files (%d skipped)", totalAdded, imported, totalSkipped), "")
				}
				for _, file := range files {
					added, skipped, err := importFuelFile(ctx, ws, parser, file, keep)
					totalAdded += added
					totalSkipped += skipped
					if err != nil {
						if imported > 0 || totalAdded > 0 {
							if rerr := recordImport(); rerr != nil {
								ws.log.Error().Err(rerr).Msg("recording partial import")
							}
						}
						return err
					}
					imported++
					ws.log.Info().Str("file", file.Name).Int("added", added).Int("skipped", skipped).Msg("fuel file imported")
					fmt.Fprintf(out, "%s: dodano %d, pominięto %d\n", file.Name, added, skipped)
				}

				return recordImport()
			})
		},
	}
	cmd.Flags().BoolVar(&keep, "keep", false, "leave imported files in import/")
	return cmd
}

// importFuelFile imports one file. Entries stored before an error stay
// stored and are counted in added; the file is moved only on success.
func importFuelFile(ctx context.Context, ws *workspace, parser importer.Parser, file importer.FileInfo, keep bool) (added, skipped int, err error) {
	f, err := os.Open(file.Path)
	if err != nil {
		return 0, 0, fmt.Errorf("opening %s: %w", file.Name, err)
	}
	entries, err := parser.Parse(f)
	f.Close()
	if err != nil {
		return 0, 0, fmt.Errorf("%s: %w", file.Name, err)
	}

	added, skipped, err = ws.fleet.ImportFuel(ctx, entries)
	if err != nil {
		return added, skipped, fmt.Errorf("%s: %w", file.Name, err)
	}
	if !keep {
		if err := importer.MarkProcessed(ws.root, file.Name); err != nil {
			return added, skipped, err
		}
	}
	return added, skipped, nil
}
