package commands

import (
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"github.com/faktury-dev/faktury/internal/buildinfo"
)

// rootOptions carries flags and dependencies shared by all subcommands.
type rootOptions struct {
	repo   string
	now    func() time.Time
	logOut io.Writer
}

// NewRootCommand creates the root CLI command with all subcommands registered.
func NewRootCommand() *cobra.Command {
	return newRootCommand(time.Now)
}

func newRootCommand(now func() time.Time) *cobra.Command {
	opts := &rootOptions{now: now}

	rootCmd := &cobra.Command{
		Use:     "faktury",
		Short:   "Invoice, fuel and fleet tracking for small transport businesses",
		Version: fmt.Sprintf("%s (commit: %s, built: %s)", buildinfo.Version, buildinfo.Commit, buildinfo.Date),
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, _ []string) {
			opts.logOut = cmd.ErrOrStderr()
		},
	}
	rootCmd.PersistentFlags().StringVar(&opts.repo, "repo", ".", "workspace directory")

	rootCmd.AddCommand(
		newInitCommand(opts),
		newInvoiceCommand(opts),
		newDriverCommand(opts),
		newVehicleCommand(opts),
		newFuelCommand(opts),
		newCompanyCommand(opts),
		newSummaryCommand(opts),
		newNotifyCommand(opts),
		newExportCommand(opts),
		newImportCommand(opts),
		newLogCommand(opts),
	)

	return rootCmd
}
