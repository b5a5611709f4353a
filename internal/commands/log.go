package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/faktury-dev/faktury/internal/activity"
	"github.com/faktury-dev/faktury/internal/model"
)

func newLogCommand(opts *rootOptions) *cobra.Command {
	var n int

	cmd := &cobra.Command{
		Use:   "log",
		Short: "Show recent workspace activity",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			return withWorkspace(ctx, opts, func(ws *workspace) error {
				entries, err := activity.Tail(ws.root, n)
				if err != nil {
					return err
				}
				if len(entries) == 0 {
					fmt.Fprintln(cmd.OutOrStdout(), "Brak wpisów")
					return nil
				}
				t := newTable(cmd.OutOrStdout(), "CZAS", "POLECENIE", "AKCJA", "SZCZEGÓŁY", "ID")
				for _, e := range entries {
					t.row(e.Timestamp.Format(model.TimestampLayout), e.Command, e.Action, e.Details, orDash(e.RecordID))
				}
				return t.flush()
			})
		},
	}
	cmd.Flags().IntVarP(&n, "lines", "n", 20, "number of entries to show")
	return cmd
}
