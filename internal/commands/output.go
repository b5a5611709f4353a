package commands

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/faktury-dev/faktury/internal/metrics"
)

// table writes tab-aligned rows.
type table struct {
	tw *tabwriter.Writer
}

func newTable(w io.Writer, header ...string) *table {
	t := &table{tw: tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)}
	t.row(header...)
	return t
}

func (t *table) row(cells ...string) {
	fmt.Fprintln(t.tw, strings.Join(cells, "\t"))
}

func (t *table) flush() error {
	return t.tw.Flush()
}

// orDash returns "-" for blank values.
func orDash(s string) string {
	if strings.TrimSpace(s) == "" {
		return "-"
	}
	return s
}

var toneMarks = map[metrics.Tone]string{
	metrics.ToneSuccess: "✓",
	metrics.ToneWarning: "!",
	metrics.ToneError:   "✗",
}

// withTone suffixes value with the mark for tone.
func withTone(value string, tone metrics.Tone) string {
	return value + " " + toneMarks[tone]
}

func printBanner(w io.Writer, b metrics.Banner) {
	if b.Empty() {
		return
	}
	fmt.Fprintln(w, b.Title)
	for _, line := range b.Lines() {
		fmt.Fprintln(w, "  "+line)
	}
	fmt.Fprintln(w)
}
