package export

import (
	"fmt"
	"slices"
	"time"

	maroto "github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/line"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"

	"github.com/faktury-dev/faktury/internal/format"
	"github.com/faktury-dev/faktury/internal/invoices"
	"github.com/faktury-dev/faktury/internal/metrics"
	"github.com/faktury-dev/faktury/internal/model"
)

// ReportTitle heads the invoice PDF.
const ReportTitle = "Faktury 2.0 - Raport Faktur"

var (
	colorPrimary = &props.Color{Red: 30, Green: 64, Blue: 175}
	colorGray    = &props.Color{Red: 107, Green: 114, Blue: 128}
	colorWhite   = &props.Color{Red: 255, Green: 255, Blue: 255}
	colorStripe  = &props.Color{Red: 249, Green: 250, Blue: 251}
)

// InvoicesPDF renders the invoice report: a summary table followed by all
// invoices, newest first.
func InvoicesPDF(invs []model.Invoice, businessName string, now time.Time) ([]byte, error) {
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(15).WithRightMargin(15).
		WithTopMargin(15).WithBottomMargin(15).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle(ReportTitle, true).
		WithAuthor(businessName, true).
		Build()

	m := maroto.New(cfg)

	m.AddRows(titleRows(businessName, now)...)
	m.AddRows(line.NewRow(4, props.Line{Color: colorPrimary, Thickness: 0.5}))
	m.AddRows(summaryRows(invs)...)
	m.AddRows(line.NewRow(6))
	m.AddRows(sectionRow("Lista Faktur"))
	m.AddRows(listHeaderRow())
	m.AddRows(listRows(invs)...)

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generating document: %w", err)
	}
	return doc.GetBytes(), nil
}

func titleRows(businessName string, now time.Time) []core.Row {
	rows := []core.Row{
		row.New(12).Add(col.New(12).Add(text.New(ReportTitle, props.Text{
			Style: fontstyle.Bold, Size: 18, Align: align.Center, Color: colorPrimary,
		}))),
	}
	if businessName != "" {
		rows = append(rows, row.New(6).Add(col.New(12).Add(text.New(businessName, props.Text{
			Size: 11, Align: align.Center, Color: colorGray,
		}))))
	}
	rows = append(rows, row.New(6).Add(col.New(12).Add(text.New("Wygenerowano: "+now.Format("02.01.2006 15:04"), props.Text{
		Size: 9, Align: align.Center, Color: colorGray,
	}))))
	return rows
}

func sectionRow(title string) core.Row {
	return row.New(9).Add(col.New(12).Add(text.New(title, props.Text{
		Style: fontstyle.Bold, Size: 13, Top: 1,
	})))
}

func summaryRows(invs []model.Invoice) []core.Row {
	unpaid, paid := metrics.Partition(invs)
	pairs := [][2]string{
		{"Liczba faktur", fmt.Sprint(len(invs))},
		{"Opłacone", format.Currency(metrics.Total(paid))},
		{"Nieopłacone", format.Currency(metrics.Total(unpaid))},
		{"Razem", format.Currency(metrics.Total(invs))},
	}

	rows := []core.Row{
		sectionRow("Podsumowanie"),
		row.New(7).Add(
			headerCol(6, "Metryka"),
			headerCol(6, "Wartość"),
		),
	}
	for _, p := range pairs {
		rows = append(rows, row.New(6).Add(
			col.New(6).Add(text.New(p[0], props.Text{Align: align.Center, Top: 1})),
			col.New(6).Add(text.New(p[1], props.Text{Align: align.Center, Top: 1})),
		))
	}
	return rows
}

var listWidths = []int{2, 3, 2, 2, 2, 1}

func listHeaderRow() core.Row {
	titles := []string{"Data", "Firma", "NIP", "Kwota", "Termin", "Status"}
	cols := make([]core.Col, len(titles))
	for i, t := range titles {
		cols[i] = headerCol(listWidths[i], t)
	}
	return row.New(7).Add(cols...)
}

func listRows(invs []model.Invoice) []core.Row {
	sorted := slices.Clone(invs)
	invoices.SortNewestFirst(sorted)

	rows := make([]core.Row, 0, len(sorted))
	for i, inv := range sorted {
		cells := []string{
			pdfDate(inv.IssueDate),
			format.Truncate(inv.CompanyName, 20),
			inv.NIP,
			format.Amount(inv.Amount),
			pdfDate(inv.Deadline),
			inv.Status(),
		}
		cols := make([]core.Col, len(cells))
		for j, c := range cells {
			cols[j] = col.New(listWidths[j]).Add(text.New(c, props.Text{Size: 8, Align: align.Center, Top: 1}))
		}
		r := row.New(6).Add(cols...)
		if i%2 == 1 {
			r = r.WithStyle(&props.Cell{BackgroundColor: colorStripe})
		}
		rows = append(rows, r)
	}
	return rows
}

func headerCol(size int, title string) core.Col {
	return col.New(size).Add(text.New(title, props.Text{
		Style: fontstyle.Bold, Size: 10, Align: align.Center, Color: colorWhite, Top: 1.5,
	})).WithStyle(&props.Cell{BackgroundColor: colorPrimary})
}

func pdfDate(s string) string {
	t, ok := model.ParseTimestamp(s, time.Local)
	if !ok {
		return "N/A"
	}
	return t.Format("02.01.2006")
}
