// Package export writes invoices, fuel entries and drivers to CSV files and
// renders the invoice PDF report.
package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/samber/lo"

	"github.com/faktury-dev/faktury/internal/model"
)

// Dir is the workspace directory receiving exported files.
const Dir = "exports"

// File name prefixes per export kind.
const (
	PrefixInvoices = "faktury"
	PrefixFuel     = "tankowania"
	PrefixDrivers  = "kierowcy"
)

// Column headers of the exported CSV files.
var (
	InvoiceHeader = []string{
		"ID", "Data wystawienia", "Firma", "NIP", "Kwota",
		"Termin płatności", "Termin (dni)", "Opis", "Status",
		"Data opłacenia", "Terminowa", "Telefon", "Dystans",
	}
	FuelHeader = []string{
		"ID", "Data", "Kwota", "Litry", "Stacja",
		"Kierowca ID", "Pojazd ID", "Notatki",
	}
	DriverHeader = []string{
		"ID", "Imię i nazwisko", "Telefon", "Email",
		"Nr rejestracyjny", "Marka pojazdu", "Kolor", "Koszt dzienny",
	}
)

// FileName returns e.g. "faktury_20240315_103000.csv".
func FileName(prefix string, now time.Time, ext string) string {
	return fmt.Sprintf("%s_%s.%s", prefix, now.Format("20060102_150405"), ext)
}

// WriteFile creates <root>/exports/name and fills it with write. Returns
// the file path.
func WriteFile(root, name string, write func(io.Writer) error) (string, error) {
	dir := filepath.Join(root, Dir)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("creating exports dir: %w", err)
	}

	path := filepath.Join(dir, name)
	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("creating %s: %w", name, err)
	}
	if err := write(f); err != nil {
		f.Close()
		return "", fmt.Errorf("writing %s: %w", name, err)
	}
	if err := f.Close(); err != nil {
		return "", fmt.Errorf("closing %s: %w", name, err)
	}
	return path, nil
}

// InvoicesCSV writes invoices in the invoice export layout.
func InvoicesCSV(w io.Writer, invoices []model.Invoice) error {
	return writeCSV(w, InvoiceHeader, lo.Map(invoices, func(inv model.Invoice, _ int) []string {
		return []string{
			inv.ID,
			isoDate(inv.IssueDate),
			inv.CompanyName,
			inv.NIP,
			inv.Amount.StringFixed(2),
			isoDate(inv.Deadline),
			strconv.Itoa(inv.PaymentTerm),
			inv.Description,
			inv.Status(),
			isoDate(inv.PaidAt),
			lo.Ternary(inv.PaidOnTime, "Tak", "Nie"),
			inv.ContactPhone,
			lo.Ternary(inv.CalculatedDistance > 0, strconv.FormatFloat(inv.CalculatedDistance, 'f', -1, 64), ""),
		}
	}))
}

// FuelCSV writes fuel entries in the fuel export layout, which the fuel
// importer reads back.
func FuelCSV(w io.Writer, fuel []model.FuelEntry) error {
	return writeCSV(w, FuelHeader, lo.Map(fuel, func(f model.FuelEntry, _ int) []string {
		return []string{
			f.ID,
			isoDate(f.Date),
			f.Amount.StringFixed(2),
			strconv.FormatFloat(f.Liters, 'f', -1, 64),
			f.Station,
			f.DriverID,
			f.VehicleID,
			f.Notes,
		}
	}))
}

// DriversCSV writes drivers in the driver export layout.
func DriversCSV(w io.Writer, drivers []model.Driver) error {
	return writeCSV(w, DriverHeader, lo.Map(drivers, func(d model.Driver, _ int) []string {
		return []string{
			d.ID,
			d.Name,
			d.Phone,
			d.Email,
			d.RegistrationNumber,
			d.CarBrand,
			d.CarColor,
			d.DailyCost.StringFixed(2),
		}
	}))
}

func writeCSV(w io.Writer, header []string, rows [][]string) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}
	for i, row := range rows {
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("writing row %d: %w", i+2, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// isoDate trims a stored timestamp to YYYY-MM-DD, or "" if it does not parse.
func isoDate(s string) string {
	t, ok := model.ParseTimestamp(s, time.Local)
	if !ok {
		return ""
	}
	return t.Format(model.DateLayout)
}
