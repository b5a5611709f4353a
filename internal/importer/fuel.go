package importer

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/faktury-dev/faktury/internal/id"
	"github.com/faktury-dev/faktury/internal/model"
	"github.com/faktury-dev/faktury/internal/validate"
)

// FuelParser reads the fuel export layout:
//
//	ID,Data,Kwota,Litry,Stacja,Kierowca ID,Pojazd ID,Notatki
//
// Columns are matched by header name, so their order may differ. Only Data,
// Kwota and Litry are required. Rows without an ID get a fresh one.
type FuelParser struct {
	// Now is the reference time for date range checks. Defaults to time.Now.
	Now func() time.Time
}

const (
	fuelColID      = "id"
	fuelColDate    = "data"
	fuelColAmount  = "kwota"
	fuelColLiters  = "litry"
	fuelColStation = "stacja"
	fuelColDriver  = "kierowca id"
	fuelColVehicle = "pojazd id"
	fuelColNotes   = "notatki"
)

// Dates are accepted as ISO or in the Polish dotted form.
var fuelDateLayouts = []string{model.DateLayout, "02.01.2006"}

// Format returns the parser name.
func (p *FuelParser) Format() string { return "fuel" }

// Parse reads a fuel CSV. The first invalid row aborts the parse with an
// error naming the row number.
func (p *FuelParser) Parse(r io.Reader) ([]model.FuelEntry, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading fuel CSV: %w", err)
	}
	if len(records) == 0 {
		return nil, nil
	}

	cols := headerIndex(records[0])
	for _, req := range []string{fuelColDate, fuelColAmount, fuelColLiters} {
		if _, ok := cols[req]; !ok {
			return nil, fmt.Errorf("missing column %q", req)
		}
	}

	now := time.Now()
	if p.Now != nil {
		now = p.Now()
	}

	var entries []model.FuelEntry
	for i, rec := range records[1:] {
		if blankRow(rec) {
			continue
		}
		entry, err := parseFuelRow(rowGetter(cols, rec), now)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+2, err)
		}
		entries = append(entries, entry)
	}
	return entries, nil
}

func parseFuelRow(get func(string) string, now time.Time) (model.FuelEntry, error) {
	var errs validate.FieldErrors

	entryID := get(fuelColID)
	switch {
	case entryID == "":
		entryID = id.New(id.PrefixFuel)
	case !id.Valid(entryID, id.PrefixFuel):
		errs = append(errs, validate.FieldError{Field: "id", Kind: validate.KindFormat, Message: "Nieprawidłowy identyfikator"})
	}

	date := validate.Check(&errs, "date", fuelDate(get(fuelColDate), now))
	amount := validate.Check(&errs, "amount", validate.Amount(get(fuelColAmount)))
	liters := validate.Check(&errs, "liters", validate.Liters(get(fuelColLiters)))

	if err := errs.Err(); err != nil {
		return model.FuelEntry{}, err
	}

	return model.FuelEntry{
		ID:        entryID,
		Date:      date.Format(model.DateLayout),
		Amount:    amount,
		Liters:    liters,
		Station:   get(fuelColStation),
		DriverID:  get(fuelColDriver),
		VehicleID: get(fuelColVehicle),
		Notes:     get(fuelColNotes),
		CreatedAt: model.FormatTimestamp(now),
	}, nil
}

// fuelDate tries each accepted layout and reports the ISO layout's error
// when none match.
func fuelDate(raw string, now time.Time) validate.Result[time.Time] {
	var first validate.Result[time.Time]
	for i, layout := range fuelDateLayouts {
		r := validate.DateAt(raw, layout, now)
		if r.OK() {
			return r
		}
		if i == 0 {
			first = r
		}
		// A date that parsed but is out of range will not improve with
		// another layout.
		if r.Err.Kind == validate.KindOutOfRange {
			return r
		}
	}
	return first
}

func headerIndex(header []string) map[string]int {
	cols := make(map[string]int, len(header))
	for i, h := range header {
		key := strings.ToLower(strings.TrimSpace(strings.TrimPrefix(h, "\ufeff")))
		cols[key] = i
	}
	return cols
}

func rowGetter(cols map[string]int, rec []string) func(string) string {
	return func(name string) string {
		i, ok := cols[name]
		if !ok || i >= len(rec) {
			return ""
		}
		return strings.TrimSpace(rec[i])
	}
}

func blankRow(rec []string) bool {
	for _, v := range rec {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}
