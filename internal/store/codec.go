package store

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/faktury-dev/faktury/internal/model"
)

const (
	invColID = iota
	invColCompanyName
	invColNIP
	invColAmount
	invColDeadline
	invColPaymentTerm
	invColIssueDate
	invColDescription
	invColCreatedAt
	invColIsPaid
	invColPaidAt
	invColPaidOnTime
	invColContactPhone
	invColLoadingCity
	invColLoadingAddress
	invColUnloadingCity
	invColUnloadingAddress
	invColDistance
	invColDriverID
	invNumFields
)

var invoiceCodec = codec[model.Invoice]{
	header: []string{
		"id", "company_name", "nip", "amount", "deadline", "payment_term", "issue_date",
		"description", "created_at", "is_paid", "paid_at", "paid_on_time", "contact_phone",
		"loading_city", "loading_address", "unloading_city", "unloading_address",
		"calculated_distance", "driver_id",
	},
	marshal: func(inv model.Invoice) []string {
		row := make([]string, invNumFields)
		row[invColID] = inv.ID
		row[invColCompanyName] = inv.CompanyName
		row[invColNIP] = inv.NIP
		row[invColAmount] = inv.Amount.StringFixed(2)
		row[invColDeadline] = inv.Deadline
		row[invColPaymentTerm] = strconv.Itoa(inv.PaymentTerm)
		row[invColIssueDate] = inv.IssueDate
		row[invColDescription] = inv.Description
		row[invColCreatedAt] = inv.CreatedAt
		row[invColIsPaid] = strconv.FormatBool(inv.IsPaid)
		row[invColPaidAt] = inv.PaidAt
		row[invColPaidOnTime] = strconv.FormatBool(inv.PaidOnTime)
		row[invColContactPhone] = inv.ContactPhone
		row[invColLoadingCity] = inv.Loading.City
		row[invColLoadingAddress] = inv.Loading.Address
		row[invColUnloadingCity] = inv.Unloading.City
		row[invColUnloadingAddress] = inv.Unloading.Address
		row[invColDistance] = formatFloat(inv.CalculatedDistance)
		row[invColDriverID] = inv.DriverID
		return row
	},
	unmarshal: func(rec []string) (model.Invoice, error) {
		var p fieldParser
		inv := model.Invoice{
			ID:           rec[invColID],
			CompanyName:  rec[invColCompanyName],
			NIP:          rec[invColNIP],
			Amount:       p.decimalField("amount", rec[invColAmount]),
			Deadline:     rec[invColDeadline],
			PaymentTerm:  p.intField("payment_term", rec[invColPaymentTerm]),
			IssueDate:    rec[invColIssueDate],
			Description:  rec[invColDescription],
			CreatedAt:    rec[invColCreatedAt],
			IsPaid:       p.boolField("is_paid", rec[invColIsPaid]),
			PaidAt:       rec[invColPaidAt],
			PaidOnTime:   p.boolField("paid_on_time", rec[invColPaidOnTime]),
			ContactPhone: rec[invColContactPhone],
			Loading: model.Location{
				City:    rec[invColLoadingCity],
				Address: rec[invColLoadingAddress],
			},
			Unloading: model.Location{
				City:    rec[invColUnloadingCity],
				Address: rec[invColUnloadingAddress],
			},
			CalculatedDistance: p.floatField("calculated_distance", rec[invColDistance]),
			DriverID:           rec[invColDriverID],
		}
		return inv, p.err
	},
}

const (
	drvColID = iota
	drvColName
	drvColPhone
	drvColEmail
	drvColRegistration
	drvColCarBrand
	drvColCarColor
	drvColDailyCost
	drvNumFields
)

var driverCodec = codec[model.Driver]{
	header: []string{"id", "name", "phone", "email", "registration_number", "car_brand", "car_color", "daily_cost"},
	marshal: func(d model.Driver) []string {
		row := make([]string, drvNumFields)
		row[drvColID] = d.ID
		row[drvColName] = d.Name
		row[drvColPhone] = d.Phone
		row[drvColEmail] = d.Email
		row[drvColRegistration] = d.RegistrationNumber
		row[drvColCarBrand] = d.CarBrand
		row[drvColCarColor] = d.CarColor
		row[drvColDailyCost] = d.DailyCost.StringFixed(2)
		return row
	},
	unmarshal: func(rec []string) (model.Driver, error) {
		var p fieldParser
		d := model.Driver{
			ID:                 rec[drvColID],
			Name:               rec[drvColName],
			Phone:              rec[drvColPhone],
			Email:              rec[drvColEmail],
			RegistrationNumber: rec[drvColRegistration],
			CarBrand:           rec[drvColCarBrand],
			CarColor:           rec[drvColCarColor],
			DailyCost:          p.decimalField("daily_cost", rec[drvColDailyCost]),
		}
		return d, p.err
	},
}

const (
	fuelColID = iota
	fuelColDate
	fuelColAmount
	fuelColLiters
	fuelColStation
	fuelColDriverID
	fuelColVehicleID
	fuelColNotes
	fuelColCreatedAt
	fuelNumFields
)

var fuelCodec = codec[model.FuelEntry]{
	header: []string{"id", "date", "amount", "liters", "station", "driver_id", "vehicle_id", "notes", "created_at"},
	marshal: func(f model.FuelEntry) []string {
		row := make([]string, fuelNumFields)
		row[fuelColID] = f.ID
		row[fuelColDate] = f.Date
		row[fuelColAmount] = f.Amount.StringFixed(2)
		row[fuelColLiters] = formatFloat(f.Liters)
		row[fuelColStation] = f.Station
		row[fuelColDriverID] = f.DriverID
		row[fuelColVehicleID] = f.VehicleID
		row[fuelColNotes] = f.Notes
		row[fuelColCreatedAt] = f.CreatedAt
		return row
	},
	unmarshal: func(rec []string) (model.FuelEntry, error) {
		var p fieldParser
		f := model.FuelEntry{
			ID:        rec[fuelColID],
			Date:      rec[fuelColDate],
			Amount:    p.decimalField("amount", rec[fuelColAmount]),
			Liters:    p.floatField("liters", rec[fuelColLiters]),
			Station:   rec[fuelColStation],
			DriverID:  rec[fuelColDriverID],
			VehicleID: rec[fuelColVehicleID],
			Notes:     rec[fuelColNotes],
			CreatedAt: rec[fuelColCreatedAt],
		}
		return f, p.err
	},
}

const (
	vehColID = iota
	vehColBrand
	vehColModel
	vehColYear
	vehColColor
	vehColEngineType
	vehColConsumption
	vehColOdometer
	vehColDriverName
	vehColDriverPhone
	vehNumFields
)

var vehicleCodec = codec[model.Vehicle]{
	header: []string{
		"id", "brand", "model", "year", "color", "engine_type",
		"expected_fuel_consumption", "initial_odometer_reading", "driver_name", "driver_phone",
	},
	marshal: func(v model.Vehicle) []string {
		row := make([]string, vehNumFields)
		row[vehColID] = v.ID
		row[vehColBrand] = v.Brand
		row[vehColModel] = v.Model
		row[vehColYear] = strconv.Itoa(v.Year)
		row[vehColColor] = v.Color
		row[vehColEngineType] = v.EngineType
		row[vehColConsumption] = formatFloat(v.ExpectedFuelConsumption)
		row[vehColOdometer] = strconv.Itoa(v.InitialOdometer)
		row[vehColDriverName] = v.DriverName
		row[vehColDriverPhone] = v.DriverPhone
		return row
	},
	unmarshal: func(rec []string) (model.Vehicle, error) {
		var p fieldParser
		v := model.Vehicle{
			ID:                      rec[vehColID],
			Brand:                   rec[vehColBrand],
			Model:                   rec[vehColModel],
			Year:                    p.intField("year", rec[vehColYear]),
			Color:                   rec[vehColColor],
			EngineType:              rec[vehColEngineType],
			ExpectedFuelConsumption: p.floatField("expected_fuel_consumption", rec[vehColConsumption]),
			InitialOdometer:         p.intField("initial_odometer_reading", rec[vehColOdometer]),
			DriverName:              rec[vehColDriverName],
			DriverPhone:             rec[vehColDriverPhone],
		}
		return v, p.err
	},
}

const (
	coColNIP = iota
	coColName
	coColScore
	coColInvoices
	coNumFields
)

var companyCodec = codec[model.Company]{
	header: []string{"nip", "name", "score", "invoices"},
	marshal: func(c model.Company) []string {
		row := make([]string, coNumFields)
		row[coColNIP] = c.NIP
		row[coColName] = c.Name
		row[coColScore] = strconv.Itoa(c.Score)
		row[coColInvoices] = strings.Join(c.InvoiceIDs, ";")
		return row
	},
	unmarshal: func(rec []string) (model.Company, error) {
		var p fieldParser
		c := model.Company{
			NIP:   rec[coColNIP],
			Name:  rec[coColName],
			Score: p.intField("score", rec[coColScore]),
		}
		if rec[coColInvoices] != "" {
			c.InvoiceIDs = strings.Split(rec[coColInvoices], ";")
		}
		return c, p.err
	},
}

// fieldParser keeps the first conversion error so a row can be decoded in
// one struct literal.
type fieldParser struct {
	err error
}

func (p *fieldParser) fail(field, value string, err error) {
	if p.err == nil {
		p.err = fmt.Errorf("parsing %s %q: %w", field, value, err)
	}
}

func (p *fieldParser) decimalField(field, s string) decimal.Decimal {
	if s == "" {
		return decimal.Zero
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		p.fail(field, s, err)
	}
	return d
}

func (p *fieldParser) intField(field, s string) int {
	if s == "" {
		return 0
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		p.fail(field, s, err)
	}
	return n
}

func (p *fieldParser) floatField(field, s string) float64 {
	if s == "" {
		return 0
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		p.fail(field, s, err)
	}
	return f
}

func (p *fieldParser) boolField(field, s string) bool {
	if s == "" {
		return false
	}
	b, err := strconv.ParseBool(s)
	if err != nil {
		p.fail(field, s, err)
	}
	return b
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}
