package model

import (
	"strconv"

	"github.com/shopspring/decimal"
)

// Driver is a person driving one of the company trucks.
type Driver struct {
	ID                 string          `json:"id" validate:"required"`
	Name               string          `json:"name" validate:"required"`
	Phone              string          `json:"phone" validate:"required"`
	Email              string          `json:"email,omitempty" validate:"omitempty,email"`
	RegistrationNumber string          `json:"registration_number,omitempty"`
	CarBrand           string          `json:"car_brand,omitempty"`
	CarColor           string          `json:"car_color,omitempty"`
	DailyCost          decimal.Decimal `json:"daily_cost"`
}

// Key returns the record identifier.
func (d Driver) Key() string { return d.ID }

// FuelEntry is one fuel purchase.
type FuelEntry struct {
	ID        string          `json:"id" validate:"required"`
	Date      string          `json:"date" validate:"required"`
	Amount    decimal.Decimal `json:"amount"`
	Liters    float64         `json:"liters" validate:"gt=0,lte=10000"`
	Station   string          `json:"station,omitempty"`
	DriverID  string          `json:"driver_id,omitempty"`
	VehicleID string          `json:"vehicle_id,omitempty"`
	Notes     string          `json:"notes,omitempty"`
	CreatedAt string          `json:"created_at,omitempty"`
}

// Key returns the record identifier.
func (f FuelEntry) Key() string { return f.ID }

// Vehicle is a truck in the fleet.
type Vehicle struct {
	ID                      string  `json:"id" validate:"required"`
	Brand                   string  `json:"brand" validate:"required"`
	Model                   string  `json:"model" validate:"required"`
	Year                    int     `json:"year" validate:"gte=1950,lte=2100"`
	Color                   string  `json:"color,omitempty"`
	EngineType              string  `json:"engine_type,omitempty"`
	ExpectedFuelConsumption float64 `json:"expected_fuel_consumption" validate:"gte=0"` // L/100km
	InitialOdometer         int     `json:"initial_odometer_reading" validate:"gte=0"`
	DriverName              string  `json:"driver_name,omitempty"`
	DriverPhone             string  `json:"driver_phone,omitempty"`
}

// Key returns the record identifier.
func (v Vehicle) Key() string { return v.ID }

// Label returns "Brand Model (Year)".
func (v Vehicle) Label() string {
	return v.Brand + " " + v.Model + " (" + strconv.Itoa(v.Year) + ")"
}
