// Package fleet manages drivers, vehicles and fuel purchases.
package fleet

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/faktury-dev/faktury/internal/id"
	"github.com/faktury-dev/faktury/internal/logger"
	"github.com/faktury-dev/faktury/internal/metrics"
	"github.com/faktury-dev/faktury/internal/model"
	"github.com/faktury-dev/faktury/internal/store"
	"github.com/faktury-dev/faktury/internal/validate"
)

// Service manages the fleet collections.
type Service struct {
	drivers  store.Collection[model.Driver]
	vehicles store.Collection[model.Vehicle]
	fuel     store.Collection[model.FuelEntry]
	now      func() time.Time
	log      zerolog.Logger
}

// NewService creates a Service over the fleet collections of st.
func NewService(st *store.Store) *Service {
	return &Service{
		drivers:  st.Drivers,
		vehicles: st.Vehicles,
		fuel:     st.Fuel,
		now:      time.Now,
		log:      logger.WithComponent("fleet"),
	}
}

// WithClock replaces the time source.
func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

// DriverParams holds raw form input for a driver.
type DriverParams struct {
	Name               string
	Phone              string
	Email              string
	RegistrationNumber string
	CarBrand           string
	CarColor           string
	DailyCost          string
}

// AddDriver validates and stores a driver.
func (s *Service) AddDriver(ctx context.Context, p DriverParams) (model.Driver, error) {
	var errs validate.FieldErrors
	d := model.Driver{
		ID:                 id.New(id.PrefixDriver),
		Name:               validate.Check(&errs, "name", validate.Required(p.Name, "Imię i nazwisko jest wymagane")),
		Phone:              validate.Check(&errs, "phone", validate.Phone(p.Phone)),
		Email:              validate.Check(&errs, "email", validate.Email(strings.TrimSpace(p.Email))),
		RegistrationNumber: validate.Check(&errs, "registration_number", validate.RegistrationNumber(strings.TrimSpace(p.RegistrationNumber))),
		CarBrand:           strings.TrimSpace(p.CarBrand),
		CarColor:           strings.TrimSpace(p.CarColor),
	}
	if strings.TrimSpace(p.DailyCost) != "" {
		d.DailyCost = validate.Check(&errs, "daily_cost", validate.Amount(p.DailyCost))
	}
	if err := errs.Err(); err != nil {
		return model.Driver{}, err
	}
	if err := validate.Record(d).Err(); err != nil {
		return model.Driver{}, err
	}

	if err := s.drivers.Put(ctx, d); err != nil {
		return model.Driver{}, fmt.Errorf("saving driver: %w", err)
	}
	s.log.Info().Str("id", d.ID).Msg("driver added")
	return d, nil
}

// Drivers returns all drivers sorted by name.
func (s *Service) Drivers(ctx context.Context) ([]model.Driver, error) {
	all, err := s.drivers.All(ctx)
	if err != nil {
		return nil, err
	}
	sort.SliceStable(all, func(i, j int) bool { return all[i].Name < all[j].Name })
	return all, nil
}

// DeleteDriver removes a driver.
func (s *Service) DeleteDriver(ctx context.Context, driverID string) error {
	if err := s.drivers.Delete(ctx, driverID); err != nil {
		return err
	}
	s.log.Info().Str("id", driverID).Msg("driver deleted")
	return nil
}

// VehicleParams holds raw form input for a vehicle.
type VehicleParams struct {
	Brand               string
	Model               string
	Year                string
	Color               string
	EngineType          string
	ExpectedConsumption string
	InitialOdometer     string
	DriverName          string
	DriverPhone         string
}

// AddVehicle validates and stores a vehicle.
func (s *Service) AddVehicle(ctx context.Context, p VehicleParams) (model.Vehicle, error) {
	var errs validate.FieldErrors
	v := model.Vehicle{
		ID:                      id.New(id.PrefixVehicle),
		Brand:                   validate.Check(&errs, "brand", validate.Required(p.Brand, "Marka jest wymagana")),
		Model:                   validate.Check(&errs, "model", validate.Required(p.Model, "Model jest wymagany")),
		Year:                    validate.Check(&errs, "year", validate.Year(p.Year, s.now())),
		Color:                   strings.TrimSpace(p.Color),
		EngineType:              strings.TrimSpace(p.EngineType),
		ExpectedFuelConsumption: validate.Check(&errs, "expected_fuel_consumption", validate.Consumption(p.ExpectedConsumption)),
		InitialOdometer:         validate.Check(&errs, "initial_odometer_reading", validate.Odometer(p.InitialOdometer)),
		DriverName:              strings.TrimSpace(p.DriverName),
	}
	if strings.TrimSpace(p.DriverPhone) != "" {
		v.DriverPhone = validate.Check(&errs, "driver_phone", validate.Phone(p.DriverPhone))
	}
	if err := errs.Err(); err != nil {
		return model.Vehicle{}, err
	}
	if err := validate.Record(v).Err(); err != nil {
		return model.Vehicle{}, err
	}

	if err := s.vehicles.Put(ctx, v); err != nil {
		return model.Vehicle{}, fmt.Errorf("saving vehicle: %w", err)
	}
	s.log.Info().Str("id", v.ID).Str("vehicle", v.Label()).Msg("vehicle added")
	return v, nil
}

// Vehicles returns all vehicles in insertion order.
func (s *Service) Vehicles(ctx context.Context) ([]model.Vehicle, error) {
	return s.vehicles.All(ctx)
}

// DeleteVehicle removes a vehicle.
func (s *Service) DeleteVehicle(ctx context.Context, vehicleID string) error {
	if err := s.vehicles.Delete(ctx, vehicleID); err != nil {
		return err
	}
	s.log.Info().Str("id", vehicleID).Msg("vehicle deleted")
	return nil
}

// FuelParams holds raw form input for a fuel purchase. Empty Date means
// today.
type FuelParams struct {
	Date      string
	Amount    string
	Liters    string
	Station   string
	DriverID  string
	VehicleID string
	Notes     string
}

// AddFuel validates and stores a fuel entry. Driver and vehicle references
// must exist when given.
func (s *Service) AddFuel(ctx context.Context, p FuelParams) (model.FuelEntry, error) {
	now := s.now()

	var errs validate.FieldErrors
	date := now
	if strings.TrimSpace(p.Date) != "" {
		date = validate.Check(&errs, "date", validate.DateAt(strings.TrimSpace(p.Date), "", now))
	}
	f := model.FuelEntry{
		ID:        id.New(id.PrefixFuel),
		Date:      date.Format(model.DateLayout),
		Amount:    validate.Check(&errs, "amount", validate.Amount(p.Amount)),
		Liters:    validate.Check(&errs, "liters", validate.Liters(p.Liters)),
		Station:   strings.TrimSpace(p.Station),
		DriverID:  strings.TrimSpace(p.DriverID),
		VehicleID: strings.TrimSpace(p.VehicleID),
		Notes:     strings.TrimSpace(p.Notes),
		CreatedAt: model.FormatTimestamp(now),
	}
	if err := s.checkRefs(ctx, &errs, f); err != nil {
		return model.FuelEntry{}, err
	}
	if err := errs.Err(); err != nil {
		return model.FuelEntry{}, err
	}
	if err := validate.Record(f).Err(); err != nil {
		return model.FuelEntry{}, err
	}

	if err := s.fuel.Put(ctx, f); err != nil {
		return model.FuelEntry{}, fmt.Errorf("saving fuel entry: %w", err)
	}
	s.log.Info().Str("id", f.ID).Str("amount", f.Amount.StringFixed(2)).Msg("fuel added")
	return f, nil
}

// ImportFuel stores already-parsed fuel entries. Entries whose ID is
// already stored are skipped so a file can be imported twice safely. Driver
// and vehicle references must exist, as in AddFuel.
func (s *Service) ImportFuel(ctx context.Context, entries []model.FuelEntry) (added, skipped int, err error) {
	existing, err := s.fuel.All(ctx)
	if err != nil {
		return 0, 0, err
	}
	seen := make(map[string]bool, len(existing))
	for _, f := range existing {
		seen[f.ID] = true
	}

	now := model.FormatTimestamp(s.now())
	for i, f := range entries {
		if f.ID == "" {
			f.ID = id.New(id.PrefixFuel)
		}
		if seen[f.ID] {
			skipped++
			continue
		}
		if f.CreatedAt == "" {
			f.CreatedAt = now
		}
		var errs validate.FieldErrors
		if err := s.checkRefs(ctx, &errs, f); err != nil {
			return added, skipped, err
		}
		if err := errs.Err(); err != nil {
			return added, skipped, fmt.Errorf("entry %d: %w", i+1, err)
		}
		if err := validate.Record(f).Err(); err != nil {
			return added, skipped, fmt.Errorf("entry %d: %w", i+1, err)
		}
		if err := s.fuel.Put(ctx, f); err != nil {
			return added, skipped, fmt.Errorf("saving fuel entry: %w", err)
		}
		seen[f.ID] = true
		added++
	}
	s.log.Info().Int("added", added).Int("skipped", skipped).Msg("fuel imported")
	return added, skipped, nil
}

// Fuel returns all fuel entries, most recent date first.
func (s *Service) Fuel(ctx context.Context) ([]model.FuelEntry, error) {
	all, err := s.fuel.All(ctx)
	if err != nil {
		return nil, err
	}
	sort.SliceStable(all, func(i, j int) bool { return all[i].Date > all[j].Date })
	return all, nil
}

// DeleteFuel removes a fuel entry.
func (s *Service) DeleteFuel(ctx context.Context, fuelID string) error {
	if err := s.fuel.Delete(ctx, fuelID); err != nil {
		return err
	}
	s.log.Info().Str("id", fuelID).Msg("fuel deleted")
	return nil
}

// VehicleStats pairs a vehicle with its fuel totals. Vehicle is zero for
// fuel bought without a known vehicle.
type VehicleStats struct {
	Vehicle model.Vehicle
	metrics.VehicleFuel
}

// Label names the vehicle, or "(bez pojazdu)" when unknown.
func (v VehicleStats) Label() string {
	if v.Vehicle.ID == "" {
		return "(bez pojazdu)"
	}
	return v.Vehicle.Label()
}

// Stats returns fuel totals per vehicle. Vehicles without fuel are listed
// with zero totals.
func (s *Service) Stats(ctx context.Context) ([]VehicleStats, error) {
	vehicles, err := s.vehicles.All(ctx)
	if err != nil {
		return nil, err
	}
	fuel, err := s.fuel.All(ctx)
	if err != nil {
		return nil, err
	}

	groups := metrics.FuelByVehicle(fuel)
	byVehicle := make(map[string]metrics.VehicleFuel, len(groups))
	for _, vf := range groups {
		byVehicle[vf.VehicleID] = vf
	}

	out := make([]VehicleStats, 0, len(vehicles)+1)
	for _, v := range vehicles {
		vf, ok := byVehicle[v.ID]
		if !ok {
			vf = metrics.VehicleFuel{VehicleID: v.ID, Cost: decimal.Zero}
		}
		delete(byVehicle, v.ID)
		out = append(out, VehicleStats{Vehicle: v, VehicleFuel: vf})
	}
	for _, vf := range groups {
		if _, orphan := byVehicle[vf.VehicleID]; orphan {
			out = append(out, VehicleStats{VehicleFuel: vf})
		}
	}
	return out, nil
}

func (s *Service) checkRefs(ctx context.Context, errs *validate.FieldErrors, f model.FuelEntry) error {
	if f.DriverID != "" {
		if _, err := s.drivers.Get(ctx, f.DriverID); err != nil {
			if !errors.Is(err, store.ErrNotFound) {
				return err
			}
			*errs = append(*errs, validate.FieldError{Field: "driver_id", Kind: validate.KindFormat, Message: "Nie znaleziono kierowcy"})
		}
	}
	if f.VehicleID != "" {
		if _, err := s.vehicles.Get(ctx, f.VehicleID); err != nil {
			if !errors.Is(err, store.ErrNotFound) {
				return err
			}
			*errs = append(*errs, validate.FieldError{Field: "vehicle_id", Kind: validate.KindFormat, Message: "Nie znaleziono pojazdu"})
		}
	}
	return nil
}
