package fleet

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/faktury-dev/faktury/internal/id"
	"github.com/faktury-dev/faktury/internal/model"
	"github.com/faktury-dev/faktury/internal/store"
	"github.com/faktury-dev/faktury/internal/validate"
)

var clock = time.Date(2024, 3, 15, 10, 0, 0, 0, time.UTC)

func newService(t *testing.T) *Service {
	t.Helper()
	st := store.OpenCSV(filepath.Join(t.TempDir(), store.DataDir))
	return NewService(st).WithClock(func() time.Time { return clock })
}

func TestAddDriver(t *testing.T) {
	ctx := context.Background()
	svc := newService(t)

	d, err := svc.AddDriver(ctx, DriverParams{
		Name:               "Jan Kowalski",
		Phone:              "+48 512 345 678",
		Email:              "jan@firma.pl",
		RegistrationNumber: "wa 12345",
		DailyCost:          "350,00",
	})
	require.NoError(t, err)
	assert.True(t, id.Valid(d.ID, id.PrefixDriver))
	assert.Equal(t, "512345678", d.Phone)
	assert.Equal(t, "WA12345", d.RegistrationNumber)
	assert.Equal(t, "350.00", d.DailyCost.StringFixed(2))

	_, err = svc.AddDriver(ctx, DriverParams{Name: "Anna Nowak", Phone: "600100200"})
	require.NoError(t, err)

	drivers, err := svc.Drivers(ctx)
	require.NoError(t, err)
	require.Len(t, drivers, 2)
	assert.Equal(t, "Anna Nowak", drivers[0].Name)

	require.NoError(t, svc.DeleteDriver(ctx, d.ID))
	drivers, err = svc.Drivers(ctx)
	require.NoError(t, err)
	assert.Len(t, drivers, 1)
}

func TestAddDriver_Invalid(t *testing.T) {
	_, err := newService(t).AddDriver(context.Background(), DriverParams{
		Phone:              "123",
		Email:              "bad",
		RegistrationNumber: "1",
	})
	var fe validate.FieldErrors
	require.ErrorAs(t, err, &fe)
	msgs := fe.Messages()
	assert.Equal(t, "Imię i nazwisko jest wymagane", msgs["name"])
	assert.Equal(t, "Numer telefonu musi zawierać 9 cyfr", msgs["phone"])
	assert.Equal(t, "Nieprawidłowy format email", msgs["email"])
	assert.Equal(t, "Nieprawidłowy format numeru rejestracyjnego", msgs["registration_number"])
}

func TestAddVehicle(t *testing.T) {
	ctx := context.Background()
	svc := newService(t)

	v, err := svc.AddVehicle(ctx, VehicleParams{
		Brand:               "Volvo",
		Model:               "FH16",
		Year:                "2019",
		ExpectedConsumption: "31,5",
		InitialOdometer:     "420 000",
		DriverPhone:         "512345678",
	})
	require.NoError(t, err)
	assert.Equal(t, 2019, v.Year)
	assert.InDelta(t, 31.5, v.ExpectedFuelConsumption, 1e-9)
	assert.Equal(t, 420000, v.InitialOdometer)

	_, err = svc.AddVehicle(ctx, VehicleParams{Brand: "Volvo", Year: "1900", ExpectedConsumption: "30"})
	var fe validate.FieldErrors
	require.ErrorAs(t, err, &fe)
	assert.Contains(t, fe.Messages(), "model")
	assert.Contains(t, fe.Messages(), "year")
}

func TestAddFuel(t *testing.T) {
	ctx := context.Background()
	svc := newService(t)

	v, err := svc.AddVehicle(ctx, VehicleParams{Brand: "MAN", Model: "TGX", Year: "2021", ExpectedConsumption: "29"})
	require.NoError(t, err)

	f, err := svc.AddFuel(ctx, FuelParams{Date: "2024-03-10", Amount: "612,40", Liters: "95,5", Station: "Orlen", VehicleID: v.ID})
	require.NoError(t, err)
	assert.Equal(t, "2024-03-10", f.Date)
	assert.Equal(t, "612.40", f.Amount.StringFixed(2))

	today, err := svc.AddFuel(ctx, FuelParams{Amount: "100", Liters: "15"})
	require.NoError(t, err)
	assert.Equal(t, "2024-03-15", today.Date)

	all, err := svc.Fuel(ctx)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, today.ID, all[0].ID, "most recent first")

	require.NoError(t, svc.DeleteFuel(ctx, today.ID))
	assert.ErrorIs(t, svc.DeleteFuel(ctx, today.ID), store.ErrNotFound)
}

func TestAddFuel_UnknownRefs(t *testing.T) {
	_, err := newService(t).AddFuel(context.Background(), FuelParams{
		Amount: "100", Liters: "0", DriverID: "driver-000000000000", VehicleID: "vehicle-000000000000",
	})
	var fe validate.FieldErrors
	require.ErrorAs(t, err, &fe)
	msgs := fe.Messages()
	assert.Equal(t, "Liczba litrów musi być większa od 0", msgs["liters"])
	assert.Equal(t, "Nie znaleziono kierowcy", msgs["driver_id"])
	assert.Equal(t, "Nie znaleziono pojazdu", msgs["vehicle_id"])
}

func TestImportFuel(t *testing.T) {
	ctx := context.Background()
	svc := newService(t)

	entries := []model.FuelEntry{
		{ID: "fuel-000000000001", Date: "2024-03-01", Amount: decimal.RequireFromString("300"), Liters: 50},
		{Date: "2024-03-02", Amount: decimal.RequireFromString("200"), Liters: 30},
	}
	added, skipped, err := svc.ImportFuel(ctx, entries)
	require.NoError(t, err)
	assert.Equal(t, 2, added)
	assert.Zero(t, skipped)

	added, skipped, err = svc.ImportFuel(ctx, entries[:1])
	require.NoError(t, err)
	assert.Zero(t, added)
	assert.Equal(t, 1, skipped)

	all, err := svc.Fuel(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

func TestImportFuel_UnknownRefs(t *testing.T) {
	ctx := context.Background()
	svc := newService(t)

	entries := []model.FuelEntry{
		{ID: "fuel-000000000001", Date: "2024-03-01", Amount: decimal.RequireFromString("300"), Liters: 50},
		{ID: "fuel-000000000002", Date: "2024-03-02", Amount: decimal.RequireFromString("200"), Liters: 30, VehicleID: "vehicle-000000000000"},
	}
	added, _, err := svc.ImportFuel(ctx, entries)
	var fe validate.FieldErrors
	require.ErrorAs(t, err, &fe)
	assert.Contains(t, err.Error(), "entry 2")
	assert.Equal(t, "Nie znaleziono pojazdu", fe.Messages()["vehicle_id"])
	assert.Equal(t, 1, added)

	all, err := svc.Fuel(ctx)
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, "fuel-000000000001", all[0].ID)
}

func TestStats(t *testing.T) {
	ctx := context.Background()
	svc := newService(t)

	truck, err := svc.AddVehicle(ctx, VehicleParams{Brand: "Scania", Model: "R450", Year: "2020", ExpectedConsumption: "30"})
	require.NoError(t, err)
	idle, err := svc.AddVehicle(ctx, VehicleParams{Brand: "DAF", Model: "XF", Year: "2018", ExpectedConsumption: "32"})
	require.NoError(t, err)

	for _, p := range []FuelParams{
		{Date: "2024-03-01", Amount: "300", Liters: "50", VehicleID: truck.ID},
		{Date: "2024-03-05", Amount: "330", Liters: "50", VehicleID: truck.ID},
		{Date: "2024-03-06", Amount: "80", Liters: "12"},
	} {
		_, err := svc.AddFuel(ctx, p)
		require.NoError(t, err)
	}

	stats, err := svc.Stats(ctx)
	require.NoError(t, err)
	require.Len(t, stats, 3)

	assert.Equal(t, "Scania R450 (2020)", stats[0].Label())
	assert.Equal(t, 2, stats[0].Entries)
	assert.InDelta(t, 100.0, stats[0].Liters, 1e-9)
	assert.Equal(t, "630.00", stats[0].Cost.StringFixed(2))
	assert.Equal(t, "6.30", stats[0].CostPerLiter().StringFixed(2))

	assert.Equal(t, idle.ID, stats[1].Vehicle.ID)
	assert.Zero(t, stats[1].Entries)

	assert.Equal(t, "(bez pojazdu)", stats[2].Label())
	assert.Equal(t, 1, stats[2].Entries)
}
