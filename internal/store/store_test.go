package store

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/faktury-dev/faktury/internal/config"
	"github.com/faktury-dev/faktury/internal/model"
	"github.com/faktury-dev/faktury/internal/validate"
)

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func sampleInvoice(id string) model.Invoice {
	return model.Invoice{
		ID:                 id,
		CompanyName:        "Trans-Pol, \"Sp. z o.o.\"",
		NIP:                "5260001246",
		Amount:             dec("1234.50"),
		Deadline:           "2024-01-15T00:00:00",
		PaymentTerm:        14,
		IssueDate:          "2024-01-01T00:00:00",
		Description:        "Transport\nWarszawa - Poznań",
		CreatedAt:          "2024-01-01T09:15:00",
		ContactPhone:       "512345678",
		Loading:            model.Location{City: "Warszawa", Address: "ul. Prosta 1"},
		Unloading:          model.Location{City: "Poznań"},
		CalculatedDistance: 310.5,
		DriverID:           "driver-0123456789ab",
	}
}

type opener struct {
	name string
	open func(t *testing.T, root string) *Store
}

func openers() []opener {
	return []opener{
		{"csv", func(t *testing.T, root string) *Store {
			s, err := Open(context.Background(), root, config.StorageConfig{Backend: config.BackendCSV})
			require.NoError(t, err)
			return s
		}},
		{"sqlite", func(t *testing.T, root string) *Store {
			s, err := Open(context.Background(), root, config.StorageConfig{Backend: config.BackendSQLite, SQLitePath: "data/faktury.db"})
			require.NoError(t, err)
			return s
		}},
	}
}

func TestInvoices_CRUD(t *testing.T) {
	for _, o := range openers() {
		t.Run(o.name, func(t *testing.T) {
			ctx := context.Background()
			root := t.TempDir()
			s := o.open(t, root)
			defer s.Close()

			all, err := s.Invoices.All(ctx)
			require.NoError(t, err)
			assert.Empty(t, all)

			require.NoError(t, s.Invoices.Put(ctx, sampleInvoice("inv-000000000001")))
			require.NoError(t, s.Invoices.Put(ctx, sampleInvoice("inv-000000000002")))

			got, err := s.Invoices.Get(ctx, "inv-000000000001")
			require.NoError(t, err)
			want := sampleInvoice("inv-000000000001")
			assert.True(t, want.Amount.Equal(got.Amount))
			got.Amount = want.Amount
			assert.Equal(t, want, got)

			// Replace keeps position.
			upd := sampleInvoice("inv-000000000001")
			upd.IsPaid = true
			upd.PaidAt = "2024-01-10T12:00:00"
			upd.PaidOnTime = true
			require.NoError(t, s.Invoices.Put(ctx, upd))

			all, err = s.Invoices.All(ctx)
			require.NoError(t, err)
			require.Len(t, all, 2)
			assert.Equal(t, "inv-000000000001", all[0].ID)
			assert.True(t, all[0].IsPaid)
			assert.True(t, all[0].PaidOnTime)

			require.NoError(t, s.Invoices.Delete(ctx, "inv-000000000002"))
			_, err = s.Invoices.Get(ctx, "inv-000000000002")
			assert.ErrorIs(t, err, ErrNotFound)
			assert.ErrorIs(t, s.Invoices.Delete(ctx, "inv-000000000002"), ErrNotFound)
		})
	}
}

func TestPersistsAcrossOpen(t *testing.T) {
	for _, o := range openers() {
		t.Run(o.name, func(t *testing.T) {
			ctx := context.Background()
			root := t.TempDir()

			s := o.open(t, root)
			require.NoError(t, s.Companies.Put(ctx, model.Company{
				NIP: "5260001246", Name: "Trans-Pol", Score: 15,
				InvoiceIDs: []string{"inv-000000000001", "inv-000000000002"},
			}))
			require.NoError(t, s.Fuel.Put(ctx, model.FuelEntry{
				ID: "fuel-000000000001", Date: "2024-03-02", Amount: dec("300.10"), Liters: 45.5, Station: "Orlen",
			}))
			require.NoError(t, s.Close())

			s = o.open(t, root)
			defer s.Close()

			c, err := s.Companies.Get(ctx, "5260001246")
			require.NoError(t, err)
			assert.Equal(t, 15, c.Score)
			assert.Equal(t, []string{"inv-000000000001", "inv-000000000002"}, c.InvoiceIDs)

			fuel, err := s.Fuel.All(ctx)
			require.NoError(t, err)
			require.Len(t, fuel, 1)
			assert.Equal(t, "300.10", fuel[0].Amount.StringFixed(2))
			assert.InDelta(t, 45.5, fuel[0].Liters, 1e-9)
		})
	}
}

func TestAmounts_SameOnEveryBackend(t *testing.T) {
	inputs := []string{"0,01", "1 234,5", "1234,56", "999999999,99"}
	for _, o := range openers() {
		t.Run(o.name, func(t *testing.T) {
			ctx := context.Background()
			root := t.TempDir()

			s := o.open(t, root)
			for i, in := range inputs {
				r := validate.Amount(in)
				require.True(t, r.OK(), "Amount(%q)", in)
				inv := sampleInvoice(fmt.Sprintf("inv-%012d", i+1))
				inv.Amount = r.Value
				require.NoError(t, s.Invoices.Put(ctx, inv))
			}
			require.NoError(t, s.Close())

			s = o.open(t, root)
			defer s.Close()
			all, err := s.Invoices.All(ctx)
			require.NoError(t, err)
			require.Len(t, all, len(inputs))
			for i, in := range inputs {
				want := validate.Amount(in).Value
				assert.True(t, want.Equal(all[i].Amount), "%q: stored %s, reloaded %s", in, want, all[i].Amount)
				assert.True(t, all[i].Amount.IsPositive())
			}
		})
	}
}

func TestDriversAndVehicles(t *testing.T) {
	for _, o := range openers() {
		t.Run(o.name, func(t *testing.T) {
			ctx := context.Background()
			s := o.open(t, t.TempDir())
			defer s.Close()

			d := model.Driver{ID: "driver-000000000001", Name: "Jan Kowalski", Phone: "512345678", DailyCost: dec("350")}
			v := model.Vehicle{ID: "vehicle-000000000001", Brand: "Volvo", Model: "FH", Year: 2019, ExpectedFuelConsumption: 31.5, InitialOdometer: 420000}
			require.NoError(t, s.Drivers.Put(ctx, d))
			require.NoError(t, s.Vehicles.Put(ctx, v))

			gotD, err := s.Drivers.Get(ctx, d.ID)
			require.NoError(t, err)
			assert.Equal(t, "Jan Kowalski", gotD.Name)
			assert.True(t, gotD.DailyCost.Equal(dec("350")))

			gotV, err := s.Vehicles.Get(ctx, v.ID)
			require.NoError(t, err)
			assert.Equal(t, v, gotV)
		})
	}
}

func TestCSV_FileLayout(t *testing.T) {
	ctx := context.Background()
	root := t.TempDir()
	s := OpenCSV(filepath.Join(root, DataDir))
	require.NoError(t, s.Invoices.Put(ctx, sampleInvoice("inv-000000000001")))

	data, err := os.ReadFile(filepath.Join(root, DataDir, "invoices.csv"))
	require.NoError(t, err)
	assert.Contains(t, string(data), "id,company_name,nip,amount,deadline")
	assert.Contains(t, string(data), "1234.50")

	entries, err := os.ReadDir(filepath.Join(root, DataDir))
	require.NoError(t, err)
	assert.Len(t, entries, 1, "temp files must not be left behind")
}

func TestCSV_BadRow(t *testing.T) {
	dir := t.TempDir()
	content := "id,date,amount,liters,station,driver_id,vehicle_id,notes,created_at\n" +
		"fuel-000000000001,2024-03-01,abc,10,,,,,\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, "fuel.csv"), []byte(content), 0o644))

	s := OpenCSV(dir)
	_, err := s.Fuel.All(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "row 2")
	assert.Contains(t, err.Error(), `parsing amount "abc"`)
}

func TestOpen_UnknownBackend(t *testing.T) {
	_, err := Open(context.Background(), t.TempDir(), config.StorageConfig{Backend: "mongo"})
	assert.Error(t, err)
}
