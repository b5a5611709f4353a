package metrics

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/faktury-dev/faktury/internal/model"
)

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

var now = time.Date(2024, 3, 15, 12, 0, 0, 0, time.UTC)

func sampleInvoices() []model.Invoice {
	return []model.Invoice{
		{ID: "inv-1", CompanyName: "A", Amount: dec("1000.00"), IssueDate: "2024-01-01", PaidAt: "2024-01-11T08:00:00", IsPaid: true, PaidOnTime: true},
		{ID: "inv-2", CompanyName: "B", Amount: dec("500.50"), IssueDate: "2024-01-01", PaidAt: "2024-01-21T18:00:00", IsPaid: true, PaidOnTime: false},
		{ID: "inv-3", CompanyName: "C", Amount: dec("250.25"), Deadline: "2024-03-20T00:00:00"},
		{ID: "inv-4", CompanyName: "D", Amount: dec("100.00"), Deadline: "2024-03-01T00:00:00"},
	}
}

func sampleFuel() []model.FuelEntry {
	return []model.FuelEntry{
		{ID: "fuel-1", Date: "2024-03-02", Amount: dec("300.00"), Liters: 50, VehicleID: "vehicle-a"},
		{ID: "fuel-2", Date: "2024-03-14T07:30:00", Amount: dec("200.00"), Liters: 30, VehicleID: "vehicle-b"},
		{ID: "fuel-3", Date: "2024-02-28", Amount: dec("999.00"), Liters: 150, VehicleID: "vehicle-a"},
		{ID: "fuel-4", Date: "2023-03-10", Amount: dec("50.00"), Liters: 8},
		{ID: "fuel-5", Date: "broken", Amount: dec("70.00"), Liters: 10},
	}
}

func TestPartitionAndTotals(t *testing.T) {
	invoices := sampleInvoices()
	unpaid, paid := Partition(invoices)
	require.Len(t, unpaid, 2)
	require.Len(t, paid, 2)

	assert.Equal(t, "350.25", Total(unpaid).StringFixed(2))
	assert.Equal(t, "1500.50", Total(paid).StringFixed(2))
	assert.True(t, Total(unpaid).Add(Total(paid)).Equal(Total(invoices)))
	assert.True(t, Total(nil).IsZero())
}

func TestFuelForMonth(t *testing.T) {
	assert.Equal(t, "500.00", FuelForMonth(sampleFuel(), now).StringFixed(2))

	april := time.Date(2024, 4, 1, 0, 0, 0, 0, time.UTC)
	assert.True(t, FuelForMonth(sampleFuel(), april).IsZero())
}

func TestAveragePaymentDays(t *testing.T) {
	invoices := []model.Invoice{
		{IsPaid: true, IssueDate: "2024-01-01", PaidAt: "2024-01-11"},
		{IsPaid: true, IssueDate: "2024-01-01", PaidAt: "2024-01-12"},
		{IsPaid: true, IssueDate: "garbage", PaidAt: "2024-01-21"},
		{IsPaid: true, IssueDate: "2024-01-01"},
		{IsPaid: false, IssueDate: "2024-01-01", PaidAt: "2024-12-31"},
	}
	avg := AveragePaymentDays(invoices, time.UTC)
	assert.InDelta(t, 10.5, avg, 1e-9)
	assert.Equal(t, "10 dni", DaysDisplay(avg))

	assert.Zero(t, AveragePaymentDays(nil, time.UTC))
	assert.Zero(t, AveragePaymentDays(invoices[2:4], time.UTC))
}

func TestAveragePaymentDays_PartialDaysFloor(t *testing.T) {
	invoices := []model.Invoice{
		{IsPaid: true, IssueDate: "2024-01-01T10:00:00", PaidAt: "2024-01-03T09:00:00"},
	}
	assert.InDelta(t, 1.0, AveragePaymentDays(invoices, time.UTC), 1e-9)
}

func TestOnTimePercent(t *testing.T) {
	assert.InDelta(t, 50.0, OnTimePercent(sampleInvoices()), 1e-9)
	assert.Zero(t, OnTimePercent(nil))

	unpaidOnly := []model.Invoice{{PaidOnTime: true}, {}}
	assert.Zero(t, OnTimePercent(unpaidOnly))

	allOnTime := []model.Invoice{{IsPaid: true, PaidOnTime: true}, {IsPaid: true, PaidOnTime: true}}
	assert.InDelta(t, 100.0, OnTimePercent(allOnTime), 1e-9)
}

func TestSummarize(t *testing.T) {
	s := Summarize(sampleInvoices(), sampleFuel(), now)

	assert.Equal(t, 2, s.UnpaidCount)
	assert.Equal(t, 2, s.PaidCount)
	assert.Equal(t, "350.25", s.UnpaidTotal.StringFixed(2))
	assert.Equal(t, "1500.50", s.PaidTotal.StringFixed(2))
	assert.Equal(t, "500.00", s.FuelThisMonth.StringFixed(2))
	assert.Equal(t, "1000.50", s.Profit.StringFixed(2))
	assert.InDelta(t, 15.0, s.AveragePaymentDays, 1e-9) // 10 and 20 days
	assert.InDelta(t, 50.0, s.OnTimePercent, 1e-9)
	assert.Equal(t, 1, s.Skipped)
}

func TestSummarize_Idempotent(t *testing.T) {
	invoices := sampleInvoices()
	fuel := sampleFuel()

	first := Summarize(invoices, fuel, now)
	second := Summarize(invoices, fuel, now)
	assert.Equal(t, first, second)
	assert.Equal(t, sampleInvoices(), invoices, "input must not be mutated")
}

func TestSummarize_Empty(t *testing.T) {
	s := Summarize(nil, nil, now)
	assert.True(t, s.UnpaidTotal.IsZero())
	assert.True(t, s.PaidTotal.IsZero())
	assert.True(t, s.Profit.IsZero())
	assert.Zero(t, s.AveragePaymentDays)
	assert.Zero(t, s.OnTimePercent)
}

func TestProfitNegative(t *testing.T) {
	p := Profit(dec("100"), dec("250.40"))
	assert.Equal(t, "-150.40", p.StringFixed(2))
	assert.Equal(t, ToneError, ProfitTone(p))
	assert.Equal(t, ToneSuccess, ProfitTone(decimal.Zero))
}

func TestWholeDays(t *testing.T) {
	tests := []struct {
		d    time.Duration
		want int
	}{
		{0, 0},
		{23 * time.Hour, 0},
		{24 * time.Hour, 1},
		{-time.Hour, -1},
		{-24 * time.Hour, -1},
		{-25 * time.Hour, -2},
		{10*24*time.Hour + 12*time.Hour, 10},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, WholeDays(tt.d), "WholeDays(%v)", tt.d)
	}
}

func TestTones(t *testing.T) {
	assert.Equal(t, ToneSuccess, OnTimeTone(80))
	assert.Equal(t, ToneWarning, OnTimeTone(79.9))
	assert.Equal(t, ToneWarning, OnTimeTone(60))
	assert.Equal(t, ToneError, OnTimeTone(59.9))
	assert.Equal(t, "87%", PercentDisplay(87.9))
}

func TestFuelByVehicle(t *testing.T) {
	stats := FuelByVehicle(sampleFuel())
	require.Len(t, stats, 3)

	assert.Equal(t, "", stats[0].VehicleID)
	assert.Equal(t, 2, stats[0].Entries)

	a := stats[1]
	assert.Equal(t, "vehicle-a", a.VehicleID)
	assert.Equal(t, 2, a.Entries)
	assert.InDelta(t, 200.0, a.Liters, 1e-9)
	assert.Equal(t, "1299.00", a.Cost.StringFixed(2))
	assert.Equal(t, "6.50", a.CostPerLiter().StringFixed(2))

	assert.True(t, VehicleFuel{}.CostPerLiter().IsZero())
}
