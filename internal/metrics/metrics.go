// Package metrics derives the dashboard aggregates from snapshots of
// invoices and fuel entries. Functions never mutate their inputs and keep
// no state between calls.
package metrics

import (
	"time"

	"github.com/samber/lo"
	"github.com/shopspring/decimal"

	"github.com/faktury-dev/faktury/internal/model"
)

const day = 24 * time.Hour

// Summary holds every aggregate shown on the dashboard.
type Summary struct {
	UnpaidCount        int
	PaidCount          int
	UnpaidTotal        decimal.Decimal
	PaidTotal          decimal.Decimal
	FuelThisMonth      decimal.Decimal
	Profit             decimal.Decimal
	AveragePaymentDays float64
	OnTimePercent      float64
	// Skipped counts records left out of an aggregate because a stored
	// date did not parse.
	Skipped int
}

// Summarize computes all aggregates for the given snapshot as of now.
func Summarize(invoices []model.Invoice, fuel []model.FuelEntry, now time.Time) Summary {
	unpaid, paid := Partition(invoices)
	fuelTotal, fuelSkipped := fuelForMonth(fuel, now)
	avg, avgSkipped := averagePaymentDays(paid, now.Location())

	paidTotal := Total(paid)
	return Summary{
		UnpaidCount:        len(unpaid),
		PaidCount:          len(paid),
		UnpaidTotal:        Total(unpaid),
		PaidTotal:          paidTotal,
		FuelThisMonth:      fuelTotal,
		Profit:             Profit(paidTotal, fuelTotal),
		AveragePaymentDays: avg,
		OnTimePercent:      OnTimePercent(paid),
		Skipped:            fuelSkipped + avgSkipped,
	}
}

// Partition splits invoices into unpaid and paid sets by the paid flag.
func Partition(invoices []model.Invoice) (unpaid, paid []model.Invoice) {
	paid, unpaid = lo.FilterReject(invoices, func(inv model.Invoice, _ int) bool {
		return inv.IsPaid
	})
	return unpaid, paid
}

// Total sums invoice amounts.
func Total(invoices []model.Invoice) decimal.Decimal {
	return lo.Reduce(invoices, func(acc decimal.Decimal, inv model.Invoice, _ int) decimal.Decimal {
		return acc.Add(inv.Amount)
	}, decimal.Zero)
}

// FuelForMonth sums fuel amounts dated in now's calendar month. Entries with
// an unparseable date are left out.
func FuelForMonth(fuel []model.FuelEntry, now time.Time) decimal.Decimal {
	total, _ := fuelForMonth(fuel, now)
	return total
}

func fuelForMonth(fuel []model.FuelEntry, now time.Time) (decimal.Decimal, int) {
	total := decimal.Zero
	skipped := 0
	for _, f := range fuel {
		t, ok := model.ParseTimestamp(f.Date, now.Location())
		if !ok {
			skipped++
			continue
		}
		t = t.In(now.Location())
		if t.Year() == now.Year() && t.Month() == now.Month() {
			total = total.Add(f.Amount)
		}
	}
	return total, skipped
}

// Profit is paid revenue less this month's fuel cost.
func Profit(paidTotal, fuelThisMonth decimal.Decimal) decimal.Decimal {
	return paidTotal.Sub(fuelThisMonth)
}

// AveragePaymentDays is the exact mean of whole days between issue and
// payment over paid invoices whose dates both parse. It is 0 when none do.
func AveragePaymentDays(invoices []model.Invoice, loc *time.Location) float64 {
	avg, _ := averagePaymentDays(invoices, loc)
	return avg
}

func averagePaymentDays(invoices []model.Invoice, loc *time.Location) (float64, int) {
	var sum, n, skipped int
	for _, inv := range invoices {
		if !inv.IsPaid {
			continue
		}
		issued, ok1 := model.ParseTimestamp(inv.IssueDate, loc)
		paidAt, ok2 := model.ParseTimestamp(inv.PaidAt, loc)
		if !ok1 || !ok2 {
			skipped++
			continue
		}
		sum += WholeDays(paidAt.Sub(issued))
		n++
	}
	if n == 0 {
		return 0, skipped
	}
	return float64(sum) / float64(n), skipped
}

// OnTimePercent is the share of paid invoices flagged paid-on-time, in
// [0, 100]. It is 0 when nothing is paid.
func OnTimePercent(invoices []model.Invoice) float64 {
	paid := lo.CountBy(invoices, func(inv model.Invoice) bool { return inv.IsPaid })
	if paid == 0 {
		return 0
	}
	onTime := lo.CountBy(invoices, func(inv model.Invoice) bool { return inv.IsPaid && inv.PaidOnTime })
	return float64(onTime) / float64(paid) * 100
}

// WholeDays converts d to days, rounding toward negative infinity.
func WholeDays(d time.Duration) int {
	days := int(d / day)
	if d < 0 && d%day != 0 {
		days--
	}
	return days
}
