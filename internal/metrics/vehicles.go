package metrics

import (
	"sort"

	"github.com/samber/lo"
	"github.com/shopspring/decimal"

	"github.com/faktury-dev/faktury/internal/model"
)

// VehicleFuel totals the fuel bought for one vehicle.
type VehicleFuel struct {
	VehicleID string
	Entries   int
	Liters    float64
	Cost      decimal.Decimal
}

// CostPerLiter is the average price paid, or zero with no liters.
func (v VehicleFuel) CostPerLiter() decimal.Decimal {
	if v.Liters <= 0 {
		return decimal.Zero
	}
	return v.Cost.Div(decimal.NewFromFloat(v.Liters)).Round(2)
}

// FuelByVehicle groups fuel entries by vehicle, sorted by vehicle ID.
// Entries without a vehicle are grouped under "".
func FuelByVehicle(fuel []model.FuelEntry) []VehicleFuel {
	groups := lo.GroupBy(fuel, func(f model.FuelEntry) string { return f.VehicleID })

	out := make([]VehicleFuel, 0, len(groups))
	for vehicleID, entries := range groups {
		out = append(out, VehicleFuel{
			VehicleID: vehicleID,
			Entries:   len(entries),
			Liters:    lo.SumBy(entries, func(f model.FuelEntry) float64 { return f.Liters }),
			Cost: lo.Reduce(entries, func(acc decimal.Decimal, f model.FuelEntry, _ int) decimal.Decimal {
				return acc.Add(f.Amount)
			}, decimal.Zero),
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].VehicleID < out[j].VehicleID })
	return out
}
