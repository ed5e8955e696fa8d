package models

import (
	"math"
	"testing"
)

func TestTripLogRecalculate(t *testing.T) {
	tests := []struct {
		name                        string
		log                         TripLog
		fuel, cost, costPerKm, rate float64
	}{
		{"from fuel", TripLog{DistanceTraveled: 200, FuelConsumedLiters: 14, FuelPricePerLiter: 40}, 14, 560, 2.8, 7},
		{"from rate", TripLog{DistanceTraveled: 50, ConsumptionRate: 6, FuelPricePerLiter: 40}, 3, 120, 2.4, 6},
		{"no distance", TripLog{FuelConsumedLiters: 5, FuelPricePerLiter: 40}, 5, 200, 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l := tt.log
			l.Recalculate()
			for _, c := range []struct {
				field     string
				got, want float64
			}{
				{"fuel", l.FuelConsumedLiters, tt.fuel},
				{"cost", l.TotalCost, tt.cost},
				{"cost per km", l.CostPerKm, tt.costPerKm},
				{"rate", l.ConsumptionRate, tt.rate},
			} {
				if math.Abs(c.got-c.want) > 1e-9 {
					t.Errorf("%s = %v, want %v", c.field, c.got, c.want)
				}
			}
		})
	}
}
