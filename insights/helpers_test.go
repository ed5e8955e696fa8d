package insights

import (
	"fmt"
	"time"

	"fueltrack-api/models"
)

// testNow is a Saturday mid-morning
var testNow = time.Date(2025, time.March, 15, 10, 30, 0, 0, time.UTC)

func dayOffset(offset int) string {
	return testNow.AddDate(0, 0, offset).Format(models.DateLayout)
}

func tripLog(id string, offset int, distance, rate, cost float64) models.TripLog {
	return models.TripLog{
		ID:                 id,
		Date:               dayOffset(offset),
		DistanceTraveled:   distance,
		FuelConsumedLiters: distance * rate / 100,
		ConsumptionRate:    rate,
		TotalCost:          cost,
		FuelPricePerLiter:  40,
	}
}

func purchase(id string, offset int, liters, price float64) models.FuelPurchase {
	return models.FuelPurchase{
		ID:            id,
		Date:          dayOffset(offset),
		Liters:        liters,
		PricePerLiter: price,
		TotalAmount:   liters * price,
	}
}

func intPtr(v int) *int { return &v }

func strPtr(v string) *string { return &v }

func ids[T any](items []T, id func(T) string) []string {
	out := make([]string, len(items))
	for i, it := range items {
		out[i] = id(it)
	}
	return out
}

func nudgeIDs(nudges []Nudge) []string {
	return ids(nudges, func(n Nudge) string { return n.ID })
}

func containsID(list []string, id string) bool {
	for _, v := range list {
		if v == id {
			return true
		}
	}
	return false
}

func seqLogs(n int, rate, cost float64) []models.TripLog {
	logs := make([]models.TripLog, n)
	for i := 0; i < n; i++ {
		logs[i] = tripLog(fmt.Sprintf("log-%d", i), -i, 50, rate, cost)
	}
	return logs
}
