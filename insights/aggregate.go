// File: /insights/aggregate.go
package insights

import (
	"sort"
	"time"

	"fueltrack-api/models"
	"fueltrack-api/stats"
)

// Aggregate holds totals and derived rates for a set of records.
// Trip logs are the only distance source; purchases add cost and fuel volume.
type Aggregate struct {
	TotalDistance      float64 `json:"total_distance"`
	TotalCost          float64 `json:"total_cost"`
	TotalFuel          float64 `json:"total_fuel"`
	AverageConsumption float64 `json:"average_consumption"`
	CostPerKm          float64 `json:"cost_per_km"`
	LogCount           int     `json:"log_count"`
	PurchaseCount      int     `json:"purchase_count"`
	Skipped            int     `json:"skipped"`
}

// MonthlyAggregate is an Aggregate for one "YYYY-MM" month
type MonthlyAggregate struct {
	Month string `json:"month"`
	Aggregate
}

func (a *Aggregate) addLog(l *models.TripLog) {
	a.TotalDistance += l.DistanceTraveled
	a.TotalFuel += l.FuelConsumedLiters
	a.TotalCost += l.TotalCost
	a.LogCount++
}

func (a *Aggregate) addPurchase(p *models.FuelPurchase) {
	a.TotalCost += p.TotalAmount
	a.TotalFuel += p.Liters
	a.PurchaseCount++
}

func (a *Aggregate) finalize() {
	a.AverageConsumption = 0
	a.CostPerKm = 0
	if a.TotalDistance > 0 {
		a.AverageConsumption = a.TotalFuel / a.TotalDistance * 100
		a.CostPerKm = a.TotalCost / a.TotalDistance
	}
}

// Merge combines two aggregates. Rates are recomputed from the merged sums.
func (a Aggregate) Merge(other Aggregate) Aggregate {
	merged := Aggregate{
		TotalDistance: a.TotalDistance + other.TotalDistance,
		TotalCost:     a.TotalCost + other.TotalCost,
		TotalFuel:     a.TotalFuel + other.TotalFuel,
		LogCount:      a.LogCount + other.LogCount,
		PurchaseCount: a.PurchaseCount + other.PurchaseCount,
		Skipped:       a.Skipped + other.Skipped,
	}
	merged.finalize()
	return merged
}

// AggregatePeriod reduces logs and purchases dated within [start, end] (inclusive, by calendar day).
// Records with unparseable dates are counted in Skipped and left out.
func AggregatePeriod(logs []models.TripLog, purchases []models.FuelPurchase, start, end time.Time) Aggregate {
	loc := start.Location()
	var agg Aggregate

	for i := range logs {
		day, ok := parseDay(logs[i].Date, loc)
		if !ok {
			agg.Skipped++
			continue
		}
		if withinDays(day, start, end) {
			agg.addLog(&logs[i])
		}
	}

	for i := range purchases {
		day, ok := parseDay(purchases[i].Date, loc)
		if !ok {
			agg.Skipped++
			continue
		}
		if withinDays(day, start, end) {
			agg.addPurchase(&purchases[i])
		}
	}

	agg.finalize()
	return agg
}

// MonthlyBuckets groups all records by month, sorted ascending by month key.
func MonthlyBuckets(logs []models.TripLog, purchases []models.FuelPurchase, loc *time.Location) []MonthlyAggregate {
	buckets := make(map[string]*Aggregate)
	bucket := func(key string) *Aggregate {
		b, ok := buckets[key]
		if !ok {
			b = &Aggregate{}
			buckets[key] = b
		}
		return b
	}

	for i := range logs {
		if day, ok := parseDay(logs[i].Date, loc); ok {
			bucket(monthKey(day)).addLog(&logs[i])
		}
	}
	for i := range purchases {
		if day, ok := parseDay(purchases[i].Date, loc); ok {
			bucket(monthKey(day)).addPurchase(&purchases[i])
		}
	}

	result := make([]MonthlyAggregate, 0, len(buckets))
	for key, agg := range buckets {
		agg.finalize()
		result = append(result, MonthlyAggregate{Month: key, Aggregate: *agg})
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].Month < result[j].Month
	})

	return result
}

// RecentMonths keeps the last n buckets of an ascending list
func RecentMonths(buckets []MonthlyAggregate, n int) []MonthlyAggregate {
	if n <= 0 || len(buckets) <= n {
		return buckets
	}
	return buckets[len(buckets)-n:]
}

// Comparison is month-to-date against the same span of the previous month
type Comparison struct {
	Current        Aggregate `json:"current"`
	Previous       Aggregate `json:"previous"`
	CostChange     float64   `json:"cost_change_percent"`
	DistanceChange float64   `json:"distance_change_percent"`
	FuelChange     float64   `json:"fuel_change_percent"`
}

// CompareMonths compares the current month up to now with the previous month
// up to the same day of month (clamped to that month's length).
func CompareMonths(logs []models.TripLog, purchases []models.FuelPurchase, now time.Time) Comparison {
	today := startOfDay(now)
	thisStart := time.Date(today.Year(), today.Month(), 1, 0, 0, 0, 0, today.Location())
	lastStart := thisStart.AddDate(0, -1, 0)

	lastEndDay := today.Day()
	if n := daysInMonth(lastStart); lastEndDay > n {
		lastEndDay = n
	}
	lastEnd := time.Date(lastStart.Year(), lastStart.Month(), lastEndDay, 0, 0, 0, 0, today.Location())

	current := AggregatePeriod(logs, purchases, thisStart, today)
	previous := AggregatePeriod(logs, purchases, lastStart, lastEnd)

	return Comparison{
		Current:        current,
		Previous:       previous,
		CostChange:     stats.PercentChange(previous.TotalCost, current.TotalCost),
		DistanceChange: stats.PercentChange(previous.TotalDistance, current.TotalDistance),
		FuelChange:     stats.PercentChange(previous.TotalFuel, current.TotalFuel),
	}
}

// TrailingConsumption is L/100km over logs of the last days (including today) that have both fuel and distance.
func TrailingConsumption(logs []models.TripLog, now time.Time, days int) float64 {
	today := startOfDay(now)
	from := addDays(today, -days)

	var fuel, distance float64
	for _, l := range logs {
		day, ok := parseDay(l.Date, now.Location())
		if !ok || !withinDays(day, from, today) {
			continue
		}
		if l.FuelConsumedLiters > 0 && l.DistanceTraveled > 0 {
			fuel += l.FuelConsumedLiters
			distance += l.DistanceTraveled
		}
	}
	return stats.SafeDiv(fuel, distance) * 100
}
