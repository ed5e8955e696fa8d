// File: /insights/summary.go
package insights

import (
	"time"

	"fueltrack-api/models"
)

// Summary holds min/max/avg of one numeric field and the records that produced the extremes.
// On ties the first record in input order is kept.
type Summary[T any] struct {
	Min    float64 `json:"min"`
	Max    float64 `json:"max"`
	Avg    float64 `json:"avg"`
	Count  int     `json:"count"`
	MinRef *T      `json:"-"`
	MaxRef *T      `json:"-"`
}

// Summarize computes a Summary over records using selector. Empty input yields the zero Summary.
func Summarize[T any](records []T, selector func(T) float64) Summary[T] {
	var s Summary[T]
	if len(records) == 0 {
		return s
	}

	var sum float64
	for i := range records {
		v := selector(records[i])
		sum += v
		if i == 0 || v < s.Min {
			s.Min = v
			s.MinRef = &records[i]
		}
		if i == 0 || v > s.Max {
			s.Max = v
			s.MaxRef = &records[i]
		}
	}

	s.Count = len(records)
	s.Avg = sum / float64(len(records))
	return s
}

// StatRange is a Summary over trip logs flattened for responses
type StatRange struct {
	Min     float64 `json:"min"`
	Max     float64 `json:"max"`
	Avg     float64 `json:"avg"`
	MinDate string  `json:"min_date"`
	MaxDate string  `json:"max_date"`
	MinID   string  `json:"min_id,omitempty"`
	MaxID   string  `json:"max_id,omitempty"`
}

func logRange(s Summary[models.TripLog]) StatRange {
	r := StatRange{Min: s.Min, Max: s.Max, Avg: s.Avg}
	if s.MinRef != nil {
		r.MinDate, r.MinID = s.MinRef.Date, s.MinRef.ID
	}
	if s.MaxRef != nil {
		r.MaxDate, r.MaxID = s.MaxRef.Date, s.MaxRef.ID
	}
	return r
}

// LogStats are the display ranges shown on the reports screen
type LogStats struct {
	Distance    StatRange `json:"distance"`
	Consumption StatRange `json:"consumption"`
	Fuel        StatRange `json:"fuel"`
	FuelPrice   StatRange `json:"fuel_price"`
	Cost        StatRange `json:"cost"`
	CostPerKm   StatRange `json:"cost_per_km"`
	BestLogID   string    `json:"best_log_id,omitempty"`
	WorstLogID  string    `json:"worst_log_id,omitempty"`
	SampleCount int       `json:"sample_count"`
}

func filterLogs(logs []models.TripLog, keep func(models.TripLog) bool) []models.TripLog {
	out := make([]models.TripLog, 0, len(logs))
	for _, l := range logs {
		if keep(l) {
			out = append(out, l)
		}
	}
	return out
}

// DetailedStats summarizes the usual trip-log fields. Zero rates and prices are left out of their ranges.
func DetailedStats(logs []models.TripLog) LogStats {
	withRate := filterLogs(logs, func(l models.TripLog) bool { return l.ConsumptionRate > 0 })
	withPrice := filterLogs(logs, func(l models.TripLog) bool { return l.FuelPricePerLiter > 0 })
	withCostPerKm := filterLogs(logs, func(l models.TripLog) bool { return l.CostPerKm > 0 })

	consumption := Summarize(withRate, func(l models.TripLog) float64 { return l.ConsumptionRate })

	out := LogStats{
		Distance:    logRange(Summarize(logs, func(l models.TripLog) float64 { return l.DistanceTraveled })),
		Consumption: logRange(consumption),
		Fuel:        logRange(Summarize(logs, func(l models.TripLog) float64 { return l.FuelConsumedLiters })),
		FuelPrice:   logRange(Summarize(withPrice, func(l models.TripLog) float64 { return l.FuelPricePerLiter })),
		Cost:        logRange(Summarize(logs, func(l models.TripLog) float64 { return l.TotalCost })),
		CostPerKm:   logRange(Summarize(withCostPerKm, func(l models.TripLog) float64 { return l.CostPerKm })),
		SampleCount: len(logs),
	}
	if consumption.MinRef != nil {
		out.BestLogID = consumption.MinRef.ID
		out.WorstLogID = consumption.MaxRef.ID
	}
	return out
}

// DashboardStats are the headline numbers of the dashboard
type DashboardStats struct {
	TotalDistance    float64 `json:"total_distance"`
	TotalCost        float64 `json:"total_cost"`
	AvgCostPerKm     float64 `json:"avg_cost_per_km"`
	AvgConsumption   float64 `json:"avg_consumption"`
	LastFuelPrice    float64 `json:"last_fuel_price"`
	TotalLiters      float64 `json:"total_liters"`
	WeightedAvgPrice float64 `json:"weighted_avg_price"`
}

// Dashboard computes headline stats. year 0 means all years. The last fuel price
// ignores the year filter and prefers a purchase only when it is strictly newer than the last log.
func Dashboard(logs []models.TripLog, purchases []models.FuelPurchase, year int, loc *time.Location) DashboardStats {
	var out DashboardStats
	var fuelLogs, distLogs float64

	var lastLog *models.TripLog
	var lastLogDay time.Time
	for i := range logs {
		day, ok := parseDay(logs[i].Date, loc)
		if !ok {
			continue
		}
		if lastLog == nil || day.After(lastLogDay) {
			lastLog, lastLogDay = &logs[i], day
		}
		if year != 0 && day.Year() != year {
			continue
		}
		out.TotalDistance += logs[i].DistanceTraveled
		out.TotalCost += logs[i].TotalCost
		if logs[i].FuelConsumedLiters > 0 && logs[i].DistanceTraveled > 0 {
			fuelLogs += logs[i].FuelConsumedLiters
			distLogs += logs[i].DistanceTraveled
		}
	}

	var lastPurchase *models.FuelPurchase
	var lastPurchaseDay time.Time
	var spent float64
	for i := range purchases {
		day, ok := parseDay(purchases[i].Date, loc)
		if !ok {
			continue
		}
		if lastPurchase == nil || day.After(lastPurchaseDay) {
			lastPurchase, lastPurchaseDay = &purchases[i], day
		}
		if year != 0 && day.Year() != year {
			continue
		}
		spent += purchases[i].TotalAmount
		out.TotalLiters += purchases[i].Liters
	}

	if out.TotalDistance > 0 {
		out.AvgCostPerKm = out.TotalCost / out.TotalDistance
	}
	if distLogs > 0 {
		out.AvgConsumption = fuelLogs / distLogs * 100
	}
	if out.TotalLiters > 0 {
		out.WeightedAvgPrice = spent / out.TotalLiters
	}

	switch {
	case lastLog != nil && lastPurchase != nil:
		out.LastFuelPrice = lastLog.FuelPricePerLiter
		if lastPurchaseDay.After(lastLogDay) {
			out.LastFuelPrice = lastPurchase.PricePerLiter
		}
	case lastLog != nil:
		out.LastFuelPrice = lastLog.FuelPricePerLiter
	case lastPurchase != nil:
		out.LastFuelPrice = lastPurchase.PricePerLiter
	}

	return out
}
