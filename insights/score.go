// File: /insights/score.go
package insights

import (
	"math"
	"sort"
	"time"

	"fueltrack-api/models"
	"fueltrack-api/stats"
)

const (
	scoreWindowDays      = 30
	scoreMinLogs         = 3
	referenceConsumption = 8.0
	efficiencyPerLiter   = 10.0
	consistencyPerStdDev = 20.0
	trendBaseline        = 75.0
	trendPerPercent      = 2.0
	costAwarenessDefault = 70.0
	costAwarenessFloor   = 50.0
	costAwarenessMinBuys = 2
	weightEfficiency     = 0.35
	weightConsistency    = 0.25
	weightTrend          = 0.20
	weightCostAwareness  = 0.20
)

type SubScores struct {
	Efficiency    float64 `json:"efficiency"`
	Consistency   float64 `json:"consistency"`
	Trend         float64 `json:"trend"`
	CostAwareness float64 `json:"cost_awareness"`
}

// Score is the composite 0-100 driving score for the trailing 30 days
type Score struct {
	Overall    int       `json:"overall"`
	Grade      string    `json:"grade"`
	SubScores  SubScores `json:"sub_scores"`
	SampleSize int       `json:"sample_size"`
}

// GradeFor maps an overall score to its letter grade
func GradeFor(overall int) string {
	switch {
	case overall >= 90:
		return "A+"
	case overall >= 80:
		return "A"
	case overall >= 70:
		return "B"
	case overall >= 60:
		return "C"
	default:
		return "D"
	}
}

// ComputeScore returns nil when fewer than 3 logs fall in the trailing 30 days.
func ComputeScore(logs []models.TripLog, purchases []models.FuelPurchase, now time.Time) *Score {
	today := startOfDay(now)
	from := addDays(today, -scoreWindowDays)

	type dated struct {
		rate float64
		day  time.Time
	}
	window := make([]dated, 0, len(logs))
	for _, l := range logs {
		day, ok := parseDay(l.Date, now.Location())
		if ok && withinDays(day, from, today) {
			window = append(window, dated{rate: l.ConsumptionRate, day: day})
		}
	}
	if len(window) < scoreMinLogs {
		return nil
	}

	sort.SliceStable(window, func(i, j int) bool {
		return window[i].day.Before(window[j].day)
	})
	rates := make([]float64, len(window))
	for i, d := range window {
		rates[i] = d.rate
	}

	mean, stdDev := stats.MeanStdDev(rates)
	sub := SubScores{
		Efficiency:    stats.Clamp(100-(mean-referenceConsumption)*efficiencyPerLiter, 0, 100),
		Consistency:   stats.Clamp(100-stdDev*consistencyPerStdDev, 0, 100),
		Trend:         trendScore(rates),
		CostAwareness: costAwarenessScore(purchases, from, today),
	}

	overall := sub.Efficiency*weightEfficiency +
		sub.Consistency*weightConsistency +
		sub.Trend*weightTrend +
		sub.CostAwareness*weightCostAwareness
	rounded := int(math.Round(stats.Clamp(overall, 0, 100)))

	return &Score{
		Overall:    rounded,
		Grade:      GradeFor(rounded),
		SubScores:  sub,
		SampleSize: len(window),
	}
}

// trendScore compares the mean rate of the later half with the earlier half (chronological input).
func trendScore(rates []float64) float64 {
	half := len(rates) / 2
	if half == 0 {
		return trendBaseline
	}
	first := stats.Mean(rates[:half])
	second := stats.Mean(rates[half:])
	if first <= 0 {
		return trendBaseline
	}

	improvement := (first - second) / first * 100
	return stats.Clamp(trendBaseline+improvement*trendPerPercent, 0, 100)
}

// costAwarenessScore places the 30-day mean price between the all-time cheapest (100) and dearest (50).
func costAwarenessScore(purchases []models.FuelPurchase, from, today time.Time) float64 {
	var recent []float64
	minPrice, maxPrice := math.Inf(1), math.Inf(-1)

	for _, p := range purchases {
		if p.PricePerLiter < minPrice {
			minPrice = p.PricePerLiter
		}
		if p.PricePerLiter > maxPrice {
			maxPrice = p.PricePerLiter
		}
		if day, ok := parseDay(p.Date, today.Location()); ok && withinDays(day, from, today) {
			recent = append(recent, p.PricePerLiter)
		}
	}

	if len(recent) < costAwarenessMinBuys || maxPrice <= minPrice {
		return costAwarenessDefault
	}

	avg := stats.Mean(recent)
	position := (avg - minPrice) / (maxPrice - minPrice)
	return stats.Clamp(100-position*(100-costAwarenessFloor), costAwarenessFloor, 100)
}
