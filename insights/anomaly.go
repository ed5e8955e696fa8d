// File: /insights/anomaly.go
package insights

import (
	"sort"
	"time"

	"fueltrack-api/models"
)

type AnomalyKind string

const (
	AnomalyHighCost        AnomalyKind = "high_cost"
	AnomalyHighConsumption AnomalyKind = "high_consumption"
)

// AnomalyConfig holds the thresholds for outlier detection
type AnomalyConfig struct {
	MinLogs           int     // fewer logs yield no anomalies
	Window            int     // number of most recent logs examined
	MaxFlags          int     // flags returned, in recency order
	CostFactor        float64 // cost > factor × mean is flagged
	ConsumptionFactor float64 // rate > factor × mean is flagged
}

var DefaultAnomalyConfig = AnomalyConfig{
	MinLogs:           5,
	Window:            10,
	MaxFlags:          3,
	CostFactor:        2.0,
	ConsumptionFactor: 1.5,
}

type Anomaly struct {
	Log              models.TripLog `json:"log"`
	Kind             AnomalyKind    `json:"kind"`
	Value            float64        `json:"value"`
	Mean             float64        `json:"mean"`
	DeviationPercent float64        `json:"deviation_percent"`
}

// DetectAnomalies flags recent logs whose cost or consumption is far above the mean of all logs.
// Means use every supplied log; consumption mean only counts logs with a positive rate.
func DetectAnomalies(logs []models.TripLog, cfg AnomalyConfig) []Anomaly {
	result := make([]Anomaly, 0)
	if len(logs) < cfg.MinLogs {
		return result
	}

	var costSum, rateSum float64
	var rateCount int
	for _, l := range logs {
		costSum += l.TotalCost
		if l.ConsumptionRate > 0 {
			rateSum += l.ConsumptionRate
			rateCount++
		}
	}
	avgCost := costSum / float64(len(logs))
	var avgRate float64
	if rateCount > 0 {
		avgRate = rateSum / float64(rateCount)
	}

	for _, l := range mostRecent(logs, cfg.Window) {
		if avgCost > 0 && l.TotalCost > avgCost*cfg.CostFactor {
			result = append(result, Anomaly{
				Log:              l,
				Kind:             AnomalyHighCost,
				Value:            l.TotalCost,
				Mean:             avgCost,
				DeviationPercent: (l.TotalCost - avgCost) / avgCost * 100,
			})
		}
		if avgRate > 0 && l.ConsumptionRate > 0 && l.ConsumptionRate > avgRate*cfg.ConsumptionFactor {
			result = append(result, Anomaly{
				Log:              l,
				Kind:             AnomalyHighConsumption,
				Value:            l.ConsumptionRate,
				Mean:             avgRate,
				DeviationPercent: (l.ConsumptionRate - avgRate) / avgRate * 100,
			})
		}
	}

	if cfg.MaxFlags > 0 && len(result) > cfg.MaxFlags {
		result = result[:cfg.MaxFlags]
	}
	return result
}

// mostRecent returns up to n logs sorted newest first. Equal dates keep input order;
// logs with unparseable dates sort last.
func mostRecent(logs []models.TripLog, n int) []models.TripLog {
	type dated struct {
		log models.TripLog
		day time.Time
		ok  bool
	}

	items := make([]dated, len(logs))
	for i, l := range logs {
		day, ok := parseDay(l.Date, time.UTC)
		items[i] = dated{log: l, day: day, ok: ok}
	}

	sort.SliceStable(items, func(i, j int) bool {
		if items[i].ok != items[j].ok {
			return items[i].ok
		}
		return items[i].day.After(items[j].day)
	})

	if n > 0 && len(items) > n {
		items = items[:n]
	}
	out := make([]models.TripLog, len(items))
	for i := range items {
		out[i] = items[i].log
	}
	return out
}
