// File: /insights/budget.go
package insights

import (
	"time"

	"fueltrack-api/models"
	"fueltrack-api/stats"
)

type BudgetStatus struct {
	Budget         float64 `json:"budget"`
	Spent          float64 `json:"spent"`
	Remaining      float64 `json:"remaining"`
	UsedPercent    float64 `json:"used_percent"`
	ElapsedPercent float64 `json:"elapsed_percent"`
	RemainingDays  int     `json:"remaining_days"`
	DailyAllowance float64 `json:"daily_allowance"`
}

// BudgetFor sums this calendar month's purchases against the monthly budget
func BudgetFor(purchases []models.FuelPurchase, budget float64, now time.Time) BudgetStatus {
	var spent float64
	for _, p := range purchases {
		day, ok := parseDay(p.Date, now.Location())
		if ok && day.Year() == now.Year() && day.Month() == now.Month() {
			spent += p.TotalAmount
		}
	}

	total := daysInMonth(now)
	remainingDays := total - now.Day()

	status := BudgetStatus{
		Budget:         budget,
		Spent:          spent,
		Remaining:      budget - spent,
		UsedPercent:    stats.SafeDiv(spent, budget) * 100,
		ElapsedPercent: float64(now.Day()) / float64(total) * 100,
		RemainingDays:  remainingDays,
	}
	if status.Remaining > 0 {
		// include today in the allowance
		status.DailyAllowance = status.Remaining / float64(remainingDays+1)
	}
	return status
}
