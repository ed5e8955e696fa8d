// File: /models/trip_log.go
package models

import (
	"time"
)

// DateLayout is the calendar-day format used by every dated record
const DateLayout = "2006-01-02"

type TripLog struct {
	ID                 string    `json:"id" gorm:"primaryKey;size:191"`
	UserID             string    `json:"user_id" gorm:"not null;size:191"`
	VehicleID          string    `json:"vehicle_id" gorm:"not null;size:191"`
	Date               string    `json:"date" gorm:"not null;size:10"`
	OdometerReading    int       `json:"odometer_reading" gorm:"not null"`
	DistanceTraveled   float64   `json:"distance_traveled" gorm:"default:0"`
	FuelConsumedLiters float64   `json:"fuel_consumed_liters" gorm:"default:0"`
	FuelPricePerLiter  float64   `json:"fuel_price_per_liter" gorm:"default:0"`
	TotalCost          float64   `json:"total_cost" gorm:"default:0"`
	CostPerKm          float64   `json:"cost_per_km" gorm:"default:0"`
	ConsumptionRate    float64   `json:"consumption_rate" gorm:"default:0"` // L/100km
	Station            *string   `json:"station,omitempty" gorm:"size:255"`
	AverageSpeed       *float64  `json:"average_speed,omitempty"`
	IsRefuelDay        bool      `json:"is_refuel_day" gorm:"default:false"`
	Notes              *string   `json:"notes,omitempty" gorm:"type:text"`
	CreatedAt          time.Time `json:"created_at"`
	UpdatedAt          time.Time `json:"updated_at"`
}

// Recalculate fills the derived fields from distance, fuel and price.
// When no fuel volume is given it is derived from the consumption rate.
func (l *TripLog) Recalculate() {
	if l.FuelConsumedLiters == 0 && l.ConsumptionRate > 0 {
		l.FuelConsumedLiters = l.DistanceTraveled * l.ConsumptionRate / 100
	}

	l.TotalCost = l.FuelConsumedLiters * l.FuelPricePerLiter

	l.CostPerKm = 0
	if l.DistanceTraveled > 0 {
		l.CostPerKm = l.TotalCost / l.DistanceTraveled
	}

	l.ConsumptionRate = 0
	if l.DistanceTraveled > 0 && l.FuelConsumedLiters > 0 {
		l.ConsumptionRate = l.FuelConsumedLiters / l.DistanceTraveled * 100
	}
}
