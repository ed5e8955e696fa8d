// File: /models/calculator.go
package models

import (
	"time"
)

// TripEstimate is a saved fuel/cost estimate for a planned trip
type TripEstimate struct {
	ID              string    `json:"id" gorm:"primaryKey;size:191"`
	UserID          string    `json:"user_id" gorm:"not null;size:191"`
	VehicleID       string    `json:"vehicle_id" gorm:"size:191"`
	RouteName       string    `json:"route_name" gorm:"size:255"`
	DistanceKm      float64   `json:"distance_km" gorm:"not null"`
	ConsumptionRate float64   `json:"consumption_rate" gorm:"not null"`
	PricePerLiter   float64   `json:"price_per_liter" gorm:"not null"`
	OtherCosts      float64   `json:"other_costs" gorm:"default:0"`
	FuelNeeded      float64   `json:"fuel_needed_liters"`
	TotalCost       float64   `json:"total_cost" gorm:"not null"`
	CreatedAt       time.Time `json:"created_at"`
}
