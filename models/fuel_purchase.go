// File: /models/fuel_purchase.go
package models

import (
	"time"
)

type FuelPurchase struct {
	ID            string    `json:"id" gorm:"primaryKey;size:191"`
	UserID        string    `json:"user_id" gorm:"not null;size:191"`
	VehicleID     string    `json:"vehicle_id" gorm:"not null;size:191"`
	Date          string    `json:"date" gorm:"not null;size:10"`
	Station       *string   `json:"station,omitempty" gorm:"size:255"`
	City          *string   `json:"city,omitempty" gorm:"size:100"`
	Liters        float64   `json:"liters" gorm:"not null"`
	PricePerLiter float64   `json:"price_per_liter" gorm:"not null"`
	TotalAmount   float64   `json:"total_amount" gorm:"not null"`
	Latitude      *float64  `json:"latitude,omitempty"`
	Longitude     *float64  `json:"longitude,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// HasLocation reports whether the purchase carries coordinates
func (p *FuelPurchase) HasLocation() bool {
	return p.Latitude != nil && p.Longitude != nil
}
