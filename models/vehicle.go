// File: /models/vehicle.go
package models

import (
	"time"
)

type FuelType string

const (
	FuelTypeGasoline FuelType = "gasoline"
	FuelTypeDiesel   FuelType = "diesel"
	FuelTypeLPG      FuelType = "lpg"
	FuelTypeHybrid   FuelType = "hybrid"
)

type Vehicle struct {
	ID        string    `json:"id" gorm:"primaryKey;size:191"`
	UserID    string    `json:"user_id" gorm:"not null;size:191"`
	Name      string    `json:"name" gorm:"not null;size:100"`
	Brand     string    `json:"brand" gorm:"size:100"`
	Model     string    `json:"model" gorm:"size:100"`
	Year      string    `json:"year" gorm:"size:4"`
	FuelType  FuelType  `json:"fuel_type" gorm:"size:20;default:'gasoline'"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
