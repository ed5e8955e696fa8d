// File: /models/user.go
package models

import (
	"strings"
	"time"
)

type User struct {
	ID        string    `json:"id" gorm:"primaryKey;size:191"`
	Name      string    `json:"name" gorm:"not null;size:255"`
	Email     string    `json:"email" gorm:"uniqueIndex;not null;size:255"`
	Password  string    `json:"-" gorm:"not null;size:255"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Relationships
	Vehicles []Vehicle     `json:"vehicles,omitempty" gorm:"foreignKey:UserID"`
	Settings *UserSettings `json:"settings,omitempty" gorm:"foreignKey:UserID"`
}

// UserSettings holds per-user knobs read by the insight rules
type UserSettings struct {
	UserID           string    `json:"user_id" gorm:"primaryKey;size:191"`
	MonthlyBudget    float64   `json:"monthly_budget" gorm:"default:0"`
	BudgetEnabled    bool      `json:"budget_enabled" gorm:"default:false"`
	MorningStartHour int       `json:"morning_start_hour"`
	MorningEndHour   int       `json:"morning_end_hour"`
	EveningStartHour int       `json:"evening_start_hour"`
	EveningEndHour   int       `json:"evening_end_hour"`
	DigestEmail      bool      `json:"digest_email"`
	DefaultVehicleID *string   `json:"default_vehicle_id,omitempty" gorm:"size:191"`
	UpdatedAt        time.Time `json:"updated_at"`
}

// DefaultUserSettings returns the settings used before a user saves their own
func DefaultUserSettings(userID string) UserSettings {
	return UserSettings{
		UserID:           userID,
		MorningStartHour: 7,
		MorningEndHour:   9,
		EveningStartHour: 18,
		EveningEndHour:   21,
		DigestEmail:      true,
	}
}

// ActiveBudget returns the monthly budget when budgeting is enabled, 0 otherwise
func (s *UserSettings) ActiveBudget() float64 {
	if !s.BudgetEnabled || s.MonthlyBudget <= 0 {
		return 0
	}
	return s.MonthlyBudget
}

// NormalizeEmail lowercases and trims an email address
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
