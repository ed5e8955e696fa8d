// File: /models/maintenance.go
package models

import (
	"time"
)

type TriggerType string

const (
	TriggerTypeKm   TriggerType = "km"
	TriggerTypeDate TriggerType = "date"
	TriggerTypeBoth TriggerType = "both"
)

const (
	DefaultNotifyBeforeKm   = 1000
	DefaultNotifyBeforeDays = 30
)

// MaintenanceItem is a recurring or one-off service reminder.
// Which optional fields are required depends on TriggerType.
type MaintenanceItem struct {
	ID                string      `json:"id" gorm:"primaryKey;size:191"`
	UserID            string      `json:"user_id" gorm:"not null;size:191"`
	VehicleID         string      `json:"vehicle_id" gorm:"not null;size:191"`
	Title             string      `json:"title" gorm:"not null;size:255"`
	TriggerType       TriggerType `json:"trigger_type" gorm:"not null;size:10;default:'km'"`
	IntervalKm        *int        `json:"interval_km,omitempty"`
	LastMaintenanceKm *int        `json:"last_maintenance_km,omitempty"`
	NextDueKm         *int        `json:"next_due_km,omitempty"`
	NotifyBeforeKm    *int        `json:"notify_before_km,omitempty"`
	DueDate           *string     `json:"due_date,omitempty" gorm:"size:10"`
	IntervalDays      *int        `json:"interval_days,omitempty"`
	NotifyBeforeDays  *int        `json:"notify_before_days,omitempty"`
	CreatedAt         time.Time   `json:"created_at"`
	UpdatedAt         time.Time   `json:"updated_at"`
}

func (t TriggerType) UsesKm() bool {
	return t == TriggerTypeKm || t == TriggerTypeBoth
}

func (t TriggerType) UsesDate() bool {
	return t == TriggerTypeDate || t == TriggerTypeBoth
}

func (t TriggerType) IsValid() bool {
	return t == TriggerTypeKm || t == TriggerTypeDate || t == TriggerTypeBoth
}

// ComputeNextDueKm sets NextDueKm from the last service and the interval when both are known
func (m *MaintenanceItem) ComputeNextDueKm() {
	if m.LastMaintenanceKm != nil && m.IntervalKm != nil {
		next := *m.LastMaintenanceKm + *m.IntervalKm
		m.NextDueKm = &next
	}
}

// NotifyKm returns the km look-ahead, falling back to the default
func (m *MaintenanceItem) NotifyKm() int {
	if m.NotifyBeforeKm != nil && *m.NotifyBeforeKm > 0 {
		return *m.NotifyBeforeKm
	}
	return DefaultNotifyBeforeKm
}

// NotifyDays returns the day look-ahead, falling back to the default
func (m *MaintenanceItem) NotifyDays() int {
	if m.NotifyBeforeDays != nil && *m.NotifyBeforeDays > 0 {
		return *m.NotifyBeforeDays
	}
	return DefaultNotifyBeforeDays
}

type PartType string

const (
	PartTypeTire    PartType = "tire"
	PartTypeBattery PartType = "battery"
	PartTypePad     PartType = "pad"
	PartTypeWiper   PartType = "wiper"
	PartTypeOther   PartType = "other"
)

func (p PartType) IsValid() bool {
	switch p {
	case PartTypeTire, PartTypeBattery, PartTypePad, PartTypeWiper, PartTypeOther:
		return true
	}
	return false
}

// VehiclePart is a physical part with a wear budget. IsActive matters for tires (mounted vs. stored).
type VehiclePart struct {
	ID          string    `json:"id" gorm:"primaryKey;size:191"`
	UserID      string    `json:"user_id" gorm:"not null;size:191"`
	VehicleID   string    `json:"vehicle_id" gorm:"not null;size:191"`
	Type        PartType  `json:"type" gorm:"not null;size:20"`
	Name        string    `json:"name" gorm:"not null;size:255"`
	InstallDate string    `json:"install_date" gorm:"size:10"`
	InstallKm   int       `json:"install_km" gorm:"not null"`
	LifespanKm  *int      `json:"lifespan_km,omitempty"`
	IsActive    bool      `json:"is_active" gorm:"default:true"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// DueKm returns installKm + lifespanKm, and false when the part has no lifespan
func (p *VehiclePart) DueKm() (int, bool) {
	if p.LifespanKm == nil || *p.LifespanKm <= 0 {
		return 0, false
	}
	return p.InstallKm + *p.LifespanKm, true
}
