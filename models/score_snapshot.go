// File: /models/score_snapshot.go
package models

import (
	"time"

	"gorm.io/datatypes"
)

// ScoreSnapshot stores a driving score computed by the digest job
type ScoreSnapshot struct {
	ID        string            `json:"id" gorm:"primaryKey;size:191"`
	UserID    string            `json:"user_id" gorm:"not null;size:191;index"`
	VehicleID string            `json:"vehicle_id,omitempty" gorm:"size:191"`
	Overall   int               `json:"overall"`
	Grade     string            `json:"grade" gorm:"size:2"`
	SubScores datatypes.JSONMap `json:"sub_scores"`
	Alerts    int               `json:"alerts"`
	CreatedAt time.Time         `json:"created_at"`
}
