// File: /models/nudge.go
package models

import (
	"time"
)

// DismissedNudge records that a user hid a nudge for one calendar day
type DismissedNudge struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	UserID    string    `json:"user_id" gorm:"not null;size:191;uniqueIndex:uk_dismissed_nudges_user_nudge_day,priority:1"`
	NudgeID   string    `json:"nudge_id" gorm:"not null;size:191;uniqueIndex:uk_dismissed_nudges_user_nudge_day,priority:2"`
	Day       string    `json:"day" gorm:"not null;size:10;uniqueIndex:uk_dismissed_nudges_user_nudge_day,priority:3"`
	CreatedAt time.Time `json:"created_at"`
}
