// File: /controllers/settings_controller.go
package controllers

import (
	"net/http"

	"fueltrack-api/repositories"
	"fueltrack-api/utils"
	"github.com/gin-gonic/gin"
)

type SettingsController struct {
	records *repositories.RecordRepository
}

func NewSettingsController(records *repositories.RecordRepository) *SettingsController {
	return &SettingsController{records: records}
}

// SettingsRequest is a partial update; omitted fields keep their value
type SettingsRequest struct {
	MonthlyBudget    *float64 `json:"monthly_budget" binding:"omitempty,gte=0"`
	BudgetEnabled    *bool    `json:"budget_enabled"`
	MorningStartHour *int     `json:"morning_start_hour" binding:"omitempty,gte=0,lte=23"`
	MorningEndHour   *int     `json:"morning_end_hour" binding:"omitempty,gte=1,lte=24"`
	EveningStartHour *int     `json:"evening_start_hour" binding:"omitempty,gte=0,lte=23"`
	EveningEndHour   *int     `json:"evening_end_hour" binding:"omitempty,gte=1,lte=24"`
	DigestEmail      *bool    `json:"digest_email"`
	DefaultVehicleID *string  `json:"default_vehicle_id"`
}

func (sc *SettingsController) GetSettings(c *gin.Context) {
	settings, err := sc.records.GetSettings(c.GetString("user_id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, settings)
}

func (sc *SettingsController) UpdateSettings(c *gin.Context) {
	userID := c.GetString("user_id")

	var req SettingsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	settings, err := sc.records.GetSettings(userID)
	if err != nil {
		respondError(c, err)
		return
	}

	if req.MonthlyBudget != nil {
		settings.MonthlyBudget = *req.MonthlyBudget
	}
	if req.BudgetEnabled != nil {
		settings.BudgetEnabled = *req.BudgetEnabled
	}
	if req.MorningStartHour != nil {
		settings.MorningStartHour = *req.MorningStartHour
	}
	if req.MorningEndHour != nil {
		settings.MorningEndHour = *req.MorningEndHour
	}
	if req.EveningStartHour != nil {
		settings.EveningStartHour = *req.EveningStartHour
	}
	if req.EveningEndHour != nil {
		settings.EveningEndHour = *req.EveningEndHour
	}
	if req.DigestEmail != nil {
		settings.DigestEmail = *req.DigestEmail
	}
	if req.DefaultVehicleID != nil {
		if *req.DefaultVehicleID == "" {
			settings.DefaultVehicleID = nil
		} else {
			ok, err := sc.records.VehicleExists(userID, *req.DefaultVehicleID)
			if err != nil {
				respondError(c, err)
				return
			}
			if !ok {
				c.JSON(http.StatusNotFound, gin.H{"error": "Vehicle not found or access denied"})
				return
			}
			settings.DefaultVehicleID = req.DefaultVehicleID
		}
	}

	if settings.MorningEndHour <= settings.MorningStartHour || settings.EveningEndHour <= settings.EveningStartHour {
		utils.SendValidationError(c, "hour windows must end after they start")
		return
	}
	if settings.BudgetEnabled && settings.MonthlyBudget <= 0 {
		utils.SendValidationError(c, "monthly_budget must be positive when the budget is enabled")
		return
	}

	if err := sc.records.SaveSettings(settings); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, settings)
}
