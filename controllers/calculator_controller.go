// File: /controllers/calculator_controller.go
package controllers

import (
	"math"
	"net/http"

	"fueltrack-api/models"
	"fueltrack-api/services"
	"fueltrack-api/utils"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type CalculatorController struct {
	db             *gorm.DB
	insightService *services.InsightService
}

func NewCalculatorController(db *gorm.DB, insightService *services.InsightService) *CalculatorController {
	return &CalculatorController{db: db, insightService: insightService}
}

// EstimateRequest omits consumption_rate or price_per_liter to use the user's own history
type EstimateRequest struct {
	VehicleID       string  `json:"vehicle_id"`
	RouteName       string  `json:"route_name"`
	DistanceKm      float64 `json:"distance_km" binding:"required,gt=0"`
	ConsumptionRate float64 `json:"consumption_rate" binding:"gte=0"`
	PricePerLiter   float64 `json:"price_per_liter" binding:"gte=0"`
	OtherCosts      float64 `json:"other_costs" binding:"gte=0"`
	Save            bool    `json:"save"`
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// Estimate predicts fuel and cost for a planned trip and optionally saves it
func (cc *CalculatorController) Estimate(c *gin.Context) {
	userID := c.GetString("user_id")

	var req EstimateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if req.ConsumptionRate == 0 || req.PricePerLiter == 0 {
		rate, price, err := cc.insightService.EstimateDefaults(c.Request.Context(), userID, req.VehicleID)
		if err != nil {
			respondError(c, err)
			return
		}
		if req.ConsumptionRate == 0 {
			req.ConsumptionRate = rate
		}
		if req.PricePerLiter == 0 {
			req.PricePerLiter = price
		}
	}

	if !utils.IsValidEstimateInput(req.DistanceKm, req.PricePerLiter, req.ConsumptionRate) {
		utils.SendValidationError(c, "distance must be 0-10000 km, consumption 0-50 L/100km and price positive")
		return
	}

	fuelNeeded := req.DistanceKm * req.ConsumptionRate / 100
	fuelCost := fuelNeeded * req.PricePerLiter
	totalCost := fuelCost + req.OtherCosts

	estimate := models.TripEstimate{
		ID:              uuid.New().String(),
		UserID:          userID,
		VehicleID:       req.VehicleID,
		RouteName:       req.RouteName,
		DistanceKm:      req.DistanceKm,
		ConsumptionRate: req.ConsumptionRate,
		PricePerLiter:   req.PricePerLiter,
		OtherCosts:      req.OtherCosts,
		FuelNeeded:      round2(fuelNeeded),
		TotalCost:       round2(totalCost),
	}

	if req.Save {
		if err := cc.db.Create(&estimate).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save estimate"})
			return
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"estimate":    estimate,
		"fuel_cost":   round2(fuelCost),
		"cost_per_km": round2(totalCost / req.DistanceKm),
		"saved":       req.Save,
	})
}

func (cc *CalculatorController) GetHistory(c *gin.Context) {
	userID := c.GetString("user_id")

	var estimates []models.TripEstimate
	if err := cc.db.Where("user_id = ?", userID).Order("created_at DESC").Limit(20).Find(&estimates).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch estimate history"})
		return
	}

	c.JSON(http.StatusOK, estimates)
}

func (cc *CalculatorController) ClearHistory(c *gin.Context) {
	userID := c.GetString("user_id")

	if err := cc.db.Where("user_id = ?", userID).Delete(&models.TripEstimate{}).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to clear estimate history"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Estimate history cleared successfully"})
}
