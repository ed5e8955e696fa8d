// File: /controllers/trip_log_controller.go
package controllers

import (
	"net/http"

	"fueltrack-api/models"
	"fueltrack-api/utils"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type TripLogController struct {
	db *gorm.DB
}

func NewTripLogController(db *gorm.DB) *TripLogController {
	return &TripLogController{db: db}
}

type TripLogRequest struct {
	VehicleID          string   `json:"vehicle_id" binding:"required"`
	Date               string   `json:"date" binding:"required"`
	OdometerReading    int      `json:"odometer_reading" binding:"gte=0"`
	DistanceTraveled   float64  `json:"distance_traveled" binding:"gte=0"`
	FuelConsumedLiters float64  `json:"fuel_consumed_liters" binding:"gte=0"`
	FuelPricePerLiter  float64  `json:"fuel_price_per_liter" binding:"gte=0"`
	ConsumptionRate    float64  `json:"consumption_rate" binding:"gte=0"`
	Station            *string  `json:"station"`
	AverageSpeed       *float64 `json:"average_speed" binding:"omitempty,gte=0"`
	IsRefuelDay        bool     `json:"is_refuel_day"`
	Notes              *string  `json:"notes"`
}

// apply copies the request onto the log and recomputes the derived fields
func (req *TripLogRequest) apply(l *models.TripLog) {
	l.VehicleID = req.VehicleID
	l.Date = req.Date
	l.OdometerReading = req.OdometerReading
	l.DistanceTraveled = req.DistanceTraveled
	l.FuelConsumedLiters = req.FuelConsumedLiters
	l.FuelPricePerLiter = req.FuelPricePerLiter
	l.ConsumptionRate = req.ConsumptionRate
	l.Station = req.Station
	l.AverageSpeed = req.AverageSpeed
	l.IsRefuelDay = req.IsRefuelDay
	l.Notes = req.Notes
	l.Recalculate()
}

func (tc *TripLogController) bind(c *gin.Context, userID string) (*TripLogRequest, bool) {
	var req TripLogRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return nil, false
	}
	if !utils.IsValidDate(req.Date) {
		utils.SendValidationError(c, "date must be YYYY-MM-DD")
		return nil, false
	}
	if !vehicleOwned(tc.db, userID, req.VehicleID) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Vehicle not found or access denied"})
		return nil, false
	}
	return &req, true
}

// GetLogs lists logs newest first, optionally for one vehicle and a date range
func (tc *TripLogController) GetLogs(c *gin.Context) {
	userID := c.GetString("user_id")
	page, limit := pageParams(c)

	query := tc.db.Model(&models.TripLog{}).Where("user_id = ?", userID)
	if vehicleID := c.Query("vehicle_id"); vehicleID != "" {
		query = query.Where("vehicle_id = ?", vehicleID)
	}
	if from := c.Query("from"); from != "" {
		query = query.Where("date >= ?", from)
	}
	if to := c.Query("to"); to != "" {
		query = query.Where("date <= ?", to)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to count logs"})
		return
	}

	var logs []models.TripLog
	if err := query.Order("date DESC, created_at DESC").
		Offset((page - 1) * limit).
		Limit(limit).
		Find(&logs).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch logs"})
		return
	}

	utils.SendPaginated(c, logs, page, limit, total)
}

func (tc *TripLogController) GetLog(c *gin.Context) {
	userID := c.GetString("user_id")

	var entry models.TripLog
	if err := tc.db.First(&entry, "id = ? AND user_id = ?", c.Param("id"), userID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Log not found"})
		return
	}

	c.JSON(http.StatusOK, entry)
}

func (tc *TripLogController) CreateLog(c *gin.Context) {
	userID := c.GetString("user_id")

	req, ok := tc.bind(c, userID)
	if !ok {
		return
	}

	entry := models.TripLog{
		ID:     uuid.New().String(),
		UserID: userID,
	}
	req.apply(&entry)

	if err := tc.db.Create(&entry).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create log"})
		return
	}

	c.JSON(http.StatusCreated, entry)
}

func (tc *TripLogController) UpdateLog(c *gin.Context) {
	userID := c.GetString("user_id")

	var entry models.TripLog
	if err := tc.db.First(&entry, "id = ? AND user_id = ?", c.Param("id"), userID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Log not found"})
		return
	}

	req, ok := tc.bind(c, userID)
	if !ok {
		return
	}
	req.apply(&entry)

	if err := tc.db.Save(&entry).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update log"})
		return
	}

	c.JSON(http.StatusOK, entry)
}

func (tc *TripLogController) DeleteLog(c *gin.Context) {
	userID := c.GetString("user_id")

	res := tc.db.Where("id = ? AND user_id = ?", c.Param("id"), userID).Delete(&models.TripLog{})
	if res.Error != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete log"})
		return
	}
	if res.RowsAffected == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Log not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Log deleted successfully"})
}
