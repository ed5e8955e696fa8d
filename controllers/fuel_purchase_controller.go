// File: /controllers/fuel_purchase_controller.go
package controllers

import (
	"math"
	"net/http"

	"fueltrack-api/models"
	"fueltrack-api/utils"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type FuelPurchaseController struct {
	db *gorm.DB
}

func NewFuelPurchaseController(db *gorm.DB) *FuelPurchaseController {
	return &FuelPurchaseController{db: db}
}

type FuelPurchaseRequest struct {
	VehicleID     string   `json:"vehicle_id" binding:"required"`
	Date          string   `json:"date" binding:"required"`
	Station       *string  `json:"station"`
	City          *string  `json:"city"`
	Liters        float64  `json:"liters" binding:"required,gt=0"`
	PricePerLiter float64  `json:"price_per_liter" binding:"required,gt=0"`
	TotalAmount   float64  `json:"total_amount" binding:"gte=0"`
	Latitude      *float64 `json:"latitude"`
	Longitude     *float64 `json:"longitude"`
}

func (req *FuelPurchaseRequest) apply(p *models.FuelPurchase) {
	p.VehicleID = req.VehicleID
	p.Date = req.Date
	p.Station = req.Station
	p.City = req.City
	p.Liters = req.Liters
	p.PricePerLiter = req.PricePerLiter
	p.TotalAmount = req.TotalAmount
	if p.TotalAmount == 0 {
		p.TotalAmount = math.Round(req.Liters*req.PricePerLiter*100) / 100
	}
	p.Latitude = req.Latitude
	p.Longitude = req.Longitude
}

func (fc *FuelPurchaseController) bind(c *gin.Context, userID string) (*FuelPurchaseRequest, bool) {
	var req FuelPurchaseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return nil, false
	}
	if !utils.IsValidDate(req.Date) {
		utils.SendValidationError(c, "date must be YYYY-MM-DD")
		return nil, false
	}
	if (req.Latitude == nil) != (req.Longitude == nil) {
		utils.SendValidationError(c, "latitude and longitude must be given together")
		return nil, false
	}
	if req.Latitude != nil && !utils.IsValidCoordinate(*req.Latitude, *req.Longitude) {
		utils.SendValidationError(c, "coordinates out of range")
		return nil, false
	}
	if !vehicleOwned(fc.db, userID, req.VehicleID) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Vehicle not found or access denied"})
		return nil, false
	}
	return &req, true
}

// GetPurchases lists purchases newest first, optionally for one vehicle
func (fc *FuelPurchaseController) GetPurchases(c *gin.Context) {
	userID := c.GetString("user_id")
	page, limit := pageParams(c)

	query := fc.db.Model(&models.FuelPurchase{}).Where("user_id = ?", userID)
	if vehicleID := c.Query("vehicle_id"); vehicleID != "" {
		query = query.Where("vehicle_id = ?", vehicleID)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to count purchases"})
		return
	}

	var purchases []models.FuelPurchase
	if err := query.Order("date DESC, created_at DESC").
		Offset((page - 1) * limit).
		Limit(limit).
		Find(&purchases).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch purchases"})
		return
	}

	utils.SendPaginated(c, purchases, page, limit, total)
}

func (fc *FuelPurchaseController) CreatePurchase(c *gin.Context) {
	userID := c.GetString("user_id")

	req, ok := fc.bind(c, userID)
	if !ok {
		return
	}

	purchase := models.FuelPurchase{
		ID:     uuid.New().String(),
		UserID: userID,
	}
	req.apply(&purchase)

	if err := fc.db.Create(&purchase).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create purchase"})
		return
	}

	c.JSON(http.StatusCreated, purchase)
}

func (fc *FuelPurchaseController) UpdatePurchase(c *gin.Context) {
	userID := c.GetString("user_id")

	var purchase models.FuelPurchase
	if err := fc.db.First(&purchase, "id = ? AND user_id = ?", c.Param("id"), userID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Purchase not found"})
		return
	}

	req, ok := fc.bind(c, userID)
	if !ok {
		return
	}
	req.apply(&purchase)

	if err := fc.db.Save(&purchase).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update purchase"})
		return
	}

	c.JSON(http.StatusOK, purchase)
}

func (fc *FuelPurchaseController) DeletePurchase(c *gin.Context) {
	userID := c.GetString("user_id")

	res := fc.db.Where("id = ? AND user_id = ?", c.Param("id"), userID).Delete(&models.FuelPurchase{})
	if res.Error != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete purchase"})
		return
	}
	if res.RowsAffected == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Purchase not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Purchase deleted successfully"})
}
