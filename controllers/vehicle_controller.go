// File: /controllers/vehicle_controller.go
package controllers

import (
	"net/http"

	"fueltrack-api/models"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type VehicleController struct {
	db *gorm.DB
}

func NewVehicleController(db *gorm.DB) *VehicleController {
	return &VehicleController{db: db}
}

type VehicleRequest struct {
	Name     string          `json:"name" binding:"required"`
	Brand    string          `json:"brand"`
	Model    string          `json:"model"`
	Year     string          `json:"year" binding:"omitempty,len=4,numeric"`
	FuelType models.FuelType `json:"fuel_type" binding:"omitempty,oneof=gasoline diesel lpg hybrid"`
}

func (vc *VehicleController) GetVehicles(c *gin.Context) {
	userID := c.GetString("user_id")

	var vehicles []models.Vehicle
	if err := vc.db.Where("user_id = ?", userID).Order("created_at ASC").Find(&vehicles).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch vehicles"})
		return
	}

	c.JSON(http.StatusOK, vehicles)
}

func (vc *VehicleController) CreateVehicle(c *gin.Context) {
	userID := c.GetString("user_id")

	var req VehicleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	fuelType := req.FuelType
	if fuelType == "" {
		fuelType = models.FuelTypeGasoline
	}

	vehicle := models.Vehicle{
		ID:       uuid.New().String(),
		UserID:   userID,
		Name:     req.Name,
		Brand:    req.Brand,
		Model:    req.Model,
		Year:     req.Year,
		FuelType: fuelType,
	}

	if err := vc.db.Create(&vehicle).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create vehicle"})
		return
	}

	c.JSON(http.StatusCreated, vehicle)
}

func (vc *VehicleController) UpdateVehicle(c *gin.Context) {
	userID := c.GetString("user_id")
	vehicleID := c.Param("id")

	var vehicle models.Vehicle
	if err := vc.db.First(&vehicle, "id = ? AND user_id = ?", vehicleID, userID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Vehicle not found or access denied"})
		return
	}

	var req VehicleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	updates := map[string]interface{}{
		"name":  req.Name,
		"brand": req.Brand,
		"model": req.Model,
		"year":  req.Year,
	}
	if req.FuelType != "" {
		updates["fuel_type"] = req.FuelType
	}

	if err := vc.db.Model(&vehicle).Updates(updates).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update vehicle"})
		return
	}

	c.JSON(http.StatusOK, vehicle)
}

// DeleteVehicle removes the vehicle together with every record attached to it
func (vc *VehicleController) DeleteVehicle(c *gin.Context) {
	userID := c.GetString("user_id")
	vehicleID := c.Param("id")

	var vehicle models.Vehicle
	if err := vc.db.First(&vehicle, "id = ? AND user_id = ?", vehicleID, userID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Vehicle not found or access denied"})
		return
	}

	err := vc.db.Transaction(func(tx *gorm.DB) error {
		for _, model := range []interface{}{
			&models.TripLog{},
			&models.FuelPurchase{},
			&models.MaintenanceItem{},
			&models.VehiclePart{},
		} {
			if err := tx.Where("vehicle_id = ? AND user_id = ?", vehicleID, userID).Delete(model).Error; err != nil {
				return err
			}
		}
		return tx.Delete(&vehicle).Error
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete vehicle"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Vehicle deleted successfully"})
}
