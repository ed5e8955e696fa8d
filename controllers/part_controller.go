// File: /controllers/part_controller.go
package controllers

import (
	"net/http"

	"fueltrack-api/models"
	"fueltrack-api/utils"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type PartController struct {
	db *gorm.DB
}

func NewPartController(db *gorm.DB) *PartController {
	return &PartController{db: db}
}

type PartRequest struct {
	VehicleID   string          `json:"vehicle_id" binding:"required"`
	Type        models.PartType `json:"type" binding:"required"`
	Name        string          `json:"name" binding:"required"`
	InstallDate string          `json:"install_date"`
	InstallKm   int             `json:"install_km" binding:"gte=0"`
	LifespanKm  *int            `json:"lifespan_km" binding:"omitempty,gt=0"`
	IsActive    *bool           `json:"is_active"`
}

func (pc *PartController) bind(c *gin.Context, userID string) (*PartRequest, bool) {
	var req PartRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return nil, false
	}
	if !req.Type.IsValid() {
		utils.SendValidationError(c, "type must be one of tire, battery, pad, wiper, other")
		return nil, false
	}
	if req.InstallDate != "" && !utils.IsValidDate(req.InstallDate) {
		utils.SendValidationError(c, "install_date must be YYYY-MM-DD")
		return nil, false
	}
	if !vehicleOwned(pc.db, userID, req.VehicleID) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Vehicle not found or access denied"})
		return nil, false
	}
	return &req, true
}

func (req *PartRequest) apply(p *models.VehiclePart) {
	p.VehicleID = req.VehicleID
	p.Type = req.Type
	p.Name = req.Name
	p.InstallDate = req.InstallDate
	p.InstallKm = req.InstallKm
	p.LifespanKm = req.LifespanKm
	if req.IsActive != nil {
		p.IsActive = *req.IsActive
	}
}

func (pc *PartController) GetParts(c *gin.Context) {
	userID := c.GetString("user_id")

	query := pc.db.Where("user_id = ?", userID)
	if vehicleID := c.Query("vehicle_id"); vehicleID != "" {
		query = query.Where("vehicle_id = ?", vehicleID)
	}
	if partType := c.Query("type"); partType != "" {
		query = query.Where("type = ?", partType)
	}

	var parts []models.VehiclePart
	if err := query.Order("created_at ASC").Find(&parts).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch parts"})
		return
	}

	c.JSON(http.StatusOK, parts)
}

func (pc *PartController) CreatePart(c *gin.Context) {
	userID := c.GetString("user_id")

	req, ok := pc.bind(c, userID)
	if !ok {
		return
	}

	part := models.VehiclePart{
		ID:       uuid.New().String(),
		UserID:   userID,
		IsActive: true,
	}
	req.apply(&part)

	// explicit select so a false is_active is not replaced by the column default
	if err := pc.db.Select("*").Create(&part).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create part"})
		return
	}

	c.JSON(http.StatusCreated, part)
}

func (pc *PartController) UpdatePart(c *gin.Context) {
	userID := c.GetString("user_id")

	var part models.VehiclePart
	if err := pc.db.First(&part, "id = ? AND user_id = ?", c.Param("id"), userID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Part not found"})
		return
	}

	req, ok := pc.bind(c, userID)
	if !ok {
		return
	}
	req.apply(&part)

	if err := pc.db.Save(&part).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update part"})
		return
	}

	c.JSON(http.StatusOK, part)
}

// TogglePart mounts or stores a part
func (pc *PartController) TogglePart(c *gin.Context) {
	userID := c.GetString("user_id")

	var part models.VehiclePart
	if err := pc.db.First(&part, "id = ? AND user_id = ?", c.Param("id"), userID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Part not found"})
		return
	}

	part.IsActive = !part.IsActive
	if err := pc.db.Model(&part).Update("is_active", part.IsActive).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update part"})
		return
	}

	c.JSON(http.StatusOK, part)
}

func (pc *PartController) DeletePart(c *gin.Context) {
	userID := c.GetString("user_id")

	res := pc.db.Where("id = ? AND user_id = ?", c.Param("id"), userID).Delete(&models.VehiclePart{})
	if res.Error != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete part"})
		return
	}
	if res.RowsAffected == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Part not found"})
		return
	}

	utils.SendSuccess(c, "Part deleted successfully", nil)
}
