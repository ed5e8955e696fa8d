// File: /controllers/maintenance_controller.go
package controllers

import (
	"net/http"
	"time"

	"fueltrack-api/insights"
	"fueltrack-api/models"
	"fueltrack-api/repositories"
	"fueltrack-api/utils"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type MaintenanceController struct {
	db      *gorm.DB
	records *repositories.RecordRepository
	now     func() time.Time
	loc     *time.Location
}

// NewMaintenanceController takes the clock used to date completions
func NewMaintenanceController(db *gorm.DB, records *repositories.RecordRepository, now func() time.Time, loc *time.Location) *MaintenanceController {
	if now == nil {
		now = time.Now
	}
	return &MaintenanceController{db: db, records: records, now: now, loc: loc}
}

type MaintenanceRequest struct {
	VehicleID         string             `json:"vehicle_id" binding:"required"`
	Title             string             `json:"title" binding:"required"`
	TriggerType       models.TriggerType `json:"trigger_type" binding:"required,oneof=km date both"`
	IntervalKm        *int               `json:"interval_km" binding:"omitempty,gt=0"`
	LastMaintenanceKm *int               `json:"last_maintenance_km" binding:"omitempty,gte=0"`
	NextDueKm         *int               `json:"next_due_km" binding:"omitempty,gte=0"`
	NotifyBeforeKm    *int               `json:"notify_before_km" binding:"omitempty,gte=0"`
	DueDate           *string            `json:"due_date"`
	IntervalDays      *int               `json:"interval_days" binding:"omitempty,gt=0"`
	NotifyBeforeDays  *int               `json:"notify_before_days" binding:"omitempty,gte=0"`
}

type CompleteMaintenanceRequest struct {
	OdometerKm *int    `json:"odometer_km" binding:"omitempty,gte=0"`
	IntervalKm *int    `json:"interval_km" binding:"omitempty,gt=0"`
	Date       *string `json:"date"`
}

func (req *MaintenanceRequest) apply(item *models.MaintenanceItem) {
	item.VehicleID = req.VehicleID
	item.Title = req.Title
	item.TriggerType = req.TriggerType
	item.IntervalKm = req.IntervalKm
	item.LastMaintenanceKm = req.LastMaintenanceKm
	item.NextDueKm = req.NextDueKm
	item.NotifyBeforeKm = req.NotifyBeforeKm
	item.DueDate = req.DueDate
	item.IntervalDays = req.IntervalDays
	item.NotifyBeforeDays = req.NotifyBeforeDays
	if item.NextDueKm == nil {
		item.ComputeNextDueKm()
	}
}

// validate rejects items the classifier could not evaluate
func (mc *MaintenanceController) validate(c *gin.Context, item *models.MaintenanceItem) bool {
	if _, err := insights.TriggerFor(*item, mc.loc); err != nil {
		utils.SendValidationError(c, err.Error())
		return false
	}
	return true
}

func (mc *MaintenanceController) GetItems(c *gin.Context) {
	userID := c.GetString("user_id")

	query := mc.db.Where("user_id = ?", userID)
	if vehicleID := c.Query("vehicle_id"); vehicleID != "" {
		query = query.Where("vehicle_id = ?", vehicleID)
	}

	var items []models.MaintenanceItem
	if err := query.Order("created_at ASC").Find(&items).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch maintenance items"})
		return
	}

	c.JSON(http.StatusOK, items)
}

func (mc *MaintenanceController) CreateItem(c *gin.Context) {
	userID := c.GetString("user_id")

	var req MaintenanceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if !vehicleOwned(mc.db, userID, req.VehicleID) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Vehicle not found or access denied"})
		return
	}

	item := models.MaintenanceItem{
		ID:     uuid.New().String(),
		UserID: userID,
	}
	req.apply(&item)
	if !mc.validate(c, &item) {
		return
	}

	if err := mc.db.Create(&item).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create maintenance item"})
		return
	}

	c.JSON(http.StatusCreated, item)
}

func (mc *MaintenanceController) UpdateItem(c *gin.Context) {
	userID := c.GetString("user_id")

	var item models.MaintenanceItem
	if err := mc.db.First(&item, "id = ? AND user_id = ?", c.Param("id"), userID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Maintenance item not found"})
		return
	}

	var req MaintenanceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if !vehicleOwned(mc.db, userID, req.VehicleID) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Vehicle not found or access denied"})
		return
	}

	req.apply(&item)
	if !mc.validate(c, &item) {
		return
	}

	if err := mc.db.Save(&item).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update maintenance item"})
		return
	}

	c.JSON(http.StatusOK, item)
}

func (mc *MaintenanceController) DeleteItem(c *gin.Context) {
	userID := c.GetString("user_id")

	res := mc.db.Where("id = ? AND user_id = ?", c.Param("id"), userID).Delete(&models.MaintenanceItem{})
	if res.Error != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete maintenance item"})
		return
	}
	if res.RowsAffected == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Maintenance item not found"})
		return
	}

	utils.SendSuccess(c, "Maintenance item deleted successfully", nil)
}

// CompleteItem records a service: the last service km moves to the given or current odometer,
// the next due km follows the interval and a date interval restarts from the completion day.
func (mc *MaintenanceController) CompleteItem(c *gin.Context) {
	userID := c.GetString("user_id")

	var item models.MaintenanceItem
	if err := mc.db.First(&item, "id = ? AND user_id = ?", c.Param("id"), userID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Maintenance item not found"})
		return
	}

	var req CompleteMaintenanceRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
	}

	doneDay := mc.now().In(mc.loc)
	if req.Date != nil {
		parsed, err := time.ParseInLocation(models.DateLayout, *req.Date, mc.loc)
		if err != nil {
			utils.SendValidationError(c, "date must be YYYY-MM-DD")
			return
		}
		doneDay = parsed
	}

	var odometer int
	if req.OdometerKm != nil {
		odometer = *req.OdometerKm
	} else {
		current, err := mc.records.CurrentOdometer(userID, item.VehicleID)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to read odometer"})
			return
		}
		odometer = current
	}

	if req.IntervalKm != nil {
		item.IntervalKm = req.IntervalKm
	}
	if item.TriggerType.UsesKm() {
		item.LastMaintenanceKm = &odometer
		if item.IntervalKm != nil {
			item.ComputeNextDueKm()
		} else if item.NextDueKm != nil && *item.NextDueKm < odometer {
			item.NextDueKm = &odometer
		}
	}
	if item.TriggerType.UsesDate() && item.IntervalDays != nil {
		due := doneDay.AddDate(0, 0, *item.IntervalDays).Format(models.DateLayout)
		item.DueDate = &due
	}

	if !mc.validate(c, &item) {
		return
	}

	if err := mc.db.Save(&item).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to complete maintenance item"})
		return
	}

	c.JSON(http.StatusOK, item)
}
