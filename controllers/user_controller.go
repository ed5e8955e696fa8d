// File: /controllers/user_controller.go
package controllers

import (
	"net/http"

	"fueltrack-api/models"
	"fueltrack-api/utils"
	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type UserController struct {
	db *gorm.DB
}

func NewUserController(db *gorm.DB) *UserController {
	return &UserController{db: db}
}

func (uc *UserController) GetProfile(c *gin.Context) {
	userID := c.GetString("user_id")

	var user models.User
	if err := uc.db.Preload("Vehicles").Preload("Settings").First(&user, "id = ?", userID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return
	}

	c.JSON(http.StatusOK, user)
}

func (uc *UserController) UpdateProfile(c *gin.Context) {
	userID := c.GetString("user_id")

	var req struct {
		Name *string `json:"name" binding:"omitempty,min=1,max=255"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	updates := map[string]interface{}{}
	if req.Name != nil {
		updates["name"] = *req.Name
	}
	if len(updates) == 0 {
		utils.SendValidationError(c, "nothing to update")
		return
	}

	if err := uc.db.Model(&models.User{}).Where("id = ?", userID).Updates(updates).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update profile"})
		return
	}

	utils.SendSuccess(c, "Profile updated successfully", nil)
}

func (uc *UserController) ChangePassword(c *gin.Context) {
	userID := c.GetString("user_id")

	var req struct {
		CurrentPassword string `json:"current_password" binding:"required"`
		NewPassword     string `json:"new_password" binding:"required,min=6"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var user models.User
	if err := uc.db.First(&user, "id = ?", userID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.CurrentPassword)); err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Current password is incorrect"})
		return
	}
	if !utils.IsValidPassword(req.NewPassword) {
		utils.SendValidationError(c, "Password needs at least 3 of: upper case, lower case, digit, symbol")
		return
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to hash password"})
		return
	}
	if err := uc.db.Model(&user).Update("password", string(hashed)).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update password"})
		return
	}

	utils.SendSuccess(c, "Password changed successfully", nil)
}

// GetStatistics returns lifetime record counts and totals across all vehicles
func (uc *UserController) GetStatistics(c *gin.Context) {
	userID := c.GetString("user_id")

	var vehicles, logs, purchases, maintenance int64
	uc.db.Model(&models.Vehicle{}).Where("user_id = ?", userID).Count(&vehicles)
	uc.db.Model(&models.TripLog{}).Where("user_id = ?", userID).Count(&logs)
	uc.db.Model(&models.FuelPurchase{}).Where("user_id = ?", userID).Count(&purchases)
	uc.db.Model(&models.MaintenanceItem{}).Where("user_id = ?", userID).Count(&maintenance)

	var distance, spent float64
	uc.db.Model(&models.TripLog{}).Where("user_id = ?", userID).
		Select("COALESCE(SUM(distance_traveled), 0)").
		Scan(&distance)
	uc.db.Model(&models.FuelPurchase{}).Where("user_id = ?", userID).
		Select("COALESCE(SUM(total_amount), 0)").
		Scan(&spent)

	c.JSON(http.StatusOK, gin.H{
		"vehicles_count":    vehicles,
		"logs_count":        logs,
		"purchases_count":   purchases,
		"maintenance_count": maintenance,
		"total_distance":    distance,
		"total_spent":       spent,
	})
}
