// File: /controllers/helpers.go
package controllers

import (
	"errors"
	"net/http"
	"strconv"

	"fueltrack-api/services"
	"fueltrack-api/utils"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// pageParams reads page and limit set by middleware.PaginationDefaults
func pageParams(c *gin.Context) (int, int) {
	page, err := strconv.Atoi(c.DefaultQuery("page", "1"))
	if err != nil || page < 1 {
		page = 1
	}
	limit, err := strconv.Atoi(c.DefaultQuery("limit", "10"))
	if err != nil || limit < 1 {
		limit = 10
	}
	return page, limit
}

// respondError maps service and gorm errors to HTTP responses.
// Unknown errors are attached to the context for middleware.ErrorHandler.
func respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrNotFound), errors.Is(err, gorm.ErrRecordNotFound):
		utils.SendError(c, http.StatusNotFound, "Not found")
	case errors.Is(err, services.ErrInvalidInterval), errors.Is(err, services.ErrEmptyNudgeID):
		utils.SendValidationError(c, err.Error())
	default:
		_ = c.Error(err)
	}
}

// vehicleOwned checks that the vehicle exists and belongs to the user
func vehicleOwned(db *gorm.DB, userID, vehicleID string) bool {
	var count int64
	db.Table("vehicles").Where("id = ? AND user_id = ?", vehicleID, userID).Count(&count)
	return count > 0
}
