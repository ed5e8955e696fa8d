// File: /controllers/insight_controller.go
package controllers

import (
	"net/http"
	"strconv"
	"time"

	"fueltrack-api/models"
	"fueltrack-api/services"
	"fueltrack-api/utils"
	"github.com/gin-gonic/gin"
)

type InsightController struct {
	insightService *services.InsightService
}

func NewInsightController(insightService *services.InsightService) *InsightController {
	return &InsightController{insightService: insightService}
}

func intQuery(c *gin.Context, key string, def int) int {
	v, err := strconv.Atoi(c.Query(key))
	if err != nil {
		return def
	}
	return v
}

// GetAggregate totals logs and purchases dated within ?start=&end= (YYYY-MM-DD, inclusive).
// Both default to the current month.
func (ic *InsightController) GetAggregate(c *gin.Context) {
	loc := ic.insightService.Location()
	now := ic.insightService.Now()

	start := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, loc)
	end := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, loc)

	if v := c.Query("start"); v != "" {
		parsed, err := time.ParseInLocation(models.DateLayout, v, loc)
		if err != nil {
			utils.SendValidationError(c, "start must be YYYY-MM-DD")
			return
		}
		start = parsed
	}
	if v := c.Query("end"); v != "" {
		parsed, err := time.ParseInLocation(models.DateLayout, v, loc)
		if err != nil {
			utils.SendValidationError(c, "end must be YYYY-MM-DD")
			return
		}
		end = parsed
	}

	agg, err := ic.insightService.Aggregate(c.Request.Context(), c.GetString("user_id"), c.Query("vehicle_id"), start, end)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, agg)
}

func (ic *InsightController) GetMonthly(c *gin.Context) {
	buckets, err := ic.insightService.Monthly(c.Request.Context(), c.GetString("user_id"), c.Query("vehicle_id"), intQuery(c, "limit", 0))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, buckets)
}

func (ic *InsightController) GetStats(c *gin.Context) {
	stats, err := ic.insightService.Stats(c.Request.Context(), c.GetString("user_id"), c.Query("vehicle_id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, stats)
}

func (ic *InsightController) GetDashboard(c *gin.Context) {
	report, err := ic.insightService.Dashboard(c.Request.Context(), c.GetString("user_id"), c.Query("vehicle_id"), intQuery(c, "year", 0))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, report)
}

func (ic *InsightController) GetComparison(c *gin.Context) {
	cmp, err := ic.insightService.Compare(c.Request.Context(), c.GetString("user_id"), c.Query("vehicle_id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, cmp)
}

func (ic *InsightController) GetMaintenance(c *gin.Context) {
	report, err := ic.insightService.Maintenance(c.Request.Context(), c.GetString("user_id"), c.Query("vehicle_id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, report)
}

func (ic *InsightController) GetAnomalies(c *gin.Context) {
	anomalies, err := ic.insightService.Anomalies(c.Request.Context(), c.GetString("user_id"), c.Query("vehicle_id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, anomalies)
}

func (ic *InsightController) GetScore(c *gin.Context) {
	score, err := ic.insightService.Score(c.Request.Context(), c.GetString("user_id"), c.Query("vehicle_id"))
	if err != nil {
		respondError(c, err)
		return
	}
	if score == nil {
		c.JSON(http.StatusOK, gin.H{
			"score":   nil,
			"message": "Log at least 3 trips in the last 30 days to get a driving score",
		})
		return
	}
	c.JSON(http.StatusOK, gin.H{"score": score})
}

func (ic *InsightController) GetScoreHistory(c *gin.Context) {
	history, err := ic.insightService.ScoreHistory(c.Request.Context(), c.GetString("user_id"), intQuery(c, "limit", 12))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, history)
}

func (ic *InsightController) GetNudges(c *gin.Context) {
	nudges, err := ic.insightService.Nudges(c.Request.Context(), c.GetString("user_id"), c.Query("vehicle_id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, nudges)
}

func (ic *InsightController) DismissNudge(c *gin.Context) {
	if err := ic.insightService.DismissNudge(c.Request.Context(), c.GetString("user_id"), c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	utils.SendSuccess(c, "Nudge dismissed for today", gin.H{"nudge_id": c.Param("id")})
}

func (ic *InsightController) GetBudget(c *gin.Context) {
	status, err := ic.insightService.Budget(c.Request.Context(), c.GetString("user_id"))
	if err != nil {
		respondError(c, err)
		return
	}
	if status == nil {
		c.JSON(http.StatusOK, gin.H{"enabled": false})
		return
	}
	c.JSON(http.StatusOK, gin.H{"enabled": true, "status": status})
}

func (ic *InsightController) GetStations(c *gin.Context) {
	report, err := ic.insightService.Stations(c.Request.Context(), c.GetString("user_id"), c.Query("vehicle_id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, report)
}
