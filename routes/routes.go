// File: /routes/routes.go
package routes

import (
	"net/http"

	"fueltrack-api/config"
	"fueltrack-api/controllers"
	"fueltrack-api/middleware"
	"fueltrack-api/repositories"
	"fueltrack-api/services"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// Dependencies are the services shared between controllers and background jobs
type Dependencies struct {
	Records        *repositories.RecordRepository
	InsightService *services.InsightService
	Mailer         controllers.WelcomeMailer
}

// SetupCORS allows browser clients from any origin
func SetupCORS() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}

func SetupRoutes(r *gin.Engine, db *gorm.DB, cfg *config.Config, deps Dependencies) {
	r.Use(middleware.ErrorHandler())
	r.Use(middleware.SecurityHeaders())
	r.Use(middleware.RateLimit(cfg.RateLimitPerMinute, cfg.RateLimitBurst))
	r.Use(middleware.ValidateJSON())

	// Controllers
	authController := controllers.NewAuthController(db, cfg.JWTSecret, deps.Mailer)
	userController := controllers.NewUserController(db)
	vehicleController := controllers.NewVehicleController(db)
	tripLogController := controllers.NewTripLogController(db)
	purchaseController := controllers.NewFuelPurchaseController(db)
	maintenanceController := controllers.NewMaintenanceController(db, deps.Records, deps.InsightService.Now, deps.InsightService.Location())
	partController := controllers.NewPartController(db)
	settingsController := controllers.NewSettingsController(deps.Records)
	insightController := controllers.NewInsightController(deps.InsightService)
	calculatorController := controllers.NewCalculatorController(db, deps.InsightService)

	r.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"message": "pong",
			"status":  "healthy",
		})
	})

	// API version 1
	v1 := r.Group("/api/v1")

	// Auth routes (public)
	auth := v1.Group("/auth")
	{
		auth.POST("/register", authController.Register)
		auth.POST("/login", authController.Login)
	}

	// Protected routes
	protected := v1.Group("/")
	protected.Use(middleware.AuthMiddleware(cfg.JWTSecret))
	{
		protected.GET("/auth/me", authController.Me)

		users := protected.Group("/users")
		{
			users.GET("/profile", userController.GetProfile)
			users.PUT("/profile", userController.UpdateProfile)
			users.PUT("/password", userController.ChangePassword)
			users.GET("/statistics", userController.GetStatistics)
		}

		vehicles := protected.Group("/vehicles")
		{
			vehicles.GET("", vehicleController.GetVehicles)
			vehicles.POST("", vehicleController.CreateVehicle)
			vehicles.PUT("/:id", vehicleController.UpdateVehicle)
			vehicles.DELETE("/:id", vehicleController.DeleteVehicle)
		}

		logs := protected.Group("/logs")
		{
			logs.GET("", middleware.PaginationDefaults(), tripLogController.GetLogs)
			logs.POST("", tripLogController.CreateLog)
			logs.GET("/:id", tripLogController.GetLog)
			logs.PUT("/:id", tripLogController.UpdateLog)
			logs.DELETE("/:id", tripLogController.DeleteLog)
		}

		purchases := protected.Group("/purchases")
		{
			purchases.GET("", middleware.PaginationDefaults(), purchaseController.GetPurchases)
			purchases.POST("", purchaseController.CreatePurchase)
			purchases.PUT("/:id", purchaseController.UpdatePurchase)
			purchases.DELETE("/:id", purchaseController.DeletePurchase)
		}

		maintenance := protected.Group("/maintenance")
		{
			maintenance.GET("", maintenanceController.GetItems)
			maintenance.POST("", maintenanceController.CreateItem)
			maintenance.PUT("/:id", maintenanceController.UpdateItem)
			maintenance.DELETE("/:id", maintenanceController.DeleteItem)
			maintenance.POST("/:id/complete", maintenanceController.CompleteItem)
		}

		parts := protected.Group("/parts")
		{
			parts.GET("", partController.GetParts)
			parts.POST("", partController.CreatePart)
			parts.PUT("/:id", partController.UpdatePart)
			parts.PUT("/:id/toggle", partController.TogglePart)
			parts.DELETE("/:id", partController.DeletePart)
		}

		protected.GET("/settings", settingsController.GetSettings)
		protected.PUT("/settings", settingsController.UpdateSettings)

		insights := protected.Group("/insights")
		{
			insights.GET("/aggregate", insightController.GetAggregate)
			insights.GET("/monthly", insightController.GetMonthly)
			insights.GET("/stats", insightController.GetStats)
			insights.GET("/dashboard", insightController.GetDashboard)
			insights.GET("/compare", insightController.GetComparison)
			insights.GET("/maintenance", insightController.GetMaintenance)
			insights.GET("/anomalies", insightController.GetAnomalies)
			insights.GET("/score", insightController.GetScore)
			insights.GET("/score/history", insightController.GetScoreHistory)
			insights.GET("/budget", insightController.GetBudget)
			insights.GET("/stations", insightController.GetStations)
			insights.GET("/nudges", insightController.GetNudges)
			insights.POST("/nudges/:id/dismiss", insightController.DismissNudge)
		}

		calculator := protected.Group("/calculator")
		{
			calculator.POST("/estimate", calculatorController.Estimate)
			calculator.GET("/history", calculatorController.GetHistory)
			calculator.DELETE("/history", calculatorController.ClearHistory)
		}
	}
}
