// File: /main.go
package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"fueltrack-api/config"
	"fueltrack-api/database"
	"fueltrack-api/insights"
	"fueltrack-api/jobs"
	"fueltrack-api/middleware"
	"fueltrack-api/repositories"
	"fueltrack-api/routes"
	"fueltrack-api/services"
	"github.com/gin-gonic/gin"
)

func main() {
	// Load configuration
	cfg := config.Load()

	// Initialize database
	db, err := database.Initialize(cfg.DatabaseURL)
	if err != nil {
		log.Fatal("Failed to connect to database:", err)
	}

	// Run migrations
	if err := database.Migrate(db); err != nil {
		log.Fatal("Failed to migrate database:", err)
	}

	// Seed database with a demo account (development)
	if err := database.SeedData(db); err != nil {
		log.Printf("Warning: Failed to seed database: %v", err)
	}

	records := repositories.NewRecordRepository(db)

	// Redis is optional; without it the cache lives in process and dismissals in the database
	var (
		cache       services.AggregateCache
		dismissals  services.DismissalStore
		memoryCache *services.MemoryCache
		gormStore   *services.GormDismissalStore
	)
	if cfg.RedisAddr != "" {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		client, err := database.ConnectRedis(ctx, cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
		cancel()
		if err != nil {
			log.Printf("Warning: Redis unavailable, using in-process cache: %v", err)
		} else {
			defer client.Close()
			cache = services.NewRedisCache(client)
			dismissals = services.NewRedisDismissalStore(client)
		}
	}
	if cache == nil {
		memoryCache = services.NewMemoryCache()
		gormStore = services.NewGormDismissalStore(db)
		cache, dismissals = memoryCache, gormStore
	}

	opts := services.DefaultInsightOptions()
	opts.CacheTTL = cfg.CacheTTL()
	opts.Location = cfg.Location()
	opts.Maintenance = insights.MaintenanceConfig{UrgencyKmPerDay: cfg.UrgencyKmPerDay}
	opts.Anomaly.Window = cfg.AnomalyWindow
	opts.Anomaly.MaxFlags = cfg.AnomalyMaxFlags
	opts.Anomaly.CostFactor = cfg.AnomalyCostFactor
	opts.Anomaly.ConsumptionFactor = cfg.AnomalyConsumptionFactor

	insightService := services.NewInsightService(records, cache, dismissals, opts)
	emailService := services.NewEmailService(cfg)

	// Background jobs
	digestJob := jobs.NewMaintenanceDigestJob(records, insightService, emailService, cfg.DigestInterval())
	digestJob.Start()
	defer digestJob.Stop()

	if memoryCache != nil {
		cleanupJob := jobs.NewCacheCleanupJob(memoryCache, gormStore, insightService.Now, time.Hour)
		cleanupJob.Start()
		defer cleanupJob.Stop()
	}

	// Set Gin mode based on environment
	if cfg.Port == "8080" { // Development
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(routes.SetupCORS())
	router.Use(middleware.RequestLogger())
	router.Use(gin.Recovery())

	routes.SetupRoutes(router, db, cfg, routes.Dependencies{
		Records:        records,
		InsightService: insightService,
		Mailer:         emailService,
	})

	server := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
	}

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	log.Printf("Starting FuelTrack API server on port %s", cfg.Port)
	log.Printf("Health check available at: http://localhost:%s/ping", cfg.Port)
	if err := serve(server, stop, 10*time.Second); err != nil {
		log.Printf("Server error: %v", err)
		return
	}
	log.Println("Server stopped")
}

// serve runs server until it fails or a signal arrives on stop, then drains requests for up to grace.
// Listen errors are returned to the caller.
func serve(server *http.Server, stop <-chan os.Signal, grace time.Duration) error {
	serveErr := make(chan error, 1)
	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
	}()

	select {
	case err := <-serveErr:
		return fmt.Errorf("failed to start server: %w", err)
	case <-stop:
		log.Println("Shutdown signal received, draining requests...")
	}

	ctx, cancel := context.WithTimeout(context.Background(), grace)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}
	return nil
}
