// File: /database/database.go
package database

import (
	"fmt"
	"strings"
	"time"

	"fueltrack-api/models"
	gsqlite "github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// SQLitePrefix selects the embedded SQLite driver, e.g. sqlite://fueltrack.db
const SQLitePrefix = "sqlite://"

// Initialize opens MySQL, or SQLite when the URL starts with SQLitePrefix
func Initialize(databaseURL string) (*gorm.DB, error) {
	dialector := mysql.Open(databaseURL)
	if strings.HasPrefix(databaseURL, SQLitePrefix) {
		dialector = gsqlite.Open(strings.TrimPrefix(databaseURL, SQLitePrefix))
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger:                                   logger.Default.LogMode(logger.Warn),
		DisableForeignKeyConstraintWhenMigrating: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	return db, nil
}

func Migrate(db *gorm.DB) error {
	err := db.AutoMigrate(
		&models.User{},
		&models.UserSettings{},
		&models.Vehicle{},
		&models.TripLog{},
		&models.FuelPurchase{},
		&models.MaintenanceItem{},
		&models.VehiclePart{},
		&models.DismissedNudge{},
		&models.ScoreSnapshot{},
		&models.TripEstimate{},
	)
	if err != nil {
		return fmt.Errorf("failed to migrate database: %w", err)
	}

	addCustomIndexes(db)
	return nil
}

// addCustomIndexes creates the composite indexes behind the per-user, per-vehicle scans.
// Failures are only logged; the schema works without them.
func addCustomIndexes(db *gorm.DB) {
	indexes := []struct {
		name, table, columns string
	}{
		{"idx_trip_logs_user_vehicle_date", "trip_logs", "user_id, vehicle_id, date"},
		{"idx_fuel_purchases_user_vehicle_date", "fuel_purchases", "user_id, vehicle_id, date"},
		{"idx_maintenance_items_user_vehicle", "maintenance_items", "user_id, vehicle_id"},
		{"idx_vehicle_parts_user_vehicle", "vehicle_parts", "user_id, vehicle_id"},
		{"idx_vehicles_user", "vehicles", "user_id"},
		{"idx_trip_estimates_user_created", "trip_estimates", "user_id, created_at"},
	}

	migrator := db.Migrator()
	for _, idx := range indexes {
		if migrator.HasIndex(idx.table, idx.name) {
			continue
		}
		sql := fmt.Sprintf("CREATE INDEX %s ON %s(%s)", idx.name, idx.table, idx.columns)
		if err := db.Exec(sql).Error; err != nil {
			fmt.Printf("Warning: Could not create index %s: %v\n", idx.name, err)
		}
	}
}

// SeedData creates a demo account with a few weeks of history for development
func SeedData(db *gorm.DB) error {
	var userCount int64
	db.Model(&models.User{}).Count(&userCount)

	if userCount > 0 {
		fmt.Println("Database already has data, skipping seed")
		return nil
	}

	hash, err := bcrypt.GenerateFromPassword([]byte("Demo1234!"), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash demo password: %w", err)
	}

	user := models.User{
		ID:       "user-demo",
		Name:     "Demo Driver",
		Email:    "demo@fueltrack.app",
		Password: string(hash),
	}
	vehicle := models.Vehicle{
		ID:       "vehicle-demo",
		UserID:   user.ID,
		Name:     "Daily driver",
		Brand:    "Renault",
		Model:    "Clio",
		Year:     "2019",
		FuelType: models.FuelTypeGasoline,
	}
	settings := models.DefaultUserSettings(user.ID)
	settings.MonthlyBudget = 3000
	settings.BudgetEnabled = true

	today := time.Now()
	odometer := 42000
	var logs []models.TripLog
	var purchases []models.FuelPurchase
	station := "Main Street Station"

	for i := 20; i >= 0; i-- {
		day := today.AddDate(0, 0, -i).Format(models.DateLayout)
		distance := float64(30 + (i*7)%25)
		odometer += int(distance)

		l := models.TripLog{
			ID:                 uuid.New().String(),
			UserID:             user.ID,
			VehicleID:          vehicle.ID,
			Date:               day,
			OdometerReading:    odometer,
			DistanceTraveled:   distance,
			FuelConsumedLiters: distance * (6.5 + float64(i%4)*0.4) / 100,
			FuelPricePerLiter:  42.5,
			Station:            &station,
			IsRefuelDay:        i%7 == 0,
		}
		l.Recalculate()
		logs = append(logs, l)

		if l.IsRefuelDay {
			purchases = append(purchases, models.FuelPurchase{
				ID:            uuid.New().String(),
				UserID:        user.ID,
				VehicleID:     vehicle.ID,
				Date:          day,
				Station:       &station,
				Liters:        35,
				PricePerLiter: 42.5,
				TotalAmount:   35 * 42.5,
			})
		}
	}

	oilInterval, lastOil := 10000, 33000
	oil := models.MaintenanceItem{
		ID:                uuid.New().String(),
		UserID:            user.ID,
		VehicleID:         vehicle.ID,
		Title:             "Oil change",
		TriggerType:       models.TriggerTypeKm,
		IntervalKm:        &oilInterval,
		LastMaintenanceKm: &lastOil,
	}
	oil.ComputeNextDueKm()

	tireLife := 40000
	tire := models.VehiclePart{
		ID:          uuid.New().String(),
		UserID:      user.ID,
		VehicleID:   vehicle.ID,
		Type:        models.PartTypeTire,
		Name:        "Front tires",
		InstallDate: today.AddDate(-2, 0, 0).Format(models.DateLayout),
		InstallKm:   5000,
		LifespanKm:  &tireLife,
		IsActive:    true,
	}

	return db.Transaction(func(tx *gorm.DB) error {
		for _, record := range []interface{}{&user, &settings, &vehicle, &logs, &purchases, &oil, &tire} {
			if err := tx.Create(record).Error; err != nil {
				return fmt.Errorf("failed to seed %T: %w", record, err)
			}
		}
		fmt.Println("Database seeded with a demo account (demo@fueltrack.app)")
		return nil
	})
}
