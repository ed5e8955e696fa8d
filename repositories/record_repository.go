// File: /repositories/record_repository.go
package repositories

import (
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"

	"fueltrack-api/models"
	"gorm.io/gorm"
)

type RecordRepository struct {
	db *gorm.DB
}

func NewRecordRepository(db *gorm.DB) *RecordRepository {
	return &RecordRepository{db: db}
}

// Snapshot is everything the insight engine reads for one user, optionally narrowed to one vehicle
type Snapshot struct {
	Logs             []models.TripLog
	Purchases        []models.FuelPurchase
	MaintenanceItems []models.MaintenanceItem
	Parts            []models.VehiclePart
	CurrentOdometer  int
	Odometers        map[string]int // highest reading per vehicle
}

// scoped limits a query to a user and, when vehicleID is set, to one of their vehicles
func (r *RecordRepository) scoped(model interface{}, userID, vehicleID string) *gorm.DB {
	q := r.db.Model(model).Where("user_id = ?", userID)
	if vehicleID != "" {
		q = q.Where("vehicle_id = ?", vehicleID)
	}
	return q
}

// Snapshot loads logs and purchases in date order together with maintenance items and parts
func (r *RecordRepository) Snapshot(userID, vehicleID string) (*Snapshot, error) {
	snap := &Snapshot{}

	if err := r.scoped(&models.TripLog{}, userID, vehicleID).
		Order("date ASC, created_at ASC").
		Find(&snap.Logs).Error; err != nil {
		return nil, fmt.Errorf("load trip logs: %w", err)
	}

	if err := r.scoped(&models.FuelPurchase{}, userID, vehicleID).
		Order("date ASC, created_at ASC").
		Find(&snap.Purchases).Error; err != nil {
		return nil, fmt.Errorf("load fuel purchases: %w", err)
	}

	if err := r.scoped(&models.MaintenanceItem{}, userID, vehicleID).
		Order("created_at ASC").
		Find(&snap.MaintenanceItems).Error; err != nil {
		return nil, fmt.Errorf("load maintenance items: %w", err)
	}

	if err := r.scoped(&models.VehiclePart{}, userID, vehicleID).
		Order("created_at ASC").
		Find(&snap.Parts).Error; err != nil {
		return nil, fmt.Errorf("load vehicle parts: %w", err)
	}

	snap.Odometers = make(map[string]int)
	for _, l := range snap.Logs {
		if l.OdometerReading > snap.CurrentOdometer {
			snap.CurrentOdometer = l.OdometerReading
		}
		if l.OdometerReading > snap.Odometers[l.VehicleID] {
			snap.Odometers[l.VehicleID] = l.OdometerReading
		}
	}

	return snap, nil
}

type collectionStamp struct {
	Count  int64
	Latest sql.NullString
}

// Fingerprint changes whenever a record in scope is created, updated or deleted.
// It hashes the row count and latest updated_at of every collection.
func (r *RecordRepository) Fingerprint(userID, vehicleID string) (string, error) {
	collections := []struct {
		name  string
		model interface{}
	}{
		{"logs", &models.TripLog{}},
		{"purchases", &models.FuelPurchase{}},
		{"maintenance", &models.MaintenanceItem{}},
		{"parts", &models.VehiclePart{}},
	}

	parts := make([]string, 0, len(collections))
	for _, c := range collections {
		var stamp collectionStamp
		if err := r.scoped(c.model, userID, vehicleID).
			Select("COUNT(*) AS count, MAX(updated_at) AS latest").
			Scan(&stamp).Error; err != nil {
			return "", fmt.Errorf("fingerprint %s: %w", c.name, err)
		}
		parts = append(parts, fmt.Sprintf("%s=%d@%s", c.name, stamp.Count, stamp.Latest.String))
	}

	sum := sha256.Sum256([]byte(strings.Join(parts, "|")))
	return hex.EncodeToString(sum[:8]), nil
}

// CurrentOdometer returns the highest odometer reading logged in scope
func (r *RecordRepository) CurrentOdometer(userID, vehicleID string) (int, error) {
	var odometer sql.NullInt64
	if err := r.scoped(&models.TripLog{}, userID, vehicleID).
		Select("MAX(odometer_reading)").
		Scan(&odometer).Error; err != nil {
		return 0, err
	}
	return int(odometer.Int64), nil
}

// VehicleExists reports whether the vehicle belongs to the user
func (r *RecordRepository) VehicleExists(userID, vehicleID string) (bool, error) {
	var count int64
	err := r.db.Model(&models.Vehicle{}).
		Where("id = ? AND user_id = ?", vehicleID, userID).
		Count(&count).Error
	return count > 0, err
}

// GetSettings returns the saved settings or the defaults when the user has none
func (r *RecordRepository) GetSettings(userID string) (*models.UserSettings, error) {
	var settings models.UserSettings
	err := r.db.Where("user_id = ?", userID).First(&settings).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			defaults := models.DefaultUserSettings(userID)
			return &defaults, nil
		}
		return nil, err
	}
	return &settings, nil
}

// SaveSettings creates or replaces the user's settings row
func (r *RecordRepository) SaveSettings(settings *models.UserSettings) error {
	return r.db.Save(settings).Error
}

// DigestRecipients lists users who have not switched the email digest off
func (r *RecordRepository) DigestRecipients() ([]models.User, error) {
	var users []models.User
	if err := r.db.Where("email <> ''").Order("created_at ASC").Find(&users).Error; err != nil {
		return nil, err
	}

	var optedOut []string
	if err := r.db.Model(&models.UserSettings{}).
		Where("digest_email = ?", false).
		Pluck("user_id", &optedOut).Error; err != nil {
		return nil, err
	}
	skip := make(map[string]bool, len(optedOut))
	for _, id := range optedOut {
		skip[id] = true
	}

	recipients := make([]models.User, 0, len(users))
	for _, u := range users {
		if !skip[u.ID] {
			recipients = append(recipients, u)
		}
	}
	return recipients, nil
}

// SaveScoreSnapshot persists a digest score
func (r *RecordRepository) SaveScoreSnapshot(snapshot *models.ScoreSnapshot) error {
	return r.db.Create(snapshot).Error
}

// LatestScoreSnapshots returns the newest snapshots for a user
func (r *RecordRepository) LatestScoreSnapshots(userID string, limit int) ([]models.ScoreSnapshot, error) {
	var snapshots []models.ScoreSnapshot
	err := r.db.Where("user_id = ?", userID).
		Order("created_at DESC").
		Limit(limit).
		Find(&snapshots).Error
	return snapshots, err
}
