package repositories

import (
	"fmt"
	"strings"
	"testing"

	"fueltrack-api/models"
	gsqlite "github.com/glebarez/sqlite"
	"gorm.io/gorm"
)

// setupTestDB opens a private in-memory sqlite DB and migrates the record tables
func setupTestDB(t *testing.T) *gorm.DB {
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(gsqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to open sqlite memory DB: %v", err)
	}

	if err := db.AutoMigrate(
		&models.User{},
		&models.UserSettings{},
		&models.Vehicle{},
		&models.TripLog{},
		&models.FuelPurchase{},
		&models.MaintenanceItem{},
		&models.VehiclePart{},
		&models.ScoreSnapshot{},
	); err != nil {
		t.Fatalf("automigrate failed: %v", err)
	}
	return db
}

func seedLog(t *testing.T, db *gorm.DB, id, userID, vehicleID, date string, odometer int) {
	l := models.TripLog{
		ID:              id,
		UserID:          userID,
		VehicleID:       vehicleID,
		Date:            date,
		OdometerReading: odometer,
	}
	if err := db.Create(&l).Error; err != nil {
		t.Fatalf("create log %s: %v", id, err)
	}
}

func TestSnapshot_OrdersByDateAndScopes(t *testing.T) {
	db := setupTestDB(t)
	repo := NewRecordRepository(db)

	seedLog(t, db, "l3", "u1", "car", "2025-03-03", 1300)
	seedLog(t, db, "l1", "u1", "car", "2025-03-01", 1100)
	seedLog(t, db, "l2", "u1", "bike", "2025-03-02", 500)
	seedLog(t, db, "other", "u2", "car", "2025-03-01", 9000)

	snap, err := repo.Snapshot("u1", "")
	if err != nil {
		t.Fatalf("snapshot: %v", err)
	}
	if len(snap.Logs) != 3 {
		t.Fatalf("expected 3 logs for u1, got %d", len(snap.Logs))
	}
	for i, want := range []string{"l1", "l2", "l3"} {
		if snap.Logs[i].ID != want {
			t.Fatalf("log %d: expected %s, got %s", i, want, snap.Logs[i].ID)
		}
	}
	if snap.CurrentOdometer != 1300 {
		t.Fatalf("expected current odometer 1300, got %d", snap.CurrentOdometer)
	}
	if snap.Odometers["car"] != 1300 || snap.Odometers["bike"] != 500 {
		t.Fatalf("unexpected per-vehicle odometers %v", snap.Odometers)
	}

	bike, err := repo.Snapshot("u1", "bike")
	if err != nil {
		t.Fatalf("snapshot: %v", err)
	}
	if len(bike.Logs) != 1 || bike.CurrentOdometer != 500 {
		t.Fatalf("expected only the bike log, got %+v", bike.Logs)
	}
}

func TestFingerprint_ChangesOnWrite(t *testing.T) {
	db := setupTestDB(t)
	repo := NewRecordRepository(db)

	empty, err := repo.Fingerprint("u1", "")
	if err != nil {
		t.Fatalf("fingerprint: %v", err)
	}
	again, _ := repo.Fingerprint("u1", "")
	if empty != again {
		t.Fatalf("fingerprint must be stable without writes")
	}

	seedLog(t, db, "l1", "u1", "car", "2025-03-01", 1000)
	afterCreate, _ := repo.Fingerprint("u1", "")
	if afterCreate == empty {
		t.Fatalf("fingerprint must change after a create")
	}

	seedLog(t, db, "x", "u2", "car", "2025-03-01", 1000)
	if fp, _ := repo.Fingerprint("u1", ""); fp != afterCreate {
		t.Fatalf("another user's write must not change the fingerprint")
	}

	if err := db.Where("id = ?", "l1").Delete(&models.TripLog{}).Error; err != nil {
		t.Fatalf("delete: %v", err)
	}
	if fp, _ := repo.Fingerprint("u1", ""); fp == afterCreate {
		t.Fatalf("fingerprint must change after a delete")
	}
}

func TestCurrentOdometer(t *testing.T) {
	db := setupTestDB(t)
	repo := NewRecordRepository(db)

	if odo, err := repo.CurrentOdometer("u1", ""); err != nil || odo != 0 {
		t.Fatalf("expected 0 without logs, got %d (%v)", odo, err)
	}

	seedLog(t, db, "l1", "u1", "car", "2025-03-01", 1200)
	seedLog(t, db, "l2", "u1", "bike", "2025-03-02", 800)

	if odo, _ := repo.CurrentOdometer("u1", "bike"); odo != 800 {
		t.Fatalf("expected 800 for bike, got %d", odo)
	}
	if odo, _ := repo.CurrentOdometer("u1", ""); odo != 1200 {
		t.Fatalf("expected 1200 overall, got %d", odo)
	}
}

func TestSettings_DefaultsAndSave(t *testing.T) {
	db := setupTestDB(t)
	repo := NewRecordRepository(db)

	settings, err := repo.GetSettings("u1")
	if err != nil {
		t.Fatalf("get settings: %v", err)
	}
	if settings.MorningStartHour != 7 || !settings.DigestEmail || settings.ActiveBudget() != 0 {
		t.Fatalf("expected defaults, got %+v", settings)
	}

	settings.MonthlyBudget = 1500
	settings.BudgetEnabled = true
	if err := repo.SaveSettings(settings); err != nil {
		t.Fatalf("save settings: %v", err)
	}

	saved, _ := repo.GetSettings("u1")
	if saved.ActiveBudget() != 1500 {
		t.Fatalf("expected saved budget 1500, got %+v", saved)
	}
}

func TestDigestRecipients_SkipsOptedOut(t *testing.T) {
	db := setupTestDB(t)
	repo := NewRecordRepository(db)

	users := []models.User{
		{ID: "u1", Name: "A", Email: "a@example.com", Password: "x"},
		{ID: "u2", Name: "B", Email: "b@example.com", Password: "x"},
	}
	if err := db.Create(&users).Error; err != nil {
		t.Fatalf("create users: %v", err)
	}
	optOut := models.DefaultUserSettings("u2")
	optOut.DigestEmail = false
	if err := db.Select("*").Create(&optOut).Error; err != nil {
		t.Fatalf("create settings: %v", err)
	}

	recipients, err := repo.DigestRecipients()
	if err != nil {
		t.Fatalf("recipients: %v", err)
	}
	if len(recipients) != 1 || recipients[0].ID != "u1" {
		t.Fatalf("expected only u1, got %+v", recipients)
	}
}

func TestVehicleExists(t *testing.T) {
	db := setupTestDB(t)
	repo := NewRecordRepository(db)

	if err := db.Create(&models.Vehicle{ID: "car", UserID: "u1", Name: "Car"}).Error; err != nil {
		t.Fatalf("create vehicle: %v", err)
	}

	if ok, _ := repo.VehicleExists("u1", "car"); !ok {
		t.Fatalf("expected owned vehicle to exist")
	}
	if ok, _ := repo.VehicleExists("u2", "car"); ok {
		t.Fatalf("vehicle must not be visible to another user")
	}
}
