package jobs

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"fueltrack-api/models"
	"fueltrack-api/repositories"
	"fueltrack-api/services"
	gsqlite "github.com/glebarez/sqlite"
	"gorm.io/gorm"
)

type fakeMailer struct {
	sent []services.DigestReport
	fail map[string]bool
}

func (m *fakeMailer) SendMaintenanceDigest(report services.DigestReport) error {
	if m.fail[report.User.Email] {
		return errors.New("smtp down")
	}
	m.sent = append(m.sent, report)
	return nil
}

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
		&models.DismissedNudge{},
		&models.ScoreSnapshot{},
	); err != nil {
		t.Fatalf("automigrate failed: %v", err)
	}
	return db
}

func TestMaintenanceDigestJob_RunOnce(t *testing.T) {
	db := setupTestDB(t)
	now := time.Date(2025, time.March, 15, 6, 0, 0, 0, time.UTC)

	users := []models.User{
		{ID: "due", Name: "Due", Email: "due@example.com", Password: "x"},
		{ID: "fine", Name: "Fine", Email: "fine@example.com", Password: "x"},
		{ID: "quiet", Name: "Quiet", Email: "quiet@example.com", Password: "x"},
	}
	if err := db.Create(&users).Error; err != nil {
		t.Fatalf("create users: %v", err)
	}
	optOut := models.DefaultUserSettings("quiet")
	optOut.DigestEmail = false
	if err := db.Select("*").Create(&optOut).Error; err != nil {
		t.Fatalf("create settings: %v", err)
	}

	overdue := now.AddDate(0, 0, -2).Format(models.DateLayout)
	far := now.AddDate(1, 0, 0).Format(models.DateLayout)
	items := []models.MaintenanceItem{
		{ID: "insp", UserID: "due", VehicleID: "car", Title: "Inspection", TriggerType: models.TriggerTypeDate, DueDate: &overdue},
		{ID: "tax", UserID: "fine", VehicleID: "car", Title: "Road tax", TriggerType: models.TriggerTypeDate, DueDate: &far},
		{ID: "ins", UserID: "quiet", VehicleID: "car", Title: "Insurance", TriggerType: models.TriggerTypeDate, DueDate: &overdue},
	}
	if err := db.Create(&items).Error; err != nil {
		t.Fatalf("create items: %v", err)
	}

	records := repositories.NewRecordRepository(db)
	opts := services.DefaultInsightOptions()
	opts.Location = time.UTC
	opts.Now = func() time.Time { return now }
	svc := services.NewInsightService(records, nil, services.NewGormDismissalStore(db), opts)

	mailer := &fakeMailer{}
	job := NewMaintenanceDigestJob(records, svc, mailer, time.Hour)
	defer job.ticker.Stop()

	sent, err := job.RunOnce(context.Background())
	if err != nil {
		t.Fatalf("run once: %v", err)
	}
	if sent != 1 || len(mailer.sent) != 1 {
		t.Fatalf("expected exactly one digest, got %d", sent)
	}
	report := mailer.sent[0]
	if report.User.ID != "due" || services.OverdueCount(report.Alerts) != 1 {
		t.Fatalf("unexpected digest %+v", report)
	}

	mailer.fail = map[string]bool{"due@example.com": true}
	if sent, err := job.RunOnce(context.Background()); err != nil || sent != 0 {
		t.Fatalf("failed delivery must not count, got %d (%v)", sent, err)
	}
}

type fakePurger struct{ calls int }

func (p *fakePurger) Purge() int {
	p.calls++
	return 2
}

type fakePruner struct{ at time.Time }

func (p *fakePruner) PruneBefore(_ context.Context, now time.Time) (int64, error) {
	p.at = now
	return 1, nil
}

func TestCacheCleanupJob_Cleanup(t *testing.T) {
	now := time.Date(2025, time.March, 15, 0, 5, 0, 0, time.UTC)
	purger, pruner := &fakePurger{}, &fakePruner{}

	job := NewCacheCleanupJob(purger, pruner, func() time.Time { return now }, time.Hour)
	defer job.ticker.Stop()
	job.cleanup()

	if purger.calls != 1 || !pruner.at.Equal(now) {
		t.Fatalf("expected purge and prune at %v, got calls=%d at=%v", now, purger.calls, pruner.at)
	}

	// nil dependencies are skipped
	bare := NewCacheCleanupJob(nil, nil, nil, time.Hour)
	defer bare.ticker.Stop()
	bare.cleanup()
}
