package services

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"fueltrack-api/models"
	gsqlite "github.com/glebarez/sqlite"
	"gorm.io/gorm"
)

// setupTestDB opens a private in-memory sqlite DB and migrates every table the services touch
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

func TestMemoryCache_ExpiresEntries(t *testing.T) {
	ctx := context.Background()
	clock := time.Date(2025, time.March, 15, 10, 0, 0, 0, time.UTC)
	cache := NewMemoryCache()
	cache.now = func() time.Time { return clock }

	if err := cache.Set(ctx, "short", map[string]int{"n": 1}, time.Minute); err != nil {
		t.Fatalf("set: %v", err)
	}
	if err := cache.Set(ctx, "forever", "x", 0); err != nil {
		t.Fatalf("set: %v", err)
	}

	var got map[string]int
	hit, err := cache.Get(ctx, "short", &got)
	if err != nil || !hit || got["n"] != 1 {
		t.Fatalf("expected hit with n=1, got hit=%v %v (%v)", hit, got, err)
	}

	clock = clock.Add(2 * time.Minute)
	if removed := cache.Purge(); removed != 1 {
		t.Fatalf("expected 1 purged entry, got %d", removed)
	}
	if hit, _ := cache.Get(ctx, "short", &got); hit {
		t.Fatalf("expired entry must miss")
	}

	var s string
	if hit, _ := cache.Get(ctx, "forever", &s); !hit || s != "x" {
		t.Fatalf("entry without ttl must survive, got hit=%v %q", hit, s)
	}
}

func TestMemoryCache_MissLeavesDestination(t *testing.T) {
	cache := NewMemoryCache()
	dest := 42
	hit, err := cache.Get(context.Background(), "missing", &dest)
	if hit || err != nil || dest != 42 {
		t.Fatalf("expected clean miss, got hit=%v dest=%d err=%v", hit, dest, err)
	}
}

func TestGormDismissalStore_IdempotentAndDaily(t *testing.T) {
	ctx := context.Background()
	store := NewGormDismissalStore(setupTestDB(t))
	morning := time.Date(2025, time.March, 15, 8, 0, 0, 0, time.UTC)

	for i := 0; i < 2; i++ {
		if err := store.Dismiss(ctx, "u1", "streak", morning); err != nil {
			t.Fatalf("dismiss #%d: %v", i+1, err)
		}
	}

	dismissed, err := store.Dismissed(ctx, "u1", morning.Add(12*time.Hour))
	if err != nil {
		t.Fatalf("dismissed: %v", err)
	}
	if len(dismissed) != 1 || !dismissed["streak"] {
		t.Fatalf("expected only streak dismissed, got %v", dismissed)
	}

	if other, _ := store.Dismissed(ctx, "u2", morning); len(other) != 0 {
		t.Fatalf("dismissals must be per user, got %v", other)
	}

	tomorrow := morning.AddDate(0, 0, 1)
	if next, _ := store.Dismissed(ctx, "u1", tomorrow); len(next) != 0 {
		t.Fatalf("dismissals must lapse at midnight, got %v", next)
	}

	pruned, err := store.PruneBefore(ctx, tomorrow)
	if err != nil || pruned != 1 {
		t.Fatalf("expected 1 pruned row, got %d (%v)", pruned, err)
	}
}

func TestNextMidnight(t *testing.T) {
	loc := time.FixedZone("UTC+3", 3*60*60)
	now := time.Date(2025, time.December, 31, 23, 59, 0, 0, loc)
	want := time.Date(2026, time.January, 1, 0, 0, 0, 0, loc)
	if got := nextMidnight(now); !got.Equal(want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
}
