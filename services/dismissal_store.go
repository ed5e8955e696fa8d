// File: /services/dismissal_store.go
package services

import (
	"context"
	"fmt"
	"time"

	"fueltrack-api/models"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// DismissalStore remembers which nudges a user hid today. Dismissals lapse at local midnight.
type DismissalStore interface {
	Dismiss(ctx context.Context, userID, nudgeID string, now time.Time) error
	Dismissed(ctx context.Context, userID string, now time.Time) (map[string]bool, error)
}

func dayKey(now time.Time) string {
	return now.Format(models.DateLayout)
}

func nextMidnight(now time.Time) time.Time {
	y, m, d := now.Date()
	return time.Date(y, m, d+1, 0, 0, 0, 0, now.Location())
}

type GormDismissalStore struct {
	db *gorm.DB
}

func NewGormDismissalStore(db *gorm.DB) *GormDismissalStore {
	return &GormDismissalStore{db: db}
}

// Dismiss is idempotent: a repeated dismissal of the same nudge on the same day is a no-op
func (s *GormDismissalStore) Dismiss(ctx context.Context, userID, nudgeID string, now time.Time) error {
	row := models.DismissedNudge{
		UserID:  userID,
		NudgeID: nudgeID,
		Day:     dayKey(now),
	}
	err := s.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&row).Error
	if err != nil {
		return fmt.Errorf("dismiss nudge %s: %w", nudgeID, err)
	}
	return nil
}

func (s *GormDismissalStore) Dismissed(ctx context.Context, userID string, now time.Time) (map[string]bool, error) {
	var ids []string
	if err := s.db.WithContext(ctx).
		Model(&models.DismissedNudge{}).
		Where("user_id = ? AND day = ?", userID, dayKey(now)).
		Pluck("nudge_id", &ids).Error; err != nil {
		return nil, fmt.Errorf("load dismissed nudges: %w", err)
	}

	out := make(map[string]bool, len(ids))
	for _, id := range ids {
		out[id] = true
	}
	return out, nil
}

// PruneBefore deletes dismissals from days before now's day
func (s *GormDismissalStore) PruneBefore(ctx context.Context, now time.Time) (int64, error) {
	res := s.db.WithContext(ctx).
		Where("day < ?", dayKey(now)).
		Delete(&models.DismissedNudge{})
	return res.RowsAffected, res.Error
}

type RedisDismissalStore struct {
	client *redis.Client
}

func NewRedisDismissalStore(client *redis.Client) *RedisDismissalStore {
	return &RedisDismissalStore{client: client}
}

func dismissalKey(userID string, now time.Time) string {
	return fmt.Sprintf("nudge:dismissed:%s:%s", userID, dayKey(now))
}

func (s *RedisDismissalStore) Dismiss(ctx context.Context, userID, nudgeID string, now time.Time) error {
	key := dismissalKey(userID, now)

	pipe := s.client.TxPipeline()
	pipe.SAdd(ctx, key, nudgeID)
	pipe.ExpireAt(ctx, key, nextMidnight(now))
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("redis dismiss nudge %s: %w", nudgeID, err)
	}
	return nil
}

func (s *RedisDismissalStore) Dismissed(ctx context.Context, userID string, now time.Time) (map[string]bool, error) {
	ids, err := s.client.SMembers(ctx, dismissalKey(userID, now)).Result()
	if err != nil {
		return nil, fmt.Errorf("redis load dismissed nudges: %w", err)
	}

	out := make(map[string]bool, len(ids))
	for _, id := range ids {
		out[id] = true
	}
	return out, nil
}
