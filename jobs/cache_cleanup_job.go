// File: /jobs/cache_cleanup_job.go
package jobs

import (
	"context"
	"fmt"
	"time"
)

// Purger drops expired in-process cache entries
type Purger interface {
	Purge() int
}

// DismissalPruner deletes dismissals from previous days
type DismissalPruner interface {
	PruneBefore(ctx context.Context, now time.Time) (int64, error)
}

// CacheCleanupJob handles periodic cleanup of expired cache entries and stale nudge dismissals.
// Either dependency may be nil when its backend lives in Redis, which expires keys itself.
type CacheCleanupJob struct {
	cache      Purger
	dismissals DismissalPruner
	now        func() time.Time
	ticker     *time.Ticker
	done       chan bool
}

// NewCacheCleanupJob creates a new cleanup job
func NewCacheCleanupJob(cache Purger, dismissals DismissalPruner, now func() time.Time, interval time.Duration) *CacheCleanupJob {
	if now == nil {
		now = time.Now
	}
	return &CacheCleanupJob{
		cache:      cache,
		dismissals: dismissals,
		now:        now,
		ticker:     time.NewTicker(interval),
		done:       make(chan bool),
	}
}

// Start begins the cleanup job
func (j *CacheCleanupJob) Start() {
	fmt.Println("Cache cleanup job started")

	go func() {
		for {
			select {
			case <-j.ticker.C:
				j.cleanup()
			case <-j.done:
				fmt.Println("Cache cleanup job stopped")
				return
			}
		}
	}()
}

// Stop stops the cleanup job
func (j *CacheCleanupJob) Stop() {
	j.ticker.Stop()
	j.done <- true
}

// cleanup performs the actual cleanup
func (j *CacheCleanupJob) cleanup() {
	if j.cache != nil {
		if removed := j.cache.Purge(); removed > 0 {
			fmt.Printf("Purged %d expired cache entries\n", removed)
		}
	}

	if j.dismissals != nil {
		pruned, err := j.dismissals.PruneBefore(context.Background(), j.now())
		if err != nil {
			fmt.Printf("Error during dismissal cleanup: %v\n", err)
			return
		}
		if pruned > 0 {
			fmt.Printf("Pruned %d stale nudge dismissals\n", pruned)
		}
	}
}
