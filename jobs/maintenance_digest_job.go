// File: /jobs/maintenance_digest_job.go
package jobs

import (
	"context"
	"fmt"
	"time"

	"fueltrack-api/repositories"
	"fueltrack-api/services"
)

// DigestMailer delivers a digest report. *services.EmailService implements it.
type DigestMailer interface {
	SendMaintenanceDigest(report services.DigestReport) error
}

// MaintenanceDigestJob periodically emails ranked maintenance alerts and stores a score snapshot per user
type MaintenanceDigestJob struct {
	records        *repositories.RecordRepository
	insightService *services.InsightService
	mailer         DigestMailer
	ticker         *time.Ticker
	done           chan bool
}

// NewMaintenanceDigestJob creates a new digest job
func NewMaintenanceDigestJob(records *repositories.RecordRepository, insightService *services.InsightService, mailer DigestMailer, interval time.Duration) *MaintenanceDigestJob {
	return &MaintenanceDigestJob{
		records:        records,
		insightService: insightService,
		mailer:         mailer,
		ticker:         time.NewTicker(interval),
		done:           make(chan bool),
	}
}

// Start begins the digest job
func (j *MaintenanceDigestJob) Start() {
	fmt.Println("Maintenance digest job started")

	go func() {
		// Run immediately on start
		j.run()

		// Then run on schedule
		for {
			select {
			case <-j.ticker.C:
				j.run()
			case <-j.done:
				fmt.Println("Maintenance digest job stopped")
				return
			}
		}
	}()
}

// Stop stops the digest job
func (j *MaintenanceDigestJob) Stop() {
	j.ticker.Stop()
	j.done <- true
}

func (j *MaintenanceDigestJob) run() {
	fmt.Println("Running maintenance digest...")

	sent, err := j.RunOnce(context.Background())
	if err != nil {
		fmt.Printf("Error during maintenance digest: %v\n", err)
		return
	}

	fmt.Printf("Maintenance digest completed, %d emails sent\n", sent)
}

// RunOnce processes every digest recipient and returns how many emails were sent.
// A failure for one user is logged and does not stop the others.
func (j *MaintenanceDigestJob) RunOnce(ctx context.Context) (int, error) {
	users, err := j.records.DigestRecipients()
	if err != nil {
		return 0, fmt.Errorf("load digest recipients: %w", err)
	}

	sent := 0
	for _, user := range users {
		report, err := j.insightService.Digest(ctx, user)
		if err != nil {
			fmt.Printf("Digest for user %s failed: %v\n", user.ID, err)
			continue
		}

		if err := j.insightService.RecordScore(report); err != nil {
			fmt.Printf("Could not store score snapshot for user %s: %v\n", user.ID, err)
		}

		if len(report.Alerts) == 0 {
			continue
		}
		if err := j.mailer.SendMaintenanceDigest(report); err != nil {
			fmt.Printf("Could not email digest to %s: %v\n", user.Email, err)
			continue
		}
		sent++
	}

	return sent, nil
}
