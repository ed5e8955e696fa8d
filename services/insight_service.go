// File: /services/insight_service.go
package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"fueltrack-api/insights"
	"fueltrack-api/models"
	"fueltrack-api/repositories"
	"github.com/google/uuid"
)

var (
	ErrNotFound        = errors.New("not found")
	ErrInvalidInterval = errors.New("start date is after end date")
	ErrEmptyNudgeID    = errors.New("nudge id is required")
)

// InsightOptions tunes the engine and the service around it
type InsightOptions struct {
	CacheTTL    time.Duration
	Location    *time.Location
	Maintenance insights.MaintenanceConfig
	Anomaly     insights.AnomalyConfig
	Now         func() time.Time
}

func DefaultInsightOptions() InsightOptions {
	return InsightOptions{
		CacheTTL:    5 * time.Minute,
		Location:    time.Local,
		Maintenance: insights.DefaultMaintenanceConfig,
		Anomaly:     insights.DefaultAnomalyConfig,
		Now:         time.Now,
	}
}

// InsightService loads a user's records and runs the insight engine over them
type InsightService struct {
	records    *repositories.RecordRepository
	cache      AggregateCache
	dismissals DismissalStore
	rules      *insights.RuleEngine
	opts       InsightOptions
}

func NewInsightService(records *repositories.RecordRepository, cache AggregateCache, dismissals DismissalStore, opts InsightOptions) *InsightService {
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.Location == nil {
		opts.Location = time.Local
	}
	if cache == nil {
		cache = NewMemoryCache()
	}
	return &InsightService{
		records:    records,
		cache:      cache,
		dismissals: dismissals,
		rules:      insights.NewRuleEngine(),
		opts:       opts,
	}
}

// Now is the service clock in the configured time zone
func (s *InsightService) Now() time.Time {
	return s.opts.Now().In(s.opts.Location)
}

func (s *InsightService) Location() *time.Location {
	return s.opts.Location
}

func (s *InsightService) checkVehicle(userID, vehicleID string) error {
	if vehicleID == "" {
		return nil
	}
	ok, err := s.records.VehicleExists(userID, vehicleID)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("vehicle %s: %w", vehicleID, ErrNotFound)
	}
	return nil
}

func (s *InsightService) load(userID, vehicleID string) (*repositories.Snapshot, error) {
	if err := s.checkVehicle(userID, vehicleID); err != nil {
		return nil, err
	}
	return s.records.Snapshot(userID, vehicleID)
}

func scopeKey(vehicleID string) string {
	if vehicleID == "" {
		return "all"
	}
	return vehicleID
}

// cached returns the value stored under key or computes and stores it. Cache failures never fail the call.
func cached[T any](ctx context.Context, s *InsightService, key string, compute func() (T, error)) (T, error) {
	var out T
	hit, err := s.cache.Get(ctx, key, &out)
	if err != nil {
		log.Printf("[InsightService] cache read %s: %v", key, err)
	}
	if hit {
		return out, nil
	}

	out, err = compute()
	if err != nil {
		return out, err
	}
	if err := s.cache.Set(ctx, key, out, s.opts.CacheTTL); err != nil {
		log.Printf("[InsightService] cache write %s: %v", key, err)
	}
	return out, nil
}

// Aggregate totals the records dated within [start, end]
func (s *InsightService) Aggregate(ctx context.Context, userID, vehicleID string, start, end time.Time) (insights.Aggregate, error) {
	if start.After(end) {
		return insights.Aggregate{}, ErrInvalidInterval
	}
	if err := s.checkVehicle(userID, vehicleID); err != nil {
		return insights.Aggregate{}, err
	}

	fingerprint, err := s.records.Fingerprint(userID, vehicleID)
	if err != nil {
		return insights.Aggregate{}, err
	}

	key := fmt.Sprintf("agg:%s:%s:%s:%s:%s", userID, scopeKey(vehicleID),
		start.Format(models.DateLayout), end.Format(models.DateLayout), fingerprint)

	return cached(ctx, s, key, func() (insights.Aggregate, error) {
		snap, err := s.records.Snapshot(userID, vehicleID)
		if err != nil {
			return insights.Aggregate{}, err
		}
		agg := insights.AggregatePeriod(snap.Logs, snap.Purchases, start.In(s.opts.Location), end.In(s.opts.Location))
		if agg.Skipped > 0 {
			log.Printf("[InsightService] user %s: skipped %d records with malformed dates", userID, agg.Skipped)
		}
		return agg, nil
	})
}

// Monthly returns the newest limit monthly buckets, oldest first. limit <= 0 returns all.
func (s *InsightService) Monthly(ctx context.Context, userID, vehicleID string, limit int) ([]insights.MonthlyAggregate, error) {
	if err := s.checkVehicle(userID, vehicleID); err != nil {
		return nil, err
	}

	fingerprint, err := s.records.Fingerprint(userID, vehicleID)
	if err != nil {
		return nil, err
	}

	key := fmt.Sprintf("monthly:%s:%s:%s", userID, scopeKey(vehicleID), fingerprint)
	buckets, err := cached(ctx, s, key, func() ([]insights.MonthlyAggregate, error) {
		snap, err := s.records.Snapshot(userID, vehicleID)
		if err != nil {
			return nil, err
		}
		return insights.MonthlyBuckets(snap.Logs, snap.Purchases, s.opts.Location), nil
	})
	if err != nil {
		return nil, err
	}

	if limit > 0 {
		return insights.RecentMonths(buckets, limit), nil
	}
	return buckets, nil
}

func (s *InsightService) Stats(_ context.Context, userID, vehicleID string) (insights.LogStats, error) {
	snap, err := s.load(userID, vehicleID)
	if err != nil {
		return insights.LogStats{}, err
	}
	return insights.DetailedStats(snap.Logs), nil
}

func (s *InsightService) Compare(_ context.Context, userID, vehicleID string) (insights.Comparison, error) {
	snap, err := s.load(userID, vehicleID)
	if err != nil {
		return insights.Comparison{}, err
	}
	return insights.CompareMonths(snap.Logs, snap.Purchases, s.Now()), nil
}

// MaintenanceReport lists ranked alerts and the items that could not be classified
type MaintenanceReport struct {
	Alerts []insights.Classification `json:"alerts"`
	Errors []string                  `json:"errors,omitempty"`
}

func (s *InsightService) maintenanceAlerts(userID string, snap *repositories.Snapshot, cfg insights.MaintenanceConfig) MaintenanceReport {
	alerts, errs := cfg.FleetAlerts(snap.MaintenanceItems, snap.Parts, snap.Odometers, s.Now())

	report := MaintenanceReport{Alerts: alerts}
	for _, err := range errs {
		log.Printf("[InsightService] user %s: %v", userID, err)
		report.Errors = append(report.Errors, err.Error())
	}
	return report
}

func (s *InsightService) Maintenance(_ context.Context, userID, vehicleID string) (MaintenanceReport, error) {
	snap, err := s.load(userID, vehicleID)
	if err != nil {
		return MaintenanceReport{}, err
	}
	return s.maintenanceAlerts(userID, snap, s.opts.Maintenance), nil
}

func (s *InsightService) Anomalies(_ context.Context, userID, vehicleID string) ([]insights.Anomaly, error) {
	snap, err := s.load(userID, vehicleID)
	if err != nil {
		return nil, err
	}
	return insights.DetectAnomalies(snap.Logs, s.opts.Anomaly), nil
}

// Score returns nil when there is not enough recent data
func (s *InsightService) Score(_ context.Context, userID, vehicleID string) (*insights.Score, error) {
	snap, err := s.load(userID, vehicleID)
	if err != nil {
		return nil, err
	}
	return insights.ComputeScore(snap.Logs, snap.Purchases, s.Now()), nil
}

func (s *InsightService) ScoreHistory(_ context.Context, userID string, limit int) ([]models.ScoreSnapshot, error) {
	return s.records.LatestScoreSnapshots(userID, limit)
}

// Budget returns nil when the user has no active monthly budget
func (s *InsightService) Budget(_ context.Context, userID string) (*insights.BudgetStatus, error) {
	settings, err := s.records.GetSettings(userID)
	if err != nil {
		return nil, err
	}
	budget := settings.ActiveBudget()
	if budget <= 0 {
		return nil, nil
	}

	snap, err := s.records.Snapshot(userID, "")
	if err != nil {
		return nil, err
	}
	status := insights.BudgetFor(snap.Purchases, budget, s.Now())
	return &status, nil
}

// budgetPurchases returns every purchase of the user when the snapshot covers a single vehicle.
// A nil result means the snapshot purchases already span the user.
func (s *InsightService) budgetPurchases(userID, vehicleID string, budget float64) ([]models.FuelPurchase, error) {
	if budget <= 0 || vehicleID == "" {
		return nil, nil
	}
	snap, err := s.records.Snapshot(userID, "")
	if err != nil {
		return nil, err
	}
	if snap.Purchases == nil {
		return []models.FuelPurchase{}, nil
	}
	return snap.Purchases, nil
}

func (s *InsightService) Stations(_ context.Context, userID, vehicleID string) (insights.StationReport, error) {
	snap, err := s.load(userID, vehicleID)
	if err != nil {
		return insights.StationReport{}, err
	}
	return insights.StationAreas(snap.Purchases), nil
}

// DashboardReport bundles the headline numbers shown on the home screen
type DashboardReport struct {
	Stats               insights.DashboardStats   `json:"stats"`
	Alerts              []insights.Classification `json:"alerts"`
	Streak              int                       `json:"streak"`
	TrailingConsumption float64                   `json:"trailing_consumption"`
	Budget              *insights.BudgetStatus    `json:"budget,omitempty"`
}

// Dashboard computes the dashboard for one year (0 for all years)
func (s *InsightService) Dashboard(ctx context.Context, userID, vehicleID string, year int) (DashboardReport, error) {
	snap, err := s.load(userID, vehicleID)
	if err != nil {
		return DashboardReport{}, err
	}

	now := s.Now()
	report := DashboardReport{
		Stats:               insights.Dashboard(snap.Logs, snap.Purchases, year, s.opts.Location),
		Alerts:              s.maintenanceAlerts(userID, snap, s.opts.Maintenance.ForDashboard()).Alerts,
		Streak:              insights.LoggingStreak(snap.Logs, now, insights.DefaultRuleConfig.StreakLookbackDays),
		TrailingConsumption: insights.TrailingConsumption(snap.Logs, now, 30),
	}

	report.Budget, err = s.Budget(ctx, userID)
	if err != nil {
		return DashboardReport{}, err
	}
	return report, nil
}

// ruleConfig applies the user's hour windows to the default rule thresholds
func (s *InsightService) ruleConfig(settings *models.UserSettings) insights.RuleConfig {
	cfg := insights.DefaultRuleConfig
	cfg.Maintenance = s.opts.Maintenance
	if settings.MorningEndHour > settings.MorningStartHour {
		cfg.MorningStartHour = settings.MorningStartHour
		cfg.MorningEndHour = settings.MorningEndHour
	}
	if settings.EveningEndHour > settings.EveningStartHour {
		cfg.EveningStartHour = settings.EveningStartHour
		cfg.EveningEndHour = settings.EveningEndHour
	}
	return cfg
}

// Nudges evaluates the rule set for the user right now, without today's dismissed nudges
func (s *InsightService) Nudges(ctx context.Context, userID, vehicleID string) ([]insights.Nudge, error) {
	snap, err := s.load(userID, vehicleID)
	if err != nil {
		return nil, err
	}
	settings, err := s.records.GetSettings(userID)
	if err != nil {
		return nil, err
	}

	now := s.Now()
	dismissed, err := s.dismissals.Dismissed(ctx, userID, now)
	if err != nil {
		return nil, err
	}

	budget := settings.ActiveBudget()
	budgetPurchases, err := s.budgetPurchases(userID, vehicleID, budget)
	if err != nil {
		return nil, err
	}

	ec := insights.EvalContext{
		Logs:             snap.Logs,
		Purchases:        snap.Purchases,
		MaintenanceItems: snap.MaintenanceItems,
		Parts:            snap.Parts,
		CurrentOdometer:  snap.CurrentOdometer,
		Odometers:        snap.Odometers,
		MonthlyBudget:    budget,
		BudgetPurchases:  budgetPurchases,
		Now:              now,
		Config:           s.ruleConfig(settings),
	}
	return s.rules.Evaluate(ec, dismissed), nil
}

// DismissNudge hides a nudge until local midnight. Dismissing twice is harmless.
func (s *InsightService) DismissNudge(ctx context.Context, userID, nudgeID string) error {
	if nudgeID == "" {
		return ErrEmptyNudgeID
	}
	return s.dismissals.Dismiss(ctx, userID, nudgeID, s.Now())
}

// DigestReport is what the maintenance digest sends to one user
type DigestReport struct {
	User   models.User
	Alerts []insights.Classification
	Score  *insights.Score
}

// Digest computes maintenance alerts and the driving score across all of the user's vehicles
func (s *InsightService) Digest(_ context.Context, user models.User) (DigestReport, error) {
	snap, err := s.records.Snapshot(user.ID, "")
	if err != nil {
		return DigestReport{}, err
	}

	return DigestReport{
		User:   user,
		Alerts: s.maintenanceAlerts(user.ID, snap, s.opts.Maintenance).Alerts,
		Score:  insights.ComputeScore(snap.Logs, snap.Purchases, s.Now()),
	}, nil
}

// RecordScore persists the digest score as a snapshot
func (s *InsightService) RecordScore(report DigestReport) error {
	if report.Score == nil {
		return nil
	}
	snapshot := models.ScoreSnapshot{
		ID:        uuid.New().String(),
		UserID:    report.User.ID,
		Overall:   report.Score.Overall,
		Grade:     report.Score.Grade,
		SubScores: map[string]interface{}{
			"efficiency":     report.Score.SubScores.Efficiency,
			"consistency":    report.Score.SubScores.Consistency,
			"trend":          report.Score.SubScores.Trend,
			"cost_awareness": report.Score.SubScores.CostAwareness,
		},
		Alerts: len(report.Alerts),
	}
	return s.records.SaveScoreSnapshot(&snapshot)
}

// EstimateDefaults suggests a consumption rate and fuel price for trip estimates:
// the trailing 30-day consumption and the price of the latest purchase. Zero means unknown.
func (s *InsightService) EstimateDefaults(_ context.Context, userID, vehicleID string) (float64, float64, error) {
	snap, err := s.load(userID, vehicleID)
	if err != nil {
		return 0, 0, err
	}

	rate := insights.TrailingConsumption(snap.Logs, s.Now(), 30)
	var price float64
	if n := len(snap.Purchases); n > 0 {
		price = snap.Purchases[n-1].PricePerLiter
	}
	return rate, price, nil
}
