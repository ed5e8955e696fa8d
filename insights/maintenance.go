// File: /insights/maintenance.go
package insights

import (
	"errors"
	"fmt"
	"sort"
	"time"

	"fueltrack-api/models"
)

type State string

const (
	StateOK       State = "OK"
	StateUpcoming State = "UPCOMING"
	StateOverdue  State = "OVERDUE"
)

type TriggerKind string

const (
	TriggerKm   TriggerKind = "km"
	TriggerDate TriggerKind = "date"
)

type AlertSource string

const (
	SourceMaintenance AlertSource = "maintenance"
	SourcePart        AlertSource = "part"
)

const (
	// DefaultUrgencyKmPerDay converts remaining days into km-equivalent urgency (1 day ~ 100 km).
	DefaultUrgencyKmPerDay = 100
	// PartLookAheadKm is the fixed warning window for vehicle parts.
	PartLookAheadKm = 500
	// DashboardNotifyDaysCap limits how far ahead date reminders surface on the dashboard.
	DashboardNotifyDaysCap = 15
)

var (
	ErrMissingNextDueKm   = errors.New("km trigger requires next due km")
	ErrNextDueBeforeLast  = errors.New("next due km is before last maintenance km")
	ErrInvalidDueDate     = errors.New("date trigger requires a valid due date")
	ErrUnknownTriggerType = errors.New("unknown trigger type")
)

// Trigger is one of KmTrigger, DateTrigger or BothTriggers
type Trigger interface {
	isTrigger()
}

type KmTrigger struct {
	NextDueKm      int
	NotifyBeforeKm int
}

type DateTrigger struct {
	DueDate          time.Time
	NotifyBeforeDays int
}

type BothTriggers struct {
	Km   KmTrigger
	Date DateTrigger
}

func (KmTrigger) isTrigger()    {}
func (DateTrigger) isTrigger()  {}
func (BothTriggers) isTrigger() {}

// TriggerFor converts a stored maintenance item into its trigger variant
func TriggerFor(item models.MaintenanceItem, loc *time.Location) (Trigger, error) {
	switch item.TriggerType {
	case models.TriggerTypeKm:
		km, err := kmTriggerFor(item)
		if err != nil {
			return nil, fmt.Errorf("maintenance item %s: %w", item.ID, err)
		}
		return km, nil
	case models.TriggerTypeDate:
		date, err := dateTriggerFor(item, loc)
		if err != nil {
			return nil, fmt.Errorf("maintenance item %s: %w", item.ID, err)
		}
		return date, nil
	case models.TriggerTypeBoth:
		km, err := kmTriggerFor(item)
		if err != nil {
			return nil, fmt.Errorf("maintenance item %s: %w", item.ID, err)
		}
		date, err := dateTriggerFor(item, loc)
		if err != nil {
			return nil, fmt.Errorf("maintenance item %s: %w", item.ID, err)
		}
		return BothTriggers{Km: km, Date: date}, nil
	default:
		return nil, fmt.Errorf("maintenance item %s: %w: %q", item.ID, ErrUnknownTriggerType, item.TriggerType)
	}
}

func kmTriggerFor(item models.MaintenanceItem) (KmTrigger, error) {
	next := item.NextDueKm
	if next == nil && item.LastMaintenanceKm != nil && item.IntervalKm != nil {
		v := *item.LastMaintenanceKm + *item.IntervalKm
		next = &v
	}
	if next == nil {
		return KmTrigger{}, ErrMissingNextDueKm
	}
	if item.LastMaintenanceKm != nil && *next < *item.LastMaintenanceKm {
		return KmTrigger{}, ErrNextDueBeforeLast
	}
	return KmTrigger{NextDueKm: *next, NotifyBeforeKm: item.NotifyKm()}, nil
}

func dateTriggerFor(item models.MaintenanceItem, loc *time.Location) (DateTrigger, error) {
	if item.DueDate == nil {
		return DateTrigger{}, ErrInvalidDueDate
	}
	due, ok := parseDay(*item.DueDate, loc)
	if !ok {
		return DateTrigger{}, ErrInvalidDueDate
	}
	return DateTrigger{DueDate: due, NotifyBeforeDays: item.NotifyDays()}, nil
}

// Classification is the due state of one maintenance item or part
type Classification struct {
	ItemID         string      `json:"item_id"`
	VehicleID      string      `json:"vehicle_id,omitempty"`
	Title          string      `json:"title"`
	Source         AlertSource `json:"source"`
	State          State       `json:"state"`
	Trigger        TriggerKind `json:"trigger"`
	RemainingKm    *int        `json:"remaining_km,omitempty"`
	RemainingDays  *int        `json:"remaining_days,omitempty"`
	Remaining      string      `json:"remaining"`
	UrgencySortKey int         `json:"urgency_sort_key"`
}

// MaintenanceConfig tunes the classifier
type MaintenanceConfig struct {
	UrgencyKmPerDay int
	// NotifyDaysCap, when positive, caps every date look-ahead.
	NotifyDaysCap int
}

var DefaultMaintenanceConfig = MaintenanceConfig{UrgencyKmPerDay: DefaultUrgencyKmPerDay}

func (c MaintenanceConfig) urgencyScale() int {
	if c.UrgencyKmPerDay <= 0 {
		return DefaultUrgencyKmPerDay
	}
	return c.UrgencyKmPerDay
}

func (c MaintenanceConfig) notifyDays(days int) int {
	if c.NotifyDaysCap > 0 && days > c.NotifyDaysCap {
		return c.NotifyDaysCap
	}
	return days
}

func stateFor(remaining, notifyBefore int) State {
	switch {
	case remaining < 0:
		return StateOverdue
	case remaining <= notifyBefore:
		return StateUpcoming
	default:
		return StateOK
	}
}

// Classify resolves the state of a trigger at the given odometer reading and day
func (c MaintenanceConfig) Classify(trigger Trigger, odometer int, today time.Time) Classification {
	scale := c.urgencyScale()

	switch t := trigger.(type) {
	case KmTrigger:
		remaining := t.NextDueKm - odometer
		return Classification{
			State:          stateFor(remaining, t.NotifyBeforeKm),
			Trigger:        TriggerKm,
			RemainingKm:    &remaining,
			Remaining:      kmText(remaining),
			UrgencySortKey: remaining,
		}

	case DateTrigger:
		days := daysBetween(today, t.DueDate)
		return Classification{
			State:          stateFor(days, c.notifyDays(t.NotifyBeforeDays)),
			Trigger:        TriggerDate,
			RemainingDays:  &days,
			Remaining:      daysText(days),
			UrgencySortKey: days * scale,
		}

	case BothTriggers:
		km := t.Km.NextDueKm - odometer
		days := daysBetween(today, t.Date.DueDate)
		daysUrgency := days * scale

		// A negative value dominates, date first; otherwise the smaller urgency wins and km wins ties.
		useDate := days < 0 || (km >= 0 && daysUrgency < km)

		out := Classification{RemainingKm: &km, RemainingDays: &days}
		if useDate {
			out.Trigger = TriggerDate
			out.State = stateFor(days, c.notifyDays(t.Date.NotifyBeforeDays))
			out.Remaining = daysText(days)
			out.UrgencySortKey = daysUrgency
		} else {
			out.Trigger = TriggerKm
			out.State = stateFor(km, t.Km.NotifyBeforeKm)
			out.Remaining = kmText(km)
			out.UrgencySortKey = km
		}
		return out
	}

	return Classification{State: StateOK}
}

// ClassifyItem classifies a stored maintenance item
func (c MaintenanceConfig) ClassifyItem(item models.MaintenanceItem, odometer int, now time.Time) (Classification, error) {
	trigger, err := TriggerFor(item, now.Location())
	if err != nil {
		return Classification{}, err
	}
	out := c.Classify(trigger, odometer, now)
	out.ItemID = item.ID
	out.VehicleID = item.VehicleID
	out.Title = item.Title
	out.Source = SourceMaintenance
	return out, nil
}

// ClassifyPart classifies a part against the fixed 500 km window. ok is false for
// inactive parts and parts without a lifespan.
func ClassifyPart(part models.VehiclePart, odometer int) (Classification, bool) {
	if !part.IsActive {
		return Classification{}, false
	}
	dueKm, ok := part.DueKm()
	if !ok {
		return Classification{}, false
	}

	remaining := dueKm - odometer
	return Classification{
		ItemID:         part.ID,
		VehicleID:      part.VehicleID,
		Title:          part.Name,
		Source:         SourcePart,
		State:          stateFor(remaining, PartLookAheadKm),
		Trigger:        TriggerKm,
		RemainingKm:    &remaining,
		Remaining:      kmText(remaining),
		UrgencySortKey: remaining,
	}, true
}

func stateRank(s State) int {
	switch s {
	case StateOverdue:
		return 0
	case StateUpcoming:
		return 1
	default:
		return 2
	}
}

// RankAlerts orders overdue before upcoming before ok, then by urgency sort key.
func RankAlerts(alerts []Classification) {
	sort.SliceStable(alerts, func(i, j int) bool {
		ri, rj := stateRank(alerts[i].State), stateRank(alerts[j].State)
		if ri != rj {
			return ri < rj
		}
		return alerts[i].UrgencySortKey < alerts[j].UrgencySortKey
	})
}

// Alerts classifies every item and part and returns the UPCOMING and OVERDUE ones ranked.
// Items that cannot be classified are returned as errors and skipped.
func (c MaintenanceConfig) Alerts(items []models.MaintenanceItem, parts []models.VehiclePart, odometer int, now time.Time) ([]Classification, []error) {
	alerts := make([]Classification, 0)
	var errs []error

	for _, item := range items {
		cls, err := c.ClassifyItem(item, odometer, now)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		if cls.State != StateOK {
			alerts = append(alerts, cls)
		}
	}

	for _, part := range parts {
		cls, ok := ClassifyPart(part, odometer)
		if ok && cls.State != StateOK {
			alerts = append(alerts, cls)
		}
	}

	RankAlerts(alerts)
	return alerts, errs
}

// FleetAlerts runs Alerts per vehicle, each against its own odometer, and ranks the merged result.
func (c MaintenanceConfig) FleetAlerts(items []models.MaintenanceItem, parts []models.VehiclePart, odometers map[string]int, now time.Time) ([]Classification, []error) {
	itemsBy := make(map[string][]models.MaintenanceItem)
	partsBy := make(map[string][]models.VehiclePart)
	var vehicles []string
	seen := make(map[string]bool)
	track := func(id string) {
		if !seen[id] {
			seen[id] = true
			vehicles = append(vehicles, id)
		}
	}

	for _, item := range items {
		itemsBy[item.VehicleID] = append(itemsBy[item.VehicleID], item)
		track(item.VehicleID)
	}
	for _, part := range parts {
		partsBy[part.VehicleID] = append(partsBy[part.VehicleID], part)
		track(part.VehicleID)
	}

	alerts := make([]Classification, 0)
	var errs []error
	for _, v := range vehicles {
		a, e := c.Alerts(itemsBy[v], partsBy[v], odometers[v], now)
		alerts = append(alerts, a...)
		errs = append(errs, e...)
	}

	RankAlerts(alerts)
	return alerts, errs
}

// ForDashboard returns c with the dashboard's date look-ahead cap applied
func (c MaintenanceConfig) ForDashboard() MaintenanceConfig {
	c.NotifyDaysCap = DashboardNotifyDaysCap
	return c
}

func kmText(remaining int) string {
	if remaining < 0 {
		return fmt.Sprintf("%d km overdue", -remaining)
	}
	return fmt.Sprintf("%d km", remaining)
}

func daysText(days int) string {
	switch {
	case days < -1:
		return fmt.Sprintf("%d days overdue", -days)
	case days == -1:
		return "1 day overdue"
	case days == 0:
		return "due today"
	case days == 1:
		return "1 day"
	default:
		return fmt.Sprintf("%d days", days)
	}
}
