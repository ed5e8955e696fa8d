// File: /insights/rules.go
package insights

import (
	"fmt"
	"math"
	"sort"
	"time"

	"fueltrack-api/models"
)

type Priority string

const (
	PriorityHigh   Priority = "high"
	PriorityMedium Priority = "medium"
	PriorityLow    Priority = "low"
)

func (p Priority) rank() int {
	switch p {
	case PriorityHigh:
		return 0
	case PriorityMedium:
		return 1
	default:
		return 2
	}
}

type NudgeKind string

const (
	NudgeMorning         NudgeKind = "morning"
	NudgeEvening         NudgeKind = "evening"
	NudgeHighConsumption NudgeKind = "high-consumption"
	NudgeMaintenance     NudgeKind = "maintenance"
	NudgeBudget          NudgeKind = "budget"
	NudgeStreak          NudgeKind = "streak"
	NudgeTip             NudgeKind = "tip"
)

// Action handlers understood by clients
const (
	ActionAddLog      = "addLog"
	ActionAddFuel     = "addFuel"
	ActionMaintenance = "maintenance"
)

type Action struct {
	Label   string `json:"label"`
	Handler string `json:"handler"`
}

// Nudge is a short contextual message. Nudges are rebuilt on every evaluation.
type Nudge struct {
	ID          string    `json:"id"`
	Kind        NudgeKind `json:"kind"`
	Priority    Priority  `json:"priority"`
	Title       string    `json:"title"`
	Message     string    `json:"message"`
	Action      *Action   `json:"action,omitempty"`
	Dismissable bool      `json:"dismissable"`
}

// RuleConfig holds the hour windows and thresholds used by the default rules
type RuleConfig struct {
	MorningStartHour   int
	MorningEndHour     int
	EveningStartHour   int
	EveningEndHour     int
	RefuelReminderDays int
	SpendingWindowDays int
	SpendingIncrease   float64 // ratio, 1.15 = +15 %
	BudgetCritical     float64 // percent used
	BudgetPaceMargin   float64 // percentage points above elapsed month
	StreakMinDays      int
	StreakLookbackDays int
	Maintenance        MaintenanceConfig
	Tips               []string
}

var DefaultRuleConfig = RuleConfig{
	MorningStartHour:   7,
	MorningEndHour:     9,
	EveningStartHour:   18,
	EveningEndHour:     21,
	RefuelReminderDays: 5,
	SpendingWindowDays: 14,
	SpendingIncrease:   1.15,
	BudgetCritical:     90,
	BudgetPaceMargin:   15,
	StreakMinDays:      7,
	StreakLookbackDays: 30,
	Maintenance:        DefaultMaintenanceConfig,
	Tips:               DefaultTips,
}

// EvalContext is the immutable snapshot every rule reads from
type EvalContext struct {
	Logs             []models.TripLog
	Purchases        []models.FuelPurchase
	MaintenanceItems []models.MaintenanceItem
	Parts            []models.VehiclePart
	CurrentOdometer  int
	// Odometers, when set, holds the reading per vehicle and replaces CurrentOdometer.
	Odometers        map[string]int
	MonthlyBudget    float64
	// BudgetPurchases, when set, is what the monthly budget is measured against instead of Purchases.
	BudgetPurchases  []models.FuelPurchase
	Now              time.Time
	Config           RuleConfig
}

func (ec *EvalContext) today() time.Time {
	return startOfDay(ec.Now)
}

// Rule emits zero or more nudges. emitted holds what earlier rules produced in this evaluation.
type Rule struct {
	Name     string
	Evaluate func(ec *EvalContext, emitted []Nudge) []Nudge
}

var DefaultRules = []Rule{
	{Name: "morning-fuel", Evaluate: morningFuelRule},
	{Name: "evening-log", Evaluate: eveningLogRule},
	{Name: "spending-trend", Evaluate: spendingTrendRule},
	{Name: "maintenance", Evaluate: maintenanceRule},
	{Name: "budget", Evaluate: budgetRule},
	{Name: "streak", Evaluate: streakRule},
	{Name: "daily-tip", Evaluate: dailyTipRule},
}

type RuleEngine struct {
	Rules []Rule
}

func NewRuleEngine() *RuleEngine {
	return &RuleEngine{Rules: DefaultRules}
}

// Evaluate runs every rule, drops dismissed dismissable nudges and sorts by priority.
func (e *RuleEngine) Evaluate(ec EvalContext, dismissed map[string]bool) []Nudge {
	emitted := make([]Nudge, 0)
	for _, rule := range e.Rules {
		emitted = append(emitted, rule.Evaluate(&ec, emitted)...)
	}

	result := make([]Nudge, 0, len(emitted))
	for _, n := range emitted {
		if n.Dismissable && dismissed[n.ID] {
			continue
		}
		result = append(result, n)
	}

	sort.SliceStable(result, func(i, j int) bool {
		return result[i].Priority.rank() < result[j].Priority.rank()
	})
	return result
}

// Evaluate runs the default rule set
func Evaluate(ec EvalContext, dismissed map[string]bool) []Nudge {
	return NewRuleEngine().Evaluate(ec, dismissed)
}

func inHourWindow(t time.Time, start, end int) bool {
	h := t.Hour()
	return h >= start && h < end
}

func morningFuelRule(ec *EvalContext, _ []Nudge) []Nudge {
	cfg := ec.Config
	if !inHourWindow(ec.Now, cfg.MorningStartHour, cfg.MorningEndHour) {
		return nil
	}

	var last time.Time
	found := false
	for _, p := range ec.Purchases {
		if day, ok := parseDay(p.Date, ec.Now.Location()); ok && (!found || day.After(last)) {
			last, found = day, true
		}
	}
	if !found {
		return nil
	}

	days := int(math.Floor(ec.Now.Sub(last).Hours() / 24))
	if days < cfg.RefuelReminderDays {
		return nil
	}

	return []Nudge{{
		ID:          "morning-fuel",
		Kind:        NudgeMorning,
		Priority:    PriorityMedium,
		Title:       "Good morning!",
		Message:     fmt.Sprintf("It has been %d days since your last refuel. Check the tank before you head out.", days),
		Action:      &Action{Label: "Add fuel", Handler: ActionAddFuel},
		Dismissable: true,
	}}
}

func eveningLogRule(ec *EvalContext, _ []Nudge) []Nudge {
	cfg := ec.Config
	if !inHourWindow(ec.Now, cfg.EveningStartHour, cfg.EveningEndHour) {
		return nil
	}

	today := ec.today()
	valid := 0
	for _, l := range ec.Logs {
		day, ok := parseDay(l.Date, ec.Now.Location())
		if !ok {
			continue
		}
		if day.Equal(today) {
			return nil
		}
		valid++
	}
	if valid == 0 {
		return nil
	}

	return []Nudge{{
		ID:          "evening-log",
		Kind:        NudgeEvening,
		Priority:    PriorityLow,
		Title:       "Daily log",
		Message:     "Don't forget to log today's mileage. It only takes 30 seconds.",
		Action:      &Action{Label: "Add log", Handler: ActionAddLog},
		Dismissable: true,
	}}
}

func spendingTrendRule(ec *EvalContext, _ []Nudge) []Nudge {
	cfg := ec.Config
	today := ec.today()
	window := cfg.SpendingWindowDays

	recentFrom := addDays(today, -(window - 1))
	prevFrom := addDays(today, -(2*window - 1))
	prevTo := addDays(today, -window)

	var recent, prev float64
	for _, p := range ec.Purchases {
		day, ok := parseDay(p.Date, ec.Now.Location())
		if !ok {
			continue
		}
		switch {
		case withinDays(day, recentFrom, today):
			recent += p.TotalAmount
		case withinDays(day, prevFrom, prevTo):
			prev += p.TotalAmount
		}
	}

	if prev <= 0 || recent <= prev*cfg.SpendingIncrease {
		return nil
	}

	increase := math.Round((recent - prev) / prev * 100)
	return []Nudge{{
		ID:          "high-consumption",
		Kind:        NudgeHighConsumption,
		Priority:    PriorityHigh,
		Title:       "High spending",
		Message:     fmt.Sprintf("You spent %.0f%% more on fuel in the last %d days. Check tire pressure and driving habits.", increase, window),
		Dismissable: true,
	}}
}

func maintenanceRule(ec *EvalContext, _ []Nudge) []Nudge {
	var alerts []Classification
	if ec.Odometers != nil {
		alerts, _ = ec.Config.Maintenance.FleetAlerts(ec.MaintenanceItems, ec.Parts, ec.Odometers, ec.Now)
	} else {
		alerts, _ = ec.Config.Maintenance.Alerts(ec.MaintenanceItems, ec.Parts, ec.CurrentOdometer, ec.Now)
	}

	nudges := make([]Nudge, 0, len(alerts))
	for _, a := range alerts {
		priority := PriorityMedium
		message := fmt.Sprintf("%s remaining for %s. Book a service soon.", a.Remaining, a.Title)
		if a.State == StateOverdue {
			priority = PriorityHigh
			message = fmt.Sprintf("%s is overdue (%s). Take care of it now.", a.Title, a.Remaining)
		}

		id := "maintenance-" + a.ItemID
		title := a.Title
		if a.Source == SourcePart {
			id = "part-" + a.ItemID
			title = a.Title + " replacement"
		}

		nudges = append(nudges, Nudge{
			ID:          id,
			Kind:        NudgeMaintenance,
			Priority:    priority,
			Title:       title,
			Message:     message,
			Action:      &Action{Label: "Open maintenance", Handler: ActionMaintenance},
			Dismissable: false,
		})
	}
	return nudges
}

func budgetRule(ec *EvalContext, _ []Nudge) []Nudge {
	if ec.MonthlyBudget <= 0 {
		return nil
	}

	purchases := ec.Purchases
	if ec.BudgetPurchases != nil {
		purchases = ec.BudgetPurchases
	}
	status := BudgetFor(purchases, ec.MonthlyBudget, ec.Now)
	cfg := ec.Config

	switch {
	case status.UsedPercent >= cfg.BudgetCritical:
		return []Nudge{{
			ID:          "budget-critical",
			Kind:        NudgeBudget,
			Priority:    PriorityHigh,
			Title:       "Budget alert",
			Message:     fmt.Sprintf("You have used %.0f%% of your monthly budget.", math.Round(status.UsedPercent)),
			Dismissable: true,
		}}
	case status.UsedPercent > status.ElapsedPercent+cfg.BudgetPaceMargin:
		return []Nudge{{
			ID:          "budget-warning",
			Kind:        NudgeBudget,
			Priority:    PriorityMedium,
			Title:       "Budget pace",
			Message:     fmt.Sprintf("You are spending faster than planned: %.0f of %.0f so far.", status.Spent, status.Budget),
			Dismissable: true,
		}}
	}
	return nil
}

// LoggingStreak counts consecutive logged days ending today, looking back at most lookback days.
func LoggingStreak(logs []models.TripLog, now time.Time, lookback int) int {
	days := make(map[string]bool, len(logs))
	for _, l := range logs {
		if day, ok := parseDay(l.Date, now.Location()); ok {
			days[day.Format(models.DateLayout)] = true
		}
	}

	streak := 0
	check := startOfDay(now)
	for i := 0; i < lookback; i++ {
		if !days[check.Format(models.DateLayout)] {
			break
		}
		streak++
		check = addDays(check, -1)
	}
	return streak
}

func streakRule(ec *EvalContext, _ []Nudge) []Nudge {
	streak := LoggingStreak(ec.Logs, ec.Now, ec.Config.StreakLookbackDays)
	if streak < ec.Config.StreakMinDays {
		return nil
	}

	return []Nudge{{
		ID:          "streak",
		Kind:        NudgeStreak,
		Priority:    PriorityLow,
		Title:       fmt.Sprintf("%d-day streak!", streak),
		Message:     "Great work! Regular logging is key to saving fuel.",
		Dismissable: true,
	}}
}

func dailyTipRule(ec *EvalContext, emitted []Nudge) []Nudge {
	for _, n := range emitted {
		if n.Priority == PriorityHigh {
			return nil
		}
	}

	tip, ok := TipOfTheDay(ec.Config.Tips, ec.Now)
	if !ok {
		return nil
	}
	return []Nudge{{
		ID:          "daily-tip",
		Kind:        NudgeTip,
		Priority:    PriorityLow,
		Title:       "Tip of the day",
		Message:     tip,
		Dismissable: true,
	}}
}
