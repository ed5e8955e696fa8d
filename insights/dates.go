// File: /insights/dates.go
package insights

import (
	"time"

	"fueltrack-api/models"
)

// parseDay reads a calendar-day string in loc. RFC 3339 timestamps are
// accepted and truncated to their day.
func parseDay(value string, loc *time.Location) (time.Time, bool) {
	if loc == nil {
		loc = time.UTC
	}
	if t, err := time.ParseInLocation(models.DateLayout, value, loc); err == nil {
		return t, true
	}
	if t, err := time.Parse(time.RFC3339, value); err == nil {
		return startOfDay(t.In(loc)), true
	}
	return time.Time{}, false
}

func startOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// daysBetween counts calendar days from a to b (negative when b is earlier)
func daysBetween(a, b time.Time) int {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	ua := time.Date(ay, am, ad, 0, 0, 0, 0, time.UTC)
	ub := time.Date(by, bm, bd, 0, 0, 0, 0, time.UTC)
	return int(ub.Sub(ua).Hours() / 24)
}

func addDays(t time.Time, days int) time.Time {
	return t.AddDate(0, 0, days)
}

func daysInMonth(t time.Time) int {
	return time.Date(t.Year(), t.Month()+1, 0, 0, 0, 0, 0, t.Location()).Day()
}

func monthKey(t time.Time) string {
	return t.Format("2006-01")
}

// withinDays reports whether day lies in [from, to] by calendar day
func withinDays(day, from, to time.Time) bool {
	return daysBetween(from, day) >= 0 && daysBetween(day, to) >= 0
}
