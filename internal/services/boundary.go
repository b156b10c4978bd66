package services

import (
	"time"

	"huddle/internal/models"
)

// NextBoundary maps a cadence to the time a notification scheduled now becomes
// due. Boundaries are fixed in UTC: daily is the next midnight, weekly the next
// Monday midnight. The second return value is false when the cadence produces
// no delivery at all (never, or an unknown value).
func NextBoundary(cadence models.Cadence, now time.Time) (time.Time, bool) {
	now = now.UTC()

	switch cadence {
	case models.CadenceImmediate:
		return now, true
	case models.CadenceDaily:
		midnight := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
		return midnight.AddDate(0, 0, 1), true
	case models.CadenceWeekly:
		midnight := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
		days := (int(time.Monday) - int(now.Weekday()) + 7) % 7
		boundary := midnight.AddDate(0, 0, days)
		if !boundary.After(now) {
			boundary = boundary.AddDate(0, 0, 7)
		}
		return boundary, true
	default:
		return time.Time{}, false
	}
}
