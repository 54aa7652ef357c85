// utils/dates.go
package utils

import (
	"math"
	"time"
)

// DaysLate counts whole days of lateness, rounding any partial day up.
func DaysLate(dueDate, now time.Time) int {
	if !now.After(dueDate) {
		return 0
	}
	return int(math.Ceil(now.Sub(dueDate).Hours() / 24))
}

// MonthWindow returns the inclusive start and exclusive end of the
// given calendar month.
func MonthWindow(year, month int, loc *time.Location) (time.Time, time.Time) {
	start := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, loc)
	return start, start.AddDate(0, 1, 0)
}

// NextDueDate steps a date forward by one billing period and pins the
// result to the 15th of the landing month.
func NextDueDate(frequency string, from time.Time) time.Time {
	var due time.Time
	switch frequency {
	case "MONTHLY":
		due = from.AddDate(0, 1, 0)
	case "QUARTERLY":
		due = from.AddDate(0, 3, 0)
	case "SEMIANNUAL":
		due = from.AddDate(0, 6, 0)
	case "ANNUAL":
		due = from.AddDate(1, 0, 0)
	default:
		// One-off: due 15 days out, no pinning.
		return from.AddDate(0, 0, 15)
	}
	return time.Date(due.Year(), due.Month(), 15, 0, 0, 0, 0, due.Location())
}
