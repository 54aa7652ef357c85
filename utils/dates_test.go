package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestDaysLate(t *testing.T) {
	due := time.Date(2025, 1, 10, 0, 0, 0, 0, time.UTC)

	assert.Equal(t, 0, DaysLate(due, due))
	assert.Equal(t, 0, DaysLate(due, due.AddDate(0, 0, -1)))
	assert.Equal(t, 10, DaysLate(due, time.Date(2025, 1, 20, 0, 0, 0, 0, time.UTC)))
	// Partial days round up.
	assert.Equal(t, 11, DaysLate(due, time.Date(2025, 1, 20, 12, 0, 0, 0, time.UTC)))
	assert.Equal(t, 1, DaysLate(due, due.Add(time.Hour)))
}

func TestNextDueDatePinsDay15(t *testing.T) {
	from := time.Date(2025, 1, 10, 0, 0, 0, 0, time.UTC)

	assert.Equal(t, "2025-02-15", NextDueDate("MONTHLY", from).Format("2006-01-02"))
	assert.Equal(t, "2025-04-15", NextDueDate("QUARTERLY", from).Format("2006-01-02"))
	assert.Equal(t, "2025-07-15", NextDueDate("SEMIANNUAL", from).Format("2006-01-02"))
	assert.Equal(t, "2026-01-15", NextDueDate("ANNUAL", from).Format("2006-01-02"))

	// One-off adds a flat 15 days, no pinning.
	assert.Equal(t, "2025-01-25", NextDueDate("ONE_OFF", from).Format("2006-01-02"))

	// Stepping from a pinned date stays on the 15th.
	pinned := time.Date(2025, 2, 15, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, "2025-03-15", NextDueDate("MONTHLY", pinned).Format("2006-01-02"))
}

func TestMonthWindow(t *testing.T) {
	start, end := MonthWindow(2025, 2, time.UTC)
	assert.Equal(t, "2025-02-01", start.Format("2006-01-02"))
	assert.Equal(t, "2025-03-01", end.Format("2006-01-02"))

	start, end = MonthWindow(2025, 12, time.UTC)
	assert.Equal(t, "2025-12-01", start.Format("2006-01-02"))
	assert.Equal(t, "2026-01-01", end.Format("2006-01-02"))
}

func TestValidatePeriod(t *testing.T) {
	assert.True(t, ValidatePeriod(1, 2025))
	assert.True(t, ValidatePeriod(12, 2020))
	assert.False(t, ValidatePeriod(0, 2025))
	assert.False(t, ValidatePeriod(13, 2025))
	assert.False(t, ValidatePeriod(6, 2019))
}
