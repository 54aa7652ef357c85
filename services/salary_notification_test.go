package services

import (
	"testing"
	"time"

	"gestpro-backend/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNotifyForecastCalculatedMonthlyDedupe(t *testing.T) {
	db := setupTestDB(t)
	admin := seedUser(t, db, models.RoleAdmin, nil)
	rate := 40.0
	employee := seedUser(t, db, models.RoleEmployee, &rate)

	forecast := models.SalaryForecast{EmployeeID: employee.ID, Month: 3, Year: 2025, Amount: 2400}
	require.NoError(t, db.Create(&forecast).Error)

	svc := NewSalaryNotificationService(db, NoopNotifier{})
	svc.now = func() time.Time { return time.Date(2025, 3, 31, 18, 0, 0, 0, time.UTC) }

	first := svc.NotifyForecastCalculated()
	require.True(t, first.Success)
	assert.Equal(t, 1, first.Notified)

	var stamped models.SalaryForecast
	require.NoError(t, db.First(&stamped, "id = ?", forecast.ID).Error)
	require.NotNil(t, stamped.NotifiedAt)
	assert.Equal(t, "2025-03-31", stamped.NotifiedAt.Format("2006-01-02"))

	second := svc.NotifyForecastCalculated()
	require.True(t, second.Success)
	assert.Equal(t, 0, second.Notified)

	var count int64
	require.NoError(t, db.Model(&models.Notification{}).
		Where("user_id = ? AND source_type = ?", admin.ID, models.SourceSalaryForecast).
		Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestNotifyForecastCalculatedWithoutForecasts(t *testing.T) {
	db := setupTestDB(t)
	seedUser(t, db, models.RoleAdmin, nil)

	svc := NewSalaryNotificationService(db, NoopNotifier{})
	result := svc.NotifyForecastCalculated()
	require.True(t, result.Success)
	assert.Equal(t, 0, result.Notified)
}

func TestAutoCreateSalaryChargesSkipsAlreadyCharged(t *testing.T) {
	db := setupTestDB(t)
	rate := 40.0
	employee := seedUser(t, db, models.RoleEmployee, &rate)

	// Real clock: the skip check matches charges created this month.
	now := time.Now()
	forecast := models.SalaryForecast{
		EmployeeID: employee.ID,
		Month:      int(now.Month()),
		Year:       now.Year(),
		Amount:     1800,
	}
	require.NoError(t, db.Create(&forecast).Error)

	svc := NewSalaryNotificationService(db, NoopNotifier{})

	first := svc.AutoCreateSalaryCharges()
	require.True(t, first.Success)
	assert.Equal(t, 1, first.ChargesCreated)
	assert.InDelta(t, 1800, first.TotalAmount, 0.001)

	second := svc.AutoCreateSalaryCharges()
	require.True(t, second.Success)
	assert.Equal(t, 0, second.ChargesCreated)

	var charges []models.Charge
	require.NoError(t, db.Where("employee_id = ?", employee.ID).Find(&charges).Error)
	require.Len(t, charges, 1)
	assert.Equal(t, models.ChargeCategorySalary, charges[0].Category)

	// Due on the 5th of the following month.
	deadline := time.Date(now.Year(), now.Month(), 5, 0, 0, 0, 0, now.Location()).AddDate(0, 1, 0)
	assert.Equal(t, deadline.Format("2006-01-02"), charges[0].Date.Format("2006-01-02"))
}

func TestAlertPaymentLateRespectsGraceDays(t *testing.T) {
	db := setupTestDB(t)
	admin := seedUser(t, db, models.RoleAdmin, nil)
	rate := 40.0
	employee := seedUser(t, db, models.RoleEmployee, &rate)

	forecast := models.SalaryForecast{EmployeeID: employee.ID, Month: 3, Year: 2025, Amount: 2000}
	require.NoError(t, db.Create(&forecast).Error)

	svc := NewSalaryNotificationService(db, NoopNotifier{})

	// Before day 3: silent.
	svc.now = func() time.Time { return time.Date(2025, 3, 2, 9, 0, 0, 0, time.UTC) }
	early := svc.AlertPaymentLate()
	require.True(t, early.Success)
	assert.Equal(t, 0, early.Notified)

	// Day 3 with an unpaid forecast: escalate to admins.
	svc.now = func() time.Time { return time.Date(2025, 3, 3, 9, 0, 0, 0, time.UTC) }
	escalated := svc.AlertPaymentLate()
	require.True(t, escalated.Success)
	assert.Equal(t, 1, escalated.Notified)

	var count int64
	require.NoError(t, db.Model(&models.Notification{}).
		Where("user_id = ? AND source_type = ?", admin.ID, models.SourceSalaryLate).
		Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestAlertPaymentLateAllPaid(t *testing.T) {
	db := setupTestDB(t)
	seedUser(t, db, models.RoleAdmin, nil)
	rate := 40.0
	employee := seedUser(t, db, models.RoleEmployee, &rate)

	paidAt := time.Date(2025, 3, 2, 0, 0, 0, 0, time.UTC)
	forecast := models.SalaryForecast{
		EmployeeID: employee.ID, Month: 3, Year: 2025, Amount: 2000,
		Paid: true, PaidAt: &paidAt,
	}
	require.NoError(t, db.Create(&forecast).Error)

	svc := NewSalaryNotificationService(db, NoopNotifier{})
	svc.now = func() time.Time { return time.Date(2025, 3, 5, 9, 0, 0, 0, time.UTC) }

	result := svc.AlertPaymentLate()
	require.True(t, result.Success)
	assert.Equal(t, 0, result.Notified)
}
