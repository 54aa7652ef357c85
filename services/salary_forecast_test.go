package services

import (
	"testing"
	"time"

	"gestpro-backend/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecalculateWithoutHourlyRate(t *testing.T) {
	db := setupTestDB(t)
	employee := seedUser(t, db, models.RoleEmployee, nil)

	forecast, err := NewSalaryForecastService(db).
		Recalculate(employee.ID, time.Date(2025, 3, 15, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.Nil(t, forecast)

	var count int64
	require.NoError(t, db.Model(&models.SalaryForecast{}).Count(&count).Error)
	assert.Equal(t, int64(0), count)
}

func TestRecalculateSumsValidatedHours(t *testing.T) {
	db := setupTestDB(t)
	rate := 50.0
	employee := seedUser(t, db, models.RoleEmployee, &rate)

	sheets := []models.TimeSheet{
		{
			EmployeeID: employee.ID,
			Date:       time.Date(2025, 3, 3, 0, 0, 0, 0, time.UTC),
			RegularHrs: 8, OvertimeHrs: 2, SickHrs: 4,
			Status: models.TimeSheetValidated,
		},
		{
			EmployeeID: employee.ID,
			Date:       time.Date(2025, 3, 4, 0, 0, 0, 0, time.UTC),
			RegularHrs: 2,
			Status:     models.TimeSheetValidated,
		},
		// Draft hours never count.
		{
			EmployeeID: employee.ID,
			Date:       time.Date(2025, 3, 5, 0, 0, 0, 0, time.UTC),
			RegularHrs: 8,
			Status:     models.TimeSheetDraft,
		},
		// Wrong month.
		{
			EmployeeID: employee.ID,
			Date:       time.Date(2025, 4, 1, 0, 0, 0, 0, time.UTC),
			RegularHrs: 8,
			Status:     models.TimeSheetValidated,
		},
	}
	for i := range sheets {
		require.NoError(t, db.Create(&sheets[i]).Error)
	}

	forecast, err := NewSalaryForecastService(db).
		Recalculate(employee.ID, time.Date(2025, 3, 15, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	require.NotNil(t, forecast)

	// 8 + 2 + 2 payable hours at 50/h. Sick hours excluded.
	assert.InDelta(t, 12, forecast.HoursValidated, 0.001)
	assert.InDelta(t, 600, forecast.Amount, 0.001)
	assert.Equal(t, 3, forecast.Month)
	assert.Equal(t, 2025, forecast.Year)
}

func TestRecalculateUpsertsPerPeriod(t *testing.T) {
	db := setupTestDB(t)
	rate := 40.0
	employee := seedUser(t, db, models.RoleEmployee, &rate)

	sheet := models.TimeSheet{
		EmployeeID: employee.ID,
		Date:       time.Date(2025, 3, 3, 0, 0, 0, 0, time.UTC),
		RegularHrs: 10,
		Status:     models.TimeSheetValidated,
	}
	require.NoError(t, db.Create(&sheet).Error)

	svc := NewSalaryForecastService(db)
	ref := time.Date(2025, 3, 15, 0, 0, 0, 0, time.UTC)

	first, err := svc.Recalculate(employee.ID, ref)
	require.NoError(t, err)
	assert.InDelta(t, 400, first.Amount, 0.001)

	sheet.OvertimeHrs = 5
	require.NoError(t, db.Save(&sheet).Error)

	second, err := svc.Recalculate(employee.ID, ref)
	require.NoError(t, err)
	assert.InDelta(t, 600, second.Amount, 0.001)

	var count int64
	require.NoError(t, db.Model(&models.SalaryForecast{}).
		Where("employee_id = ?", employee.ID).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestStatisticsTrailingMonths(t *testing.T) {
	db := setupTestDB(t)
	rate := 40.0
	employee := seedUser(t, db, models.RoleEmployee, &rate)

	forecasts := []models.SalaryForecast{
		{EmployeeID: employee.ID, Month: 1, Year: 2025, Amount: 1000},
		{EmployeeID: employee.ID, Month: 2, Year: 2025, Amount: 2000},
		{EmployeeID: employee.ID, Month: 3, Year: 2025, Amount: 3000},
	}
	for i := range forecasts {
		require.NoError(t, db.Create(&forecasts[i]).Error)
	}

	svc := NewSalaryForecastService(db)
	svc.now = func() time.Time { return time.Date(2025, 3, 20, 0, 0, 0, 0, time.UTC) }

	stats, err := svc.Statistics(employee.ID, 2)
	require.NoError(t, err)
	assert.Equal(t, 2, stats.Months)
	assert.InDelta(t, 5000, stats.Total, 0.001)
	assert.InDelta(t, 2500, stats.Average, 0.001)
}

func TestMarkPaid(t *testing.T) {
	db := setupTestDB(t)
	rate := 40.0
	employee := seedUser(t, db, models.RoleEmployee, &rate)

	forecast := models.SalaryForecast{EmployeeID: employee.ID, Month: 3, Year: 2025, Amount: 1200}
	require.NoError(t, db.Create(&forecast).Error)

	updated, err := NewSalaryForecastService(db).MarkPaid(employee.ID, 3, 2025)
	require.NoError(t, err)
	assert.True(t, updated.Paid)
	require.NotNil(t, updated.PaidAt)

	_, err = NewSalaryForecastService(db).MarkPaid(employee.ID, 4, 2025)
	assert.Error(t, err)
}
