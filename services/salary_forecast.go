// services/salary_forecast.go
package services

import (
	"errors"
	"time"

	"gestpro-backend/models"
	"gestpro-backend/utils"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// SalaryForecastService derives projected salary costs from validated
// timesheets. Runs after timesheet validation and from the monthly
// cron flows.
type SalaryForecastService struct {
	db  *gorm.DB
	now func() time.Time
}

func NewSalaryForecastService(db *gorm.DB) *SalaryForecastService {
	return &SalaryForecastService{db: db, now: time.Now}
}

// Recalculate rebuilds the forecast for the employee's month
// containing referenceDate. Returns nil (not an error) when the
// employee has no hourly rate configured: the feature simply does not
// apply. Sick and vacation hours are excluded from pay.
func (s *SalaryForecastService) Recalculate(employeeID uuid.UUID, referenceDate time.Time) (*models.SalaryForecast, error) {
	month := int(referenceDate.Month())
	year := referenceDate.Year()

	var employee models.User
	if err := s.db.First(&employee, "id = ?", employeeID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			log.Warn().Str("employee", employeeID.String()).Msg("salary forecast: employee not found")
			return nil, nil
		}
		return nil, err
	}

	if employee.HourlyRate == nil {
		log.Debug().Str("employee", employeeID.String()).Msg("salary forecast: no hourly rate configured")
		return nil, nil
	}

	start, end := utils.MonthWindow(year, month, referenceDate.Location())

	var sheets []models.TimeSheet
	if err := s.db.
		Where("employee_id = ? AND status = ?", employeeID, models.TimeSheetValidated).
		Where("date >= ? AND date < ?", start, end).
		Find(&sheets).Error; err != nil {
		return nil, err
	}

	var hours float64
	for _, ts := range sheets {
		hours += ts.RegularHrs + ts.OvertimeHrs
	}
	amount := hours * *employee.HourlyRate

	forecast := models.SalaryForecast{
		EmployeeID:     employeeID,
		Month:          month,
		Year:           year,
		Amount:         amount,
		HoursValidated: hours,
	}

	// Upsert keyed on (employee, month, year).
	err := s.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "employee_id"}, {Name: "month"}, {Name: "year"}},
		DoUpdates: clause.AssignmentColumns([]string{"amount", "hours_validated", "updated_at"}),
	}).Create(&forecast).Error
	if err != nil {
		return nil, err
	}

	var saved models.SalaryForecast
	if err := s.db.
		Where("employee_id = ? AND month = ? AND year = ?", employeeID, month, year).
		First(&saved).Error; err != nil {
		return nil, err
	}

	log.Info().Str("employee", employeeID.String()).Int("month", month).Int("year", year).
		Float64("amount", saved.Amount).Float64("hours", hours).
		Msg("salary forecast: recalculated")
	return &saved, nil
}

// SalaryStatistics summarizes an employee's trailing forecasts.
type SalaryStatistics struct {
	Total     float64                 `json:"total"`
	Average   float64                 `json:"average"`
	Months    int                     `json:"months"`
	Forecasts []models.SalaryForecast `json:"forecasts"`
}

// Statistics aggregates the trailing N months of forecasts for one
// employee (12 by default).
func (s *SalaryForecastService) Statistics(employeeID uuid.UUID, months int) (*SalaryStatistics, error) {
	if months <= 0 {
		months = 12
	}

	now := s.now()
	start := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location()).AddDate(0, -(months - 1), 0)

	var forecasts []models.SalaryForecast
	if err := s.db.
		Where("employee_id = ?", employeeID).
		Where("(year > ?) OR (year = ? AND month >= ?)", start.Year(), start.Year(), int(start.Month())).
		Order("year ASC, month ASC").
		Find(&forecasts).Error; err != nil {
		return nil, err
	}

	stats := &SalaryStatistics{Forecasts: forecasts, Months: len(forecasts)}
	for _, f := range forecasts {
		stats.Total += f.Amount
	}
	if len(forecasts) > 0 {
		stats.Average = stats.Total / float64(len(forecasts))
	}
	return stats, nil
}

// RecalculateAll rebuilds the current month's forecast for every
// active employee. Per-employee failures are collected, the batch
// continues.
func (s *SalaryForecastService) RecalculateAll() (int, []string) {
	now := s.now()
	errs := []string{}
	count := 0

	var employees []models.User
	if err := s.db.
		Where("is_active = ? AND hourly_rate IS NOT NULL", true).
		Find(&employees).Error; err != nil {
		return 0, []string{err.Error()}
	}

	for _, e := range employees {
		forecast, err := s.Recalculate(e.ID, now)
		if err != nil {
			errs = append(errs, err.Error())
			continue
		}
		if forecast != nil {
			count++
		}
	}
	return count, errs
}

// MarkPaid flags an employee's forecast for a period as paid.
func (s *SalaryForecastService) MarkPaid(employeeID uuid.UUID, month, year int) (*models.SalaryForecast, error) {
	var forecast models.SalaryForecast
	if err := s.db.
		Where("employee_id = ? AND month = ? AND year = ?", employeeID, month, year).
		First(&forecast).Error; err != nil {
		return nil, err
	}

	now := s.now()
	if err := s.db.Model(&forecast).Updates(map[string]interface{}{
		"paid":    true,
		"paid_at": now,
	}).Error; err != nil {
		return nil, err
	}
	forecast.Paid = true
	forecast.PaidAt = &now
	return &forecast, nil
}
