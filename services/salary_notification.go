// services/salary_notification.go
package services

import (
	"errors"
	"fmt"
	"time"

	"gestpro-backend/models"
	"gestpro-backend/utils"

	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

// SalaryNotificationService drives the monthly salary flows: admin
// notices when forecasts are calculated, payment-due reminders on the
// 1st (with automatic charge creation), and late-payment escalation
// from day 3. Every flow is idempotent per calendar month.
type SalaryNotificationService struct {
	db       *gorm.DB
	notifier Notifier
	now      func() time.Time
}

func NewSalaryNotificationService(db *gorm.DB, notifier Notifier) *SalaryNotificationService {
	return &SalaryNotificationService{db: db, notifier: notifier, now: time.Now}
}

// NotifyResult reports a notification fan-out.
type NotifyResult struct {
	Success  bool     `json:"success"`
	Notified int      `json:"notified"`
	Errors   []string `json:"errors"`
}

// notifyRoles creates one monthly-deduped notification per user in the
// given roles and sends a best-effort message through the notifier.
func (s *SalaryNotificationService) notifyRoles(roles []string, sourceType, title, message string, month, year int) NotifyResult {
	result := NotifyResult{Success: true, Errors: []string{}}

	var users []models.User
	if err := s.db.
		Where("role IN ? AND is_active = ?", roles, true).
		Find(&users).Error; err != nil {
		return NotifyResult{Success: false, Errors: []string{err.Error()}}
	}

	for _, user := range users {
		key := models.MonthlyDedupeKeyFor(user.ID, sourceType, month, year)

		var existing int64
		if err := s.db.Model(&models.Notification{}).
			Where("dedupe_key = ?", key).
			Count(&existing).Error; err != nil {
			result.Errors = append(result.Errors, err.Error())
			continue
		}
		if existing > 0 {
			continue
		}

		notification := models.Notification{
			UserID:     user.ID,
			Title:      title,
			Message:    message,
			Type:       models.NotificationAlert,
			Link:       "/dashboard/salary",
			SourceType: sourceType,
			DedupeKey:  &key,
		}
		if err := s.db.Create(&notification).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				continue
			}
			result.Success = false
			result.Errors = append(result.Errors, err.Error())
			continue
		}
		result.Notified++

		if user.Phone != "" {
			if err := s.notifier.Send(user.Phone, title, message); err != nil {
				log.Warn().Err(err).Str("user", user.ID.String()).Msg("salary notify: send failed")
			}
		}
	}
	return result
}

// NotifyForecastCalculated tells the admins that this month's
// forecasts exist. No-op when none do.
func (s *SalaryNotificationService) NotifyForecastCalculated() NotifyResult {
	now := s.now()
	month, year := int(now.Month()), now.Year()

	var forecasts []models.SalaryForecast
	if err := s.db.
		Where("month = ? AND year = ?", month, year).
		Find(&forecasts).Error; err != nil {
		return NotifyResult{Success: false, Errors: []string{err.Error()}}
	}
	if len(forecasts) == 0 {
		log.Info().Msg("salary notify: no forecasts for this month")
		return NotifyResult{Success: true, Errors: []string{}}
	}

	var total float64
	for _, f := range forecasts {
		total += f.Amount
	}

	title := "Salary forecasts calculated"
	message := fmt.Sprintf("Salary forecasts for %04d-%02d are ready: %.2f total for %d employee(s).",
		year, month, total, len(forecasts))
	result := s.notifyRoles([]string{models.RoleAdmin}, models.SourceSalaryForecast, title, message, month, year)

	if result.Success {
		if err := s.db.Model(&models.SalaryForecast{}).
			Where("month = ? AND year = ? AND notified_at IS NULL", month, year).
			Update("notified_at", now).Error; err != nil {
			log.Warn().Err(err).Msg("salary notify: stamping forecasts failed")
		}
	}
	return result
}

// NotifyPaymentDue reminds admins and managers on the 1st of the month
// that salaries are due by the 5th, then materializes the matching
// salary charges.
func (s *SalaryNotificationService) NotifyPaymentDue() (NotifyResult, ChargeCreationResult) {
	now := s.now()
	month, year := int(now.Month()), now.Year()

	title := "Salary payments due"
	message := fmt.Sprintf("Salaries for %04d-%02d must be paid by the 5th.", year, month)
	notify := s.notifyRoles([]string{models.RoleAdmin, models.RoleManager}, models.SourceSalaryDue, title, message, month, year)

	charges := s.AutoCreateSalaryCharges()
	return notify, charges
}

// AlertPaymentLate escalates to the admins when unpaid forecasts
// remain on or after day 3 of the month.
func (s *SalaryNotificationService) AlertPaymentLate() NotifyResult {
	now := s.now()
	month, year := int(now.Month()), now.Year()

	if now.Day() < 3 {
		return NotifyResult{Success: true, Errors: []string{}}
	}

	var unpaid int64
	if err := s.db.Model(&models.SalaryForecast{}).
		Where("month = ? AND year = ? AND paid = ?", month, year, false).
		Count(&unpaid).Error; err != nil {
		return NotifyResult{Success: false, Errors: []string{err.Error()}}
	}
	if unpaid == 0 {
		return NotifyResult{Success: true, Errors: []string{}}
	}

	title := "Salary payments late"
	message := fmt.Sprintf("%d salary payment(s) for %04d-%02d are still unconfirmed past the deadline.", unpaid, year, month)
	return s.notifyRoles([]string{models.RoleAdmin}, models.SourceSalaryLate, title, message, month, year)
}

// ChargeCreationResult reports the salary charge materialization.
type ChargeCreationResult struct {
	Success        bool     `json:"success"`
	ChargesCreated int      `json:"chargesCreated"`
	TotalAmount    float64  `json:"totalAmount"`
	Errors         []string `json:"errors"`
}

// AutoCreateSalaryCharges writes one SALARY charge per employee
// forecast for the current month into the company ledger, due on the
// 5th of the next month. Employees already charged this month are
// skipped.
func (s *SalaryNotificationService) AutoCreateSalaryCharges() ChargeCreationResult {
	result := ChargeCreationResult{Success: true, Errors: []string{}}
	now := s.now()
	month, year := int(now.Month()), now.Year()

	var forecasts []models.SalaryForecast
	if err := s.db.
		Where("month = ? AND year = ?", month, year).
		Find(&forecasts).Error; err != nil {
		return ChargeCreationResult{Success: false, Errors: []string{err.Error()}}
	}
	if len(forecasts) == 0 {
		result.Errors = append(result.Errors, "no forecasts for this month")
		return result
	}

	monthStart, monthEnd := utils.MonthWindow(year, month, now.Location())
	deadline := time.Date(year, time.Month(month), 5, 0, 0, 0, 0, now.Location()).AddDate(0, 1, 0)

	for _, forecast := range forecasts {
		var existing int64
		if err := s.db.Model(&models.Charge{}).
			Where("employee_id = ? AND category = ?", forecast.EmployeeID, models.ChargeCategorySalary).
			Where("created_at >= ? AND created_at < ?", monthStart, monthEnd).
			Count(&existing).Error; err != nil {
			result.Errors = append(result.Errors, err.Error())
			continue
		}
		if existing > 0 {
			continue
		}

		var employee models.User
		name := "employee"
		if err := s.db.First(&employee, "id = ?", forecast.EmployeeID).Error; err == nil {
			name = fmt.Sprintf("%s %s", employee.FirstName, employee.LastName)
		}

		employeeID := forecast.EmployeeID
		charge := models.Charge{
			Description: fmt.Sprintf("Forecasted salary - %s", name),
			Amount:      forecast.Amount,
			Category:    models.ChargeCategorySalary,
			Date:        deadline,
			EmployeeID:  &employeeID,
		}
		if err := s.db.Create(&charge).Error; err != nil {
			result.Success = false
			result.Errors = append(result.Errors, fmt.Sprintf("employee %s: %v", forecast.EmployeeID, err))
			continue
		}
		result.ChargesCreated++
		result.TotalAmount += forecast.Amount
	}

	log.Info().Int("created", result.ChargesCreated).Float64("total", result.TotalAmount).
		Msg("salary charges: auto-create done")
	return result
}
