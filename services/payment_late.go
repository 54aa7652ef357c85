// services/payment_late.go
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

// PaymentLateService detects pending payments whose due date has
// passed and notifies the managers. Notification creation is
// idempotent per payment per day.
type PaymentLateService struct {
	db       *gorm.DB
	notifier Notifier
	now      func() time.Time
}

func NewPaymentLateService(db *gorm.DB, notifier Notifier) *PaymentLateService {
	return &PaymentLateService{db: db, notifier: notifier, now: time.Now}
}

// LatePayment is one overdue payment with its computed lateness.
type LatePayment struct {
	Payment  models.Payment `json:"payment"`
	DueDate  time.Time      `json:"dueDate"`
	DaysLate int            `json:"daysLate"`
}

// LateCheckResult is the batch outcome of a late scan.
type LateCheckResult struct {
	Success   bool     `json:"success"`
	LateCount int      `json:"lateCount"`
	Notified  int      `json:"notified"`
	Errors    []string `json:"errors"`
}

// IsPaymentLate reports whether a payment with the given due date and
// status is overdue at the reference time. Confirmed and refunded
// payments are never late.
func IsPaymentLate(dueDate time.Time, status string, now time.Time) bool {
	if status == models.PaymentConfirmed || status == models.PaymentRefunded {
		return false
	}
	return now.After(dueDate)
}

// dueDateFor resolves a payment's due date: an explicit expected date
// wins, then the linked invoice's due date, then the project's payment
// frequency stepped from the payment date.
func (s *PaymentLateService) dueDateFor(p *models.Payment) time.Time {
	if p.ExpectedDate != nil {
		return *p.ExpectedDate
	}

	if p.InvoiceID != nil {
		var invoice models.Invoice
		if err := s.db.First(&invoice, "id = ?", *p.InvoiceID).Error; err == nil {
			return invoice.DueDate
		}
	}

	frequency := models.FrequencyOneOff
	if p.ProjectID != nil {
		var project models.Project
		if err := s.db.First(&project, "id = ?", *p.ProjectID).Error; err == nil {
			frequency = project.PaymentFrequency
		}
	}

	switch frequency {
	case models.FrequencyMonthly:
		return p.PaymentDate.AddDate(0, 1, 0)
	case models.FrequencyQuarterly:
		return p.PaymentDate.AddDate(0, 3, 0)
	case models.FrequencySemiannual:
		return p.PaymentDate.AddDate(0, 6, 0)
	case models.FrequencyAnnual:
		return p.PaymentDate.AddDate(1, 0, 0)
	default:
		// One-off payments get a 7-day grace period.
		return p.PaymentDate.AddDate(0, 0, 7)
	}
}

// GetLatePayments returns the current late set, most late first. Read
// only: no notification is created.
func (s *PaymentLateService) GetLatePayments() ([]LatePayment, error) {
	now := s.now()

	var pending []models.Payment
	if err := s.db.
		Where("status = ?", models.PaymentPending).
		Order("payment_date ASC").
		Find(&pending).Error; err != nil {
		return nil, err
	}

	late := []LatePayment{}
	for i := range pending {
		dueDate := s.dueDateFor(&pending[i])
		if IsPaymentLate(dueDate, pending[i].Status, now) {
			late = append(late, LatePayment{
				Payment:  pending[i],
				DueDate:  dueDate,
				DaysLate: utils.DaysLate(dueDate, now),
			})
		}
	}

	// Most days late first.
	for i := 0; i < len(late); i++ {
		for j := i + 1; j < len(late); j++ {
			if late[j].DaysLate > late[i].DaysLate {
				late[i], late[j] = late[j], late[i]
			}
		}
	}
	return late, nil
}

// CheckAndNotifyLatePayments scans for overdue payments and creates
// one manager notification per payment per day.
func (s *PaymentLateService) CheckAndNotifyLatePayments() LateCheckResult {
	result := LateCheckResult{Success: true, Errors: []string{}}
	now := s.now()

	late, err := s.GetLatePayments()
	if err != nil {
		log.Error().Err(err).Msg("late payments: scan failed")
		return LateCheckResult{Success: false, Errors: []string{err.Error()}}
	}
	result.LateCount = len(late)

	var managers []models.User
	if err := s.db.
		Where("role IN ? AND is_active = ?", []string{models.RoleAdmin, models.RoleManager}, true).
		Find(&managers).Error; err != nil {
		result.Success = false
		result.Errors = append(result.Errors, err.Error())
		return result
	}

	for _, lp := range late {
		var client models.Client
		clientName := "unknown client"
		if err := s.db.First(&client, "id = ?", lp.Payment.ClientID).Error; err == nil {
			clientName = client.Name
		}

		for _, manager := range managers {
			key := models.DedupeKeyFor(manager.ID, models.SourceLatePayment, lp.Payment.ID, now)

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

			sourceID := lp.Payment.ID
			notification := models.Notification{
				UserID:     manager.ID,
				Title:      fmt.Sprintf("Late payment - %s", clientName),
				Message:    fmt.Sprintf("Payment of %.2f for client %s is %d day(s) late.", lp.Payment.Amount, clientName, lp.DaysLate),
				Type:       models.NotificationAlert,
				Link:       "/payments/late",
				SourceType: models.SourceLatePayment,
				SourceID:   &sourceID,
				DedupeKey:  &key,
			}

			if err := s.db.Create(&notification).Error; err != nil {
				if errors.Is(err, gorm.ErrDuplicatedKey) {
					// Concurrent run already notified today.
					continue
				}
				result.Success = false
				result.Errors = append(result.Errors, fmt.Sprintf("payment %s: %v", lp.Payment.ID, err))
				continue
			}
			result.Notified++

			if manager.Phone != "" {
				if err := s.notifier.Send(manager.Phone, notification.Title, notification.Message); err != nil {
					// Delivery failures never fail the scan.
					log.Warn().Err(err).Str("user", manager.ID.String()).Msg("late payments: send failed")
				}
			}
		}
	}

	log.Info().Int("late", result.LateCount).Int("notified", result.Notified).
		Msg("late payments: check done")
	return result
}
