// services/invoice_generator.go
package services

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"gestpro-backend/models"
	"gestpro-backend/utils"

	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

// InvoiceGenerator creates invoices for active subscriptions that have
// reached their billing date. Safe to run repeatedly: generation is
// keyed by (subscription, due date), checked against the invoice
// history and backed by a unique index.
type InvoiceGenerator struct {
	db  *gorm.DB
	now func() time.Time
}

func NewInvoiceGenerator(db *gorm.DB) *InvoiceGenerator {
	return &InvoiceGenerator{db: db, now: time.Now}
}

// InvoiceGenerationDetail reports the outcome for one subscription.
type InvoiceGenerationDetail struct {
	SubscriptionID string  `json:"subscriptionId"`
	ClientName     string  `json:"clientName"`
	InvoiceNumber  string  `json:"invoiceNumber"`
	Amount         float64 `json:"amount"`
	Status         string  `json:"status"` // success or error
	Message        string  `json:"message,omitempty"`
}

// InvoiceGenerationResult is the aggregate batch outcome. A failing
// subscription never aborts the batch; it is recorded and skipped.
type InvoiceGenerationResult struct {
	Success           bool                      `json:"success"`
	InvoicesGenerated int                       `json:"invoicesGenerated"`
	Errors            []string                  `json:"errors"`
	Details           []InvoiceGenerationDetail `json:"details"`
}

// GenerateSubscriptionInvoices scans every active subscription whose
// next billing date has passed and creates the due invoice for each.
func (g *InvoiceGenerator) GenerateSubscriptionInvoices() InvoiceGenerationResult {
	result := InvoiceGenerationResult{Success: true, Errors: []string{}, Details: []InvoiceGenerationDetail{}}
	now := g.now()

	var subscriptions []models.Subscription
	err := g.db.
		Where("status = ?", models.SubscriptionActive).
		Where("next_billing_date IS NULL OR next_billing_date <= ?", now).
		Where("end_date IS NULL OR end_date > ?", now).
		Find(&subscriptions).Error
	if err != nil {
		log.Error().Err(err).Msg("invoice generator: loading subscriptions failed")
		result.Success = false
		result.Errors = append(result.Errors, err.Error())
		return result
	}

	log.Info().Int("subscriptions", len(subscriptions)).Msg("invoice generator: scan")

	for _, sub := range subscriptions {
		detail := InvoiceGenerationDetail{SubscriptionID: sub.ID.String()}

		var client models.Client
		if err := g.db.First(&client, "id = ?", sub.ClientID).Error; err == nil {
			detail.ClientName = client.Name
		} else {
			detail.ClientName = "unknown"
		}

		invoice, err := g.generateFor(&sub, now)
		if err != nil {
			detail.Status = "error"
			detail.Message = err.Error()
			result.Errors = append(result.Errors, fmt.Sprintf("subscription %s: %v", sub.ID, err))
			result.Success = false
			result.Details = append(result.Details, detail)
			continue
		}
		if invoice == nil {
			// Nothing due for this subscription.
			continue
		}

		detail.Status = "success"
		detail.InvoiceNumber = invoice.Number
		detail.Amount = invoice.Amount
		result.InvoicesGenerated++
		result.Details = append(result.Details, detail)
	}

	log.Info().Int("generated", result.InvoicesGenerated).Int("errors", len(result.Errors)).
		Msg("invoice generator: done")
	return result
}

// generateFor creates the next due invoice for one subscription, or
// returns nil when one already covers the computed due date.
func (g *InvoiceGenerator) generateFor(sub *models.Subscription, now time.Time) (*models.Invoice, error) {
	dueDate := g.nextDueDate(sub, now)

	// Idempotence: the subscription's invoice history is checked
	// before insert, and the unique (subscription_id, due_date) index
	// catches the remaining race between concurrent runs.
	var existing int64
	if err := g.db.Model(&models.Invoice{}).
		Where("subscription_id = ? AND due_date = ?", sub.ID, dueDate).
		Count(&existing).Error; err != nil {
		return nil, err
	}
	if existing > 0 {
		return nil, nil
	}

	number, err := g.nextInvoiceNumber(now)
	if err != nil {
		return nil, err
	}

	invoice := models.Invoice{
		ClientID:       sub.ClientID,
		SubscriptionID: &sub.ID,
		Number:         number,
		Amount:         sub.Amount,
		Total:          sub.Amount,
		Status:         models.InvoicePending,
		IssueDate:      now,
		DueDate:        dueDate,
		Notes:          fmt.Sprintf("Auto-generated invoice for subscription: %s", sub.Name),
	}

	if err := g.db.Create(&invoice).Error; err != nil {
		return nil, err
	}

	next := utils.NextDueDate(sub.Frequency, dueDate)
	if err := g.db.Model(sub).Updates(map[string]interface{}{
		"next_billing_date": next,
		"payments_made":     gorm.Expr("payments_made + ?", 1),
	}).Error; err != nil {
		return nil, err
	}

	return &invoice, nil
}

// nextDueDate steps from the last generated invoice's due date, or the
// subscription start when no invoice exists yet.
func (g *InvoiceGenerator) nextDueDate(sub *models.Subscription, now time.Time) time.Time {
	var last models.Invoice
	err := g.db.
		Where("subscription_id = ?", sub.ID).
		Order("due_date DESC").
		First(&last).Error
	if err == nil {
		return utils.NextDueDate(sub.Frequency, last.DueDate)
	}
	return utils.NextDueDate(sub.Frequency, sub.StartDate)
}

// nextInvoiceNumber builds FACT-YYYYMM-NNNN where NNNN is a
// zero-padded sequence that resets each calendar month. The sequence
// steps from the highest number issued in the month rather than a row
// count, so deleting an invoice never reissues a number still held by
// a later one. Zero-padded suffixes sort lexicographically.
func (g *InvoiceGenerator) nextInvoiceNumber(now time.Time) (string, error) {
	prefix := fmt.Sprintf("FACT-%04d%02d-", now.Year(), int(now.Month()))

	var last models.Invoice
	err := g.db.
		Where("number LIKE ?", prefix+"%").
		Order("number DESC").
		First(&last).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return prefix + "0001", nil
		}
		return "", err
	}

	seq, err := strconv.Atoi(strings.TrimPrefix(last.Number, prefix))
	if err != nil {
		return "", fmt.Errorf("malformed invoice number %q: %w", last.Number, err)
	}
	return fmt.Sprintf("%s%04d", prefix, seq+1), nil
}

// GenerateInitialInvoice creates the first invoice when a subscription
// is created.
func (g *InvoiceGenerator) GenerateInitialInvoice(sub *models.Subscription) (*models.Invoice, error) {
	now := g.now()

	number, err := g.nextInvoiceNumber(now)
	if err != nil {
		return nil, err
	}

	invoice := models.Invoice{
		ClientID:       sub.ClientID,
		SubscriptionID: &sub.ID,
		Number:         number,
		Amount:         sub.Amount,
		Total:          sub.Amount,
		Status:         models.InvoicePending,
		IssueDate:      now,
		DueDate:        utils.NextDueDate(sub.Frequency, sub.StartDate),
		Notes:          fmt.Sprintf("First invoice for subscription: %s", sub.Name),
	}

	if err := g.db.Create(&invoice).Error; err != nil {
		return nil, err
	}

	next := utils.NextDueDate(sub.Frequency, invoice.DueDate)
	if err := g.db.Model(sub).Update("next_billing_date", next).Error; err != nil {
		return nil, err
	}

	return &invoice, nil
}
