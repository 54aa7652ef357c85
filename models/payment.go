package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Payment statuses. CONFIRMED and REFUNDED are never reported late.
const (
	PaymentPending   = "PENDING"
	PaymentConfirmed = "CONFIRMED"
	PaymentRefunded  = "REFUNDED"
)

type Payment struct {
	ID       uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	ClientID uuid.UUID `gorm:"type:uuid;index;not null" json:"clientId"`

	ProjectID *uuid.UUID `gorm:"type:uuid;index" json:"projectId"`
	InvoiceID *uuid.UUID `gorm:"type:uuid;index" json:"invoiceId"`
	TaskID    *uuid.UUID `gorm:"type:uuid;index" json:"taskId"`

	Amount float64 `gorm:"type:decimal(12,2);not null" json:"amount"`
	Status string  `gorm:"type:varchar(20);not null;default:'PENDING'" json:"status"`

	PaymentDate time.Time `gorm:"not null" json:"paymentDate"`

	// ExpectedDate overrides the due date derived from the linked
	// invoice or the project's payment frequency.
	ExpectedDate *time.Time `json:"expectedDate"`

	Method string `json:"method"`
	Notes  string `json:"notes"`

	gorm.Model
}

func (p *Payment) BeforeCreate(tx *gorm.DB) (err error) {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return
}
