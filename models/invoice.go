package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Invoice statuses
const (
	InvoicePending = "PENDING"
	InvoiceSent    = "SENT"
	InvoicePartial = "PARTIAL"
	InvoicePaid    = "PAID"
	InvoiceLate    = "LATE"
)

type Invoice struct {
	ID       uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	ClientID uuid.UUID `gorm:"type:uuid;index;not null" json:"clientId"`

	// SubscriptionID is set for auto-generated invoices and nil for
	// manual ones. The composite unique index turns a concurrent
	// double-generation into a constraint violation instead of a
	// duplicate invoice; NULL subscription ids never collide.
	SubscriptionID *uuid.UUID `gorm:"type:uuid;uniqueIndex:idx_invoices_subscription_due,priority:1" json:"subscriptionId"`

	Number  string  `gorm:"uniqueIndex;not null" json:"number"`
	Amount  float64 `gorm:"type:decimal(12,2);not null" json:"amount"`
	VATRate float64 `gorm:"type:decimal(5,2);default:0" json:"vatRate"`
	Total   float64 `gorm:"type:decimal(12,2);not null" json:"total"`

	Status    string    `gorm:"type:varchar(20);not null;default:'PENDING'" json:"status"`
	IssueDate time.Time `json:"issueDate"`
	DueDate   time.Time `gorm:"uniqueIndex:idx_invoices_subscription_due,priority:2" json:"dueDate"`

	Notes string `json:"notes"`

	Payments []Payment `gorm:"foreignKey:InvoiceID" json:"-"`

	// No soft delete: a deleted invoice must release its number, or
	// the unique index blocks the sequence from ever reissuing it.
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (i *Invoice) BeforeCreate(tx *gorm.DB) (err error) {
	if i.ID == uuid.Nil {
		i.ID = uuid.New()
	}
	return
}
