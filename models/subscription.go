package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Subscription statuses
const (
	SubscriptionActive    = "ACTIVE"
	SubscriptionSuspended = "SUSPENDED"
	SubscriptionCancelled = "CANCELLED"
)

type Subscription struct {
	ID       uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	ClientID uuid.UUID `gorm:"type:uuid;index;not null" json:"clientId"`

	Name      string  `gorm:"not null" json:"name"`
	Amount    float64 `gorm:"type:decimal(12,2);not null" json:"amount"`
	Frequency string  `gorm:"type:varchar(20);not null;default:'MONTHLY'" json:"frequency"`
	Status    string  `gorm:"type:varchar(20);not null;default:'ACTIVE'" json:"status"`

	StartDate time.Time  `gorm:"not null" json:"startDate"`
	EndDate   *time.Time `json:"endDate"`

	// NextBillingDate is advanced by the invoice generator after each
	// generated invoice.
	NextBillingDate *time.Time `json:"nextBillingDate"`
	PaymentsMade    int        `gorm:"default:0" json:"paymentsMade"`

	Invoices []Invoice `gorm:"foreignKey:SubscriptionID" json:"-"`

	gorm.Model
}

func (s *Subscription) BeforeCreate(tx *gorm.DB) (err error) {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return
}
