package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Quote statuses. CANCELLED is terminal.
const (
	QuoteDraft     = "DRAFT"
	QuoteSent      = "SENT"
	QuoteAccepted  = "ACCEPTED"
	QuoteRefused   = "REFUSED"
	QuoteCancelled = "CANCELLED"
)

// QuoteTransitions is the full status transition table. Any move not
// listed here is rejected and leaves the record unchanged.
var QuoteTransitions = map[string][]string{
	QuoteDraft:     {QuoteSent, QuoteCancelled},
	QuoteSent:      {QuoteAccepted, QuoteRefused, QuoteCancelled},
	QuoteAccepted:  {QuoteCancelled},
	QuoteRefused:   {QuoteCancelled},
	QuoteCancelled: {},
}

// CanTransition reports whether a quote may move from one status to
// another.
func CanTransition(from, to string) bool {
	for _, allowed := range QuoteTransitions[from] {
		if allowed == to {
			return true
		}
	}
	return false
}

type Quote struct {
	ID       uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	ClientID uuid.UUID `gorm:"type:uuid;index;not null" json:"clientId"`

	Number string  `gorm:"uniqueIndex;not null" json:"number"`
	Amount float64 `gorm:"type:decimal(12,2);not null" json:"amount"`
	Status string  `gorm:"type:varchar(20);not null;default:'DRAFT'" json:"status"`

	// Each date is stamped exactly once on entering its status;
	// the only state reachable afterwards is CANCELLED.
	SentAt     *time.Time `json:"sentAt"`
	AcceptedAt *time.Time `json:"acceptedAt"`
	RefusedAt  *time.Time `json:"refusedAt"`

	ValidUntil *time.Time `json:"validUntil"`
	Notes      string     `json:"notes"`

	// No soft delete: the unique number must be freed on delete.
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (q *Quote) BeforeCreate(tx *gorm.DB) (err error) {
	if q.ID == uuid.Nil {
		q.ID = uuid.New()
	}
	return
}
