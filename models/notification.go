package models

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Notification types
const (
	NotificationInfo  = "INFO"
	NotificationAlert = "ALERT"
)

// Notification source types used for dedupe keys
const (
	SourceLatePayment    = "LATE_PAYMENT"
	SourceLateTask       = "LATE_TASK"
	SourceSalaryForecast = "SALARY_FORECAST"
	SourceSalaryDue      = "SALARY_PAYMENT_DUE"
	SourceSalaryLate     = "SALARY_PAYMENT_LATE"
)

type Notification struct {
	ID     uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	UserID uuid.UUID `gorm:"type:uuid;index;not null" json:"userId"`

	Title   string `gorm:"not null" json:"title"`
	Message string `gorm:"type:text" json:"message"`
	Type    string `gorm:"type:varchar(20);default:'INFO'" json:"type"`
	Link    string `json:"link"`

	Read bool `gorm:"default:false" json:"read"`

	SourceType string     `gorm:"type:varchar(40)" json:"sourceType"`
	SourceID   *uuid.UUID `gorm:"type:uuid;index" json:"sourceId"`

	// DedupeKey is unique per (user, source, day) so repeated batch
	// runs within the same day degrade to a constraint violation
	// instead of duplicate notifications. Nil for ad-hoc records.
	DedupeKey *string `gorm:"uniqueIndex" json:"-"`

	gorm.Model
}

func (n *Notification) BeforeCreate(tx *gorm.DB) (err error) {
	if n.ID == uuid.Nil {
		n.ID = uuid.New()
	}
	return
}

// DedupeKeyFor builds the daily idempotence key for a batch-created
// notification.
func DedupeKeyFor(userID uuid.UUID, sourceType string, sourceID uuid.UUID, day time.Time) string {
	return fmt.Sprintf("%s:%s:%s:%s", userID, sourceType, sourceID, day.Format("2006-01-02"))
}

// MonthlyDedupeKeyFor builds the idempotence key for notifications
// that must fire at most once per calendar month.
func MonthlyDedupeKeyFor(userID uuid.UUID, sourceType string, month, year int) string {
	return fmt.Sprintf("%s:%s:%04d-%02d", userID, sourceType, year, month)
}
