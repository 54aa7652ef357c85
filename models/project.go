package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Project statuses
const (
	ProjectActive    = "ACTIVE"
	ProjectPaused    = "PAUSED"
	ProjectCompleted = "COMPLETED"
	ProjectCancelled = "CANCELLED"
)

// Payment frequencies shared by projects and subscriptions
const (
	FrequencyOneOff     = "ONE_OFF"
	FrequencyMonthly    = "MONTHLY"
	FrequencyQuarterly  = "QUARTERLY"
	FrequencySemiannual = "SEMIANNUAL"
	FrequencyAnnual     = "ANNUAL"
)

type Project struct {
	ID       uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	ClientID uuid.UUID `gorm:"type:uuid;index;not null" json:"clientId"`

	Title       string `gorm:"not null" json:"title"`
	Description string `json:"description"`
	Status      string `gorm:"type:varchar(20);default:'ACTIVE'" json:"status"`

	// PaymentFrequency drives the fallback due-date computation for
	// payments that carry no explicit expected date.
	PaymentFrequency string `gorm:"type:varchar(20);default:'ONE_OFF'" json:"paymentFrequency"`

	StartDate *time.Time `json:"startDate"`
	EndDate   *time.Time `json:"endDate"`

	// TeamID is nulled, not cascaded, when a team is unassigned.
	TeamID *uuid.UUID `gorm:"type:uuid;index" json:"teamId"`

	Tasks    []Task    `gorm:"foreignKey:ProjectID" json:"tasks,omitempty"`
	Payments []Payment `gorm:"foreignKey:ProjectID" json:"-"`

	gorm.Model
}

func (p *Project) BeforeCreate(tx *gorm.DB) (err error) {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return
}
