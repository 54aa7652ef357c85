package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// TimeSheet statuses; only VALIDATED sheets count toward salary
// forecasts.
const (
	TimeSheetDraft     = "DRAFT"
	TimeSheetSubmitted = "SUBMITTED"
	TimeSheetValidated = "VALIDATED"
	TimeSheetRejected  = "REJECTED"
)

type TimeSheet struct {
	ID         uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	EmployeeID uuid.UUID `gorm:"type:uuid;index;not null" json:"employeeId"`

	Date time.Time `gorm:"not null;index" json:"date"`

	RegularHrs  float64 `gorm:"type:decimal(5,2);default:0" json:"regularHrs"`
	OvertimeHrs float64 `gorm:"type:decimal(5,2);default:0" json:"overtimeHrs"`
	// Sick and vacation hours are tracked but excluded from pay.
	SickHrs     float64 `gorm:"type:decimal(5,2);default:0" json:"sickHrs"`
	VacationHrs float64 `gorm:"type:decimal(5,2);default:0" json:"vacationHrs"`

	Status string `gorm:"type:varchar(20);not null;default:'DRAFT'" json:"status"`
	Notes  string `json:"notes"`

	gorm.Model
}

func (t *TimeSheet) BeforeCreate(tx *gorm.DB) (err error) {
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	return
}
