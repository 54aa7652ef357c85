package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// SalaryForecast is the projected salary cost for one employee for one
// month, derived from validated timesheet hours times the hourly rate.
type SalaryForecast struct {
	ID         uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	EmployeeID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_forecasts_employee_period,priority:1" json:"employeeId"`

	Month int `gorm:"not null;uniqueIndex:idx_forecasts_employee_period,priority:2" json:"month"`
	Year  int `gorm:"not null;uniqueIndex:idx_forecasts_employee_period,priority:3" json:"year"`

	Amount         float64 `gorm:"type:decimal(12,2);not null" json:"amount"`
	HoursValidated float64 `gorm:"type:decimal(7,2);default:0" json:"hoursValidated"`

	Paid   bool       `gorm:"default:false" json:"paid"`
	PaidAt *time.Time `json:"paidAt"`

	// NotifiedAt marks that the pre-payment notification for this
	// month already went out.
	NotifiedAt *time.Time `json:"notifiedAt"`

	gorm.Model
}

func (f *SalaryForecast) BeforeCreate(tx *gorm.DB) (err error) {
	if f.ID == uuid.Nil {
		f.ID = uuid.New()
	}
	return
}
