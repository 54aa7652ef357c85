package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Charge is a company-level expense ledger entry, independent of any
// client dossier. Salary auto-charging writes one row per employee
// per month with category SALARY.
type Charge struct {
	ID uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`

	Description string    `gorm:"not null" json:"description"`
	Amount      float64   `gorm:"type:decimal(12,2);not null" json:"amount"`
	Category    string    `gorm:"type:varchar(40);default:'OTHER'" json:"category"`
	Date        time.Time `gorm:"not null;index" json:"date"`

	EmployeeID *uuid.UUID `gorm:"type:uuid;index" json:"employeeId"`

	gorm.Model
}

func (c *Charge) BeforeCreate(tx *gorm.DB) (err error) {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return
}
