package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Dossier statuses
const (
	DossierInProgress = "IN_PROGRESS"
	DossierClosed     = "CLOSED"
)

// Charge categories
const (
	ChargeCategorySalary = "SALARY"
	ChargeCategoryOther  = "OTHER"
)

// AccountingDossier is the monthly accounting bucket for one client.
// The composite unique index guarantees at most one dossier per
// (client, month, year).
type AccountingDossier struct {
	ID       uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	ClientID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_dossiers_client_period,priority:1" json:"clientId"`

	Month int `gorm:"not null;uniqueIndex:idx_dossiers_client_period,priority:2" json:"month"`
	Year  int `gorm:"not null;uniqueIndex:idx_dossiers_client_period,priority:3" json:"year"`

	Status string `gorm:"type:varchar(20);not null;default:'IN_PROGRESS'" json:"status"`
	Notes  string `json:"notes"`

	DetailedCharges []DetailedCharge `gorm:"foreignKey:DossierID;constraint:OnDelete:CASCADE" json:"detailedCharges,omitempty"`
	Entries         []ClientEntry    `gorm:"foreignKey:DossierID;constraint:OnDelete:CASCADE" json:"entries,omitempty"`

	gorm.Model
}

func (d *AccountingDossier) BeforeCreate(tx *gorm.DB) (err error) {
	if d.ID == uuid.Nil {
		d.ID = uuid.New()
	}
	return
}

// DetailedCharge is an expense record with an optional VAT breakdown.
// The VAT fields are computed when the record is written and stored
// as-is; they are never re-derived at read time, so later VAT-rate
// changes leave historical charges untouched.
type DetailedCharge struct {
	ID        uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	DossierID uuid.UUID `gorm:"type:uuid;index;not null" json:"dossierId"`

	Date     time.Time `gorm:"not null" json:"date"`
	Supplier string    `gorm:"not null" json:"supplier"`

	AmountExcl float64 `gorm:"type:decimal(12,2);not null" json:"amountExcl"`
	HasVAT     bool    `gorm:"default:false" json:"hasVAT"`
	VATRate    float64 `gorm:"type:decimal(5,2);default:0" json:"vatRate"`
	VATAmount  float64 `gorm:"type:decimal(12,2);default:0" json:"vatAmount"`
	AmountIncl float64 `gorm:"type:decimal(12,2);not null" json:"amountIncl"`

	Category    string `gorm:"type:varchar(40);default:'OTHER'" json:"category"`
	Description string `json:"description"`

	gorm.Model
}

func (c *DetailedCharge) BeforeCreate(tx *gorm.DB) (err error) {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return
}

// BeforeSave fixes the stored VAT breakdown on every write: without
// VAT the rate and amount are zeroed and incl equals excl, with VAT
// the incl amount is excl plus excl*rate/100.
func (c *DetailedCharge) BeforeSave(tx *gorm.DB) (err error) {
	if !c.HasVAT {
		c.VATRate = 0
		c.VATAmount = 0
		c.AmountIncl = c.AmountExcl
		return
	}
	c.VATAmount = c.AmountExcl * c.VATRate / 100
	c.AmountIncl = c.AmountExcl + c.VATAmount
	return
}

// ClientEntry is a revenue record attributed to a client for a period.
// Unlike charges it carries its own date, which is what the yearly
// trend aggregation buckets it by.
type ClientEntry struct {
	ID        uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	DossierID uuid.UUID `gorm:"type:uuid;index;not null" json:"dossierId"`
	ClientID  uuid.UUID `gorm:"type:uuid;index;not null" json:"clientId"`

	Date  time.Time `gorm:"not null" json:"date"`
	Label string    `json:"label"`

	AmountExcl float64 `gorm:"type:decimal(12,2);not null" json:"amountExcl"`
	VATAmount  float64 `gorm:"type:decimal(12,2);default:0" json:"vatAmount"`
	AmountIncl float64 `gorm:"type:decimal(12,2);not null" json:"amountIncl"`

	SourceType string `gorm:"type:varchar(40);default:'MANUAL'" json:"sourceType"`

	gorm.Model
}

func (e *ClientEntry) BeforeCreate(tx *gorm.DB) (err error) {
	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}
	return
}
