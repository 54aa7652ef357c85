package models

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Client struct {
	ID uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`

	Name    string `gorm:"not null" json:"name"`
	Contact string `json:"contact"`
	Email   string `json:"email"`
	Phone   string `json:"phone"`
	Address string `json:"address"`
	Company string `json:"company"`

	IsActive bool `gorm:"default:true" json:"isActive"`

	Projects      []Project           `gorm:"foreignKey:ClientID" json:"-"`
	Subscriptions []Subscription      `gorm:"foreignKey:ClientID" json:"-"`
	Invoices      []Invoice           `gorm:"foreignKey:ClientID" json:"-"`
	Payments      []Payment           `gorm:"foreignKey:ClientID" json:"-"`
	Quotes        []Quote             `gorm:"foreignKey:ClientID" json:"-"`
	Dossiers      []AccountingDossier `gorm:"foreignKey:ClientID" json:"-"`
	Entries       []ClientEntry       `gorm:"foreignKey:ClientID" json:"-"`

	gorm.Model
}

func (c *Client) BeforeCreate(tx *gorm.DB) (err error) {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return
}
