package models

import (
	"time"

	"gestpro-backend/utils"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// User roles
const (
	RoleAdmin    = "ADMIN"
	RoleManager  = "MANAGER"
	RoleEmployee = "EMPLOYEE"
)

type User struct {
	ID       uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	Email    string    `gorm:"uniqueIndex;not null" json:"email"`
	Password string    `gorm:"not null" json:"-"`

	FirstName string `gorm:"not null" json:"firstName"`
	LastName  string `gorm:"not null" json:"lastName"`
	Phone     string `json:"phone"`

	Role string `gorm:"type:varchar(20);not null;default:'EMPLOYEE'" json:"role"`

	// HourlyRate stays nil until configured; salary forecasting is
	// not applicable without it.
	HourlyRate *float64 `gorm:"type:decimal(10,2)" json:"hourlyRate"`

	LastLogin *time.Time `json:"lastLogin"`
	IsActive  bool       `gorm:"default:true" json:"isActive"`

	Tasks      []Task           `gorm:"foreignKey:AssigneeID" json:"-"`
	TimeSheets []TimeSheet      `gorm:"foreignKey:EmployeeID" json:"-"`
	Forecasts  []SalaryForecast `gorm:"foreignKey:EmployeeID" json:"-"`

	gorm.Model
}

// Initialize UUID and hash the password before creating
func (u *User) BeforeCreate(tx *gorm.DB) (err error) {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	hashed, err := utils.HashPassword(u.Password)
	if err != nil {
		return err
	}
	u.Password = hashed
	return
}
