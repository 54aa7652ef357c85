package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Task statuses. DONE and CANCELLED are terminal for late detection.
const (
	TaskTodo       = "TODO"
	TaskInProgress = "IN_PROGRESS"
	TaskInReview   = "IN_REVIEW"
	TaskDone       = "DONE"
	TaskCancelled  = "CANCELLED"
)

type Task struct {
	ID        uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	ProjectID uuid.UUID `gorm:"type:uuid;index;not null" json:"projectId"`

	Title       string `gorm:"not null" json:"title"`
	Description string `json:"description"`
	Status      string `gorm:"type:varchar(20);default:'TODO'" json:"status"`

	DueDate    *time.Time `json:"dueDate"`
	AssigneeID *uuid.UUID `gorm:"type:uuid;index" json:"assigneeId"`

	RequiresPayment bool `gorm:"default:false" json:"requiresPayment"`

	gorm.Model
}

func (t *Task) BeforeCreate(tx *gorm.DB) (err error) {
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	return
}
