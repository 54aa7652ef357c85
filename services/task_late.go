// services/task_late.go
package services

import (
	"errors"
	"fmt"
	"time"

	"gestpro-backend/models"
	"gestpro-backend/utils"

	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

// TaskLateService detects tasks past their due date and notifies the
// assignee. Same shape as the payment detector: idempotent per task
// per day, read-only variant for dashboards.
type TaskLateService struct {
	db       *gorm.DB
	notifier Notifier
	now      func() time.Time
}

func NewTaskLateService(db *gorm.DB, notifier Notifier) *TaskLateService {
	return &TaskLateService{db: db, notifier: notifier, now: time.Now}
}

// LateTask is one overdue task with its computed lateness.
type LateTask struct {
	Task     models.Task `json:"task"`
	DaysLate int         `json:"daysLate"`
}

// IsTaskLate reports whether a task is overdue at the reference time.
// Done and cancelled tasks are never late, and a task without a due
// date cannot be late.
func IsTaskLate(dueDate *time.Time, status string, now time.Time) bool {
	if status == models.TaskDone || status == models.TaskCancelled {
		return false
	}
	if dueDate == nil {
		return false
	}
	return now.After(*dueDate)
}

// GetLateTasks returns the current late set without side effects.
func (s *TaskLateService) GetLateTasks() ([]LateTask, error) {
	now := s.now()

	var tasks []models.Task
	if err := s.db.
		Where("status NOT IN ?", []string{models.TaskDone, models.TaskCancelled}).
		Where("due_date IS NOT NULL").
		Find(&tasks).Error; err != nil {
		return nil, err
	}

	late := []LateTask{}
	for i := range tasks {
		if IsTaskLate(tasks[i].DueDate, tasks[i].Status, now) {
			late = append(late, LateTask{
				Task:     tasks[i],
				DaysLate: utils.DaysLate(*tasks[i].DueDate, now),
			})
		}
	}
	return late, nil
}

// CheckAndNotifyLateTasks scans for overdue tasks and creates one
// assignee notification per task per day, plus a best-effort message
// through the notifier.
func (s *TaskLateService) CheckAndNotifyLateTasks() LateCheckResult {
	result := LateCheckResult{Success: true, Errors: []string{}}
	now := s.now()

	late, err := s.GetLateTasks()
	if err != nil {
		log.Error().Err(err).Msg("late tasks: scan failed")
		return LateCheckResult{Success: false, Errors: []string{err.Error()}}
	}
	result.LateCount = len(late)

	for _, lt := range late {
		if lt.Task.AssigneeID == nil {
			continue
		}

		key := models.DedupeKeyFor(*lt.Task.AssigneeID, models.SourceLateTask, lt.Task.ID, now)

		var existing int64
		if err := s.db.Model(&models.Notification{}).
			Where("dedupe_key = ?", key).
			Count(&existing).Error; err != nil {
			result.Errors = append(result.Errors, err.Error())
			continue
		}
		if existing > 0 {
			continue
		}

		sourceID := lt.Task.ID
		notification := models.Notification{
			UserID:     *lt.Task.AssigneeID,
			Title:      "Late task",
			Message:    fmt.Sprintf("Task %q is %d day(s) late.", lt.Task.Title, lt.DaysLate),
			Type:       models.NotificationAlert,
			Link:       fmt.Sprintf("/tasks/%s", lt.Task.ID),
			SourceType: models.SourceLateTask,
			SourceID:   &sourceID,
			DedupeKey:  &key,
		}

		if err := s.db.Create(&notification).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				continue
			}
			result.Success = false
			result.Errors = append(result.Errors, fmt.Sprintf("task %s: %v", lt.Task.ID, err))
			continue
		}
		result.Notified++

		var assignee models.User
		if err := s.db.First(&assignee, "id = ?", *lt.Task.AssigneeID).Error; err == nil && assignee.Phone != "" {
			if err := s.notifier.Send(assignee.Phone, notification.Title, notification.Message); err != nil {
				log.Warn().Err(err).Str("task", lt.Task.ID.String()).Msg("late tasks: send failed")
			}
		}
	}

	log.Info().Int("late", result.LateCount).Int("notified", result.Notified).
		Msg("late tasks: check done")
	return result
}
