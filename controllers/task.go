package controllers

import (
	"errors"
	"net/http"
	"time"

	"gestpro-backend/config"
	"gestpro-backend/models"
	"gestpro-backend/services"
	"gestpro-backend/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// CreateTaskInput defines the expected JSON structure
type CreateTaskInput struct {
	Title           string     `json:"title" binding:"required"`
	Description     string     `json:"description"`
	DueDate         *time.Time `json:"dueDate"`
	AssigneeID      *uuid.UUID `json:"assigneeId"`
	RequiresPayment bool       `json:"requiresPayment"`
}

// UpdateTaskInput defines the expected JSON structure
type UpdateTaskInput struct {
	Title           *string    `json:"title"`
	Description     *string    `json:"description"`
	Status          *string    `json:"status" binding:"omitempty,oneof=TODO IN_PROGRESS IN_REVIEW DONE CANCELLED"`
	DueDate         *time.Time `json:"dueDate"`
	AssigneeID      *uuid.UUID `json:"assigneeId"`
	RequiresPayment *bool      `json:"requiresPayment"`
}

// CreateTask adds a task to a project
func CreateTask(c *gin.Context) {
	projectID, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}

	var input CreateTaskInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	var project models.Project
	if err := config.DB.First(&project, "id = ?", projectID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondWithError(c, http.StatusNotFound, "Project not found")
		} else {
			utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		}
		return
	}

	task := models.Task{
		ProjectID:       project.ID,
		Title:           input.Title,
		Description:     input.Description,
		Status:          models.TaskTodo,
		DueDate:         input.DueDate,
		AssigneeID:      input.AssigneeID,
		RequiresPayment: input.RequiresPayment,
	}

	if err := config.DB.Create(&task).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to create task")
		return
	}

	utils.RespondWithData(c, http.StatusCreated, task)
}

// GetTasks lists a project's tasks
func GetTasks(c *gin.Context) {
	projectID, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}

	var tasks []models.Task
	if err := config.DB.
		Where("project_id = ?", projectID).
		Order("due_date ASC").
		Find(&tasks).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to retrieve tasks")
		return
	}
	utils.RespondWithData(c, http.StatusOK, tasks)
}

// UpdateTask updates a task within a project
func UpdateTask(c *gin.Context) {
	projectID, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}
	taskID, ok := parseUUIDParam(c, "taskId")
	if !ok {
		return
	}

	var input UpdateTaskInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	var task models.Task
	if err := config.DB.
		Where("project_id = ? AND id = ?", projectID, taskID).
		First(&task).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondWithError(c, http.StatusNotFound, "Task not found")
		} else {
			utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		}
		return
	}

	if input.Title != nil {
		task.Title = *input.Title
	}
	if input.Description != nil {
		task.Description = *input.Description
	}
	if input.Status != nil {
		task.Status = *input.Status
	}
	if input.DueDate != nil {
		task.DueDate = input.DueDate
	}
	if input.AssigneeID != nil {
		task.AssigneeID = input.AssigneeID
	}
	if input.RequiresPayment != nil {
		task.RequiresPayment = *input.RequiresPayment
	}

	if err := config.DB.Save(&task).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to update task")
		return
	}

	utils.RespondWithData(c, http.StatusOK, task)
}

// DeleteTask removes a task from a project
func DeleteTask(c *gin.Context) {
	projectID, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}
	taskID, ok := parseUUIDParam(c, "taskId")
	if !ok {
		return
	}

	var task models.Task
	if err := config.DB.
		Where("project_id = ? AND id = ?", projectID, taskID).
		First(&task).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondWithError(c, http.StatusNotFound, "Task not found")
		} else {
			utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		}
		return
	}

	if err := config.DB.Delete(&task).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to delete task")
		return
	}

	utils.RespondWithMessage(c, http.StatusOK, nil, "Task deleted successfully")
}

// GetLateTasks lists overdue tasks without creating notifications
func GetLateTasks(c *gin.Context) {
	late, err := services.NewTaskLateService(config.DB, services.NoopNotifier{}).GetLateTasks()
	if err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to retrieve late tasks")
		return
	}
	utils.RespondWithData(c, http.StatusOK, late)
}
