package controllers

import (
	"errors"
	"net/http"
	"time"

	"gestpro-backend/config"
	"gestpro-backend/models"
	"gestpro-backend/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// CreateProjectInput defines the expected JSON structure
type CreateProjectInput struct {
	ClientID         uuid.UUID  `json:"clientId" binding:"required"`
	Title            string     `json:"title" binding:"required"`
	Description      string     `json:"description"`
	PaymentFrequency string     `json:"paymentFrequency" binding:"omitempty,oneof=ONE_OFF MONTHLY QUARTERLY SEMIANNUAL ANNUAL"`
	StartDate        *time.Time `json:"startDate"`
	EndDate          *time.Time `json:"endDate"`
	TeamID           *uuid.UUID `json:"teamId"`
}

// UpdateProjectInput defines the expected JSON structure
type UpdateProjectInput struct {
	Title            *string    `json:"title"`
	Description      *string    `json:"description"`
	Status           *string    `json:"status" binding:"omitempty,oneof=ACTIVE PAUSED COMPLETED CANCELLED"`
	PaymentFrequency *string    `json:"paymentFrequency" binding:"omitempty,oneof=ONE_OFF MONTHLY QUARTERLY SEMIANNUAL ANNUAL"`
	StartDate        *time.Time `json:"startDate"`
	EndDate          *time.Time `json:"endDate"`
}

// CreateProject creates a new project for a client
func CreateProject(c *gin.Context) {
	var input CreateProjectInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	var client models.Client
	if err := config.DB.First(&client, "id = ?", input.ClientID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondWithError(c, http.StatusBadRequest, "Client not found")
		} else {
			utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		}
		return
	}

	frequency := input.PaymentFrequency
	if frequency == "" {
		frequency = models.FrequencyOneOff
	}

	project := models.Project{
		ClientID:         input.ClientID,
		Title:            input.Title,
		Description:      input.Description,
		Status:           models.ProjectActive,
		PaymentFrequency: frequency,
		StartDate:        input.StartDate,
		EndDate:          input.EndDate,
		TeamID:           input.TeamID,
	}

	if err := config.DB.Create(&project).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to create project")
		return
	}

	utils.RespondWithData(c, http.StatusCreated, project)
}

// GetProjects lists projects, optionally filtered by client
func GetProjects(c *gin.Context) {
	query := config.DB.Order("created_at DESC")
	if clientParam := c.Query("clientId"); clientParam != "" {
		clientID, err := uuid.Parse(clientParam)
		if err != nil {
			utils.RespondWithError(c, http.StatusBadRequest, "Invalid clientId format")
			return
		}
		query = query.Where("client_id = ?", clientID)
	}

	var projects []models.Project
	if err := query.Find(&projects).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to retrieve projects")
		return
	}
	utils.RespondWithData(c, http.StatusOK, projects)
}

// GetProject retrieves a project with its tasks
func GetProject(c *gin.Context) {
	projectID, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}

	var project models.Project
	if err := config.DB.
		Preload("Tasks").
		First(&project, "id = ?", projectID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondWithError(c, http.StatusNotFound, "Project not found")
		} else {
			utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		}
		return
	}

	utils.RespondWithData(c, http.StatusOK, project)
}

// UpdateProject updates an existing project
func UpdateProject(c *gin.Context) {
	projectID, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}

	var input UpdateProjectInput
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

	if input.Title != nil {
		project.Title = *input.Title
	}
	if input.Description != nil {
		project.Description = *input.Description
	}
	if input.Status != nil {
		project.Status = *input.Status
	}
	if input.PaymentFrequency != nil {
		project.PaymentFrequency = *input.PaymentFrequency
	}
	if input.StartDate != nil {
		project.StartDate = input.StartDate
	}
	if input.EndDate != nil {
		project.EndDate = input.EndDate
	}

	if err := config.DB.Save(&project).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to update project")
		return
	}

	utils.RespondWithData(c, http.StatusOK, project)
}

// UnassignProjectTeam detaches the team from a project. The foreign
// key is nulled, never cascaded.
func UnassignProjectTeam(c *gin.Context) {
	projectID, ok := parseUUIDParam(c, "id")
	if !ok {
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

	if err := config.DB.Model(&project).Update("team_id", nil).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to unassign team")
		return
	}

	utils.RespondWithMessage(c, http.StatusOK, nil, "Team unassigned")
}

// DeleteProject deletes a project and cascades to its tasks
func DeleteProject(c *gin.Context) {
	projectID, ok := parseUUIDParam(c, "id")
	if !ok {
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

	tx := config.DB.Begin()
	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
		}
	}()

	if err := tx.Where("project_id = ?", project.ID).Delete(&models.Task{}).Error; err != nil {
		tx.Rollback()
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to delete tasks")
		return
	}
	if err := tx.Delete(&project).Error; err != nil {
		tx.Rollback()
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to delete project")
		return
	}

	tx.Commit()
	utils.RespondWithMessage(c, http.StatusOK, nil, "Project deleted successfully")
}
