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

// CreateChargeInput defines the expected JSON structure for a company
// ledger charge
type CreateChargeInput struct {
	Description string     `json:"description" binding:"required"`
	Amount      float64    `json:"amount" binding:"required,gt=0"`
	Category    string     `json:"category"`
	Date        *time.Time `json:"date"`
	EmployeeID  *uuid.UUID `json:"employeeId"`
}

// UpdateChargeInput defines the expected JSON structure for updates
type UpdateChargeInput struct {
	Description *string    `json:"description"`
	Amount      *float64   `json:"amount" binding:"omitempty,gt=0"`
	Category    *string    `json:"category"`
	Date        *time.Time `json:"date"`
}

// CreateCharge records a company expense
func CreateCharge(c *gin.Context) {
	var input CreateChargeInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	date := time.Now()
	if input.Date != nil {
		date = *input.Date
	}
	category := input.Category
	if category == "" {
		category = models.ChargeCategoryOther
	}

	charge := models.Charge{
		Description: input.Description,
		Amount:      input.Amount,
		Category:    category,
		Date:        date,
		EmployeeID:  input.EmployeeID,
	}

	if err := config.DB.Create(&charge).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to create charge")
		return
	}

	utils.RespondWithData(c, http.StatusCreated, charge)
}

// GetCharges lists company charges, optionally filtered by category
func GetCharges(c *gin.Context) {
	query := config.DB.Order("date DESC")
	if category := c.Query("category"); category != "" {
		query = query.Where("category = ?", category)
	}

	var charges []models.Charge
	if err := query.Find(&charges).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to retrieve charges")
		return
	}
	utils.RespondWithData(c, http.StatusOK, charges)
}

// GetCharge retrieves a single company charge
func GetCharge(c *gin.Context) {
	chargeID, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}

	var charge models.Charge
	if err := config.DB.First(&charge, "id = ?", chargeID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondWithError(c, http.StatusNotFound, "Charge not found")
		} else {
			utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		}
		return
	}

	utils.RespondWithData(c, http.StatusOK, charge)
}

// PatchCharge updates a company charge
func PatchCharge(c *gin.Context) {
	chargeID, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}

	var input UpdateChargeInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	var charge models.Charge
	if err := config.DB.First(&charge, "id = ?", chargeID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondWithError(c, http.StatusNotFound, "Charge not found")
		} else {
			utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		}
		return
	}

	if input.Description != nil {
		charge.Description = *input.Description
	}
	if input.Amount != nil {
		charge.Amount = *input.Amount
	}
	if input.Category != nil {
		charge.Category = *input.Category
	}
	if input.Date != nil {
		charge.Date = *input.Date
	}

	if err := config.DB.Save(&charge).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to update charge")
		return
	}

	utils.RespondWithData(c, http.StatusOK, charge)
}

// DeleteCharge removes a company charge
func DeleteCharge(c *gin.Context) {
	chargeID, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}

	var charge models.Charge
	if err := config.DB.First(&charge, "id = ?", chargeID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondWithError(c, http.StatusNotFound, "Charge not found")
		} else {
			utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		}
		return
	}

	if err := config.DB.Delete(&charge).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to delete charge")
		return
	}

	utils.RespondWithMessage(c, http.StatusOK, nil, "Charge deleted successfully")
}
