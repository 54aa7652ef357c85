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

// CreateDossierInput defines the expected JSON structure for creating a dossier
type CreateDossierInput struct {
	ClientID uuid.UUID `json:"clientId" binding:"required"`
	Month    int       `json:"month" binding:"required"`
	Year     int       `json:"year" binding:"required"`
	Notes    string    `json:"notes"`
}

// UpdateDossierInput defines the expected JSON structure for updating a dossier
type UpdateDossierInput struct {
	Status *string `json:"status" binding:"omitempty,oneof=IN_PROGRESS CLOSED"`
	Notes  *string `json:"notes"`
}

// getOrCreateDossier looks up the dossier for (client, month, year)
// and inserts one when missing. Idempotent by the unique period index:
// repeated calls return the same record.
func getOrCreateDossier(db *gorm.DB, clientID uuid.UUID, month, year int) (*models.AccountingDossier, bool, error) {
	var dossier models.AccountingDossier
	err := db.
		Where("client_id = ? AND month = ? AND year = ?", clientID, month, year).
		First(&dossier).Error
	if err == nil {
		return &dossier, false, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, false, err
	}

	dossier = models.AccountingDossier{
		ClientID: clientID,
		Month:    month,
		Year:     year,
		Status:   models.DossierInProgress,
	}
	if err := db.Create(&dossier).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			// Lost the race; the period row exists now.
			err = db.
				Where("client_id = ? AND month = ? AND year = ?", clientID, month, year).
				First(&dossier).Error
			return &dossier, false, err
		}
		return nil, false, err
	}
	return &dossier, true, nil
}

// CreateDossier creates (or returns) the dossier for a period
func CreateDossier(c *gin.Context) {
	var input CreateDossierInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	if !utils.ValidatePeriod(input.Month, input.Year) {
		utils.RespondWithError(c, http.StatusBadRequest, "month (1-12) and year (>=2020) required")
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

	dossier, created, err := getOrCreateDossier(config.DB, input.ClientID, input.Month, input.Year)
	if err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to create dossier")
		return
	}

	if created && input.Notes != "" {
		config.DB.Model(dossier).Update("notes", input.Notes)
		dossier.Notes = input.Notes
	}

	status := http.StatusOK
	if created {
		status = http.StatusCreated
	}
	utils.RespondWithData(c, status, dossier)
}

// GetDossiers retrieves dossiers, optionally filtered by client
func GetDossiers(c *gin.Context) {
	query := config.DB.Order("year DESC, month DESC")

	if clientParam := c.Query("clientId"); clientParam != "" {
		clientID, err := uuid.Parse(clientParam)
		if err != nil {
			utils.RespondWithError(c, http.StatusBadRequest, "Invalid clientId format")
			return
		}
		query = query.Where("client_id = ?", clientID)
	}

	var dossiers []models.AccountingDossier
	if err := query.Find(&dossiers).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to retrieve dossiers")
		return
	}
	utils.RespondWithData(c, http.StatusOK, dossiers)
}

// GetDossier retrieves a dossier with its charges and entries
func GetDossier(c *gin.Context) {
	dossierID, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}

	var dossier models.AccountingDossier
	if err := config.DB.
		Preload("DetailedCharges").
		Preload("Entries").
		First(&dossier, "id = ?", dossierID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondWithError(c, http.StatusNotFound, "Dossier not found")
		} else {
			utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		}
		return
	}

	utils.RespondWithData(c, http.StatusOK, dossier)
}

// UpdateDossier updates a dossier's status or notes
func UpdateDossier(c *gin.Context) {
	dossierID, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}

	var input UpdateDossierInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	var dossier models.AccountingDossier
	if err := config.DB.First(&dossier, "id = ?", dossierID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondWithError(c, http.StatusNotFound, "Dossier not found")
		} else {
			utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		}
		return
	}

	if input.Status != nil {
		dossier.Status = *input.Status
	}
	if input.Notes != nil {
		dossier.Notes = *input.Notes
	}

	if err := config.DB.Save(&dossier).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to update dossier")
		return
	}

	utils.RespondWithData(c, http.StatusOK, dossier)
}

// DeleteDossier deletes a dossier and cascades to its charges and entries
func DeleteDossier(c *gin.Context) {
	dossierID, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}

	var dossier models.AccountingDossier
	if err := config.DB.First(&dossier, "id = ?", dossierID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondWithError(c, http.StatusNotFound, "Dossier not found")
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

	// Hard delete: a soft-deleted dossier would keep the unique
	// period index occupied while staying invisible to lookups, so
	// the period could never be reopened.
	if err := tx.Unscoped().Where("dossier_id = ?", dossier.ID).Delete(&models.DetailedCharge{}).Error; err != nil {
		tx.Rollback()
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to delete charges")
		return
	}
	if err := tx.Unscoped().Where("dossier_id = ?", dossier.ID).Delete(&models.ClientEntry{}).Error; err != nil {
		tx.Rollback()
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to delete entries")
		return
	}
	if err := tx.Unscoped().Delete(&dossier).Error; err != nil {
		tx.Rollback()
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to delete dossier")
		return
	}

	tx.Commit()
	utils.RespondWithMessage(c, http.StatusOK, nil, "Dossier deleted successfully")
}

// CreateDetailedChargeInput defines the expected JSON structure
type CreateDetailedChargeInput struct {
	Date        *time.Time `json:"date"`
	Supplier    string     `json:"supplier" binding:"required"`
	AmountExcl  float64    `json:"amountExcl" binding:"required,gt=0"`
	HasVAT      bool       `json:"hasVAT"`
	VATRate     float64    `json:"vatRate" binding:"min=0"`
	Category    string     `json:"category"`
	Description string     `json:"description"`
}

// CreateDetailedCharge adds a charge to a dossier. The VAT breakdown
// is computed and stored at write time.
func CreateDetailedCharge(c *gin.Context) {
	dossierID, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}

	var input CreateDetailedChargeInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	var dossier models.AccountingDossier
	if err := config.DB.First(&dossier, "id = ?", dossierID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondWithError(c, http.StatusNotFound, "Dossier not found")
		} else {
			utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		}
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
	vatRate := input.VATRate
	if input.HasVAT && vatRate == 0 {
		vatRate = 20
	}

	charge := models.DetailedCharge{
		DossierID:   dossier.ID,
		Date:        date,
		Supplier:    input.Supplier,
		AmountExcl:  input.AmountExcl,
		HasVAT:      input.HasVAT,
		VATRate:     vatRate,
		Category:    category,
		Description: input.Description,
	}

	if err := config.DB.Create(&charge).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to create charge")
		return
	}

	utils.RespondWithData(c, http.StatusCreated, charge)
}

// GetDetailedCharges lists a dossier's charges
func GetDetailedCharges(c *gin.Context) {
	dossierID, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}

	var dossier models.AccountingDossier
	if err := config.DB.First(&dossier, "id = ?", dossierID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondWithError(c, http.StatusNotFound, "Dossier not found")
		} else {
			utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		}
		return
	}

	var charges []models.DetailedCharge
	if err := config.DB.
		Where("dossier_id = ?", dossier.ID).
		Order("date DESC").
		Find(&charges).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to retrieve charges")
		return
	}

	utils.RespondWithData(c, http.StatusOK, charges)
}

// CreateClientEntryInput defines the expected JSON structure
type CreateClientEntryInput struct {
	Date       *time.Time `json:"date"`
	Label      string     `json:"label"`
	AmountExcl float64    `json:"amountExcl" binding:"required,gt=0"`
	VATAmount  float64    `json:"vatAmount" binding:"min=0"`
	SourceType string     `json:"sourceType"`
}

// CreateClientEntry adds a revenue entry to a dossier
func CreateClientEntry(c *gin.Context) {
	dossierID, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}

	var input CreateClientEntryInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	var dossier models.AccountingDossier
	if err := config.DB.First(&dossier, "id = ?", dossierID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondWithError(c, http.StatusNotFound, "Dossier not found")
		} else {
			utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		}
		return
	}

	date := time.Now()
	if input.Date != nil {
		date = *input.Date
	}
	sourceType := input.SourceType
	if sourceType == "" {
		sourceType = "MANUAL"
	}

	entry := models.ClientEntry{
		DossierID:  dossier.ID,
		ClientID:   dossier.ClientID,
		Date:       date,
		Label:      input.Label,
		AmountExcl: input.AmountExcl,
		VATAmount:  input.VATAmount,
		AmountIncl: input.AmountExcl + input.VATAmount,
		SourceType: sourceType,
	}

	if err := config.DB.Create(&entry).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to create entry")
		return
	}

	utils.RespondWithData(c, http.StatusCreated, entry)
}
