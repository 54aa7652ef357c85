package controllers

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"gestpro-backend/config"
	"gestpro-backend/models"
	"gestpro-backend/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// CreateQuoteInput defines the expected JSON structure
type CreateQuoteInput struct {
	ClientID   uuid.UUID  `json:"clientId" binding:"required"`
	Amount     float64    `json:"amount" binding:"required,gt=0"`
	ValidUntil *time.Time `json:"validUntil"`
	Notes      string     `json:"notes"`
}

// UpdateQuoteInput defines the expected JSON structure
type UpdateQuoteInput struct {
	Amount     *float64   `json:"amount" binding:"omitempty,gt=0"`
	ValidUntil *time.Time `json:"validUntil"`
	Notes      *string    `json:"notes"`
}

// QuoteStatusInput defines the expected JSON structure
type QuoteStatusInput struct {
	Status string `json:"status" binding:"required,oneof=DRAFT SENT ACCEPTED REFUSED CANCELLED"`
}

// nextQuoteNumber returns DEV-YYYYMM-NNNN, sequential within the
// month. Steps from the highest issued number so a deleted quote
// never causes a collision with a surviving one.
func nextQuoteNumber(db *gorm.DB, now time.Time) (string, error) {
	prefix := fmt.Sprintf("DEV-%04d%02d-", now.Year(), int(now.Month()))

	var last models.Quote
	err := db.
		Where("number LIKE ?", prefix+"%").
		Order("number DESC").
		First(&last).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return prefix + "0001", nil
		}
		return "", err
	}

	seq, convErr := strconv.Atoi(strings.TrimPrefix(last.Number, prefix))
	if convErr != nil {
		return "", fmt.Errorf("malformed quote number %q: %w", last.Number, convErr)
	}
	return fmt.Sprintf("%s%04d", prefix, seq+1), nil
}

// CreateQuote creates a new quote in DRAFT status
func CreateQuote(c *gin.Context) {
	var input CreateQuoteInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	var client models.Client
	if err := config.DB.First(&client, "id = ?", input.ClientID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondWithError(c, http.StatusNotFound, "Client not found")
		} else {
			utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		}
		return
	}

	number, err := nextQuoteNumber(config.DB, time.Now())
	if err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to allocate quote number")
		return
	}

	quote := models.Quote{
		ClientID:   input.ClientID,
		Number:     number,
		Amount:     input.Amount,
		Status:     models.QuoteDraft,
		ValidUntil: input.ValidUntil,
		Notes:      input.Notes,
	}

	if err := config.DB.Create(&quote).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to create quote")
		return
	}

	utils.RespondWithData(c, http.StatusCreated, quote)
}

// GetQuotes lists quotes, optionally filtered by client or status
func GetQuotes(c *gin.Context) {
	query := config.DB.Order("created_at DESC")

	if clientID := c.Query("clientId"); clientID != "" {
		id, err := uuid.Parse(clientID)
		if err != nil {
			utils.RespondWithError(c, http.StatusBadRequest, "Invalid client ID format")
			return
		}
		query = query.Where("client_id = ?", id)
	}
	if status := c.Query("status"); status != "" {
		query = query.Where("status = ?", status)
	}

	var quotes []models.Quote
	if err := query.Find(&quotes).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to retrieve quotes")
		return
	}
	utils.RespondWithData(c, http.StatusOK, quotes)
}

// GetQuote returns a single quote
func GetQuote(c *gin.Context) {
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}

	var quote models.Quote
	if err := config.DB.First(&quote, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondWithError(c, http.StatusNotFound, "Quote not found")
		} else {
			utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		}
		return
	}
	utils.RespondWithData(c, http.StatusOK, quote)
}

// UpdateQuote updates quote content. Status changes go through UpdateQuoteStatus.
func UpdateQuote(c *gin.Context) {
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}

	var input UpdateQuoteInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	var quote models.Quote
	if err := config.DB.First(&quote, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondWithError(c, http.StatusNotFound, "Quote not found")
		} else {
			utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		}
		return
	}

	if quote.Status != models.QuoteDraft {
		utils.RespondWithError(c, http.StatusBadRequest, "Only draft quotes can be edited")
		return
	}

	if input.Amount != nil {
		quote.Amount = *input.Amount
	}
	if input.ValidUntil != nil {
		quote.ValidUntil = input.ValidUntil
	}
	if input.Notes != nil {
		quote.Notes = *input.Notes
	}

	if err := config.DB.Save(&quote).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to update quote")
		return
	}

	utils.RespondWithData(c, http.StatusOK, quote)
}

// UpdateQuoteStatus applies a status transition, rejecting any move the
// transition table does not allow. Lifecycle dates are stamped on first entry.
func UpdateQuoteStatus(c *gin.Context) {
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}

	var input QuoteStatusInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	var quote models.Quote
	if err := config.DB.First(&quote, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondWithError(c, http.StatusNotFound, "Quote not found")
		} else {
			utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		}
		return
	}

	if !models.CanTransition(quote.Status, input.Status) {
		utils.RespondWithError(c, http.StatusBadRequest,
			fmt.Sprintf("Cannot transition from %s to %s", quote.Status, input.Status))
		return
	}

	now := time.Now()
	quote.Status = input.Status
	switch input.Status {
	case models.QuoteSent:
		if quote.SentAt == nil {
			quote.SentAt = &now
		}
	case models.QuoteAccepted:
		if quote.AcceptedAt == nil {
			quote.AcceptedAt = &now
		}
	case models.QuoteRefused:
		if quote.RefusedAt == nil {
			quote.RefusedAt = &now
		}
	}

	if err := config.DB.Save(&quote).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to update quote status")
		return
	}

	utils.RespondWithData(c, http.StatusOK, quote)
}

// DeleteQuote removes a quote
func DeleteQuote(c *gin.Context) {
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}

	var quote models.Quote
	if err := config.DB.First(&quote, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondWithError(c, http.StatusNotFound, "Quote not found")
		} else {
			utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		}
		return
	}

	if err := config.DB.Delete(&quote).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to delete quote")
		return
	}

	utils.RespondWithMessage(c, http.StatusOK, nil, "Quote deleted successfully")
}
