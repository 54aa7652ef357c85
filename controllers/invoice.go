package controllers

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"gestpro-backend/config"
	"gestpro-backend/models"
	"gestpro-backend/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// CreateInvoiceInput defines the expected JSON structure for a manual
// invoice
type CreateInvoiceInput struct {
	ClientID  uuid.UUID  `json:"clientId" binding:"required"`
	Amount    float64    `json:"amount" binding:"required,gt=0"`
	VATRate   float64    `json:"vatRate" binding:"min=0"`
	DueDate   time.Time  `json:"dueDate" binding:"required"`
	IssueDate *time.Time `json:"issueDate"`
	Notes     string     `json:"notes"`
}

// UpdateInvoiceInput defines the expected JSON structure for updates
type UpdateInvoiceInput struct {
	Amount  *float64   `json:"amount" binding:"omitempty,gt=0"`
	VATRate *float64   `json:"vatRate" binding:"omitempty,min=0"`
	Status  *string    `json:"status" binding:"omitempty,oneof=PENDING SENT PARTIAL PAID LATE"`
	DueDate *time.Time `json:"dueDate"`
	Notes   *string    `json:"notes"`
}

// nextManualInvoiceNumber mirrors the generator's numbering: the
// monthly count of created invoices, zero-padded to four digits.
func nextManualInvoiceNumber(db *gorm.DB, now time.Time) (string, error) {
	start, end := utils.MonthWindow(now.Year(), int(now.Month()), now.Location())

	var count int64
	if err := db.Model(&models.Invoice{}).
		Where("created_at >= ? AND created_at < ?", start, end).
		Count(&count).Error; err != nil {
		return "", err
	}
	return fmt.Sprintf("FACT-%04d%02d-%04d", now.Year(), int(now.Month()), count+1), nil
}

// CreateInvoice creates a manual (non-subscription) invoice
func CreateInvoice(c *gin.Context) {
	var input CreateInvoiceInput
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

	now := time.Now()
	issueDate := now
	if input.IssueDate != nil {
		issueDate = *input.IssueDate
	}

	number, err := nextManualInvoiceNumber(config.DB, now)
	if err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to allocate invoice number")
		return
	}

	invoice := models.Invoice{
		ClientID:  input.ClientID,
		Number:    number,
		Amount:    input.Amount,
		VATRate:   input.VATRate,
		Total:     input.Amount + input.Amount*input.VATRate/100,
		Status:    models.InvoicePending,
		IssueDate: issueDate,
		DueDate:   input.DueDate,
		Notes:     input.Notes,
	}

	if err := config.DB.Create(&invoice).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to create invoice")
		return
	}

	utils.RespondWithData(c, http.StatusCreated, invoice)
}

// GetInvoices lists invoices, optionally filtered by client or status
func GetInvoices(c *gin.Context) {
	query := config.DB.Order("issue_date DESC")

	if clientParam := c.Query("clientId"); clientParam != "" {
		clientID, err := uuid.Parse(clientParam)
		if err != nil {
			utils.RespondWithError(c, http.StatusBadRequest, "Invalid clientId format")
			return
		}
		query = query.Where("client_id = ?", clientID)
	}
	if status := c.Query("status"); status != "" {
		query = query.Where("status = ?", status)
	}

	var invoices []models.Invoice
	if err := query.Find(&invoices).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to retrieve invoices")
		return
	}
	utils.RespondWithData(c, http.StatusOK, invoices)
}

// GetInvoice retrieves a specific invoice by ID
func GetInvoice(c *gin.Context) {
	invoiceID, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}

	var invoice models.Invoice
	if err := config.DB.
		Preload("Payments").
		First(&invoice, "id = ?", invoiceID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondWithError(c, http.StatusNotFound, "Invoice not found")
		} else {
			utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		}
		return
	}

	utils.RespondWithData(c, http.StatusOK, invoice)
}

// UpdateInvoice updates an existing invoice
func UpdateInvoice(c *gin.Context) {
	invoiceID, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}

	var input UpdateInvoiceInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	var invoice models.Invoice
	if err := config.DB.First(&invoice, "id = ?", invoiceID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondWithError(c, http.StatusNotFound, "Invoice not found")
		} else {
			utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		}
		return
	}

	if input.Amount != nil {
		invoice.Amount = *input.Amount
	}
	if input.VATRate != nil {
		invoice.VATRate = *input.VATRate
	}
	if input.Amount != nil || input.VATRate != nil {
		invoice.Total = invoice.Amount + invoice.Amount*invoice.VATRate/100
	}
	if input.Status != nil {
		invoice.Status = *input.Status
	}
	if input.DueDate != nil {
		invoice.DueDate = *input.DueDate
	}
	if input.Notes != nil {
		invoice.Notes = *input.Notes
	}

	if err := config.DB.Save(&invoice).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to update invoice")
		return
	}

	utils.RespondWithData(c, http.StatusOK, invoice)
}

// DeleteInvoice removes an invoice, freeing its number
func DeleteInvoice(c *gin.Context) {
	invoiceID, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}

	var invoice models.Invoice
	if err := config.DB.First(&invoice, "id = ?", invoiceID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondWithError(c, http.StatusNotFound, "Invoice not found")
		} else {
			utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		}
		return
	}

	if err := config.DB.Delete(&invoice).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to delete invoice")
		return
	}

	utils.RespondWithMessage(c, http.StatusOK, nil, "Invoice deleted successfully")
}
