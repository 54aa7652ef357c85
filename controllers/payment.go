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

// CreatePaymentInput defines the expected JSON structure
type CreatePaymentInput struct {
	ClientID     uuid.UUID  `json:"clientId" binding:"required"`
	ProjectID    *uuid.UUID `json:"projectId"`
	InvoiceID    *uuid.UUID `json:"invoiceId"`
	TaskID       *uuid.UUID `json:"taskId"`
	Amount       float64    `json:"amount" binding:"required,gt=0"`
	PaymentDate  *time.Time `json:"paymentDate"`
	ExpectedDate *time.Time `json:"expectedDate"`
	Method       string     `json:"method"`
	Notes        string     `json:"notes"`
}

// UpdatePaymentInput defines the expected JSON structure
type UpdatePaymentInput struct {
	Amount       *float64   `json:"amount" binding:"omitempty,gt=0"`
	Status       *string    `json:"status" binding:"omitempty,oneof=PENDING CONFIRMED REFUNDED"`
	ExpectedDate *time.Time `json:"expectedDate"`
	Method       *string    `json:"method"`
	Notes        *string    `json:"notes"`
}

// CreatePayment records a payment
func CreatePayment(c *gin.Context) {
	var input CreatePaymentInput
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

	if input.InvoiceID != nil {
		var invoice models.Invoice
		if err := config.DB.First(&invoice, "id = ?", *input.InvoiceID).Error; err != nil {
			utils.RespondWithError(c, http.StatusBadRequest, "Invoice not found")
			return
		}
	}

	paymentDate := time.Now()
	if input.PaymentDate != nil {
		paymentDate = *input.PaymentDate
	}

	payment := models.Payment{
		ClientID:     input.ClientID,
		ProjectID:    input.ProjectID,
		InvoiceID:    input.InvoiceID,
		TaskID:       input.TaskID,
		Amount:       input.Amount,
		Status:       models.PaymentPending,
		PaymentDate:  paymentDate,
		ExpectedDate: input.ExpectedDate,
		Method:       input.Method,
		Notes:        input.Notes,
	}

	if err := config.DB.Create(&payment).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to create payment")
		return
	}

	utils.RespondWithData(c, http.StatusCreated, payment)
}

// GetPayments lists payments, optionally filtered by client or status
func GetPayments(c *gin.Context) {
	query := config.DB.Order("payment_date DESC")

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

	var payments []models.Payment
	if err := query.Find(&payments).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to retrieve payments")
		return
	}
	utils.RespondWithData(c, http.StatusOK, payments)
}

// GetPayment retrieves a specific payment
func GetPayment(c *gin.Context) {
	paymentID, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}

	var payment models.Payment
	if err := config.DB.First(&payment, "id = ?", paymentID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondWithError(c, http.StatusNotFound, "Payment not found")
		} else {
			utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		}
		return
	}

	utils.RespondWithData(c, http.StatusOK, payment)
}

// UpdatePayment updates a payment; confirming one updates the invoice
// status as well
func UpdatePayment(c *gin.Context) {
	paymentID, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}

	var input UpdatePaymentInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	var payment models.Payment
	if err := config.DB.First(&payment, "id = ?", paymentID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondWithError(c, http.StatusNotFound, "Payment not found")
		} else {
			utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		}
		return
	}

	if input.Amount != nil {
		payment.Amount = *input.Amount
	}
	if input.Status != nil {
		payment.Status = *input.Status
	}
	if input.ExpectedDate != nil {
		payment.ExpectedDate = input.ExpectedDate
	}
	if input.Method != nil {
		payment.Method = *input.Method
	}
	if input.Notes != nil {
		payment.Notes = *input.Notes
	}

	if err := config.DB.Save(&payment).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to update payment")
		return
	}

	// Confirming the payment settles its invoice when the amounts
	// cover the total.
	if input.Status != nil && *input.Status == models.PaymentConfirmed && payment.InvoiceID != nil {
		var invoice models.Invoice
		if err := config.DB.First(&invoice, "id = ?", *payment.InvoiceID).Error; err == nil {
			var confirmed float64
			config.DB.Model(&models.Payment{}).
				Where("invoice_id = ? AND status = ?", invoice.ID, models.PaymentConfirmed).
				Select("COALESCE(SUM(amount), 0)").
				Scan(&confirmed)
			status := models.InvoicePartial
			if confirmed >= invoice.Total {
				status = models.InvoicePaid
			}
			config.DB.Model(&invoice).Update("status", status)
		}
	}

	utils.RespondWithData(c, http.StatusOK, payment)
}

// DeletePayment removes a payment
func DeletePayment(c *gin.Context) {
	paymentID, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}

	var payment models.Payment
	if err := config.DB.First(&payment, "id = ?", paymentID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondWithError(c, http.StatusNotFound, "Payment not found")
		} else {
			utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		}
		return
	}

	if err := config.DB.Delete(&payment).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to delete payment")
		return
	}

	utils.RespondWithMessage(c, http.StatusOK, nil, "Payment deleted successfully")
}

// GetLatePayments returns the current late payments without creating
// notifications
func GetLatePayments(c *gin.Context) {
	late, err := services.NewPaymentLateService(config.DB, services.NoopNotifier{}).GetLatePayments()
	if err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to retrieve late payments")
		return
	}
	utils.RespondWithData(c, http.StatusOK, late)
}
