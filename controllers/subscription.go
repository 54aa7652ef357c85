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

// CreateSubscriptionInput defines the expected JSON structure
type CreateSubscriptionInput struct {
	ClientID  uuid.UUID  `json:"clientId" binding:"required"`
	Name      string     `json:"name" binding:"required"`
	Amount    float64    `json:"amount" binding:"required,gt=0"`
	Frequency string     `json:"frequency" binding:"required,oneof=MONTHLY QUARTERLY SEMIANNUAL ANNUAL"`
	StartDate *time.Time `json:"startDate"`
	EndDate   *time.Time `json:"endDate"`
}

// UpdateSubscriptionInput defines the expected JSON structure
type UpdateSubscriptionInput struct {
	Name      *string    `json:"name"`
	Amount    *float64   `json:"amount" binding:"omitempty,gt=0"`
	Frequency *string    `json:"frequency" binding:"omitempty,oneof=MONTHLY QUARTERLY SEMIANNUAL ANNUAL"`
	Status    *string    `json:"status" binding:"omitempty,oneof=ACTIVE SUSPENDED CANCELLED"`
	EndDate   *time.Time `json:"endDate"`
}

// CreateSubscription creates a subscription and its first invoice
func CreateSubscription(c *gin.Context) {
	var input CreateSubscriptionInput
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

	startDate := time.Now()
	if input.StartDate != nil {
		startDate = *input.StartDate
	}

	subscription := models.Subscription{
		ClientID:  input.ClientID,
		Name:      input.Name,
		Amount:    input.Amount,
		Frequency: input.Frequency,
		Status:    models.SubscriptionActive,
		StartDate: startDate,
		EndDate:   input.EndDate,
	}

	if err := config.DB.Create(&subscription).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to create subscription")
		return
	}

	// First invoice is generated immediately; a failure here leaves
	// the subscription in place for the next generator run.
	generator := services.NewInvoiceGenerator(config.DB)
	if _, err := generator.GenerateInitialInvoice(&subscription); err != nil {
		utils.RespondWithMessage(c, http.StatusCreated, subscription, "Subscription created, initial invoice deferred")
		return
	}

	utils.RespondWithData(c, http.StatusCreated, subscription)
}

// GetSubscriptions lists subscriptions, optionally filtered by client
func GetSubscriptions(c *gin.Context) {
	query := config.DB.Order("created_at DESC")
	if clientParam := c.Query("clientId"); clientParam != "" {
		clientID, err := uuid.Parse(clientParam)
		if err != nil {
			utils.RespondWithError(c, http.StatusBadRequest, "Invalid clientId format")
			return
		}
		query = query.Where("client_id = ?", clientID)
	}

	var subscriptions []models.Subscription
	if err := query.Find(&subscriptions).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to retrieve subscriptions")
		return
	}
	utils.RespondWithData(c, http.StatusOK, subscriptions)
}

// GetSubscription retrieves a subscription with its invoices
func GetSubscription(c *gin.Context) {
	subscriptionID, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}

	var subscription models.Subscription
	if err := config.DB.
		Preload("Invoices").
		First(&subscription, "id = ?", subscriptionID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondWithError(c, http.StatusNotFound, "Subscription not found")
		} else {
			utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		}
		return
	}

	utils.RespondWithData(c, http.StatusOK, subscription)
}

// UpdateSubscription updates an existing subscription
func UpdateSubscription(c *gin.Context) {
	subscriptionID, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}

	var input UpdateSubscriptionInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	var subscription models.Subscription
	if err := config.DB.First(&subscription, "id = ?", subscriptionID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondWithError(c, http.StatusNotFound, "Subscription not found")
		} else {
			utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		}
		return
	}

	if input.Name != nil {
		subscription.Name = *input.Name
	}
	if input.Amount != nil {
		subscription.Amount = *input.Amount
	}
	if input.Frequency != nil {
		subscription.Frequency = *input.Frequency
	}
	if input.Status != nil {
		subscription.Status = *input.Status
	}
	if input.EndDate != nil {
		subscription.EndDate = input.EndDate
	}

	if err := config.DB.Save(&subscription).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to update subscription")
		return
	}

	utils.RespondWithData(c, http.StatusOK, subscription)
}

// DeleteSubscription cancels and soft deletes a subscription
func DeleteSubscription(c *gin.Context) {
	subscriptionID, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}

	var subscription models.Subscription
	if err := config.DB.First(&subscription, "id = ?", subscriptionID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondWithError(c, http.StatusNotFound, "Subscription not found")
		} else {
			utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		}
		return
	}

	config.DB.Model(&subscription).Update("status", models.SubscriptionCancelled)
	if err := config.DB.Delete(&subscription).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to delete subscription")
		return
	}

	utils.RespondWithMessage(c, http.StatusOK, nil, "Subscription deleted successfully")
}
