package controllers

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"gestpro-backend/config"
	"gestpro-backend/models"
	"gestpro-backend/services"
	"gestpro-backend/utils"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// CreateClientInput defines the expected JSON structure for creating a client
type CreateClientInput struct {
	Name    string `json:"name" binding:"required"`
	Contact string `json:"contact"`
	Email   string `json:"email" binding:"omitempty,email"`
	Phone   string `json:"phone"`
	Address string `json:"address"`
	Company string `json:"company"`
}

// UpdateClientInput defines the expected JSON structure for updating a client
type UpdateClientInput struct {
	Name     *string `json:"name"`
	Contact  *string `json:"contact"`
	Email    *string `json:"email" binding:"omitempty,email"`
	Phone    *string `json:"phone"`
	Address  *string `json:"address"`
	Company  *string `json:"company"`
	IsActive *bool   `json:"isActive"`
}

// CreateClient creates a new client
func CreateClient(c *gin.Context) {
	var input CreateClientInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	if input.Phone != "" && !utils.ValidatePhone(input.Phone) {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid phone number format")
		return
	}

	client := models.Client{
		Name:     input.Name,
		Contact:  input.Contact,
		Email:    input.Email,
		Phone:    input.Phone,
		Address:  input.Address,
		Company:  input.Company,
		IsActive: true,
	}

	if err := config.DB.Create(&client).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to create client")
		return
	}

	utils.RespondWithData(c, http.StatusCreated, client)
}

// GetClients retrieves all clients
func GetClients(c *gin.Context) {
	var clients []models.Client
	if err := config.DB.Order("name ASC").Find(&clients).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to retrieve clients")
		return
	}
	utils.RespondWithData(c, http.StatusOK, clients)
}

// GetClient retrieves a specific client by ID
func GetClient(c *gin.Context) {
	clientID, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}

	var client models.Client
	if err := config.DB.First(&client, "id = ?", clientID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondWithError(c, http.StatusNotFound, "Client not found")
		} else {
			utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		}
		return
	}

	utils.RespondWithData(c, http.StatusOK, client)
}

// UpdateClient updates an existing client
func UpdateClient(c *gin.Context) {
	clientID, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}

	var input UpdateClientInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	var client models.Client
	if err := config.DB.First(&client, "id = ?", clientID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondWithError(c, http.StatusNotFound, "Client not found")
		} else {
			utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		}
		return
	}

	if input.Name != nil {
		client.Name = *input.Name
	}
	if input.Contact != nil {
		client.Contact = *input.Contact
	}
	if input.Email != nil {
		client.Email = *input.Email
	}
	if input.Phone != nil {
		if *input.Phone != "" && !utils.ValidatePhone(*input.Phone) {
			utils.RespondWithError(c, http.StatusBadRequest, "Invalid phone number format")
			return
		}
		client.Phone = *input.Phone
	}
	if input.Address != nil {
		client.Address = *input.Address
	}
	if input.Company != nil {
		client.Company = *input.Company
	}
	if input.IsActive != nil {
		client.IsActive = *input.IsActive
	}

	if err := config.DB.Save(&client).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to update client")
		return
	}

	utils.RespondWithData(c, http.StatusOK, client)
}

// DeleteClient soft deletes a client unless it still owns children
func DeleteClient(c *gin.Context) {
	clientID, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}

	var client models.Client
	if err := config.DB.First(&client, "id = ?", clientID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondWithError(c, http.StatusNotFound, "Client not found")
		} else {
			utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		}
		return
	}

	// Clients are soft-referenced: refuse deletion while children exist.
	var children int64
	config.DB.Model(&models.Project{}).Where("client_id = ?", clientID).Count(&children)
	if children == 0 {
		config.DB.Model(&models.Subscription{}).Where("client_id = ?", clientID).Count(&children)
	}
	if children == 0 {
		config.DB.Model(&models.AccountingDossier{}).Where("client_id = ?", clientID).Count(&children)
	}
	if children > 0 {
		utils.RespondWithError(c, http.StatusBadRequest, "Client still has projects, subscriptions or dossiers")
		return
	}

	if err := config.DB.Delete(&client).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to delete client")
		return
	}

	utils.RespondWithMessage(c, http.StatusOK, nil, "Client deleted successfully")
}

// GetClientChargesVAT returns one month's dossier charges split by VAT
// treatment. Missing dossier yields empty totals rather than 404.
func GetClientChargesVAT(c *gin.Context) {
	clientID, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}

	now := time.Now()
	month, _ := strconv.Atoi(c.DefaultQuery("month", strconv.Itoa(int(now.Month()))))
	year, _ := strconv.Atoi(c.DefaultQuery("year", strconv.Itoa(now.Year())))

	var dossier models.AccountingDossier
	err := config.DB.
		Where("client_id = ? AND month = ? AND year = ?", clientID, month, year).
		First(&dossier).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondWithData(c, http.StatusOK, services.DossierTotals{})
			return
		}
		utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		return
	}

	totals, err := services.NewAccountingService(config.DB).ComputeDossierTotals(dossier.ID)
	if err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to compute charge totals")
		return
	}

	utils.RespondWithData(c, http.StatusOK, totals)
}

// GetClientAccountingTrend returns the per-month entries/charges trend
// for one year.
func GetClientAccountingTrend(c *gin.Context) {
	clientID, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}

	year, err := strconv.Atoi(c.DefaultQuery("year", strconv.Itoa(time.Now().Year())))
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid year")
		return
	}

	trend, err := services.NewAccountingService(config.DB).AccountingTrend(clientID, year)
	if err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to compute trend")
		return
	}

	utils.RespondWithData(c, http.StatusOK, trend)
}
