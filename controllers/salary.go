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
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// RecalculateForecastInput defines the expected JSON structure
type RecalculateForecastInput struct {
	EmployeeID *uuid.UUID `json:"employeeId"`
	Month      int        `json:"month" binding:"omitempty,min=1,max=12"`
	Year       int        `json:"year" binding:"omitempty,min=1"`
}

// MarkForecastPaidInput defines the expected JSON structure
type MarkForecastPaidInput struct {
	EmployeeID uuid.UUID `json:"employeeId" binding:"required"`
	Month      int       `json:"month" binding:"required,min=1,max=12"`
	Year       int       `json:"year" binding:"required,min=1"`
}

// GetSalaryForecasts lists forecasts, optionally filtered by employee
// or period
func GetSalaryForecasts(c *gin.Context) {
	query := config.DB.Order("year DESC, month DESC")

	if employeeID := c.Query("employeeId"); employeeID != "" {
		id, err := uuid.Parse(employeeID)
		if err != nil {
			utils.RespondWithError(c, http.StatusBadRequest, "Invalid employee ID format")
			return
		}
		query = query.Where("employee_id = ?", id)
	}
	if month, year, ok := parsePeriodQuery(c); ok {
		query = query.Where("month = ? AND year = ?", month, year)
	}
	if paid := c.Query("paid"); paid != "" {
		query = query.Where("paid = ?", paid == "true")
	}

	var forecasts []models.SalaryForecast
	if err := query.Find(&forecasts).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to retrieve salary forecasts")
		return
	}
	utils.RespondWithData(c, http.StatusOK, forecasts)
}

// RecalculateSalaryForecasts recomputes forecasts for one employee or,
// without employeeId, for every employee with an hourly rate.
func RecalculateSalaryForecasts(c *gin.Context) {
	var input RecalculateForecastInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	refDate := time.Now()
	if input.Month != 0 && input.Year != 0 {
		refDate = time.Date(input.Year, time.Month(input.Month), 1, 0, 0, 0, 0, time.UTC)
	}

	svc := services.NewSalaryForecastService(config.DB)

	if input.EmployeeID != nil {
		forecast, err := svc.Recalculate(*input.EmployeeID, refDate)
		if err != nil {
			utils.RespondWithError(c, http.StatusInternalServerError, "Failed to recalculate forecast")
			return
		}
		if forecast == nil {
			utils.RespondWithMessage(c, http.StatusOK, nil, "Employee has no hourly rate, nothing to forecast")
			return
		}
		utils.RespondWithData(c, http.StatusOK, forecast)
		return
	}

	count, errs := svc.RecalculateAll()
	utils.RespondWithData(c, http.StatusOK, gin.H{
		"recalculated": count,
		"errors":       errs,
	})
}

// GetSalaryStatistics returns trailing salary statistics for an
// employee (?months=, default 12)
func GetSalaryStatistics(c *gin.Context) {
	employeeID, ok := parseUUIDParam(c, "employeeId")
	if !ok {
		return
	}

	months := 12
	if raw := c.Query("months"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 || parsed > 60 {
			utils.RespondWithError(c, http.StatusBadRequest, "months must be between 1 and 60")
			return
		}
		months = parsed
	}

	stats, err := services.NewSalaryForecastService(config.DB).Statistics(employeeID, months)
	if err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to compute salary statistics")
		return
	}
	utils.RespondWithData(c, http.StatusOK, stats)
}

// MarkForecastPaid flags a forecast as paid
func MarkForecastPaid(c *gin.Context) {
	var input MarkForecastPaidInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	forecast, err := services.NewSalaryForecastService(config.DB).
		MarkPaid(input.EmployeeID, input.Month, input.Year)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondWithError(c, http.StatusNotFound, "Salary forecast not found")
			return
		}
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to mark forecast as paid")
		return
	}
	utils.RespondWithData(c, http.StatusOK, forecast)
}
