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
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

// CreateTimeSheetInput defines the expected JSON structure
type CreateTimeSheetInput struct {
	EmployeeID  uuid.UUID `json:"employeeId" binding:"required"`
	Date        time.Time `json:"date" binding:"required"`
	RegularHrs  float64   `json:"regularHrs" binding:"gte=0"`
	OvertimeHrs float64   `json:"overtimeHrs" binding:"gte=0"`
	SickHrs     float64   `json:"sickHrs" binding:"gte=0"`
	VacationHrs float64   `json:"vacationHrs" binding:"gte=0"`
	Notes       string    `json:"notes"`
}

// UpdateTimeSheetInput defines the expected JSON structure
type UpdateTimeSheetInput struct {
	Date        *time.Time `json:"date"`
	RegularHrs  *float64   `json:"regularHrs" binding:"omitempty,gte=0"`
	OvertimeHrs *float64   `json:"overtimeHrs" binding:"omitempty,gte=0"`
	SickHrs     *float64   `json:"sickHrs" binding:"omitempty,gte=0"`
	VacationHrs *float64   `json:"vacationHrs" binding:"omitempty,gte=0"`
	Status      *string    `json:"status" binding:"omitempty,oneof=DRAFT SUBMITTED VALIDATED REJECTED"`
	Notes       *string    `json:"notes"`
}

// CreateTimeSheet records a new timesheet entry in DRAFT status
func CreateTimeSheet(c *gin.Context) {
	var input CreateTimeSheetInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	var employee models.User
	if err := config.DB.First(&employee, "id = ?", input.EmployeeID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondWithError(c, http.StatusNotFound, "Employee not found")
		} else {
			utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		}
		return
	}

	sheet := models.TimeSheet{
		EmployeeID:  input.EmployeeID,
		Date:        input.Date,
		RegularHrs:  input.RegularHrs,
		OvertimeHrs: input.OvertimeHrs,
		SickHrs:     input.SickHrs,
		VacationHrs: input.VacationHrs,
		Status:      models.TimeSheetDraft,
		Notes:       input.Notes,
	}

	if err := config.DB.Create(&sheet).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to create timesheet")
		return
	}

	utils.RespondWithData(c, http.StatusCreated, sheet)
}

// GetTimeSheets lists timesheets, optionally filtered by employee,
// status or period (?month=&year=)
func GetTimeSheets(c *gin.Context) {
	query := config.DB.Order("date DESC")

	if employeeID := c.Query("employeeId"); employeeID != "" {
		id, err := uuid.Parse(employeeID)
		if err != nil {
			utils.RespondWithError(c, http.StatusBadRequest, "Invalid employee ID format")
			return
		}
		query = query.Where("employee_id = ?", id)
	}
	if status := c.Query("status"); status != "" {
		query = query.Where("status = ?", status)
	}
	if month, year, ok := parsePeriodQuery(c); ok {
		start, end := utils.MonthWindow(year, month, time.UTC)
		query = query.Where("date >= ? AND date < ?", start, end)
	} else if c.Query("month") != "" || c.Query("year") != "" {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid month/year filter")
		return
	}

	var sheets []models.TimeSheet
	if err := query.Find(&sheets).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to retrieve timesheets")
		return
	}
	utils.RespondWithData(c, http.StatusOK, sheets)
}

// GetTimeSheet returns a single timesheet
func GetTimeSheet(c *gin.Context) {
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}

	var sheet models.TimeSheet
	if err := config.DB.First(&sheet, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondWithError(c, http.StatusNotFound, "Timesheet not found")
		} else {
			utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		}
		return
	}
	utils.RespondWithData(c, http.StatusOK, sheet)
}

// UpdateTimeSheet updates a timesheet. Moving it to VALIDATED triggers
// a salary forecast recalculation for the employee's month.
func UpdateTimeSheet(c *gin.Context) {
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}

	var input UpdateTimeSheetInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	var sheet models.TimeSheet
	if err := config.DB.First(&sheet, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondWithError(c, http.StatusNotFound, "Timesheet not found")
		} else {
			utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		}
		return
	}

	wasValidated := sheet.Status == models.TimeSheetValidated

	if input.Date != nil {
		sheet.Date = *input.Date
	}
	if input.RegularHrs != nil {
		sheet.RegularHrs = *input.RegularHrs
	}
	if input.OvertimeHrs != nil {
		sheet.OvertimeHrs = *input.OvertimeHrs
	}
	if input.SickHrs != nil {
		sheet.SickHrs = *input.SickHrs
	}
	if input.VacationHrs != nil {
		sheet.VacationHrs = *input.VacationHrs
	}
	if input.Status != nil {
		sheet.Status = *input.Status
	}
	if input.Notes != nil {
		sheet.Notes = *input.Notes
	}

	if err := config.DB.Save(&sheet).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to update timesheet")
		return
	}

	// Entering or leaving VALIDATED changes the payable hours, so the
	// month's forecast has to follow.
	if sheet.Status == models.TimeSheetValidated || wasValidated {
		if _, err := services.NewSalaryForecastService(config.DB).
			Recalculate(sheet.EmployeeID, sheet.Date); err != nil {
			log.Warn().Err(err).
				Str("employeeId", sheet.EmployeeID.String()).
				Msg("forecast recalculation failed after timesheet update")
		}
	}

	utils.RespondWithData(c, http.StatusOK, sheet)
}

// DeleteTimeSheet removes a timesheet and refreshes the forecast if it
// was counted
func DeleteTimeSheet(c *gin.Context) {
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}

	var sheet models.TimeSheet
	if err := config.DB.First(&sheet, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondWithError(c, http.StatusNotFound, "Timesheet not found")
		} else {
			utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		}
		return
	}

	if err := config.DB.Delete(&sheet).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to delete timesheet")
		return
	}

	if sheet.Status == models.TimeSheetValidated {
		if _, err := services.NewSalaryForecastService(config.DB).
			Recalculate(sheet.EmployeeID, sheet.Date); err != nil {
			log.Warn().Err(err).
				Str("employeeId", sheet.EmployeeID.String()).
				Msg("forecast recalculation failed after timesheet delete")
		}
	}

	utils.RespondWithMessage(c, http.StatusOK, nil, "Timesheet deleted successfully")
}
