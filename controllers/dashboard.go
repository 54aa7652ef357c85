package controllers

import (
	"net/http"
	"time"

	"gestpro-backend/config"
	"gestpro-backend/models"
	"gestpro-backend/services"
	"gestpro-backend/utils"

	"github.com/gin-gonic/gin"
)

// GetDashboardOverview aggregates the landing page counters in one
// call.
func GetDashboardOverview(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	db := config.DB
	var clients, projects, pendingInvoices, unread int64

	if err := db.Model(&models.Client{}).Count(&clients).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to compute overview")
		return
	}
	db.Model(&models.Project{}).Where("status = ?", models.ProjectActive).Count(&projects)
	db.Model(&models.Invoice{}).
		Where("status IN ?", []string{models.InvoicePending, models.InvoicePartial}).
		Count(&pendingInvoices)
	db.Model(&models.Notification{}).
		Where("user_id = ? AND read = ?", userID, false).
		Count(&unread)

	// Revenue is the sum of payments confirmed inside the current
	// month window.
	now := time.Now()
	start, end := utils.MonthWindow(now.Year(), int(now.Month()), now.Location())
	var revenue float64
	db.Model(&models.Payment{}).
		Where("status = ? AND updated_at >= ? AND updated_at < ?", models.PaymentConfirmed, start, end).
		Select("COALESCE(SUM(amount), 0)").
		Scan(&revenue)

	latePayments, err := services.NewPaymentLateService(db, services.NoopNotifier{}).GetLatePayments()
	if err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to compute late payments")
		return
	}
	lateTasks, err := services.NewTaskLateService(db, services.NoopNotifier{}).GetLateTasks()
	if err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to compute late tasks")
		return
	}

	utils.RespondWithData(c, http.StatusOK, gin.H{
		"clients":             clients,
		"activeProjects":      projects,
		"pendingInvoices":     pendingInvoices,
		"monthlyRevenue":      revenue,
		"latePayments":        len(latePayments),
		"lateTasks":           len(lateTasks),
		"unreadNotifications": unread,
	})
}
