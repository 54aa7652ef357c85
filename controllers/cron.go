package controllers

import (
	"crypto/subtle"
	"net/http"
	"os"
	"strings"

	"gestpro-backend/config"
	"gestpro-backend/services"
	"gestpro-backend/utils"

	"github.com/gin-gonic/gin"
)

// cronAuthorized checks the shared cron secret. Accepted forms:
// x-cron-secret header, ?secret= query, or Authorization: Bearer.
// Outside production, an unset CRON_SECRET disables the check so local
// runs work without configuration.
func cronAuthorized(c *gin.Context) bool {
	secret := os.Getenv("CRON_SECRET")
	if secret == "" {
		return os.Getenv("APP_ENV") != "production"
	}

	provided := c.GetHeader("x-cron-secret")
	if provided == "" {
		provided = c.Query("secret")
	}
	if provided == "" {
		auth := c.GetHeader("Authorization")
		if strings.HasPrefix(auth, "Bearer ") {
			provided = strings.TrimPrefix(auth, "Bearer ")
		}
	}

	return subtle.ConstantTimeCompare([]byte(provided), []byte(secret)) == 1
}

// CronAuthMiddleware rejects cron calls that do not carry the shared
// secret
func CronAuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !cronAuthorized(c) {
			utils.RespondWithError(c, http.StatusUnauthorized, "Invalid cron secret")
			c.Abort()
			return
		}
		c.Next()
	}
}

// CronGenerateInvoices runs the subscription invoice scan
func CronGenerateInvoices(c *gin.Context) {
	result := services.NewInvoiceGenerator(config.DB).GenerateSubscriptionInvoices()
	utils.RespondWithData(c, http.StatusOK, result)
}

// CronCheckLatePayments runs the late payment scan and notifies
func CronCheckLatePayments(c *gin.Context) {
	result := services.NewPaymentLateService(config.DB, services.DefaultNotifier()).
		CheckAndNotifyLatePayments()
	utils.RespondWithData(c, http.StatusOK, result)
}

// CronCheckLateTasks runs the late task scan and notifies
func CronCheckLateTasks(c *gin.Context) {
	result := services.NewTaskLateService(config.DB, services.DefaultNotifier()).
		CheckAndNotifyLateTasks()
	utils.RespondWithData(c, http.StatusOK, result)
}

// CronSalaryForecastCalculated sends the end-of-day forecast summary
func CronSalaryForecastCalculated(c *gin.Context) {
	result := services.NewSalaryNotificationService(config.DB, services.DefaultNotifier()).
		NotifyForecastCalculated()
	utils.RespondWithData(c, http.StatusOK, result)
}

// CronSalaryPaymentDue sends the start-of-month payment reminder and
// creates the salary charges
func CronSalaryPaymentDue(c *gin.Context) {
	notify, charges := services.NewSalaryNotificationService(config.DB, services.DefaultNotifier()).
		NotifyPaymentDue()
	utils.RespondWithData(c, http.StatusOK, gin.H{
		"notifications": notify,
		"charges":       charges,
	})
}

// CronSalaryPaymentLate escalates unpaid forecasts after day 3
func CronSalaryPaymentLate(c *gin.Context) {
	result := services.NewSalaryNotificationService(config.DB, services.DefaultNotifier()).
		AlertPaymentLate()
	utils.RespondWithData(c, http.StatusOK, result)
}
