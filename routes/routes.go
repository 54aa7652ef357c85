package routes

import (
	"time"

	"gestpro-backend/config"
	"gestpro-backend/controllers"
	"gestpro-backend/models"
	"gestpro-backend/utils"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

func SetupRouter() *gin.Engine {
	r := gin.Default()

	r.Use(cors.New(cors.Config{
		AllowOrigins: []string{
			"http://localhost:3000",
			"http://localhost:5173",
		},
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Authorization", "Content-Type", "x-cron-secret"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
	}))

	r.Use(config.PerformanceLogger())

	// 300 requests per IP per minute. Per-process counters only.
	limiter := config.NewRateLimiter(time.Minute, 300)
	r.Use(limiter.Middleware())

	auth := r.Group("/auth")
	{
		auth.POST("/register", controllers.Register)
		auth.POST("/login", controllers.Login)

		auth.Use(utils.AuthMiddleware())
		auth.GET("/me", controllers.Me)
	}

	api := r.Group("/api")
	api.Use(utils.AuthMiddleware())
	{
		// Client routes
		clients := api.Group("/clients")
		{
			clients.POST("", controllers.CreateClient)
			clients.GET("", controllers.GetClients)
			clients.GET("/:id", controllers.GetClient)
			clients.PUT("/:id", controllers.UpdateClient)
			clients.DELETE("/:id", controllers.DeleteClient)
			clients.GET("/:id/charges-tva", controllers.GetClientChargesVAT)
			clients.GET("/:id/accounting-trend", controllers.GetClientAccountingTrend)
		}

		// Project routes, tasks nested
		projects := api.Group("/projects")
		{
			projects.POST("", controllers.CreateProject)
			projects.GET("", controllers.GetProjects)
			projects.GET("/:id", controllers.GetProject)
			projects.PUT("/:id", controllers.UpdateProject)
			projects.DELETE("/:id", controllers.DeleteProject)
			projects.DELETE("/:id/team", controllers.UnassignProjectTeam)

			projects.POST("/:id/tasks", controllers.CreateTask)
			projects.GET("/:id/tasks", controllers.GetTasks)
			projects.PUT("/:id/tasks/:taskId", controllers.UpdateTask)
			projects.DELETE("/:id/tasks/:taskId", controllers.DeleteTask)
		}

		// Subscription routes
		subscriptions := api.Group("/subscriptions")
		{
			subscriptions.POST("", controllers.CreateSubscription)
			subscriptions.GET("", controllers.GetSubscriptions)
			subscriptions.GET("/:id", controllers.GetSubscription)
			subscriptions.PUT("/:id", controllers.UpdateSubscription)
			subscriptions.DELETE("/:id", controllers.DeleteSubscription)
		}

		// Invoice routes
		invoices := api.Group("/invoices")
		{
			invoices.POST("", controllers.CreateInvoice)
			invoices.GET("", controllers.GetInvoices)
			invoices.GET("/:id", controllers.GetInvoice)
			invoices.PUT("/:id", controllers.UpdateInvoice)
			invoices.DELETE("/:id", controllers.DeleteInvoice)
		}

		// Payment routes
		payments := api.Group("/payments")
		{
			payments.POST("", controllers.CreatePayment)
			payments.GET("", controllers.GetPayments)
			payments.GET("/late", controllers.GetLatePayments)
			payments.GET("/:id", controllers.GetPayment)
			payments.PUT("/:id", controllers.UpdatePayment)
			payments.DELETE("/:id", controllers.DeletePayment)
		}

		// Quote routes
		devis := api.Group("/devis")
		{
			devis.POST("", controllers.CreateQuote)
			devis.GET("", controllers.GetQuotes)
			devis.GET("/:id", controllers.GetQuote)
			devis.PUT("/:id", controllers.UpdateQuote)
			devis.PATCH("/:id/status", controllers.UpdateQuoteStatus)
			devis.DELETE("/:id", controllers.DeleteQuote)
		}

		// Accounting dossier routes
		dossiers := api.Group("/dossiers")
		{
			dossiers.POST("", controllers.CreateDossier)
			dossiers.GET("", controllers.GetDossiers)
			dossiers.GET("/:id", controllers.GetDossier)
			dossiers.PUT("/:id", controllers.UpdateDossier)
			dossiers.DELETE("/:id", controllers.DeleteDossier)
			dossiers.POST("/:id/charges-detaillees", controllers.CreateDetailedCharge)
			dossiers.GET("/:id/charges-detaillees", controllers.GetDetailedCharges)
			dossiers.POST("/:id/entries", controllers.CreateClientEntry)
		}

		// Company charge ledger
		charges := api.Group("/charges")
		{
			charges.POST("", controllers.CreateCharge)
			charges.GET("", controllers.GetCharges)
			charges.GET("/:id", controllers.GetCharge)
			charges.PATCH("/:id", controllers.PatchCharge)
			charges.DELETE("/:id", controllers.DeleteCharge)
		}

		// Timesheet routes
		timesheets := api.Group("/timesheets")
		{
			timesheets.POST("", controllers.CreateTimeSheet)
			timesheets.GET("", controllers.GetTimeSheets)
			timesheets.GET("/:id", controllers.GetTimeSheet)
			timesheets.PUT("/:id", controllers.UpdateTimeSheet)
			timesheets.DELETE("/:id", controllers.DeleteTimeSheet)
		}

		// Notification routes
		notifications := api.Group("/notifications")
		{
			notifications.GET("", controllers.GetNotifications)
			notifications.PATCH("/:id/read", controllers.MarkNotificationRead)
			notifications.POST("/read-all", controllers.MarkAllNotificationsRead)
		}

		// Salary forecast routes, restricted to management
		salary := api.Group("/salary-forecasts")
		salary.Use(utils.RequireRoles(models.RoleAdmin, models.RoleManager))
		{
			salary.GET("", controllers.GetSalaryForecasts)
			salary.POST("/recalculate", controllers.RecalculateSalaryForecasts)
			salary.GET("/statistics/:employeeId", controllers.GetSalaryStatistics)
			salary.POST("/mark-paid", controllers.MarkForecastPaid)
		}

		// Late task list and dashboard
		api.GET("/tasks/late", controllers.GetLateTasks)
		api.GET("/dashboard/overview", controllers.GetDashboardOverview)
	}

	// Cron endpoints authenticate with the shared secret, not JWT.
	// GET aliases exist for schedulers that cannot POST.
	cron := r.Group("/cron")
	cron.Use(controllers.CronAuthMiddleware())
	{
		cron.GET("/generate-invoices", controllers.CronGenerateInvoices)
		cron.POST("/generate-invoices", controllers.CronGenerateInvoices)
		cron.GET("/check-late-payments", controllers.CronCheckLatePayments)
		cron.POST("/check-late-payments", controllers.CronCheckLatePayments)
		cron.GET("/check-late-tasks", controllers.CronCheckLateTasks)
		cron.POST("/check-late-tasks", controllers.CronCheckLateTasks)

		cron.GET("/salary/forecast-calculated", controllers.CronSalaryForecastCalculated)
		cron.GET("/salary/payment-due", controllers.CronSalaryPaymentDue)
		cron.GET("/salary/payment-late", controllers.CronSalaryPaymentLate)
	}

	return r
}
