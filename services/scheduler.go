// services/scheduler.go
package services

import (
	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

// Scheduler runs the batch jobs in-process on the same rules the
// external cron endpoints follow. Both paths share the services, so a
// deployment can use either without double effects: every job is
// idempotent per item per day or per month.
type Scheduler struct {
	cron *cron.Cron
}

func StartScheduler(db *gorm.DB, notifier Notifier) *Scheduler {
	c := cron.New()

	generator := NewInvoiceGenerator(db)
	payments := NewPaymentLateService(db, notifier)
	tasks := NewTaskLateService(db, notifier)
	salaries := NewSalaryNotificationService(db, notifier)

	// Daily at 8: subscription invoices and late scans.
	c.AddFunc("0 8 * * *", func() {
		generator.GenerateSubscriptionInvoices()
		payments.CheckAndNotifyLatePayments()
		tasks.CheckAndNotifyLateTasks()
	})

	// 1st of the month at 8: payment-due reminders + salary charges.
	c.AddFunc("0 8 1 * *", func() {
		salaries.NotifyPaymentDue()
	})

	// 3rd of the month at 9: late salary escalation.
	c.AddFunc("0 9 3 * *", func() {
		salaries.AlertPaymentLate()
	})

	// Last-day forecast notice: run daily, the service itself no-ops
	// when there is nothing to announce this month.
	c.AddFunc("0 18 * * *", func() {
		salaries.NotifyForecastCalculated()
	})

	c.Start()
	log.Info().Msg("scheduler started")
	return &Scheduler{cron: c}
}

func (s *Scheduler) Stop() {
	s.cron.Stop()
}
