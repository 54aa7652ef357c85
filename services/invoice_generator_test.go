package services

import (
	"regexp"
	"testing"
	"time"

	"gestpro-backend/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateSubscriptionInvoicesPinsDueDate(t *testing.T) {
	db := setupTestDB(t)
	client := seedClient(t, db, "acme")

	sub := models.Subscription{
		ClientID:  client.ID,
		Name:      "Maintenance",
		Amount:    450,
		Frequency: models.FrequencyMonthly,
		Status:    models.SubscriptionActive,
		StartDate: time.Date(2025, 1, 10, 0, 0, 0, 0, time.UTC),
	}
	require.NoError(t, db.Create(&sub).Error)

	g := NewInvoiceGenerator(db)
	g.now = func() time.Time { return time.Date(2025, 2, 1, 9, 0, 0, 0, time.UTC) }

	result := g.GenerateSubscriptionInvoices()
	require.True(t, result.Success)
	require.Equal(t, 1, result.InvoicesGenerated)

	var invoice models.Invoice
	require.NoError(t, db.First(&invoice, "subscription_id = ?", sub.ID).Error)
	// One billing period after the start, pinned to the 15th.
	assert.Equal(t, "2025-02-15", invoice.DueDate.Format("2006-01-02"))
	assert.Equal(t, "FACT-202502-0001", invoice.Number)
	assert.Equal(t, 450.0, invoice.Amount)
	assert.Equal(t, models.InvoicePending, invoice.Status)

	var saved models.Subscription
	require.NoError(t, db.First(&saved, "id = ?", sub.ID).Error)
	require.NotNil(t, saved.NextBillingDate)
	assert.Equal(t, "2025-03-15", saved.NextBillingDate.Format("2006-01-02"))
	assert.Equal(t, 1, saved.PaymentsMade)
}

func TestGenerateSubscriptionInvoicesSecondRunCreatesNothing(t *testing.T) {
	db := setupTestDB(t)
	client := seedClient(t, db, "acme")

	sub := models.Subscription{
		ClientID:  client.ID,
		Name:      "Hosting",
		Amount:    90,
		Frequency: models.FrequencyMonthly,
		Status:    models.SubscriptionActive,
		StartDate: time.Date(2025, 1, 10, 0, 0, 0, 0, time.UTC),
	}
	require.NoError(t, db.Create(&sub).Error)

	g := NewInvoiceGenerator(db)
	g.now = func() time.Time { return time.Date(2025, 2, 1, 9, 0, 0, 0, time.UTC) }

	first := g.GenerateSubscriptionInvoices()
	require.Equal(t, 1, first.InvoicesGenerated)

	second := g.GenerateSubscriptionInvoices()
	assert.True(t, second.Success)
	assert.Equal(t, 0, second.InvoicesGenerated)

	var count int64
	require.NoError(t, db.Model(&models.Invoice{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestGenerateSubscriptionInvoicesStepsFromLastInvoice(t *testing.T) {
	db := setupTestDB(t)
	client := seedClient(t, db, "acme")

	sub := models.Subscription{
		ClientID:  client.ID,
		Name:      "Support",
		Amount:    120,
		Frequency: models.FrequencyMonthly,
		Status:    models.SubscriptionActive,
		StartDate: time.Date(2025, 1, 10, 0, 0, 0, 0, time.UTC),
	}
	require.NoError(t, db.Create(&sub).Error)

	g := NewInvoiceGenerator(db)

	g.now = func() time.Time { return time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC) }
	require.Equal(t, 1, g.GenerateSubscriptionInvoices().InvoicesGenerated)

	g.now = func() time.Time { return time.Date(2025, 3, 16, 0, 0, 0, 0, time.UTC) }
	require.Equal(t, 1, g.GenerateSubscriptionInvoices().InvoicesGenerated)

	var invoices []models.Invoice
	require.NoError(t, db.Where("subscription_id = ?", sub.ID).Order("due_date ASC").Find(&invoices).Error)
	require.Len(t, invoices, 2)
	assert.Equal(t, "2025-02-15", invoices[0].DueDate.Format("2006-01-02"))
	assert.Equal(t, "2025-03-15", invoices[1].DueDate.Format("2006-01-02"))
}

func TestGenerateSubscriptionInvoicesSkipsInactive(t *testing.T) {
	db := setupTestDB(t)
	client := seedClient(t, db, "acme")

	ended := time.Date(2024, 12, 31, 0, 0, 0, 0, time.UTC)
	subs := []models.Subscription{
		{
			ClientID: client.ID, Name: "Cancelled", Amount: 10,
			Frequency: models.FrequencyMonthly, Status: models.SubscriptionCancelled,
			StartDate: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		},
		{
			ClientID: client.ID, Name: "Ended", Amount: 10,
			Frequency: models.FrequencyMonthly, Status: models.SubscriptionActive,
			StartDate: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
			EndDate:   &ended,
		},
	}
	for i := range subs {
		require.NoError(t, db.Create(&subs[i]).Error)
	}

	g := NewInvoiceGenerator(db)
	g.now = func() time.Time { return time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC) }

	result := g.GenerateSubscriptionInvoices()
	assert.True(t, result.Success)
	assert.Equal(t, 0, result.InvoicesGenerated)
}

func TestInvoiceNumbersIncrementWithinMonth(t *testing.T) {
	db := setupTestDB(t)
	client := seedClient(t, db, "acme")

	for _, name := range []string{"First", "Second"} {
		sub := models.Subscription{
			ClientID: client.ID, Name: name, Amount: 10,
			Frequency: models.FrequencyMonthly, Status: models.SubscriptionActive,
			StartDate: time.Date(2025, 1, 10, 0, 0, 0, 0, time.UTC),
		}
		require.NoError(t, db.Create(&sub).Error)
	}

	g := NewInvoiceGenerator(db)
	g.now = func() time.Time { return time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC) }
	result := g.GenerateSubscriptionInvoices()
	require.Equal(t, 2, result.InvoicesGenerated)

	var invoices []models.Invoice
	require.NoError(t, db.Order("number ASC").Find(&invoices).Error)
	require.Len(t, invoices, 2)

	format := regexp.MustCompile(`^FACT-\d{6}-\d{4}$`)
	for _, inv := range invoices {
		assert.Regexp(t, format, inv.Number)
	}
	assert.Equal(t, "FACT-202502-0001", invoices[0].Number)
	assert.Equal(t, "FACT-202502-0002", invoices[1].Number)
}

func TestGenerateSubscriptionInvoicesAfterInvoiceDeleted(t *testing.T) {
	db := setupTestDB(t)
	client := seedClient(t, db, "acme")

	sub := models.Subscription{
		ClientID: client.ID, Name: "First", Amount: 10,
		Frequency: models.FrequencyMonthly, Status: models.SubscriptionActive,
		StartDate: time.Date(2025, 1, 10, 0, 0, 0, 0, time.UTC),
	}
	require.NoError(t, db.Create(&sub).Error)

	g := NewInvoiceGenerator(db)
	g.now = func() time.Time { return time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC) }
	require.Equal(t, 1, g.GenerateSubscriptionInvoices().InvoicesGenerated)

	var invoice models.Invoice
	require.NoError(t, db.First(&invoice, "subscription_id = ?", sub.ID).Error)
	require.Equal(t, "FACT-202502-0001", invoice.Number)
	require.NoError(t, db.Delete(&invoice).Error)

	// The freed number must not block a later run for another
	// subscription in the same month.
	other := models.Subscription{
		ClientID: client.ID, Name: "Second", Amount: 20,
		Frequency: models.FrequencyMonthly, Status: models.SubscriptionActive,
		StartDate: time.Date(2025, 1, 10, 0, 0, 0, 0, time.UTC),
	}
	require.NoError(t, db.Create(&other).Error)

	result := g.GenerateSubscriptionInvoices()
	assert.True(t, result.Success)
	assert.Empty(t, result.Errors)
	assert.Equal(t, 1, result.InvoicesGenerated)
}

func TestInvoiceNumbersStepPastDeletedGap(t *testing.T) {
	db := setupTestDB(t)
	client := seedClient(t, db, "acme")

	for _, name := range []string{"First", "Second"} {
		sub := models.Subscription{
			ClientID: client.ID, Name: name, Amount: 10,
			Frequency: models.FrequencyMonthly, Status: models.SubscriptionActive,
			StartDate: time.Date(2025, 1, 10, 0, 0, 0, 0, time.UTC),
		}
		require.NoError(t, db.Create(&sub).Error)
	}

	g := NewInvoiceGenerator(db)
	g.now = func() time.Time { return time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC) }
	require.Equal(t, 2, g.GenerateSubscriptionInvoices().InvoicesGenerated)

	// Deleting the first of two invoices must not make the sequence
	// reissue 0002, which is still taken.
	require.NoError(t, db.Where("number = ?", "FACT-202502-0001").Delete(&models.Invoice{}).Error)

	number, err := g.nextInvoiceNumber(g.now())
	require.NoError(t, err)
	assert.Equal(t, "FACT-202502-0003", number)
}
