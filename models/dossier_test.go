package models

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&Client{}, &AccountingDossier{}, &DetailedCharge{}))
	return db
}

func TestDetailedChargeVATComputedOnCreate(t *testing.T) {
	db := openTestDB(t)

	client := Client{Name: "acme"}
	require.NoError(t, db.Create(&client).Error)
	dossier := AccountingDossier{ClientID: client.ID, Month: 3, Year: 2025}
	require.NoError(t, db.Create(&dossier).Error)

	charge := DetailedCharge{
		DossierID:  dossier.ID,
		Date:       time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC),
		Supplier:   "Hosting SARL",
		AmountExcl: 1000,
		HasVAT:     true,
		VATRate:    18,
	}
	require.NoError(t, db.Create(&charge).Error)

	assert.InDelta(t, 180, charge.VATAmount, 0.001)
	assert.InDelta(t, 1180, charge.AmountIncl, 0.001)
}

func TestDetailedChargeWithoutVATZeroed(t *testing.T) {
	db := openTestDB(t)

	client := Client{Name: "acme"}
	require.NoError(t, db.Create(&client).Error)
	dossier := AccountingDossier{ClientID: client.ID, Month: 3, Year: 2025}
	require.NoError(t, db.Create(&dossier).Error)

	// Inconsistent input: rate and amount set despite HasVAT false.
	charge := DetailedCharge{
		DossierID:  dossier.ID,
		Date:       time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC),
		Supplier:   "Stamp office",
		AmountExcl: 500,
		HasVAT:     false,
		VATRate:    20,
		VATAmount:  77,
	}
	require.NoError(t, db.Create(&charge).Error)

	assert.Equal(t, 0.0, charge.VATRate)
	assert.Equal(t, 0.0, charge.VATAmount)
	assert.InDelta(t, 500, charge.AmountIncl, 0.001)
}

func TestDetailedChargeVATRecomputedOnUpdate(t *testing.T) {
	db := openTestDB(t)

	client := Client{Name: "acme"}
	require.NoError(t, db.Create(&client).Error)
	dossier := AccountingDossier{ClientID: client.ID, Month: 3, Year: 2025}
	require.NoError(t, db.Create(&dossier).Error)

	charge := DetailedCharge{
		DossierID:  dossier.ID,
		Date:       time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC),
		Supplier:   "Hosting SARL",
		AmountExcl: 1000,
		HasVAT:     true,
		VATRate:    20,
	}
	require.NoError(t, db.Create(&charge).Error)

	charge.AmountExcl = 2000
	require.NoError(t, db.Save(&charge).Error)

	var saved DetailedCharge
	require.NoError(t, db.First(&saved, "id = ?", charge.ID).Error)
	assert.InDelta(t, 400, saved.VATAmount, 0.001)
	assert.InDelta(t, 2400, saved.AmountIncl, 0.001)
}

func TestDossierUniquePerClientPeriod(t *testing.T) {
	db := openTestDB(t)

	client := Client{Name: "acme"}
	require.NoError(t, db.Create(&client).Error)

	first := AccountingDossier{ClientID: client.ID, Month: 3, Year: 2025}
	require.NoError(t, db.Create(&first).Error)

	duplicate := AccountingDossier{ClientID: client.ID, Month: 3, Year: 2025}
	assert.Error(t, db.Create(&duplicate).Error)

	// Another period is fine.
	other := AccountingDossier{ClientID: client.ID, Month: 4, Year: 2025}
	assert.NoError(t, db.Create(&other).Error)
}

func TestQuoteTransitions(t *testing.T) {
	assert.True(t, CanTransition(QuoteDraft, QuoteSent))
	assert.True(t, CanTransition(QuoteSent, QuoteAccepted))
	assert.True(t, CanTransition(QuoteSent, QuoteRefused))
	assert.True(t, CanTransition(QuoteAccepted, QuoteCancelled))

	assert.False(t, CanTransition(QuoteDraft, QuoteAccepted))
	assert.False(t, CanTransition(QuoteRefused, QuoteAccepted))
	assert.False(t, CanTransition(QuoteCancelled, QuoteDraft))
	assert.False(t, CanTransition(QuoteAccepted, QuoteSent))
}
