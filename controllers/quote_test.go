package controllers

import (
	"encoding/json"
	"net/http"
	"testing"

	"gestpro-backend/models"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func quoteRouter() *gin.Engine {
	r := gin.New()
	r.POST("/devis", CreateQuote)
	r.PATCH("/devis/:id/status", UpdateQuoteStatus)
	r.DELETE("/devis/:id", DeleteQuote)
	return r
}

func TestCreateQuoteStartsDraft(t *testing.T) {
	db := setupTestDB(t)
	client := seedClient(t, db, "acme")
	r := quoteRouter()

	w := performJSON(t, r, http.MethodPost, "/devis", gin.H{
		"clientId": client.ID,
		"amount":   2500,
	})
	require.Equal(t, http.StatusCreated, w.Code)

	var quote models.Quote
	require.NoError(t, json.Unmarshal(decodeEnvelope(t, w).Data, &quote))
	assert.Equal(t, models.QuoteDraft, quote.Status)
	assert.Regexp(t, `^DEV-\d{6}-\d{4}$`, quote.Number)
}

func TestQuoteNumberingSurvivesDelete(t *testing.T) {
	db := setupTestDB(t)
	client := seedClient(t, db, "acme")
	r := quoteRouter()

	createQuote := func() models.Quote {
		w := performJSON(t, r, http.MethodPost, "/devis", gin.H{
			"clientId": client.ID,
			"amount":   500,
		})
		require.Equal(t, http.StatusCreated, w.Code)
		var quote models.Quote
		require.NoError(t, json.Unmarshal(decodeEnvelope(t, w).Data, &quote))
		return quote
	}

	first := createQuote()
	second := createQuote()
	require.NotEqual(t, first.Number, second.Number)

	w := performJSON(t, r, http.MethodDelete, "/devis/"+first.ID.String(), nil)
	require.Equal(t, http.StatusOK, w.Code)

	// The delete frees the first number from the unique index, and
	// the sequence steps past the surviving second one.
	third := createQuote()
	assert.NotEqual(t, second.Number, third.Number)
	assert.Greater(t, third.Number, second.Number)

	var count int64
	require.NoError(t, db.Model(&models.Quote{}).Count(&count).Error)
	assert.Equal(t, int64(2), count)
}

func TestQuoteStatusTransitionStampsDates(t *testing.T) {
	db := setupTestDB(t)
	client := seedClient(t, db, "acme")
	r := quoteRouter()

	quote := models.Quote{ClientID: client.ID, Number: "DEV-202503-0001", Amount: 1000, Status: models.QuoteDraft}
	require.NoError(t, db.Create(&quote).Error)

	w := performJSON(t, r, http.MethodPatch, "/devis/"+quote.ID.String()+"/status", gin.H{"status": "SENT"})
	require.Equal(t, http.StatusOK, w.Code)

	var sent models.Quote
	require.NoError(t, db.First(&sent, "id = ?", quote.ID).Error)
	assert.Equal(t, models.QuoteSent, sent.Status)
	assert.NotNil(t, sent.SentAt)

	w = performJSON(t, r, http.MethodPatch, "/devis/"+quote.ID.String()+"/status", gin.H{"status": "ACCEPTED"})
	require.Equal(t, http.StatusOK, w.Code)

	var accepted models.Quote
	require.NoError(t, db.First(&accepted, "id = ?", quote.ID).Error)
	assert.Equal(t, models.QuoteAccepted, accepted.Status)
	assert.NotNil(t, accepted.AcceptedAt)
}

func TestQuoteIllegalTransitionLeavesRecordUnchanged(t *testing.T) {
	db := setupTestDB(t)
	client := seedClient(t, db, "acme")
	r := quoteRouter()

	quote := models.Quote{ClientID: client.ID, Number: "DEV-202503-0002", Amount: 1000, Status: models.QuoteRefused}
	require.NoError(t, db.Create(&quote).Error)

	w := performJSON(t, r, http.MethodPatch, "/devis/"+quote.ID.String()+"/status", gin.H{"status": "ACCEPTED"})
	require.Equal(t, http.StatusBadRequest, w.Code)

	env := decodeEnvelope(t, w)
	assert.False(t, env.Success)
	assert.Contains(t, env.Error, "Cannot transition from REFUSED to ACCEPTED")

	var saved models.Quote
	require.NoError(t, db.First(&saved, "id = ?", quote.ID).Error)
	assert.Equal(t, models.QuoteRefused, saved.Status)
	assert.Nil(t, saved.AcceptedAt)
}

func TestQuoteSentAtStampedOnce(t *testing.T) {
	db := setupTestDB(t)
	client := seedClient(t, db, "acme")
	r := quoteRouter()

	quote := models.Quote{ClientID: client.ID, Number: "DEV-202503-0003", Amount: 1000, Status: models.QuoteDraft}
	require.NoError(t, db.Create(&quote).Error)

	require.Equal(t, http.StatusOK,
		performJSON(t, r, http.MethodPatch, "/devis/"+quote.ID.String()+"/status", gin.H{"status": "SENT"}).Code)

	var afterFirst models.Quote
	require.NoError(t, db.First(&afterFirst, "id = ?", quote.ID).Error)
	require.NotNil(t, afterFirst.SentAt)
	stamp := *afterFirst.SentAt

	// SENT -> CANCELLED is legal but must not touch SentAt.
	require.Equal(t, http.StatusOK,
		performJSON(t, r, http.MethodPatch, "/devis/"+quote.ID.String()+"/status", gin.H{"status": "CANCELLED"}).Code)

	var afterSecond models.Quote
	require.NoError(t, db.First(&afterSecond, "id = ?", quote.ID).Error)
	require.NotNil(t, afterSecond.SentAt)
	assert.True(t, stamp.Equal(*afterSecond.SentAt))
}
