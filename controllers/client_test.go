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

func clientRouter() *gin.Engine {
	r := gin.New()
	r.POST("/clients", CreateClient)
	r.PUT("/clients/:id", UpdateClient)
	return r
}

func TestCreateClientRejectsBadPhone(t *testing.T) {
	setupTestDB(t)
	r := clientRouter()

	w := performJSON(t, r, http.MethodPost, "/clients", gin.H{
		"name":  "Acme",
		"phone": "not-a-number",
	})
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, decodeEnvelope(t, w).Error, "phone")
}

func TestCreateClientAcceptsInternationalPhone(t *testing.T) {
	setupTestDB(t)
	r := clientRouter()

	w := performJSON(t, r, http.MethodPost, "/clients", gin.H{
		"name":  "Acme",
		"phone": "+33 6 12 34 56 78",
	})
	require.Equal(t, http.StatusCreated, w.Code)

	var client models.Client
	require.NoError(t, json.Unmarshal(decodeEnvelope(t, w).Data, &client))
	assert.Equal(t, "+33 6 12 34 56 78", client.Phone)
}

func TestUpdateClientRejectsBadPhone(t *testing.T) {
	db := setupTestDB(t)
	client := seedClient(t, db, "acme")
	r := clientRouter()

	w := performJSON(t, r, http.MethodPut, "/clients/"+client.ID.String(), gin.H{
		"phone": "12ab",
	})
	require.Equal(t, http.StatusBadRequest, w.Code)

	var saved models.Client
	require.NoError(t, db.First(&saved, "id = ?", client.ID).Error)
	assert.Empty(t, saved.Phone)
}
