package controllers

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func cronRouter() *gin.Engine {
	r := gin.New()
	cron := r.Group("/cron")
	cron.Use(CronAuthMiddleware())
	cron.GET("/generate-invoices", CronGenerateInvoices)
	return r
}

func TestCronRejectsMissingSecret(t *testing.T) {
	setupTestDB(t)
	t.Setenv("CRON_SECRET", "topsecret")
	t.Setenv("APP_ENV", "production")
	r := cronRouter()

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/cron/generate-invoices", nil))
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/cron/generate-invoices", nil)
	req.Header.Set("x-cron-secret", "wrong")
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestCronAcceptsSecretVariants(t *testing.T) {
	setupTestDB(t)
	t.Setenv("CRON_SECRET", "topsecret")
	t.Setenv("APP_ENV", "production")
	r := cronRouter()

	// Header form.
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/cron/generate-invoices", nil)
	req.Header.Set("x-cron-secret", "topsecret")
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	// Query form.
	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/cron/generate-invoices?secret=topsecret", nil))
	require.Equal(t, http.StatusOK, w.Code)

	// Bearer form.
	w = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodGet, "/cron/generate-invoices", nil)
	req.Header.Set("Authorization", "Bearer topsecret")
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)
}

func TestCronDevBypassWithoutSecret(t *testing.T) {
	setupTestDB(t)
	t.Setenv("CRON_SECRET", "")
	t.Setenv("APP_ENV", "development")
	r := cronRouter()

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/cron/generate-invoices", nil))
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestCronProductionRequiresConfiguredSecret(t *testing.T) {
	setupTestDB(t)
	t.Setenv("CRON_SECRET", "")
	t.Setenv("APP_ENV", "production")
	r := cronRouter()

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/cron/generate-invoices", nil))
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
