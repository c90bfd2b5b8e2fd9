package controllers

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHealthCheck(t *testing.T) {
	router := newTestRouter()
	router.GET("/health", HealthCheck)

	w, response := performJSON(t, router, http.MethodGet, "/health", nil)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, response, 2, "Response should have exactly 2 fields")
	assert.Equal(t, true, response["success"])
	assert.Equal(t, "Pedidos API is running", response["message"])
}

func TestDatabaseStatus(t *testing.T) {
	setupTestDB(t)
	router := newTestRouter()
	router.GET("/database/status", DatabaseStatus)

	w, response := performJSON(t, router, http.MethodGet, "/database/status", nil)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Database connected", response["message"])
	assert.Contains(t, response["tables"], "orders")
	assert.Contains(t, response["tables"], "order_history")
}
