package main

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/kendall-kelly/pedidos-api/config"
	"github.com/kendall-kelly/pedidos-api/services"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	dir := t.TempDir()
	return &config.Config{
		DatabaseURL:        "file:" + filepath.Join(dir, "pedidos.db"),
		DBDriver:           config.DriverSQLite,
		Port:               "0",
		GoEnv:              "test",
		AllowedOrigins:     []string{"http://localhost:5173"},
		SessionSecret:      "main-test-secret",
		SessionTTL:         time.Hour,
		EscalationSchedule: config.EscalationDisabled,
		UploadDir:          filepath.Join(dir, "uploads"),
		LogLevel:           "error",
	}
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil))
}

// TestSetupServesHealth boots the application against a file-backed sqlite database
func TestSetupServesHealth(t *testing.T) {
	gin.SetMode(gin.TestMode)
	cfg := testConfig(t)

	router, job, err := setup(context.Background(), cfg, testLogger())
	require.NoError(t, err)
	assert.Nil(t, job, "escalation job should be disabled")
	t.Cleanup(func() {
		if sqlDB, err := config.GetDB().DB(); err == nil {
			_ = sqlDB.Close()
		}
	})

	server := httptest.NewServer(router)
	defer server.Close()

	resp, err := http.Get(server.URL + "/health")
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	var response struct {
		Success bool   `json:"success"`
		Message string `json:"message"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&response))
	assert.True(t, response.Success)
	assert.Equal(t, "Pedidos API is running", response.Message)

	assert.NotNil(t, services.GetSessionService())
	assert.NotNil(t, services.GetAttachmentService())
}

func TestSetupStartsEscalationJob(t *testing.T) {
	gin.SetMode(gin.TestMode)
	cfg := testConfig(t)
	cfg.EscalationSchedule = "@every 1h"

	_, job, err := setup(context.Background(), cfg, testLogger())
	require.NoError(t, err)
	require.NotNil(t, job)
	job.Stop()
}

func TestSetupRejectsInvalidSchedule(t *testing.T) {
	cfg := testConfig(t)
	cfg.EscalationSchedule = "every tuesday"

	_, _, err := setup(context.Background(), cfg, testLogger())
	assert.Error(t, err)
}

func TestNewAttachmentStorageUsesLocalDisk(t *testing.T) {
	cfg := testConfig(t)

	storage, err := newAttachmentStorage(context.Background(), cfg)
	require.NoError(t, err)

	local, ok := storage.(*services.LocalStorage)
	require.True(t, ok, "expected local storage without a bucket")
	assert.Equal(t, cfg.UploadDir, local.Dir())
	assert.DirExists(t, cfg.UploadDir)
}
