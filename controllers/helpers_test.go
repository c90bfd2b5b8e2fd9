package controllers

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http/httptest"
	"strconv"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/kendall-kelly/pedidos-api/config"
	"github.com/kendall-kelly/pedidos-api/middleware"
	"github.com/kendall-kelly/pedidos-api/services"
	"github.com/kendall-kelly/pedidos-api/tests/testutil"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

func init() {
	services.PasswordHashCost = bcrypt.MinCost
}

// setupTestDB installs a fresh sqlite database as the shared DB
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db := testutil.NewTestDB(t)
	config.SetDB(db)
	return db
}

// mockAuthMiddleware simulates RequireSession for the given user
func mockAuthMiddleware(userID uint) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Request = c.Request.WithContext(middleware.WithUserID(c.Request.Context(), userID))
		c.Next()
	}
}

func newTestRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	return gin.New()
}

// performJSON sends body (nil for none) as JSON and decodes the envelope
func performJSON(t *testing.T, router *gin.Engine, method, path string, body interface{}) (*httptest.ResponseRecorder, map[string]interface{}) {
	t.Helper()

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(payload)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	var response map[string]interface{}
	if w.Body.Len() > 0 && w.Header().Get("Content-Type") == "application/json; charset=utf-8" {
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response), "Response should be valid JSON")
	}
	return w, response
}

func errorCode(response map[string]interface{}) string {
	errorData, ok := response["error"].(map[string]interface{})
	if !ok {
		return ""
	}
	code, _ := errorData["code"].(string)
	return code
}

func dataMap(t *testing.T, response map[string]interface{}) map[string]interface{} {
	t.Helper()
	data, ok := response["data"].(map[string]interface{})
	require.True(t, ok, "data should be an object: %v", response)
	return data
}

func uintToString(id uint) string {
	return strconv.FormatUint(uint64(id), 10)
}
