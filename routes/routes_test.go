package routes

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/kendall-kelly/pedidos-api/config"
	"github.com/kendall-kelly/pedidos-api/services"
	"github.com/kendall-kelly/pedidos-api/tests/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupRouter(t *testing.T, origins ...string) (*gin.Engine, *services.SessionService) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	config.SetDB(testutil.NewTestDB(t))
	sessions := testutil.NewTestSessionService(t)
	services.SetSessionService(sessions)

	if len(origins) == 0 {
		origins = []string{"http://localhost:5173"}
	}
	cfg := &config.Config{GoEnv: "test", AllowedOrigins: origins, SessionTTL: time.Hour}

	logger := slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil))
	router, err := SetupRouter(cfg, logger, sessions)
	require.NoError(t, err)
	return router, sessions
}

func TestProtectedRoutesRequireSession(t *testing.T) {
	router, _ := setupRouter(t)

	protected := []struct{ method, path string }{
		{http.MethodGet, "/pedidos"},
		{http.MethodGet, "/pedidos/summary"},
		{http.MethodPost, "/pedidos/register"},
		{http.MethodPost, "/pedidos/1/finalizar"},
		{http.MethodGet, "/clientes"},
		{http.MethodGet, "/lojas"},
		{http.MethodGet, "/canais"},
		{http.MethodGet, "/usuarios"},
		{http.MethodGet, "/usuarios/me"},
		{http.MethodGet, "/uploads/a.png"},
	}

	for _, route := range protected {
		t.Run(route.method+" "+route.path, func(t *testing.T) {
			w := httptest.NewRecorder()
			router.ServeHTTP(w, httptest.NewRequest(route.method, route.path, nil))

			assert.Equal(t, http.StatusUnauthorized, w.Code)
			var response map[string]interface{}
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
			assert.Equal(t, false, response["success"])
		})
	}
}

func TestPublicRoutes(t *testing.T) {
	router, _ := setupRouter(t)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))

	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/usuarios/logout", nil))
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestSessionCookieGrantsAccess(t *testing.T) {
	router, sessions := setupRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/pedidos", nil)
	testutil.AuthorizeRequest(t, req, sessions, 1)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestCORSPreflight(t *testing.T) {
	router, _ := setupRouter(t, "http://localhost:5173")

	req := httptest.NewRequest(http.MethodOptions, "/pedidos", nil)
	req.Header.Set("Origin", "http://localhost:5173")
	req.Header.Set("Access-Control-Request-Method", "POST")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "http://localhost:5173", w.Header().Get("Access-Control-Allow-Origin"))
	assert.Equal(t, "true", w.Header().Get("Access-Control-Allow-Credentials"))

	req = httptest.NewRequest(http.MethodOptions, "/pedidos", nil)
	req.Header.Set("Origin", "http://evil.example")
	req.Header.Set("Access-Control-Request-Method", "POST")
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Empty(t, w.Header().Get("Access-Control-Allow-Origin"))
}

func TestCORSWildcardReflectsOrigin(t *testing.T) {
	router, _ := setupRouter(t, "*")

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set("Origin", "http://anything.example")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, "http://anything.example", w.Header().Get("Access-Control-Allow-Origin"))
}
