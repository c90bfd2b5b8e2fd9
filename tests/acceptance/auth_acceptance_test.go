package acceptance

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"
)

type AuthAcceptanceTestSuite struct {
	appSuite
}

// TestHealthEndpoint verifies the public health check
func (s *AuthAcceptanceTestSuite) TestHealthEndpoint() {
	resp, data := s.do(http.MethodGet, "/health", nil)

	assert.Equal(s.T(), http.StatusOK, resp.StatusCode)
	assert.Equal(s.T(), true, data["success"])
	assert.NotEmpty(s.T(), resp.Header.Get("X-Request-ID"))
	assert.Equal(s.T(), "application/json; charset=utf-8", resp.Header.Get("Content-Type"))
}

// TestSessionWorkflow walks register, login, me and logout with the cookie jar
func (s *AuthAcceptanceTestSuite) TestSessionWorkflow() {
	resp, data := s.do(http.MethodGet, "/usuarios/me", nil)
	assert.Equal(s.T(), http.StatusUnauthorized, resp.StatusCode)
	assert.Equal(s.T(), "SESSION_REQUIRED", data["error"].(map[string]interface{})["code"])

	userID := s.login()

	resp, data = s.do(http.MethodGet, "/usuarios/me", nil)
	s.Require().Equal(http.StatusOK, resp.StatusCode)
	me := data["data"].(map[string]interface{})
	assert.Equal(s.T(), float64(userID), me["id"])
	assert.Equal(s.T(), "operator@pedidos.test", me["email"])
	assert.NotContains(s.T(), me, "password_hash")

	resp, _ = s.do(http.MethodPost, "/usuarios/logout", nil)
	assert.Equal(s.T(), http.StatusOK, resp.StatusCode)

	resp, _ = s.do(http.MethodGet, "/usuarios/me", nil)
	assert.Equal(s.T(), http.StatusUnauthorized, resp.StatusCode)
}

// TestLoginFailures checks wrong password, unknown email and duplicate registration
func (s *AuthAcceptanceTestSuite) TestLoginFailures() {
	s.login()
	s.do(http.MethodPost, "/usuarios/logout", nil)

	resp, data := s.do(http.MethodPost, "/usuarios/login", map[string]interface{}{
		"email":    "operator@pedidos.test",
		"password": "wrong",
	})
	assert.Equal(s.T(), http.StatusUnauthorized, resp.StatusCode)
	assert.Equal(s.T(), "INVALID_CREDENTIALS", data["error"].(map[string]interface{})["code"])

	resp, _ = s.do(http.MethodPost, "/usuarios/login", map[string]interface{}{
		"email":    "nobody@pedidos.test",
		"password": "whatever",
	})
	assert.Equal(s.T(), http.StatusNotFound, resp.StatusCode)

	resp, data = s.do(http.MethodPost, "/usuarios/register", map[string]interface{}{
		"name":     "Other",
		"email":    "operator@pedidos.test",
		"password": "another-pass",
	})
	assert.Equal(s.T(), http.StatusConflict, resp.StatusCode)
	assert.Equal(s.T(), "EMAIL_TAKEN", data["error"].(map[string]interface{})["code"])
}

// TestBearerTokenIsRejectedWhenInvalid verifies the Authorization header fallback
func (s *AuthAcceptanceTestSuite) TestBearerTokenIsRejectedWhenInvalid() {
	req, err := http.NewRequest(http.MethodGet, s.server.URL+"/pedidos", nil)
	s.Require().NoError(err)
	req.Header.Set("Authorization", "Bearer not-a-token")

	resp, data := s.send(req)
	assert.Equal(s.T(), http.StatusUnauthorized, resp.StatusCode)
	assert.Equal(s.T(), "INVALID_SESSION", data["error"].(map[string]interface{})["code"])
}

func TestAuthAcceptanceTestSuite(t *testing.T) {
	suite.Run(t, new(AuthAcceptanceTestSuite))
}
