package testutil

import (
	"net/http"
	"testing"
	"time"

	"github.com/kendall-kelly/pedidos-api/middleware"
	"github.com/kendall-kelly/pedidos-api/services"
	"github.com/stretchr/testify/require"
)

// TestSessionSecret signs every token created through this package
const TestSessionSecret = "test-session-secret"

// NewTestSessionService returns a session service with a fixed secret and a 1h TTL
func NewTestSessionService(t *testing.T) *services.SessionService {
	t.Helper()

	sessions, err := services.NewSessionService(TestSessionSecret, time.Hour)
	require.NoError(t, err)
	return sessions
}

// SessionCookie issues a valid session cookie for userID
func SessionCookie(t *testing.T, sessions *services.SessionService, userID uint) *http.Cookie {
	t.Helper()

	token, err := sessions.Issue(userID)
	require.NoError(t, err)

	return &http.Cookie{
		Name:  middleware.SessionCookieName,
		Value: token,
	}
}

// AuthorizeRequest attaches a session for userID to req
func AuthorizeRequest(t *testing.T, req *http.Request, sessions *services.SessionService, userID uint) {
	t.Helper()
	req.AddCookie(SessionCookie(t, sessions, userID))
}
