package middleware

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	jwtmiddleware "github.com/auth0/go-jwt-middleware/v2"
	"github.com/auth0/go-jwt-middleware/v2/validator"
	"github.com/gin-gonic/gin"
	"github.com/kendall-kelly/pedidos-api/services"
)

// SessionCookieName is the HTTP-only cookie carrying the session token
const SessionCookieName = "pedidos_session"

type userIDKey struct{}

// WithUserID returns a copy of ctx carrying the authenticated user id
func WithUserID(ctx context.Context, userID uint) context.Context {
	return context.WithValue(ctx, userIDKey{}, userID)
}

// UserIDFromContext returns the authenticated user id stored by RequireSession
func UserIDFromContext(ctx context.Context) (uint, bool) {
	userID, ok := ctx.Value(userIDKey{}).(uint)
	return userID, ok && userID != 0
}

// sessionTokenExtractor reads the session cookie first and falls back to a bearer header
func sessionTokenExtractor(r *http.Request) (string, error) {
	if cookie, err := r.Cookie(SessionCookieName); err == nil && cookie.Value != "" {
		return cookie.Value, nil
	}
	return jwtmiddleware.AuthHeaderTokenExtractor(r)
}

// RequireSession rejects requests without a valid session and puts the user id on the request context
func RequireSession(sessions *services.SessionService) gin.HandlerFunc {
	errorHandler := func(w http.ResponseWriter, r *http.Request, err error) {
		code, message := "INVALID_SESSION", "Session is invalid or expired"
		if errors.Is(err, jwtmiddleware.ErrJWTMissing) {
			code, message = "SESSION_REQUIRED", "Authentication is required"
		}
		slog.Default().Debug("session rejected", "path", r.URL.Path, "error", err)
		writeUnauthorized(w, code, message)
	}

	middleware := jwtmiddleware.New(
		sessions.ValidateToken,
		jwtmiddleware.WithErrorHandler(errorHandler),
		jwtmiddleware.WithTokenExtractor(sessionTokenExtractor),
	)

	return func(c *gin.Context) {
		authenticated := false

		var handler http.HandlerFunc = func(w http.ResponseWriter, r *http.Request) {
			claims, ok := r.Context().Value(jwtmiddleware.ContextKey{}).(*validator.ValidatedClaims)
			if !ok {
				writeUnauthorized(w, "INVALID_SESSION", "Session is invalid or expired")
				return
			}

			userID, err := services.ParseSubject(claims.RegisteredClaims.Subject)
			if err != nil {
				writeUnauthorized(w, "INVALID_SESSION", "Session is invalid or expired")
				return
			}

			authenticated = true
			c.Request = r.WithContext(WithUserID(r.Context(), userID))
			c.Next()
		}

		middleware.CheckJWT(handler).ServeHTTP(c.Writer, c.Request)

		if !authenticated {
			c.Abort()
		}
	}
}

// GetUserID extracts the authenticated user id from the request
func GetUserID(c *gin.Context) (uint, error) {
	userID, ok := UserIDFromContext(c.Request.Context())
	if !ok {
		return 0, &AuthError{Code: "MISSING_USER_ID", Message: "User ID not found in context"}
	}
	return userID, nil
}

func writeUnauthorized(w http.ResponseWriter, code, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	body := `{"success":false,"error":{"code":"` + code + `","message":"` + message + `"}}`
	if _, err := w.Write([]byte(body)); err != nil {
		slog.Default().Warn("failed to write error response", "error", err)
	}
}

// AuthError represents an authentication error
type AuthError struct {
	Code    string
	Message string
}

func (e *AuthError) Error() string {
	return e.Message
}
