package services

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/auth0/go-jwt-middleware/v2/validator"
	"gopkg.in/go-jose/go-jose.v2"
	"gopkg.in/go-jose/go-jose.v2/jwt"
)

// SessionIssuer is used as both issuer and audience of session tokens
const SessionIssuer = "pedidos-api"

// SessionService issues and validates the signed session token bound to a user id
type SessionService struct {
	secret    []byte
	ttl       time.Duration
	now       func() time.Time
	validator *validator.Validator
}

var sessionServiceInstance *SessionService

// NewSessionService creates a session service signing HS256 tokens with secret
func NewSessionService(secret string, ttl time.Duration) (*SessionService, error) {
	if secret == "" {
		return nil, errors.New("session secret is required")
	}
	if ttl <= 0 {
		return nil, errors.New("session ttl must be positive")
	}

	s := &SessionService{
		secret: []byte(secret),
		ttl:    ttl,
		now:    time.Now,
	}

	keyFunc := func(context.Context) (interface{}, error) {
		return s.secret, nil
	}
	v, err := validator.New(keyFunc, validator.HS256, SessionIssuer, []string{SessionIssuer})
	if err != nil {
		return nil, fmt.Errorf("failed to set up the session validator: %w", err)
	}
	s.validator = v

	return s, nil
}

// InitSessionService initializes the shared session service
func InitSessionService(secret string, ttl time.Duration) (*SessionService, error) {
	s, err := NewSessionService(secret, ttl)
	if err != nil {
		return nil, err
	}
	sessionServiceInstance = s
	return s, nil
}

// GetSessionService returns the shared session service
func GetSessionService() *SessionService {
	return sessionServiceInstance
}

// SetSessionService sets the shared session service (primarily for testing)
func SetSessionService(s *SessionService) {
	sessionServiceInstance = s
}

// WithClock replaces the time source used when issuing tokens (tests)
func (s *SessionService) WithClock(now func() time.Time) *SessionService {
	s.now = now
	return s
}

// TTL returns the lifetime of issued tokens
func (s *SessionService) TTL() time.Duration {
	return s.ttl
}

// Issue returns a signed token for userID expiring after the session TTL
func (s *SessionService) Issue(userID uint) (string, error) {
	signer, err := jose.NewSigner(jose.SigningKey{Algorithm: jose.HS256, Key: s.secret},
		(&jose.SignerOptions{}).WithType("JWT"))
	if err != nil {
		return "", NewInternalError("Failed to create session signer", err)
	}

	now := s.now()
	claims := jwt.Claims{
		Subject:  strconv.FormatUint(uint64(userID), 10),
		Issuer:   SessionIssuer,
		Audience: jwt.Audience{SessionIssuer},
		IssuedAt: jwt.NewNumericDate(now),
		Expiry:   jwt.NewNumericDate(now.Add(s.ttl)),
	}

	token, err := jwt.Signed(signer).Claims(claims).CompactSerialize()
	if err != nil {
		return "", NewInternalError("Failed to sign session token", err)
	}
	return token, nil
}

// ValidateToken checks signature, issuer, audience and expiry; it matches jwtmiddleware.ValidateToken
func (s *SessionService) ValidateToken(ctx context.Context, token string) (interface{}, error) {
	return s.validator.ValidateToken(ctx, token)
}

// UserID validates token and returns the user id it is bound to
func (s *SessionService) UserID(ctx context.Context, token string) (uint, error) {
	claims, err := s.ValidateToken(ctx, token)
	if err != nil {
		return 0, NewAuthError("INVALID_SESSION", "Session is invalid or expired")
	}
	validated, ok := claims.(*validator.ValidatedClaims)
	if !ok {
		return 0, NewAuthError("INVALID_SESSION", "Session is invalid or expired")
	}
	return ParseSubject(validated.RegisteredClaims.Subject)
}

// ParseSubject converts a token subject into a user id
func ParseSubject(subject string) (uint, error) {
	id, err := strconv.ParseUint(subject, 10, 64)
	if err != nil || id == 0 {
		return 0, NewAuthError("INVALID_SESSION", "Session subject is not a user id")
	}
	return uint(id), nil
}
