package services

import (
	"context"
	"strings"

	"github.com/kendall-kelly/pedidos-api/models"
	"gorm.io/gorm"
)

// AuthService registers users and exchanges credentials for session tokens
type AuthService struct {
	users    *UserService
	sessions *SessionService
}

// NewAuthService creates an auth service on db using sessions for token issuance
func NewAuthService(db *gorm.DB, sessions *SessionService) *AuthService {
	return &AuthService{users: NewUserService(db), sessions: sessions}
}

// Register creates a user account
func (s *AuthService) Register(ctx context.Context, name, email, password string) (*models.User, error) {
	return s.users.Create(ctx, UserInput{Name: &name, Email: &email, Password: &password})
}

// Login verifies credentials and returns the user with a fresh session token
func (s *AuthService) Login(ctx context.Context, email, password string) (*models.User, string, error) {
	if strings.TrimSpace(email) == "" || password == "" {
		return nil, "", NewValidationError("CREDENTIALS_REQUIRED", "Email and password are required")
	}

	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		return nil, "", err
	}

	if !CheckPassword(user.PasswordHash, password) {
		return nil, "", NewAuthError("INVALID_CREDENTIALS", "Invalid password")
	}

	token, err := s.sessions.Issue(user.ID)
	if err != nil {
		return nil, "", err
	}
	return user, token, nil
}
