package services

import (
	"context"
	"net/mail"
	"strings"

	"github.com/kendall-kelly/pedidos-api/models"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// PasswordHashCost is the bcrypt cost used for new hashes (lowered in tests)
var PasswordHashCost = bcrypt.DefaultCost

// maxPasswordBytes is bcrypt's input limit
const maxPasswordBytes = 72

// UserInput is the writable part of a user; Password is plain text
type UserInput struct {
	Name     *string
	Email    *string
	Password *string
}

// UserService manages operator accounts
type UserService struct {
	db *gorm.DB
}

// NewUserService creates a user service on db
func NewUserService(db *gorm.DB) *UserService {
	return &UserService{db: db}
}

func errUserNotFound() *Error {
	return NewNotFoundError("USER_NOT_FOUND", "User not found")
}

func errEmailTaken() *Error {
	return NewConflictError("EMAIL_TAKEN", "A user with this email already exists")
}

// List returns all users
func (s *UserService) List(ctx context.Context) ([]models.User, error) {
	var users []models.User
	if err := s.db.WithContext(ctx).Order("id ASC").Find(&users).Error; err != nil {
		return nil, NewInternalError("Failed to list users", err)
	}
	return users, nil
}

// Get returns one user
func (s *UserService) Get(ctx context.Context, id uint) (*models.User, error) {
	var user models.User
	if err := s.db.WithContext(ctx).First(&user, id).Error; err != nil {
		return nil, translateDBError(err, errUserNotFound(), nil, nil, "load user")
	}
	return &user, nil
}

// GetByEmail looks a user up by (normalized) email
func (s *UserService) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	err := s.db.WithContext(ctx).Where("email = ?", normalizeEmail(email)).First(&user).Error
	if err != nil {
		return nil, translateDBError(err, errUserNotFound(), nil, nil, "load user")
	}
	return &user, nil
}

// Create stores a new user with a bcrypt password hash
func (s *UserService) Create(ctx context.Context, in UserInput) (*models.User, error) {
	if in.Name == nil || strings.TrimSpace(*in.Name) == "" {
		return nil, NewValidationError("NAME_REQUIRED", "Name is required")
	}
	if in.Email == nil || strings.TrimSpace(*in.Email) == "" {
		return nil, NewValidationError("EMAIL_REQUIRED", "Email is required")
	}
	if in.Password == nil || *in.Password == "" {
		return nil, NewValidationError("PASSWORD_REQUIRED", "Password is required")
	}

	email, err := validateEmail(*in.Email)
	if err != nil {
		return nil, err
	}

	db := s.db.WithContext(ctx)
	if err := s.ensureEmailFree(db, email, 0); err != nil {
		return nil, err
	}

	hash, err := HashPassword(*in.Password)
	if err != nil {
		return nil, err
	}

	user := models.User{
		Name:         strings.TrimSpace(*in.Name),
		Email:        email,
		PasswordHash: hash,
	}
	if err := db.Create(&user).Error; err != nil {
		return nil, translateDBError(err, nil, errEmailTaken(), nil, "create user")
	}
	return &user, nil
}

// Update changes the provided fields; a new password is re-hashed
func (s *UserService) Update(ctx context.Context, id uint, in UserInput) (*models.User, error) {
	db := s.db.WithContext(ctx)

	var user models.User
	if err := db.First(&user, id).Error; err != nil {
		return nil, translateDBError(err, errUserNotFound(), nil, nil, "load user")
	}

	updates := map[string]interface{}{}
	if in.Name != nil {
		name := strings.TrimSpace(*in.Name)
		if name == "" {
			return nil, NewValidationError("NAME_REQUIRED", "Name cannot be blank")
		}
		updates["name"] = name
	}
	if in.Email != nil {
		email, err := validateEmail(*in.Email)
		if err != nil {
			return nil, err
		}
		if err := s.ensureEmailFree(db, email, user.ID); err != nil {
			return nil, err
		}
		updates["email"] = email
	}
	if in.Password != nil {
		if *in.Password == "" {
			return nil, NewValidationError("PASSWORD_REQUIRED", "Password cannot be blank")
		}
		hash, err := HashPassword(*in.Password)
		if err != nil {
			return nil, err
		}
		updates["password_hash"] = hash
	}

	if len(updates) > 0 {
		if err := db.Model(&user).Updates(updates).Error; err != nil {
			return nil, translateDBError(err, nil, errEmailTaken(), nil, "update user")
		}
	}
	return s.Get(ctx, id)
}

// Delete removes a user; orders they created keep existing without a creator
func (s *UserService) Delete(ctx context.Context, id uint) error {
	return deleteRecord(s.db.WithContext(ctx), &models.User{}, id, errUserNotFound(),
		NewConflictError("USER_IN_USE", "User is still referenced"), "delete user")
}

func (s *UserService) ensureEmailFree(db *gorm.DB, email string, exceptID uint) error {
	var count int64
	if err := db.Model(&models.User{}).Where("email = ? AND id <> ?", email, exceptID).Count(&count).Error; err != nil {
		return NewInternalError("Failed to check email", err)
	}
	if count > 0 {
		return errEmailTaken()
	}
	return nil
}

// HashPassword hashes a plain password with bcrypt
func HashPassword(password string) (string, error) {
	if len(password) > maxPasswordBytes {
		return "", NewValidationError("PASSWORD_TOO_LONG", "Password must be at most 72 bytes")
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), PasswordHashCost)
	if err != nil {
		return "", NewInternalError("Failed to hash password", err)
	}
	return string(hash), nil
}

// CheckPassword reports whether password matches hash
func CheckPassword(hash, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func validateEmail(raw string) (string, error) {
	email := normalizeEmail(raw)
	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email {
		return "", NewValidationError("INVALID_EMAIL", "Email is not valid")
	}
	return email, nil
}
