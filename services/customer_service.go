package services

import (
	"context"
	"strings"

	"github.com/kendall-kelly/pedidos-api/models"
	"github.com/kendall-kelly/pedidos-api/utils"
	"gorm.io/gorm"
)

// CustomerInput is the writable part of a customer. NationalID may be formatted.
type CustomerInput struct {
	Name       *string
	NationalID *string
}

// CustomerService manages customers
type CustomerService struct {
	db *gorm.DB
}

// NewCustomerService creates a customer service on db
func NewCustomerService(db *gorm.DB) *CustomerService {
	return &CustomerService{db: db}
}

func errCustomerNotFound() *Error {
	return NewNotFoundError("CUSTOMER_NOT_FOUND", "Customer not found")
}

func errNationalIDTaken() *Error {
	return NewConflictError("NATIONAL_ID_TAKEN", "A customer with this national id already exists")
}

// List returns all customers
func (s *CustomerService) List(ctx context.Context) ([]models.Customer, error) {
	var customers []models.Customer
	if err := s.db.WithContext(ctx).Order("id ASC").Find(&customers).Error; err != nil {
		return nil, NewInternalError("Failed to list customers", err)
	}
	return customers, nil
}

// Get returns one customer
func (s *CustomerService) Get(ctx context.Context, id uint) (*models.Customer, error) {
	var customer models.Customer
	if err := s.db.WithContext(ctx).First(&customer, id).Error; err != nil {
		return nil, translateDBError(err, errCustomerNotFound(), nil, nil, "load customer")
	}
	return &customer, nil
}

// Create registers a customer with a normalized, unique national id
func (s *CustomerService) Create(ctx context.Context, in CustomerInput) (*models.Customer, error) {
	if in.Name == nil || strings.TrimSpace(*in.Name) == "" {
		return nil, NewValidationError("NAME_REQUIRED", "Customer name is required")
	}
	if in.NationalID == nil || strings.TrimSpace(*in.NationalID) == "" {
		return nil, NewValidationError("NATIONAL_ID_REQUIRED", "National id is required")
	}

	nationalID, err := normalizeNationalID(*in.NationalID)
	if err != nil {
		return nil, err
	}

	db := s.db.WithContext(ctx)
	if err := s.ensureNationalIDFree(db, nationalID, 0); err != nil {
		return nil, err
	}

	customer := models.Customer{
		Name:       strings.TrimSpace(*in.Name),
		NationalID: nationalID,
	}
	if err := db.Create(&customer).Error; err != nil {
		return nil, translateDBError(err, nil, errNationalIDTaken(), nil, "create customer")
	}
	return &customer, nil
}

// Update changes the provided fields; a new national id is normalized and re-checked for uniqueness
func (s *CustomerService) Update(ctx context.Context, id uint, in CustomerInput) (*models.Customer, error) {
	db := s.db.WithContext(ctx)

	var customer models.Customer
	if err := db.First(&customer, id).Error; err != nil {
		return nil, translateDBError(err, errCustomerNotFound(), nil, nil, "load customer")
	}

	updates := map[string]interface{}{}
	if in.Name != nil {
		name := strings.TrimSpace(*in.Name)
		if name == "" {
			return nil, NewValidationError("NAME_REQUIRED", "Customer name cannot be blank")
		}
		updates["name"] = name
	}
	if in.NationalID != nil {
		nationalID, err := normalizeNationalID(*in.NationalID)
		if err != nil {
			return nil, err
		}
		if err := s.ensureNationalIDFree(db, nationalID, customer.ID); err != nil {
			return nil, err
		}
		updates["national_id"] = nationalID
	}

	if len(updates) > 0 {
		if err := db.Model(&customer).Updates(updates).Error; err != nil {
			return nil, translateDBError(err, nil, errNationalIDTaken(), nil, "update customer")
		}
	}
	return s.Get(ctx, id)
}

// Delete removes a customer no order references
func (s *CustomerService) Delete(ctx context.Context, id uint) error {
	return deleteRecord(s.db.WithContext(ctx), &models.Customer{}, id, errCustomerNotFound(),
		NewConflictError("CUSTOMER_IN_USE", "Customer is referenced by orders"), "delete customer")
}

func (s *CustomerService) ensureNationalIDFree(db *gorm.DB, nationalID string, exceptID uint) error {
	var count int64
	err := db.Model(&models.Customer{}).
		Where("national_id = ? AND id <> ?", nationalID, exceptID).
		Count(&count).Error
	if err != nil {
		return NewInternalError("Failed to check national id", err)
	}
	if count > 0 {
		return errNationalIDTaken()
	}
	return nil
}

func normalizeNationalID(raw string) (string, error) {
	nationalID := utils.NormalizeNationalID(raw)
	if !utils.IsValidNationalID(nationalID) {
		return "", NewValidationError("INVALID_NATIONAL_ID", "National id must have exactly 11 digits")
	}
	return nationalID, nil
}
