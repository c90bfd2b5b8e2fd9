package services

import (
	"context"
	"strings"

	"github.com/kendall-kelly/pedidos-api/models"
	"gorm.io/gorm"
)

// StoreInput is the writable part of a store
type StoreInput struct {
	Name      *string
	ChannelID *uint
}

// StoreService manages stores
type StoreService struct {
	db *gorm.DB
}

// NewStoreService creates a store service on db
func NewStoreService(db *gorm.DB) *StoreService {
	return &StoreService{db: db}
}

func errStoreNotFound() *Error {
	return NewNotFoundError("STORE_NOT_FOUND", "Store not found")
}

func errInvalidChannel() *Error {
	return NewValidationError("INVALID_CHANNEL", "Channel does not exist")
}

// List returns all stores with their channel
func (s *StoreService) List(ctx context.Context) ([]models.Store, error) {
	var stores []models.Store
	if err := s.db.WithContext(ctx).Preload("Channel").Order("id ASC").Find(&stores).Error; err != nil {
		return nil, NewInternalError("Failed to list stores", err)
	}
	return stores, nil
}

// Get returns one store with its channel
func (s *StoreService) Get(ctx context.Context, id uint) (*models.Store, error) {
	var store models.Store
	if err := s.db.WithContext(ctx).Preload("Channel").First(&store, id).Error; err != nil {
		return nil, translateDBError(err, errStoreNotFound(), nil, nil, "load store")
	}
	return &store, nil
}

// Create adds a store to an existing channel
func (s *StoreService) Create(ctx context.Context, in StoreInput) (*models.Store, error) {
	if in.Name == nil || strings.TrimSpace(*in.Name) == "" {
		return nil, NewValidationError("NAME_REQUIRED", "Store name is required")
	}
	if in.ChannelID == nil || *in.ChannelID == 0 {
		return nil, NewValidationError("CHANNEL_REQUIRED", "Channel is required")
	}

	db := s.db.WithContext(ctx)
	if err := requireChannel(db, *in.ChannelID); err != nil {
		return nil, err
	}

	store := models.Store{
		Name:      strings.TrimSpace(*in.Name),
		ChannelID: *in.ChannelID,
	}
	if err := db.Omit("Channel").Create(&store).Error; err != nil {
		return nil, translateDBError(err, nil, nil, errInvalidChannel(), "create store")
	}
	return s.Get(ctx, store.ID)
}

// Update changes the provided fields of a store
func (s *StoreService) Update(ctx context.Context, id uint, in StoreInput) (*models.Store, error) {
	db := s.db.WithContext(ctx)

	var store models.Store
	if err := db.First(&store, id).Error; err != nil {
		return nil, translateDBError(err, errStoreNotFound(), nil, nil, "load store")
	}

	updates := map[string]interface{}{}
	if in.Name != nil {
		name := strings.TrimSpace(*in.Name)
		if name == "" {
			return nil, NewValidationError("NAME_REQUIRED", "Store name cannot be blank")
		}
		updates["name"] = name
	}
	if in.ChannelID != nil {
		if err := requireChannel(db, *in.ChannelID); err != nil {
			return nil, err
		}
		updates["channel_id"] = *in.ChannelID
	}

	if len(updates) > 0 {
		if err := db.Model(&store).Updates(updates).Error; err != nil {
			return nil, translateDBError(err, nil, nil, errInvalidChannel(), "update store")
		}
	}
	return s.Get(ctx, id)
}

// Delete removes a store no order references
func (s *StoreService) Delete(ctx context.Context, id uint) error {
	return deleteRecord(s.db.WithContext(ctx), &models.Store{}, id, errStoreNotFound(),
		NewConflictError("STORE_IN_USE", "Store is referenced by orders"), "delete store")
}

func requireChannel(db *gorm.DB, id uint) error {
	exists, err := recordExists(db, &models.Channel{}, id)
	if err != nil {
		return err
	}
	if !exists {
		return errInvalidChannel()
	}
	return nil
}
