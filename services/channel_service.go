package services

import (
	"context"
	"strings"

	"github.com/kendall-kelly/pedidos-api/models"
	"gorm.io/gorm"
)

// ChannelInput is the writable part of a channel
type ChannelInput struct {
	Name        *string
	Description *string
}

// ChannelService manages sales channels
type ChannelService struct {
	db *gorm.DB
}

// NewChannelService creates a channel service on db
func NewChannelService(db *gorm.DB) *ChannelService {
	return &ChannelService{db: db}
}

func errChannelNotFound() *Error {
	return NewNotFoundError("CHANNEL_NOT_FOUND", "Channel not found")
}

// List returns all channels with their stores
func (s *ChannelService) List(ctx context.Context) ([]models.Channel, error) {
	var channels []models.Channel
	if err := s.db.WithContext(ctx).Preload("Stores").Order("id ASC").Find(&channels).Error; err != nil {
		return nil, NewInternalError("Failed to list channels", err)
	}
	return channels, nil
}

// Get returns one channel with its stores
func (s *ChannelService) Get(ctx context.Context, id uint) (*models.Channel, error) {
	var channel models.Channel
	if err := s.db.WithContext(ctx).Preload("Stores").First(&channel, id).Error; err != nil {
		return nil, translateDBError(err, errChannelNotFound(), nil, nil, "load channel")
	}
	return &channel, nil
}

// Create adds a channel; the name is required
func (s *ChannelService) Create(ctx context.Context, in ChannelInput) (*models.Channel, error) {
	if in.Name == nil || strings.TrimSpace(*in.Name) == "" {
		return nil, NewValidationError("NAME_REQUIRED", "Channel name is required")
	}

	channel := models.Channel{
		Name:        strings.TrimSpace(*in.Name),
		Description: in.Description,
	}
	if err := s.db.WithContext(ctx).Create(&channel).Error; err != nil {
		return nil, translateDBError(err, nil, nil, nil, "create channel")
	}
	return s.Get(ctx, channel.ID)
}

// Update changes the provided fields of a channel
func (s *ChannelService) Update(ctx context.Context, id uint, in ChannelInput) (*models.Channel, error) {
	db := s.db.WithContext(ctx)

	var channel models.Channel
	if err := db.First(&channel, id).Error; err != nil {
		return nil, translateDBError(err, errChannelNotFound(), nil, nil, "load channel")
	}

	updates := map[string]interface{}{}
	if in.Name != nil {
		name := strings.TrimSpace(*in.Name)
		if name == "" {
			return nil, NewValidationError("NAME_REQUIRED", "Channel name cannot be blank")
		}
		updates["name"] = name
	}
	if in.Description != nil {
		updates["description"] = *in.Description
	}

	if len(updates) > 0 {
		if err := db.Model(&channel).Updates(updates).Error; err != nil {
			return nil, translateDBError(err, nil, nil, nil, "update channel")
		}
	}
	return s.Get(ctx, id)
}

// Delete removes a channel that no store references
func (s *ChannelService) Delete(ctx context.Context, id uint) error {
	return deleteRecord(s.db.WithContext(ctx), &models.Channel{}, id, errChannelNotFound(),
		NewConflictError("CHANNEL_IN_USE", "Channel still has stores"), "delete channel")
}

// deleteRecord deletes by primary key, mapping a missing row and FK violations onto service errors
func deleteRecord(db *gorm.DB, model interface{}, id uint, notFound, inUse *Error, action string) error {
	result := db.Delete(model, id)
	if result.Error != nil {
		return translateDBError(result.Error, notFound, nil, inUse, action)
	}
	if result.RowsAffected == 0 {
		return notFound
	}
	return nil
}
