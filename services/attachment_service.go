package services

import (
	"context"
	"errors"
	"fmt"
	"mime/multipart"

	"github.com/kendall-kelly/pedidos-api/utils"
)

// AttachmentStorage is the backend that holds attachment bytes
type AttachmentStorage interface {
	// UploadFile stores the file under a key starting with prefix and returns the key
	UploadFile(ctx context.Context, prefix string, fileHeader *multipart.FileHeader) (string, error)

	// GetFileURL returns a URL the client can fetch the file from
	GetFileURL(ctx context.Context, key string) (string, error)

	// DeleteFile removes the file; unknown keys are not an error
	DeleteFile(ctx context.Context, key string) error
}

// AttachmentService validates attachments and delegates storage to an AttachmentStorage
type AttachmentService struct {
	storage AttachmentStorage
}

var attachmentServiceInstance *AttachmentService

// NewAttachmentService creates an attachment service on storage
func NewAttachmentService(storage AttachmentStorage) *AttachmentService {
	return &AttachmentService{storage: storage}
}

// InitAttachmentService initializes the shared attachment service
func InitAttachmentService(storage AttachmentStorage) *AttachmentService {
	attachmentServiceInstance = NewAttachmentService(storage)
	return attachmentServiceInstance
}

// GetAttachmentService returns the shared attachment service (nil when not initialized)
func GetAttachmentService() *AttachmentService {
	return attachmentServiceInstance
}

// SetAttachmentService sets the shared attachment service (primarily for testing)
func SetAttachmentService(service *AttachmentService) {
	attachmentServiceInstance = service
}

// Upload validates the file and stores it
func (s *AttachmentService) Upload(ctx context.Context, prefix string, fileHeader *multipart.FileHeader) (string, error) {
	if err := utils.ValidateAttachmentFile(fileHeader); err != nil {
		var fileErr *utils.FileUploadError
		if errors.As(err, &fileErr) {
			return "", NewValidationError(fileErr.Code, fileErr.Message)
		}
		return "", NewValidationError("INVALID_FILE", err.Error())
	}

	key, err := s.storage.UploadFile(ctx, prefix, fileHeader)
	if err != nil {
		return "", NewInternalError("Failed to upload attachment", err)
	}

	return key, nil
}

// URL resolves the client-facing URL of a stored attachment
func (s *AttachmentService) URL(ctx context.Context, key string) (string, error) {
	if key == "" {
		return "", nil
	}

	url, err := s.storage.GetFileURL(ctx, key)
	if err != nil {
		return "", fmt.Errorf("failed to generate attachment URL: %w", err)
	}

	return url, nil
}

// Delete removes a stored attachment
func (s *AttachmentService) Delete(ctx context.Context, key string) error {
	if key == "" {
		return nil
	}

	if err := s.storage.DeleteFile(ctx, key); err != nil {
		return fmt.Errorf("failed to delete attachment: %w", err)
	}

	return nil
}
