package services

import (
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"path/filepath"
	"sync"
)

// MockStorage is an in-memory AttachmentStorage for testing
type MockStorage struct {
	files map[string][]byte
	mu    sync.RWMutex
}

// NewMockStorage creates an empty mock storage
func NewMockStorage() *MockStorage {
	return &MockStorage{
		files: make(map[string][]byte),
	}
}

// UploadFile keeps the file content in memory under mock/{prefix}_{name}
func (m *MockStorage) UploadFile(_ context.Context, prefix string, fileHeader *multipart.FileHeader) (string, error) {
	file, err := fileHeader.Open()
	if err != nil {
		return "", fmt.Errorf("failed to open file: %w", err)
	}
	defer file.Close()

	content, err := io.ReadAll(file)
	if err != nil {
		return "", fmt.Errorf("failed to read file: %w", err)
	}

	key := fmt.Sprintf("mock/%s_%s", prefix, filepath.Base(fileHeader.Filename))

	m.mu.Lock()
	m.files[key] = content
	m.mu.Unlock()

	return key, nil
}

// GetFileURL returns a fake bucket URL for stored keys
func (m *MockStorage) GetFileURL(_ context.Context, key string) (string, error) {
	if key == "" {
		return "", nil
	}

	if !m.FileExists(key) {
		return "", fmt.Errorf("file not found in mock storage: %s", key)
	}

	return fmt.Sprintf("https://test-bucket.s3.us-east-1.amazonaws.com/%s?mock=true", key), nil
}

// DeleteFile forgets a stored key
func (m *MockStorage) DeleteFile(_ context.Context, key string) error {
	m.mu.Lock()
	delete(m.files, key)
	m.mu.Unlock()
	return nil
}

// Files returns a copy of the stored files (for assertions)
func (m *MockStorage) Files() map[string][]byte {
	m.mu.RLock()
	defer m.mu.RUnlock()

	files := make(map[string][]byte, len(m.files))
	for k, v := range m.files {
		files[k] = v
	}
	return files
}

// FileExists reports whether key is stored
func (m *MockStorage) FileExists(key string) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	_, exists := m.files[key]
	return exists
}
