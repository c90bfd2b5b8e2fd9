package services

import (
	"context"
	"errors"
	"fmt"
	"mime/multipart"
	"os"
	"path/filepath"

	"github.com/kendall-kelly/pedidos-api/utils"
)

// LocalStorage keeps attachments on disk; they are served by GET /uploads/:filename
type LocalStorage struct {
	dir string
}

// NewLocalStorage stores files under dir
func NewLocalStorage(dir string) *LocalStorage {
	return &LocalStorage{dir: dir}
}

// Dir returns the directory files are written to
func (s *LocalStorage) Dir() string {
	return s.dir
}

// UploadFile writes the file into the upload directory; the key is the file name
func (s *LocalStorage) UploadFile(_ context.Context, prefix string, fileHeader *multipart.FileHeader) (string, error) {
	return utils.SaveUploadedFile(fileHeader, s.dir, prefix)
}

// GetFileURL returns the API path serving the file
func (s *LocalStorage) GetFileURL(_ context.Context, key string) (string, error) {
	if !utils.IsSafeFilename(key) {
		return "", fmt.Errorf("invalid attachment key %q", key)
	}
	return utils.LocalFileURL(key), nil
}

// DeleteFile removes the file from disk
func (s *LocalStorage) DeleteFile(_ context.Context, key string) error {
	if !utils.IsSafeFilename(key) {
		return fmt.Errorf("invalid attachment key %q", key)
	}
	err := os.Remove(filepath.Join(s.dir, key))
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to delete file: %w", err)
	}
	return nil
}
