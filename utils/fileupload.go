package utils

import (
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"
	"time"
)

const (
	// MaxFileSize is 10MB in bytes
	MaxFileSize = 10 * 1024 * 1024
)

// AllowedAttachmentFormats lists the accepted attachment extensions and their content types
var AllowedAttachmentFormats = map[string]string{
	".png":  "image/png",
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".pdf":  "application/pdf",
}

// FileUploadError represents a file upload validation error
type FileUploadError struct {
	Code    string
	Message string
}

func (e *FileUploadError) Error() string {
	return e.Message
}

// ValidateAttachmentFile validates the uploaded file format and size
func ValidateAttachmentFile(fileHeader *multipart.FileHeader) error {
	if fileHeader == nil {
		return &FileUploadError{
			Code:    "FILE_REQUIRED",
			Message: "A file is required",
		}
	}

	// Check file size
	if fileHeader.Size > MaxFileSize {
		return &FileUploadError{
			Code:    "FILE_TOO_LARGE",
			Message: fmt.Sprintf("File size exceeds maximum allowed size of %d MB", MaxFileSize/(1024*1024)),
		}
	}

	// Check file extension
	if _, ok := AllowedAttachmentFormats[strings.ToLower(filepath.Ext(fileHeader.Filename))]; !ok {
		return &FileUploadError{
			Code:    "INVALID_FILE_FORMAT",
			Message: "Only .png, .jpg, .jpeg and .pdf files are allowed",
		}
	}

	return nil
}

// ContentTypeFor returns the content type for an attachment name, or application/octet-stream
func ContentTypeFor(filename string) string {
	if contentType, ok := AllowedAttachmentFormats[strings.ToLower(filepath.Ext(filename))]; ok {
		return contentType
	}
	return "application/octet-stream"
}

// IsSafeFilename rejects names that could escape the upload directory
func IsSafeFilename(filename string) bool {
	if filename == "" || filename == "." {
		return false
	}
	return !strings.Contains(filename, "..") && !strings.ContainsAny(filename, `/\`)
}

// StorageFilename builds a collision-resistant name: {prefix}_{unixnano}_{base}.
// The base is cleaned so the result always passes IsSafeFilename.
func StorageFilename(prefix, original string) string {
	base := strings.NewReplacer(" ", "_", `\`, "_").Replace(filepath.Base(original))
	for strings.Contains(base, "..") {
		base = strings.ReplaceAll(base, "..", ".")
	}
	if prefix == "" {
		return fmt.Sprintf("%d_%s", time.Now().UnixNano(), base)
	}
	return fmt.Sprintf("%s_%d_%s", prefix, time.Now().UnixNano(), base)
}

// SaveUploadedFile saves the uploaded file to the local filesystem
// Returns the file name relative to uploadDir
func SaveUploadedFile(fileHeader *multipart.FileHeader, uploadDir, prefix string) (filename string, err error) {
	// Create uploads directory if it doesn't exist
	if err := os.MkdirAll(uploadDir, 0755); err != nil {
		return "", fmt.Errorf("failed to create upload directory: %w", err)
	}

	filename = StorageFilename(prefix, fileHeader.Filename)
	fullPath := filepath.Join(uploadDir, filename)

	src, err := fileHeader.Open()
	if err != nil {
		return "", fmt.Errorf("failed to open uploaded file: %w", err)
	}
	defer src.Close()

	dst, err := os.Create(fullPath)
	if err != nil {
		return "", fmt.Errorf("failed to create destination file: %w", err)
	}
	defer func() {
		if closeErr := dst.Close(); closeErr != nil && err == nil {
			err = fmt.Errorf("failed to close destination file: %w", closeErr)
		}
	}()

	if _, err := io.Copy(dst, src); err != nil {
		return "", fmt.Errorf("failed to save file: %w", err)
	}

	return filename, nil
}

// LocalFileURL returns the URL path the API serves a locally stored attachment from
func LocalFileURL(filename string) string {
	if filename == "" {
		return ""
	}
	return fmt.Sprintf("/uploads/%s", filename)
}
