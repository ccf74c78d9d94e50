package storage

import (
	"context"
	"errors"
	"fmt"
	"mime"
	"strings"

	"github.com/google/uuid"
)

var (
	ErrUploadFailed          = errors.New("image upload failed")
	ErrDeleteFailed          = errors.New("image delete failed")
	ErrContentTypeNotAllowed = errors.New("content type not allowed")
	ErrFileTooLarge          = errors.New("file too large")
	ErrPresignUnsupported    = errors.New("presigned uploads are not supported by this storage")
)

// ImageStore is the image upload gateway. Implementations return a URL or
// path that can later be handed back to DeleteByURL. filename is only
// recorded in logs.
type ImageStore interface {
	Store(ctx context.Context, data []byte, contentType, filename string) (string, error)
	DeleteByURL(ctx context.Context, url string) error
	// Owns reports whether url was produced by this store.
	Owns(url string) bool
}

// Presigner is implemented by stores that let clients upload directly.
type Presigner interface {
	GeneratePresignedURL(ctx context.Context, filename, contentType string) (*PresignedURLResponse, error)
}

type PresignedURLResponse struct {
	UploadURL string `json:"upload_url"`
	FileURL   string `json:"file_url"`
	Key       string `json:"key"`
}

// StrictImageTypes is the allow-list used unless any image type is permitted.
var StrictImageTypes = []string{
	"image/jpeg",
	"image/png",
	"image/webp",
}

// UploadPolicy validates incoming image uploads.
type UploadPolicy struct {
	AllowAnyImage bool
	MaxSize       int64
}

// ValidateContentType validates the content type
func (p UploadPolicy) ValidateContentType(contentType string) error {
	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return fmt.Errorf("%w: %q", ErrContentTypeNotAllowed, contentType)
	}
	if p.AllowAnyImage {
		// svg is markup and may carry script
		if strings.HasPrefix(mediaType, "image/") && mediaType != "image/svg+xml" {
			return nil
		}
		return fmt.Errorf("%w: %s", ErrContentTypeNotAllowed, mediaType)
	}
	for _, allowed := range StrictImageTypes {
		if mediaType == allowed {
			return nil
		}
	}
	return fmt.Errorf("%w: %s", ErrContentTypeNotAllowed, mediaType)
}

// ValidateFileSize validates the file size
func (p UploadPolicy) ValidateFileSize(size int64) error {
	if p.MaxSize > 0 && size > p.MaxSize {
		return fmt.Errorf("%w: exceeds maximum allowed size of %d bytes", ErrFileTooLarge, p.MaxSize)
	}
	return nil
}

var extensionsByType = map[string]string{
	"image/jpeg": "jpg",
	"image/png":  "png",
	"image/webp": "webp",
	"image/gif":  "gif",
	"image/heic": "heic",
	"image/avif": "avif",
}

// objectName builds a random name whose extension follows the validated
// content type, falling back to png. Client filenames never choose the
// extension, since it decides how the stored file is served.
func objectName(contentType string) string {
	mediaType, _, _ := mime.ParseMediaType(contentType)
	ext := extensionsByType[mediaType]
	if ext == "" {
		ext = "png"
	}
	return fmt.Sprintf("%s.%s", strings.ReplaceAll(uuid.New().String(), "-", ""), ext)
}
