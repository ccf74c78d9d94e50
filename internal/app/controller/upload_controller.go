package controller

import (
	"errors"
	"io"
	"mime"
	"net/http"

	apperrors "github.com/closetly/wardrobe-backend/internal/errors"
	"github.com/closetly/wardrobe-backend/internal/middleware"
	"github.com/closetly/wardrobe-backend/internal/storage"
	"github.com/gabriel-vasile/mimetype"
	"github.com/gin-gonic/gin"
)

// multipartOverhead is the room left for boundaries and part headers on top
// of the maximum file size.
const multipartOverhead = 1 << 20

type UploadController struct {
	images storage.ImageStore
	policy storage.UploadPolicy
}

func NewUploadController(images storage.ImageStore, policy storage.UploadPolicy) *UploadController {
	return &UploadController{
		images: images,
		policy: policy,
	}
}

type GeneratePresignedURLRequest struct {
	Filename    string `json:"filename" binding:"required"`
	ContentType string `json:"content_type" binding:"required"`
}

// UploadImage stores the "file" part of a multipart form
// POST /upload
func (ctrl *UploadController) UploadImage(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	if ctrl.policy.MaxSize > 0 {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, ctrl.policy.MaxSize+multipartOverhead)
	}

	file, header, err := c.Request.FormFile("file")
	if err != nil {
		var maxErr *http.MaxBytesError
		switch {
		case errors.As(err, &maxErr):
			apperrors.PayloadTooLarge(c, "")
		case errors.Is(err, http.ErrMissingFile):
			apperrors.UnprocessableEntity(c, apperrors.UploadFileRequired, "file is required")
		default:
			log.Warn("Invalid upload form", map[string]interface{}{
				"error": err.Error(),
			})
			apperrors.BadRequest(c, apperrors.ValidationInvalidFormat, "invalid multipart form")
		}
		return
	}
	defer file.Close()

	if err := ctrl.policy.ValidateFileSize(header.Size); err != nil {
		apperrors.PayloadTooLarge(c, err.Error())
		return
	}

	data, err := io.ReadAll(file)
	if err != nil {
		log.Error("Failed to read uploaded file", err)
		apperrors.BadRequest(c, apperrors.ValidationInvalidFormat, "failed to read uploaded file")
		return
	}

	// the bytes decide the stored type; a declared type must agree with the policy too
	declared := header.Header.Get("Content-Type")
	detected := mimetype.Detect(data)
	contentType := detected.String()
	if mediaType, _, err := mime.ParseMediaType(contentType); err == nil {
		contentType = mediaType
	}

	if err := ctrl.validateContentType(declared, contentType); err != nil {
		log.Warn("Rejected upload content type", map[string]interface{}{
			"declared_type": declared,
			"detected_type": contentType,
			"filename":      header.Filename,
		})
		apperrors.BadRequest(c, apperrors.UploadInvalidFileType, "only image files are allowed")
		return
	}

	url, err := ctrl.images.Store(c.Request.Context(), data, contentType, header.Filename)
	if err != nil {
		log.Error("Failed to store image", err, map[string]interface{}{
			"filename":     header.Filename,
			"content_type": contentType,
			"size":         len(data),
		})
		apperrors.RespondWithError(c, http.StatusInternalServerError, apperrors.UploadFailed, "failed to upload image")
		return
	}

	log.Info("Image uploaded", map[string]interface{}{
		"path":         url,
		"content_type": contentType,
		"size":         len(data),
	})

	c.JSON(http.StatusOK, gin.H{
		"path":       url,
		"image_path": url,
	})
}

func (ctrl *UploadController) validateContentType(declared, detected string) error {
	if declared != "" && declared != "application/octet-stream" {
		if err := ctrl.policy.ValidateContentType(declared); err != nil {
			return err
		}
	}
	return ctrl.policy.ValidateContentType(detected)
}

// GeneratePresignedURL issues a direct upload URL when the store supports it
// POST /upload/presigned-url
func (ctrl *UploadController) GeneratePresignedURL(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	presigner, ok := ctrl.images.(storage.Presigner)
	if !ok {
		apperrors.NotImplemented(c, apperrors.UploadPresignNotSupported, storage.ErrPresignUnsupported.Error())
		return
	}

	var req GeneratePresignedURLRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.RespondWithValidationError(c, map[string]string{
			"body": err.Error(),
		})
		return
	}

	if err := ctrl.policy.ValidateContentType(req.ContentType); err != nil {
		apperrors.BadRequest(c, apperrors.UploadInvalidFileType, "only image files are allowed")
		return
	}

	response, err := presigner.GeneratePresignedURL(c.Request.Context(), req.Filename, req.ContentType)
	if err != nil {
		log.Error("Failed to generate presigned URL", err, map[string]interface{}{
			"filename":     req.Filename,
			"content_type": req.ContentType,
		})
		apperrors.RespondWithError(c, http.StatusInternalServerError, apperrors.UploadFailed, "failed to generate presigned URL")
		return
	}

	log.Info("Presigned URL generated", map[string]interface{}{
		"key": response.Key,
	})

	c.JSON(http.StatusOK, response)
}
