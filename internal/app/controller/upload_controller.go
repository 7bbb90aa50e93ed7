package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"
	apperrors "github.com/yoonsu/baedalgo-backend/internal/errors"
	"github.com/yoonsu/baedalgo-backend/internal/middleware"
	"github.com/yoonsu/baedalgo-backend/internal/storage"
)

type UploadController struct {
	storage *storage.S3Storage
}

func NewUploadController(storage *storage.S3Storage) *UploadController {
	return &UploadController{
		storage: storage,
	}
}

type GeneratePresignedURLRequest struct {
	Filename    string `json:"filename" binding:"required"`
	ContentType string `json:"content_type" binding:"required"`
	Folder      string `json:"folder"` // documents, restaurants, profiles
}

var allowedContentTypes = map[string][]string{
	storage.FolderDocuments: {
		"application/pdf",
		"image/jpeg",
		"image/png",
	},
	storage.FolderRestaurantImages: {
		"image/jpeg",
		"image/png",
		"image/webp",
	},
	storage.FolderProfileImages: {
		"image/jpeg",
		"image/png",
		"image/webp",
	},
}

// GeneratePresignedURL creates a pre-signed S3 PUT URL for a direct upload
// POST /api/v1/uploads/presigned-url
func (ctrl *UploadController) GeneratePresignedURL(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	var req GeneratePresignedURLRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Filename and content type are required")
		return
	}

	folder := req.Folder
	if folder == "" {
		folder = storage.FolderDocuments
	}

	allowed, ok := allowedContentTypes[folder]
	if !ok {
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Unknown upload folder")
		return
	}

	if err := ctrl.storage.ValidateContentType(req.ContentType, allowed); err != nil {
		log.Warn("Disallowed upload content type", map[string]interface{}{
			"content_type": req.ContentType,
			"folder":       folder,
		})
		apperrors.BadRequest(c, apperrors.UploadInvalidFileType, "File type is not allowed for this upload")
		return
	}

	response, err := ctrl.storage.GeneratePresignedURL(req.Filename, req.ContentType, folder)
	if err != nil {
		log.Error("Failed to generate presigned URL", err, map[string]interface{}{
			"filename": req.Filename,
			"folder":   folder,
		})
		apperrors.RespondWithError(c, http.StatusInternalServerError, apperrors.UploadFailed, "Failed to prepare the upload")
		return
	}

	log.Info("Presigned URL generated", map[string]interface{}{
		"folder": folder,
		"key":    response.Key,
	})

	c.JSON(http.StatusOK, gin.H{
		"upload_url": response.UploadURL,
		"file_url":   response.FileURL,
		"key":        response.Key,
	})
}
