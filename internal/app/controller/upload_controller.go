package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"
	apperrors "github.com/ikkim/catalog-backend/internal/errors"
	"github.com/ikkim/catalog-backend/internal/middleware"
	"github.com/ikkim/catalog-backend/internal/storage"
)

type UploadController struct {
	storage storage.Presigner
}

func NewUploadController(presigner storage.Presigner) *UploadController {
	return &UploadController{
		storage: presigner,
	}
}

type GeneratePresignedURLRequest struct {
	Filename    string `json:"filename" binding:"required"`
	ContentType string `json:"content_type" binding:"required"`
	FileSize    int64  `json:"file_size" binding:"required"`
	// products (default) or categories
	Folder string `json:"folder"`
}

// GeneratePresignedURL issues an S3 upload URL for a catalog image (Admin only).
// The returned key is what product images and categories store.
// POST /api/v1/uploads/presigned-url
func (ctrl *UploadController) GeneratePresignedURL(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	var req GeneratePresignedURLRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Warn("Invalid presigned URL request", map[string]interface{}{
			"error": err.Error(),
		})
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "filename, content_type and file_size are required.")
		return
	}

	if err := storage.ValidateContentType(req.ContentType, storage.AllowedImageTypes); err != nil {
		log.Warn("Invalid content type", map[string]interface{}{
			"content_type": req.ContentType,
		})
		apperrors.BadRequest(c, apperrors.UploadInvalidFileType, "Only image files are allowed (JPEG, PNG, GIF, WEBP).")
		return
	}
	if err := storage.ValidateFileSize(req.FileSize, storage.MaxImageSize); err != nil {
		log.Warn("Invalid file size", map[string]interface{}{
			"file_size": req.FileSize,
		})
		apperrors.BadRequest(c, apperrors.UploadFileTooLarge, err.Error())
		return
	}

	folder := req.Folder
	switch folder {
	case "":
		folder = storage.FolderProducts
	case storage.FolderProducts, storage.FolderCategories:
	default:
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "folder must be products or categories.")
		return
	}

	response, err := ctrl.storage.GeneratePresignedURLWithFolder(c.Request.Context(), req.Filename, req.ContentType, folder)
	if err != nil {
		log.Error("Failed to generate presigned URL", err, map[string]interface{}{
			"filename":     req.Filename,
			"content_type": req.ContentType,
			"folder":       folder,
		})
		apperrors.RespondWithError(c, http.StatusBadGateway, apperrors.UploadFailed, "Failed to generate upload URL.")
		return
	}

	log.Info("Presigned URL generated successfully", map[string]interface{}{
		"folder": folder,
		"key":    response.Key,
	})

	c.JSON(http.StatusOK, response)
}
