package controller

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/ikkim/catalog-backend/internal/app/service"
	apperrors "github.com/ikkim/catalog-backend/internal/errors"
	"github.com/ikkim/catalog-backend/internal/middleware"
	"github.com/ikkim/catalog-backend/pkg/logger"
)

type ProductImageController struct {
	imageService service.ProductImageService
	presenter    *Presenter
}

func NewProductImageController(imageService service.ProductImageService, presenter *Presenter) *ProductImageController {
	return &ProductImageController{
		imageService: imageService,
		presenter:    presenter,
	}
}

func (ctrl *ProductImageController) respondError(c *gin.Context, log *logger.Logger, err error, action string) {
	if respondValidation(c, log, err) {
		return
	}
	fields := map[string]interface{}{
		"product":  c.Param("id"),
		"image_id": c.Param("image_id"),
	}
	if errors.Is(err, service.ErrProductNotFound) || errors.Is(err, service.ErrImageNotFound) {
		log.Warn("Product image target not found", fields)
		apperrors.NotFound(c, apperrors.ResourceNotFound, "")
		return
	}
	log.Error("Failed to "+action, err, fields)
	apperrors.InternalError(c, "")
}

// AddImage attaches an image to a product (Admin only)
// POST /api/v1/products/:id/images/
func (ctrl *ProductImageController) AddImage(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	var input service.ImageInput
	present, err := bindWrite(c, &input)
	if err != nil {
		respondBindError(c, log, err)
		return
	}
	input.Present = present

	image, err := ctrl.imageService.AddImage(c.Param("id"), input)
	if err != nil {
		ctrl.respondError(c, log, err, "add product image")
		return
	}

	log.Info("Product image added", map[string]interface{}{
		"product_id": image.ProductID,
		"image_id":   image.ID,
		"is_primary": image.IsPrimary,
	})

	c.JSON(http.StatusCreated, ctrl.presenter.Image(image, c.Request))
}

// UpdateImage changes alt text, order or the primary flag (Admin only)
// PATCH /api/v1/products/:id/images/:image_id/
func (ctrl *ProductImageController) UpdateImage(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	var input service.ImageInput
	present, err := bindWrite(c, &input)
	if err != nil {
		respondBindError(c, log, err)
		return
	}
	input.Present = present

	image, err := ctrl.imageService.UpdateImage(c.Param("id"), c.Param("image_id"), input)
	if err != nil {
		ctrl.respondError(c, log, err, "update product image")
		return
	}

	c.JSON(http.StatusOK, ctrl.presenter.Image(image, c.Request))
}

// DeleteImage removes an image from a product (Admin only)
// DELETE /api/v1/products/:id/images/:image_id/
func (ctrl *ProductImageController) DeleteImage(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	if err := ctrl.imageService.DeleteImage(c.Param("id"), c.Param("image_id")); err != nil {
		ctrl.respondError(c, log, err, "delete product image")
		return
	}

	c.Status(http.StatusNoContent)
}
