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

type ProductController struct {
	productService service.ProductService
	paginator      *Paginator
	presenter      *Presenter
}

func NewProductController(productService service.ProductService, paginator *Paginator, presenter *Presenter) *ProductController {
	return &ProductController{
		productService: productService,
		paginator:      paginator,
		presenter:      presenter,
	}
}

func (ctrl *ProductController) respondError(c *gin.Context, log *logger.Logger, err error, action string) {
	if respondValidation(c, log, err) {
		return
	}
	if errors.Is(err, service.ErrProductNotFound) {
		log.Warn("Product not found", map[string]interface{}{
			"product": c.Param("id"),
		})
		apperrors.NotFound(c, apperrors.ResourceNotFound, "")
		return
	}
	log.Error("Failed to "+action, err, map[string]interface{}{
		"product": c.Param("id"),
	})
	apperrors.InternalError(c, "")
}

// ListProducts returns a filtered, ordered page of products
// GET /api/v1/products/
func (ctrl *ProductController) ListProducts(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	filter, err := parseProductFilter(c)
	if err != nil {
		respondValidation(c, log, err)
		return
	}
	page, ok := ctrl.paginator.parse(c)
	if !ok {
		return
	}
	filter.ActiveOnly = !middleware.IsAdmin(c)
	filter.Page = page.slice()

	products, total, err := ctrl.productService.ListProducts(filter)
	if err != nil {
		ctrl.respondError(c, log, err, "list products")
		return
	}

	log.Info("Products fetched successfully", map[string]interface{}{
		"count": len(products),
		"total": total,
	})

	ctrl.paginator.respond(c, page, total, ctrl.presenter.ProductList(products, c.Request))
}

// GetProduct returns a product by id or slug
// GET /api/v1/products/:id/
func (ctrl *ProductController) GetProduct(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	product, err := ctrl.productService.GetProduct(c.Param("id"), middleware.IsAdmin(c))
	if err != nil {
		ctrl.respondError(c, log, err, "fetch product")
		return
	}

	c.JSON(http.StatusOK, ctrl.presenter.ProductDetail(product, c.Request))
}

// CreateProduct creates a new product (Admin only)
// POST /api/v1/products/
func (ctrl *ProductController) CreateProduct(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	var input service.ProductInput
	present, err := bindWrite(c, &input)
	if err != nil {
		respondBindError(c, log, err)
		return
	}
	input.Present = present

	product, err := ctrl.productService.CreateProduct(input)
	if err != nil {
		ctrl.respondError(c, log, err, "create product")
		return
	}

	log.Info("Product created successfully", map[string]interface{}{
		"product_id": product.ID,
		"name":       product.Name,
	})

	c.JSON(http.StatusCreated, ctrl.presenter.ProductDetail(product, c.Request))
}

// UpdateProduct replaces (PUT) or patches (PATCH) a product (Admin only)
// PUT/PATCH /api/v1/products/:id/
func (ctrl *ProductController) UpdateProduct(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	var input service.ProductInput
	present, err := bindWrite(c, &input)
	if err != nil {
		respondBindError(c, log, err)
		return
	}
	input.Present = present

	partial := c.Request.Method == http.MethodPatch
	product, err := ctrl.productService.UpdateProduct(c.Param("id"), input, partial)
	if err != nil {
		ctrl.respondError(c, log, err, "update product")
		return
	}

	log.Info("Product updated successfully", map[string]interface{}{
		"product_id": product.ID,
		"partial":    partial,
	})

	c.JSON(http.StatusOK, ctrl.presenter.ProductDetail(product, c.Request))
}

// DeleteProduct deactivates a product (Admin only)
// DELETE /api/v1/products/:id/
func (ctrl *ProductController) DeleteProduct(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	if err := ctrl.productService.DeleteProduct(c.Param("id")); err != nil {
		ctrl.respondError(c, log, err, "delete product")
		return
	}

	log.Info("Product deactivated", map[string]interface{}{
		"product": c.Param("id"),
	})

	c.Status(http.StatusNoContent)
}
