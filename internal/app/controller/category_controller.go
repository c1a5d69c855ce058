package controller

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/ikkim/catalog-backend/internal/app/repository"
	"github.com/ikkim/catalog-backend/internal/app/service"
	apperrors "github.com/ikkim/catalog-backend/internal/errors"
	"github.com/ikkim/catalog-backend/internal/middleware"
	"github.com/ikkim/catalog-backend/pkg/logger"
)

type CategoryController struct {
	categoryService service.CategoryService
	paginator       *Paginator
	presenter       *Presenter
}

func NewCategoryController(categoryService service.CategoryService, paginator *Paginator, presenter *Presenter) *CategoryController {
	return &CategoryController{
		categoryService: categoryService,
		paginator:       paginator,
		presenter:       presenter,
	}
}

func (ctrl *CategoryController) respondError(c *gin.Context, log *logger.Logger, err error, action string) {
	if respondValidation(c, log, err) {
		return
	}
	switch {
	case errors.Is(err, service.ErrCategoryNotFound):
		log.Warn("Category not found", map[string]interface{}{
			"category": c.Param("id"),
		})
		apperrors.NotFound(c, apperrors.ResourceNotFound, "")
	case errors.Is(err, service.ErrCategoryHasProducts):
		log.Warn("Category still has active products", map[string]interface{}{
			"category": c.Param("id"),
		})
		apperrors.Conflict(c, apperrors.ResourceConflict, "Cannot delete category with active products.")
	default:
		log.Error("Failed to "+action, err, map[string]interface{}{
			"category": c.Param("id"),
		})
		apperrors.InternalError(c, "")
	}
}

// ListCategories returns a page of categories ordered by name
// GET /api/v1/products/categories/
func (ctrl *CategoryController) ListCategories(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	page, ok := ctrl.paginator.parse(c)
	if !ok {
		return
	}

	categories, total, err := ctrl.categoryService.ListCategories(repository.CategoryFilter{
		ActiveOnly: !middleware.IsAdmin(c),
		Search:     c.Query("search"),
		Page:       page.slice(),
	})
	if err != nil {
		ctrl.respondError(c, log, err, "list categories")
		return
	}

	log.Info("Categories fetched successfully", map[string]interface{}{
		"count": len(categories),
		"total": total,
	})

	ctrl.paginator.respond(c, page, total, ctrl.presenter.CategoryList(categories))
}

// GetCategory returns a category by id or slug
// GET /api/v1/products/categories/:id/
func (ctrl *CategoryController) GetCategory(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	category, err := ctrl.categoryService.GetCategory(c.Param("id"), middleware.IsAdmin(c))
	if err != nil {
		ctrl.respondError(c, log, err, "fetch category")
		return
	}

	c.JSON(http.StatusOK, ctrl.presenter.CategoryDetail(category, c.Request))
}

// CreateCategory creates a category (Admin only)
// POST /api/v1/products/categories/
func (ctrl *CategoryController) CreateCategory(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	var input service.CategoryInput
	present, err := bindWrite(c, &input)
	if err != nil {
		respondBindError(c, log, err)
		return
	}
	input.Present = present

	category, err := ctrl.categoryService.CreateCategory(input)
	if err != nil {
		ctrl.respondError(c, log, err, "create category")
		return
	}

	log.Info("Category created successfully", map[string]interface{}{
		"category_id": category.ID,
		"slug":        category.Slug,
	})

	c.JSON(http.StatusCreated, ctrl.presenter.CategoryDetail(category, c.Request))
}

// UpdateCategory replaces (PUT) or patches (PATCH) a category (Admin only)
// PUT/PATCH /api/v1/products/categories/:id/
func (ctrl *CategoryController) UpdateCategory(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	var input service.CategoryInput
	present, err := bindWrite(c, &input)
	if err != nil {
		respondBindError(c, log, err)
		return
	}
	input.Present = present

	partial := c.Request.Method == http.MethodPatch
	category, err := ctrl.categoryService.UpdateCategory(c.Param("id"), input, partial)
	if err != nil {
		ctrl.respondError(c, log, err, "update category")
		return
	}

	log.Info("Category updated successfully", map[string]interface{}{
		"category_id": category.ID,
		"partial":     partial,
	})

	c.JSON(http.StatusOK, ctrl.presenter.CategoryDetail(category, c.Request))
}

// DeleteCategory deactivates a category with no active products (Admin only)
// DELETE /api/v1/products/categories/:id/
func (ctrl *CategoryController) DeleteCategory(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	if err := ctrl.categoryService.DeleteCategory(c.Param("id")); err != nil {
		ctrl.respondError(c, log, err, "delete category")
		return
	}

	log.Info("Category deactivated", map[string]interface{}{
		"category": c.Param("id"),
	})

	c.Status(http.StatusNoContent)
}
