package service

import (
	"errors"

	"github.com/google/uuid"
	"github.com/ikkim/catalog-backend/internal/app/model"
	"github.com/ikkim/catalog-backend/internal/app/repository"
	apperrors "github.com/ikkim/catalog-backend/internal/errors"
	"github.com/ikkim/catalog-backend/pkg/logger"
	"gorm.io/gorm"
)

var (
	ErrCategoryNotFound    = errors.New("category not found")
	ErrCategoryHasProducts = errors.New("category has active products")
)

const categorySlugMaxLen = 100

// CategoryInput is a decoded category write. Present lists the keys the body carried.
type CategoryInput struct {
	Name        *string  `json:"name" validate:"required,notblank,min=2,max=100"`
	Slug        *string  `json:"slug" validate:"omitempty,max=100,slug,notuuid"`
	Description *string  `json:"description" validate:"omitempty,max=500"`
	Image       *string  `json:"image" validate:"omitempty,max=255"`
	IsActive    *bool    `json:"is_active"`
	Present     Presence `json:"-"`
}

var categoryMessages = map[string]string{
	"name.required":   "Category name is required.",
	"name.notblank":   "Category name is required.",
	"name.min":        "Category name must be at least 2 characters long.",
	"name.max":        "Category name cannot exceed 100 characters.",
	"slug.max":        "Slug cannot exceed 100 characters.",
	"slug.slug":       slugMessage,
	"slug.notuuid":    slugUUIDMessage,
	"description.max": "Description cannot exceed 500 characters.",
	"image.max":       "Image reference cannot exceed 255 characters.",
}

type CategoryService interface {
	ListCategories(filter repository.CategoryFilter) ([]model.Category, int64, error)
	GetCategory(token string, admin bool) (*model.Category, error)
	CreateCategory(input CategoryInput) (*model.Category, error)
	UpdateCategory(token string, input CategoryInput, partial bool) (*model.Category, error)
	DeleteCategory(token string) error
}

type categoryService struct {
	categoryRepo repository.CategoryRepository
}

func NewCategoryService(categoryRepo repository.CategoryRepository) CategoryService {
	return &categoryService{categoryRepo: categoryRepo}
}

func (s *categoryService) ListCategories(filter repository.CategoryFilter) ([]model.Category, int64, error) {
	categories, total, err := s.categoryRepo.List(filter)
	if err != nil {
		logger.Error("Failed to list categories", err, nil)
		return nil, 0, err
	}
	return categories, total, nil
}

func (s *categoryService) GetCategory(token string, admin bool) (*model.Category, error) {
	category, err := s.categoryRepo.FindByLookup(repository.ParseLookup(token), !admin)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			logger.Warn("Category not found", map[string]interface{}{
				"token": token,
				"admin": admin,
			})
			return nil, ErrCategoryNotFound
		}
		logger.Error("Failed to fetch category", err, map[string]interface{}{
			"token": token,
		})
		return nil, err
	}
	return category, nil
}

func (s *categoryService) normalize(input *CategoryInput) {
	input.Name = trimPtr(input.Name)
	input.Slug = trimPtr(input.Slug)
	input.Description = trimPtr(input.Description)
	input.Image = trimPtr(input.Image)
}

// validate runs field rules then the storage backed checks. excludeID is the
// record being updated, if any.
func (s *categoryService) validate(input *CategoryInput, partial bool, excludeID *uuid.UUID) error {
	verr := &ValidationError{}
	checkStruct(input, categoryMessages, partial, input.Present, verr)

	if input.Name != nil && !verr.Has("name") {
		exists, err := s.categoryRepo.NameExists(*input.Name, excludeID)
		if err != nil {
			return err
		}
		if exists {
			verr.Add("name", "A category with this name already exists.")
		}
	}

	if input.Slug != nil && *input.Slug != "" && !verr.Has("slug") {
		exists, err := s.categoryRepo.SlugExists(*input.Slug, excludeID)
		if err != nil {
			return err
		}
		if exists {
			verr.Add("slug", "A category with this slug already exists.")
		}
	}

	return verr.Err()
}

func (s *categoryService) CreateCategory(input CategoryInput) (*model.Category, error) {
	s.normalize(&input)
	logger.Info("Creating category", map[string]interface{}{
		"name": deref(input.Name),
	})

	if err := s.validate(&input, false, nil); err != nil {
		return nil, err
	}

	category := &model.Category{
		Name:        *input.Name,
		Description: deref(input.Description),
		Image:       deref(input.Image),
		IsActive:    true,
	}
	if input.IsActive != nil {
		category.IsActive = *input.IsActive
	}

	if input.Slug != nil && *input.Slug != "" {
		category.Slug = *input.Slug
	} else {
		slug, err := deriveSlug(category.Name, categorySlugMaxLen, func(candidate string) (bool, error) {
			return s.categoryRepo.SlugExists(candidate, nil)
		})
		if err != nil {
			return nil, err
		}
		category.Slug = slug
	}

	if err := s.categoryRepo.Create(category); err != nil {
		return nil, s.writeError(err, "create category")
	}

	logger.Info("Category created", map[string]interface{}{
		"category_id": category.ID,
		"slug":        category.Slug,
	})
	return s.categoryRepo.FindByID(category.ID)
}

func (s *categoryService) UpdateCategory(token string, input CategoryInput, partial bool) (*model.Category, error) {
	s.normalize(&input)

	category, err := s.GetCategory(token, true)
	if err != nil {
		return nil, err
	}

	logger.Info("Updating category", map[string]interface{}{
		"category_id": category.ID,
		"partial":     partial,
	})

	if err := s.validate(&input, partial, &category.ID); err != nil {
		return nil, err
	}

	if input.Name != nil {
		category.Name = *input.Name
	}
	if input.Slug != nil && *input.Slug != "" {
		category.Slug = *input.Slug
	}
	if input.Present.Has("description") {
		category.Description = deref(input.Description)
	}
	if input.Present.Has("image") {
		category.Image = deref(input.Image)
	}
	if input.IsActive != nil {
		category.IsActive = *input.IsActive
	}

	if err := s.categoryRepo.Update(category); err != nil {
		return nil, s.writeError(err, "update category")
	}

	logger.Info("Category updated", map[string]interface{}{
		"category_id": category.ID,
	})
	return s.categoryRepo.FindByID(category.ID)
}

// DeleteCategory deactivates the category. It refuses while active products reference it.
func (s *categoryService) DeleteCategory(token string) error {
	category, err := s.GetCategory(token, true)
	if err != nil {
		return err
	}

	count, err := s.categoryRepo.CountActiveProducts(category.ID)
	if err != nil {
		return err
	}
	if count > 0 {
		logger.Warn("Cannot delete category with active products", map[string]interface{}{
			"category_id":    category.ID,
			"products_count": count,
		})
		return ErrCategoryHasProducts
	}

	category.IsActive = false
	if err := s.categoryRepo.Update(category); err != nil {
		return err
	}

	logger.Info("Category deactivated", map[string]interface{}{
		"category_id": category.ID,
	})
	return nil
}

// writeError reports a unique violation that slipped past the pre-write checks
// as a field error rather than a server error.
func (s *categoryService) writeError(err error, context string) error {
	if apperrors.IsUniqueViolation(err) {
		info := apperrors.ParseError(err, context)
		field := info.Field
		if field == "" {
			field = "slug"
		}
		verr := &ValidationError{}
		verr.Add(field, "A category with this "+field+" already exists.")
		return verr
	}
	return err
}
