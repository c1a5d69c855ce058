package repository

import (
	"github.com/google/uuid"
	"github.com/ikkim/catalog-backend/internal/app/model"
	"github.com/ikkim/catalog-backend/pkg/logger"
	"gorm.io/gorm"
)

const productsCountSelect = "categories.*, (SELECT COUNT(*) FROM products WHERE products.category_id = categories.id AND products.is_active = ?) AS products_count"

type CategoryFilter struct {
	ActiveOnly bool
	Search     string
	Page       Page
}

type CategoryRepository interface {
	Create(category *model.Category) error
	Update(category *model.Category) error
	FindByLookup(lookup Lookup, activeOnly bool) (*model.Category, error)
	FindByID(id uuid.UUID) (*model.Category, error)
	List(filter CategoryFilter) ([]model.Category, int64, error)
	NameExists(name string, excludeID *uuid.UUID) (bool, error)
	SlugExists(slug string, excludeID *uuid.UUID) (bool, error)
	CountActiveProducts(id uuid.UUID) (int64, error)
}

type categoryRepository struct {
	db *gorm.DB
}

func NewCategoryRepository(db *gorm.DB) CategoryRepository {
	return &categoryRepository{db: db}
}

func (r *categoryRepository) withCounts() *gorm.DB {
	return r.db.Model(&model.Category{}).Select(productsCountSelect, true)
}

func (r *categoryRepository) Create(category *model.Category) error {
	logger.Debug("Creating category in database", map[string]interface{}{
		"name": category.Name,
		"slug": category.Slug,
	})

	if err := r.db.Create(category).Error; err != nil {
		logger.Error("Failed to create category in database", err, map[string]interface{}{
			"name": category.Name,
			"slug": category.Slug,
		})
		return err
	}

	logger.Debug("Category created in database", map[string]interface{}{
		"category_id": category.ID,
		"slug":        category.Slug,
	})
	return nil
}

func (r *categoryRepository) Update(category *model.Category) error {
	logger.Debug("Updating category in database", map[string]interface{}{
		"category_id": category.ID,
		"name":        category.Name,
	})

	if err := r.db.Omit("Products").Save(category).Error; err != nil {
		logger.Error("Failed to update category in database", err, map[string]interface{}{
			"category_id": category.ID,
			"name":        category.Name,
		})
		return err
	}

	logger.Debug("Category updated in database", map[string]interface{}{
		"category_id": category.ID,
	})
	return nil
}

func (r *categoryRepository) FindByLookup(lookup Lookup, activeOnly bool) (*model.Category, error) {
	logger.Debug("Finding category by lookup in database", map[string]interface{}{
		"token":       lookup.Token,
		"by_id":       lookup.ByID,
		"active_only": activeOnly,
	})

	query := applyLookup(r.withCounts(), "categories", lookup)
	if activeOnly {
		query = query.Where("categories.is_active = ?", true)
	}

	var category model.Category
	if err := query.First(&category).Error; err != nil {
		logger.Error("Failed to find category by lookup in database", err, map[string]interface{}{
			"token": lookup.Token,
		})
		return nil, err
	}

	logger.Debug("Category found by lookup in database", map[string]interface{}{
		"category_id": category.ID,
		"slug":        category.Slug,
	})
	return &category, nil
}

func (r *categoryRepository) FindByID(id uuid.UUID) (*model.Category, error) {
	logger.Debug("Finding category by ID in database", map[string]interface{}{
		"category_id": id,
	})

	var category model.Category
	if err := r.withCounts().Where("categories.id = ?", id).First(&category).Error; err != nil {
		logger.Error("Failed to find category by ID in database", err, map[string]interface{}{
			"category_id": id,
		})
		return nil, err
	}

	return &category, nil
}

func (r *categoryRepository) filtered(filter CategoryFilter) *gorm.DB {
	query := r.db.Model(&model.Category{})
	if filter.ActiveOnly {
		query = query.Where("categories.is_active = ?", true)
	}
	if filter.Search != "" {
		pattern := containsPattern(filter.Search)
		query = query.Where(`(LOWER(categories.name) LIKE ? ESCAPE '\' OR LOWER(categories.description) LIKE ? ESCAPE '\')`, pattern, pattern)
	}
	return query
}

func (r *categoryRepository) List(filter CategoryFilter) ([]model.Category, int64, error) {
	logger.Debug("Listing categories", map[string]interface{}{
		"active_only": filter.ActiveOnly,
		"search":      filter.Search,
		"limit":       filter.Page.Limit,
		"offset":      filter.Page.Offset,
	})

	var total int64
	if err := r.filtered(filter).Count(&total).Error; err != nil {
		logger.Error("Failed to count categories", err, nil)
		return nil, 0, err
	}

	var categories []model.Category
	query := r.filtered(filter).Select(productsCountSelect, true).Order("categories.name ASC")
	if err := applyPage(query, filter.Page).Find(&categories).Error; err != nil {
		logger.Error("Failed to list categories", err, map[string]interface{}{
			"search": filter.Search,
		})
		return nil, 0, err
	}

	logger.Debug("Categories listed", map[string]interface{}{
		"count": len(categories),
		"total": total,
	})
	return categories, total, nil
}

func (r *categoryRepository) NameExists(name string, excludeID *uuid.UUID) (bool, error) {
	query := r.db.Model(&model.Category{}).Where("LOWER(name) = LOWER(?)", name)
	if excludeID != nil {
		query = query.Where("id <> ?", *excludeID)
	}

	var count int64
	if err := query.Count(&count).Error; err != nil {
		logger.Error("Failed to check category name uniqueness", err, map[string]interface{}{
			"name": name,
		})
		return false, err
	}
	return count > 0, nil
}

func (r *categoryRepository) SlugExists(slug string, excludeID *uuid.UUID) (bool, error) {
	query := r.db.Model(&model.Category{}).Where("slug = ?", slug)
	if excludeID != nil {
		query = query.Where("id <> ?", *excludeID)
	}

	var count int64
	if err := query.Count(&count).Error; err != nil {
		logger.Error("Failed to check category slug uniqueness", err, map[string]interface{}{
			"slug": slug,
		})
		return false, err
	}
	return count > 0, nil
}

func (r *categoryRepository) CountActiveProducts(id uuid.UUID) (int64, error) {
	var count int64
	err := r.db.Model(&model.Product{}).
		Where("category_id = ? AND is_active = ?", id, true).
		Count(&count).Error
	if err != nil {
		logger.Error("Failed to count category products", err, map[string]interface{}{
			"category_id": id,
		})
		return 0, err
	}
	return count, nil
}
