package repository

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/ikkim/catalog-backend/internal/app/model"
	"github.com/ikkim/catalog-backend/pkg/logger"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// OrderField is one key of an ordering list.
type OrderField struct {
	Field string
	Desc  bool
}

var productOrderColumns = map[string]string{
	"name":       "products.name",
	"price":      "products.price",
	"created_at": "products.created_at",
}

// DefaultProductOrdering lists newest products first.
var DefaultProductOrdering = []OrderField{{Field: "created_at", Desc: true}}

// ParseOrdering reads a comma separated list such as "price,-created_at".
// Unknown keys are ignored; an empty result falls back to the default.
func ParseOrdering(raw string) []OrderField {
	var fields []OrderField
	for _, part := range strings.Split(raw, ",") {
		part = strings.TrimSpace(part)
		desc := strings.HasPrefix(part, "-")
		key := strings.TrimPrefix(part, "-")
		if _, ok := productOrderColumns[key]; !ok {
			continue
		}
		fields = append(fields, OrderField{Field: key, Desc: desc})
	}
	if len(fields) == 0 {
		return DefaultProductOrdering
	}
	return fields
}

// ProductFilter holds list parameters. Nil pointers leave a dimension unconstrained.
type ProductFilter struct {
	ActiveOnly bool

	MinPrice *decimal.Decimal
	MaxPrice *decimal.Decimal
	Price    *decimal.Decimal
	PriceGTE *decimal.Decimal
	PriceLTE *decimal.Decimal

	Category     *Lookup
	CategoryID   *uuid.UUID
	CategorySlug *string

	InStock    *bool
	LowStock   *bool
	OutOfStock *bool
	IsFeatured *bool
	IsActive   *bool
	OnSale     *bool

	MinStock      *int
	MaxStock      *int
	StockQuantity *int
	StockGTE      *int
	StockLTE      *int

	CreatedAfter  *time.Time
	CreatedBefore *time.Time
	UpdatedAfter  *time.Time
	UpdatedBefore *time.Time

	SKU          *string
	Name         *string
	NameContains *string

	Search   string
	Ordering []OrderField
	Page     Page
}

// SearchTerms splits a search string on whitespace and commas.
func SearchTerms(search string) []string {
	return strings.FieldsFunc(search, func(r rune) bool {
		return r == ',' || r == ' ' || r == '\t' || r == '\n'
	})
}

type ProductRepository interface {
	Create(product *model.Product) error
	Update(product *model.Product) error
	FindByLookup(lookup Lookup, activeOnly bool) (*model.Product, error)
	FindByID(id uuid.UUID) (*model.Product, error)
	FindWithFilter(filter ProductFilter) ([]model.Product, int64, error)
	NameExists(name string, excludeID *uuid.UUID) (bool, error)
	SlugExists(slug string, excludeID *uuid.UUID) (bool, error)
	SetActive(id uuid.UUID, active bool) error
}

type productRepository struct {
	db *gorm.DB
}

func NewProductRepository(db *gorm.DB) ProductRepository {
	return &productRepository{db: db}
}

func orderedImages(db *gorm.DB) *gorm.DB {
	return db.Order("product_images.sort_order ASC, product_images.created_at ASC")
}

func (r *productRepository) Create(product *model.Product) error {
	logger.Debug("Creating product in database", map[string]interface{}{
		"name": product.Name,
		"slug": product.Slug,
	})

	if err := r.db.Omit(clause.Associations).Create(product).Error; err != nil {
		logger.Error("Failed to create product in database", err, map[string]interface{}{
			"name": product.Name,
			"slug": product.Slug,
		})
		return err
	}

	logger.Debug("Product created in database", map[string]interface{}{
		"product_id": product.ID,
		"sku":        product.SKU,
	})
	return nil
}

func (r *productRepository) Update(product *model.Product) error {
	logger.Debug("Updating product in database", map[string]interface{}{
		"product_id": product.ID,
		"name":       product.Name,
	})

	if err := r.db.Omit(clause.Associations).Save(product).Error; err != nil {
		logger.Error("Failed to update product in database", err, map[string]interface{}{
			"product_id": product.ID,
			"name":       product.Name,
		})
		return err
	}

	logger.Debug("Product updated in database", map[string]interface{}{
		"product_id": product.ID,
	})
	return nil
}

func (r *productRepository) FindByLookup(lookup Lookup, activeOnly bool) (*model.Product, error) {
	logger.Debug("Finding product by lookup in database", map[string]interface{}{
		"token":       lookup.Token,
		"by_id":       lookup.ByID,
		"active_only": activeOnly,
	})

	query := applyLookup(r.db.Model(&model.Product{}), "products", lookup).
		Preload("Category").
		Preload("Images", orderedImages)
	if activeOnly {
		query = query.Where("products.is_active = ?", true)
	}

	var product model.Product
	if err := query.First(&product).Error; err != nil {
		logger.Error("Failed to find product by lookup in database", err, map[string]interface{}{
			"token": lookup.Token,
		})
		return nil, err
	}

	logger.Debug("Product found by lookup in database", map[string]interface{}{
		"product_id": product.ID,
		"slug":       product.Slug,
	})
	return &product, nil
}

func (r *productRepository) FindByID(id uuid.UUID) (*model.Product, error) {
	logger.Debug("Finding product by ID in database", map[string]interface{}{
		"product_id": id,
	})

	var product model.Product
	err := r.db.Preload("Category").
		Preload("Images", orderedImages).
		Where("products.id = ?", id).
		First(&product).Error
	if err != nil {
		logger.Error("Failed to find product by ID in database", err, map[string]interface{}{
			"product_id": id,
		})
		return nil, err
	}

	return &product, nil
}

func (r *productRepository) filtered(filter ProductFilter) *gorm.DB {
	query := r.db.Model(&model.Product{})

	if filter.ActiveOnly {
		query = query.Where("products.is_active = ?", true)
	}

	if filter.MinPrice != nil {
		query = query.Where("products.price >= ?", *filter.MinPrice)
	}
	if filter.MaxPrice != nil {
		query = query.Where("products.price <= ?", *filter.MaxPrice)
	}
	if filter.Price != nil {
		query = query.Where("products.price = ?", *filter.Price)
	}
	if filter.PriceGTE != nil {
		query = query.Where("products.price >= ?", *filter.PriceGTE)
	}
	if filter.PriceLTE != nil {
		query = query.Where("products.price <= ?", *filter.PriceLTE)
	}

	if filter.Category != nil {
		sub := applyLookup(r.db.Model(&model.Category{}).Select("categories.id"), "categories", *filter.Category)
		query = query.Where("products.category_id IN (?)", sub)
	}
	if filter.CategoryID != nil {
		query = query.Where("products.category_id = ?", *filter.CategoryID)
	}
	if filter.CategorySlug != nil {
		sub := r.db.Model(&model.Category{}).Select("categories.id").Where("categories.slug = ?", *filter.CategorySlug)
		query = query.Where("products.category_id IN (?)", sub)
	}

	query = boolFilter(query, filter.InStock, "products.stock_quantity > 0")
	query = boolFilter(query, filter.OutOfStock, "products.stock_quantity = 0")
	query = boolFilter(query, filter.LowStock, "products.stock_quantity > 0 AND products.stock_quantity <= products.low_stock_threshold")
	query = boolFilter(query, filter.OnSale, "products.compare_price IS NOT NULL AND products.compare_price > products.price")

	if filter.IsFeatured != nil {
		query = query.Where("products.is_featured = ?", *filter.IsFeatured)
	}
	if filter.IsActive != nil {
		query = query.Where("products.is_active = ?", *filter.IsActive)
	}

	if filter.MinStock != nil {
		query = query.Where("products.stock_quantity >= ?", *filter.MinStock)
	}
	if filter.MaxStock != nil {
		query = query.Where("products.stock_quantity <= ?", *filter.MaxStock)
	}
	if filter.StockQuantity != nil {
		query = query.Where("products.stock_quantity = ?", *filter.StockQuantity)
	}
	if filter.StockGTE != nil {
		query = query.Where("products.stock_quantity >= ?", *filter.StockGTE)
	}
	if filter.StockLTE != nil {
		query = query.Where("products.stock_quantity <= ?", *filter.StockLTE)
	}

	if filter.CreatedAfter != nil {
		query = query.Where("products.created_at >= ?", filter.CreatedAfter.UTC())
	}
	if filter.CreatedBefore != nil {
		query = query.Where("products.created_at <= ?", filter.CreatedBefore.UTC())
	}
	if filter.UpdatedAfter != nil {
		query = query.Where("products.updated_at >= ?", filter.UpdatedAfter.UTC())
	}
	if filter.UpdatedBefore != nil {
		query = query.Where("products.updated_at <= ?", filter.UpdatedBefore.UTC())
	}

	if filter.SKU != nil {
		query = query.Where("LOWER(products.sku) LIKE ? ESCAPE '\\'", containsPattern(*filter.SKU))
	}
	if filter.Name != nil {
		query = query.Where("LOWER(products.name) = LOWER(?)", *filter.Name)
	}
	if filter.NameContains != nil {
		query = query.Where("LOWER(products.name) LIKE ? ESCAPE '\\'", containsPattern(*filter.NameContains))
	}

	for _, term := range SearchTerms(filter.Search) {
		pattern := containsPattern(term)
		query = query.Where(`(LOWER(products.name) LIKE ? ESCAPE '\' OR LOWER(products.description) LIKE ? ESCAPE '\' OR LOWER(products.sku) LIKE ? ESCAPE '\')`,
			pattern, pattern, pattern)
	}

	return query
}

// boolFilter applies cond when want is true and its complement when false.
func boolFilter(query *gorm.DB, want *bool, cond string) *gorm.DB {
	if want == nil {
		return query
	}
	if *want {
		return query.Where("(" + cond + ")")
	}
	return query.Where("NOT (" + cond + ")")
}

func (r *productRepository) FindWithFilter(filter ProductFilter) ([]model.Product, int64, error) {
	logger.Debug("Finding products with filter", map[string]interface{}{
		"active_only": filter.ActiveOnly,
		"search":      filter.Search,
		"limit":       filter.Page.Limit,
		"offset":      filter.Page.Offset,
	})

	var total int64
	if err := r.filtered(filter).Count(&total).Error; err != nil {
		logger.Error("Failed to count products with filter", err, map[string]interface{}{
			"search": filter.Search,
		})
		return nil, 0, err
	}

	ordering := filter.Ordering
	if len(ordering) == 0 {
		ordering = DefaultProductOrdering
	}

	query := r.filtered(filter).
		Preload("Category").
		Preload("Images", "is_primary = ?", true)
	for _, o := range ordering {
		query = query.Order(clause.OrderByColumn{
			Column: clause.Column{Name: productOrderColumns[o.Field], Raw: true},
			Desc:   o.Desc,
		})
	}
	query = query.Order("products.id ASC")

	var products []model.Product
	if err := applyPage(query, filter.Page).Find(&products).Error; err != nil {
		logger.Error("Failed to find products with filter", err, map[string]interface{}{
			"search": filter.Search,
		})
		return nil, 0, err
	}

	logger.Debug("Products found with filter", map[string]interface{}{
		"count": len(products),
		"total": total,
	})
	return products, total, nil
}

func (r *productRepository) NameExists(name string, excludeID *uuid.UUID) (bool, error) {
	query := r.db.Model(&model.Product{}).Where("LOWER(name) = LOWER(?)", name)
	if excludeID != nil {
		query = query.Where("id <> ?", *excludeID)
	}

	var count int64
	if err := query.Count(&count).Error; err != nil {
		logger.Error("Failed to check product name uniqueness", err, map[string]interface{}{
			"name": name,
		})
		return false, err
	}
	return count > 0, nil
}

func (r *productRepository) SlugExists(slug string, excludeID *uuid.UUID) (bool, error) {
	query := r.db.Model(&model.Product{}).Where("slug = ?", slug)
	if excludeID != nil {
		query = query.Where("id <> ?", *excludeID)
	}

	var count int64
	if err := query.Count(&count).Error; err != nil {
		logger.Error("Failed to check product slug uniqueness", err, map[string]interface{}{
			"slug": slug,
		})
		return false, err
	}
	return count > 0, nil
}

func (r *productRepository) SetActive(id uuid.UUID, active bool) error {
	logger.Debug("Setting product active flag in database", map[string]interface{}{
		"product_id": id,
		"is_active":  active,
	})

	result := r.db.Model(&model.Product{}).Where("id = ?", id).Update("is_active", active)
	if result.Error != nil {
		logger.Error("Failed to set product active flag in database", result.Error, map[string]interface{}{
			"product_id": id,
		})
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
