package service

import (
	"errors"

	"github.com/google/uuid"
	"github.com/ikkim/catalog-backend/internal/app/model"
	"github.com/ikkim/catalog-backend/internal/app/repository"
	apperrors "github.com/ikkim/catalog-backend/internal/errors"
	"github.com/ikkim/catalog-backend/pkg/logger"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

var (
	ErrProductNotFound = errors.New("product not found")
)

const productSlugMaxLen = 200

// ProductInput is a decoded product write. Present lists the keys the body
// carried; when nil, non-nil fields count as present.
type ProductInput struct {
	Name              *string          `json:"name" validate:"required,notblank,min=3,max=200"`
	Slug              *string          `json:"slug" validate:"omitempty,max=200,slug,notuuid"`
	Description       *string          `json:"description" validate:"required,notblank,min=10"`
	ShortDescription  *string          `json:"short_description" validate:"omitempty,max=300"`
	Price             *decimal.Decimal `json:"price"`
	ComparePrice      *decimal.Decimal `json:"compare_price"`
	StockQuantity     *int             `json:"stock_quantity" validate:"required,min=0,max=999999"`
	LowStockThreshold *int             `json:"low_stock_threshold" validate:"omitempty,min=0"`
	CategoryID        *string          `json:"category_id" validate:"required,notblank"`
	IsActive          *bool            `json:"is_active"`
	IsFeatured        *bool            `json:"is_featured"`
	MetaTitle         *string          `json:"meta_title" validate:"omitempty,max=60"`
	MetaDescription   *string          `json:"meta_description" validate:"omitempty,max=160"`
	Present           Presence         `json:"-"`
}

func (in *ProductInput) has(key string, set bool) bool {
	if in.Present == nil {
		return set
	}
	return in.Present.Has(key)
}

var productMessages = map[string]string{
	"name.required":           "Product name is required.",
	"name.notblank":           "Product name is required.",
	"name.min":                "Product name must be at least 3 characters long.",
	"name.max":                "Product name cannot exceed 200 characters.",
	"slug.max":                "Slug cannot exceed 200 characters.",
	"slug.slug":               slugMessage,
	"slug.notuuid":            slugUUIDMessage,
	"description.required":    "Product description is required.",
	"description.notblank":    "Product description is required.",
	"description.min":         "Product description must be at least 10 characters long.",
	"short_description.max":   "Short description cannot exceed 300 characters.",
	"stock_quantity.required": "Stock quantity is required.",
	"stock_quantity.min":      "Stock quantity cannot be negative.",
	"stock_quantity.max":      "Stock quantity cannot exceed 999,999.",
	"low_stock_threshold.min": "Low stock threshold cannot be negative.",
	"category_id.required":    "Category is required.",
	"category_id.notblank":    "Category is required.",
	"meta_title.max":          "Meta title cannot exceed 60 characters.",
	"meta_description.max":    "Meta description cannot exceed 160 characters.",
}

const (
	msgInvalidCategory  = "Invalid category or category is not active."
	msgComparePrice     = "Compare price must be greater than the selling price."
	msgThresholdOverQty = "Low stock threshold cannot be greater than current stock quantity."
)

type ProductService interface {
	ListProducts(filter repository.ProductFilter) ([]model.Product, int64, error)
	GetProduct(token string, admin bool) (*model.Product, error)
	CreateProduct(input ProductInput) (*model.Product, error)
	UpdateProduct(token string, input ProductInput, partial bool) (*model.Product, error)
	DeleteProduct(token string) error
}

type productService struct {
	productRepo  repository.ProductRepository
	categoryRepo repository.CategoryRepository
}

func NewProductService(productRepo repository.ProductRepository, categoryRepo repository.CategoryRepository) ProductService {
	return &productService{
		productRepo:  productRepo,
		categoryRepo: categoryRepo,
	}
}

func (s *productService) ListProducts(filter repository.ProductFilter) ([]model.Product, int64, error) {
	logger.Debug("Listing products", map[string]interface{}{
		"active_only": filter.ActiveOnly,
		"search":      filter.Search,
	})

	products, total, err := s.productRepo.FindWithFilter(filter)
	if err != nil {
		logger.Error("Failed to list products", err, nil)
		return nil, 0, err
	}
	return products, total, nil
}

func (s *productService) GetProduct(token string, admin bool) (*model.Product, error) {
	product, err := s.productRepo.FindByLookup(repository.ParseLookup(token), !admin)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			logger.Warn("Product not found", map[string]interface{}{
				"token": token,
				"admin": admin,
			})
			return nil, ErrProductNotFound
		}
		logger.Error("Failed to fetch product", err, map[string]interface{}{
			"token": token,
		})
		return nil, err
	}
	return product, nil
}

func (s *productService) normalize(input *ProductInput) {
	input.Name = trimPtr(input.Name)
	input.Slug = trimPtr(input.Slug)
	input.Description = trimPtr(input.Description)
	input.ShortDescription = trimPtr(input.ShortDescription)
	input.CategoryID = trimPtr(input.CategoryID)
	input.MetaTitle = trimPtr(input.MetaTitle)
	input.MetaDescription = trimPtr(input.MetaDescription)
}

// validate collects every per-field and reference failure, then evaluates the
// cross-field rules over the merged state. existing is nil on create.
func (s *productService) validate(input *ProductInput, existing *model.Product, partial bool) error {
	verr := &ValidationError{}
	checkStruct(input, productMessages, partial, input.Present, verr)

	if !partial || input.has("price", input.Price != nil) {
		checkPrice("price", "Price", input.Price, true, verr)
	}
	if input.has("compare_price", input.ComparePrice != nil) {
		checkPrice("compare_price", "Compare price", input.ComparePrice, false, verr)
	}

	var excludeID *uuid.UUID
	if existing != nil {
		excludeID = &existing.ID
	}

	if input.Name != nil && !verr.Has("name") {
		exists, err := s.productRepo.NameExists(*input.Name, excludeID)
		if err != nil {
			return err
		}
		if exists {
			verr.Add("name", "A product with this name already exists.")
		}
	}

	if input.Slug != nil && *input.Slug != "" && !verr.Has("slug") {
		exists, err := s.productRepo.SlugExists(*input.Slug, excludeID)
		if err != nil {
			return err
		}
		if exists {
			verr.Add("slug", "A product with this slug already exists.")
		}
	}

	if input.CategoryID != nil && !verr.Has("category_id") {
		ok, err := s.activeCategory(*input.CategoryID)
		if err != nil {
			return err
		}
		if !ok {
			verr.Add("category_id", msgInvalidCategory)
		}
	}

	s.checkCrossFields(input, existing, verr)
	return verr.Err()
}

func (s *productService) activeCategory(raw string) (bool, error) {
	id, err := uuid.Parse(raw)
	if err != nil {
		return false, nil
	}
	category, err := s.categoryRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, nil
		}
		return false, err
	}
	return category.IsActive, nil
}

func (s *productService) checkCrossFields(input *ProductInput, existing *model.Product, verr *ValidationError) {
	priceGiven := input.has("price", input.Price != nil)
	compareGiven := input.has("compare_price", input.ComparePrice != nil)
	if (priceGiven || compareGiven) && !verr.Has("price") && !verr.Has("compare_price") {
		price, compare := input.Price, input.ComparePrice
		if existing != nil {
			if !priceGiven {
				price = &existing.Price
			}
			if !compareGiven {
				compare = existing.ComparePrice
			}
		}
		if price != nil && compare != nil && compare.LessThanOrEqual(*price) {
			verr.Add("compare_price", msgComparePrice)
		}
	}

	thresholdGiven := input.has("low_stock_threshold", input.LowStockThreshold != nil)
	if thresholdGiven && input.LowStockThreshold != nil && !verr.Has("low_stock_threshold") && !verr.Has("stock_quantity") {
		var stock int
		switch {
		case input.StockQuantity != nil:
			stock = *input.StockQuantity
		case existing != nil:
			stock = existing.StockQuantity
		}
		threshold := *input.LowStockThreshold
		// Zero stock is exempt.
		if stock > 0 && threshold > stock {
			verr.Add("low_stock_threshold", msgThresholdOverQty)
		}
	}
}

func (s *productService) CreateProduct(input ProductInput) (*model.Product, error) {
	s.normalize(&input)
	logger.Info("Creating product", map[string]interface{}{
		"name": deref(input.Name),
	})

	if err := s.validate(&input, nil, false); err != nil {
		if _, ok := AsValidationError(err); ok {
			logger.Warn("Product validation failed", map[string]interface{}{
				"name":  deref(input.Name),
				"error": err.Error(),
			})
		}
		return nil, err
	}

	categoryID := uuid.MustParse(*input.CategoryID)
	product := &model.Product{
		Name:              *input.Name,
		Description:       *input.Description,
		ShortDescription:  deref(input.ShortDescription),
		Price:             *input.Price,
		ComparePrice:      input.ComparePrice,
		StockQuantity:     *input.StockQuantity,
		LowStockThreshold: model.DefaultLowStockThreshold,
		CategoryID:        &categoryID,
		IsActive:          true,
		MetaTitle:         deref(input.MetaTitle),
		MetaDescription:   deref(input.MetaDescription),
	}
	if input.LowStockThreshold != nil {
		product.LowStockThreshold = *input.LowStockThreshold
	}
	if input.IsActive != nil {
		product.IsActive = *input.IsActive
	}
	if input.IsFeatured != nil {
		product.IsFeatured = *input.IsFeatured
	}

	if input.Slug != nil && *input.Slug != "" {
		product.Slug = *input.Slug
	} else {
		slug, err := deriveSlug(product.Name, productSlugMaxLen, func(candidate string) (bool, error) {
			return s.productRepo.SlugExists(candidate, nil)
		})
		if err != nil {
			return nil, err
		}
		product.Slug = slug
	}

	if err := s.productRepo.Create(product); err != nil {
		return nil, s.writeError(err, "create product")
	}

	logger.Info("Product created", map[string]interface{}{
		"product_id": product.ID,
		"sku":        product.SKU,
		"slug":       product.Slug,
	})
	return s.productRepo.FindByID(product.ID)
}

func (s *productService) UpdateProduct(token string, input ProductInput, partial bool) (*model.Product, error) {
	s.normalize(&input)

	product, err := s.GetProduct(token, true)
	if err != nil {
		return nil, err
	}

	logger.Info("Updating product", map[string]interface{}{
		"product_id": product.ID,
		"partial":    partial,
	})

	if err := s.validate(&input, product, partial); err != nil {
		return nil, err
	}

	if input.Name != nil {
		product.Name = *input.Name
	}
	if input.Slug != nil && *input.Slug != "" {
		product.Slug = *input.Slug
	}
	if input.Description != nil {
		product.Description = *input.Description
	}
	if input.has("short_description", input.ShortDescription != nil) {
		product.ShortDescription = deref(input.ShortDescription)
	}
	if input.Price != nil {
		product.Price = *input.Price
	}
	if input.has("compare_price", input.ComparePrice != nil) {
		product.ComparePrice = input.ComparePrice
	}
	if input.StockQuantity != nil {
		product.StockQuantity = *input.StockQuantity
	}
	if input.LowStockThreshold != nil {
		product.LowStockThreshold = *input.LowStockThreshold
	}
	if input.CategoryID != nil {
		categoryID := uuid.MustParse(*input.CategoryID)
		product.CategoryID = &categoryID
	}
	if input.IsActive != nil {
		product.IsActive = *input.IsActive
	}
	if input.IsFeatured != nil {
		product.IsFeatured = *input.IsFeatured
	}
	if input.has("meta_title", input.MetaTitle != nil) {
		product.MetaTitle = deref(input.MetaTitle)
	}
	if input.has("meta_description", input.MetaDescription != nil) {
		product.MetaDescription = deref(input.MetaDescription)
	}

	if err := s.productRepo.Update(product); err != nil {
		return nil, s.writeError(err, "update product")
	}

	logger.Info("Product updated", map[string]interface{}{
		"product_id": product.ID,
	})
	return s.productRepo.FindByID(product.ID)
}

// DeleteProduct deactivates the product; the row and its images stay.
func (s *productService) DeleteProduct(token string) error {
	product, err := s.GetProduct(token, true)
	if err != nil {
		return err
	}

	if err := s.productRepo.SetActive(product.ID, false); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrProductNotFound
		}
		return err
	}

	logger.Info("Product deactivated", map[string]interface{}{
		"product_id": product.ID,
	})
	return nil
}

func (s *productService) writeError(err error, context string) error {
	if apperrors.IsUniqueViolation(err) {
		info := apperrors.ParseError(err, context)
		field := info.Field
		if field == "" {
			field = "slug"
		}
		verr := &ValidationError{}
		verr.Add(field, "A product with this "+field+" already exists.")
		return verr
	}
	return err
}
