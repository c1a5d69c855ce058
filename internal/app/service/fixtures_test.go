package service

import (
	"testing"

	"github.com/google/uuid"
	"github.com/ikkim/catalog-backend/internal/app/model"
	"github.com/ikkim/catalog-backend/internal/app/repository"
	"github.com/ikkim/catalog-backend/internal/db"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type catalogFixture struct {
	db         *gorm.DB
	categories CategoryService
	products   ProductService
	images     ProductImageService
	carts      CartService
}

func setupCatalog(t *testing.T) *catalogFixture {
	testDB, err := db.SetupTestDB()
	require.NoError(t, err)
	t.Cleanup(func() { db.CleanupTestDB(testDB) })

	productRepo := repository.NewProductRepository(testDB)
	categoryRepo := repository.NewCategoryRepository(testDB)

	return &catalogFixture{
		db:         testDB,
		categories: NewCategoryService(categoryRepo),
		products:   NewProductService(productRepo, categoryRepo),
		images:     NewProductImageService(productRepo, repository.NewProductImageRepository(testDB)),
		carts:      NewCartService(repository.NewCartRepository(testDB), productRepo),
	}
}

func (f *catalogFixture) category(t *testing.T, name string, active bool) *model.Category {
	category := &model.Category{Name: name, Slug: uuid.NewString()[:8], IsActive: active}
	require.NoError(t, f.db.Create(category).Error)
	return category
}

func (f *catalogFixture) product(t *testing.T, input ProductInput) *model.Product {
	product, err := f.products.CreateProduct(input)
	require.NoError(t, err)
	return product
}

func sp(s string) *string { return &s }

func ip(i int) *int { return &i }

func bp(b bool) *bool { return &b }

func dp(s string) *decimal.Decimal {
	d := decimal.RequireFromString(s)
	return &d
}

func present(keys ...string) Presence {
	p := Presence{}
	for _, k := range keys {
		p[k] = true
	}
	return p
}

func validProduct(name string, category *model.Category) ProductInput {
	return ProductInput{
		Name:          sp(name),
		Description:   sp("A sturdy product for everyday use."),
		Price:         dp("100.00"),
		StockQuantity: ip(50),
		CategoryID:    sp(category.ID.String()),
	}
}

// fieldErrors returns the field map of a validation failure, failing the test otherwise.
func fieldErrors(t *testing.T, err error) map[string][]string {
	t.Helper()
	verr, ok := AsValidationError(err)
	require.True(t, ok, "expected validation error, got %v", err)
	return verr.Fields
}
