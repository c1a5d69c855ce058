package repository

import (
	"testing"

	"github.com/google/uuid"
	"github.com/ikkim/catalog-backend/internal/app/model"
	"github.com/ikkim/catalog-backend/internal/db"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func setupTestDB(t *testing.T) *gorm.DB {
	testDB, err := db.SetupTestDB()
	require.NoError(t, err)
	t.Cleanup(func() { db.CleanupTestDB(testDB) })
	return testDB
}

func createCategory(t *testing.T, testDB *gorm.DB, name, slug string, active bool) *model.Category {
	category := &model.Category{Name: name, Slug: slug, IsActive: active}
	require.NoError(t, testDB.Create(category).Error)
	return category
}

type productOpt func(*model.Product)

func withCategory(c *model.Category) productOpt {
	return func(p *model.Product) { p.CategoryID = &c.ID }
}

func withPrice(price string) productOpt {
	return func(p *model.Product) { p.Price = decimal.RequireFromString(price) }
}

func withComparePrice(price string) productOpt {
	return func(p *model.Product) {
		d := decimal.RequireFromString(price)
		p.ComparePrice = &d
	}
}

func withStock(quantity, threshold int) productOpt {
	return func(p *model.Product) {
		p.StockQuantity = quantity
		p.LowStockThreshold = threshold
	}
}

func inactive() productOpt {
	return func(p *model.Product) { p.IsActive = false }
}

func featured() productOpt {
	return func(p *model.Product) { p.IsFeatured = true }
}

func createProduct(t *testing.T, testDB *gorm.DB, name string, opts ...productOpt) *model.Product {
	product := &model.Product{
		Name:              name,
		Slug:              "p-" + uuid.NewString()[:8],
		Description:       "A product used in repository tests.",
		Price:             decimal.RequireFromString("10.00"),
		StockQuantity:     50,
		LowStockThreshold: model.DefaultLowStockThreshold,
		IsActive:          true,
	}
	for _, opt := range opts {
		opt(product)
	}
	require.NoError(t, testDB.Create(product).Error)
	return product
}
