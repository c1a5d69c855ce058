package service

import (
	"strings"
	"testing"

	"github.com/ikkim/catalog-backend/internal/app/model"
	"github.com/ikkim/catalog-backend/internal/app/repository"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProductService_CreateProduct(t *testing.T) {
	f := setupCatalog(t)
	category := f.category(t, "Kitchen", true)

	input := validProduct("  Chef Knife  ", category)
	input.MetaTitle = sp("  Best knife  ")
	product := f.product(t, input)

	assert.Equal(t, "Chef Knife", product.Name)
	assert.Equal(t, "chef-knife", product.Slug)
	assert.Equal(t, "Best knife", product.MetaTitle)
	assert.True(t, strings.HasPrefix(product.SKU, model.SKUPrefix))
	assert.Equal(t, model.DefaultLowStockThreshold, product.LowStockThreshold)
	assert.True(t, product.IsActive)
	assert.False(t, product.IsFeatured)
	require.NotNil(t, product.Category)
	assert.Equal(t, "Kitchen", product.Category.Name)
}

func TestProductService_CreateProductValidation(t *testing.T) {
	f := setupCatalog(t)
	active := f.category(t, "Garden", true)
	inactive := f.category(t, "Retired", false)

	tests := []struct {
		name   string
		mutate func(*ProductInput)
		field  string
		msg    string
	}{
		{"Compare price below price", func(in *ProductInput) { in.ComparePrice = dp("90.00") }, "compare_price", msgComparePrice},
		{"Compare price equal to price", func(in *ProductInput) { in.ComparePrice = dp("100") }, "compare_price", msgComparePrice},
		{"Threshold above stock", func(in *ProductInput) { in.StockQuantity = ip(5); in.LowStockThreshold = ip(10) }, "low_stock_threshold", msgThresholdOverQty},
		{"Negative threshold", func(in *ProductInput) { in.LowStockThreshold = ip(-1) }, "low_stock_threshold", "Low stock threshold cannot be negative."},
		{"Missing name", func(in *ProductInput) { in.Name = nil }, "name", "Product name is required."},
		{"Blank name", func(in *ProductInput) { in.Name = sp("   ") }, "name", "Product name is required."},
		{"Short name", func(in *ProductInput) { in.Name = sp("ab") }, "name", "Product name must be at least 3 characters long."},
		{"Long name", func(in *ProductInput) { in.Name = sp(strings.Repeat("n", 201)) }, "name", "Product name cannot exceed 200 characters."},
		{"Short description", func(in *ProductInput) { in.Description = sp("too short") }, "description", "Product description must be at least 10 characters long."},
		{"Long short description", func(in *ProductInput) { in.ShortDescription = sp(strings.Repeat("s", 301)) }, "short_description", "Short description cannot exceed 300 characters."},
		{"Missing price", func(in *ProductInput) { in.Price = nil }, "price", "Price is required."},
		{"Zero price", func(in *ProductInput) { in.Price = dp("0") }, "price", "Price must be greater than zero."},
		{"Huge price", func(in *ProductInput) { in.Price = dp("1000000") }, "price", "Price cannot exceed 999,999.99."},
		{"Three decimals", func(in *ProductInput) { in.Price = dp("10.999") }, "price", "Price can have maximum 2 decimal places."},
		{"Negative compare price", func(in *ProductInput) { in.ComparePrice = dp("-5") }, "compare_price", "Compare price must be greater than zero."},
		{"Missing stock", func(in *ProductInput) { in.StockQuantity = nil }, "stock_quantity", "Stock quantity is required."},
		{"Negative stock", func(in *ProductInput) { in.StockQuantity = ip(-1) }, "stock_quantity", "Stock quantity cannot be negative."},
		{"Huge stock", func(in *ProductInput) { in.StockQuantity = ip(1000000) }, "stock_quantity", "Stock quantity cannot exceed 999,999."},
		{"Missing category", func(in *ProductInput) { in.CategoryID = nil }, "category_id", "Category is required."},
		{"Inactive category", func(in *ProductInput) { in.CategoryID = sp(inactive.ID.String()) }, "category_id", msgInvalidCategory},
		{"Unknown category", func(in *ProductInput) { in.CategoryID = sp("not-a-uuid") }, "category_id", msgInvalidCategory},
		{"Long meta title", func(in *ProductInput) { in.MetaTitle = sp(strings.Repeat("m", 61)) }, "meta_title", "Meta title cannot exceed 60 characters."},
		{"Long meta description", func(in *ProductInput) { in.MetaDescription = sp(strings.Repeat("m", 161)) }, "meta_description", "Meta description cannot exceed 160 characters."},
		{"Bad slug", func(in *ProductInput) { in.Slug = sp("has spaces") }, "slug", slugMessage},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			input := validProduct("Watering Can", active)
			tt.mutate(&input)

			_, err := f.products.CreateProduct(input)
			fields := fieldErrors(t, err)
			assert.Equal(t, []string{tt.msg}, fields[tt.field])
		})
	}

	var count int64
	require.NoError(t, f.db.Model(&model.Product{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestProductService_ZeroStockIsExemptFromThreshold(t *testing.T) {
	f := setupCatalog(t)
	category := f.category(t, "Tools", true)

	input := validProduct("Pre-order Drill", category)
	input.StockQuantity = ip(0)
	input.LowStockThreshold = ip(10)

	product := f.product(t, input)
	assert.Equal(t, model.StockOutOfStock, product.StockStatus())
}

func TestProductService_ThresholdRuleFollowsThresholdWrites(t *testing.T) {
	f := setupCatalog(t)
	category := f.category(t, "Garden", true)

	// The default threshold applies without being validated.
	input := validProduct("Seed Tray", category)
	input.StockQuantity = ip(5)
	product := f.product(t, input)
	assert.Equal(t, model.DefaultLowStockThreshold, product.LowStockThreshold)
	assert.Equal(t, model.StockLow, product.StockStatus())

	input = validProduct("Hose Reel", category)
	input.StockQuantity = ip(20)
	input.LowStockThreshold = ip(10)
	product = f.product(t, input)

	// Selling down below the stored threshold is allowed.
	updated, err := f.products.UpdateProduct(product.Slug, ProductInput{
		StockQuantity: ip(3),
		Present:       present("stock_quantity"),
	}, true)
	require.NoError(t, err)
	assert.Equal(t, model.StockLow, updated.StockStatus())

	// Writing a threshold above the stored stock is not.
	_, err = f.products.UpdateProduct(product.Slug, ProductInput{
		LowStockThreshold: ip(4),
		Present:           present("low_stock_threshold"),
	}, true)
	fields := fieldErrors(t, err)
	assert.Equal(t, []string{msgThresholdOverQty}, fields["low_stock_threshold"])

	// Both in one patch are checked together.
	_, err = f.products.UpdateProduct(product.Slug, ProductInput{
		StockQuantity:     ip(8),
		LowStockThreshold: ip(4),
		Present:           present("stock_quantity", "low_stock_threshold"),
	}, true)
	require.NoError(t, err)
}

func TestProductService_CollectsAllErrors(t *testing.T) {
	f := setupCatalog(t)
	inactive := f.category(t, "Hidden", false)

	input := validProduct("ab", inactive)
	input.Price = dp("0")

	_, err := f.products.CreateProduct(input)
	fields := fieldErrors(t, err)
	assert.Contains(t, fields, "name")
	assert.Contains(t, fields, "price")
	assert.Contains(t, fields, "category_id")
	// Cross-field rules wait for the price rules to pass.
	assert.NotContains(t, fields, "compare_price")
}

func TestProductService_NameUniqueness(t *testing.T) {
	f := setupCatalog(t)
	category := f.category(t, "Books", true)
	product := f.product(t, validProduct("Go Handbook", category))

	_, err := f.products.CreateProduct(validProduct("go HANDBOOK", category))
	fields := fieldErrors(t, err)
	assert.Equal(t, []string{"A product with this name already exists."}, fields["name"])

	// Renaming to its own name is not a duplicate.
	updated, err := f.products.UpdateProduct(product.ID.String(), ProductInput{
		Name:    sp("Go Handbook"),
		Present: present("name"),
	}, true)
	require.NoError(t, err)
	assert.Equal(t, "Go Handbook", updated.Name)
}

func TestProductService_SlugRules(t *testing.T) {
	f := setupCatalog(t)
	category := f.category(t, "Music", true)

	first := f.product(t, validProduct("Guitar Strings", category))
	assert.Equal(t, "guitar-strings", first.Slug)

	input := validProduct("Guitar Strings!", category)
	second := f.product(t, input)
	assert.Equal(t, "guitar-strings-2", second.Slug)

	input = validProduct("Bass Strings", category)
	input.Slug = sp("guitar-strings")
	_, err := f.products.CreateProduct(input)
	fields := fieldErrors(t, err)
	assert.Equal(t, []string{"A product with this slug already exists."}, fields["slug"])

	// An identifier shaped slug would always be resolved as an id.
	input = validProduct("Bass Strings", category)
	input.Slug = sp("12345678-1234-1234-1234-123456789012")
	_, err = f.products.CreateProduct(input)
	fields = fieldErrors(t, err)
	assert.Equal(t, []string{slugUUIDMessage}, fields["slug"])

	derived := f.product(t, validProduct("12345678-1234-1234-1234-123456789012", category))
	assert.Equal(t, "12345678-1234-1234-1234-123456789012-2", derived.Slug)
	found, err := f.products.GetProduct(derived.Slug, false)
	require.NoError(t, err)
	assert.Equal(t, derived.ID, found.ID)

	// Renames keep the slug.
	renamed, err := f.products.UpdateProduct(first.Slug, ProductInput{
		Name:    sp("Acoustic Guitar Strings"),
		Present: present("name"),
	}, true)
	require.NoError(t, err)
	assert.Equal(t, "guitar-strings", renamed.Slug)

	explicit, err := f.products.UpdateProduct(first.ID.String(), ProductInput{
		Slug:    sp("acoustic-strings"),
		Present: present("slug"),
	}, true)
	require.NoError(t, err)
	assert.Equal(t, "acoustic-strings", explicit.Slug)
}

func TestProductService_PartialUpdateMergesCrossFields(t *testing.T) {
	f := setupCatalog(t)
	category := f.category(t, "Sports", true)

	input := validProduct("Tennis Racket", category)
	input.Price = dp("80.00")
	input.ComparePrice = dp("100.00")
	product := f.product(t, input)
	assert.True(t, product.IsOnSale())
	assert.True(t, product.DiscountPercentage().Equal(decimal.NewFromInt(20)))

	// Raising price past the stored compare price fails.
	_, err := f.products.UpdateProduct(product.Slug, ProductInput{
		Price:   dp("120.00"),
		Present: present("price"),
	}, true)
	fields := fieldErrors(t, err)
	assert.Equal(t, []string{msgComparePrice}, fields["compare_price"])

	// Clearing compare price with null is allowed.
	cleared, err := f.products.UpdateProduct(product.Slug, ProductInput{
		ComparePrice: nil,
		Present:      present("compare_price"),
	}, true)
	require.NoError(t, err)
	assert.Nil(t, cleared.ComparePrice)
	assert.False(t, cleared.IsOnSale())

	// Threshold is checked against the stored stock.
	_, err = f.products.UpdateProduct(product.Slug, ProductInput{
		LowStockThreshold: ip(60),
		Present:           present("low_stock_threshold"),
	}, true)
	fields = fieldErrors(t, err)
	assert.Equal(t, []string{msgThresholdOverQty}, fields["low_stock_threshold"])

	// Fields absent from a patch are not validated.
	updated, err := f.products.UpdateProduct(product.Slug, ProductInput{
		StockQuantity: ip(3),
		Present:       present("stock_quantity"),
	}, true)
	require.NoError(t, err)
	assert.Equal(t, 3, updated.StockQuantity)
	assert.Equal(t, "Tennis Racket", updated.Name)
	assert.Equal(t, model.StockLow, updated.StockStatus())
}

func TestProductService_PatchNullRequiredField(t *testing.T) {
	f := setupCatalog(t)
	category := f.category(t, "Toys", true)
	product := f.product(t, validProduct("Kite", category))

	_, err := f.products.UpdateProduct(product.Slug, ProductInput{Present: present("name", "price")}, true)
	fields := fieldErrors(t, err)
	assert.Equal(t, []string{"Product name is required."}, fields["name"])
	assert.Equal(t, []string{"Price is required."}, fields["price"])
}

func TestProductService_FullUpdateRequiresFields(t *testing.T) {
	f := setupCatalog(t)
	category := f.category(t, "Office", true)
	product := f.product(t, validProduct("Stapler", category))

	_, err := f.products.UpdateProduct(product.Slug, ProductInput{
		Name:    sp("Heavy Stapler"),
		Present: present("name"),
	}, false)
	fields := fieldErrors(t, err)
	assert.Contains(t, fields, "description")
	assert.Contains(t, fields, "price")
	assert.Contains(t, fields, "stock_quantity")
	assert.Contains(t, fields, "category_id")
	assert.NotContains(t, fields, "name")

	input := validProduct("Heavy Stapler", category)
	input.Present = present("name", "description", "price", "stock_quantity", "category_id")
	updated, err := f.products.UpdateProduct(product.Slug, input, false)
	require.NoError(t, err)
	assert.Equal(t, "Heavy Stapler", updated.Name)
	assert.Equal(t, product.SKU, updated.SKU)
}

func TestProductService_LookupAndSoftDelete(t *testing.T) {
	f := setupCatalog(t)
	category := f.category(t, "Lighting", true)
	product := f.product(t, validProduct("Desk Lamp", category))

	bySlug, err := f.products.GetProduct(product.Slug, false)
	require.NoError(t, err)
	byID, err := f.products.GetProduct(product.ID.String(), false)
	require.NoError(t, err)
	assert.Equal(t, bySlug, byID)

	_, err = f.products.GetProduct("11111111-2222-3333-4444-55555555555x", false)
	assert.ErrorIs(t, err, ErrProductNotFound)

	require.NoError(t, f.products.DeleteProduct(product.Slug))

	_, err = f.products.GetProduct(product.Slug, false)
	assert.ErrorIs(t, err, ErrProductNotFound)

	hidden, err := f.products.GetProduct(product.Slug, true)
	require.NoError(t, err)
	assert.False(t, hidden.IsActive)

	products, total, err := f.products.ListProducts(repository.ProductFilter{ActiveOnly: true})
	require.NoError(t, err)
	assert.Zero(t, total)
	assert.Empty(t, products)

	// Admins can reactivate.
	reactivated, err := f.products.UpdateProduct(product.Slug, ProductInput{
		IsActive: bp(true),
		Present:  present("is_active"),
	}, true)
	require.NoError(t, err)
	assert.True(t, reactivated.IsActive)

	assert.ErrorIs(t, f.products.DeleteProduct("missing"), ErrProductNotFound)
}
