package repository

import (
	"testing"

	"github.com/ikkim/catalog-backend/internal/app/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestCategoryRepository_CreateAndFind(t *testing.T) {
	testDB := setupTestDB(t)
	repo := NewCategoryRepository(testDB)

	category := &model.Category{Name: "Outerwear", Slug: "outerwear", IsActive: true}
	require.NoError(t, repo.Create(category))

	createProduct(t, testDB, "Rain Jacket", withCategory(category))
	createProduct(t, testDB, "Parka", withCategory(category))
	createProduct(t, testDB, "Old Coat", withCategory(category), inactive())

	byID, err := repo.FindByLookup(ParseLookup(category.ID.String()), true)
	require.NoError(t, err)
	assert.Equal(t, "Outerwear", byID.Name)
	assert.Equal(t, int64(2), byID.ProductsCount)

	bySlug, err := repo.FindByLookup(ParseLookup("outerwear"), true)
	require.NoError(t, err)
	assert.Equal(t, category.ID, bySlug.ID)

	plain, err := repo.FindByID(category.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(2), plain.ProductsCount)

	count, err := repo.CountActiveProducts(category.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)
}

func TestCategoryRepository_FindByLookupVisibility(t *testing.T) {
	testDB := setupTestDB(t)
	repo := NewCategoryRepository(testDB)

	hidden := createCategory(t, testDB, "Archive", "archive", false)

	_, err := repo.FindByLookup(ParseLookup("archive"), true)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)

	found, err := repo.FindByLookup(ParseLookup(hidden.ID.String()), false)
	require.NoError(t, err)
	assert.False(t, found.IsActive)

	_, err = repo.FindByLookup(ParseLookup("00000000-0000-0000-0000-00000000000g"), false)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestCategoryRepository_List(t *testing.T) {
	testDB := setupTestDB(t)
	repo := NewCategoryRepository(testDB)

	createCategory(t, testDB, "Shoes", "shoes", true)
	createCategory(t, testDB, "Accessories", "accessories", true)
	createCategory(t, testDB, "Bags", "bags", false)
	socks := createCategory(t, testDB, "Socks", "socks", true)
	createProduct(t, testDB, "Wool Socks", withCategory(socks))

	tests := []struct {
		name   string
		filter CategoryFilter
		want   []string
		total  int64
	}{
		{"Public ordered by name", CategoryFilter{ActiveOnly: true}, []string{"Accessories", "Shoes", "Socks"}, 3},
		{"Admin sees inactive", CategoryFilter{}, []string{"Accessories", "Bags", "Shoes", "Socks"}, 4},
		{"Search", CategoryFilter{Search: "SHO"}, []string{"Shoes"}, 1},
		{"Paged", CategoryFilter{Page: Page{Limit: 2, Offset: 1}}, []string{"Bags", "Shoes"}, 4},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			categories, total, err := repo.List(tt.filter)
			require.NoError(t, err)
			names := make([]string, len(categories))
			for i, c := range categories {
				names[i] = c.Name
			}
			assert.Equal(t, tt.want, names)
			assert.Equal(t, tt.total, total)
		})
	}

	categories, _, err := repo.List(CategoryFilter{Search: "socks"})
	require.NoError(t, err)
	require.Len(t, categories, 1)
	assert.Equal(t, int64(1), categories[0].ProductsCount)
}

func TestCategoryRepository_Uniqueness(t *testing.T) {
	testDB := setupTestDB(t)
	repo := NewCategoryRepository(testDB)

	category := createCategory(t, testDB, "Jewelry", "jewelry", true)

	exists, err := repo.NameExists("JEWELRY", nil)
	require.NoError(t, err)
	assert.True(t, exists)

	exists, err = repo.NameExists("jewelry", &category.ID)
	require.NoError(t, err)
	assert.False(t, exists)

	exists, err = repo.SlugExists("jewelry", nil)
	require.NoError(t, err)
	assert.True(t, exists)
}

func TestCategoryRepository_Update(t *testing.T) {
	testDB := setupTestDB(t)
	repo := NewCategoryRepository(testDB)

	category := createCategory(t, testDB, "Hats", "hats", true)
	loaded, err := repo.FindByID(category.ID)
	require.NoError(t, err)

	loaded.Description = "Caps and beanies"
	loaded.IsActive = false
	require.NoError(t, repo.Update(loaded))

	found, err := repo.FindByLookup(ParseLookup("hats"), false)
	require.NoError(t, err)
	assert.Equal(t, "Caps and beanies", found.Description)
	assert.False(t, found.IsActive)
}
