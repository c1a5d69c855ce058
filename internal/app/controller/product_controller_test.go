package controller

import (
	"net/http"
	"testing"

	"github.com/ikkim/catalog-backend/internal/app/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func resultNames(t *testing.T, body map[string]interface{}) []string {
	t.Helper()
	results, ok := body["results"].([]interface{})
	require.True(t, ok)
	names := make([]string, 0, len(results))
	for _, r := range results {
		names = append(names, r.(map[string]interface{})["name"].(string))
	}
	return names
}

func TestProductController_ListPagination(t *testing.T) {
	f := setupControllers(t)
	category := f.category(t, "Lighting", "lighting", true)
	for _, name := range []string{"Lamp One", "Lamp Two", "Lamp Three"} {
		f.product(t, name, "10.00", 5, category)
	}
	router := f.engine(0, "")

	w := perform(t, router, http.MethodGet, "/products/?ordering=name", nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	body := decodeBody(t, w)
	assert.Equal(t, float64(3), body["count"])
	assert.Equal(t, []string{"Lamp One", "Lamp Three"}, resultNames(t, body))
	assert.Equal(t, "http://example.com/products/?ordering=name&page=2", body["next"])
	assert.Nil(t, body["previous"])

	w = perform(t, router, http.MethodGet, "/products/?ordering=name&page=2", nil)
	require.Equal(t, http.StatusOK, w.Code)
	body = decodeBody(t, w)
	assert.Equal(t, []string{"Lamp Two"}, resultNames(t, body))
	assert.Nil(t, body["next"])
	assert.Equal(t, "http://example.com/products/?ordering=name", body["previous"])

	w = perform(t, router, http.MethodGet, "/products/?page_size=50", nil)
	assert.Len(t, resultNames(t, decodeBody(t, w)), 3)

	for _, page := range []string{"3", "0", "abc", "last"} {
		w = perform(t, router, http.MethodGet, "/products/?page="+page, nil)
		assert.Equal(t, http.StatusNotFound, w.Code, page)
	}
}

func TestProductController_ListVisibility(t *testing.T) {
	f := setupControllers(t)
	category := f.category(t, "Lighting", "lighting", true)
	f.product(t, "Visible Lamp", "10.00", 5, category)
	hidden := f.product(t, "Hidden Lamp", "10.00", 5, category)
	require.NoError(t, f.products.DeleteProduct(hidden.ID.String()))

	w := perform(t, f.engine(0, ""), http.MethodGet, "/products/", nil)
	assert.Equal(t, []string{"Visible Lamp"}, resultNames(t, decodeBody(t, w)))

	w = perform(t, f.admin(t), http.MethodGet, "/products/?ordering=name", nil)
	assert.Equal(t, []string{"Hidden Lamp", "Visible Lamp"}, resultNames(t, decodeBody(t, w)))
}

func TestProductController_ListFilters(t *testing.T) {
	f := setupControllers(t)
	lighting := f.category(t, "Lighting", "lighting", true)
	tables := f.category(t, "Tables", "tables", true)
	f.product(t, "Desk Lamp", "19.99", 0, lighting)
	f.product(t, "Floor Lamp", "49.00", 30, lighting)
	f.product(t, "Oak Table", "250.00", 3, tables)
	router := f.engine(0, "")

	tests := []struct {
		name  string
		query string
		want  []string
	}{
		{"category by slug", "?category=tables", []string{"Oak Table"}},
		{"category by id", "?category=" + lighting.ID.String() + "&ordering=name", []string{"Desk Lamp", "Floor Lamp"}},
		{"price range", "?min_price=20&max_price=100", []string{"Floor Lamp"}},
		{"price gte", "?price__gte=40&ordering=-price", []string{"Oak Table", "Floor Lamp"}},
		{"out of stock", "?out_of_stock=true", []string{"Desk Lamp"}},
		{"search", "?search=lamp&ordering=price", []string{"Desk Lamp", "Floor Lamp"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := perform(t, router, http.MethodGet, "/products/"+tt.query, nil)
			require.Equal(t, http.StatusOK, w.Code, w.Body.String())
			assert.Equal(t, tt.want, resultNames(t, decodeBody(t, w)))
		})
	}
}

func TestProductController_ListInvalidFilter(t *testing.T) {
	f := setupControllers(t)

	w := perform(t, f.engine(0, ""), http.MethodGet, "/products/?min_price=cheap&in_stock=maybe", nil)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	fields := fieldsOf(t, w)
	assert.Contains(t, fields, "min_price")
	assert.Contains(t, fields, "in_stock")
}

func TestProductController_GetProduct(t *testing.T) {
	f := setupControllers(t)
	category := f.category(t, "Lighting", "lighting", true)
	product := f.product(t, "Desk Lamp", "19.99", 5, category)
	router := f.engine(0, "")

	for _, token := range []string{product.ID.String(), product.Slug} {
		w := perform(t, router, http.MethodGet, "/products/"+token+"/", nil)
		require.Equal(t, http.StatusOK, w.Code, token)
		body := decodeBody(t, w)
		assert.Equal(t, "Desk Lamp", body["name"])
		assert.Equal(t, "19.99", body["price"])
		assert.Equal(t, "Lighting", body["category"].(map[string]interface{})["name"])
		assert.Equal(t, string(model.StockLow), body["stock_status"])
	}

	w := perform(t, router, http.MethodGet, "/products/no-such-product/", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestProductController_GetInactiveProduct(t *testing.T) {
	f := setupControllers(t)
	category := f.category(t, "Lighting", "lighting", true)
	product := f.product(t, "Desk Lamp", "19.99", 5, category)
	require.NoError(t, f.products.DeleteProduct(product.ID.String()))
	path := "/products/" + product.ID.String() + "/"

	w := perform(t, f.engine(0, ""), http.MethodGet, path, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = perform(t, f.admin(t), http.MethodGet, path, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, false, decodeBody(t, w)["is_active"])
}

func TestProductController_CreateProduct(t *testing.T) {
	f := setupControllers(t)
	category := f.category(t, "Lighting", "lighting", true)
	router := f.admin(t)

	w := perform(t, router, http.MethodPost, "/products/", map[string]interface{}{
		"name":           "Desk Lamp",
		"description":    "Adjustable arm desk lamp.",
		"price":          "10.50",
		"compare_price":  14,
		"stock_quantity": 20,
		"category_id":    category.ID.String(),
	})

	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	body := decodeBody(t, w)
	assert.Equal(t, "desk-lamp", body["slug"])
	assert.Equal(t, "10.50", body["price"])
	assert.Equal(t, "14.00", body["compare_price"])
	assert.Equal(t, true, body["is_on_sale"])
	assert.Equal(t, float64(25), body["discount_percentage"])
	assert.Regexp(t, `^PRD-[0-9A-F]{8}$`, body["sku"])
	assert.Equal(t, float64(model.DefaultLowStockThreshold), body["low_stock_threshold"])
}

func TestProductController_CreateProductValidation(t *testing.T) {
	f := setupControllers(t)
	category := f.category(t, "Lighting", "lighting", true)
	inactive := f.category(t, "Archive", "archive", false)
	f.product(t, "Desk Lamp", "10.00", 5, category)
	router := f.admin(t)

	valid := func() map[string]interface{} {
		return map[string]interface{}{
			"name":           "Floor Lamp",
			"description":    "Tall lamp for reading corners.",
			"price":          "49.00",
			"stock_quantity": 10,
			"category_id":    category.ID.String(),
		}
	}

	tests := []struct {
		name   string
		mutate func(map[string]interface{})
		field  string
	}{
		{"missing name", func(b map[string]interface{}) { delete(b, "name") }, "name"},
		{"duplicate name", func(b map[string]interface{}) { b["name"] = "Desk Lamp" }, "name"},
		{"short description", func(b map[string]interface{}) { b["description"] = "short" }, "description"},
		{"zero price", func(b map[string]interface{}) { b["price"] = "0" }, "price"},
		{"three decimals", func(b map[string]interface{}) { b["price"] = "1.234" }, "price"},
		{"compare below price", func(b map[string]interface{}) { b["compare_price"] = "10.00" }, "compare_price"},
		{"threshold over stock", func(b map[string]interface{}) { b["low_stock_threshold"] = 11 }, "low_stock_threshold"},
		{"inactive category", func(b map[string]interface{}) { b["category_id"] = inactive.ID.String() }, "category_id"},
		{"wrong type", func(b map[string]interface{}) { b["stock_quantity"] = "many" }, "stock_quantity"},
		{"identifier shaped slug", func(b map[string]interface{}) { b["slug"] = "12345678-1234-1234-1234-123456789012" }, "slug"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			body := valid()
			tt.mutate(body)

			w := perform(t, router, http.MethodPost, "/products/", body)

			require.Equal(t, http.StatusBadRequest, w.Code, w.Body.String())
			assert.Contains(t, fieldsOf(t, w), tt.field)
		})
	}

	w := perform(t, router, http.MethodPost, "/products/", `{"name":`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "JSON parse error.", decodeBody(t, w)["message"])
}

func TestProductController_UpdateProduct(t *testing.T) {
	f := setupControllers(t)
	category := f.category(t, "Lighting", "lighting", true)
	product := f.product(t, "Desk Lamp", "10.00", 5, category)
	router := f.admin(t)
	path := "/products/" + product.Slug + "/"

	w := perform(t, router, http.MethodPatch, path, map[string]interface{}{"price": "12.00"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	body := decodeBody(t, w)
	assert.Equal(t, "12.00", body["price"])
	assert.Equal(t, "Desk Lamp", body["name"])

	// PUT requires the full write set
	w = perform(t, router, http.MethodPut, path, map[string]interface{}{"price": "12.00"})
	require.Equal(t, http.StatusBadRequest, w.Code)
	fields := fieldsOf(t, w)
	assert.Contains(t, fields, "name")
	assert.Contains(t, fields, "stock_quantity")

	w = perform(t, router, http.MethodPatch, "/products/"+"00000000-0000-0000-0000-000000000000/", map[string]interface{}{"price": "1.00"})
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestProductController_DeleteProduct(t *testing.T) {
	f := setupControllers(t)
	category := f.category(t, "Lighting", "lighting", true)
	product := f.product(t, "Desk Lamp", "10.00", 5, category)
	router := f.admin(t)

	w := perform(t, router, http.MethodDelete, "/products/"+product.ID.String()+"/", nil)
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Empty(t, w.Body.String())

	var stored model.Product
	require.NoError(t, f.db.First(&stored, "id = ?", product.ID).Error)
	assert.False(t, stored.IsActive)

	w = perform(t, router, http.MethodDelete, "/products/not-a-token/", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}
