package controller

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/ikkim/catalog-backend/internal/app/model"
	"github.com/ikkim/catalog-backend/internal/app/repository"
	"github.com/ikkim/catalog-backend/internal/app/service"
	"github.com/ikkim/catalog-backend/internal/db"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type controllerFixture struct {
	db         *gorm.DB
	products   service.ProductService
	categories service.CategoryService
	images     service.ProductImageService
	carts      service.CartService
	paginator  *Paginator
	presenter  *Presenter
}

func setupControllers(t *testing.T) *controllerFixture {
	testDB, err := db.SetupTestDB()
	require.NoError(t, err)
	t.Cleanup(func() {
		db.CleanupTestDB(testDB)
	})

	productRepo := repository.NewProductRepository(testDB)
	categoryRepo := repository.NewCategoryRepository(testDB)

	return &controllerFixture{
		db:         testDB,
		products:   service.NewProductService(productRepo, categoryRepo),
		categories: service.NewCategoryService(categoryRepo),
		images:     service.NewProductImageService(productRepo, repository.NewProductImageRepository(testDB)),
		carts:      service.NewCartService(repository.NewCartRepository(testDB), productRepo),
		paginator:  NewPaginator(2, 3),
		presenter:  NewPresenter(nil),
	}
}

// engine mounts the catalog handlers behind a stub identity. A zero userID is anonymous.
func (f *controllerFixture) engine(userID uint, role model.UserRole) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(func(c *gin.Context) {
		if userID != 0 {
			c.Set("user_id", userID)
			c.Set("user_role", role)
		}
		c.Next()
	})

	products := NewProductController(f.products, f.paginator, f.presenter)
	categories := NewCategoryController(f.categories, f.paginator, f.presenter)
	images := NewProductImageController(f.images, f.presenter)
	carts := NewCartController(f.carts, f.presenter)

	router.GET("/products/categories/", categories.ListCategories)
	router.POST("/products/categories/", categories.CreateCategory)
	router.GET("/products/categories/:id/", categories.GetCategory)
	router.PUT("/products/categories/:id/", categories.UpdateCategory)
	router.PATCH("/products/categories/:id/", categories.UpdateCategory)
	router.DELETE("/products/categories/:id/", categories.DeleteCategory)

	router.GET("/products/", products.ListProducts)
	router.POST("/products/", products.CreateProduct)
	router.GET("/products/:id/", products.GetProduct)
	router.PUT("/products/:id/", products.UpdateProduct)
	router.PATCH("/products/:id/", products.UpdateProduct)
	router.DELETE("/products/:id/", products.DeleteProduct)
	router.POST("/products/:id/images/", images.AddImage)
	router.PATCH("/products/:id/images/:image_id/", images.UpdateImage)
	router.DELETE("/products/:id/images/:image_id/", images.DeleteImage)

	router.GET("/carts/", carts.GetCart)
	router.POST("/carts/", carts.AddToCart)
	router.DELETE("/carts/", carts.ClearCart)
	router.PUT("/carts/:item_id/", carts.UpdateCartItem)
	router.PATCH("/carts/:item_id/", carts.UpdateCartItem)
	router.DELETE("/carts/:item_id/", carts.RemoveFromCart)

	return router
}

func (f *controllerFixture) admin(t *testing.T) *gin.Engine {
	return f.engine(f.user(t, model.RoleAdmin).ID, model.RoleAdmin)
}

func (f *controllerFixture) user(t *testing.T, role model.UserRole) *model.User {
	u := &model.User{
		Email:        uuid.NewString()[:8] + "@example.com",
		PasswordHash: "hashed-password",
		Name:         "Test User",
		Role:         role,
	}
	require.NoError(t, f.db.Create(u).Error)
	return u
}

func (f *controllerFixture) category(t *testing.T, name, slug string, active bool) *model.Category {
	c := &model.Category{Name: name, Slug: slug, IsActive: active}
	require.NoError(t, f.db.Create(c).Error)
	return c
}

func (f *controllerFixture) product(t *testing.T, name, price string, stock int, category *model.Category) *model.Product {
	p := decimal.RequireFromString(price)
	cid := category.ID.String()
	desc := "A sturdy product for everyday use."
	product, err := f.products.CreateProduct(service.ProductInput{
		Name:          &name,
		Description:   &desc,
		Price:         &p,
		StockQuantity: &stock,
		CategoryID:    &cid,
	})
	require.NoError(t, err)
	return product
}

func perform(t *testing.T, router http.Handler, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	switch b := body.(type) {
	case nil:
	case string:
		reader = bytes.NewBufferString(b)
	default:
		payload, err := json.Marshal(b)
		require.NoError(t, err)
		reader = bytes.NewBuffer(payload)
	}

	req := httptest.NewRequest(method, path, reader)
	if reader != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var out map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out), w.Body.String())
	return out
}

// fieldsOf returns the field error map of a 400 body.
func fieldsOf(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	body := decodeBody(t, w)
	fields, ok := body["fields"].(map[string]interface{})
	require.True(t, ok, "no fields in %s", w.Body.String())
	return fields
}

func imageInput(ref string) service.ImageInput {
	return service.ImageInput{Image: &ref}
}
