package router

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/ikkim/catalog-backend/config"
	"github.com/ikkim/catalog-backend/internal/app/controller"
	"github.com/ikkim/catalog-backend/internal/middleware"
)

type Router struct {
	authController         *controller.AuthController
	productController      *controller.ProductController
	categoryController     *controller.CategoryController
	productImageController *controller.ProductImageController
	cartController         *controller.CartController
	uploadController       *controller.UploadController
	authMiddleware         *middleware.AuthMiddleware
	config                 *config.Config
}

func NewRouter(
	authController *controller.AuthController,
	productController *controller.ProductController,
	categoryController *controller.CategoryController,
	productImageController *controller.ProductImageController,
	cartController *controller.CartController,
	uploadController *controller.UploadController,
	authMiddleware *middleware.AuthMiddleware,
	cfg *config.Config,
) *Router {
	return &Router{
		authController:         authController,
		productController:      productController,
		categoryController:     categoryController,
		productImageController: productImageController,
		cartController:         cartController,
		uploadController:       uploadController,
		authMiddleware:         authMiddleware,
		config:                 cfg,
	}
}

func (r *Router) Setup() *gin.Engine {
	gin.SetMode(r.config.Server.GinMode)

	router := gin.New()

	router.Use(gin.Recovery())
	router.Use(middleware.LoggingMiddleware())
	router.Use(corsMiddleware(r.config.CORS.AllowedOrigins))

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "healthy",
			"message": "Catalog API is running",
		})
	})

	// Locally stored media when no MEDIA_BASE_URL is configured
	if r.config.Media.BaseURL == "" && r.config.Media.LocalDir != "" {
		router.Static(r.config.Media.LocalPrefix, r.config.Media.LocalDir)
	}

	admin := []gin.HandlerFunc{
		r.authMiddleware.Authenticate(),
		r.authMiddleware.RequireRole("admin"),
	}
	withAdmin := func(h gin.HandlerFunc) []gin.HandlerFunc {
		return append(append([]gin.HandlerFunc{}, admin...), h)
	}

	v1 := router.Group("/api/v1")
	{
		auth := v1.Group("/auth")
		{
			auth.POST("/register", r.authController.Register)
			auth.POST("/login", r.authController.Login)
			auth.GET("/me", r.authMiddleware.Authenticate(), r.authController.GetMe)
			auth.POST("/logout", r.authMiddleware.Authenticate(), r.authController.Logout)
		}

		products := v1.Group("/products")
		{
			categories := products.Group("/categories")
			{
				categories.GET("/", r.authMiddleware.OptionalAuthenticate(), r.categoryController.ListCategories)
				categories.POST("/", withAdmin(r.categoryController.CreateCategory)...)
				categories.GET("/:id/", r.authMiddleware.OptionalAuthenticate(), r.categoryController.GetCategory)
				categories.PUT("/:id/", withAdmin(r.categoryController.UpdateCategory)...)
				categories.PATCH("/:id/", withAdmin(r.categoryController.UpdateCategory)...)
				categories.DELETE("/:id/", withAdmin(r.categoryController.DeleteCategory)...)
			}

			products.GET("/", r.authMiddleware.OptionalAuthenticate(), r.productController.ListProducts)
			products.POST("/", withAdmin(r.productController.CreateProduct)...)
			products.GET("/:id/", r.authMiddleware.OptionalAuthenticate(), r.productController.GetProduct)
			products.PUT("/:id/", withAdmin(r.productController.UpdateProduct)...)
			products.PATCH("/:id/", withAdmin(r.productController.UpdateProduct)...)
			products.DELETE("/:id/", withAdmin(r.productController.DeleteProduct)...)

			products.POST("/:id/images/", withAdmin(r.productImageController.AddImage)...)
			products.PATCH("/:id/images/:image_id/", withAdmin(r.productImageController.UpdateImage)...)
			products.DELETE("/:id/images/:image_id/", withAdmin(r.productImageController.DeleteImage)...)
		}

		carts := v1.Group("/carts")
		carts.Use(r.authMiddleware.Authenticate())
		{
			carts.GET("/", r.cartController.GetCart)
			carts.POST("/", r.cartController.AddToCart)
			carts.DELETE("/", r.cartController.ClearCart)
			carts.PUT("/:item_id/", r.cartController.UpdateCartItem)
			carts.PATCH("/:item_id/", r.cartController.UpdateCartItem)
			carts.DELETE("/:item_id/", r.cartController.RemoveFromCart)
		}

		if r.uploadController != nil {
			uploads := v1.Group("/uploads")
			uploads.POST("/presigned-url", withAdmin(r.uploadController.GeneratePresignedURL)...)
		}
	}

	return router
}

func corsMiddleware(allowedOrigins []string) gin.HandlerFunc {
	return func(c *gin.Context) {
		origin := c.GetHeader("Origin")

		allowed := false
		for _, allowedOrigin := range allowedOrigins {
			if origin == allowedOrigin || allowedOrigin == "*" {
				allowed = true
				break
			}
		}

		if allowed {
			c.Writer.Header().Set("Access-Control-Allow-Origin", origin)
			c.Writer.Header().Set("Vary", "Origin")
		}

		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, Authorization, accept, origin, Cache-Control, X-Requested-With, X-Request-ID")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET, PUT, DELETE, PATCH")

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}
