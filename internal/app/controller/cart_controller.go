package controller

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/ikkim/catalog-backend/internal/app/service"
	apperrors "github.com/ikkim/catalog-backend/internal/errors"
	"github.com/ikkim/catalog-backend/internal/middleware"
	"github.com/ikkim/catalog-backend/pkg/logger"
)

type CartController struct {
	cartService service.CartService
	presenter   *Presenter
}

func NewCartController(cartService service.CartService, presenter *Presenter) *CartController {
	return &CartController{
		cartService: cartService,
		presenter:   presenter,
	}
}

type AddToCartRequest struct {
	ProductID string `json:"product_id" binding:"required"`
	// Defaults to 1 when omitted.
	Quantity *int `json:"quantity"`
}

type UpdateCartRequest struct {
	Quantity *int `json:"quantity" binding:"required"`
}

func (ctrl *CartController) respondError(c *gin.Context, log *logger.Logger, userID uint, err error, action string) {
	fields := map[string]interface{}{
		"user_id": userID,
		"item_id": c.Param("item_id"),
	}
	switch {
	case errors.Is(err, service.ErrInvalidQuantity):
		log.Warn("Invalid cart quantity", fields)
		apperrors.RespondWithValidationError(c, map[string][]string{
			"quantity": {"Quantity must be at least 1."},
		})
	case errors.Is(err, service.ErrProductNotFound):
		log.Warn("Product not found for cart", fields)
		apperrors.RespondWithValidationError(c, map[string][]string{
			"product_id": {"Product not found."},
		})
	case errors.Is(err, service.ErrProductInactive):
		log.Warn("Product not available for cart", fields)
		apperrors.BadRequest(c, apperrors.CartProductInactive, "Product is not available.")
	case errors.Is(err, service.ErrInsufficientStock):
		log.Warn("Insufficient stock for cart", fields)
		apperrors.BadRequest(c, apperrors.CartInsufficientStock, "Insufficient stock")
	case errors.Is(err, service.ErrCartItemNotFound):
		log.Warn("Cart item not found", fields)
		apperrors.NotFound(c, apperrors.ResourceNotFound, "")
	default:
		log.Error("Failed to "+action, err, fields)
		apperrors.InternalError(c, "")
	}
}

func requireUser(c *gin.Context, log *logger.Logger) (uint, bool) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		log.Warn("Unauthorized access to cart", nil)
		apperrors.Unauthorized(c, "")
		return 0, false
	}
	return userID, true
}

// itemID parses the path id. Anything but a UUID matches no item.
func itemID(c *gin.Context, log *logger.Logger) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("item_id"))
	if err != nil {
		log.Warn("Invalid cart item ID format", map[string]interface{}{
			"item_id": c.Param("item_id"),
		})
		apperrors.NotFound(c, apperrors.ResourceNotFound, "")
		return uuid.Nil, false
	}
	return id, true
}

// GetCart returns the user's cart
// GET /api/v1/carts/
func (ctrl *CartController) GetCart(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	userID, ok := requireUser(c, log)
	if !ok {
		return
	}

	cartItems, err := ctrl.cartService.GetUserCart(userID)
	if err != nil {
		ctrl.respondError(c, log, userID, err, "fetch cart")
		return
	}

	cart := ctrl.presenter.Cart(cartItems, c.Request)
	log.Info("Cart fetched successfully", map[string]interface{}{
		"user_id": userID,
		"count":   cart.Count,
		"total":   cart.Total,
	})

	c.JSON(http.StatusOK, cart)
}

// AddToCart adds a product or raises the quantity already in the cart
// POST /api/v1/carts/
func (ctrl *CartController) AddToCart(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	userID, ok := requireUser(c, log)
	if !ok {
		return
	}

	var req AddToCartRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Warn("Invalid add to cart request", map[string]interface{}{
			"user_id": userID,
			"error":   err.Error(),
		})
		apperrors.RespondWithValidationError(c, map[string][]string{
			"product_id": {"This field is required."},
		})
		return
	}

	productID, err := uuid.Parse(req.ProductID)
	if err != nil {
		apperrors.RespondWithValidationError(c, map[string][]string{
			"product_id": {"Must be a valid UUID."},
		})
		return
	}
	quantity := 1
	if req.Quantity != nil {
		quantity = *req.Quantity
	}

	log.Debug("Adding item to cart", map[string]interface{}{
		"user_id":    userID,
		"product_id": productID,
		"quantity":   quantity,
	})

	item, err := ctrl.cartService.AddToCart(userID, productID, quantity)
	if err != nil {
		ctrl.respondError(c, log, userID, err, "add to cart")
		return
	}

	log.Info("Item added to cart", map[string]interface{}{
		"user_id":  userID,
		"item_id":  item.ID,
		"quantity": item.Quantity,
	})

	c.JSON(http.StatusCreated, ctrl.presenter.CartItem(item, c.Request))
}

// UpdateCartItem sets the quantity of one item
// PUT/PATCH /api/v1/carts/:item_id/
func (ctrl *CartController) UpdateCartItem(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	userID, ok := requireUser(c, log)
	if !ok {
		return
	}
	id, ok := itemID(c, log)
	if !ok {
		return
	}

	var req UpdateCartRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Warn("Invalid update cart request", map[string]interface{}{
			"user_id": userID,
			"error":   err.Error(),
		})
		apperrors.RespondWithValidationError(c, map[string][]string{
			"quantity": {"This field is required."},
		})
		return
	}

	item, err := ctrl.cartService.UpdateCartItem(userID, id, *req.Quantity)
	if err != nil {
		ctrl.respondError(c, log, userID, err, "update cart item")
		return
	}

	c.JSON(http.StatusOK, ctrl.presenter.CartItem(item, c.Request))
}

// RemoveFromCart deletes one item
// DELETE /api/v1/carts/:item_id/
func (ctrl *CartController) RemoveFromCart(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	userID, ok := requireUser(c, log)
	if !ok {
		return
	}
	id, ok := itemID(c, log)
	if !ok {
		return
	}

	if err := ctrl.cartService.RemoveFromCart(userID, id); err != nil {
		ctrl.respondError(c, log, userID, err, "remove cart item")
		return
	}

	c.Status(http.StatusNoContent)
}

// ClearCart empties the user's cart
// DELETE /api/v1/carts/
func (ctrl *CartController) ClearCart(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	userID, ok := requireUser(c, log)
	if !ok {
		return
	}

	if err := ctrl.cartService.ClearCart(userID); err != nil {
		ctrl.respondError(c, log, userID, err, "clear cart")
		return
	}

	log.Info("Cart cleared", map[string]interface{}{
		"user_id": userID,
	})

	c.Status(http.StatusNoContent)
}
