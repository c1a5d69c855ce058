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
	ErrCartItemNotFound  = errors.New("cart item not found")
	ErrInsufficientStock = errors.New("insufficient stock")
	ErrProductInactive   = errors.New("product is not available")
	ErrInvalidQuantity   = errors.New("quantity must be at least 1")
)

// CartTotal sums price times quantity over items.
func CartTotal(items []model.CartItem) decimal.Decimal {
	total := decimal.Zero
	for _, item := range items {
		total = total.Add(item.Product.Price.Mul(decimal.NewFromInt(int64(item.Quantity))))
	}
	return total
}

type CartService interface {
	GetUserCart(userID uint) ([]model.CartItem, error)
	AddToCart(userID uint, productID uuid.UUID, quantity int) (*model.CartItem, error)
	UpdateCartItem(userID uint, cartItemID uuid.UUID, quantity int) (*model.CartItem, error)
	RemoveFromCart(userID uint, cartItemID uuid.UUID) error
	ClearCart(userID uint) error
}

type cartService struct {
	cartRepo    repository.CartRepository
	productRepo repository.ProductRepository
}

func NewCartService(cartRepo repository.CartRepository, productRepo repository.ProductRepository) CartService {
	return &cartService{
		cartRepo:    cartRepo,
		productRepo: productRepo,
	}
}

func (s *cartService) GetUserCart(userID uint) ([]model.CartItem, error) {
	logger.Debug("Fetching user cart", map[string]interface{}{
		"user_id": userID,
	})

	cartItems, err := s.cartRepo.FindByUserID(userID)
	if err != nil {
		logger.Error("Failed to fetch user cart", err, map[string]interface{}{
			"user_id": userID,
		})
		return nil, err
	}

	logger.Info("User cart fetched successfully", map[string]interface{}{
		"user_id": userID,
		"count":   len(cartItems),
	})
	return cartItems, nil
}

func (s *cartService) purchasable(productID uuid.UUID) (*model.Product, error) {
	product, err := s.productRepo.FindByID(productID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			logger.Warn("Cart product not found", map[string]interface{}{
				"product_id": productID,
			})
			return nil, ErrProductNotFound
		}
		logger.Error("Failed to fetch product", err, map[string]interface{}{
			"product_id": productID,
		})
		return nil, err
	}
	if !product.IsActive {
		logger.Warn("Cart product is inactive", map[string]interface{}{
			"product_id": productID,
		})
		return nil, ErrProductInactive
	}
	return product, nil
}

// AddToCart keeps one row per user and product; repeat adds sum the quantity.
func (s *cartService) AddToCart(userID uint, productID uuid.UUID, quantity int) (*model.CartItem, error) {
	return s.addToCart(userID, productID, quantity, true)
}

func (s *cartService) addToCart(userID uint, productID uuid.UUID, quantity int, retry bool) (*model.CartItem, error) {
	logger.Info("Adding item to cart", map[string]interface{}{
		"user_id":    userID,
		"product_id": productID,
		"quantity":   quantity,
	})

	if quantity < 1 {
		return nil, ErrInvalidQuantity
	}

	product, err := s.purchasable(productID)
	if err != nil {
		return nil, err
	}

	existingItem, err := s.cartRepo.FindByUserAndProduct(userID, productID)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		logger.Error("Failed to check existing cart item", err, map[string]interface{}{
			"user_id":    userID,
			"product_id": productID,
		})
		return nil, err
	}

	inCart := 0
	if existingItem != nil {
		inCart = existingItem.Quantity
	}

	// compare against remaining stock so a huge quantity cannot overflow the sum
	if quantity > product.StockQuantity-inCart {
		logger.Warn("Cannot add to cart: insufficient product stock", map[string]interface{}{
			"user_id":    userID,
			"product_id": productID,
			"requested":  quantity,
			"in_cart":    inCart,
			"available":  product.StockQuantity,
		})
		return nil, ErrInsufficientStock
	}
	requestedQuantity := inCart + quantity

	if existingItem != nil {
		logger.Debug("Updating existing cart item", map[string]interface{}{
			"cart_item_id": existingItem.ID,
			"old_qty":      existingItem.Quantity,
			"new_qty":      requestedQuantity,
		})
		existingItem.Quantity = requestedQuantity
		if err := s.cartRepo.Update(existingItem); err != nil {
			logger.Error("Failed to update cart item", err, map[string]interface{}{
				"cart_item_id": existingItem.ID,
			})
			return nil, err
		}
		return s.reload(existingItem.ID)
	}

	cartItem := &model.CartItem{
		UserID:    userID,
		ProductID: productID,
		Quantity:  quantity,
	}

	if err := s.cartRepo.Create(cartItem); err != nil {
		if retry && apperrors.IsUniqueViolation(err) {
			// A concurrent add created the row; retry once as an increment.
			return s.addToCart(userID, productID, quantity, false)
		}
		logger.Error("Failed to create cart item", err, map[string]interface{}{
			"user_id":    userID,
			"product_id": productID,
		})
		return nil, err
	}

	logger.Info("Cart item added successfully", map[string]interface{}{
		"cart_item_id": cartItem.ID,
	})
	return s.reload(cartItem.ID)
}

func (s *cartService) reload(id uuid.UUID) (*model.CartItem, error) {
	return s.cartRepo.FindByID(id)
}

// owned returns the item only when it belongs to userID.
func (s *cartService) owned(userID uint, cartItemID uuid.UUID) (*model.CartItem, error) {
	cartItem, err := s.cartRepo.FindByID(cartItemID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			logger.Warn("Cart item not found", map[string]interface{}{
				"cart_item_id": cartItemID,
			})
			return nil, ErrCartItemNotFound
		}
		logger.Error("Failed to fetch cart item", err, map[string]interface{}{
			"cart_item_id": cartItemID,
		})
		return nil, err
	}

	if cartItem.UserID != userID {
		logger.Warn("Cart item access denied: ownership mismatch", map[string]interface{}{
			"user_id":      userID,
			"cart_item_id": cartItemID,
			"owner_id":     cartItem.UserID,
		})
		return nil, ErrCartItemNotFound
	}
	return cartItem, nil
}

func (s *cartService) UpdateCartItem(userID uint, cartItemID uuid.UUID, quantity int) (*model.CartItem, error) {
	logger.Info("Updating cart item", map[string]interface{}{
		"user_id":      userID,
		"cart_item_id": cartItemID,
		"quantity":     quantity,
	})

	if quantity < 1 {
		return nil, ErrInvalidQuantity
	}

	cartItem, err := s.owned(userID, cartItemID)
	if err != nil {
		return nil, err
	}

	product, err := s.purchasable(cartItem.ProductID)
	if err != nil {
		return nil, err
	}

	if product.StockQuantity < quantity {
		logger.Warn("Cannot update cart item: insufficient product stock", map[string]interface{}{
			"cart_item_id": cartItemID,
			"requested":    quantity,
			"available":    product.StockQuantity,
		})
		return nil, ErrInsufficientStock
	}

	cartItem.Quantity = quantity
	if err := s.cartRepo.Update(cartItem); err != nil {
		logger.Error("Failed to update cart item", err, map[string]interface{}{
			"cart_item_id": cartItemID,
		})
		return nil, err
	}

	logger.Info("Cart item updated successfully", map[string]interface{}{
		"cart_item_id": cartItemID,
	})
	return s.reload(cartItemID)
}

func (s *cartService) RemoveFromCart(userID uint, cartItemID uuid.UUID) error {
	logger.Info("Removing cart item", map[string]interface{}{
		"user_id":      userID,
		"cart_item_id": cartItemID,
	})

	if _, err := s.owned(userID, cartItemID); err != nil {
		return err
	}

	if err := s.cartRepo.Delete(cartItemID); err != nil {
		logger.Error("Failed to delete cart item", err, map[string]interface{}{
			"cart_item_id": cartItemID,
		})
		return err
	}

	logger.Info("Cart item removed", map[string]interface{}{
		"cart_item_id": cartItemID,
	})
	return nil
}

func (s *cartService) ClearCart(userID uint) error {
	logger.Info("Clearing user cart", map[string]interface{}{
		"user_id": userID,
	})

	if err := s.cartRepo.DeleteByUserID(userID); err != nil {
		logger.Error("Failed to clear user cart", err, map[string]interface{}{
			"user_id": userID,
		})
		return err
	}
	return nil
}
