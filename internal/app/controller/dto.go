package controller

import (
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/ikkim/catalog-backend/internal/app/model"
	"github.com/ikkim/catalog-backend/internal/app/service"
	"github.com/ikkim/catalog-backend/internal/storage"
	"github.com/shopspring/decimal"
)

// Presenter renders models into response bodies. Image references are
// resolved against the request host when no media base URL is configured.
type Presenter struct {
	media *storage.MediaResolver
}

func NewPresenter(media *storage.MediaResolver) *Presenter {
	if media == nil {
		media = storage.NewMediaResolver("", "")
	}
	return &Presenter{media: media}
}

func money(d decimal.Decimal) string {
	return d.StringFixed(2)
}

func optionalMoney(d *decimal.Decimal) *string {
	if d == nil {
		return nil
	}
	s := money(*d)
	return &s
}

type CategorySummary struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Slug        string    `json:"slug"`
	Description string    `json:"description"`
}

type ImageResponse struct {
	ID        uuid.UUID `json:"id"`
	Image     string    `json:"image"`
	ImageURL  *string   `json:"image_url"`
	AltText   string    `json:"alt_text"`
	IsPrimary bool      `json:"is_primary"`
	Order     int       `json:"order"`
}

type ProductListItem struct {
	ID                 uuid.UUID         `json:"id"`
	Name               string            `json:"name"`
	Slug               string            `json:"slug"`
	ShortDescription   string            `json:"short_description"`
	Price              string            `json:"price"`
	ComparePrice       *string           `json:"compare_price"`
	SKU                string            `json:"sku"`
	StockQuantity      int               `json:"stock_quantity"`
	CategoryName       *string           `json:"category_name"`
	CategorySlug       *string           `json:"category_slug"`
	PrimaryImage       *string           `json:"primary_image"`
	StockStatus        model.StockStatus `json:"stock_status"`
	DiscountPercentage float64           `json:"discount_percentage"`
	IsOnSale           bool              `json:"is_on_sale"`
	IsFeatured         bool              `json:"is_featured"`
	IsActive           bool              `json:"is_active"`
	CreatedAt          time.Time         `json:"created_at"`
}

type ProductDetail struct {
	ID                 uuid.UUID         `json:"id"`
	Name               string            `json:"name"`
	Slug               string            `json:"slug"`
	Description        string            `json:"description"`
	ShortDescription   string            `json:"short_description"`
	Price              string            `json:"price"`
	ComparePrice       *string           `json:"compare_price"`
	SKU                string            `json:"sku"`
	StockQuantity      int               `json:"stock_quantity"`
	LowStockThreshold  int               `json:"low_stock_threshold"`
	StockStatus        model.StockStatus `json:"stock_status"`
	Category           *CategorySummary  `json:"category"`
	Images             []ImageResponse   `json:"images"`
	IsActive           bool              `json:"is_active"`
	IsFeatured         bool              `json:"is_featured"`
	DiscountPercentage float64           `json:"discount_percentage"`
	IsOnSale           bool              `json:"is_on_sale"`
	MetaTitle          string            `json:"meta_title"`
	MetaDescription    string            `json:"meta_description"`
	CreatedAt          time.Time         `json:"created_at"`
	UpdatedAt          time.Time         `json:"updated_at"`
}

type CategoryListItem struct {
	ID            uuid.UUID `json:"id"`
	Name          string    `json:"name"`
	Slug          string    `json:"slug"`
	Description   string    `json:"description"`
	Image         string    `json:"image"`
	ProductsCount int64     `json:"products_count"`
	IsActive      bool      `json:"is_active"`
	CreatedAt     time.Time `json:"created_at"`
}

type CategoryDetail struct {
	CategoryListItem
	ImageURL  *string   `json:"image_url"`
	UpdatedAt time.Time `json:"updated_at"`
}

type CartProduct struct {
	ID           uuid.UUID         `json:"id"`
	Name         string            `json:"name"`
	Slug         string            `json:"slug"`
	Price        string            `json:"price"`
	StockStatus  model.StockStatus `json:"stock_status"`
	PrimaryImage *string           `json:"primary_image"`
}

type CartItemResponse struct {
	ID         uuid.UUID   `json:"id"`
	Product    CartProduct `json:"product"`
	Quantity   int         `json:"quantity"`
	TotalPrice string      `json:"total_price"`
	CreatedAt  time.Time   `json:"created_at"`
	UpdatedAt  time.Time   `json:"updated_at"`
}

type CartResponse struct {
	CartItems []CartItemResponse `json:"cart_items"`
	Count     int                `json:"count"`
	Total     string             `json:"total"`
}

type UserResponse struct {
	ID    uint           `json:"id"`
	Email string         `json:"email"`
	Name  string         `json:"name"`
	Role  model.UserRole `json:"role"`
}

func (p *Presenter) primaryImage(product *model.Product, r *http.Request) *string {
	img := product.PrimaryImage()
	if img == nil {
		return nil
	}
	return p.media.Resolve(img.Image, r)
}

func (p *Presenter) ProductListItem(product *model.Product, r *http.Request) ProductListItem {
	item := ProductListItem{
		ID:                 product.ID,
		Name:               product.Name,
		Slug:               product.Slug,
		ShortDescription:   product.ShortDescription,
		Price:              money(product.Price),
		ComparePrice:       optionalMoney(product.ComparePrice),
		SKU:                product.SKU,
		StockQuantity:      product.StockQuantity,
		PrimaryImage:       p.primaryImage(product, r),
		StockStatus:        product.StockStatus(),
		DiscountPercentage: product.DiscountPercentage().InexactFloat64(),
		IsOnSale:           product.IsOnSale(),
		IsFeatured:         product.IsFeatured,
		IsActive:           product.IsActive,
		CreatedAt:          product.CreatedAt,
	}
	if product.Category != nil {
		item.CategoryName = &product.Category.Name
		item.CategorySlug = &product.Category.Slug
	}
	return item
}

func (p *Presenter) ProductList(products []model.Product, r *http.Request) []ProductListItem {
	items := make([]ProductListItem, 0, len(products))
	for i := range products {
		items = append(items, p.ProductListItem(&products[i], r))
	}
	return items
}

func (p *Presenter) Image(img *model.ProductImage, r *http.Request) ImageResponse {
	return ImageResponse{
		ID:        img.ID,
		Image:     img.Image,
		ImageURL:  p.media.Resolve(img.Image, r),
		AltText:   img.AltText,
		IsPrimary: img.IsPrimary,
		Order:     img.Order,
	}
}

func (p *Presenter) ProductDetail(product *model.Product, r *http.Request) ProductDetail {
	detail := ProductDetail{
		ID:                 product.ID,
		Name:               product.Name,
		Slug:               product.Slug,
		Description:        product.Description,
		ShortDescription:   product.ShortDescription,
		Price:              money(product.Price),
		ComparePrice:       optionalMoney(product.ComparePrice),
		SKU:                product.SKU,
		StockQuantity:      product.StockQuantity,
		LowStockThreshold:  product.LowStockThreshold,
		StockStatus:        product.StockStatus(),
		Images:             make([]ImageResponse, 0, len(product.Images)),
		IsActive:           product.IsActive,
		IsFeatured:         product.IsFeatured,
		DiscountPercentage: product.DiscountPercentage().InexactFloat64(),
		IsOnSale:           product.IsOnSale(),
		MetaTitle:          product.MetaTitle,
		MetaDescription:    product.MetaDescription,
		CreatedAt:          product.CreatedAt,
		UpdatedAt:          product.UpdatedAt,
	}
	if c := product.Category; c != nil {
		detail.Category = &CategorySummary{
			ID:          c.ID,
			Name:        c.Name,
			Slug:        c.Slug,
			Description: c.Description,
		}
	}
	for i := range product.Images {
		detail.Images = append(detail.Images, p.Image(&product.Images[i], r))
	}
	return detail
}

func (p *Presenter) CategoryListItem(category *model.Category) CategoryListItem {
	return CategoryListItem{
		ID:            category.ID,
		Name:          category.Name,
		Slug:          category.Slug,
		Description:   category.Description,
		Image:         category.Image,
		ProductsCount: category.ProductsCount,
		IsActive:      category.IsActive,
		CreatedAt:     category.CreatedAt,
	}
}

func (p *Presenter) CategoryList(categories []model.Category) []CategoryListItem {
	items := make([]CategoryListItem, 0, len(categories))
	for i := range categories {
		items = append(items, p.CategoryListItem(&categories[i]))
	}
	return items
}

func (p *Presenter) CategoryDetail(category *model.Category, r *http.Request) CategoryDetail {
	return CategoryDetail{
		CategoryListItem: p.CategoryListItem(category),
		ImageURL:         p.media.Resolve(category.Image, r),
		UpdatedAt:        category.UpdatedAt,
	}
}

func (p *Presenter) CartItem(item *model.CartItem, r *http.Request) CartItemResponse {
	product := &item.Product
	return CartItemResponse{
		ID: item.ID,
		Product: CartProduct{
			ID:           product.ID,
			Name:         product.Name,
			Slug:         product.Slug,
			Price:        money(product.Price),
			StockStatus:  product.StockStatus(),
			PrimaryImage: p.primaryImage(product, r),
		},
		Quantity:   item.Quantity,
		TotalPrice: money(product.Price.Mul(decimal.NewFromInt(int64(item.Quantity)))),
		CreatedAt:  item.CreatedAt,
		UpdatedAt:  item.UpdatedAt,
	}
}

func (p *Presenter) Cart(items []model.CartItem, r *http.Request) CartResponse {
	resp := CartResponse{
		CartItems: make([]CartItemResponse, 0, len(items)),
		Count:     len(items),
		Total:     money(service.CartTotal(items)),
	}
	for i := range items {
		resp.CartItems = append(resp.CartItems, p.CartItem(&items[i], r))
	}
	return resp
}

func userResponse(user *model.User) UserResponse {
	return UserResponse{
		ID:    user.ID,
		Email: user.Email,
		Name:  user.Name,
		Role:  user.Role,
	}
}
