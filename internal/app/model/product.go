package model

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type StockStatus string

const (
	StockOutOfStock StockStatus = "out_of_stock"
	StockLow        StockStatus = "low_stock"
	StockIn         StockStatus = "in_stock"
)

const (
	SKUPrefix                = "PRD-"
	DefaultLowStockThreshold = 10
)

type Product struct {
	ID                uuid.UUID        `gorm:"type:uuid;primarykey" json:"id"`
	Name              string           `gorm:"type:varchar(200);not null;index" json:"name"`
	Slug              string           `gorm:"type:varchar(200);uniqueIndex;not null" json:"slug"`
	Description       string           `gorm:"type:text;not null" json:"description"`
	ShortDescription  string           `gorm:"type:varchar(300)" json:"short_description"`
	Price             decimal.Decimal  `gorm:"type:decimal(10,2);not null" json:"price"`
	ComparePrice      *decimal.Decimal `gorm:"type:decimal(10,2)" json:"compare_price"`
	SKU               string           `gorm:"column:sku;type:varchar(100);uniqueIndex;not null" json:"sku"`
	StockQuantity     int              `gorm:"not null" json:"stock_quantity"`
	LowStockThreshold int              `gorm:"not null" json:"low_stock_threshold"`
	CategoryID        *uuid.UUID       `gorm:"type:uuid;index" json:"category_id"`
	IsActive          bool             `gorm:"not null;index:idx_products_active_featured,priority:1" json:"is_active"`
	IsFeatured        bool             `gorm:"not null;index:idx_products_active_featured,priority:2" json:"is_featured"`
	MetaTitle         string           `gorm:"type:varchar(60)" json:"meta_title"`
	MetaDescription   string           `gorm:"type:varchar(160)" json:"meta_description"`
	CreatedAt         time.Time        `gorm:"index" json:"created_at"`
	UpdatedAt         time.Time        `json:"updated_at"`

	// Relationships
	Category *Category     `gorm:"foreignKey:CategoryID;constraint:OnUpdate:CASCADE,OnDelete:SET NULL" json:"category,omitempty"`
	Images   []ProductImage `gorm:"foreignKey:ProductID;constraint:OnDelete:CASCADE" json:"images,omitempty"`
}

func (Product) TableName() string {
	return "products"
}

func (p *Product) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	if p.SKU == "" {
		p.SKU = GenerateSKU()
	}
	return nil
}

// GenerateSKU returns PRD- followed by eight uppercase hex characters.
func GenerateSKU() string {
	raw := strings.ReplaceAll(uuid.NewString(), "-", "")
	return fmt.Sprintf("%s%s", SKUPrefix, strings.ToUpper(raw[:8]))
}

func (p *Product) StockStatus() StockStatus {
	switch {
	case p.StockQuantity == 0:
		return StockOutOfStock
	case p.StockQuantity <= p.LowStockThreshold:
		return StockLow
	default:
		return StockIn
	}
}

func (p *Product) IsOnSale() bool {
	return p.ComparePrice != nil && p.ComparePrice.GreaterThan(p.Price)
}

// DiscountPercentage is rounded to two decimal places; zero when not on sale.
func (p *Product) DiscountPercentage() decimal.Decimal {
	if !p.IsOnSale() {
		return decimal.Zero
	}
	compare := *p.ComparePrice
	return compare.Sub(p.Price).Div(compare).Mul(decimal.NewFromInt(100)).Round(2)
}

// PrimaryImage returns nil when no image is flagged primary.
func (p *Product) PrimaryImage() *ProductImage {
	for i := range p.Images {
		if p.Images[i].IsPrimary {
			return &p.Images[i]
		}
	}
	return nil
}
