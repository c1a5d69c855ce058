package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ProductImage struct {
	ID        uuid.UUID `gorm:"type:uuid;primarykey" json:"id"`
	ProductID uuid.UUID `gorm:"type:uuid;not null;index" json:"product_id"`
	Image     string    `gorm:"type:varchar(255);not null" json:"image"`
	AltText   string    `gorm:"type:varchar(200)" json:"alt_text"`
	IsPrimary bool      `gorm:"not null" json:"is_primary"`
	// "order" is reserved in SQL.
	Order     int       `gorm:"column:sort_order;not null" json:"order"`
	CreatedAt time.Time `json:"created_at"`
}

func (ProductImage) TableName() string {
	return "product_images"
}

func (i *ProductImage) BeforeCreate(tx *gorm.DB) error {
	if i.ID == uuid.Nil {
		i.ID = uuid.New()
	}
	return nil
}
