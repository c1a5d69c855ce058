package repository

import (
	"github.com/google/uuid"
	"github.com/ikkim/catalog-backend/internal/app/model"
	"github.com/ikkim/catalog-backend/pkg/logger"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ProductImageRepository interface {
	Create(image *model.ProductImage) error
	Update(image *model.ProductImage) error
	FindByID(productID, imageID uuid.UUID) (*model.ProductImage, error)
	ListByProduct(productID uuid.UUID) ([]model.ProductImage, error)
	Delete(image *model.ProductImage) error
}

type productImageRepository struct {
	db *gorm.DB
}

func NewProductImageRepository(db *gorm.DB) ProductImageRepository {
	return &productImageRepository{db: db}
}

// write stores image and, when it is primary, clears the flag on its
// siblings in the same transaction. The parent row is locked so concurrent
// writers for one product serialize.
func (r *productImageRepository) write(image *model.ProductImage, create bool) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		var parent model.Product
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Select("id").
			Where("id = ?", image.ProductID).
			First(&parent).Error; err != nil {
			return err
		}

		if image.ID == uuid.Nil {
			image.ID = uuid.New()
		}

		if image.IsPrimary {
			if err := tx.Model(&model.ProductImage{}).
				Where("product_id = ? AND id <> ? AND is_primary = ?", image.ProductID, image.ID, true).
				Update("is_primary", false).Error; err != nil {
				return err
			}
		}

		if create {
			return tx.Create(image).Error
		}
		return tx.Save(image).Error
	})
}

func (r *productImageRepository) Create(image *model.ProductImage) error {
	logger.Debug("Creating product image in database", map[string]interface{}{
		"product_id": image.ProductID,
		"is_primary": image.IsPrimary,
	})

	if err := r.write(image, true); err != nil {
		logger.Error("Failed to create product image in database", err, map[string]interface{}{
			"product_id": image.ProductID,
		})
		return err
	}

	logger.Debug("Product image created in database", map[string]interface{}{
		"image_id":   image.ID,
		"product_id": image.ProductID,
	})
	return nil
}

func (r *productImageRepository) Update(image *model.ProductImage) error {
	logger.Debug("Updating product image in database", map[string]interface{}{
		"image_id":   image.ID,
		"is_primary": image.IsPrimary,
	})

	if err := r.write(image, false); err != nil {
		logger.Error("Failed to update product image in database", err, map[string]interface{}{
			"image_id": image.ID,
		})
		return err
	}

	logger.Debug("Product image updated in database", map[string]interface{}{
		"image_id": image.ID,
	})
	return nil
}

func (r *productImageRepository) FindByID(productID, imageID uuid.UUID) (*model.ProductImage, error) {
	var image model.ProductImage
	err := r.db.Where("product_id = ? AND id = ?", productID, imageID).First(&image).Error
	if err != nil {
		logger.Error("Failed to find product image in database", err, map[string]interface{}{
			"product_id": productID,
			"image_id":   imageID,
		})
		return nil, err
	}
	return &image, nil
}

func (r *productImageRepository) ListByProduct(productID uuid.UUID) ([]model.ProductImage, error) {
	var images []model.ProductImage
	err := orderedImages(r.db.Where("product_id = ?", productID)).Find(&images).Error
	if err != nil {
		logger.Error("Failed to list product images in database", err, map[string]interface{}{
			"product_id": productID,
		})
		return nil, err
	}
	return images, nil
}

func (r *productImageRepository) Delete(image *model.ProductImage) error {
	logger.Debug("Deleting product image from database", map[string]interface{}{
		"image_id":   image.ID,
		"product_id": image.ProductID,
	})

	if err := r.db.Delete(&model.ProductImage{}, "id = ?", image.ID).Error; err != nil {
		logger.Error("Failed to delete product image from database", err, map[string]interface{}{
			"image_id": image.ID,
		})
		return err
	}
	return nil
}
