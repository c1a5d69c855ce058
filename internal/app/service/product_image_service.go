package service

import (
	"errors"

	"github.com/google/uuid"
	"github.com/ikkim/catalog-backend/internal/app/model"
	"github.com/ikkim/catalog-backend/internal/app/repository"
	"github.com/ikkim/catalog-backend/pkg/logger"
	"gorm.io/gorm"
)

var (
	ErrImageNotFound = errors.New("product image not found")
)

// ImageInput is a decoded image write.
type ImageInput struct {
	Image     *string  `json:"image" validate:"required,notblank,max=255"`
	AltText   *string  `json:"alt_text" validate:"omitempty,max=200"`
	IsPrimary *bool    `json:"is_primary"`
	Order     *int     `json:"order" validate:"omitempty,min=0"`
	Present   Presence `json:"-"`
}

var imageMessages = map[string]string{
	"image.required": "Image is required.",
	"image.notblank": "Image is required.",
	"image.max":      "Image reference cannot exceed 255 characters.",
	"alt_text.max":   "Alt text cannot exceed 200 characters.",
	"order.min":      "Order cannot be negative.",
}

type ProductImageService interface {
	AddImage(productToken string, input ImageInput) (*model.ProductImage, error)
	UpdateImage(productToken, imageID string, input ImageInput) (*model.ProductImage, error)
	DeleteImage(productToken, imageID string) error
}

type productImageService struct {
	productRepo repository.ProductRepository
	imageRepo   repository.ProductImageRepository
}

func NewProductImageService(productRepo repository.ProductRepository, imageRepo repository.ProductImageRepository) ProductImageService {
	return &productImageService{
		productRepo: productRepo,
		imageRepo:   imageRepo,
	}
}

func (s *productImageService) product(token string) (*model.Product, error) {
	product, err := s.productRepo.FindByLookup(repository.ParseLookup(token), false)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, err
	}
	return product, nil
}

func (s *productImageService) image(productID uuid.UUID, rawID string) (*model.ProductImage, error) {
	id, err := uuid.Parse(rawID)
	if err != nil {
		return nil, ErrImageNotFound
	}
	image, err := s.imageRepo.FindByID(productID, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrImageNotFound
		}
		return nil, err
	}
	return image, nil
}

func (s *productImageService) AddImage(productToken string, input ImageInput) (*model.ProductImage, error) {
	product, err := s.product(productToken)
	if err != nil {
		return nil, err
	}

	input.Image = trimPtr(input.Image)
	input.AltText = trimPtr(input.AltText)
	verr := &ValidationError{}
	checkStruct(&input, imageMessages, false, input.Present, verr)
	if err := verr.Err(); err != nil {
		return nil, err
	}

	image := &model.ProductImage{
		ProductID: product.ID,
		Image:     *input.Image,
		AltText:   deref(input.AltText),
	}
	if input.IsPrimary != nil {
		image.IsPrimary = *input.IsPrimary
	}
	if input.Order != nil {
		image.Order = *input.Order
	}

	if err := s.imageRepo.Create(image); err != nil {
		return nil, err
	}

	logger.Info("Product image added", map[string]interface{}{
		"product_id": product.ID,
		"image_id":   image.ID,
		"is_primary": image.IsPrimary,
	})
	return image, nil
}

// UpdateImage applies a partial update. Setting is_primary demotes the siblings.
func (s *productImageService) UpdateImage(productToken, imageID string, input ImageInput) (*model.ProductImage, error) {
	product, err := s.product(productToken)
	if err != nil {
		return nil, err
	}
	image, err := s.image(product.ID, imageID)
	if err != nil {
		return nil, err
	}

	input.Image = trimPtr(input.Image)
	input.AltText = trimPtr(input.AltText)
	if input.Present == nil {
		input.Present = Presence{}
		if input.Image != nil {
			input.Present["image"] = true
		}
		if input.AltText != nil {
			input.Present["alt_text"] = true
		}
		if input.Order != nil {
			input.Present["order"] = true
		}
	}
	verr := &ValidationError{}
	checkStruct(&input, imageMessages, true, input.Present, verr)
	if err := verr.Err(); err != nil {
		return nil, err
	}

	if input.Image != nil {
		image.Image = *input.Image
	}
	if input.Present.Has("alt_text") {
		image.AltText = deref(input.AltText)
	}
	if input.IsPrimary != nil {
		image.IsPrimary = *input.IsPrimary
	}
	if input.Order != nil {
		image.Order = *input.Order
	}

	if err := s.imageRepo.Update(image); err != nil {
		return nil, err
	}

	logger.Info("Product image updated", map[string]interface{}{
		"product_id": product.ID,
		"image_id":   image.ID,
		"is_primary": image.IsPrimary,
	})
	return image, nil
}

func (s *productImageService) DeleteImage(productToken, imageID string) error {
	product, err := s.product(productToken)
	if err != nil {
		return err
	}
	image, err := s.image(product.ID, imageID)
	if err != nil {
		return err
	}

	if err := s.imageRepo.Delete(image); err != nil {
		return err
	}

	logger.Info("Product image deleted", map[string]interface{}{
		"product_id": product.ID,
		"image_id":   image.ID,
	})
	return nil
}
