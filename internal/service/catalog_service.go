package service

import (
	"context"
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/spec-kit/catalog-service/internal/domain"
	"github.com/spec-kit/catalog-service/internal/events"
	"github.com/spec-kit/catalog-service/internal/repository"
	"github.com/spec-kit/catalog-service/internal/storage"
	apperrors "github.com/spec-kit/catalog-service/pkg/util"
)

// AssetStore is the subset of storage.AssetStore the catalog needs.
type AssetStore interface {
	Store(ctx context.Context, r io.Reader, contentType, originalName string) (storage.StoredImage, error)
	Remove(filename string) (bool, error)
}

// ProductUpdateInput holds the fields accepted by UpdateProduct. Name, price
// and stock are required; a nil pointer means the caller left the field out.
type ProductUpdateInput struct {
	Name        *string  `validate:"required,min=1"`
	Price       *float64 `validate:"required,gt=0"`
	Description *string
	Stock       *int `validate:"required,gte=0"`
	VehicleType *string
	ItemType    *string
}

var validationMessages = map[string]string{
	"Name":  "name must not be empty",
	"Price": "price must be greater than 0",
	"Stock": "stock must not be negative",
}

// CatalogService coordinates product mutations with image files. The
// database is the system of record; file cleanup is best effort.
type CatalogService struct {
	products   repository.ProductRepository
	assets     AssetStore
	dispatcher events.Dispatcher
	validate   *validator.Validate
	logger     *zap.Logger
}

// NewCatalogService builds the service. dispatcher may be nil.
func NewCatalogService(products repository.ProductRepository, assets AssetStore, dispatcher events.Dispatcher, logger *zap.Logger) *CatalogService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CatalogService{
		products:   products,
		assets:     assets,
		dispatcher: dispatcher,
		validate:   validator.New(),
		logger:     logger,
	}
}

// GetProduct returns a single product.
func (s *CatalogService) GetProduct(ctx context.Context, id string) (*domain.Product, error) {
	product, err := s.products.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.NewNotFound("product", map[string]any{"product_id": id})
		}
		return nil, apperrors.NewInternalErrorf(err, "error fetching product")
	}
	return product, nil
}

// UpdateProduct validates input and overwrites the product. The row count of
// the update decides not-found; there is no separate existence check.
func (s *CatalogService) UpdateProduct(ctx context.Context, actor events.Actor, id string, input ProductUpdateInput) (*domain.Product, error) {
	if input.Name != nil {
		name := strings.TrimSpace(*input.Name)
		input.Name = &name
	}
	if err := s.validateUpdate(input); err != nil {
		return nil, err
	}

	changes := domain.ProductChanges{
		Name:        *input.Name,
		Price:       *input.Price,
		Stock:       *input.Stock,
		VehicleType: input.VehicleType,
		ItemType:    input.ItemType,
	}
	if input.Description != nil {
		changes.Description = strings.TrimSpace(*input.Description)
	}

	product, err := s.products.Update(ctx, id, changes)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.NewNotFound("product", map[string]any{"product_id": id})
		}
		return nil, apperrors.NewInternalErrorf(err, "error updating product")
	}

	s.logger.Info("product updated", zap.String("product_id", id), zap.String("actor", actor.UserID))
	s.publish(ctx, events.NewEvent(events.EventProductUpdated, actor, product.ID, events.ProductUpdatedPayload{
		Name:  product.Name,
		Price: product.Price,
		Stock: product.Stock,
	}))
	return product, nil
}

func (s *CatalogService) validateUpdate(input ProductUpdateInput) error {
	err := s.validate.Struct(input)
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return apperrors.NewValidationError("invalid product data", nil)
	}

	details := make(map[string]any, len(fieldErrs))
	message := ""
	for _, fe := range fieldErrs {
		field := strings.ToLower(fe.Field())
		msg, ok := validationMessages[fe.Field()]
		switch {
		case fe.Tag() == "required":
			msg = field + " is required"
		case !ok:
			msg = "invalid value"
		}
		details[field] = msg
		if message == "" {
			message = msg
		}
	}
	return apperrors.NewValidationError(message, details)
}

// DeleteProduct removes the product row and then, best effort, its image.
// The returned product holds the values of the deleted row.
func (s *CatalogService) DeleteProduct(ctx context.Context, actor events.Actor, id string) (*domain.Product, error) {
	if _, err := s.products.GetByID(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.NewNotFound("product", map[string]any{"product_id": id})
		}
		return nil, apperrors.NewInternalErrorf(err, "error deleting product")
	}

	deleted, err := s.products.Delete(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			// Found a moment ago; a concurrent delete won the race.
			return nil, apperrors.NewDomainError("DELETE_FAILED", "failed to delete product from database",
				http.StatusNotFound, map[string]any{"product_id": id})
		}
		return nil, apperrors.NewInternalErrorf(err, "error deleting product")
	}

	imageRemoved := false
	if deleted.ImageURL != "" {
		imageRemoved = s.removeProductImage(id, deleted.ImageURL)
	}

	s.logger.Info("product deleted", zap.String("product_id", id), zap.String("actor", actor.UserID))
	s.publish(ctx, events.NewEvent(events.EventProductDeleted, actor, deleted.ID, events.ProductDeletedPayload{
		Name:         deleted.Name,
		ImageURL:     deleted.ImageURL,
		ImageRemoved: imageRemoved,
	}))
	return deleted, nil
}

func (s *CatalogService) removeProductImage(id string, imageURL string) bool {
	filename := storage.FilenameFromURL(imageURL)
	removed, err := s.assets.Remove(filename)
	switch {
	case err != nil:
		s.logger.Warn("error deleting image file",
			zap.String("product_id", id), zap.String("filename", filename), zap.Error(err))
	case !removed:
		s.logger.Info("image file not found, skipping", zap.String("product_id", id), zap.String("filename", filename))
	default:
		s.logger.Info("image file deleted", zap.String("product_id", id), zap.String("filename", filename))
	}
	return removed && err == nil
}

// UploadImage stores an uploaded image and returns its public location.
func (s *CatalogService) UploadImage(ctx context.Context, actor events.Actor, r io.Reader, contentType, originalName string) (storage.StoredImage, error) {
	img, err := s.assets.Store(ctx, r, contentType, originalName)
	if err != nil {
		if errors.Is(err, storage.ErrNotImage) {
			return storage.StoredImage{}, apperrors.NewValidationError(err.Error(), map[string]any{"content_type": contentType})
		}
		return storage.StoredImage{}, apperrors.NewInternalErrorf(err, "error uploading image")
	}

	s.publish(ctx, events.NewEvent(events.EventImageUploaded, actor, "", events.ImagePayload{Filename: img.Filename, URL: img.URL}))
	return img, nil
}

// DeleteImage removes a stored image. A missing file reports false without error.
func (s *CatalogService) DeleteImage(ctx context.Context, actor events.Actor, filename string) (bool, error) {
	removed, err := s.assets.Remove(filename)
	if err != nil {
		if errors.Is(err, storage.ErrInvalidFilename) {
			return false, apperrors.NewValidationError(err.Error(), map[string]any{"filename": filename})
		}
		s.logger.Error("error deleting image", zap.String("filename", filename), zap.Error(err))
		return false, apperrors.NewInternalErrorf(err, "error deleting image")
	}
	if removed {
		s.publish(ctx, events.NewEvent(events.EventImageDeleted, actor, "", events.ImagePayload{Filename: filename}))
	}
	return removed, nil
}

func (s *CatalogService) publish(ctx context.Context, event events.Event) {
	if s.dispatcher == nil {
		return
	}
	if err := s.dispatcher.Publish(ctx, event); err != nil {
		s.logger.Warn("catalog event delivery failed", zap.String("type", string(event.Type)), zap.Error(err))
	}
}
