package handlers

import (
	"context"
	"io"
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/catalog-service/internal/api/dto"
	"github.com/spec-kit/catalog-service/internal/events"
	"github.com/spec-kit/catalog-service/internal/storage"
	apperrors "github.com/spec-kit/catalog-service/pkg/util"
)

const imageFormField = "image"

// ImageService is the part of service.CatalogService that manages image files.
type ImageService interface {
	UploadImage(ctx context.Context, actor events.Actor, r io.Reader, contentType, originalName string) (storage.StoredImage, error)
	DeleteImage(ctx context.Context, actor events.Actor, filename string) (bool, error)
}

// ImagesHandler exposes image upload and removal.
type ImagesHandler struct {
	images ImageService
}

// NewImagesHandler constructs handler.
func NewImagesHandler(images ImageService) *ImagesHandler {
	return &ImagesHandler{images: images}
}

// Upload handles POST /upload-image.
func (h *ImagesHandler) Upload(c *fiber.Ctx) error {
	header, err := c.FormFile(imageFormField)
	if err != nil {
		return apperrors.NewValidationError("no image file provided", map[string]any{"field": imageFormField})
	}

	file, err := header.Open()
	if err != nil {
		return apperrors.NewInternalErrorf(err, "error uploading image")
	}
	defer file.Close()

	img, err := h.images.UploadImage(c.UserContext(), actorFrom(c), file, header.Header.Get(fiber.HeaderContentType), header.Filename)
	if err != nil {
		return err
	}
	return c.Status(http.StatusOK).JSON(dto.ImageUploadResponse{
		Message:  "image uploaded successfully",
		ImageURL: img.URL,
		Filename: img.Filename,
	})
}

// Delete handles DELETE /delete-image/:filename. A missing file is reported
// with success false rather than an error status.
func (h *ImagesHandler) Delete(c *fiber.Ctx) error {
	filename := c.Params("filename")
	removed, err := h.images.DeleteImage(c.UserContext(), actorFrom(c), filename)
	if err != nil {
		return err
	}
	if !removed {
		return c.JSON(dto.ImageDeleteResponse{Success: false, Message: "image not found"})
	}
	return c.JSON(dto.ImageDeleteResponse{Success: true, Message: "image deleted successfully"})
}
