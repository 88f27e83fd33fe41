package handlers

import (
	"context"
	"net/http"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/utils"

	"github.com/spec-kit/catalog-service/internal/api/dto"
	"github.com/spec-kit/catalog-service/internal/auth"
	"github.com/spec-kit/catalog-service/internal/domain"
	"github.com/spec-kit/catalog-service/internal/events"
	"github.com/spec-kit/catalog-service/internal/service"
)

// CatalogService is the part of service.CatalogService the handlers call.
type CatalogService interface {
	GetProduct(ctx context.Context, id string) (*domain.Product, error)
	UpdateProduct(ctx context.Context, actor events.Actor, id string, input service.ProductUpdateInput) (*domain.Product, error)
	DeleteProduct(ctx context.Context, actor events.Actor, id string) (*domain.Product, error)
}

// ProductsHandler exposes product endpoints.
type ProductsHandler struct {
	catalog CatalogService
}

// NewProductsHandler constructs handler.
func NewProductsHandler(catalog CatalogService) *ProductsHandler {
	return &ProductsHandler{catalog: catalog}
}

// Get handles GET /products/:id.
func (h *ProductsHandler) Get(c *fiber.Ctx) error {
	product, err := h.catalog.GetProduct(c.UserContext(), productID(c))
	if err != nil {
		return err
	}
	return c.JSON(dto.ProductResult{Success: true, Data: productResponse(product)})
}

// Update handles PUT /update-product/:id.
func (h *ProductsHandler) Update(c *fiber.Ctx) error {
	var req dto.ProductUpdateRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid payload")
	}

	product, err := h.catalog.UpdateProduct(c.UserContext(), actorFrom(c), productID(c), service.ProductUpdateInput{
		Name:        req.Name,
		Price:       req.Price,
		Description: req.Description,
		Stock:       req.Stock,
		VehicleType: req.VehicleType,
		ItemType:    req.ItemType,
	})
	if err != nil {
		return err
	}
	return c.JSON(dto.ProductResult{
		Success: true,
		Message: "product updated successfully",
		Data:    productResponse(product),
	})
}

// Delete handles DELETE /delete-product/:id.
func (h *ProductsHandler) Delete(c *fiber.Ctx) error {
	product, err := h.catalog.DeleteProduct(c.UserContext(), actorFrom(c), productID(c))
	if err != nil {
		return err
	}
	return c.JSON(dto.ProductResult{
		Success: true,
		Message: "product deleted successfully",
		Data:    productResponse(product),
	})
}

// productID copies the path key out of the request buffer; it is passed
// through to the store as given.
func productID(c *fiber.Ctx) string {
	return utils.CopyString(c.Params("id"))
}

func actorFrom(c *fiber.Ctx) events.Actor {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return events.Actor{}
	}
	return events.Actor{UserID: principal.UserID, Method: string(principal.Method)}
}

func productResponse(p *domain.Product) *dto.ProductResponse {
	if p == nil {
		return nil
	}
	return &dto.ProductResponse{
		ID:          p.ID,
		Name:        p.Name,
		Price:       p.Price,
		Description: p.Description,
		Stock:       p.Stock,
		VehicleType: p.VehicleType,
		ItemType:    p.ItemType,
		ImageURL:    p.ImageURL,
		CreatedAt:   p.CreatedAt,
	}
}
