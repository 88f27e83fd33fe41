package postgrest

import (
	"context"
	"errors"
	"time"

	"github.com/spec-kit/catalog-service/internal/domain"
	"github.com/spec-kit/catalog-service/internal/repository"
)

const (
	productsTable = "products"
	profilesTable = "profiles"
)

type productRow struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Price       float64   `json:"price"`
	Description *string   `json:"description"`
	Stock       int       `json:"stock"`
	VehicleType *string   `json:"vehicle_type"`
	ItemType    *string   `json:"item_type"`
	ImageURL    *string   `json:"image_url"`
	CreatedAt   time.Time `json:"created_at"`
}

func (r productRow) toDomain() *domain.Product {
	p := &domain.Product{
		ID:          r.ID,
		Name:        r.Name,
		Price:       r.Price,
		Stock:       r.Stock,
		VehicleType: r.VehicleType,
		ItemType:    r.ItemType,
		CreatedAt:   r.CreatedAt,
	}
	if r.Description != nil {
		p.Description = *r.Description
	}
	if r.ImageURL != nil {
		p.ImageURL = *r.ImageURL
	}
	return p
}

type productPatch struct {
	Name        string  `json:"name"`
	Price       float64 `json:"price"`
	Description string  `json:"description"`
	Stock       int     `json:"stock"`
	VehicleType *string `json:"vehicle_type"`
	ItemType    *string `json:"item_type"`
}

type productRepository struct {
	client *Client
}

// NewProductRepository serves products through the REST gateway.
func NewProductRepository(client *Client) repository.ProductRepository {
	return &productRepository{client: client}
}

func (r *productRepository) GetByID(ctx context.Context, id string) (*domain.Product, error) {
	var rows []productRow
	if err := r.client.Select(ctx, productsTable, "*", Eq("id", id), &rows); err != nil {
		return nil, lookupError(err)
	}
	return firstProduct(rows)
}

func (r *productRepository) Update(ctx context.Context, id string, changes domain.ProductChanges) (*domain.Product, error) {
	patch := productPatch{
		Name:        changes.Name,
		Price:       changes.Price,
		Description: changes.Description,
		Stock:       changes.Stock,
		VehicleType: changes.VehicleType,
		ItemType:    changes.ItemType,
	}
	var rows []productRow
	if err := r.client.Update(ctx, productsTable, Eq("id", id), patch, &rows); err != nil {
		return nil, lookupError(err)
	}
	return firstProduct(rows)
}

func (r *productRepository) Delete(ctx context.Context, id string) (*domain.Product, error) {
	var rows []productRow
	if err := r.client.Delete(ctx, productsTable, Eq("id", id), &rows); err != nil {
		return nil, lookupError(err)
	}
	return firstProduct(rows)
}

// An empty result array is how the gateway reports zero affected rows.
func firstProduct(rows []productRow) (*domain.Product, error) {
	if len(rows) == 0 {
		return nil, repository.ErrNotFound
	}
	return rows[0].toDomain(), nil
}

// lookupError treats a key the uuid column rejects as a missing row.
func lookupError(err error) error {
	var apiErr *Error
	if errors.As(err, &apiErr) && apiErr.Code == "22P02" {
		return repository.ErrNotFound
	}
	return err
}

type profileRow struct {
	ID   string  `json:"id"`
	Role *string `json:"role"`
}

type profileRepository struct {
	client *Client
}

// NewProfileRepository reads profiles through the REST gateway.
func NewProfileRepository(client *Client) repository.ProfileRepository {
	return &profileRepository{client: client}
}

func (r *profileRepository) GetByID(ctx context.Context, id string) (*domain.Profile, error) {
	var rows []profileRow
	if err := r.client.Select(ctx, profilesTable, "id,role", Eq("id", id), &rows); err != nil {
		return nil, lookupError(err)
	}
	if len(rows) == 0 {
		return nil, repository.ErrNotFound
	}
	return &domain.Profile{ID: rows[0].ID, Role: rows[0].Role}, nil
}
