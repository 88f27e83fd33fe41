package repository

import (
	"context"

	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/catalog-service/internal/domain"
)

// ProductRepository issues reads and mutations against the products table.
// Ids are opaque strings; one that is not a stored key behaves as not found.
type ProductRepository interface {
	GetByID(ctx context.Context, id string) (*domain.Product, error)
	// Update overwrites the row and returns it; ErrNotFound when zero rows matched.
	Update(ctx context.Context, id string, changes domain.ProductChanges) (*domain.Product, error)
	// Delete removes the row and returns its prior values; ErrNotFound when zero rows matched.
	Delete(ctx context.Context, id string) (*domain.Product, error)
}

type productRepository struct {
	db Querier
}

// NewProductRepository returns a Postgres-backed implementation.
func NewProductRepository(db Querier) ProductRepository {
	return &productRepository{db: db}
}

const productColumns = `id::text, name, price, COALESCE(description, ''), stock, vehicle_type, item_type,
        COALESCE(image_url, ''), created_at`

func (r *productRepository) GetByID(ctx context.Context, id string) (*domain.Product, error) {
	const query = `SELECT ` + productColumns + ` FROM products WHERE id=$1::text::uuid`
	return scanProduct(r.db.QueryRow(ctx, query, id))
}

func (r *productRepository) Update(ctx context.Context, id string, changes domain.ProductChanges) (*domain.Product, error) {
	const query = `
        UPDATE products SET name=$1, price=$2, description=$3, stock=$4, vehicle_type=$5, item_type=$6
        WHERE id=$7::text::uuid
        RETURNING ` + productColumns
	return scanProduct(r.db.QueryRow(ctx, query,
		changes.Name,
		changes.Price,
		changes.Description,
		changes.Stock,
		changes.VehicleType,
		changes.ItemType,
		id,
	))
}

func (r *productRepository) Delete(ctx context.Context, id string) (*domain.Product, error) {
	const query = `DELETE FROM products WHERE id=$1::text::uuid RETURNING ` + productColumns
	return scanProduct(r.db.QueryRow(ctx, query, id))
}

func scanProduct(row pgx.Row) (*domain.Product, error) {
	var product domain.Product
	if err := row.Scan(
		&product.ID,
		&product.Name,
		&product.Price,
		&product.Description,
		&product.Stock,
		&product.VehicleType,
		&product.ItemType,
		&product.ImageURL,
		&product.CreatedAt,
	); err != nil {
		if notFound(err) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &product, nil
}
