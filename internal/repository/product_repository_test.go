package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/catalog-service/internal/domain"
)

const productID = "3f2a9c1e-8b7d-4e2f-9a1b-0c3d5e7f9a11"

var productCols = []string{"id", "name", "price", "description", "stock", "vehicle_type", "item_type", "image_url", "created_at"}

func newProductRepoWithMock(t *testing.T) (ProductRepository, pgxmock.PgxPoolIface) {
	t.Helper()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(func() {
		assert.NoError(t, mock.ExpectationsWereMet())
		mock.Close()
	})
	return NewProductRepository(mock), mock
}

func strPtr(s string) *string { return &s }

func TestProductRepositoryGetByID(t *testing.T) {
	repo, mock := newProductRepoWithMock(t)
	created := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)

	mock.ExpectQuery(`(?s)^SELECT\s+id::text,\s*name,.*COALESCE\(image_url, ''\),\s*created_at\s+FROM\s+products\s+WHERE\s+id=\$1::text::uuid$`).
		WithArgs(productID).
		WillReturnRows(mock.NewRows(productCols).
			AddRow(productID, "Front Bumper", 199.99, "", 4, strPtr("SUV"), (*string)(nil), "http://localhost:8000/images/a.png", created))

	product, err := repo.GetByID(context.Background(), productID)
	require.NoError(t, err)
	assert.Equal(t, productID, product.ID)
	assert.Equal(t, "Front Bumper", product.Name)
	assert.Equal(t, 199.99, product.Price)
	assert.Equal(t, 4, product.Stock)
	require.NotNil(t, product.VehicleType)
	assert.Equal(t, "SUV", *product.VehicleType)
	assert.Nil(t, product.ItemType)
	assert.Equal(t, "http://localhost:8000/images/a.png", product.ImageURL)
	assert.Equal(t, created, product.CreatedAt)
}

func TestProductRepositoryGetByIDNotFound(t *testing.T) {
	repo, mock := newProductRepoWithMock(t)

	mock.ExpectQuery(`FROM\s+products\s+WHERE`).
		WithArgs(productID).
		WillReturnRows(mock.NewRows(productCols))

	_, err := repo.GetByID(context.Background(), productID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestProductRepositoryUpdate(t *testing.T) {
	changes := domain.ProductChanges{
		Name:        "Rear Bumper",
		Price:       149.5,
		Description: "steel",
		Stock:       2,
		VehicleType: strPtr("Truck"),
		ItemType:    (*string)(nil),
	}
	const updateQuery = `(?s)^\s*UPDATE\s+products\s+SET\s+name=\$1,\s*price=\$2,\s*description=\$3,\s*stock=\$4,\s*vehicle_type=\$5,\s*item_type=\$6\s+WHERE\s+id=\$7::text::uuid\s+RETURNING\s+id::text,`

	t.Run("returns the updated row", func(t *testing.T) {
		repo, mock := newProductRepoWithMock(t)
		mock.ExpectQuery(updateQuery).
			WithArgs("Rear Bumper", 149.5, "steel", 2, strPtr("Truck"), (*string)(nil), productID).
			WillReturnRows(mock.NewRows(productCols).
				AddRow(productID, "Rear Bumper", 149.5, "steel", 2, strPtr("Truck"), (*string)(nil), "", time.Now()))

		product, err := repo.Update(context.Background(), productID, changes)
		require.NoError(t, err)
		assert.Equal(t, "Rear Bumper", product.Name)
		assert.Equal(t, 2, product.Stock)
		assert.Equal(t, "steel", product.Description)
	})

	t.Run("zero rows is not found", func(t *testing.T) {
		repo, mock := newProductRepoWithMock(t)
		mock.ExpectQuery(updateQuery).
			WithArgs("Rear Bumper", 149.5, "steel", 2, strPtr("Truck"), (*string)(nil), productID).
			WillReturnRows(mock.NewRows(productCols))

		_, err := repo.Update(context.Background(), productID, changes)
		assert.ErrorIs(t, err, ErrNotFound)
	})
}

func TestProductRepositoryDelete(t *testing.T) {
	const deleteQuery = `(?s)^DELETE\s+FROM\s+products\s+WHERE\s+id=\$1::text::uuid\s+RETURNING\s+id::text,`

	t.Run("returns the removed row", func(t *testing.T) {
		repo, mock := newProductRepoWithMock(t)
		mock.ExpectQuery(deleteQuery).
			WithArgs(productID).
			WillReturnRows(mock.NewRows(productCols).
				AddRow(productID, "Front Bumper", 199.99, "", 4, (*string)(nil), (*string)(nil), "http://localhost:8000/images/a.png", time.Now()))

		product, err := repo.Delete(context.Background(), productID)
		require.NoError(t, err)
		assert.Equal(t, "http://localhost:8000/images/a.png", product.ImageURL)
	})

	t.Run("zero rows is not found", func(t *testing.T) {
		repo, mock := newProductRepoWithMock(t)
		mock.ExpectQuery(deleteQuery).
			WithArgs(productID).
			WillReturnRows(mock.NewRows(productCols))

		_, err := repo.Delete(context.Background(), productID)
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("malformed key is not found", func(t *testing.T) {
		repo, mock := newProductRepoWithMock(t)
		mock.ExpectQuery(deleteQuery).
			WithArgs("not-a-uuid").
			WillReturnError(&pgconn.PgError{Code: "22P02", Message: `invalid input syntax for type uuid: "not-a-uuid"`})

		_, err := repo.Delete(context.Background(), "not-a-uuid")
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("driver failure passes through", func(t *testing.T) {
		repo, mock := newProductRepoWithMock(t)
		boom := errors.New("connection reset")
		mock.ExpectQuery(deleteQuery).
			WithArgs(productID).
			WillReturnError(boom)

		_, err := repo.Delete(context.Background(), productID)
		assert.ErrorIs(t, err, boom)
		assert.NotErrorIs(t, err, ErrNotFound)
	})
}
