package repository

import (
	"context"
	"testing"

	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProfileRepositoryGetByID(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()
	repo := NewProfileRepository(mock)

	const query = `^SELECT\s+id::text,\s*role\s+FROM\s+profiles\s+WHERE\s+id=\$1::text::uuid$`
	const userID = "9b1deb4d-3b7d-4bad-9bdd-2b0d7b3dcb6d"

	mock.ExpectQuery(query).
		WithArgs(userID).
		WillReturnRows(mock.NewRows([]string{"id", "role"}).AddRow(userID, strPtr("admin")))
	mock.ExpectQuery(query).
		WithArgs(userID).
		WillReturnRows(mock.NewRows([]string{"id", "role"}).AddRow(userID, (*string)(nil)))
	mock.ExpectQuery(query).
		WithArgs(userID).
		WillReturnRows(mock.NewRows([]string{"id", "role"}))

	profile, err := repo.GetByID(context.Background(), userID)
	require.NoError(t, err)
	assert.Equal(t, userID, profile.ID)
	assert.True(t, profile.HasRole("admin"))

	profile, err = repo.GetByID(context.Background(), userID)
	require.NoError(t, err)
	assert.Nil(t, profile.Role)
	assert.False(t, profile.HasRole("admin"))

	_, err = repo.GetByID(context.Background(), userID)
	assert.ErrorIs(t, err, ErrNotFound)

	assert.NoError(t, mock.ExpectationsWereMet())
}
