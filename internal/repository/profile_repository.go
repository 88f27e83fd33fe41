package repository

import (
	"context"

	"github.com/spec-kit/catalog-service/internal/domain"
)

// ProfileRepository reads user profiles.
type ProfileRepository interface {
	GetByID(ctx context.Context, id string) (*domain.Profile, error)
}

type profileRepository struct {
	db Querier
}

// NewProfileRepository returns a Postgres-backed implementation.
func NewProfileRepository(db Querier) ProfileRepository {
	return &profileRepository{db: db}
}

func (r *profileRepository) GetByID(ctx context.Context, id string) (*domain.Profile, error) {
	const query = `SELECT id::text, role FROM profiles WHERE id=$1::text::uuid`

	var profile domain.Profile
	if err := r.db.QueryRow(ctx, query, id).Scan(&profile.ID, &profile.Role); err != nil {
		if notFound(err) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &profile, nil
}
