package repository

import (
	"context"

	"github.com/spec-kit/catalog-service/internal/domain"
)

// Unavailable satisfies every repository interface and fails each call with
// ErrUnavailable. It lets the service start without database credentials.
type Unavailable struct{}

func (Unavailable) GetByID(context.Context, string) (*domain.Product, error) {
	return nil, ErrUnavailable
}

func (Unavailable) Update(context.Context, string, domain.ProductChanges) (*domain.Product, error) {
	return nil, ErrUnavailable
}

func (Unavailable) Delete(context.Context, string) (*domain.Product, error) {
	return nil, ErrUnavailable
}

// Profiles adapts Unavailable to ProfileRepository, whose GetByID returns a profile.
func (Unavailable) Profiles() ProfileRepository {
	return unavailableProfiles{}
}

type unavailableProfiles struct{}

func (unavailableProfiles) GetByID(context.Context, string) (*domain.Profile, error) {
	return nil, ErrUnavailable
}
