package auth

import (
	"context"
	"errors"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/spec-kit/catalog-service/internal/repository"
	apperrors "github.com/spec-kit/catalog-service/pkg/util"
)

// AdminAuthorizer checks the caller's role in the profiles table.
type AdminAuthorizer struct {
	profiles  repository.ProfileRepository
	adminRole string
	logger    *zap.Logger
}

// NewAdminAuthorizer constructs the authorizer.
func NewAdminAuthorizer(profiles repository.ProfileRepository, adminRole string, logger *zap.Logger) *AdminAuthorizer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AdminAuthorizer{profiles: profiles, adminRole: adminRole, logger: logger}
}

// Authorize returns a 403 error when the principal is not an admin and a 500
// error when the role cannot be looked up.
func (a *AdminAuthorizer) Authorize(ctx context.Context, principal *Principal) error {
	if principal == nil {
		return apperrors.NewUnauthorized("authentication required")
	}

	profile, err := a.profiles.GetByID(ctx, principal.UserID)
	switch {
	case errors.Is(err, repository.ErrNotFound):
		return apperrors.NewForbidden("admin access required")
	case err != nil:
		a.logger.Error("admin lookup failed", zap.String("user_id", principal.UserID), zap.Error(err))
		return apperrors.NewInternalErrorf(err, "error verifying admin status")
	}

	if !profile.HasRole(a.adminRole) {
		return apperrors.NewForbidden("admin access required")
	}
	return nil
}

// RequireAdmin ensures the authenticated principal is an admin.
func RequireAdmin(authorizer *AdminAuthorizer) fiber.Handler {
	return func(c *fiber.Ctx) error {
		principal, ok := PrincipalFromContext(c)
		if !ok {
			return apperrors.NewUnauthorized("authentication required")
		}
		if err := authorizer.Authorize(c.UserContext(), principal); err != nil {
			return err
		}
		return c.Next()
	}
}
