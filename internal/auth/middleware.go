package auth

import (
	"context"
	"encoding/base64"
	"fmt"
	"strings"

	"github.com/gofiber/fiber/v2"

	apperrors "github.com/spec-kit/catalog-service/pkg/util"
)

// TokenVerifier validates bearer tokens.
type TokenVerifier interface {
	Verify(ctx context.Context, token string) (*Principal, error)
}

// CredentialVerifier validates username/password pairs.
type CredentialVerifier interface {
	Verify(username, password string) (*Principal, error)
}

// BearerMiddleware authenticates requests carrying a bearer token.
func BearerMiddleware(verifier TokenVerifier) fiber.Handler {
	return func(c *fiber.Ctx) error {
		token, err := credentialsFromHeader(c.Get(fiber.HeaderAuthorization), "Bearer")
		if err != nil {
			return apperrors.NewUnauthorized(err.Error())
		}

		principal, err := verifier.Verify(c.UserContext(), token)
		if err != nil {
			return apperrors.NewUnauthorized(err.Error())
		}

		WithPrincipal(c, principal)
		return c.Next()
	}
}

// BasicMiddleware authenticates requests with HTTP Basic credentials and
// challenges the client on failure.
func BasicMiddleware(verifier CredentialVerifier, realm string) fiber.Handler {
	challenge := fmt.Sprintf("Basic realm=%q", realm)
	return func(c *fiber.Ctx) error {
		username, password, err := basicCredentials(c.Get(fiber.HeaderAuthorization))
		if err == nil {
			var principal *Principal
			principal, err = verifier.Verify(username, password)
			if err == nil {
				WithPrincipal(c, principal)
				return c.Next()
			}
		}
		c.Set(fiber.HeaderWWWAuthenticate, challenge)
		return apperrors.NewUnauthorized(err.Error())
	}
}

func credentialsFromHeader(header, scheme string) (string, error) {
	if header == "" {
		return "", ErrMissingCredentials
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], scheme) || strings.TrimSpace(parts[1]) == "" {
		return "", ErrMalformedCredentials
	}
	return strings.TrimSpace(parts[1]), nil
}

func basicCredentials(header string) (string, string, error) {
	encoded, err := credentialsFromHeader(header, "Basic")
	if err != nil {
		return "", "", err
	}
	decoded, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return "", "", ErrMalformedCredentials
	}
	username, password, ok := strings.Cut(string(decoded), ":")
	if !ok {
		return "", "", ErrMalformedCredentials
	}
	return username, password, nil
}
