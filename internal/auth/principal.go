package auth

import "github.com/gofiber/fiber/v2"

const principalKey = "auth_principal"

// Method records how a principal authenticated.
type Method string

const (
	MethodJWT   Method = "jwt"
	MethodBasic Method = "basic"
)

// Principal represents the authenticated caller for one request.
type Principal struct {
	UserID string
	Role   string
	Email  string
	Method Method
}

// WithPrincipal stores p on the request.
func WithPrincipal(c *fiber.Ctx, p *Principal) {
	c.Locals(principalKey, p)
}

// PrincipalFromContext retrieves the authenticated entity.
func PrincipalFromContext(c *fiber.Ctx) (*Principal, bool) {
	val := c.Locals(principalKey)
	if val == nil {
		return nil, false
	}
	principal, ok := val.(*Principal)
	return principal, ok
}
