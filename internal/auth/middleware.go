package auth

import (
	"github.com/gofiber/fiber/v2"
)

const principalKey = "auth_principal"

// Middleware derives the caller's principal once per request and stashes it
// for handlers. Anonymous requests proceed with no principal; a
// present-but-invalid credential is rejected here, before any handler runs.
func (a *Authenticator) Middleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		principal, err := a.Authenticate(c.Get(fiber.HeaderAuthorization))
		if err != nil {
			return err
		}
		if principal != nil {
			c.Locals(principalKey, principal)
		}
		return c.Next()
	}
}

// PrincipalFromContext retrieves the authenticated caller, or nil for an
// anonymous request.
func PrincipalFromContext(c *fiber.Ctx) *Principal {
	principal, _ := c.Locals(principalKey).(*Principal)
	return principal
}
