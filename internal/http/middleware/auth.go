package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"kbapi/internal/model"
	"kbapi/internal/service"
)

const (
	// ClaimsLocalKey is the key under which verified token claims are stored
	// in Fiber's context locals.
	ClaimsLocalKey = "claims"
)

// ClaimsFromCtx returns the verified claims set by RequireAuth, or nil.
func ClaimsFromCtx(c *fiber.Ctx) *model.Claims {
	if v, ok := c.Locals(ClaimsLocalKey).(*model.Claims); ok {
		return v
	}
	return nil
}

// RequireAuth validates the bearer token on every request and stores the
// claims in context locals. Validation is stateless; there is no session
// lookup.
func RequireAuth(auth service.AuthService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		header := c.Get(fiber.HeaderAuthorization)
		token, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || token == "" {
			return fiber.ErrUnauthorized
		}

		claims, err := auth.VerifyToken(token)
		if err != nil {
			return fiber.ErrUnauthorized
		}

		c.Locals(ClaimsLocalKey, claims)
		return c.Next()
	}
}

// RequireCapability enforces the allow-list for a capability. It must run
// after RequireAuth.
func RequireCapability(auth service.AuthService, capability string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		claims := ClaimsFromCtx(c)
		if claims == nil {
			return fiber.ErrUnauthorized
		}
		if err := auth.Authorize(claims, capability); err != nil {
			return fiber.ErrForbidden
		}
		return c.Next()
	}
}
