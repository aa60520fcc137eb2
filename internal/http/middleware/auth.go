package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"formsapi/internal/auth"
)

// ClaimsLocalKey is the key under which verified token claims are stored in
// Fiber's context locals for downstream handlers.
const ClaimsLocalKey = "auth_claims"

// RequireAuth is a stateless per-request guard. It extracts the bearer token
// from the Authorization header and verifies its signature against the shared
// secret. Absent header, malformed value, bad signature or expired token all
// reject the request; the guard never falls open to acceptance.
func RequireAuth(secret []byte) fiber.Handler {
	return func(c *fiber.Ctx) error {
		header := c.Get(fiber.HeaderAuthorization)
		if header == "" {
			return fiber.NewError(fiber.StatusUnauthorized, "missing authorization header")
		}

		scheme, token, ok := strings.Cut(header, " ")
		if !ok || !strings.EqualFold(scheme, "Bearer") || strings.TrimSpace(token) == "" {
			return fiber.NewError(fiber.StatusUnauthorized, "invalid token format")
		}

		claims, err := auth.ParseToken(strings.TrimSpace(token), secret)
		if err != nil {
			return fiber.NewError(fiber.StatusUnauthorized, "invalid or expired token")
		}

		c.Locals(ClaimsLocalKey, claims)
		return c.Next()
	}
}
