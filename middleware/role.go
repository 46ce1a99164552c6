package middleware

import (
	"github.com/gofiber/fiber/v2"
)

// RequireRole returns a middleware that allows only the listed roles.
// Runs after JWTMiddleware, which stores the role claim in Locals.
func RequireRole(roles ...string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		role, ok := c.Locals("role").(string)
		if !ok {
			return JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
		}

		for _, r := range roles {
			if role == r {
				return c.Next()
			}
		}

		return JsonResponse(c, fiber.StatusForbidden, false, "You do not have permission to access this resource!", nil)
	}
}
