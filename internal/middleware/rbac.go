package middleware

import (
	"github.com/gofiber/fiber/v2"

	"onboarding-portal/internal/domain"
)

func RequireRole(requiredRole domain.UserRole) fiber.Handler {
	return func(c *fiber.Ctx) error {
		user := GetCurrentUser(c)
		if user == nil {
			return Unauthorized("User not found")
		}

		if user.Role != requiredRole {
			return Forbidden("Insufficient permissions for this operation")
		}

		return c.Next()
	}
}

func RequireAdmin() fiber.Handler {
	return RequireRole(domain.RoleAdmin)
}

func IsAdmin(c *fiber.Ctx) bool {
	return GetCurrentUser(c).IsAdmin()
}
