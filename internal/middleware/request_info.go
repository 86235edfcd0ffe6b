package middleware

import (
	"github.com/gofiber/fiber/v2"

	"onboarding-portal/internal/domain"
)

// RequestMeta captures the client address and agent for session and audit records.
func RequestMeta(c *fiber.Ctx) *domain.RequestMeta {
	return &domain.RequestMeta{
		IPAddress: c.IP(),
		UserAgent: c.Get(fiber.HeaderUserAgent),
	}
}
