package middleware

import (
	"context"
	"strconv"

	"github.com/gofiber/fiber/v2"
)

type Limiter interface {
	Allow(ctx context.Context, key string) bool
}

// RateLimit rejects requests from a client IP that has used up its quota.
// A nil limiter disables limiting.
func RateLimit(limiter Limiter, scope string, retryAfterSeconds int) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if limiter == nil {
			return c.Next()
		}
		if !limiter.Allow(c.UserContext(), scope+":"+c.IP()) {
			if retryAfterSeconds > 0 {
				c.Set(fiber.HeaderRetryAfter, strconv.Itoa(retryAfterSeconds))
			}
			return TooManyRequests("Too many requests, try again later")
		}
		return c.Next()
	}
}
