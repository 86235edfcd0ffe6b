package handler

import (
	"github.com/gofiber/fiber/v2"

	"onboarding-portal/internal/middleware"
	"onboarding-portal/internal/service/auth"
)

type RouteOptions struct {
	// AuthLimiter throttles the unauthenticated auth endpoints per client IP.
	AuthLimiter           middleware.Limiter
	AuthRetryAfterSeconds int
}

func SetupRoutes(app *fiber.App, h *Handlers, authService auth.Service, opts RouteOptions) {
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})

	v1 := app.Group("/api/v1")

	authRoutes := v1.Group("/auth", middleware.RateLimit(opts.AuthLimiter, "auth", opts.AuthRetryAfterSeconds))
	authRoutes.Post("/register", h.Auth.Register)
	authRoutes.Post("/login", h.Auth.Login)
	authRoutes.Post("/idp", h.Auth.IdentityToken)
	authRoutes.Post("/refresh", h.Auth.RefreshToken)
	authRoutes.Post("/logout", h.Auth.Logout)

	protected := v1.Group("", middleware.AuthRequired(authService))

	users := protected.Group("/users")
	users.Get("/me", h.User.GetProfile)
	users.Put("/me", h.User.UpdateProfile)
	users.Patch("/me/tour", h.User.UpdateTour)
	users.Get("/", middleware.RequireAdmin(), h.User.List)
	users.Get("/:id", middleware.RequireAdmin(), h.User.Get)
	users.Put("/:id", middleware.RequireAdmin(), h.User.Update)
	users.Delete("/:id", middleware.RequireAdmin(), h.User.Delete)

	documents := protected.Group("/documents")
	documents.Post("/initiate", h.Document.InitiateUpload)
	documents.Post("/upload", h.Document.Upload)
	documents.Get("/", h.Document.List)
	documents.Post("/:id/confirm", h.Document.Confirm)
	documents.Get("/:id", h.Document.Get)
	documents.Delete("/:id", h.Document.Delete)

	admin := protected.Group("/admin", middleware.RequireAdmin())
	admin.Get("/documents", h.Admin.ListDocuments)
	admin.Get("/users/:id/documents", h.Admin.ListUserDocuments)
	admin.Post("/documents/:id/review", h.Admin.Review)
	admin.Post("/documents/:id/approve", h.Admin.Approve)
	admin.Post("/documents/:id/reject", h.Admin.Reject)
	admin.Get("/dashboard", h.Dashboard.GetStats)
	admin.Get("/audit", h.Audit.List)
	admin.Get("/audit/recent", h.Audit.GetRecentActivities)

	notifications := protected.Group("/notifications")
	notifications.Get("/", h.Notification.List)
	notifications.Get("/unread-count", h.Notification.GetUnreadCount)
	notifications.Patch("/:id/read", h.Notification.MarkAsRead)
	notifications.Post("/mark-all-read", h.Notification.MarkAllAsRead)
	notifications.Delete("/:id", h.Notification.Delete)
}
