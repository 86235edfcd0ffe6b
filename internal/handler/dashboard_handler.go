package handler

import (
	"github.com/gofiber/fiber/v2"

	"onboarding-portal/internal/domain"
	"onboarding-portal/internal/middleware"
	"onboarding-portal/internal/service/dashboard"
)

type DashboardHandler struct {
	dashboardService dashboard.Service
}

func NewDashboardHandler(dashboardService dashboard.Service) *DashboardHandler {
	return &DashboardHandler{dashboardService: dashboardService}
}

// GetStats returns onboarding progress. refresh=true drops the cached copy
// first; document_type narrows the per-type breakdown.
func (h *DashboardHandler) GetStats(c *fiber.Ctx) error {
	ctx := c.UserContext()

	if c.QueryBool("refresh") {
		if err := h.dashboardService.Invalidate(ctx); err != nil {
			return err
		}
	}

	stats, err := h.dashboardService.GetStats(ctx)
	if err != nil {
		return err
	}

	if raw := c.Query("document_type"); raw != "" {
		docType := domain.DocumentType(raw)
		if !docType.IsValid() {
			return middleware.BadRequest("unknown document_type " + raw)
		}
		narrowed := *stats
		narrowed.DocumentsByType = nil
		for _, ts := range stats.DocumentsByType {
			if ts.DocumentType == docType {
				narrowed.DocumentsByType = append(narrowed.DocumentsByType, ts)
			}
		}
		stats = &narrowed
	}

	return c.Status(fiber.StatusOK).JSON(stats)
}
