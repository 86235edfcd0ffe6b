package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"onboarding-portal/internal/middleware"
	"onboarding-portal/internal/service/audit"
)

type AuditHandler struct {
	auditService audit.Service
}

func NewAuditHandler(auditService audit.Service) *AuditHandler {
	return &AuditHandler{auditService: auditService}
}

// List pages through audit entries, optionally for a single entity.
func (h *AuditHandler) List(c *fiber.Ctx) error {
	params := getPaginationParams(c)

	entityType := c.Query("entity_type")
	entityIDStr := c.Query("entity_id")
	if entityType != "" && entityIDStr != "" {
		entityID, err := uuid.Parse(entityIDStr)
		if err != nil {
			return middleware.BadRequest("Invalid entity ID")
		}
		result, err := h.auditService.ListByEntity(c.UserContext(), entityType, entityID, params)
		if err != nil {
			return err
		}
		return c.Status(fiber.StatusOK).JSON(result)
	}

	result, err := h.auditService.List(c.UserContext(), params)
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusOK).JSON(result)
}

func (h *AuditHandler) GetRecentActivities(c *fiber.Ctx) error {
	limit := c.QueryInt("limit", 10)
	if limit <= 0 {
		limit = 10
	}

	logs, err := h.auditService.GetRecentActivities(c.UserContext(), limit)
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusOK).JSON(logs)
}
