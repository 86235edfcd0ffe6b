package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"onboarding-portal/internal/domain"
	"onboarding-portal/internal/middleware"
	"onboarding-portal/internal/service/document"
)

// AdminHandler serves the review queue. Approve and Reject are shorthands that
// go through the same Review operation.
type AdminHandler struct {
	documentService document.Service
}

func NewAdminHandler(documentService document.Service) *AdminHandler {
	return &AdminHandler{documentService: documentService}
}

func (h *AdminHandler) ListDocuments(c *fiber.Ctx) error {
	callerID, err := currentUserID(c)
	if err != nil {
		return err
	}

	filter := domain.DocumentFilter{Pagination: getPaginationParams(c)}
	if status := c.Query("status"); status != "" {
		s := domain.DocumentStatus(status)
		filter.Status = &s
	}
	if docType := c.Query("document_type"); docType != "" {
		t := domain.DocumentType(docType)
		filter.DocumentType = &t
	}
	if userID := c.Query("user_id"); userID != "" {
		id, err := uuid.Parse(userID)
		if err != nil {
			return middleware.BadRequest("Invalid user ID")
		}
		filter.UserID = &id
	}

	result, err := h.documentService.ListAll(c.UserContext(), callerID, filter)
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusOK).JSON(result)
}

func (h *AdminHandler) ListUserDocuments(c *fiber.Ctx) error {
	callerID, err := currentUserID(c)
	if err != nil {
		return err
	}
	userID, err := parseIDParam(c, "id", "user")
	if err != nil {
		return err
	}

	docs, err := h.documentService.ListForUser(c.UserContext(), userID, callerID)
	if err != nil {
		return err
	}
	if docs == nil {
		docs = []domain.Document{}
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{"data": docs})
}

func (h *AdminHandler) Review(c *fiber.Ctx) error {
	var input domain.ReviewInput
	if err := c.BodyParser(&input); err != nil {
		return middleware.BadRequest("Invalid request body")
	}
	return h.review(c, input)
}

func (h *AdminHandler) Approve(c *fiber.Ctx) error {
	return h.review(c, domain.ReviewInput{Status: domain.DocumentApproved})
}

func (h *AdminHandler) Reject(c *fiber.Ctx) error {
	var input struct {
		Notes *string `json:"notes"`
	}
	if err := c.BodyParser(&input); err != nil {
		return middleware.BadRequest("Invalid request body")
	}
	return h.review(c, domain.ReviewInput{Status: domain.DocumentRejected, Notes: input.Notes})
}

func (h *AdminHandler) review(c *fiber.Ctx, input domain.ReviewInput) error {
	callerID, err := currentUserID(c)
	if err != nil {
		return err
	}
	id, err := parseIDParam(c, "id", "document")
	if err != nil {
		return err
	}

	doc, err := h.documentService.Review(c.UserContext(), id, callerID, input, middleware.RequestMeta(c))
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusOK).JSON(doc)
}
