package handler

import (
	"github.com/gofiber/fiber/v2"

	"onboarding-portal/internal/domain"
	"onboarding-portal/internal/middleware"
	"onboarding-portal/internal/service/document"
)

type DocumentHandler struct {
	documentService document.Service
}

func NewDocumentHandler(documentService document.Service) *DocumentHandler {
	return &DocumentHandler{documentService: documentService}
}

// InitiateUpload records a PENDING document and returns a presigned URL the
// client PUTs the file to.
func (h *DocumentHandler) InitiateUpload(c *fiber.Ctx) error {
	userID, err := currentUserID(c)
	if err != nil {
		return err
	}

	var input domain.UploadInput
	if err := c.BodyParser(&input); err != nil {
		return middleware.BadRequest("Invalid request body")
	}

	result, err := h.documentService.InitiateUpload(c.UserContext(), userID, input)
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusCreated).JSON(result)
}

// Upload accepts the file as multipart form data and stores it server-side.
func (h *DocumentHandler) Upload(c *fiber.Ctx) error {
	userID, err := currentUserID(c)
	if err != nil {
		return err
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		return middleware.BadRequest("file is required")
	}
	file, err := fileHeader.Open()
	if err != nil {
		return middleware.BadRequest("Failed to read file")
	}
	defer file.Close()

	input := domain.UploadInput{
		DocumentType: domain.DocumentType(c.FormValue("document_type")),
		FileName:     fileHeader.Filename,
		FileSize:     fileHeader.Size,
		FileType:     fileHeader.Header.Get(fiber.HeaderContentType),
	}

	doc, err := h.documentService.Upload(c.UserContext(), userID, input, file)
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusCreated).JSON(doc)
}

func (h *DocumentHandler) Confirm(c *fiber.Ctx) error {
	userID, err := currentUserID(c)
	if err != nil {
		return err
	}
	id, err := parseIDParam(c, "id", "document")
	if err != nil {
		return err
	}

	doc, err := h.documentService.ConfirmUpload(c.UserContext(), id, userID)
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusOK).JSON(doc)
}

func (h *DocumentHandler) List(c *fiber.Ctx) error {
	userID, err := currentUserID(c)
	if err != nil {
		return err
	}

	docs, err := h.documentService.ListForUser(c.UserContext(), userID, userID)
	if err != nil {
		return err
	}
	if docs == nil {
		docs = []domain.Document{}
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{"data": docs})
}

func (h *DocumentHandler) Get(c *fiber.Ctx) error {
	userID, err := currentUserID(c)
	if err != nil {
		return err
	}
	id, err := parseIDParam(c, "id", "document")
	if err != nil {
		return err
	}

	doc, err := h.documentService.Get(c.UserContext(), id, userID)
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusOK).JSON(doc)
}

func (h *DocumentHandler) Delete(c *fiber.Ctx) error {
	userID, err := currentUserID(c)
	if err != nil {
		return err
	}
	id, err := parseIDParam(c, "id", "document")
	if err != nil {
		return err
	}

	if err := h.documentService.Delete(c.UserContext(), id, userID, middleware.RequestMeta(c)); err != nil {
		return err
	}

	return c.SendStatus(fiber.StatusNoContent)
}
