package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"onboarding-portal/internal/domain"
	"onboarding-portal/internal/middleware"
)

func getPaginationParams(c *fiber.Ctx) domain.PaginationParams {
	params := domain.DefaultPagination()

	if page := c.QueryInt("page", 1); page > 0 {
		params.Page = page
	}
	if pageSize := c.QueryInt("page_size", domain.DefaultPageSize); pageSize > 0 {
		params.PageSize = pageSize
	}

	params.Validate()
	return params
}

func parseIDParam(c *fiber.Ctx, name, label string) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Params(name))
	if err != nil {
		return uuid.Nil, middleware.BadRequest("Invalid " + label + " ID")
	}
	return id, nil
}

func currentUserID(c *fiber.Ctx) (uuid.UUID, error) {
	userID := middleware.GetCurrentUserID(c)
	if userID == uuid.Nil {
		return uuid.Nil, middleware.Unauthorized("User not found")
	}
	return userID, nil
}
