package handler

import (
	"github.com/gofiber/fiber/v2"

	"onboarding-portal/internal/domain"
	"onboarding-portal/internal/middleware"
	"onboarding-portal/internal/service/user"
)

type UserHandler struct {
	userService user.Service
}

func NewUserHandler(userService user.Service) *UserHandler {
	return &UserHandler{userService: userService}
}

func (h *UserHandler) GetProfile(c *fiber.Ctx) error {
	userID, err := currentUserID(c)
	if err != nil {
		return err
	}

	profile, err := h.userService.GetProfile(c.UserContext(), userID)
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusOK).JSON(profile)
}

func (h *UserHandler) UpdateProfile(c *fiber.Ctx) error {
	userID, err := currentUserID(c)
	if err != nil {
		return err
	}

	var input domain.UpdateProfileInput
	if err := c.BodyParser(&input); err != nil {
		return middleware.BadRequest("Invalid request body")
	}

	profile, err := h.userService.UpdateProfile(c.UserContext(), userID, input)
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusOK).JSON(profile)
}

func (h *UserHandler) UpdateTour(c *fiber.Ctx) error {
	userID, err := currentUserID(c)
	if err != nil {
		return err
	}

	var input struct {
		Completed bool `json:"completed"`
	}
	if err := c.BodyParser(&input); err != nil {
		return middleware.BadRequest("Invalid request body")
	}

	profile, err := h.userService.SetTourCompleted(c.UserContext(), userID, input.Completed)
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusOK).JSON(profile)
}

func (h *UserHandler) List(c *fiber.Ctx) error {
	callerID, err := currentUserID(c)
	if err != nil {
		return err
	}

	result, err := h.userService.List(c.UserContext(), callerID, getPaginationParams(c))
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusOK).JSON(result)
}

func (h *UserHandler) Get(c *fiber.Ctx) error {
	callerID, err := currentUserID(c)
	if err != nil {
		return err
	}
	id, err := parseIDParam(c, "id", "user")
	if err != nil {
		return err
	}

	found, err := h.userService.GetByID(c.UserContext(), callerID, id)
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusOK).JSON(found)
}

func (h *UserHandler) Update(c *fiber.Ctx) error {
	callerID, err := currentUserID(c)
	if err != nil {
		return err
	}
	id, err := parseIDParam(c, "id", "user")
	if err != nil {
		return err
	}

	var input domain.AdminUpdateUserInput
	if err := c.BodyParser(&input); err != nil {
		return middleware.BadRequest("Invalid request body")
	}

	updated, err := h.userService.AdminUpdate(c.UserContext(), callerID, id, input, middleware.RequestMeta(c))
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusOK).JSON(updated)
}

func (h *UserHandler) Delete(c *fiber.Ctx) error {
	callerID, err := currentUserID(c)
	if err != nil {
		return err
	}
	id, err := parseIDParam(c, "id", "user")
	if err != nil {
		return err
	}

	if err := h.userService.Delete(c.UserContext(), callerID, id, middleware.RequestMeta(c)); err != nil {
		return err
	}

	return c.SendStatus(fiber.StatusNoContent)
}
