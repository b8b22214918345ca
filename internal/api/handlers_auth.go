package api

import (
	"github.com/doviland/gestionale/internal/services"
	"github.com/gofiber/fiber/v2"
)

type credentialsInput struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (handler *Handler) Health(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"status": "ok"})
}

func (handler *Handler) Login(c *fiber.Ctx) error {
	var input credentialsInput
	if err := c.BodyParser(&input); err != nil {
		return apiError(c, fiber.StatusBadRequest, "invalid request body")
	}

	user, err := handler.auth.Authenticate(input.Email, input.Password)
	if err != nil {
		return handler.serviceError(c, err)
	}

	token, err := handler.buildToken(&user, defaultTokenTTL)
	if err != nil {
		return handler.serviceError(c, err)
	}
	return c.JSON(fiber.Map{"token": token, "user": user})
}

func (handler *Handler) Me(c *fiber.Ctx) error {
	return c.JSON(currentUser(c))
}

func (handler *Handler) ListUsers(c *fiber.Ctx) error {
	users, err := handler.users.List(currentUser(c))
	if err != nil {
		return handler.serviceError(c, err)
	}
	return c.JSON(users)
}

func (handler *Handler) GetUser(c *fiber.Ctx) error {
	userID, err := parseIDParam(c, "id")
	if err != nil {
		return apiError(c, fiber.StatusBadRequest, err.Error())
	}
	user, err := handler.users.Get(currentUser(c), userID)
	if err != nil {
		return handler.serviceError(c, err)
	}
	return c.JSON(user)
}

func (handler *Handler) CreateUser(c *fiber.Ctx) error {
	var input services.UserInput
	if err := c.BodyParser(&input); err != nil {
		return apiError(c, fiber.StatusBadRequest, "invalid request body")
	}
	user, err := handler.users.Create(currentUser(c), input)
	if err != nil {
		return handler.serviceError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(user)
}

func (handler *Handler) UpdateUser(c *fiber.Ctx) error {
	userID, err := parseIDParam(c, "id")
	if err != nil {
		return apiError(c, fiber.StatusBadRequest, err.Error())
	}
	var patch services.UserPatch
	if err := c.BodyParser(&patch); err != nil {
		return apiError(c, fiber.StatusBadRequest, "invalid request body")
	}
	user, err := handler.users.Update(currentUser(c), userID, patch)
	if err != nil {
		return handler.serviceError(c, err)
	}
	return c.JSON(user)
}

func (handler *Handler) DeleteUser(c *fiber.Ctx) error {
	userID, err := parseIDParam(c, "id")
	if err != nil {
		return apiError(c, fiber.StatusBadRequest, err.Error())
	}
	if err := handler.users.Delete(currentUser(c), userID); err != nil {
		return handler.serviceError(c, err)
	}
	return c.JSON(fiber.Map{"deleted": true})
}
