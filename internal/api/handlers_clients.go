package api

import (
	"github.com/doviland/gestionale/internal/services"
	"github.com/gofiber/fiber/v2"
)

func (handler *Handler) ListClients(c *fiber.Ctx) error {
	clients, err := handler.clients.List(currentUser(c))
	if err != nil {
		return handler.serviceError(c, err)
	}
	return c.JSON(clients)
}

func (handler *Handler) GetClient(c *fiber.Ctx) error {
	clientID, err := parseIDParam(c, "id")
	if err != nil {
		return apiError(c, fiber.StatusBadRequest, err.Error())
	}
	client, err := handler.clients.Get(currentUser(c), clientID)
	if err != nil {
		return handler.serviceError(c, err)
	}
	return c.JSON(client)
}

func (handler *Handler) CreateClient(c *fiber.Ctx) error {
	var input services.ClientInput
	if err := c.BodyParser(&input); err != nil {
		return apiError(c, fiber.StatusBadRequest, "invalid request body")
	}
	client, err := handler.clients.Create(currentUser(c), input)
	if err != nil {
		return handler.serviceError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(client)
}

func (handler *Handler) UpdateClient(c *fiber.Ctx) error {
	clientID, err := parseIDParam(c, "id")
	if err != nil {
		return apiError(c, fiber.StatusBadRequest, err.Error())
	}
	var input services.ClientInput
	if err := c.BodyParser(&input); err != nil {
		return apiError(c, fiber.StatusBadRequest, "invalid request body")
	}
	client, err := handler.clients.Update(currentUser(c), clientID, input)
	if err != nil {
		return handler.serviceError(c, err)
	}
	return c.JSON(client)
}

func (handler *Handler) DeleteClient(c *fiber.Ctx) error {
	clientID, err := parseIDParam(c, "id")
	if err != nil {
		return apiError(c, fiber.StatusBadRequest, err.Error())
	}
	if err := handler.clients.Delete(currentUser(c), clientID); err != nil {
		return handler.serviceError(c, err)
	}
	return c.JSON(fiber.Map{"deleted": true})
}
