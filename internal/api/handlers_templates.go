package api

import (
	"github.com/doviland/gestionale/internal/services"
	"github.com/gofiber/fiber/v2"
)

func (handler *Handler) ListTemplates(c *fiber.Ctx) error {
	templates, err := handler.templates.List(currentUser(c), c.Query("area"))
	if err != nil {
		return handler.serviceError(c, err)
	}
	return c.JSON(templates)
}

func (handler *Handler) GetTemplate(c *fiber.Ctx) error {
	templateID, err := parseIDParam(c, "id")
	if err != nil {
		return apiError(c, fiber.StatusBadRequest, err.Error())
	}
	template, err := handler.templates.Get(currentUser(c), templateID)
	if err != nil {
		return handler.serviceError(c, err)
	}
	return c.JSON(template)
}

func (handler *Handler) CreateTemplate(c *fiber.Ctx) error {
	var input services.TemplateInput
	if err := c.BodyParser(&input); err != nil {
		return apiError(c, fiber.StatusBadRequest, "invalid request body")
	}
	template, err := handler.templates.Create(currentUser(c), input)
	if err != nil {
		return handler.serviceError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(template)
}

func (handler *Handler) UpdateTemplate(c *fiber.Ctx) error {
	templateID, err := parseIDParam(c, "id")
	if err != nil {
		return apiError(c, fiber.StatusBadRequest, err.Error())
	}
	var input services.TemplateInput
	if err := c.BodyParser(&input); err != nil {
		return apiError(c, fiber.StatusBadRequest, "invalid request body")
	}
	template, err := handler.templates.Update(currentUser(c), templateID, input)
	if err != nil {
		return handler.serviceError(c, err)
	}
	return c.JSON(template)
}

func (handler *Handler) DeleteTemplate(c *fiber.Ctx) error {
	templateID, err := parseIDParam(c, "id")
	if err != nil {
		return apiError(c, fiber.StatusBadRequest, err.Error())
	}
	if err := handler.templates.Delete(currentUser(c), templateID); err != nil {
		return handler.serviceError(c, err)
	}
	return c.JSON(fiber.Map{"deleted": true})
}
