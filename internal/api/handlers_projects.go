package api

import (
	"time"

	"github.com/doviland/gestionale/internal/services"
	"github.com/gofiber/fiber/v2"
)

type recurrenceInput struct {
	Frequency string `json:"frequency"`
}

func (handler *Handler) ListProjects(c *fiber.Ctx) error {
	clientID, err := parseOptionalUintQuery(c, "client_id")
	if err != nil {
		return apiError(c, fiber.StatusBadRequest, err.Error())
	}
	projects, err := handler.projects.List(currentUser(c), clientID, c.Query("area"), c.Query("status"))
	if err != nil {
		return handler.serviceError(c, err)
	}
	return c.JSON(projects)
}

func (handler *Handler) GetProject(c *fiber.Ctx) error {
	projectID, err := parseIDParam(c, "id")
	if err != nil {
		return apiError(c, fiber.StatusBadRequest, err.Error())
	}
	detail, err := handler.projects.Get(currentUser(c), projectID)
	if err != nil {
		return handler.serviceError(c, err)
	}
	return c.JSON(detail)
}

func (handler *Handler) CreateProject(c *fiber.Ctx) error {
	var input services.ProjectInput
	if err := c.BodyParser(&input); err != nil {
		return apiError(c, fiber.StatusBadRequest, "invalid request body")
	}
	project, err := handler.projects.Create(currentUser(c), input)
	if err != nil {
		return handler.serviceError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(project)
}

func (handler *Handler) UpdateProject(c *fiber.Ctx) error {
	projectID, err := parseIDParam(c, "id")
	if err != nil {
		return apiError(c, fiber.StatusBadRequest, err.Error())
	}
	var patch services.ProjectPatch
	if err := c.BodyParser(&patch); err != nil {
		return apiError(c, fiber.StatusBadRequest, "invalid request body")
	}
	project, err := handler.projects.Update(currentUser(c), projectID, patch)
	if err != nil {
		return handler.serviceError(c, err)
	}
	return c.JSON(project)
}

func (handler *Handler) DeleteProject(c *fiber.Ctx) error {
	projectID, err := parseIDParam(c, "id")
	if err != nil {
		return apiError(c, fiber.StatusBadRequest, err.Error())
	}
	if err := handler.projects.Delete(currentUser(c), projectID); err != nil {
		return handler.serviceError(c, err)
	}
	return c.JSON(fiber.Map{"deleted": true})
}

func (handler *Handler) SetProjectRecurrence(c *fiber.Ctx) error {
	projectID, err := parseIDParam(c, "id")
	if err != nil {
		return apiError(c, fiber.StatusBadRequest, err.Error())
	}
	var input recurrenceInput
	if err := c.BodyParser(&input); err != nil {
		return apiError(c, fiber.StatusBadRequest, "invalid request body")
	}
	recurrence, err := handler.projects.SetRecurrence(currentUser(c), projectID, input.Frequency, time.Now())
	if err != nil {
		return handler.serviceError(c, err)
	}
	return c.JSON(recurrence)
}
