package api

import (
	"time"

	"github.com/doviland/gestionale/internal/services"
	"github.com/gofiber/fiber/v2"
)

func (handler *Handler) ListTasks(c *fiber.Ctx) error {
	projectID, err := parseOptionalUintQuery(c, "project_id")
	if err != nil {
		return apiError(c, fiber.StatusBadRequest, err.Error())
	}
	assignedTo, err := parseOptionalUintQuery(c, "assigned_to")
	if err != nil {
		return apiError(c, fiber.StatusBadRequest, err.Error())
	}

	tasks, err := handler.tasks.List(currentUser(c), services.TaskListFilter{
		ProjectID:  projectID,
		AssignedTo: assignedTo,
		Status:     c.Query("status"),
		Area:       c.Query("area"),
		Month:      c.Query("month"),
	})
	if err != nil {
		return handler.serviceError(c, err)
	}
	return c.JSON(tasks)
}

func (handler *Handler) MyTasks(c *fiber.Ctx) error {
	tasks, err := handler.tasks.ListMine(currentUser(c), c.Query("status"))
	if err != nil {
		return handler.serviceError(c, err)
	}
	return c.JSON(tasks)
}

func (handler *Handler) GetTask(c *fiber.Ctx) error {
	taskID, err := parseIDParam(c, "id")
	if err != nil {
		return apiError(c, fiber.StatusBadRequest, err.Error())
	}
	task, err := handler.tasks.Get(currentUser(c), taskID)
	if err != nil {
		return handler.serviceError(c, err)
	}
	return c.JSON(task)
}

func (handler *Handler) CreateTask(c *fiber.Ctx) error {
	var input services.TaskInput
	if err := c.BodyParser(&input); err != nil {
		return apiError(c, fiber.StatusBadRequest, "invalid request body")
	}
	task, err := handler.tasks.Create(currentUser(c), input, time.Now())
	if err != nil {
		return handler.serviceError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(task)
}

func (handler *Handler) UpdateTask(c *fiber.Ctx) error {
	taskID, err := parseIDParam(c, "id")
	if err != nil {
		return apiError(c, fiber.StatusBadRequest, err.Error())
	}
	var patch services.TaskPatch
	if err := c.BodyParser(&patch); err != nil {
		return apiError(c, fiber.StatusBadRequest, "invalid request body")
	}
	task, err := handler.tasks.Apply(currentUser(c), taskID, patch, time.Now())
	if err != nil {
		return handler.serviceError(c, err)
	}
	return c.JSON(task)
}

func (handler *Handler) DeleteTask(c *fiber.Ctx) error {
	taskID, err := parseIDParam(c, "id")
	if err != nil {
		return apiError(c, fiber.StatusBadRequest, err.Error())
	}
	if err := handler.tasks.Delete(currentUser(c), taskID); err != nil {
		return handler.serviceError(c, err)
	}
	return c.JSON(fiber.Map{"deleted": true})
}

func (handler *Handler) ToggleTask(c *fiber.Ctx) error {
	taskID, err := parseIDParam(c, "id")
	if err != nil {
		return apiError(c, fiber.StatusBadRequest, err.Error())
	}
	status, err := handler.tasks.Toggle(currentUser(c), taskID, time.Now())
	if err != nil {
		return handler.serviceError(c, err)
	}
	return c.JSON(fiber.Map{"id": taskID, "status": status})
}
