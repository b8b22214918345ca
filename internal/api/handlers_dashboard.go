package api

import (
	"time"

	"github.com/gofiber/fiber/v2"
)

func (handler *Handler) DashboardStats(c *fiber.Ctx) error {
	stats, err := handler.dashboard.Stats(currentUser(c))
	if err != nil {
		return handler.serviceError(c, err)
	}
	return c.JSON(stats)
}

func (handler *Handler) MonthlyActivities(c *fiber.Ctx) error {
	activities, err := handler.dashboard.MonthlyActivities(currentUser(c), c.Query("month"), time.Now().In(handler.location))
	if err != nil {
		return handler.serviceError(c, err)
	}
	return c.JSON(activities)
}

func (handler *Handler) MyTasksSummary(c *fiber.Ctx) error {
	summary, err := handler.dashboard.MyTasks(currentUser(c), handler.today())
	if err != nil {
		return handler.serviceError(c, err)
	}
	return c.JSON(summary)
}

func (handler *Handler) ProjectsByClient(c *fiber.Ctx) error {
	counts, err := handler.dashboard.ProjectsByClient(currentUser(c))
	if err != nil {
		return handler.serviceError(c, err)
	}
	return c.JSON(counts)
}
