package api

import "github.com/gofiber/fiber/v2"

func (handler *Handler) ProjectTimeline(c *fiber.Ctx) error {
	projectID, err := parseIDParam(c, "id")
	if err != nil {
		return apiError(c, fiber.StatusBadRequest, err.Error())
	}
	view, err := handler.schedule.ProjectTimeline(currentUser(c), projectID, handler.today())
	if err != nil {
		return handler.serviceError(c, err)
	}
	return c.JSON(view)
}

func (handler *Handler) Workload(c *fiber.Ctx) error {
	view, err := handler.schedule.Workload(currentUser(c), c.Query("start_date"), c.Query("end_date"), handler.today())
	if err != nil {
		return handler.serviceError(c, err)
	}
	return c.JSON(view)
}

func (handler *Handler) Overview(c *fiber.Ctx) error {
	view, err := handler.schedule.Overview(currentUser(c), c.Query("status"), c.Query("area"), handler.today())
	if err != nil {
		return handler.serviceError(c, err)
	}
	return c.JSON(view)
}

func (handler *Handler) UserTimeline(c *fiber.Ctx) error {
	userID, err := parseIDParam(c, "id")
	if err != nil {
		return apiError(c, fiber.StatusBadRequest, err.Error())
	}
	view, err := handler.schedule.UserTimeline(currentUser(c), userID, c.Query("start_date"), c.Query("end_date"), handler.today())
	if err != nil {
		return handler.serviceError(c, err)
	}
	return c.JSON(view)
}
