package api

import "github.com/gofiber/fiber/v2"

func RegisterRoutes(app *fiber.App, handler *Handler) {
	api := app.Group("/api")
	api.Get("/health", handler.Health)

	auth := api.Group("/auth")
	auth.Post("/login", handler.Login)
	auth.Get("/me", handler.AuthRequired, handler.Me)
	users := auth.Group("/users", handler.AuthRequired)
	users.Get("", handler.AdminOnly, handler.ListUsers)
	users.Post("", handler.AdminOnly, handler.CreateUser)
	users.Get("/:id", handler.GetUser)
	users.Put("/:id", handler.AdminOnly, handler.UpdateUser)
	users.Delete("/:id", handler.AdminOnly, handler.DeleteUser)

	clients := api.Group("/clients", handler.AuthRequired)
	clients.Get("", handler.ListClients)
	clients.Post("", handler.CreateClient)
	clients.Get("/:id", handler.GetClient)
	clients.Put("/:id", handler.UpdateClient)
	clients.Delete("/:id", handler.AdminOnly, handler.DeleteClient)

	templates := api.Group("/templates", handler.AuthRequired)
	templates.Get("", handler.ListTemplates)
	templates.Post("", handler.AdminOnly, handler.CreateTemplate)
	templates.Get("/:id", handler.GetTemplate)
	templates.Put("/:id", handler.AdminOnly, handler.UpdateTemplate)
	templates.Delete("/:id", handler.AdminOnly, handler.DeleteTemplate)

	projects := api.Group("/projects", handler.AuthRequired)
	projects.Get("", handler.ListProjects)
	projects.Post("", handler.CreateProject)
	projects.Get("/:id", handler.GetProject)
	projects.Put("/:id", handler.UpdateProject)
	projects.Delete("/:id", handler.AdminOnly, handler.DeleteProject)
	projects.Post("/:id/recurrence", handler.SetProjectRecurrence)

	tasks := api.Group("/tasks", handler.AuthRequired)
	tasks.Get("", handler.ListTasks)
	tasks.Post("", handler.CreateTask)
	tasks.Get("/my", handler.MyTasks)
	tasks.Get("/:id", handler.GetTask)
	tasks.Put("/:id", handler.UpdateTask)
	tasks.Delete("/:id", handler.DeleteTask)
	tasks.Post("/:id/toggle", handler.ToggleTask)

	gantt := api.Group("/gantt", handler.AuthRequired)
	gantt.Get("/project/:id", handler.ProjectTimeline)
	gantt.Get("/workload", handler.AdminOnly, handler.Workload)
	gantt.Get("/overview", handler.AdminOnly, handler.Overview)
	gantt.Get("/user/:id", handler.UserTimeline)

	dashboard := api.Group("/dashboard", handler.AuthRequired)
	dashboard.Get("/stats", handler.DashboardStats)
	dashboard.Get("/monthly-activities", handler.MonthlyActivities)
	dashboard.Get("/my-tasks-summary", handler.MyTasksSummary)
	dashboard.Get("/projects-by-client", handler.ProjectsByClient)
}
