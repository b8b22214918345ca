package api

import (
	"net/http"
	"testing"
	"time"

	"github.com/doviland/gestionale/internal/models"
	"github.com/gofiber/fiber/v2"
)

func TestTaskToggleRoundTrip(t *testing.T) {
	app, repos := newTestApp(t)
	createTestUser(t, repos, "boss@studio.it", models.RoleAdmin, models.Permissions{})
	adminToken := loginToken(t, app, "boss@studio.it")
	clientID := createTestClient(t, app, adminToken, "Acme")
	project := createTestProject(t, app, adminToken, clientID, "Plan", models.AreaCopywriting)
	task := createTestTask(t, app, adminToken, project.ID, nil)

	completed := doJSON(t, app, http.MethodPost, "/api/tasks/"+itoa(task.ID)+"/toggle", adminToken, nil)
	requireStatus(t, completed, http.StatusOK)
	var toggle struct {
		Status string `json:"status"`
	}
	decodeBody(t, completed, &toggle)
	completed.Body.Close()
	if toggle.Status != models.TaskStatusCompleted {
		t.Fatalf("expected completed after toggle, got %q", toggle.Status)
	}

	fetched := doJSON(t, app, http.MethodGet, "/api/tasks/"+itoa(task.ID), adminToken, nil)
	requireStatus(t, fetched, http.StatusOK)
	var current models.Task
	decodeBody(t, fetched, &current)
	fetched.Body.Close()
	if current.CompletedAt == nil {
		t.Fatal("expected completed_at stamped on completion")
	}

	reopened := doJSON(t, app, http.MethodPost, "/api/tasks/"+itoa(task.ID)+"/toggle", adminToken, nil)
	requireStatus(t, reopened, http.StatusOK)
	decodeBody(t, reopened, &toggle)
	reopened.Body.Close()
	if toggle.Status != models.TaskStatusPending {
		t.Fatalf("expected pending after second toggle, got %q", toggle.Status)
	}

	fetched = doJSON(t, app, http.MethodGet, "/api/tasks/"+itoa(task.ID), adminToken, nil)
	defer fetched.Body.Close()
	requireStatus(t, fetched, http.StatusOK)
	decodeBody(t, fetched, &current)
	if current.CompletedAt != nil {
		t.Fatal("expected completed_at cleared when reopened")
	}
}

func TestTaskPatchNullClearsFields(t *testing.T) {
	app, repos := newTestApp(t)
	createTestUser(t, repos, "boss@studio.it", models.RoleAdmin, models.Permissions{})
	assignee := createTestUser(t, repos, "copy@studio.it", models.RoleCollaborator, models.Permissions{Copywriting: true})
	adminToken := loginToken(t, app, "boss@studio.it")
	clientID := createTestClient(t, app, adminToken, "Acme")
	project := createTestProject(t, app, adminToken, clientID, "Plan", models.AreaCopywriting)
	task := createTestTask(t, app, adminToken, project.ID, fiber.Map{
		"assigned_to": assignee.ID,
		"due_date":    "2026-09-15",
	})
	if task.AssignedTo == nil || task.DueDate == nil {
		t.Fatalf("task must start assigned and dated, got %+v", task)
	}

	response := doJSON(t, app, http.MethodPut, "/api/tasks/"+itoa(task.ID), adminToken, fiber.Map{
		"assigned_to": nil,
		"due_date":    nil,
	})
	defer response.Body.Close()
	requireStatus(t, response, http.StatusOK)

	var updated models.Task
	decodeBody(t, response, &updated)
	if updated.AssignedTo != nil {
		t.Fatalf("expected assignee cleared, got %v", *updated.AssignedTo)
	}
	if updated.DueDate != nil {
		t.Fatalf("expected due date cleared, got %v", updated.DueDate)
	}
}

func TestTaskListScopedByArea(t *testing.T) {
	app, repos := newTestApp(t)
	createTestUser(t, repos, "boss@studio.it", models.RoleAdmin, models.Permissions{})
	createTestUser(t, repos, "copy@studio.it", models.RoleCollaborator, models.Permissions{Copywriting: true})
	adminToken := loginToken(t, app, "boss@studio.it")
	collaboratorToken := loginToken(t, app, "copy@studio.it")
	clientID := createTestClient(t, app, adminToken, "Acme")
	copyProject := createTestProject(t, app, adminToken, clientID, "Plan", models.AreaCopywriting)
	videoProject := createTestProject(t, app, adminToken, clientID, "Spot", models.AreaVideo)
	createTestTask(t, app, adminToken, copyProject.ID, fiber.Map{"title": "Write copy"})
	createTestTask(t, app, adminToken, videoProject.ID, fiber.Map{"title": "Cut video"})

	response := doJSON(t, app, http.MethodGet, "/api/tasks", collaboratorToken, nil)
	defer response.Body.Close()
	requireStatus(t, response, http.StatusOK)
	var tasks []models.Task
	decodeBody(t, response, &tasks)
	if len(tasks) != 1 || tasks[0].Area != models.AreaCopywriting {
		t.Fatalf("expected only copywriting tasks, got %+v", tasks)
	}

	// Asking for an area outside the caller's permissions yields nothing
	// rather than an error.
	denied := doJSON(t, app, http.MethodGet, "/api/tasks?area="+models.AreaVideo, collaboratorToken, nil)
	defer denied.Body.Close()
	requireStatus(t, denied, http.StatusOK)
	decodeBody(t, denied, &tasks)
	if len(tasks) != 0 {
		t.Fatalf("expected empty list for unpermitted area, got %+v", tasks)
	}
}

func TestTaskListCreationMonthFilter(t *testing.T) {
	app, repos := newTestApp(t)
	createTestUser(t, repos, "boss@studio.it", models.RoleAdmin, models.Permissions{})
	adminToken := loginToken(t, app, "boss@studio.it")
	clientID := createTestClient(t, app, adminToken, "Acme")
	project := createTestProject(t, app, adminToken, clientID, "Plan", models.AreaCopywriting)
	createTestTask(t, app, adminToken, project.ID, nil)
	createTestTask(t, app, adminToken, project.ID, nil)

	currentMonth := time.Now().Format("2006-01")
	response := doJSON(t, app, http.MethodGet, "/api/tasks?month="+currentMonth, adminToken, nil)
	defer response.Body.Close()
	requireStatus(t, response, http.StatusOK)
	var tasks []models.Task
	decodeBody(t, response, &tasks)
	if len(tasks) != 2 {
		t.Fatalf("expected both tasks created this month, got %d", len(tasks))
	}

	past := doJSON(t, app, http.MethodGet, "/api/tasks?month=1999-01", adminToken, nil)
	defer past.Body.Close()
	requireStatus(t, past, http.StatusOK)
	decodeBody(t, past, &tasks)
	if len(tasks) != 0 {
		t.Fatalf("expected no tasks created in 1999, got %+v", tasks)
	}
}

func TestMyTasksEndpoint(t *testing.T) {
	app, repos := newTestApp(t)
	createTestUser(t, repos, "boss@studio.it", models.RoleAdmin, models.Permissions{})
	assignee := createTestUser(t, repos, "copy@studio.it", models.RoleCollaborator, models.Permissions{Copywriting: true})
	adminToken := loginToken(t, app, "boss@studio.it")
	collaboratorToken := loginToken(t, app, "copy@studio.it")
	clientID := createTestClient(t, app, adminToken, "Acme")
	project := createTestProject(t, app, adminToken, clientID, "Plan", models.AreaCopywriting)
	mine := createTestTask(t, app, adminToken, project.ID, fiber.Map{"title": "Mine", "assigned_to": assignee.ID})
	createTestTask(t, app, adminToken, project.ID, fiber.Map{"title": "Unassigned"})

	response := doJSON(t, app, http.MethodGet, "/api/tasks/my", collaboratorToken, nil)
	defer response.Body.Close()
	requireStatus(t, response, http.StatusOK)
	var tasks []models.Task
	decodeBody(t, response, &tasks)
	if len(tasks) != 1 || tasks[0].ID != mine.ID {
		t.Fatalf("expected only the assigned task, got %+v", tasks)
	}
}

func TestTaskCreateInheritsProjectArea(t *testing.T) {
	app, repos := newTestApp(t)
	createTestUser(t, repos, "boss@studio.it", models.RoleAdmin, models.Permissions{})
	adminToken := loginToken(t, app, "boss@studio.it")
	clientID := createTestClient(t, app, adminToken, "Acme")
	project := createTestProject(t, app, adminToken, clientID, "Spot", models.AreaVideo)

	task := createTestTask(t, app, adminToken, project.ID, nil)
	if task.Area != models.AreaVideo {
		t.Fatalf("expected task to inherit project area, got %q", task.Area)
	}
	if task.Status != models.TaskStatusPending || task.Priority != models.PriorityMedium {
		t.Fatalf("expected pending/medium defaults, got %q/%q", task.Status, task.Priority)
	}
}

func TestTaskCreateInvalidStatusRejected(t *testing.T) {
	app, repos := newTestApp(t)
	createTestUser(t, repos, "boss@studio.it", models.RoleAdmin, models.Permissions{})
	adminToken := loginToken(t, app, "boss@studio.it")
	clientID := createTestClient(t, app, adminToken, "Acme")
	project := createTestProject(t, app, adminToken, clientID, "Plan", models.AreaCopywriting)

	response := doJSON(t, app, http.MethodPost, "/api/tasks", adminToken, fiber.Map{
		"project_id": project.ID,
		"title":      "Bad",
		"status":     "paused",
	})
	defer response.Body.Close()
	requireStatus(t, response, http.StatusBadRequest)
}

func TestTaskDeleteOutsideAreaForbidden(t *testing.T) {
	app, repos := newTestApp(t)
	createTestUser(t, repos, "boss@studio.it", models.RoleAdmin, models.Permissions{})
	createTestUser(t, repos, "copy@studio.it", models.RoleCollaborator, models.Permissions{Copywriting: true})
	adminToken := loginToken(t, app, "boss@studio.it")
	collaboratorToken := loginToken(t, app, "copy@studio.it")
	clientID := createTestClient(t, app, adminToken, "Acme")
	project := createTestProject(t, app, adminToken, clientID, "Spot", models.AreaVideo)
	task := createTestTask(t, app, adminToken, project.ID, nil)

	response := doJSON(t, app, http.MethodDelete, "/api/tasks/"+itoa(task.ID), collaboratorToken, nil)
	defer response.Body.Close()
	requireStatus(t, response, http.StatusForbidden)
}
