package api

import (
	"net/http"
	"testing"

	"github.com/doviland/gestionale/internal/models"
	"github.com/gofiber/fiber/v2"
)

func TestLoginAndMe(t *testing.T) {
	app, repos := newTestApp(t)
	createTestUser(t, repos, "boss@studio.it", models.RoleAdmin, models.Permissions{})

	token := loginToken(t, app, "boss@studio.it")

	response := doJSON(t, app, http.MethodGet, "/api/auth/me", token, nil)
	defer response.Body.Close()
	requireStatus(t, response, http.StatusOK)

	var me models.User
	decodeBody(t, response, &me)
	if me.Email != "boss@studio.it" || me.Role != models.RoleAdmin {
		t.Fatalf("unexpected principal: %+v", me)
	}
	if me.PasswordHash != "" {
		t.Fatal("password hash must never be serialized")
	}
}

func TestLoginWrongPassword(t *testing.T) {
	app, repos := newTestApp(t)
	createTestUser(t, repos, "boss@studio.it", models.RoleAdmin, models.Permissions{})

	response := doJSON(t, app, http.MethodPost, "/api/auth/login", "", fiber.Map{
		"email":    "boss@studio.it",
		"password": "WrongPass1",
	})
	defer response.Body.Close()
	requireStatus(t, response, http.StatusUnauthorized)
}

func TestLoginInactiveUser(t *testing.T) {
	app, repos := newTestApp(t)
	user := createTestUser(t, repos, "gone@studio.it", models.RoleCollaborator, models.Permissions{Video: true})
	if err := repos.Users.UpdateByID(user.ID, map[string]any{"is_active": false}); err != nil {
		t.Fatalf("deactivate user: %v", err)
	}

	response := doJSON(t, app, http.MethodPost, "/api/auth/login", "", fiber.Map{
		"email":    "gone@studio.it",
		"password": testPassword,
	})
	defer response.Body.Close()
	requireStatus(t, response, http.StatusUnauthorized)
}

func TestProtectedRoutesRequireToken(t *testing.T) {
	app, _ := newTestApp(t)

	response := doJSON(t, app, http.MethodGet, "/api/dashboard/stats", "", nil)
	defer response.Body.Close()
	requireStatus(t, response, http.StatusUnauthorized)

	garbage := doJSON(t, app, http.MethodGet, "/api/tasks", "not-a-token", nil)
	defer garbage.Body.Close()
	requireStatus(t, garbage, http.StatusUnauthorized)
}

func TestUserManagementAdminOnly(t *testing.T) {
	app, repos := newTestApp(t)
	createTestUser(t, repos, "boss@studio.it", models.RoleAdmin, models.Permissions{})
	createTestUser(t, repos, "copy@studio.it", models.RoleCollaborator, models.Permissions{Copywriting: true})
	collaboratorToken := loginToken(t, app, "copy@studio.it")

	response := doJSON(t, app, http.MethodGet, "/api/auth/users", collaboratorToken, nil)
	defer response.Body.Close()
	requireStatus(t, response, http.StatusForbidden)

	create := doJSON(t, app, http.MethodPost, "/api/auth/users", collaboratorToken, fiber.Map{
		"email": "new@studio.it", "password": testPassword, "name": "New",
	})
	defer create.Body.Close()
	requireStatus(t, create, http.StatusForbidden)
}

func TestCreateUserDuplicateEmail(t *testing.T) {
	app, repos := newTestApp(t)
	createTestUser(t, repos, "boss@studio.it", models.RoleAdmin, models.Permissions{})
	createTestUser(t, repos, "copy@studio.it", models.RoleCollaborator, models.Permissions{})
	adminToken := loginToken(t, app, "boss@studio.it")

	response := doJSON(t, app, http.MethodPost, "/api/auth/users", adminToken, fiber.Map{
		"email":    "copy@studio.it",
		"password": testPassword,
		"name":     "Duplicate",
	})
	defer response.Body.Close()
	requireStatus(t, response, http.StatusConflict)
}

func TestAdminCannotDeleteThemselves(t *testing.T) {
	app, repos := newTestApp(t)
	admin := createTestUser(t, repos, "boss@studio.it", models.RoleAdmin, models.Permissions{})
	adminToken := loginToken(t, app, "boss@studio.it")

	response := doJSON(t, app, http.MethodDelete, "/api/auth/users/"+itoa(admin.ID), adminToken, nil)
	defer response.Body.Close()
	requireStatus(t, response, http.StatusBadRequest)
}

func TestAdminManagesUserLifecycle(t *testing.T) {
	app, repos := newTestApp(t)
	createTestUser(t, repos, "boss@studio.it", models.RoleAdmin, models.Permissions{})
	adminToken := loginToken(t, app, "boss@studio.it")

	create := doJSON(t, app, http.MethodPost, "/api/auth/users", adminToken, fiber.Map{
		"email":       "video@studio.it",
		"password":    testPassword,
		"name":        "Video Person",
		"role":        models.RoleCollaborator,
		"permissions": fiber.Map{"video": true},
	})
	requireStatus(t, create, http.StatusCreated)
	var created models.User
	decodeBody(t, create, &created)
	create.Body.Close()
	if !created.Permissions.Video || created.Permissions.Adv {
		t.Fatalf("unexpected permissions: %+v", created.Permissions)
	}

	update := doJSON(t, app, http.MethodPut, "/api/auth/users/"+itoa(created.ID), adminToken, fiber.Map{
		"role": models.RoleAdmin,
	})
	requireStatus(t, update, http.StatusOK)
	var promoted models.User
	decodeBody(t, update, &promoted)
	update.Body.Close()
	if promoted.Permissions != models.AllPermissions() {
		t.Fatalf("expected full permissions after promotion, got %+v", promoted.Permissions)
	}

	remove := doJSON(t, app, http.MethodDelete, "/api/auth/users/"+itoa(created.ID), adminToken, nil)
	defer remove.Body.Close()
	requireStatus(t, remove, http.StatusOK)
}
