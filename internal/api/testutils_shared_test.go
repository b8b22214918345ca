package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strconv"
	"testing"
	"time"

	"github.com/doviland/gestionale/internal/db"
	"github.com/doviland/gestionale/internal/models"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"
)

const testPassword = "StrongPass1"

func itoa(id uint) string {
	return strconv.FormatUint(uint64(id), 10)
}

func newTestApp(t *testing.T) (*fiber.App, *db.Repositories) {
	t.Helper()

	databasePath := filepath.Join(t.TempDir(), "gestionale-test.db")
	database, err := db.OpenSQLite(databasePath)
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	sqlDB, err := database.DB()
	if err != nil {
		t.Fatalf("open sql db: %v", err)
	}
	t.Cleanup(func() {
		_ = sqlDB.Close()
	})

	repos := db.NewRepositories(database)
	handler := NewHandler(repos, []byte("test-secret-key"), time.UTC, zerolog.Nop())

	app := fiber.New()
	RegisterRoutes(app, handler)
	return app, repos
}

func createTestUser(t *testing.T, repos *db.Repositories, email string, role string, permissions models.Permissions) models.User {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte(testPassword), bcrypt.DefaultCost)
	if err != nil {
		t.Fatalf("hash password: %v", err)
	}
	if role == models.RoleAdmin {
		permissions = models.AllPermissions()
	}
	user := models.User{
		Email:        email,
		PasswordHash: string(hash),
		Name:         email,
		Role:         role,
		Permissions:  permissions,
		IsActive:     true,
	}
	if err := repos.Users.Create(&user); err != nil {
		t.Fatalf("create user: %v", err)
	}
	return user
}

func loginToken(t *testing.T, app *fiber.App, email string) string {
	t.Helper()

	response := doJSON(t, app, http.MethodPost, "/api/auth/login", "", fiber.Map{
		"email":    email,
		"password": testPassword,
	})
	defer response.Body.Close()
	if response.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(response.Body)
		t.Fatalf("login failed with %d: %s", response.StatusCode, string(body))
	}

	var payload struct {
		Token string `json:"token"`
	}
	decodeBody(t, response, &payload)
	if payload.Token == "" {
		t.Fatal("expected a token in the login response")
	}
	return payload.Token
}

func doJSON(t *testing.T, app *fiber.App, method string, path string, token string, body any) *http.Response {
	t.Helper()

	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("encode body: %v", err)
		}
		reader = bytes.NewReader(encoded)
	}

	request := httptest.NewRequest(method, path, reader)
	if body != nil {
		request.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	}
	if token != "" {
		request.Header.Set(fiber.HeaderAuthorization, "Bearer "+token)
	}

	response, err := app.Test(request, -1)
	if err != nil {
		t.Fatalf("request %s %s failed: %v", method, path, err)
	}
	return response
}

func decodeBody(t *testing.T, response *http.Response, target any) {
	t.Helper()

	body, err := io.ReadAll(response.Body)
	if err != nil {
		t.Fatalf("read body: %v", err)
	}
	if err := json.Unmarshal(body, target); err != nil {
		t.Fatalf("decode body %q: %v", string(body), err)
	}
}

func requireStatus(t *testing.T, response *http.Response, expected int) {
	t.Helper()

	if response.StatusCode != expected {
		body, _ := io.ReadAll(response.Body)
		t.Fatalf("expected %d, got %d: %s", expected, response.StatusCode, string(body))
	}
}

func createTestClient(t *testing.T, app *fiber.App, token string, name string) uint {
	t.Helper()

	response := doJSON(t, app, http.MethodPost, "/api/clients", token, fiber.Map{"name": name})
	defer response.Body.Close()
	requireStatus(t, response, http.StatusCreated)

	var client models.Client
	decodeBody(t, response, &client)
	return client.ID
}

func createTestProject(t *testing.T, app *fiber.App, token string, clientID uint, name string, area string) models.Project {
	t.Helper()

	response := doJSON(t, app, http.MethodPost, "/api/projects", token, fiber.Map{
		"client_id": clientID,
		"name":      name,
		"area":      area,
	})
	defer response.Body.Close()
	requireStatus(t, response, http.StatusCreated)

	var project models.Project
	decodeBody(t, response, &project)
	return project
}

func createTestTask(t *testing.T, app *fiber.App, token string, projectID uint, overrides fiber.Map) models.Task {
	t.Helper()

	body := fiber.Map{"project_id": projectID, "title": fmt.Sprintf("task-%d", time.Now().UnixNano())}
	for key, value := range overrides {
		body[key] = value
	}
	response := doJSON(t, app, http.MethodPost, "/api/tasks", token, body)
	defer response.Body.Close()
	requireStatus(t, response, http.StatusCreated)

	var task models.Task
	decodeBody(t, response, &task)
	return task
}
