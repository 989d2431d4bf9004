package handlers_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"userapi/internal/handlers"
	"userapi/internal/models"
	"userapi/internal/repositories"
	"userapi/internal/services"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// setupApp sets up a Fiber app for testing with in-memory SQLite and the full
// handler/service/repository stack.
func setupApp() (*fiber.App, error) {
	db, err := gorm.Open(sqlite.Open("file::memory:?cache=shared"), &gorm.Config{TranslateError: true})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to in-memory database: %w", err)
	}

	if err := db.AutoMigrate(&models.User{}); err != nil {
		return nil, fmt.Errorf("failed to auto-migrate database: %w", err)
	}

	userRepo := repositories.NewGORMUserRepository(db)
	userService := services.NewUserService(userRepo, nil)
	userHandler := handlers.NewUserHandler(userService)

	app := fiber.New()
	api := app.Group("/api")
	userHandler.RegisterRoutes(api)

	return app, nil
}

// TestMain runs setup and teardown for all tests
func TestMain(m *testing.M) {
	// Suppress logging during tests for cleaner output
	log.SetOutput(io.Discard)
	os.Exit(m.Run())
}

func createUser(t *testing.T, app *fiber.App, username, email string) models.UserResponse {
	t.Helper()

	body := map[string]string{
		"username":   username,
		"email":      email,
		"password":   "password123",
		"first_name": "Test",
		"last_name":  "User",
	}
	jsonBody, _ := json.Marshal(body)
	req := httptest.NewRequest(http.MethodPost, "/api/users", bytes.NewReader(jsonBody))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	defer resp.Body.Close()

	var created models.UserResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&created))
	return created
}

func TestCreateUser(t *testing.T) {
	app, err := setupApp()
	require.NoError(t, err)

	body := map[string]string{
		"username": "createuser",
		"email":    "createuser@example.com",
		"password": "password123",
	}
	jsonBody, _ := json.Marshal(body)
	req := httptest.NewRequest(http.MethodPost, "/api/users", bytes.NewReader(jsonBody))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req, -1)
	assert.NoError(t, err)
	assert.Equal(t, http.StatusCreated, resp.StatusCode)

	rawBody, err := io.ReadAll(resp.Body)
	assert.NoError(t, err)
	resp.Body.Close()

	// The password must never appear in any outbound representation.
	assert.NotContains(t, string(rawBody), "password")

	var created models.UserResponse
	assert.NoError(t, json.Unmarshal(rawBody, &created))
	assert.NotEmpty(t, created.ID)
	assert.Equal(t, "createuser", created.Username)
	assert.Equal(t, "createuser@example.com", created.Email)
	assert.True(t, created.Active)
	assert.False(t, created.CreatedAt.IsZero())
}

func TestCreateUser_ValidationFailure(t *testing.T) {
	app, err := setupApp()
	require.NoError(t, err)

	// Username of length 2 violates the min=3 constraint.
	body := map[string]string{
		"username": "ab",
		"email":    "short@example.com",
		"password": "password123",
	}
	jsonBody, _ := json.Marshal(body)
	req := httptest.NewRequest(http.MethodPost, "/api/users", bytes.NewReader(jsonBody))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req, -1)
	assert.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	var errResp models.ErrorResponse
	assert.NoError(t, json.NewDecoder(resp.Body).Decode(&errResp))
	resp.Body.Close()

	assert.Equal(t, http.StatusBadRequest, errResp.Status)
	assert.Equal(t, "Bad Request", errResp.Error)
	assert.Equal(t, "/api/users", errResp.Path)
	require.NotEmpty(t, errResp.ValidationErrors)
	assert.Equal(t, "username", errResp.ValidationErrors[0].Field)
}

func TestCreateUser_DuplicateUsername(t *testing.T) {
	app, err := setupApp()
	require.NoError(t, err)

	createUser(t, app, "dupuser", "dupuser@example.com")

	body := map[string]string{
		"username": "dupuser",
		"email":    "different@example.com",
		"password": "password123",
	}
	jsonBody, _ := json.Marshal(body)
	req := httptest.NewRequest(http.MethodPost, "/api/users", bytes.NewReader(jsonBody))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req, -1)
	assert.NoError(t, err)
	assert.Equal(t, http.StatusConflict, resp.StatusCode)

	var errResp models.ErrorResponse
	assert.NoError(t, json.NewDecoder(resp.Body).Decode(&errResp))
	resp.Body.Close()

	assert.Equal(t, "Conflict", errResp.Error)
	assert.Contains(t, errResp.Message, "username")
	assert.Contains(t, errResp.Message, "dupuser")
}

func TestCreateUser_DuplicateEmail(t *testing.T) {
	app, err := setupApp()
	require.NoError(t, err)

	createUser(t, app, "emailuser", "emailuser@example.com")

	body := map[string]string{
		"username": "emailuser2",
		"email":    "emailuser@example.com",
		"password": "password123",
	}
	jsonBody, _ := json.Marshal(body)
	req := httptest.NewRequest(http.MethodPost, "/api/users", bytes.NewReader(jsonBody))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req, -1)
	assert.NoError(t, err)
	assert.Equal(t, http.StatusConflict, resp.StatusCode)

	var errResp models.ErrorResponse
	assert.NoError(t, json.NewDecoder(resp.Body).Decode(&errResp))
	resp.Body.Close()

	assert.Contains(t, errResp.Message, "email")
}

func TestGetUserByID(t *testing.T) {
	app, err := setupApp()
	require.NoError(t, err)

	created := createUser(t, app, "getbyid", "getbyid@example.com")

	req := httptest.NewRequest(http.MethodGet, "/api/users/"+created.ID, nil)
	resp, err := app.Test(req, -1)
	assert.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var fetched models.UserResponse
	assert.NoError(t, json.NewDecoder(resp.Body).Decode(&fetched))
	resp.Body.Close()
	assert.Equal(t, created.ID, fetched.ID)
	assert.Equal(t, "getbyid", fetched.Username)
}

func TestGetUserByID_NotFound(t *testing.T) {
	app, err := setupApp()
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/api/users/"+uuid.New().String(), nil)
	resp, err := app.Test(req, -1)
	assert.NoError(t, err)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	// Misses answer with an empty body, not an error payload.
	rawBody, err := io.ReadAll(resp.Body)
	assert.NoError(t, err)
	resp.Body.Close()
	assert.Empty(t, rawBody)
}

func TestGetUserByID_InvalidID(t *testing.T) {
	app, err := setupApp()
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/api/users/not-a-uuid", nil)
	resp, err := app.Test(req, -1)
	assert.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	var errResp models.ErrorResponse
	assert.NoError(t, json.NewDecoder(resp.Body).Decode(&errResp))
	resp.Body.Close()
	assert.Equal(t, "Bad Request", errResp.Error)
}

func TestGetUserByUsername(t *testing.T) {
	app, err := setupApp()
	require.NoError(t, err)

	created := createUser(t, app, "byusername", "byusername@example.com")

	req := httptest.NewRequest(http.MethodGet, "/api/users/username/byusername", nil)
	resp, err := app.Test(req, -1)
	assert.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var fetched models.UserResponse
	assert.NoError(t, json.NewDecoder(resp.Body).Decode(&fetched))
	resp.Body.Close()
	assert.Equal(t, created.ID, fetched.ID)

	// Unknown username is a bare 404.
	req = httptest.NewRequest(http.MethodGet, "/api/users/username/ghost", nil)
	resp, err = app.Test(req, -1)
	assert.NoError(t, err)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	resp.Body.Close()
}

func TestGetAllUsers(t *testing.T) {
	app, err := setupApp()
	require.NoError(t, err)

	createUser(t, app, "listuser1", "listuser1@example.com")
	createUser(t, app, "listuser2", "listuser2@example.com")

	req := httptest.NewRequest(http.MethodGet, "/api/users", nil)
	resp, err := app.Test(req, -1)
	assert.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var users []models.UserResponse
	assert.NoError(t, json.NewDecoder(resp.Body).Decode(&users))
	resp.Body.Close()
	assert.GreaterOrEqual(t, len(users), 2)
}

func TestUpdateUser(t *testing.T) {
	app, err := setupApp()
	require.NoError(t, err)

	created := createUser(t, app, "updateme", "updateme@example.com")

	// Empty password in the update body leaves the stored password alone.
	body := map[string]string{
		"username":   "updated",
		"email":      "updated@example.com",
		"first_name": "Updated",
		"last_name":  "Name",
	}
	jsonBody, _ := json.Marshal(body)
	req := httptest.NewRequest(http.MethodPut, "/api/users/"+created.ID, bytes.NewReader(jsonBody))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req, -1)
	assert.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var updated models.UserResponse
	assert.NoError(t, json.NewDecoder(resp.Body).Decode(&updated))
	resp.Body.Close()
	assert.Equal(t, created.ID, updated.ID)
	assert.Equal(t, "updated", updated.Username)
	assert.Equal(t, "updated@example.com", updated.Email)
	assert.Equal(t, "Updated", updated.FirstName)
}

func TestUpdateUser_NotFound(t *testing.T) {
	app, err := setupApp()
	require.NoError(t, err)

	body := map[string]string{
		"username": "ghostuser",
		"email":    "ghost@example.com",
	}
	jsonBody, _ := json.Marshal(body)
	req := httptest.NewRequest(http.MethodPut, "/api/users/"+uuid.New().String(), bytes.NewReader(jsonBody))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req, -1)
	assert.NoError(t, err)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	rawBody, err := io.ReadAll(resp.Body)
	assert.NoError(t, err)
	resp.Body.Close()
	assert.Empty(t, rawBody)
}

func TestDeleteUser(t *testing.T) {
	app, err := setupApp()
	require.NoError(t, err)

	created := createUser(t, app, "deleteme", "deleteme@example.com")

	req := httptest.NewRequest(http.MethodDelete, "/api/users/"+created.ID, nil)
	resp, err := app.Test(req, -1)
	assert.NoError(t, err)
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
	resp.Body.Close()

	// Verify deletion
	req = httptest.NewRequest(http.MethodGet, "/api/users/"+created.ID, nil)
	resp, err = app.Test(req, -1)
	assert.NoError(t, err)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	resp.Body.Close()

	// Deleting again reports 404, not an error payload.
	req = httptest.NewRequest(http.MethodDelete, "/api/users/"+created.ID, nil)
	resp, err = app.Test(req, -1)
	assert.NoError(t, err)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	rawBody, err := io.ReadAll(resp.Body)
	assert.NoError(t, err)
	resp.Body.Close()
	assert.Empty(t, rawBody)
}
