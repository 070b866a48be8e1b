package api

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/example/tasks-api/config"
	domain "github.com/example/tasks-api/domain/task"
	taskmod "github.com/example/tasks-api/modules/task"
	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// setupTestApp builds the Fiber app over an in-memory database, bypassing
// the mono runtime.
func setupTestApp(t *testing.T, prefix string) *fiber.App {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)

	repo := domain.NewRepository(db)
	require.NoError(t, repo.Migrate())

	t.Cleanup(func() {
		sqlDB, _ := db.DB()
		sqlDB.Close()
	})

	m := NewModule(config.Config{Port: 0, APIPrefix: prefix})
	require.NoError(t, m.Init(nil))
	m.handlers = NewHandlers(taskmod.NewService(repo))
	m.setupRoutes()

	return m.app
}

func doRequest(t *testing.T, app *fiber.App, method, path, body string) *http.Response {
	t.Helper()

	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func decodeTask(t *testing.T, resp *http.Response) TaskResponse {
	t.Helper()

	var task TaskResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&task))
	return task
}

func decodeTasks(t *testing.T, resp *http.Response) []TaskResponse {
	t.Helper()

	var tasks []TaskResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&tasks))
	return tasks
}

func createTask(t *testing.T, app *fiber.App, title string) TaskResponse {
	t.Helper()

	resp := doRequest(t, app, http.MethodPost, "/api/tasks", fmt.Sprintf(`{"title":%q}`, title))
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)
	return decodeTask(t, resp)
}

func TestHealthCheck(t *testing.T) {
	app := setupTestApp(t, "/api")

	resp := doRequest(t, app, http.MethodGet, "/health", "")
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.JSONEq(t, `{"status":"ok"}`, string(body))
}

func TestCreateTask(t *testing.T) {
	app := setupTestApp(t, "/api")

	resp := doRequest(t, app, http.MethodPost, "/api/tasks", `{"title":"Buy milk"}`)
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)

	created := decodeTask(t, resp)
	assert.Equal(t, "Buy milk", created.Title)
	assert.False(t, created.Completed)
	assert.Greater(t, created.ID, uint(0))
	assert.False(t, created.CreatedAt.IsZero())
}

func TestCreateTask_CompletedProvided(t *testing.T) {
	app := setupTestApp(t, "/api")

	resp := doRequest(t, app, http.MethodPost, "/api/tasks", `{"title":"Done already","completed":true}`)
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)
	assert.True(t, decodeTask(t, resp).Completed)
}

func TestCreateTask_Rejections(t *testing.T) {
	app := setupTestApp(t, "/api")

	tests := []struct {
		name string
		body string
	}{
		{"empty title", `{"title":""}`},
		{"whitespace title", `{"title":"   "}`},
		{"missing title", `{"completed":true}`},
		{"malformed json", `{"title":`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := doRequest(t, app, http.MethodPost, "/api/tasks", tt.body)
			assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)

			var errResp ErrorResponse
			require.NoError(t, json.NewDecoder(resp.Body).Decode(&errResp))
			assert.NotEmpty(t, errResp.Error)
		})
	}

	// Rejected creates must not add rows.
	resp := doRequest(t, app, http.MethodGet, "/api/tasks", "")
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Empty(t, decodeTasks(t, resp))
}

func TestListTasks_MostRecentFirst(t *testing.T) {
	app := setupTestApp(t, "/api")

	createTask(t, app, "first")
	second := createTask(t, app, "second")

	resp := doRequest(t, app, http.MethodGet, "/api/tasks", "")
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	tasks := decodeTasks(t, resp)
	require.Len(t, tasks, 2)
	assert.Equal(t, second.ID, tasks[0].ID)
	assert.Equal(t, "second", tasks[0].Title)
}

func TestGetTask(t *testing.T) {
	app := setupTestApp(t, "/api")
	created := createTask(t, app, "Fetch me")

	t.Run("existing", func(t *testing.T) {
		resp := doRequest(t, app, http.MethodGet, fmt.Sprintf("/api/tasks/%d", created.ID), "")
		require.Equal(t, fiber.StatusOK, resp.StatusCode)
		assert.Equal(t, created, decodeTask(t, resp))
	})

	t.Run("unknown id", func(t *testing.T) {
		resp := doRequest(t, app, http.MethodGet, "/api/tasks/99999", "")
		assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
	})

	t.Run("non-numeric id", func(t *testing.T) {
		resp := doRequest(t, app, http.MethodGet, "/api/tasks/abc", "")
		assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	})
}

func TestUpdateTask(t *testing.T) {
	app := setupTestApp(t, "/api")
	created := createTask(t, app, "Original")
	path := fmt.Sprintf("/api/tasks/%d", created.ID)

	t.Run("title and completed", func(t *testing.T) {
		resp := doRequest(t, app, http.MethodPut, path, `{"title":"Renamed","completed":true}`)
		require.Equal(t, fiber.StatusOK, resp.StatusCode)

		updated := decodeTask(t, resp)
		assert.Equal(t, "Renamed", updated.Title)
		assert.True(t, updated.Completed)
	})

	t.Run("completed false is applied", func(t *testing.T) {
		resp := doRequest(t, app, http.MethodPut, path, `{"completed":false}`)
		require.Equal(t, fiber.StatusOK, resp.StatusCode)

		updated := decodeTask(t, resp)
		assert.False(t, updated.Completed)
		assert.Equal(t, "Renamed", updated.Title)
	})

	t.Run("no fields", func(t *testing.T) {
		resp := doRequest(t, app, http.MethodPut, path, `{}`)
		assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	})

	t.Run("empty title", func(t *testing.T) {
		resp := doRequest(t, app, http.MethodPut, path, `{"title":"  "}`)
		assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	})

	t.Run("unknown id with valid body", func(t *testing.T) {
		resp := doRequest(t, app, http.MethodPut, "/api/tasks/99999", `{"title":"Nope"}`)
		assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
	})
}

func TestToggleTask(t *testing.T) {
	app := setupTestApp(t, "/api")
	created := createTask(t, app, "Toggle me")
	path := fmt.Sprintf("/api/tasks/%d/toggle", created.ID)

	resp := doRequest(t, app, http.MethodPatch, path, "")
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.True(t, decodeTask(t, resp).Completed)

	resp = doRequest(t, app, http.MethodPatch, path, "")
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.False(t, decodeTask(t, resp).Completed)

	t.Run("unknown id", func(t *testing.T) {
		resp := doRequest(t, app, http.MethodPatch, "/api/tasks/99999/toggle", "")
		assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
	})
}

func TestDeleteTask(t *testing.T) {
	app := setupTestApp(t, "/api")
	created := createTask(t, app, "Delete me")
	path := fmt.Sprintf("/api/tasks/%d", created.ID)

	resp := doRequest(t, app, http.MethodDelete, path, "")
	require.Equal(t, fiber.StatusNoContent, resp.StatusCode)

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Empty(t, body, "delete success must return no body")

	t.Run("gone afterwards", func(t *testing.T) {
		resp := doRequest(t, app, http.MethodGet, path, "")
		assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
	})

	t.Run("delete twice", func(t *testing.T) {
		resp := doRequest(t, app, http.MethodDelete, path, "")
		assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
	})
}

func TestBarePrefixVariant(t *testing.T) {
	app := setupTestApp(t, "")

	resp := doRequest(t, app, http.MethodPost, "/tasks", `{"title":"Bare routes"}`)
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)

	resp = doRequest(t, app, http.MethodGet, "/tasks", "")
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Len(t, decodeTasks(t, resp), 1)

	// The prefixed routes do not exist in this variant.
	resp = doRequest(t, app, http.MethodGet, "/api/tasks", "")
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
}
