package api

import (
	"errors"
	"log"

	domain "github.com/example/tasks-api/domain/task"
	taskmod "github.com/example/tasks-api/modules/task"
	"github.com/gofiber/fiber/v2"
)

// Handlers holds the HTTP handlers for the task routes.
type Handlers struct {
	service *taskmod.Service
}

// NewHandlers creates handlers backed by the given task service.
func NewHandlers(service *taskmod.Service) *Handlers {
	return &Handlers{service: service}
}

// HealthCheck handles GET /health. It never touches storage.
func (h *Handlers) HealthCheck(c *fiber.Ctx) error {
	return c.JSON(HealthResponse{Status: "ok"})
}

// ListTasks handles GET /tasks.
func (h *Handlers) ListTasks(c *fiber.Ctx) error {
	tasks, err := h.service.ListTasks(c.Context())
	if err != nil {
		return h.errorResponse(c, err)
	}

	responses := make([]TaskResponse, 0, len(tasks))
	for i := range tasks {
		responses = append(responses, toTaskResponse(&tasks[i]))
	}
	return c.JSON(responses)
}

// CreateTask handles POST /tasks.
func (h *Handlers) CreateTask(c *fiber.Ctx) error {
	var req taskmod.CreateTaskRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{Error: "invalid request body"})
	}

	created, err := h.service.CreateTask(c.Context(), req)
	if err != nil {
		return h.errorResponse(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(toTaskResponse(created))
}

// GetTask handles GET /tasks/:id.
func (h *Handlers) GetTask(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{Error: "invalid task id"})
	}

	found, err := h.service.GetTask(c.Context(), id)
	if err != nil {
		return h.errorResponse(c, err)
	}

	return c.JSON(toTaskResponse(found))
}

// UpdateTask handles PUT /tasks/:id.
func (h *Handlers) UpdateTask(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{Error: "invalid task id"})
	}

	var req taskmod.UpdateTaskRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{Error: "invalid request body"})
	}

	updated, err := h.service.UpdateTask(c.Context(), id, req)
	if err != nil {
		return h.errorResponse(c, err)
	}

	return c.JSON(toTaskResponse(updated))
}

// ToggleTask handles PATCH /tasks/:id/toggle.
func (h *Handlers) ToggleTask(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{Error: "invalid task id"})
	}

	toggled, err := h.service.ToggleTask(c.Context(), id)
	if err != nil {
		return h.errorResponse(c, err)
	}

	return c.JSON(toTaskResponse(toggled))
}

// DeleteTask handles DELETE /tasks/:id.
func (h *Handlers) DeleteTask(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{Error: "invalid task id"})
	}

	if err := h.service.DeleteTask(c.Context(), id); err != nil {
		return h.errorResponse(c, err)
	}

	return c.SendStatus(fiber.StatusNoContent)
}

// parseID extracts the :id path parameter as a positive integer.
func parseID(c *fiber.Ctx) (uint, error) {
	id, err := c.ParamsInt("id")
	if err != nil {
		return 0, err
	}
	if id <= 0 {
		return 0, errors.New("id must be positive")
	}
	return uint(id), nil
}

// errorResponse maps service errors to HTTP status codes. Validation errors
// map to 400, missing rows to 404, anything else to a generic 500.
func (h *Handlers) errorResponse(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		return c.Status(fiber.StatusNotFound).JSON(ErrorResponse{Error: err.Error()})
	case errors.Is(err, taskmod.ErrTitleRequired),
		errors.Is(err, taskmod.ErrTitleEmpty),
		errors.Is(err, taskmod.ErrNoFields):
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{Error: err.Error()})
	default:
		log.Printf("[api] request failed: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(ErrorResponse{Error: "internal server error"})
	}
}
