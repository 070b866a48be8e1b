package api

import (
	"time"

	"github.com/example/tasks-api/domain/task"
)

// TaskResponse is the HTTP representation of a task.
type TaskResponse struct {
	ID        uint      `json:"id"`
	Title     string    `json:"title"`
	Completed bool      `json:"completed"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// HealthResponse is the HTTP response for the health check.
type HealthResponse struct {
	Status string `json:"status"`
}

// ErrorResponse is the HTTP response for errors.
type ErrorResponse struct {
	Error string `json:"error"`
}

// toTaskResponse converts a task entity to its HTTP representation.
func toTaskResponse(t *task.Task) TaskResponse {
	return TaskResponse{
		ID:        t.ID,
		Title:     t.Title,
		Completed: t.Completed,
		CreatedAt: t.CreatedAt,
		UpdatedAt: t.UpdatedAt,
	}
}
