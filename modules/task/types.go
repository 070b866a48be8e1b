package task

import "errors"

// Validation errors reported before any storage call.
var (
	ErrTitleRequired = errors.New("title is required")
	ErrTitleEmpty    = errors.New("title cannot be empty")
	ErrNoFields      = errors.New("no fields to update")
)

// CreateTaskRequest is the request for creating a task.
type CreateTaskRequest struct {
	Title     string `json:"title"`
	Completed bool   `json:"completed"`
}

// UpdateTaskRequest is the request for updating a task. Pointer fields
// distinguish "absent" from zero values; only present fields are applied.
type UpdateTaskRequest struct {
	Title     *string `json:"title,omitempty"`
	Completed *bool   `json:"completed,omitempty"`
}
