package task

import (
	"context"
	"strings"

	"github.com/example/tasks-api/domain/task"
)

// Service implements the task operations on top of the repository.
type Service struct {
	repo *task.Repository
}

// NewService creates a new task service.
func NewService(repo *task.Repository) *Service {
	return &Service{repo: repo}
}

// CreateTask validates and inserts a new task, then re-reads the persisted
// row so the returned value matches what is stored.
func (s *Service) CreateTask(ctx context.Context, req CreateTaskRequest) (*task.Task, error) {
	title := strings.TrimSpace(req.Title)
	if title == "" {
		return nil, ErrTitleRequired
	}

	t := &task.Task{
		Title:     title,
		Completed: req.Completed,
	}
	if err := s.repo.Create(ctx, t); err != nil {
		return nil, err
	}

	return s.repo.GetByID(ctx, t.ID)
}

// GetTask retrieves a task by ID.
func (s *Service) GetTask(ctx context.Context, id uint) (*task.Task, error) {
	return s.repo.GetByID(ctx, id)
}

// ListTasks retrieves all tasks, most recently created first.
func (s *Service) ListTasks(ctx context.Context) ([]task.Task, error) {
	return s.repo.List(ctx)
}

// UpdateTask applies the fields present in the request. At least one field
// must be given, and a given title must be non-empty after trimming.
func (s *Service) UpdateTask(ctx context.Context, id uint, req UpdateTaskRequest) (*task.Task, error) {
	fields := make(map[string]any)

	if req.Title != nil {
		title := strings.TrimSpace(*req.Title)
		if title == "" {
			return nil, ErrTitleEmpty
		}
		fields["title"] = title
	}
	if req.Completed != nil {
		fields["completed"] = *req.Completed
	}
	if len(fields) == 0 {
		return nil, ErrNoFields
	}

	if err := s.repo.UpdateFields(ctx, id, fields); err != nil {
		return nil, err
	}

	return s.repo.GetByID(ctx, id)
}

// ToggleTask flips the completed state of a task. The read and the write are
// two separate statements, so concurrent toggles on the same ID can lose an
// update (last writer wins).
func (s *Service) ToggleTask(ctx context.Context, id uint) (*task.Task, error) {
	current, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	fields := map[string]any{"completed": !current.Completed}
	if err := s.repo.UpdateFields(ctx, id, fields); err != nil {
		return nil, err
	}

	return s.repo.GetByID(ctx, id)
}

// DeleteTask permanently removes a task.
func (s *Service) DeleteTask(ctx context.Context, id uint) error {
	return s.repo.Delete(ctx, id)
}
