package api

import (
	"context"
	"fmt"
	"log"

	"github.com/example/tasks-api/config"
	taskmod "github.com/example/tasks-api/modules/task"
	"github.com/go-monolith/mono"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/google/uuid"
)

// Module provides the HTTP API for the task service.
type Module struct {
	app        *fiber.App
	handlers   *Handlers
	taskModule *taskmod.Module
	port       int
	prefix     string
	corsConfig cors.Config
}

// Compile-time interface checks.
var _ mono.Module = (*Module)(nil)
var _ mono.HealthCheckableModule = (*Module)(nil)

// NewModule creates a new API module.
func NewModule(cfg config.Config) *Module {
	corsConfig := cors.Config{}
	if cfg.CORSOrigins != "" {
		corsConfig.AllowOrigins = cfg.CORSOrigins
	}
	return &Module{
		port:       cfg.Port,
		prefix:     cfg.APIPrefix,
		corsConfig: corsConfig,
	}
}

// Name returns the module name.
func (m *Module) Name() string {
	return "api"
}

// SetTaskModule sets the task module dependency.
func (m *Module) SetTaskModule(tm *taskmod.Module) {
	m.taskModule = tm
}

// Init initializes the Fiber app and global middleware.
func (m *Module) Init(_ mono.ServiceContainer) error {
	m.app = fiber.New(fiber.Config{
		AppName:               "Tasks API",
		DisableStartupMessage: true,
		ErrorHandler:          errorHandler,
	})

	m.app.Use(recover.New())
	m.app.Use(requestid.New(requestid.Config{
		Generator: func() string { return uuid.NewString() },
	}))
	m.app.Use(logger.New(logger.Config{
		Format: "[${time}] ${status} - ${latency} ${method} ${path}\n",
	}))
	m.app.Use(cors.New(m.corsConfig))

	return nil
}

// Start wires the handlers and starts the HTTP server.
func (m *Module) Start(_ context.Context) error {
	if m.taskModule == nil {
		return fmt.Errorf("task module not set")
	}

	service := m.taskModule.GetService()
	if service == nil {
		return fmt.Errorf("task service not available")
	}

	m.handlers = NewHandlers(service)
	m.setupRoutes()

	go func() {
		addr := fmt.Sprintf(":%d", m.port)
		log.Printf("[api] Starting HTTP server on %s", addr)
		if err := m.app.Listen(addr); err != nil {
			log.Printf("[api] HTTP server error: %v", err)
		}
	}()

	return nil
}

// setupRoutes configures all HTTP routes.
func (m *Module) setupRoutes() {
	// Health check is independent of storage and always returns a fixed body.
	m.app.Get("/health", m.handlers.HealthCheck)

	// Task CRUD endpoints. The prefix defaults to /api; an empty prefix
	// exposes the bare /tasks variant.
	tasks := m.app.Group(m.prefix).Group("/tasks")
	tasks.Get("/", m.handlers.ListTasks)
	tasks.Post("/", m.handlers.CreateTask)
	tasks.Get("/:id", m.handlers.GetTask)
	tasks.Put("/:id", m.handlers.UpdateTask)
	tasks.Patch("/:id/toggle", m.handlers.ToggleTask)
	tasks.Delete("/:id", m.handlers.DeleteTask)
}

// Stop shuts down the HTTP server gracefully.
func (m *Module) Stop(_ context.Context) error {
	if m.app != nil {
		log.Println("[api] Shutting down HTTP server...")
		return m.app.Shutdown()
	}
	return nil
}

// Health returns the health status of the module.
func (m *Module) Health(_ context.Context) mono.HealthStatus {
	return mono.HealthStatus{
		Healthy: m.app != nil,
		Message: "operational",
		Details: map[string]any{
			"port": m.port,
		},
	}
}

// errorHandler handles errors escaping Fiber routes.
func errorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	message := "internal server error"

	if e, ok := err.(*fiber.Error); ok {
		code = e.Code
		message = e.Message
	}

	return c.Status(code).JSON(ErrorResponse{Error: message})
}
