package task

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/example/tasks-api/config"
	"github.com/example/tasks-api/domain/task"
	"github.com/go-monolith/mono"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Module owns the SQLite database lifecycle and exposes the task service.
type Module struct {
	db      *gorm.DB
	repo    *task.Repository
	service *Service
	dbPath  string
}

// Compile-time interface checks.
var _ mono.Module = (*Module)(nil)
var _ mono.HealthCheckableModule = (*Module)(nil)

// NewModule creates a new task module.
func NewModule(cfg config.Config) *Module {
	return &Module{
		dbPath: cfg.DBPath,
	}
}

// Name returns the module name.
func (m *Module) Name() string {
	return "task"
}

// Init opens the database, runs migrations, and creates the service.
func (m *Module) Init(_ mono.ServiceContainer) error {
	logLevel := logger.Warn
	if os.Getenv("DB_DEBUG") == "true" {
		logLevel = logger.Info
	}

	db, err := gorm.Open(sqlite.Open(sqliteDSN(m.dbPath)), &gorm.Config{
		Logger: logger.Default.LogMode(logLevel),
	})
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}

	m.db = db
	m.repo = task.NewRepository(db)

	// Idempotent create-if-absent of the tasks table.
	if err := m.repo.Migrate(); err != nil {
		return fmt.Errorf("failed to migrate database: %w", err)
	}

	m.service = NewService(m.repo)

	log.Printf("[task] Database initialized at %s", m.dbPath)
	return nil
}

// Start starts the module.
func (m *Module) Start(_ context.Context) error {
	if m.service == nil {
		return fmt.Errorf("task service not initialized")
	}
	log.Println("[task] Module started")
	return nil
}

// Stop closes the database connection.
func (m *Module) Stop(_ context.Context) error {
	if m.db != nil {
		sqlDB, err := m.db.DB()
		if err == nil {
			sqlDB.Close()
		}
	}
	log.Println("[task] Module stopped")
	return nil
}

// GetService returns the task service.
func (m *Module) GetService() *Service {
	return m.service
}

// Health verifies the database connection is healthy.
func (m *Module) Health(ctx context.Context) mono.HealthStatus {
	if m.db == nil {
		return mono.HealthStatus{
			Healthy: false,
			Message: "database not initialized",
		}
	}

	sqlDB, err := m.db.DB()
	if err != nil {
		return mono.HealthStatus{
			Healthy: false,
			Message: fmt.Sprintf("failed to get sql.DB: %v", err),
		}
	}

	if err := sqlDB.PingContext(ctx); err != nil {
		return mono.HealthStatus{
			Healthy: false,
			Message: fmt.Sprintf("database ping failed: %v", err),
		}
	}

	return mono.HealthStatus{
		Healthy: true,
		Message: "operational",
		Details: map[string]any{
			"driver": "sqlite",
			"path":   m.dbPath,
		},
	}
}

// sqliteDSN appends connection pragmas for file-backed databases. In-memory
// databases (used by tests) are left untouched.
func sqliteDSN(path string) string {
	if path == ":memory:" {
		return path
	}
	return path + "?_journal_mode=WAL&_synchronous=NORMAL&_foreign_keys=on"
}
