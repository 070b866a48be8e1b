package main

import (
	"context"
	"log"
	"os"
	"time"

	"github.com/example/tasks-api/config"
	apimod "github.com/example/tasks-api/modules/api"
	taskmod "github.com/example/tasks-api/modules/task"
	gfshutdown "github.com/gelmium/graceful-shutdown"
	"github.com/go-monolith/mono"
)

const shutdownTimeout = 30 * time.Second

func main() {
	cfg := config.FromEnv()

	log.Println("=== Tasks API ===")
	log.Printf("Database: %s", cfg.DBPath)
	log.Printf("HTTP Port: %d", cfg.Port)
	if cfg.CORSOrigins != "" {
		log.Printf("CORS Origins: %s", cfg.CORSOrigins)
	} else {
		log.Printf("CORS Origins: * (all)")
	}

	// Create modules
	taskModule := taskmod.NewModule(cfg)
	apiModule := apimod.NewModule(cfg)

	// The API module calls the task service directly; wire it before start.
	apiModule.SetTaskModule(taskModule)

	// Create mono application
	app, err := mono.NewMonoApplication(
		mono.WithShutdownTimeout(shutdownTimeout),
		mono.WithLogLevel(mono.LogLevelInfo),
		mono.WithLogFormat(mono.LogFormatText),
	)
	if err != nil {
		log.Fatalf("Failed to create mono application: %v", err)
	}

	// Register modules. The task module must start before the API module so
	// its service is available when the HTTP server comes up.
	app.Register(taskModule)
	app.Register(apiModule)

	ctx := context.Background()
	if err := app.Start(ctx); err != nil {
		log.Fatalf("Failed to start app: %v", err)
	}

	log.Println("=== Application Started ===")
	log.Printf("API available at http://localhost:%d", cfg.Port)
	log.Println("Endpoints:")
	log.Printf("  GET    /health                    - Health check")
	log.Printf("  GET    %s/tasks                   - List tasks", cfg.APIPrefix)
	log.Printf("  POST   %s/tasks                   - Create task", cfg.APIPrefix)
	log.Printf("  GET    %s/tasks/:id               - Get task", cfg.APIPrefix)
	log.Printf("  PUT    %s/tasks/:id               - Update task", cfg.APIPrefix)
	log.Printf("  PATCH  %s/tasks/:id/toggle        - Toggle completed state", cfg.APIPrefix)
	log.Printf("  DELETE %s/tasks/:id               - Delete task", cfg.APIPrefix)
	log.Println("")
	log.Println("Press Ctrl+C to shutdown")

	// Setup graceful shutdown using gelmium/graceful-shutdown
	wait := gfshutdown.GracefulShutdown(
		context.Background(),
		shutdownTimeout,
		map[string]gfshutdown.Operation{
			"mono-app": func(ctx context.Context) error {
				log.Println("Graceful shutdown initiated...")
				return app.Stop(ctx)
			},
		},
	)

	// Wait for shutdown signal and exit with appropriate code
	exitCode := <-wait
	log.Printf("Application exited with code: %d", exitCode)
	os.Exit(exitCode)
}
