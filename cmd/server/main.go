/*
main.go - Application entry point

PURPOSE:
  Initializes and starts the ShiftGuard compliance server. Handles
  configuration, dependency injection, and graceful shutdown.

STARTUP SEQUENCE:
  1. Parse command-line flags
  2. Load layered configuration (defaults, YAML file, env)
  3. Initialize SQLite store
  4. Build the rule registry for the configured jurisdiction
  5. Optionally seed the development dataset
  6. Start server with graceful shutdown

COMMAND-LINE FLAGS:
  -addr    HTTP listen address (overrides config)
  -db      SQLite database path (overrides config)
           Use ":memory:" for an in-memory database
  -config  YAML config file path
  -seed    Load the development task catalog and demo workers

GRACEFUL SHUTDOWN:
  On SIGINT/SIGTERM:
  1. Stop accepting new connections
  2. Wait for active requests to complete (30s timeout)
  3. Close database connection
  4. Exit

EXAMPLES:
  # Run with file database
  ./server -db="./data/shiftguard.db"

  # Run with in-memory database and seed data
  ./server -db=":memory:" -seed

  # Run with a jurisdiction override file
  SHIFTGUARD_JURISDICTION_FILE=./ca.json ./server

SEE ALSO:
  - config/config.go: Configuration layering
  - api/server.go: Router configuration
  - store/sqlite/sqlite.go: Database implementation
*/
package main

import (
	"context"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/shiftguard/compliance-engine/api"
	"github.com/shiftguard/compliance-engine/compliance"
	"github.com/shiftguard/compliance-engine/config"
	"github.com/shiftguard/compliance-engine/engine"
	"github.com/shiftguard/compliance-engine/factory"
	"github.com/shiftguard/compliance-engine/store/sqlite"
)

func main() {
	// Flags
	addr := flag.String("addr", "", "HTTP listen address (overrides config)")
	dbPath := flag.String("db", "", "SQLite database path (overrides config)")
	configPath := flag.String("config", "", "YAML config file path")
	seed := flag.Bool("seed", false, "load development seed data")
	flag.Parse()

	// Configuration
	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	if *addr != "" {
		cfg.Addr = *addr
	}
	if *dbPath != "" {
		cfg.DBPath = *dbPath
	}
	if *seed {
		cfg.Seed = true
	}

	// Initialize store
	store, err := sqlite.New(cfg.DBPath)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer store.Close()

	// Rule registry for the configured jurisdiction
	registry, err := factory.BuildRegistry(cfg.JurisdictionFile)
	if err != nil {
		log.Fatalf("Failed to build rule registry: %v", err)
	}
	log.Printf("Rule registry loaded: %d rules", registry.Len())

	checker := compliance.NewChecker(store, registry)
	checker.Options = engine.CheckOptions{StopOnFirstFailure: cfg.StopOnFirstFailure}

	// Initialize handler
	handler := api.NewHandler(store, checker)

	if cfg.Seed {
		if err := api.Seed(context.Background(), store); err != nil {
			log.Printf("Warning: Failed to load seed data: %v", err)
		}
	}

	// Create router
	router := api.NewRouter(handler)

	// Create server
	server := &http.Server{
		Addr:         cfg.Addr,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in goroutine
	go func() {
		log.Printf("🚀 Server starting on http://localhost%s", cfg.Addr)
		log.Printf("📊 API available at http://localhost%s/api", cfg.Addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server failed: %v", err)
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}

	log.Println("Server stopped")
}
