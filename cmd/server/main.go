/*
main.go - Application entry point

PURPOSE:
  Initializes and starts the driver metrics engine server. Handles
  configuration, store selection, and graceful shutdown.

STARTUP SEQUENCE:
  1. Load .env (if present) and parse command-line flags
  2. Initialize the record store (memory, sqlite, or supabase)
  3. Create API handler with dependencies
  4. Configure HTTP router
  5. Start server with graceful shutdown

COMMAND-LINE FLAGS:
  -port    HTTP server port (default: 8080)
  -store   Backend: memory | sqlite | supabase (default: sqlite)
  -db      SQLite database path (default: driver.db)
           Use ":memory:" for an in-memory database

ENVIRONMENT (for -store=supabase, loadable from .env):
  SUPABASE_URL      Project URL
  SUPABASE_KEY      Service or anon key
  SUPABASE_USER_ID  Driver's user ID (all queries are scoped to it)

GRACEFUL SHUTDOWN:
  On SIGINT/SIGTERM:
  1. Stop accepting new connections
  2. Wait for active requests to complete (30s timeout)
  3. Close the store
  4. Exit

EXAMPLES:
  # Run with a local file database
  ./server -db="./data/driver.db"

  # Run fully in memory (demo mode; seed via POST /api/demo/load)
  ./server -store=memory

  # Run against the hosted backend
  SUPABASE_URL=... SUPABASE_KEY=... SUPABASE_USER_ID=... ./server -store=supabase

SEE ALSO:
  - api/server.go: Router configuration
  - api/handlers.go: HTTP handlers
  - store/: Backend implementations
*/
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/gigdrive/metrics-engine/api"
	"github.com/gigdrive/metrics-engine/ledger"
	"github.com/gigdrive/metrics-engine/store/memory"
	"github.com/gigdrive/metrics-engine/store/sqlite"
	"github.com/gigdrive/metrics-engine/store/supabase"
)

func main() {
	// .env is optional; real environments set variables directly.
	_ = godotenv.Load()

	// Flags
	port := flag.Int("port", 8080, "HTTP server port")
	backend := flag.String("store", "sqlite", "record store backend: memory | sqlite | supabase")
	dbPath := flag.String("db", "driver.db", "SQLite database path")
	flag.Parse()

	// Initialize store
	store, closeStore, err := newStore(*backend, *dbPath)
	if err != nil {
		log.Fatalf("Failed to initialize store: %v", err)
	}
	defer closeStore()

	// Initialize handler and router
	handler := api.NewHandler(store)
	router := api.NewRouter(handler)

	// Create server
	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", *port),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in goroutine
	go func() {
		log.Printf("🚀 Server starting on http://localhost:%d (store: %s)", *port, *backend)
		log.Printf("📊 API available at http://localhost:%d/api", *port)
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

// newStore builds the selected backend. The returned close function is
// a no-op for backends without connections to release.
func newStore(backend, dbPath string) (ledger.RecordStore, func(), error) {
	switch backend {
	case "memory":
		return memory.New(), func() {}, nil

	case "sqlite":
		s, err := sqlite.New(dbPath)
		if err != nil {
			return nil, nil, err
		}
		return s, func() { s.Close() }, nil

	case "supabase":
		url := os.Getenv("SUPABASE_URL")
		key := os.Getenv("SUPABASE_KEY")
		userID := os.Getenv("SUPABASE_USER_ID")
		if url == "" || key == "" || userID == "" {
			return nil, nil, fmt.Errorf("supabase store requires SUPABASE_URL, SUPABASE_KEY and SUPABASE_USER_ID")
		}
		s, err := supabase.New(url, key, userID)
		if err != nil {
			return nil, nil, err
		}
		return s, func() {}, nil

	default:
		return nil, nil, fmt.Errorf("unknown store backend %q", backend)
	}
}
