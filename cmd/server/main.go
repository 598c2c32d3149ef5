/*
main.go - Application entry point

PURPOSE:
  Initializes and starts the wage ledger server. Handles configuration,
  dependency injection, and graceful shutdown.

STARTUP SEQUENCE:
  1. Parse command-line flags, configure logging
  2. Initialize SQLite store
  3. Build the schedule book: builtin scales + JSON rate cards
  4. Create the contract service and API handler
  5. Start server with graceful shutdown

COMMAND-LINE FLAGS:
  -port        HTTP server port (default: 8080)
  -db          SQLite database path (default: wage.db)
               Use ":memory:" for an in-memory database
  -scales      Directory of JSON rate card files to load (optional)
  -jwt-secret  Token signing secret (overrides JWT_SECRET env)
  -token-ttl   Bearer token lifetime (default: 24h)

GRACEFUL SHUTDOWN:
  On SIGINT/SIGTERM:
  1. Stop accepting new connections
  2. Wait for active requests to complete (30s timeout)
  3. Close database connection
  4. Exit

EXAMPLES:
  # Run with file database
  ./server -db="./data/wage.db"

  # Load extra rate cards
  ./server -scales="./configs/scales"

ENVIRONMENT:
  JWT_SECRET  Token signing secret (flag wins when both are set)
  LOG_LEVEL   debug, info, warn, error (default: info)

SEE ALSO:
  - api/server.go: Router configuration
  - api/handlers.go: HTTP handlers
  - store/sqlite/sqlite.go: Database implementation
*/
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/warp/wage-engine/api"
	"github.com/warp/wage-engine/auth"
	"github.com/warp/wage-engine/contract"
	"github.com/warp/wage-engine/engine"
	"github.com/warp/wage-engine/factory"
	"github.com/warp/wage-engine/local802"
	"github.com/warp/wage-engine/logging"
	"github.com/warp/wage-engine/store/sqlite"
)

func main() {
	// Flags
	port := flag.Int("port", 8080, "HTTP server port")
	dbPath := flag.String("db", "wage.db", "SQLite database path")
	scalesDir := flag.String("scales", "", "directory of JSON rate card files")
	jwtSecret := flag.String("jwt-secret", "", "token signing secret (overrides JWT_SECRET env)")
	tokenTTL := flag.Duration("token-ttl", 24*time.Hour, "bearer token lifetime")
	flag.Parse()

	logging.Setup()
	logger := slog.Default()

	secret := *jwtSecret
	if secret == "" {
		secret = os.Getenv("JWT_SECRET")
	}
	if secret == "" {
		secret = "dev-secret-change-me"
		logger.Warn("no JWT secret configured, using insecure development default")
	}

	// Initialize store
	store, err := sqlite.New(*dbPath)
	if err != nil {
		logger.Error("failed to initialize database", "error", err)
		os.Exit(1)
	}
	defer store.Close()

	// Build the schedule book: builtin scales first, then any rate cards
	// dropped into the scales directory.
	book := engine.NewScheduleBook()
	if err := local802.RegisterBuiltin(book); err != nil {
		logger.Error("failed to register builtin scales", "error", err)
		os.Exit(1)
	}
	if *scalesDir != "" {
		n, err := factory.NewScheduleFactory().LoadDir(*scalesDir, book)
		if err != nil {
			logger.Error("failed to load rate cards", "dir", *scalesDir, "error", err)
			os.Exit(1)
		}
		logger.Info("rate cards loaded", "dir", *scalesDir, "count", n)
	}

	// Wire the domain
	calc := engine.NewCalculator(book, logger)
	contracts := contract.NewService(store, calc, logger)
	authenticator := auth.NewPasswordAuthenticator(store)
	tokens := auth.NewJWTManager(secret, *tokenTTL)

	handler := api.NewHandler(contracts, authenticator, tokens, book, logger)
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
		logger.Info("🚀 wage ledger listening", "addr", fmt.Sprintf("http://localhost:%d", *port), "scales", len(book.List()))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server failed", "error", err)
			os.Exit(1)
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		logger.Error("server forced to shutdown", "error", err)
		os.Exit(1)
	}

	logger.Info("server stopped")
}
