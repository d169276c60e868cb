/*
main.go - Application entry point

PURPOSE:
  Initializes and starts the TrackEdge bookkeeping server. Handles
  configuration, dependency injection, and graceful shutdown.

STARTUP SEQUENCE:
  1. Load .env (if present) and parse command-line flags
  2. Open the three SQLite stores (purchase, sales, service)
  3. Build the three ledger engines
  4. Configure HTTP router with logging and metrics
  5. Start server with graceful shutdown

CONFIGURATION:
  Flags override environment variables; .env files feed the environment.

  -port / PORT               HTTP server port (default: 8080)
  -data / TRACKEDGE_DATA     Directory holding the three .db files
                             (default: ./data)
  -log-level / LOG_LEVEL     zerolog level: debug, info, warn, error

GRACEFUL SHUTDOWN:
  On SIGINT/SIGTERM:
  1. Stop accepting new connections
  2. Wait for active requests to complete (30s timeout)
  3. Close database connections
  4. Exit

EXAMPLES:
  # Run with default data directory
  ./trackedge

  # Run with a dedicated data directory on another port
  ./trackedge -data=/var/lib/trackedge -port=3000

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
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"

	"github.com/trackedge/books/api"
	"github.com/trackedge/books/purchase"
	"github.com/trackedge/books/sales"
	"github.com/trackedge/books/service"
	"github.com/trackedge/books/store/sqlite"
)

func main() {
	// .env is optional; real environment wins over file values.
	_ = godotenv.Load()

	port := flag.Int("port", envInt("PORT", 8080), "HTTP server port")
	dataDir := flag.String("data", envStr("TRACKEDGE_DATA", "./data"), "directory holding the ledger databases")
	logLevel := flag.String("log-level", envStr("LOG_LEVEL", "info"), "log level: debug, info, warn, error")
	flag.Parse()

	log := newLogger(*logLevel)

	if err := os.MkdirAll(*dataDir, 0o755); err != nil {
		log.Fatal().Err(err).Str("dir", *dataDir).Msg("failed to create data directory")
	}

	// One database file per ledger, as the desktop app has always kept them.
	purchaseStore, err := sqlite.Open(filepath.Join(*dataDir, "purchase.db"), purchase.Kind)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to open purchase database")
	}
	defer purchaseStore.Close()

	salesStore, err := sqlite.Open(filepath.Join(*dataDir, "sales.db"), sales.Kind)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to open sales database")
	}
	defer salesStore.Close()

	serviceStore, err := sqlite.Open(filepath.Join(*dataDir, "service.db"), service.Kind)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to open service database")
	}
	defer serviceStore.Close()

	purchaseLedger := purchase.New(purchaseStore).WithLogger(log)
	salesLedger := sales.New(salesStore).WithLogger(log)
	serviceLedger := service.New(serviceStore)
	serviceLedger.WithLogger(log)

	metrics := api.NewMetrics(prometheus.DefaultRegisterer)
	handler := api.NewHandler(purchaseLedger, salesLedger, serviceLedger, log, metrics)
	router := api.NewRouter(handler, log)

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", *port),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Info().Int("port", *port).Str("data", *dataDir).Msg("server starting")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server failed")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Fatal().Err(err).Msg("server forced to shutdown")
	}

	log.Info().Msg("server stopped")
}

func newLogger(level string) zerolog.Logger {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil {
		lvl = zerolog.InfoLevel
	}
	return zerolog.New(os.Stderr).Level(lvl).With().Timestamp().Logger()
}

func envStr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		var n int
		if _, err := fmt.Sscanf(v, "%d", &n); err == nil {
			return n
		}
	}
	return fallback
}
