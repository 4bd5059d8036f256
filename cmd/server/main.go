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

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"finplan/internal/config"
	"finplan/internal/handlers/backup"
	calchandlers "finplan/internal/handlers/calculators"
	scenariohandlers "finplan/internal/handlers/scenarios"
	"finplan/internal/services/cache"
	"finplan/internal/services/calculators"
	"finplan/internal/services/metrics"
	"finplan/internal/services/scenarios"
	"finplan/internal/services/storage"
	"finplan/internal/version"
)

var (
	cfg         *config.Config
	store       *storage.Store
	resultCache cache.Cache
)

func main() {
	encrypt := flag.Bool("encrypt", false, "Encrypt the data directory (prompts for a new passphrase)")
	decrypt := flag.Bool("decrypt", false, "Remove encryption from the data directory and exit")
	showVersion := flag.Bool("version", false, "Print version information and exit")
	flag.Parse()

	info := version.Get()
	if *showVersion {
		fmt.Println(info)
		return
	}

	cfg = config.Load()
	log.Printf("Starting %s on %s", info, cfg.ListenAddr)
	log.Printf("Data directory: %s", cfg.DataDirectory)

	var err error
	store, err = storage.Open(cfg.DataDirectory)
	if err != nil {
		log.Fatalf("Could not open data directory: %v", err)
	}

	switch {
	case *decrypt:
		if err := disableEncryption(store); err != nil {
			log.Fatalf("Could not decrypt data directory: %v", err)
		}
		return
	case *encrypt:
		if err := enableEncryption(store); err != nil {
			log.Fatalf("Could not encrypt data directory: %v", err)
		}
	case store.IsEncrypted():
		if err := unlock(store); err != nil {
			log.Fatalf("Could not unlock data directory: %v", err)
		}
	}

	if err := SetupDependencies(cfg); err != nil {
		log.Fatalf("Failed to set up: %v", err)
	}
	defer resultCache.Close()

	server := &http.Server{
		Addr:              cfg.ListenAddr,
		Handler:           SetupRouter(),
		ReadHeaderTimeout: 10 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	serverErr := make(chan error, 1)
	go func() {
		log.Printf("Server starting on %s", cfg.ListenAddr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serverErr <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-serverErr:
		log.Printf("Error starting server: %v", err)
		return
	case <-quit:
		log.Println("Shutting down server...")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		log.Printf("Error during server shutdown: %v", err)
	}
}

// SetupDependencies wires services into the handler packages. The data
// store is opened from c.DataDirectory unless one is already set.
func SetupDependencies(c *config.Config) error {
	cfg = c
	if store == nil {
		s, err := storage.Open(c.DataDirectory)
		if err != nil {
			return fmt.Errorf("open data directory: %w", err)
		}
		store = s
	}

	calculators.SetSolverTolerance(c.SolverTolerance)

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	resultCache = cache.New(ctx, c.RedisAddr, c.CacheTTL)

	metricsSvc := metrics.New()
	calchandlers.Initialize(cache.NewResults(resultCache), metricsSvc)
	scenariohandlers.Initialize(scenarios.NewManager(store), metricsSvc)
	backup.Initialize(store)
	return nil
}

// SetupRouter builds the HTTP router with all API routes
func SetupRouter() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Compress(5))

	backup.RegisterRoutes(r)
	calchandlers.RegisterRoutes(r)
	scenariohandlers.RegisterRoutes(r)

	return r
}
