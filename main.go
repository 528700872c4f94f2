package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	_ "github.com/joho/godotenv/autoload"

	"cellar-registry/internal/api"
	"cellar-registry/internal/dedup"
	"cellar-registry/internal/domain"
	"cellar-registry/internal/infrastructure/repository"
	"cellar-registry/pkg/config"
	"cellar-registry/pkg/container"
	"cellar-registry/pkg/database"
	"cellar-registry/pkg/health"
	"cellar-registry/pkg/logging"
	"cellar-registry/pkg/monitoring"
)

func main() {
	// Build container and register providers
	c := container.New()

	_ = c.Provide(func() *config.Config { return config.Load() })
	_ = c.Provide(func(cfg *config.Config) *logging.Logger {
		return logging.New(logging.Config{Level: cfg.LogLevel, Format: cfg.LogFormat, Output: os.Stdout})
	})
	_ = c.Provide(func(cfg *config.Config) (*database.DB, error) {
		return database.NewWithConfig(cfg.DatabaseURL, cfg)
	})
	_ = c.Provide(func(db *database.DB) domain.Repository { return repository.NewSQLRepository(db) })
	_ = c.Provide(func(repo domain.Repository, cfg *config.Config) *dedup.Resolver {
		return dedup.NewResolver(repo, dedup.Config{
			FuzzyThreshold: cfg.FuzzyThreshold,
			CandidateLimit: cfg.CandidateLimit,
			MaxSimilar:     cfg.MaxSimilarMatches,
		})
	})
	_ = c.Provide(api.NewApp)

	var cfg *config.Config
	if err := c.Resolve(&cfg); err != nil {
		log.Fatal("config resolve:", err)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatal("invalid config: ", err)
	}
	monitoring.EnableProfiling(cfg.ProfilingEnabled)
	log.Println("Starting cellar registry")

	var (
		db       *database.DB
		resolver *dedup.Resolver
		app      *api.App
	)
	if err := c.Resolve(&db); err != nil {
		log.Fatal("db resolve:", err)
	}
	if err := c.Resolve(&resolver); err != nil {
		log.Fatal("resolver resolve:", err)
	}
	if err := c.Resolve(&app); err != nil {
		log.Fatal("app resolve:", err)
	}

	// Config watcher for hot-reload of the matching knobs
	cw := config.NewWatcher(time.Duration(cfg.ConfigReloadIntervalSeconds) * time.Second)
	cw.Start()
	chgCh := cw.Subscribe()
	go func() {
		for chg := range chgCh {
			if chg.Err != nil {
				log.Printf("Config reload failed: %v", chg.Err)
				continue
			}
			// cfg keeps the startup snapshot; the reloadable knobs live in
			// the resolver.
			resolver.ApplyConfig(chg.New.FuzzyThreshold, chg.New.CandidateLimit, chg.New.MaxSimilarMatches)
			log.Printf("Config applied. Changed fields: %v", chg.Fields)
		}
	}()

	router := mux.NewRouter()

	var metrics *monitoring.Metrics
	if cfg.MetricsEnabled {
		metrics = monitoring.NewMetrics(512)
		router.Use(monitoring.Middleware(metrics))
	}

	router.HandleFunc("/duplicates/check", app.CheckDuplicatesHandler).Methods("POST")
	router.HandleFunc("/regions", app.CreateRegionHandler).Methods("POST")
	router.HandleFunc("/producers", app.CreateProducerHandler).Methods("POST")
	router.HandleFunc("/wines", app.CreateWineHandler).Methods("POST")
	router.HandleFunc("/health", health.Handler(db)).Methods("GET")

	server := &http.Server{Addr: ":" + cfg.Port, Handler: router}

	var adminServer *http.Server
	if cfg.ProfilingEnabled || cfg.MetricsEnabled {
		adminMux := http.NewServeMux()
		if cfg.ProfilingEnabled {
			monitoring.RegisterPprof(adminMux)
		}
		if cfg.MetricsEnabled && metrics != nil {
			adminMux.Handle(cfg.MetricsPath, monitoring.MetricsHandler(metrics))
		}
		adminServer = &http.Server{Addr: ":" + cfg.ProfilingPort, Handler: adminMux}
		go func() {
			log.Printf("Admin server (pprof/metrics) starting on port %s", cfg.ProfilingPort)
			if err := adminServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				log.Printf("Admin server error: %v", err)
			}
		}()
	}

	// Graceful shutdown on SIGINT/SIGTERM
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		<-sigChan
		log.Println("Received shutdown signal, initiating graceful shutdown...")
		cancel()
	}()

	go func() {
		log.Printf("HTTP server starting on port %s", cfg.Port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server error: %v", err)
		}
	}()

	<-ctx.Done()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer shutdownCancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Printf("HTTP server shutdown error: %v", err)
	}
	if adminServer != nil {
		if err := adminServer.Shutdown(shutdownCtx); err != nil {
			log.Printf("Admin server shutdown error: %v", err)
		}
	}
	cw.Close()
	if err := db.Close(); err != nil {
		log.Printf("Database close error: %v", err)
	}
	log.Println("Shutdown complete")
}
