package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"claimassist/internal/config"
	_ "claimassist/internal/extractor/claude"
	_ "claimassist/internal/extractor/gemini"
	_ "claimassist/internal/extractor/openai"
	"claimassist/internal/handler"
	"claimassist/internal/metrics"
	"claimassist/internal/pipeline"
	"claimassist/internal/port"
	"claimassist/internal/repository/postgres"
	"claimassist/internal/router"
	"claimassist/internal/service"
	"claimassist/internal/storage/localfs"
	s3storage "claimassist/internal/storage/s3"
)

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	configureLogging(&cfg.Log)
	if cfg.Server.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	db, err := postgres.NewDB(&cfg.DB)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer db.Close()

	checks := []handler.ReadinessCheck{{
		Name:  "database",
		Check: func(ctx context.Context) error { return postgres.Ping(ctx, db) },
	}}

	// Initialize storage
	var storage port.ObjectStorage
	switch cfg.Storage.Backend {
	case "local":
		store, err := localfs.NewStore(cfg.Storage.LocalRoot)
		if err != nil {
			return fmt.Errorf("failed to initialize local storage: %w", err)
		}
		storage = store
	case "s3", "":
		client, err := s3storage.NewClient(&cfg.S3)
		if err != nil {
			return fmt.Errorf("failed to initialize S3 client: %w", err)
		}
		storage = client
		checks = append(checks, handler.ReadinessCheck{
			Name:  "storage",
			Check: func(ctx context.Context) error { return client.Ping(ctx, cfg.S3.Bucket) },
		})
	default:
		return fmt.Errorf("unknown storage backend: %s", cfg.Storage.Backend)
	}

	m := metrics.New()
	p, err := pipeline.FromConfig(cfg, m)
	if err != nil {
		return fmt.Errorf("failed to build pipeline: %w", err)
	}

	// Initialize repositories and services
	analysisRepo := postgres.NewAnalysisRepo(db)
	analysisSvc := service.NewAnalysisService(analysisRepo, storage, p, cfg)

	// Initialize handlers
	analysisH := handler.NewAnalysisHandler(analysisSvc)
	healthH := handler.NewHealthHandler(checks...)

	r := router.Setup(cfg.CORS.AllowedOrigins, m, analysisH, healthH)

	srv := &http.Server{
		Addr:         cfg.Server.Port,
		Handler:      r,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		log.Printf("Server starting on %s (storage=%s)", cfg.Server.Port, cfg.Storage.Backend)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	log.Println("Shutting down server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}
	return nil
}

func configureLogging(cfg *config.LogConfig) {
	if cfg.Level == "debug" {
		log.SetFlags(log.LstdFlags | log.Lmicroseconds | log.Lshortfile)
		return
	}
	log.SetFlags(log.LstdFlags)
}
