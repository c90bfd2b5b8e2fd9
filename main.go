package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/kendall-kelly/pedidos-api/config"
	"github.com/kendall-kelly/pedidos-api/jobs"
	"github.com/kendall-kelly/pedidos-api/routes"
	"github.com/kendall-kelly/pedidos-api/services"
)

const shutdownTimeout = 10 * time.Second

func main() {
	log.Println("Starting Pedidos API server...")

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logger := config.NewLogger(cfg)
	slog.SetDefault(logger)

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	router, job, err := setup(context.Background(), cfg, logger)
	if err != nil {
		log.Fatalf("Failed to start: %v", err)
	}
	if job != nil {
		defer job.Stop()
	}

	server := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	srvErr := make(chan error, 1)
	go func() {
		logger.Info("Server is running", "addr", "http://localhost:"+cfg.Port)
		srvErr <- server.ListenAndServe()
	}()

	stopCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	select {
	case err := <-srvErr:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("Server error", "error", err)
		}
	case <-stopCtx.Done():
		logger.Info("Shutdown signal received, stopping server")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Error("Server shutdown error", "error", err)
	}
	logger.Info("Server stopped")
}

// setup connects the database, initializes the shared services and builds the router.
// The returned job is nil when scheduled escalation is disabled.
func setup(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*gin.Engine, *jobs.EscalationJob, error) {
	if err := config.ConnectDatabase(cfg); err != nil {
		return nil, nil, err
	}

	db := config.GetDB()
	if err := config.Migrate(db); err != nil {
		return nil, nil, fmt.Errorf("failed to migrate database: %w", err)
	}
	logger.Info("Database migration completed successfully")

	sessions, err := services.InitSessionService(cfg.SessionSecret, cfg.SessionTTL)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to initialize sessions: %w", err)
	}

	storage, err := newAttachmentStorage(ctx, cfg)
	if err != nil {
		return nil, nil, err
	}
	services.InitAttachmentService(storage)

	var job *jobs.EscalationJob
	if cfg.EscalationEnabled() {
		job = jobs.NewEscalationJob(services.NewOrderService(db), cfg.EscalationSchedule, logger)
		if err := job.Start(); err != nil {
			return nil, nil, err
		}
	}

	router, err := routes.SetupRouter(cfg, logger, sessions)
	if err != nil {
		if job != nil {
			job.Stop()
		}
		return nil, nil, err
	}

	return router, job, nil
}

// newAttachmentStorage picks S3 when a bucket is configured and the local upload directory otherwise
func newAttachmentStorage(ctx context.Context, cfg *config.Config) (services.AttachmentStorage, error) {
	if cfg.UsesS3() {
		storage, err := services.NewS3Storage(ctx, cfg)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize S3 storage: %w", err)
		}
		slog.Info("Attachments stored in S3", "bucket", cfg.AWSS3Bucket, "region", cfg.AWSRegion)
		return storage, nil
	}

	if err := os.MkdirAll(cfg.UploadDir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create upload directory: %w", err)
	}
	slog.Info("Attachments stored on local disk", "dir", cfg.UploadDir)
	return services.NewLocalStorage(cfg.UploadDir), nil
}
