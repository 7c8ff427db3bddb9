package entrypoint

import (
	"context"
	"encoding/hex"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/mrlokans/catalog/internal/audit"
	"github.com/mrlokans/catalog/internal/auth"
	"github.com/mrlokans/catalog/internal/catalog"
	"github.com/mrlokans/catalog/internal/config"
	"github.com/mrlokans/catalog/internal/covers"
	"github.com/mrlokans/catalog/internal/database"
	auditrepo "github.com/mrlokans/catalog/internal/database/audit"
	"github.com/mrlokans/catalog/internal/database/authors"
	"github.com/mrlokans/catalog/internal/database/books"
	"github.com/mrlokans/catalog/internal/database/users"
	"github.com/mrlokans/catalog/internal/demo"
	"github.com/mrlokans/catalog/internal/favorites"
	http_controllers "github.com/mrlokans/catalog/internal/http"
	"github.com/mrlokans/catalog/internal/logging"
	"github.com/mrlokans/catalog/internal/scheduler"
	"github.com/mrlokans/catalog/internal/tasks"
)

// ShutdownFunc is called during graceful shutdown to clean up resources.
type ShutdownFunc func(ctx context.Context)

// Serve runs the HTTP server until SIGINT or SIGTERM, then shuts it down
// within the configured timeout.
func Serve(router *gin.Engine, cfg *config.Config, log *zap.Logger, onShutdown ShutdownFunc) error {
	timeout := time.Duration(cfg.Global.ShutdownTimeoutInSeconds) * time.Second
	addr := fmt.Sprintf("%s:%d", cfg.HTTP.Host, cfg.HTTP.Port)

	srv := &http.Server{
		Addr:              addr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	serveErr := make(chan error, 1)
	go func() {
		log.Info("Starting server", zap.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(quit)

	select {
	case err := <-serveErr:
		if err != nil {
			return fmt.Errorf("listen: %w", err)
		}
		return nil
	case sig := <-quit:
		log.Info("Shutting down server", zap.Stringer("signal", sig), zap.Duration("timeout", timeout))
	}

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	// Background work stops before the listener so in-flight jobs can finish.
	if onShutdown != nil {
		onShutdown(ctx)
	}

	if err := srv.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}

	log.Info("Server exiting")
	return nil
}

// Run wires the application together and serves it.
func Run(cfg *config.Config, version string) error {
	log, err := logging.New(cfg.Log)
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	log.Info("Starting catalog", zap.String("version", version))
	if cfg.Global.EnvFileLoaded {
		log.Info("Loaded environment from .env")
	}

	db, err := database.NewDatabase(cfg.Database.Path, log)
	if err != nil {
		return err
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Error closing database", zap.Error(err))
		}
	}()

	bookRepo := books.NewRepository(db.DB)
	authorRepo := authors.NewRepository(db.DB)
	userRepo := users.NewRepository(db.DB)

	sqlDB, err := db.DB.DB()
	if err != nil {
		return fmt.Errorf("failed to get SQL DB for sessions: %w", err)
	}
	sessionManager, err := auth.NewSessionManager(sqlDB, cfg.Auth)
	if err != nil {
		return fmt.Errorf("failed to initialize session manager: %w", err)
	}

	authService := auth.NewService(userRepo, cfg.Auth)
	authMiddleware := auth.NewMiddleware(authService, sessionManager, log)
	auditService := audit.NewService(auditrepo.NewRepository(db.DB), log)

	csrfSecret, err := csrfSecretFrom(cfg.Auth.SessionSecret)
	if err != nil {
		return err
	}
	if cfg.Auth.SessionSecret == "" {
		log.Warn("Generated session secret, set AUTH_SESSION_SECRET to keep forms valid across restarts")
	}

	if cfg.Demo.Enabled {
		log.Info("Demo mode enabled, catalog writes are blocked")
	}

	if hasUsers, err := authService.HasUsers(); err == nil && !hasUsers {
		log.Info("No users found. Run the create-staff command to add a staff account.")
	}

	var (
		taskClient      *tasks.Client
		taskRunner      http_controllers.TaskRunner
		cleanupSchedule *scheduler.AuditCleanupScheduler
	)
	bgCtx, cancelBackground := context.WithCancel(context.Background())
	defer cancelBackground()

	if cfg.Tasks.Enabled {
		taskClient, err = tasks.NewClient(cfg.Database.Path, tasks.ConfigFromSettings(cfg.Tasks), log)
		if err != nil {
			return fmt.Errorf("failed to initialize task queue: %w", err)
		}
		defer func() {
			if err := taskClient.Close(); err != nil {
				log.Error("Error closing task client", zap.Error(err))
			}
		}()

		taskClient.Register(tasks.NewCleanupAuditEventsQueue(auditService, log))
		go taskClient.Start(bgCtx)
		taskRunner = taskClient

		cleanupSchedule = scheduler.NewAuditCleanupScheduler(taskClient, cfg.Audit, log)
		if err := cleanupSchedule.Start(bgCtx); err != nil {
			return fmt.Errorf("failed to start audit cleanup scheduler: %w", err)
		}
	} else {
		log.Info("Task queue disabled, audit events are kept indefinitely")
	}

	var coverSource http_controllers.CoverSource
	if cfg.Covers.Enabled {
		coverDir := cfg.Covers.Dir
		if coverDir == "" {
			coverDir = filepath.Join(filepath.Dir(cfg.Database.Path), "covers")
		}
		coverCache, err := covers.NewCache(coverDir, cfg.Covers.BaseURL)
		if err != nil {
			log.Warn("Failed to initialize cover cache, covers disabled", zap.Error(err))
		} else {
			log.Info("Cover cache initialized", zap.String("dir", coverDir))
			coverSource = coverCache
		}
	}

	router, stopRouter := http_controllers.NewRouter(http_controllers.RouterConfig{
		Catalog:            catalog.NewService(bookRepo),
		Books:              bookRepo,
		Authors:            authorRepo,
		Favorites:          favorites.NewService(sessionManager.SessionManager, bookRepo),
		Database:           db,
		Auditor:            auditService,
		AuditEvents:        auditService,
		AuthService:        authService,
		SessionManager:     sessionManager,
		AuthMiddleware:     authMiddleware,
		AuthConfig:         cfg.Auth,
		Signups:            auditService,
		Covers:             coverSource,
		CSRFSecret:         csrfSecret,
		TaskRunner:         taskRunner,
		AuditRetentionDays: cfg.Audit.RetentionDays,
		DemoMiddleware:     demo.NewMiddleware(cfg.Demo.Enabled),
		Version:            version,
		Logger:             log,
	})

	onShutdown := func(ctx context.Context) {
		stopRouter()
		if cleanupSchedule != nil {
			cleanupSchedule.Stop()
		}
		if taskClient != nil {
			taskClient.Stop(ctx)
		}
		cancelBackground()
	}

	// Deferred calls run before db.Close, so queued audit writes land first.
	defer auditService.Wait()

	return Serve(router, cfg, log, onShutdown)
}

// csrfSecretFrom decodes a hex secret, uses any other value as raw bytes,
// and generates one when none is configured.
func csrfSecretFrom(configured string) ([]byte, error) {
	if configured == "" {
		secret, err := auth.GenerateSessionSecret()
		if err != nil {
			return nil, fmt.Errorf("failed to generate CSRF secret: %w", err)
		}
		configured = secret
	}

	if secret, err := hex.DecodeString(configured); err == nil {
		return secret, nil
	}
	return []byte(configured), nil
}
