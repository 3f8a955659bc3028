package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/bible-bee-api/internal/config"
	"github.com/bible-bee-api/internal/handlers"
	"github.com/bible-bee-api/internal/logging"
	"github.com/bible-bee-api/internal/middleware"
	"github.com/bible-bee-api/internal/repository/sqlstore"
	"github.com/bible-bee-api/internal/services"
	schemaconfig "github.com/bible-bee-api/pkg/schema/config"
	"github.com/bible-bee-api/pkg/schema/db"
)

func main() {
	// Load .env file if present
	_ = godotenv.Load()

	// Get configuration
	cfg := config.GetConfig()

	logger, err := logging.New(cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}
	defer func() { _ = logger.Sync() }()

	// Create Echo instance
	e := echo.New()
	e.HideBanner = true
	e.Validator = handlers.NewValidator()

	// Middleware
	e.Use(echomiddleware.Logger())
	e.Use(echomiddleware.Recover())
	e.Use(middleware.CORSMiddleware())

	// Open the configured storage backend
	ctx := context.Background()
	backend := db.Backend(cfg.StorageBackend)
	conn, err := db.Open(ctx, backend, schemaconfig.GetConfig())
	if err != nil {
		logger.Fatal("failed to open storage", zap.String("backend", string(backend)), zap.Error(err))
	}
	logger.Info("storage opened", zap.String("backend", string(backend)))

	if cfg.AutoMigrate {
		if err := db.Migrate(ctx, conn); err != nil {
			logger.Fatal("failed to apply migrations", zap.Error(err))
		}
		logger.Info("migrations applied")
	}

	// Create repositories and services
	store := sqlstore.New(conn)
	resolver := services.NewRuleResolver(store.Years, store.Rules, cfg.StrictRules)
	importSvc := services.NewImportService(store.Years, store.Scriptures, logger)
	enrollmentSvc := services.NewEnrollmentService(store, resolver, logger)

	// Create API group with prefix
	api := e.Group(cfg.APIPrefix)

	// Register handlers
	healthHandler := handlers.NewHealthHandler(conn, string(backend))
	healthHandler.RegisterRoutes(api)

	scriptureHandler := handlers.NewScriptureHandler(importSvc)
	scriptureHandler.RegisterRoutes(api)

	enrollmentHandler := handlers.NewEnrollmentHandler(resolver, enrollmentSvc)
	enrollmentHandler.RegisterRoutes(api)

	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	// Root health check
	e.GET("/", func(c echo.Context) error {
		return c.JSON(200, map[string]string{
			"name":    cfg.APITitle,
			"version": cfg.APIVersion,
			"status":  "running",
		})
	})

	// Start server
	go func() {
		addr := fmt.Sprintf(":%s", cfg.Port)
		logger.Info("starting server", zap.String("title", cfg.APITitle), zap.String("version", cfg.APIVersion), zap.String("addr", addr))
		if err := e.Start(addr); err != nil {
			logger.Info("server stopped", zap.Error(err))
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := e.Shutdown(shutdownCtx); err != nil {
		logger.Error("error shutting down server", zap.Error(err))
	}

	if err := conn.Close(); err != nil {
		logger.Error("error closing storage", zap.Error(err))
	}

	logger.Info("server stopped")
}
