package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	appcatalog "github.com/lcree/backend/internal/application/catalog"
	appidentity "github.com/lcree/backend/internal/application/identity"
	appinventory "github.com/lcree/backend/internal/application/inventory"
	approcurement "github.com/lcree/backend/internal/application/procurement"
	approduction "github.com/lcree/backend/internal/application/production"
	"github.com/lcree/backend/internal/infrastructure/auth"
	"github.com/lcree/backend/internal/infrastructure/config"
	"github.com/lcree/backend/internal/infrastructure/logger"
	"github.com/lcree/backend/internal/infrastructure/persistence"
	"github.com/lcree/backend/internal/infrastructure/printing"
	"github.com/lcree/backend/internal/interfaces/http/handler"
	"github.com/lcree/backend/internal/interfaces/http/middleware"
	"github.com/lcree/backend/internal/interfaces/http/router"
	"go.uber.org/zap"
)

// version is set at build time via -ldflags
var version = "dev"

const maxBodyBytes = 1 << 20 // 1 MiB

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	log, err := logger.New(&logger.Config{
		Level:      cfg.Log.Level,
		Format:     cfg.Log.Format,
		Output:     cfg.Log.Output,
		TimeFormat: "2006-01-02T15:04:05.000Z07:00",
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer func() {
		_ = logger.Sync(log)
	}()

	if err := run(cfg, log); err != nil {
		log.Fatal("Server exited with error", zap.Error(err))
	}
}

func run(cfg *config.Config, log *zap.Logger) error {
	gormLog := logger.NewGormLogger(log, logger.MapGormLogLevel(cfg.Log.Level))
	db, err := persistence.NewDatabase(&cfg.Database, gormLog)
	if err != nil {
		return fmt.Errorf("connect database: %w", err)
	}
	defer db.Close()
	log.Info("Database connected",
		zap.String("host", cfg.Database.Host),
		zap.String("database", cfg.Database.DBName))

	// Repositories and transaction scopes.
	settingsRepo := persistence.NewCachedSettingsRepository(
		persistence.NewGormSettingsRepository(db.DB))
	userRepo := persistence.NewGormUserRepository(db.DB)
	auditRepo := persistence.NewGormAuditRepository(db.DB)

	jwtService := auth.NewJWTService(cfg.JWT)

	var printer approduction.Printer = printing.NoopPrinter{}
	if cfg.Print.AgentURL != "" {
		printer = printing.NewAgentClient(cfg.Print)
		log.Info("Label print agent configured", zap.String("url", cfg.Print.AgentURL))
	}

	// Application services.
	productionService := approduction.NewService(
		persistence.NewGormProductionTransactionScope(db.DB), settingsRepo, printer)
	procurementService := approcurement.NewService(
		persistence.NewGormProcurementTransactionScope(db.DB))
	inventoryService := appinventory.NewService(
		persistence.NewGormInventoryTransactionScope(db.DB))
	catalogService := appcatalog.NewService(
		persistence.NewGormCatalogTransactionScope(db.DB))
	identityService := appidentity.NewService(userRepo, auditRepo, jwtService)

	// HTTP engine and middleware stack.
	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	engine := gin.New()
	engine.Use(
		middleware.RequestID(),
		logger.GinMiddleware(log),
		logger.Recovery(log),
		middleware.SecureHeaders(),
		middleware.CORS(middleware.DefaultCORSConfig()),
		middleware.BodyLimit(maxBodyBytes),
		middleware.AuditContext(),
		middleware.JWT(middleware.JWTConfig{
			Service: jwtService,
			SkipPaths: []string{
				"/api/v1/auth/login",
				"/api/v1/health",
			},
			// Produced item lookup backs the QR codes on physical labels.
			SkipPathPrefixes: []string{"/api/v1/produced-items/"},
		}),
	)

	router.New(engine).Register(
		handler.NewSystemHandler(func(ctx context.Context) error { return db.Ping() }, version),
		handler.NewAuthHandler(identityService),
		handler.NewUserHandler(identityService),
		handler.NewProductionHandler(productionService),
		handler.NewOrderHandler(procurementService),
		handler.NewInventoryHandler(inventoryService),
		handler.NewCatalogHandler(catalogService),
		handler.NewSettingsHandler(settingsRepo),
		handler.NewAuditHandler(auditRepo),
	).Setup()

	server := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("HTTP server listening",
			zap.String("addr", server.Addr),
			zap.String("env", cfg.App.Env),
			zap.String("version", version))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return err
	case sig := <-quit:
		log.Info("Shutting down", zap.String("signal", sig.String()))
	}

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		return fmt.Errorf("graceful shutdown: %w", err)
	}
	log.Info("Server stopped")
	return nil
}
