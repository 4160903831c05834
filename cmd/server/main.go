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
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	catalogapp "github.com/shopfacade/backend/internal/application/catalog"
	identityapp "github.com/shopfacade/backend/internal/application/identity"
	tradeapp "github.com/shopfacade/backend/internal/application/trade"
	"github.com/shopfacade/backend/internal/domain/catalog"
	"github.com/shopfacade/backend/internal/infrastructure/cache"
	"github.com/shopfacade/backend/internal/infrastructure/config"
	"github.com/shopfacade/backend/internal/infrastructure/logger"
	"github.com/shopfacade/backend/internal/infrastructure/persistence"
	"github.com/shopfacade/backend/internal/infrastructure/telemetry"
	"github.com/shopfacade/backend/internal/interfaces/http/handler"
	"github.com/shopfacade/backend/internal/interfaces/http/middleware"
	"github.com/shopfacade/backend/internal/interfaces/http/router"
	"go.uber.org/zap"
)

// version is set at build time with -ldflags "-X main.version=..."
var version = "dev"

const shutdownTimeout = 30 * time.Second

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	log, err := logger.New(&logger.Config{
		Level:      cfg.Log.Level,
		Format:     cfg.Log.Format,
		Output:     cfg.Log.Output,
		MaxSizeMB:  cfg.Log.MaxSizeMB,
		MaxBackups: cfg.Log.MaxBackups,
		MaxAgeDays: cfg.Log.MaxAgeDays,
		Compress:   cfg.Log.Compress,
	})
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}

	code := 0
	if err := run(cfg, log); err != nil {
		log.Error("Server stopped with error", zap.Error(err))
		code = 1
	}
	_ = logger.Sync(log)
	os.Exit(code)
}

// run wires the application and serves until the process is signalled.
// Every resource opened here is released by a defer before it returns.
func run(cfg *config.Config, log *zap.Logger) error {
	log.Info("Starting shop backend",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
		zap.String("version", version),
	)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	tracer, err := telemetry.NewTracerProvider(ctx, telemetry.Config{
		Enabled:           cfg.Telemetry.Enabled,
		CollectorEndpoint: cfg.Telemetry.CollectorEndpoint,
		SamplingRatio:     cfg.Telemetry.SamplingRatio,
		ServiceName:       cfg.App.Name,
		ServiceVersion:    version,
		Insecure:          cfg.Telemetry.Insecure,
	}, log)
	if err != nil {
		return fmt.Errorf("failed to initialize telemetry: %w", err)
	}
	defer func() {
		if err := tracer.Shutdown(context.Background()); err != nil {
			log.Error("Error shutting down telemetry", zap.Error(err))
		}
	}()

	gormLog := logger.NewGormLogger(log, logger.MapGormLogLevel(cfg.Log.Level))
	db, err := persistence.NewDatabaseWithLogger(&cfg.Database, gormLog)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Error closing database", zap.Error(err))
		}
	}()
	log.Info("Database connected successfully")

	if tracer.IsEnabled() && cfg.Telemetry.DBTracing {
		if err := telemetry.RegisterDBTracing(db.DB, tracer.Provider(), telemetry.DBTracingConfig{
			DBName:                cfg.Database.DBName,
			IncludeQueryVariables: !cfg.App.IsProduction(),
		}); err != nil {
			return fmt.Errorf("failed to enable database tracing: %w", err)
		}
	}

	// Repositories
	userRepo := persistence.NewGormUserRepository(db.DB)
	orderRepo := persistence.NewGormOrderRepository(db.DB)
	productRepo, closeCache := productRepository(ctx, cfg, persistence.NewGormProductRepository(db.DB), log)
	defer closeCache()

	// Services. The facade is the only component that sees all three modules.
	userService := identityapp.NewUserService(userRepo, log)
	productService := catalogapp.NewProductService(productRepo)
	orderService := tradeapp.NewOrderService(orderRepo)
	ordersFacade := tradeapp.NewOrdersFacade(userService, productService, orderService, log)

	if cfg.App.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	middleware.SetupValidator()

	engine := gin.New()
	if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
		return fmt.Errorf("invalid trusted proxies: %w", err)
	}

	corsCfg := middleware.DefaultCORSConfig()
	corsCfg.AllowOrigins = cfg.HTTP.CORSAllowOrigins
	if len(cfg.HTTP.CORSAllowMethods) > 0 {
		corsCfg.AllowMethods = cfg.HTTP.CORSAllowMethods
	}
	if len(cfg.HTTP.CORSAllowHeaders) > 0 {
		corsCfg.AllowHeaders = cfg.HTTP.CORSAllowHeaders
	}

	if tracer.IsEnabled() {
		engine.Use(telemetry.GinMiddleware(cfg.App.Name, tracer.Provider()))
	}
	engine.Use(
		middleware.RequestID(),
		logger.GinMiddleware(log),
		logger.Recovery(log),
		middleware.Secure(middleware.DefaultSecurityConfig()),
		middleware.CORS(corsCfg),
		middleware.BodyLimit(cfg.HTTP.MaxBodySize),
	)

	var metricsHandler http.Handler
	if cfg.Metrics.Enabled {
		reg := prometheus.NewRegistry()
		reg.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
			persistence.NewPoolCollector(db, cfg.Database.DBName),
		)
		metrics := middleware.NewHTTPMetrics(cfg.App.Name, reg)
		engine.Use(metrics.Middleware())
		metricsHandler = metrics.Handler()
	}

	groups := router.SetupAPI(engine, router.Handlers{
		Users:    handler.NewUserHandler(userService),
		Products: handler.NewProductHandler(productService),
		Orders:   handler.NewOrderHandler(ordersFacade, orderService),
	})
	router.SetupSystem(engine, handler.NewSystemHandler(cfg.App.Name, version, db), cfg.Metrics.Path, metricsHandler)

	for _, g := range groups {
		log.Debug("Routes registered", zap.String("group", g.Name()), zap.Int("count", len(g.Routes())))
	}

	srv := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	serverErr := make(chan error, 1)
	go func() {
		log.Info("Server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	select {
	case err := <-serverErr:
		return fmt.Errorf("server failed: %w", err)
	case <-ctx.Done():
	}
	log.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}

	log.Info("Server exited gracefully")
	return nil
}

// productRepository puts the read-through cache in front of the database
// repository when redis is enabled. The returned func releases the cache store.
func productRepository(ctx context.Context, cfg *config.Config, repo catalog.ProductRepository, log *zap.Logger) (catalog.ProductRepository, func()) {
	if !cfg.Redis.Enabled {
		return repo, func() {}
	}

	factory := cache.NewStoreFactory(cfg.Redis,
		cache.WithLogger(log),
		cache.WithInMemoryFallback(!cfg.App.IsProduction()),
	)
	store, err := factory.CreateStore(ctx)
	if err != nil {
		log.Warn("Product cache disabled", zap.Error(err))
		return repo, func() {}
	}

	log.Info("Product cache enabled", zap.Duration("ttl", cfg.Redis.TTL))
	return cache.NewCachedProductRepository(repo, store, cfg.Redis.TTL, log), func() {
		if err := store.Close(); err != nil {
			log.Error("Error closing cache store", zap.Error(err))
		}
	}
}
