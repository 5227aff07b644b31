package cmd

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"movieshop/api"
	apicart "movieshop/api/cart"
	"movieshop/api/health"
	apiorder "movieshop/api/order"
	apipayment "movieshop/api/payment"
	cartapp "movieshop/application/cart"
	orderapp "movieshop/application/order"
	paymentapp "movieshop/application/payment"
	"movieshop/config"
	"movieshop/infrastructure/cache"
	"movieshop/infrastructure/gateway"
	"movieshop/infrastructure/persistence/mysql"
	"movieshop/infrastructure/persistence/retry"
	"movieshop/pkg/logger"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// App Application structure
type App struct {
	config       *config.Config
	router       *api.Router
	server       *http.Server
	db           *gorm.DB
	redisClient  *redis.Client
	outboxWorker *mysql.OutboxWorker
}

// NewApp Create and wire the application
func NewApp(cfg *config.Config) (*App, error) {
	if err := logger.Init(&cfg.Log, cfg.App.Env); err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	logger.Info("Starting application",
		zap.String("app", cfg.App.Name),
		zap.String("version", cfg.App.Version),
		zap.String("env", cfg.App.Env))

	db, err := NewMySQLConfig(cfg).Connect()
	if err != nil {
		return nil, fmt.Errorf("failed to connect to MySQL: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}
	if err := sqlDB.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping MySQL: %w", err)
	}

	// Auto migration in development environment
	if cfg.IsDevelopment() {
		if err := mysql.AutoMigrate(db); err != nil {
			return nil, fmt.Errorf("failed to auto migrate: %w", err)
		}
	}

	// Repositories
	cartRepo := mysql.NewCartRepository(db)
	orderRepo := mysql.NewOrderRepository(db)
	paymentRepo := mysql.NewPaymentRepository(db)
	ledger := mysql.NewPurchaseLedger(db)
	movieCatalog := mysql.NewMovieCatalog(db)

	uowFactory := mysql.NewUnitOfWorkFactory(db, retry.FromAppConfig(cfg))

	// Cart view cache is optional; a nil cache disables read-through caching
	var redisClient *redis.Client
	var cartCache cache.CartCache
	if cfg.Redis.Enabled {
		redisClient = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		cartCache = cache.NewRedisCartCache(redisClient, cfg.Redis.CartTTL)
		logger.Info("Redis cart cache enabled", zap.String("addr", cfg.Redis.Addr))
	}

	checkoutGateway := gateway.NewCheckoutClient(&cfg.Gateway)

	// Application services
	cartService := cartapp.NewApplicationService(cartRepo, movieCatalog, ledger, uowFactory, cartCache, cfg.Gateway.Currency)
	orderService := orderapp.NewApplicationService(orderRepo, cartRepo, movieCatalog, ledger, uowFactory)
	paymentService := paymentapp.NewApplicationService(paymentRepo, orderRepo, ledger, movieCatalog, checkoutGateway, uowFactory)

	// Controllers
	healthController := health.NewController(cfg, sqlDB, redisClient)
	cartController := apicart.NewController(cartService)
	orderController := apiorder.NewController(orderService)
	paymentController := apipayment.NewController(paymentService)

	router := api.NewRouter(cfg, healthController, cartController, orderController, paymentController)
	router.SetupRoutes()

	outboxWorker, err := mysql.NewOutboxWorker(
		mysql.NewOutboxRepository(db),
		&mysql.LoggingOutboxPublisher{},
		cfg.Outbox.PollInterval,
		cfg.Outbox.BatchSize,
		cfg.Outbox.MaxRetries,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create outbox worker: %w", err)
	}

	server := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router.GetEngine(),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	return &App{
		config:       cfg,
		router:       router,
		server:       server,
		db:           db,
		redisClient:  redisClient,
		outboxWorker: outboxWorker,
	}, nil
}

// Run Run the application until ctx is cancelled, then shut down gracefully
func (a *App) Run(ctx context.Context) error {
	workerCtx, stopWorker := context.WithCancel(context.Background())
	defer stopWorker()

	go func() {
		if err := a.outboxWorker.Run(workerCtx); err != nil && err != context.Canceled {
			logger.Error("Outbox worker exited with error", zap.Error(err))
		}
	}()

	serverErr := make(chan error, 1)
	go func() {
		logger.Info("HTTP server listening", zap.String("addr", a.server.Addr))
		if err := a.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serverErr <- err
		}
	}()

	select {
	case err := <-serverErr:
		return fmt.Errorf("server error: %w", err)
	case <-ctx.Done():
	}

	logger.Info("Shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), a.shutdownTimeout())
	defer cancel()

	if err := a.server.Shutdown(shutdownCtx); err != nil {
		logger.Error("Server forced to shutdown", zap.Error(err))
	}

	stopWorker()

	if a.redisClient != nil {
		if err := a.redisClient.Close(); err != nil {
			logger.Warn("Failed to close redis client", zap.Error(err))
		}
	}

	if sqlDB, err := a.db.DB(); err == nil {
		if err := sqlDB.Close(); err != nil {
			logger.Warn("Failed to close database", zap.Error(err))
		}
	}

	logger.Info("Server stopped")
	_ = logger.Sync()
	return nil
}

func (a *App) shutdownTimeout() time.Duration {
	if a.config.Server.ShutdownTimeout > 0 {
		return a.config.Server.ShutdownTimeout
	}
	return 10 * time.Second
}

// GetEngine Get the Gin engine (used by tests)
func (a *App) GetEngine() http.Handler {
	return a.router.GetEngine()
}
