package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/v9"

	"github.com/bansalKrishna311/tryo/internal/catalog"
	"github.com/bansalKrishna311/tryo/internal/collection"
	"github.com/bansalKrishna311/tryo/internal/config"
	"github.com/bansalKrishna311/tryo/internal/event"
	"github.com/bansalKrishna311/tryo/internal/feedback"
	handler "github.com/bansalKrishna311/tryo/internal/handler/http"
	"github.com/bansalKrishna311/tryo/internal/history"
	"github.com/bansalKrishna311/tryo/internal/onboarding"
	"github.com/bansalKrishna311/tryo/internal/store"
	"github.com/bansalKrishna311/tryo/internal/store/memory"
	pgstore "github.com/bansalKrishna311/tryo/internal/store/postgres"
	redisstore "github.com/bansalKrishna311/tryo/internal/store/redis"
	"github.com/bansalKrishna311/tryo/pkg/breaker"
	"github.com/bansalKrishna311/tryo/pkg/database"
	"github.com/bansalKrishna311/tryo/pkg/health"
	pkgkafka "github.com/bansalKrishna311/tryo/pkg/kafka"
	"github.com/bansalKrishna311/tryo/pkg/middleware"
	"github.com/bansalKrishna311/tryo/pkg/tracing"
)

// initTracer is swapped in tests.
var initTracer = tracing.InitTracer

// App wires together all dependencies and runs the tryo server.
type App struct {
	cfg            *config.Config
	logger         *slog.Logger
	rdb            *redis.Client
	pool           *pgxpool.Pool
	producer       *pkgkafka.Producer
	httpServer     *http.Server
	tracerShutdown func(context.Context) error
}

// NewApp creates a new application instance, initializing all dependencies.
func NewApp(cfg *config.Config, logger *slog.Logger) (*App, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	// Initialize OpenTelemetry tracing.
	tracerShutdown, err := initTracer(ctx, tracing.Config{
		ServiceName:    handler.ServiceName,
		ServiceVersion: "0.1.0",
		Environment:    cfg.Environment,
		OTLPEndpoint:   cfg.OTelEndpoint,
		SampleRate:     cfg.OTelSampleRate,
		Insecure:       cfg.OTelInsecure,
		Enabled:        cfg.OTelEnabled,
	})
	if err != nil {
		return nil, fmt.Errorf("init tracer: %w", err)
	}

	a := &App{
		cfg:            cfg,
		logger:         logger,
		tracerShutdown: tracerShutdown,
	}

	// Release whatever was opened if wiring fails part way.
	initialized := false
	defer func() {
		if !initialized {
			a.closeResources()
			a.shutdownTracer(context.Background())
		}
	}()

	backend, err := a.openBackend(ctx)
	if err != nil {
		return nil, err
	}

	brk := breaker.New(breaker.Config{
		Name:         "store-" + cfg.StoreBackend,
		MaxRequests:  cfg.BreakerHalfOpenProbes,
		Interval:     60 * time.Second,
		Timeout:      cfg.BreakerTimeout(),
		FailureRatio: cfg.BreakerFailureRatio,
		MinRequests:  cfg.BreakerMinRequests,
	}, logger)

	resilience := store.DefaultResilientConfig(cfg.StoreBackend)
	if cfg.StoreRetryBackoffMS > 0 {
		resilience.RetryBackoff = cfg.RetryBackoff()
	}
	if cfg.StoreOpTimeoutMS > 0 {
		resilience.OpTimeout = cfg.OpTimeout()
	}
	kv := store.NewResilient(backend, brk, resilience, logger)

	// The activity feed is optional. Without brokers, events are dropped.
	if len(cfg.KafkaBrokers) > 0 {
		a.producer = pkgkafka.NewProducer(pkgkafka.DefaultProducerConfig(cfg.KafkaBrokers), logger)
		if err := a.producer.Ping(ctx); err != nil {
			logger.Warn("kafka producer ping failed, continuing in degraded mode",
				slog.String("error", err.Error()),
			)
		} else {
			logger.Info("kafka producer initialized", slog.Any("brokers", cfg.KafkaBrokers))
		}
	}

	cat, err := catalog.New()
	if err != nil {
		return nil, fmt.Errorf("load catalog: %w", err)
	}

	// Build the dependency graph.
	events := event.NewProducer(a.producer, logger)
	cartEngine := collection.NewCartEngine(kv, events, logger, cfg.CartMaxQuantity)
	wishlistEngine := collection.NewWishlistEngine(kv, events, logger)
	tryHistory := history.NewLog(kv, cfg.TryHistoryCapacity, events, logger)
	flag := onboarding.New(kv, logger)
	feedbackService := feedback.NewService(events, logger)

	// Health checks.
	healthHandler := health.NewHandler()
	healthHandler.RegisterCritical("store", kv.Ping)
	if a.producer != nil {
		brokers := cfg.KafkaBrokers
		healthHandler.RegisterNonCritical("kafka", func(ctx context.Context) error {
			return pkgkafka.PingBrokers(ctx, brokers)
		})
	}

	cors := middleware.DefaultCORSConfig()
	cors.Environment = cfg.Environment

	router := handler.NewRouter(handler.Handlers{
		Catalog:  handler.NewCatalogHandler(cat, logger),
		Cart:     handler.NewCartHandler(cartEngine, cat, logger),
		Wishlist: handler.NewWishlistHandler(wishlistEngine, cat, logger),
		History:  handler.NewHistoryHandler(tryHistory, cat, logger),
		Profile:  handler.NewProfileHandler(flag, feedbackService, logger),
	}, healthHandler, cors, logger)

	a.httpServer = &http.Server{
		Addr:         cfg.HTTPAddr(),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 35 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	logger.Info("collections ready",
		slog.String("backend", cfg.StoreBackend),
		slog.Int("catalog_size", cat.Len()),
		slog.Int("cart_max_quantity", cartEngine.MaxQuantity()),
		slog.Int("history_capacity", tryHistory.Capacity()),
		slog.Bool("events_enabled", events.Enabled()),
	)

	initialized = true
	return a, nil
}

// openBackend connects the configured key-value backend.
func (a *App) openBackend(ctx context.Context) (store.Store, error) {
	cfg := a.cfg

	switch cfg.StoreBackend {
	case config.BackendMemory:
		a.logger.Warn("using in-memory store, collections are lost on restart")
		return memory.New(), nil

	case config.BackendRedis:
		redisCfg := database.DefaultRedisConfig()
		redisCfg.Addr = cfg.RedisAddr
		redisCfg.Password = cfg.RedisPass
		redisCfg.DB = cfg.RedisDB

		rdb, err := database.NewRedisClient(ctx, redisCfg)
		if err != nil {
			return nil, fmt.Errorf("connect to redis: %w", err)
		}
		a.rdb = rdb
		a.logger.Info("connected to Redis",
			slog.String("addr", cfg.RedisAddr),
			slog.Int("db", cfg.RedisDB),
		)
		return redisstore.New(rdb, cfg.RedisKeyPrefix, 0), nil

	case config.BackendPostgres:
		pgCfg := database.DefaultPostgresConfig()
		pgCfg.Host = cfg.PostgresHost
		pgCfg.Port = cfg.PostgresPort
		pgCfg.User = cfg.PostgresUser
		pgCfg.Password = cfg.PostgresPassword
		pgCfg.DBName = cfg.PostgresDB
		pgCfg.SSLMode = cfg.PostgresSSLMode
		pgCfg.MaxConns = cfg.PostgresMaxConns

		pool, err := database.NewPostgresPool(ctx, &pgCfg, a.logger)
		if err != nil {
			return nil, fmt.Errorf("connect to postgres: %w", err)
		}
		a.pool = pool
		a.logger.Info("connected to PostgreSQL",
			slog.String("host", cfg.PostgresHost),
			slog.Int("port", cfg.PostgresPort),
			slog.String("database", cfg.PostgresDB),
		)

		if err := database.RegisterPoolMetrics(prometheus.DefaultRegisterer, pool, handler.ServiceName); err != nil {
			a.logger.Warn("pool metrics not registered", slog.String("error", err.Error()))
		}
		if cfg.SlowQueryMS > 0 {
			database.SetSlowQueryLogging(cfg.SlowQueryThreshold(), a.logger)
		}

		s := pgstore.New(pool)
		if err := s.Migrate(ctx, a.logger); err != nil {
			return nil, fmt.Errorf("run migrations: %w", err)
		}
		a.logger.Info("database migrations completed")
		return s, nil
	}

	return nil, fmt.Errorf("unknown store backend %q", cfg.StoreBackend)
}

// Run starts the HTTP server and blocks until the context is canceled.
func (a *App) Run(ctx context.Context) error {
	errCh := make(chan error, 1)

	go func() {
		a.logger.Info("starting HTTP server",
			slog.String("addr", a.httpServer.Addr),
		)
		if err := a.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- fmt.Errorf("http server: %w", err)
		}
	}()

	select {
	case <-ctx.Done():
		a.logger.Info("shutdown signal received")
	case err := <-errCh:
		a.closeResources()
		a.shutdownTracer(context.Background())
		return err
	}

	return a.Shutdown()
}

// Shutdown gracefully stops all components.
func (a *App) Shutdown() error {
	a.logger.Info("shutting down application...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), a.cfg.ShutdownTimeout())
	defer cancel()

	if err := a.httpServer.Shutdown(shutdownCtx); err != nil {
		a.logger.Error("http server shutdown error", slog.String("error", err.Error()))
	}

	a.closeResources()
	a.shutdownTracer(shutdownCtx)

	a.logger.Info("application shutdown complete")
	return nil
}

func (a *App) shutdownTracer(ctx context.Context) {
	if a.tracerShutdown == nil {
		return
	}
	if err := a.tracerShutdown(ctx); err != nil {
		a.logger.Error("tracer shutdown error", slog.String("error", err.Error()))
	}
	a.tracerShutdown = nil
}

func (a *App) closeResources() {
	if a.producer != nil {
		if err := a.producer.Close(); err != nil {
			a.logger.Error("kafka producer close error", slog.String("error", err.Error()))
		}
		a.producer = nil
	}
	if a.rdb != nil {
		if err := a.rdb.Close(); err != nil {
			a.logger.Error("redis close error", slog.String("error", err.Error()))
		}
		a.rdb = nil
	}
	if a.pool != nil {
		a.pool.Close()
		a.pool = nil
	}
}
