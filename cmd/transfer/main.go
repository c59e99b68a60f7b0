package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	httpAdapter "github.com/payrail/payrail/internal/adapter/http"
	"github.com/payrail/payrail/internal/adapter/http/handler"
	"github.com/payrail/payrail/internal/adapter/ledgerclient"
	postgresRepo "github.com/payrail/payrail/internal/adapter/repository/postgres"
	redisRepo "github.com/payrail/payrail/internal/adapter/repository/redis"
	"github.com/payrail/payrail/internal/infrastructure/config"
	"github.com/payrail/payrail/internal/infrastructure/metrics"
	"github.com/payrail/payrail/internal/infrastructure/outbox"
	"github.com/payrail/payrail/internal/infrastructure/postgres"
	"github.com/payrail/payrail/internal/infrastructure/redis"
	"github.com/payrail/payrail/internal/usecase"
)

func main() {
	// Setup logger
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	// Setup log level
	level, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if cfg.MigrationsPath != "" {
		if err := postgres.RunMigrations(cfg.DatabaseURL, cfg.MigrationsPath); err != nil {
			log.Fatal().Err(err).Msg("failed to run migrations")
		}
	}

	// Connect to PostgreSQL
	pool, err := postgres.NewPool(ctx, cfg.DatabaseURL, cfg.DatabaseMaxConns, cfg.DatabaseMinConns)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to postgres")
	}
	defer pool.Close()
	log.Info().Msg("connected to postgres")

	// Connect to Redis
	redisClient, err := redis.NewClient(ctx, cfg.RedisURL)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to redis")
	}
	defer redisClient.Close()
	log.Info().Msg("connected to redis")

	// Initialize repositories
	txManager := postgresRepo.NewTxManager(pool)
	transferRepo := postgresRepo.NewTransferRepository(pool)
	outboxRepo := postgresRepo.NewOutboxRepository(pool)
	idempotencyStore := redisRepo.NewIdempotencyStore(redisClient)
	idGen := postgresRepo.NewULIDGenerator()

	m := metrics.New("transfer")

	// Initialize use cases
	transferUC := usecase.NewTransferUseCase(usecase.TransferUseCaseConfig{
		TxManager:    txManager,
		TransferRepo: transferRepo,
		OutboxRepo:   outboxRepo,
		Idempotency:  idempotencyStore,
		IDGen:        idGen,
		Logger:       log.Logger,
		Metrics:      m,
		TTL:          cfg.IdempotencyTTL,
		MaxBatchSize: cfg.BatchMaxSize,
		BatchWorkers: cfg.BatchWorkers,
	})

	// Ledger client with circuit breaker
	ledgerClient := ledgerclient.NewClient(ledgerclient.Config{
		BaseURL: cfg.LedgerBaseURL,
		Timeout: cfg.LedgerTimeout,
		Breaker: ledgerclient.BreakerConfig{
			WindowSize:    cfg.BreakerWindowSize,
			RateThreshold: cfg.BreakerFailureRate,
			MinCalls:      cfg.BreakerMinCalls,
			OpenFor:       cfg.BreakerOpenFor,
		},
		Logger:  log.Logger,
		Metrics: m,
	})

	// Outbox dispatcher owns delivery to the ledger
	dispatcher := outbox.NewDispatcher(outbox.Config{
		OutboxRepo:   outboxRepo,
		TransferRepo: transferRepo,
		TxManager:    txManager,
		Client:       ledgerClient,
		Logger:       log.Logger,
		Metrics:      m,
		Interval:     cfg.OutboxPollInterval,
		BatchSize:    cfg.OutboxBatchSize,
		Workers:      cfg.OutboxWorkers,
		MaxAttempts:  cfg.OutboxMaxAttempts,
		BaseBackoff:  cfg.OutboxBaseBackoff,
	})

	go func() {
		if err := dispatcher.Start(ctx); err != nil {
			log.Error().Err(err).Msg("outbox dispatcher stopped")
		}
	}()

	// Initialize handlers
	transferHandler := handler.NewTransferHandler(transferUC)
	healthHandler := handler.NewHealthHandler(pool, redisClient)

	// Create router
	router := httpAdapter.NewTransferRouter(httpAdapter.TransferRouterConfig{
		TransferHandler: transferHandler,
		HealthHandler:   healthHandler,
		Metrics:         m,
	})

	// Create server
	server := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.HTTPPort),
		Handler:      router,
		ReadTimeout:  cfg.HTTPReadTimeout,
		WriteTimeout: cfg.HTTPWriteTimeout,
		IdleTimeout:  cfg.HTTPIdleTimeout,
	}

	// Start server in goroutine
	go func() {
		log.Info().Str("port", cfg.HTTPPort).Msg("starting transfer server")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server failed")
		}
	}()

	// Wait for interrupt signal
	<-ctx.Done()

	log.Info().Msg("shutting down server...")

	// Graceful shutdown
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTPShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Fatal().Err(err).Msg("server forced to shutdown")
	}

	log.Info().Msg("server stopped")
}
