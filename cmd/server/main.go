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

	goredis "github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	httpAdapter "github.com/serenewealth/ledger/internal/adapter/http"
	"github.com/serenewealth/ledger/internal/adapter/http/handler"
	postgresRepo "github.com/serenewealth/ledger/internal/adapter/repository/postgres"
	redisRepo "github.com/serenewealth/ledger/internal/adapter/repository/redis"
	"github.com/serenewealth/ledger/internal/infrastructure/config"
	"github.com/serenewealth/ledger/internal/infrastructure/eventpublisher"
	"github.com/serenewealth/ledger/internal/infrastructure/logger"
	"github.com/serenewealth/ledger/internal/infrastructure/metrics"
	"github.com/serenewealth/ledger/internal/infrastructure/postgres"
	"github.com/serenewealth/ledger/internal/infrastructure/redis"
	"github.com/serenewealth/ledger/internal/usecase"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	log := logger.New(logger.Config{Level: cfg.LogLevel, Format: cfg.LogFormat})

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, log); err != nil {
		log.Fatal().Err(err).Msg("server failed")
	}
}

func run(ctx context.Context, cfg *config.Config, log zerolog.Logger) error {
	// Schema first, so the pool never sees a stale layout.
	if err := postgres.RunMigrations(cfg.DatabaseURL, cfg.MigrationsPath); err != nil {
		return fmt.Errorf("run migrations: %w", err)
	}

	pool, err := postgres.NewPoolWithConfig(ctx, postgres.PoolConfig{
		DatabaseURL:    cfg.DatabaseURL,
		MaxConns:       cfg.DatabaseMaxConns,
		MinConns:       cfg.DatabaseMinConns,
		ConnectTimeout: cfg.DatabaseTimeout,
	})
	if err != nil {
		return fmt.Errorf("connect to postgres: %w", err)
	}
	defer pool.Close()
	log.Info().Msg("connected to postgres")

	var redisClient *goredis.Client
	if redisEnabled(cfg) {
		redisClient, err = redis.NewClientWithOptions(ctx, redis.Options{
			URL:         cfg.RedisURL,
			PoolSize:    cfg.RedisPoolSize,
			DialTimeout: cfg.RedisDialTimeout,
		})
		if err != nil {
			return fmt.Errorf("connect to redis: %w", err)
		}
		defer redisClient.Close()
		log.Info().Msg("connected to redis")
	} else {
		log.Warn().Msg("idempotency disabled, Idempotency-Key headers are ignored")
	}

	m := metrics.New()

	// Initialize repositories
	txManager := postgresRepo.NewTxManager(pool, cfg.LockTimeout)
	retrier := postgresRepo.NewRetrier(log)
	accountRepo := postgresRepo.NewAccountRepository(pool)
	entryRepo := postgresRepo.NewEntryRepository(pool)
	transferRepo := postgresRepo.NewTransferRepository(pool)
	categoryRepo := postgresRepo.NewCategoryRepository(pool)
	statementRepo := postgresRepo.NewStatementRepository(pool)
	idGen := postgresRepo.NewULIDGenerator()

	var outboxRepo usecase.OutboxRepository = postgresRepo.NewNullOutboxRepository()
	if cfg.OutboxEnabled {
		outboxRepo = postgresRepo.NewOutboxRepository(pool)
	}

	// Initialize use cases
	balanceUC := usecase.NewBalanceUseCase(txManager, retrier, accountRepo, entryRepo, outboxRepo, idGen, m, log)
	entryUC := usecase.NewEntryUseCase(txManager, retrier, accountRepo, entryRepo, transferRepo, categoryRepo,
		balanceUC, idGen, m, log)
	transferUC := usecase.NewTransferUseCase(txManager, retrier, accountRepo, entryRepo, transferRepo, categoryRepo,
		outboxRepo, balanceUC, idGen, m, log)
	statementUC := usecase.NewStatementUseCase(txManager, retrier, accountRepo, entryRepo, statementRepo,
		outboxRepo, balanceUC, idGen, m, log)
	accountUC := usecase.NewAccountUseCase(txManager, retrier, accountRepo, entryRepo, categoryRepo,
		outboxRepo, balanceUC, idGen, m, log)
	reconciliationUC := usecase.NewReconciliationUseCase(balanceUC)

	// Initialize handlers
	var redisPinger handler.Pinger
	var idempotencyStore usecase.IdempotencyStore
	if redisClient != nil {
		redisPinger = handler.PingFunc(func(ctx context.Context) error { return redisClient.Ping(ctx).Err() })
		idempotencyStore = redisRepo.NewIdempotencyStore(redisClient, m)
	}

	router := httpAdapter.NewRouter(httpAdapter.RouterConfig{
		AccountHandler:   handler.NewAccountHandler(accountUC),
		EntryHandler:     handler.NewEntryHandler(entryUC),
		TransferHandler:  handler.NewTransferHandler(transferUC),
		StatementHandler: handler.NewStatementHandler(statementUC),
		BalanceHandler:   handler.NewBalanceHandler(balanceUC, reconciliationUC, cfg.BalanceTolerance),
		HealthHandler:    handler.NewHealthHandler(handler.PingFunc(pool.Ping), redisPinger),
		IdempotencyStore: idempotencyStore,
		IdempotencyTTL:   cfg.IdempotencyTTL,
		Logger:           log,
		Metrics:          m,
	})

	workerCtx, cancelWorkers := context.WithCancel(ctx)
	defer cancelWorkers()

	if cfg.OutboxEnabled {
		publisher := eventpublisher.NewEventPublisher(eventpublisher.Config{
			OutboxRepo: outboxRepo,
			Publisher:  eventpublisher.NewLogPublisher(log),
			Metrics:    m,
			Logger:     log,
			BatchSize:  cfg.OutboxBatchSize,
			Interval:   cfg.OutboxInterval,
			Retention:  cfg.OutboxRetention,
		})

		go func() {
			if err := publisher.Start(workerCtx); err != nil && !errors.Is(err, context.Canceled) {
				log.Error().Err(err).Msg("event publisher stopped")
			}
		}()
	}

	server := newHTTPServer(cfg, router)

	serverErr := make(chan error, 1)
	go func() {
		log.Info().Str("port", cfg.HTTPPort).Msg("starting server")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
		close(serverErr)
	}()

	select {
	case err := <-serverErr:
		return err
	case <-ctx.Done():
	}

	log.Info().Msg("shutting down server...")
	cancelWorkers()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTPShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}

	log.Info().Msg("server stopped")

	return nil
}

func redisEnabled(cfg *config.Config) bool {
	return cfg.IdempotencyEnabled && cfg.RedisURL != ""
}

func newHTTPServer(cfg *config.Config, h http.Handler) *http.Server {
	return &http.Server{
		Addr:              fmt.Sprintf(":%s", cfg.HTTPPort),
		Handler:           h,
		ReadTimeout:       cfg.HTTPReadTimeout,
		ReadHeaderTimeout: 10 * time.Second,
		WriteTimeout:      cfg.HTTPWriteTimeout,
		IdleTimeout:       cfg.HTTPIdleTimeout,
	}
}
