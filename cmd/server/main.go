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

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	goredis "github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	httpAdapter "github.com/iho/settleup/internal/adapter/http"
	"github.com/iho/settleup/internal/adapter/http/handler"
	"github.com/iho/settleup/internal/adapter/http/middleware"
	"github.com/iho/settleup/internal/adapter/idgen"
	redisRepo "github.com/iho/settleup/internal/adapter/repository/redis"
	"github.com/iho/settleup/internal/adapter/rpc"
	"github.com/iho/settleup/internal/infrastructure/config"
	"github.com/iho/settleup/internal/infrastructure/logger"
	"github.com/iho/settleup/internal/infrastructure/metrics"
	"github.com/iho/settleup/internal/infrastructure/redis"
	"github.com/iho/settleup/internal/usecase"
)

// limiterCleanupInterval is how often idle rate limiters are dropped.
const limiterCleanupInterval = 10 * time.Minute

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	log := logger.New(logger.Config{Level: cfg.LogLevel, Format: cfg.LogFormat})
	zerolog.SetGlobalLevel(logger.ParseLevel(cfg.LogLevel))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, log); err != nil {
		log.Fatal().Err(err).Msg("server failed")
	}
}

// run serves HTTP until ctx is cancelled, then shuts down gracefully.
func run(ctx context.Context, cfg *config.Config, log zerolog.Logger) error {
	a, err := newApp(ctx, cfg, log, prometheus.NewRegistry())
	if err != nil {
		return err
	}
	defer a.close()

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("port", cfg.HTTPPort).Msg("starting server")
		if err := a.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info().Msg("shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTPShutdownTimeout)
	defer cancel()

	if err := a.server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}

	log.Info().Msg("server stopped")
	return nil
}

type app struct {
	server      *http.Server
	redisClient *goredis.Client
	cancel      context.CancelFunc
}

func (a *app) close() {
	a.cancel()
	if a.redisClient != nil {
		a.redisClient.Close()
	}
}

// newApp wires the settlement service. Redis-backed caching and
// idempotency are enabled only when REDIS_URL is set.
func newApp(ctx context.Context, cfg *config.Config, log zerolog.Logger, reg *prometheus.Registry) (*app, error) {
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	a := &app{}
	bgCtx, cancel := context.WithCancel(ctx)
	a.cancel = cancel

	ucCfg := usecase.SettlementConfig{
		IDGen:    idgen.NewULIDGenerator(),
		Metrics:  metrics.New(reg),
		Logger:   log.With().Str("component", "settlement").Logger(),
		CacheTTL: cfg.CacheTTL,
	}

	routerCfg := httpAdapter.RouterConfig{
		Logger:         log.With().Str("component", "http").Logger(),
		HTTPMetrics:    middleware.NewHTTPMetrics(reg),
		MetricsHandler: promhttp.HandlerFor(reg, promhttp.HandlerOpts{}),
		IdempotencyTTL: cfg.IdempotencyTTL,
	}

	var readiness handler.Pinger
	if cfg.RedisEnabled() {
		client, err := redis.NewClient(ctx, cfg.RedisURL, cfg.RedisConnectTimeout)
		if err != nil {
			cancel()
			return nil, fmt.Errorf("failed to connect to redis: %w", err)
		}
		log.Info().Msg("connected to redis")

		a.redisClient = client
		ucCfg.Cache = redisRepo.NewCache(client)
		routerCfg.IdempotencyStore = redisRepo.NewIdempotencyStore(client)
		readiness = redis.NewChecker(client)
	} else {
		log.Warn().Msg("REDIS_URL not set, result cache and idempotency disabled")
	}

	if cfg.RateLimitRPS > 0 {
		limiter := middleware.NewRateLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst)
		limiter.StartCleanup(bgCtx, limiterCleanupInterval)
		routerCfg.RateLimiter = limiter
	}

	settlementUC := usecase.NewSettlementUseCase(ucCfg)

	routerCfg.SettlementHandler = handler.NewSettlementHandler(settlementUC)
	routerCfg.RPCHandler = handler.NewRPCHandler(rpc.NewDispatcher(settlementUC, log.With().Str("component", "rpc").Logger()))
	routerCfg.HealthHandler = handler.NewHealthHandler(readiness)

	a.server = &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.HTTPPort),
		Handler:      httpAdapter.NewRouter(routerCfg),
		ReadTimeout:  cfg.HTTPReadTimeout,
		WriteTimeout: cfg.HTTPWriteTimeout,
		IdleTimeout:  cfg.HTTPIdleTimeout,
	}

	return a, nil
}
