// File: cmd/app/main.go
package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v4/pgxpool"
	"github.com/rs/zerolog"

	"recharge-inventory/internal/config"
	"recharge-inventory/internal/domain/ports/adapter"
	"recharge-inventory/internal/domain/ports/repository"
	"recharge-inventory/internal/infra/adapters/identity"
	tele "recharge-inventory/internal/infra/adapters/telegram"
	"recharge-inventory/internal/infra/api"
	fs "recharge-inventory/internal/infra/db/firestore"
	"recharge-inventory/internal/infra/db/noop"
	pg "recharge-inventory/internal/infra/db/postgres"
	"recharge-inventory/internal/infra/i18n"
	"recharge-inventory/internal/infra/logging"
	"recharge-inventory/internal/infra/metrics"
	red "recharge-inventory/internal/infra/redis"
	"recharge-inventory/internal/infra/sched"
	"recharge-inventory/internal/infra/web"
	"recharge-inventory/internal/infra/worker"
	"recharge-inventory/internal/usecase"
)

var (
	version = "dev"
	commit  = "none"
)

// store bundles whichever backend storage.driver selected.
type store struct {
	codes repository.RechargeCodeRepository
	txs   repository.TransactionRepository
	tm    repository.TransactionManager
	pool  *pgxpool.Pool
	close func()
}

func openStore(ctx context.Context, cfg *config.Config, logger *zerolog.Logger) (*store, error) {
	switch cfg.Storage.Driver {
	case config.DriverPostgres:
		pool, err := pg.NewPgxPool(ctx, cfg.Storage)
		if err != nil {
			return nil, fmt.Errorf("postgres: %w", err)
		}
		return &store{
			codes: pg.NewRechargeCodeRepo(pool),
			txs:   pg.NewTransactionRepo(pool),
			tm:    pg.NewTxManager(pool),
			pool:  pool,
			close: pool.Close,
		}, nil
	case config.DriverFirestore:
		client, err := fs.NewClient(ctx, cfg.Firebase)
		if err != nil {
			return nil, err
		}
		return &store{
			codes: fs.NewRechargeCodeRepo(client),
			txs:   fs.NewTransactionRepo(client),
			tm:    fs.NewTxManager(client),
			close: func() { _ = client.Close() },
		}, nil
	default:
		logger.Warn().Msg("storage.driver is empty; every store operation will fail until one is configured")
		return &store{codes: noop.RechargeCodeRepo{}, txs: noop.TransactionRepo{}, tm: noop.TxManager{}, close: func() {}}, nil
	}
}

// openIdentity returns the verifier and, for the jwt provider, the session
// manager backing the cookie endpoints.
func openIdentity(ctx context.Context, cfg *config.Config, logger *zerolog.Logger) (adapter.IdentityVerifier, []web.ServerOption, error) {
	if cfg.Auth.Provider == config.AuthFirebase {
		v, err := identity.NewFirebaseVerifier(ctx, cfg.Firebase, cfg.Auth.RoleClaim, logger)
		return v, nil, err
	}
	am := web.NewAuthManager(cfg.Auth.JWTSecret, cfg.Auth.Issuer, !cfg.Runtime.Dev, cfg.Auth.CookieDomain, cfg.Auth.TokenTTL)
	return am, []web.ServerOption{web.WithSessions(am)}, nil
}

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	// ---- Config & logging ----
	cfgPath, dev := config.ParseFlags()
	cfg, err := config.LoadConfig(cfgPath, dev)
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	logger := logging.New(cfg.Log, cfg.Runtime.Dev)
	metrics.SetBuildInfo(version, commit)
	if cfg.Runtime.Dev {
		logger.Info().Msg("[DEV MODE] Enabled")
	}

	tr, err := i18n.NewTranslator(i18n.LocalesFS, cfg.Locale)
	if err != nil {
		logger.Warn().Err(err).Str("locale", cfg.Locale).Msg("falling back to default locale")
		tr = i18n.MustDefault()
	}

	// ---- Store ----
	st, err := openStore(ctx, cfg, logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("store")
	}
	defer st.close()

	// ---- Redis (optional) ----
	codes := st.codes
	var invOpts []usecase.InventoryOption
	if cfg.Redis.Enabled() {
		redisClient, err := red.NewClient(ctx, &cfg.Redis)
		if err != nil {
			logger.Fatal().Err(err).Msg("redis")
		}
		defer redisClient.Close()
		codes = pg.NewRechargeCodeRepoCacheDecorator(codes, redisClient, cfg.Redis.TTL, logger)
		invOpts = append(invOpts,
			usecase.WithSellLock(red.NewLocker(redisClient), cfg.Redis.SellLockTTL),
			usecase.WithImportLimit(red.NewRateLimiter(redisClient), cfg.Redis.ImportLimit, cfg.Redis.ImportWindow),
		)
	}

	// ---- Notifications ----
	var notifier adapter.SaleNotifier = tele.NoopNotifier{}
	if cfg.Telegram.Token != "" {
		n, err := tele.NewSaleNotifier(cfg.Telegram, tr, logger)
		if err != nil {
			logger.Error().Err(err).Msg("telegram notifier disabled")
		} else {
			pool := worker.NewPool(2, logger)
			pool.Start(ctx)
			defer pool.Stop()
			notifier = worker.NewAsyncNotifier(n, pool)
		}
	}
	invOpts = append(invOpts, usecase.WithSaleNotifier(notifier), usecase.WithTranslator(tr))

	// ---- Identity ----
	verifier, srvOpts, err := openIdentity(ctx, cfg, logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("identity")
	}

	// ---- Use cases ----
	inventoryUC := usecase.NewInventoryUseCase(codes, st.txs, st.tm, logger, invOpts...)
	txUC := usecase.NewTransactionUseCase(st.txs, tr, logger)
	statsUC := usecase.NewStatsUseCase(codes, st.txs, logger)

	// ---- Workers ----
	if st.pool != nil {
		worker := sched.NewPoolStatsWorker(cfg.Scheduler.PoolStatsInterval, st.pool, logger)
		go func() { _ = worker.Run(ctx) }()
	}

	// ---- HTTP ----
	srv := web.NewServer(inventoryUC, txUC, statsUC, verifier, cfg.HTTP.MaxUploadBytes, logger, srvOpts...)
	mws := []api.Middleware{
		api.TraceID(),
		api.RequestLog(logger),
		api.Recover(logger),
		api.Timeout(cfg.HTTP.RequestTimeout),
	}
	if cfg.HTTP.RateLimitRPS > 0 {
		limiter := api.NewIPLimiter(cfg.HTTP.RateLimitRPS, cfg.HTTP.RateLimitBurst, 3*time.Minute)
		go limiter.Cleanup(ctx)
		mws = append(mws, api.RateLimit(limiter))
	}
	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.HTTP.Port),
		Handler:           api.Chain(srv.Router(), mws...),
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		logger.Info().Str("addr", server.Addr).Str("storage", cfg.Storage.Driver).Str("auth", cfg.Auth.Provider).Msg("http listening")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error().Err(err).Msg("http server error")
			cancel()
		}
	}()

	// ---- Graceful shutdown ----
	<-ctx.Done()
	logger.Info().Msg("shutdown requested")
	shutdownCtx, done := context.WithTimeout(context.Background(), cfg.HTTP.ShutdownTimeout)
	defer done()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("http shutdown")
	}
}
