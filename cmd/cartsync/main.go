package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/nikolayk812/cartsync/internal/cartsync"
	"github.com/nikolayk812/cartsync/internal/checkout"
	"github.com/nikolayk812/cartsync/internal/config"
	"github.com/nikolayk812/cartsync/internal/httpapi"
	"github.com/nikolayk812/cartsync/internal/localstore"
	"github.com/nikolayk812/cartsync/internal/logging"
	"github.com/nikolayk812/cartsync/internal/metrics"
	"github.com/nikolayk812/cartsync/internal/payment"
	"github.com/nikolayk812/cartsync/internal/port"
	"github.com/nikolayk812/cartsync/internal/repository"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

func main() {
	if err := run(); err != nil {
		l := logging.Logger()
		l.Fatal().Err(err).Msg("cartsync stopped")
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	logging.Init(cfg.LoggingConfig())
	log := logging.Component("main")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	poolCfg, err := pgxpool.ParseConfig(cfg.Database.URL)
	if err != nil {
		return err
	}
	poolCfg.MaxConns = cfg.Database.MaxConns

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return err
	}
	defer pool.Close()

	if err := pool.Ping(ctx); err != nil {
		return err
	}

	local, err := localstore.OpenBadger(cfg.Local.Dir)
	if err != nil {
		return err
	}
	defer func() {
		if err := local.Close(); err != nil {
			log.Error().Err(err).Msg("close local store")
		}
	}()

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m := metrics.New(reg)

	registry := httpapi.NewRegistry(httpapi.RegistryDeps{
		Auth: repository.NewUser(pool,
			repository.WithAutoVerify(cfg.Auth.AutoVerify),
			repository.WithBcryptCost(cfg.Auth.BcryptCost)),
		Carts:  repository.NewCartWithBreaker(repository.NewCart(pool), cfg.BreakerFor("carts")),
		Orders: repository.NewOrderWithBreaker(repository.NewOrder(pool), cfg.BreakerFor("orders")),
		Stores: func(prefix string) port.LocalStore {
			return localstore.NewBadger(local, prefix)
		},
		Metrics: m,
		Log:     logging.Component("cartsync"),
		IdleTTL: cfg.Sync.SessionIdle,
	})

	gateway := payment.NewGateway(
		payment.WithDelay(cfg.Payment.Delay),
		payment.WithLogger(logging.Component("payment")),
		payment.WithMetrics(m))

	server := httpapi.NewServer(registry,
		checkout.NewService(gateway, logging.Component("checkout")),
		repository.NewProduct(pool),
		logging.Component("http"),
		httpapi.WithGatherer(reg),
		httpapi.WithSecureCookies(cfg.Server.SecureCookies),
		httpapi.WithCORS(cfg.Server.CORSOrigins),
		httpapi.WithAuthRateLimit(cfg.Server.AuthRateLimit))

	poller := cartsync.NewPoller(registry.Maintain, cfg.Sync.FlushInterval, logging.Component("outbox"))
	go poller.Run(ctx)
	go localstore.RunGC(ctx, local, logging.Component("localstore"))

	srv := &http.Server{
		Addr:         cfg.Server.Addr,
		Handler:      server.Routes(),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("addr", cfg.Server.Addr).Msg("listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info().Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}

	if err := registry.FlushAll(shutdownCtx); err != nil {
		log.Warn().Err(err).Msg("cart writes still queued at shutdown")
	}

	return nil
}
