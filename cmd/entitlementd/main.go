package main

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"golang.org/x/sync/errgroup"

	"github.com/studiokit/entitlements/handler"
	"github.com/studiokit/entitlements/metrics"
	"github.com/studiokit/entitlements/payment"
	"github.com/studiokit/entitlements/pgstore"
	"github.com/studiokit/entitlements/pkg/config"
	"github.com/studiokit/entitlements/pkg/httpserver"
	"github.com/studiokit/entitlements/pkg/logger"
	"github.com/studiokit/entitlements/pkg/pg"
	"github.com/studiokit/entitlements/provision"
	"github.com/studiokit/entitlements/reconcile"
)

type appConfig struct {
	Environment string `env:"APP_ENV" envDefault:"production"`

	DB        pg.Config
	HTTP      httpserver.Config
	Verifier  payment.VerifierConfig
	Paddle    payment.PaddleConfig
	Reconcile reconcile.Config
}

func main() {
	var cfg appConfig
	config.MustLoad(&cfg)

	log := logger.New(logger.WithEnvironment(cfg.Environment, "entitlementd"))
	logger.SetAsDefault(log)

	if err := run(context.Background(), cfg, log); err != nil {
		log.Error("service terminated", logger.Error(err))
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg appConfig, log *slog.Logger) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	pool, err := pg.Connect(ctx, cfg.DB)
	if err != nil {
		return err
	}
	defer pool.Close()

	if err := pgstore.Migrate(ctx, pool, cfg.DB, log.With(logger.Component("migrations"))); err != nil {
		return err
	}

	verifier, err := payment.NewVerifier(cfg.Verifier)
	if err != nil {
		return err
	}
	provider, err := payment.NewPaddleProvider(cfg.Paddle)
	if err != nil {
		return err
	}

	svc := provision.NewService(
		pgstore.NewUserStore(pool),
		pgstore.NewProductStore(pool),
		pgstore.NewEntitlementStore(pool),
		provision.WithLogger(log.With(logger.Component("provision"))),
	)

	scanner := reconcile.NewScannerFromConfig(cfg.Reconcile, provider, svc,
		reconcile.WithLogger(log.With(logger.Component("reconcile"))),
	)

	metrics.Init()

	router := handler.NewRouter(ctx, handler.Deps{
		Verifier:    verifier,
		Service:     svc,
		Scanner:     scanner,
		Log:         log,
		ReadyProbes: []func(context.Context) error{pg.Healthcheck(pool)},
	})

	srv := httpserver.NewFromConfig(cfg.HTTP, httpserver.WithLogger(log.With(logger.Component("http"))))

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return srv.Run(ctx, router)
	})
	if cfg.Reconcile.Interval > 0 {
		g.Go(func() error {
			return scanner.Run(ctx)
		})
	}

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}
