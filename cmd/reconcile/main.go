package main

import (
	"context"
	"encoding/json"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/studiokit/entitlements/payment"
	"github.com/studiokit/entitlements/pgstore"
	"github.com/studiokit/entitlements/pkg/config"
	"github.com/studiokit/entitlements/pkg/logger"
	"github.com/studiokit/entitlements/pkg/pg"
	"github.com/studiokit/entitlements/provision"
	"github.com/studiokit/entitlements/reconcile"
)

// One-shot reconciliation scan against the provider ledger. Meant for
// cron jobs and manual gap repair; the daemon runs the same scan on a
// timer when RECONCILE_INTERVAL is set.
type cliConfig struct {
	Environment string `env:"APP_ENV" envDefault:"production"`

	DB        pg.Config
	Paddle    payment.PaddleConfig
	Reconcile reconcile.Config
}

func main() {
	days := flag.Int("days", 0, "scan window in days (0 uses RECONCILE_WINDOW_DAYS)")
	txID := flag.String("tx", "", "repair a single transaction by provider id instead of scanning")
	flag.Parse()

	var cfg cliConfig
	config.MustLoad(&cfg)

	log := logger.New(logger.WithEnvironment(cfg.Environment, "reconcile"))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	pool, err := pg.Connect(ctx, cfg.DB)
	if err != nil {
		log.Error("database connect failed", logger.Error(err))
		os.Exit(1)
	}
	defer pool.Close()

	provider, err := payment.NewPaddleProvider(cfg.Paddle)
	if err != nil {
		log.Error("payment provider init failed", logger.Error(err))
		os.Exit(1)
	}

	svc := provision.NewService(
		pgstore.NewUserStore(pool),
		pgstore.NewProductStore(pool),
		pgstore.NewEntitlementStore(pool),
		provision.WithLogger(log.With(logger.Component("provision"))),
	)

	if *txID != "" {
		repairOne(ctx, log, provider, svc, *txID)
		return
	}

	opts := []reconcile.ScannerOption{
		reconcile.WithLogger(log.With(logger.Component("reconcile"))),
	}
	if *days > 0 {
		opts = append(opts, reconcile.WithWindow(time.Duration(*days)*24*time.Hour))
	}
	scanner := reconcile.NewScannerFromConfig(cfg.Reconcile, provider, svc, opts...)

	report, err := scanner.ScanWindow(ctx)
	if report != nil {
		report.Log(ctx, log)
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		_ = enc.Encode(report)
	}
	if err != nil {
		log.Error("reconciliation scan failed", logger.Error(err))
		os.Exit(1)
	}
}

// repairOne re-drives a single provider transaction through the provisioning
// pipeline, for targeted fixes after a catalog correction.
func repairOne(ctx context.Context, log *slog.Logger, provider payment.Provider, svc *provision.Service, txID string) {
	tx, err := provider.GetTransaction(ctx, txID)
	if err != nil {
		log.Error("transaction lookup failed", logger.TransactionID(txID), logger.Error(err))
		os.Exit(1)
	}
	if !tx.Completed() || !tx.IsPassPurchase() {
		log.Warn("transaction is not a completed pass purchase, nothing to provision",
			logger.TransactionID(txID))
		return
	}

	_, outcome, err := svc.Provision(ctx, *tx, provision.PathReconciliation)
	if err != nil {
		log.Error("provisioning failed", logger.TransactionID(txID), logger.Error(err))
		os.Exit(1)
	}
	log.Info("transaction repaired", logger.TransactionID(txID), slog.String("outcome", string(outcome)))
}
