// Package reconcile repairs the gaps the live webhook path leaves behind.
// A failed or lost delivery produces no entitlement and no user-facing error,
// so the scanner diffs the provider's transaction ledger against internal
// records and re-enters the provisioning pipeline for anything missing. It is
// a first-class part of correct operation, not an optional extra.
package reconcile

import (
	"context"
	"log/slog"
	"time"

	"golang.org/x/time/rate"

	"github.com/studiokit/entitlements/metrics"
	"github.com/studiokit/entitlements/payment"
	"github.com/studiokit/entitlements/pkg/logger"
	"github.com/studiokit/entitlements/provision"
)

// Config holds scanner settings.
type Config struct {
	WindowDays  int           `env:"RECONCILE_WINDOW_DAYS" envDefault:"7"`  // WindowDays is the rolling scan window for scheduled and default scans.
	Interval    time.Duration `env:"RECONCILE_INTERVAL" envDefault:"0"`     // Interval between scheduled scans; 0 disables the background loop.
	ProviderRPS float64       `env:"RECONCILE_PROVIDER_RPS" envDefault:"5"` // ProviderRPS spaces out the listing calls the scanner issues; paging inside one listing is driven by the provider client.
}

// Scanner lists successful provider transactions over a window and fills
// provisioning gaps through the same guarded pipeline the webhook uses.
// Scans are idempotent at the batch level: re-running over the same window
// has no effect beyond filling whatever is still missing, so the scanner can
// run concurrently with live webhook traffic without coordination.
type Scanner struct {
	provider payment.Provider
	svc      *provision.Service
	limiter  *rate.Limiter
	log      *slog.Logger
	window   time.Duration
	interval time.Duration
	now      func() time.Time
}

// ScannerOption configures optional Scanner settings.
type ScannerOption func(*Scanner)

// WithLogger sets the logger used for scan events and reports.
func WithLogger(log *slog.Logger) ScannerOption {
	return func(s *Scanner) {
		if log != nil {
			s.log = log
		}
	}
}

// WithRateLimit spaces out the scanner's listing calls to rps per second.
// Pagination within a single listing is the provider client's concern.
func WithRateLimit(rps float64) ScannerOption {
	return func(s *Scanner) {
		if rps > 0 {
			s.limiter = rate.NewLimiter(rate.Limit(rps), 1)
		}
	}
}

// WithWindow sets the rolling window used by ScanWindow and the background loop.
func WithWindow(d time.Duration) ScannerOption {
	return func(s *Scanner) {
		if d > 0 {
			s.window = d
		}
	}
}

// WithInterval sets the cadence of the background loop started by Run.
func WithInterval(d time.Duration) ScannerOption {
	return func(s *Scanner) { s.interval = d }
}

// WithClock overrides the wall clock used to anchor rolling windows.
func WithClock(now func() time.Time) ScannerOption {
	return func(s *Scanner) {
		if now != nil {
			s.now = now
		}
	}
}

// NewScanner creates a Scanner.
// Panics if provider or service is nil to fail fast during initialization.
func NewScanner(provider payment.Provider, svc *provision.Service, opts ...ScannerOption) *Scanner {
	if provider == nil {
		panic("reconcile: payment.Provider is required")
	}
	if svc == nil {
		panic("reconcile: provision.Service is required")
	}

	s := &Scanner{
		provider: provider,
		svc:      svc,
		limiter:  rate.NewLimiter(rate.Limit(5), 1),
		log:      slog.Default(),
		window:   7 * 24 * time.Hour,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// NewScannerFromConfig creates a Scanner with settings from Config.
func NewScannerFromConfig(cfg Config, provider payment.Provider, svc *provision.Service, opts ...ScannerOption) *Scanner {
	configOpts := []ScannerOption{
		WithRateLimit(cfg.ProviderRPS),
		WithInterval(cfg.Interval),
	}
	if cfg.WindowDays > 0 {
		configOpts = append(configOpts, WithWindow(time.Duration(cfg.WindowDays)*24*time.Hour))
	}
	configOpts = append(configOpts, opts...)
	return NewScanner(provider, svc, configOpts...)
}

// ScanWindow scans the default rolling window ending now.
func (s *Scanner) ScanWindow(ctx context.Context) (*Report, error) {
	to := s.now().UTC()
	return s.Scan(ctx, to.Add(-s.window), to)
}

// Scan lists completed transactions in [from, to), filters to pass
// purchases, and provisions every gap. Per-item failures are recorded in the
// report and never abort the scan. Cancellation stops the scan mid-window;
// the partial report is returned together with ctx.Err(), and a later re-run
// is safe because each gap-fill is independently idempotent.
func (s *Scanner) Scan(ctx context.Context, from, to time.Time) (*Report, error) {
	report := &Report{WindowStart: from, WindowEnd: to}

	if err := s.limiter.Wait(ctx); err != nil {
		return report, err
	}
	txs, err := s.provider.ListCompletedTransactions(ctx, from, to)
	if err != nil {
		return report, err
	}

	for _, tx := range txs {
		if err := ctx.Err(); err != nil {
			return report, err
		}

		if !tx.Completed() || !tx.IsPassPurchase() {
			report.Skipped++
			continue
		}
		report.Examined++

		_, outcome, err := s.svc.Provision(ctx, tx, provision.PathReconciliation)
		switch {
		case err != nil:
			report.Failed++
			report.Failures = append(report.Failures, Failure{
				TransactionID: tx.ID,
				Reason:        err.Error(),
			})
		case outcome == provision.OutcomeAlreadyProvisioned:
			report.AlreadyProvisioned++
		case outcome == provision.OutcomeCreated:
			report.Created++
			s.log.InfoContext(ctx, "reconciliation filled a gap",
				logger.TransactionID(tx.ID),
			)
		}
	}

	return report, nil
}

// Run executes scheduled scans every interval until ctx is cancelled.
// Returns immediately when no interval is configured. The first scan runs
// one interval after start so a restarting daemon does not double-scan
// windows the previous instance just covered.
func (s *Scanner) Run(ctx context.Context) error {
	if s.interval <= 0 {
		return nil
	}

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			report, err := s.ScanWindow(ctx)
			if err != nil {
				s.log.ErrorContext(ctx, "reconciliation scan failed", logger.Error(err))
			}
			if report != nil {
				report.Log(ctx, s.log)
				metrics.ScanCompleted(report.Created, report.Failed)
			}
		}
	}
}
