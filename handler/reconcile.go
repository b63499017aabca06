package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/studiokit/entitlements/metrics"
	"github.com/studiokit/entitlements/pkg/logger"
	"github.com/studiokit/entitlements/reconcile"
)

// Reconcile triggers an on-demand scan. The optional "days" query parameter
// overrides the configured rolling window. The report is returned as JSON
// regardless of outcome so operators see partial progress on failure.
func Reconcile(scanner *reconcile.Scanner, log *slog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		var (
			report *reconcile.Report
			err    error
		)
		if raw := r.URL.Query().Get("days"); raw != "" {
			days, perr := strconv.Atoi(raw)
			if perr != nil || days <= 0 {
				http.Error(w, "days must be a positive integer", http.StatusBadRequest)
				return
			}
			to := time.Now().UTC()
			report, err = scanner.Scan(ctx, to.AddDate(0, 0, -days), to)
		} else {
			report, err = scanner.ScanWindow(ctx)
		}

		if report != nil {
			report.Log(ctx, log)
			metrics.ScanCompleted(report.Created, report.Failed)
		}

		w.Header().Set("Content-Type", "application/json")
		if err != nil {
			log.ErrorContext(ctx, "on-demand scan failed", logger.Error(err))
			w.WriteHeader(http.StatusInternalServerError)
		}
		_ = json.NewEncoder(w).Encode(report)
	}
}
