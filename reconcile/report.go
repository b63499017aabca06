package reconcile

import (
	"context"
	"log/slog"
	"time"
)

// Failure records why a single gap could not be filled. One bad catalog
// entry must never block provisioning for other customers in the same scan.
type Failure struct {
	TransactionID string `json:"transaction_id"`
	Reason        string `json:"reason"`
}

// Report is the ephemeral output of one scan. It is not persisted; the
// daemon and CLI emit it to the log sink and, for on-demand scans, to the
// HTTP response.
type Report struct {
	WindowStart        time.Time `json:"window_start"`
	WindowEnd          time.Time `json:"window_end"`
	Examined           int       `json:"examined"`
	Skipped            int       `json:"skipped"`
	AlreadyProvisioned int       `json:"already_provisioned"`
	Created            int       `json:"created"`
	Failed             int       `json:"failed"`
	Failures           []Failure `json:"failures,omitempty"`
}

// Log emits the report summary and every per-gap failure reason.
func (r *Report) Log(ctx context.Context, log *slog.Logger) {
	log.InfoContext(ctx, "reconciliation scan finished",
		slog.Time("window_start", r.WindowStart),
		slog.Time("window_end", r.WindowEnd),
		slog.Int("examined", r.Examined),
		slog.Int("skipped", r.Skipped),
		slog.Int("already_provisioned", r.AlreadyProvisioned),
		slog.Int("created", r.Created),
		slog.Int("failed", r.Failed),
	)
	for _, f := range r.Failures {
		log.WarnContext(ctx, "reconciliation gap not filled",
			slog.String("transaction_id", f.TransactionID),
			slog.String("reason", f.Reason),
		)
	}
}
