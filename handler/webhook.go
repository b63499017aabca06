package handler

import (
	"errors"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/studiokit/entitlements/metrics"
	"github.com/studiokit/entitlements/payment"
	"github.com/studiokit/entitlements/pkg/logger"
	"github.com/studiokit/entitlements/provision"
)

// maxWebhookBody caps notification payloads at 1 MiB.
const maxWebhookBody = 1 << 20

// Webhook handles payment provider notifications.
//
// Status codes drive the provider's redelivery behavior, which is the only
// retry mechanism this engine has:
//   - 200: processed, already provisioned, irrelevant kind, or a permanent
//     failure a redelivery cannot fix (catalog defect, missing metadata);
//     those are acknowledged and left for reconciliation after the external
//     fix.
//   - 401/400: verification failure, permanent, reject.
//   - 500: transient store failure; the provider redelivers with backoff.
func Webhook(verifier *payment.Verifier, svc *provision.Service, log *slog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		start := time.Now()

		body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxWebhookBody))
		if err != nil {
			metrics.WebhookEvent("rejected")
			w.WriteHeader(http.StatusBadRequest)
			return
		}

		ev, err := verifier.Parse(body, r.Header.Get(payment.SignatureHeader))
		if err != nil {
			metrics.WebhookEvent("rejected")
			switch {
			case errors.Is(err, payment.ErrAuthentication):
				log.WarnContext(ctx, "webhook rejected", logger.Error(err))
				w.WriteHeader(http.StatusUnauthorized)
			default:
				log.WarnContext(ctx, "webhook payload undecodable", logger.Error(err))
				w.WriteHeader(http.StatusBadRequest)
			}
			return
		}

		_, outcome, err := svc.HandleEvent(ctx, ev)
		if err != nil {
			metrics.WebhookEvent("failed")
			if provision.Permanent(err) {
				// Redelivering the same payload cannot succeed; acknowledge
				// and let reconciliation repair it once the catalog or
				// checkout metadata is fixed.
				log.ErrorContext(ctx, "provisioning failed permanently",
					logger.TransactionID(ev.Transaction.ID),
					logger.Error(err),
				)
				w.WriteHeader(http.StatusOK)
				return
			}
			log.ErrorContext(ctx, "provisioning failed, awaiting redelivery",
				logger.TransactionID(ev.Transaction.ID),
				logger.Error(err),
			)
			w.WriteHeader(http.StatusInternalServerError)
			return
		}

		metrics.WebhookEvent(string(outcome))
		if outcome == provision.OutcomeCreated {
			metrics.Provisioned(string(provision.PathWebhook))
		}
		log.InfoContext(ctx, "webhook processed",
			logger.TransactionID(ev.Transaction.ID),
			slog.String("outcome", string(outcome)),
			logger.Duration(time.Since(start)),
		)
		w.WriteHeader(http.StatusOK)
	}
}
