// Package metrics exposes prometheus collectors for the provisioning and
// reconciliation paths.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	webhookEvents = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "entitlements_webhook_events_total",
			Help: "Webhook notifications by processing result.",
		},
		[]string{"result"},
	)

	provisioned = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "entitlements_provisioned_total",
			Help: "Entitlements created, by creation path.",
		},
		[]string{"path"},
	)

	reconcileScans = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "entitlements_reconcile_scans_total",
			Help: "Completed reconciliation scans.",
		},
	)

	reconcileGapFailures = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "entitlements_reconcile_gap_failures_total",
			Help: "Gaps a scan could not fill.",
		},
	)
)

// Init registers all collectors in the default registry.
func Init() {
	prometheus.MustRegister(webhookEvents, provisioned, reconcileScans, reconcileGapFailures)
}

// Handler serves the prometheus scrape endpoint.
func Handler() http.Handler {
	return promhttp.Handler()
}

// WebhookEvent counts one processed webhook by result
// (created, already_provisioned, skipped, rejected, failed).
func WebhookEvent(result string) {
	webhookEvents.WithLabelValues(result).Inc()
}

// Provisioned counts one created entitlement by creation path.
func Provisioned(path string) {
	provisioned.WithLabelValues(path).Inc()
}

// ScanCompleted records one finished scan and its unfilled gaps.
func ScanCompleted(created, failed int) {
	reconcileScans.Inc()
	provisioned.WithLabelValues("reconciliation").Add(float64(created))
	reconcileGapFailures.Add(float64(failed))
}
