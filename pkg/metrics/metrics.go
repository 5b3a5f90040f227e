package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// WhatsAppDispatches counts outbound template message attempts.
	WhatsAppDispatches = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "taptune",
		Subsystem: "whatsapp",
		Name:      "dispatches_total",
		Help:      "Outbound WhatsApp template dispatches by template and outcome.",
	}, []string{"template", "outcome"})

	// WebhookEvents counts inbound payment gateway webhook deliveries.
	WebhookEvents = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "taptune",
		Subsystem: "razorpay",
		Name:      "webhook_events_total",
		Help:      "Inbound gateway webhook events by event type and outcome.",
	}, []string{"event", "outcome"})

	// OrdersCreated counts committed order transactions.
	OrdersCreated = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "taptune",
		Subsystem: "orders",
		Name:      "created_total",
		Help:      "Card orders created.",
	})

	// LeadsCaptured counts public lead captures.
	LeadsCaptured = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "taptune",
		Subsystem: "connects",
		Name:      "captured_total",
		Help:      "Leads captured through public profiles.",
	})
)

const (
	OutcomeOK    = "ok"
	OutcomeError = "error"
)

// Handler exposes the Prometheus scrape endpoint.
func Handler() http.Handler {
	return promhttp.Handler()
}
