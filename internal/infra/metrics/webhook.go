package metrics

import "github.com/prometheus/client_golang/prometheus"

func init() { register(webhookEvents) }

var webhookEvents = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "stripe_webhook_events_total",
		Help: "Stripe webhook events by type and outcome (processed/ignored/failed).",
	},
	[]string{"type", "result"},
)

func IncWebhookEvent(eventType, result string) {
	webhookEvents.WithLabelValues(norm(eventType), norm(result)).Inc()
}
