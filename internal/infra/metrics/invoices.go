package metrics

import "github.com/prometheus/client_golang/prometheus"

func init() { register(documentsRendered, accessDenied) }

var (
	documentsRendered = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "invoice_documents_rendered_total",
			Help: "Invoice documents rendered, by locale.",
		},
		[]string{"locale"},
	)

	accessDenied = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "invoice_access_denied_total",
			Help: "Invoice reads refused because the caller is neither owner nor admin.",
		},
	)
)

func IncDocumentRendered(locale string) {
	documentsRendered.WithLabelValues(norm(locale)).Inc()
}

func IncAccessDenied() { accessDenied.Inc() }
