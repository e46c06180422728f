package metrics

import (
	"net/http"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	ChatRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "chat_widget_requests_total",
			Help: "Chat requests by HTTP status returned to the widget",
		},
		[]string{"status"},
	)

	UpstreamDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "chat_widget_upstream_duration_seconds",
			Help:    "Latency of generateContent calls",
			Buckets: []float64{0.25, 0.5, 1, 2, 5, 10, 20, 30},
		},
		[]string{"outcome"},
	)

	InstructionChars = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "chat_widget_instruction_chars",
			Help:    "Size of the assembled system instruction in characters",
			Buckets: prometheus.ExponentialBuckets(512, 2, 8),
		},
	)

	CatalogChanges = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "chat_widget_catalog_changes_total",
			Help: "Admin catalog mutations",
		},
		[]string{"kind", "action"},
	)
)

var once sync.Once

// Init registers the collectors with the default registry. Safe to call
// more than once.
func Init() {
	once.Do(func() {
		prometheus.MustRegister(ChatRequests)
		prometheus.MustRegister(UpstreamDuration)
		prometheus.MustRegister(InstructionChars)
		prometheus.MustRegister(CatalogChanges)
	})
}

func Handler() http.Handler {
	return promhttp.Handler()
}
