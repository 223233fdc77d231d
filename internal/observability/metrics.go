package observability

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics groups all Prometheus instruments used by the service.
type Metrics struct {
	TasksTotal     prometheus.Gauge
	StoreOps       *prometheus.CounterVec
	PersistOps     *prometheus.CounterVec
	SaveLatency    prometheus.Histogram
	AssistRequests *prometheus.CounterVec
	AssistCache    *prometheus.CounterVec
	WSClients      prometheus.Gauge
}

func NewMetrics(namespace string) *Metrics {
	return &Metrics{
		TasksTotal: promauto.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "tasks_total",
			Help:      "Number of tasks currently on the board.",
		}),
		StoreOps: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "store_operations_total",
			Help:      "Store mutations by operation and result.",
		}, []string{"op", "result"}),
		PersistOps: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "persist_operations_total",
			Help:      "Persistence round-trips by operation and result.",
		}, []string{"op", "result"}),
		SaveLatency: promauto.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "save_latency_ms",
			Help:      "Full-collection save latency in milliseconds.",
			Buckets:   []float64{1, 2, 5, 10, 25, 50, 100, 250, 500, 1000},
		}),
		AssistRequests: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "assist_requests_total",
			Help:      "AI assist calls by operation and outcome.",
		}, []string{"op", "outcome"}),
		AssistCache: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "assist_cache_total",
			Help:      "AI assist cache lookups by result.",
		}, []string{"result"}),
		WSClients: promauto.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "ws_clients",
			Help:      "Connected board event listeners.",
		}),
	}
}

func MetricsHandler() http.Handler {
	return promhttp.Handler()
}
