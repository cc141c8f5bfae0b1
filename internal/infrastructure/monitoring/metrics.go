package monitoring

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics for the store.
type Metrics struct {
	// HTTP metrics
	RequestsTotal   *prometheus.CounterVec
	RequestDuration *prometheus.HistogramVec

	// Document lifecycle metrics
	DocumentsLoaded    prometheus.Counter
	DocumentsCreated   prometheus.Counter
	DocumentsPersisted prometheus.Counter
	LoadFailures       prometheus.Counter
	PersistFailures    prometheus.Counter
	PlayersOnline      prometheus.Gauge

	// Hook metrics
	HookPanics *prometheus.CounterVec

	// Registry metrics
	FieldsRegistered prometheus.Gauge
}

// NewMetrics creates a metrics collector registered with reg. Pass
// prometheus.DefaultRegisterer outside tests.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		RequestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "playerdata_http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "path", "status"},
		),
		RequestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "playerdata_http_request_duration_seconds",
				Help:    "HTTP request duration in seconds",
				Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1},
			},
			[]string{"method", "path"},
		),
		DocumentsLoaded: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "playerdata_documents_loaded_total",
				Help: "Total number of documents loaded from disk",
			},
		),
		DocumentsCreated: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "playerdata_documents_created_total",
				Help: "Total number of fresh documents created for first-time identities",
			},
		),
		DocumentsPersisted: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "playerdata_documents_persisted_total",
				Help: "Total number of documents written to disk",
			},
		),
		LoadFailures: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "playerdata_load_failures_total",
				Help: "Total number of unreadable or undecodable document files",
			},
		),
		PersistFailures: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "playerdata_persist_failures_total",
				Help: "Total number of document write failures",
			},
		),
		PlayersOnline: factory.NewGauge(
			prometheus.GaugeOpts{
				Name: "playerdata_players_online",
				Help: "Number of identities with a cached document",
			},
		),
		HookPanics: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "playerdata_hook_panics_total",
				Help: "Total number of recovered lifecycle hook panics",
			},
			[]string{"stage"},
		),
		FieldsRegistered: factory.NewGauge(
			prometheus.GaugeOpts{
				Name: "playerdata_fields_registered",
				Help: "Number of field definitions in the registry",
			},
		),
	}
}

// Middleware creates a Gin middleware recording request metrics.
func Middleware(metrics *Metrics) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.FullPath()
		if path == "" {
			path = c.Request.URL.Path
		}
		method := c.Request.Method

		c.Next()

		status := strconv.Itoa(c.Writer.Status())
		metrics.RequestsTotal.WithLabelValues(method, path, status).Inc()
		metrics.RequestDuration.WithLabelValues(method, path).Observe(time.Since(start).Seconds())
	}
}
