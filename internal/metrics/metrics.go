package metrics

import (
	"database/sql"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "festival"

// Metrics holds the Prometheus collectors of the API.
type Metrics struct {
	registry *prometheus.Registry

	RequestCounter   *prometheus.CounterVec
	RequestDuration  *prometheus.HistogramVec
	RequestsInFlight prometheus.Gauge
	RecordOutcomes   *prometheus.CounterVec
	RateLimited      *prometheus.CounterVec
	LiveClients      prometheus.Gauge
	DBConnPoolStats  *prometheus.GaugeVec
}

// New registers every collector on a fresh registry, so several servers can live in one process.
func New() *Metrics {
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	factory := promauto.With(registry)

	return &Metrics{
		registry: registry,
		RequestCounter: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "http",
				Name:      "requests_total",
				Help:      "Total number of HTTP requests",
			},
			[]string{"method", "route", "status"},
		),
		RequestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: "http",
				Name:      "request_duration_seconds",
				Help:      "HTTP request duration in seconds",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"method", "route"},
		),
		RequestsInFlight: factory.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Subsystem: "http",
				Name:      "requests_in_flight",
				Help:      "Number of requests currently being processed",
			},
		),
		RecordOutcomes: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "recorder",
				Name:      "outcomes_total",
				Help:      "Visit, award and heart operations by outcome",
			},
			[]string{"operation", "outcome"},
		),
		RateLimited: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "ratelimit",
				Name:      "rejected_total",
				Help:      "Requests rejected by the rate limiter",
			},
			[]string{"action"},
		),
		LiveClients: factory.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Subsystem: "leaderboard",
				Name:      "live_clients",
				Help:      "Connected live leaderboard clients",
			},
		),
		DBConnPoolStats: factory.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Subsystem: "db",
				Name:      "connection_pool",
				Help:      "Database connection pool statistics",
			},
			[]string{"stat"},
		),
	}
}

// Middleware counts and times every request by its route template.
func (m *Metrics) Middleware() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		m.RequestsInFlight.Inc()
		defer m.RequestsInFlight.Dec()

		start := time.Now()
		ctx.Next()

		route := ctx.FullPath()
		if route == "" {
			route = "unmatched"
		}
		m.RequestDuration.WithLabelValues(ctx.Request.Method, route).Observe(time.Since(start).Seconds())
		m.RequestCounter.WithLabelValues(ctx.Request.Method, route, strconv.Itoa(ctx.Writer.Status())).Inc()
	}
}

func (m *Metrics) Handler() gin.HandlerFunc {
	return gin.WrapH(promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{}))
}

func (m *Metrics) RecordOutcome(operation, outcome string) {
	m.RecordOutcomes.WithLabelValues(operation, outcome).Inc()
}

func (m *Metrics) RecordRateLimited(action string) {
	m.RateLimited.WithLabelValues(action).Inc()
}

func (m *Metrics) SetLiveClients(n int) {
	m.LiveClients.Set(float64(n))
}

func (m *Metrics) RecordDBPoolStats(stats sql.DBStats) {
	m.DBConnPoolStats.WithLabelValues("open").Set(float64(stats.OpenConnections))
	m.DBConnPoolStats.WithLabelValues("in_use").Set(float64(stats.InUse))
	m.DBConnPoolStats.WithLabelValues("idle").Set(float64(stats.Idle))
	m.DBConnPoolStats.WithLabelValues("wait_count").Set(float64(stats.WaitCount))
	m.DBConnPoolStats.WithLabelValues("wait_duration_ms").Set(float64(stats.WaitDuration.Milliseconds()))
}
