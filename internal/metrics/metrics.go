package metrics

import (
	"context"
	"net/http"
	"time"

	"github.com/99designs/gqlgen/graphql"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "gamereview"

// Metrics holds the collectors of one server instance. Each instance has its
// own registry so that several servers can live in one process.
type Metrics struct {
	Registry *prometheus.Registry

	operationsTotal   *prometheus.CounterVec
	operationDuration *prometheus.HistogramVec
	requestsTotal     *prometheus.CounterVec
	requestDuration   *prometheus.HistogramVec
	requestsInFlight  prometheus.Gauge
}

func New() *Metrics {
	m := &Metrics{
		Registry: prometheus.NewRegistry(),
		operationsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "graphql_operations_total",
				Help:      "Total number of executed GraphQL operations",
			},
			[]string{"operation", "status"},
		),
		operationDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "graphql_operation_duration_seconds",
				Help:      "GraphQL operation latency in seconds",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"operation"},
		),
		requestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "http_requests_total",
				Help:      "Total number of HTTP requests",
			},
			[]string{"method", "code"},
		),
		requestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "http_request_duration_seconds",
				Help:      "HTTP request latency in seconds",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"method"},
		),
		requestsInFlight: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "http_requests_in_flight",
				Help:      "Number of HTTP requests being served",
			},
		),
	}

	m.Registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.operationsTotal,
		m.operationDuration,
		m.requestsTotal,
		m.requestDuration,
		m.requestsInFlight,
	)

	return m
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.Registry, promhttp.HandlerOpts{
		Registry: m.Registry,
	})
}

// InstrumentHandler records HTTP level metrics for next.
func (m *Metrics) InstrumentHandler(next http.Handler) http.Handler {
	return promhttp.InstrumentHandlerInFlight(
		m.requestsInFlight,
		promhttp.InstrumentHandlerDuration(
			m.requestDuration,
			promhttp.InstrumentHandlerCounter(m.requestsTotal, next),
		),
	)
}

// StatsFunc reports the current number of games, reviews and authors.
type StatsFunc func() (games, reviews, authors int)

// RegisterDataset exports the collection sizes reported by stats.
func (m *Metrics) RegisterDataset(stats StatsFunc) error {
	return m.Registry.Register(newDatasetCollector(stats))
}

// Extension returns a gqlgen handler extension counting operations.
func (m *Metrics) Extension() graphql.HandlerExtension {
	return &operationMetrics{m: m}
}

var _ interface {
	graphql.HandlerExtension
	graphql.ResponseInterceptor
} = (*operationMetrics)(nil)

type operationMetrics struct {
	m *Metrics
}

func (*operationMetrics) ExtensionName() string {
	return "OperationMetrics"
}

func (*operationMetrics) Validate(graphql.ExecutableSchema) error {
	return nil
}

func (om *operationMetrics) InterceptResponse(ctx context.Context, next graphql.ResponseHandler) *graphql.Response {
	resp := next(ctx)
	if resp == nil || !graphql.HasOperationContext(ctx) {
		return resp
	}

	oc := graphql.GetOperationContext(ctx)
	operation := "unknown"
	if oc.Operation != nil {
		operation = string(oc.Operation.Operation)
	}
	status := "ok"
	if len(resp.Errors) != 0 {
		status = "error"
	}

	om.m.operationsTotal.WithLabelValues(operation, status).Inc()
	if start := oc.Stats.OperationStart; !start.IsZero() {
		om.m.operationDuration.WithLabelValues(operation).Observe(time.Since(start).Seconds())
	}

	return resp
}
