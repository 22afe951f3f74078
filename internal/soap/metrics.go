package soap

import (
	"context"
	"time"

	apperrors "walletbridge/internal/errors"
	"walletbridge/internal/models"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Invocation outcomes recorded besides the adapter error kinds.
const (
	OutcomeSuccess         = "success"
	OutcomeBusinessFailure = "business_failure"
	OutcomeError           = "error"
)

// Invoker is anything that can call a named remote operation.
type Invoker interface {
	Invoke(ctx context.Context, operation string, args *models.Payload) (*models.Envelope, error)
}

// MetricsCollector defines the interface for collecting adapter metrics
type MetricsCollector interface {
	RecordInvocation(operation, outcome string, duration time.Duration)
}

// NoopMetricsCollector is a no-op implementation of MetricsCollector
type NoopMetricsCollector struct{}

func (n *NoopMetricsCollector) RecordInvocation(string, string, time.Duration) {}

// PrometheusMetrics records invocations as Prometheus series.
type PrometheusMetrics struct {
	Invocations *prometheus.CounterVec
	Duration    *prometheus.HistogramVec
}

// NewPrometheusMetrics registers the adapter metrics with registry, or the
// default registerer when registry is nil.
func NewPrometheusMetrics(registry prometheus.Registerer) *PrometheusMetrics {
	if registry == nil {
		registry = prometheus.DefaultRegisterer
	}
	factory := promauto.With(registry)

	return &PrometheusMetrics{
		Invocations: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "walletbridge_soap_invocations_total",
				Help: "SOAP operation invocations by operation and outcome",
			},
			[]string{"operation", "outcome"},
		),
		Duration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "walletbridge_soap_invocation_duration_seconds",
				Help:    "Latency of SOAP operation invocations",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"operation"},
		),
	}
}

func (m *PrometheusMetrics) RecordInvocation(operation, outcome string, duration time.Duration) {
	m.Invocations.WithLabelValues(operation, outcome).Inc()
	m.Duration.WithLabelValues(operation).Observe(duration.Seconds())
}

// InstrumentedInvoker records every call made through it.
type InstrumentedInvoker struct {
	next    Invoker
	metrics MetricsCollector
}

func Instrument(next Invoker, metrics MetricsCollector) *InstrumentedInvoker {
	if metrics == nil {
		metrics = &NoopMetricsCollector{}
	}
	return &InstrumentedInvoker{next: next, metrics: metrics}
}

func (i *InstrumentedInvoker) Invoke(ctx context.Context, operation string, args *models.Payload) (*models.Envelope, error) {
	start := time.Now()
	env, err := i.next.Invoke(ctx, operation, args)
	i.metrics.RecordInvocation(operation, outcomeOf(env, err), time.Since(start))
	return env, err
}

func outcomeOf(env *models.Envelope, err error) string {
	if err != nil {
		if kind, ok := apperrors.KindOf(err); ok {
			return string(kind)
		}
		return OutcomeError
	}
	if env != nil && env.Success {
		return OutcomeSuccess
	}
	return OutcomeBusinessFailure
}
