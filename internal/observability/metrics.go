package observability

import (
	"context"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	otelmetric "go.opentelemetry.io/otel/metric"
)

const namespace = "solarquote"

type Metrics struct {
	QuotesTotal       *prometheus.CounterVec
	QuoteDuration     *prometheus.HistogramVec
	PolicyViolations  *prometheus.CounterVec
	HTTPRequestsTotal *prometheus.CounterVec
	HTTPDuration      *prometheus.HistogramVec

	quoteCounter otelmetric.Int64Counter
}

// NewRegistry returns a registry with the Go runtime and process collectors.
func NewRegistry() *prometheus.Registry {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return reg
}

func NewMetrics(reg prometheus.Registerer) (*Metrics, error) {
	m := &Metrics{
		QuotesTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "quotes_total",
			Help:      "Quote calculations by pricing mode and outcome.",
		}, []string{"mode", "outcome"}),
		QuoteDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "quote_duration_seconds",
			Help:      "Quote calculation latency.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"mode"}),
		PolicyViolations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "policy_violations_total",
			Help:      "Soft policy violations raised on calculated quotes.",
		}, []string{"code"}),
		HTTPRequestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "HTTP requests by route and status.",
		}, []string{"method", "route", "status"}),
		HTTPDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency by route.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route"}),
	}

	for _, c := range []prometheus.Collector{m.QuotesTotal, m.QuoteDuration, m.PolicyViolations, m.HTTPRequestsTotal, m.HTTPDuration} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}

	counter, err := otel.Meter("solarquote").Int64Counter("solarquote.quotes",
		otelmetric.WithDescription("Quote calculations"),
	)
	if err != nil {
		return nil, err
	}
	m.quoteCounter = counter
	return m, nil
}

// ObserveQuote records one calculation. Outcome is the error category or ok.
func (m *Metrics) ObserveQuote(ctx context.Context, mode, outcome string, elapsed time.Duration, violations []string) {
	if m == nil {
		return
	}
	m.QuotesTotal.WithLabelValues(mode, outcome).Inc()
	m.QuoteDuration.WithLabelValues(mode).Observe(elapsed.Seconds())
	for _, code := range violations {
		m.PolicyViolations.WithLabelValues(code).Inc()
	}
	m.quoteCounter.Add(ctx, 1, otelmetric.WithAttributes(
		attribute.String("mode", mode),
		attribute.String("outcome", outcome),
	))
}

func (m *Metrics) ObserveHTTP(method, route string, status int, elapsed time.Duration) {
	if m == nil {
		return
	}
	if route == "" {
		route = "unmatched"
	}
	m.HTTPRequestsTotal.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	m.HTTPDuration.WithLabelValues(method, route).Observe(elapsed.Seconds())
}
