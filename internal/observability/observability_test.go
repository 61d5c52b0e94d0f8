package observability

import (
	"context"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	dto "github.com/prometheus/client_model/go"
	"github.com/railzwaylabs/solarquote/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
)

func TestNewLogger(t *testing.T) {
	logger, err := NewLogger(config.Config{AppName: "solarquote", Log: config.LogConfig{Level: "warn"}})
	require.NoError(t, err)
	assert.False(t, logger.Core().Enabled(zapcore.InfoLevel))
	assert.True(t, logger.Core().Enabled(zapcore.ErrorLevel))

	_, err = NewLogger(config.Config{Log: config.LogConfig{Level: "chatty"}})
	assert.Error(t, err)
}

func TestObserveQuote(t *testing.T) {
	reg := NewRegistry()
	m, err := NewMetrics(reg)
	require.NoError(t, err)

	m.ObserveQuote(context.Background(), "best_case", "ok", 20*time.Millisecond, []string{"approximate_zone"})
	m.ObserveQuote(context.Background(), "best_case", "ok", 10*time.Millisecond, nil)
	m.ObserveQuote(context.Background(), "conservative", "catalog_unavailable", time.Millisecond, nil)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.QuotesTotal.WithLabelValues("best_case", "ok")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.QuotesTotal.WithLabelValues("conservative", "catalog_unavailable")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.PolicyViolations.WithLabelValues("approximate_zone")))

	families, err := reg.Gather()
	require.NoError(t, err)
	var histogram *dto.Histogram
	for _, f := range families {
		if f.GetName() == "solarquote_quote_duration_seconds" {
			for _, metric := range f.GetMetric() {
				if labelValue(metric, "mode") == "best_case" {
					histogram = metric.GetHistogram()
				}
			}
		}
	}
	require.NotNil(t, histogram)
	assert.Equal(t, uint64(2), histogram.GetSampleCount())
}

func TestObserveHTTP(t *testing.T) {
	m, err := NewMetrics(NewRegistry())
	require.NoError(t, err)

	m.ObserveHTTP("GET", "", 404, time.Millisecond)
	assert.Equal(t, 1.0, testutil.ToFloat64(m.HTTPRequestsTotal.WithLabelValues("GET", "unmatched", "404")))
}

func TestNilMetricsAreSafe(t *testing.T) {
	var m *Metrics
	m.ObserveQuote(context.Background(), "best_case", "ok", time.Millisecond, nil)
	m.ObserveHTTP("GET", "/healthz", 200, time.Millisecond)
}

func labelValue(m *dto.Metric, name string) string {
	for _, l := range m.GetLabel() {
		if l.GetName() == name {
			return l.GetValue()
		}
	}
	return ""
}
