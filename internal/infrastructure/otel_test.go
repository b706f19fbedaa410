package infrastructure

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
)

func testOTelConfig(exporter string) *OTelConfig {
	return &OTelConfig{
		ServiceName:    "chartapp-test",
		ServiceVersion: "test",
		Environment:    "test",
		TraceExporter:  exporter,
		EnableMetrics:  true,
		SampleRatio:    1.0,
	}
}

// TestOTelInitialization tests OpenTelemetry initialization
func TestOTelInitialization(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))

	providers, err := InitializeOTel(testOTelConfig("stdout"), logger)
	require.NoError(t, err)
	require.NotNil(t, providers)

	assert.NotNil(t, providers.TracerProvider)
	assert.NotNil(t, providers.Tracer)
	assert.NotNil(t, providers.MeterProvider)
	assert.NotNil(t, providers.Meter)
	assert.NotNil(t, providers.Metrics)
	assert.NotNil(t, providers.PrometheusHTTP)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	assert.NoError(t, providers.Shutdown(ctx))
}

func TestOTelInitialization_UnsupportedExporter(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))

	_, err := InitializeOTel(testOTelConfig("zipkin"), logger)
	assert.Error(t, err)
}

func TestOTelInitialization_MetricsDisabled(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))
	cfg := testOTelConfig("none")
	cfg.EnableMetrics = false

	providers, err := InitializeOTel(cfg, logger)
	require.NoError(t, err)

	assert.Nil(t, providers.MeterProvider)
	assert.Nil(t, providers.PrometheusHTTP)
	require.NotNil(t, providers.Metrics)

	// no-op instruments must accept recordings
	RecordExtraction(context.Background(), providers.Metrics, "csv", 10, 2, time.Millisecond, nil)
	assert.NoError(t, providers.Shutdown(context.Background()))
}

// TestTraceCorrelation tests trace ID correlation
func TestTraceCorrelation(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))
	providers, err := InitializeOTel(testOTelConfig("stdout"), logger)
	require.NoError(t, err)
	defer providers.Shutdown(context.Background())

	ctx, span := otel.Tracer("test").Start(context.Background(), "test-operation")
	defer span.End()

	traceID := TraceIDFromContext(ctx)
	assert.NotEmpty(t, traceID)
	assert.Equal(t, span.SpanContext().TraceID().String(), traceID)

	RecordError(ctx, errors.New("boom"))
}

func TestPrometheusEndpointExposesBusinessMetrics(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))
	providers, err := InitializeOTel(testOTelConfig("none"), logger)
	require.NoError(t, err)
	defer providers.Shutdown(context.Background())

	ctx := context.Background()
	RecordExtraction(ctx, providers.Metrics, "excel", 2048, 12, 15*time.Millisecond, nil)
	RecordExtraction(ctx, providers.Metrics, "csv", 64, 0, time.Millisecond, errors.New("bad"))
	providers.Metrics.ChartsSaved.Add(ctx, 1)

	rec := httptest.NewRecorder()
	providers.PrometheusHTTP.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "uploads_total")
	assert.Contains(t, body, "upload_failures_total")
	assert.Contains(t, body, "charts_saved_total")
	assert.Contains(t, body, `kind="excel"`)
}

func TestRecordExtraction_NilMetrics(t *testing.T) {
	assert.NotPanics(t, func() {
		RecordExtraction(context.Background(), nil, "csv", 1, 1, time.Millisecond, nil)
	})
}

func TestNoopMetrics(t *testing.T) {
	m := NoopMetrics()
	require.NotNil(t, m)
	assert.NotPanics(t, func() {
		m.SchoolQueries.Add(context.Background(), 1)
	})
}
