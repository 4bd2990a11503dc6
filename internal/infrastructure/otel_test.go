package infrastructure

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tabprep/internal/config"
)

func newTestProviders(t *testing.T) *OTelProviders {
	t.Helper()

	cfg := &OTelConfig{
		ServiceName:    "tabprep-test",
		ServiceVersion: "0.0.1",
		Environment:    "test",
		TraceExporter:  "none",
		MetricExporter: "prometheus",
		EnableMetrics:  true,
		EnableTracing:  false,
		SampleRatio:    1.0,
	}

	providers, err := InitializeOTel(cfg, slog.Default())
	require.NoError(t, err)
	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = providers.Shutdown(ctx)
	})

	return providers
}

func TestDefaultOTelConfig(t *testing.T) {
	cfg := DefaultOTelConfig()

	assert.Equal(t, config.AppName, cfg.ServiceName)
	assert.Equal(t, "prometheus", cfg.MetricExporter)
	assert.True(t, cfg.EnableMetrics)
	assert.False(t, cfg.EnableTracing)
}

func TestOTelConfigFrom(t *testing.T) {
	obs := config.ObservabilityConfig{
		ServiceName:   "custom-name",
		EnableTracing: true,
	}

	cfg := OTelConfigFrom(obs)
	assert.Equal(t, "custom-name", cfg.ServiceName)
	assert.True(t, cfg.EnableTracing)
	assert.Equal(t, "stdout", cfg.TraceExporter)

	cfg = OTelConfigFrom(config.ObservabilityConfig{})
	assert.Equal(t, config.AppName, cfg.ServiceName)
	assert.False(t, cfg.EnableTracing)
	assert.Equal(t, "none", cfg.TraceExporter)
}

func TestInitializeOTel_MetricsOnly(t *testing.T) {
	providers := newTestProviders(t)

	assert.Nil(t, providers.TracerProvider)
	assert.NotNil(t, providers.MeterProvider)
	assert.NotNil(t, providers.Meter)
	assert.NotNil(t, providers.Registry)
}

func TestInitializeOTel_UnsupportedExporter(t *testing.T) {
	cfg := &OTelConfig{
		ServiceName:    "tabprep-test",
		MetricExporter: "statsd",
		EnableMetrics:  true,
	}

	_, err := InitializeOTel(cfg, slog.Default())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported metric exporter")
}

func TestCreatePipelineMetrics(t *testing.T) {
	providers := newTestProviders(t)

	metrics, err := CreatePipelineMetrics(providers.Meter)
	require.NoError(t, err)

	require.NotNil(t, metrics.FilesProcessedTotal)
	require.NotNil(t, metrics.RowsLoadedTotal)
	require.NotNil(t, metrics.CellsFailedTotal)
	require.NotNil(t, metrics.StepDuration)
}

func TestWriteMetricsSnapshot(t *testing.T) {
	providers := newTestProviders(t)

	metrics, err := CreatePipelineMetrics(providers.Meter)
	require.NoError(t, err)

	ctx := context.Background()
	metrics.RowsLoadedTotal.Add(ctx, 42)
	RecordStepMetrics(ctx, metrics, "sales.csv", "load", 125*time.Millisecond, true)
	RecordFileMetrics(ctx, metrics, "sales.csv", time.Second, nil)

	path := filepath.Join(t.TempDir(), "metrics.prom")
	require.NoError(t, providers.WriteMetricsSnapshot(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	out := string(data)
	assert.Contains(t, out, "prep_rows_loaded")
	assert.Contains(t, out, "prep_steps")
	assert.Contains(t, out, "prep_files_processed")
}

func TestWriteMetricsSnapshot_NoRegistry(t *testing.T) {
	providers := &OTelProviders{Logger: slog.Default()}
	assert.NoError(t, providers.WriteMetricsSnapshot(filepath.Join(t.TempDir(), "metrics.prom")))
}

func TestRecordHelpers_NilMetrics(t *testing.T) {
	ctx := context.Background()

	assert.NotPanics(t, func() {
		RecordStepMetrics(ctx, nil, "a.csv", "load", time.Second, true)
		RecordFileMetrics(ctx, nil, "a.csv", time.Second, assert.AnError)
		RecordActiveFileChange(ctx, nil, 1)
	})
}

func TestRecordFileMetrics_Error(t *testing.T) {
	providers := newTestProviders(t)

	metrics, err := CreatePipelineMetrics(providers.Meter)
	require.NoError(t, err)

	ctx := context.Background()
	RecordFileMetrics(ctx, metrics, "broken.csv", 10*time.Millisecond, assert.AnError)

	path := filepath.Join(t.TempDir(), "metrics.prom")
	require.NoError(t, providers.WriteMetricsSnapshot(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "prep_errors")
}

func TestNewRuntimeMetrics(t *testing.T) {
	providers := newTestProviders(t)

	rt, err := NewRuntimeMetrics(providers.Meter)
	require.NoError(t, err)

	stats := rt.Collect(context.Background(), time.Now().Add(-time.Second))
	require.NotNil(t, stats)

	assert.Positive(t, stats.GoRoutines)
	assert.Positive(t, stats.MemoryUsage)
	assert.GreaterOrEqual(t, stats.ProcessUptime, time.Second)
}

func TestTraceIDFromContext_NoSpan(t *testing.T) {
	assert.Empty(t, TraceIDFromContext(context.Background()))
}

func TestAddSpanEvent_NotRecording(t *testing.T) {
	// Without an active span this must be a no-op
	assert.NotPanics(t, func() {
		AddSpanEvent(context.Background(), "event", map[string]interface{}{
			"string": "v",
			"int":    1,
			"bool":   true,
		})
		RecordError(context.Background(), assert.AnError)
	})
}
