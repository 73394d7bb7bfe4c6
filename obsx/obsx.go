// Package obsx provides OpenTelemetry metrics for the generator, exported
// through a Prometheus registry.
//
// Overview:
//   - Responsibility: Own a meter provider, its Prometheus registry and the generation instruments
//   - Key Types: Options for configuration, Provider for the meter provider, GenerationMetrics for run counters
//   - Concurrency Model: Provider and GenerationMetrics are safe for concurrent use
//   - Error Semantics: NewProvider and NewGenerationMetrics return errors for setup failures
//   - Performance Notes: Synchronous instruments only; collection happens on scrape or textfile write
//
// Usage:
//
//	provider, err := obsx.NewProvider(ctx, obsx.Options{
//	  ServiceName: "bootforge",
//	  ServiceVersion: "1.0.0",
//	})
//	metrics, err := obsx.NewGenerationMetrics(provider)
//	metrics.RunCompleted("ok", time.Since(start))
//	err = provider.WriteTextfile("/var/lib/node_exporter/bootforge.prom")
package obsx

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"go.eggybyte.com/bootforge/obsx/internal"
)

// Options holds configuration for the metrics provider.
type Options struct {
	ServiceName    string            // Service name for the build-info metric
	ServiceVersion string            // Service version
	ConstLabels    map[string]string // Labels added to every generation metric
}

// Provider owns the meter provider of one process.
type Provider struct {
	impl *internal.Provider
}

// NewProvider creates a new metrics provider.
//
// Parameters:
//   - ctx: context for provider initialization
//   - opts: provider configuration options
//
// Returns:
//   - *Provider: initialized provider instance
//   - error: initialization error if any
//
// Concurrency:
//   - Safe to call from multiple goroutines; each call owns a fresh registry
func NewProvider(ctx context.Context, opts Options) (*Provider, error) {
	impl, err := internal.NewProvider(ctx, internal.ProviderOptions{
		ServiceName:    opts.ServiceName,
		ServiceVersion: opts.ServiceVersion,
		ConstLabels:    opts.ConstLabels,
	})
	if err != nil {
		return nil, err
	}
	return &Provider{impl: impl}, nil
}

// Registry returns the Prometheus registry the meter provider exports into.
func (p *Provider) Registry() *prometheus.Registry {
	return p.impl.Registry
}

// PrometheusHandler returns an HTTP handler serving the registry.
func (p *Provider) PrometheusHandler() http.Handler {
	return p.impl.Handler()
}

// EnableRuntimeMetrics registers Go runtime and process collectors.
//
// Concurrency:
//   - Safe to call multiple times (idempotent)
func (p *Provider) EnableRuntimeMetrics() error {
	return p.impl.EnableRuntimeMetrics()
}

// WriteTextfile writes all metrics in text exposition format, for the
// node-exporter textfile collector.
//
// Parameters:
//   - path: destination file; replaced atomically
//
// Returns:
//   - error: gather or write error
func (p *Provider) WriteTextfile(path string) error {
	return p.impl.WriteTextfile(path)
}

// Shutdown flushes and stops the meter provider.
//
// Concurrency:
//   - Blocks until shutdown completes or ctx ends
func (p *Provider) Shutdown(ctx context.Context) error {
	return p.impl.Shutdown(ctx)
}

// Run results recorded by GenerationMetrics.
const (
	ResultOK            = "ok"
	ResultInvalidConfig = "invalid_config"
	ResultPlanFailed    = "plan_failed"
	ResultRenderFailed  = "render_failed"
	ResultCanceled      = "canceled"
)

const (
	cacheResultHit  = "hit"
	cacheResultMiss = "miss"
)

// durationBuckets spans 0.5ms to about 4s.
var durationBuckets = prometheus.ExponentialBuckets(0.0005, 2, 14)

// GenerationMetrics records generation runs.
type GenerationMetrics struct {
	runs     metric.Int64Counter
	files    metric.Int64Counter
	duration metric.Float64Histogram
	cache    metric.Int64Counter
	labels   []attribute.KeyValue
}

// NewGenerationMetrics creates the generation instruments on p.
//
// Metrics exported:
//   - bootforge_generation_runs_total{result}: Completed runs by outcome
//   - bootforge_generation_files_total{slot}: Rendered files by slot
//   - bootforge_generation_duration_seconds: Run duration
//   - bootforge_generation_cache_lookups_total{result}: Result cache hits and misses
func NewGenerationMetrics(p *Provider) (*GenerationMetrics, error) {
	meter := p.impl.Meter("generation")
	m := &GenerationMetrics{labels: p.impl.Labels}

	var err error
	if m.runs, err = meter.Int64Counter("bootforge_generation_runs_total",
		metric.WithDescription("Generation runs by result.")); err != nil {
		return nil, fmt.Errorf("failed to create runs counter: %w", err)
	}
	if m.files, err = meter.Int64Counter("bootforge_generation_files_total",
		metric.WithDescription("Rendered files by logical slot.")); err != nil {
		return nil, fmt.Errorf("failed to create files counter: %w", err)
	}
	if m.duration, err = meter.Float64Histogram("bootforge_generation_duration_seconds",
		metric.WithDescription("Duration of generation runs."),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(durationBuckets...)); err != nil {
		return nil, fmt.Errorf("failed to create duration histogram: %w", err)
	}
	if m.cache, err = meter.Int64Counter("bootforge_generation_cache_lookups_total",
		metric.WithDescription("Result cache lookups by outcome.")); err != nil {
		return nil, fmt.Errorf("failed to create cache counter: %w", err)
	}
	return m, nil
}

func (m *GenerationMetrics) attrs(kv ...attribute.KeyValue) metric.MeasurementOption {
	return metric.WithAttributes(append(kv, m.labels...)...)
}

// RunCompleted records one finished run.
func (m *GenerationMetrics) RunCompleted(result string, d time.Duration) {
	ctx := context.Background()
	m.runs.Add(ctx, 1, m.attrs(attribute.String("result", result)))
	m.duration.Record(ctx, d.Seconds(), m.attrs())
}

// FileRendered counts one rendered file of slot.
func (m *GenerationMetrics) FileRendered(slot string) {
	m.files.Add(context.Background(), 1, m.attrs(attribute.String("slot", slot)))
}

// CacheLookup counts one result cache lookup.
func (m *GenerationMetrics) CacheLookup(hit bool) {
	result := cacheResultMiss
	if hit {
		result = cacheResultHit
	}
	m.cache.Add(context.Background(), 1, m.attrs(attribute.String("result", result)))
}
