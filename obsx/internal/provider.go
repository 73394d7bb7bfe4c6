// Package internal provides internal implementation for the obsx package.
package internal

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	promclient "github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/prometheus"
	api "go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	semconv "go.opentelemetry.io/otel/semconv/v1.21.0"
)

// ProviderOptions holds configuration for the metrics provider.
type ProviderOptions struct {
	ServiceName    string
	ServiceVersion string
	ConstLabels    map[string]string
}

// Provider owns a meter provider whose only reader exports into a private
// Prometheus registry.
type Provider struct {
	MeterProvider *metric.MeterProvider
	Registry      *promclient.Registry
	Labels        []attribute.KeyValue
}

// NewProvider creates the registry, the exporter and the meter provider, and
// records a build-info gauge.
//
// Parameters:
//   - ctx: context for resource detection
//   - opts: provider configuration options
//
// Returns:
//   - *Provider: initialized provider instance
//   - error: missing service name or exporter setup error
func NewProvider(ctx context.Context, opts ProviderOptions) (*Provider, error) {
	if opts.ServiceName == "" {
		return nil, fmt.Errorf("service name is required")
	}

	res, err := resource.New(ctx,
		resource.WithAttributes(
			semconv.ServiceName(opts.ServiceName),
			semconv.ServiceVersion(opts.ServiceVersion),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create resource: %w", err)
	}

	reg := promclient.NewRegistry()
	exporter, err := prometheus.New(
		prometheus.WithRegisterer(reg),
		prometheus.WithoutUnits(),
		prometheus.WithoutScopeInfo(),
		prometheus.WithoutCounterSuffixes(),
		prometheus.WithoutTargetInfo(),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create prometheus exporter: %w", err)
	}

	p := &Provider{
		MeterProvider: metric.NewMeterProvider(
			metric.WithResource(res),
			metric.WithReader(exporter),
		),
		Registry: reg,
	}
	for k, v := range opts.ConstLabels {
		p.Labels = append(p.Labels, attribute.String(k, v))
	}

	info, err := p.Meter("build").Int64Gauge("build_info",
		api.WithDescription("Build information of the running tool."))
	if err != nil {
		return nil, fmt.Errorf("failed to create build info: %w", err)
	}
	info.Record(ctx, 1, api.WithAttributes(
		attribute.String("service", opts.ServiceName),
		attribute.String("version", opts.ServiceVersion),
	))

	return p, nil
}

// Meter returns a meter scoped under the obsx instrumentation name.
func (p *Provider) Meter(name string) api.Meter {
	return p.MeterProvider.Meter("go.eggybyte.com/bootforge/obsx/" + name)
}

// EnableRuntimeMetrics registers the Go runtime and process collectors.
// Calling it twice is a no-op.
func (p *Provider) EnableRuntimeMetrics() error {
	for _, c := range []promclient.Collector{
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	} {
		if err := p.Registry.Register(c); err != nil {
			var already promclient.AlreadyRegisteredError
			if errors.As(err, &already) {
				continue
			}
			return fmt.Errorf("failed to register runtime collector: %w", err)
		}
	}
	return nil
}

// Handler returns an HTTP handler for the registry.
func (p *Provider) Handler() http.Handler {
	return promhttp.HandlerFor(p.Registry, promhttp.HandlerOpts{EnableOpenMetrics: true})
}

// WriteTextfile writes the registry in text exposition format to path.
// The file is written atomically, suitable for a textfile collector.
func (p *Provider) WriteTextfile(path string) error {
	if err := promclient.WriteToTextfile(path, p.Registry); err != nil {
		return fmt.Errorf("failed to write metrics to %s: %w", path, err)
	}
	return nil
}

// Shutdown stops the meter provider. Measurements recorded afterwards are dropped.
func (p *Provider) Shutdown(ctx context.Context) error {
	if err := p.MeterProvider.Shutdown(ctx); err != nil {
		return fmt.Errorf("failed to shutdown meter provider: %w", err)
	}
	return nil
}
