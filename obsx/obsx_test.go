// Package obsx provides tests for the metrics provider.
package obsx

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

// scrape returns the provider's metrics in text exposition format.
func scrape(t *testing.T, provider *Provider) string {
	t.Helper()
	rec := httptest.NewRecorder()
	provider.PrometheusHandler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	return rec.Body.String()
}

func assertSeries(t *testing.T, text string, want ...string) {
	t.Helper()
	for _, w := range want {
		if !strings.Contains(text, w) {
			t.Errorf("metrics missing %q in:\n%s", w, text)
		}
	}
}

func TestNewProvider(t *testing.T) {
	tests := []struct {
		name    string
		opts    Options
		wantErr bool
	}{
		{
			name: "valid options",
			opts: Options{
				ServiceName:    "bootforge",
				ServiceVersion: "1.0.0",
			},
			wantErr: false,
		},
		{
			name: "missing service name",
			opts: Options{
				ServiceVersion: "1.0.0",
			},
			wantErr: true,
		},
		{
			name: "with constant labels",
			opts: Options{
				ServiceName:    "bootforge",
				ServiceVersion: "1.0.0",
				ConstLabels:    map[string]string{"mode": "batch"},
			},
			wantErr: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			provider, err := NewProvider(context.Background(), tt.opts)
			if (err != nil) != tt.wantErr {
				t.Errorf("NewProvider() error = %v, wantErr %v", err, tt.wantErr)
				return
			}
			if !tt.wantErr && provider.Registry() == nil {
				t.Error("Registry is nil")
			}
		})
	}
}

func TestGenerationMetrics(t *testing.T) {
	provider, err := NewProvider(context.Background(), Options{ServiceName: "bootforge", ServiceVersion: "test"})
	if err != nil {
		t.Fatalf("NewProvider() error = %v", err)
	}
	m, err := NewGenerationMetrics(provider)
	if err != nil {
		t.Fatalf("NewGenerationMetrics() error = %v", err)
	}

	m.RunCompleted(ResultOK, 20*time.Millisecond)
	m.RunCompleted(ResultOK, 30*time.Millisecond)
	m.RunCompleted(ResultPlanFailed, time.Millisecond)
	m.FileRendered("entity")
	m.CacheLookup(true)
	m.CacheLookup(false)
	m.CacheLookup(false)

	assertSeries(t, scrape(t, provider),
		`bootforge_generation_runs_total{result="ok"} 2`,
		`bootforge_generation_runs_total{result="plan_failed"} 1`,
		`bootforge_generation_files_total{slot="entity"} 1`,
		`bootforge_generation_cache_lookups_total{result="hit"} 1`,
		`bootforge_generation_cache_lookups_total{result="miss"} 2`,
		`bootforge_generation_duration_seconds_count 3`,
	)
}

func TestGenerationMetricsConstLabels(t *testing.T) {
	provider, err := NewProvider(context.Background(), Options{
		ServiceName: "bootforge",
		ConstLabels: map[string]string{"mode": "batch"},
	})
	if err != nil {
		t.Fatalf("NewProvider() error = %v", err)
	}
	m, err := NewGenerationMetrics(provider)
	if err != nil {
		t.Fatalf("NewGenerationMetrics() error = %v", err)
	}
	m.RunCompleted(ResultOK, time.Millisecond)

	assertSeries(t, scrape(t, provider), `bootforge_generation_runs_total{mode="batch",result="ok"} 1`)
}

func TestShutdown(t *testing.T) {
	provider, err := NewProvider(context.Background(), Options{ServiceName: "bootforge"})
	if err != nil {
		t.Fatalf("NewProvider() error = %v", err)
	}
	if err := provider.Shutdown(context.Background()); err != nil {
		t.Errorf("Shutdown() error = %v", err)
	}
}

func TestEnableRuntimeMetricsIdempotent(t *testing.T) {
	provider, err := NewProvider(context.Background(), Options{ServiceName: "bootforge"})
	if err != nil {
		t.Fatalf("NewProvider() error = %v", err)
	}
	if err := provider.EnableRuntimeMetrics(); err != nil {
		t.Fatalf("EnableRuntimeMetrics() error = %v", err)
	}
	if err := provider.EnableRuntimeMetrics(); err != nil {
		t.Errorf("second EnableRuntimeMetrics() error = %v", err)
	}
}

func TestWriteTextfile(t *testing.T) {
	provider, err := NewProvider(context.Background(), Options{ServiceName: "bootforge", ServiceVersion: "1.2.3"})
	if err != nil {
		t.Fatalf("NewProvider() error = %v", err)
	}
	m, err := NewGenerationMetrics(provider)
	if err != nil {
		t.Fatalf("NewGenerationMetrics() error = %v", err)
	}
	m.RunCompleted(ResultOK, time.Millisecond)

	path := filepath.Join(t.TempDir(), "bootforge.prom")
	if err := provider.WriteTextfile(path); err != nil {
		t.Fatalf("WriteTextfile() error = %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read metrics file: %v", err)
	}
	for _, want := range []string{
		`bootforge_generation_runs_total{result="ok"} 1`,
		`build_info{service="bootforge",version="1.2.3"} 1`,
	} {
		if !strings.Contains(string(data), want) {
			t.Errorf("metrics file missing %q", want)
		}
	}
}

func TestPrometheusHandler(t *testing.T) {
	provider, err := NewProvider(context.Background(), Options{ServiceName: "bootforge", ServiceVersion: "2.0.0"})
	if err != nil {
		t.Fatalf("NewProvider() error = %v", err)
	}

	assertSeries(t, scrape(t, provider), `build_info{service="bootforge",version="2.0.0"} 1`)
}
