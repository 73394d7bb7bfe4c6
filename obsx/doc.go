// Package obsx provides OpenTelemetry metrics for the bootforge generator.
//
// # Overview
//
// obsx owns an OpenTelemetry meter provider per process whose reader exports
// into a private Prometheus registry. It records generation
// runs, rendered files and result cache lookups, and can expose them over
// HTTP or write them to a file for the node-exporter textfile collector,
// which suits a short-lived command better than scraping.
//
// # Features
//
//   - OpenTelemetry instruments exported through a private Prometheus registry
//   - Build-info gauge carrying service name and version
//   - Generation metrics (runs by result, files by slot, duration, cache lookups)
//   - Optional Go runtime and process collectors
//   - Atomic textfile export
//
// # Usage
//
//	provider, err := obsx.NewProvider(ctx, obsx.Options{
//		ServiceName:    "bootforge",
//		ServiceVersion: "1.0.0",
//	})
//	if err != nil { panic(err) }
//
//	metrics, _ := obsx.NewGenerationMetrics(provider)
//	metrics.RunCompleted(obsx.ResultOK, elapsed)
//
//	_ = provider.WriteTextfile("bootforge.prom")
//
// # Layer
//
// obsx depends on core only.
package obsx
