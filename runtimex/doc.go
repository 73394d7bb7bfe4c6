// Package runtimex provides lifecycle orchestration for long-running
// background services, with a monitor endpoint and graceful shutdown.
//
// # Overview
//
// runtimex starts and stops services safely and, while they run, serves
// Prometheus metrics and an aggregated health check on one address. The
// bootforge CLI uses it for watch mode.
//
// # Features
//
//   - Unified lifecycle management with graceful shutdown
//   - Monitor server with /metrics and /healthz
//   - Pluggable service and health checker interfaces
//   - Structured logging hooks for startup/shutdown events
//
// # Usage
//
//	err := runtimex.Run(ctx, []runtimex.Service{svc}, runtimex.Options{
//		Logger:         logger,
//		Monitor:        &runtimex.Endpoint{Addr: ":9464"},
//		Metrics:        provider.PrometheusHandler(),
//		HealthCheckers: []runtimex.HealthChecker{checker},
//	})
//
// # Layer
//
// runtimex depends on core/log and core/errors.
package runtimex
