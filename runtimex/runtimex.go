// Package runtimex runs long-lived background services with a monitor
// endpoint and graceful shutdown.
//
// Overview:
//   - Responsibility: Start and stop services, serve /metrics and /healthz while they run
//   - Key Types: Service, HealthChecker, Options, Runtime
//   - Concurrency Model: Services start and stop concurrently; the monitor server runs in its own goroutine
//   - Error Semantics: Start fails fast when the monitor cannot bind or a service cannot start
//   - Performance Notes: Health checks run on request only
//
// Usage:
//
//	err := runtimex.Run(ctx, []runtimex.Service{svc}, runtimex.Options{
//	  Logger:  logger,
//	  Monitor: &runtimex.Endpoint{Addr: ":9464"},
//	  Metrics: provider.PrometheusHandler(),
//	})
package runtimex

import (
	"context"
	"net/http"
	"time"

	"go.eggybyte.com/bootforge/core/errors"
	"go.eggybyte.com/bootforge/core/log"
	"go.eggybyte.com/bootforge/runtimex/internal"
)

// Monitor paths.
const (
	MetricsPath = "/metrics"
	HealthPath  = "/healthz"
)

// DefaultShutdownTimeout bounds graceful shutdown when Options leaves it unset.
const DefaultShutdownTimeout = 15 * time.Second

// Service defines the interface for services that can be started and stopped.
// Start must not block beyond initialization; long-running work belongs in a
// goroutine that Stop ends.
type Service interface {
	// Start begins the service operation.
	Start(ctx context.Context) error

	// Stop gracefully shuts down the service.
	// The context carries the shutdown deadline.
	Stop(ctx context.Context) error
}

// HealthChecker reports the health of one component.
type HealthChecker interface {
	Name() string
	Check(ctx context.Context) error
}

// Endpoint represents a network endpoint with an address.
type Endpoint struct {
	Addr string // Network address (e.g., ":9464", "127.0.0.1:0")
}

// Options holds configuration for the runtime.
type Options struct {
	Logger          log.Logger      // Logger for runtime operations (required)
	Monitor         *Endpoint       // Address of the /metrics and /healthz server; nil disables it
	Metrics         http.Handler    // Handler behind /metrics; 404 when nil
	HealthCheckers  []HealthChecker // Checks behind /healthz
	ShutdownTimeout time.Duration   // Graceful shutdown timeout
}

// Runtime is a started set of services.
type Runtime struct {
	impl *internal.Runtime
}

// Start binds the monitor endpoint and starts every service.
//
// Parameters:
//   - ctx: Passed to every Service.Start
//   - services: Services to run
//   - opts: Logger, monitor endpoint, metrics handler and health checks
//
// Returns:
//   - *Runtime: Running runtime; call Stop to shut it down
//   - error: INVALID_ARGUMENT without a logger, UNAVAILABLE when binding or a service start fails
func Start(ctx context.Context, services []Service, opts Options) (*Runtime, error) {
	if opts.Logger == nil {
		return nil, errors.New(errors.CodeInvalidArgument, "runtimex: logger is required")
	}

	shutdownTimeout := opts.ShutdownTimeout
	if shutdownTimeout == 0 {
		shutdownTimeout = DefaultShutdownTimeout
	}

	internalServices := make([]internal.Service, len(services))
	for i, service := range services {
		internalServices[i] = service
	}
	rt := internal.NewRuntime(opts.Logger, internalServices, shutdownTimeout)

	if opts.Monitor != nil {
		rt.SetMonitorServer(&http.Server{
			Addr:              opts.Monitor.Addr,
			Handler:           monitorMux(opts.Metrics, opts.HealthCheckers),
			ReadHeaderTimeout: 5 * time.Second,
		})
	}

	if err := rt.Start(ctx); err != nil {
		return nil, errors.Wrap(errors.CodeUnavailable, "runtimex.Start", err)
	}
	return &Runtime{impl: rt}, nil
}

// Addr returns the bound monitor address, useful with port 0.
func (r *Runtime) Addr() string { return r.impl.Addr() }

// Stop shuts down services and the monitor server.
func (r *Runtime) Stop(ctx context.Context) error {
	return r.impl.Stop(ctx)
}

// Run starts services, blocks until ctx is done, then stops them.
func Run(ctx context.Context, services []Service, opts Options) error {
	rt, err := Start(ctx, services, opts)
	if err != nil {
		return err
	}

	<-ctx.Done()

	if err := rt.Stop(context.Background()); err != nil {
		return errors.Wrap(errors.CodeInternal, "runtimex.Run", err)
	}
	return nil
}

func monitorMux(metrics http.Handler, checkers []HealthChecker) *http.ServeMux {
	health := &internal.HealthRegistry{}
	for _, c := range checkers {
		health.Register(c)
	}

	mux := http.NewServeMux()
	mux.Handle(HealthPath, health)
	if metrics != nil {
		mux.Handle(MetricsPath, metrics)
	}
	return mux
}
