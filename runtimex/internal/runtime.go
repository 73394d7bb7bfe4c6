package internal

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"sync"
	"time"

	"go.eggybyte.com/bootforge/core/log"
)

// Runtime manages the lifecycle of services and the monitor server.
type Runtime struct {
	logger          log.Logger
	services        []Service
	shutdownTimeout time.Duration

	monitor  *http.Server
	listener net.Listener
	served   chan struct{}
}

// Service is the interface for services that can be started and stopped.
type Service interface {
	Start(ctx context.Context) error
	Stop(ctx context.Context) error
}

// NewRuntime creates a new runtime instance.
func NewRuntime(logger log.Logger, services []Service, shutdownTimeout time.Duration) *Runtime {
	return &Runtime{
		logger:          logger,
		services:        services,
		shutdownTimeout: shutdownTimeout,
	}
}

// SetMonitorServer sets the server that exposes metrics and health.
func (r *Runtime) SetMonitorServer(server *http.Server) {
	r.monitor = server
}

// Addr returns the bound monitor address, or "" when there is none.
func (r *Runtime) Addr() string {
	if r.listener == nil {
		return ""
	}
	return r.listener.Addr().String()
}

// Start binds the monitor server, then starts all services concurrently.
// When any service fails to start, the ones that started are stopped again.
func (r *Runtime) Start(ctx context.Context) error {
	r.logger.Info("starting runtime")

	if r.monitor != nil {
		ln, err := net.Listen("tcp", r.monitor.Addr)
		if err != nil {
			return fmt.Errorf("monitor listen on %s: %w", r.monitor.Addr, err)
		}
		r.listener = ln
		r.served = make(chan struct{})
		go func() {
			defer close(r.served)
			r.logger.Info("starting monitor server", log.Str("addr", ln.Addr().String()))
			if err := r.monitor.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
				r.logger.Error(err, "monitor server failed")
			}
		}()
	}

	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		started []Service
		errs    []error
	)
	for i, service := range r.services {
		wg.Add(1)
		go func(idx int, svc Service) {
			defer wg.Done()
			if err := svc.Start(ctx); err != nil {
				r.logger.Error(err, "service start failed", log.Int("index", idx))
				mu.Lock()
				errs = append(errs, fmt.Errorf("service %d start failed: %w", idx, err))
				mu.Unlock()
				return
			}
			r.logger.Debug("service started", log.Int("index", idx))
			mu.Lock()
			started = append(started, svc)
			mu.Unlock()
		}(i, service)
	}
	wg.Wait()

	if len(errs) > 0 {
		r.services = started
		_ = r.Stop(context.Background())
		return errors.Join(errs...)
	}

	r.logger.Info("runtime started")
	return nil
}

// Stop gracefully shuts down all services, then the monitor server.
func (r *Runtime) Stop(ctx context.Context) error {
	r.logger.Info("stopping runtime")

	shutdownCtx, cancel := context.WithTimeout(ctx, r.shutdownTimeout)
	defer cancel()

	var (
		wg   sync.WaitGroup
		mu   sync.Mutex
		errs []error
	)
	for i, service := range r.services {
		wg.Add(1)
		go func(idx int, svc Service) {
			defer wg.Done()
			if err := svc.Stop(shutdownCtx); err != nil {
				r.logger.Error(err, "service stop failed", log.Int("index", idx))
				mu.Lock()
				errs = append(errs, fmt.Errorf("service %d stop failed: %w", idx, err))
				mu.Unlock()
			}
		}(i, service)
	}
	wg.Wait()

	if r.monitor != nil && r.listener != nil {
		if err := r.monitor.Shutdown(shutdownCtx); err != nil {
			r.logger.Error(err, "monitor server shutdown failed")
			errs = append(errs, err)
		}
		<-r.served
	}

	r.logger.Info("runtime stopped")
	return errors.Join(errs...)
}
