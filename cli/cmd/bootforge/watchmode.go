package main

import (
	"context"
	"sync"

	"go.eggybyte.com/bootforge/cli/internal/watch"
	"go.eggybyte.com/bootforge/core/log"
	"go.eggybyte.com/bootforge/runtimex"
)

// watchService runs a watcher as a runtimex service.
type watchService struct {
	watcher  *watch.Watcher
	onChange func(ctx context.Context) error
	logger   log.Logger

	cancel context.CancelFunc
	done   chan struct{}
}

func (s *watchService) Start(ctx context.Context) error {
	ctx, s.cancel = context.WithCancel(context.WithoutCancel(ctx))
	s.done = make(chan struct{})
	go func() {
		defer close(s.done)
		if err := s.watcher.Run(ctx, s.onChange); err != nil {
			s.logger.Error(err, "watcher stopped")
		}
	}()
	return nil
}

func (s *watchService) Stop(ctx context.Context) error {
	if s.cancel == nil {
		return nil
	}
	s.cancel()
	select {
	case <-s.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// lastRun remembers the outcome of the latest regeneration.
type lastRun struct {
	mu  sync.Mutex
	err error
}

func (l *lastRun) record(err error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.err = err
}

func (l *lastRun) Name() string { return "regeneration" }

func (l *lastRun) Check(context.Context) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.err
}

// runWatchMode blocks until ctx is done, regenerating on every change.
// A monitor endpoint is served when the monitor address setting is set.
func runWatchMode(ctx context.Context, a *app, path string, regenerate func(ctx context.Context) error) error {
	w, err := watch.New(path, watch.WithDebounce(a.settings.WatchDebounce), watch.WithLogger(a.logger))
	if err != nil {
		return err
	}

	status := &lastRun{}
	svc := &watchService{
		watcher: w,
		logger:  a.logger,
		onChange: func(ctx context.Context) error {
			err := regenerate(ctx)
			status.record(err)
			return err
		},
	}

	opts := runtimex.Options{
		Logger:         a.logger,
		HealthCheckers: []runtimex.HealthChecker{status},
	}
	if addr := a.settings.MonitorAddr; addr != "" {
		if err := a.provider.EnableRuntimeMetrics(); err != nil {
			return err
		}
		opts.Monitor = &runtimex.Endpoint{Addr: addr}
		opts.Metrics = a.provider.PrometheusHandler()
	}
	return runtimex.Run(ctx, []runtimex.Service{svc}, opts)
}
