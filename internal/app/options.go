package app

import (
	"github.com/okian/finesse/internal/adapters/mq/worker"
	"github.com/okian/finesse/internal/domain/dedupe"
	"github.com/okian/finesse/internal/domain/navigation"
	"github.com/okian/finesse/pkg/logger"
)

// Option configures an App.
type Option func(*App)

// WithNavigator sets the callback told about redirects.
func WithNavigator(n Navigator) Option {
	return func(a *App) { a.navigator = n }
}

// WithSink enables the change-event bus, delivering to s.
func WithSink(s worker.Sink) Option {
	return func(a *App) { a.sink = s }
}

// WithQueueSize sets the change-event queue capacity.
func WithQueueSize(size int) Option {
	return func(a *App) {
		if size > 0 {
			a.queueSize = size
		}
	}
}

// WithWorkerCount sets the number of event workers. Zero means one per CPU.
func WithWorkerCount(count int) Option {
	return func(a *App) {
		if count >= 0 {
			a.workerCount = count
		}
	}
}

// WithLocation sets the location before Start.
func WithLocation(location string) Option {
	return func(a *App) {
		if location != "" {
			a.location = location
		}
	}
}

// WithGuard replaces the navigation guard.
func WithGuard(g *navigation.Guard) Option {
	return func(a *App) { a.guard = g }
}

// WithFetchTracker replaces the in-flight profile fetch tracker.
func WithFetchTracker(d dedupe.Deduper) Option {
	return func(a *App) {
		if d != nil {
			a.fetches = d
		}
	}
}

// WithLogger sets the logger.
func WithLogger(l logger.Logger) Option {
	return func(a *App) {
		if l != nil {
			a.log = l
		}
	}
}
