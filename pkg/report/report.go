// Package report forwards unexpected failures to Sentry when a DSN is
// configured. Without Init every function is a no-op.
package report

import (
	"context"
	"errors"
	"sync/atomic"
	"time"

	"github.com/getsentry/sentry-go"
)

const defaultFlushTimeout = 2 * time.Second

var enabled atomic.Bool

// Init configures the Sentry client. An empty dsn leaves reporting disabled.
func Init(dsn, environment string) error {
	if dsn == "" {
		enabled.Store(false)
		return nil
	}
	if err := sentry.Init(sentry.ClientOptions{
		Dsn:              dsn,
		Environment:      environment,
		AttachStacktrace: true,
	}); err != nil {
		enabled.Store(false)
		return err
	}
	enabled.Store(true)
	return nil
}

// Enabled reports whether events are being sent.
func Enabled() bool { return enabled.Load() }

// Capture sends err with the given tags. Context cancellations are not
// failures and are dropped.
func Capture(ctx context.Context, err error, tags map[string]string) {
	if err == nil || !enabled.Load() {
		return
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return
	}
	hub := sentry.GetHubFromContext(ctx)
	if hub == nil {
		hub = sentry.CurrentHub().Clone()
	}
	hub.WithScope(func(scope *sentry.Scope) {
		scope.SetTags(tags)
		hub.CaptureException(err)
	})
}

// Flush waits for queued events. It returns true when nothing is pending.
func Flush(timeout time.Duration) bool {
	if !enabled.Load() {
		return true
	}
	if timeout <= 0 {
		timeout = defaultFlushTimeout
	}
	return sentry.Flush(timeout)
}
