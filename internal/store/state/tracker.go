package state

import (
	"context"
	"time"

	"github.com/okian/finesse/pkg/logger"
	"github.com/okian/finesse/pkg/metrics"
)

// Tracker records the result of store operations.
type Tracker struct {
	store string
	log   logger.Logger
}

// NewTracker returns a Tracker labelled with store.
func NewTracker(store string, log logger.Logger) Tracker {
	return Tracker{store: store, log: log}
}

// Done records one finished operation. Failures are logged at warn.
func (t Tracker) Done(ctx context.Context, op string, start time.Time, outcome Outcome, err error) {
	elapsed := time.Since(start)
	switch {
	case err != nil:
		metrics.RecordStoreOperation(t.store, op, metrics.OutcomeError, elapsed)
		t.log.Warn(ctx, "store operation failed",
			logger.String("op", op), logger.Duration("elapsed", elapsed), logger.Error(err))
	case outcome == NoOp:
		metrics.RecordStoreOperation(t.store, op, metrics.OutcomeNoOp, elapsed)
		t.log.Debug(ctx, "store operation had no target", logger.String("op", op))
	default:
		metrics.RecordStoreOperation(t.store, op, metrics.OutcomeOK, elapsed)
		t.log.Debug(ctx, "store operation done", logger.String("op", op), logger.Duration("elapsed", elapsed))
	}
}

// Persister returns a PersistFunc that saves the projection of each value
// produced by view through save. Failures are counted and logged.
func Persister[T any](key string, log logger.Logger, save func(ctx context.Context, key string, v any) error, view func(T) any) PersistFunc[T] {
	return func(ctx context.Context, value T) {
		if err := save(ctx, key, view(value)); err != nil {
			metrics.RecordPersistError(key, "save")
			log.Warn(ctx, "persist failed", logger.String("key", key), logger.Error(err))
			return
		}
		metrics.RecordPersistWrite(key)
	}
}
