// Package dedupe tracks keys whose work is in flight so the same work is not
// started twice concurrently.
package dedupe

import (
	"context"
	"sync"
	"time"
)

// Deduper records in-flight keys.
type Deduper interface {
	// SeenAndRecord atomically checks whether key is in flight and records it
	// if not. Returns true if it was already in flight.
	SeenAndRecord(ctx context.Context, key string) bool

	// Unrecord marks the work for key as finished.
	Unrecord(ctx context.Context, key string)

	Size() int64
}

// inMemoryDeduper implements Deduper with a map of start times. Entries older
// than ttl count as abandoned and are replaced on the next SeenAndRecord.
type inMemoryDeduper struct {
	mu       sync.Mutex
	inFlight map[string]time.Time
	ttl      time.Duration // <= 0 means entries never expire
	now      func() time.Time
}

// NewInMemoryDeduper creates a new in-memory deduper with configuration options.
func NewInMemoryDeduper(opts ...Option) Deduper {
	d := &inMemoryDeduper{
		inFlight: make(map[string]time.Time),
		ttl:      time.Minute,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

func (d *inMemoryDeduper) SeenAndRecord(_ context.Context, key string) bool {
	d.mu.Lock()
	defer d.mu.Unlock()

	now := d.now()
	if started, ok := d.inFlight[key]; ok && !d.expired(started, now) {
		return true
	}
	d.inFlight[key] = now
	return false
}

func (d *inMemoryDeduper) Unrecord(_ context.Context, key string) {
	d.mu.Lock()
	delete(d.inFlight, key)
	d.mu.Unlock()
}

// Size returns the number of keys currently in flight, expired ones included
// until they are replaced or removed.
func (d *inMemoryDeduper) Size() int64 {
	d.mu.Lock()
	defer d.mu.Unlock()
	return int64(len(d.inFlight))
}

func (d *inMemoryDeduper) expired(started, now time.Time) bool {
	return d.ttl > 0 && now.Sub(started) >= d.ttl
}
