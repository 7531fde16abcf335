// Package state provides the observable value every store is built on.
package state

import (
	"context"
	"sync"
	"time"

	"github.com/okian/finesse/pkg/metrics"
)

// Outcome tells whether a mutating operation found its target.
type Outcome int

const (
	// Applied means the operation changed the state.
	Applied Outcome = iota
	// NoOp means the target was absent and nothing besides the loading flag changed.
	NoOp
)

func (o Outcome) String() string {
	if o == NoOp {
		return "noop"
	}
	return "applied"
}

// Change is delivered to subscribers after every update.
type Change[T any] struct {
	Version uint64
	At      time.Time
	Value   T
}

// Listener observes changes. It runs on the updating goroutine after the
// lock is released.
type Listener[T any] func(Change[T])

// PersistFunc writes a value to durable storage. It runs under the write
// lock so writes land in version order.
type PersistFunc[T any] func(ctx context.Context, value T)

// Option configures a Container.
type Option[T any] func(*Container[T])

// WithName labels the version gauge.
func WithName[T any](name string) Option[T] {
	return func(c *Container[T]) { c.name = name }
}

// WithPersist installs a persistence hook.
func WithPersist[T any](fn PersistFunc[T]) Option[T] {
	return func(c *Container[T]) { c.persist = fn }
}

// Container guards a value of T. Values handed out by Get are shallow
// copies; callers must not mutate slices or pointers reachable from them,
// and update functions must replace rather than modify such fields.
type Container[T any] struct {
	name    string
	persist PersistFunc[T]
	now     func() time.Time

	mu      sync.RWMutex
	value   T
	version uint64

	lmu       sync.Mutex
	listeners map[uint64]Listener[T]
	nextID    uint64
}

// New creates a Container holding initial at version 0.
func New[T any](initial T, opts ...Option[T]) *Container[T] {
	c := &Container[T]{
		value:     initial,
		now:       time.Now,
		listeners: make(map[uint64]Listener[T]),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Get returns the current value.
func (c *Container[T]) Get() T {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.value
}

// Snapshot returns the current value with its version.
func (c *Container[T]) Snapshot() (T, uint64) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.value, c.version
}

// Version returns the number of updates applied so far.
func (c *Container[T]) Version() uint64 {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.version
}

// Update applies fn under the write lock, persists the result and then
// notifies subscribers. It returns the new value.
func (c *Container[T]) Update(ctx context.Context, fn func(*T)) T {
	v, _ := c.apply(ctx, func(cur *T) bool { fn(cur); return true }, true)
	return v
}

// UpdateIf is Update for changes that may turn out to be unnecessary. When
// fn returns false the value must be left untouched; nothing is persisted
// or published and the version stays the same.
func (c *Container[T]) UpdateIf(ctx context.Context, fn func(*T) bool) (T, bool) {
	return c.apply(ctx, fn, true)
}

// Load replaces the value without persisting it. Used when restoring.
func (c *Container[T]) Load(ctx context.Context, v T) T {
	out, _ := c.apply(ctx, func(cur *T) bool { *cur = v; return true }, false)
	return out
}

func (c *Container[T]) apply(ctx context.Context, fn func(*T) bool, persist bool) (T, bool) {
	c.mu.Lock()
	if !fn(&c.value) {
		v := c.value
		c.mu.Unlock()
		return v, false
	}
	c.version++
	ch := Change[T]{Version: c.version, At: c.now(), Value: c.value}
	if persist && c.persist != nil {
		c.persist(context.WithoutCancel(ctx), c.value)
	}
	c.mu.Unlock()

	if c.name != "" {
		metrics.UpdateStoreVersion(c.name, ch.Version)
	}
	c.notify(ch)
	return ch.Value, true
}

func (c *Container[T]) notify(ch Change[T]) {
	c.lmu.Lock()
	ls := make([]Listener[T], 0, len(c.listeners))
	for _, l := range c.listeners {
		ls = append(ls, l)
	}
	c.lmu.Unlock()

	for _, l := range ls {
		l(ch)
	}
}

// Subscribe registers l and returns a function that removes it.
func (c *Container[T]) Subscribe(l Listener[T]) (unsubscribe func()) {
	c.lmu.Lock()
	id := c.nextID
	c.nextID++
	c.listeners[id] = l
	c.lmu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			c.lmu.Lock()
			delete(c.listeners, id)
			c.lmu.Unlock()
		})
	}
}
