// Package loader tracks in-flight operations to drive a global busy indicator.
package loader

import (
	"container/list"
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
)

// DefaultLabel is used when an operation is started without a label.
const DefaultLabel = "Loading..."

// Clock supplies the current time.
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }

// Operation is one registered in-flight call.
type Operation struct {
	ID        string    `json:"id"`
	Label     string    `json:"label"`
	StartedAt time.Time `json:"started_at"`
}

// Observer is notified after an operation is registered or released.
// Callbacks run outside the tracker lock and must not block.
type Observer interface {
	OperationStarted(op Operation)
	OperationStopped(op Operation)
}

// Tracker is a registry of in-flight operations keyed by id.
// Iteration order is insertion order; MostRecent is the last inserted id
// still registered.
type Tracker struct {
	mu       sync.RWMutex
	ops      map[string]*list.Element
	order    *list.List
	clock    Clock
	observer Observer
}

// Option configures a Tracker.
type Option func(*Tracker)

// WithClock sets the time source for StartedAt.
func WithClock(clock Clock) Option {
	return func(t *Tracker) {
		t.clock = clock
	}
}

// WithObserver registers an observer for start/stop notifications.
func WithObserver(o Observer) Option {
	return func(t *Tracker) {
		t.observer = o
	}
}

// New creates an empty tracker.
func New(opts ...Option) *Tracker {
	t := &Tracker{
		ops:   make(map[string]*list.Element),
		order: list.New(),
		clock: systemClock{},
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Start registers id. Starting an id that is already registered refreshes its
// label and start time in place; there is never more than one record per id.
func (t *Tracker) Start(id, label string) {
	if label == "" {
		label = DefaultLabel
	}
	op := Operation{ID: id, Label: label, StartedAt: t.clock.Now()}

	t.mu.Lock()
	if el, ok := t.ops[id]; ok {
		el.Value = op
	} else {
		t.ops[id] = t.order.PushBack(op)
	}
	t.mu.Unlock()

	if t.observer != nil {
		t.observer.OperationStarted(op)
	}
}

// Stop releases id. Stopping an unknown id is a no-op.
func (t *Tracker) Stop(id string) {
	t.mu.Lock()
	el, ok := t.ops[id]
	if ok {
		t.order.Remove(el)
		delete(t.ops, id)
	}
	t.mu.Unlock()

	if ok && t.observer != nil {
		t.observer.OperationStopped(el.Value.(Operation))
	}
}

// StopAll releases every registered operation.
func (t *Tracker) StopAll() {
	t.mu.Lock()
	var stopped []Operation
	if t.observer != nil {
		stopped = t.listLocked()
	}
	t.ops = make(map[string]*list.Element)
	t.order.Init()
	t.mu.Unlock()

	for _, op := range stopped {
		t.observer.OperationStopped(op)
	}
}

// Active reports whether any operation is registered.
func (t *Tracker) Active() bool {
	return t.Count() > 0
}

// Count returns the number of registered operations.
func (t *Tracker) Count() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.order.Len()
}

// IsActive reports whether id is registered.
func (t *Tracker) IsActive(id string) bool {
	t.mu.RLock()
	defer t.mu.RUnlock()
	_, ok := t.ops[id]
	return ok
}

// MostRecent returns the last inserted operation that is still registered.
func (t *Tracker) MostRecent() (Operation, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()

	back := t.order.Back()
	if back == nil {
		return Operation{}, false
	}
	return back.Value.(Operation), true
}

// List returns the registered operations in insertion order.
func (t *Tracker) List() []Operation {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.listLocked()
}

func (t *Tracker) listLocked() []Operation {
	ops := make([]Operation, 0, t.order.Len())
	for el := t.order.Front(); el != nil; el = el.Next() {
		ops = append(ops, el.Value.(Operation))
	}
	return ops
}

// NewID returns a fresh operation id.
func NewID() string {
	return "api_" + uuid.NewString()
}

// Wrap runs fn as a tracked operation under a generated id.
func Wrap[T any](ctx context.Context, t *Tracker, label string, fn func(context.Context) (T, error)) (T, error) {
	return WrapID(ctx, t, NewID(), label, fn)
}

// WrapID registers id for exactly the duration of fn. The registration is
// released on every exit path, including a panic in fn. fn's result and
// error are returned unchanged.
func WrapID[T any](ctx context.Context, t *Tracker, id, label string, fn func(context.Context) (T, error)) (T, error) {
	t.Start(id, label)
	defer t.Stop(id)
	return fn(ctx)
}
