// Package lazy defers construction of a value until its first use.
package lazy

import "sync"

type InitializerFn[T comparable] func() (T, error)

// Lazy holds a value produced on demand by an initializer. A failed
// initialization is not sticky: the next GetValue runs the initializer again.
type Lazy[T comparable] struct {
	mutex       sync.Mutex
	initialized bool
	initializer InitializerFn[T]
	value       T
	err         error
}

// NewLazy creates a Lazy[T] around the given initializer.
func NewLazy[T comparable](initializerFn InitializerFn[T]) *Lazy[T] {
	return &Lazy[T]{
		initializer: initializerFn,
	}
}

// GetValue returns the initialized value, running the initializer if no value
// is held yet. Concurrent callers serialize; the initializer runs at most once
// per GetValue round until it succeeds.
func (l *Lazy[T]) GetValue() (T, error) {
	l.mutex.Lock()
	defer l.mutex.Unlock()

	if l.initialized {
		return l.value, nil
	}

	l.value, l.err = l.initializer()
	l.initialized = l.err == nil

	return l.value, l.err
}

// SetValue stores value directly, marking the Lazy initialized.
func (l *Lazy[T]) SetValue(value T) {
	l.mutex.Lock()
	defer l.mutex.Unlock()

	l.value = value
	l.err = nil
	l.initialized = true
}
