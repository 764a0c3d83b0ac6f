package assets

import (
	"errors"
	"fmt"
	"slices"
	"sync"
)

// Library errors.
var (
	ErrDuplicate = errors.New("resource already registered")
	ErrNotFound  = errors.New("resource not found")
)

// Library holds named resources of one kind and releases them on Close.
type Library[T any] struct {
	kind    string
	release func(T)

	mu    sync.RWMutex
	items map[string]T
	order []string
}

// NewLibrary creates an empty library. release is called for each item on
// Close and Replace; it may be nil.
func NewLibrary[T any](kind string, release func(T)) *Library[T] {
	return &Library[T]{
		kind:    kind,
		release: release,
		items:   make(map[string]T),
	}
}

// Add registers v under name.
func (l *Library[T]) Add(name string, v T) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if _, ok := l.items[name]; ok {
		return fmt.Errorf("%w: %s %q", ErrDuplicate, l.kind, name)
	}
	l.items[name] = v
	l.order = append(l.order, name)
	return nil
}

// Replace registers v under name, releasing any previous item.
func (l *Library[T]) Replace(name string, v T) {
	l.mu.Lock()
	old, ok := l.items[name]
	l.items[name] = v
	if !ok {
		l.order = append(l.order, name)
	}
	l.mu.Unlock()

	if ok && l.release != nil {
		l.release(old)
	}
}

// Get returns the item registered under name.
func (l *Library[T]) Get(name string) (T, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	v, ok := l.items[name]
	if !ok {
		var zero T
		return zero, fmt.Errorf("%w: %s %q", ErrNotFound, l.kind, name)
	}
	return v, nil
}

// Names returns the registered names in insertion order.
func (l *Library[T]) Names() []string {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return slices.Clone(l.order)
}

// Len returns the number of items.
func (l *Library[T]) Len() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.items)
}

// Close releases every item, newest first, and empties the library.
func (l *Library[T]) Close() {
	l.mu.Lock()
	items, order := l.items, l.order
	l.items = make(map[string]T)
	l.order = nil
	l.mu.Unlock()

	if l.release == nil {
		return
	}
	for i := len(order) - 1; i >= 0; i-- {
		l.release(items[order[i]])
	}
}
