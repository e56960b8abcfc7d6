package syncmap

import (
	"sort"
	"sync"
)

// Event describes a single mutation applied to a Map.
type Event int

const (
	// Added signals that a key was inserted for the first time.
	Added Event = iota
	// Changed signals that an existing key was overwritten.
	Changed
	// Removed signals that a key was deleted.
	Removed
)

// Watcher receives mutation events. Callbacks run synchronously on the
// mutating goroutine and must not call back into the Map.
type Watcher[T any] func(event Event, key string, value T)

// Map is a thread-safe generic map with change notification. It backs the
// prompt and tool registries.
type Map[T any] struct {
	mux      sync.RWMutex
	m        map[string]T
	watchers []Watcher[T]
}

// NewRegistry creates a new instance of Map
func NewRegistry[T any]() *Map[T] {
	return &Map[T]{
		m: make(map[string]T),
	}
}

// Watch registers a mutation callback. Watchers cannot be removed; register
// them once during bootstrap.
func (r *Map[T]) Watch(w Watcher[T]) {
	r.mux.Lock()
	defer r.mux.Unlock()
	r.watchers = append(r.watchers, w)
}

// Get retrieves an item by name. The second return value reports presence.
func (r *Map[T]) Get(name string) (T, bool) {
	r.mux.RLock()
	defer r.mux.RUnlock()
	v, ok := r.m[name]
	return v, ok
}

// Has reports whether name is present.
func (r *Map[T]) Has(name string) bool {
	r.mux.RLock()
	defer r.mux.RUnlock()
	_, ok := r.m[name]
	return ok
}

// Set adds or updates an item by name and notifies watchers.
func (r *Map[T]) Set(name string, value T) {
	r.mux.Lock()
	event := Added
	if _, ok := r.m[name]; ok {
		event = Changed
	}
	r.m[name] = value
	watchers := r.watchers
	r.mux.Unlock()
	for _, w := range watchers {
		w(event, name, value)
	}
}

// Delete removes an item by name. Removing an absent key is a no-op and
// produces no event.
func (r *Map[T]) Delete(name string) {
	r.mux.Lock()
	value, ok := r.m[name]
	if ok {
		delete(r.m, name)
	}
	watchers := r.watchers
	r.mux.Unlock()
	if !ok {
		return
	}
	for _, w := range watchers {
		w(Removed, name, value)
	}
}

// Keys returns all keys in lexical order.
func (r *Map[T]) Keys() []string {
	r.mux.RLock()
	defer r.mux.RUnlock()
	keys := make([]string, 0, len(r.m))
	for k := range r.m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// List returns a slice of all items
func (r *Map[T]) List() []T {
	r.mux.RLock()
	defer r.mux.RUnlock()
	ret := make([]T, 0, len(r.m))
	for _, v := range r.m {
		ret = append(ret, v)
	}
	return ret
}

// Len returns the number of stored items.
func (r *Map[T]) Len() int {
	r.mux.RLock()
	defer r.mux.RUnlock()
	return len(r.m)
}
