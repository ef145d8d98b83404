package state

import (
	"sync"
)

// Key identifies one entry in the Store. Keys are declared by this package
// only, so an unknown key cannot be expressed by callers.
type Key[T any] struct {
	name string
}

// Name returns the wire name of the key.
func (k Key[T]) Name() string {
	return k.name
}

// The closed set of state keys shared across the site components.
var (
	CurrentSlide      = Key[int]{name: "currentSlide"}
	IsMenuOpen        = Key[bool]{name: "isMenuOpen"}
	IsModalOpen       = Key[bool]{name: "isModalOpen"}
	CurrentModalImage = Key[int]{name: "currentModalImage"}
	IsScrolled        = Key[bool]{name: "isScrolled"}
)

// defaults holds the initial value of every declared key.
var defaults = map[string]any{
	CurrentSlide.name:      0,
	IsMenuOpen.name:        false,
	IsModalOpen.name:       false,
	CurrentModalImage.name: 0,
	IsScrolled.name:        false,
}

// Change is delivered to typed observers of a single key.
type Change[T any] struct {
	Old T
	New T
}

// Event is delivered to observers registered with ObserveAll.
type Event struct {
	Key string `json:"key"`
	Old any    `json:"old"`
	New any    `json:"new"`
}

// Store holds the current value of each key and the observers registered
// for it. The zero value is ready to use.
type Store struct {
	mu        sync.RWMutex
	values    map[string]any
	observers map[string][]func(prev, next any)
	global    []func(Event)
}

// NewStore returns an empty store. Equivalent to &Store{}.
func NewStore() *Store {
	return &Store{}
}

// Get returns the current value for key, or the zero value of T when the
// key has never been updated.
func Get[T any](s *Store, key Key[T]) T {
	name := mustName(key)
	s.mu.RLock()
	defer s.mu.RUnlock()

	value, _ := s.values[name].(T)
	return value
}

// Update stores value under key and synchronously notifies every observer
// of that key in registration order, then every ObserveAll observer.
// Observers run outside the store lock and may read the store.
func Update[T any](s *Store, key Key[T], value T) {
	name := mustName(key)

	s.mu.Lock()
	if s.values == nil {
		s.values = make(map[string]any)
	}
	var old T
	if prev, ok := s.values[name].(T); ok {
		old = prev
	}
	s.values[name] = value
	keyed := append([]func(prev, next any){}, s.observers[name]...)
	global := append([]func(Event){}, s.global...)
	s.mu.Unlock()

	for _, fn := range keyed {
		fn(old, value)
	}
	if len(global) == 0 {
		return
	}
	ev := Event{Key: name, Old: old, New: value}
	for _, fn := range global {
		fn(ev)
	}
}

// Observe appends fn to the observers of key. Subscriptions are permanent.
func Observe[T any](s *Store, key Key[T], fn func(Change[T])) {
	name := mustName(key)
	if fn == nil {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.observers == nil {
		s.observers = make(map[string][]func(prev, next any))
	}
	s.observers[name] = append(s.observers[name], func(prev, next any) {
		o, _ := prev.(T)
		n, _ := next.(T)
		fn(Change[T]{Old: o, New: n})
	})
}

// ObserveAll registers fn for changes to any key.
func (s *Store) ObserveAll(fn func(Event)) {
	if fn == nil {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.global = append(s.global, fn)
}

// Snapshot returns a copy of every declared key with its current value.
func (s *Store) Snapshot() map[string]any {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make(map[string]any, len(defaults))
	for name, value := range defaults {
		out[name] = value
	}
	for name, value := range s.values {
		out[name] = value
	}
	return out
}

func mustName[T any](key Key[T]) string {
	if key.name == "" {
		panic("state: zero Key used; use one of the declared keys")
	}
	return key.name
}
