package carousel

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/five82/vitrine/internal/state"
)

const (
	// DefaultInterval is the auto-advance period.
	DefaultInterval = 5 * time.Second

	// DefaultSwipeThreshold is the horizontal displacement a drag must
	// exceed to count as a swipe.
	DefaultSwipeThreshold = 50.0
)

// ErrNoItems is returned when a selection is built over an empty collection.
var ErrNoItems = errors.New("carousel: no items")

// Options configure a Selection.
type Options struct {
	// Interval between auto-advance ticks. Zero uses DefaultInterval.
	Interval time.Duration

	// SwipeThreshold for Swipe. Zero uses DefaultSwipeThreshold.
	SwipeThreshold float64

	// Store and Key receive the new index after every change. A nil store
	// or zero key disables publishing.
	Store *state.Store
	Key   state.Key[int]

	// OnChange deactivates the marker at prev and activates it at next.
	OnChange func(prev, next int)

	// Autoplay starts the timer during New, using Context as parent.
	Autoplay bool
	Context  context.Context
}

// Selection tracks the current position in a fixed, ordered collection.
// All methods are safe for concurrent use.
type Selection[T any] struct {
	mu        sync.Mutex
	items     []T
	index     int
	playing   bool
	interval  time.Duration
	threshold float64
	store     *state.Store
	key       state.Key[int]
	onChange  func(prev, next int)

	// timer handle, present only while auto-advance runs
	cancel context.CancelFunc
	done   chan struct{}
}

// New builds a selection positioned at index 0 in the playing state. It
// returns ErrNoItems when items is empty.
func New[T any](items []T, opts Options) (*Selection[T], error) {
	if len(items) == 0 {
		return nil, ErrNoItems
	}

	interval := opts.Interval
	if interval <= 0 {
		interval = DefaultInterval
	}
	threshold := opts.SwipeThreshold
	if threshold <= 0 {
		threshold = DefaultSwipeThreshold
	}

	s := &Selection[T]{
		items:     append([]T(nil), items...),
		playing:   true,
		interval:  interval,
		threshold: threshold,
		store:     opts.Store,
		key:       opts.Key,
		onChange:  opts.OnChange,
	}
	if opts.Autoplay {
		s.Start(opts.Context)
	}
	return s, nil
}

// Len returns the number of items.
func (s *Selection[T]) Len() int {
	return len(s.items)
}

// Items returns a copy of the collection.
func (s *Selection[T]) Items() []T {
	return append([]T(nil), s.items...)
}

// Index returns the current position.
func (s *Selection[T]) Index() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.index
}

// Current returns the item at the current position.
func (s *Selection[T]) Current() T {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.items[s.index]
}

// Interval returns the auto-advance period.
func (s *Selection[T]) Interval() time.Duration {
	return s.interval
}

// GoTo moves to index. Moving to the current index or outside the
// collection is a no-op. It reports whether the position changed.
func (s *Selection[T]) GoTo(index int) bool {
	s.mu.Lock()
	prev, ok := s.move(index)
	s.mu.Unlock()
	return s.notify(prev, index, ok)
}

// Next advances one position, wrapping from the last item to the first.
func (s *Selection[T]) Next() bool {
	s.mu.Lock()
	next := (s.index + 1) % len(s.items)
	prev, ok := s.move(next)
	s.mu.Unlock()
	return s.notify(prev, next, ok)
}

// Previous steps back one position, wrapping from the first item to the last.
func (s *Selection[T]) Previous() bool {
	s.mu.Lock()
	n := len(s.items)
	next := (s.index - 1 + n) % n
	prev, ok := s.move(next)
	s.mu.Unlock()
	return s.notify(prev, next, ok)
}

// move must be called with s.mu held. It sets the index and returns the
// previous one.
func (s *Selection[T]) move(index int) (int, bool) {
	if index == s.index || index < 0 || index >= len(s.items) {
		return s.index, false
	}
	prev := s.index
	s.index = index
	return prev, true
}

// notify runs the marker callback and publishes after s.mu is released, so
// observers may read the selection.
func (s *Selection[T]) notify(prev, next int, moved bool) bool {
	if !moved {
		return false
	}
	if s.onChange != nil {
		s.onChange(prev, next)
	}
	if s.store != nil && s.key.Name() != "" {
		state.Update(s.store, s.key, next)
	}
	return true
}

// Swipe maps a horizontal drag from startX to endX onto Next (leftward
// drag) or Previous (rightward drag). Drags within the threshold are taps.
func (s *Selection[T]) Swipe(startX, endX float64) Direction {
	dir := ClassifySwipe(startX, endX, s.threshold)
	switch dir {
	case Forward:
		s.Next()
	case Backward:
		s.Previous()
	}
	return dir
}
