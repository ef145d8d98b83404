package carousel

import (
	"context"
	"time"
)

// Start launches the auto-advance timer. Each tick advances only while the
// selection is playing. Start returns immediately and is a no-op when the
// timer is already running.
func (s *Selection[T]) Start(ctx context.Context) {
	if ctx == nil {
		ctx = context.Background()
	}

	s.mu.Lock()
	if s.cancel != nil {
		s.mu.Unlock()
		return
	}
	runCtx, cancel := context.WithCancel(ctx)
	done := make(chan struct{})
	s.cancel = cancel
	s.done = done
	interval := s.interval
	s.mu.Unlock()

	go func() {
		defer close(done)
		defer s.release(done)

		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-runCtx.Done():
				return
			case <-ticker.C:
				s.Tick()
			}
		}
	}()
}

// Tick performs one timer step: advance if playing. It reports whether the
// position changed.
func (s *Selection[T]) Tick() bool {
	s.mu.Lock()
	if !s.playing {
		s.mu.Unlock()
		return false
	}
	next := (s.index + 1) % len(s.items)
	prev, ok := s.move(next)
	s.mu.Unlock()
	return s.notify(prev, next, ok)
}

// Pause suppresses auto-advance without stopping the timer, so Resume keeps
// the existing tick phase.
func (s *Selection[T]) Pause() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.playing = false
}

// Resume re-enables auto-advance.
func (s *Selection[T]) Resume() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.playing = true
}

// TogglePlay flips between playing and paused and returns the new state.
func (s *Selection[T]) TogglePlay() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.playing = !s.playing
	return s.playing
}

// Playing reports whether ticks advance the selection.
func (s *Selection[T]) Playing() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.playing
}

// Running reports whether the timer is active.
func (s *Selection[T]) Running() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cancel != nil
}

// Stop cancels the timer and waits for its goroutine to exit. It is safe to
// call when already stopped.
func (s *Selection[T]) Stop() {
	s.mu.Lock()
	cancel, done := s.cancel, s.done
	s.cancel, s.done = nil, nil
	s.mu.Unlock()

	if cancel == nil {
		return
	}
	cancel()
	<-done
}

// release clears the handle when the timer exits on its own (parent context
// cancelled). A handle installed by a later Start is left alone.
func (s *Selection[T]) release(done chan struct{}) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.done == done {
		s.cancel()
		s.cancel, s.done = nil, nil
	}
}
