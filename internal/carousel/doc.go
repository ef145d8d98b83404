// Package carousel implements a cyclic selection over a fixed collection:
// the shared engine behind the hero slideshow and the gallery modal.
//
// # Navigation
//
// A Selection keeps a current index into its items. GoTo jumps directly,
// Next and Previous step with wraparound:
//
//	next     = (i + 1) mod n
//	previous = (i - 1 + n) mod n
//
// GoTo(current) and out-of-range indexes are no-ops: no marker callback, no
// store publish. Every real change calls Options.OnChange(prev, next) and
// publishes the new index under Options.Key.
//
// # Auto-advance
//
// Start runs a ticker goroutine that calls Tick every Interval. Pause and
// Resume only flip the playing flag, so a paused selection keeps ticking and
// resuming does not reset the phase. The reachable states are:
//
//	stopped ──Start──→ running+playing ⇄ running+paused
//	   ↑                     │                 │
//	   └────────Stop─────────┴─────────────────┘
//
// Stop is idempotent and waits for the goroutine, so no tick lands after it
// returns. Cancelling the context passed to Start also stops the timer.
//
// # Gestures
//
// Swipe classifies a horizontal drag with ClassifySwipe: more than the
// threshold leftward moves forward, more than the threshold rightward moves
// backward, anything else is a tap.
//
// # Concurrency
//
// A Selection guards its state with a mutex. The index changes under the
// mutex; OnChange and store observers run after it is released, so they may
// read or move the same Selection. Calls from a single goroutine publish in
// call order. Stop waits for the timer goroutine, so an observer of a timer
// tick must not call Stop directly.
package carousel
