// Package nav holds the site navigation state: the collapsible menu and the
// scrolled-header flag.
package nav

import (
	"sync"

	"github.com/five82/vitrine/internal/state"
)

// DefaultScrollThreshold is the offset past which the header counts as scrolled.
const DefaultScrollThreshold = 100

// Menu publishes IsMenuOpen on every open/close.
type Menu struct {
	store *state.Store
}

// NewMenu returns a closed menu bound to store.
func NewMenu(store *state.Store) *Menu {
	return &Menu{store: store}
}

// IsOpen reports the current menu state from the store.
func (m *Menu) IsOpen() bool {
	return state.Get(m.store, state.IsMenuOpen)
}

// Open shows the menu.
func (m *Menu) Open() {
	state.Update(m.store, state.IsMenuOpen, true)
}

// Close hides the menu.
func (m *Menu) Close() {
	state.Update(m.store, state.IsMenuOpen, false)
}

// Toggle flips the menu and returns the new state.
func (m *Menu) Toggle() bool {
	if m.IsOpen() {
		m.Close()
		return false
	}
	m.Open()
	return true
}

// CloseIfOpen closes the menu when it is open, as after following a link
// or pressing escape. It reports whether the menu was closed.
func (m *Menu) CloseIfOpen() bool {
	if !m.IsOpen() {
		return false
	}
	m.Close()
	return true
}

// ScrollTracker turns scroll offsets into the IsScrolled flag.
type ScrollTracker struct {
	store     *state.Store
	threshold int

	mu sync.Mutex
}

// NewScrollTracker returns a tracker. A non-positive threshold uses
// DefaultScrollThreshold.
func NewScrollTracker(store *state.Store, threshold int) *ScrollTracker {
	if threshold <= 0 {
		threshold = DefaultScrollThreshold
	}
	return &ScrollTracker{store: store, threshold: threshold}
}

// Threshold returns the configured offset.
func (t *ScrollTracker) Threshold() int {
	return t.threshold
}

// Observe records a new scroll offset. IsScrolled is published only when
// it changes. It reports the current scrolled state.
func (t *ScrollTracker) Observe(offset int) bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	scrolled := offset > t.threshold
	if scrolled != state.Get(t.store, state.IsScrolled) {
		state.Update(t.store, state.IsScrolled, scrolled)
	}
	return scrolled
}
