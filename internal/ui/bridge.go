package ui

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/five82/vitrine/internal/state"
)

// Subscribe forwards every store change to the returned channel. Sends never
// block the publisher: when the buffer is full the event is dropped, and the
// next delivered event still triggers a full redraw from current state.
func Subscribe(store *state.Store, size int) <-chan state.Event {
	if size <= 0 {
		size = EventBuffer
	}
	ch := make(chan state.Event, size)
	store.ObserveAll(func(ev state.Event) {
		select {
		case ch <- ev:
		default:
		}
	})
	return ch
}

type storeEventMsg state.Event

// waitForEvent blocks until the next store change.
func waitForEvent(ch <-chan state.Event) tea.Cmd {
	if ch == nil {
		return nil
	}
	return func() tea.Msg {
		ev, ok := <-ch
		if !ok {
			return nil
		}
		return storeEventMsg(ev)
	}
}
