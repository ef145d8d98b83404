// Package state provides the observable key/value store shared by the site
// components.
//
// # Overview
//
// The Store holds a handful of UI flags (current slide, menu and modal
// visibility, current modal image, scrolled header) and broadcasts every
// change to the observers registered for that key. Producers (the
// slideshow, the gallery modal, the menu) call Update; consumers (the
// terminal UI, the websocket hub, tests) register with Observe or
// ObserveAll.
//
//	Producers:                      Consumers:
//	┌──────────────────┐           ┌───────────────────────┐
//	│ carousel.GoTo()  │           │ Observe(CurrentSlide) │
//	│ gallery.Open()   │──Update──→│ Observe(IsModalOpen)  │
//	│ nav.Menu.Toggle()│           │ ObserveAll(...)       │
//	└──────────────────┘           └───────────────────────┘
//
// # Keys
//
// Keys are typed and declared here only:
//
//	state.CurrentSlide      Key[int]
//	state.IsMenuOpen        Key[bool]
//	state.IsModalOpen       Key[bool]
//	state.CurrentModalImage Key[int]
//	state.IsScrolled        Key[bool]
//
// Because Key has no exported fields, other packages cannot mint new keys,
// and the value type is checked at compile time. The zero Key is the only
// way to reach an undeclared key; using it panics.
//
// # Notification Semantics
//
//   - Update notifies synchronously, before it returns.
//   - Observers of one key run in registration order, each receiving the
//     old and new value. ObserveAll observers run afterwards.
//   - There is no unsubscribe; subscriptions last for the store's lifetime.
//   - Updating a key with no observers is a plain assignment.
//
// # Concurrency Model
//
// The store is guarded by a sync.RWMutex. The lock is released before
// observers run, so an observer may call Get or Update. Ordering is only
// guaranteed for updates issued from one goroutine; the carousel serializes
// its own publishes under its lock.
//
// # Usage Example
//
//	store := state.NewStore()
//	state.Observe(store, state.CurrentSlide, func(c state.Change[int]) {
//		log.Printf("slide %d -> %d", c.Old, c.New)
//	})
//	state.Update(store, state.CurrentSlide, 2)
//
// # Testing Considerations
//
// The zero value is ready to use, so tests can declare `var s state.Store`
// and build as many isolated stores as they need.
package state
