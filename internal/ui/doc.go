// Package ui provides the vitrine terminal interface, built on Bubble Tea.
//
// # Views
//
//   - Slideshow: the rotating hero images, advanced by the carousel timer,
//     arrow keys or a horizontal mouse drag
//   - Gallery: a grid of every photo; enter opens the full-screen viewer
//   - Posts: the paged community feed with category and hashtag filters;
//     enter opens the selected post in a detail overlay
//   - Contact: the contact, suggestion and volunteer forms, plus the PIX
//     donation key (p copies it)
//   - Logs: a tail of vitrine's own log file, filtered by level
//
// # Event Flow
//
// Components never talk to the UI directly. Every state change goes through
// state.Store; Subscribe forwards those changes to a buffered channel and
// the model re-arms waitForEvent after each one, so timer-driven slide
// changes redraw the screen without the carousel knowing about Bubble Tea.
//
// # Key Bindings
//
//   - 1-5 or Tab: switch views
//   - m: toggle the side menu
//   - ←/→ or h/l: previous/next slide or photo
//   - space: play/pause the slideshow (persisted to prefs.toml)
//   - esc: close the menu or photo viewer
//   - T: cycle theme (persisted to prefs.toml)
//   - ?: help
//   - q or Ctrl+C: exit
package ui
