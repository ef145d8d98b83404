// Package config loads the vitrine configuration file.
//
// # Configuration Discovery
//
// Load follows this resolution order:
//
//  1. If a path is explicitly provided, use it
//  2. Otherwise, use ~/.config/vitrine/config.toml
//  3. If the file doesn't exist, return Default()
//  4. Fields that are missing or blank keep their defaults
//
// # Default Values
//
//   - site_dir: current directory
//   - manifest: <site_dir>/images.json
//   - slide_interval: 5s
//   - swipe_threshold: 50 (pixels, web clients)
//   - drag_threshold: 6 (terminal cells)
//   - scroll_threshold: 3 (lines)
//   - listen: 127.0.0.1:8080
//   - log_dir: ~/.local/share/vitrine/logs
//   - log_level: info
//   - submit_delay: 2s
//   - submit_failure_rate: 0.1
//
// # TOML Format
//
//	site_dir = "~/sites/quilombo"
//	manifest = "https://example.org/images.json"
//	slide_interval = "8s"
//	log_level = "debug"
//	submit_failure_rate = 0
//
// Durations use Go duration syntax. Paths get tilde expansion and are made
// absolute; an http(s) manifest is used as a URL.
//
// # Error Handling
//
// A missing file is not an error. Unreadable files, invalid TOML, bad
// durations and out-of-range values are. Command-line flags are applied by
// the caller after Load returns.
package config
