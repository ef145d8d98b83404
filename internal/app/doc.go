// Package app is the composition root for vitrine.
//
// It loads configuration and preferences, fetches the image manifest, and
// builds one Site (store, slideshow, gallery, posts feed, form submitter)
// that either the terminal UI or the web server then drives.
//
//	Run()   config -> prefs -> log file -> manifest -> Site -> ui.Run
//	Serve() config -> stderr log -> manifest -> Site -> server.Run
//
// A manifest that cannot be loaded is not fatal: the site starts with no
// images and the slideshow and gallery are disabled. Remote manifests are
// retried with exponential backoff first.
package app
