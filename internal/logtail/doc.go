// Package logtail reads the tail of the vitrine log and parses its lines
// for the logs view.
//
// Read keeps a ring buffer of maxLines entries, so memory stays bounded by
// the number of lines requested regardless of file size. A missing file
// returns nil, nil.
//
// Parse understands the slog text handler format:
//
//	time=2026-10-19T10:00:00.000Z level=INFO msg="manifest: loaded" count=12
//
// The "component: " prefix of the message is exposed through
// Entry.Component. Lines in any other format are kept verbatim.
package logtail
