package ui

import "time"

// Terminal width thresholds for responsive layouts.
const (
	// LayoutCompactWidth is the threshold below which compact mode is used.
	LayoutCompactWidth = 90

	// MenuWidth is the width of the side menu panel.
	MenuWidth = 24

	// GalleryCellWidth is the width of one gallery grid cell.
	GalleryCellWidth = 26
)

// Log display limits.
const (
	// LogTailLines is how many lines of the log file the logs view reads.
	LogTailLines = 500
)

// Timing constants.
const (
	// DefaultUIInterval is the default UI refresh interval.
	DefaultUIInterval = time.Second

	// EventBuffer is the capacity of the store event channel.
	EventBuffer = 64

	// HashtagNoticeDuration is how long hashtag search results stay visible.
	HashtagNoticeDuration = 3 * time.Second

	// CopyFeedbackDuration is how long the "copied" confirmation stays up.
	CopyFeedbackDuration = 2 * time.Second
)
