package app

import (
	"context"
	"log/slog"
	"time"

	"github.com/five82/vitrine/internal/manifest"
)

const (
	manifestAttempts    = 3
	manifestBackoffBase = 500 * time.Millisecond
	maxBackoff          = 30 * time.Second
)

// calculateBackoff returns the wait before the next attempt after the given
// number of consecutive failures, doubling from base up to maxBackoff.
func calculateBackoff(failures int, base time.Duration) time.Duration {
	if failures <= 0 {
		return base
	}
	wait := base
	for i := 0; i < failures; i++ {
		wait *= 2
		if wait >= maxBackoff {
			return maxBackoff
		}
	}
	return wait
}

// loadManifest fetches the image list. Remote manifests are retried with
// backoff; any final failure is logged and yields no images so the rest of
// the site still runs.
func loadManifest(ctx context.Context, f manifest.Fetcher, source string, logger *slog.Logger) []string {
	remote := manifest.IsURL(source)
	for failures := 0; ; failures++ {
		images, err := f.Fetch(ctx, source)
		if err == nil {
			logger.Info("manifest: loaded", "source", source, "images", len(images))
			return images
		}
		if !remote || failures+1 >= manifestAttempts {
			logger.Warn("manifest: load failed", "source", source, "error", err)
			return nil
		}

		wait := calculateBackoff(failures, manifestBackoffBase)
		logger.Debug("manifest: retrying", "source", source, "error", err, "wait", wait)
		timer := time.NewTimer(wait)
		select {
		case <-ctx.Done():
			timer.Stop()
			logger.Warn("manifest: load cancelled", "source", source)
			return nil
		case <-timer.C:
		}
	}
}
