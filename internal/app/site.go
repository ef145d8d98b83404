package app

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/five82/vitrine/internal/carousel"
	"github.com/five82/vitrine/internal/config"
	"github.com/five82/vitrine/internal/forms"
	"github.com/five82/vitrine/internal/gallery"
	"github.com/five82/vitrine/internal/posts"
	"github.com/five82/vitrine/internal/state"
)

// Site is the set of components shared by the terminal UI and the server.
// Slideshow and Gallery are nil when there are no images.
type Site struct {
	Store     *state.Store
	Images    []string
	Slideshow *carousel.Selection[string]
	Gallery   *gallery.Modal
	Feed      *posts.Feed
	Submitter forms.Submitter
}

// SiteOptions tune NewSite for the frontend that will drive it.
type SiteOptions struct {
	// SwipeThreshold is in pixels for the server and cells for the TUI.
	SwipeThreshold float64
	// Autoplay starts the slideshow playing. The timer runs either way so
	// a later resume keeps the same cadence.
	Autoplay bool
	// FeedDelay is the simulated page load time; negative disables it.
	FeedDelay time.Duration
}

// NewSite builds every component over one store.
func NewSite(ctx context.Context, cfg config.Config, images []string, opts SiteOptions, logger *slog.Logger) (*Site, error) {
	if logger == nil {
		logger = slog.Default()
	}
	site := &Site{
		Store:  state.NewStore(),
		Images: append([]string(nil), images...),
		Feed: posts.NewFeed(posts.Options{
			Delay:  opts.FeedDelay,
			Images: images,
		}),
		Submitter: forms.NewSimulated(cfg.SubmitDelay, cfg.SubmitFailureRate, nil),
	}

	if len(images) == 0 {
		logger.Warn("site: no images, slideshow and gallery disabled")
		return site, nil
	}

	slideshow, err := carousel.New(images, carousel.Options{
		Interval:       cfg.SlideInterval,
		SwipeThreshold: opts.SwipeThreshold,
		Store:          site.Store,
		Key:            state.CurrentSlide,
		Autoplay:       true,
		Context:        ctx,
		OnChange: func(prev, next int) {
			logger.Debug("slideshow: slide changed", "from", prev, "to", next)
		},
	})
	if err != nil {
		return nil, err
	}
	if !opts.Autoplay {
		slideshow.Pause()
	}
	site.Slideshow = slideshow

	modal, err := gallery.New(gallery.PhotosFromManifest(images), site.Store, gallery.Options{
		SwipeThreshold: opts.SwipeThreshold,
		OnShow: func(index int, photo gallery.Photo) {
			logger.Debug("gallery: showing photo", "index", index, "src", photo.Src)
		},
	})
	if err != nil && !errors.Is(err, carousel.ErrNoItems) {
		slideshow.Stop()
		return nil, err
	}
	site.Gallery = modal
	return site, nil
}

// Close stops the slideshow timer.
func (s *Site) Close() {
	if s.Slideshow != nil {
		s.Slideshow.Stop()
	}
}
