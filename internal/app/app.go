package app

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/five82/vitrine/internal/config"
	"github.com/five82/vitrine/internal/logging"
	"github.com/five82/vitrine/internal/manifest"
	"github.com/five82/vitrine/internal/prefs"
	"github.com/five82/vitrine/internal/server"
	"github.com/five82/vitrine/internal/ui"
)

// Options configure the terminal UI.
type Options struct {
	ConfigPath string
	PrefsPath  string // empty uses default ~/.config/vitrine/prefs.toml
	Manifest   string // overrides the configured manifest
}

// Run boots the vitrine TUI until the user quits or the context is
// cancelled. Logs go to the configured log file so they do not corrupt the
// screen.
func Run(ctx context.Context, opts Options) error {
	cfg, err := loadConfig(opts.ConfigPath, opts.Manifest, "")
	if err != nil {
		return err
	}

	userPrefs, _ := prefs.Load(opts.PrefsPath)

	logger, closer, err := logging.ToFile(cfg.LogPath(), cfg.LogLevel)
	if err != nil {
		return fmt.Errorf("open log: %w", err)
	}
	defer func() { _ = closer.Close() }()
	logger.Info("app: starting", "manifest", cfg.Manifest, "theme", userPrefs.Theme, "autoplay", userPrefs.Autoplay)

	images := loadManifest(ctx, manifest.NewClient(), cfg.Manifest, logger)

	site, err := NewSite(ctx, cfg, images, SiteOptions{
		SwipeThreshold: float64(cfg.DragThreshold),
		Autoplay:       userPrefs.Autoplay,
	}, logger)
	if err != nil {
		return fmt.Errorf("build site: %w", err)
	}
	defer site.Close()

	err = ui.Run(ui.Options{
		Context:   ctx,
		Store:     site.Store,
		Config:    &cfg,
		Slideshow: site.Slideshow,
		Gallery:   site.Gallery,
		Feed:      site.Feed,
		Submitter: site.Submitter,
		Events:    ui.Subscribe(site.Store, ui.EventBuffer),
		ThemeName: userPrefs.Theme,
		PrefsPath: opts.PrefsPath,
		Autoplay:  userPrefs.Autoplay,
		Logger:    logger,
	})
	logger.Info("app: stopped", "error", err)
	return err
}

// ServeOptions configure the web server. Empty fields fall back to the
// config file.
type ServeOptions struct {
	ConfigPath string
	Manifest   string
	Listen     string
	SiteDir    string
	AllowAll   bool
}

// Serve runs the HTTP and websocket server until the context is cancelled.
func Serve(ctx context.Context, opts ServeOptions) error {
	cfg, err := loadConfig(opts.ConfigPath, opts.Manifest, opts.SiteDir)
	if err != nil {
		return err
	}
	if listen := strings.TrimSpace(opts.Listen); listen != "" {
		cfg.Listen = listen
	}

	logger, err := logging.New(os.Stderr, cfg.LogLevel)
	if err != nil {
		return err
	}

	images := loadManifest(ctx, manifest.NewClient(), cfg.Manifest, logger)

	site, err := NewSite(ctx, cfg, images, SiteOptions{
		SwipeThreshold: cfg.SwipeThreshold,
		Autoplay:       true,
		FeedDelay:      -1,
	}, logger)
	if err != nil {
		return fmt.Errorf("build site: %w", err)
	}
	defer site.Close()

	srv := server.New(server.Config{
		Listen:   cfg.Listen,
		SiteDir:  cfg.SiteDir,
		AllowAll: opts.AllowAll,
	}, server.Deps{
		Store:     site.Store,
		Slideshow: site.Slideshow,
		Images:    site.Images,
		Feed:      site.Feed,
		Submitter: site.Submitter,
		Logger:    logger,
	})

	logger.Info("server: listening", "addr", cfg.Listen, "site_dir", cfg.SiteDir, "images", len(images))
	return srv.Run(ctx)
}

// ManifestOptions configure GenerateManifest.
type ManifestOptions struct {
	Dir       string
	Output    string // empty writes <Dir>/images.json
	Prefix    string
	Recursive bool
}

// GenerateManifest scans a directory for images and writes images.json. It
// returns the output path and the number of images listed.
func GenerateManifest(opts ManifestOptions) (string, int, error) {
	dir, err := config.ExpandPath(opts.Dir)
	if err != nil {
		return "", 0, fmt.Errorf("image dir: %w", err)
	}
	images, err := manifest.Generate(dir, manifest.GenerateOptions{
		Prefix:    opts.Prefix,
		Recursive: opts.Recursive,
	})
	if err != nil {
		return "", 0, err
	}

	out := filepath.Join(dir, "images.json")
	if strings.TrimSpace(opts.Output) != "" {
		if out, err = config.ExpandPath(opts.Output); err != nil {
			return "", 0, fmt.Errorf("output: %w", err)
		}
	}
	if err := manifest.Write(out, images); err != nil {
		return "", 0, err
	}
	return out, len(images), nil
}

// loadConfig reads the config file and applies command-line overrides. A
// site directory override also moves the default manifest with it.
func loadConfig(path, manifestOverride, siteDir string) (config.Config, error) {
	cfg, err := config.Load(path)
	if err != nil {
		return config.Config{}, fmt.Errorf("load config: %w", err)
	}
	if strings.TrimSpace(siteDir) != "" {
		dir, err := config.ExpandPath(siteDir)
		if err != nil {
			return config.Config{}, fmt.Errorf("site dir: %w", err)
		}
		cfg.SiteDir = dir
		cfg.Manifest = filepath.Join(dir, "images.json")
	}
	if strings.TrimSpace(manifestOverride) != "" {
		cfg.Manifest = config.ResolveManifest(manifestOverride)
	}
	return cfg, nil
}
