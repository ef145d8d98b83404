// Package server exposes the slideshow, gallery manifest, posts feed and
// forms over HTTP, and streams state changes to websocket clients.
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/five82/vitrine/internal/carousel"
	"github.com/five82/vitrine/internal/forms"
	"github.com/five82/vitrine/internal/posts"
	"github.com/five82/vitrine/internal/state"
)

const shutdownTimeout = 5 * time.Second

// Config holds server configuration.
type Config struct {
	Listen   string
	SiteDir  string // static files; empty disables them
	AllowAll bool   // allow all CORS origins
}

// Deps are the components the routes operate on. Slideshow may be nil when
// the manifest is empty.
type Deps struct {
	Store     *state.Store
	Slideshow *carousel.Selection[string]
	Images    []string
	Feed      *posts.Feed
	Submitter forms.Submitter
	Logger    *slog.Logger
}

// Server serves the site API.
type Server struct {
	cfg        Config
	deps       Deps
	hub        *Hub
	logger     *slog.Logger
	router     chi.Router
	httpServer *http.Server
}

// New wires the routes and subscribes the websocket hub to the store.
func New(cfg Config, deps Deps) *Server {
	if deps.Store == nil {
		deps.Store = state.NewStore()
	}
	if deps.Feed == nil {
		deps.Feed = posts.NewFeed(posts.Options{Delay: -1})
	}
	if deps.Submitter == nil {
		deps.Submitter = forms.NewSimulated(-1, -1, nil)
	}
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}

	s := &Server{
		cfg:    cfg,
		deps:   deps,
		hub:    NewHub(logger),
		logger: logger,
	}
	deps.Store.ObserveAll(s.hub.Publish)
	s.router = s.buildRouter()
	return s
}

func (s *Server) buildRouter() chi.Router {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.RequestLogger(&middleware.DefaultLogFormatter{
		Logger:  slog.NewLogLogger(s.logger.Handler(), slog.LevelInfo),
		NoColor: true,
	}))
	r.Use(middleware.Recoverer)

	corsOpts := cors.Options{
		AllowedOrigins: []string{"http://localhost:*", "http://127.0.0.1:*"},
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		MaxAge:         300,
	}
	if s.cfg.AllowAll {
		corsOpts.AllowedOrigins = []string{"*"}
	}
	r.Use(cors.Handler(corsOpts))

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	// Websocket connections outlive the request timeout.
	r.Get("/ws", s.handleWebSocket)

	r.Group(func(r chi.Router) {
		r.Use(middleware.Timeout(60 * time.Second))
		r.Get("/images.json", s.handleImages)
		r.Get("/api/state", s.handleState)
		r.Get("/api/slideshow", s.handleSlideshowStatus)
		r.Post("/api/slideshow/{action}", s.handleSlideshowAction)
		r.Get("/api/posts", s.handlePosts)
		r.Get("/api/forms", s.handleFormList)
		r.Post("/api/forms/{id}", s.handleFormSubmit)
	})

	if s.cfg.SiteDir != "" {
		r.Handle("/*", http.FileServer(http.Dir(s.cfg.SiteDir)))
	}
	return r
}

// Router returns the chi router.
func (s *Server) Router() chi.Router { return s.router }

// Hub returns the websocket hub.
func (s *Server) Hub() *Hub { return s.hub }

// Run listens on the configured address until ctx is cancelled, then shuts
// down gracefully.
func (s *Server) Run(ctx context.Context) error {
	s.httpServer = &http.Server{
		Addr:              s.cfg.Listen,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
		WriteTimeout:      120 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("server: listening", "addr", s.cfg.Listen)
		errCh <- s.httpServer.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("listen %s: %w", s.cfg.Listen, err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return s.Shutdown(shutdownCtx)
}

// Shutdown stops accepting requests and disconnects websocket clients.
func (s *Server) Shutdown(ctx context.Context) error {
	s.hub.Close()
	if s.httpServer != nil {
		if err := s.httpServer.Shutdown(ctx); err != nil {
			return fmt.Errorf("shutdown: %w", err)
		}
	}
	s.logger.Info("server: stopped")
	return nil
}
