// Package ui provides the web viewer server for the taxonomy datasets.
package ui

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/gorilla/sessions"
	"golang.org/x/sync/errgroup"

	"github.com/ldez/name-suggestion-index/internal/dataset"
	"github.com/ldez/name-suggestion-index/internal/ui/notifier"
	"github.com/ldez/name-suggestion-index/internal/ui/router"
)

// Server is the viewer server.
type Server struct {
	catalog      *dataset.Catalog
	sessionStore *sessions.CookieStore
	port         int
	dataDir      string
	watch        bool
	logger       *slog.Logger
	notifier     *notifier.Notifier
}

// Config holds configuration for the viewer server.
type Config struct {
	Catalog       *dataset.Catalog
	Port          int
	DataDir       string
	Watch         bool
	SessionSecret string
	Logger        *slog.Logger
}

// NewServer creates a new viewer server instance.
func NewServer(cfg Config) *Server {
	sessionStore := sessions.NewCookieStore([]byte(cfg.SessionSecret))
	sessionStore.MaxAge(86400 * 30) // 30 days
	sessionStore.Options.Path = "/"
	sessionStore.Options.HttpOnly = true
	sessionStore.Options.SameSite = http.SameSiteLaxMode

	return &Server{
		catalog:      cfg.Catalog,
		sessionStore: sessionStore,
		port:         cfg.Port,
		dataDir:      cfg.DataDir,
		watch:        cfg.Watch && cfg.DataDir != "",
		logger:       cfg.Logger,
		notifier:     notifier.New(),
	}
}

// Serve starts the viewer server and blocks until the context is cancelled.
// The datasets load in the background so the first page can render a
// loading state immediately.
func (s *Server) Serve(ctx context.Context) error {
	addr := fmt.Sprintf(":%d", s.port)
	s.logger.Info("starting viewer server", "addr", fmt.Sprintf("http://localhost:%d", s.port))

	eg, egctx := errgroup.WithContext(ctx)

	r := chi.NewMux()
	r.Use(
		middleware.Logger,
		middleware.Recoverer,
		middleware.Compress(5),
	)

	if err := router.SetupRoutes(r, s.catalog, s.sessionStore, s.notifier, s.logger, s.watch); err != nil {
		return fmt.Errorf("failed to setup routes: %w", err)
	}

	srv := &http.Server{
		Addr:    addr,
		Handler: r,
		BaseContext: func(_ net.Listener) context.Context {
			return egctx
		},
		ReadHeaderTimeout: 10 * time.Second,
	}

	// Kick off the one-shot dataset load
	eg.Go(func() error {
		if err := s.catalog.Load(egctx); err != nil {
			s.logger.Error("dataset load failed", "error", err)
		}
		// Broadcast either way so loading pages settle
		s.notifier.Broadcast(s.catalog.SnapshotID())
		return nil
	})

	// Watch the local data directory if enabled
	if s.watch {
		eg.Go(func() error {
			return s.watchFiles(egctx)
		})
	}

	// Start HTTP server
	eg.Go(func() error {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	})

	// Graceful shutdown
	eg.Go(func() error {
		<-egctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		s.logger.Debug("shutting down viewer server...")
		return srv.Shutdown(shutdownCtx)
	})

	return eg.Wait()
}

// Notifier returns the server's notifier for SSE updates.
func (s *Server) Notifier() *notifier.Notifier {
	return s.notifier
}

// watchFiles watches the local dataset directory and reloads the catalog
// when a JSON file changes.
func (s *Server) watchFiles(ctx context.Context) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer func() { _ = watcher.Close() }()

	if err := watcher.Add(s.dataDir); err != nil {
		s.logger.Error("failed to watch data directory", "dir", s.dataDir, "error", err)
		// Don't fail - continue without watching
		return nil
	}

	// Debounce timer
	var debounceTimer *time.Timer

	for {
		select {
		case <-ctx.Done():
			return nil

		case event := <-watcher.Events:
			if event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			if filepath.Ext(event.Name) != ".json" {
				continue
			}

			// Debounce
			if debounceTimer != nil {
				debounceTimer.Stop()
			}
			debounceTimer = time.AfterFunc(100*time.Millisecond, func() {
				s.logger.Debug("dataset changed, reloading", "file", event.Name)

				if err := s.catalog.Reload(ctx); err != nil {
					s.logger.Error("reload failed", "error", err)
					return
				}
				s.notifier.Broadcast(s.catalog.SnapshotID())
			})

		case err := <-watcher.Errors:
			s.logger.Error("watcher error", "error", err)
		}
	}
}
