// Package router sets up HTTP routes for the viewer server.
package router

import (
	"log/slog"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/sessions"

	"github.com/ldez/name-suggestion-index/internal/dataset"
	"github.com/ldez/name-suggestion-index/internal/ui/features/viewer"
	"github.com/ldez/name-suggestion-index/internal/ui/notifier"
)

// SetupRoutes configures all routes for the viewer server.
func SetupRoutes(
	router chi.Router,
	catalog *dataset.Catalog,
	sessionStore *sessions.CookieStore,
	notify *notifier.Notifier,
	logger *slog.Logger,
	liveReload bool,
) error {
	return viewer.SetupRoutes(router, catalog, sessionStore, notify, logger, liveReload)
}
