package viewer

import (
	"log/slog"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/sessions"

	"github.com/ldez/name-suggestion-index/internal/dataset"
	"github.com/ldez/name-suggestion-index/internal/ui/notifier"
)

// SetupRoutes registers the viewer routes on the router.
func SetupRoutes(
	router chi.Router,
	catalog *dataset.Catalog,
	sessionStore sessions.Store,
	notify *notifier.Notifier,
	logger *slog.Logger,
	liveReload bool,
) error {
	handlers := NewHandlers(catalog, sessionStore, notify, logger, liveReload)

	router.Get("/", handlers.ViewerPage)
	router.Get("/updates", handlers.Updates)

	return nil
}
