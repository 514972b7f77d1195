// Package viewer renders the taxonomy viewer: the overview and category
// pages share one route, selected by the presence of the key and value
// parameters after the view state has been synchronized with the URL.
package viewer

import (
	"fmt"
	"log/slog"
	"net/http"

	"github.com/gorilla/sessions"
	"github.com/starfederation/datastar-go/datastar"

	"github.com/ldez/name-suggestion-index/internal/dataset"
	"github.com/ldez/name-suggestion-index/internal/ui/notifier"
	"github.com/ldez/name-suggestion-index/internal/viewstate"
)

// Handlers provides the HTTP handlers for the viewer feature.
type Handlers struct {
	catalog      *dataset.Catalog
	sessionStore sessions.Store
	notifier     *notifier.Notifier
	logger       *slog.Logger
	liveReload   bool
}

// NewHandlers creates a new Handlers instance.
func NewHandlers(
	catalog *dataset.Catalog,
	sessionStore sessions.Store,
	notify *notifier.Notifier,
	logger *slog.Logger,
	liveReload bool,
) *Handlers {
	return &Handlers{
		catalog:      catalog,
		sessionStore: sessionStore,
		notifier:     notify,
		logger:       logger,
		liveReload:   liveReload,
	}
}

// ViewerPage synchronizes the view state with the request URL and renders
// the selected view. A non-canonical URL is answered with a redirect to the
// canonical one, replacing the raw location the way the browser viewer
// replaces its history entry.
func (h *Handlers) ViewerPage(w http.ResponseWriter, r *http.Request) {
	loc := viewstate.Location{Path: r.URL.Path, RawQuery: r.URL.RawQuery}

	m := viewstate.NewMachine(h.catalog)
	m.BeginCycle()
	result := m.SyncFromLocation(loc)
	if result == viewstate.SyncDeferred {
		// An id parameter is waiting for the index; the page retries
		// itself once loading settles.
		h.renderLoading(w)
		return
	}

	nav, navigate := m.SyncToLocation(loc)
	if !navigate && result == viewstate.SyncCommitted {
		// The inbound commit suppressed the outbound pass for this
		// cycle; run the follow-up cycle it scheduled.
		m.BeginCycle()
		nav, navigate = m.SyncToLocation(loc)
	}
	if navigate {
		http.Redirect(w, r, nav.URL(), http.StatusFound)
		return
	}

	if h.catalog.Loading() {
		h.renderLoading(w)
		return
	}

	params := m.Params()
	idx, ok := h.catalog.Index().Get()
	if !ok {
		h.renderFailed(w, r, params)
		return
	}

	etag := `"` + h.catalog.SnapshotID() + `"`
	if r.Header.Get("If-None-Match") == etag {
		w.WriteHeader(http.StatusNotModified)
		return
	}
	w.Header().Set("ETag", etag)

	page := h.newPage(idx, params)

	if params["k"] != "" && params["v"] != "" {
		category := h.buildCategory(idx, params, m.Hash())
		if _, exists := idx.ByPath[category.TKV]; exists {
			h.rememberCategory(w, r, category.TKV)
		}
		page.Title = category.TKV
		page.Category = category
		h.render(w, "category", page)
		return
	}

	page.Title = page.CurrentTree
	page.Overview = h.buildOverview(idx, page.CurrentTree, h.recentCategories(r))
	h.render(w, "overview", page)
}

// Updates is the SSE endpoint pages use to learn about dataset-generation
// changes. The initial loading page passes init=1 so an already settled
// catalog triggers an immediate reload instead of waiting for the next
// broadcast. Rendered pages pass the snapshot they were built from;
// broadcasts carrying that same generation are skipped.
func (h *Handlers) Updates(w http.ResponseWriter, r *http.Request) {
	sse := datastar.NewSSE(w, r)

	updates := h.notifier.Subscribe()
	defer h.notifier.Unsubscribe(updates)

	if r.URL.Query().Get("init") == "1" && !h.catalog.Loading() {
		// Loading settled between render and subscribe.
		_ = sse.ExecuteScript("window.location.reload()")
		return
	}

	current := r.URL.Query().Get("snapshot")
	for {
		select {
		case <-r.Context().Done():
			return
		case id := <-updates:
			if id == current {
				continue
			}
			_ = sse.ExecuteScript("window.location.reload()")
			return
		}
	}
}

// newPage builds the common frame data for a rendered page.
func (h *Handlers) newPage(idx *dataset.NameIndex, params viewstate.Params) Page {
	tree := params["t"]
	if tree == "" {
		tree = viewstate.DefaultTree
	}

	page := Page{
		SnapshotID:  h.catalog.SnapshotID(),
		Trees:       treesOf(idx),
		CurrentTree: tree,
		Params:      params,
		LiveReload:  h.liveReload,
	}
	if version, ok := idx.Meta["version"]; ok {
		page.MetaVersion = fmt.Sprintf("%v", version)
	}

	if h.catalog.Icons().State() == dataset.StateFailed {
		page.Warnings = append(page.Warnings, "The icon table could not be loaded; categories render without icons.")
	}
	if h.catalog.Wikidata().State() == dataset.StateFailed {
		page.Warnings = append(page.Warnings, "The wikidata supplement could not be loaded; descriptions are unavailable.")
	}

	return page
}

func (h *Handlers) renderLoading(w http.ResponseWriter) {
	page := Page{
		Title:       "Loading",
		Trees:       defaultTrees,
		CurrentTree: viewstate.DefaultTree,
	}
	h.render(w, "loading", page)
}

func (h *Handlers) renderFailed(w http.ResponseWriter, _ *http.Request, params viewstate.Params) {
	tree := params["t"]
	if tree == "" {
		tree = viewstate.DefaultTree
	}
	page := Page{
		Title:       "Unavailable",
		Trees:       defaultTrees,
		CurrentTree: tree,
		Warnings:    []string{fmt.Sprintf("Loading the taxonomy index failed: %v", h.catalog.Index().Err())},
	}
	w.WriteHeader(http.StatusServiceUnavailable)
	h.render(w, "failed", page)
}

func (h *Handlers) render(w http.ResponseWriter, name string, page Page) {
	if err := renderPage(w, name, page); err != nil {
		h.logger.Error("rendering page failed", "page", name, "error", err)
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}
