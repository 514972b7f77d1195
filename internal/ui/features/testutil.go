// Package features provides shared test utilities for UI feature tests.
package features

import (
	"context"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/sessions"
	"github.com/stretchr/testify/require"

	"github.com/ldez/name-suggestion-index/internal/dataset"
	"github.com/ldez/name-suggestion-index/internal/ui/notifier"
)

// Default dataset bodies used by the fixtures. The single item a1 lives in
// brands/amenity/cafe.
const (
	TestIndexBody = `{
		"_meta": {"version": "6.0"},
		"nsi": {
			"brands/amenity/cafe": {"items": [
				{"id": "a1", "displayName": "Foo Coffee", "tags": {"amenity": "cafe", "brand:wikidata": "Q1"}}
			]},
			"brands/shop/bakery": {"items": [
				{"id": "b1", "displayName": "Bar Bread", "tags": {"shop": "bakery"}}
			]}
		}
	}`
	TestWikidataBody = `{"wikidata": {"Q1": {"label": "Foo", "description": "coffee chain"}}}`
	TestTaginfoBody  = `{"tags": [{"key": "amenity", "value": "cafe", "icon_url": "https://icons.test/cafe.svg"}]}`
)

// TestFixture holds the dependencies feature handler tests need.
type TestFixture struct {
	Catalog      *dataset.Catalog
	SessionStore *sessions.CookieStore
	Notifier     *notifier.Notifier
	Logger       *slog.Logger
}

func newFixture(catalog *dataset.Catalog) *TestFixture {
	return &TestFixture{
		Catalog:      catalog,
		SessionStore: sessions.NewCookieStore([]byte("test-secret")),
		Notifier:     notifier.New(),
		Logger:       slog.New(slog.DiscardHandler),
	}
}

func serveDatasets(t *testing.T, index, wikidata, taginfo string) dataset.Refs {
	t.Helper()

	mux := http.NewServeMux()
	mux.HandleFunc("/nsi.min.json", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(index))
	})
	mux.HandleFunc("/wikidata.min.json", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(wikidata))
	})
	mux.HandleFunc("/taginfo.json", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(taginfo))
	})

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)

	return dataset.Refs{
		Index:    srv.URL + "/nsi.min.json",
		Wikidata: srv.URL + "/wikidata.min.json",
		Taginfo:  srv.URL + "/taginfo.json",
	}
}

// SetupTestFixture builds a fixture whose catalog has loaded the default
// datasets.
func SetupTestFixture(t *testing.T) *TestFixture {
	t.Helper()

	refs := serveDatasets(t, TestIndexBody, TestWikidataBody, TestTaginfoBody)
	catalog := dataset.NewCatalog(dataset.NewHTTPSource(), refs, slog.New(slog.DiscardHandler))
	require.NoError(t, catalog.Load(context.Background()))

	return newFixture(catalog)
}

// SetupPendingFixture builds a fixture whose catalog never finishes
// loading: every dataset stays pending.
func SetupPendingFixture(t *testing.T) *TestFixture {
	t.Helper()
	return newFixture(dataset.NewCatalog(blockedSource{}, dataset.DefaultRefs(), slog.New(slog.DiscardHandler)))
}

// SetupFailedFixture builds a fixture whose catalog failed to load all
// three datasets.
func SetupFailedFixture(t *testing.T) *TestFixture {
	t.Helper()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "unavailable", http.StatusBadGateway)
	}))
	t.Cleanup(srv.Close)

	refs := dataset.Refs{
		Index:    srv.URL + "/nsi.min.json",
		Wikidata: srv.URL + "/wikidata.min.json",
		Taginfo:  srv.URL + "/taginfo.json",
	}
	catalog := dataset.NewCatalog(dataset.NewHTTPSource(), refs, slog.New(slog.DiscardHandler))
	require.Error(t, catalog.Load(context.Background()))

	return newFixture(catalog)
}

// SetupDegradedFixture builds a fixture whose catalog loaded the index and
// wikidata datasets but failed the taginfo fetch.
func SetupDegradedFixture(t *testing.T) *TestFixture {
	t.Helper()

	mux := http.NewServeMux()
	mux.HandleFunc("/nsi.min.json", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(TestIndexBody))
	})
	mux.HandleFunc("/wikidata.min.json", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(TestWikidataBody))
	})
	mux.HandleFunc("/taginfo.json", func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "unavailable", http.StatusBadGateway)
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)

	refs := dataset.Refs{
		Index:    srv.URL + "/nsi.min.json",
		Wikidata: srv.URL + "/wikidata.min.json",
		Taginfo:  srv.URL + "/taginfo.json",
	}
	catalog := dataset.NewCatalog(dataset.NewHTTPSource(), refs, slog.New(slog.DiscardHandler))
	require.Error(t, catalog.Load(context.Background()))

	return newFixture(catalog)
}

// blockedSource never completes a fetch. Combined with a catalog that is
// never loaded, it models the pending state without goroutines.
type blockedSource struct{}

func (blockedSource) Fetch(ctx context.Context, _ string) ([]byte, error) {
	<-ctx.Done()
	return nil, ctx.Err()
}
