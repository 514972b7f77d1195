package dataset

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	testIndexBody = `{
		"_meta": {"version": "6.0"},
		"nsi": {
			"brands/amenity/cafe": {"items": [
				{"id": "a1", "displayName": "Foo", "tags": {"amenity": "cafe"}}
			]}
		}
	}`
	testWikidataBody = `{"wikidata": {"Q1": {"label": "Foo"}}}`
	testTaginfoBody  = `{"tags": [{"key": "amenity", "value": "cafe", "icon_url": "u1"}]}`
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()

	mux := http.NewServeMux()
	mux.HandleFunc("/nsi.min.json", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(testIndexBody))
	})
	mux.HandleFunc("/wikidata.min.json", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(testWikidataBody))
	})
	mux.HandleFunc("/taginfo.json", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(testTaginfoBody))
	})

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func testRefs(base string) Refs {
	return Refs{
		Index:    base + "/nsi.min.json",
		Wikidata: base + "/wikidata.min.json",
		Taginfo:  base + "/taginfo.json",
	}
}

func TestCatalog_Load(t *testing.T) {
	srv := newTestServer(t)
	c := NewCatalog(NewHTTPSource(), testRefs(srv.URL), discardLogger())

	assert.True(t, c.Loading())
	require.NoError(t, c.Load(context.Background()))
	assert.False(t, c.Loading())
	assert.True(t, c.Ready())

	tkv, ok := c.Resolve("a1")
	require.True(t, ok)
	assert.Equal(t, "brands/amenity/cafe", tkv)

	icon, ok := c.Icon("amenity", "cafe")
	require.True(t, ok)
	assert.Equal(t, "u1", icon)

	blob, ok := c.Wikidata().Get()
	require.True(t, ok)
	assert.Contains(t, blob, "wikidata")

	assert.NotEmpty(t, c.SnapshotID())
}

func TestCatalog_LoadFailureIsObservable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "nope", http.StatusInternalServerError)
	}))
	t.Cleanup(srv.Close)

	c := NewCatalog(NewHTTPSource(), testRefs(srv.URL), discardLogger())
	err := c.Load(context.Background())
	require.Error(t, err)

	// Failure is a terminal observable state, not an endless pending flag.
	assert.False(t, c.Loading())
	assert.False(t, c.Ready())
	assert.Equal(t, StateFailed, c.Index().State())
	assert.Error(t, c.Index().Err())
}

func TestCatalog_PartialFailureLeavesSiblingsIntact(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/nsi.min.json", func(w http.ResponseWriter, _ *http.Request) {
		// Still in flight when taginfo has already failed.
		time.Sleep(300 * time.Millisecond)
		_, _ = w.Write([]byte(testIndexBody))
	})
	mux.HandleFunc("/wikidata.min.json", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(testWikidataBody))
	})
	mux.HandleFunc("/taginfo.json", func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "bad gateway", http.StatusBadGateway)
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)

	c := NewCatalog(NewHTTPSource(), testRefs(srv.URL), discardLogger())
	err := c.Load(context.Background())
	require.Error(t, err)

	// The taginfo failure stays confined to the icon resource.
	assert.Equal(t, StateFailed, c.Icons().State())
	assert.Equal(t, StateReady, c.Index().State())
	assert.Equal(t, StateReady, c.Wikidata().State())

	tkv, ok := c.Resolve("a1")
	require.True(t, ok)
	assert.Equal(t, "brands/amenity/cafe", tkv)
}

func TestCatalog_LoadOnce(t *testing.T) {
	srv := newTestServer(t)
	c := NewCatalog(NewHTTPSource(), testRefs(srv.URL), discardLogger())

	require.NoError(t, c.Load(context.Background()))
	first := c.SnapshotID()

	// A second Load is a no-op; the snapshot generation is unchanged.
	require.NoError(t, c.Load(context.Background()))
	assert.Equal(t, first, c.SnapshotID())
}

func TestCatalog_FileSourceAndReload(t *testing.T) {
	dir := t.TempDir()
	write := func(name, body string) {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(body), 0o600))
	}
	write("nsi.min.json", testIndexBody)
	write("wikidata.min.json", testWikidataBody)
	write("taginfo.json", testTaginfoBody)

	c := NewCatalog(NewFileSource(dir), DefaultRefs(), discardLogger())
	require.NoError(t, c.Load(context.Background()))
	first := c.SnapshotID()

	_, ok := c.Resolve("a1")
	require.True(t, ok)

	// Edit the dataset on disk, then reload a fresh generation.
	write("nsi.min.json", `{"nsi": {"brands/shop/bakery": {"items": [{"id": "b1"}]}}}`)
	require.NoError(t, c.Reload(context.Background()))

	assert.NotEqual(t, first, c.SnapshotID())
	_, ok = c.Resolve("a1")
	assert.False(t, ok)
	tkv, ok := c.Resolve("b1")
	require.True(t, ok)
	assert.Equal(t, "brands/shop/bakery", tkv)
}

func TestCatalog_ReloadKeepsOldSnapshotOnFailure(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "nsi.min.json"), []byte(testIndexBody), 0o600))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "wikidata.min.json"), []byte(testWikidataBody), 0o600))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "taginfo.json"), []byte(testTaginfoBody), 0o600))

	c := NewCatalog(NewFileSource(dir), DefaultRefs(), discardLogger())
	require.NoError(t, c.Load(context.Background()))
	first := c.SnapshotID()

	require.NoError(t, os.Remove(filepath.Join(dir, "taginfo.json")))
	require.Error(t, c.Reload(context.Background()))

	// The previous generation stays in place.
	assert.Equal(t, first, c.SnapshotID())
	assert.True(t, c.Ready())
}

func TestSplitTKV(t *testing.T) {
	tests := []struct {
		tkv   string
		tree  string
		key   string
		value string
	}{
		{"brands/amenity/cafe", "brands", "amenity", "cafe"},
		{"brands/amenity", "brands", "amenity", ""},
		{"flags", "flags", "", ""},
		{"brands/amenity/cafe/extra", "brands", "amenity", "cafe/extra"},
	}

	for _, tt := range tests {
		t.Run(tt.tkv, func(t *testing.T) {
			tree, key, value := SplitTKV(tt.tkv)
			assert.Equal(t, tt.tree, tree)
			assert.Equal(t, tt.key, key)
			assert.Equal(t, tt.value, value)
		})
	}
}
