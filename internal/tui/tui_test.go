package tui

import (
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ldez/name-suggestion-index/internal/dataset"
)

const indexBody = `{
	"_meta": {"version": "6.0"},
	"nsi": {
		"brands/amenity/cafe": {"items": [
			{"id": "a1", "displayName": "Foo Coffee", "tags": {"amenity": "cafe"}}
		]},
		"flags/man_made/flagpole": {"items": [
			{"id": "f1", "displayName": "Some Flag", "tags": {"man_made": "flagpole"}}
		]}
	}
}`

func testCatalog(t *testing.T) *dataset.Catalog {
	t.Helper()

	mux := http.NewServeMux()
	mux.HandleFunc("/nsi.min.json", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(indexBody))
	})
	mux.HandleFunc("/wikidata.min.json", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"wikidata": {}}`))
	})
	mux.HandleFunc("/taginfo.json", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"tags": []}`))
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)

	refs := dataset.Refs{
		Index:    srv.URL + "/nsi.min.json",
		Wikidata: srv.URL + "/wikidata.min.json",
		Taginfo:  srv.URL + "/taginfo.json",
	}
	return dataset.NewCatalog(dataset.NewHTTPSource(), refs, slog.New(slog.DiscardHandler))
}

// loaded drives the model through the background load synchronously.
func loaded(t *testing.T, m Model) Model {
	t.Helper()

	msg := m.load()
	lm, ok := msg.(loadedMsg)
	require.True(t, ok)
	require.NoError(t, lm.err)

	next, _ := m.Update(lm)
	return next.(Model)
}

func key(s string) tea.KeyMsg {
	switch s {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	case "up":
		return tea.KeyMsg{Type: tea.KeyUp}
	default:
		return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
	}
}

func press(m Model, keys ...string) Model {
	for _, k := range keys {
		next, _ := m.Update(key(k))
		m = next.(Model)
	}
	return m
}

func TestModel_LoadingView(t *testing.T) {
	m := NewModel(testCatalog(t))
	assert.Contains(t, m.View(), "Loading datasets")
}

func TestModel_ListsTreesAfterLoad(t *testing.T) {
	m := loaded(t, NewModel(testCatalog(t)))

	view := m.View()
	assert.Contains(t, view, "brands")
	assert.Contains(t, view, "flags")
}

func TestModel_DrillDownToItems(t *testing.T) {
	m := loaded(t, NewModel(testCatalog(t)))

	// trees are sorted, so "brands" is first
	m = press(m, "enter")
	assert.Equal(t, levelCategories, m.level)
	assert.Contains(t, m.View(), "amenity/cafe")

	m = press(m, "enter")
	assert.Equal(t, levelItems, m.level)
	view := m.View()
	assert.Contains(t, view, "Foo Coffee")
	assert.Contains(t, view, "amenity=cafe")
	assert.Contains(t, view, "brands/amenity/cafe")
}

func TestModel_DrillUpRestoresSelection(t *testing.T) {
	m := loaded(t, NewModel(testCatalog(t)))

	m = press(m, "down", "enter") // into "flags"
	assert.Equal(t, "flags", m.tree)

	m = press(m, "esc")
	assert.Equal(t, levelTrees, m.level)
	assert.Equal(t, 1, m.cursor)
}

func TestModel_CursorBounds(t *testing.T) {
	m := loaded(t, NewModel(testCatalog(t)))

	m = press(m, "up")
	assert.Equal(t, 0, m.cursor)

	m = press(m, "down", "down", "down")
	assert.Equal(t, 1, m.cursor)
}

func TestModel_QuitKeys(t *testing.T) {
	m := loaded(t, NewModel(testCatalog(t)))

	for _, k := range []string{"q", "ctrl+c"} {
		msg := key(k)
		if k == "ctrl+c" {
			msg = tea.KeyMsg{Type: tea.KeyCtrlC}
		}
		_, cmd := m.Update(msg)
		require.NotNil(t, cmd, "key %q should quit", k)
		assert.Equal(t, tea.Quit(), cmd())
	}
}

func TestModel_LoadFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "nope", http.StatusBadGateway)
	}))
	t.Cleanup(srv.Close)

	refs := dataset.Refs{
		Index:    srv.URL + "/nsi.min.json",
		Wikidata: srv.URL + "/wikidata.min.json",
		Taginfo:  srv.URL + "/taginfo.json",
	}
	catalog := dataset.NewCatalog(dataset.NewHTTPSource(), refs, slog.New(slog.DiscardHandler))

	m := NewModel(catalog)
	msg := m.load()
	lm, ok := msg.(loadedMsg)
	require.True(t, ok)
	require.Error(t, lm.err)

	next, _ := m.Update(lm)
	m = next.(Model)

	view := m.View()
	assert.Contains(t, view, "Loading failed")
	assert.False(t, strings.Contains(view, "Loading datasets"))
}
