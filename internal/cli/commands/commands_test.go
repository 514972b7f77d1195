package commands

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ldez/name-suggestion-index/internal/cli/config"
)

const testIndexBody = `{
	"_meta": {"version": "6.0"},
	"nsi": {
		"brands/amenity/cafe": {"items": [
			{"id": "a1", "displayName": "Foo Coffee", "tags": {"amenity": "cafe", "brand:wikidata": "Q1"}}
		]},
		"brands/shop/bakery": {"items": [
			{"id": "b1", "displayName": "Bar Bread", "tags": {"shop": "bakery"}}
		]},
		"flags/man_made/flagpole": {"items": [
			{"id": "f1", "displayName": "Some Flag", "tags": {"man_made": "flagpole"}}
		]}
	}
}`

// setupDatasetEnv serves fixture datasets and points the env-var config
// fallback at them.
func setupDatasetEnv(t *testing.T) {
	t.Helper()
	config.ResetConfig()

	mux := http.NewServeMux()
	mux.HandleFunc("/nsi.min.json", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(testIndexBody))
	})
	mux.HandleFunc("/wikidata.min.json", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"wikidata": {"Q1": {"description": "coffee chain"}}}`))
	})
	mux.HandleFunc("/taginfo.json", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"tags": [{"key": "amenity", "value": "cafe", "icon_url": "https://icons.test/cafe.svg"}]}`))
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)

	t.Setenv("NSI_INDEX_URL", srv.URL+"/nsi.min.json")
	t.Setenv("NSI_WIKIDATA_URL", srv.URL+"/wikidata.min.json")
	t.Setenv("NSI_TAGINFO_URL", srv.URL+"/taginfo.json")
}

func execute(t *testing.T, cmd *cobra.Command, args ...string) (string, error) {
	t.Helper()
	buf := new(bytes.Buffer)
	cmd.SetOut(buf)
	cmd.SetErr(buf)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return buf.String(), err
}

func TestListCommand_JSON(t *testing.T) {
	setupDatasetEnv(t)
	t.Setenv("NSI_OUTPUT", "json")

	out, err := execute(t, NewListCommand())
	require.NoError(t, err)

	var result ListOutput
	require.NoError(t, json.Unmarshal([]byte(out), &result))

	assert.Equal(t, 3, result.Summary.Categories)
	assert.Equal(t, 3, result.Summary.Items)
	assert.Equal(t, 2, result.Summary.ByTree["brands"])
	assert.Equal(t, 1, result.Summary.ByTree["flags"])

	// Collation order puts amenity/cafe first.
	require.NotEmpty(t, result.Categories)
	assert.Equal(t, "brands/amenity/cafe", result.Categories[0].Path)
	assert.Equal(t, "https://icons.test/cafe.svg", result.Categories[0].Icon)
}

func TestListCommand_TreeFilter(t *testing.T) {
	setupDatasetEnv(t)
	t.Setenv("NSI_OUTPUT", "json")

	out, err := execute(t, NewListCommand(), "--tree", "flags")
	require.NoError(t, err)

	var result ListOutput
	require.NoError(t, json.Unmarshal([]byte(out), &result))

	require.Len(t, result.Categories, 1)
	assert.Equal(t, "flags/man_made/flagpole", result.Categories[0].Path)
}

func TestListCommand_Markdown(t *testing.T) {
	setupDatasetEnv(t)
	t.Setenv("NSI_OUTPUT", "markdown")

	out, err := execute(t, NewListCommand(), "--tree", "brands", "--key", "amenity")
	require.NoError(t, err)

	assert.Contains(t, out, "# Categories (1 total)")
	assert.Contains(t, out, "## brands")
	assert.Contains(t, out, "`amenity/cafe` (1 items)")
}

func TestLookupCommand_JSON(t *testing.T) {
	setupDatasetEnv(t)
	t.Setenv("NSI_OUTPUT", "json")

	out, err := execute(t, NewLookupCommand(), "a1")
	require.NoError(t, err)

	var result LookupOutput
	require.NoError(t, json.Unmarshal([]byte(out), &result))

	assert.Equal(t, "Foo Coffee", result.DisplayName)
	assert.Equal(t, "brands/amenity/cafe", result.Path)
	assert.Equal(t, "Q1", result.Wikidata)
	assert.Equal(t, "/?t=brands&k=amenity&v=cafe#a1", result.URL)
}

func TestLookupCommand_UnknownID(t *testing.T) {
	setupDatasetEnv(t)
	t.Setenv("NSI_OUTPUT", "json")

	_, err := execute(t, NewLookupCommand(), "does-not-exist")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "does-not-exist")
}

func TestLookupCommand_Markdown(t *testing.T) {
	setupDatasetEnv(t)
	t.Setenv("NSI_OUTPUT", "markdown")

	out, err := execute(t, NewLookupCommand(), "b1")
	require.NoError(t, err)

	assert.Contains(t, out, "# Bar Bread")
	assert.Contains(t, out, "**Category**: brands/shop/bakery")
	assert.Contains(t, out, "`shop=bakery`")
}

func TestListCommand_FetchFailure(t *testing.T) {
	config.ResetConfig()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "nope", http.StatusBadGateway)
	}))
	t.Cleanup(srv.Close)

	t.Setenv("NSI_INDEX_URL", srv.URL+"/nsi.min.json")
	t.Setenv("NSI_WIKIDATA_URL", srv.URL+"/wikidata.min.json")
	t.Setenv("NSI_TAGINFO_URL", srv.URL+"/taginfo.json")
	t.Setenv("NSI_OUTPUT", "json")

	_, err := execute(t, NewListCommand())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "loading datasets")
}
