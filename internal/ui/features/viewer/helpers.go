package viewer

import (
	"net/http"
	"sort"
	"strings"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/ldez/name-suggestion-index/internal/dataset"
	"github.com/ldez/name-suggestion-index/internal/viewstate"
)

const (
	sessionName   = "nsi"
	sessionRecent = "recent"
	maxRecent     = 6
)

// defaultTrees is the nav fallback before the index has loaded.
var defaultTrees = []string{"brands", "flags", "operators", "transit"}

func newCollator() *collate.Collator {
	return collate.New(language.English, collate.IgnoreCase)
}

// categoryURL builds the canonical viewer URL for a category.
func categoryURL(tree, key, value string) string {
	return "/?" + viewstate.EncodePairs(viewstate.CanonicalPairs(viewstate.Params{
		"t": tree, "k": key, "v": value,
	}))
}

// treesOf lists the taxonomy trees present in the index, sorted.
func treesOf(idx *dataset.NameIndex) []string {
	seen := make(map[string]struct{})
	for tkv := range idx.ByPath {
		tree, _, _ := dataset.SplitTKV(tkv)
		if tree != "" {
			seen[tree] = struct{}{}
		}
	}
	if len(seen) == 0 {
		return defaultTrees
	}

	trees := make([]string, 0, len(seen))
	for tree := range seen {
		trees = append(trees, tree)
	}
	sort.Strings(trees)
	return trees
}

// buildOverview assembles the overview content for one tree.
func (h *Handlers) buildOverview(idx *dataset.NameIndex, tree string, recent []CategoryLink) *OverviewData {
	data := &OverviewData{Tree: tree, Recent: recent}

	groups := make(map[string][]CategoryLink)
	for tkv, items := range idx.ByPath {
		t, key, value := dataset.SplitTKV(tkv)
		if t != tree {
			continue
		}
		data.Categories++
		data.Items += len(items)

		link := CategoryLink{
			Tree:  t,
			Key:   key,
			Value: value,
			TKV:   tkv,
			URL:   categoryURL(t, key, value),
			Count: len(items),
		}
		if icon, ok := h.catalog.Icon(key, value); ok {
			link.Icon = icon
		}
		groups[key] = append(groups[key], link)
	}

	coll := newCollator()
	keys := make([]string, 0, len(groups))
	for key := range groups {
		keys = append(keys, key)
	}
	coll.SortStrings(keys)

	for _, key := range keys {
		categories := groups[key]
		sort.SliceStable(categories, func(i, j int) bool {
			return coll.CompareString(categories[i].Value, categories[j].Value) < 0
		})
		data.Keys = append(data.Keys, KeyGroup{Key: key, Categories: categories})
	}

	return data
}

// buildCategory assembles the category content for a tkv path. The anchor
// id comes from the sync machine's hash.
func (h *Handlers) buildCategory(idx *dataset.NameIndex, params viewstate.Params, hash string) *CategoryData {
	tree := params["t"]
	if tree == "" {
		tree = viewstate.DefaultTree
	}
	tkv := tree + "/" + params["k"] + "/" + params["v"]

	data := &CategoryData{
		Tree:     tree,
		Key:      params["k"],
		Value:    params["v"],
		TKV:      tkv,
		AnchorID: strings.TrimPrefix(hash, "#"),
	}
	if icon, ok := h.catalog.Icon(data.Key, data.Value); ok {
		data.Icon = icon
	}

	wikidata, _ := h.catalog.Wikidata().Get()

	items := idx.ByPath[tkv]
	data.Items = make([]ItemView, 0, len(items))
	for _, item := range items {
		view := ItemView{
			ID:          item.ID,
			DisplayName: item.DisplayName,
			Anchored:    item.ID != "" && item.ID == data.AnchorID,
		}

		tagKeys := make([]string, 0, len(item.Tags))
		for k := range item.Tags {
			tagKeys = append(tagKeys, k)
		}
		sort.Strings(tagKeys)
		for _, k := range tagKeys {
			view.Tags = append(view.Tags, TagPair{Key: k, Value: item.Tags[k]})
		}

		if qid := item.Tags["brand:wikidata"]; qid != "" {
			view.Wikidata = qid
			view.WikidataURL = "https://www.wikidata.org/wiki/" + qid
			view.Description = wikidataDescription(wikidata, qid)
		}

		data.Items = append(data.Items, view)
	}

	return data
}

// wikidataDescription digs the description for a QID out of the verbatim
// wikidata blob, best effort.
func wikidataDescription(blob map[string]any, qid string) string {
	entries, ok := blob["wikidata"].(map[string]any)
	if !ok {
		return ""
	}
	entry, ok := entries[qid].(map[string]any)
	if !ok {
		return ""
	}
	desc, _ := entry["description"].(string)
	return desc
}

// recentCategories reads the visitor's recently viewed categories from the
// session cookie.
func (h *Handlers) recentCategories(r *http.Request) []CategoryLink {
	// A decode error still yields a usable empty session.
	session, _ := h.sessionStore.Get(r, sessionName)
	if session == nil {
		return nil
	}
	tkvs, _ := session.Values[sessionRecent].([]string)

	links := make([]CategoryLink, 0, len(tkvs))
	for _, tkv := range tkvs {
		tree, key, value := dataset.SplitTKV(tkv)
		link := CategoryLink{
			Tree:  tree,
			Key:   key,
			Value: value,
			TKV:   tkv,
			URL:   categoryURL(tree, key, value),
		}
		if icon, ok := h.catalog.Icon(key, value); ok {
			link.Icon = icon
		}
		links = append(links, link)
	}
	return links
}

// rememberCategory pushes tkv to the front of the visitor's recent list.
func (h *Handlers) rememberCategory(w http.ResponseWriter, r *http.Request, tkv string) {
	session, _ := h.sessionStore.Get(r, sessionName)
	if session == nil {
		return
	}

	existing, _ := session.Values[sessionRecent].([]string)
	recent := make([]string, 0, maxRecent)
	recent = append(recent, tkv)
	for _, candidate := range existing {
		if candidate == tkv || len(recent) >= maxRecent {
			continue
		}
		recent = append(recent, candidate)
	}

	session.Values[sessionRecent] = recent
	if err := session.Save(r, w); err != nil {
		h.logger.Debug("saving session failed", "error", err)
	}
}
