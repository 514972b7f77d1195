package dataset

import (
	"log/slog"

	json "github.com/goccy/go-json"
)

// Item is a single taxonomy entry. TKV is the owning composite
// "tree/key/value" path, annotated during index construction.
type Item struct {
	ID          string            `json:"id"`
	DisplayName string            `json:"displayName"`
	Tags        map[string]string `json:"tags"`
	MatchNames  []string          `json:"matchNames,omitempty"`

	TKV string `json:"-"`
}

// NameIndex is the derived lookup structure over the taxonomy dataset.
// Every record reachable via ByID is also reachable through exactly one
// ByPath entry.
type NameIndex struct {
	// ByPath maps a composite "tree/key/value" path to its items in
	// source order.
	ByPath map[string][]*Item
	// ByID maps an item id to its record.
	ByID map[string]*Item
	// Meta is the dataset's _meta block, carried through verbatim.
	Meta map[string]any
}

// indexDocument mirrors the taxonomy dataset's top level. Category item
// lists stay raw so one malformed category cannot fail the whole decode.
type indexDocument struct {
	Meta map[string]any             `json:"_meta"`
	NSI  map[string]json.RawMessage `json:"nsi"`
}

type categoryDocument struct {
	Items json.RawMessage `json:"items"`
}

// DecodeNameIndex parses the taxonomy dataset and builds its index. A
// category whose items list is absent or not an array of records is skipped
// entirely: it appears in neither ByPath nor ByID.
func DecodeNameIndex(body []byte, logger *slog.Logger) (*NameIndex, error) {
	var doc indexDocument
	if err := json.Unmarshal(body, &doc); err != nil {
		return nil, err
	}

	idx := &NameIndex{
		ByPath: make(map[string][]*Item, len(doc.NSI)),
		ByID:   make(map[string]*Item),
		Meta:   doc.Meta,
	}

	for tkv, raw := range doc.NSI {
		var cat categoryDocument
		if err := json.Unmarshal(raw, &cat); err != nil {
			logger.Debug("skipping malformed category", "tkv", tkv, "error", err)
			continue
		}

		var items []*Item
		if len(cat.Items) == 0 || json.Unmarshal(cat.Items, &items) != nil || items == nil {
			logger.Debug("skipping category without item list", "tkv", tkv)
			continue
		}

		for _, item := range items {
			if item == nil {
				continue
			}
			item.TKV = tkv
			idx.ByPath[tkv] = append(idx.ByPath[tkv], item)
			if item.ID != "" {
				idx.ByID[item.ID] = item
			}
		}
	}

	return idx, nil
}

// Paths returns all composite category paths present in the index.
func (idx *NameIndex) Paths() []string {
	paths := make([]string, 0, len(idx.ByPath))
	for tkv := range idx.ByPath {
		paths = append(paths, tkv)
	}
	return paths
}

// Lookup returns the record for id, if present.
func (idx *NameIndex) Lookup(id string) (*Item, bool) {
	item, ok := idx.ByID[id]
	return item, ok
}
