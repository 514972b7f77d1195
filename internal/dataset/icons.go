package dataset

import (
	json "github.com/goccy/go-json"
)

// IconTable maps a composite tag key ("key" or "key/value") to an icon URL.
type IconTable map[string]string

type taginfoDocument struct {
	Tags []taginfoTag `json:"tags"`
}

type taginfoTag struct {
	Key     string `json:"key"`
	Value   string `json:"value"`
	IconURL string `json:"icon_url"`
}

// DecodeIconTable parses the taginfo dataset into an IconTable. A tag
// contributes only when it carries both an icon URL and a key; later tags
// with the same composite key overwrite earlier ones.
func DecodeIconTable(body []byte) (IconTable, error) {
	var doc taginfoDocument
	if err := json.Unmarshal(body, &doc); err != nil {
		return nil, err
	}

	table := make(IconTable, len(doc.Tags))
	for _, tag := range doc.Tags {
		if tag.IconURL == "" || tag.Key == "" {
			continue
		}
		composite := tag.Key
		if tag.Value != "" {
			composite += "/" + tag.Value
		}
		table[composite] = tag.IconURL
	}

	return table, nil
}

// Lookup returns the icon URL for key/value, falling back to the bare key
// when no value-specific entry exists.
func (t IconTable) Lookup(key, value string) (string, bool) {
	if value != "" {
		if icon, ok := t[key+"/"+value]; ok {
			return icon, true
		}
	}
	icon, ok := t[key]
	return icon, ok
}
