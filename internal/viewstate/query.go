// Package viewstate keeps the viewer's parameters and the browser address
// bar in agreement. It provides the query-string codec and the two-direction
// synchronization machine that the UI server runs once per request.
package viewstate

import (
	"net/url"
	"sort"
	"strings"
)

// Params maps view parameter keys to their string values.
type Params map[string]string

// Pair is a single key/value entry with an explicit position, used when the
// caller needs to control the order of the encoded query string.
type Pair struct {
	Key   string
	Value string
}

// CanonicalOrder is the fixed key order used for outbound query strings.
var CanonicalOrder = []string{"t", "k", "v", "id", "tt", "cc", "inc"}

// DefaultTree is the taxonomy tree assumed when the "t" parameter is absent.
const DefaultTree = "brands"

// DecodeQuery parses a raw query string into Params. Any leading run of '?'
// and '#' characters is stripped. Segments that do not split into exactly a
// key and a value on '=' are dropped. Values are percent-decoded; a value
// that fails to decode becomes the empty string.
func DecodeQuery(raw string) Params {
	raw = strings.TrimLeft(raw, "?#")

	params := make(Params)
	if raw == "" {
		return params
	}

	for _, segment := range strings.Split(raw, "&") {
		parts := strings.Split(segment, "=")
		if len(parts) != 2 {
			continue
		}
		value, err := url.QueryUnescape(parts[1])
		if err != nil {
			value = ""
		}
		params[parts[0]] = value
	}

	return params
}

// EncodeQuery encodes params as a query string with keys in lexical order.
// Callers that need the viewer's canonical key order use CanonicalPairs.
func EncodeQuery(params Params) string {
	keys := make([]string, 0, len(params))
	for k := range params {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	pairs := make([]Pair, 0, len(keys))
	for _, k := range keys {
		pairs = append(pairs, Pair{Key: k, Value: params[k]})
	}
	return EncodePairs(pairs)
}

// EncodePairs encodes the pairs in the order given, percent-encoding both
// keys and values.
func EncodePairs(pairs []Pair) string {
	var sb strings.Builder
	for i, p := range pairs {
		if i > 0 {
			sb.WriteByte('&')
		}
		sb.WriteString(url.QueryEscape(p.Key))
		sb.WriteByte('=')
		sb.WriteString(url.QueryEscape(p.Value))
	}
	return sb.String()
}

// CanonicalPairs builds the ordered parameter set for an outbound query
// string: keys are walked in CanonicalOrder, empty values are omitted, and
// the tree parameter falls back to DefaultTree when unset.
func CanonicalPairs(params Params) []Pair {
	pairs := make([]Pair, 0, len(CanonicalOrder))
	for _, key := range CanonicalOrder {
		value := params[key]
		if key == "t" && value == "" {
			value = DefaultTree
		}
		if value == "" {
			continue
		}
		pairs = append(pairs, Pair{Key: key, Value: value})
	}
	return pairs
}

// Clone returns an independent copy of params.
func (p Params) Clone() Params {
	out := make(Params, len(p))
	for k, v := range p {
		out[k] = v
	}
	return out
}

// Equal reports whether both maps hold the same keys and values.
func (p Params) Equal(other Params) bool {
	if len(p) != len(other) {
		return false
	}
	for k, v := range p {
		if ov, ok := other[k]; !ok || ov != v {
			return false
		}
	}
	return true
}
