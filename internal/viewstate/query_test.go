package viewstate

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"pgregory.net/rapid"
)

func TestDecodeQuery(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want Params
	}{
		{
			name: "empty",
			raw:  "",
			want: Params{},
		},
		{
			name: "single pair",
			raw:  "t=brands",
			want: Params{"t": "brands"},
		},
		{
			name: "leading question mark",
			raw:  "?t=brands&k=amenity",
			want: Params{"t": "brands", "k": "amenity"},
		},
		{
			name: "leading hash runs",
			raw:  "#?#t=operators",
			want: Params{"t": "operators"},
		},
		{
			name: "percent-decoded value",
			raw:  "v=Caf%C3%A9+Nero",
			want: Params{"v": "Café Nero"},
		},
		{
			name: "empty value kept",
			raw:  "k=&v=Foo",
			want: Params{"k": "", "v": "Foo"},
		},
		{
			name: "segment without equals dropped",
			raw:  "t=brands&junk&v=Foo",
			want: Params{"t": "brands", "v": "Foo"},
		},
		{
			name: "segment with two equals dropped",
			raw:  "t=brands&k=a=b",
			want: Params{"t": "brands"},
		},
		{
			name: "undecodable value becomes empty",
			raw:  "v=%zz",
			want: Params{"v": ""},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DecodeQuery(tt.raw))
		})
	}
}

func TestEncodePairs_Order(t *testing.T) {
	got := EncodePairs([]Pair{
		{Key: "t", Value: "brands"},
		{Key: "k", Value: "amenity"},
		{Key: "v", Value: "fast_food"},
	})
	assert.Equal(t, "t=brands&k=amenity&v=fast_food", got)
}

func TestEncodeQuery_EscapesKeyAndValue(t *testing.T) {
	got := EncodeQuery(Params{"v": "Café & Bar"})
	assert.Equal(t, "v=Caf%C3%A9+%26+Bar", got)
}

func TestCanonicalPairs(t *testing.T) {
	tests := []struct {
		name   string
		params Params
		want   string
	}{
		{
			name:   "tree defaults to brands",
			params: Params{"k": "cafe", "v": "Foo"},
			want:   "t=brands&k=cafe&v=Foo",
		},
		{
			name:   "fixed key order",
			params: Params{"inc": "1", "v": "Foo", "t": "operators", "k": "amenity"},
			want:   "t=operators&k=amenity&v=Foo&inc=1",
		},
		{
			name:   "empty values omitted",
			params: Params{"t": "flags", "k": "", "cc": "fr"},
			want:   "t=flags&cc=fr",
		},
		{
			name:   "unknown keys omitted",
			params: Params{"t": "brands", "bogus": "x"},
			want:   "t=brands",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, EncodePairs(CanonicalPairs(tt.params)))
		})
	}
}

func TestDecodeEncode_RoundTrip(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		keys := rapid.SliceOfNDistinct(
			rapid.StringMatching(`[a-z][a-z0-9]{0,7}`), 0, 8,
			func(s string) string { return s },
		).Draw(t, "keys")

		params := make(Params, len(keys))
		for _, k := range keys {
			params[k] = rapid.String().Draw(t, "value-"+k)
		}

		assert.Equal(t, params, DecodeQuery(EncodeQuery(params)))
	})
}
