package dataset

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeIconTable(t *testing.T) {
	body := []byte(`{"tags": [
		{"key": "shop", "icon_url": "u1"},
		{"key": "shop", "value": "bakery", "icon_url": "u2"},
		{"key": "x"}
	]}`)

	table, err := DecodeIconTable(body)
	require.NoError(t, err)

	assert.Equal(t, IconTable{"shop": "u1", "shop/bakery": "u2"}, table)
}

func TestDecodeIconTable_LastWriteWins(t *testing.T) {
	body := []byte(`{"tags": [
		{"key": "amenity", "value": "cafe", "icon_url": "old"},
		{"key": "amenity", "value": "cafe", "icon_url": "new"}
	]}`)

	table, err := DecodeIconTable(body)
	require.NoError(t, err)

	assert.Equal(t, "new", table["amenity/cafe"])
}

func TestDecodeIconTable_DropsTagsWithoutIcon(t *testing.T) {
	body := []byte(`{"tags": [
		{"key": "shop", "value": "bakery"},
		{"value": "orphan", "icon_url": "u1"}
	]}`)

	table, err := DecodeIconTable(body)
	require.NoError(t, err)
	assert.Empty(t, table)
}

func TestIconTable_Lookup(t *testing.T) {
	table := IconTable{"shop": "generic", "shop/bakery": "bread"}

	icon, ok := table.Lookup("shop", "bakery")
	require.True(t, ok)
	assert.Equal(t, "bread", icon)

	// Unknown value falls back to the bare key.
	icon, ok = table.Lookup("shop", "butcher")
	require.True(t, ok)
	assert.Equal(t, "generic", icon)

	_, ok = table.Lookup("craft", "")
	assert.False(t, ok)
}
