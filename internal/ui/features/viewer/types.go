package viewer

import (
	"github.com/ldez/name-suggestion-index/internal/viewstate"
)

// Page is the data every rendered page receives: frame state for the header
// and footer plus the selected view's content.
type Page struct {
	Title       string
	SnapshotID  string
	MetaVersion string
	Trees       []string
	CurrentTree string
	Params      viewstate.Params
	LiveReload  bool
	Warnings    []string

	Overview *OverviewData
	Category *CategoryData
}

// CategoryLink points at one taxonomy category.
type CategoryLink struct {
	Tree  string
	Key   string
	Value string
	TKV   string
	URL   string
	Icon  string
	Count int
}

// KeyGroup collects the categories sharing a tag key within a tree.
type KeyGroup struct {
	Key        string
	Categories []CategoryLink
}

// OverviewData is the content of the overview page: the whole taxonomy
// grouped by key, for the selected tree.
type OverviewData struct {
	Tree       string
	Keys       []KeyGroup
	Recent     []CategoryLink
	Categories int
	Items      int
}

// ItemView is one taxonomy entry prepared for rendering.
type ItemView struct {
	ID          string
	DisplayName string
	Tags        []TagPair
	Wikidata    string
	WikidataURL string
	Description string
	Anchored    bool
}

// TagPair is a rendered tag key/value.
type TagPair struct {
	Key   string
	Value string
}

// CategoryData is the content of the category page.
type CategoryData struct {
	Tree     string
	Key      string
	Value    string
	TKV      string
	Icon     string
	Items    []ItemView
	AnchorID string
}
