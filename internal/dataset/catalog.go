package dataset

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	json "github.com/goccy/go-json"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

// Default dataset locations, served from the published NSI dist tree and
// the taginfo export alongside it.
const (
	DefaultIndexURL    = "https://raw.githubusercontent.com/osmlab/name-suggestion-index/main/dist/nsi.min.json"
	DefaultWikidataURL = "https://raw.githubusercontent.com/osmlab/name-suggestion-index/main/dist/wikidata.min.json"
	DefaultTaginfoURL  = "https://raw.githubusercontent.com/osmlab/name-suggestion-index/main/dist/taginfo.json"
)

// Refs names the three dataset documents a catalog loads.
type Refs struct {
	Index    string
	Wikidata string
	Taginfo  string
}

// DefaultRefs returns the published dataset locations.
func DefaultRefs() Refs {
	return Refs{
		Index:    DefaultIndexURL,
		Wikidata: DefaultWikidataURL,
		Taginfo:  DefaultTaginfoURL,
	}
}

// snapshot is one loaded generation of the three resources.
type snapshot struct {
	id       string
	index    *Resource[*NameIndex]
	wikidata *Resource[map[string]any]
	icons    *Resource[IconTable]
}

func newSnapshot() *snapshot {
	return &snapshot{
		id:       uuid.NewString(),
		index:    NewResource[*NameIndex](),
		wikidata: NewResource[map[string]any](),
		icons:    NewResource[IconTable](),
	}
}

// Catalog owns the three dataset resources and answers the lookups the
// viewer needs. It also implements viewstate.Resolver.
type Catalog struct {
	source Source
	refs   Refs
	logger *slog.Logger

	mu   sync.RWMutex
	snap *snapshot
}

// NewCatalog creates a catalog reading from source.
func NewCatalog(source Source, refs Refs, logger *slog.Logger) *Catalog {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Catalog{
		source: source,
		refs:   refs,
		logger: logger,
		snap:   newSnapshot(),
	}
}

// Load fetches the three datasets concurrently. The fetches are independent:
// one dataset failing leaves the others running to their own outcome, so the
// viewer can degrade per resource. The returned error is the first fetch or
// decode failure, for callers that need all datasets up front.
func (c *Catalog) Load(ctx context.Context) error {
	snap := c.current()

	var g errgroup.Group

	g.Go(func() error {
		var loadErr error
		snap.index.Load(ctx, func(ctx context.Context) (*NameIndex, error) {
			body, err := c.source.Fetch(ctx, c.refs.Index)
			if err != nil {
				loadErr = fmt.Errorf("fetch taxonomy index: %w", err)
				return nil, loadErr
			}
			idx, err := DecodeNameIndex(body, c.logger)
			if err != nil {
				loadErr = fmt.Errorf("decode taxonomy index: %w", err)
				return nil, loadErr
			}
			c.logger.Debug("taxonomy index loaded",
				"categories", len(idx.ByPath), "items", len(idx.ByID))
			return idx, nil
		})
		return loadErr
	})

	g.Go(func() error {
		var loadErr error
		snap.wikidata.Load(ctx, func(ctx context.Context) (map[string]any, error) {
			body, err := c.source.Fetch(ctx, c.refs.Wikidata)
			if err != nil {
				loadErr = fmt.Errorf("fetch wikidata: %w", err)
				return nil, loadErr
			}
			// Passed through verbatim; the viewer only picks entries out.
			var blob map[string]any
			if err := json.Unmarshal(body, &blob); err != nil {
				loadErr = fmt.Errorf("decode wikidata: %w", err)
				return nil, loadErr
			}
			return blob, nil
		})
		return loadErr
	})

	g.Go(func() error {
		var loadErr error
		snap.icons.Load(ctx, func(ctx context.Context) (IconTable, error) {
			body, err := c.source.Fetch(ctx, c.refs.Taginfo)
			if err != nil {
				loadErr = fmt.Errorf("fetch taginfo: %w", err)
				return nil, loadErr
			}
			table, err := DecodeIconTable(body)
			if err != nil {
				loadErr = fmt.Errorf("decode taginfo: %w", err)
				return nil, loadErr
			}
			return table, nil
		})
		return loadErr
	})

	return g.Wait()
}

// Reload loads a fresh generation of all three datasets and swaps it in
// atomically. Used by the file source's watch mode.
func (c *Catalog) Reload(ctx context.Context) error {
	fresh := &Catalog{
		source: c.source,
		refs:   c.refs,
		logger: c.logger,
		snap:   newSnapshot(),
	}
	if err := fresh.Load(ctx); err != nil {
		return err
	}

	c.mu.Lock()
	c.snap = fresh.snap
	c.mu.Unlock()
	return nil
}

func (c *Catalog) current() *snapshot {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.snap
}

// SnapshotID identifies the current dataset generation. It doubles as the
// ETag for rendered pages.
func (c *Catalog) SnapshotID() string {
	return c.current().id
}

// Index returns the taxonomy index resource.
func (c *Catalog) Index() *Resource[*NameIndex] {
	return c.current().index
}

// Wikidata returns the wikidata supplement resource.
func (c *Catalog) Wikidata() *Resource[map[string]any] {
	return c.current().wikidata
}

// Icons returns the icon table resource.
func (c *Catalog) Icons() *Resource[IconTable] {
	return c.current().icons
}

// Loading reports whether any dataset is still pending.
func (c *Catalog) Loading() bool {
	snap := c.current()
	return snap.index.Loading() || snap.wikidata.Loading() || snap.icons.Loading()
}

// Ready reports whether the taxonomy index load has settled, successfully
// or not. Part of the viewstate.Resolver contract: a failed load must not
// defer id resolution forever, it resolves nothing instead.
func (c *Catalog) Ready() bool {
	return !c.current().index.Loading()
}

// Resolve returns the owning tkv path for an item id. Part of the
// viewstate.Resolver contract.
func (c *Catalog) Resolve(id string) (string, bool) {
	idx, ok := c.current().index.Get()
	if !ok {
		return "", false
	}
	item, ok := idx.Lookup(id)
	if !ok {
		return "", false
	}
	return item.TKV, true
}

// Icon returns the icon URL for a key/value pair, with bare-key fallback.
func (c *Catalog) Icon(key, value string) (string, bool) {
	table, ok := c.current().icons.Get()
	if !ok {
		return "", false
	}
	return table.Lookup(key, value)
}

// SplitTKV splits a composite "tree/key/value" path into its parts. Missing
// parts come back empty.
func SplitTKV(tkv string) (tree, key, value string) {
	parts := strings.SplitN(tkv, "/", 3)
	if len(parts) > 0 {
		tree = parts[0]
	}
	if len(parts) > 1 {
		key = parts[1]
	}
	if len(parts) > 2 {
		value = parts[2]
	}
	return tree, key, value
}
