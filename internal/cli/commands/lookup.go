package commands

import (
	"encoding/json"
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"github.com/ldez/name-suggestion-index/internal/cli/output"
	"github.com/ldez/name-suggestion-index/internal/dataset"
	"github.com/ldez/name-suggestion-index/internal/viewstate"
)

// LookupOutput is the JSON shape of the lookup command.
type LookupOutput struct {
	ID          string            `json:"id"`
	DisplayName string            `json:"display_name"`
	Path        string            `json:"path"`
	Tags        map[string]string `json:"tags,omitempty"`
	Wikidata    string            `json:"wikidata,omitempty"`
	URL         string            `json:"url"`
}

// NewLookupCommand creates the lookup command.
func NewLookupCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "lookup <id>",
		Short: "Look up an item by its id",
		Long: `Look up a single item by its id and print its category, tags, and the
canonical viewer URL. This is the command-line twin of opening /?id=<id>
in the viewer.`,
		Example: `  # Look up an item
  nsi lookup 52b5c0a1-e345-4bcc-b71e-83a9d2fea442

  # As JSON
  nsi lookup 52b5c0a1-e345-4bcc-b71e-83a9d2fea442 --output json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runLookup(cmd, args[0])
		},
	}

	return cmd
}

func runLookup(cmd *cobra.Command, id string) error {
	cmdCtx := NewCommandContext(cmd)
	if err := cmdCtx.LoadCatalog(cmd.Context()); err != nil {
		return err
	}

	idx, ok := cmdCtx.Catalog.Index().Get()
	if !ok {
		return fmt.Errorf("name index unavailable: %w", cmdCtx.Catalog.Index().Err())
	}

	item, ok := idx.Lookup(id)
	if !ok {
		return fmt.Errorf("no item with id %q", id)
	}

	result := LookupOutput{
		ID:          item.ID,
		DisplayName: item.DisplayName,
		Path:        item.TKV,
		Tags:        item.Tags,
		Wikidata:    item.Tags["brand:wikidata"],
		URL:         viewerURL(item),
	}

	r := cmdCtx.Renderer
	switch r.EffectiveMode() {
	case output.ModeJSON:
		enc := json.NewEncoder(r.Writer())
		enc.SetIndent("", "  ")
		return enc.Encode(result)
	case output.ModeMarkdown:
		r.Println(output.FormatHeader(1, result.DisplayName))
		r.Println(output.FormatKeyValue("ID", result.ID))
		r.Println(output.FormatKeyValue("Category", result.Path))
		if result.Wikidata != "" {
			r.Println(output.FormatKeyValue("Wikidata", result.Wikidata))
		}
		r.Println(output.FormatKeyValue("URL", result.URL))
		for _, tag := range sortedTags(item) {
			r.Println(fmt.Sprintf("- `%s=%s`", tag, item.Tags[tag]))
		}
		return nil
	default:
		r.Header(1, result.DisplayName)
		r.KeyValue("ID", result.ID)
		r.KeyValue("Category", result.Path)
		if result.Wikidata != "" {
			r.KeyValue("Wikidata", result.Wikidata)
		}
		r.KeyValue("URL", result.URL)
		for _, tag := range sortedTags(item) {
			r.Println("  " + tag + "=" + item.Tags[tag])
		}
		return nil
	}
}

// viewerURL builds the canonical viewer URL for an item, the same shape the
// server redirects /?id=<id> to.
func viewerURL(item *dataset.Item) string {
	tree, key, value := dataset.SplitTKV(item.TKV)
	query := viewstate.EncodePairs(viewstate.CanonicalPairs(viewstate.Params{
		"t": tree, "k": key, "v": value,
	}))
	return "/?" + query + "#" + item.ID
}

func sortedTags(item *dataset.Item) []string {
	tags := make([]string, 0, len(item.Tags))
	for tag := range item.Tags {
		tags = append(tags, tag)
	}
	sort.Strings(tags)
	return tags
}
