package commands

import (
	"encoding/json"
	"fmt"
	"sort"

	"github.com/spf13/cobra"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/ldez/name-suggestion-index/internal/cli/output"
	"github.com/ldez/name-suggestion-index/internal/dataset"
)

// CategoryInfo describes one category in list output.
type CategoryInfo struct {
	Tree  string `json:"tree"`
	Key   string `json:"key"`
	Value string `json:"value"`
	Path  string `json:"path"`
	Items int    `json:"items"`
	Icon  string `json:"icon,omitempty"`
}

// ListOutput is the JSON shape of the list command.
type ListOutput struct {
	Categories []CategoryInfo `json:"categories"`
	Summary    ListSummary    `json:"summary"`
}

// ListSummary holds aggregate counts for list output.
type ListSummary struct {
	Categories int            `json:"categories"`
	Items      int            `json:"items"`
	ByTree     map[string]int `json:"by_tree"`
}

// NewListCommand creates the list command.
func NewListCommand() *cobra.Command {
	var tree string
	var key string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List taxonomy categories",
		Long: `List categories from the name index with their item counts.

Output adapts to environment:
  - Terminal: Styled, colored output
  - Piped/Scripted: Markdown format (agent-friendly)

Use --output to override: auto, text, markdown, json`,
		Example: `  # List everything
  nsi list

  # List one tree
  nsi list --tree brands

  # List one key as JSON
  nsi list --tree brands --key amenity --output json`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runList(cmd, tree, key)
		},
	}

	cmd.Flags().StringVar(&tree, "tree", "", "Only list categories in this tree")
	cmd.Flags().StringVar(&key, "key", "", "Only list categories with this key")

	return cmd
}

func runList(cmd *cobra.Command, tree, key string) error {
	cmdCtx := NewCommandContext(cmd)
	if err := cmdCtx.LoadCatalog(cmd.Context()); err != nil {
		return err
	}

	idx, ok := cmdCtx.Catalog.Index().Get()
	if !ok {
		return fmt.Errorf("name index unavailable: %w", cmdCtx.Catalog.Index().Err())
	}

	categories := collectCategories(cmdCtx.Catalog, idx, tree, key)
	r := cmdCtx.Renderer

	switch r.EffectiveMode() {
	case output.ModeJSON:
		return listJSON(r, categories)
	case output.ModeMarkdown:
		return listMarkdown(r, categories)
	default:
		return listText(r, categories)
	}
}

// collectCategories gathers matching categories in collation order.
func collectCategories(catalog *dataset.Catalog, idx *dataset.NameIndex, tree, key string) []CategoryInfo {
	categories := make([]CategoryInfo, 0, len(idx.ByPath))
	for tkv, items := range idx.ByPath {
		t, k, v := dataset.SplitTKV(tkv)
		if tree != "" && t != tree {
			continue
		}
		if key != "" && k != key {
			continue
		}

		info := CategoryInfo{
			Tree:  t,
			Key:   k,
			Value: v,
			Path:  tkv,
			Items: len(items),
		}
		if icon, ok := catalog.Icon(k, v); ok {
			info.Icon = icon
		}
		categories = append(categories, info)
	}

	coll := collate.New(language.English, collate.IgnoreCase)
	sort.SliceStable(categories, func(i, j int) bool {
		return coll.CompareString(categories[i].Path, categories[j].Path) < 0
	})

	return categories
}

// listText outputs categories as a styled table.
func listText(r *output.Renderer, categories []CategoryInfo) error {
	items := 0
	for _, c := range categories {
		items += c.Items
	}
	r.Header(1, fmt.Sprintf("Categories (%d total, %d items)", len(categories), items))

	rows := make([][]string, 0, len(categories))
	for _, c := range categories {
		rows = append(rows, []string{c.Tree, c.Key, c.Value, fmt.Sprintf("%d", c.Items)})
	}
	r.Table([]string{"Tree", "Key", "Value", "Items"}, rows)

	return nil
}

// listMarkdown outputs categories grouped by tree.
func listMarkdown(r *output.Renderer, categories []CategoryInfo) error {
	r.Println(output.FormatHeader(1, fmt.Sprintf("Categories (%d total)", len(categories))))
	r.Println("")

	lastTree := ""
	for _, c := range categories {
		if c.Tree != lastTree {
			r.Println(output.FormatHeader(2, c.Tree))
			lastTree = c.Tree
		}
		r.Println(fmt.Sprintf("- `%s/%s` (%d items)", c.Key, c.Value, c.Items))
	}

	return nil
}

// listJSON outputs categories in JSON format.
func listJSON(r *output.Renderer, categories []CategoryInfo) error {
	listOutput := ListOutput{
		Categories: categories,
		Summary: ListSummary{
			Categories: len(categories),
			ByTree:     make(map[string]int),
		},
	}
	for _, c := range categories {
		listOutput.Summary.Items += c.Items
		listOutput.Summary.ByTree[c.Tree]++
	}

	enc := json.NewEncoder(r.Writer())
	enc.SetIndent("", "  ")
	return enc.Encode(listOutput)
}
