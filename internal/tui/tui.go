// Package tui provides an interactive terminal browser over the taxonomy.
package tui

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/ldez/name-suggestion-index/internal/dataset"
)

// level is the current drill-down depth.
type level int

const (
	levelTrees level = iota
	levelCategories
	levelItems
)

// Model is the browser TUI model.
type Model struct {
	catalog *dataset.Catalog

	// State
	loading bool
	err     error
	level   level
	cursor  int
	width   int
	height  int

	// Data
	idx        *dataset.NameIndex
	trees      []string
	categories []categoryEntry
	items      []*dataset.Item

	// Selection path
	tree     string
	category categoryEntry

	// Components
	spinner spinner.Model
}

// categoryEntry is one key/value row under a tree.
type categoryEntry struct {
	key   string
	value string
	path  string
	count int
}

// loadedMsg carries the result of the background dataset load.
type loadedMsg struct {
	idx *dataset.NameIndex
	err error
}

// NewModel creates a new browser model over an unloaded catalog.
func NewModel(catalog *dataset.Catalog) Model {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(primaryColor)

	return Model{
		catalog: catalog,
		loading: true,
		level:   levelTrees,
		spinner: s,
	}
}

// Init starts the spinner and the background load.
func (m Model) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.load)
}

// load fetches and indexes the datasets.
func (m Model) load() tea.Msg {
	err := m.catalog.Load(context.Background())
	idx, ok := m.catalog.Index().Get()
	if !ok {
		if err == nil {
			err = m.catalog.Index().Err()
		}
		return loadedMsg{err: err}
	}
	return loadedMsg{idx: idx}
}

// Update handles messages.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.updateKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

	case loadedMsg:
		m.loading = false
		m.err = msg.err
		m.idx = msg.idx
		if m.idx != nil {
			m.trees = treesOf(m.idx)
		}

	case spinner.TickMsg:
		if m.loading {
			var cmd tea.Cmd
			m.spinner, cmd = m.spinner.Update(msg)
			return m, cmd
		}
	}

	return m, nil
}

func (m Model) updateKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit

	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}

	case "down", "j":
		if m.cursor < m.rowCount()-1 {
			m.cursor++
		}

	case "enter", "right", "l":
		return m.drillDown(), nil

	case "esc", "left", "h":
		return m.drillUp(), nil
	}

	return m, nil
}

// rowCount is the number of rows at the current level.
func (m Model) rowCount() int {
	switch m.level {
	case levelCategories:
		return len(m.categories)
	case levelItems:
		return len(m.items)
	default:
		return len(m.trees)
	}
}

func (m Model) drillDown() Model {
	if m.idx == nil {
		return m
	}

	switch m.level {
	case levelTrees:
		if m.cursor >= len(m.trees) {
			return m
		}
		m.tree = m.trees[m.cursor]
		m.categories = categoriesOf(m.idx, m.tree)
		m.level = levelCategories
		m.cursor = 0

	case levelCategories:
		if m.cursor >= len(m.categories) {
			return m
		}
		m.category = m.categories[m.cursor]
		m.items = m.idx.ByPath[m.category.path]
		m.level = levelItems
		m.cursor = 0
	}

	return m
}

func (m Model) drillUp() Model {
	switch m.level {
	case levelItems:
		m.level = levelCategories
		m.cursor = indexOfCategory(m.categories, m.category.path)

	case levelCategories:
		m.level = levelTrees
		m.cursor = indexOfString(m.trees, m.tree)
	}

	return m
}

// View renders the browser.
func (m Model) View() string {
	if m.loading {
		return "\n  " + m.spinner.View() + " Loading datasets..."
	}
	if m.err != nil {
		return "\n  " + errStyle.Render("Loading failed: "+m.err.Error()) + "\n\n" + helpStyle.Render("  [q] Quit")
	}

	var b strings.Builder

	b.WriteString("  " + titleStyle.Render("Name Suggestion Index") + "\n")
	b.WriteString("  " + breadcrumbStyle.Render(m.breadcrumb()) + "\n\n")

	switch m.level {
	case levelCategories:
		m.renderCategories(&b)
	case levelItems:
		m.renderItems(&b)
	default:
		m.renderTrees(&b)
	}

	b.WriteString(helpStyle.Render("  [↑/↓] Move  [enter] Open  [esc] Back  [q] Quit"))

	return b.String()
}

func (m Model) breadcrumb() string {
	switch m.level {
	case levelCategories:
		return m.tree
	case levelItems:
		return m.category.path
	default:
		return "trees"
	}
}

// window bounds the visible row range around the cursor.
func (m Model) window(total int) (start, end int) {
	visible := m.height - 7
	if visible < 5 {
		visible = 5
	}
	if total <= visible {
		return 0, total
	}

	start = m.cursor - visible/2
	if start < 0 {
		start = 0
	}
	end = start + visible
	if end > total {
		end = total
		start = end - visible
	}
	return start, end
}

func (m Model) renderTrees(b *strings.Builder) {
	start, end := m.window(len(m.trees))
	for i := start; i < end; i++ {
		b.WriteString(m.renderRow(i, m.trees[i], "") + "\n")
	}
	b.WriteString("\n")
}

func (m Model) renderCategories(b *strings.Builder) {
	start, end := m.window(len(m.categories))
	for i := start; i < end; i++ {
		c := m.categories[i]
		label := c.key + "/" + c.value
		b.WriteString(m.renderRow(i, label, fmt.Sprintf("(%d)", c.count)) + "\n")
	}
	b.WriteString("\n")
}

func (m Model) renderItems(b *strings.Builder) {
	start, end := m.window(len(m.items))
	for i := start; i < end; i++ {
		item := m.items[i]
		b.WriteString(m.renderRow(i, item.DisplayName, "") + "\n")

		// Tags for the selected item only.
		if i == m.cursor {
			for _, tag := range sortedTagKeys(item.Tags) {
				b.WriteString(tagStyle.Render(tag+"="+item.Tags[tag]) + "\n")
			}
		}
	}
	b.WriteString("\n")
}

func (m Model) renderRow(i int, label, suffix string) string {
	line := label
	if suffix != "" {
		line += " " + countStyle.Render(suffix)
	}
	if i == m.cursor {
		return "  " + cursorStyle.Render("> ") + selectedItemStyle.Render(line)
	}
	return "  " + itemStyle.Render(line)
}

// treesOf lists the trees in the index, sorted.
func treesOf(idx *dataset.NameIndex) []string {
	seen := make(map[string]struct{})
	for tkv := range idx.ByPath {
		tree, _, _ := dataset.SplitTKV(tkv)
		if tree != "" {
			seen[tree] = struct{}{}
		}
	}

	trees := make([]string, 0, len(seen))
	for tree := range seen {
		trees = append(trees, tree)
	}
	sort.Strings(trees)
	return trees
}

// categoriesOf lists the categories under a tree in collation order.
func categoriesOf(idx *dataset.NameIndex, tree string) []categoryEntry {
	var categories []categoryEntry
	for tkv, items := range idx.ByPath {
		t, key, value := dataset.SplitTKV(tkv)
		if t != tree {
			continue
		}
		categories = append(categories, categoryEntry{
			key:   key,
			value: value,
			path:  tkv,
			count: len(items),
		})
	}

	coll := collate.New(language.English, collate.IgnoreCase)
	sort.SliceStable(categories, func(i, j int) bool {
		return coll.CompareString(categories[i].path, categories[j].path) < 0
	})

	return categories
}

func indexOfCategory(categories []categoryEntry, path string) int {
	for i, c := range categories {
		if c.path == path {
			return i
		}
	}
	return 0
}

func indexOfString(values []string, v string) int {
	for i, candidate := range values {
		if candidate == v {
			return i
		}
	}
	return 0
}

func sortedTagKeys(tags map[string]string) []string {
	keys := make([]string, 0, len(tags))
	for k := range tags {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
