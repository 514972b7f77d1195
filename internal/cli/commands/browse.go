package commands

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/ldez/name-suggestion-index/internal/tui"
)

// NewBrowseCommand creates the browse command.
func NewBrowseCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "browse",
		Short: "Browse the taxonomy in a terminal UI",
		Long: `Open an interactive terminal browser over the taxonomy.

Drill down from trees to categories to items with the arrow keys.
Datasets load in the background while a spinner is shown.`,
		Example: `  # Browse the published datasets
  nsi browse

  # Browse a local checkout
  nsi browse --data-dir ~/name-suggestion-index/dist`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cmdCtx := NewCommandContext(cmd)

			model := tui.NewModel(cmdCtx.Catalog)
			p := tea.NewProgram(model,
				tea.WithAltScreen(),
				tea.WithContext(cmd.Context()),
			)

			_, err := p.Run()
			return err
		},
	}

	return cmd
}
