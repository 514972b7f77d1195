package commands

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/ldez/name-suggestion-index/internal/dataset"
)

// starterConfig is the shape written by nsi init. Field order here is the
// order in the generated file.
type starterConfig struct {
	IndexURL    string          `yaml:"index_url"`
	WikidataURL string          `yaml:"wikidata_url"`
	TaginfoURL  string          `yaml:"taginfo_url"`
	DataDir     string          `yaml:"data_dir"`
	Output      string          `yaml:"output"`
	UI          starterUIConfig `yaml:"ui"`
}

type starterUIConfig struct {
	Port     int  `yaml:"port"`
	AutoOpen bool `yaml:"auto_open"`
	Watch    bool `yaml:"watch"`
}

// NewInitCommand creates the init command.
func NewInitCommand() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "init [directory]",
		Short: "Write a starter configuration file",
		Long: `Write a starter nsi.yaml with the default dataset URLs and viewer
settings, ready to edit.`,
		Example: `  # Initialize in current directory
  nsi init

  # Initialize in another directory
  nsi init my-project

  # Overwrite an existing config
  nsi init --force`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := "."
			if len(args) > 0 {
				dir = args[0]
			}
			return runInit(cmd, dir, force)
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "Overwrite existing configuration")

	return cmd
}

func runInit(cmd *cobra.Command, dir string, force bool) error {
	cmdCtx := NewCommandContext(cmd)
	r := cmdCtx.Renderer

	if dir != "." {
		if err := os.MkdirAll(dir, 0o750); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}

	configPath := filepath.Join(dir, "nsi.yaml")
	if _, err := os.Stat(configPath); err == nil && !force {
		return fmt.Errorf("nsi.yaml already exists. Use --force to overwrite")
	}

	starter := starterConfig{
		IndexURL:    dataset.DefaultIndexURL,
		WikidataURL: dataset.DefaultWikidataURL,
		TaginfoURL:  dataset.DefaultTaginfoURL,
		Output:      "auto",
		UI: starterUIConfig{
			Port:     8765,
			AutoOpen: true,
			Watch:    true,
		},
	}

	data, err := yaml.Marshal(starter)
	if err != nil {
		return fmt.Errorf("failed to encode configuration: %w", err)
	}
	if err := os.WriteFile(configPath, data, 0o600); err != nil {
		return fmt.Errorf("failed to write %s: %w", configPath, err)
	}

	r.StatusLine(configPath, "success", "")
	r.Println("")
	r.Success("Configuration written!")
	r.Println("")
	r.Println("Next steps:")
	r.Println("  1. Edit nsi.yaml to point at a local dist/ checkout if you have one")
	r.Println("  2. Run 'nsi serve' to open the viewer")
	r.Println("  3. Run 'nsi list' to see the taxonomy on the command line")

	return nil
}
