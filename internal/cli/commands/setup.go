// Package commands implements the nsi subcommands.
package commands

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/ldez/name-suggestion-index/internal/cli/config"
	"github.com/ldez/name-suggestion-index/internal/cli/output"
	"github.com/ldez/name-suggestion-index/internal/dataset"
)

// CommandContext holds common dependencies for CLI commands.
type CommandContext struct {
	Cfg      *config.Config
	Logger   *slog.Logger
	Catalog  *dataset.Catalog
	Renderer *output.Renderer
}

// NewCommandContext creates a CommandContext with a catalog and renderer.
// The catalog is not loaded yet; commands that need data call LoadCatalog.
func NewCommandContext(cmd *cobra.Command) *CommandContext {
	cfg := getConfig()
	logger := config.GetLogger(cmd.Context())

	mode := output.Mode(cfg.OutputFormat)
	r := output.NewRenderer(cmd.OutOrStdout(), cmd.ErrOrStderr(), mode)

	return &CommandContext{
		Cfg:      cfg,
		Logger:   logger,
		Catalog:  newCatalog(cfg, logger),
		Renderer: r,
	}
}

// LoadCatalog fetches and indexes the datasets.
func (c *CommandContext) LoadCatalog(ctx context.Context) error {
	if err := c.Catalog.Load(ctx); err != nil {
		return fmt.Errorf("loading datasets: %w", err)
	}
	return nil
}

// newCatalog builds a catalog from the configured sources.
func newCatalog(cfg *config.Config, logger *slog.Logger) *dataset.Catalog {
	refs := dataset.DefaultRefs()
	if cfg.IndexURL != "" {
		refs.Index = cfg.IndexURL
	}
	if cfg.WikidataURL != "" {
		refs.Wikidata = cfg.WikidataURL
	}
	if cfg.TaginfoURL != "" {
		refs.Taginfo = cfg.TaginfoURL
	}

	var source dataset.Source = dataset.NewHTTPSource()
	if cfg.DataDir != "" {
		source = dataset.NewFileSource(cfg.DataDir)
	}

	return dataset.NewCatalog(source, refs, logger)
}

// getConfig returns the current configuration. It uses the loaded config if
// available, otherwise falls back to environment variables.
func getConfig() *config.Config {
	if cfg := config.GetCurrentConfig(); cfg != nil {
		return cfg
	}

	return &config.Config{
		IndexURL:     os.Getenv("NSI_INDEX_URL"),
		WikidataURL:  os.Getenv("NSI_WIKIDATA_URL"),
		TaginfoURL:   os.Getenv("NSI_TAGINFO_URL"),
		DataDir:      os.Getenv("NSI_DATA_DIR"),
		Verbose:      os.Getenv("NSI_VERBOSE") == "true",
		OutputFormat: getEnvOrDefault("NSI_OUTPUT", config.DefaultOutput),
	}
}

func getEnvOrDefault(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}
