// Package config provides configuration loading for the nsi CLI.
//
// Settings layer defaults, an optional nsi.yaml file, NSI_-prefixed
// environment variables, and command-line flags, in increasing order of
// precedence.
package config

// Config holds all CLI configuration options.
type Config struct {
	IndexURL     string    `koanf:"index_url"`
	WikidataURL  string    `koanf:"wikidata_url"`
	TaginfoURL   string    `koanf:"taginfo_url"`
	DataDir      string    `koanf:"data_dir"`
	Verbose      bool      `koanf:"verbose"`
	OutputFormat string    `koanf:"output"`
	UI           *UIConfig `koanf:"ui"`
}

// UIConfig holds configuration for the viewer server.
type UIConfig struct {
	Port          int    `koanf:"port"`
	AutoOpen      bool   `koanf:"auto_open"`
	Watch         bool   `koanf:"watch"`
	SessionSecret string `koanf:"session_secret"`
}

// DefaultUIConfig returns a UIConfig with default values.
func DefaultUIConfig() *UIConfig {
	return &UIConfig{
		Port:     8765,
		AutoOpen: true,
		Watch:    true,
	}
}

// GetUIConfig returns the UI config with defaults applied for any unset
// values.
func (c *Config) GetUIConfig() *UIConfig {
	if c.UI == nil {
		return DefaultUIConfig()
	}
	ui := c.UI
	if ui.Port == 0 {
		ui.Port = 8765
	}
	return ui
}

// Default configuration values.
const (
	DefaultOutput = "auto" // Auto-detect: TTY=text, non-TTY=markdown
)
