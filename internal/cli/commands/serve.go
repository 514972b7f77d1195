package commands

import (
	"fmt"
	"os"
	"os/exec"
	"os/signal"
	"runtime"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/ldez/name-suggestion-index/internal/cli/config"
	"github.com/ldez/name-suggestion-index/internal/ui"
)

// ServeOptions holds options for the serve command.
type ServeOptions struct {
	Port      int
	NoBrowser bool
	Watch     bool
}

// NewServeCommand creates the serve command.
func NewServeCommand() *cobra.Command {
	opts := &ServeOptions{}

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the local taxonomy viewer",
		Long: `Start a local web server for browsing the taxonomy.

The viewer provides:
- Overview pages per tree, grouped by key
- Category pages with items, tags, and wikidata descriptions
- Deep links via the id query parameter
- Live reload when serving a local dist/ directory with --watch`,
		Example: `  # Serve the published datasets
  nsi serve

  # Serve on a custom port
  nsi serve --port 3000

  # Serve a local checkout and reload on changes
  nsi serve --data-dir ~/name-suggestion-index/dist --watch`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runServe(cmd, opts)
		},
	}

	cmd.Flags().IntVar(&opts.Port, "port", 0, "Port to serve on (default: 8765)")
	cmd.Flags().BoolVar(&opts.NoBrowser, "no-browser", false, "Don't auto-open browser")
	cmd.Flags().BoolVar(&opts.Watch, "watch", true, "Watch the data directory for changes")

	return cmd
}

func runServe(cmd *cobra.Command, opts *ServeOptions) error {
	cfg := getConfig()
	logger := config.GetLogger(cmd.Context())

	uiCfg := cfg.GetUIConfig()

	// CLI flags override config file
	port := uiCfg.Port
	if opts.Port != 0 {
		port = opts.Port
	}

	autoOpen := uiCfg.AutoOpen
	if opts.NoBrowser {
		autoOpen = false
	}

	watch := uiCfg.Watch
	if cmd.Flags().Changed("watch") {
		watch = opts.Watch
	}

	if cfg.DataDir != "" {
		if _, err := os.Stat(cfg.DataDir); os.IsNotExist(err) {
			return fmt.Errorf("data directory does not exist: %s", cfg.DataDir)
		}
	}

	serverCfg := ui.Config{
		Catalog:       newCatalog(cfg, logger),
		Port:          port,
		DataDir:       cfg.DataDir,
		Watch:         watch,
		SessionSecret: sessionSecret(uiCfg),
		Logger:        logger,
	}

	server := ui.NewServer(serverCfg)

	if autoOpen {
		url := fmt.Sprintf("http://localhost:%d", port)
		go openBrowser(url)
	}

	fmt.Printf("Starting viewer on http://localhost:%d\n", port)
	fmt.Println("Press Ctrl+C to stop")

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return server.Serve(ctx)
}

// sessionSecret resolves the cookie session secret. The env var wins, then
// the config file, then a fixed development default.
func sessionSecret(uiCfg *config.UIConfig) string {
	if secret := os.Getenv("NSI_SESSION_SECRET"); secret != "" {
		return secret
	}
	if uiCfg.SessionSecret != "" {
		return uiCfg.SessionSecret
	}
	return "nsi-dev-secret-change-in-production" //nolint:gosec
}

// openBrowser opens the default browser to the specified URL.
func openBrowser(url string) {
	var cmd *exec.Cmd

	switch runtime.GOOS {
	case "darwin":
		cmd = exec.Command("open", url) //nolint:noctx
	case "linux":
		cmd = exec.Command("xdg-open", url) //nolint:noctx
	case "windows":
		cmd = exec.Command("rundll32", "url.dll,FileProtocolHandler", url) //nolint:noctx
	default:
		return
	}

	_ = cmd.Start()
}
