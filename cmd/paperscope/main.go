// Package main provides the paperscope CLI entry point.
package main

import (
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/matsen/paperscope/internal/config"
)

// Version is set at build time via ldflags
var Version = "dev"

// humanOutput controls whether to use human-readable output
var humanOutput bool

// configPath overrides the default config file location
var configPath string

func main() {
	// Load .env if present; environment overrides config file values.
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		os.Exit(ExitError)
	}
}

var rootCmd = &cobra.Command{
	Use:   "paperscope",
	Short: "Semantic search over scientific papers",
	Long: `paperscope ingests papers from the arXiv feed, embeds their abstracts,
and serves similarity search over the result.

Run 'paperscope serve' to start the HTTP service, or use 'ingest' and
'search' for one-shot operations against local data. All commands output
JSON by default.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&humanOutput, "human", false, "Use human-readable output instead of JSON")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to config file (default ~/.config/paperscope/config.yml)")
	rootCmd.Version = Version
}

// loadConfig resolves the configuration for the current invocation.
func loadConfig() (*config.Config, error) {
	path := configPath
	if path == "" {
		path = config.DefaultPath()
	}
	return config.Load(path)
}
