package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/seo-optimizer/contentscore/analyzer"
	"github.com/seo-optimizer/contentscore/config"
	"github.com/seo-optimizer/contentscore/logging"
)

var Version = "dev"

func newRootCmd() *cobra.Command {
	var configPath string

	root := &cobra.Command{
		Use:     "contentscore",
		Version: Version,
		Short:   "Score article drafts for search readiness",
		Long: `contentscore grades an article draft the way a search-minded editor would:
keyword placement, readability, structure and the search result preview.
It runs as an HTTP API for editors, or directly against draft files.`,
		SilenceUsage: true,
	}
	root.PersistentFlags().StringVar(&configPath, "config", "", "path to a YAML config file")

	loadConfig := func() (*config.Config, error) {
		return config.Load(configPath)
	}

	root.AddCommand(
		newServeCmd(loadConfig),
		newAnalyzeCmd(loadConfig),
		newWatchCmd(loadConfig),
	)
	return root
}

// Execute runs the root command
func Execute() error {
	return newRootCmd().Execute()
}

func main() {
	if err := Execute(); err != nil {
		os.Exit(1)
	}
}

// newLogger builds the service logger from config
func newLogger(cfg *config.Config) (*zap.Logger, error) {
	logger, err := logging.New(logging.Config{
		Level:       cfg.Logging.Level,
		Development: cfg.Server.DevMode,
	})
	if err != nil {
		return nil, fmt.Errorf("create logger: %w", err)
	}
	return logger, nil
}

// analyzerOptions maps config onto analyzer options
func analyzerOptions(cfg *config.Config, logger *zap.Logger) analyzer.Options {
	opts := analyzer.DefaultOptions()
	opts.BaseURL = cfg.Analyzer.BaseURL
	opts.SiteDomain = cfg.Analyzer.SiteDomain
	opts.CacheTTL = cfg.Analyzer.CacheTTL
	opts.MaxCacheSize = cfg.Analyzer.CacheSize
	opts.Logger = logger
	return opts
}
