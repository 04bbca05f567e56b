package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/samvad-hq/hotboard/internal/app"
	"github.com/samvad-hq/hotboard/internal/config"
	"github.com/samvad-hq/hotboard/internal/logger"
)

// cli carries state shared by every subcommand after the root pre-run.
type cli struct {
	out io.Writer
	cfg *config.Config
	log logger.Logger

	logLevel       string
	cacheType      string
	sourcesFile    string
	publishersFile string
}

func newRootCmd(out io.Writer) *cobra.Command {
	c := &cli{out: out}

	root := &cobra.Command{
		Use:   "hotboard",
		Short: "Trending-topic aggregator for Chinese content platforms",
		Long: `hotboard fetches the hot lists of Toutiao, Weibo, Zhihu and Bilibili,
falling back across sources and a local cache, and publishes refreshed
snapshots to the configured sinks.

Example usage:
  hotboard serve                     # refresh every platform on a timer
  hotboard fetch weibo               # fetch one platform and print JSON
  hotboard fetch 知乎 --source zhihu  # use a single named source
  hotboard cache bilibili            # print the fresh cached list
  hotboard preview https://...       # print page preview metadata
  hotboard sources                   # list configured sources`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return c.init(cmd)
		},
	}

	flags := root.PersistentFlags()
	flags.StringVar(&c.logLevel, "log-level", "", "log level (debug, info, warn, error)")
	flags.StringVar(&c.cacheType, "cache-type", "", "cache backend (file, bbolt, none)")
	flags.StringVar(&c.sourcesFile, "sources-file", "", "sources registry file (default: built-in table)")
	flags.StringVar(&c.publishersFile, "publishers-file", "", "publishers registry file")

	root.AddCommand(
		newServeCmd(c),
		newFetchCmd(c),
		newCacheCmd(c),
		newPreviewCmd(c),
		newSourcesCmd(c),
	)
	return root
}

// init loads config, applies flag overrides and starts the logger.
func (c *cli) init(cmd *cobra.Command) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	flags := cmd.Flags()
	if flags.Changed("log-level") {
		cfg.LogLevel = strings.ToLower(strings.TrimSpace(c.logLevel))
	}
	if flags.Changed("cache-type") {
		cfg.CacheType = c.cacheType
	}
	if flags.Changed("sources-file") {
		cfg.SourcesFile = c.sourcesFile
	}
	if flags.Changed("publishers-file") {
		cfg.PublishersFile = c.publishersFile
	}
	if err := cfg.Normalize(); err != nil {
		return err
	}

	log, err := logger.Init(cfg)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	c.cfg = cfg
	c.log = log
	return nil
}

func (c *cli) board() (*app.Board, error) {
	b, err := app.NewBoard(c.cfg, c.log)
	if err != nil {
		return nil, fmt.Errorf("init board: %w", err)
	}
	return b, nil
}

func (c *cli) printJSON(v any) error {
	enc := json.NewEncoder(c.out)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
