package cmd

import (
	"log/slog"
	"os"
	"strings"

	"github.com/mfenderov/aitools/internal/config"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	cfgFile     string
	catalogPath string
	verbose     bool
	cfg         config.Config
)

// GetConfig returns the loaded configuration.
func GetConfig() config.Config {
	return cfg
}

var rootCmd = &cobra.Command{
	Use:   "aitools",
	Short: "aitools: a directory of AI tools",
	Long: `aitools scrapes an AI tools directory into a catalog snapshot and
answers search, category and detail queries over it, from the command
line or as an MCP server.

Commands:
  scrape      Scrape the directory and write a new snapshot
  search      Search the catalog
  list        Browse the catalog page by page
  categories  List categories with tool counts
  show        Show one tool
  featured    Show the most reviewed tools
  index       Mirror the snapshot into Elasticsearch
  pull        Download the latest published snapshot
  serve       Start the MCP server`,
	SilenceUsage: true,
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initConfig, initLogger)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./config/config.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose logging")
	rootCmd.PersistentFlags().StringVar(&catalogPath, "catalog", "", "snapshot file (overrides catalog.path)")
}

func initLogger() {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}

	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	})
	slog.SetDefault(slog.New(handler))
}

func initConfig() {
	cfg = config.Defaults()

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("config")
		viper.SetConfigType("yaml")
		viper.AddConfigPath("./config")
		viper.AddConfigPath("/etc/aitools")
		viper.AddConfigPath(".")
	}

	// AITOOLS_SCRAPER_MAX_TOOLS -> scraper.max_tools
	viper.SetEnvPrefix("AITOOLS")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	// Nested keys are only seen by Unmarshal once bound
	for _, key := range []string{
		"catalog.path",
		"catalog.watch",
		"scraper.listing_url",
		"scraper.link_selector",
		"scraper.delay",
		"scraper.timeout",
		"scraper.user_agent",
		"scraper.max_tools",
		"query.page_size",
		"storage.enabled",
		"storage.endpoint",
		"storage.bucket",
		"storage.access_key_id",
		"storage.secret_access_key",
		"storage.use_ssl",
		"elasticsearch.enabled",
		"elasticsearch.index",
		"elasticsearch.username",
		"elasticsearch.password",
		"mcp.name",
		"mcp.version",
	} {
		viper.BindEnv(key, "AITOOLS_"+strings.ToUpper(strings.ReplaceAll(key, ".", "_")))
	}

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			slog.Warn("config file error", "error", err)
		}
	}

	if err := viper.Unmarshal(&cfg); err != nil {
		slog.Warn("failed to parse config", "error", err)
	}

	// Addresses arrive from the environment as one comma-separated string
	if addrs := os.Getenv("AITOOLS_ELASTICSEARCH_ADDRESSES"); addrs != "" {
		cfg.Elasticsearch.Addresses = strings.Split(addrs, ",")
	}

	if catalogPath != "" {
		cfg.Catalog.Path = catalogPath
	}
}
