// Package config defines the application configuration loaded by viper.
package config

import "time"

// Config holds all application configuration.
type Config struct {
	Catalog       Catalog       `mapstructure:"catalog"`
	Scraper       Scraper       `mapstructure:"scraper"`
	Query         Query         `mapstructure:"query"`
	Storage       Storage       `mapstructure:"storage"`
	Elasticsearch Elasticsearch `mapstructure:"elasticsearch"`
	MCP           MCP           `mapstructure:"mcp"`
}

// Catalog locates the snapshot file the directory is served from.
type Catalog struct {
	Path  string `mapstructure:"path"`
	Watch bool   `mapstructure:"watch"` // reload when the file is replaced
}

// Scraper holds web scraping configuration.
type Scraper struct {
	ListingURL   string        `mapstructure:"listing_url"`
	LinkSelector string        `mapstructure:"link_selector"`
	Delay        time.Duration `mapstructure:"delay"`
	Timeout      time.Duration `mapstructure:"timeout"`
	UserAgent    string        `mapstructure:"user_agent"`
	MaxTools     int           `mapstructure:"max_tools"`
	Selectors    Selectors     `mapstructure:"selectors"`
}

// Selectors overrides the detail page CSS selectors. Empty values keep
// the built-in defaults.
type Selectors struct {
	Name        string `mapstructure:"name"`
	Description string `mapstructure:"description"`
	Website     string `mapstructure:"website"`
	Categories  string `mapstructure:"categories"`
	Pricing     string `mapstructure:"pricing"`
	Features    string `mapstructure:"features"`
	Rating      string `mapstructure:"rating"`
	Reviews     string `mapstructure:"reviews"`
}

// Query holds listing defaults.
type Query struct {
	PageSize int `mapstructure:"page_size"`
}

// Storage holds S3/MinIO storage configuration.
type Storage struct {
	Enabled         bool   `mapstructure:"enabled"`
	Endpoint        string `mapstructure:"endpoint"`
	Bucket          string `mapstructure:"bucket"`
	AccessKeyID     string `mapstructure:"access_key_id"`
	SecretAccessKey string `mapstructure:"secret_access_key"`
	UseSSL          bool   `mapstructure:"use_ssl"`
}

// Elasticsearch holds ES connection configuration.
type Elasticsearch struct {
	Enabled   bool     `mapstructure:"enabled"`
	Addresses []string `mapstructure:"addresses"`
	Index     string   `mapstructure:"index"`
	Username  string   `mapstructure:"username"`
	Password  string   `mapstructure:"password"`
}

// MCP holds MCP server configuration.
type MCP struct {
	Name    string `mapstructure:"name"`
	Version string `mapstructure:"version"`
}

// Defaults returns a Config with sensible default values.
func Defaults() Config {
	return Config{
		Catalog: Catalog{
			Path:  "data/catalog.json",
			Watch: true,
		},
		Scraper: Scraper{
			ListingURL:   "https://theresanaiforthat.com/ai-directory/",
			LinkSelector: `a[href^="/ai/"]`,
			Delay:        1 * time.Second,
			Timeout:      60 * time.Second,
			UserAgent:    "Mozilla/5.0 (compatible; aitools/1.0)",
			MaxTools:     50,
		},
		Query: Query{
			PageSize: 24,
		},
		Storage: Storage{
			Enabled:         false, // uploads need a reachable MinIO/S3 endpoint
			Endpoint:        "localhost:9000",
			Bucket:          "aitools",
			AccessKeyID:     "minioadmin",
			SecretAccessKey: "minioadmin",
			UseSSL:          false,
		},
		Elasticsearch: Elasticsearch{
			Enabled:   false,
			Addresses: []string{"http://localhost:9200"},
			Index:     "aitools",
		},
		MCP: MCP{
			Name:    "aitools",
			Version: "1.0.0",
		},
	}
}
