package config

import (
	"os"
	"time"

	"github.com/dmitrijs2005/shalo/internal/flagx"
)

// Config holds runtime settings for the Shalo CLI.
//
// Fields:
//   - APIBaseURL: base URL of the resource API, including the version prefix.
//   - DatabasePath: SQLite file holding the persisted credential.
//   - RequestTimeout: upper bound for a single API call.
//   - LogLevel: slog level name.
//   - PageSize: cards per page on the home and bookmarks listings.
//   - TrendingPageSize: rows per page on the trending listing.
type Config struct {
	APIBaseURL       string
	DatabasePath     string
	RequestTimeout   time.Duration
	LogLevel         string
	PageSize         int
	TrendingPageSize int
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.APIBaseURL = "https://shalo-api.vta-group.tech/api/v1"
	c.DatabasePath = "shalo.db"
	c.RequestTimeout = 10 * time.Second
	c.LogLevel = "warn"
	c.PageSize = 6
	c.TrendingPageSize = 5
}

// LoadConfig constructs a Config from defaults, the optional JSON file, the
// environment and finally the command-line flags.
func LoadConfig() (*Config, error) {
	return load(os.Args[1:])
}

func load(args []string) (*Config, error) {
	cfg := &Config{}
	cfg.LoadDefaults()
	if err := parseJson(cfg, flagx.ConfigPath(args)); err != nil {
		return nil, err
	}
	parseEnv(cfg)
	if err := parseFlags(cfg, args); err != nil {
		return nil, err
	}
	return cfg, nil
}

func parseEnv(cfg *Config) {
	if v, ok := os.LookupEnv("SHALO_API_URL"); ok && v != "" {
		cfg.APIBaseURL = v
	}
	if v, ok := os.LookupEnv("SHALO_DB_PATH"); ok && v != "" {
		cfg.DatabasePath = v
	}
	if v, ok := os.LookupEnv("SHALO_LOG_LEVEL"); ok && v != "" {
		cfg.LogLevel = v
	}
}
