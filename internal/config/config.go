package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds the application configuration loaded from files and environment variables.
type Config struct {
	AppName        string   `mapstructure:"app_name"`
	Env            string   `mapstructure:"app_env"`
	LogLevel       string   `mapstructure:"log_level"`
	SourcesFile    string   `mapstructure:"sources_file"`
	PublishersFile string   `mapstructure:"publishers_file"`
	PlatformsRaw   string   `mapstructure:"platforms"`
	Platforms      []string `mapstructure:"-"`
	DefaultSource  string   `mapstructure:"default_source"`

	RefreshIntervalSeconds int64         `mapstructure:"refresh_interval"`
	RefreshInterval        time.Duration `mapstructure:"-"`
	HTTPTimeoutSeconds     int64         `mapstructure:"http_timeout_seconds"`
	HTTPTimeout            time.Duration `mapstructure:"-"`

	CacheType             string        `mapstructure:"cache_type"`
	CacheDir              string        `mapstructure:"cache_dir"`
	BBoltPath             string        `mapstructure:"bbolt_path"`
	CacheFreshnessSeconds int64         `mapstructure:"cache_freshness_seconds"`
	CacheFreshness        time.Duration `mapstructure:"-"`

	DedupeTTLSeconds     int64         `mapstructure:"dedupe_ttl_seconds"`
	DedupeCleanupSeconds int64         `mapstructure:"dedupe_cleanup_interval_seconds"`
	DedupeTTL            time.Duration `mapstructure:"-"`
	DedupeCleanup        time.Duration `mapstructure:"-"`
}

// Load reads configuration from environment variables and config files.
func Load() (*Config, error) {
	_ = godotenv.Load("configs/.env")

	v := viper.New()

	v.SetDefault("app_name", "hotboard")
	v.SetDefault("app_env", "development")
	v.SetDefault("log_level", "info")
	v.SetDefault("sources_file", "")
	v.SetDefault("publishers_file", "")
	v.SetDefault("platforms", "toutiao,weibo,zhihu,bilibili")
	v.SetDefault("default_source", "auto")
	v.SetDefault("refresh_interval", 300) // seconds
	v.SetDefault("http_timeout_seconds", 30)
	v.SetDefault("cache_type", "file")
	v.SetDefault("cache_dir", "./data/cache/hot")
	v.SetDefault("bbolt_path", "./data/cache.db")
	v.SetDefault("cache_freshness_seconds", 300)
	v.SetDefault("dedupe_ttl_seconds", int64(time.Hour/time.Second))
	v.SetDefault("dedupe_cleanup_interval_seconds", int64((10*time.Minute)/time.Second))

	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if err := cfg.Normalize(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Normalize validates the raw values and derives durations and lists from them.
// It is re-run by callers that override fields after Load (e.g. CLI flags).
func (c *Config) Normalize() error {
	if c.RefreshIntervalSeconds <= 0 {
		return fmt.Errorf("invalid refresh_interval (must be positive seconds)")
	}
	if c.HTTPTimeoutSeconds <= 0 {
		return fmt.Errorf("invalid http_timeout_seconds (must be positive seconds)")
	}
	if c.CacheFreshnessSeconds <= 0 {
		return fmt.Errorf("invalid cache_freshness_seconds (must be positive seconds)")
	}
	if c.DedupeTTLSeconds <= 0 {
		return fmt.Errorf("invalid dedupe_ttl_seconds (must be positive seconds)")
	}
	if c.DedupeCleanupSeconds <= 0 {
		return fmt.Errorf("invalid dedupe_cleanup_interval_seconds (must be positive seconds)")
	}

	c.RefreshInterval = time.Duration(c.RefreshIntervalSeconds) * time.Second
	c.HTTPTimeout = time.Duration(c.HTTPTimeoutSeconds) * time.Second
	c.CacheFreshness = time.Duration(c.CacheFreshnessSeconds) * time.Second
	c.DedupeTTL = time.Duration(c.DedupeTTLSeconds) * time.Second
	c.DedupeCleanup = time.Duration(c.DedupeCleanupSeconds) * time.Second
	c.Platforms = splitList(c.PlatformsRaw)
	if strings.TrimSpace(c.DefaultSource) == "" {
		c.DefaultSource = "auto"
	}

	return nil
}

func splitList(raw string) []string {
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
