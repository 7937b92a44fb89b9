// internal/common/config/config.go
package config

import (
	"fmt"
	"time"
)

// Config is the main application configuration struct.
type Config struct {
	App        AppConfig        `mapstructure:"app"`
	Server     ServerConfig     `mapstructure:"server"`
	Scraper    ScraperConfig    `mapstructure:"scraper"`
	Search     SearchConfig     `mapstructure:"search"`
	Enrichment EnrichmentConfig `mapstructure:"enrichment"`
	Redis      RedisConfig      `mapstructure:"redis"`
	Logging    LoggingConfig    `mapstructure:"logging"`
}

// --- Core App/Infrastructure Config ---
type AppConfig struct {
	Name        string `mapstructure:"name"`
	Version     string `mapstructure:"version"`
	Environment string `mapstructure:"environment"`
}

type ServerConfig struct {
	Port            int      `mapstructure:"port"`
	MetricsPort     int      `mapstructure:"metrics_port"`
	MaxBodyBytes    int64    `mapstructure:"max_body_bytes"`
	ShutdownTimeout int      `mapstructure:"shutdown_timeout"` // seconds
	AllowedOrigins  []string `mapstructure:"allowed_origins"`
}

// ScraperConfig holds settings for the outbound fetch/parse stage.
type ScraperConfig struct {
	Timeout        int      `mapstructure:"timeout"` // seconds
	UserAgents     []string `mapstructure:"user_agents"`
	HostRatePerSec float64  `mapstructure:"host_rate_per_sec"`
	HostRateBurst  int      `mapstructure:"host_rate_burst"`
}

func (s ScraperConfig) RequestTimeout() time.Duration {
	return time.Duration(s.Timeout) * time.Second
}

// SearchConfig holds settings for the external web search API.
type SearchConfig struct {
	BaseURL    string `mapstructure:"base_url"`
	APIKey     string `mapstructure:"api_key"`
	EngineID   string `mapstructure:"engine_id"`
	MaxResults int    `mapstructure:"max_results"`
	Timeout    int    `mapstructure:"timeout"` // seconds
}

func (s SearchConfig) RequestTimeout() time.Duration {
	return time.Duration(s.Timeout) * time.Second
}

// EnrichmentConfig bounds the concurrent enrichment work per process.
type EnrichmentConfig struct {
	ConcurrencyLimit int `mapstructure:"concurrency_limit"`
	CacheTTLMinutes  int `mapstructure:"cache_ttl_minutes"`
}

func (e EnrichmentConfig) CacheTTL() time.Duration {
	return time.Duration(e.CacheTTLMinutes) * time.Minute
}

type RedisConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	Address  string `mapstructure:"address"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// DefaultUserAgents is the built-in pool used when no override is configured.
// Rotating identities reduces trivial anti-scraping blocks.
var DefaultUserAgents = []string{
	"Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/109.0.0.0 Safari/537.36",
	"Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/109.0.0.0 Safari/537.36",
	"Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/110.0.0.0 Safari/537.36",
	"Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/605.1.15 (KHTML, like Gecko) Version/16.3 Safari/605.1.15",
	"Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/109.0.0.0 Safari/537.36",
}

func validateConfig(cfg *Config) error {
	if cfg.Enrichment.ConcurrencyLimit <= 0 {
		return fmt.Errorf("enrichment.concurrency_limit must be positive, got %d", cfg.Enrichment.ConcurrencyLimit)
	}
	if cfg.Scraper.Timeout <= 0 {
		return fmt.Errorf("scraper.timeout must be positive, got %d", cfg.Scraper.Timeout)
	}
	if cfg.Server.MaxBodyBytes <= 0 {
		return fmt.Errorf("server.max_body_bytes must be positive, got %d", cfg.Server.MaxBodyBytes)
	}
	return nil
}
