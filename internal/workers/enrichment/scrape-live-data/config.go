// internal/workers/enrichment/scrape-live-data/config.go
package scrapelivedata

import "time"

type Config struct {
	Timeout time.Duration
}

func LoadConfig() *Config {
	return &Config{
		Timeout: 15 * time.Second,
	}
}
