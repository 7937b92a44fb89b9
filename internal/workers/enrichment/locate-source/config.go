// internal/workers/enrichment/locate-source/config.go
package locatesource

import "time"

type Config struct {
	SearchAPIBaseURL string
	SearchAPIKey     string
	SearchEngineID   string
	Timeout          time.Duration
	MaxResults       int
	CacheTTL         time.Duration
}

func LoadConfig() *Config {
	return &Config{
		Timeout:    10 * time.Second,
		MaxResults: 5,
		CacheTTL:   6 * time.Hour,
	}
}
