// internal/workers/enrichment/enrich-itinerary/config.go
package enrichitinerary

type Config struct {
	// ConcurrencyLimit caps in-flight place enrichments for one handler.
	// Process-wide tunable; every orchestration through the same handler
	// shares the same limiter.
	ConcurrencyLimit int
}

func LoadConfig() *Config {
	return &Config{
		ConcurrencyLimit: 8,
	}
}
