// internal/workers/conversation/resolve-entity/config.go
package resolveentity

import "time"

type Config struct {
	// FuzzyThreshold is the minimum Levenshtein ratio for the typo fallback.
	FuzzyThreshold float64
	Timeout        time.Duration
}

func LoadConfig() *Config {
	return &Config{
		FuzzyThreshold: 0.80,
		Timeout:        10 * time.Second,
	}
}
