// internal/workers/stats/player-stats/config.go
package playerstats

import "time"

type Config struct {
	StatsBaseURL string
	APIKey       string
	Timeout      time.Duration
	MaxRetries   int
}

func LoadConfig() *Config {
	return &Config{
		Timeout:    15 * time.Second,
		MaxRetries: 2,
	}
}
