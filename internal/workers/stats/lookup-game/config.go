// internal/workers/stats/lookup-game/config.go
package lookupgame

import "time"

type Config struct {
	ScheduleBaseURL string
	Timeout         time.Duration
	MaxRetries      int
}

func LoadConfig() *Config {
	return &Config{
		Timeout:    15 * time.Second,
		MaxRetries: 2,
	}
}
