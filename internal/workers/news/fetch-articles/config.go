// internal/workers/news/fetch-articles/config.go
package fetcharticles

import (
	"time"

	"gridiron-workers/internal/common/config"
)

type Config struct {
	Sources       []config.NewsSourceConfig
	SourceTimeout time.Duration
	Timeout       time.Duration
}

func LoadConfig() *Config {
	return &Config{
		SourceTimeout: 5 * time.Second,
		Timeout:       30 * time.Second,
	}
}
