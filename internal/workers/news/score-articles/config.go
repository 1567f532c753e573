// internal/workers/news/score-articles/config.go
package scorearticles

import (
	"time"

	"gridiron-workers/internal/news"
)

type Config struct {
	Scorer      news.ScorerConfig
	MaxArticles int
	Timeout     time.Duration
}

func LoadConfig() *Config {
	return &Config{
		Scorer: news.ScorerConfig{
			TitleWeight:     2.0,
			BodyWeight:      1.0,
			AcceptThreshold: 1.0,
			DedupThreshold:  0.6,
			RecencyHalfLife: 48 * time.Hour,
		},
		MaxArticles: 6,
		Timeout:     10 * time.Second,
	}
}
