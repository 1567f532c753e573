// internal/workers/conversation/parse-query/config.go
package parsequery

import "time"

type Config struct {
	// MultiTeamHints selects the behavior when an utterance names two
	// different teams: "first" keeps the first mention, "reject" raises
	// an ambiguity for clarification.
	MultiTeamHints string
	Timeout        time.Duration
}

func LoadConfig() *Config {
	return &Config{
		MultiTeamHints: "first",
		Timeout:        10 * time.Second,
	}
}
