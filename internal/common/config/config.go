// internal/common/config/config.go
package config

import "fmt"

// Config is the main application configuration struct.
type Config struct {
	App      AppConfig               `mapstructure:"app"`
	Camunda  CamundaConfig           `mapstructure:"camunda"`
	Database DatabaseConfig          `mapstructure:"database"`
	Catalog  CatalogConfig           `mapstructure:"catalog"`
	NLU      NLUConfig               `mapstructure:"nlu"`
	News     NewsConfig              `mapstructure:"news"`
	APIs     APIsConfig              `mapstructure:"apis"`
	Workers  map[string]WorkerConfig `mapstructure:"workers"`
	Logging  LoggingConfig           `mapstructure:"logging"`
}

// --- Core App/Infrastructure Config ---
type AppConfig struct {
	Name        string `mapstructure:"name"`
	Version     string `mapstructure:"version"`
	Environment string `mapstructure:"environment"`
}

type CamundaConfig struct {
	BrokerAddress  string `mapstructure:"broker_address"`
	MaxJobsActive  int    `mapstructure:"max_jobs_active"`
	Timeout        int    `mapstructure:"timeout"`         // milliseconds
	RequestTimeout int    `mapstructure:"request_timeout"` // milliseconds
}

type DatabaseConfig struct {
	Postgres PostgresConfig `mapstructure:"postgres"`
	Redis    RedisConfig    `mapstructure:"redis"`
}

type PostgresConfig struct {
	Host           string `mapstructure:"host"`
	Port           int    `mapstructure:"port"`
	Database       string `mapstructure:"database"`
	User           string `mapstructure:"user"`
	Password       string `mapstructure:"password"`
	MaxConnections int    `mapstructure:"max_connections"`
	MaxIdle        int    `mapstructure:"max_idle"`
	SSLMode        string `mapstructure:"sslmode"`
}

// GetDSN returns the PostgreSQL connection string
func (p PostgresConfig) GetDSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		p.Host, p.Port, p.User, p.Password, p.Database, p.SSLMode,
	)
}

type RedisConfig struct {
	Address  string `mapstructure:"address"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

// WorkerConfig holds the core settings applicable to every worker.
type WorkerConfig struct {
	Enabled       bool `mapstructure:"enabled"`
	MaxJobsActive int  `mapstructure:"max_jobs_active"`
	Timeout       int  `mapstructure:"timeout"`     // milliseconds
	MaxRetries    int  `mapstructure:"max_retries"` // For error handling
}

// --- Specific Configuration Sections ---

// CatalogConfig holds settings for the reference catalog.
type CatalogConfig struct {
	CacheTTL     int    `mapstructure:"cache_ttl"` // milliseconds
	CacheKey     string `mapstructure:"cache_key"`
	SeedPath     string `mapstructure:"seed_path"`
	ReloadPeriod int    `mapstructure:"reload_period"` // milliseconds, 0 disables
}

// NLUConfig holds tuning knobs for tokenization and entity resolution.
type NLUConfig struct {
	FuzzyThreshold float64 `mapstructure:"fuzzy_threshold"`
	// MultiTeamHints selects the policy for utterances mentioning more than
	// one team: "first" keeps the first hint, "reject" raises AMBIGUOUS_ENTITY.
	MultiTeamHints string `mapstructure:"multi_team_hints"`
}

// NewsConfig holds settings for news fetching and relevance scoring.
type NewsConfig struct {
	Sources         []NewsSourceConfig `mapstructure:"sources"`
	SourceWeights   map[string]float64 `mapstructure:"source_weights"`
	AcceptThreshold float64            `mapstructure:"accept_threshold"`
	DedupThreshold  float64            `mapstructure:"dedup_threshold"`
	TitleWeight     float64            `mapstructure:"title_weight"`
	BodyWeight      float64            `mapstructure:"body_weight"`
	RecencyHalfLife int                `mapstructure:"recency_half_life"` // milliseconds
	MaxArticles     int                `mapstructure:"max_articles"`
	SourceTimeout   int                `mapstructure:"source_timeout"` // milliseconds per source
}

// NewsSourceConfig describes one RSS/Atom feed to aggregate.
type NewsSourceConfig struct {
	Name     string `mapstructure:"name"`
	URL      string `mapstructure:"url"`
	Priority int    `mapstructure:"priority"` // lower is higher priority, tie-break only
}

// APIsConfig holds settings for external sports data APIs.
type APIsConfig struct {
	Schedule struct {
		BaseURL string `mapstructure:"base_url"`
		Timeout int    `mapstructure:"timeout"` // milliseconds
	} `mapstructure:"schedule"`

	FantasyStats struct {
		BaseURL string `mapstructure:"base_url"`
		APIKey  string `mapstructure:"api_key"`
		Timeout int    `mapstructure:"timeout"` // milliseconds
	} `mapstructure:"fantasy_stats"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
	Output string `mapstructure:"output"`
}
