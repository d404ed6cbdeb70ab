package config

import (
	"time"
)

// Version is set at build time via ldflags.
var Version = "dev"

// Config is the root configuration for newsdigest.
type Config struct {
	Search    SearchConfig    `mapstructure:"search"    yaml:"search"`
	Extractor ExtractorConfig `mapstructure:"extractor" yaml:"extractor"`
	Filter    FilterConfig    `mapstructure:"filter"    yaml:"filter"`
	Keywords  KeywordsConfig  `mapstructure:"keywords"  yaml:"keywords"`
	Ledger    LedgerConfig    `mapstructure:"ledger"    yaml:"ledger"`
	AI        AIConfig        `mapstructure:"ai"        yaml:"ai"`
	Pipeline  PipelineConfig  `mapstructure:"pipeline"  yaml:"pipeline"`
	Logging   LoggingConfig   `mapstructure:"logging"   yaml:"logging"`
}

// SearchConfig controls the aggregator search client.
type SearchConfig struct {
	Endpoint       string        `mapstructure:"endpoint"        yaml:"endpoint"`
	MaxRetries     int           `mapstructure:"max_retries"     yaml:"max_retries"`
	RetryDelayMin  time.Duration `mapstructure:"retry_delay_min" yaml:"retry_delay_min"`
	RetryDelayMax  time.Duration `mapstructure:"retry_delay_max" yaml:"retry_delay_max"`
	RequestTimeout time.Duration `mapstructure:"request_timeout" yaml:"request_timeout"`
	UserAgent      string        `mapstructure:"user_agent"      yaml:"user_agent"`
	Origin         string        `mapstructure:"origin"          yaml:"origin"`
	Referer        string        `mapstructure:"referer"         yaml:"referer"`
	ClientVersion  string        `mapstructure:"client_version"  yaml:"client_version"`
}

// ExtractorConfig controls detail-page fetching and extraction.
type ExtractorConfig struct {
	ArticleURLTemplate string `mapstructure:"article_url_template" yaml:"article_url_template"`
	RenderParam        string `mapstructure:"render_param"         yaml:"render_param"`
	MaxBodySize        int64  `mapstructure:"max_body_size"        yaml:"max_body_size"`
}

// FilterConfig controls the recency and relevance filters.
type FilterConfig struct {
	// RecencyWindow is the trailing window measured back from now.
	// Candidates with no parseable timestamp are accepted regardless.
	RecencyWindow time.Duration `mapstructure:"recency_window" yaml:"recency_window"`

	// RelevanceEnabled turns on the LLM-backed domestic-news filter.
	RelevanceEnabled bool `mapstructure:"relevance_enabled" yaml:"relevance_enabled"`
}

// KeywordsConfig controls the keyword taxonomy source.
type KeywordsConfig struct {
	// Path to the Category,Keyword,Active CSV sheet. Empty means use the
	// compiled-in fallback taxonomy.
	Path string `mapstructure:"path" yaml:"path"`

	// CacheTTL bounds how long a loaded taxonomy is reused before reload.
	CacheTTL time.Duration `mapstructure:"cache_ttl" yaml:"cache_ttl"`
}

// LedgerConfig controls ledger persistence.
type LedgerConfig struct {
	// DataDir holds the per-day CSV ledgers and digest output tables.
	DataDir string `mapstructure:"data_dir" yaml:"data_dir"`

	// Mongo enables the optional archive store.
	Mongo MongoConfig `mapstructure:"mongo" yaml:"mongo"`
}

// MongoConfig configures the MongoDB archive store.
type MongoConfig struct {
	Enabled    bool   `mapstructure:"enabled"    yaml:"enabled"`
	URI        string `mapstructure:"uri"        yaml:"uri"`
	Database   string `mapstructure:"database"   yaml:"database"`
	Collection string `mapstructure:"collection" yaml:"collection"`
}

// AIConfig controls LLM integration for relevance filtering and digests.
type AIConfig struct {
	Enabled     bool    `mapstructure:"enabled"     yaml:"enabled"`
	Provider    string  `mapstructure:"provider"    yaml:"provider"`
	Model       string  `mapstructure:"model"       yaml:"model"`
	Endpoint    string  `mapstructure:"endpoint"    yaml:"endpoint"`
	APIKey      string  `mapstructure:"api_key"     yaml:"api_key"`
	Temperature float64 `mapstructure:"temperature" yaml:"temperature"`

	// PromptsPath is an optional "Prompt Name,Prompt Text,Active" CSV sheet
	// overriding the compiled-in prompt templates.
	PromptsPath string `mapstructure:"prompts_path" yaml:"prompts_path"`
}

// PipelineConfig controls run orchestration.
type PipelineConfig struct {
	// RequestDelay is the fixed inter-request sleep after each search call
	// and after each successful ledger write. Manual backpressure, not a
	// token bucket.
	RequestDelay time.Duration `mapstructure:"request_delay" yaml:"request_delay"`

	// SnapshotDir receives a local CSV copy of each run's new records.
	SnapshotDir string `mapstructure:"snapshot_dir" yaml:"snapshot_dir"`
}

// LoggingConfig controls logging behavior.
type LoggingConfig struct {
	Level  string `mapstructure:"level"  yaml:"level"`
	Format string `mapstructure:"format" yaml:"format"`
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Search: SearchConfig{
			Endpoint:       "https://web-api-cdn.ground.news/api/public/search/url",
			MaxRetries:     3,
			RetryDelayMin:  1 * time.Second,
			RetryDelayMax:  8 * time.Second,
			RequestTimeout: 10 * time.Second,
			UserAgent:      "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/137.0.0.0 Safari/537.36",
			Origin:         "https://ground.news",
			Referer:        "https://ground.news/",
			ClientVersion:  "web",
		},
		Extractor: ExtractorConfig{
			ArticleURLTemplate: "https://ground.news/article/%s",
			RenderParam:        "19oxi",
			MaxBodySize:        10 * 1024 * 1024, // 10MB
		},
		Filter: FilterConfig{
			RecencyWindow:    48 * time.Hour,
			RelevanceEnabled: true,
		},
		Keywords: KeywordsConfig{
			CacheTTL: 5 * time.Minute,
		},
		Ledger: LedgerConfig{
			DataDir: "./data",
			Mongo: MongoConfig{
				Enabled:    false,
				Database:   "newsdigest",
				Collection: "articles",
			},
		},
		AI: AIConfig{
			Enabled:     true,
			Provider:    "openai",
			Model:       "gpt-4o-mini",
			Temperature: 0.5,
		},
		Pipeline: PipelineConfig{
			RequestDelay: 2 * time.Second,
			SnapshotDir:  "./output",
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
		},
	}
}
