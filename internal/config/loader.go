package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// Load reads configuration from file and environment.
// Priority (highest to lowest): env vars > config file > defaults.
func Load(configPath string) (*Config, error) {
	cfg := DefaultConfig()

	v := viper.New()
	v.SetConfigType("yaml")

	setDefaults(v, cfg)

	// Environment variable support
	v.SetEnvPrefix("NEWSDIGEST")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Load config file
	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		// Search default locations
		v.SetConfigName("newsdigest")
		v.AddConfigPath(".")
		v.AddConfigPath("./configs")
		home, err := os.UserHomeDir()
		if err == nil {
			v.AddConfigPath(filepath.Join(home, ".newsdigest"))
		}
	}

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok && configPath != "" {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		// Config file not found is okay if not explicitly specified
	}

	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	// The API key never lives in the config file.
	if cfg.AI.APIKey == "" {
		cfg.AI.APIKey = os.Getenv("OPENAI_API_KEY")
	}

	return cfg, nil
}

// setDefaults registers default values in viper.
func setDefaults(v *viper.Viper, cfg *Config) {
	v.SetDefault("search.endpoint", cfg.Search.Endpoint)
	v.SetDefault("search.max_retries", cfg.Search.MaxRetries)
	v.SetDefault("search.retry_delay_min", cfg.Search.RetryDelayMin)
	v.SetDefault("search.retry_delay_max", cfg.Search.RetryDelayMax)
	v.SetDefault("search.request_timeout", cfg.Search.RequestTimeout)
	v.SetDefault("search.user_agent", cfg.Search.UserAgent)
	v.SetDefault("search.origin", cfg.Search.Origin)
	v.SetDefault("search.referer", cfg.Search.Referer)
	v.SetDefault("search.client_version", cfg.Search.ClientVersion)

	v.SetDefault("extractor.article_url_template", cfg.Extractor.ArticleURLTemplate)
	v.SetDefault("extractor.render_param", cfg.Extractor.RenderParam)
	v.SetDefault("extractor.max_body_size", cfg.Extractor.MaxBodySize)

	v.SetDefault("filter.recency_window", cfg.Filter.RecencyWindow)
	v.SetDefault("filter.relevance_enabled", cfg.Filter.RelevanceEnabled)

	v.SetDefault("keywords.path", cfg.Keywords.Path)
	v.SetDefault("keywords.cache_ttl", cfg.Keywords.CacheTTL)

	v.SetDefault("ledger.data_dir", cfg.Ledger.DataDir)
	v.SetDefault("ledger.mongo.enabled", cfg.Ledger.Mongo.Enabled)
	v.SetDefault("ledger.mongo.database", cfg.Ledger.Mongo.Database)
	v.SetDefault("ledger.mongo.collection", cfg.Ledger.Mongo.Collection)

	v.SetDefault("ai.enabled", cfg.AI.Enabled)
	v.SetDefault("ai.provider", cfg.AI.Provider)
	v.SetDefault("ai.model", cfg.AI.Model)
	v.SetDefault("ai.temperature", cfg.AI.Temperature)

	v.SetDefault("pipeline.request_delay", cfg.Pipeline.RequestDelay)
	v.SetDefault("pipeline.snapshot_dir", cfg.Pipeline.SnapshotDir)

	v.SetDefault("logging.level", cfg.Logging.Level)
	v.SetDefault("logging.format", cfg.Logging.Format)
}
