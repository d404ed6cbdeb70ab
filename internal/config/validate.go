package config

import (
	"fmt"
	"net/url"
	"strings"
)

// Validate checks the configuration for invalid values.
func Validate(cfg *Config) error {
	if err := validateEndpoint(cfg.Search.Endpoint); err != nil {
		return fmt.Errorf("search.endpoint: %w", err)
	}
	if cfg.Search.MaxRetries < 1 {
		return fmt.Errorf("search.max_retries must be >= 1, got %d", cfg.Search.MaxRetries)
	}
	if cfg.Search.RetryDelayMin <= 0 {
		return fmt.Errorf("search.retry_delay_min must be > 0")
	}
	if cfg.Search.RetryDelayMax < cfg.Search.RetryDelayMin {
		return fmt.Errorf("search.retry_delay_max must be >= retry_delay_min")
	}
	if cfg.Search.RequestTimeout <= 0 {
		return fmt.Errorf("search.request_timeout must be > 0")
	}

	if !strings.Contains(cfg.Extractor.ArticleURLTemplate, "%s") {
		return fmt.Errorf("extractor.article_url_template must contain a %%s slug placeholder")
	}
	if cfg.Extractor.MaxBodySize <= 0 {
		return fmt.Errorf("extractor.max_body_size must be > 0")
	}

	if cfg.Filter.RecencyWindow <= 0 {
		return fmt.Errorf("filter.recency_window must be > 0")
	}

	if cfg.Keywords.CacheTTL <= 0 {
		return fmt.Errorf("keywords.cache_ttl must be > 0")
	}

	if cfg.Ledger.DataDir == "" {
		return fmt.Errorf("ledger.data_dir must be set")
	}
	if cfg.Ledger.Mongo.Enabled {
		if cfg.Ledger.Mongo.URI == "" {
			return fmt.Errorf("ledger.mongo.uri must be set when mongo is enabled")
		}
		if cfg.Ledger.Mongo.Database == "" || cfg.Ledger.Mongo.Collection == "" {
			return fmt.Errorf("ledger.mongo.database and ledger.mongo.collection must be set")
		}
	}

	if cfg.AI.Enabled {
		switch cfg.AI.Provider {
		case "openai", "ollama", "custom":
		default:
			return fmt.Errorf("ai.provider must be 'openai', 'ollama', or 'custom', got %q", cfg.AI.Provider)
		}
		if cfg.AI.Model == "" {
			return fmt.Errorf("ai.model must be set when AI is enabled")
		}
	}

	if cfg.Pipeline.RequestDelay < 0 {
		return fmt.Errorf("pipeline.request_delay must be >= 0")
	}

	validLogLevels := map[string]bool{
		"debug": true, "info": true, "warn": true, "error": true,
	}
	if !validLogLevels[cfg.Logging.Level] {
		return fmt.Errorf("logging.level must be debug/info/warn/error, got %q", cfg.Logging.Level)
	}
	if cfg.Logging.Format != "text" && cfg.Logging.Format != "json" {
		return fmt.Errorf("logging.format must be 'text' or 'json', got %q", cfg.Logging.Format)
	}

	return nil
}

func validateEndpoint(rawURL string) error {
	u, err := url.Parse(rawURL)
	if err != nil {
		return fmt.Errorf("invalid URL: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("URL scheme must be http or https, got %q", u.Scheme)
	}
	if u.Host == "" {
		return fmt.Errorf("URL must have a host")
	}
	return nil
}
