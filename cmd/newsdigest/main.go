package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/mayanews/newsdigest/internal/config"
)

var (
	cfgFile string
	verbose bool
)

func main() {
	// .env is optional; environment variables alone are fine.
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		fmt.Fprintf(os.Stderr, "warning: .env not loaded: %v\n", err)
	}

	rootCmd := &cobra.Command{
		Use:   "newsdigest",
		Short: "newsdigest - keyword-driven news harvester and daily digest generator",
		Long: `newsdigest harvests news articles matching a keyword taxonomy from a
news aggregator, extracts headline/source/summary from article pages,
filters for recency and US relevance, merges accepted articles into a
per-day ledger without duplicates, and generates a 60-second explainer
script plus a one-sheet briefing from the day's articles.`,
	}

	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "config file path")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")

	rootCmd.AddCommand(runCmd())
	rootCmd.AddCommand(digestCmd())
	rootCmd.AddCommand(keywordsCmd())
	rootCmd.AddCommand(configCmd())
	rootCmd.AddCommand(versionCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// versionCmd creates the "version" subcommand.
func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("newsdigest %s\n", config.Version)
		},
	}
}

// configCmd creates the "config" subcommand for inspecting configuration.
func configCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Show current configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(cfgFile)
			if err != nil {
				return err
			}
			fmt.Printf("Search:\n")
			fmt.Printf("  Endpoint:         %s\n", cfg.Search.Endpoint)
			fmt.Printf("  Max Retries:      %d\n", cfg.Search.MaxRetries)
			fmt.Printf("  Request Timeout:  %s\n", cfg.Search.RequestTimeout)
			fmt.Printf("\nFilter:\n")
			fmt.Printf("  Recency Window:   %s\n", cfg.Filter.RecencyWindow)
			fmt.Printf("  Relevance Filter: %v\n", cfg.Filter.RelevanceEnabled)
			fmt.Printf("\nKeywords:\n")
			fmt.Printf("  Sheet Path:       %s\n", orFallback(cfg.Keywords.Path))
			fmt.Printf("  Cache TTL:        %s\n", cfg.Keywords.CacheTTL)
			fmt.Printf("\nLedger:\n")
			fmt.Printf("  Data Dir:         %s\n", cfg.Ledger.DataDir)
			fmt.Printf("  Mongo Archive:    %v\n", cfg.Ledger.Mongo.Enabled)
			fmt.Printf("\nAI:\n")
			fmt.Printf("  Enabled:          %v\n", cfg.AI.Enabled)
			fmt.Printf("  Provider:         %s\n", cfg.AI.Provider)
			fmt.Printf("  Model:            %s\n", cfg.AI.Model)
			fmt.Printf("\nPipeline:\n")
			fmt.Printf("  Request Delay:    %s\n", cfg.Pipeline.RequestDelay)
			fmt.Printf("  Snapshot Dir:     %s\n", cfg.Pipeline.SnapshotDir)
			return nil
		},
	}
}

func orFallback(s string) string {
	if s == "" {
		return "(compiled-in fallback)"
	}
	return s
}

// setupLogger creates a structured logger.
func setupLogger(cfg *config.Config) *slog.Logger {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	} else {
		switch cfg.Logging.Level {
		case "debug":
			level = slog.LevelDebug
		case "warn":
			level = slog.LevelWarn
		case "error":
			level = slog.LevelError
		}
	}

	opts := &slog.HandlerOptions{Level: level}
	if cfg.Logging.Format == "json" {
		return slog.New(slog.NewJSONHandler(os.Stderr, opts))
	}
	return slog.New(slog.NewTextHandler(os.Stderr, opts))
}

// loadConfig loads and validates the configuration.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if err := config.Validate(cfg); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}
