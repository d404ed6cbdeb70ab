package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/mayanews/newsdigest/internal/ai"
	"github.com/mayanews/newsdigest/internal/config"
	"github.com/mayanews/newsdigest/internal/digest"
	"github.com/mayanews/newsdigest/internal/extractor"
	"github.com/mayanews/newsdigest/internal/fetcher"
	"github.com/mayanews/newsdigest/internal/filter"
	"github.com/mayanews/newsdigest/internal/keywords"
	"github.com/mayanews/newsdigest/internal/ledger"
	"github.com/mayanews/newsdigest/internal/pipeline"
)

var (
	runNoDigest    bool
	runNoRelevance bool
)

// runCmd creates the "run" subcommand.
func runCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run one full harvest: search, extract, filter, merge, digest",
		RunE:  runHarvest,
	}

	cmd.Flags().BoolVar(&runNoDigest, "no-digest", false, "skip digest generation after the harvest")
	cmd.Flags().BoolVar(&runNoRelevance, "no-relevance", false, "skip the LLM relevance filter")

	return cmd
}

func runHarvest(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	logger := setupLogger(cfg)

	if runNoRelevance {
		cfg.Filter.RelevanceEnabled = false
	}

	aiAvailable := cfg.AI.Enabled && (cfg.AI.Provider != "openai" || cfg.AI.APIKey != "")
	if cfg.AI.Enabled && !aiAvailable {
		logger.Warn("OPENAI_API_KEY not set, AI features disabled for this run")
	}

	prompts := ai.LoadPrompts(cfg.AI.PromptsPath, logger)

	var generator ai.Generator
	if aiAvailable {
		generator = ai.NewClient(&cfg.AI, logger)
	}

	var classifier filter.Classifier
	if cfg.Filter.RelevanceEnabled && generator != nil {
		classifier = ai.NewUSClassifier(generator, prompts, logger)
	}

	var synth *digest.Synthesizer
	if !runNoDigest && generator != nil {
		synth = digest.NewSynthesizer(generator, prompts, logger)
	}

	store, err := ledger.NewCSVStore(cfg.Ledger.DataDir, logger)
	if err != nil {
		return fmt.Errorf("create ledger store: %w", err)
	}

	var archive pipeline.Archiver
	if cfg.Ledger.Mongo.Enabled {
		mongoArchive, err := ledger.NewMongoArchive(
			cfg.Ledger.Mongo.URI,
			cfg.Ledger.Mongo.Database,
			cfg.Ledger.Mongo.Collection,
			logger,
		)
		if err != nil {
			// Archive is a secondary sink; the run proceeds without it.
			logger.Error("mongo archive unavailable, continuing without it", "error", err)
		} else {
			archive = mongoArchive
			defer mongoArchive.Close()
		}
	}

	detail := fetcher.NewDetailClient(&cfg.Search, &cfg.Extractor, logger)

	runner := pipeline.NewRunner(
		cfg,
		keywordCache(cfg, logger),
		fetcher.NewSearchClient(&cfg.Search, logger),
		extractor.New(detail, logger),
		filter.NewRecencyFilter(cfg.Filter.RecencyWindow, nil, logger),
		filter.NewRelevanceFilter(classifier, logger),
		store,
		pipeline.Options{Archive: archive, Synth: synth},
		logger,
	)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		logger.Info("received signal, stopping after current item...", "signal", sig)
		cancel()
	}()

	start := time.Now()
	stats, err := runner.Run(ctx)
	if err != nil {
		return fmt.Errorf("run failed: %w", err)
	}

	elapsed := time.Since(start)
	fmt.Printf("\nHarvest complete in %s\n", elapsed.Round(time.Second))
	fmt.Printf("   Keywords:   %d searched\n", stats.KeywordsSearched)
	fmt.Printf("   Candidates: %d seen (%d stale, %d duplicate, %d irrelevant)\n",
		stats.CandidatesSeen, stats.Stale, stats.Duplicates, stats.Irrelevant)
	fmt.Printf("   Ledger:     %d inserted, %d updated\n", stats.Inserted, stats.Updated)

	return nil
}

// keywordCache builds the cached keyword source from config.
func keywordCache(cfg *config.Config, logger *slog.Logger) *keywords.Cache {
	var source keywords.Source
	if cfg.Keywords.Path != "" {
		source = keywords.NewCSVSource(cfg.Keywords.Path, logger)
	} else {
		source = keywords.NewStaticSource(keywords.Fallback())
	}
	return keywords.NewCache(source, cfg.Keywords.CacheTTL, logger)
}
