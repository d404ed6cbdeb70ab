package main

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/mayanews/newsdigest/internal/ai"
	"github.com/mayanews/newsdigest/internal/digest"
	"github.com/mayanews/newsdigest/internal/ledger"
)

var digestDate string

// digestCmd creates the "digest" subcommand: regenerate the digest
// artifacts from an already-harvested day's ledger, without re-scraping.
func digestCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "digest",
		Short: "Regenerate the explainer script and one-sheet briefing from a day's ledger",
		RunE:  runDigest,
	}

	cmd.Flags().StringVar(&digestDate, "date", "", "ledger date (YYYY-MM-DD, default today)")

	return cmd
}

func runDigest(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	logger := setupLogger(cfg)

	day := time.Now().UTC()
	if digestDate != "" {
		day, err = time.Parse("2006-01-02", digestDate)
		if err != nil {
			return fmt.Errorf("invalid --date %q: %w", digestDate, err)
		}
	}

	if !cfg.AI.Enabled {
		return fmt.Errorf("ai.enabled must be true to generate digests")
	}
	if cfg.AI.Provider == "openai" && cfg.AI.APIKey == "" {
		return fmt.Errorf("set OPENAI_API_KEY in your environment to generate digests")
	}

	store, err := ledger.NewCSVStore(cfg.Ledger.DataDir, logger)
	if err != nil {
		return fmt.Errorf("create ledger store: %w", err)
	}

	table, err := store.LoadDay(day)
	if err != nil {
		return fmt.Errorf("load ledger: %w", err)
	}

	records := table.Records()
	if len(records) == 0 {
		return fmt.Errorf("no articles in the %s ledger", day.Format("2006-01-02"))
	}

	prompts := ai.LoadPrompts(cfg.AI.PromptsPath, logger)
	synth := digest.NewSynthesizer(ai.NewClient(&cfg.AI, logger), prompts, logger)

	ctx := context.Background()

	script, err := synth.ExplainerScript(ctx, records)
	if err != nil {
		logger.Error("explainer script generation failed", "error", err)
	} else {
		if _, err := store.UpsertOutput(ledger.OutputExplainer, day, script); err != nil {
			logger.Error("explainer script save failed", "error", err)
		}
		printArtifact("GENERATED 60-SECOND EXPLAINER SCRIPT", script)
	}

	briefing, err := synth.OneSheet(ctx, records)
	if err != nil {
		logger.Error("one-sheet briefing generation failed", "error", err)
	} else {
		if _, err := store.UpsertOutput(ledger.OutputBriefing, day, briefing); err != nil {
			logger.Error("one-sheet briefing save failed", "error", err)
		}
		printArtifact("GENERATED ONE-SHEET BRIEFING", briefing)
	}

	return nil
}

func printArtifact(title, text string) {
	rule := strings.Repeat("=", 60)
	fmt.Printf("\n%s\n%s:\n%s\n%s\n%s\n", rule, title, rule, text, rule)
}
