// Package digest turns a day's accepted articles into derivative text
// artifacts: a 60-second broadcast script and a one-page briefing.
package digest

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/mayanews/newsdigest/internal/ai"
	"github.com/mayanews/newsdigest/internal/types"
)

const (
	scriptMaxTokens   = 300
	briefingMaxTokens = 1000
)

// Synthesizer generates digest artifacts via an LLM. Generation failure is
// always a soft failure for the run: callers log and skip the artifact.
type Synthesizer struct {
	generator ai.Generator
	prompts   ai.PromptSet
	logger    *slog.Logger
}

// NewSynthesizer creates a digest synthesizer.
func NewSynthesizer(generator ai.Generator, prompts ai.PromptSet, logger *slog.Logger) *Synthesizer {
	return &Synthesizer{
		generator: generator,
		prompts:   prompts,
		logger:    logger.With("component", "digest_synthesizer"),
	}
}

// ExplainerScript generates the 60-second broadcast script for the day's
// records.
func (s *Synthesizer) ExplainerScript(ctx context.Context, records []types.ArticleRecord) (string, error) {
	return s.generate(ctx, ai.PromptExplainer, scriptMaxTokens, records)
}

// OneSheet generates the one-page briefing for the day's records.
func (s *Synthesizer) OneSheet(ctx context.Context, records []types.ArticleRecord) (string, error) {
	return s.generate(ctx, ai.PromptBriefing, briefingMaxTokens, records)
}

func (s *Synthesizer) generate(ctx context.Context, promptName string, maxTokens int, records []types.ArticleRecord) (string, error) {
	if len(records) == 0 {
		return "", fmt.Errorf("no records to synthesize")
	}

	prompt := s.prompts.Render(promptName, map[string]string{
		"summaries_text": types.Summaries(records),
	})

	reply, err := s.generator.Generate(ctx, prompt, maxTokens)
	if err != nil {
		return "", fmt.Errorf("generate %s: %w", promptName, err)
	}

	text := stripMarkdown(reply)
	if text == "" {
		return "", fmt.Errorf("empty %s reply", promptName)
	}

	s.logger.Info("digest generated", "prompt", promptName, "articles", len(records), "chars", len(text))
	return text, nil
}

// stripMarkdown removes the formatting markers LLMs like to add despite
// being asked for plain text.
func stripMarkdown(s string) string {
	s = strings.NewReplacer("**", "", "###", "", "##", "", "# ", "").Replace(s)
	return strings.TrimSpace(s)
}
