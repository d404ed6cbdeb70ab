package ai

import (
	"context"
	"log/slog"

	"github.com/mayanews/newsdigest/internal/filter"
)

// usFilterMaxTokens bounds the classifier reply; YES/NO needs very little.
const usFilterMaxTokens = 10

// USClassifier asks the LLM whether an article covers US domestic news.
// It implements filter.Classifier.
type USClassifier struct {
	generator Generator
	prompts   PromptSet
	logger    *slog.Logger
}

// NewUSClassifier creates a domestic-news classifier over the given
// generator.
func NewUSClassifier(generator Generator, prompts PromptSet, logger *slog.Logger) *USClassifier {
	return &USClassifier{
		generator: generator,
		prompts:   prompts,
		logger:    logger.With("component", "us_classifier"),
	}
}

// Classify implements filter.Classifier. Errors propagate to the relevance
// filter, which treats them as accept.
func (c *USClassifier) Classify(ctx context.Context, headline, summary, source string) (filter.Verdict, error) {
	prompt := c.prompts.Render(PromptUSFilter, map[string]string{
		"headline": headline,
		"summary":  summary,
		"source":   source,
	})

	reply, err := c.generator.Generate(ctx, prompt, usFilterMaxTokens)
	if err != nil {
		return filter.VerdictUnclear, err
	}

	verdict := filter.ParseVerdict(reply)
	if verdict == filter.VerdictUnclear {
		c.logger.Warn("unclear classifier reply", "reply", reply)
	}
	return verdict, nil
}
