package filter

import (
	"context"
	"log/slog"
	"strings"

	"github.com/mayanews/newsdigest/internal/types"
)

// Verdict is the tri-state answer of a relevance classifier.
type Verdict int

const (
	VerdictYes Verdict = iota
	VerdictNo
	VerdictUnclear
)

// Classifier decides whether an article is relevant to the target
// jurisdiction.
type Classifier interface {
	Classify(ctx context.Context, headline, summary, source string) (Verdict, error)
}

// RelevanceFilter is a soft gate in front of the ledger: only an explicit
// "no" from the classifier rejects an article. "Unclear" answers, classifier
// errors, and an absent classifier all default to accept, so an unreachable
// collaborator can never silently drop everything.
type RelevanceFilter struct {
	classifier Classifier
	logger     *slog.Logger
}

// NewRelevanceFilter creates a relevance filter. A nil classifier accepts
// every article.
func NewRelevanceFilter(classifier Classifier, logger *slog.Logger) *RelevanceFilter {
	return &RelevanceFilter{
		classifier: classifier,
		logger:     logger.With("component", "relevance_filter"),
	}
}

// Accept reports whether the article should be kept.
func (f *RelevanceFilter) Accept(ctx context.Context, fields types.ArticleFields) bool {
	if f.classifier == nil {
		return true
	}

	verdict, err := f.classifier.Classify(ctx, fields.Headline, fields.Summary, fields.Source)
	if err != nil {
		f.logger.Warn("relevance classification failed, accepting", "url", fields.URL, "error", err)
		return true
	}

	switch verdict {
	case VerdictNo:
		return false
	case VerdictUnclear:
		f.logger.Warn("unclear relevance verdict, accepting", "url", fields.URL)
		return true
	default:
		return true
	}
}

// ParseVerdict maps a classifier reply onto the tri-state verdict.
// Markdown markers are stripped before comparison.
func ParseVerdict(reply string) Verdict {
	cleaned := strings.NewReplacer("**", "", "##", "", "#", "").Replace(reply)
	switch strings.ToUpper(strings.TrimSpace(cleaned)) {
	case "YES":
		return VerdictYes
	case "NO":
		return VerdictNo
	default:
		return VerdictUnclear
	}
}
