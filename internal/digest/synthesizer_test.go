package digest

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/mayanews/newsdigest/internal/ai"
	"github.com/mayanews/newsdigest/internal/types"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type stubGenerator struct {
	reply     string
	err       error
	prompt    string
	maxTokens int
}

func (s *stubGenerator) Generate(ctx context.Context, prompt string, maxTokens int) (string, error) {
	s.prompt = prompt
	s.maxTokens = maxTokens
	return s.reply, s.err
}

func testRecords() []types.ArticleRecord {
	return []types.ArticleRecord{
		{
			Date:        time.Date(2026, 8, 21, 0, 0, 0, 0, time.UTC),
			Category:    "Press & Information Freedom",
			Keyword:     "press freedom",
			Headline:    "Senate passes shield law",
			Source:      "Reuters",
			URL:         "https://example.com/a",
			Summary:     "The bill advances.",
			ExtractedAt: time.Date(2026, 8, 21, 12, 0, 0, 0, time.UTC),
		},
		{
			Date:     time.Date(2026, 8, 21, 0, 0, 0, 0, time.UTC),
			Category: "Judicial & Legal Integrity",
			Keyword:  "rule of law",
			Headline: "Court ruling challenged",
			Source:   types.Sentinel,
			URL:      "https://example.com/b",
			Summary:  types.Sentinel,
		},
	}
}

func TestExplainerScript(t *testing.T) {
	gen := &stubGenerator{reply: "Today in American democracy, two stories."}
	s := NewSynthesizer(gen, ai.FallbackPrompts(), testLogger())

	script, err := s.ExplainerScript(context.Background(), testRecords())
	if err != nil {
		t.Fatalf("ExplainerScript: %v", err)
	}
	if script != "Today in American democracy, two stories." {
		t.Errorf("script = %q", script)
	}
	if gen.maxTokens != 300 {
		t.Errorf("maxTokens = %d", gen.maxTokens)
	}
	if !strings.Contains(gen.prompt, "1. [Press & Information Freedom - press freedom] Senate passes shield law") {
		t.Errorf("prompt missing numbered summary block:\n%s", gen.prompt)
	}
	if !strings.Contains(gen.prompt, "No summary available") {
		t.Errorf("sentinel summary not normalized:\n%s", gen.prompt)
	}
	if strings.Contains(gen.prompt, "{summaries_text}") {
		t.Error("placeholder left unsubstituted")
	}
}

func TestOneSheetTokenBudget(t *testing.T) {
	gen := &stubGenerator{reply: "A briefing."}
	s := NewSynthesizer(gen, ai.FallbackPrompts(), testLogger())

	if _, err := s.OneSheet(context.Background(), testRecords()); err != nil {
		t.Fatalf("OneSheet: %v", err)
	}
	if gen.maxTokens != 1000 {
		t.Errorf("maxTokens = %d", gen.maxTokens)
	}
}

func TestGenerateStripsMarkdown(t *testing.T) {
	gen := &stubGenerator{reply: "## Today\n**Bold claim** and # a header"}
	s := NewSynthesizer(gen, ai.FallbackPrompts(), testLogger())

	script, err := s.ExplainerScript(context.Background(), testRecords())
	if err != nil {
		t.Fatalf("ExplainerScript: %v", err)
	}
	if strings.Contains(script, "**") || strings.Contains(script, "##") {
		t.Errorf("markdown survived: %q", script)
	}
}

func TestGenerateEmptyRecords(t *testing.T) {
	s := NewSynthesizer(&stubGenerator{reply: "x"}, ai.FallbackPrompts(), testLogger())
	if _, err := s.ExplainerScript(context.Background(), nil); err == nil {
		t.Fatal("expected error for empty records")
	}
}

func TestGenerateErrorPropagates(t *testing.T) {
	gen := &stubGenerator{err: errors.New("llm unreachable")}
	s := NewSynthesizer(gen, ai.FallbackPrompts(), testLogger())

	if _, err := s.ExplainerScript(context.Background(), testRecords()); err == nil {
		t.Fatal("expected error to propagate")
	}
}

func TestGenerateEmptyReply(t *testing.T) {
	gen := &stubGenerator{reply: "  \n  "}
	s := NewSynthesizer(gen, ai.FallbackPrompts(), testLogger())

	if _, err := s.ExplainerScript(context.Background(), testRecords()); err == nil {
		t.Fatal("expected error for empty reply")
	}
}
