package filter

import (
	"context"
	"errors"
	"testing"

	"github.com/mayanews/newsdigest/internal/types"
)

type stubClassifier struct {
	verdict Verdict
	err     error
	calls   int
}

func (s *stubClassifier) Classify(ctx context.Context, headline, summary, source string) (Verdict, error) {
	s.calls++
	return s.verdict, s.err
}

func testFields() types.ArticleFields {
	return types.ArticleFields{
		Headline: "Senate passes shield law",
		Summary:  "A summary.",
		Source:   "Reuters",
		URL:      "https://example.com/a",
	}
}

func TestRelevanceSoftGate(t *testing.T) {
	tests := []struct {
		name    string
		verdict Verdict
		err     error
		accept  bool
	}{
		{"yes accepts", VerdictYes, nil, true},
		{"no rejects", VerdictNo, nil, false},
		{"unclear accepts", VerdictUnclear, nil, true},
		{"error accepts", VerdictYes, errors.New("llm unreachable"), true},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			f := NewRelevanceFilter(&stubClassifier{verdict: tc.verdict, err: tc.err}, testLogger())
			if got := f.Accept(context.Background(), testFields()); got != tc.accept {
				t.Errorf("accept = %v, want %v", got, tc.accept)
			}
		})
	}
}

func TestRelevanceNilClassifierAccepts(t *testing.T) {
	f := NewRelevanceFilter(nil, testLogger())
	if !f.Accept(context.Background(), testFields()) {
		t.Error("nil classifier must accept")
	}
}

func TestParseVerdict(t *testing.T) {
	tests := []struct {
		reply string
		want  Verdict
	}{
		{"YES", VerdictYes},
		{"yes", VerdictYes},
		{" Yes \n", VerdictYes},
		{"**NO**", VerdictNo},
		{"## no", VerdictNo},
		{"# YES", VerdictYes},
		{"maybe", VerdictUnclear},
		{"", VerdictUnclear},
		{"NO, but with caveats", VerdictUnclear},
	}
	for _, tc := range tests {
		if got := ParseVerdict(tc.reply); got != tc.want {
			t.Errorf("ParseVerdict(%q) = %v, want %v", tc.reply, got, tc.want)
		}
	}
}
