package filter

import (
	"log/slog"
	"strings"
	"time"

	"github.com/mayanews/newsdigest/internal/types"
)

// Clock supplies the current instant. Injected so tests are deterministic.
type Clock func() time.Time

// RecencyFilter rejects candidates whose event timestamp falls outside a
// trailing window measured back from the current instant.
//
// Policy choice carried over from the original system: a candidate with a
// missing or unparseable timestamp is treated as recent and accepted. This
// deliberately lets malformed upstream data through rather than silently
// dropping it.
type RecencyFilter struct {
	window time.Duration
	now    Clock
	logger *slog.Logger
}

// NewRecencyFilter creates a recency filter with the given trailing window.
func NewRecencyFilter(window time.Duration, now Clock, logger *slog.Logger) *RecencyFilter {
	if now == nil {
		now = time.Now
	}
	return &RecencyFilter{
		window: window,
		now:    now,
		logger: logger.With("component", "recency_filter"),
	}
}

// Accept reports whether the candidate is recent enough, and the parsed
// event time when one was available.
func (f *RecencyFilter) Accept(c types.Candidate) (bool, time.Time) {
	if c.Start == "" {
		return true, time.Time{}
	}

	ts, err := parseEventTime(c.Start)
	if err != nil {
		f.logger.Debug("unparseable candidate timestamp, accepting", "slug", c.Slug, "start", c.Start)
		return true, time.Time{}
	}

	cutoff := f.now().UTC().Add(-f.window)
	return !ts.Before(cutoff), ts
}

// parseEventTime parses the aggregator's event timestamps: RFC3339 with or
// without the trailing Z, always interpreted as UTC.
func parseEventTime(s string) (time.Time, error) {
	trimmed := strings.TrimSuffix(s, "Z")
	ts, err := time.Parse("2006-01-02T15:04:05", trimmed)
	if err != nil {
		// Allow fractional seconds as well.
		ts, err = time.Parse("2006-01-02T15:04:05.999999999", trimmed)
		if err != nil {
			return time.Time{}, err
		}
	}
	return ts.UTC(), nil
}
