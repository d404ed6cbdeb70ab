package keywords

import "context"

// Fallback returns the compiled-in taxonomy used when no keyword sheet is
// configured or the configured source cannot be read.
func Fallback() Taxonomy {
	return Taxonomy{
		Categories: []string{
			"Press & Information Freedom",
			"Voting Rights & Election Integrity",
			"Judicial & Legal Integrity",
		},
		Keywords: map[string][]string{
			"Press & Information Freedom": {
				"press freedom",
				"journalist arrested",
				"book ban",
				"disinformation",
			},
			"Voting Rights & Election Integrity": {
				"voter suppression",
				"gerrymandering",
				"election interference",
			},
			"Judicial & Legal Integrity": {
				"court independence",
				"due process",
				"rule of law",
			},
		},
	}
}

// StaticSource serves a fixed taxonomy. Used as the fallback source and in
// tests.
type StaticSource struct {
	taxonomy Taxonomy
}

// NewStaticSource creates a source that always returns the given taxonomy.
func NewStaticSource(t Taxonomy) *StaticSource {
	return &StaticSource{taxonomy: t}
}

// Load implements Source.
func (s *StaticSource) Load(ctx context.Context) (Taxonomy, error) {
	return s.taxonomy, nil
}
