package domain

import "fmt"

// SearchMode selects which retrieval strategy the backend applies.
// Exactly one mode is active per retrieval call.
type SearchMode string

const (
	// SearchModeKeyword is sparse BM25-style lexical matching.
	SearchModeKeyword SearchMode = "keyword"
	// SearchModeDense is nearest-neighbor search over paragraph embeddings.
	SearchModeDense SearchMode = "dense"
	// SearchModeHybrid combines keyword and dense signals in the backend.
	SearchModeHybrid SearchMode = "hybrid"
)

// ParseSearchMode validates a mode string coming from the outside.
func ParseSearchMode(s string) (SearchMode, error) {
	switch SearchMode(s) {
	case SearchModeKeyword, SearchModeDense, SearchModeHybrid:
		return SearchMode(s), nil
	}
	return "", fmt.Errorf("unknown search mode %q", s)
}
