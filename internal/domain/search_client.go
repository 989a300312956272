package domain

import "context"

// SearchClient defines the retrieval operations exposed by the remote
// vector/keyword database. Every operation requests the same fixed property
// set, filters results to the given language code, and bounds the result
// count to topN. A topN of zero yields an empty result, not an error.
//
// Result ordering is whatever relevance order the backend produces for the
// chosen mode; the orchestrator never reorders locally.
type SearchClient interface {
	// ByKeyword performs BM25-style keyword matching.
	ByKeyword(ctx context.Context, query, lang string, topN int) ([]Document, error)
	// NearText performs dense nearest-neighbor search, using the raw query
	// text as the semantic concept. Embedding computation happens entirely
	// in the backend.
	NearText(ctx context.Context, query, lang string, topN int) ([]Document, error)
	// Hybrid combines keyword and dense signals; the relative weighting is
	// owned by the backend.
	Hybrid(ctx context.Context, query, lang string, topN int) ([]Document, error)
}
