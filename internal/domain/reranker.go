package domain

import "context"

// RankedResult is one document scored against a query by the rerank model.
type RankedResult struct {
	// Document is the original retrieved document, unmodified.
	Document Document `json:"document"`
	// Index is the document's position in the input list before reranking,
	// zero-based. It references the input order, not the output order.
	Index int `json:"index"`
	// RelevanceScore is the rerank model's relevance score, informally in
	// [0,1], higher is more relevant.
	RelevanceScore float64 `json:"relevance_score"`
}

// Reranker defines second-pass relevance scoring of an already-retrieved
// candidate set, delegated to a remote rerank model.
//
// The returned sequence is sorted by RelevanceScore descending (the
// service's ordering is authoritative) and truncated to topN. When topN
// exceeds the number of documents, the result length equals the number of
// documents.
type Reranker interface {
	Rerank(ctx context.Context, query string, documents []Document, topN int, model string) ([]RankedResult, error)
}
