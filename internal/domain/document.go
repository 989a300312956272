package domain

// Document represents one retrievable Wikipedia paragraph as stored in the
// remote search backend. Documents are created and owned by the backend;
// the orchestrator only reads and forwards them within a single
// query/response cycle.
type Document struct {
	// Text is the paragraph content.
	Text string `json:"text"`
	// Title is the source article title.
	Title string `json:"title"`
	// URL points at the source article.
	URL string `json:"url"`
	// Views is the article popularity signal from the corpus.
	Views float64 `json:"views"`
	// Lang is the ISO-like language code of the paragraph. Every document
	// returned by a retrieval call carries the language that was requested.
	Lang string `json:"lang"`
	// Additional is the retrieval metadata block attached to each hit.
	Additional Additional `json:"_additional"`
}

// Additional carries per-hit retrieval metadata.
type Additional struct {
	// Distance is the embedding-space distance for dense and hybrid
	// searches (lower is closer). Nil for pure keyword hits.
	Distance *float64 `json:"distance,omitempty"`
	// Score is the backend relevance score, when the backend reports one.
	Score *float64 `json:"score,omitempty"`
}
