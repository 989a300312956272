package domain

// RetrievalError indicates the search backend call failed (network, auth,
// malformed payload). The pipeline surfaces it unmodified; there is no
// local retry and no fallback between modes.
type RetrievalError struct {
	Err error
}

func (e *RetrievalError) Error() string { return "retrieval: " + e.Err.Error() }
func (e *RetrievalError) Unwrap() error { return e.Err }

// RerankError indicates the rerank call failed. The pipeline must not fall
// back to unranked order.
type RerankError struct {
	Err error
}

func (e *RerankError) Error() string { return "rerank: " + e.Err.Error() }
func (e *RerankError) Unwrap() error { return e.Err }

// GenerationError indicates the generation call failed or returned no
// candidates. The pipeline must not fabricate a placeholder answer.
type GenerationError struct {
	Err error
}

func (e *GenerationError) Error() string { return "generation: " + e.Err.Error() }
func (e *GenerationError) Unwrap() error { return e.Err }
