package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"wikisearch/internal/domain"
)

// RerankPassagesUsecase applies second-pass relevance scoring to retrieved
// documents. On failure the error surfaces as-is; the pipeline never falls
// back to unranked order.
type RerankPassagesUsecase interface {
	Execute(ctx context.Context, query string, documents []domain.Document, topN int, model string) ([]domain.RankedResult, error)
}

type rerankPassagesUsecase struct {
	reranker domain.Reranker
	logger   *slog.Logger
}

// NewRerankPassagesUsecase creates a new RerankPassagesUsecase.
func NewRerankPassagesUsecase(reranker domain.Reranker, logger *slog.Logger) RerankPassagesUsecase {
	return &rerankPassagesUsecase{
		reranker: reranker,
		logger:   logger,
	}
}

func (u *rerankPassagesUsecase) Execute(ctx context.Context, query string, documents []domain.Document, topN int, model string) ([]domain.RankedResult, error) {
	if strings.TrimSpace(query) == "" {
		return nil, fmt.Errorf("query is required")
	}
	if topN < 0 {
		return nil, fmt.Errorf("top_n must be non-negative, got %d", topN)
	}
	if len(documents) == 0 || topN == 0 {
		return []domain.RankedResult{}, nil
	}

	startTime := time.Now()

	ranked, err := u.reranker.Rerank(ctx, query, documents, topN, model)
	if err != nil {
		return nil, err
	}

	u.logger.Info("rerank_completed",
		slog.Int("candidate_count", len(documents)),
		slog.Int("ranked_count", len(ranked)),
		slog.String("model", model),
		slog.Int64("elapsed_ms", time.Since(startTime).Milliseconds()))

	return ranked, nil
}
