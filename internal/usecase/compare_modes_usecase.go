package usecase

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"wikisearch/internal/domain"

	"golang.org/x/sync/errgroup"
)

// CompareModesOutput holds the per-mode retrieval results of one query.
type CompareModesOutput struct {
	Results map[domain.SearchMode][]domain.Document
}

// CompareModesUsecase retrieves the same query with all three modes for
// side-by-side inspection. This is a presentation feature; the answer
// pipeline itself stays strictly sequential.
type CompareModesUsecase interface {
	Execute(ctx context.Context, query, lang string, topN int) (*CompareModesOutput, error)
}

type compareModesUsecase struct {
	retrieve RetrievePassagesUsecase
	logger   *slog.Logger
}

// NewCompareModesUsecase creates a new CompareModesUsecase.
func NewCompareModesUsecase(retrieve RetrievePassagesUsecase, logger *slog.Logger) CompareModesUsecase {
	return &compareModesUsecase{
		retrieve: retrieve,
		logger:   logger,
	}
}

func (u *compareModesUsecase) Execute(ctx context.Context, query, lang string, topN int) (*CompareModesOutput, error) {
	startTime := time.Now()

	modes := []domain.SearchMode{
		domain.SearchModeKeyword,
		domain.SearchModeDense,
		domain.SearchModeHybrid,
	}

	var mu sync.Mutex
	results := make(map[domain.SearchMode][]domain.Document, len(modes))

	g, gctx := errgroup.WithContext(ctx)
	for _, mode := range modes {
		g.Go(func() error {
			docs, err := u.retrieve.Execute(gctx, RetrievePassagesInput{
				Query: query,
				Lang:  lang,
				Mode:  mode,
				TopN:  topN,
			})
			if err != nil {
				return err
			}
			mu.Lock()
			results[mode] = docs
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	u.logger.Info("compare_modes_completed",
		slog.String("lang", lang),
		slog.Int("top_n", topN),
		slog.Int64("elapsed_ms", time.Since(startTime).Milliseconds()))

	return &CompareModesOutput{Results: results}, nil
}
