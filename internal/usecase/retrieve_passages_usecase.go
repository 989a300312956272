package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"wikisearch/internal/domain"

	"github.com/hashicorp/golang-lru/v2/expirable"
)

// RetrievePassagesInput defines the parameters of one retrieval call.
type RetrievePassagesInput struct {
	Query string
	Lang  string
	Mode  domain.SearchMode
	TopN  int
}

// RetrievePassagesUsecase dispatches a retrieval request to the search
// backend according to the selected mode.
type RetrievePassagesUsecase interface {
	Execute(ctx context.Context, input RetrievePassagesInput) ([]domain.Document, error)
}

type retrievePassagesUsecase struct {
	search domain.SearchClient
	cache  *expirable.LRU[string, []domain.Document]
	logger *slog.Logger
}

// RetrievePassagesOption configures optional behavior.
type RetrievePassagesOption func(*retrievePassagesUsecase)

// WithRetrievalCache memoizes results per (query, lang, mode, topN) tuple.
// Stale entries are acceptable for the lifetime of the TTL; values for a
// given key are referentially identical regardless of which caller computed
// them, so concurrent population races benignly.
func WithRetrievalCache(size int, ttl time.Duration) RetrievePassagesOption {
	return func(u *retrievePassagesUsecase) {
		if size > 0 {
			u.cache = expirable.NewLRU[string, []domain.Document](size, nil, ttl)
		}
	}
}

// NewRetrievePassagesUsecase creates a new RetrievePassagesUsecase.
func NewRetrievePassagesUsecase(search domain.SearchClient, logger *slog.Logger, opts ...RetrievePassagesOption) RetrievePassagesUsecase {
	u := &retrievePassagesUsecase{
		search: search,
		logger: logger,
	}
	for _, opt := range opts {
		opt(u)
	}
	return u
}

func (u *retrievePassagesUsecase) Execute(ctx context.Context, input RetrievePassagesInput) ([]domain.Document, error) {
	if strings.TrimSpace(input.Query) == "" {
		return nil, fmt.Errorf("query is required")
	}
	if input.Lang == "" {
		return nil, fmt.Errorf("lang is required")
	}
	if input.TopN < 0 {
		return nil, fmt.Errorf("top_n must be non-negative, got %d", input.TopN)
	}
	if input.TopN == 0 {
		return []domain.Document{}, nil
	}

	cacheKey := fmt.Sprintf("%s|%s|%d|%s", input.Mode, input.Lang, input.TopN, input.Query)
	if u.cache != nil {
		if docs, ok := u.cache.Get(cacheKey); ok {
			u.logger.Debug("retrieval_cache_hit",
				slog.String("mode", string(input.Mode)),
				slog.String("lang", input.Lang))
			return docs, nil
		}
	}

	var (
		docs []domain.Document
		err  error
	)
	switch input.Mode {
	case domain.SearchModeKeyword:
		docs, err = u.search.ByKeyword(ctx, input.Query, input.Lang, input.TopN)
	case domain.SearchModeDense:
		docs, err = u.search.NearText(ctx, input.Query, input.Lang, input.TopN)
	case domain.SearchModeHybrid:
		docs, err = u.search.Hybrid(ctx, input.Query, input.Lang, input.TopN)
	default:
		return nil, fmt.Errorf("unknown search mode %q", input.Mode)
	}
	if err != nil {
		return nil, err
	}

	if u.cache != nil {
		u.cache.Add(cacheKey, docs)
	}

	return docs, nil
}
