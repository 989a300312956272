package cohere

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"wikisearch/internal/domain"
)

// RerankRequest is the request payload for the rerank endpoint.
type RerankRequest struct {
	Model     string   `json:"model"`
	Query     string   `json:"query"`
	Documents []string `json:"documents"`
	TopN      int      `json:"top_n,omitempty"`
}

// RerankResponseResult is a single result in the rerank response.
type RerankResponseResult struct {
	Index          int     `json:"index"`
	RelevanceScore float64 `json:"relevance_score"`
}

// RerankResponse is the response from the rerank endpoint.
type RerankResponse struct {
	ID      string                 `json:"id,omitempty"`
	Results []RerankResponseResult `json:"results"`
}

// RerankClient implements domain.Reranker via the hosted rerank API.
type RerankClient struct {
	BaseURL string
	APIKey  string
	Client  *http.Client
	logger  *slog.Logger
}

// NewRerankClient constructs a rerank client.
// If client is nil, a default http.Client is created with the given timeout.
func NewRerankClient(baseURL, apiKey string, timeout time.Duration, logger *slog.Logger, client ...*http.Client) *RerankClient {
	var c *http.Client
	if len(client) > 0 && client[0] != nil {
		c = client[0]
	} else {
		c = &http.Client{Timeout: timeout}
	}
	return &RerankClient{
		BaseURL: strings.TrimRight(baseURL, "/"),
		APIKey:  apiKey,
		Client:  c,
		logger:  logger,
	}
}

// Rerank scores documents against the query with the given rerank model.
// The service's descending-score ordering is returned as-is, truncated to
// topN; Index values reference positions in the input list.
func (c *RerankClient) Rerank(ctx context.Context, query string, documents []domain.Document, topN int, model string) ([]domain.RankedResult, error) {
	if len(documents) == 0 || topN <= 0 {
		return []domain.RankedResult{}, nil
	}
	if topN > len(documents) {
		topN = len(documents)
	}

	startTime := time.Now()

	texts := make([]string, len(documents))
	for i, doc := range documents {
		texts[i] = doc.Text
	}

	reqBody := RerankRequest{
		Model:     model,
		Query:     query,
		Documents: texts,
		TopN:      topN,
	}

	jsonPayload, err := json.Marshal(reqBody)
	if err != nil {
		return nil, &domain.RerankError{Err: fmt.Errorf("failed to marshal rerank request: %w", err)}
	}

	url := fmt.Sprintf("%s/v1/rerank", c.BaseURL)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(jsonPayload))
	if err != nil {
		return nil, &domain.RerankError{Err: fmt.Errorf("failed to create rerank request: %w", err)}
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.APIKey)

	resp, err := c.Client.Do(req)
	if err != nil {
		c.logger.Warn("reranking_failed",
			slog.String("error", err.Error()),
			slog.Int64("elapsed_ms", time.Since(startTime).Milliseconds()))
		return nil, &domain.RerankError{Err: fmt.Errorf("failed to call rerank endpoint: %w", err)}
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		c.logger.Warn("reranking_failed",
			slog.Int("status_code", resp.StatusCode),
			slog.Int64("elapsed_ms", time.Since(startTime).Milliseconds()))
		return nil, &domain.RerankError{Err: fmt.Errorf("rerank endpoint returned %d: %s", resp.StatusCode, string(body))}
	}

	var rerankResp RerankResponse
	if err := json.NewDecoder(resp.Body).Decode(&rerankResp); err != nil {
		return nil, &domain.RerankError{Err: fmt.Errorf("failed to decode rerank response: %w", err)}
	}

	results := make([]domain.RankedResult, 0, len(rerankResp.Results))
	for _, r := range rerankResp.Results {
		if r.Index < 0 || r.Index >= len(documents) {
			return nil, &domain.RerankError{Err: fmt.Errorf("invalid result index %d for %d documents", r.Index, len(documents))}
		}
		results = append(results, domain.RankedResult{
			Document:       documents[r.Index],
			Index:          r.Index,
			RelevanceScore: r.RelevanceScore,
		})
		if len(results) == topN {
			break
		}
	}

	c.logger.Info("reranking_completed",
		slog.Int("candidate_count", len(documents)),
		slog.Int("result_count", len(results)),
		slog.String("model", model),
		slog.Int64("elapsed_ms", time.Since(startTime).Milliseconds()))

	return results, nil
}

var _ domain.Reranker = (*RerankClient)(nil)
