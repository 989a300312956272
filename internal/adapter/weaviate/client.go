package weaviate

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"wikisearch/internal/domain"
)

// properties is the fixed property set requested from every search,
// matching what the Wikipedia demo corpus schema exposes per paragraph.
const properties = "text title url views lang _additional { distance score }"

// graphQLRequest is the request payload for the /v1/graphql endpoint.
type graphQLRequest struct {
	Query string `json:"query"`
}

type graphQLError struct {
	Message string `json:"message"`
}

type graphQLResponse struct {
	Data struct {
		Get struct {
			Articles []articleHit `json:"Articles"`
		} `json:"Get"`
	} `json:"data"`
	Errors []graphQLError `json:"errors"`
}

// articleHit mirrors the wire shape of one hit. Weaviate reports the
// _additional score as a string, so it is parsed before crossing into the
// domain.
type articleHit struct {
	Text       string  `json:"text"`
	Title      string  `json:"title"`
	URL        string  `json:"url"`
	Views      float64 `json:"views"`
	Lang       string  `json:"lang"`
	Additional struct {
		Distance *float64 `json:"distance"`
		Score    *string  `json:"score"`
	} `json:"_additional"`
}

// Client queries a Weaviate-compatible database holding pre-indexed
// Wikipedia paragraph embeddings. All ranking happens in the backend; the
// client only shapes queries and decodes hits.
type Client struct {
	BaseURL string
	APIKey  string
	Client  *http.Client
	logger  *slog.Logger
}

// NewClient constructs a search client for the given endpoint.
// If client is nil, a default http.Client is created with the given timeout.
func NewClient(baseURL, apiKey string, timeout time.Duration, logger *slog.Logger, client ...*http.Client) *Client {
	var c *http.Client
	if len(client) > 0 && client[0] != nil {
		c = client[0]
	} else {
		c = &http.Client{Timeout: timeout}
	}
	return &Client{
		BaseURL: strings.TrimRight(baseURL, "/"),
		APIKey:  apiKey,
		Client:  c,
		logger:  logger,
	}
}

// ByKeyword performs a BM25 keyword search filtered by language.
func (c *Client) ByKeyword(ctx context.Context, query, lang string, topN int) ([]domain.Document, error) {
	operator := fmt.Sprintf("bm25: {query: %s}", graphQLString(query))
	return c.search(ctx, "bm25", operator, lang, topN)
}

// NearText performs a dense nearest-neighbor search using the raw query
// text as the concept. Embedding computation is delegated to the backend.
func (c *Client) NearText(ctx context.Context, query, lang string, topN int) ([]domain.Document, error) {
	operator := fmt.Sprintf("nearText: {concepts: [%s]}", graphQLString(query))
	return c.search(ctx, "near_text", operator, lang, topN)
}

// Hybrid performs a combined keyword and dense search; the weighting
// between the two signals is owned by the backend.
func (c *Client) Hybrid(ctx context.Context, query, lang string, topN int) ([]domain.Document, error) {
	operator := fmt.Sprintf("hybrid: {query: %s}", graphQLString(query))
	return c.search(ctx, "hybrid", operator, lang, topN)
}

func (c *Client) search(ctx context.Context, mode, operator, lang string, topN int) ([]domain.Document, error) {
	if topN <= 0 {
		return []domain.Document{}, nil
	}

	startTime := time.Now()

	gql := fmt.Sprintf(`{
  Get {
    Articles(
      %s
      where: {path: ["lang"], operator: Equal, valueString: %s}
      limit: %d
    ) {
      %s
    }
  }
}`, operator, graphQLString(lang), topN, properties)

	jsonPayload, err := json.Marshal(graphQLRequest{Query: gql})
	if err != nil {
		return nil, &domain.RetrievalError{Err: fmt.Errorf("failed to marshal graphql request: %w", err)}
	}

	url := fmt.Sprintf("%s/v1/graphql", c.BaseURL)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(jsonPayload))
	if err != nil {
		return nil, &domain.RetrievalError{Err: fmt.Errorf("failed to create search request: %w", err)}
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.APIKey)

	resp, err := c.Client.Do(req)
	if err != nil {
		c.logger.Warn("search_failed",
			slog.String("mode", mode),
			slog.String("error", err.Error()),
			slog.Int64("elapsed_ms", time.Since(startTime).Milliseconds()))
		return nil, &domain.RetrievalError{Err: fmt.Errorf("failed to call search endpoint: %w", err)}
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		c.logger.Warn("search_failed",
			slog.String("mode", mode),
			slog.Int("status_code", resp.StatusCode),
			slog.Int64("elapsed_ms", time.Since(startTime).Milliseconds()))
		return nil, &domain.RetrievalError{Err: fmt.Errorf("search endpoint returned %d: %s", resp.StatusCode, string(body))}
	}

	var gqlResp graphQLResponse
	if err := json.NewDecoder(resp.Body).Decode(&gqlResp); err != nil {
		return nil, &domain.RetrievalError{Err: fmt.Errorf("failed to decode search response: %w", err)}
	}
	if len(gqlResp.Errors) > 0 {
		return nil, &domain.RetrievalError{Err: fmt.Errorf("search query rejected: %s", gqlResp.Errors[0].Message)}
	}

	docs := make([]domain.Document, 0, len(gqlResp.Data.Get.Articles))
	for _, hit := range gqlResp.Data.Get.Articles {
		doc := domain.Document{
			Text:  hit.Text,
			Title: hit.Title,
			URL:   hit.URL,
			Views: hit.Views,
			Lang:  hit.Lang,
			Additional: domain.Additional{
				Distance: hit.Additional.Distance,
			},
		}
		if hit.Additional.Score != nil {
			score, perr := strconv.ParseFloat(*hit.Additional.Score, 64)
			if perr != nil {
				c.logger.Warn("score_parse_failed",
					slog.String("mode", mode),
					slog.String("score", *hit.Additional.Score),
					slog.String("title", hit.Title))
			} else {
				doc.Additional.Score = &score
			}
		}
		docs = append(docs, doc)
	}

	c.logger.Info("search_completed",
		slog.String("mode", mode),
		slog.String("lang", lang),
		slog.Int("hit_count", len(docs)),
		slog.Int64("elapsed_ms", time.Since(startTime).Milliseconds()))

	return docs, nil
}

// graphQLString renders a user-supplied string as a GraphQL string literal.
// GraphQL string escaping matches JSON, so the JSON encoder does the work.
func graphQLString(s string) string {
	b, _ := json.Marshal(s)
	return string(b)
}

var _ domain.SearchClient = (*Client)(nil)
