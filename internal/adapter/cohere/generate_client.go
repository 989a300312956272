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

// GenerateRequest is the request payload for the generate endpoint.
type GenerateRequest struct {
	Model          string  `json:"model"`
	Prompt         string  `json:"prompt"`
	MaxTokens      int     `json:"max_tokens"`
	Temperature    float64 `json:"temperature"`
	NumGenerations int     `json:"num_generations"`
}

// Generation is a single generated completion.
type Generation struct {
	ID   string `json:"id,omitempty"`
	Text string `json:"text"`
}

// GenerateResponse is the response from the generate endpoint.
type GenerateResponse struct {
	ID          string       `json:"id,omitempty"`
	Generations []Generation `json:"generations"`
}

// GenerateClient implements domain.Generator via the hosted generation API.
// It requests exactly one completion per call and consumes only the first
// candidate.
type GenerateClient struct {
	BaseURL string
	APIKey  string
	Client  *http.Client
	logger  *slog.Logger
}

// NewGenerateClient constructs a generation client.
// If client is nil, a default http.Client is created with the given timeout.
func NewGenerateClient(baseURL, apiKey string, timeout time.Duration, logger *slog.Logger, client ...*http.Client) *GenerateClient {
	var c *http.Client
	if len(client) > 0 && client[0] != nil {
		c = client[0]
	} else {
		c = &http.Client{Timeout: timeout}
	}
	return &GenerateClient{
		BaseURL: strings.TrimRight(baseURL, "/"),
		APIKey:  apiKey,
		Client:  c,
		logger:  logger,
	}
}

// Generate sends the prompt and returns the first completion's text.
func (c *GenerateClient) Generate(ctx context.Context, prompt string, opts domain.GenerationOptions) (string, error) {
	startTime := time.Now()

	reqBody := GenerateRequest{
		Model:          opts.Model,
		Prompt:         prompt,
		MaxTokens:      opts.MaxTokens,
		Temperature:    opts.Temperature,
		NumGenerations: 1,
	}

	jsonPayload, err := json.Marshal(reqBody)
	if err != nil {
		return "", &domain.GenerationError{Err: fmt.Errorf("failed to marshal generate request: %w", err)}
	}

	url := fmt.Sprintf("%s/v1/generate", c.BaseURL)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(jsonPayload))
	if err != nil {
		return "", &domain.GenerationError{Err: fmt.Errorf("failed to create generate request: %w", err)}
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.APIKey)

	resp, err := c.Client.Do(req)
	if err != nil {
		c.logger.Warn("generation_failed",
			slog.String("error", err.Error()),
			slog.Int64("elapsed_ms", time.Since(startTime).Milliseconds()))
		return "", &domain.GenerationError{Err: fmt.Errorf("failed to call generate endpoint: %w", err)}
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		c.logger.Warn("generation_failed",
			slog.Int("status_code", resp.StatusCode),
			slog.Int64("elapsed_ms", time.Since(startTime).Milliseconds()))
		return "", &domain.GenerationError{Err: fmt.Errorf("generate endpoint returned %d: %s", resp.StatusCode, string(body))}
	}

	var genResp GenerateResponse
	if err := json.NewDecoder(resp.Body).Decode(&genResp); err != nil {
		return "", &domain.GenerationError{Err: fmt.Errorf("failed to decode generate response: %w", err)}
	}
	if len(genResp.Generations) == 0 {
		return "", &domain.GenerationError{Err: fmt.Errorf("generate endpoint returned no generations")}
	}

	text := genResp.Generations[0].Text

	c.logger.Info("generation_completed",
		slog.String("model", opts.Model),
		slog.Int("answer_chars", len(text)),
		slog.Int64("elapsed_ms", time.Since(startTime).Milliseconds()))

	return text, nil
}

var _ domain.Generator = (*GenerateClient)(nil)
