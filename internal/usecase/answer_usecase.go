package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"wikisearch/internal/domain"

	"github.com/google/uuid"
)

// GenerateAnswerInput drives a single grounded-generation call.
type GenerateAnswerInput struct {
	// Context is the ordered, already-truncated sequence of ranked results
	// whose texts feed the prompt verbatim.
	Context     []domain.RankedResult
	Query       string
	Temperature float64
	Model       string
	// TargetLang optionally forces the answer language.
	TargetLang string
}

// AskInput drives the full retrieve → rerank → generate pipeline.
// TopN and Temperature are pointers so an explicit zero is distinguishable
// from an absent value: nil takes the configured default, a pointer to 0
// means zero results and deterministic generation respectively.
type AskInput struct {
	Query       string
	Lang        string
	Mode        domain.SearchMode
	TopN        *int
	Temperature *float64
	GenModel    string
	RankModel   string
	TargetLang  string
}

// AskOutput carries everything the presentation layer renders: the raw
// pre-search hits, the reranked results, and the generated answer.
type AskOutput struct {
	Answer    string
	Documents []domain.Document
	Ranked    []domain.RankedResult
}

// AnswerUsecase produces grounded answers from retrieved context.
type AnswerUsecase interface {
	Generate(ctx context.Context, input GenerateAnswerInput) (string, error)
	Ask(ctx context.Context, input AskInput) (*AskOutput, error)
}

// AnswerDefaults are the configured fallbacks applied when an AskInput
// leaves a knob unset.
type AnswerDefaults struct {
	Lang        string
	Mode        domain.SearchMode
	TopN        int
	Temperature float64
	GenModel    string
	RankModel   string
}

type answerUsecase struct {
	retrieve      RetrievePassagesUsecase
	rerank        RerankPassagesUsecase
	promptBuilder PromptBuilder
	generator     domain.Generator
	maxTokens     int
	defaults      AnswerDefaults
	logger        *slog.Logger
}

// NewAnswerUsecase wires together the components of the answer pipeline.
// maxTokens is the fixed generation token budget; it bounds a multi-sentence
// answer and is configuration, not part of the public contract.
func NewAnswerUsecase(
	retrieve RetrievePassagesUsecase,
	rerank RerankPassagesUsecase,
	promptBuilder PromptBuilder,
	generator domain.Generator,
	maxTokens int,
	defaults AnswerDefaults,
	logger *slog.Logger,
) AnswerUsecase {
	return &answerUsecase{
		retrieve:      retrieve,
		rerank:        rerank,
		promptBuilder: promptBuilder,
		generator:     generator,
		maxTokens:     maxTokens,
		defaults:      defaults,
		logger:        logger,
	}
}

// Generate builds the grounded prompt from the context and requests one
// completion. An empty context still executes; the grounding instruction
// makes the model return the no-answer sentinel in that case.
func (u *answerUsecase) Generate(ctx context.Context, input GenerateAnswerInput) (string, error) {
	if strings.TrimSpace(input.Query) == "" {
		return "", fmt.Errorf("query is required")
	}

	contexts := make([]string, len(input.Context))
	for i, r := range input.Context {
		contexts[i] = r.Document.Text
	}

	prompt, err := u.promptBuilder.Build(PromptInput{
		Query:      input.Query,
		Contexts:   contexts,
		TargetLang: input.TargetLang,
	})
	if err != nil {
		return "", fmt.Errorf("failed to build prompt: %w", err)
	}

	model := input.Model
	if model == "" {
		model = u.defaults.GenModel
	}

	return u.generator.Generate(ctx, prompt, domain.GenerationOptions{
		Model:       model,
		Temperature: input.Temperature,
		MaxTokens:   u.maxTokens,
	})
}

// Ask runs the pipeline strictly sequentially: each step consumes the
// previous step's output, errors propagate unmodified, and no step is
// retried.
func (u *answerUsecase) Ask(ctx context.Context, input AskInput) (*AskOutput, error) {
	if strings.TrimSpace(input.Query) == "" {
		return nil, fmt.Errorf("query is required")
	}
	u.applyDefaults(&input)

	requestID := uuid.NewString()
	startTime := time.Now()

	docs, err := u.retrieve.Execute(ctx, RetrievePassagesInput{
		Query: input.Query,
		Lang:  input.Lang,
		Mode:  input.Mode,
		TopN:  *input.TopN,
	})
	if err != nil {
		return nil, err
	}

	ranked, err := u.rerank.Execute(ctx, input.Query, docs, *input.TopN, input.RankModel)
	if err != nil {
		return nil, err
	}

	answer, err := u.Generate(ctx, GenerateAnswerInput{
		Context:     ranked,
		Query:       input.Query,
		Temperature: *input.Temperature,
		Model:       input.GenModel,
		TargetLang:  input.TargetLang,
	})
	if err != nil {
		return nil, err
	}

	u.logger.Info("ask_completed",
		slog.String("request_id", requestID),
		slog.String("mode", string(input.Mode)),
		slog.String("lang", input.Lang),
		slog.Int("retrieved", len(docs)),
		slog.Int("ranked", len(ranked)),
		slog.Int64("elapsed_ms", time.Since(startTime).Milliseconds()))

	return &AskOutput{
		Answer:    answer,
		Documents: docs,
		Ranked:    ranked,
	}, nil
}

func (u *answerUsecase) applyDefaults(input *AskInput) {
	if input.Lang == "" {
		input.Lang = u.defaults.Lang
	}
	if input.Mode == "" {
		input.Mode = u.defaults.Mode
	}
	if input.TopN == nil {
		n := u.defaults.TopN
		input.TopN = &n
	}
	if input.Temperature == nil {
		temp := u.defaults.Temperature
		input.Temperature = &temp
	}
	if input.GenModel == "" {
		input.GenModel = u.defaults.GenModel
	}
	if input.RankModel == "" {
		input.RankModel = u.defaults.RankModel
	}
}
