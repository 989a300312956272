package search_http

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"wikisearch/internal/domain"
	"wikisearch/internal/usecase"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

type Handler struct {
	retrieveUsecase usecase.RetrievePassagesUsecase
	rerankUsecase   usecase.RerankPassagesUsecase
	answerUsecase   usecase.AnswerUsecase
	compareUsecase  usecase.CompareModesUsecase
	queryLog        domain.QueryLogRepository
	defaultTopN     int
	defaultLang     string
	rankModel       string
	logger          *slog.Logger
}

// NewHandler wires the HTTP surface. queryLog may be nil; audit logging is
// then skipped.
func NewHandler(
	retrieveUsecase usecase.RetrievePassagesUsecase,
	rerankUsecase usecase.RerankPassagesUsecase,
	answerUsecase usecase.AnswerUsecase,
	compareUsecase usecase.CompareModesUsecase,
	queryLog domain.QueryLogRepository,
	defaultTopN int,
	defaultLang string,
	rankModel string,
	logger *slog.Logger,
) *Handler {
	return &Handler{
		retrieveUsecase: retrieveUsecase,
		rerankUsecase:   rerankUsecase,
		answerUsecase:   answerUsecase,
		compareUsecase:  compareUsecase,
		queryLog:        queryLog,
		defaultTopN:     defaultTopN,
		defaultLang:     defaultLang,
		rankModel:       rankModel,
		logger:          logger,
	}
}

// RegisterRoutes attaches all handlers to the echo instance.
func (h *Handler) RegisterRoutes(e *echo.Echo) {
	e.POST("/v1/search", h.Search)
	e.POST("/v1/rerank", h.Rerank)
	e.POST("/v1/ask", h.Ask)
	e.GET("/v1/search/compare", h.Compare)
	e.GET("/v1/languages", h.Languages)
}

type SearchRequest struct {
	Query string `json:"query"`
	Lang  string `json:"lang"`
	Mode  string `json:"mode"`
	TopN  *int   `json:"top_n"`
}

type SearchResponse struct {
	Documents []domain.Document `json:"documents"`
}

// Search retrieves passages with a single mode.
// (POST /v1/search)
func (h *Handler) Search(ctx echo.Context) error {
	var req SearchRequest
	if err := ctx.Bind(&req); err != nil {
		return ctx.JSON(http.StatusBadRequest, map[string]string{"error": "invalid request"})
	}

	input, errMsg := h.buildRetrieveInput(req.Query, req.Lang, req.Mode, req.TopN)
	if errMsg != "" {
		return ctx.JSON(http.StatusBadRequest, map[string]string{"error": errMsg})
	}

	docs, err := h.retrieveUsecase.Execute(ctx.Request().Context(), input)
	if err != nil {
		return h.pipelineError(ctx, err)
	}

	return ctx.JSON(http.StatusOK, SearchResponse{Documents: docs})
}

type RerankRequest struct {
	Query     string            `json:"query"`
	Documents []domain.Document `json:"documents"`
	TopN      *int              `json:"top_n"`
	Model     string            `json:"model"`
}

type RerankResponse struct {
	Ranked []domain.RankedResult `json:"ranked"`
}

// Rerank scores an already-retrieved document list against a query.
// (POST /v1/rerank)
func (h *Handler) Rerank(ctx echo.Context) error {
	var req RerankRequest
	if err := ctx.Bind(&req); err != nil {
		return ctx.JSON(http.StatusBadRequest, map[string]string{"error": "invalid request"})
	}
	if req.Query == "" {
		return ctx.JSON(http.StatusBadRequest, map[string]string{"error": "query is required"})
	}
	topN := h.defaultTopN
	if req.TopN != nil {
		if *req.TopN < 0 {
			return ctx.JSON(http.StatusBadRequest, map[string]string{"error": "top_n must be non-negative"})
		}
		topN = *req.TopN
	}
	model := req.Model
	if model == "" {
		model = h.rankModel
	}

	ranked, err := h.rerankUsecase.Execute(ctx.Request().Context(), req.Query, req.Documents, topN, model)
	if err != nil {
		return h.pipelineError(ctx, err)
	}

	return ctx.JSON(http.StatusOK, RerankResponse{Ranked: ranked})
}

type AskRequest struct {
	Query       string   `json:"query"`
	Lang        string   `json:"lang"`
	Mode        string   `json:"mode"`
	TopN        *int     `json:"top_n"`
	Temperature *float64 `json:"temperature"`
	GenModel    string   `json:"gen_model"`
	RankModel   string   `json:"rank_model"`
	TargetLang  string   `json:"target_lang"`
}

type AskResponse struct {
	Answer    string                `json:"answer"`
	Documents []domain.Document     `json:"documents"`
	Ranked    []domain.RankedResult `json:"ranked"`
}

// Ask runs the full retrieve → rerank → generate pipeline.
// (POST /v1/ask)
func (h *Handler) Ask(ctx echo.Context) error {
	var req AskRequest
	if err := ctx.Bind(&req); err != nil {
		return ctx.JSON(http.StatusBadRequest, map[string]string{"error": "invalid request"})
	}
	if req.Query == "" {
		return ctx.JSON(http.StatusBadRequest, map[string]string{"error": "query is required"})
	}

	input := usecase.AskInput{
		Query:      req.Query,
		Lang:       req.Lang,
		GenModel:   req.GenModel,
		RankModel:  req.RankModel,
		TargetLang: req.TargetLang,
	}
	if req.Mode != "" {
		mode, err := domain.ParseSearchMode(req.Mode)
		if err != nil {
			return ctx.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
		}
		input.Mode = mode
	}
	if req.Lang != "" && !domain.SupportedLanguage(req.Lang) {
		return ctx.JSON(http.StatusBadRequest, map[string]string{"error": "unsupported language code"})
	}
	if req.TopN != nil {
		if *req.TopN < 0 {
			return ctx.JSON(http.StatusBadRequest, map[string]string{"error": "top_n must be non-negative"})
		}
		input.TopN = req.TopN
	}
	if req.Temperature != nil {
		if *req.Temperature < 0 || *req.Temperature > 1 {
			return ctx.JSON(http.StatusBadRequest, map[string]string{"error": "temperature must be in [0,1]"})
		}
		input.Temperature = req.Temperature
	}

	startTime := time.Now()
	out, err := h.answerUsecase.Ask(ctx.Request().Context(), input)
	if err != nil {
		return h.pipelineError(ctx, err)
	}

	h.recordQuery(ctx, input, out, time.Since(startTime))

	return ctx.JSON(http.StatusOK, AskResponse{
		Answer:    out.Answer,
		Documents: out.Documents,
		Ranked:    out.Ranked,
	})
}

type CompareResponse struct {
	Results map[domain.SearchMode][]domain.Document `json:"results"`
}

// Compare retrieves the same query with all three modes side by side.
// (GET /v1/search/compare)
func (h *Handler) Compare(ctx echo.Context) error {
	query := ctx.QueryParam("q")
	if query == "" {
		return ctx.JSON(http.StatusBadRequest, map[string]string{"error": "q is required"})
	}
	lang := ctx.QueryParam("lang")
	if lang == "" {
		lang = h.defaultLang
	}
	if !domain.SupportedLanguage(lang) {
		return ctx.JSON(http.StatusBadRequest, map[string]string{"error": "unsupported language code"})
	}
	topN := h.defaultTopN
	if raw := ctx.QueryParam("top_n"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 0 {
			return ctx.JSON(http.StatusBadRequest, map[string]string{"error": "top_n must be a non-negative integer"})
		}
		topN = parsed
	}

	out, err := h.compareUsecase.Execute(ctx.Request().Context(), query, lang, topN)
	if err != nil {
		return h.pipelineError(ctx, err)
	}

	return ctx.JSON(http.StatusOK, CompareResponse{Results: out.Results})
}

// Languages lists the corpus language codes offered to clients.
// (GET /v1/languages)
func (h *Handler) Languages(ctx echo.Context) error {
	return ctx.JSON(http.StatusOK, domain.Languages)
}

func (h *Handler) buildRetrieveInput(query, lang, mode string, topN *int) (usecase.RetrievePassagesInput, string) {
	var input usecase.RetrievePassagesInput
	if query == "" {
		return input, "query is required"
	}
	if lang == "" {
		lang = h.defaultLang
	}
	if !domain.SupportedLanguage(lang) {
		return input, "unsupported language code"
	}
	parsedMode, err := domain.ParseSearchMode(mode)
	if err != nil {
		return input, err.Error()
	}
	n := h.defaultTopN
	if topN != nil {
		if *topN < 0 {
			return input, "top_n must be non-negative"
		}
		n = *topN
	}
	input.Query = query
	input.Lang = lang
	input.Mode = parsedMode
	input.TopN = n
	return input, ""
}

// pipelineError maps remote-service failures to 502 and everything else to
// 500. Errors pass through unmodified in the response body.
func (h *Handler) pipelineError(ctx echo.Context, err error) error {
	var (
		retrievalErr  *domain.RetrievalError
		rerankErr     *domain.RerankError
		generationErr *domain.GenerationError
	)
	if errors.As(err, &retrievalErr) || errors.As(err, &rerankErr) || errors.As(err, &generationErr) {
		return ctx.JSON(http.StatusBadGateway, map[string]string{"error": err.Error()})
	}
	return ctx.JSON(http.StatusInternalServerError, map[string]string{"error": err.Error()})
}

// recordQuery writes the audit entry best-effort; failures never fail the
// user request.
func (h *Handler) recordQuery(ctx echo.Context, input usecase.AskInput, out *usecase.AskOutput, elapsed time.Duration) {
	if h.queryLog == nil {
		return
	}
	topN := h.defaultTopN
	if input.TopN != nil {
		topN = *input.TopN
	}
	entry := &domain.QueryLogEntry{
		ID:          uuid.New(),
		Query:       input.Query,
		Lang:        input.Lang,
		Mode:        input.Mode,
		TopN:        topN,
		ResultCount: len(out.Documents),
		AnswerChars: len(out.Answer),
		ElapsedMs:   elapsed.Milliseconds(),
		CreatedAt:   time.Now().UTC(),
	}
	if err := h.queryLog.Insert(ctx.Request().Context(), entry); err != nil {
		h.logger.Warn("query_log_insert_failed", slog.String("error", err.Error()))
	}
}
