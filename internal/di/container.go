package di

import (
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"wikisearch/internal/adapter/cohere"
	"wikisearch/internal/adapter/repository"
	"wikisearch/internal/adapter/search_http"
	"wikisearch/internal/adapter/weaviate"
	"wikisearch/internal/domain"
	"wikisearch/internal/infra/config"
	"wikisearch/internal/infra/httpclient"
	"wikisearch/internal/usecase"
)

// ApplicationComponents holds all wired dependencies for the application.
type ApplicationComponents struct {
	// Adapters
	SearchClient domain.SearchClient
	Reranker     domain.Reranker
	Generator    domain.Generator
	QueryLog     domain.QueryLogRepository

	// Usecases
	RetrieveUsecase usecase.RetrievePassagesUsecase
	RerankUsecase   usecase.RerankPassagesUsecase
	AnswerUsecase   usecase.AnswerUsecase
	CompareUsecase  usecase.CompareModesUsecase

	// HTTP surface
	Handler *search_http.Handler
}

// NewApplicationComponents wires all dependencies from config. pool may be
// nil; query audit logging is then disabled.
func NewApplicationComponents(cfg *config.Config, pool *pgxpool.Pool, log *slog.Logger) *ApplicationComponents {
	// Shared HTTP clients with connection pooling. Cohere calls go through
	// an outbound rate limiter when COHERE_RPS is set.
	weaviateHTTP := httpclient.NewPooledClient(time.Duration(cfg.WeaviateTimeout) * time.Second)
	cohereHTTP := httpclient.NewRateLimitedClient(time.Duration(cfg.CohereTimeout)*time.Second, cfg.CohereRPS)

	// External clients
	searchClient := weaviate.NewClient(cfg.WeaviateURL, cfg.WeaviateAPIKey,
		time.Duration(cfg.WeaviateTimeout)*time.Second, log, weaviateHTTP)
	reranker := cohere.NewRerankClient(cfg.CohereURL, cfg.CohereAPIKey,
		time.Duration(cfg.CohereTimeout)*time.Second, log, cohereHTTP)
	generator := cohere.NewGenerateClient(cfg.CohereURL, cfg.CohereAPIKey,
		time.Duration(cfg.CohereTimeout)*time.Second, log, cohereHTTP)

	// Usecases
	retrieveUsecase := usecase.NewRetrievePassagesUsecase(searchClient, log,
		usecase.WithRetrievalCache(cfg.CacheSize, time.Duration(cfg.CacheTTL)*time.Minute))
	rerankUsecase := usecase.NewRerankPassagesUsecase(reranker, log)
	answerUsecase := usecase.NewAnswerUsecase(
		retrieveUsecase,
		rerankUsecase,
		usecase.NewGroundedPromptBuilder(),
		generator,
		cfg.AnswerMaxTokens,
		usecase.AnswerDefaults{
			Lang:        cfg.DefaultLang,
			Mode:        domain.SearchModeHybrid,
			TopN:        cfg.MaxResults,
			Temperature: cfg.Temperature,
			GenModel:    cfg.GenModel,
			RankModel:   cfg.RankModel,
		},
		log,
	)
	compareUsecase := usecase.NewCompareModesUsecase(retrieveUsecase, log)

	var queryLog domain.QueryLogRepository
	if pool != nil {
		queryLog = repository.NewQueryLogRepository(pool)
		log.Info("query_log_enabled")
	}

	handler := search_http.NewHandler(
		retrieveUsecase,
		rerankUsecase,
		answerUsecase,
		compareUsecase,
		queryLog,
		cfg.MaxResults,
		cfg.DefaultLang,
		cfg.RankModel,
		log,
	)

	return &ApplicationComponents{
		SearchClient:    searchClient,
		Reranker:        reranker,
		Generator:       generator,
		QueryLog:        queryLog,
		RetrieveUsecase: retrieveUsecase,
		RerankUsecase:   rerankUsecase,
		AnswerUsecase:   answerUsecase,
		CompareUsecase:  compareUsecase,
		Handler:         handler,
	}
}
