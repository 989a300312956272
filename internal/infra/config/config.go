package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

type Config struct {
	Env  string
	Port string

	// Remote service credentials and endpoints. All three are required;
	// missing any one is a construction-time error.
	CohereAPIKey   string
	WeaviateAPIKey string
	WeaviateURL    string

	CohereURL string

	GenModel    string
	RankModel   string
	DefaultLang string

	MaxResults      int
	AnswerMaxTokens int
	Temperature     float64

	WeaviateTimeout int
	CohereTimeout   int
	CohereRPS       float64

	CacheSize int
	CacheTTL  int

	// DatabaseURL enables the query audit log when set. The pipeline runs
	// without it.
	DatabaseURL string
}

// Load reads configuration from a .env file (if present) and the
// environment. It fails when any required credential or endpoint is absent.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		Env:             getEnv("ENV", "development"),
		Port:            getEnv("PORT", "9020"),
		CohereAPIKey:    getSecret("COHERE_API_KEY", "COHERE_API_KEY_FILE", ""),
		WeaviateAPIKey:  getSecret("WEAVIATE_API_KEY", "WEAVIATE_API_KEY_FILE", ""),
		WeaviateURL:     getEnv("WEAVIATE_URL", ""),
		CohereURL:       getEnv("COHERE_URL", "https://api.cohere.ai"),
		GenModel:        getEnv("GEN_MODEL", "command"),
		RankModel:       getEnv("RANK_MODEL", "rerank-english-v2.0"),
		DefaultLang:     getEnv("DEFAULT_LANG", "en"),
		MaxResults:      getEnvInt("MAX_RESULTS", 7),
		AnswerMaxTokens: getEnvInt("ANSWER_MAX_TOKENS", 512),
		Temperature:     getEnvFloat("TEMPERATURE", 0.25),
		WeaviateTimeout: getEnvInt("WEAVIATE_TIMEOUT_SECONDS", 30),
		CohereTimeout:   getEnvInt("COHERE_TIMEOUT_SECONDS", 120),
		CohereRPS:       getEnvFloat("COHERE_RPS", 0),
		CacheSize:       getEnvInt("RETRIEVAL_CACHE_SIZE", 256),
		CacheTTL:        getEnvInt("RETRIEVAL_CACHE_TTL_MINUTES", 15),
		DatabaseURL:     getEnv("DATABASE_URL", ""),
	}

	var missing []string
	if cfg.CohereAPIKey == "" {
		missing = append(missing, "COHERE_API_KEY")
	}
	if cfg.WeaviateAPIKey == "" {
		missing = append(missing, "WEAVIATE_API_KEY")
	}
	if cfg.WeaviateURL == "" {
		missing = append(missing, "WEAVIATE_URL")
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("missing required configuration: %s", strings.Join(missing, ", "))
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

func getSecret(envKey, fileEnvKey, fallback string) string {
	if value, ok := os.LookupEnv(envKey); ok {
		return value
	}
	if filePath, ok := os.LookupEnv(fileEnvKey); ok {
		content, err := os.ReadFile(filePath)
		if err == nil {
			return strings.TrimSpace(string(content))
		}
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if value, ok := os.LookupEnv(key); ok {
		if parsed, err := strconv.Atoi(value); err == nil {
			return parsed
		}
	}
	return fallback
}

func getEnvFloat(key string, fallback float64) float64 {
	if value, ok := os.LookupEnv(key); ok {
		if parsed, err := strconv.ParseFloat(value, 64); err == nil {
			return parsed
		}
	}
	return fallback
}
