package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	Env              string
	Port             string
	DBHost           string
	DBPort           string
	DBUser           string
	DBPassword       string
	DBName           string
	DBMaxConns       int
	DBMinConns       int
	OllamaURL        string
	GenerationModel  string
	EmbeddingModel   string
	NLIURL           string
	NLIModel         string
	NLITimeout       time.Duration
	SessionCacheSize int
	SessionCacheTTL  time.Duration
	SearchRateLimit  float64
	SearchTopK       int
	AnswerMaxTokens  int
}

func Load() *Config {
	return &Config{
		Env:              getEnv("ENV", "development"),
		Port:             getEnv("PORT", "9020"),
		DBHost:           getEnv("DB_HOST", "docqa-db"),
		DBPort:           getEnv("DB_PORT", "5432"),
		DBUser:           getEnv("DB_USER", "docqa_user"),
		DBPassword:       getSecret("DB_PASSWORD", "DB_PASSWORD_FILE", "docqa_password"),
		DBName:           getEnv("DB_NAME", "docqa_db"),
		DBMaxConns:       getEnvInt("DB_MAX_CONNS", 10),
		DBMinConns:       getEnvInt("DB_MIN_CONNS", 2),
		OllamaURL:        getEnv("OLLAMA_URL", "http://ollama:11434"),
		GenerationModel:  getEnv("GENERATION_MODEL", "gemma3:4b"),
		EmbeddingModel:   getEnv("EMBEDDING_MODEL", "embeddinggemma"),
		NLIURL:           getEnv("NLI_URL", "http://inference:8001"),
		NLIModel:         getEnv("NLI_MODEL", "deberta-v3-base-mnli"),
		NLITimeout:       time.Duration(getEnvInt("NLI_TIMEOUT_SECONDS", 15)) * time.Second,
		SessionCacheSize: getEnvInt("SESSION_CACHE_SIZE", 256),
		SessionCacheTTL:  time.Duration(getEnvInt("SESSION_CACHE_TTL_SECONDS", 300)) * time.Second,
		SearchRateLimit:  getEnvFloat("SEARCH_RATE_LIMIT", 20),
		SearchTopK:       getEnvInt("SEARCH_TOP_K", 10),
		AnswerMaxTokens:  getEnvInt("ANSWER_MAX_TOKENS", 768),
	}
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
