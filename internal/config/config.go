package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	App        AppConfig
	Database   DatabaseConfig
	Ai         AIConfig
	Guardrails GuardrailsConfig
	Memory     MemoryConfig
	Tools      ToolsConfig
	Hitl       HitlConfig
}

type AppConfig struct {
	Port               string
	BaseURL            string
	Environment        string
	LogFilePath        string
	CorsAllowedOrigins string
	NatsURL            string
	RedisURL           string
}

type DatabaseConfig struct {
	Connection string
}

type AIConfig struct {
	EmbeddingProvider string // "gemini" or "ollama"
	EmbeddingDim      int
	OllamaBaseURL     string
	OllamaEmbedModel  string
	LLMProvider       string // "ollama" or "gemini"
	LLMModel          string
	GeminiAPIKey      string
	RequestTimeout    time.Duration
	MaxRetries        int
}

type GuardrailsConfig struct {
	Enabled        bool // false bypasses both input and output stages
	MaxInputChars  int
	MaxInputTokens int
	MaxOutputChars int
	RatePerMinute  int
	RatePerHour    int
	RateStore      string // "memory" or "redis"
}

type MemoryConfig struct {
	RecentWindow    int
	SimilarTopK     int
	CommitTopicName string
	IngestTopicName string
}

type ToolsConfig struct {
	SerperAPIKey    string
	WikipediaURL    string
	CalendarBaseURL string
	CalendarAPIKey  string
	RetrievalTopK   int
}

type HitlConfig struct {
	ProposalTTL   time.Duration
	SweepInterval time.Duration
}

func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("Note: .env file not found, usage system environment")
	}

	return &Config{
		App: AppConfig{
			Port:               getEnv("APP_PORT", "3000"),
			BaseURL:            getEnv("APP_BASE_URL", "http://localhost:3000"),
			Environment:        getEnv("GO_ENV", "development"),
			LogFilePath:        getEnv("LOG_FILE_PATH", "app.log"),
			CorsAllowedOrigins: getEnv("CORS_ALLOWED_ORIGINS", "http://localhost:5173"),
			NatsURL:            getEnv("NATS_URL", "nats://localhost:4222"),
			RedisURL:           getEnv("REDIS_URL", "redis://localhost:6379"),
		},
		Database: DatabaseConfig{
			Connection: getEnv("DB_CONNECTION_STRING", ""),
		},
		Ai: AIConfig{
			EmbeddingProvider: getEnv("EMBEDDING_PROVIDER", "gemini"),
			EmbeddingDim:      getEnvAsInt("EMBEDDING_DIM", 768),
			OllamaBaseURL:     getEnv("OLLAMA_BASE_URL", "http://localhost:11434"),
			OllamaEmbedModel:  getEnv("OLLAMA_EMBEDDING_MODEL", "nomic-embed-text"),
			LLMProvider:       getEnv("LLM_PROVIDER", "ollama"),
			LLMModel:          getEnv("LLM_MODEL", "llama3"),
			GeminiAPIKey:      getEnv("GOOGLE_GEMINI_API_KEY", ""),
			RequestTimeout:    getEnvAsDuration("AI_REQUEST_TIMEOUT", 30*time.Second),
			MaxRetries:        getEnvAsInt("AI_MAX_RETRIES", 3),
		},
		Guardrails: GuardrailsConfig{
			Enabled:        getEnvAsBool("GUARDRAILS_ENABLED", true),
			MaxInputChars:  getEnvAsInt("GUARDRAILS_MAX_INPUT_CHARS", 10000),
			MaxInputTokens: getEnvAsInt("GUARDRAILS_MAX_INPUT_TOKENS", 4000),
			MaxOutputChars: getEnvAsInt("GUARDRAILS_MAX_OUTPUT_CHARS", 5000),
			RatePerMinute:  getEnvAsInt("GUARDRAILS_RATE_PER_MINUTE", 20),
			RatePerHour:    getEnvAsInt("GUARDRAILS_RATE_PER_HOUR", 200),
			RateStore:      getEnv("GUARDRAILS_RATE_STORE", "memory"),
		},
		Memory: MemoryConfig{
			RecentWindow:    getEnvAsInt("MEMORY_RECENT_WINDOW", 10),
			SimilarTopK:     getEnvAsInt("MEMORY_SIMILAR_TOP_K", 5),
			CommitTopicName: getEnv("MEMORY_COMMIT_TOPIC_NAME", "MEMORY_COMMIT"),
			IngestTopicName: getEnv("KB_INGEST_TOPIC_NAME", "KB_INGEST_DOCUMENT"),
		},
		Tools: ToolsConfig{
			SerperAPIKey:    getEnv("SERPER_API_KEY", ""),
			WikipediaURL:    getEnv("WIKIPEDIA_API_URL", "https://en.wikipedia.org/api/rest_v1"),
			CalendarBaseURL: getEnv("CALENDAR_API_URL", "http://localhost:8090"),
			CalendarAPIKey:  getEnv("CALENDAR_API_KEY", ""),
			RetrievalTopK:   getEnvAsInt("RETRIEVAL_TOP_K", 5),
		},
		Hitl: HitlConfig{
			ProposalTTL:   getEnvAsDuration("HITL_PROPOSAL_TTL", 24*time.Hour),
			SweepInterval: getEnvAsDuration("HITL_SWEEP_INTERVAL", 5*time.Minute),
		},
	}
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	strValue := getEnv(key, "")
	if value, err := strconv.Atoi(strValue); err == nil {
		return value
	}
	return fallback
}

func getEnvAsBool(key string, fallback bool) bool {
	strValue := getEnv(key, "")
	if value, err := strconv.ParseBool(strValue); err == nil {
		return value
	}
	return fallback
}

func getEnvAsDuration(key string, fallback time.Duration) time.Duration {
	strValue := getEnv(key, "")
	if value, err := time.ParseDuration(strValue); err == nil {
		return value
	}
	return fallback
}
