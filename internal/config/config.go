package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	App       AppConfig
	Database  DatabaseConfig
	Ai        AIConfig
	Concierge ConciergeConfig
}

type AppConfig struct {
	Port               string
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
	OllamaBaseURL     string
	OllamaModel       string
	LLMProvider       string // "ollama" or "huggingface"
	LLMModel          string // e.g. "llama3", "qwen2.5"
	GeminiAPIKey      string
	HuggingFaceAPIKey string
}

type ConciergeConfig struct {
	// SessionBackend selects "memory" or "redis"
	SessionBackend string
	SessionTTL     time.Duration
	// DefaultLanguage is used when the text carries no script signal
	DefaultLanguage string
	// ClarificationRetryBudget is how many re-asks are allowed before
	// falling back to the general responder
	ClarificationRetryBudget int
	IngestTopic              string
}

func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("Note: .env file not found, using system environment")
	}

	return &Config{
		App: AppConfig{
			Port:               getEnv("APP_PORT", "3000"),
			Environment:        getEnv("GO_ENV", "development"),
			LogFilePath:        getEnv("LOG_FILE_PATH", "concierge.log"),
			CorsAllowedOrigins: getEnv("CORS_ALLOWED_ORIGINS", "http://localhost:5173"),
			NatsURL:            getEnv("NATS_URL", "nats://localhost:4222"),
			RedisURL:           getEnv("REDIS_URL", "redis://localhost:6379"),
		},
		Database: DatabaseConfig{
			Connection: getEnv("DB_CONNECTION_STRING", ""),
		},
		Ai: AIConfig{
			EmbeddingProvider: getEnv("EMBEDDING_PROVIDER", "ollama"),
			OllamaBaseURL:     getEnv("OLLAMA_BASE_URL", "http://localhost:11434"),
			OllamaModel:       getEnv("OLLAMA_EMBEDDING_MODEL", "nomic-embed-text"),
			LLMProvider:       getEnv("LLM_PROVIDER", "ollama"),
			LLMModel:          getEnv("LLM_MODEL", "llama3.1:8b"),
			GeminiAPIKey:      getEnv("GOOGLE_GEMINI_API_KEY", ""),
			HuggingFaceAPIKey: getEnv("HUGGINGFACE_API_KEY", ""),
		},
		Concierge: ConciergeConfig{
			SessionBackend:           getEnv("SESSION_BACKEND", "memory"),
			SessionTTL:               getEnvAsDuration("SESSION_TTL", 1*time.Hour),
			DefaultLanguage:          getEnv("DEFAULT_LANGUAGE", "ja"),
			ClarificationRetryBudget: getEnvAsInt("CLARIFICATION_RETRY_BUDGET", 1),
			IngestTopic:              getEnv("KNOWLEDGE_INGEST_TOPIC", "INGEST_KNOWLEDGE"),
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

func getEnvAsDuration(key string, fallback time.Duration) time.Duration {
	strValue := getEnv(key, "")
	if value, err := time.ParseDuration(strValue); err == nil {
		return value
	}
	return fallback
}
