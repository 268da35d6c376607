package config

import (
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	App      AppConfig
	Database DatabaseConfig
	Ai       AIConfig
	Engine   EngineConfig
}

type AppConfig struct {
	Port               string
	BaseURL            string
	Environment        string
	LogFilePath        string
	CorsAllowedOrigins string
	NatsURL            string
	RedisURL           string
	SessionBackend     string // "memory" or "redis"
	EmbedProductTopic  string
}

type DatabaseConfig struct {
	Connection string
}

type AIConfig struct {
	EmbeddingProvider string // "gemini" or "ollama"
	OllamaBaseURL     string
	OllamaModel       string
	LLMProvider       string // "ollama" or "none"
	LLMModel          string // e.g. "llama3", "qwen2.5"
	GoogleGemini      string
}

// EngineConfig holds the conversation-engine tunables.
type EngineConfig struct {
	DegradationThreshold int     // unanswered inquiries before constraints relax
	TopK                 int     // candidates surfaced per search
	SimilarityCutoff     float64 // semantic branch minimum score
	StockThreshold       float64 // below this a product is not offered
	BackendTimeoutMs     int     // per retrieval branch
	ExactMatchBonus      float64 // fusion boost for products both branches agree on
	SessionTTLMinutes    int
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
			LogFilePath:        getEnv("LOG_FILE_PATH", "app.log.csv"),
			CorsAllowedOrigins: getEnv("CORS_ALLOWED_ORIGINS", "*"),
			NatsURL:            getEnv("NATS_URL", "nats://localhost:4222"),
			RedisURL:           getEnv("REDIS_URL", "redis://localhost:6379"),
			SessionBackend:     getEnv("SESSION_BACKEND", "memory"),
			EmbedProductTopic:  getEnv("EMBED_PRODUCT_TOPIC_NAME", "EMBED_PRODUCT"),
		},
		Database: DatabaseConfig{
			Connection: getEnv("DB_CONNECTION_STRING", ""),
		},
		Ai: AIConfig{
			EmbeddingProvider: getEnv("EMBEDDING_PROVIDER", "ollama"),
			OllamaBaseURL:     getEnv("OLLAMA_BASE_URL", "http://localhost:11434"),
			OllamaModel:       getEnv("OLLAMA_EMBEDDING_MODEL", "nomic-embed-text"),
			LLMProvider:       getEnv("LLM_PROVIDER", "ollama"),
			LLMModel:          getEnv("LLM_MODEL", "llama3"),
			GoogleGemini:      getEnv("GOOGLE_GEMINI_API_KEY", ""),
		},
		Engine: EngineConfig{
			DegradationThreshold: getEnvAsInt("ENGINE_DEGRADATION_THRESHOLD", 2),
			TopK:                 getEnvAsInt("ENGINE_TOP_K", 10),
			SimilarityCutoff:     getEnvAsFloat("ENGINE_SIMILARITY_CUTOFF", 0.35),
			StockThreshold:       getEnvAsFloat("ENGINE_STOCK_THRESHOLD", 0.1),
			BackendTimeoutMs:     getEnvAsInt("ENGINE_BACKEND_TIMEOUT_MS", 2500),
			ExactMatchBonus:      getEnvAsFloat("ENGINE_EXACT_MATCH_BONUS", 0.15),
			SessionTTLMinutes:    getEnvAsInt("SESSION_TTL_MINUTES", 60),
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

func getEnvAsFloat(key string, fallback float64) float64 {
	strValue := getEnv(key, "")
	if value, err := strconv.ParseFloat(strValue, 64); err == nil {
		return value
	}
	return fallback
}
