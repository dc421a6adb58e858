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
	Keys     APIKeys
	Ai       AIConfig
	Rag      RagConfig
}

type AppConfig struct {
	Port               string
	BaseURL            string
	Environment        string
	LogFilePath        string
	CorsAllowedOrigins string
	NatsURL            string
	RedisURL           string
	OtlpEndpoint       string
}

type DatabaseConfig struct {
	Connection string
}

type APIKeys struct {
	GoogleGemini string
	IngestTopic  string // document ingestion topic
}

type AIConfig struct {
	EmbeddingProvider  string // "gemini" or "ollama"
	EmbeddingDimension int    // fixed per vector index namespace
	OllamaBaseURL      string
	OllamaModel        string
	LLMProvider        string // "ollama", etc
	LLMModel           string // e.g. "llama3", "qwen2.5"
	LLMTimeoutSeconds  int
}

type RagConfig struct {
	ChunkSize           int     // max chunk size in runes
	ChunkOverlap        int     // overlap carried across chunk boundaries, must be < ChunkSize
	TopKDefault         int     // k used when the caller does not pass one
	TopKMax             int     // upper bound for the k retrieval parameter
	SimilarityThreshold float64 // below this the answer is flagged ungrounded
	RetryAttempts       int     // bounded retries for embedding/LLM calls
	IndexDriver         string  // "pgvector" or "memory"
	CacheDriver         string  // "memory" or "redis"
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
			OtlpEndpoint:       getEnv("OTLP_ENDPOINT", ""),
		},
		Database: DatabaseConfig{
			Connection: getEnv("DB_CONNECTION_STRING", ""),
		},
		Keys: APIKeys{
			GoogleGemini: getEnv("GOOGLE_GEMINI_API_KEY", ""),
			IngestTopic:  getEnv("INGEST_DOCUMENT_TOPIC_NAME", "INGEST_DOCUMENT"),
		},
		Ai: AIConfig{
			EmbeddingProvider:  getEnv("EMBEDDING_PROVIDER", "gemini"),
			EmbeddingDimension: getEnvAsInt("EMBEDDING_DIMENSION", 768),
			OllamaBaseURL:      getEnv("OLLAMA_BASE_URL", "http://localhost:11434"),
			OllamaModel:        getEnv("OLLAMA_EMBEDDING_MODEL", "nomic-embed-text"),
			LLMProvider:        getEnv("LLM_PROVIDER", "ollama"),
			LLMModel:           getEnv("LLM_MODEL", "llama3"),
			LLMTimeoutSeconds:  getEnvAsInt("LLM_TIMEOUT_SECONDS", 120),
		},
		Rag: RagConfig{
			ChunkSize:           getEnvAsInt("RAG_CHUNK_SIZE", 1500),
			ChunkOverlap:        getEnvAsInt("RAG_CHUNK_OVERLAP", 200),
			TopKDefault:         getEnvAsInt("RAG_TOP_K_DEFAULT", 5),
			TopKMax:             getEnvAsInt("RAG_TOP_K_MAX", 50),
			SimilarityThreshold: getEnvAsFloat("RAG_SIMILARITY_THRESHOLD", 0.3),
			RetryAttempts:       getEnvAsInt("RAG_RETRY_ATTEMPTS", 3),
			IndexDriver:         getEnv("VECTOR_INDEX_DRIVER", "pgvector"),
			CacheDriver:         getEnv("EMBEDDING_CACHE_DRIVER", "memory"),
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
