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
	Generation GenerationConfig
	Memory     MemoryConfig
	Tracing    TracingConfig
}

type AppConfig struct {
	Port               string
	Environment        string
	LogFilePath        string
	AuditLogFilePath   string
	CorsAllowedOrigins string
	NatsURL            string
	RedisURL           string
	PipelineTimeout    time.Duration
}

type DatabaseConfig struct {
	Connection string
}

type AIConfig struct {
	EmbeddingProvider string // "ollama", "jina" or "gemini"
	EmbeddingBaseURL  string
	EmbeddingModel    string
	EmbeddingAPIKey   string
	LLMProvider       string // "ollama" or "openai"
	LLMModel          string
	LLMBaseURL        string
	LLMAPIKey         string
	LLMTemperature    float64
}

type GenerationConfig struct {
	ImageServiceURL   string
	Model3DServiceURL string
	ConnectTimeout    time.Duration
	ReadTimeout       time.Duration
	WriteTimeout      time.Duration
}

type MemoryConfig struct {
	ShortTermBackend string // "memory" or "redis"
	VectorBackend    string // "pgvector" or "memory"
	TopK             int
}

type TracingConfig struct {
	Enabled     bool
	Endpoint    string
	ServiceName string
	SampleRatio float64
}

func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("Note: .env file not found, usage system environment")
	}

	return &Config{
		App: AppConfig{
			Port:               getEnv("APP_PORT", "3000"),
			Environment:        getEnv("GO_ENV", "development"),
			LogFilePath:        getEnv("LOG_FILE_PATH", "logs/app.log"),
			AuditLogFilePath:   getEnv("AUDIT_LOG_FILE_PATH", "logs/pipeline_audit.log"),
			CorsAllowedOrigins: getEnv("CORS_ALLOWED_ORIGINS", "http://localhost:8501"),
			NatsURL:            getEnv("NATS_URL", ""),
			RedisURL:           getEnv("REDIS_URL", "redis://localhost:6379"),
			PipelineTimeout:    getEnvAsDuration("PIPELINE_TIMEOUT", 180*time.Second),
		},
		Database: DatabaseConfig{
			Connection: getEnv("DB_CONNECTION_STRING", ""),
		},
		Ai: AIConfig{
			EmbeddingProvider: getEnv("EMBEDDING_PROVIDER", "ollama"),
			EmbeddingBaseURL:  getEnv("EMBEDDING_BASE_URL", "http://localhost:11434"),
			EmbeddingModel:    getEnv("EMBEDDING_MODEL", "all-minilm"),
			EmbeddingAPIKey:   getEnv("EMBEDDING_API_KEY", ""),
			LLMProvider:       getEnv("LLM_PROVIDER", "openai"),
			LLMModel:          getEnv("LLM_MODEL", "jamba-large"),
			LLMBaseURL:        getEnv("LLM_BASE_URL", ""),
			LLMAPIKey:         getEnv("LLM_API_KEY", ""),
			LLMTemperature:    getEnvAsFloat("LLM_TEMPERATURE", 0.7),
		},
		Generation: GenerationConfig{
			ImageServiceURL:   getEnv("IMAGE_SERVICE_URL", "http://localhost:8000/generate"),
			Model3DServiceURL: getEnv("MODEL3D_SERVICE_URL", "http://localhost:8001/generate"),
			ConnectTimeout:    getEnvAsDuration("UPSTREAM_CONNECT_TIMEOUT", 10*time.Second),
			ReadTimeout:       getEnvAsDuration("UPSTREAM_READ_TIMEOUT", 80*time.Second),
			WriteTimeout:      getEnvAsDuration("UPSTREAM_WRITE_TIMEOUT", 30*time.Second),
		},
		Memory: MemoryConfig{
			ShortTermBackend: getEnv("SHORT_TERM_BACKEND", "memory"),
			VectorBackend:    getEnv("VECTOR_BACKEND", "pgvector"),
			TopK:             getEnvAsInt("MEMORY_TOP_K", 3),
		},
		Tracing: TracingConfig{
			Enabled:     getEnv("OTEL_ENABLED", "false") == "true",
			Endpoint:    getEnv("OTEL_EXPORTER_OTLP_ENDPOINT", "localhost:4318"),
			ServiceName: getEnv("OTEL_SERVICE_NAME", "dimensa-backend"),
			SampleRatio: getEnvAsFloat("OTEL_SAMPLE_RATIO", 1.0),
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

func getEnvAsDuration(key string, fallback time.Duration) time.Duration {
	strValue := getEnv(key, "")
	if value, err := time.ParseDuration(strValue); err == nil && value > 0 {
		return value
	}
	return fallback
}
