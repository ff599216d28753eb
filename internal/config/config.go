package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	App     AppConfig
	Stoloto StolotoConfig
	Ai      AIConfig
}

type AppConfig struct {
	Port               string
	Environment        string
	LogFilePath        string
	ChatLogFilePath    string
	CorsAllowedOrigins string
	RedisURL           string
}

type StolotoConfig struct {
	CMSBaseURL    string // api.stoloto.ru (CMS sections: main categories, tabs)
	MobileBaseURL string // www.stoloto.ru (mobile API: packets, draw details)
	PartnerToken  string
	UserAgent     string
	RateLimit     time.Duration // minimum interval between upstream request starts
	SectionTTL    time.Duration // cache TTL shared by the catalog sections
}

type AIConfig struct {
	LLMProvider string // "openai" (OpenRouter-compatible) or "ollama"
	LLMModel    string
	LLMBaseURL  string
	LLMApiKey   string

	EmbeddingProvider    string // "ollama" or "gemini"
	OllamaBaseURL        string
	OllamaEmbeddingModel string
	GeminiApiKey         string
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
			ChatLogFilePath:    getEnv("CHAT_LOG_FILE_PATH", "logs/chat.log"),
			CorsAllowedOrigins: getEnv("CORS_ALLOWED_ORIGINS", "http://localhost:5173"),
			RedisURL:           getEnv("REDIS_URL", "redis://localhost:6379"),
		},
		Stoloto: StolotoConfig{
			CMSBaseURL:    getEnv("STOLOTO_CMS_BASE_URL", "https://api.stoloto.ru"),
			MobileBaseURL: getEnv("STOLOTO_MOBILE_BASE_URL", "https://www.stoloto.ru"),
			PartnerToken:  getEnv("STOLOTO_PARTNER_TOKEN", ""),
			UserAgent:     getEnv("STOLOTO_USER_AGENT", "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36"),
			RateLimit:     time.Duration(getEnvAsInt("STOLOTO_RATE_LIMIT_MS", 1000)) * time.Millisecond,
			SectionTTL:    time.Duration(getEnvAsInt("STOLOTO_SECTION_TTL_SECONDS", 600)) * time.Second,
		},
		Ai: AIConfig{
			LLMProvider: getEnv("LLM_PROVIDER", "openai"),
			LLMModel:    getEnv("LLM_MODEL", "x-ai/grok-4.1-fast:free"),
			LLMBaseURL:  getEnv("LLM_BASE_URL", "https://openrouter.ai/api/v1"),
			LLMApiKey:   getEnv("LLM_API_KEY", ""),

			EmbeddingProvider:    getEnv("EMBEDDING_PROVIDER", "ollama"),
			OllamaBaseURL:        getEnv("OLLAMA_BASE_URL", "http://localhost:11434"),
			OllamaEmbeddingModel: getEnv("OLLAMA_EMBEDDING_MODEL", "nomic-embed-text"),
			GeminiApiKey:         getEnv("GOOGLE_GEMINI_API_KEY", ""),
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
