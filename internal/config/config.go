package config

import (
	"os"
	"strconv"
)

type Config struct {
	Port             string
	ServerToken      string
	TelegramBotToken string
	TelegramAPIBase  string
	LLMProvider      string
	LLMModelOrder    string
	LLMModelChat     string
	OllamaBaseURL    string
	OpenAIAPIKey     string
	GoogleAPIKey     string
	AnthropicAPIKey  string
	OTelServiceName  string
	OTelEndpoint     string
	ScoutEnvironment string
	OrderTemperature float64
	OrderMaxTokens   int
	ChatTemperature  float64
	ChatMaxTokens    int
}

func Load() *Config {
	return &Config{
		Port:             envOr("APP_PORT", "3000"),
		ServerToken:      os.Getenv("SERVER_TOKEN"),
		TelegramBotToken: os.Getenv("TELEGRAM_BOT_TOKEN"),
		TelegramAPIBase:  envOr("TELEGRAM_API_BASE", "https://api.telegram.org"),
		LLMProvider:      envOr("LLM_PROVIDER", "openai"),
		LLMModelOrder:    envOr("LLM_MODEL_ORDER", "gpt-4.1"),
		LLMModelChat:     envOr("LLM_MODEL_CHAT", "gpt-4.1-mini"),
		OllamaBaseURL:    envOr("OLLAMA_BASE_URL", "http://localhost:11434"),
		OpenAIAPIKey:     os.Getenv("OPENAI_API_KEY"),
		GoogleAPIKey:     os.Getenv("GOOGLE_API_KEY"),
		AnthropicAPIKey:  os.Getenv("ANTHROPIC_API_KEY"),
		OTelServiceName:  envOr("OTEL_SERVICE_NAME", "order-intake-bot"),
		OTelEndpoint:     envOr("OTEL_EXPORTER_OTLP_ENDPOINT", "http://localhost:4318"),
		ScoutEnvironment: envOr("SCOUT_ENVIRONMENT", "development"),
		OrderTemperature: envOrFloat("ORDER_TEMPERATURE", 0.0),
		OrderMaxTokens:   envOrInt("ORDER_MAX_TOKENS", 1500),
		ChatTemperature:  envOrFloat("CHAT_TEMPERATURE", 0.4),
		ChatMaxTokens:    envOrInt("CHAT_MAX_TOKENS", 200),
	}
}

func envOr(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok {
		return v
	}
	return fallback
}

func envOrFloat(key string, fallback float64) float64 {
	if v, ok := os.LookupEnv(key); ok {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return fallback
}

func envOrInt(key string, fallback int) int {
	if v, ok := os.LookupEnv(key); ok {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return fallback
}
