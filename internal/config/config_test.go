package config

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLoadDefaults(t *testing.T) {
	os.Clearenv()
	cfg := Load()

	assert.Equal(t, "3000", cfg.Port)
	assert.Equal(t, "openai", cfg.LLMProvider)
	assert.Equal(t, "gpt-4.1", cfg.LLMModelOrder)
	assert.Equal(t, "gpt-4.1-mini", cfg.LLMModelChat)
	assert.Equal(t, "https://api.telegram.org", cfg.TelegramAPIBase)
	assert.Equal(t, "http://localhost:11434", cfg.OllamaBaseURL)
	assert.Equal(t, "order-intake-bot", cfg.OTelServiceName)
	assert.Equal(t, "http://localhost:4318", cfg.OTelEndpoint)
	assert.Equal(t, "development", cfg.ScoutEnvironment)
	assert.InDelta(t, 0.0, cfg.OrderTemperature, 0.001)
	assert.Equal(t, 1500, cfg.OrderMaxTokens)
	assert.InDelta(t, 0.4, cfg.ChatTemperature, 0.001)
	assert.Equal(t, 200, cfg.ChatMaxTokens)
	assert.Empty(t, cfg.ServerToken)
	assert.Empty(t, cfg.TelegramBotToken)
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("APP_PORT", "9090")
	t.Setenv("SERVER_TOKEN", "secret-token")
	t.Setenv("TELEGRAM_BOT_TOKEN", "123:abc")
	t.Setenv("LLM_PROVIDER", "ollama")
	t.Setenv("LLM_MODEL_ORDER", "llama3")
	t.Setenv("ORDER_MAX_TOKENS", "2048")
	t.Setenv("CHAT_TEMPERATURE", "0.7")
	t.Setenv("OPENAI_API_KEY", "sk-test")

	cfg := Load()

	assert.Equal(t, "9090", cfg.Port)
	assert.Equal(t, "secret-token", cfg.ServerToken)
	assert.Equal(t, "123:abc", cfg.TelegramBotToken)
	assert.Equal(t, "ollama", cfg.LLMProvider)
	assert.Equal(t, "llama3", cfg.LLMModelOrder)
	assert.Equal(t, 2048, cfg.OrderMaxTokens)
	assert.InDelta(t, 0.7, cfg.ChatTemperature, 0.001)
	assert.Equal(t, "sk-test", cfg.OpenAIAPIKey)
}

func TestInvalidNumericFallsBackToDefault(t *testing.T) {
	t.Setenv("ORDER_TEMPERATURE", "not-a-number")
	t.Setenv("CHAT_MAX_TOKENS", "abc")

	cfg := Load()

	assert.InDelta(t, 0.0, cfg.OrderTemperature, 0.001)
	assert.Equal(t, 200, cfg.ChatMaxTokens)
}
