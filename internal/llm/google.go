package llm

import (
	openai "github.com/sashabaranov/go-openai"
)

const googleBaseURL = "https://generativelanguage.googleapis.com/v1beta/openai"

// NewGoogleProvider selects Gemini through Google's OpenAI-compatible
// endpoint, so both bot flows reuse the OpenAI provider unchanged.
func NewGoogleProvider(apiKey string) *OpenAIProvider {
	cfg := openai.DefaultConfig(apiKey)
	cfg.BaseURL = googleBaseURL
	return &OpenAIProvider{client: openai.NewClientWithConfig(cfg)}
}
