package llm

type PriceEntry struct {
	Input  float64 // USD per million input tokens
	Output float64 // USD per million output tokens
}

// Pricing for the models the bot is expected to run with. Unknown
// models cost $0.00 and only skew the cost metric, nothing else.
var Pricing = map[string]PriceEntry{
	"gpt-4.1":                   {Input: 2.00, Output: 8.00},
	"gpt-4.1-mini":              {Input: 0.40, Output: 1.60},
	"claude-haiku-4-5-20251001": {Input: 1.00, Output: 5.00},
}

func CalculateCost(model string, inputTokens, outputTokens int) float64 {
	entry, ok := Pricing[model]
	if !ok {
		return 0.0
	}
	return (float64(inputTokens) * entry.Input / 1_000_000) +
		(float64(outputTokens) * entry.Output / 1_000_000)
}

var ProviderServers = map[string]string{
	"openai":    "api.openai.com",
	"anthropic": "api.anthropic.com",
	"google":    "generativelanguage.googleapis.com",
	"ollama":    "localhost",
}

var ProviderPorts = map[string]int{
	"openai":    443,
	"anthropic": 443,
	"google":    443,
	"ollama":    11434,
}
