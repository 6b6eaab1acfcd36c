package llm

import (
	"context"
	"errors"
	"testing"

	"order-intake-bot/internal/telemetry"

	openai "github.com/sashabaranov/go-openai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

type mockProvider struct {
	name    string
	calls   int
	resp    *GenerateResponse
	failErr error
	lastReq GenerateRequest
}

func (m *mockProvider) Name() string { return m.name }

func (m *mockProvider) Generate(_ context.Context, req GenerateRequest) (*GenerateResponse, error) {
	m.calls++
	m.lastReq = req
	if m.failErr != nil {
		return nil, m.failErr
	}
	return m.resp, nil
}

func newTestClient(t *testing.T, provider *mockProvider) (*Client, *tracetest.InMemoryExporter) {
	t.Helper()
	exporter := tracetest.NewInMemoryExporter()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSyncer(exporter))
	tracer := tp.Tracer("test")

	p, err := telemetry.Init(context.Background(), "test", "http://localhost:4318", "test")
	require.NoError(t, err)
	metrics, err := telemetry.NewGenAIMetrics(p.Meter)
	require.NoError(t, err)

	return &Client{
		Provider:     provider,
		ProviderName: provider.Name(),
		Tracer:       tracer,
		Metrics:      metrics,
	}, exporter
}

func testReq() GenerateRequest {
	return GenerateRequest{
		Model:       "gpt-4.1",
		System:      "You are a test assistant.",
		Prompt:      "Say hello",
		Temperature: 0.0,
		MaxTokens:   100,
		Mode:        "strict-json",
	}
}

func TestGenerateSuccess(t *testing.T) {
	provider := &mockProvider{
		name: "openai",
		resp: &GenerateResponse{
			Content:      "Hello!",
			Model:        "gpt-4.1",
			InputTokens:  10,
			OutputTokens: 5,
		},
	}
	client, exporter := newTestClient(t, provider)

	resp, err := client.Generate(context.Background(), testReq())
	require.NoError(t, err)
	assert.Equal(t, "Hello!", resp.Content)
	assert.Equal(t, "gpt-4.1", resp.Model)
	assert.Greater(t, resp.CostUSD, 0.0)
	assert.Equal(t, 1, provider.calls)

	spans := exporter.GetSpans()
	assert.Len(t, spans, 1)
	assert.Equal(t, "gen_ai.chat gpt-4.1", spans[0].Name)
}

func TestGenerateSingleAttempt(t *testing.T) {
	provider := &mockProvider{
		name:    "openai",
		failErr: errors.New("rate limit"),
	}
	client, _ := newTestClient(t, provider)

	_, err := client.Generate(context.Background(), testReq())
	assert.Error(t, err)
	assert.Equal(t, 1, provider.calls, "failures must not be retried")
}

func TestGenerateWrapsAPIError(t *testing.T) {
	provider := &mockProvider{
		name:    "openai",
		failErr: &openai.APIError{HTTPStatusCode: 429, Message: "too many requests"},
	}
	client, _ := newTestClient(t, provider)

	_, err := client.Generate(context.Background(), testReq())
	var berr *BackendError
	require.ErrorAs(t, err, &berr)
	assert.Equal(t, 429, berr.StatusCode)
	assert.Contains(t, berr.Body, "too many requests")
}

func TestGenerateWrapsNetworkError(t *testing.T) {
	provider := &mockProvider{
		name:    "openai",
		failErr: errors.New("dial tcp: connection refused"),
	}
	client, _ := newTestClient(t, provider)

	_, err := client.Generate(context.Background(), testReq())
	var berr *BackendError
	require.ErrorAs(t, err, &berr)
	assert.Equal(t, 0, berr.StatusCode)
	assert.Contains(t, berr.Body, "connection refused")
}

func TestGeneratePassesDecodingParams(t *testing.T) {
	provider := &mockProvider{
		name: "openai",
		resp: &GenerateResponse{Content: "ok", Model: "gpt-4.1-mini"},
	}
	client, _ := newTestClient(t, provider)

	req := GenerateRequest{Model: "gpt-4.1-mini", Prompt: "salut", Temperature: 0.4, MaxTokens: 200, Mode: "natural-language"}
	_, err := client.Generate(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, req, provider.lastReq)
}

func TestCalculateCostKnownModel(t *testing.T) {
	cost := CalculateCost("gpt-4.1", 1_000_000, 1_000_000)
	assert.InDelta(t, 10.0, cost, 0.001)
}

func TestCalculateCostUnknownModel(t *testing.T) {
	assert.Zero(t, CalculateCost("mystery-model", 1000, 1000))
}
