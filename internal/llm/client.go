package llm

import (
	"context"
	"fmt"
	"time"

	"order-intake-bot/internal/telemetry"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

type GenerateRequest struct {
	Model       string
	System      string
	Prompt      string
	Temperature float64
	MaxTokens   int
	Mode        string
}

type GenerateResponse struct {
	Content      string
	Model        string
	InputTokens  int
	OutputTokens int
	CostUSD      float64
	FinishReason string
}

type Provider interface {
	Generate(ctx context.Context, req GenerateRequest) (*GenerateResponse, error)
	Name() string
}

// Client makes exactly one completion attempt per request. There is no
// retry and no provider fallback; the caller degrades to a warning or a
// canned reply instead.
type Client struct {
	Provider     Provider
	ProviderName string
	Tracer       trace.Tracer
	Metrics      *telemetry.GenAIMetrics
}

func (c *Client) Generate(ctx context.Context, req GenerateRequest) (*GenerateResponse, error) {
	spanName := "gen_ai.chat " + req.Model
	start := time.Now()

	ctx, span := c.Tracer.Start(ctx, spanName)
	defer span.End()

	serverAddr := ProviderServers[c.ProviderName]
	serverPort := ProviderPorts[c.ProviderName]

	span.SetAttributes(
		attribute.String("gen_ai.operation.name", "chat"),
		attribute.String("gen_ai.provider.name", c.ProviderName),
		attribute.String("gen_ai.request.model", req.Model),
		attribute.String("server.address", serverAddr),
		attribute.Int("server.port", serverPort),
		attribute.Float64("gen_ai.request.temperature", req.Temperature),
		attribute.Int("gen_ai.request.max_tokens", req.MaxTokens),
	)

	if req.Mode != "" {
		span.SetAttributes(attribute.String("ordbot.mode", req.Mode))
	}

	span.AddEvent("gen_ai.user.message", trace.WithAttributes(
		attribute.String("gen_ai.prompt", truncate(req.Prompt, 1000)),
	))
	if req.System != "" {
		span.AddEvent("gen_ai.user.message", trace.WithAttributes(
			attribute.String("gen_ai.system_instructions", truncate(req.System, 500)),
		))
	}

	resp, err := c.Provider.Generate(ctx, req)
	duration := time.Since(start).Seconds()

	if err != nil {
		berr := asBackendError(err)
		span.SetStatus(codes.Error, berr.Error())
		span.SetAttributes(
			attribute.String("error.type", fmt.Sprintf("%T", err)),
			attribute.Int("gen_ai.response.status_code", berr.StatusCode),
		)
		if c.Metrics != nil {
			c.Metrics.ErrorCount.Add(ctx, 1,
				telemetry.WithProviderModel(c.ProviderName, req.Model),
			)
		}
		return nil, berr
	}

	resp.CostUSD = CalculateCost(resp.Model, resp.InputTokens, resp.OutputTokens)

	span.SetAttributes(
		attribute.String("gen_ai.response.model", resp.Model),
		attribute.Int("gen_ai.usage.input_tokens", resp.InputTokens),
		attribute.Int("gen_ai.usage.output_tokens", resp.OutputTokens),
		attribute.Float64("gen_ai.usage.cost_usd", resp.CostUSD),
	)
	if resp.FinishReason != "" {
		span.SetAttributes(attribute.String("gen_ai.response.finish_reasons", resp.FinishReason))
	}

	span.AddEvent("gen_ai.assistant.message", trace.WithAttributes(
		attribute.String("gen_ai.completion", truncate(resp.Content, 2000)),
	))

	if c.Metrics != nil {
		c.Metrics.RecordGenAIMetrics(ctx, telemetry.RecordParams{
			Provider:     c.ProviderName,
			Model:        resp.Model,
			Mode:         req.Mode,
			InputTokens:  resp.InputTokens,
			OutputTokens: resp.OutputTokens,
			DurationSec:  duration,
			CostUSD:      resp.CostUSD,
		})
	}

	return resp, nil
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max]
}
