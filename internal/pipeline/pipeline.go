// Package pipeline runs a normalized event through prompt building, the
// completion backend and, for strict-JSON mode, structural validation.
package pipeline

import (
	"context"
	"fmt"
	"strings"
	"time"

	"order-intake-bot/internal/config"
	"order-intake-bot/internal/intake"
	"order-intake-bot/internal/llm"
	"order-intake-bot/internal/prompt"
	"order-intake-bot/internal/telemetry"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

type Pipeline struct {
	LLM     *llm.Client
	Tracer  trace.Tracer
	Metrics *telemetry.GenAIMetrics
	Config  *config.Config
}

// ProcessOrder runs the strict-JSON flow for a direct API order. A
// backend failure is returned as an error; a malformed completion is
// not — it comes back as a warning-annotated NormalizedResponse.
func (p *Pipeline) ProcessOrder(ctx context.Context, order *intake.OrderPayload) (*NormalizedResponse, error) {
	start := time.Now()

	ctx, span := p.Tracer.Start(ctx, "pipeline order")
	defer span.End()

	span.SetAttributes(
		attribute.String("ordbot.order.id", order.OrderID),
		attribute.Int("ordbot.order.items", len(order.Items)),
	)

	pair := prompt.BuildOrder(order)

	resp, err := p.LLM.Generate(ctx, llm.GenerateRequest{
		Model:       p.Config.LLMModelOrder,
		System:      pair.System,
		Prompt:      pair.User,
		Temperature: p.Config.OrderTemperature,
		MaxTokens:   p.Config.OrderMaxTokens,
		Mode:        string(pair.Mode),
	})
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return nil, fmt.Errorf("order completion failed: %w", err)
	}

	normalized := ValidateOrder(ctx, p.Tracer, resp.Content)

	if p.Metrics != nil {
		p.Metrics.OrderValid.Add(ctx, 1,
			telemetry.WithBoolAttr("ordbot.valid", normalized.Parsed != nil),
		)
		p.Metrics.RequestDuration.Record(ctx, time.Since(start).Seconds(),
			telemetry.WithFlow("api"),
		)
	}

	span.SetAttributes(
		attribute.Bool("ordbot.valid", normalized.Parsed != nil),
		attribute.Bool("ordbot.warning_set", normalized.Warning != ""),
		attribute.Int64("ordbot.duration_ms", time.Since(start).Milliseconds()),
	)

	return normalized, nil
}

// ProcessChat runs the natural-language flow for a free-text message
// and returns the reply text verbatim; no validation stage applies.
func (p *Pipeline) ProcessChat(ctx context.Context, text string) (string, error) {
	start := time.Now()

	ctx, span := p.Tracer.Start(ctx, "pipeline chat")
	defer span.End()

	pair := prompt.BuildChat(text)

	resp, err := p.LLM.Generate(ctx, llm.GenerateRequest{
		Model:       p.Config.LLMModelChat,
		System:      pair.System,
		Prompt:      pair.User,
		Temperature: p.Config.ChatTemperature,
		MaxTokens:   p.Config.ChatMaxTokens,
		Mode:        string(pair.Mode),
	})
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return "", fmt.Errorf("chat completion failed: %w", err)
	}

	if p.Metrics != nil {
		p.Metrics.RequestDuration.Record(ctx, time.Since(start).Seconds(),
			telemetry.WithFlow("bot"),
		)
	}

	reply := strings.TrimSpace(resp.Content)
	span.SetAttributes(attribute.Int("ordbot.reply_length", len(reply)))
	return reply, nil
}
