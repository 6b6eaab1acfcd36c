package telemetry

import (
	"context"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

type GenAIMetrics struct {
	TokenUsage        metric.Float64Histogram
	OperationDuration metric.Float64Histogram
	Cost              metric.Float64Counter
	ErrorCount        metric.Int64Counter

	EventCount      metric.Int64Counter
	OrderValid      metric.Int64Counter
	RequestDuration metric.Float64Histogram
	MessagesSent    metric.Int64Counter
	SendRetries     metric.Int64Counter
	FallbackReplies metric.Int64Counter
}

func NewGenAIMetrics(m metric.Meter) (*GenAIMetrics, error) {
	tokenUsage, err := m.Float64Histogram("gen_ai.client.token.usage",
		metric.WithUnit("{token}"),
		metric.WithDescription("Number of tokens used per LLM call"),
	)
	if err != nil {
		return nil, err
	}

	operationDuration, err := m.Float64Histogram("gen_ai.client.operation.duration",
		metric.WithUnit("s"),
		metric.WithDescription("Wall-clock duration of LLM API call"),
	)
	if err != nil {
		return nil, err
	}

	cost, err := m.Float64Counter("gen_ai.client.cost",
		metric.WithUnit("usd"),
		metric.WithDescription("Cumulative cost of LLM calls in USD"),
	)
	if err != nil {
		return nil, err
	}

	errorCount, err := m.Int64Counter("gen_ai.client.error.count",
		metric.WithUnit("{error}"),
		metric.WithDescription("Number of LLM call errors"),
	)
	if err != nil {
		return nil, err
	}

	eventCount, err := m.Int64Counter("ordbot.intake.events",
		metric.WithUnit("{event}"),
		metric.WithDescription("Normalized inbound events by kind"),
	)
	if err != nil {
		return nil, err
	}

	orderValid, err := m.Int64Counter("ordbot.order.valid",
		metric.WithUnit("1"),
		metric.WithDescription("Structural validation outcomes for strict-JSON orders"),
	)
	if err != nil {
		return nil, err
	}

	requestDuration, err := m.Float64Histogram("ordbot.request.duration",
		metric.WithUnit("s"),
		metric.WithDescription("End-to-end duration per inbound event"),
	)
	if err != nil {
		return nil, err
	}

	messagesSent, err := m.Int64Counter("ordbot.telegram.messages.sent",
		metric.WithUnit("{message}"),
		metric.WithDescription("Outbound chat messages sent"),
	)
	if err != nil {
		return nil, err
	}

	sendRetries, err := m.Int64Counter("ordbot.telegram.send.retries",
		metric.WithUnit("{retry}"),
		metric.WithDescription("Retry attempts for outbound chat messages"),
	)
	if err != nil {
		return nil, err
	}

	fallbackReplies, err := m.Int64Counter("ordbot.chat.fallback.replies",
		metric.WithUnit("{message}"),
		metric.WithDescription("Canned fallback replies sent because the backend failed"),
	)
	if err != nil {
		return nil, err
	}

	return &GenAIMetrics{
		TokenUsage:        tokenUsage,
		OperationDuration: operationDuration,
		Cost:              cost,
		ErrorCount:        errorCount,
		EventCount:        eventCount,
		OrderValid:        orderValid,
		RequestDuration:   requestDuration,
		MessagesSent:      messagesSent,
		SendRetries:       sendRetries,
		FallbackReplies:   fallbackReplies,
	}, nil
}

type RecordParams struct {
	Provider     string
	Model        string
	Mode         string
	InputTokens  int
	OutputTokens int
	DurationSec  float64
	CostUSD      float64
}

func (g *GenAIMetrics) RecordGenAIMetrics(ctx context.Context, p RecordParams) {
	baseAttrs := []attribute.KeyValue{
		attribute.String("gen_ai.operation.name", "chat"),
		attribute.String("gen_ai.provider.name", p.Provider),
		attribute.String("gen_ai.request.model", p.Model),
	}
	if p.Mode != "" {
		baseAttrs = append(baseAttrs, attribute.String("ordbot.mode", p.Mode))
	}
	attrs := metric.WithAttributes(baseAttrs...)

	g.TokenUsage.Record(ctx, float64(p.InputTokens),
		attrs,
		metric.WithAttributes(attribute.String("gen_ai.token.type", "input")),
	)
	g.TokenUsage.Record(ctx, float64(p.OutputTokens),
		attrs,
		metric.WithAttributes(attribute.String("gen_ai.token.type", "output")),
	)
	g.OperationDuration.Record(ctx, p.DurationSec, attrs)
	g.Cost.Add(ctx, p.CostUSD, attrs)
}

func WithProviderModel(provider, model string) metric.MeasurementOption {
	return metric.WithAttributes(
		attribute.String("gen_ai.provider.name", provider),
		attribute.String("gen_ai.request.model", model),
	)
}

func WithBoolAttr(key string, val bool) metric.MeasurementOption {
	return metric.WithAttributes(attribute.Bool(key, val))
}

func WithKind(kind string) metric.MeasurementOption {
	return metric.WithAttributes(attribute.String("ordbot.event.kind", kind))
}

func WithFlow(flow string) metric.MeasurementOption {
	return metric.WithAttributes(attribute.String("ordbot.flow", flow))
}
