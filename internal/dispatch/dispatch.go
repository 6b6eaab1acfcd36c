// Package dispatch decides what, if anything, goes back to the chat for
// a normalized inbound event.
package dispatch

import (
	"context"
	"fmt"
	"log"

	"order-intake-bot/internal/intake"
	"order-intake-bot/internal/pipeline"
	"order-intake-bot/internal/telemetry"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// User-facing texts. The deployment is Romanian.
const (
	StartMessage   = "Salut! Botul operatorului comercial este activ."
	ComandaMessage = "Trimite comanda intr-un singur mesaj: produs, marime, cantitate, oras, nume, telefon si metoda de plata."
	// Sent when the completion backend is unavailable. The transport
	// still gets a 200; only the user-visible reply degrades.
	FallbackMessage = "Ne pare rau, avem o problema tehnica. Incearca din nou mai tarziu."
)

var commandReplies = map[string]string{
	"/start":   StartMessage,
	"/comanda": ComandaMessage,
}

type Messenger interface {
	SendMessage(ctx context.Context, chatID int64, text string) error
}

type Dispatcher struct {
	Pipeline  *pipeline.Pipeline
	Messenger Messenger
	Tracer    trace.Tracer
	Metrics   *telemetry.GenAIMetrics
}

// HandleUpdate runs the bot-flow state machine: noop events are dropped,
// commands get canned replies without touching the backend, free text
// goes through the natural-language pipeline with a canned fallback on
// backend failure. Only messenger failures surface as errors.
func (d *Dispatcher) HandleUpdate(ctx context.Context, ev *intake.Event) error {
	ctx, span := d.Tracer.Start(ctx, "dispatch update")
	defer span.End()

	span.SetAttributes(attribute.String("ordbot.event.kind", string(ev.Kind)))
	if d.Metrics != nil {
		d.Metrics.EventCount.Add(ctx, 1, telemetry.WithKind(string(ev.Kind)))
	}

	switch ev.Kind {
	case intake.KindNoop:
		return nil

	case intake.KindCommand:
		span.SetAttributes(attribute.String("ordbot.command", ev.Chat.Command))
		return d.send(ctx, ev.Chat.ChatID, commandReplies[ev.Chat.Command])

	case intake.KindFreeText:
		reply, err := d.Pipeline.ProcessChat(ctx, ev.Chat.Text)
		if err != nil {
			log.Printf("chat completion failed, sending fallback: %v", err)
			span.SetAttributes(attribute.Bool("ordbot.fallback", true))
			if d.Metrics != nil {
				d.Metrics.FallbackReplies.Add(ctx, 1)
			}
			reply = FallbackMessage
		}
		return d.send(ctx, ev.Chat.ChatID, reply)
	}

	return nil
}

func (d *Dispatcher) send(ctx context.Context, chatID int64, text string) error {
	if err := d.Messenger.SendMessage(ctx, chatID, text); err != nil {
		return fmt.Errorf("send to chat %d: %w", chatID, err)
	}
	return nil
}
