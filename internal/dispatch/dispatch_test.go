package dispatch

import (
	"context"
	"errors"
	"testing"

	"order-intake-bot/internal/config"
	"order-intake-bot/internal/intake"
	"order-intake-bot/internal/llm"
	"order-intake-bot/internal/pipeline"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
)

type sentMessage struct {
	chatID int64
	text   string
}

type fakeMessenger struct {
	sent    []sentMessage
	failErr error
}

func (m *fakeMessenger) SendMessage(_ context.Context, chatID int64, text string) error {
	if m.failErr != nil {
		return m.failErr
	}
	m.sent = append(m.sent, sentMessage{chatID, text})
	return nil
}

type fakeProvider struct {
	calls   int
	content string
	err     error
}

func (f *fakeProvider) Name() string { return "openai" }

func (f *fakeProvider) Generate(_ context.Context, req llm.GenerateRequest) (*llm.GenerateResponse, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return &llm.GenerateResponse{Content: f.content, Model: req.Model}, nil
}

func newTestDispatcher(provider *fakeProvider, messenger *fakeMessenger) *Dispatcher {
	tracer := sdktrace.NewTracerProvider().Tracer("test")
	return &Dispatcher{
		Pipeline: &pipeline.Pipeline{
			LLM:    &llm.Client{Provider: provider, ProviderName: "openai", Tracer: tracer},
			Tracer: tracer,
			Config: &config.Config{LLMModelChat: "gpt-4.1-mini", ChatTemperature: 0.4, ChatMaxTokens: 200},
		},
		Messenger: messenger,
		Tracer:    tracer,
	}
}

func TestHandleUpdateNoop(t *testing.T) {
	provider := &fakeProvider{}
	messenger := &fakeMessenger{}
	d := newTestDispatcher(provider, messenger)

	err := d.HandleUpdate(context.Background(), &intake.Event{Kind: intake.KindNoop})
	require.NoError(t, err)
	assert.Empty(t, messenger.sent)
	assert.Zero(t, provider.calls)
}

func TestHandleUpdateStartCommand(t *testing.T) {
	provider := &fakeProvider{}
	messenger := &fakeMessenger{}
	d := newTestDispatcher(provider, messenger)

	ev := &intake.Event{Kind: intake.KindCommand, Chat: &intake.ChatMessage{ChatID: 1, Text: "/start", Command: "/start"}}
	require.NoError(t, d.HandleUpdate(context.Background(), ev))

	require.Len(t, messenger.sent, 1)
	assert.Equal(t, int64(1), messenger.sent[0].chatID)
	assert.Equal(t, StartMessage, messenger.sent[0].text)
	assert.Zero(t, provider.calls, "commands never hit the backend")
}

func TestHandleUpdateComandaCommand(t *testing.T) {
	messenger := &fakeMessenger{}
	d := newTestDispatcher(&fakeProvider{}, messenger)

	ev := &intake.Event{Kind: intake.KindCommand, Chat: &intake.ChatMessage{ChatID: 7, Text: "/comanda", Command: "/comanda"}}
	require.NoError(t, d.HandleUpdate(context.Background(), ev))
	require.Len(t, messenger.sent, 1)
	assert.Equal(t, ComandaMessage, messenger.sent[0].text)
}

func TestHandleUpdateFreeText(t *testing.T) {
	provider := &fakeProvider{content: "Comanda confirmata: 2 tricouri albe M, Chisinau."}
	messenger := &fakeMessenger{}
	d := newTestDispatcher(provider, messenger)

	ev := &intake.Event{Kind: intake.KindFreeText, Chat: &intake.ChatMessage{ChatID: 42, Text: "2 tricouri albe M, Chisinau, Ana, 069..."}}
	require.NoError(t, d.HandleUpdate(context.Background(), ev))

	assert.Equal(t, 1, provider.calls)
	require.Len(t, messenger.sent, 1)
	assert.Equal(t, int64(42), messenger.sent[0].chatID)
	assert.Equal(t, "Comanda confirmata: 2 tricouri albe M, Chisinau.", messenger.sent[0].text)
}

func TestHandleUpdateBackendDownSendsFallback(t *testing.T) {
	provider := &fakeProvider{err: errors.New("backend down")}
	messenger := &fakeMessenger{}
	d := newTestDispatcher(provider, messenger)

	ev := &intake.Event{Kind: intake.KindFreeText, Chat: &intake.ChatMessage{ChatID: 5, Text: "salut"}}
	require.NoError(t, d.HandleUpdate(context.Background(), ev), "backend failure is absorbed, not returned")

	require.Len(t, messenger.sent, 1)
	assert.Equal(t, FallbackMessage, messenger.sent[0].text)
}

func TestHandleUpdateMessengerFailure(t *testing.T) {
	messenger := &fakeMessenger{failErr: errors.New("telegram unreachable")}
	d := newTestDispatcher(&fakeProvider{}, messenger)

	ev := &intake.Event{Kind: intake.KindCommand, Chat: &intake.ChatMessage{ChatID: 1, Command: "/start"}}
	err := d.HandleUpdate(context.Background(), ev)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "chat 1")
}
