package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"order-intake-bot/internal/config"
	"order-intake-bot/internal/dispatch"
	"order-intake-bot/internal/llm"
	"order-intake-bot/internal/middleware"
	"order-intake-bot/internal/pipeline"
	"order-intake-bot/internal/routes"
	"order-intake-bot/internal/telegram"
	"order-intake-bot/internal/telemetry"

	"github.com/go-chi/chi/v5"
)

func main() {
	cfg := config.Load()
	ctx := context.Background()

	// Telemetry
	tp, err := telemetry.Init(ctx, cfg.OTelServiceName, cfg.OTelEndpoint, cfg.ScoutEnvironment)
	if err != nil {
		log.Fatalf("Failed to init telemetry: %v", err)
	}

	metrics, err := telemetry.NewGenAIMetrics(tp.Meter)
	if err != nil {
		log.Fatalf("Failed to init metrics: %v", err)
	}

	// Completion backend
	var provider llm.Provider
	switch cfg.LLMProvider {
	case "ollama":
		provider = llm.NewOllamaProvider(cfg.OllamaBaseURL)
	case "google":
		provider = llm.NewGoogleProvider(cfg.GoogleAPIKey)
	case "anthropic":
		provider = llm.NewAnthropicProvider(cfg.AnthropicAPIKey)
	default:
		provider = llm.NewOpenAIProvider(cfg.OpenAIAPIKey)
	}

	llmClient := &llm.Client{
		Provider:     provider,
		ProviderName: cfg.LLMProvider,
		Tracer:       tp.Tracer,
		Metrics:      metrics,
	}

	// Pipeline
	p := &pipeline.Pipeline{
		LLM:     llmClient,
		Tracer:  tp.Tracer,
		Metrics: metrics,
		Config:  cfg,
	}

	// Outbound messaging + dispatcher
	if cfg.TelegramBotToken == "" {
		log.Printf("WARNING: TELEGRAM_BOT_TOKEN not set — bot replies will fail to send")
	}
	sender := telegram.NewSender(cfg.TelegramBotToken, cfg.TelegramAPIBase, metrics)

	d := &dispatch.Dispatcher{
		Pipeline:  p,
		Messenger: sender,
		Tracer:    tp.Tracer,
		Metrics:   metrics,
	}

	// Router
	r := chi.NewRouter()
	r.Use(middleware.OTelHTTP(cfg.OTelServiceName))

	r.Get("/", routes.RootHandler())
	r.Get("/api/health", routes.HealthHandler(cfg.OTelServiceName))
	r.Post("/api/webhook/comanda_noua", routes.WebhookHandler(p, d, cfg.ServerToken))

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Printf("Starting %s on :%s", cfg.OTelServiceName, cfg.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server error: %v", err)
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	<-sigChan

	log.Println("Shutting down...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("Server shutdown error: %v", err)
	}
	if err := tp.Shutdown(shutdownCtx); err != nil {
		log.Printf("Telemetry shutdown error: %v", err)
	}
}
