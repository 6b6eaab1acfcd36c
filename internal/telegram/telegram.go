// Package telegram is the outbound message transport. Delivery is
// best-effort: a short bounded retry, no delivery confirmation.
package telegram

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"order-intake-bot/internal/telemetry"

	"github.com/cenkalti/backoff/v5"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

type Sender struct {
	token      string
	baseURL    string
	httpClient *http.Client
	Metrics    *telemetry.GenAIMetrics
}

// NewSender builds a sender against baseURL (normally
// https://api.telegram.org; tests point it at a local server).
func NewSender(token, baseURL string, metrics *telemetry.GenAIMetrics) *Sender {
	return &Sender{
		token:   token,
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout:   10 * time.Second,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		},
		Metrics: metrics,
	}
}

type sendMessageRequest struct {
	ChatID int64  `json:"chat_id"`
	Text   string `json:"text"`
}

func (s *Sender) SendMessage(ctx context.Context, chatID int64, text string) error {
	payload, err := json.Marshal(sendMessageRequest{ChatID: chatID, Text: text})
	if err != nil {
		return err
	}

	bo := backoff.NewExponentialBackOff()
	bo.InitialInterval = 200 * time.Millisecond
	bo.MaxInterval = 2 * time.Second

	attempts := 0
	_, err = backoff.Retry(ctx, func() (struct{}, error) {
		attempts++
		if attempts > 1 && s.Metrics != nil {
			s.Metrics.SendRetries.Add(ctx, 1)
		}
		return struct{}{}, s.sendOnce(ctx, payload)
	},
		backoff.WithBackOff(bo),
		backoff.WithMaxTries(3),
	)
	if err != nil {
		return fmt.Errorf("telegram sendMessage: %w", err)
	}

	if s.Metrics != nil {
		s.Metrics.MessagesSent.Add(ctx, 1)
	}
	return nil
}

func (s *Sender) sendOnce(ctx context.Context, payload []byte) error {
	url := s.baseURL + "/bot" + s.token + "/sendMessage"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return backoff.Permanent(err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		err := fmt.Errorf("status %d: %s", resp.StatusCode, string(body))
		// Client errors (bad chat id, blocked bot) will not heal on retry.
		if resp.StatusCode >= 400 && resp.StatusCode < 500 {
			return backoff.Permanent(err)
		}
		return err
	}
	return nil
}
