package routes

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"order-intake-bot/internal/auth"
	"order-intake-bot/internal/dispatch"
	"order-intake-bot/internal/intake"
	"order-intake-bot/internal/pipeline"
)

type apiResponse struct {
	OK      bool                      `json:"ok"`
	Parsed  *pipeline.StructuredOrder `json:"parsed"`
	Raw     string                    `json:"raw,omitempty"`
	Warning string                    `json:"warning,omitempty"`
}

type ackResponse struct {
	OK bool `json:"ok"`
}

// WebhookHandler serves both flows on one path. A request carrying an
// Authorization header is the direct API flow and goes through the auth
// gate; Telegram never sends that header, so everything else is treated
// as a chat-platform update.
func WebhookHandler(p *pipeline.Pipeline, d *dispatch.Dispatcher, serverToken string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		body, err := io.ReadAll(r.Body)
		if err != nil {
			writeServerError(w, err)
			return
		}

		if header := r.Header.Get("Authorization"); header != "" {
			handleOrder(w, r, p, serverToken, header, body)
			return
		}
		handleUpdate(w, r, d, body)
	}
}

func handleOrder(w http.ResponseWriter, r *http.Request, p *pipeline.Pipeline, serverToken, header string, body []byte) {
	if err := auth.Authorize(header, serverToken); err != nil {
		if errors.Is(err, auth.ErrInvalidToken) {
			writeError(w, http.StatusForbidden, "invalid_token")
			return
		}
		writeError(w, http.StatusUnauthorized, "missing_or_invalid_auth_header")
		return
	}

	ev, err := intake.NormalizeOrder(body)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_payload")
		return
	}

	result, err := p.ProcessOrder(r.Context(), ev.Order)
	if err != nil {
		writeServerError(w, err)
		return
	}

	// 200 whether or not validation produced a warning; the warning
	// field carries the outcome.
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(apiResponse{
		OK:      true,
		Parsed:  result.Parsed,
		Raw:     result.Raw,
		Warning: result.Warning,
	})
}

func handleUpdate(w http.ResponseWriter, r *http.Request, d *dispatch.Dispatcher, body []byte) {
	ev := intake.NormalizeUpdate(body)
	if err := d.HandleUpdate(r.Context(), ev); err != nil {
		writeServerError(w, err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(ackResponse{OK: true})
}

func writeError(w http.ResponseWriter, code int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(map[string]string{"error": message})
}

func writeServerError(w http.ResponseWriter, err error) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusInternalServerError)
	json.NewEncoder(w).Encode(map[string]string{
		"error":  "server_error",
		"detail": err.Error(),
	})
}
