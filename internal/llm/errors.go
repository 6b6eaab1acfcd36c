package llm

import (
	"errors"
	"fmt"

	"github.com/anthropics/anthropic-sdk-go"
	openai "github.com/sashabaranov/go-openai"
)

// BackendError is any failure of the completion backend: a non-success
// HTTP status or a network-level failure. StatusCode is 0 when the
// request never reached the backend.
type BackendError struct {
	StatusCode int
	Body       string
}

func (e *BackendError) Error() string {
	if e.StatusCode == 0 {
		return "completion backend unreachable: " + e.Body
	}
	return fmt.Sprintf("completion backend returned %d: %s", e.StatusCode, e.Body)
}

func asBackendError(err error) *BackendError {
	var berr *BackendError
	if errors.As(err, &berr) {
		return berr
	}

	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		return &BackendError{StatusCode: apiErr.HTTPStatusCode, Body: apiErr.Message}
	}
	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) {
		return &BackendError{StatusCode: reqErr.HTTPStatusCode, Body: reqErr.Error()}
	}

	var anthErr *anthropic.Error
	if errors.As(err, &anthErr) {
		return &BackendError{StatusCode: anthErr.StatusCode, Body: anthErr.Error()}
	}

	// Timeouts, refused connections and other transport failures.
	return &BackendError{Body: err.Error()}
}
