// Package auth gates the direct API flow behind a shared bearer token.
// The Telegram flow is not gated here; webhook trust is handled by the
// platform before the request reaches us.
package auth

import (
	"errors"
	"strings"
)

var (
	ErrMissingHeader   = errors.New("missing_header")
	ErrMalformedHeader = errors.New("malformed_header")
	ErrInvalidToken    = errors.New("invalid_token")
)

// Authorize checks an Authorization header value against the configured
// server token. The header must be exactly "Bearer <token>".
func Authorize(header, secret string) error {
	if header == "" {
		return ErrMissingHeader
	}
	parts := strings.Split(header, " ")
	if len(parts) != 2 || parts[0] != "Bearer" {
		return ErrMalformedHeader
	}
	if parts[1] != secret {
		return ErrInvalidToken
	}
	return nil
}
