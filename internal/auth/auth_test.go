package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAuthorizeValidToken(t *testing.T) {
	assert.NoError(t, Authorize("Bearer abc", "abc"))
}

func TestAuthorizeMissingHeader(t *testing.T) {
	assert.ErrorIs(t, Authorize("", "abc"), ErrMissingHeader)
}

func TestAuthorizeWrongScheme(t *testing.T) {
	assert.ErrorIs(t, Authorize("Token abc", "abc"), ErrMalformedHeader)
}

func TestAuthorizeTooManyParts(t *testing.T) {
	assert.ErrorIs(t, Authorize("Bearer abc def", "abc"), ErrMalformedHeader)
}

func TestAuthorizeBareToken(t *testing.T) {
	assert.ErrorIs(t, Authorize("abc", "abc"), ErrMalformedHeader)
}

func TestAuthorizeWrongToken(t *testing.T) {
	assert.ErrorIs(t, Authorize("Bearer xyz", "abc"), ErrInvalidToken)
}
