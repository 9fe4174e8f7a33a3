package domain

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestProviderError(t *testing.T) {
	t.Run("status code and body are part of the message", func(t *testing.T) {
		err := &ProviderError{Provider: "edenai", StatusCode: 429, Body: "rate limited"}

		assert.Equal(t, "edenai: unexpected status code: 429, response: rate limited", err.Error())
	})

	t.Run("transport failures unwrap to the cause", func(t *testing.T) {
		cause := errors.New("connection refused")
		err := fmt.Errorf("generating: %w", &ProviderError{Provider: "edenai", Err: cause})

		assert.ErrorIs(t, err, cause)
		assert.Contains(t, err.Error(), "edenai: connection refused")

		var providerErr *ProviderError
		assert.ErrorAs(t, err, &providerErr)
		assert.Zero(t, providerErr.StatusCode)
	})

	t.Run("unexpected shape keeps the raw body", func(t *testing.T) {
		err := &ProviderError{Provider: "edenai", StatusCode: 200, Body: "{}", Err: ErrUnexpectedResponse}

		assert.ErrorIs(t, err, ErrUnexpectedResponse)
		assert.Contains(t, err.Error(), "200")
		assert.Contains(t, err.Error(), "{}")
	})
}

func TestNewGenerationRequest(t *testing.T) {
	req := NewGenerationRequest("")

	assert.Equal(t, GenerationRequest{Providers: "openai", Resolution: "512x512", NumImages: 1}, req)
}
