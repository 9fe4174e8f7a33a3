package vision

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dskvich/ai-assistant/pkg/domain"
)

type capturedRequest struct {
	Model       string  `json:"model"`
	Temperature float64 `json:"temperature"`
	MaxTokens   int     `json:"max_tokens"`
	TopP        float64 `json:"top_p"`
	Stream      bool    `json:"stream"`
	Messages    []struct {
		Role    string `json:"role"`
		Content []struct {
			Type     string `json:"type"`
			Text     string `json:"text"`
			ImageURL *struct {
				URL string `json:"url"`
			} `json:"image_url"`
		} `json:"content"`
	} `json:"messages"`
}

func newTestClient(t *testing.T, status int, body string) (*Client, *atomic.Int32, *capturedRequest, *http.Header) {
	t.Helper()

	var calls atomic.Int32
	captured := &capturedRequest{}
	headers := &http.Header{}

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		assert.Equal(t, "/v1/chat/completions", r.URL.Path)
		*headers = r.Header.Clone()

		raw, err := io.ReadAll(r.Body)
		assert.NoError(t, err)
		assert.NoError(t, json.Unmarshal(raw, captured))

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = io.WriteString(w, body)
	}))
	t.Cleanup(srv.Close)

	c, err := NewClient(Config{Token: "groq-secret", BaseURL: srv.URL + "/v1"})
	require.NoError(t, err)

	return c, &calls, captured, headers
}

func TestClient_Describe(t *testing.T) {
	image := []byte{0xff, 0xd8, 0xff, 0xe0, 0x00, 0x10, 'J', 'F', 'I', 'F', 0x00, 0x01, 0xfe}

	t.Run("returns the first completion verbatim", func(t *testing.T) {
		c, calls, req, headers := newTestClient(t, http.StatusOK, `{"choices":[{"message":{"role":"assistant","content":"A red car."}}]}`)

		got, err := c.Describe(context.Background(), image)

		require.NoError(t, err)
		assert.Equal(t, "A red car.", got)
		assert.EqualValues(t, 1, calls.Load())
		assert.Equal(t, "Bearer groq-secret", headers.Get("Authorization"))

		assert.Equal(t, DefaultModel, req.Model)
		assert.EqualValues(t, 1, req.Temperature)
		assert.Equal(t, 1024, req.MaxTokens)
		assert.EqualValues(t, 1, req.TopP)
		assert.False(t, req.Stream)

		require.Len(t, req.Messages, 1)
		assert.Equal(t, "user", req.Messages[0].Role)
		require.Len(t, req.Messages[0].Content, 2)
		assert.Equal(t, "text", req.Messages[0].Content[0].Type)
		assert.Equal(t, "What is in the image?", req.Messages[0].Content[0].Text)
		assert.Equal(t, "image_url", req.Messages[0].Content[1].Type)
		require.NotNil(t, req.Messages[0].Content[1].ImageURL)
	})

	t.Run("embedded data url decodes to the original bytes", func(t *testing.T) {
		c, _, req, _ := newTestClient(t, http.StatusOK, `{"choices":[{"message":{"content":"ok"}}]}`)

		_, err := c.Describe(context.Background(), image)
		require.NoError(t, err)

		url := req.Messages[0].Content[1].ImageURL.URL
		require.True(t, strings.HasPrefix(url, "data:image/jpeg;base64,"))

		decoded, err := base64.StdEncoding.DecodeString(strings.TrimPrefix(url, "data:image/jpeg;base64,"))
		require.NoError(t, err)
		assert.Equal(t, image, decoded)
	})

	t.Run("non-2xx becomes a provider error", func(t *testing.T) {
		c, calls, _, _ := newTestClient(t, http.StatusUnauthorized, `{"error":{"message":"Invalid API Key","type":"invalid_request_error"}}`)

		got, err := c.Describe(context.Background(), image)

		assert.Empty(t, got)
		var providerErr *domain.ProviderError
		require.ErrorAs(t, err, &providerErr)
		assert.Equal(t, http.StatusUnauthorized, providerErr.StatusCode)
		assert.Contains(t, err.Error(), "Invalid API Key")
		assert.EqualValues(t, 1, calls.Load())
	})

	t.Run("plain-text error body is kept verbatim", func(t *testing.T) {
		c, calls, _, _ := newTestClient(t, http.StatusTooManyRequests, "rate limited")

		got, err := c.Describe(context.Background(), image)

		assert.Empty(t, got)
		var providerErr *domain.ProviderError
		require.ErrorAs(t, err, &providerErr)
		assert.Equal(t, http.StatusTooManyRequests, providerErr.StatusCode)
		assert.Equal(t, "rate limited", providerErr.Body)
		assert.EqualError(t, err, "groq: unexpected status code: 429, response: rate limited")
		assert.NotErrorIs(t, err, domain.ErrUnexpectedResponse)
		assert.EqualValues(t, 1, calls.Load())
	})

	t.Run("empty choices are an unexpected response", func(t *testing.T) {
		c, _, _, _ := newTestClient(t, http.StatusOK, `{"choices":[]}`)

		got, err := c.Describe(context.Background(), image)

		assert.Empty(t, got)
		assert.ErrorIs(t, err, domain.ErrUnexpectedResponse)
	})

	t.Run("malformed payload is an unexpected response", func(t *testing.T) {
		c, _, _, _ := newTestClient(t, http.StatusOK, `not json`)

		_, err := c.Describe(context.Background(), image)

		var providerErr *domain.ProviderError
		require.ErrorAs(t, err, &providerErr)
		assert.ErrorIs(t, err, domain.ErrUnexpectedResponse)
	})

	t.Run("empty image is rejected before any request", func(t *testing.T) {
		c, calls, _, _ := newTestClient(t, http.StatusOK, `{}`)

		_, err := c.Describe(context.Background(), nil)

		assert.ErrorIs(t, err, domain.ErrEmptyImage)
		assert.Zero(t, calls.Load())
	})
}

func TestClient_Describe_Unreachable(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	c, err := NewClient(Config{Token: "t", BaseURL: url})
	require.NoError(t, err)

	_, err = c.Describe(context.Background(), []byte("img"))

	var providerErr *domain.ProviderError
	require.ErrorAs(t, err, &providerErr)
	assert.Zero(t, providerErr.StatusCode)
	assert.NotErrorIs(t, err, domain.ErrUnexpectedResponse)
}

func TestNewClient(t *testing.T) {
	_, err := NewClient(Config{})
	assert.EqualError(t, err, "token is empty")
}

func TestDataURL(t *testing.T) {
	assert.Equal(t, "data:image/jpeg;base64,AQID", DataURL("image/jpeg", []byte{1, 2, 3}))
}
