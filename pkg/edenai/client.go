package edenai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/dskvich/ai-assistant/pkg/domain"
)

const (
	ProviderName = "edenai"

	DefaultURL = "https://api.edenai.run/v2/image/generation"
)

type Config struct {
	Token string
	URL   string

	HTTPClient *http.Client
}

type Client struct {
	token string
	url   string
	hc    *http.Client
}

func NewClient(cfg Config) (*Client, error) {
	if cfg.Token == "" {
		return nil, fmt.Errorf("token is empty")
	}
	if cfg.URL == "" {
		cfg.URL = DefaultURL
	}
	if cfg.HTTPClient == nil {
		cfg.HTTPClient = &http.Client{}
	}

	return &Client{
		token: cfg.Token,
		url:   cfg.URL,
		hc:    cfg.HTTPClient,
	}, nil
}

// Generate requests a single 512x512 image for the prompt and returns its URL.
// The prompt is forwarded as-is, even when empty.
func (c *Client) Generate(ctx context.Context, prompt string) (string, error) {
	body, err := json.Marshal(domain.NewGenerationRequest(prompt))
	if err != nil {
		return "", fmt.Errorf("marshaling generation request: %w", err)
	}

	status, respBody, err := c.sendRequest(ctx, body)
	if err != nil {
		return "", &domain.ProviderError{Provider: ProviderName, Err: err}
	}

	if status != http.StatusOK {
		return "", &domain.ProviderError{
			Provider:   ProviderName,
			StatusCode: status,
			Body:       string(respBody),
		}
	}

	result, err := c.processResponse(respBody)
	if err != nil {
		return "", &domain.ProviderError{
			Provider:   ProviderName,
			StatusCode: status,
			Body:       string(respBody),
			Err:        err,
		}
	}

	return result.ImageURL, nil
}

func (c *Client) sendRequest(ctx context.Context, body []byte) (int, []byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(body))
	if err != nil {
		return 0, nil, fmt.Errorf("creating HTTP request: %w", err)
	}

	req.Header.Set("Accept", "application/json")
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.token)

	resp, err := c.hc.Do(req)
	if err != nil {
		return 0, nil, fmt.Errorf("executing HTTP request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return 0, nil, fmt.Errorf("reading response body: %w", err)
	}

	return resp.StatusCode, respBody, nil
}

func (c *Client) processResponse(body []byte) (*domain.GenerationResult, error) {
	var response map[string]json.RawMessage
	if err := json.Unmarshal(body, &response); err != nil {
		return nil, fmt.Errorf("decoding response data: %w: %w", domain.ErrUnexpectedResponse, err)
	}

	raw, ok := response[domain.GenerationProvider]
	if !ok {
		return nil, fmt.Errorf("no %q result in response: %w", domain.GenerationProvider, domain.ErrUnexpectedResponse)
	}

	var result providerResult
	if err := json.Unmarshal(raw, &result); err != nil {
		return nil, fmt.Errorf("decoding %q result: %w: %w", domain.GenerationProvider, domain.ErrUnexpectedResponse, err)
	}

	if len(result.Items) == 0 || result.Items[0].ImageResourceURL == "" {
		return nil, fmt.Errorf("no image in response: %w", domain.ErrUnexpectedResponse)
	}

	return &domain.GenerationResult{ImageURL: result.Items[0].ImageResourceURL}, nil
}

type providerResult struct {
	Status string `json:"status"`
	Items  []struct {
		ImageResourceURL string `json:"image_resource_url"`
	} `json:"items"`
}
