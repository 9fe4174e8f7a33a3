package vision

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/sashabaranov/go-openai"

	"github.com/dskvich/ai-assistant/pkg/domain"
	"github.com/dskvich/ai-assistant/pkg/transport"
)

const (
	ProviderName = "groq"

	DefaultBaseURL = "https://api.groq.com/openai/v1"
	DefaultModel   = "llama-3.2-11b-vision-preview"

	temperature = 1
	maxTokens   = 1024
	topP        = 1
)

type Config struct {
	Token   string
	BaseURL string
	Model   string

	HTTPClient *http.Client
}

type Client struct {
	api   *openai.Client
	model string
}

func NewClient(cfg Config) (*Client, error) {
	if cfg.Token == "" {
		return nil, fmt.Errorf("token is empty")
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.Model == "" {
		cfg.Model = DefaultModel
	}

	apiCfg := openai.DefaultConfig(cfg.Token)
	apiCfg.BaseURL = cfg.BaseURL
	apiCfg.HTTPClient = transport.WrapClient(cfg.HTTPClient)

	return &Client{
		api:   openai.NewClientWithConfig(apiCfg),
		model: cfg.Model,
	}, nil
}

// Describe asks the vision model what is in the image and returns the
// first completion verbatim.
func (c *Client) Describe(ctx context.Context, image []byte) (string, error) {
	if len(image) == 0 {
		return "", domain.ErrEmptyImage
	}

	ctx, errBody := transport.CaptureErrorBody(ctx)
	resp, err := c.api.CreateChatCompletion(ctx, c.prepareRequest(domain.NewDescriptionRequest(image)))
	if err != nil {
		return "", convertError(err, errBody)
	}

	if len(resp.Choices) == 0 || resp.Choices[0].Message.Content == "" {
		return "", &domain.ProviderError{
			Provider: ProviderName,
			Err:      fmt.Errorf("no completion response from API: %w", domain.ErrUnexpectedResponse),
		}
	}

	return resp.Choices[0].Message.Content, nil
}

func (c *Client) prepareRequest(req domain.DescriptionRequest) openai.ChatCompletionRequest {
	return openai.ChatCompletionRequest{
		Model: c.model,
		Messages: []openai.ChatCompletionMessage{
			{
				Role: openai.ChatMessageRoleUser,
				MultiContent: []openai.ChatMessagePart{
					{
						Type: openai.ChatMessagePartTypeText,
						Text: domain.DescribeInstruction,
					},
					{
						Type:     openai.ChatMessagePartTypeImageURL,
						ImageURL: &openai.ChatMessageImageURL{URL: DataURL(req.MimeType, req.ImageBytes)},
					},
				},
			},
		},
		Temperature: temperature,
		MaxTokens:   maxTokens,
		TopP:        topP,
		Stream:      false,
	}
}

// DataURL embeds data as a base64 data URL of the given mime type.
func DataURL(mimeType string, data []byte) string {
	return "data:" + mimeType + ";base64," + base64.StdEncoding.EncodeToString(data)
}

// convertError maps go-openai errors to a ProviderError. For HTTP failures
// the raw response body wins over whatever the SDK managed to decode.
func convertError(err error, errBody *transport.ErrorBody) error {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		return &domain.ProviderError{
			Provider:   ProviderName,
			StatusCode: apiErr.HTTPStatusCode,
			Body:       bodyOr(errBody, apiErr.Message),
		}
	}

	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) {
		return &domain.ProviderError{
			Provider:   ProviderName,
			StatusCode: reqErr.HTTPStatusCode,
			Body:       bodyOr(errBody, fmt.Sprint(reqErr.Err)),
		}
	}

	var syntaxErr *json.SyntaxError
	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &syntaxErr) || errors.As(err, &typeErr) {
		return &domain.ProviderError{
			Provider: ProviderName,
			Err:      fmt.Errorf("decoding response data: %w: %w", domain.ErrUnexpectedResponse, err),
		}
	}

	return &domain.ProviderError{Provider: ProviderName, Err: err}
}

func bodyOr(errBody *transport.ErrorBody, fallback string) string {
	if body := errBody.String(); body != "" {
		return body
	}
	return fallback
}
