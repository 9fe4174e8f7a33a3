package speech

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/sashabaranov/go-openai"

	"github.com/dskvich/ai-assistant/pkg/domain"
	"github.com/dskvich/ai-assistant/pkg/transport"
)

const (
	ProviderName = "speech"

	DefaultBaseURL = "https://api.openai.com/v1"
)

type Config struct {
	Token   string
	BaseURL string
	Model   string
	Voice   string

	HTTPClient *http.Client
}

type Client struct {
	api   *openai.Client
	model openai.SpeechModel
	voice openai.SpeechVoice
}

func NewClient(cfg Config) (*Client, error) {
	if cfg.Token == "" {
		return nil, fmt.Errorf("token is empty")
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}

	apiCfg := openai.DefaultConfig(cfg.Token)
	apiCfg.BaseURL = cfg.BaseURL
	apiCfg.HTTPClient = transport.WrapClient(cfg.HTTPClient)

	c := &Client{
		api:   openai.NewClientWithConfig(apiCfg),
		model: openai.TTSModel1,
		voice: openai.VoiceAlloy,
	}
	if cfg.Model != "" {
		c.model = openai.SpeechModel(cfg.Model)
	}
	if cfg.Voice != "" {
		c.voice = openai.SpeechVoice(cfg.Voice)
	}
	return c, nil
}

// Synthesize reads the text aloud and returns the MP3 audio.
func (c *Client) Synthesize(ctx context.Context, text string) (*domain.Speech, error) {
	if text == "" {
		return nil, domain.ErrEmptyText
	}

	ctx, errBody := transport.CaptureErrorBody(ctx)
	body, err := c.api.CreateSpeech(ctx, openai.CreateSpeechRequest{
		Model:          c.model,
		Input:          text,
		Voice:          c.voice,
		ResponseFormat: openai.SpeechResponseFormatMp3,
	})
	if err != nil {
		return nil, convertError(err, errBody)
	}
	defer body.Close()

	data, err := io.ReadAll(body)
	if err != nil {
		return nil, &domain.ProviderError{Provider: ProviderName, Err: fmt.Errorf("reading audio: %w", err)}
	}
	if len(data) == 0 {
		return nil, &domain.ProviderError{Provider: ProviderName, Err: fmt.Errorf("empty audio: %w", domain.ErrUnexpectedResponse)}
	}

	return &domain.Speech{
		Content:     data,
		ContentType: domain.SpeechContentType,
	}, nil
}

func convertError(err error, errBody *transport.ErrorBody) error {
	body := errBody.String()

	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		if body == "" {
			body = apiErr.Message
		}
		return &domain.ProviderError{Provider: ProviderName, StatusCode: apiErr.HTTPStatusCode, Body: body}
	}

	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) {
		if body == "" {
			body = fmt.Sprint(reqErr.Err)
		}
		return &domain.ProviderError{Provider: ProviderName, StatusCode: reqErr.HTTPStatusCode, Body: body}
	}

	return &domain.ProviderError{Provider: ProviderName, Err: err}
}
