package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/dskvich/ai-assistant/pkg/domain"
	"github.com/dskvich/ai-assistant/pkg/logger"
	"github.com/dskvich/ai-assistant/pkg/metrics"
)

type ImageDescriber interface {
	Describe(ctx context.Context, image []byte) (string, error)
}

type ImageGenerator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

type SpeechSynthesizer interface {
	Synthesize(ctx context.Context, text string) (*domain.Speech, error)
}

type HistoryRepository interface {
	Save(ctx context.Context, r domain.SavedResponse) (int64, error)
	List(ctx context.Context) ([]domain.SavedResponse, error)
	GetByID(ctx context.Context, id int64) (*domain.SavedResponse, error)
}

type assistantService struct {
	describer   ImageDescriber
	generator   ImageGenerator
	synthesizer SpeechSynthesizer
	history     HistoryRepository
}

// NewAssistantService wires the providers together. synthesizer may be nil,
// in which case Speak reports domain.ErrSpeechDisabled.
func NewAssistantService(
	describer ImageDescriber,
	generator ImageGenerator,
	synthesizer SpeechSynthesizer,
	history HistoryRepository,
) (*assistantService, error) {
	if describer == nil {
		return nil, fmt.Errorf("describer is required")
	}
	if generator == nil {
		return nil, fmt.Errorf("generator is required")
	}
	if history == nil {
		return nil, fmt.Errorf("history repository is required")
	}

	return &assistantService{
		describer:   describer,
		generator:   generator,
		synthesizer: synthesizer,
		history:     history,
	}, nil
}

func (s *assistantService) Describe(ctx context.Context, imageName string, image []byte) (string, error) {
	slog.InfoContext(ctx, "Describing image", "image", imageName, "sizeBytes", len(image))

	started := time.Now()
	description, err := s.describer.Describe(ctx, image)
	metrics.ObserveProvider("vision", started, err)
	if err != nil {
		slog.ErrorContext(ctx, "Image description failed", "image", imageName, logger.Err(err))
		return "", fmt.Errorf("describing image: %w", err)
	}

	slog.InfoContext(ctx, "Image described", "image", imageName, "length", len(description))
	return description, nil
}

func (s *assistantService) Generate(ctx context.Context, prompt string) (string, error) {
	slog.InfoContext(ctx, "Generating image", "prompt", prompt)

	started := time.Now()
	imageURL, err := s.generator.Generate(ctx, prompt)
	metrics.ObserveProvider("image_generation", started, err)
	if err != nil {
		slog.ErrorContext(ctx, "Image generation failed", "prompt", prompt, logger.Err(err))
		return "", fmt.Errorf("generating image: %w", err)
	}

	slog.InfoContext(ctx, "Image generated", "url", imageURL)
	return imageURL, nil
}

func (s *assistantService) SpeechEnabled() bool {
	return s.synthesizer != nil
}

func (s *assistantService) Speak(ctx context.Context, text string) (*domain.Speech, error) {
	if s.synthesizer == nil {
		return nil, domain.ErrSpeechDisabled
	}

	started := time.Now()
	speech, err := s.synthesizer.Synthesize(ctx, text)
	metrics.ObserveProvider("speech", started, err)
	if err != nil {
		slog.WarnContext(ctx, "Speech synthesis failed", logger.Err(err))
		return nil, fmt.Errorf("synthesizing speech: %w", err)
	}

	slog.InfoContext(ctx, "Speech synthesized", "sizeBytes", len(speech.Content))
	return speech, nil
}

func (s *assistantService) Save(ctx context.Context, r domain.SavedResponse) (int64, error) {
	id, err := s.history.Save(ctx, r)
	if err != nil {
		return 0, err
	}

	metrics.ObserveSaved(r.Kind)
	slog.InfoContext(ctx, "Response saved", "id", id, "type", r.Kind)
	return id, nil
}

func (s *assistantService) History(ctx context.Context) ([]domain.SavedResponse, error) {
	return s.history.List(ctx)
}

func (s *assistantService) SavedResponse(ctx context.Context, id int64) (*domain.SavedResponse, error) {
	return s.history.GetByID(ctx, id)
}
