package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dskvich/ai-assistant/pkg/domain"
)

func TestNewAssistantService(t *testing.T) {
	_, err := NewAssistantService(nil, &mockGenerator{}, nil, &mockHistory{})
	assert.EqualError(t, err, "describer is required")

	_, err = NewAssistantService(&mockDescriber{}, nil, nil, &mockHistory{})
	assert.EqualError(t, err, "generator is required")

	_, err = NewAssistantService(&mockDescriber{}, &mockGenerator{}, nil, nil)
	assert.EqualError(t, err, "history repository is required")
}

func TestAssistantService_Describe(t *testing.T) {
	ctx := context.Background()

	t.Run("success", func(t *testing.T) {
		d := &mockDescriber{text: "A red car."}
		s, err := NewAssistantService(d, &mockGenerator{}, nil, &mockHistory{})
		require.NoError(t, err)

		got, err := s.Describe(ctx, "car.jpg", []byte("img"))

		require.NoError(t, err)
		assert.Equal(t, "A red car.", got)
		assert.Equal(t, 1, d.calls)
		assert.Equal(t, []byte("img"), d.got)
	})

	t.Run("provider error stays inspectable", func(t *testing.T) {
		providerErr := &domain.ProviderError{Provider: "groq", StatusCode: 500, Body: "down"}
		s, err := NewAssistantService(&mockDescriber{err: providerErr}, &mockGenerator{}, nil, &mockHistory{})
		require.NoError(t, err)

		got, err := s.Describe(ctx, "car.jpg", []byte("img"))

		assert.Empty(t, got)
		var target *domain.ProviderError
		require.ErrorAs(t, err, &target)
		assert.Equal(t, 500, target.StatusCode)
	})
}

func TestAssistantService_Generate(t *testing.T) {
	ctx := context.Background()

	g := &mockGenerator{url: "http://x/y.png"}
	s, err := NewAssistantService(&mockDescriber{}, g, nil, &mockHistory{})
	require.NoError(t, err)

	got, err := s.Generate(ctx, "a cat")

	require.NoError(t, err)
	assert.Equal(t, "http://x/y.png", got)
	assert.Equal(t, "a cat", g.prompt)

	g.err = &domain.ProviderError{Provider: "edenai", StatusCode: 429, Body: "rate limited"}
	_, err = s.Generate(ctx, "a cat")
	assert.ErrorContains(t, err, "429")
	assert.ErrorContains(t, err, "rate limited")
}

func TestAssistantService_Speak(t *testing.T) {
	ctx := context.Background()

	t.Run("disabled without synthesizer", func(t *testing.T) {
		s, err := NewAssistantService(&mockDescriber{}, &mockGenerator{}, nil, &mockHistory{})
		require.NoError(t, err)

		assert.False(t, s.SpeechEnabled())
		_, err = s.Speak(ctx, "hello")
		assert.ErrorIs(t, err, domain.ErrSpeechDisabled)
	})

	t.Run("delegates to synthesizer", func(t *testing.T) {
		synth := &mockSynthesizer{speech: &domain.Speech{Content: []byte("mp3"), ContentType: domain.SpeechContentType}}
		s, err := NewAssistantService(&mockDescriber{}, &mockGenerator{}, synth, &mockHistory{})
		require.NoError(t, err)

		got, err := s.Speak(ctx, "hello")

		require.NoError(t, err)
		assert.True(t, s.SpeechEnabled())
		assert.Equal(t, []byte("mp3"), got.Content)
		assert.Equal(t, "hello", synth.text)
	})
}

func TestAssistantService_History(t *testing.T) {
	ctx := context.Background()
	h := &mockHistory{}
	s, err := NewAssistantService(&mockDescriber{}, &mockGenerator{}, nil, h)
	require.NoError(t, err)

	id, err := s.Save(ctx, domain.NewAnalysis("car.jpg", "A red car."))
	require.NoError(t, err)
	assert.EqualValues(t, 1, id)

	_, err = s.Save(ctx, domain.NewGeneration("a cat", "http://x/y.png"))
	require.NoError(t, err)

	got, err := s.History(ctx)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, domain.ResponseKindAnalysis, got[0].Kind)
	assert.Equal(t, domain.ResponseKindGeneration, got[1].Kind)

	saved, err := s.SavedResponse(ctx, 2)
	require.NoError(t, err)
	assert.Equal(t, "a cat", saved.Prompt)

	_, err = s.SavedResponse(ctx, 3)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	h.err = errors.New("disk full")
	_, err = s.Save(ctx, domain.NewAnalysis("x", "y"))
	assert.EqualError(t, err, "disk full")
}
