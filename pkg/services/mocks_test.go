package services

import (
	"context"

	"github.com/dskvich/ai-assistant/pkg/domain"
)

type mockDescriber struct {
	calls int
	got   []byte
	text  string
	err   error
}

func (m *mockDescriber) Describe(_ context.Context, image []byte) (string, error) {
	m.calls++
	m.got = image
	return m.text, m.err
}

type mockGenerator struct {
	calls  int
	prompt string
	url    string
	err    error
}

func (m *mockGenerator) Generate(_ context.Context, prompt string) (string, error) {
	m.calls++
	m.prompt = prompt
	return m.url, m.err
}

type mockSynthesizer struct {
	text   string
	speech *domain.Speech
	err    error
}

func (m *mockSynthesizer) Synthesize(_ context.Context, text string) (*domain.Speech, error) {
	m.text = text
	return m.speech, m.err
}

type mockHistory struct {
	saved []domain.SavedResponse
	err   error
}

func (m *mockHistory) Save(_ context.Context, r domain.SavedResponse) (int64, error) {
	if m.err != nil {
		return 0, m.err
	}
	m.saved = append(m.saved, r)
	return int64(len(m.saved)), nil
}

func (m *mockHistory) List(_ context.Context) ([]domain.SavedResponse, error) {
	return m.saved, m.err
}

func (m *mockHistory) GetByID(_ context.Context, id int64) (*domain.SavedResponse, error) {
	if id < 1 || int(id) > len(m.saved) {
		return nil, domain.ErrNotFound
	}
	r := m.saved[id-1]
	return &r, nil
}
