package handler

import (
	"context"

	"github.com/dskvich/ai-assistant/pkg/domain"
)

type mockAssistant struct {
	imageName   string
	image       []byte
	description string
	prompt      string
	imageURL    string
	err         error
	saveErr     error
	saved       []domain.SavedResponse
}

func (m *mockAssistant) Describe(_ context.Context, imageName string, image []byte) (string, error) {
	m.imageName, m.image = imageName, image
	return m.description, m.err
}

func (m *mockAssistant) Generate(_ context.Context, prompt string) (string, error) {
	m.prompt = prompt
	return m.imageURL, m.err
}

func (m *mockAssistant) Save(_ context.Context, r domain.SavedResponse) (int64, error) {
	if m.saveErr != nil {
		return 0, m.saveErr
	}
	r.ID = int64(len(m.saved) + 1)
	m.saved = append(m.saved, r)
	return r.ID, nil
}

func (m *mockAssistant) History(_ context.Context) ([]domain.SavedResponse, error) {
	return m.saved, nil
}

func (m *mockAssistant) SavedResponse(_ context.Context, id int64) (*domain.SavedResponse, error) {
	if id < 1 || int(id) > len(m.saved) {
		return nil, domain.ErrNotFound
	}
	r := m.saved[id-1]
	return &r, nil
}
