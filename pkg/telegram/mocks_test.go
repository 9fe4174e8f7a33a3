package telegram

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
	speech      *domain.Speech
	speechOn    bool
	err         error
	speakErr    error
}

func (m *mockAssistant) Describe(_ context.Context, imageName string, image []byte) (string, error) {
	m.imageName, m.image = imageName, image
	return m.description, m.err
}

func (m *mockAssistant) Generate(_ context.Context, prompt string) (string, error) {
	m.prompt = prompt
	return m.imageURL, m.err
}

func (m *mockAssistant) SpeechEnabled() bool { return m.speechOn }

func (m *mockAssistant) Speak(_ context.Context, _ string) (*domain.Speech, error) {
	return m.speech, m.speakErr
}

type mockDownloader struct {
	fileID string
	data   []byte
	err    error
}

func (m *mockDownloader) DownloadFile(_ context.Context, fileID string) ([]byte, error) {
	m.fileID = fileID
	return m.data, m.err
}
