package telegram

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/dskvich/ai-assistant/pkg/domain"
	"github.com/dskvich/ai-assistant/pkg/keyword"
	"github.com/dskvich/ai-assistant/pkg/logger"
	"github.com/dskvich/ai-assistant/pkg/render"
)

const helpText = `Send me a photo and I will describe it.
Use /image &lt;prompt&gt; or ask me to draw something to generate a picture.`

var errEmptyPrompt = errors.New("prompt is empty, usage: /image <prompt>")

type Assistant interface {
	Describe(ctx context.Context, imageName string, image []byte) (string, error)
	Generate(ctx context.Context, prompt string) (string, error)
	SpeechEnabled() bool
	Speak(ctx context.Context, text string) (*domain.Speech, error)
}

type FileDownloader interface {
	DownloadFile(ctx context.Context, fileID string) ([]byte, error)
}

type handler struct {
	assistant  Assistant
	downloader FileDownloader
	responseCh chan<- domain.Response
}

func NewHandler(
	assistant Assistant,
	downloader FileDownloader,
	responseCh chan<- domain.Response,
) *handler {
	return &handler{
		assistant:  assistant,
		downloader: downloader,
		responseCh: responseCh,
	}
}

func (h *handler) HandleUpdate(ctx context.Context, update *tgbotapi.Update) {
	msg := update.Message
	if msg == nil {
		return
	}

	text := strings.TrimSpace(msg.Text)

	switch {
	case len(msg.Photo) > 0:
		h.describePhoto(ctx, msg)

	case isCommand(text, "/start"), isCommand(text, "/help"):
		h.reply(msg, domain.Response{Text: helpText})

	case isCommand(text, "/image"):
		h.generateImage(ctx, msg, keyword.ImagePrompt(text))

	case keyword.IsImageRequest(text):
		h.generateImage(ctx, msg, text)

	default:
		slog.InfoContext(ctx, "Unhandled message", "text", text)
		h.reply(msg, domain.Response{Text: helpText})
	}
}

func isCommand(text, cmd string) bool {
	head, _, _ := strings.Cut(strings.ToLower(text), " ")
	head, _, _ = strings.Cut(head, "@")
	return head == cmd
}

func (h *handler) describePhoto(ctx context.Context, msg *tgbotapi.Message) {
	// the last size is the largest
	photo := msg.Photo[len(msg.Photo)-1]

	image, err := h.downloader.DownloadFile(ctx, photo.FileID)
	if err != nil {
		h.reply(msg, domain.Response{Err: fmt.Errorf("downloading photo: %w", err)})
		return
	}

	description, err := h.assistant.Describe(ctx, photo.FileUniqueID+".jpg", image)
	if err != nil {
		h.reply(msg, domain.Response{Err: err})
		return
	}

	h.reply(msg, domain.Response{
		Text:  render.ToTelegramHTML(description),
		Audio: h.speak(ctx, description),
	})
}

func (h *handler) generateImage(ctx context.Context, msg *tgbotapi.Message, prompt string) {
	if prompt == "" {
		h.reply(msg, domain.Response{Err: errEmptyPrompt})
		return
	}

	imageURL, err := h.assistant.Generate(ctx, prompt)
	if err != nil {
		h.reply(msg, domain.Response{Err: err})
		return
	}

	h.reply(msg, domain.Response{ImageURL: imageURL})
}

// speak is best effort; a failed synthesis still delivers the text reply.
func (h *handler) speak(ctx context.Context, text string) *domain.Speech {
	if !h.assistant.SpeechEnabled() {
		return nil
	}

	speech, err := h.assistant.Speak(ctx, text)
	if err != nil {
		slog.WarnContext(ctx, "Skipping audio reply", logger.Err(err))
		return nil
	}
	return speech
}

func (h *handler) reply(msg *tgbotapi.Message, response domain.Response) {
	response.ChatID = msg.Chat.ID
	response.ReplyTo = msg.MessageID
	h.responseCh <- response
}
