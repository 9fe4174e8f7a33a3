package telegram

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/dskvich/ai-assistant/pkg/domain"
	"github.com/dskvich/ai-assistant/pkg/logger"
)

const failedDeliveryText = "Failed to deliver the response"

type client struct {
	token     string
	bot       *tgbotapi.BotAPI
	updatesCh tgbotapi.UpdatesChannel
}

func NewClient(token string) (*client, error) {
	bot, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("creating bot api instance: %w", err)
	}

	slog.Info("authorized on telegram", "account", bot.Self.UserName)

	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60

	return &client{
		token:     token,
		bot:       bot,
		updatesCh: bot.GetUpdatesChan(u),
	}, nil
}

func (c *client) GetUpdates() tgbotapi.UpdatesChannel {
	return c.updatesCh
}

// Stop ends long polling; the updates channel is closed afterwards.
func (c *client) Stop() {
	c.bot.StopReceivingUpdates()
}

func (c *client) StartTyping(ctx context.Context, chatID int64) {
	if _, err := c.bot.Request(tgbotapi.NewChatAction(chatID, tgbotapi.ChatTyping)); err != nil {
		slog.WarnContext(ctx, "sending typing action", "chatID", chatID, logger.Err(err))
	}
}

func (c *client) SendResponse(ctx context.Context, response *domain.Response) {
	for _, msg := range toChattables(response) {
		if _, err := c.bot.Send(msg); err != nil {
			slog.ErrorContext(ctx, "sending telegram message", "chatID", response.ChatID, logger.Err(err))
			c.notifyFailure(ctx, response)
			return
		}
	}
}

func (c *client) notifyFailure(ctx context.Context, response *domain.Response) {
	msg := tgbotapi.NewMessage(response.ChatID, failedDeliveryText)
	msg.ReplyToMessageID = response.ReplyTo
	if _, err := c.bot.Send(msg); err != nil {
		slog.ErrorContext(ctx, "sending failure notification", logger.Err(err))
	}
}

func toChattables(response *domain.Response) []tgbotapi.Chattable {
	if response.Err != nil {
		msg := tgbotapi.NewMessage(response.ChatID, response.Err.Error())
		msg.ReplyToMessageID = response.ReplyTo
		return []tgbotapi.Chattable{msg}
	}

	var out []tgbotapi.Chattable
	if response.Text != "" {
		msg := tgbotapi.NewMessage(response.ChatID, response.Text)
		msg.ParseMode = tgbotapi.ModeHTML
		msg.ReplyToMessageID = response.ReplyTo
		out = append(out, msg)
	}
	if response.ImageURL != "" {
		photo := tgbotapi.NewPhoto(response.ChatID, tgbotapi.FileURL(response.ImageURL))
		photo.Caption = response.ImageURL
		photo.ReplyToMessageID = response.ReplyTo
		out = append(out, photo)
	}
	if response.Audio != nil {
		audio := tgbotapi.NewAudio(response.ChatID, tgbotapi.FileBytes{
			Name:  "speech.mp3",
			Bytes: response.Audio.Content,
		})
		audio.ReplyToMessageID = response.ReplyTo
		out = append(out, audio)
	}
	return out
}

func (c *client) DownloadFile(ctx context.Context, fileID string) ([]byte, error) {
	file, err := c.bot.GetFile(tgbotapi.FileConfig{FileID: fileID})
	if err != nil {
		return nil, fmt.Errorf("getting file: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, file.Link(c.token), nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}

	resp, err := c.bot.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("executing request: %w", err)
	}
	defer func(Body io.ReadCloser) {
		if closeErr := Body.Close(); closeErr != nil {
			slog.Error("closing body", logger.Err(closeErr))
		}
	}(resp.Body)

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading response body: %w", err)
	}

	return data, nil
}
