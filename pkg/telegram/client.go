package telegram

import (
	"context"
	"fmt"
	"log/slog"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/dskvich/catpic-telegram-bot/pkg/domain"
	"github.com/dskvich/catpic-telegram-bot/pkg/logger"
)

type client struct {
	bot       *tgbotapi.BotAPI
	updatesCh tgbotapi.UpdatesChannel
}

func NewClient(token string) (*client, error) {
	bot, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("creating bot api instance: %v", err)
	}

	slog.Info("authorized on telegram", "account", bot.Self.UserName)

	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60

	return &client{
		bot:       bot,
		updatesCh: bot.GetUpdatesChan(u),
	}, nil
}

func (c *client) GetUpdates() tgbotapi.UpdatesChannel {
	return c.updatesCh
}

func (c *client) SendResponse(ctx context.Context, response *domain.Response) {
	if response == nil {
		return
	}

	msg := toChatMessage(response)
	if _, err := c.bot.Send(msg); err != nil {
		slog.ErrorContext(ctx, "sending response", "chatID", response.ChatID, logger.Err(err))

		// Photo sends can fail on the Telegram side (for example a URL
		// it refuses to fetch); the user still deserves an answer.
		if response.Photo != nil {
			fallback := domain.TextMessage{ChatID: response.ChatID, Content: domain.ServiceUnavailableMessage}
			if _, err := c.bot.Send(fallback.ToChatMessage()); err != nil {
				slog.ErrorContext(ctx, "sending failure notification", "chatID", response.ChatID, logger.Err(err))
			}
		}
		return
	}

	slog.DebugContext(ctx, "response sent", "chatID", response.ChatID, "photo", response.Photo != nil)
}

func toChatMessage(response *domain.Response) tgbotapi.Chattable {
	switch {
	case response.Photo != nil:
		msg := domain.PhotoMessage{ChatID: response.ChatID, URL: response.Photo.Ref.URL}
		return msg.ToChatMessage()
	default:
		msg := domain.TextMessage{ChatID: response.ChatID, Content: response.Text}
		return msg.ToChatMessage()
	}
}

func (c *client) StartUploadingPhoto(ctx context.Context, chatID int64) {
	msg := domain.TypingMessage{ChatID: chatID}
	if _, err := c.bot.Request(msg.ToChatMessage()); err != nil {
		slog.DebugContext(ctx, "sending chat action", "chatID", chatID, logger.Err(err))
	}
}
