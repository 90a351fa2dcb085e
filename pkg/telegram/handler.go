package telegram

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/dskvich/catpic-telegram-bot/pkg/domain"
	"github.com/dskvich/catpic-telegram-bot/pkg/logger"
)

type ImageDeliveryService interface {
	RequestImage(ctx context.Context, userID int64) (domain.ImageRef, error)
}

type BalanceProvider interface {
	GetBalanceMessage(ctx context.Context) (string, error)
}

type handler struct {
	deliveryService ImageDeliveryService
	balanceProvider BalanceProvider
	responseCh      chan<- domain.Response
}

// NewHandler routes incoming updates. balanceProvider may be nil when no
// hosting token is configured.
func NewHandler(
	deliveryService ImageDeliveryService,
	balanceProvider BalanceProvider,
	responseCh chan<- domain.Response,
) *handler {
	return &handler{
		deliveryService: deliveryService,
		balanceProvider: balanceProvider,
		responseCh:      responseCh,
	}
}

func (h *handler) HandleUpdate(ctx context.Context, update *tgbotapi.Update) {
	msg := update.Message
	if msg == nil || msg.From == nil {
		slog.WarnContext(ctx, "Received unsupported update type")
		return
	}

	chatID, userID := msg.Chat.ID, msg.From.ID

	switch {
	case isCommand(msg.Text):
		h.handleCommand(ctx, msg)

	case msg.Text == domain.FetchImageButton:
		h.deliverImage(ctx, chatID, userID)

	default:
		h.responseCh <- domain.Response{ChatID: chatID, Text: domain.ChatOnlyMessage}
	}
}

func isCommand(text string) bool {
	return strings.HasPrefix(strings.TrimSpace(text), "/")
}

func (h *handler) handleCommand(ctx context.Context, msg *tgbotapi.Message) {
	chatID, userID := msg.Chat.ID, msg.From.ID

	cmd := strings.ToLower(strings.TrimSpace(msg.Text))
	cmd = strings.Split(cmd, "@")[0]

	switch cmd {
	case "/start":
		h.responseCh <- domain.Response{
			ChatID: chatID,
			Text:   fmt.Sprintf(domain.GreetingMessage, msg.From.FirstName),
		}
		h.deliverImage(ctx, chatID, userID)

	case "/help":
		h.responseCh <- domain.Response{ChatID: chatID, Text: domain.HelpMessage}

	case "/balance":
		h.sendBalance(ctx, chatID)

	default:
		slog.WarnContext(ctx, "Unhandled command", "cmd", cmd)
		h.responseCh <- domain.Response{ChatID: chatID, Text: domain.ChatOnlyMessage}
	}
}

func (h *handler) deliverImage(ctx context.Context, chatID, userID int64) {
	ref, err := h.deliveryService.RequestImage(ctx, userID)
	if err != nil {
		slog.ErrorContext(ctx, "Image request failed", "userID", userID, logger.Err(err))
		h.responseCh <- domain.Response{ChatID: chatID, Text: failureText(err), Err: err}
		return
	}

	h.responseCh <- domain.Response{ChatID: chatID, Photo: &domain.Photo{Ref: ref}}
}

// failureText maps terminal delivery failures to user-facing replies. A
// duplicate image is never sent to mask a failure.
func failureText(err error) string {
	if errors.Is(err, domain.ErrExhaustedRetries) {
		return domain.NoNewImagesMessage
	}
	return domain.ServiceUnavailableMessage
}

func (h *handler) sendBalance(ctx context.Context, chatID int64) {
	if h.balanceProvider == nil {
		h.responseCh <- domain.Response{ChatID: chatID, Text: domain.ChatOnlyMessage}
		return
	}

	text, err := h.balanceProvider.GetBalanceMessage(ctx)
	if err != nil {
		slog.ErrorContext(ctx, "Fetching balance failed", logger.Err(err))
		h.responseCh <- domain.Response{ChatID: chatID, Text: domain.ServiceUnavailableMessage, Err: err}
		return
	}

	h.responseCh <- domain.Response{ChatID: chatID, Text: text}
}
