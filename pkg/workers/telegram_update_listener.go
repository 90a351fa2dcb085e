package workers

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/dskvich/catpic-telegram-bot/pkg/domain"
	"github.com/dskvich/catpic-telegram-bot/pkg/logger"
)

type Handler interface {
	HandleUpdate(ctx context.Context, update *tgbotapi.Update)
}

type Authenticator interface {
	IsAuthorized(userID int64) bool
}

type TelegramClient interface {
	GetUpdates() tgbotapi.UpdatesChannel
	SendResponse(ctx context.Context, response *domain.Response)
	StartUploadingPhoto(ctx context.Context, chatID int64)
}

// telegramUpdateListener processes each update in its own goroutine, so
// requests from different users (or the same user) run concurrently.
// The per-request timeout bounds total latency against slow upstreams.
type telegramUpdateListener struct {
	client         TelegramClient
	authenticator  Authenticator
	handler        Handler
	responseCh     <-chan domain.Response
	requestTimeout time.Duration
	wg             sync.WaitGroup
}

func NewTelegramUpdateListener(
	client TelegramClient,
	authenticator Authenticator,
	handler Handler,
	responseCh <-chan domain.Response,
	requestTimeout time.Duration,
) (*telegramUpdateListener, error) {
	return &telegramUpdateListener{
		client:         client,
		authenticator:  authenticator,
		handler:        handler,
		responseCh:     responseCh,
		requestTimeout: requestTimeout,
	}, nil
}

func (t *telegramUpdateListener) Name() string { return "telegram_listener_worker" }

func (t *telegramUpdateListener) Start(ctx context.Context) error {
	slog.Info("Starting worker", "name", t.Name())
	defer slog.Info("Worker stopped", "name", t.Name())

	updates := t.client.GetUpdates()

	for {
		select {
		case <-ctx.Done():
			t.wg.Wait()
			return nil
		case update := <-updates:
			t.wg.Add(1)
			go func(update tgbotapi.Update) {
				defer t.wg.Done()
				t.processUpdate(ctx, &update)
			}(update)
		case response := <-t.responseCh:
			t.client.SendResponse(ctx, &response)
		}
	}
}

func (t *telegramUpdateListener) processUpdate(ctx context.Context, update *tgbotapi.Update) {
	ctx = logger.ContextWithRequestID(ctx, int64(update.UpdateID))
	ctx, cancelFn := context.WithTimeout(ctx, t.requestTimeout)
	defer cancelFn()

	if update.Message == nil || update.Message.From == nil {
		slog.WarnContext(ctx, "Received unknown update type")
		return
	}
	chatID, userID := update.Message.Chat.ID, update.Message.From.ID

	slog.InfoContext(ctx, "Processing update", "chatID", chatID, "userID", userID)

	t.client.StartUploadingPhoto(ctx, chatID)

	if !t.authenticator.IsAuthorized(userID) {
		slog.WarnContext(ctx, "Unauthorized access attempt", "userID", userID)
		t.client.SendResponse(ctx, &domain.Response{
			ChatID: chatID,
			Text:   fmt.Sprintf("User %d is not authorized", userID),
		})
		return
	}

	t.handler.HandleUpdate(ctx, update)
}
