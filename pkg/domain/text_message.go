package domain

import (
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/dskvich/catpic-telegram-bot/pkg/render"
)

type TextMessage struct {
	ChatID  int64
	Content string
}

func (t *TextMessage) ToChatMessage() tgbotapi.Chattable {
	msg := tgbotapi.NewMessage(t.ChatID, render.ToHTML(t.Content))
	msg.ParseMode = tgbotapi.ModeHTML
	msg.ReplyMarkup = mainKeyboard()
	return msg
}
