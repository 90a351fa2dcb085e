package domain

import (
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

type PhotoMessage struct {
	ChatID int64
	URL    string
}

func (p *PhotoMessage) ToChatMessage() tgbotapi.Chattable {
	msg := tgbotapi.NewPhoto(p.ChatID, tgbotapi.FileURL(p.URL))
	msg.ReplyMarkup = mainKeyboard()
	return msg
}

func mainKeyboard() tgbotapi.ReplyKeyboardMarkup {
	return tgbotapi.NewReplyKeyboard(
		tgbotapi.NewKeyboardButtonRow(
			tgbotapi.NewKeyboardButton(FetchImageButton),
		),
	)
}
