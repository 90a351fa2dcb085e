package domain

const FetchImageButton = "Подай котика!"

const (
	GreetingMessage = "Привет, %s. Посмотри, какого котика я тебе нашёл!"

	ChatOnlyMessage = "К сожалению, я не умею общаться. Но зато мастерски ищу " +
		"фотографии котиков."

	ServiceUnavailableMessage = "К сожалению, сервис на данный момент недоступен. " +
		"Попробуйте обратиться позднее."

	NoNewImagesMessage = "Кажется, ты уже видел всех моих котиков. " +
		"Загляни чуть позже — найду новых!"

	HelpMessage = `Я присылаю котиков и никогда не повторяюсь.

*Кнопка «Подай котика!»* — новая картинка. Если котики закончились, на помощь приходят пёсики.

Команды:
- /start — поздороваться и получить котика
- /help — это сообщение`
)
