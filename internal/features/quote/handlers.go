// Package quote — handlers.go обрабатывает команду !цитаты.
package quote

import (
	"context"
	"fmt"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	log "github.com/sirupsen/logrus"
)

// Handler обрабатывает команды цитат.
type Handler struct {
	service *Service
	bot     *tgbotapi.BotAPI
}

// NewHandler создаёт новый обработчик команд цитат.
func NewHandler(service *Service, bot *tgbotapi.BotAPI) *Handler {
	return &Handler{service: service, bot: bot}
}

// HandleQuotes обрабатывает команду !цитаты — показывает размер резервной
// библиотеки и случайную цитату из неё.
func (h *Handler) HandleQuotes(ctx context.Context, chatID int64) {
	count, err := h.service.BackupCount(ctx)
	if err != nil {
		log.WithError(err).Error("Ошибка подсчёта цитат")
		h.sendMessage(chatID, "❌ Ошибка получения цитат")
		return
	}

	q := h.service.Random(ctx)
	text := fmt.Sprintf(
		"📚 В резервной библиотеке %d цитат\n\n«%s»\n— %s",
		count, q.Text, q.Author,
	)
	h.sendMessage(chatID, text)
}

func (h *Handler) sendMessage(chatID int64, text string) {
	msg := tgbotapi.NewMessage(chatID, text)
	if _, err := h.bot.Send(msg); err != nil {
		log.WithError(err).Error("Ошибка отправки сообщения")
	}
}
