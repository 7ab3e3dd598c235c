// Package admin — handlers.go обрабатывает взаимодействие с админ-панелью.
// Панель работает в личных сообщениях: /login <пароль>, затем команды
// обслуживания: «архив» (ручной перенос неактивных в архив),
// «чистка» (удаление старых снимков), «выход».
package admin

import (
	"context"
	"fmt"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	log "github.com/sirupsen/logrus"

	"serotonyl.ru/fortune-bot/internal/common"
	"serotonyl.ru/fortune-bot/internal/features/fortune"
)

// Handler обрабатывает админ-команды.
type Handler struct {
	service        *Service
	fortuneService *fortune.Service
	bot            *tgbotapi.BotAPI
}

// NewHandler создаёт обработчик админ-панели.
func NewHandler(service *Service, fortuneService *fortune.Service, bot *tgbotapi.BotAPI) *Handler {
	return &Handler{
		service:        service,
		fortuneService: fortuneService,
		bot:            bot,
	}
}

// HandleAdminMessage обрабатывает сообщение в личке как возможную
// админ-команду. Возвращает true, если сообщение обработано.
func (h *Handler) HandleAdminMessage(ctx context.Context, chatID int64, userID int64, text string) bool {
	text = strings.TrimSpace(text)

	// Ждём пароль после /login без аргумента
	state := h.service.GetState(userID)
	if state != nil && state.State == StateAwaitingPassword {
		h.handlePasswordInput(ctx, chatID, userID, text)
		return true
	}

	// /login <пароль> — вход одной командой
	if strings.HasPrefix(text, "/login") {
		password := strings.TrimSpace(strings.TrimPrefix(text, "/login"))
		if password == "" {
			h.sendMessage(chatID, "🔐 Введите пароль администратора:")
			h.service.SetState(userID, StateAwaitingPassword)
			return true
		}
		h.handlePasswordInput(ctx, chatID, userID, password)
		return true
	}

	if !h.service.HasActiveSession(ctx, userID) {
		return false
	}
	h.service.TouchSession(ctx, userID)

	switch panelCommand(text) {
	case "архив":
		h.handleArchive(ctx, chatID)
		return true
	case "чистка":
		h.handlePurge(ctx, chatID)
		return true
	case "выход":
		if err := h.service.Logout(ctx, userID); err != nil {
			log.WithError(err).Error("Ошибка выхода из админ-панели")
		}
		h.sendMessage(chatID, "👋 Сессия завершена")
		return true
	case "админ", "панель":
		h.showKeyboard(chatID)
		return true
	}

	return false
}

// panelCommand нормализует команду панели: команды принимаются и как
// нажатие кнопки клавиатуры («Архив»), и с командным префиксом бота
// (!архив, /архив).
func panelCommand(text string) string {
	return strings.ToLower(strings.TrimLeft(strings.TrimSpace(text), "!./"))
}

// handlePasswordInput обрабатывает ввод пароля.
func (h *Handler) handlePasswordInput(ctx context.Context, chatID int64, userID int64, password string) {
	h.service.ClearState(userID)

	if err := h.service.VerifyPassword(ctx, userID, password); err != nil {
		h.sendMessage(chatID, fmt.Sprintf("❌ %s", err.Error()))
		return
	}

	h.sendMessage(chatID, "✅ Аутентификация успешна!")
	h.showKeyboard(chatID)
}

// handleArchive — ручной запуск переноса неактивных записей в архив.
func (h *Handler) handleArchive(ctx context.Context, chatID int64) {
	moved, err := h.fortuneService.ArchiveStale(ctx, common.MoscowTime())
	if err != nil {
		log.WithError(err).Error("Ошибка ручного архивирования")
		h.sendMessage(chatID, "❌ Ошибка архивирования")
		return
	}
	h.sendMessage(chatID, fmt.Sprintf("📦 В архив перенесено записей: %d", moved))
}

// handlePurge — ручное удаление снимков прошлых дней.
func (h *Handler) handlePurge(ctx context.Context, chatID int64) {
	deleted, err := h.fortuneService.PurgeOldSnapshots(ctx, common.MoscowTime())
	if err != nil {
		log.WithError(err).Error("Ошибка ручной чистки снимков")
		h.sendMessage(chatID, "❌ Ошибка чистки")
		return
	}
	h.sendMessage(chatID, fmt.Sprintf("🧹 Удалено снимков: %d", deleted))
}

// showKeyboard отображает клавиатуру админ-панели.
func (h *Handler) showKeyboard(chatID int64) {
	keyboard := tgbotapi.NewReplyKeyboard(
		tgbotapi.NewKeyboardButtonRow(
			tgbotapi.NewKeyboardButton("Архив"),
			tgbotapi.NewKeyboardButton("Чистка"),
		),
		tgbotapi.NewKeyboardButtonRow(
			tgbotapi.NewKeyboardButton("Выход"),
		),
	)

	msg := tgbotapi.NewMessage(chatID, "✅ Админ-панель открыта")
	msg.ReplyMarkup = keyboard
	if _, err := h.bot.Send(msg); err != nil {
		log.WithError(err).Error("Ошибка отправки клавиатуры")
	}
}

func (h *Handler) sendMessage(chatID int64, text string) {
	msg := tgbotapi.NewMessage(chatID, text)
	if _, err := h.bot.Send(msg); err != nil {
		log.WithError(err).Error("Ошибка отправки сообщения")
	}
}
