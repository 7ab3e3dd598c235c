// Package fortune — handlers.go обрабатывает команды системы удачи:
// !удача, !статы, !топ, !деньчата, !деньвсех.
package fortune

import (
	"context"
	"fmt"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	log "github.com/sirupsen/logrus"

	"serotonyl.ru/fortune-bot/internal/common"
	"serotonyl.ru/fortune-bot/internal/config"
	"serotonyl.ru/fortune-bot/internal/features/members"
	"serotonyl.ru/fortune-bot/internal/render"
)

// Handler обрабатывает команды системы удачи.
type Handler struct {
	service  *Service
	members  *members.Service
	renderer render.Renderer // nil — рендер выключен, только текст
	bot      *tgbotapi.BotAPI
	cfg      *config.Config
}

// NewHandler создаёт новый обработчик команд удачи.
func NewHandler(service *Service, memberService *members.Service, renderer render.Renderer, bot *tgbotapi.BotAPI, cfg *config.Config) *Handler {
	return &Handler{
		service:  service,
		members:  memberService,
		renderer: renderer,
		bot:      bot,
		cfg:      cfg,
	}
}

// HandleFortune обрабатывает команду !удача — отметку дня.
// Новая отметка и повторный просмотр выглядят одинаково (карточка дня);
// различается только подпись.
func (h *Handler) HandleFortune(ctx context.Context, chatID, userID int64) {
	now := common.MoscowTime()
	snap, created, err := h.service.CheckIn(ctx, userID, now)
	if err != nil {
		log.WithError(err).WithField("user_id", userID).Error("Ошибка отметки дня")
		h.sendMessage(chatID, "❌ Не получилось бросить удачу, попробуй ещё раз")
		return
	}

	caption := fmt.Sprintf("✨ +%s", common.FormatExp(snap.ExpGain))
	if !created {
		caption = "📌 Ты уже отмечался сегодня"
	}

	if h.renderer != nil && h.cfg.FeatureRenderEnabled {
		data := h.cardData(ctx, userID, snap)
		png, err := h.renderer.RenderCard(ctx, data)
		if err == nil {
			h.sendPhoto(chatID, png, caption)
			return
		}
		log.WithError(err).Warn("Рендер карточки не удался, отвечаем текстом")
	}

	h.sendMessage(chatID, h.fortuneText(snap, created))
}

// HandleStats обрабатывает команду !статы — личную статистику.
func (h *Handler) HandleStats(ctx context.Context, chatID, userID int64) {
	view, err := h.service.Stats(ctx, userID)
	if err != nil {
		log.WithError(err).WithField("user_id", userID).Error("Ошибка получения статистики")
		h.sendMessage(chatID, "❌ Ошибка получения статистики")
		return
	}

	rec := view.Record
	if rec.SignDays == 0 {
		h.sendMessage(chatID, "📭 Ты ещё ни разу не отмечался. Напиши !удача")
		return
	}

	text := fmt.Sprintf(
		"📊 Твоя статистика\n\n"+
			"Уровень: %d · %s\n"+
			"Опыт: %s (до следующего: %d)\n"+
			"Прогресс: %.1f%%\n\n"+
			"Отметок: %d\n"+
			"Серия: %d %s подряд\n"+
			"Последняя отметка: %s",
		view.Level.Level, view.Level.Name,
		common.FormatExp(rec.Experience), view.NextLevelExp,
		view.Progress,
		rec.SignDays,
		rec.ConsecutiveDays, common.PluralizeDays(rec.ConsecutiveDays),
		rec.LastSignDate,
	)
	h.sendMessage(chatID, text)
}

// HandleTop обрабатывает команду !топ — глобальный рейтинг.
func (h *Handler) HandleTop(ctx context.Context, chatID, userID int64) {
	ranking, err := h.service.RankingFor(ctx, userID)
	if err != nil {
		log.WithError(err).Error("Ошибка построения рейтинга")
		h.sendMessage(chatID, "❌ Ошибка построения рейтинга")
		return
	}
	if len(ranking.Top) == 0 {
		h.sendMessage(chatID, "📭 Пока никто не отмечался")
		return
	}

	ids := make([]int64, 0, len(ranking.Top))
	for _, u := range ranking.Top {
		ids = append(ids, u.UserID)
	}
	names, err := h.members.NamesByIDs(ctx, ids)
	if err != nil {
		log.WithError(err).Warn("Не удалось получить имена для рейтинга")
		names = map[int64]string{}
	}

	var sb strings.Builder
	sb.WriteString("🏆 Топ удачливых\n\n")
	medals := []string{"🥇", "🥈", "🥉"}
	for i, u := range ranking.Top {
		prefix := fmt.Sprintf("%d.", i+1)
		if i < len(medals) {
			prefix = medals[i]
		}
		name := names[u.UserID]
		if name == "" {
			name = fmt.Sprintf("id%d", u.UserID)
		}
		fmt.Fprintf(&sb, "%s %s — ур. %d, %s\n",
			prefix, name, u.Level.Level, common.FormatExp(u.Experience))
	}

	if ranking.Caller != nil && ranking.CallerRank > len(ranking.Top) {
		fmt.Fprintf(&sb, "\nТы на %d месте (%s)",
			ranking.CallerRank, common.FormatExp(ranking.Caller.Experience))
	}
	h.sendMessage(chatID, sb.String())
}

// HandleChatToday обрабатывает команду !деньчата — сводку дня по чату.
func (h *Handler) HandleChatToday(ctx context.Context, chatID int64) {
	memberIDs, err := h.members.MemberIDs(ctx)
	if err != nil {
		log.WithError(err).Error("Ошибка получения списка участников")
		h.sendMessage(chatID, "❌ Ошибка получения сводки")
		return
	}
	if memberIDs == nil {
		memberIDs = []int64{}
	}
	h.sendTodayStats(ctx, chatID, "🌤 Удача чата сегодня", memberIDs)
}

// HandleGlobalToday обрабатывает команду !деньвсех — глобальную сводку дня.
func (h *Handler) HandleGlobalToday(ctx context.Context, chatID int64) {
	h.sendTodayStats(ctx, chatID, "🌍 Удача всех сегодня", nil)
}

func (h *Handler) sendTodayStats(ctx context.Context, chatID int64, title string, memberIDs []int64) {
	now := common.MoscowTime()
	stats, err := h.service.TodayStats(ctx, now, memberIDs)
	if err != nil {
		log.WithError(err).Error("Ошибка сводки дня")
		h.sendMessage(chatID, "❌ Ошибка получения сводки")
		return
	}
	if stats.Count == 0 {
		h.sendMessage(chatID, title+"\n\n📭 Сегодня ещё никто не отмечался")
		return
	}

	text := fmt.Sprintf(
		"%s (%s)\n\n"+
			"Отметилось: %d\n"+
			"Средняя удача: %d\n"+
			"Лучшая: %d · худшая: %d",
		title, common.FormatDateRu(now),
		stats.Count,
		stats.AvgFortune,
		stats.MaxFortune, stats.MinFortune,
	)
	if memberIDs == nil {
		text += fmt.Sprintf("\nСредний опыт за день: %d", stats.AvgExpGain)
	}
	h.sendMessage(chatID, text)
}

// cardData собирает данные карточки из снимка дня.
func (h *Handler) cardData(ctx context.Context, userID int64, snap *DailySnapshot) *render.CardData {
	now := common.MoscowTime()
	return &render.CardData{
		Greeting:        h.service.Tables().GreetingFor(now.Hour()),
		DisplayName:     h.members.DisplayNameFor(ctx, userID),
		DateRu:          common.FormatDateRu(now),
		Fortune:         snap.Fortune,
		FortuneDesc:     snap.FortuneDesc,
		Level:           snap.Level,
		LevelName:       snap.LevelName,
		Experience:      snap.Experience,
		ExpGain:         snap.ExpGain,
		NextLevelExp:    snap.NextLevelExp,
		Progress:        snap.Progress,
		SignDays:        snap.SignDays,
		ConsecutiveDays: snap.ConsecutiveDays,
		AlmanacGood:     snap.AlmanacGood,
		AlmanacBad:      snap.AlmanacBad,
		QuoteText:       snap.QuoteText,
		QuoteAuthor:     snap.QuoteAuthor,
		AvatarURL:       h.avatarURL(userID),
		BackgroundURL:   h.cfg.RenderBackgroundURL,
	}
}

// avatarURL возвращает ссылку на аватарку пользователя.
// Любая ошибка — карточка без аватарки, это не повод ломать отметку.
func (h *Handler) avatarURL(userID int64) string {
	photos, err := h.bot.GetUserProfilePhotos(tgbotapi.UserProfilePhotosConfig{
		UserID: userID,
		Limit:  1,
	})
	if err != nil || len(photos.Photos) == 0 || len(photos.Photos[0]) == 0 {
		return ""
	}
	sizes := photos.Photos[0]
	url, err := h.bot.GetFileDirectURL(sizes[len(sizes)-1].FileID)
	if err != nil {
		log.WithError(err).WithField("user_id", userID).Debug("Не удалось получить ссылку на аватарку")
		return ""
	}
	return url
}

// fortuneText — текстовый вариант карточки (фолбэк при недоступном рендере).
func (h *Handler) fortuneText(snap *DailySnapshot, created bool) string {
	header := "🎲 Удача дня"
	if !created {
		header = "📌 Сегодня ты уже отмечался"
	}
	return fmt.Sprintf(
		"%s\n\n"+
			"Удача: %d — %s\n"+
			"Уровень: %d · %s (%s)\n"+
			"Прогресс: %s · до следующего: %d\n"+
			"За сегодня: +%s\n\n"+
			"宜 %s\n"+
			"忌 %s\n\n"+
			"Отметок: %d · серия %d %s\n\n"+
			"«%s» — %s",
		header,
		snap.Fortune, snap.FortuneDesc,
		snap.Level, snap.LevelName, common.FormatExp(snap.Experience),
		snap.Progress, snap.NextLevelExp,
		common.FormatExp(snap.ExpGain),
		snap.AlmanacGood,
		snap.AlmanacBad,
		snap.SignDays, snap.ConsecutiveDays, common.PluralizeDays(snap.ConsecutiveDays),
		snap.QuoteText, snap.QuoteAuthor,
	)
}

// sendMessage — вспомогательный метод для отправки текстовых сообщений.
func (h *Handler) sendMessage(chatID int64, text string) {
	msg := tgbotapi.NewMessage(chatID, text)
	if _, err := h.bot.Send(msg); err != nil {
		log.WithError(err).Error("Ошибка отправки сообщения")
	}
}

// sendPhoto отправляет PNG-карточку с подписью.
func (h *Handler) sendPhoto(chatID int64, png []byte, caption string) {
	photo := tgbotapi.NewPhoto(chatID, tgbotapi.FileBytes{Name: "fortune.png", Bytes: png})
	photo.Caption = caption
	if _, err := h.bot.Send(photo); err != nil {
		log.WithError(err).Error("Ошибка отправки карточки")
	}
}
