// Package fortune — service.go содержит основную бизнес-логику:
// переход «отметка дня» (бросок удачи, начисление опыта, серия),
// сводки дня, рейтинг и обслуживание хранилища.
package fortune

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sort"
	"sync"
	"time"

	log "github.com/sirupsen/logrus"

	"serotonyl.ru/fortune-bot/internal/common"
	"serotonyl.ru/fortune-bot/internal/config"
	"serotonyl.ru/fortune-bot/internal/features/quote"
)

// QuoteProvider выдаёт цитату для карточки. Реализуется сервисом цитат;
// обязан всегда что-то вернуть (фолбэки — его забота).
type QuoteProvider interface {
	Random(ctx context.Context) quote.Quote
}

// Service управляет системой удачи.
type Service struct {
	store  Store          // Хранилище записей и снимков
	tables *Tables        // Статические таблицы
	quotes QuoteProvider  // Цитата для карточки
	cfg    *config.Config // Конфигурация

	// Замки на пользователя: апдейты обрабатываются пулом горутин,
	// поэтому read-modify-write отметки сериализуем внутри процесса.
	locksMu sync.Mutex
	locks   map[int64]*sync.Mutex
}

// NewService создаёт сервис удачи.
func NewService(store Store, tables *Tables, quotes QuoteProvider, cfg *config.Config) *Service {
	return &Service{
		store:  store,
		tables: tables,
		quotes: quotes,
		cfg:    cfg,
		locks:  make(map[int64]*sync.Mutex),
	}
}

// Tables возвращает статические таблицы (для обработчиков и рендера).
func (s *Service) Tables() *Tables {
	return s.tables
}

// CheckIn выполняет отметку дня для пользователя.
//
// Если снимок за сегодня уже есть — состояние не меняется: возвращается
// существующий снимок с освежённой цитатой (цитата при этом НЕ
// персистится, меняется только отображаемая копия) и created=false.
//
// Иначе:
//  1. запись пользователя берётся из основного хранилища, при промахе —
//     из архива, при промахе и там — нулевая (первая отметка);
//  2. считаются удача, описание и альманах по сидам (userID, дата);
//  3. начисляется опыт: min(удача + база, потолок), затем бонус за серию
//     floor(gain * bonus) — бонус идёт ПОВЕРХ потолка;
//  4. серия: вчера была отметка → +1, иначе сброс к 1;
//  5. снимок и запись сохраняются, снимок возвращается с created=true.
func (s *Service) CheckIn(ctx context.Context, userID int64, now time.Time) (*DailySnapshot, bool, error) {
	today := common.DateString(now)

	unlock := s.lockUser(userID)
	defer unlock()

	// Снимок за сегодня — признак «уже отмечался»
	existing, err := s.store.GetSnapshot(ctx, userID, today)
	if err == nil {
		q := s.quotes.Random(ctx)
		view := *existing
		view.QuoteText = q.Text
		view.QuoteAuthor = q.Author
		return &view, false, nil
	}
	if !errors.Is(err, common.ErrSnapshotNotFound) {
		return nil, false, fmt.Errorf("ошибка чтения снимка дня: %w", err)
	}

	rec, err := s.resolveRecord(ctx, userID)
	if err != nil {
		return nil, false, err
	}

	fortune := Score(userID, today)
	desc := s.tables.Describe(fortune)
	almanac := s.tables.AlmanacFor(userID, today)
	q := s.quotes.Random(ctx)

	yesterday := common.DateString(now.AddDate(0, 0, -1))
	isConsecutive := rec.LastSignDate == yesterday
	expGain := s.expGain(int64(fortune), isConsecutive)

	if isConsecutive {
		rec.ConsecutiveDays++
	} else {
		rec.ConsecutiveDays = 1
	}
	rec.Experience += expGain
	rec.SignDays++
	rec.LastSignDate = today

	level := s.tables.LevelFor(rec.Experience)
	snap := &DailySnapshot{
		UserID:          userID,
		SignDate:        today,
		Fortune:         fortune,
		FortuneDesc:     desc,
		Level:           level.Level,
		LevelName:       level.Name,
		Experience:      rec.Experience,
		ExpGain:         expGain,
		NextLevelExp:    s.tables.NextLevelExp(rec.Experience),
		Progress:        fmt.Sprintf("%.1f%%", s.tables.ProgressPercent(rec.Experience)),
		SignDays:        rec.SignDays,
		ConsecutiveDays: rec.ConsecutiveDays,
		AlmanacGood:     almanac.Good,
		AlmanacBad:      almanac.Bad,
		QuoteText:       q.Text,
		QuoteAuthor:     q.Author,
		CreatedAt:       now,
	}

	// Сначала снимок, затем запись — как и в хранении по файлам:
	// полуготовая отметка без снимка невозможна
	if err := s.store.SaveSnapshot(ctx, snap); err != nil {
		return nil, false, fmt.Errorf("ошибка сохранения снимка: %w", err)
	}
	if err := s.store.SaveRecord(ctx, rec); err != nil {
		return nil, false, fmt.Errorf("ошибка сохранения записи: %w", err)
	}

	log.WithFields(log.Fields{
		"user_id":  userID,
		"fortune":  fortune,
		"exp_gain": expGain,
		"streak":   rec.ConsecutiveDays,
	}).Debug("Отметка дня выполнена")

	return snap, true, nil
}

// Stats возвращает личную статистику пользователя.
// Отсутствие записи — не ошибка: новый пользователь видит нули.
func (s *Service) Stats(ctx context.Context, userID int64) (*StatsView, error) {
	rec, err := s.resolveRecord(ctx, userID)
	if err != nil {
		return nil, err
	}

	return &StatsView{
		Record:       rec,
		Level:        s.tables.LevelFor(rec.Experience),
		NextLevelExp: s.tables.NextLevelExp(rec.Experience),
		Progress:     s.tables.ProgressPercent(rec.Experience),
	}, nil
}

// TodayStats возвращает сводку отметок за день.
// memberIDs == nil — глобальная сводка; иначе учитываются только
// перечисленные пользователи (сводка по чату).
func (s *Service) TodayStats(ctx context.Context, now time.Time, memberIDs []int64) (*TodayStats, error) {
	snaps, err := s.store.ListSnapshotsByDate(ctx, common.DateString(now))
	if err != nil {
		return nil, fmt.Errorf("ошибка чтения снимков дня: %w", err)
	}

	var allowed map[int64]struct{}
	if memberIDs != nil {
		allowed = make(map[int64]struct{}, len(memberIDs))
		for _, id := range memberIDs {
			allowed[id] = struct{}{}
		}
	}

	stats := &TodayStats{MinFortune: 100}
	var totalFortune, totalGain int64
	for _, snap := range snaps {
		if allowed != nil {
			if _, ok := allowed[snap.UserID]; !ok {
				continue
			}
		}
		stats.Count++
		totalFortune += int64(snap.Fortune)
		totalGain += snap.ExpGain
		if snap.Fortune > stats.MaxFortune {
			stats.MaxFortune = snap.Fortune
		}
		if snap.Fortune < stats.MinFortune {
			stats.MinFortune = snap.Fortune
		}
	}

	if stats.Count == 0 {
		return &TodayStats{}, nil
	}
	stats.AvgFortune = int(math.Round(float64(totalFortune) / float64(stats.Count)))
	stats.AvgExpGain = int64(math.Round(float64(totalGain) / float64(stats.Count)))
	return stats, nil
}

// RankingFor строит глобальный рейтинг: топ-10 по опыту (при равенстве —
// по числу отметок) плюс место запросившего, если он ниже топа.
func (s *Service) RankingFor(ctx context.Context, callerID int64) (*Ranking, error) {
	records, err := s.store.ListRecords(ctx)
	if err != nil {
		return nil, fmt.Errorf("ошибка чтения записей: %w", err)
	}

	sort.SliceStable(records, func(i, j int) bool {
		if records[i].Experience != records[j].Experience {
			return records[i].Experience > records[j].Experience
		}
		return records[i].SignDays > records[j].SignDays
	})

	ranking := &Ranking{}
	for i, rec := range records {
		ranked := RankedUser{
			UserID:          rec.UserID,
			Experience:      rec.Experience,
			SignDays:        rec.SignDays,
			ConsecutiveDays: rec.ConsecutiveDays,
			Level:           s.tables.LevelFor(rec.Experience),
		}
		if i < 10 {
			ranking.Top = append(ranking.Top, ranked)
		}
		if rec.UserID == callerID {
			ranking.CallerRank = i + 1
			callerCopy := ranked
			ranking.Caller = &callerCopy
		}
	}
	return ranking, nil
}

// ArchiveStale переносит в архив записи без отметок дольше порога
// (FORTUNE_ARCHIVE_DAYS, по умолчанию 60 дней). Возвращает число записей.
func (s *Service) ArchiveStale(ctx context.Context, now time.Time) (int, error) {
	cutoff := common.DateString(now.AddDate(0, 0, -s.cfg.FortuneArchiveDays))
	moved, err := s.store.ArchiveStaleBefore(ctx, cutoff)
	if err != nil {
		return 0, fmt.Errorf("ошибка архивирования: %w", err)
	}
	if moved > 0 {
		log.WithFields(log.Fields{"moved": moved, "cutoff": cutoff}).Info("Записи перенесены в архив")
	}
	return moved, nil
}

// PurgeOldSnapshots удаляет снимки прошлых дней.
// Снимок нужен ровно один день — как признак отметки и источник карточки.
func (s *Service) PurgeOldSnapshots(ctx context.Context, now time.Time) (int, error) {
	deleted, err := s.store.DeleteSnapshotsBefore(ctx, common.DateString(now))
	if err != nil {
		return 0, fmt.Errorf("ошибка очистки снимков: %w", err)
	}
	if deleted > 0 {
		log.WithField("deleted", deleted).Info("Старые снимки удалены")
	}
	return deleted, nil
}

// resolveRecord возвращает запись пользователя:
// основное хранилище → архив → нулевая запись (первая отметка).
// Повреждённые данные (не «не найдено») — жёсткая ошибка операции.
func (s *Service) resolveRecord(ctx context.Context, userID int64) (*UserRecord, error) {
	rec, err := s.store.GetRecord(ctx, userID)
	if err == nil {
		rec.LastSignDate = common.NormalizeDate(rec.LastSignDate)
		return rec, nil
	}
	if !errors.Is(err, common.ErrRecordNotFound) {
		return nil, fmt.Errorf("ошибка чтения записи: %w", err)
	}

	restored, err := s.store.RestoreFromArchive(ctx, userID)
	if err == nil {
		log.WithField("user_id", userID).Info("Запись восстановлена из архива")
		restored.LastSignDate = common.NormalizeDate(restored.LastSignDate)
		return restored, nil
	}
	if !errors.Is(err, common.ErrRecordNotFound) {
		return nil, fmt.Errorf("ошибка восстановления из архива: %w", err)
	}

	log.WithField("user_id", userID).Info("Новый пользователь")
	return &UserRecord{UserID: userID}, nil
}

// expGain считает начисление опыта за отметку.
// Потолок действует на сумму (удача + база); бонус за серию добавляется
// после потолка, поэтому итог может его превышать (100 удачи + серия = 210).
func (s *Service) expGain(fortune int64, consecutive bool) int64 {
	gain := fortune + s.cfg.FortuneExpBase
	if gain > s.cfg.FortuneExpMax {
		gain = s.cfg.FortuneExpMax
	}
	if consecutive {
		gain += int64(math.Floor(float64(gain) * s.cfg.FortuneStreakBonus))
	}
	return gain
}

// lockUser берёт замок конкретного пользователя и возвращает функцию снятия.
func (s *Service) lockUser(userID int64) func() {
	s.locksMu.Lock()
	mu, ok := s.locks[userID]
	if !ok {
		mu = &sync.Mutex{}
		s.locks[userID] = mu
	}
	s.locksMu.Unlock()

	mu.Lock()
	return mu.Unlock
}
