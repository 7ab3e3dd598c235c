// Package fortune управляет системой ежедневной удачи: бросок дня,
// опыт и уровни, серия отметок, альманах.
// models.go описывает структуры данных.
package fortune

import "time"

// UserRecord — накопительная запись пользователя. Одна на пользователя.
// Опыт и счётчик отметок только растут; серия сбрасывается к 1 при разрыве
// (никогда к 0 после первой отметки).
type UserRecord struct {
	UserID          int64     `db:"user_id"`          // Telegram user ID
	Experience      int64     `db:"experience"`       // Накопленный опыт
	SignDays        int       `db:"sign_days"`        // Всего отметок
	LastSignDate    string    `db:"last_sign_date"`   // Дата последней отметки (YYYY-MM-DD), "" = никогда
	ConsecutiveDays int       `db:"consecutive_days"` // Текущая серия подряд
	CreatedAt       time.Time `db:"created_at"`
	UpdatedAt       time.Time `db:"updated_at"`
}

// DailySnapshot — зафиксированный результат дня. Одна запись на пару
// (пользователь, дата), после записи не меняется. Само её существование —
// признак «сегодня уже отмечался».
type DailySnapshot struct {
	UserID          int64     `db:"user_id"`
	SignDate        string    `db:"sign_date"` // YYYY-MM-DD
	Fortune         int       `db:"fortune"`   // Удача дня, 0–100
	FortuneDesc     string    `db:"fortune_desc"`
	Level           int       `db:"level"`      // Уровень на момент отметки
	LevelName       string    `db:"level_name"` //
	Experience      int64     `db:"experience"` // Опыт ПОСЛЕ начисления
	ExpGain         int64     `db:"exp_gain"`   // Сколько начислено за день
	NextLevelExp    int64     `db:"next_level_exp"`
	Progress        string    `db:"progress"` // "42.0%"
	SignDays        int       `db:"sign_days"`
	ConsecutiveDays int       `db:"consecutive_days"`
	AlmanacGood     string    `db:"almanac_good"`
	AlmanacBad      string    `db:"almanac_bad"`
	QuoteText       string    `db:"quote_text"`
	QuoteAuthor     string    `db:"quote_author"`
	CreatedAt       time.Time `db:"created_at"`
}

// StatsView — данные для команды !статы.
type StatsView struct {
	Record       *UserRecord
	Level        LevelDefinition
	NextLevelExp int64
	Progress     float64 // 0–100
}

// TodayStats — агрегат отметок за день (по чату или глобально).
type TodayStats struct {
	Count      int   // Сколько человек отметилось
	AvgFortune int   // Средняя удача
	MaxFortune int   // Максимальная удача
	MinFortune int   // Минимальная удача
	AvgExpGain int64 // Средний опыт за день (только глобальная сводка)
}

// RankedUser — строка рейтинга.
type RankedUser struct {
	UserID          int64
	Experience      int64
	SignDays        int
	ConsecutiveDays int
	Level           LevelDefinition
}

// Ranking — топ-10 плюс место запросившего, если он за пределами топа.
type Ranking struct {
	Top        []RankedUser
	CallerRank int         // 1-based; 0 = запросившего нет в рейтинге
	Caller     *RankedUser // nil, если нет записи
}
