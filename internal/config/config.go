// Package config загружает конфигурацию бота из переменных окружения.
// Используется envconfig для маппинга переменных окружения на поля структуры.
package config

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// Config содержит ВСЕ настройки приложения.
type Config struct {
	// --- Telegram ---
	TelegramBotToken string `envconfig:"TELEGRAM_BOT_TOKEN" required:"true"`
	// ID чата, в котором бот работает (единственный разрешённый групповой чат)
	FloodChatID int64 `envconfig:"FLOOD_CHAT_ID" required:"true"`

	// --- Database ---
	// В Docker внутри контейнера "localhost" почти всегда неправильно.
	// Дефолт ставим "postgres" (имя сервиса в docker-compose), а для локалки переопределяй DB_HOST=localhost.
	DBHost     string `envconfig:"DB_HOST" default:"postgres"`
	DBPort     int    `envconfig:"DB_PORT" default:"5432"`
	DBUser     string `envconfig:"DB_USER" default:"botuser"`
	DBPassword string `envconfig:"DB_PASSWORD" required:"true"`
	DBName     string `envconfig:"DB_NAME" default:"fortune_bot"`
	DBSSLMode  string `envconfig:"DB_SSLMODE" default:"disable"`
	DBMaxConns int32  `envconfig:"DB_MAX_CONNS" default:"25"`
	DBMinConns int32  `envconfig:"DB_MIN_CONNS" default:"5"`

	// --- Application ---
	AppEnv      string `envconfig:"APP_ENV" default:"development"`
	AppLogLevel string `envconfig:"APP_LOG_LEVEL" default:"debug"`
	AppTimezone string `envconfig:"APP_TIMEZONE" default:"Europe/Moscow"`

	// --- Bot runtime ---
	// Сколько апдейтов обрабатываем параллельно. Иначе "go на каждый апдейт" = утечка памяти при флуде.
	BotMaxInflight int `envconfig:"BOT_MAX_INFLIGHT" default:"64"`
	// Таймаут long polling (секунды)
	BotUpdateTimeoutSeconds int `envconfig:"BOT_UPDATE_TIMEOUT_SECONDS" default:"60"`

	// --- Admin ---
	AdminPasswordHash string `envconfig:"ADMIN_PASSWORD_HASH" required:"true"`

	// --- Fortune ---
	// Базовое начисление опыта за отметку и потолок суммы (база + удача).
	// Бонус за серию добавляется ПОСЛЕ потолка — так задумано.
	FortuneExpBase     int64   `envconfig:"FORTUNE_EXP_BASE" default:"100"`
	FortuneExpMax      int64   `envconfig:"FORTUNE_EXP_MAX" default:"200"`
	FortuneStreakBonus float64 `envconfig:"FORTUNE_STREAK_BONUS" default:"0.05"`
	// Через сколько дней без отметок запись уезжает в архив
	FortuneArchiveDays int `envconfig:"FORTUNE_ARCHIVE_DAYS" default:"60"`
	// Каталог с JSON-таблицами (уровни, диапазоны, альманах, приветствия).
	// Пусто — встроенные таблицы.
	FortuneTablesDir string `envconfig:"FORTUNE_TABLES_DIR" default:""`

	// --- Quotes ---
	QuoteAPIURL  string        `envconfig:"QUOTE_API_URL" default:"https://api.forismatic.com/api/1.0/?method=getQuote&format=json&lang=ru"`
	QuoteTimeout time.Duration `envconfig:"QUOTE_TIMEOUT" default:"5s"`

	// --- Render ---
	RenderTimeout time.Duration `envconfig:"RENDER_TIMEOUT" default:"20s"`
	// URL фоновой картинки для карточки (подставляется в шаблон как есть)
	RenderBackgroundURL string `envconfig:"RENDER_BACKGROUND_URL" default:""`

	// --- Rate Limiting ---
	RateLimitRequests int           `envconfig:"RATE_LIMIT_REQUESTS" default:"10"`
	RateLimitWindow   time.Duration `envconfig:"RATE_LIMIT_WINDOW" default:"1m"`

	// --- Feature Flags ---
	FeatureRenderEnabled bool `envconfig:"FEATURE_RENDER_ENABLED" default:"true"`
	FeatureQuotesEnabled bool `envconfig:"FEATURE_QUOTES_ENABLED" default:"true"`
}

// DatabaseDSN возвращает строку подключения к PostgreSQL в формате DSN.
func (c *Config) DatabaseDSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.DBUser, c.DBPassword, c.DBHost, c.DBPort, c.DBName, c.DBSSLMode,
	)
}

func (c *Config) Validate() error {
	if c.FloodChatID == 0 {
		return fmt.Errorf("FLOOD_CHAT_ID не задан или равен 0")
	}
	if c.BotMaxInflight <= 0 {
		return fmt.Errorf("BOT_MAX_INFLIGHT должен быть > 0")
	}
	if c.BotUpdateTimeoutSeconds <= 0 {
		return fmt.Errorf("BOT_UPDATE_TIMEOUT_SECONDS должен быть > 0")
	}
	if c.DBMaxConns <= 0 || c.DBMinConns < 0 || c.DBMinConns > c.DBMaxConns {
		return fmt.Errorf("некорректные DB_MIN_CONNS/DB_MAX_CONNS")
	}
	if c.FortuneExpBase < 0 || c.FortuneExpMax < c.FortuneExpBase {
		return fmt.Errorf("некорректные FORTUNE_EXP_BASE/FORTUNE_EXP_MAX")
	}
	if c.FortuneStreakBonus < 0 || c.FortuneStreakBonus > 1 {
		return fmt.Errorf("FORTUNE_STREAK_BONUS должен быть в [0, 1]")
	}
	if c.FortuneArchiveDays <= 0 {
		return fmt.Errorf("FORTUNE_ARCHIVE_DAYS должен быть > 0")
	}
	return nil
}

// Load читает переменные окружения и заполняет структуру Config.
func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("не удалось загрузить конфигурацию: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}
