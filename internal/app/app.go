// Package app инициализирует все компоненты приложения.
// app.go — точка сборки: создаёт БД-пул, репозитории, сервисы, обработчики,
// фильтры и собирает всё в один объект Bot.
package app

import (
	"context"
	"fmt"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	log "github.com/sirupsen/logrus"

	"serotonyl.ru/fortune-bot/internal/bot"
	"serotonyl.ru/fortune-bot/internal/bot/filters"
	"serotonyl.ru/fortune-bot/internal/config"
	"serotonyl.ru/fortune-bot/internal/db/postgres"
	"serotonyl.ru/fortune-bot/internal/features/admin"
	"serotonyl.ru/fortune-bot/internal/features/fortune"
	"serotonyl.ru/fortune-bot/internal/features/members"
	"serotonyl.ru/fortune-bot/internal/features/quote"
	"serotonyl.ru/fortune-bot/internal/jobs"
	"serotonyl.ru/fortune-bot/internal/render"
)

// App содержит все компоненты приложения.
type App struct {
	Bot       *bot.Bot
	Scheduler *jobs.Scheduler
	DB        *pgxpool.Pool
	BotAPI    *tgbotapi.BotAPI
}

// New создаёт и инициализирует приложение.
// Порядок инициализации важен — компоненты зависят друг от друга.
func New(ctx context.Context, cfg *config.Config) (*App, error) {
	// === 1. База данных ===
	pool, err := postgres.NewPool(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("ошибка подключения к БД: %w", err)
	}

	if err := runMigrations(ctx, pool); err != nil {
		return nil, fmt.Errorf("ошибка миграций: %w", err)
	}

	// === 2. Статические таблицы ===
	// LoadTables терпим к ошибкам: сломанный файл — пустая таблица и сентинелы
	tables := fortune.LoadTables(cfg.FortuneTablesDir)

	// === 3. Telegram Bot API ===
	botAPI, err := tgbotapi.NewBotAPI(cfg.TelegramBotToken)
	if err != nil {
		return nil, fmt.Errorf("ошибка создания Telegram API: %w", err)
	}
	botAPI.Debug = cfg.AppEnv == "development"
	log.Infof("Авторизован как @%s", botAPI.Self.UserName)

	// === 4. Репозитории ===
	memberRepo := members.NewRepository(pool)
	fortuneRepo := fortune.NewRepository(pool)
	quoteRepo := quote.NewRepository(pool)
	adminRepo := admin.NewRepository(pool)

	// === 5. Сервисы ===
	memberService := members.NewService(memberRepo)
	quoteService := quote.NewService(quoteRepo, cfg)
	fortuneService := fortune.NewService(fortuneRepo, tables, quoteService, cfg)
	adminService := admin.NewService(adminRepo, cfg)

	// === 6. Рендер карточек ===
	var renderer render.Renderer
	if cfg.FeatureRenderEnabled {
		renderer = render.NewChromeRenderer(cfg.RenderTimeout)
	}

	// === 7. Обработчики ===
	memberHandler := members.NewHandler(memberService)
	fortuneHandler := fortune.NewHandler(fortuneService, memberService, renderer, botAPI, cfg)
	quoteHandler := quote.NewHandler(quoteService, botAPI)
	adminHandler := admin.NewHandler(adminService, fortuneService, botAPI)

	// === 8. Фильтры ===
	chatFilter := filters.NewChatFilter(cfg.FloodChatID, memberService, botAPI)

	// === 9. Собираем бота ===
	b := bot.New(
		botAPI, cfg,
		memberService, memberHandler,
		fortuneHandler,
		quoteHandler,
		adminHandler,
		chatFilter,
	)

	// === 10. Планировщик задач ===
	scheduler := jobs.NewScheduler(fortuneService)

	return &App{
		Bot:       b,
		Scheduler: scheduler,
		DB:        pool,
		BotAPI:    botAPI,
	}, nil
}

// runMigrations выполняет все SQL-миграции.
func runMigrations(ctx context.Context, pool *pgxpool.Pool) error {
	if err := postgres.RunMigrations(ctx, pool, "migrations"); err != nil {
		return err
	}

	migrations := []struct {
		version int
		sql     string
	}{
		{1, migration001Members},
		{2, migration002Fortune},
		{3, migration003Quotes},
		{4, migration004Admin},
	}

	for _, m := range migrations {
		if err := postgres.ExecMigrationSQL(ctx, pool, m.version, m.sql); err != nil {
			return fmt.Errorf("миграция %d: %w", m.version, err)
		}
		log.Infof("Миграция %d применена", m.version)
	}

	return nil
}

// SQL-миграции встроены в код для упрощения деплоя.
// Также доступны как .sql файлы в папке migrations/.

var migration001Members = `
CREATE TABLE IF NOT EXISTS members (
    id BIGSERIAL PRIMARY KEY,
    user_id BIGINT UNIQUE NOT NULL,
    username VARCHAR(255),
    first_name VARCHAR(255) NOT NULL,
    last_name VARCHAR(255),
    joined_at TIMESTAMP DEFAULT NOW(),
    created_at TIMESTAMP DEFAULT NOW(),
    updated_at TIMESTAMP DEFAULT NOW()
);
CREATE INDEX IF NOT EXISTS idx_members_user_id ON members(user_id);
CREATE INDEX IF NOT EXISTS idx_members_username ON members(username);
`

var migration002Fortune = `
CREATE TABLE IF NOT EXISTS fortune_records (
    user_id BIGINT PRIMARY KEY,
    experience BIGINT NOT NULL DEFAULT 0,
    sign_days INTEGER NOT NULL DEFAULT 0,
    last_sign_date DATE,
    consecutive_days INTEGER NOT NULL DEFAULT 0,
    created_at TIMESTAMP DEFAULT NOW(),
    updated_at TIMESTAMP DEFAULT NOW()
);
CREATE INDEX IF NOT EXISTS idx_fortune_records_experience ON fortune_records(experience DESC);
CREATE INDEX IF NOT EXISTS idx_fortune_records_last_sign ON fortune_records(last_sign_date);

CREATE TABLE IF NOT EXISTS fortune_snapshots (
    user_id BIGINT NOT NULL,
    sign_date DATE NOT NULL,
    fortune INTEGER NOT NULL,
    fortune_desc VARCHAR(255) NOT NULL,
    level INTEGER NOT NULL,
    level_name VARCHAR(255) NOT NULL,
    experience BIGINT NOT NULL,
    exp_gain BIGINT NOT NULL,
    next_level_exp BIGINT NOT NULL,
    progress VARCHAR(16) NOT NULL,
    sign_days INTEGER NOT NULL,
    consecutive_days INTEGER NOT NULL,
    almanac_good TEXT NOT NULL,
    almanac_bad TEXT NOT NULL,
    quote_text TEXT NOT NULL DEFAULT '',
    quote_author TEXT NOT NULL DEFAULT '',
    created_at TIMESTAMP DEFAULT NOW(),
    PRIMARY KEY (user_id, sign_date)
);
CREATE INDEX IF NOT EXISTS idx_fortune_snapshots_date ON fortune_snapshots(sign_date);

CREATE TABLE IF NOT EXISTS fortune_archive (
    user_id BIGINT PRIMARY KEY,
    experience BIGINT NOT NULL DEFAULT 0,
    sign_days INTEGER NOT NULL DEFAULT 0,
    last_sign_date DATE,
    consecutive_days INTEGER NOT NULL DEFAULT 0,
    created_at TIMESTAMP DEFAULT NOW(),
    updated_at TIMESTAMP DEFAULT NOW(),
    archived_at TIMESTAMP DEFAULT NOW()
);
`

var migration003Quotes = `
CREATE TABLE IF NOT EXISTS quote_backup (
    id BIGSERIAL PRIMARY KEY,
    text TEXT NOT NULL,
    author TEXT NOT NULL DEFAULT '',
    created_at TIMESTAMP DEFAULT NOW(),
    UNIQUE (text, author)
);
`

var migration004Admin = `
CREATE TABLE IF NOT EXISTS admin_sessions (
    id BIGSERIAL PRIMARY KEY,
    user_id BIGINT,
    session_token VARCHAR(255) UNIQUE,
    authenticated_at TIMESTAMP DEFAULT NOW(),
    expires_at TIMESTAMP,
    last_activity TIMESTAMP DEFAULT NOW(),
    is_active BOOLEAN DEFAULT TRUE
);
CREATE INDEX IF NOT EXISTS idx_admin_sessions_user_id ON admin_sessions(user_id);
CREATE TABLE IF NOT EXISTS admin_login_attempts (
    id BIGSERIAL PRIMARY KEY,
    user_id BIGINT,
    attempt_time TIMESTAMP DEFAULT NOW(),
    success BOOLEAN DEFAULT FALSE
);
`
