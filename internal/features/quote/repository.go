// Package quote — repository.go выполняет операции с таблицей quote_backup.
// Резервная библиотека пополняется удачными ответами API и служит
// первым ярусом фолбэка при его недоступности.
package quote

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"serotonyl.ru/fortune-bot/internal/common"
)

// Repository предоставляет методы для работы с таблицей quote_backup.
type Repository struct {
	db *pgxpool.Pool
}

// NewRepository создаёт новый репозиторий цитат.
func NewRepository(db *pgxpool.Pool) *Repository {
	return &Repository{db: db}
}

// SaveBackup добавляет цитату в резервную библиотеку.
// Дубликаты (та же пара текст+автор) молча пропускаются.
func (r *Repository) SaveBackup(ctx context.Context, q Quote) error {
	query := `
		INSERT INTO quote_backup (text, author)
		VALUES ($1, $2)
		ON CONFLICT (text, author) DO NOTHING
	`
	if _, err := r.db.Exec(ctx, query, q.Text, q.Author); err != nil {
		return fmt.Errorf("ошибка сохранения цитаты: %w", err)
	}
	return nil
}

// RandomBackup возвращает случайную цитату из резервной библиотеки.
// Пустая библиотека — common.ErrRecordNotFound.
func (r *Repository) RandomBackup(ctx context.Context) (Quote, error) {
	query := `SELECT text, author FROM quote_backup ORDER BY random() LIMIT 1`
	var q Quote
	err := r.db.QueryRow(ctx, query).Scan(&q.Text, &q.Author)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Quote{}, common.ErrRecordNotFound
		}
		return Quote{}, fmt.Errorf("ошибка чтения резервной цитаты: %w", err)
	}
	return q, nil
}

// Count возвращает размер резервной библиотеки.
func (r *Repository) Count(ctx context.Context) (int, error) {
	var n int
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM quote_backup`).Scan(&n); err != nil {
		return 0, fmt.Errorf("ошибка подсчёта цитат: %w", err)
	}
	return n, nil
}
