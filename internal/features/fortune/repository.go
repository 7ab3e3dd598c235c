// Package fortune — repository.go выполняет операции с таблицами
// fortune_records, fortune_snapshots и fortune_archive.
package fortune

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	log "github.com/sirupsen/logrus"

	"serotonyl.ru/fortune-bot/internal/common"
)

// Repository — боевая реализация Store поверх Postgres.
type Repository struct {
	db *pgxpool.Pool
}

// компилятор проверяет соответствие контракту
var _ Store = (*Repository)(nil)

// NewRepository создаёт новый репозиторий удачи.
func NewRepository(db *pgxpool.Pool) *Repository {
	return &Repository{db: db}
}

// GetRecord возвращает накопительную запись пользователя.
func (r *Repository) GetRecord(ctx context.Context, userID int64) (*UserRecord, error) {
	query := `
		SELECT user_id, experience, sign_days, last_sign_date, consecutive_days,
		       created_at, updated_at
		FROM fortune_records
		WHERE user_id = $1
	`
	rec, err := scanRecord(r.db.QueryRow(ctx, query, userID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, common.ErrRecordNotFound
		}
		return nil, fmt.Errorf("ошибка чтения записи (user_id=%d): %w", userID, err)
	}
	return rec, nil
}

// SaveRecord создаёт или обновляет запись пользователя.
func (r *Repository) SaveRecord(ctx context.Context, rec *UserRecord) error {
	query := `
		INSERT INTO fortune_records (user_id, experience, sign_days, last_sign_date, consecutive_days)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (user_id) DO UPDATE
		SET experience = $2, sign_days = $3, last_sign_date = $4,
		    consecutive_days = $5, updated_at = NOW()
	`
	_, err := r.db.Exec(ctx, query,
		rec.UserID, rec.Experience, rec.SignDays, dateParam(rec.LastSignDate), rec.ConsecutiveDays,
	)
	if err != nil {
		return fmt.Errorf("ошибка сохранения записи (user_id=%d): %w", rec.UserID, err)
	}
	return nil
}

// ListRecords возвращает все накопительные записи.
func (r *Repository) ListRecords(ctx context.Context) ([]*UserRecord, error) {
	query := `
		SELECT user_id, experience, sign_days, last_sign_date, consecutive_days,
		       created_at, updated_at
		FROM fortune_records
	`
	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("ошибка получения записей: %w", err)
	}
	defer rows.Close()

	return collectRecords(rows), rows.Err()
}

// GetSnapshot возвращает снимок дня.
func (r *Repository) GetSnapshot(ctx context.Context, userID int64, date string) (*DailySnapshot, error) {
	query := `
		SELECT user_id, sign_date, fortune, fortune_desc, level, level_name,
		       experience, exp_gain, next_level_exp, progress, sign_days,
		       consecutive_days, almanac_good, almanac_bad, quote_text,
		       quote_author, created_at
		FROM fortune_snapshots
		WHERE user_id = $1 AND sign_date = $2
	`
	snap, err := scanSnapshot(r.db.QueryRow(ctx, query, userID, date))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, common.ErrSnapshotNotFound
		}
		return nil, fmt.Errorf("ошибка чтения снимка (user_id=%d): %w", userID, err)
	}
	return snap, nil
}

// SaveSnapshot записывает снимок дня. Пара (user_id, sign_date) уникальна,
// повторная запись не меняет существующий снимок.
func (r *Repository) SaveSnapshot(ctx context.Context, snap *DailySnapshot) error {
	query := `
		INSERT INTO fortune_snapshots (user_id, sign_date, fortune, fortune_desc,
		                               level, level_name, experience, exp_gain,
		                               next_level_exp, progress, sign_days,
		                               consecutive_days, almanac_good, almanac_bad,
		                               quote_text, quote_author)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)
		ON CONFLICT (user_id, sign_date) DO NOTHING
	`
	_, err := r.db.Exec(ctx, query,
		snap.UserID, snap.SignDate, snap.Fortune, snap.FortuneDesc,
		snap.Level, snap.LevelName, snap.Experience, snap.ExpGain,
		snap.NextLevelExp, snap.Progress, snap.SignDays,
		snap.ConsecutiveDays, snap.AlmanacGood, snap.AlmanacBad,
		snap.QuoteText, snap.QuoteAuthor,
	)
	if err != nil {
		return fmt.Errorf("ошибка сохранения снимка (user_id=%d): %w", snap.UserID, err)
	}
	return nil
}

// ListSnapshotsByDate возвращает все снимки за дату.
func (r *Repository) ListSnapshotsByDate(ctx context.Context, date string) ([]*DailySnapshot, error) {
	query := `
		SELECT user_id, sign_date, fortune, fortune_desc, level, level_name,
		       experience, exp_gain, next_level_exp, progress, sign_days,
		       consecutive_days, almanac_good, almanac_bad, quote_text,
		       quote_author, created_at
		FROM fortune_snapshots
		WHERE sign_date = $1
	`
	rows, err := r.db.Query(ctx, query, date)
	if err != nil {
		return nil, fmt.Errorf("ошибка получения снимков за %s: %w", date, err)
	}
	defer rows.Close()

	return collectSnapshots(rows), rows.Err()
}

// DeleteSnapshotsBefore удаляет снимки старше даты.
func (r *Repository) DeleteSnapshotsBefore(ctx context.Context, date string) (int, error) {
	tag, err := r.db.Exec(ctx, `DELETE FROM fortune_snapshots WHERE sign_date < $1`, date)
	if err != nil {
		return 0, fmt.Errorf("ошибка удаления снимков: %w", err)
	}
	return int(tag.RowsAffected()), nil
}

// RestoreFromArchive переносит запись пользователя из архива обратно
// в основную таблицу. Перенос атомарный: либо запись снова в строю
// и удалена из архива, либо ничего не изменилось.
func (r *Repository) RestoreFromArchive(ctx context.Context, userID int64) (*UserRecord, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("ошибка начала транзакции: %w", err)
	}
	defer tx.Rollback(ctx)

	query := `
		SELECT user_id, experience, sign_days, last_sign_date, consecutive_days,
		       created_at, updated_at
		FROM fortune_archive
		WHERE user_id = $1
	`
	rec, err := scanRecord(tx.QueryRow(ctx, query, userID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, common.ErrRecordNotFound
		}
		return nil, fmt.Errorf("ошибка чтения архива (user_id=%d): %w", userID, err)
	}

	insert := `
		INSERT INTO fortune_records (user_id, experience, sign_days, last_sign_date, consecutive_days)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (user_id) DO NOTHING
	`
	if _, err := tx.Exec(ctx, insert,
		rec.UserID, rec.Experience, rec.SignDays, dateParam(rec.LastSignDate), rec.ConsecutiveDays,
	); err != nil {
		return nil, fmt.Errorf("ошибка восстановления записи (user_id=%d): %w", userID, err)
	}
	if _, err := tx.Exec(ctx, `DELETE FROM fortune_archive WHERE user_id = $1`, userID); err != nil {
		return nil, fmt.Errorf("ошибка удаления из архива (user_id=%d): %w", userID, err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("ошибка фиксации транзакции: %w", err)
	}
	return rec, nil
}

// ArchiveStaleBefore переносит в архив записи с последней отметкой
// старше даты (или вовсе без отметок, но старше по created_at).
func (r *Repository) ArchiveStaleBefore(ctx context.Context, date string) (int, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return 0, fmt.Errorf("ошибка начала транзакции: %w", err)
	}
	defer tx.Rollback(ctx)

	insert := `
		INSERT INTO fortune_archive (user_id, experience, sign_days, last_sign_date,
		                             consecutive_days, created_at, updated_at)
		SELECT user_id, experience, sign_days, last_sign_date,
		       consecutive_days, created_at, updated_at
		FROM fortune_records
		WHERE COALESCE(last_sign_date, created_at::date) < $1
		ON CONFLICT (user_id) DO UPDATE
		SET experience = EXCLUDED.experience, sign_days = EXCLUDED.sign_days,
		    last_sign_date = EXCLUDED.last_sign_date,
		    consecutive_days = EXCLUDED.consecutive_days,
		    updated_at = EXCLUDED.updated_at
	`
	if _, err := tx.Exec(ctx, insert, date); err != nil {
		return 0, fmt.Errorf("ошибка переноса в архив: %w", err)
	}

	tag, err := tx.Exec(ctx,
		`DELETE FROM fortune_records WHERE COALESCE(last_sign_date, created_at::date) < $1`, date)
	if err != nil {
		return 0, fmt.Errorf("ошибка удаления устаревших записей: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return 0, fmt.Errorf("ошибка фиксации транзакции: %w", err)
	}
	return int(tag.RowsAffected()), nil
}

// collectRecords собирает записи из результата запроса. Битая строка
// не роняет весь обход: она пропускается с записью в лог, агрегаты
// (!топ, !деньвсех) продолжают работать по остальным.
func collectRecords(rows pgx.Rows) []*UserRecord {
	var records []*UserRecord
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			log.WithError(err).WithField("user_id", rec.UserID).
				Warn("Битая строка fortune_records пропущена")
			continue
		}
		records = append(records, rec)
	}
	return records
}

// collectSnapshots собирает снимки из результата запроса, пропуская
// битые строки так же, как collectRecords.
func collectSnapshots(rows pgx.Rows) []*DailySnapshot {
	var snaps []*DailySnapshot
	for rows.Next() {
		snap, err := scanSnapshot(rows)
		if err != nil {
			log.WithError(err).WithField("user_id", snap.UserID).
				Warn("Битая строка fortune_snapshots пропущена")
			continue
		}
		snaps = append(snaps, snap)
	}
	return snaps
}

// scanRecord читает строку fortune_records / fortune_archive.
// last_sign_date хранится как DATE NULL; в модели — строка YYYY-MM-DD,
// пустая для пользователей без отметок. При ошибке возвращается
// частично заполненная запись (user_id читается первым).
func scanRecord(row pgx.Row) (*UserRecord, error) {
	var rec UserRecord
	var lastSign *time.Time
	err := row.Scan(
		&rec.UserID, &rec.Experience, &rec.SignDays, &lastSign,
		&rec.ConsecutiveDays, &rec.CreatedAt, &rec.UpdatedAt,
	)
	if err != nil {
		return &rec, err
	}
	if lastSign != nil {
		rec.LastSignDate = common.DateString(*lastSign)
	}
	return &rec, nil
}

// scanSnapshot читает строку fortune_snapshots. При ошибке возвращается
// частично заполненный снимок (user_id читается первым).
func scanSnapshot(row pgx.Row) (*DailySnapshot, error) {
	var snap DailySnapshot
	var signDate time.Time
	err := row.Scan(
		&snap.UserID, &signDate, &snap.Fortune, &snap.FortuneDesc,
		&snap.Level, &snap.LevelName, &snap.Experience, &snap.ExpGain,
		&snap.NextLevelExp, &snap.Progress, &snap.SignDays,
		&snap.ConsecutiveDays, &snap.AlmanacGood, &snap.AlmanacBad,
		&snap.QuoteText, &snap.QuoteAuthor, &snap.CreatedAt,
	)
	if err != nil {
		return &snap, err
	}
	snap.SignDate = common.DateString(signDate)
	return &snap, nil
}

// dateParam превращает строковую дату модели в параметр для колонки DATE.
// Пустая строка — NULL (отметок ещё не было).
func dateParam(date string) any {
	if date == "" {
		return nil
	}
	return date
}
