// Package fortune — store.go описывает контракт хранилища.
//
// Сервису всё равно, где лежат записи: контракт — key-value поверх
// (userID) для накопительных записей и (userID, дата) для снимков дня.
// Боевая реализация — Postgres (repository.go), тесты используют
// хранилище в памяти.
package fortune

import "context"

// Store — операции персистентности системы удачи.
//
// Отсутствие записи — НЕ ошибка корректности данных: GetRecord и
// GetSnapshot возвращают common.ErrRecordNotFound / common.ErrSnapshotNotFound,
// и вызывающий решает, что это значит («новый пользователь», «ещё не
// отмечался»). Любая другая ошибка — повреждение или недоступность
// хранилища и наружу идёт как есть.
type Store interface {
	// GetRecord возвращает накопительную запись пользователя.
	GetRecord(ctx context.Context, userID int64) (*UserRecord, error)
	// SaveRecord создаёт или обновляет запись (upsert по userID).
	SaveRecord(ctx context.Context, rec *UserRecord) error
	// ListRecords возвращает все накопительные записи (для рейтинга).
	ListRecords(ctx context.Context) ([]*UserRecord, error)

	// GetSnapshot возвращает снимок дня для пары (userID, date).
	GetSnapshot(ctx context.Context, userID int64, date string) (*DailySnapshot, error)
	// SaveSnapshot записывает снимок дня. Снимок неизменяем: повторная
	// запись той же пары (userID, date) не должна происходить.
	SaveSnapshot(ctx context.Context, snap *DailySnapshot) error
	// ListSnapshotsByDate возвращает все снимки за дату (для сводок дня).
	ListSnapshotsByDate(ctx context.Context, date string) ([]*DailySnapshot, error)
	// DeleteSnapshotsBefore удаляет снимки старше даты, возвращает число удалённых.
	DeleteSnapshotsBefore(ctx context.Context, date string) (int, error)

	// RestoreFromArchive ищет пользователя в архиве и, если нашёл,
	// возвращает запись в основное хранилище. Отсутствие в архиве —
	// common.ErrRecordNotFound.
	RestoreFromArchive(ctx context.Context, userID int64) (*UserRecord, error)
	// ArchiveStaleBefore переносит в архив записи с последней отметкой
	// старше даты, возвращает число перенесённых.
	ArchiveStaleBefore(ctx context.Context, date string) (int, error)
}
