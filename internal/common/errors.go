// Package common — errors.go определяет пользовательские ошибки,
// которые используются во всех модулях бота.
// Эти ошибки позволяют обработчикам различать типы проблем
// и отправлять пользователю понятные сообщения.
package common

import "errors"

// Ошибки хранилища удачи
var (
	// ErrRecordNotFound — накопительной записи пользователя нет
	// (ни в основном хранилище, ни в архиве)
	ErrRecordNotFound = errors.New("запись пользователя не найдена")
	// ErrSnapshotNotFound — снимка дня для пары (пользователь, дата) нет
	ErrSnapshotNotFound = errors.New("снимок дня не найден")
)

// Ошибки участников
var (
	// ErrUserNotFound — пользователь не найден в базе
	ErrUserNotFound = errors.New("пользователь не найден")
)

// Ошибки админки
var (
	// ErrWrongPassword — неверный пароль
	ErrWrongPassword = errors.New("неверный пароль")
	// ErrTooManyAttempts — слишком много неудачных попыток входа
	ErrTooManyAttempts = errors.New("слишком много попыток, подождите 1 час")
)
