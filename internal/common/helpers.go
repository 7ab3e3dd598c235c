// Package common содержит общие утилиты, используемые во всём проекте.
// Сюда входят: русская плюрализация, работа с датами и московским временем.
package common

import (
	"fmt"
	"math"
	"strings"
	"time"
)

// PluralizeDays возвращает правильную форму слова «день» для числа n.
//
// Правила:
//   - 1, 21, 31 → "день"
//   - 2-4, 22-24 → "дня"
//   - 5-20, 25-30 → "дней"
func PluralizeDays(n int) string {
	absN := int(math.Abs(float64(n)))
	lastDigit := absN % 10
	lastTwoDigits := absN % 100

	if lastDigit == 1 && lastTwoDigits != 11 {
		return "день"
	}
	if lastDigit >= 2 && lastDigit <= 4 && (lastTwoDigits < 12 || lastTwoDigits > 14) {
		return "дня"
	}
	return "дней"
}

// PluralizePoints возвращает правильную форму слова «очко» (опыта).
//
// Примеры:
//
//	PluralizePoints(1)   → "очко"
//	PluralizePoints(3)   → "очка"
//	PluralizePoints(100) → "очков"
func PluralizePoints(n int64) string {
	absN := int64(math.Abs(float64(n)))
	lastDigit := absN % 10
	lastTwoDigits := absN % 100

	if lastDigit == 1 && lastTwoDigits != 11 {
		return "очко"
	}
	if lastDigit >= 2 && lastDigit <= 4 && (lastTwoDigits < 12 || lastTwoDigits > 14) {
		return "очка"
	}
	return "очков"
}

// FormatExp форматирует количество опыта в читабельную строку.
// Пример: FormatExp(150) → "150 очков"
func FormatExp(exp int64) string {
	return fmt.Sprintf("%d %s", exp, PluralizePoints(exp))
}

// MoscowTime возвращает текущее время в часовом поясе Москвы (Europe/Moscow).
// Все «дни» системы удачи считаются по Москве.
func MoscowTime() time.Time {
	loc, err := time.LoadLocation("Europe/Moscow")
	if err != nil {
		// Если не удалось загрузить — используем UTC+3 вручную
		loc = time.FixedZone("MSK", 3*60*60)
	}
	return time.Now().In(loc)
}

// DateString форматирует дату в канонический вид YYYY-MM-DD.
// Именно эта строка входит в сиды генератора и ключи снимков.
func DateString(t time.Time) string {
	return t.Format("2006-01-02")
}

// ShortDate форматирует дату для карточки: "01/02" (месяц/день).
func ShortDate(t time.Time) string {
	return t.Format("01/02")
}

// FormatDateRu форматирует дату для сводок: "02.01.2006".
func FormatDateRu(t time.Time) string {
	return t.Format("02.01.2006")
}

// NormalizeDate приводит унаследованные форматы дат к YYYY-MM-DD.
// Понимает "YYYY/MM/DD" и хвост со временем ("2024-01-05 12:00" → "2024-01-05").
// Непригодная строка — пустой результат.
func NormalizeDate(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return ""
	}

	// Отрезаем время, если есть
	if i := strings.IndexByte(raw, ' '); i > 0 {
		raw = raw[:i]
	}

	sep := "-"
	if strings.Contains(raw, "/") {
		sep = "/"
	}
	parts := strings.Split(raw, sep)
	if len(parts) < 3 {
		return ""
	}

	var y, m, d int
	if _, err := fmt.Sscanf(fmt.Sprintf("%s %s %s", parts[0], parts[1], parts[2]), "%d %d %d", &y, &m, &d); err != nil {
		return ""
	}
	return fmt.Sprintf("%04d-%02d-%02d", y, m, d)
}
