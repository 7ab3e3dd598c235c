// Package fortune — random.go реализует детерминированный генератор
// псевдослучайных чисел на основе строкового сида.
//
// Генератор — чистая функция без состояния: одинаковый сид всегда даёт
// одинаковый результат. Это требование всей системы удачи: бросок дня
// должен воспроизводиться из сида (userId + дата) после любого рестарта.
package fortune

import (
	"fmt"
	"math"
)

// Константы LCG (параметры Кнута, период 2^32).
const (
	lcgA = 1664525
	lcgC = 1013904223
	lcgM = 1 << 32
)

// Параметры Beta-распределения для броска удачи.
// Alpha и Beta по 2 — симметричная «горка»: середина вероятнее,
// но крайние значения выпадают с разумной частотой.
const (
	betaAlpha = 2.0
	betaBeta  = 2.0
)

// Максимум неудачных попыток сэмплера до детерминированного фолбэка.
// Ограничивает худший случай 201 вызовом генератора.
const betaMaxAttempts = 100

// SeededUniform возвращает число в [0, 1) из строкового сида.
//
// Алгоритм:
//  1. 32-битный скользящий хеш сида (вариант djb2: h = (h<<5) - h + символ),
//     с обёртыванием до uint32 на каждом шаге;
//  2. один шаг линейного конгруэнтного генератора: s = (A*h + C) mod 2^32;
//  3. s / 2^32.
func SeededUniform(seed string) float64 {
	var hash uint32
	for _, ch := range seed {
		// uint32-арифметика обёртывается сама — отдельная маска не нужна
		hash = (hash << 5) - hash + uint32(ch)
	}

	next := lcgA*hash + lcgC
	return float64(next) / float64(lcgM)
}

// SampleBeta возвращает число в [0, 1), распределённое как Beta(alpha, beta).
//
// Для alpha, beta > 1 используется преобразование отношения степеней двух
// независимых равномерных величин: x = u1^(1/alpha), y = u2^(1/beta),
// результат x/(x+y). Без accept/reject по настоящей случайности —
// иначе сломалась бы воспроизводимость по сиду.
//
// Если сумма x+y вырождается (< 1e-4), попытка повторяется с новым
// номером в сиде. После betaMaxAttempts неудач — детерминированный фолбэк.
func SampleBeta(alpha, beta float64, seed string) float64 {
	for attempt := 0; attempt < betaMaxAttempts; attempt++ {
		u1 := SeededUniform(fmt.Sprintf("%s_beta_u1_%d", seed, attempt))
		u2 := SeededUniform(fmt.Sprintf("%s_beta_u2_%d", seed, attempt))

		x := math.Pow(u1, 1/alpha)
		y := math.Pow(u2, 1/beta)

		if x+y > 0.0001 {
			return x / (x + y)
		}
	}

	return SeededUniform(seed + "_beta_fallback")
}
