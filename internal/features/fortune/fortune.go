// Package fortune — fortune.go превращает сид пользователя и даты
// в значение удачи дня и его описание.
package fortune

import (
	"fmt"
	"math"
)

// Score возвращает удачу дня в [0, 100] для пары (userID, date).
// Сид: "{userId}_{date}_fortune". Чистая функция: тот же день — тот же бросок.
func Score(userID int64, date string) int {
	seed := fmt.Sprintf("%d_%s_fortune", userID, date)
	value := SampleBeta(betaAlpha, betaBeta, seed)

	score := int(math.Round(value * 100))
	if score < 0 {
		score = 0
	}
	if score > 100 {
		score = 100
	}
	return score
}

// Describe возвращает описание для значения удачи.
// Бинарный поиск по смежным диапазонам; если таблица пуста или дырявая —
// сентинел, чтобы бросок всё равно завершился.
func (t *Tables) Describe(score int) string {
	left, right := 0, len(t.Bands)-1
	for left <= right {
		mid := (left + right) / 2
		band := t.Bands[mid]

		switch {
		case score >= band.Range[0] && score <= band.Range[1]:
			return band.Description
		case score < band.Range[0]:
			right = mid - 1
		default:
			left = mid + 1
		}
	}
	return UnknownFortune
}

// Almanac — пара «стоит / не стоит» на день.
type Almanac struct {
	Good string // "{событие}——{благоприятная трактовка}"
	Bad  string // "{событие}——{неблагоприятная трактовка}"
}

// AlmanacFor выбирает два РАЗНЫХ события альманаха для пары (userID, date).
//
// Сиды помечены версией (_v3), чтобы смена схемы выбора не пересекалась
// со старыми сидами. Неблагоприятное событие выбирается из списка индексов
// без благоприятного — при двух и более событиях совпадение невозможно.
// Единственное событие в таблице — вырожденный, но допустимый случай:
// обе строки берутся из него.
func (t *Tables) AlmanacFor(userID int64, date string) Almanac {
	n := len(t.Events)
	if n == 0 {
		return Almanac{Good: UnknownActivity, Bad: UnknownActivity}
	}

	if n == 1 {
		only := t.Events[0]
		return Almanac{
			Good: formatAlmanac(only.Name, only.Good),
			Bad:  formatAlmanac(only.Name, only.Bad),
		}
	}

	goodSeed := fmt.Sprintf("%d_%s_good_v3", userID, date)
	badSeed := fmt.Sprintf("%d_%s_bad_v3", userID, date)

	goodIndex := int(SeededUniform(goodSeed) * float64(n))
	if goodIndex >= n {
		goodIndex = n - 1
	}

	// Индексы всех событий, кроме выбранного благоприятного
	rest := make([]int, 0, n-1)
	for i := 0; i < n; i++ {
		if i != goodIndex {
			rest = append(rest, i)
		}
	}
	badPos := int(SeededUniform(badSeed) * float64(len(rest)))
	if badPos >= len(rest) {
		badPos = len(rest) - 1
	}
	badIndex := rest[badPos]

	return Almanac{
		Good: formatAlmanac(t.Events[goodIndex].Name, t.Events[goodIndex].Good),
		Bad:  formatAlmanac(t.Events[badIndex].Name, t.Events[badIndex].Bad),
	}
}

func formatAlmanac(name, activity string) string {
	return name + "——" + activity
}
