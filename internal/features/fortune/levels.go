// Package fortune — levels.go резолвит уровень по накопленному опыту.
package fortune

// LevelFor возвращает уровень для заданного опыта: наибольший порог,
// не превышающий exp. Бинарный поиск: правая граница сдвигается только
// при строго большем пороге, поэтому при равенстве берётся поздняя ступень.
// Пустая таблица — сентинел-уровень.
func (t *Tables) LevelFor(exp int64) LevelDefinition {
	if len(t.Levels) == 0 {
		return LevelDefinition{Exp: 0, Level: 0, Name: UnknownLevel}
	}

	result := t.Levels[0]
	left, right := 0, len(t.Levels)-1
	for left <= right {
		mid := (left + right) / 2
		if exp >= t.Levels[mid].Exp {
			result = t.Levels[mid]
			left = mid + 1
		} else {
			right = mid - 1
		}
	}
	return result
}

// NextLevelExp возвращает порог следующего уровня.
// На максимальном уровне следующей ступени нет — возвращается порог
// текущего уровня; прогресс в этом случае вырождается в 0/0,
// отображение обязано обработать его отдельно (см. ProgressPercent).
func (t *Tables) NextLevelExp(exp int64) int64 {
	current := t.LevelFor(exp)
	for _, lvl := range t.Levels {
		if lvl.Exp > current.Exp {
			return lvl.Exp
		}
	}
	return current.Exp
}

// ProgressPercent считает прогресс до следующего уровня в процентах [0, 100].
// Максимальный уровень (nextExp == порогу текущего) показывается как 100.
func (t *Tables) ProgressPercent(exp int64) float64 {
	current := t.LevelFor(exp)
	next := t.NextLevelExp(exp)

	if next == current.Exp {
		return 100
	}

	progress := float64(exp-current.Exp) / float64(next-current.Exp) * 100
	if progress < 0 {
		progress = 0
	}
	if progress > 100 {
		progress = 100
	}
	return progress
}
