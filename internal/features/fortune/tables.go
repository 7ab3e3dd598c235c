// Package fortune — tables.go описывает статические таблицы:
// уровни опыта, диапазоны описаний удачи, события альманаха и приветствия.
//
// Таблицы собираются один раз на старте в неизменяемый объект Tables
// и передаются в сервис явно — никакого скрытого глобального кеша.
// Это же позволяет тестам подставлять синтетические таблицы.
package fortune

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	log "github.com/sirupsen/logrus"
)

// LevelDefinition — одна ступень таблицы уровней.
// Таблица отсортирована по Exp строго по возрастанию, первый порог — 0.
type LevelDefinition struct {
	Exp   int64  `json:"exp"`   // Порог опыта, с которого начинается уровень
	Level int    `json:"level"` // Номер уровня
	Name  string `json:"name"`  // Название уровня
}

// FortuneBand — диапазон значений удачи [Low, High] и его описание.
// Диапазоны не пересекаются и вместе покрывают [0, 100] без дыр.
type FortuneBand struct {
	Range       [2]int `json:"range"`       // [низ, верх] включительно
	Description string `json:"description"` // Текст для карточки
}

// AlmanacEvent — событие шуточного альманаха: что сегодня «стоит»
// и чего «не стоит» делать.
type AlmanacEvent struct {
	Name string `json:"name"` // Название события
	Good string `json:"good"` // Благоприятная трактовка
	Bad  string `json:"bad"`  // Неблагоприятная трактовка
}

// GreetingBand — приветствие для диапазона часов [From, To).
type GreetingBand struct {
	Range   [2]int `json:"range"`   // [час от, час до)
	Message string `json:"message"` // Текст приветствия
}

// Tables — неизменяемый набор всех статических таблиц.
type Tables struct {
	Levels    []LevelDefinition
	Bands     []FortuneBand
	Events    []AlmanacEvent
	Greetings []GreetingBand
}

// Сентинелы для «пустых» таблиц: бросок дня обязан завершиться,
// даже если конфигурация сломана (доступность важнее красоты текста).
const (
	UnknownFortune  = "неизвестная удача"
	UnknownActivity = "неизвестное событие——судьба молчит"
	UnknownLevel    = "без уровня"
	DefaultGreeting = "Привет"
)

// DefaultTables возвращает встроенные таблицы.
// Используются, когда каталог с JSON-файлами не задан.
func DefaultTables() *Tables {
	return &Tables{
		Levels:    defaultLevels,
		Bands:     defaultBands,
		Events:    defaultEvents,
		Greetings: defaultGreetings,
	}
}

// LoadTables читает таблицы из JSON-файлов каталога dir.
// Пустой dir — встроенные значения. Ошибка загрузки отдельного файла не
// останавливает бота: соответствующая таблица остаётся пустой, а поиски
// по ней возвращают сентинел.
func LoadTables(dir string) *Tables {
	if dir == "" {
		return DefaultTables()
	}

	t := &Tables{}
	loadTableFile(filepath.Join(dir, "levels.json"), &t.Levels)
	loadTableFile(filepath.Join(dir, "fortune.json"), &t.Bands)
	loadTableFile(filepath.Join(dir, "almanac.json"), &t.Events)
	loadTableFile(filepath.Join(dir, "greetings.json"), &t.Greetings)

	if err := t.Validate(); err != nil {
		log.WithError(err).Warn("Таблицы загружены с нарушениями, часть ответов будет заглушками")
	}
	return t
}

// loadTableFile читает один JSON-файл в dst. При ошибке dst не трогается.
func loadTableFile(path string, dst interface{}) {
	data, err := os.ReadFile(path)
	if err != nil {
		log.WithError(err).WithField("file", path).Error("Не удалось прочитать таблицу")
		return
	}
	if err := json.Unmarshal(data, dst); err != nil {
		log.WithError(err).WithField("file", path).Error("Не удалось разобрать таблицу")
	}
}

// Validate проверяет инварианты таблиц:
//   - уровни строго возрастают по порогу, первый порог 0;
//   - диапазоны удачи смежны и покрывают [0, 100] целиком;
//   - в альманахе есть хотя бы одно событие.
func (t *Tables) Validate() error {
	for i := 1; i < len(t.Levels); i++ {
		if t.Levels[i].Exp <= t.Levels[i-1].Exp {
			return fmt.Errorf("таблица уровней не отсортирована на позиции %d", i)
		}
	}
	if len(t.Levels) > 0 && t.Levels[0].Exp != 0 {
		return fmt.Errorf("первый порог уровней должен быть 0, а не %d", t.Levels[0].Exp)
	}

	if len(t.Bands) > 0 {
		if t.Bands[0].Range[0] != 0 {
			return fmt.Errorf("диапазоны удачи должны начинаться с 0")
		}
		for i := 1; i < len(t.Bands); i++ {
			if t.Bands[i].Range[0] != t.Bands[i-1].Range[1]+1 {
				return fmt.Errorf("разрыв в диапазонах удачи на позиции %d", i)
			}
		}
		if t.Bands[len(t.Bands)-1].Range[1] != 100 {
			return fmt.Errorf("диапазоны удачи должны заканчиваться на 100")
		}
	}

	if len(t.Events) == 0 {
		return fmt.Errorf("в альманахе нет ни одного события")
	}
	return nil
}

// GreetingFor возвращает приветствие для часа (0–23).
func (t *Tables) GreetingFor(hour int) string {
	for _, g := range t.Greetings {
		if hour >= g.Range[0] && hour < g.Range[1] {
			return g.Message
		}
	}
	return DefaultGreeting
}

// --- Встроенные значения ---

var defaultLevels = []LevelDefinition{
	{Exp: 0, Level: 1, Name: "Новичок"},
	{Exp: 300, Level: 2, Name: "Ученик"},
	{Exp: 900, Level: 3, Name: "Подмастерье"},
	{Exp: 1800, Level: 4, Name: "Странник"},
	{Exp: 3000, Level: 5, Name: "Искатель"},
	{Exp: 4500, Level: 6, Name: "Знаток"},
	{Exp: 6300, Level: 7, Name: "Мастер"},
	{Exp: 8400, Level: 8, Name: "Мудрец"},
	{Exp: 10800, Level: 9, Name: "Провидец"},
	{Exp: 13500, Level: 10, Name: "Легенда"},
}

var defaultBands = []FortuneBand{
	{Range: [2]int{0, 9}, Description: "Крайне неудачный день"},
	{Range: [2]int{10, 24}, Description: "Не лучший день"},
	{Range: [2]int{25, 39}, Description: "Слегка не везёт"},
	{Range: [2]int{40, 59}, Description: "Обычный день"},
	{Range: [2]int{60, 74}, Description: "Неплохо складывается"},
	{Range: [2]int{75, 89}, Description: "Удачный день"},
	{Range: [2]int{90, 98}, Description: "Очень удачный день"},
	{Range: [2]int{99, 100}, Description: "Невероятная удача!"},
}

var defaultEvents = []AlmanacEvent{
	{Name: "Разговоры", Good: "сказать то, что давно откладывал", Bad: "спорить по мелочам"},
	{Name: "Деньги", Good: "вернуть старый долг", Bad: "совершать крупные покупки"},
	{Name: "Дорога", Good: "пройтись пешком новым маршрутом", Bad: "опаздывать на транспорт"},
	{Name: "Еда", Good: "попробовать незнакомое блюдо", Bad: "переедать на ночь"},
	{Name: "Работа", Good: "закрыть давно висящую задачу", Bad: "брать новые обязательства"},
	{Name: "Друзья", Good: "написать тому, с кем давно не общался", Bad: "давать обещания"},
	{Name: "Сон", Good: "лечь пораньше", Bad: "листать ленту до утра"},
	{Name: "Учёба", Good: "выучить что-то бесполезное, но красивое", Bad: "откладывать на завтра"},
	{Name: "Техника", Good: "сделать резервную копию", Bad: "обновляться на свежий релиз"},
	{Name: "Погода", Good: "выйти на улицу без повода", Bad: "забывать зонт"},
	{Name: "Игры", Good: "позвать кого-то в кооператив", Bad: "ещё одну каточку перед сном"},
	{Name: "Дом", Good: "разобрать один ящик", Bad: "начинать генеральную уборку"},
}

var defaultGreetings = []GreetingBand{
	{Range: [2]int{0, 6}, Message: "Доброй ночи"},
	{Range: [2]int{6, 12}, Message: "Доброе утро"},
	{Range: [2]int{12, 18}, Message: "Добрый день"},
	{Range: [2]int{18, 24}, Message: "Добрый вечер"},
}
