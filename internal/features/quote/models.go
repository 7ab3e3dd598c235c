// Package quote управляет «цитатой дня» для карточки удачи.
// models.go описывает структуру цитаты и встроенный запасной список.
package quote

// Quote — одна цитата с автором.
type Quote struct {
	Text   string `json:"text"`
	Author string `json:"author"`
}

// DefaultAuthor — автор встроенных заглушек.
// Цитаты этого автора не сохраняются в резервную библиотеку.
const DefaultAuthor = "Фортуна-бот"

// DefaultQuotes — последний рубеж: используется, когда API недоступен
// и резервная библиотека пуста.
var DefaultQuotes = []Quote{
	{Text: "Это просто цитата.", Author: DefaultAuthor},
	{Text: "Не знаю, что сказать.", Author: DefaultAuthor},
	{Text: "Загадочно!", Author: DefaultAuthor},
	{Text: "Э-э-э???", Author: DefaultAuthor},
}
