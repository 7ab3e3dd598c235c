// Package render — template.go собирает HTML карточки дня.
// Карточка — самодостаточная страница без внешних ресурсов (кроме
// опциональных аватарки и фоновой картинки), чтобы рендер почти не
// зависел от сети.
package render

import (
	"bytes"
	"fmt"
	"html/template"
)

// CardData — всё, что нужно для отрисовки карточки дня.
type CardData struct {
	Greeting        string // Приветствие по времени суток
	DisplayName     string // Имя пользователя
	DateRu          string // Дата в формате 02.01.2006
	Fortune         int    // Удача дня 0–100
	FortuneDesc     string
	Level           int
	LevelName       string
	Experience      int64
	ExpGain         int64
	NextLevelExp    int64
	Progress        string // "42.0%"
	SignDays        int
	ConsecutiveDays int
	AlmanacGood     string
	AlmanacBad      string
	QuoteText       string
	QuoteAuthor     string
	AvatarURL       string // Пустая строка — без аватарки
	BackgroundURL   string // Пустая строка — градиентный фон
}

var cardTmpl = template.Must(template.New("card").Parse(`<!DOCTYPE html>
<html lang="ru">
<head>
<meta charset="utf-8">
<style>
  * { margin: 0; padding: 0; box-sizing: border-box; }
  body {
    width: 600px; height: 800px;
    font-family: "PT Sans", "Segoe UI", sans-serif;
    color: #fff;
    {{if .BackgroundURL}}background: url('{{.BackgroundURL}}') center/cover;{{else}}background: linear-gradient(160deg, #2b1055, #7597de);{{end}}
  }
  .card { width: 100%; height: 100%; padding: 36px 40px; background: rgba(0,0,0,.35); display: flex; flex-direction: column; }
  .greeting { font-size: 26px; }
  .avatar { width: 72px; height: 72px; border-radius: 50%; float: right; border: 2px solid rgba(255,255,255,.6); }
  .name { font-size: 32px; font-weight: bold; margin-top: 4px; }
  .date { font-size: 18px; opacity: .8; margin-top: 2px; }
  .fortune { margin-top: 28px; text-align: center; }
  .fortune .score { font-size: 96px; font-weight: bold; line-height: 1; }
  .fortune .desc { font-size: 28px; margin-top: 6px; }
  .level { margin-top: 26px; font-size: 20px; }
  .bar { margin-top: 8px; height: 14px; border-radius: 7px; background: rgba(255,255,255,.25); overflow: hidden; }
  .bar .fill { height: 100%; width: {{.Progress}}; background: #ffd86b; }
  .exp { font-size: 16px; opacity: .85; margin-top: 6px; }
  .almanac { margin-top: 26px; font-size: 19px; line-height: 1.5; }
  .almanac .good::before { content: "宜 "; color: #8fe38f; font-weight: bold; }
  .almanac .bad::before { content: "忌 "; color: #ff8f8f; font-weight: bold; }
  .streak { margin-top: 20px; font-size: 18px; opacity: .9; }
  .quote { margin-top: auto; font-size: 17px; font-style: italic; opacity: .85; }
  .quote .author { text-align: right; font-style: normal; margin-top: 4px; }
</style>
</head>
<body>
<div class="card">
  {{if .AvatarURL}}<img class="avatar" src="{{.AvatarURL}}" alt="">{{end}}
  <div class="greeting">{{.Greeting}},</div>
  <div class="name">{{.DisplayName}}</div>
  <div class="date">{{.DateRu}}</div>
  <div class="fortune">
    <div class="score">{{.Fortune}}</div>
    <div class="desc">{{.FortuneDesc}}</div>
  </div>
  <div class="level">Ур. {{.Level}} · {{.LevelName}}</div>
  <div class="bar"><div class="fill"></div></div>
  <div class="exp">Опыт: {{.Experience}} / {{.NextLevelExp}} (+{{.ExpGain}} сегодня)</div>
  <div class="almanac">
    <div class="good">{{.AlmanacGood}}</div>
    <div class="bad">{{.AlmanacBad}}</div>
  </div>
  <div class="streak">Отметок: {{.SignDays}} · серия {{.ConsecutiveDays}} подряд</div>
  <div class="quote">
    «{{.QuoteText}}»
    <div class="author">— {{.QuoteAuthor}}</div>
  </div>
</div>
</body>
</html>`))

// BuildHTML собирает HTML карточки из данных дня.
func BuildHTML(data *CardData) (string, error) {
	var buf bytes.Buffer
	if err := cardTmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("ошибка сборки шаблона карточки: %w", err)
	}
	return buf.String(), nil
}
