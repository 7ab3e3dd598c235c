package render

import (
	"strings"
	"testing"
)

func TestBuildHTML(t *testing.T) {
	data := &CardData{
		Greeting:        "Добрый день",
		DisplayName:     "@tester",
		DateRu:          "01.06.2025",
		Fortune:         87,
		FortuneDesc:     "Удачный день",
		Level:           3,
		LevelName:       "Подмастерье",
		Experience:      1200,
		ExpGain:         187,
		NextLevelExp:    1800,
		Progress:        "33.3%",
		SignDays:        10,
		ConsecutiveDays: 4,
		AlmanacGood:     "Дорога——пройтись пешком новым маршрутом",
		AlmanacBad:      "Сон——листать ленту до утра",
		QuoteText:       "Всё проходит.",
		QuoteAuthor:     "Соломон",
	}

	html, err := BuildHTML(data)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	for _, want := range []string{
		"@tester", "87", "Удачный день", "Подмастерье",
		"width: 33.3%", "Дорога——пройтись пешком новым маршрутом",
		"Всё проходит.", "Соломон",
	} {
		if !strings.Contains(html, want) {
			t.Errorf("rendered HTML missing %q", want)
		}
	}

	// Без фона — градиент, не url()
	if strings.Contains(html, "url('") {
		t.Error("no background URL given, HTML should not reference url()")
	}
}

func TestBuildHTML_EscapesUserText(t *testing.T) {
	data := &CardData{
		DisplayName: `<script>alert(1)</script>`,
		QuoteText:   `"кавычки" & <теги>`,
	}
	html, err := BuildHTML(data)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if strings.Contains(html, "<script>alert(1)</script>") {
		t.Error("user text must be escaped")
	}
}

func TestBuildHTML_BackgroundURL(t *testing.T) {
	data := &CardData{BackgroundURL: "https://example.com/bg.png"}
	html, err := BuildHTML(data)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(html, "https://example.com/bg.png") {
		t.Error("background URL should appear in HTML")
	}
}

func TestBuildHTML_Avatar(t *testing.T) {
	withAvatar, err := BuildHTML(&CardData{AvatarURL: "https://example.com/ava.jpg"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(withAvatar, "https://example.com/ava.jpg") {
		t.Error("avatar URL should appear in HTML")
	}

	withoutAvatar, err := BuildHTML(&CardData{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if strings.Contains(withoutAvatar, "<img") {
		t.Error("no avatar given, HTML should not contain an img tag")
	}
}
