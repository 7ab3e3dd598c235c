package fortune

import (
	"strings"
	"testing"
)

func TestScore_RangeAndDeterminism(t *testing.T) {
	for i := int64(0); i < 5000; i++ {
		a := Score(i, "2025-06-01")
		b := Score(i, "2025-06-01")
		if a != b {
			t.Fatalf("Score(%d) not deterministic: %d != %d", i, a, b)
		}
		if a < 0 || a > 100 {
			t.Fatalf("Score(%d) = %d, want [0, 100]", i, a)
		}
	}
}

func TestScore_ChangesWithDate(t *testing.T) {
	same := 0
	const n = 1000
	for i := int64(0); i < n; i++ {
		if Score(i, "2025-06-01") == Score(i, "2025-06-02") {
			same++
		}
	}
	// Совпадения возможны (дискретная шкала 0..100), но не поголовно
	if same > n/3 {
		t.Errorf("score too stable across dates: %d of %d unchanged", same, n)
	}
}

func TestDescribe(t *testing.T) {
	tables := DefaultTables()

	tests := []struct {
		score int
		want  string
	}{
		{0, tables.Bands[0].Description},
		{100, tables.Bands[len(tables.Bands)-1].Description},
		{-1, UnknownFortune},
		{101, UnknownFortune},
	}
	for _, tt := range tests {
		if got := tables.Describe(tt.score); got != tt.want {
			t.Errorf("Describe(%d) = %q, want %q", tt.score, got, tt.want)
		}
	}

	// Каждое значение шкалы попадает ровно в одну полосу
	for score := 0; score <= 100; score++ {
		if got := tables.Describe(score); got == UnknownFortune {
			t.Errorf("Describe(%d) = %q, gap in bands", score, got)
		}
	}
}

func TestDescribe_EmptyTables(t *testing.T) {
	tables := &Tables{}
	if got := tables.Describe(50); got != UnknownFortune {
		t.Errorf("Describe on empty tables = %q, want %q", got, UnknownFortune)
	}
}

func TestAlmanacFor_GoodAndBadDistinct(t *testing.T) {
	tables := DefaultTables()
	for i := int64(0); i < 2000; i++ {
		a := tables.AlmanacFor(i, "2025-06-01")
		if a.Good == "" || a.Bad == "" {
			t.Fatalf("user %d: empty almanac entry: %+v", i, a)
		}
		goodName := strings.SplitN(a.Good, "——", 2)[0]
		badName := strings.SplitN(a.Bad, "——", 2)[0]
		if goodName == badName {
			t.Fatalf("user %d: good and bad picked the same event %q", i, goodName)
		}
	}
}

func TestAlmanacFor_Deterministic(t *testing.T) {
	tables := DefaultTables()
	for i := int64(0); i < 100; i++ {
		a := tables.AlmanacFor(i, "2025-06-01")
		b := tables.AlmanacFor(i, "2025-06-01")
		if a != b {
			t.Fatalf("user %d: almanac not deterministic: %+v != %+v", i, a, b)
		}
	}
}

func TestAlmanacFor_SingleEvent(t *testing.T) {
	tables := &Tables{
		Events: []AlmanacEvent{
			{Name: "спать", Good: "хорошо выспаться", Bad: "проспать всё"},
		},
	}
	a := tables.AlmanacFor(1, "2025-06-01")
	if !strings.HasPrefix(a.Good, "спать——") || !strings.HasPrefix(a.Bad, "спать——") {
		t.Errorf("degenerate table should reuse the only event: %+v", a)
	}
	if a.Good == a.Bad {
		t.Errorf("good and bad should use different activities: %+v", a)
	}
}

func TestAlmanacFor_EmptyTable(t *testing.T) {
	tables := &Tables{}
	a := tables.AlmanacFor(1, "2025-06-01")
	if a.Good != UnknownActivity || a.Bad != UnknownActivity {
		t.Errorf("empty table should return sentinels, got %+v", a)
	}
}

func TestAlmanacFor_Format(t *testing.T) {
	tables := DefaultTables()
	a := tables.AlmanacFor(42, "2025-06-01")
	for _, s := range []string{a.Good, a.Bad} {
		if !strings.Contains(s, "——") {
			t.Errorf("almanac entry %q missing name——activity separator", s)
		}
	}
}

func TestAlmanacFor_CoversAllEvents(t *testing.T) {
	tables := DefaultTables()
	seen := make(map[string]bool)
	for i := int64(0); i < 5000; i++ {
		a := tables.AlmanacFor(i, "2025-06-01")
		seen[strings.SplitN(a.Good, "——", 2)[0]] = true
	}
	if len(seen) < len(tables.Events) {
		t.Errorf("only %d of %d events ever picked as good", len(seen), len(tables.Events))
	}
}
