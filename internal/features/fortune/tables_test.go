package fortune

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultTables_Valid(t *testing.T) {
	if err := DefaultTables().Validate(); err != nil {
		t.Fatalf("built-in tables must validate: %v", err)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		tables  *Tables
		wantErr bool
	}{
		{
			name:    "empty almanac rejected",
			tables:  &Tables{Events: nil},
			wantErr: true,
		},
		{
			name: "unsorted levels rejected",
			tables: &Tables{
				Levels: []LevelDefinition{{Exp: 0, Level: 1}, {Exp: 100, Level: 2}, {Exp: 100, Level: 3}},
				Events: []AlmanacEvent{{Name: "x", Good: "a", Bad: "b"}},
			},
			wantErr: true,
		},
		{
			name: "first level threshold must be zero",
			tables: &Tables{
				Levels: []LevelDefinition{{Exp: 50, Level: 1}},
				Events: []AlmanacEvent{{Name: "x", Good: "a", Bad: "b"}},
			},
			wantErr: true,
		},
		{
			name: "gap in fortune bands rejected",
			tables: &Tables{
				Bands:  []FortuneBand{{Range: [2]int{0, 49}}, {Range: [2]int{51, 100}}},
				Events: []AlmanacEvent{{Name: "x", Good: "a", Bad: "b"}},
			},
			wantErr: true,
		},
		{
			name: "bands must end at 100",
			tables: &Tables{
				Bands:  []FortuneBand{{Range: [2]int{0, 99}}},
				Events: []AlmanacEvent{{Name: "x", Good: "a", Bad: "b"}},
			},
			wantErr: true,
		},
		{
			name: "minimal valid tables",
			tables: &Tables{
				Levels: []LevelDefinition{{Exp: 0, Level: 1, Name: "один"}},
				Bands:  []FortuneBand{{Range: [2]int{0, 100}, Description: "день как день"}},
				Events: []AlmanacEvent{{Name: "x", Good: "a", Bad: "b"}},
			},
			wantErr: false,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.tables.Validate()
			if tt.wantErr && err == nil {
				t.Error("expected error, got nil")
			}
			if !tt.wantErr && err != nil {
				t.Errorf("unexpected error: %v", err)
			}
		})
	}
}

func TestLoadTables_EmptyDirUsesDefaults(t *testing.T) {
	tables := LoadTables("")
	if len(tables.Levels) == 0 || len(tables.Bands) == 0 || len(tables.Events) == 0 {
		t.Fatal("empty dir should fall back to built-in tables")
	}
}

func TestLoadTables_FromDir(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "levels.json", `[{"exp":0,"level":1,"name":"тест"}]`)
	writeFile(t, dir, "fortune.json", `[{"range":[0,100],"description":"тестовый день"}]`)
	writeFile(t, dir, "almanac.json", `[{"name":"тест","good":"хорошо","bad":"плохо"}]`)
	writeFile(t, dir, "greetings.json", `[{"range":[0,24],"message":"Привет-привет"}]`)

	tables := LoadTables(dir)
	if len(tables.Levels) != 1 || tables.Levels[0].Name != "тест" {
		t.Errorf("levels not loaded: %+v", tables.Levels)
	}
	if got := tables.Describe(50); got != "тестовый день" {
		t.Errorf("Describe = %q, want custom band", got)
	}
	if got := tables.GreetingFor(12); got != "Привет-привет" {
		t.Errorf("GreetingFor = %q, want custom greeting", got)
	}
}

func TestLoadTables_BrokenFileLeavesTableEmpty(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "fortune.json", `{не json`)
	writeFile(t, dir, "almanac.json", `[{"name":"тест","good":"хорошо","bad":"плохо"}]`)

	tables := LoadTables(dir)
	if len(tables.Bands) != 0 {
		t.Errorf("broken file should leave bands empty, got %+v", tables.Bands)
	}
	// Поиск по пустой таблице — сентинел, не паника
	if got := tables.Describe(50); got != UnknownFortune {
		t.Errorf("Describe on empty bands = %q, want sentinel", got)
	}
}

func TestGreetingFor(t *testing.T) {
	tables := DefaultTables()
	tests := []struct {
		hour int
		want string
	}{
		{0, "Доброй ночи"},
		{5, "Доброй ночи"},
		{6, "Доброе утро"},
		{11, "Доброе утро"},
		{12, "Добрый день"},
		{18, "Добрый вечер"},
		{23, "Добрый вечер"},
	}
	for _, tt := range tests {
		if got := tables.GreetingFor(tt.hour); got != tt.want {
			t.Errorf("GreetingFor(%d) = %q, want %q", tt.hour, got, tt.want)
		}
	}

	empty := &Tables{}
	if got := empty.GreetingFor(12); got != DefaultGreeting {
		t.Errorf("GreetingFor on empty table = %q, want %q", got, DefaultGreeting)
	}
}

func writeFile(t *testing.T, dir, name, content string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}
