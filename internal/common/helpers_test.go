package common

import (
	"testing"
	"time"
)

func TestPluralizeDays(t *testing.T) {
	tests := []struct {
		n    int
		want string
	}{
		{1, "день"},
		{2, "дня"},
		{4, "дня"},
		{5, "дней"},
		{11, "дней"},
		{12, "дней"},
		{14, "дней"},
		{21, "день"},
		{22, "дня"},
		{25, "дней"},
		{100, "дней"},
		{101, "день"},
	}
	for _, tt := range tests {
		if got := PluralizeDays(tt.n); got != tt.want {
			t.Errorf("PluralizeDays(%d) = %q, want %q", tt.n, got, tt.want)
		}
	}
}

func TestPluralizePoints(t *testing.T) {
	tests := []struct {
		n    int64
		want string
	}{
		{1, "очко"},
		{2, "очка"},
		{5, "очков"},
		{11, "очков"},
		{21, "очко"},
		{111, "очков"},
		{150, "очков"},
		{200, "очков"},
		{210, "очков"},
	}
	for _, tt := range tests {
		if got := PluralizePoints(tt.n); got != tt.want {
			t.Errorf("PluralizePoints(%d) = %q, want %q", tt.n, got, tt.want)
		}
	}
}

func TestDateString(t *testing.T) {
	ts := time.Date(2025, 6, 1, 23, 59, 0, 0, time.UTC)
	if got := DateString(ts); got != "2025-06-01" {
		t.Errorf("DateString = %q, want 2025-06-01", got)
	}
}

func TestNormalizeDate(t *testing.T) {
	tests := []struct {
		raw  string
		want string
	}{
		{"2025-06-01", "2025-06-01"},
		{"2025/06/01", "2025-06-01"},
		{"2025/6/1", "2025-06-01"},
		{"2025-06-01 12:30:00", "2025-06-01"},
		{"  2025-06-01  ", "2025-06-01"},
		{"", ""},
		{"мусор", ""},
		{"2025-06", ""},
	}
	for _, tt := range tests {
		if got := NormalizeDate(tt.raw); got != tt.want {
			t.Errorf("NormalizeDate(%q) = %q, want %q", tt.raw, got, tt.want)
		}
	}
}

func TestMoscowTime(t *testing.T) {
	now := MoscowTime()
	_, offset := now.Zone()
	// Москва — UTC+3 без переходов
	if offset != 3*60*60 {
		t.Errorf("Moscow offset = %d seconds, want %d", offset, 3*60*60)
	}
}
