package admin

import "testing"

func TestPanelCommand(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Архив", "архив"},       // кнопка клавиатуры
		{"!архив", "архив"},      // командный префикс
		{".чистка", "чистка"},
		{"/выход", "выход"},
		{"  !Панель  ", "панель"},
		{"админ", "админ"},
		{"", ""},
	}
	for _, tt := range tests {
		if got := panelCommand(tt.in); got != tt.want {
			t.Errorf("panelCommand(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
