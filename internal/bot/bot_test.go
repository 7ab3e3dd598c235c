package bot

import (
	"reflect"
	"testing"
)

func TestParseCommand(t *testing.T) {
	parser := NewCommandParser()

	tests := []struct {
		text      string
		wantCmd   string
		wantArgs  []string
		isCommand bool
	}{
		{"!удача", "удача", nil, true},
		{".удача", "удача", nil, true},
		{"/start", "start", nil, true},
		{"!УДАЧА", "удача", nil, true},
		{"  !топ  ", "топ", nil, true},
		{"/login секрет123", "login", []string{"секрет123"}, true},
		{"удача", "", nil, false},
		{"просто текст", "", nil, false},
		{"!", "", nil, false},
		{"", "", nil, false},
	}
	for _, tt := range tests {
		cmd, args, ok := parser.ParseCommand(tt.text)
		if ok != tt.isCommand {
			t.Errorf("ParseCommand(%q) isCommand = %v, want %v", tt.text, ok, tt.isCommand)
			continue
		}
		if cmd != tt.wantCmd {
			t.Errorf("ParseCommand(%q) cmd = %q, want %q", tt.text, cmd, tt.wantCmd)
		}
		if !reflect.DeepEqual(args, tt.wantArgs) {
			t.Errorf("ParseCommand(%q) args = %v, want %v", tt.text, args, tt.wantArgs)
		}
	}
}
