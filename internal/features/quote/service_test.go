package quote

import "testing"

func TestDecodeResponse(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		wantText   string
		wantAuthor string
		wantErr    bool
	}{
		{
			name:       "normal response",
			body:       `{"quoteText":"Всё проходит.","quoteAuthor":"Соломон"}`,
			wantText:   "Всё проходит.",
			wantAuthor: "Соломон",
		},
		{
			name:       "empty author gets placeholder",
			body:       `{"quoteText":"Без автора."}`,
			wantText:   "Без автора.",
			wantAuthor: "неизвестен",
		},
		{
			name:    "empty text rejected",
			body:    `{"quoteText":"","quoteAuthor":"кто-то"}`,
			wantErr: true,
		},
		{
			name:    "broken json rejected",
			body:    `{quoteText`,
			wantErr: true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q, err := decodeResponse([]byte(tt.body))
			if tt.wantErr {
				if err == nil {
					t.Error("expected error, got nil")
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if q.Text != tt.wantText || q.Author != tt.wantAuthor {
				t.Errorf("decoded %+v, want {%q %q}", q, tt.wantText, tt.wantAuthor)
			}
		})
	}
}

func TestDefaultQuotes(t *testing.T) {
	if len(DefaultQuotes) == 0 {
		t.Fatal("built-in quotes must not be empty")
	}
	for i, q := range DefaultQuotes {
		if q.Text == "" {
			t.Errorf("quote %d has empty text", i)
		}
		if q.Author != DefaultAuthor {
			t.Errorf("quote %d author = %q, want %q", i, q.Author, DefaultAuthor)
		}
	}
}
