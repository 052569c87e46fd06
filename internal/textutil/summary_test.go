package textutil

import "testing"

func TestSummarize(t *testing.T) {
	cases := []struct {
		text  string
		limit int
		want  string
	}{
		{"screen flicker", 8, "screen flicker"},
		{"one two three four five six seven eight", 8, "one two three four five six seven eight"},
		{"one two three four five six seven eight nine", 8, "one two three four five six seven eight..."},
		{"  spaced   out\ttext  here ", 2, "spaced out..."},
		{"", 8, ""},
		{"anything goes", 0, "anything goes"},
	}
	for _, tt := range cases {
		if got := Summarize(tt.text, tt.limit); got != tt.want {
			t.Fatalf("Summarize(%q, %d)=%q, want %q", tt.text, tt.limit, got, tt.want)
		}
	}
}

func TestTruncate(t *testing.T) {
	cases := []struct {
		text  string
		limit int
		want  string
	}{
		{"short", 30, "short"},
		{"exactly ten", 11, "exactly ten"},
		{"abcdefghij", 4, "abcd..."},
		{"привет мир", 6, "привет..."},
	}
	for _, tt := range cases {
		if got := Truncate(tt.text, tt.limit); got != tt.want {
			t.Fatalf("Truncate(%q, %d)=%q, want %q", tt.text, tt.limit, got, tt.want)
		}
	}
}
