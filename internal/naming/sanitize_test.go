package naming

import "testing"

func TestSanitize(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want string
	}{
		{"passthrough", "JPN - Series - OP - Title", "JPN - Series - OP - Title"},
		{"diacritics", "Rômeo é Juliette", "Roumeo e Juliette"},
		{"long vowels", "Tôkyô û", "Toukyou uu"},
		{"symbol map", "Λucifer ×3", "Aucifer x3"},
		{"question mark", "Really?", "Really question_mark"},
		{"plus", "A+B", "A Plus B"},
		{"decorations", "Love☆Live! [TV]", "Love Live! TV"},
		{"path separators", "a/b\\c:d", "a b c d"},
		{"leading dot", ".hack//SIGN", "hack SIGN"},
		{"whitespace collapse", "a    b\tc", "a b c"},
		{"non ascii dropped", "テスト Title", "Title"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := Sanitize(tc.in); got != tc.want {
				t.Fatalf("Sanitize(%q) = %q, want %q", tc.in, got, tc.want)
			}
		})
	}
}

func TestSanitizeIdempotent(t *testing.T) {
	inputs := []string{"JPN - ☆Series☆ - OP1 - Tôkyô?", "plain name", "µ's Best Album"}
	for _, input := range inputs {
		once := Sanitize(input)
		twice := Sanitize(once)
		if once != twice {
			t.Errorf("Sanitize not idempotent for %q: %q vs %q", input, once, twice)
		}
	}
}
