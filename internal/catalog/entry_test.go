package catalog

import (
	"strings"
	"testing"
)

func validEntry() *Entry {
	return &Entry{
		Title:     "Butterfly",
		Year:      1999,
		MediaFile: "upload-1",
		Series:    []string{"Digimon Adventure"},
		Tags: map[Category][]TagRef{
			CategoryLanguage: {{Name: "jpn"}},
			CategorySongType: {{Name: "OP"}},
			CategorySinger:   {{Name: "Wada Kouji"}},
		},
	}
}

func TestValidateAcceptsCompleteEntry(t *testing.T) {
	if violations := validEntry().Validate(); len(violations) != 0 {
		t.Fatalf("unexpected violations: %v", violations)
	}
}

func TestValidateCollectsAllViolations(t *testing.T) {
	entry := &Entry{Year: -3}
	violations := entry.Validate()
	if len(violations) < 4 {
		t.Fatalf("expected multiple violations, got %v", violations)
	}
	joined := strings.Join(violations, "; ")
	for _, want := range []string{"title", "media file", "series and singers", "year"} {
		if !strings.Contains(joined, want) {
			t.Errorf("violations missing %q: %s", want, joined)
		}
	}
}

func TestValidateRejectsCommaInTagName(t *testing.T) {
	entry := validEntry()
	entry.AddTag(CategoryCreator, "Toei, Animation")
	violations := entry.Validate()
	if len(violations) != 1 || !strings.Contains(violations[0], "comma") {
		t.Fatalf("expected comma violation, got %v", violations)
	}
}

func TestValidateRejectsBadLanguageCode(t *testing.T) {
	entry := validEntry()
	entry.Tags[CategoryLanguage] = []TagRef{{Name: "japanese"}}
	violations := entry.Validate()
	if len(violations) != 1 || !strings.Contains(violations[0], "language code") {
		t.Fatalf("expected language violation, got %v", violations)
	}
}

func TestValidLocaleSpecialCodes(t *testing.T) {
	for _, code := range []string{"und", "mul", "zxx", "jpn", "eng", "fr"} {
		if !ValidLocale(code) {
			t.Errorf("ValidLocale(%q) = false, want true", code)
		}
	}
	for _, code := range []string{"", "x", "nope", "JAPANESE"} {
		if ValidLocale(code) {
			t.Errorf("ValidLocale(%q) = true, want false", code)
		}
	}
}

func TestNormalizeTrimsNames(t *testing.T) {
	entry := &Entry{
		Title:  "  Butterfly ",
		Series: []string{" Digimon Adventure ", "  "},
		Tags: map[Category][]TagRef{
			CategorySinger: {{Name: " Wada Kouji "}, {Name: "   "}},
		},
	}
	entry.Normalize()
	if entry.Title != "Butterfly" {
		t.Fatalf("title = %q", entry.Title)
	}
	if len(entry.Series) != 1 || entry.Series[0] != "Digimon Adventure" {
		t.Fatalf("series = %v", entry.Series)
	}
	if len(entry.Tags[CategorySinger]) != 1 || entry.Tags[CategorySinger][0].Name != "Wada Kouji" {
		t.Fatalf("singers = %v", entry.Tags[CategorySinger])
	}
}
