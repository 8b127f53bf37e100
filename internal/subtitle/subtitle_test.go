package subtitle

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"karagen/internal/services"
)

const assSample = `[Script Info]
Title: Sample

[Events]
Format: Layer, Start, End, Style, Name, MarginL, MarginR, MarginV, Effect, Text
Dialogue: 0,0:00:01.00,0:00:03.00,Default,,0,0,0,,Hello
`

const toyundaSample = `%100%Hel&lo world
%250%%300%Second line
`

const ultrastarSample = `#TITLE:Sample
#BPM:120
#GAP:1000
: 0 4 10 Hel
: 4 4 10 lo
- 10
: 12 4 12 world
E
`

const karafunSample = `[General]
Title=Sample
Sync0=100,150,200
Text0=Hel/lo
Sync1=300,350,420
Text1=world
`

func TestDetect(t *testing.T) {
	cases := []struct {
		name string
		text string
		want Dialect
	}{
		{"native", assSample, DialectASS},
		{"toyunda", toyundaSample, DialectToyunda},
		{"ultrastar", ultrastarSample, DialectUltraStar},
		{"karafun", karafunSample, DialectKaraFun},
		{"plain text", "just some lyrics\nwith no timing", DialectUnknown},
		{"empty", "", DialectUnknown},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := Detect(tc.text); got != tc.want {
				t.Fatalf("Detect = %v, want %v", got, tc.want)
			}
		})
	}
}

func TestConvertToyunda(t *testing.T) {
	out, err := Convert(toyundaSample, DialectToyunda)
	if err != nil {
		t.Fatalf("Convert: %v", err)
	}
	if !strings.Contains(out, "[Script Info]") {
		t.Fatal("output is not native format")
	}
	// 100 frames at 25fps is 4 seconds; syllable markers stripped.
	if !strings.Contains(out, "Dialogue: 0,0:00:04.00,0:00:10.00,Default,,0,0,0,,Hello world") {
		t.Fatalf("first cue wrong:\n%s", out)
	}
	if !strings.Contains(out, "0:00:10.00,0:00:12.00,Default,,0,0,0,,Second line") {
		t.Fatalf("second cue wrong:\n%s", out)
	}
}

func TestConvertUltraStar(t *testing.T) {
	out, err := Convert(ultrastarSample, DialectUltraStar)
	if err != nil {
		t.Fatalf("Convert: %v", err)
	}
	// 120 BPM quarter beats: 0.125s per beat, gap 1s. First line is beats
	// 0..8 -> 1.00s..2.00s, broken at beat 10.
	if !strings.Contains(out, "Dialogue: 0,0:00:01.00,0:00:02.00,Default,,0,0,0,,Hello") {
		t.Fatalf("first cue wrong:\n%s", out)
	}
	if !strings.Contains(out, "0:00:02.50,0:00:03.00,Default,,0,0,0,,world") {
		t.Fatalf("second cue wrong:\n%s", out)
	}
}

func TestConvertUltraStarRequiresBPM(t *testing.T) {
	_, err := Convert("#TITLE:x\n: 0 4 10 hi\n", DialectUltraStar)
	if !errors.Is(err, services.ErrSubtitleFormat) {
		t.Fatalf("err = %v, want ErrSubtitleFormat", err)
	}
}

func TestConvertKaraFun(t *testing.T) {
	out, err := Convert(karafunSample, DialectKaraFun)
	if err != nil {
		t.Fatalf("Convert: %v", err)
	}
	if !strings.Contains(out, "Dialogue: 0,0:00:01.00,0:00:02.00,Default,,0,0,0,,Hello") {
		t.Fatalf("first cue wrong:\n%s", out)
	}
	if !strings.Contains(out, "0:00:03.00,0:00:04.20,Default,,0,0,0,,world") {
		t.Fatalf("second cue wrong:\n%s", out)
	}
}

func TestConvertUnknownDialect(t *testing.T) {
	_, err := Convert("whatever", DialectUnknown)
	if !errors.Is(err, services.ErrSubtitleFormat) {
		t.Fatalf("err = %v, want ErrSubtitleFormat", err)
	}
}

func TestNormalizeRewritesLegacyInPlace(t *testing.T) {
	path := filepath.Join(t.TempDir(), "lyrics")
	if err := os.WriteFile(path, []byte(toyundaSample), 0o644); err != nil {
		t.Fatal(err)
	}
	checksum, err := Normalize(path)
	if err != nil {
		t.Fatalf("Normalize: %v", err)
	}
	if checksum == "" {
		t.Fatal("empty checksum")
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if Detect(string(data)) != DialectASS {
		t.Fatal("file not rewritten to native format")
	}
	if Checksum(string(data)) != checksum {
		t.Fatal("checksum does not match rewritten content")
	}
}

func TestNormalizeKeepsNativeUntouched(t *testing.T) {
	path := filepath.Join(t.TempDir(), "lyrics")
	if err := os.WriteFile(path, []byte(assSample), 0o644); err != nil {
		t.Fatal(err)
	}
	checksum, err := Normalize(path)
	if err != nil {
		t.Fatalf("Normalize: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != assSample {
		t.Fatal("native file was modified")
	}
	if checksum != Checksum(assSample) {
		t.Fatal("checksum mismatch for native file")
	}
}

func TestNormalizeRejectsUnknown(t *testing.T) {
	path := filepath.Join(t.TempDir(), "lyrics")
	if err := os.WriteFile(path, []byte("plain text\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	_, err := Normalize(path)
	if !errors.Is(err, services.ErrSubtitleFormat) {
		t.Fatalf("err = %v, want ErrSubtitleFormat", err)
	}
}

func TestASSTimestamp(t *testing.T) {
	cases := []struct {
		seconds float64
		want    string
	}{
		{0, "0:00:00.00"},
		{1.5, "0:00:01.50"},
		{61.25, "0:01:01.25"},
		{3661.07, "1:01:01.07"},
		{-2, "0:00:00.00"},
	}
	for _, tc := range cases {
		if got := assTimestamp(tc.seconds); got != tc.want {
			t.Errorf("assTimestamp(%v) = %q, want %q", tc.seconds, got, tc.want)
		}
	}
}
