package subtitle

import (
	"fmt"
	"strings"

	"karagen/internal/fileutil"
)

// cue is one timed line of lyrics, converter-internal intermediate form.
type cue struct {
	start float64
	end   float64
	text  string
}

const assHeader = `[Script Info]
Title: Karaoke
ScriptType: v4.00+
WrapStyle: 0
ScaledBorderAndShadow: yes

[V4+ Styles]
Format: Name, Fontname, Fontsize, PrimaryColour, SecondaryColour, OutlineColour, BackColour, Bold, Italic, Underline, StrikeOut, ScaleX, ScaleY, Spacing, Angle, BorderStyle, Outline, Shadow, Alignment, MarginL, MarginR, MarginV, Encoding
Style: Default,Arial,24,&H00FFFFFF,&H000088EF,&H00000000,&H00666666,-1,0,0,0,100,100,0,0,1,1.5,0,2,20,20,20,1

[Events]
Format: Layer, Start, End, Style, Name, MarginL, MarginR, MarginV, Effect, Text
`

// renderASS emits a native subtitle document from timed cues.
func renderASS(cues []cue) string {
	var b strings.Builder
	b.WriteString(assHeader)
	for _, c := range cues {
		text := strings.TrimSpace(c.text)
		if text == "" {
			continue
		}
		fmt.Fprintf(&b, "Dialogue: 0,%s,%s,Default,,0,0,0,,%s\n",
			assTimestamp(c.start), assTimestamp(c.end), text)
	}
	return b.String()
}

// assTimestamp formats seconds as H:MM:SS.CC, the native timestamp form.
func assTimestamp(seconds float64) string {
	if seconds < 0 {
		seconds = 0
	}
	centis := int(seconds*100 + 0.5)
	h := centis / 360000
	centis %= 360000
	m := centis / 6000
	centis %= 6000
	s := centis / 100
	centis %= 100
	return fmt.Sprintf("%d:%02d:%02d.%02d", h, m, s, centis)
}

// Checksum returns the content hash recorded on entries for change detection.
func Checksum(text string) string {
	return fileutil.ChecksumBytes([]byte(text))
}
