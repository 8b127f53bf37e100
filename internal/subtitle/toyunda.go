package subtitle

import (
	"fmt"
	"regexp"
	"strings"

	"karagen/internal/services"
)

// Toyunda files carry frame-based timings at 25fps: each lyric line is
// prefixed with %startframe%, optionally %startframe%%endframe%. Syllable
// markers (& and |) are display hints and are stripped.
const toyundaFPS = 25.0

var toyundaTimed = regexp.MustCompile(`^%(\d+)%(?:%(\d+)%)?(.*)$`)

func convertToyunda(text string) (string, error) {
	var cues []cue
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		m := toyundaTimed.FindStringSubmatch(line)
		if m == nil {
			return "", services.Wrap(services.ErrSubtitleFormat, "converting", "toyunda",
				fmt.Sprintf("line %q has no frame marker", line), nil)
		}
		start := parseFrames(m[1])
		end := start
		if m[2] != "" {
			end = parseFrames(m[2])
		}
		cues = append(cues, cue{start: start, end: end, text: stripToyundaMarkers(m[3])})
	}
	if len(cues) == 0 {
		return "", services.Wrap(services.ErrSubtitleFormat, "converting", "toyunda", "no timed lines", nil)
	}
	// Lines with no explicit end run until the next line starts.
	for i := range cues {
		if cues[i].end > cues[i].start {
			continue
		}
		if i+1 < len(cues) {
			cues[i].end = cues[i+1].start
		} else {
			cues[i].end = cues[i].start + 4
		}
	}
	return renderASS(cues), nil
}

func parseFrames(digits string) float64 {
	var frames int
	for _, r := range digits {
		frames = frames*10 + int(r-'0')
	}
	return float64(frames) / toyundaFPS
}

func stripToyundaMarkers(text string) string {
	return strings.NewReplacer("&", "", "|", "").Replace(text)
}
