package subtitle

import (
	"sort"
	"strconv"
	"strings"

	"karagen/internal/services"
)

// KaraFun text exports are INI-like: SyncN= lines list syllable timings in
// centiseconds and TextN= lines carry the matching lyrics, one display line
// per entry. Syllables within a Text line are slash-separated.
func convertKaraFun(text string) (string, error) {
	syncs := make(map[int][]float64)
	texts := make(map[int]string)

	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "[") {
			continue
		}
		key, value, found := strings.Cut(line, "=")
		if !found {
			continue
		}
		switch {
		case strings.HasPrefix(key, "Sync"):
			index, err := strconv.Atoi(strings.TrimPrefix(key, "Sync"))
			if err != nil {
				continue
			}
			var times []float64
			for _, field := range strings.Split(value, ",") {
				centis, err := strconv.Atoi(strings.TrimSpace(field))
				if err != nil {
					continue
				}
				times = append(times, float64(centis)/100.0)
			}
			syncs[index] = times
		case strings.HasPrefix(key, "Text"):
			index, err := strconv.Atoi(strings.TrimPrefix(key, "Text"))
			if err != nil {
				continue
			}
			texts[index] = value
		}
	}

	if len(syncs) == 0 || len(texts) == 0 {
		return "", services.Wrap(services.ErrSubtitleFormat, "converting", "karafun", "missing Sync or Text entries", nil)
	}

	indexes := make([]int, 0, len(texts))
	for index := range texts {
		if len(syncs[index]) > 0 {
			indexes = append(indexes, index)
		}
	}
	sort.Ints(indexes)

	var cues []cue
	for _, index := range indexes {
		times := syncs[index]
		lyric := strings.ReplaceAll(texts[index], "/", "")
		start := times[0]
		end := times[len(times)-1]
		if end <= start {
			end = start + 4
		}
		cues = append(cues, cue{start: start, end: end, text: lyric})
	}
	if len(cues) == 0 {
		return "", services.Wrap(services.ErrSubtitleFormat, "converting", "karafun", "no timed lines", nil)
	}
	return renderASS(cues), nil
}
