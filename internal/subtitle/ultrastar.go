package subtitle

import (
	"fmt"
	"strconv"
	"strings"

	"karagen/internal/services"
)

// UltraStar files time notes in quarter beats against a #BPM header, offset
// by #GAP milliseconds. Note lines are ": beat length pitch syllable",
// line breaks are "- beat", golden/freestyle notes use "*" and "F".
func convertUltraStar(text string) (string, error) {
	bpm := 0.0
	gap := 0.0
	type note struct {
		beat   int
		length int
		text   string
	}
	var notes []note
	var breaks []int

	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(strings.TrimPrefix(line, "\uFEFF"))
		if line == "" {
			continue
		}
		switch {
		case strings.HasPrefix(line, "#BPM:"):
			value := strings.ReplaceAll(strings.TrimPrefix(line, "#BPM:"), ",", ".")
			if parsed, err := strconv.ParseFloat(strings.TrimSpace(value), 64); err == nil {
				bpm = parsed
			}
		case strings.HasPrefix(line, "#GAP:"):
			value := strings.ReplaceAll(strings.TrimPrefix(line, "#GAP:"), ",", ".")
			if parsed, err := strconv.ParseFloat(strings.TrimSpace(value), 64); err == nil {
				gap = parsed
			}
		case strings.HasPrefix(line, "#"):
			// Other headers carry no timing information.
		case line == "E":
			// End marker.
		case strings.HasPrefix(line, "- "):
			if beat, err := strconv.Atoi(strings.Fields(line)[1]); err == nil {
				breaks = append(breaks, beat)
			}
		case strings.HasPrefix(line, ": ") || strings.HasPrefix(line, "* ") || strings.HasPrefix(line, "F "):
			fields := strings.SplitN(line[2:], " ", 4)
			if len(fields) < 4 {
				continue
			}
			beat, errB := strconv.Atoi(strings.TrimSpace(fields[0]))
			length, errL := strconv.Atoi(strings.TrimSpace(fields[1]))
			if errB != nil || errL != nil {
				continue
			}
			notes = append(notes, note{beat: beat, length: length, text: fields[3]})
		}
	}

	if bpm <= 0 {
		return "", services.Wrap(services.ErrSubtitleFormat, "converting", "ultrastar", "missing or invalid #BPM header", nil)
	}
	if len(notes) == 0 {
		return "", services.Wrap(services.ErrSubtitleFormat, "converting", "ultrastar", "no note lines", nil)
	}

	beatSeconds := 60.0 / (bpm * 4)
	at := func(beat int) float64 { return gap/1000.0 + float64(beat)*beatSeconds }

	var cues []cue
	var current cue
	var parts []string
	nextBreak := 0
	// A line ends when its last note ends, not at the break beat itself.
	flush := func() {
		if len(parts) == 0 {
			return
		}
		current.text = strings.Join(parts, "")
		cues = append(cues, current)
		parts = nil
	}
	for _, n := range notes {
		for nextBreak < len(breaks) && breaks[nextBreak] <= n.beat {
			flush()
			nextBreak++
		}
		if len(parts) == 0 {
			current = cue{start: at(n.beat)}
		}
		parts = append(parts, n.text)
		current.end = at(n.beat + n.length)
	}
	flush()
	if len(cues) == 0 {
		return "", services.Wrap(services.ErrSubtitleFormat, "converting", "ultrastar",
			fmt.Sprintf("no lyric lines assembled from %d notes", len(notes)), nil)
	}
	return renderASS(cues), nil
}
