package subtitle

import (
	"regexp"
	"strings"
)

// Dialect identifies the authoring format of a karaoke subtitle file.
type Dialect int

const (
	DialectUnknown Dialect = iota
	// DialectASS is the native format; files in it pass through unchanged.
	DialectASS
	DialectToyunda
	DialectUltraStar
	DialectKaraFun
)

func (d Dialect) String() string {
	switch d {
	case DialectASS:
		return "ass"
	case DialectToyunda:
		return "toyunda"
	case DialectUltraStar:
		return "ultrastar"
	case DialectKaraFun:
		return "karafun"
	default:
		return "unknown"
	}
}

var toyundaLine = regexp.MustCompile(`^%\d+%`)

// Detect inspects subtitle text and reports its dialect. Detection is
// structural, not extension-based, because the intake area strips extensions.
func Detect(text string) Dialect {
	trimmed := strings.TrimPrefix(text, "\uFEFF")
	switch {
	case strings.Contains(trimmed, "[Script Info]"):
		return DialectASS
	case strings.Contains(trimmed, "[General]") && strings.Contains(trimmed, "Sync0="):
		return DialectKaraFun
	}
	for _, line := range strings.Split(trimmed, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if toyundaLine.MatchString(line) {
			return DialectToyunda
		}
		if strings.HasPrefix(line, "#TITLE:") || strings.HasPrefix(line, "#BPM:") {
			return DialectUltraStar
		}
	}
	return DialectUnknown
}
