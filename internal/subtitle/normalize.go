package subtitle

import (
	"fmt"
	"os"

	"karagen/internal/services"
)

// Convert translates text from the detected dialect into the native format.
// Native input passes through unchanged.
func Convert(text string, dialect Dialect) (string, error) {
	switch dialect {
	case DialectASS:
		return text, nil
	case DialectToyunda:
		return convertToyunda(text)
	case DialectUltraStar:
		return convertUltraStar(text)
	case DialectKaraFun:
		return convertKaraFun(text)
	default:
		return "", services.Wrap(services.ErrSubtitleFormat, "converting", "detect",
			"subtitle dialect not recognized", nil)
	}
}

// Normalize detects the dialect of the subtitle file at path, rewrites it in
// the native format in place when needed, and returns the content checksum of
// the normalized file. An unrecognized dialect is a hard failure.
func Normalize(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", services.Wrap(services.ErrIO, "normalizing", "subtitle", path, err)
	}
	text := string(data)
	dialect := Detect(text)
	if dialect == DialectUnknown {
		return "", services.Wrap(services.ErrSubtitleFormat, "normalizing", "subtitle",
			fmt.Sprintf("%s: dialect not recognized", path), nil)
	}
	converted, err := Convert(text, dialect)
	if err != nil {
		return "", err
	}
	if dialect != DialectASS {
		if err := os.WriteFile(path, []byte(converted), 0o644); err != nil {
			return "", services.Wrap(services.ErrIO, "normalizing", "subtitle", path, err)
		}
	}
	return Checksum(converted), nil
}
