package karafile

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"karagen/internal/logging"
	"karagen/internal/services"
)

// Schema versions currently emitted. Readers reject files declaring a newer
// version; older versions load with defaulting applied.
const (
	TagFileVersion    = 1
	SeriesFileVersion = 3
	KaraFileVersion   = 4
	KaraMirrorVersion = 3
)

const (
	tagFileDescription    = "Karaoke Mugen Tag File"
	seriesFileDescription = "Karaoke Mugen Series File"
	karaFileDescription   = "Karaoke Mugen Karaoke Data File"
)

// DefaultRepository is stamped on records missing an origin catalog.
const DefaultRepository = "kara.moe"

// defaultModifiedAt is the sentinel timestamp for records predating
// modification tracking.
var defaultModifiedAt = time.Date(1982, time.April, 6, 0, 0, 0, 0, time.UTC)

// Header declares the schema version of a persisted document.
type Header struct {
	Description string `json:"description"`
	Version     int    `json:"version"`
}

// Codec reads and writes the versioned on-disk representations of catalog
// entities. A single codec instance covers all three formats so the kara
// dual-write (current + legacy mirror) stays behind one interface.
type Codec struct {
	logger *slog.Logger
}

// NewCodec constructs a codec. A nil logger suppresses warnings.
func NewCodec(logger *slog.Logger) *Codec {
	return &Codec{logger: logging.NewComponentLogger(logger, "karafile")}
}

func (c *Codec) checkVersion(kind string, found, supported int) error {
	if found > supported {
		return services.Wrap(services.ErrVersionTooNew, "reading", kind,
			fmt.Sprintf("file declares version %d, newest supported is %d", found, supported), nil)
	}
	return nil
}

func malformed(kind, path string, err error) error {
	return services.Wrap(services.ErrMalformed, "reading", kind, fmt.Sprintf("syntax error in %s", path), err)
}

func invalid(kind, path string, violations []string) error {
	return services.Wrap(services.ErrValidation, "reading", kind,
		fmt.Sprintf("%s: %s", path, strings.Join(violations, "; ")), nil)
}

// writeDocument marshals doc with indentation and sorted map keys so repeated
// writes of unchanged data are byte-identical.
func writeDocument(path string, doc any) error {
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return services.Wrap(services.ErrIO, "writing", "marshal", path, err)
	}
	data = append(data, '\n')
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return services.Wrap(services.ErrIO, "writing", "write file", path, err)
	}
	return nil
}

// parseTimestamp accepts both RFC3339 timestamps and bare dates, which older
// records carry.
func parseTimestamp(value string) (time.Time, bool) {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}, false
	}
	if ts, err := time.Parse(time.RFC3339, value); err == nil {
		return ts.UTC(), true
	}
	if ts, err := time.Parse("2006-01-02", value); err == nil {
		return ts.UTC(), true
	}
	return time.Time{}, false
}

func formatTimestamp(ts time.Time) string {
	return ts.UTC().Format(time.RFC3339)
}
