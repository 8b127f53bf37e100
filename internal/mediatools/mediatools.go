// Package mediatools shells out to ffmpeg/ffprobe for media probing,
// web-format conversion, and embedded subtitle extraction. All behavior sits
// behind the Tooling interface so the orchestrator stays testable without
// the binaries installed.
package mediatools

import (
	"context"
	"errors"
)

// Probe carries the measured properties of a media file.
type Probe struct {
	DurationSeconds int
	GainDB          float64
	SizeBytes       int64
}

// ErrNoSubtitles reports that a container carries no extractable subtitle
// track. Callers treat it as an expected outcome, not a failure.
var ErrNoSubtitles = errors.New("no embedded subtitle track")

// Tooling is the media collaborator contract consumed by the orchestrator.
type Tooling interface {
	// Probe measures duration, loudness gain and size of the file at path.
	Probe(ctx context.Context, path string) (Probe, error)
	// ConvertToWebFormat re-encodes src into a web-friendly container at dst.
	ConvertToWebFormat(ctx context.Context, src, dst string) error
	// ExtractSubtitles pulls the first embedded subtitle track out of
	// mediaPath into a file named from entryID, returning its path or
	// ErrNoSubtitles.
	ExtractSubtitles(ctx context.Context, mediaPath, entryID string) (string, error)
}
