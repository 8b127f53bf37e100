package mediatools

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"math"
	"os"
	"os/exec"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
	"time"

	"karagen/internal/config"
	"karagen/internal/logging"
	"karagen/internal/services"
)

// FFmpeg implements Tooling by shelling out to the configured binaries.
type FFmpeg struct {
	ffmpegBin  string
	ffprobeBin string
	timeout    time.Duration
	logger     *slog.Logger
}

// NewFFmpeg builds the tooling from media configuration.
func NewFFmpeg(cfg *config.Config, logger *slog.Logger) *FFmpeg {
	return &FFmpeg{
		ffmpegBin:  cfg.Media.FFmpegBinary,
		ffprobeBin: cfg.Media.FFprobeBinary,
		timeout:    time.Duration(cfg.Media.TimeoutSeconds) * time.Second,
		logger:     logging.NewComponentLogger(logger, "mediatools"),
	}
}

func (f *FFmpeg) commandContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if f.timeout <= 0 {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, f.timeout)
}

func wrapTimeout(ctx context.Context, stage, operation, detail string, err error) error {
	if ctx.Err() != nil {
		return services.Wrap(services.ErrTimeout, stage, operation, detail, ctx.Err())
	}
	return services.Wrap(services.ErrIO, stage, operation, detail, err)
}

type probeFormat struct {
	Format struct {
		Duration string `json:"duration"`
		Size     string `json:"size"`
	} `json:"format"`
	Streams []struct {
		CodecType string `json:"codec_type"`
	} `json:"streams"`
}

// Probe measures duration and size via ffprobe and loudness gain via an
// ffmpeg replaygain pass.
func (f *FFmpeg) Probe(ctx context.Context, path string) (Probe, error) {
	ctx, cancel := f.commandContext(ctx)
	defer cancel()

	cmd := exec.CommandContext(ctx, f.ffprobeBin,
		"-v", "error", "-hide_banner", "-show_format", "-show_streams", "-of", "json", "--", path)
	output, err := cmd.CombinedOutput()
	if err != nil {
		return Probe{}, wrapTimeout(ctx, "probing", "ffprobe",
			fmt.Sprintf("%s: %s", path, strings.TrimSpace(string(output))), err)
	}
	var parsed probeFormat
	if err := json.Unmarshal(output, &parsed); err != nil {
		return Probe{}, services.Wrap(services.ErrIO, "probing", "ffprobe", path, err)
	}

	probe := Probe{
		DurationSeconds: int(math.Round(parseFloat(parsed.Format.Duration))),
		SizeBytes:       int64(parseFloat(parsed.Format.Size)),
	}
	if probe.SizeBytes == 0 {
		if info, err := os.Stat(path); err == nil {
			probe.SizeBytes = info.Size()
		}
	}

	gainCmd := exec.CommandContext(ctx, f.ffmpegBin,
		"-hide_banner", "-nostats", "-i", path, "-vn", "-af", "replaygain", "-f", "null", "-")
	gainOutput, err := gainCmd.CombinedOutput()
	if err != nil {
		return Probe{}, wrapTimeout(ctx, "probing", "ffmpeg replaygain", path, err)
	}
	probe.GainDB = parseTrackGain(string(gainOutput))
	return probe, nil
}

var trackGainPattern = regexp.MustCompile(`track_gain = ([+-]?\d+(?:\.\d+)?) dB`)

// parseTrackGain extracts the replaygain track gain from ffmpeg stderr.
// Missing output yields 0, which players treat as no adjustment.
func parseTrackGain(output string) float64 {
	m := trackGainPattern.FindStringSubmatch(output)
	if m == nil {
		return 0
	}
	gain, err := strconv.ParseFloat(m[1], 64)
	if err != nil {
		return 0
	}
	return gain
}

func parseFloat(value string) float64 {
	cleaned := strings.TrimSpace(value)
	if cleaned == "" {
		return 0
	}
	parsed, err := strconv.ParseFloat(cleaned, 64)
	if err != nil {
		return 0
	}
	return parsed
}

// ConvertToWebFormat remuxes src into dst with the moov atom up front.
// Streams are copied, not re-encoded.
func (f *FFmpeg) ConvertToWebFormat(ctx context.Context, src, dst string) error {
	ctx, cancel := f.commandContext(ctx)
	defer cancel()

	cmd := exec.CommandContext(ctx, f.ffmpegBin,
		"-y", "-hide_banner", "-nostats", "-i", src,
		"-movflags", "+faststart", "-acodec", "copy", "-vcodec", "copy", dst)
	if output, err := cmd.CombinedOutput(); err != nil {
		return wrapTimeout(ctx, "transcoding", "ffmpeg faststart",
			fmt.Sprintf("%s: %s", src, strings.TrimSpace(string(output))), err)
	}
	return nil
}

// ExtractSubtitles pulls the first subtitle track into a sidecar file next to
// the media, named from the entry identifier.
func (f *FFmpeg) ExtractSubtitles(ctx context.Context, mediaPath, entryID string) (string, error) {
	ctx, cancel := f.commandContext(ctx)
	defer cancel()

	hasTrack, err := f.hasSubtitleTrack(ctx, mediaPath)
	if err != nil {
		return "", err
	}
	if !hasTrack {
		return "", ErrNoSubtitles
	}

	outPath := filepath.Join(filepath.Dir(mediaPath), entryID+".ass")
	cmd := exec.CommandContext(ctx, f.ffmpegBin,
		"-y", "-hide_banner", "-nostats", "-i", mediaPath, "-map", "0:s:0", outPath)
	if output, err := cmd.CombinedOutput(); err != nil {
		return "", wrapTimeout(ctx, "transcoding", "ffmpeg subtitle extract",
			fmt.Sprintf("%s: %s", mediaPath, strings.TrimSpace(string(output))), err)
	}
	f.logger.Info("extracted embedded subtitles",
		logging.String("media", mediaPath),
		logging.String("subtitles", outPath),
	)
	return outPath, nil
}

func (f *FFmpeg) hasSubtitleTrack(ctx context.Context, path string) (bool, error) {
	cmd := exec.CommandContext(ctx, f.ffprobeBin,
		"-v", "error", "-hide_banner", "-show_streams", "-of", "json", "--", path)
	output, err := cmd.CombinedOutput()
	if err != nil {
		return false, wrapTimeout(ctx, "probing", "ffprobe streams",
			fmt.Sprintf("%s: %s", path, strings.TrimSpace(string(output))), err)
	}
	var parsed probeFormat
	if err := json.Unmarshal(output, &parsed); err != nil {
		return false, services.Wrap(services.ErrIO, "probing", "ffprobe streams", path, err)
	}
	for _, stream := range parsed.Streams {
		if strings.EqualFold(stream.CodecType, "subtitle") {
			return true, nil
		}
	}
	return false, nil
}
