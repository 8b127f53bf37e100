package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/pelletier/go-toml/v2"
)

// Paths contains directory configuration for the ingestion pipeline.
type Paths struct {
	// IntakeDir receives raw uploads. Files here carry no extension; the
	// original filename travels with the ingest request.
	IntakeDir string `toml:"intake_dir"`
	// ImportDir is the working area staged copies live in until commit.
	ImportDir string `toml:"import_dir"`
	KarasDir  string `toml:"karas_dir"`
	MediasDir string `toml:"medias_dir"`
	LyricsDir string `toml:"lyrics_dir"`
	TagsDir   string `toml:"tags_dir"`
	SeriesDir string `toml:"series_dir"`
	// DataDir holds the identity directory index database.
	DataDir string `toml:"data_dir"`
	LogDir  string `toml:"log_dir"`
}

// Repository identifies the origin catalog stamped on generated records.
type Repository struct {
	Name string `toml:"name"`
}

// Media contains configuration for the external media tooling.
type Media struct {
	FFmpegBinary   string `toml:"ffmpeg_binary"`
	FFprobeBinary  string `toml:"ffprobe_binary"`
	TimeoutSeconds int    `toml:"timeout_seconds"`
}

// Logging contains configuration for log output.
type Logging struct {
	Format string `toml:"format"`
	Level  string `toml:"level"`
}

// Config encapsulates all configuration values for karagen.
type Config struct {
	Paths      Paths      `toml:"paths"`
	Repository Repository `toml:"repository"`
	Media      Media      `toml:"media"`
	Logging    Logging    `toml:"logging"`
}

// DefaultConfigPath returns the absolute path to the default configuration file location.
func DefaultConfigPath() (string, error) {
	return expandPath("~/.config/karagen/config.toml")
}

// Load locates, parses, and validates a configuration file. The returned config
// has all path fields expanded and normalized.
func Load(path string) (*Config, string, bool, error) {
	cfg := Default()

	resolvedPath, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}

	if exists {
		file, err := os.Open(resolvedPath)
		if err != nil {
			return nil, "", false, fmt.Errorf("open config: %w", err)
		}
		defer file.Close()

		decoder := toml.NewDecoder(file)
		if err := decoder.Decode(&cfg); err != nil {
			return nil, "", false, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := cfg.normalize(); err != nil {
		return nil, "", false, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}

	return &cfg, resolvedPath, exists, nil
}

func resolveConfigPath(path string) (string, bool, error) {
	if path != "" {
		expanded, err := expandPath(path)
		if err != nil {
			return "", false, err
		}
		if _, err := os.Stat(expanded); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return expanded, false, nil
			}
			return "", false, fmt.Errorf("stat config: %w", err)
		}
		return expanded, true, nil
	}

	defaultPath, err := DefaultConfigPath()
	if err != nil {
		return "", false, err
	}
	if info, err := os.Stat(defaultPath); err == nil && !info.IsDir() {
		return defaultPath, true, nil
	}
	return defaultPath, false, nil
}

// EnsureDirectories creates every configured directory. Creation is idempotent.
func (c *Config) EnsureDirectories() error {
	dirs := []string{
		c.Paths.IntakeDir,
		c.Paths.ImportDir,
		c.Paths.KarasDir,
		c.Paths.MediasDir,
		c.Paths.LyricsDir,
		c.Paths.TagsDir,
		c.Paths.SeriesDir,
		c.Paths.DataDir,
		c.Paths.LogDir,
	}
	for _, dir := range dirs {
		if dir == "" {
			continue
		}
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create directory %s: %w", dir, err)
		}
	}
	return nil
}

// WriteSample writes a commented sample configuration to path.
func WriteSample(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("ensure config directory: %w", err)
	}
	return os.WriteFile(path, []byte(sampleConfig), 0o644)
}
