package testsupport

import (
	"path/filepath"
	"testing"

	"karagen/internal/config"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*config.Config)

// NewConfig produces a config seeded with unique temp directories per test.
// It defaults common fields, applies any provided options, and creates the
// directory tree.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfg := config.Default()
	cfg.Paths.IntakeDir = filepath.Join(base, "intake")
	cfg.Paths.ImportDir = filepath.Join(base, "import")
	cfg.Paths.KarasDir = filepath.Join(base, "karas")
	cfg.Paths.MediasDir = filepath.Join(base, "medias")
	cfg.Paths.LyricsDir = filepath.Join(base, "lyrics")
	cfg.Paths.TagsDir = filepath.Join(base, "tags")
	cfg.Paths.SeriesDir = filepath.Join(base, "series")
	cfg.Paths.DataDir = filepath.Join(base, "data")
	cfg.Paths.LogDir = filepath.Join(base, "logs")

	for _, opt := range opts {
		opt(&cfg)
	}

	if err := cfg.EnsureDirectories(); err != nil {
		t.Fatalf("ensure directories: %v", err)
	}
	return &cfg
}

// WithRepository overrides the repository name on the test config.
func WithRepository(name string) ConfigOption {
	return func(cfg *config.Config) {
		cfg.Repository.Name = name
	}
}
